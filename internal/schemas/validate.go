// Package schemas provides JSON Schema validation for activity metadata.
package schemas

import (
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed activity/*.json
var activitySchemas embed.FS

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

var (
	compiledOnce sync.Once
	compiled     map[string]*gojsonschema.Schema
	compileErr   error
)

// loadActivitySchemas compiles every embedded activity schema, keyed by action.
func loadActivitySchemas() (map[string]*gojsonschema.Schema, error) {
	compiledOnce.Do(func() {
		entries, err := activitySchemas.ReadDir("activity")
		if err != nil {
			compileErr = &SchemaLoadError{Path: "activity", Message: "cannot list schemas", Cause: err}
			return
		}
		compiled = make(map[string]*gojsonschema.Schema, len(entries))
		for _, entry := range entries {
			path := "activity/" + entry.Name()
			raw, err := activitySchemas.ReadFile(path)
			if err != nil {
				compileErr = &SchemaLoadError{Path: path, Message: "cannot read schema", Cause: err}
				return
			}
			schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
			if err != nil {
				compileErr = &SchemaLoadError{Path: path, Message: "invalid schema", Cause: err}
				return
			}
			compiled[strings.TrimSuffix(entry.Name(), ".json")] = schema
		}
	})
	return compiled, compileErr
}

// ValidateActivityMetadata validates metadata against the schema registered
// for action. Actions without a schema accept any metadata.
func ValidateActivityMetadata(action string, metadata any) error {
	all, err := loadActivitySchemas()
	if err != nil {
		return err
	}
	schema, ok := all[action]
	if !ok {
		return nil
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	result, err := schema.Validate(gojsonschema.NewGoLoader(metadata))
	if err != nil {
		return &SchemaLoadError{
			Path:    action,
			Message: "metadata could not be loaded",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}
	return validationErr
}
