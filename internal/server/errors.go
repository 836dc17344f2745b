// Package server provides the HTTP REST API for the talent tracker.
package server

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/db"
	"github.com/jonathan/talent-tracker/internal/pipeline"
	"github.com/jonathan/talent-tracker/internal/types"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
}

func (e *ErrUserNotFound) Error() string {
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrNotFound indicates a requested record does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ErrConflict indicates a write that clashes with existing data
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Fields []types.FieldError
}

func (e *ErrValidation) Error() string {
	switch len(e.Fields) {
	case 0:
		return "validation failed"
	case 1:
		return e.Fields[0].Message
	default:
		msgs := make([]string, 0, len(e.Fields))
		for _, f := range e.Fields {
			msgs = append(msgs, f.Message)
		}
		return "validation failed: " + strings.Join(msgs, "; ")
	}
}

// invalidField builds a single-field validation error.
func invalidField(field, message string) *ErrValidation {
	return &ErrValidation{Fields: []types.FieldError{{Field: field, Message: message}}}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		emailExists   *ErrEmailAlreadyExists
		invalidCreds  *ErrInvalidCredentials
		pwMismatch    *ErrPasswordMismatch
		unauth        *pipeline.ErrUnauthenticated
		userNotFound  *ErrUserNotFound
		notFound      *ErrNotFound
		appNotFound   *pipeline.ErrApplicationNotFound
		validation    *ErrValidation
		statusMissing *pipeline.ErrStatusRequired
		conflict      *ErrConflict
		versionClash  *pipeline.ErrVersionConflict
		duplicate     *db.ErrDuplicate
		reference     *db.ErrReference
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validation), errors.As(err, &statusMissing):
		return http.StatusBadRequest
	case errors.As(err, &invalidCreds), errors.As(err, &pwMismatch), errors.As(err, &unauth):
		return http.StatusUnauthorized
	case errors.As(err, &userNotFound), errors.As(err, &notFound), errors.As(err, &appNotFound):
		return http.StatusNotFound
	case errors.As(err, &emailExists), errors.As(err, &conflict), errors.As(err, &versionClash),
		errors.As(err, &duplicate), errors.As(err, &reference):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// validationError converts validator output into an ErrValidation keyed by
// JSON field names.
func validationError(err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return &ErrValidation{Fields: []types.FieldError{{Field: "body", Message: "invalid request"}}}
	}
	fields := make([]types.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, types.FieldError{Field: fe.Field(), Message: fieldMessage(fe)})
	}
	return &ErrValidation{Fields: fields}
}

func fieldMessage(fe validator.FieldError) string {
	name := fe.Field()
	switch fe.Tag() {
	case "required":
		return name + " is required"
	case "email":
		return name + " must be a valid email address"
	case "url":
		return name + " must be a valid URL"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", name, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", name, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, fe.Param())
	case "nefield":
		return name + " must differ from the current value"
	default:
		return fmt.Sprintf("%s is invalid (%s)", name, fe.Tag())
	}
}

// referenceFields maps foreign keys checked on insert to request fields.
var referenceFields = map[string]string{
	"applications_candidate_id_fkey": "candidateId",
	"applications_job_id_fkey":       "jobId",
	"applications_assigned_to_fkey":  "assignedTo",
	"interviews_application_id_fkey": "applicationId",
	"interviews_interviewer_id_fkey": "interviewerId",
}

// missingReference turns an insert rejected by a known foreign key into a
// validation error on the offending field. Other errors pass through.
func missingReference(err error) error {
	var ref *db.ErrReference
	if errors.As(err, &ref) {
		if field, ok := referenceFields[ref.Constraint]; ok {
			return invalidField(field, field+" does not reference an existing record")
		}
	}
	return err
}
