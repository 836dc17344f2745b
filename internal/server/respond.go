package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jonathan/talent-tracker/internal/logger"
	"github.com/jonathan/talent-tracker/internal/pipeline"
	"github.com/jonathan/talent-tracker/internal/server/middleware"
	"github.com/jonathan/talent-tracker/internal/types"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 1 << 20

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string             `json:"error"`
	Fields []types.FieldError `json:"fields,omitempty"`
}

// newValidator returns a validator that reports JSON field names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.FromContext(r.Context()).Warn("failed to encode JSON response", logger.Error(err))
	}
}

// respondError maps err to a status and writes it. Internal errors are logged
// and replaced with a generic message.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(r.Context()).Error("request failed",
			logger.String("method", r.Method),
			logger.String("path", r.URL.Path),
			logger.Error(err),
		)
		respondJSON(w, r, status, errorBody{Error: "internal server error"})
		return
	}

	body := errorBody{Error: err.Error()}
	var ve *ErrValidation
	if errors.As(err, &ve) {
		body.Fields = ve.Fields
	}
	respondJSON(w, r, status, body)
}

// decodeJSON reads the request body into dst and validates it.
func decodeJSON(r *http.Request, v *validator.Validate, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return invalidField("body", "invalid request body")
	}
	if v == nil {
		return nil
	}
	if err := v.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// pathID parses a positive integer path parameter.
func pathID(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidField(name, fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return id, nil
}

// queryID parses an optional positive integer query parameter. Absent means 0.
func queryID(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, invalidField(name, fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return id, nil
}

// queryInt parses an optional integer query parameter, returning def when absent.
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, invalidField(name, fmt.Sprintf("invalid %s: %q", name, raw))
	}
	return n, nil
}

// currentUser returns the authenticated caller.
func currentUser(r *http.Request) (uuid.UUID, error) {
	userID, err := middleware.GetUserID(r)
	if err != nil {
		return uuid.Nil, &pipeline.ErrUnauthenticated{}
	}
	return userID, nil
}
