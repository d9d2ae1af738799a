package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind represents the category of an analysis failure
type Kind string

const (
	KindInvalidInput         Kind = "invalid_input"
	KindConfigurationMissing Kind = "configuration_missing"
	KindEmptyUpstreamContent Kind = "empty_upstream_content"
	KindMalformedJSON        Kind = "malformed_json"
	KindSchemaViolation      Kind = "schema_violation"
	KindUpstreamFailure      Kind = "upstream_failure"
	KindUnknown              Kind = "unknown"
)

// Issue is a single field-level schema diagnostic
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// AppError represents a structured application error
type AppError struct {
	Kind       Kind    `json:"kind"`
	Message    string  `json:"message"`
	Raw        string  `json:"raw,omitempty"`
	Issues     []Issue `json:"issues,omitempty"`
	StatusCode int     `json:"status_code"`
	Cause      error   `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// NewInvalidInputError creates an error for a rejected upload
func NewInvalidInputError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindInvalidInput,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Cause:      cause,
	}
}

// NewConfigurationError creates an error for a missing server setting
func NewConfigurationError(message string) *AppError {
	return &AppError{
		Kind:       KindConfigurationMissing,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
	}
}

// NewEmptyContentError creates an error for an upstream reply without content
func NewEmptyContentError(message string) *AppError {
	return &AppError{
		Kind:       KindEmptyUpstreamContent,
		Message:    message,
		StatusCode: http.StatusBadGateway,
	}
}

// NewMalformedJSONError creates an error for upstream text that is not JSON
func NewMalformedJSONError(message, raw string, cause error) *AppError {
	return &AppError{
		Kind:       KindMalformedJSON,
		Message:    message,
		Raw:        raw,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewSchemaViolationError creates an error for JSON that does not match the result schema
func NewSchemaViolationError(message string, issues []Issue) *AppError {
	return &AppError{
		Kind:       KindSchemaViolation,
		Message:    message,
		Issues:     issues,
		StatusCode: http.StatusBadGateway,
	}
}

// NewUpstreamError creates an error for a failed call to the inference provider
func NewUpstreamError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindUpstreamFailure,
		Message:    message,
		StatusCode: http.StatusBadGateway,
		Cause:      cause,
	}
}

// NewInternalError creates a new internal error
func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Kind:       KindUnknown,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// As extracts the AppError from an error chain
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindUnknown for foreign errors
func KindOf(err error) Kind {
	if appErr, ok := As(err); ok {
		return appErr.Kind
	}
	return KindUnknown
}

// IsKind checks if the error is of a specific kind
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// GetStatusCode extracts the HTTP status code from an error
func GetStatusCode(err error) int {
	if appErr, ok := As(err); ok {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
