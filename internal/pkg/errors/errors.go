// Package errors provides the web error taxonomy used across handlers.
package errors

import (
	"fmt"
	"net/http"
)

// Kind classifies an error by how the request should recover from it.
type Kind string

const (
	// KindValidation marks a field-level validation failure. Recoverable:
	// redisplay the form with a message, no state mutated.
	KindValidation Kind = "validation"
	// KindConflict marks a uniqueness conflict (duplicate email, duplicate
	// title). Recoverable: discard the write, clear the offending field.
	KindConflict Kind = "conflict"
	// KindAuth marks bad credentials, a bad one-time code, or missing
	// session state. Recoverable by resubmitting.
	KindAuth Kind = "auth"
	// KindForbidden marks a guard rejection. Terminal for the request.
	KindForbidden Kind = "forbidden"
	// KindDependency marks a failure of an external collaborator (mail
	// relay, store). Surfaced, never swallowed.
	KindDependency Kind = "dependency"
	// KindInternal marks everything else.
	KindInternal Kind = "internal"
)

// WebError is an error with a request-recovery classification and the
// HTTP status it maps to.
type WebError struct {
	Kind       Kind   `json:"kind"`
	Message    string `json:"message"`
	Field      string `json:"field,omitempty"`
	StatusCode int    `json:"-"`
}

// Error implements the error interface.
func (e *WebError) Error() string {
	return e.Message
}

// WithMessage returns a copy of the error with a custom message.
func (e *WebError) WithMessage(message string) *WebError {
	return &WebError{
		Kind:       e.Kind,
		Message:    message,
		Field:      e.Field,
		StatusCode: e.StatusCode,
	}
}

// Standard error definitions
var (
	// ErrForbidden is returned when a guard rejects the request.
	ErrForbidden = &WebError{
		Kind:       KindForbidden,
		Message:    "Forbidden",
		StatusCode: http.StatusForbidden,
	}

	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = &WebError{
		Kind:       KindInternal,
		Message:    "Resource not found",
		StatusCode: http.StatusNotFound,
	}

	// ErrRateLimited is returned when rate limits are exceeded.
	ErrRateLimited = &WebError{
		Kind:       KindAuth,
		Message:    "Too many requests. Please try again later.",
		StatusCode: http.StatusTooManyRequests,
	}

	// ErrInternal is returned for unexpected server errors.
	ErrInternal = &WebError{
		Kind:       KindInternal,
		Message:    "An internal error occurred",
		StatusCode: http.StatusInternalServerError,
	}
)

// NewValidationError creates a validation error for a specific field.
func NewValidationError(field, message string) *WebError {
	return &WebError{
		Kind:       KindValidation,
		Message:    message,
		Field:      field,
		StatusCode: http.StatusBadRequest,
	}
}

// NewConflictError creates a conflict error with a custom message.
func NewConflictError(field, message string) *WebError {
	return &WebError{
		Kind:       KindConflict,
		Message:    message,
		Field:      field,
		StatusCode: http.StatusConflict,
	}
}

// NewAuthError creates an authentication failure with a user-facing message.
func NewAuthError(message string) *WebError {
	return &WebError{
		Kind:       KindAuth,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

// NewDependencyError creates a dependency failure wrapping the transport error.
func NewDependencyError(component string, err error) *WebError {
	return &WebError{
		Kind:       KindDependency,
		Message:    fmt.Sprintf("%s is unavailable: %v", component, err),
		StatusCode: http.StatusServiceUnavailable,
	}
}

// IsKind reports whether err is a WebError of the given kind.
func IsKind(err error, kind Kind) bool {
	webErr, ok := err.(*WebError)
	return ok && webErr.Kind == kind
}

// AsWebError converts an error to a WebError if possible.
// Returns ErrInternal if the error is not a WebError.
func AsWebError(err error) *WebError {
	if webErr, ok := err.(*WebError); ok {
		return webErr
	}
	return ErrInternal
}
