// Package response provides JSON response helpers for the few
// machine-facing endpoints (health, rate limiting, guard rejections).
package response

import (
	"encoding/json"
	"net/http"

	weberrors "github.com/daybreakhq/daybreak/internal/pkg/errors"
)

// Response represents a standard response envelope.
type Response struct {
	Data  any `json:"data,omitempty"`
	Error any `json:"error,omitempty"`
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Response{Data: data}); err != nil {
		// Log error but can't do much else at this point
		http.Error(w, `{"error":{"kind":"internal","message":"Failed to encode response"}}`, http.StatusInternalServerError)
	}
}

// OK writes a 200 OK response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Error writes an error response.
func Error(w http.ResponseWriter, err error) {
	webErr := weberrors.AsWebError(err)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(webErr.StatusCode)
	json.NewEncoder(w).Encode(Response{Error: webErr})
}

// Forbidden writes a 403 response with no further detail.
func Forbidden(w http.ResponseWriter) {
	Error(w, weberrors.ErrForbidden)
}
