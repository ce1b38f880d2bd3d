// Package httpx provides helper functions for writing JSON HTTP responses.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/templui/userfiles/internal/service"
)

// JSON writes v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode json response", "error", err)
	}
}

// Error writes a JSON error response with the given status code and message.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Fail maps a service error to its status code and writes it.
// Unexpected errors are logged and reported without detail.
func Fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := StatusFor(err)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	Error(w, status, msg)
}

// StatusFor returns the status code and client-facing message for err.
func StatusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNotAuthenticated):
		return http.StatusUnauthorized, service.ErrNotAuthenticated.Error()
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusForbidden, service.ErrUnauthorized.Error()
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, service.ErrUserNotFound.Error()
	case errors.Is(err, service.ErrFileNotFound):
		return http.StatusNotFound, service.ErrFileNotFound.Error()
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrMissingUserRecord):
		return http.StatusInternalServerError, service.ErrMissingUserRecord.Error()
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// Decode reads a JSON request body into v, rejecting unknown fields.
func Decode(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	err := dec.Decode(v)
	if err != nil {
		return fmt.Errorf("%w: malformed request body: %w", service.ErrInvalidInput, err)
	}
	return nil
}
