// Package handler contains the HTTP handlers of the skate tracker API.
//
// HANDLER RESPONSIBILITIES:
//  1. Parse the incoming request (body, authenticated user id)
//  2. Call the service layer
//  3. Write the response envelope the mobile client expects
//
// Handlers hold no business rules. Every "is this allowed / valid" decision
// is made in package service and arrives here as an apperror value.
package handler

// RESPONSE HELPERS:
// Every error body has the same shape:
//
//	{"error": "Trick already added", "code": "conflict"}
//
// "error" is the human-readable message the client shows in its alert
// dialog; "code" is the stable machine-readable category.

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/skate-tracker/internal/apperror"
)

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	Field string `json:"field,omitempty"`
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must be written before the body.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent, so logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends it.
//
// errors.Is walks the whole chain, so a service error such as
//
//	fmt.Errorf("service/trick: adding trick 3 for user 1: %w", apperror.ConflictMessage(...))
//
// still maps to 409. Anything that is not an AppError is logged on logger
// and answered with a generic 500.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		code := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status, code = http.StatusBadRequest, "validation_error"
		case errors.Is(err, apperror.ErrAuth):
			status, code = http.StatusBadRequest, "invalid_credentials"
		case errors.Is(err, apperror.ErrForbidden):
			status, code = http.StatusForbidden, "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status, code = http.StatusNotFound, "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status, code = http.StatusConflict, "conflict"
		}

		if status != http.StatusInternalServerError {
			writeJSON(w, status, ErrorResponse{
				Error: appErr.Message,
				Code:  code,
				Field: appErr.Field,
			})
			return
		}
	}

	// Unknown error: the raw message may contain SQL or driver details, so
	// it goes to the log and the client gets a generic 500.
	logger.Error("unhandled error", slog.String("error", err.Error()))
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "An internal error occurred",
		Code:  "internal_error",
	})
}
