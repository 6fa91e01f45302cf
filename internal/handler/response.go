// Package handler exposes the HTTP surface of the application. Handlers
// decode requests, call into the service layer, and translate domain errors
// to HTTP status codes; they hold no business rules of their own.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/rafid/ideafeed/internal/apperror"
)

// ErrorResponse is the error shape every endpoint returns. Messages holds
// the individual violations when the error is an aggregate validation
// report; otherwise it is absent.
type ErrorResponse struct {
	Error    string   `json:"error"`
	Message  string   `json:"message"`
	Messages []string `json:"messages,omitempty"`
}

// writeJSON sends data with the given status. Headers must be set before the
// first body write, so the order here is fixed.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already gone; logging is all that is left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP response. The service layer
// speaks apperror sentinels; the translation to status codes lives only here.
func writeError(w http.ResponseWriter, err error) {
	var verr *apperror.ValidationErrors
	if errors.As(err, &verr) {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:    "validation_error",
			Message:  verr.Error(),
			Messages: verr.Messages(),
		})
		return
	}

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error. Never leak internals to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}

// listParams reads the optional limit/offset query parameters. Malformed or
// negative values fall back to zero; the repository applies its defaults.
func listParams(r *http.Request) (limit, offset int) {
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
