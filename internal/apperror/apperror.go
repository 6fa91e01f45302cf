// Package apperror defines the typed errors the service layer returns.
//
// Services never format presentation text and never pick HTTP status codes;
// they return one of these errors and the handler layer maps it with
// errors.Is / errors.As. The sentinels below are the taxonomy:
//
//	ErrValidation   → bad input (lengths, format, empty fields)
//	ErrUnauthorized → bad credentials
//	ErrForbidden    → acting on another user's resource
//	ErrNotFound     → referencing a nonexistent id
//	ErrConflict     → uniqueness violation surfaced to the caller
package apperror

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// AppError is a single typed failure with a human-readable message.
type AppError struct {
	Err     error  // sentinel this error wraps
	Message string // human-readable description
	Field   string // optional: input field that caused the error
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NotFound reports that no resource of the given kind has the given id.
func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

// ValidationFailed reports a single violated input rule.
func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Unauthorized reports failed authentication. Every failure mode carries
// the same message: "no such account", "duplicate account" and "wrong
// password" must stay indistinguishable to the caller.
func Unauthorized(message string) *AppError {
	return &AppError{
		Err:     ErrUnauthorized,
		Message: message,
	}
}

// Forbidden reports that the caller lacks permission on the resource.
func Forbidden(message string) *AppError {
	return &AppError{
		Err:     ErrForbidden,
		Message: message,
	}
}

// Conflict reports a uniqueness violation on the given resource.
func Conflict(resource, id string) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: fmt.Sprintf("%s conflict with id %s", resource, id),
	}
}

// ValidationErrors aggregates every violated rule from one validation pass.
//
// Registration reports all failures at once rather than stopping at the
// first, so the caller can surface the complete list to the user. It still
// unwraps to ErrValidation, so handlers map it exactly like a single
// validation failure.
type ValidationErrors struct {
	Violations []*AppError
}

func (e *ValidationErrors) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationErrors) Unwrap() error {
	return ErrValidation
}

// Messages returns the human-readable message of each violation, in the
// order the rules were checked.
func (e *ValidationErrors) Messages() []string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.Message
	}
	return msgs
}

// Add appends a violation.
func (e *ValidationErrors) Add(field, message string) {
	e.Violations = append(e.Violations, ValidationFailed(field, message))
}

// Empty reports whether the pass recorded no violations.
func (e *ValidationErrors) Empty() bool {
	return len(e.Violations) == 0
}
