package apperror

import (
	"errors"
	"testing"
)

func TestErrorsIs(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		target    error
		wantMatch bool
	}{
		{
			name:      "NotFound wraps ErrNotFound",
			err:       NotFound("idea", "abc123"),
			target:    ErrNotFound,
			wantMatch: true,
		},
		{
			name:      "ValidationFailed wraps ErrValidation",
			err:       ValidationFailed("message", "message is required"),
			target:    ErrValidation,
			wantMatch: true,
		},
		{
			name:      "Unauthorized wraps ErrUnauthorized",
			err:       Unauthorized("invalid login credentials"),
			target:    ErrUnauthorized,
			wantMatch: true,
		},
		{
			name:      "Forbidden wraps ErrForbidden",
			err:       Forbidden("only the author may delete an idea"),
			target:    ErrForbidden,
			wantMatch: true,
		},
		{
			name:      "NotFound does NOT match ErrValidation",
			err:       NotFound("idea", "abc123"),
			target:    ErrValidation,
			wantMatch: false,
		},
		{
			name:      "Unauthorized does NOT match ErrForbidden",
			err:       Unauthorized("invalid login credentials"),
			target:    ErrForbidden,
			wantMatch: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errors.Is(tt.err, tt.target)
			if got != tt.wantMatch {
				t.Errorf("errors.Is(%v, %v) = %v, want %v", tt.err, tt.target, got, tt.wantMatch)
			}
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name        string
		err         *AppError
		wantMessage string
	}{
		{
			name:        "NotFound message includes resource and id",
			err:         NotFound("idea", "abc123"),
			wantMessage: "idea not found with id abc123",
		},
		{
			name:        "ValidationFailed uses custom message",
			err:         ValidationFailed("name", "name is not long enough"),
			wantMessage: "name is not long enough",
		},
		{
			name:        "Forbidden uses custom message",
			err:         Forbidden("only the author may edit an idea"),
			wantMessage: "only the author may edit an idea",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.wantMessage {
				t.Errorf("Error() = %q, want %q", got, tt.wantMessage)
			}
		})
	}
}

func TestValidationErrors_Aggregates(t *testing.T) {
	var verr ValidationErrors
	verr.Add("name", "name is not long enough")
	verr.Add("email", "invalid email")

	if verr.Empty() {
		t.Fatal("Empty() = true after two Add calls")
	}

	msgs := verr.Messages()
	if len(msgs) != 2 {
		t.Fatalf("Messages() returned %d entries, want 2", len(msgs))
	}
	if msgs[0] != "name is not long enough" || msgs[1] != "invalid email" {
		t.Errorf("Messages() = %v, want both rule messages in check order", msgs)
	}

	// The aggregate still behaves as a validation error to errors.Is.
	if !errors.Is(&verr, ErrValidation) {
		t.Error("ValidationErrors should unwrap to ErrValidation")
	}

	if verr.Error() != "name is not long enough; invalid email" {
		t.Errorf("Error() = %q", verr.Error())
	}
}

func TestValidationErrors_Empty(t *testing.T) {
	var verr ValidationErrors
	if !verr.Empty() {
		t.Error("fresh ValidationErrors should be Empty")
	}
	if len(verr.Messages()) != 0 {
		t.Error("fresh ValidationErrors should have no messages")
	}
}
