package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstructors(t *testing.T) {
	tests := []struct {
		name    string
		err     *AppError
		kind    error
		message string
	}{
		{"not found by id", NotFound("trick", 42), ErrNotFound, "trick not found with id 42"},
		{"not found message", NotFoundMessage("No tricks found for this user"), ErrNotFound, "No tricks found for this user"},
		{"validation", ValidationFailed("status", "Invalid status"), ErrValidation, "Invalid status"},
		{"conflict by id", Conflict("user_trick", 3), ErrConflict, "user_trick conflict with id 3"},
		{"conflict message", ConflictMessage("Trick already added"), ErrConflict, "Trick already added"},
		{"forbidden", Forbidden("No token provided"), ErrForbidden, "No token provided"},
		{"credentials", InvalidCredentials(), ErrAuth, "Invalid email or password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			assert.ErrorIs(t, tt.err, tt.kind)
			assert.Equal(t, tt.kind, tt.err.Unwrap())
		})
	}
}

func TestKindsDoNotOverlap(t *testing.T) {
	kinds := []error{ErrNotFound, ErrValidation, ErrConflict, ErrForbidden, ErrAuth}

	for _, a := range kinds {
		for _, b := range kinds {
			if a != b {
				assert.False(t, errors.Is(a, b), "%v matched %v", a, b)
			}
		}
	}
}

func TestWrappedStillMatches(t *testing.T) {
	err := fmt.Errorf("sqlite: adding user trick: %w", ConflictMessage("Trick already added"))

	assert.ErrorIs(t, err, ErrConflict)

	var appErr *AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "Trick already added", appErr.Message)
}

func TestValidationFailedField(t *testing.T) {
	err := ValidationFailed("email", "Email and password are required")

	assert.Equal(t, "email", err.Field)
	assert.Empty(t, NotFound("user", 1).Field)
}
