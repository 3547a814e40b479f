package shared

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Is(t *testing.T) {
	err := NewNotFoundError("account %s not found", "4000")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConcurrencyConflict))

	wrapped := fmt.Errorf("resolve: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))
	assert.Equal(t, CodeNotFound, CodeOf(wrapped))
}

func TestDomainError_WithDetails(t *testing.T) {
	base := NewValidationError("invalid entry")
	detailed := base.WithDetails("line 1: bad", "line 2: bad")

	assert.Empty(t, base.Details)
	assert.Equal(t, []string{"line 1: bad", "line 2: bad"}, detailed.Details)
	assert.Equal(t, base.Message, detailed.Message)
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", NewValidationError("x"), CodeValidation},
		{"conflict", NewConflictError("x"), CodeConflict},
		{"internal", NewInternalError("x"), CodeInternal},
		{"plain error", errors.New("boom"), CodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsValidation(NewDomainError(CodeImbalanced, "x")))
	assert.True(t, IsValidation(NewValidationError("x")))
	assert.False(t, IsValidation(nil))
	assert.True(t, IsConflict(ErrInvalidState))
	assert.False(t, IsNotFound(nil))
}
