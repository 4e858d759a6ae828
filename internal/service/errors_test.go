package service

import (
	"errors"
	"testing"

	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	t.Parallel()

	err := NewValidationError("name", "too long", domain.ErrDeckNameTooLong)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrDeckNameTooLong)
	assert.Contains(t, err.Error(), "name")
	assert.Contains(t, err.Error(), "too long")

	var valErr *ValidationError
	assert.ErrorAs(t, err, &valErr)
	assert.Equal(t, "name", valErr.Field)
}

func TestValidationErrorWithoutCause(t *testing.T) {
	t.Parallel()

	err := NewValidationError("fields", "at least one field must be provided", nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.NotContains(t, err.Error(), "<nil>")
}

func TestQuotaExceededMessage(t *testing.T) {
	t.Parallel()

	// The message names the limit and the upgrade path; the API surfaces
	// it verbatim.
	assert.Contains(t, ErrQuotaExceeded.Error(), "3 deck limit")
	assert.Contains(t, ErrQuotaExceeded.Error(), "Pro")
	assert.False(t, errors.Is(ErrQuotaExceeded, domain.ErrValidation))
}
