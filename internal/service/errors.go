package service

import (
	"errors"
	"fmt"

	"github.com/flashdeck/flashdeck-api/internal/domain"
)

// FreeDeckLimit is the maximum number of decks a free-plan caller may
// own. Callers with the unlimited-decks entitlement bypass the limit.
const FreeDeckLimit = 3

// Common service errors - sentinel errors used across service implementations.
// These errors represent conditions that callers check for with errors.Is().
// The API layer maps each of them to an HTTP status code.
var (
	// ErrQuotaExceeded indicates the caller hit the free-plan deck limit.
	ErrQuotaExceeded = fmt.Errorf(
		"you've reached the %d deck limit on the Free plan; upgrade to Pro for unlimited decks",
		FreeDeckLimit)

	// ErrFeatureGated indicates the caller lacks the entitlement required
	// for the requested feature.
	ErrFeatureGated = errors.New("this feature requires a Pro subscription")

	// ErrMissingTitle indicates card generation was requested for a deck
	// without a name to guide the model.
	ErrMissingTitle = errors.New("deck must have a title before generating cards")

	// ErrMissingDescription indicates card generation was requested for a
	// deck without a description to guide the model.
	ErrMissingDescription = errors.New("deck must have a description before generating cards")
)

// ValidationError reports a field-level input violation. It wraps
// domain.ErrValidation so callers can match the whole class with
// errors.Is while still reading the offending field.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid %s: %s: %v", e.Field, e.Message, e.Err)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is marks every ValidationError as matching domain.ErrValidation, so
// callers can test for the whole class without knowing the field.
func (e *ValidationError) Is(target error) bool {
	return target == domain.ErrValidation
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}
