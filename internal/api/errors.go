package api

import (
	"errors"
	"net/http"

	"github.com/flashdeck/flashdeck-api/internal/api/shared"
	"github.com/flashdeck/flashdeck-api/internal/domain"
	"github.com/flashdeck/flashdeck-api/internal/generation"
	"github.com/flashdeck/flashdeck-api/internal/service"
	"github.com/flashdeck/flashdeck-api/internal/service/auth"
	"github.com/flashdeck/flashdeck-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	// Plan and entitlement errors
	case errors.Is(err, service.ErrQuotaExceeded),
		errors.Is(err, service.ErrFeatureGated):
		return http.StatusForbidden

	// Not found errors (absent or not owned, indistinguishable)
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Generation preconditions on deck content
	case errors.Is(err, service.ErrMissingTitle),
		errors.Is(err, service.ErrMissingDescription):
		return http.StatusUnprocessableEntity

	// External generation outcomes
	case errors.Is(err, generation.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, generation.ErrServiceUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return http.StatusBadGateway

	// Bad request errors
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-readable error message
// based on the error type. Expected failure kinds surface their own
// message verbatim; anything unknown collapses to a generic message.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Unauthorized"

	case errors.Is(err, service.ErrQuotaExceeded):
		return service.ErrQuotaExceeded.Error()

	case errors.Is(err, service.ErrFeatureGated):
		return service.ErrFeatureGated.Error()

	case errors.Is(err, store.ErrDeckNotFound):
		return "Deck not found"

	case errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case store.IsNotFoundError(err):
		return "Not found"

	case errors.Is(err, service.ErrMissingTitle):
		return service.ErrMissingTitle.Error()

	case errors.Is(err, service.ErrMissingDescription):
		return service.ErrMissingDescription.Error()

	case errors.Is(err, generation.ErrRateLimited):
		return "Generation rate limit exceeded, try again later"

	case errors.Is(err, generation.ErrServiceUnavailable):
		return "Generation service temporarily unavailable"

	case errors.Is(err, generation.ErrGenerationFailed),
		errors.Is(err, generation.ErrInvalidResponse):
		return "Card generation failed"

	case errors.Is(err, domain.ErrValidation):
		// Field-level detail is preserved for validation failures.
		var valErr *service.ValidationError
		if errors.As(err, &valErr) {
			return valErr.Error()
		}
		return "Validation error"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError maps the error to a status code and safe message, then
// writes the response and logs the redacted detail. An empty override
// keeps the mapped message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, messageOverride string) {
	status := MapErrorToStatusCode(err)
	message := messageOverride
	if message == "" {
		message = GetSafeErrorMessage(err)
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}
