package generation

import "errors"

// Common errors returned by the generation package
var (
	// ErrGenerationFailed is returned when card generation fails for any general reason
	ErrGenerationFailed = errors.New("failed to generate cards")

	// ErrInvalidResponse is returned when the LLM response cannot be parsed or is malformed
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrServiceUnavailable is returned when the provider reports quota or
	// capacity exhaustion; the caller may retry later
	ErrServiceUnavailable = errors.New("generation service temporarily unavailable")

	// ErrRateLimited is returned when the provider rejects the call due to
	// rate limiting; the caller should back off before retrying
	ErrRateLimited = errors.New("generation rate limit exceeded")

	// ErrInvalidConfig is returned when the generator configuration is invalid
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
