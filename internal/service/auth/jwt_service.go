package auth

import (
	"context"
	"time"
)

// Entitlements holds the feature flags resolved for an authenticated
// caller. They travel inside the token so services never need to call
// back to the identity provider on the request path.
type Entitlements struct {
	// UnlimitedDecks exempts the caller from the free-plan deck cap.
	UnlimitedDecks bool `json:"unlimited_deck"`

	// AIGeneration grants access to AI flashcard generation.
	AIGeneration bool `json:"ai_flashcard_generation"`
}

// Identity is the authenticated caller as seen by the rest of the
// application: an opaque user ID plus the entitlements in force when
// the token was issued.
type Identity struct {
	UserID       string
	Entitlements Entitlements
}

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token carrying the
	// identity's user ID and entitlement flags.
	// Returns the token string or an error if token generation fails.
	GenerateToken(ctx context.Context, identity Identity) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns the claims containing the caller's identity if the token is valid,
	// or an error if validation fails (expired, invalid signature, etc.).
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the custom claims structure for the JWT tokens.
// It extends standard JWT registered claims with application-specific fields.
type Claims struct {
	// UserID is the opaque identifier of the user the token was issued for.
	UserID string `json:"uid,omitempty"`

	// Entitlements are the feature flags captured at issue time.
	Entitlements Entitlements `json:"-"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}

// Identity returns the caller identity carried by the claims.
func (c *Claims) Identity() Identity {
	return Identity{
		UserID:       c.UserID,
		Entitlements: c.Entitlements,
	}
}
