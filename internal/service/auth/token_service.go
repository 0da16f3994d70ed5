// Package auth provides stateless bearer-token verification. Token
// issuance belongs to the external identity provider; the service here
// can mint tokens only because the provider shares the same symmetric
// key, which tests and local tooling rely on.
package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenService defines operations for verifying and minting bearer tokens.
type TokenService interface {
	// GenerateToken creates a signed token carrying the user's identity.
	// Returns the token string or an error if signing fails.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken verifies the provided token string and extracts the
	// claims. Verification is purely local computation against the shared
	// secret; no external lookup is made. Returns ErrMalformedToken,
	// ErrInvalidToken, or ErrExpiredToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims represents the verified contents of a bearer token.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	// It is the sole source of ownership for every downstream operation.
	UserID uuid.UUID `json:"uid,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
