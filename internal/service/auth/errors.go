package auth

import "errors"

// Common authentication service errors. Handlers never surface these
// individually; the middleware collapses every one of them into the same
// unauthenticated response so a caller cannot probe which check failed.
var (
	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")

	// ErrMalformedToken indicates the credential is not a structurally
	// valid token
	ErrMalformedToken = errors.New("authentication token is malformed")

	// ErrInvalidToken indicates the token signature doesn't match or the
	// claims are unusable
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token has expired
	ErrExpiredToken = errors.New("authentication token has expired")
)
