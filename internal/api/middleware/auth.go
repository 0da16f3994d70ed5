package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/redact"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
)

// unauthenticatedMessage is the single message returned for every
// authentication failure. Missing header, bad scheme, malformed token,
// bad signature, and expiry are indistinguishable on the wire so a caller
// cannot probe which check rejected them.
const unauthenticatedMessage = "invalid or missing credentials"

// AuthMiddleware guards protected routes with bearer-token authentication.
type AuthMiddleware struct {
	tokenService auth.TokenService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(tokenService auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// Authenticate validates bearer tokens from the Authorization header and
// adds the verified owner identity to the request context. No handler or
// repository logic runs unless validation succeeds.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			respondUnauthenticated(w, r)
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			respondUnauthenticated(w, r)
			return
		}

		claims, err := m.tokenService.ValidateToken(r.Context(), parts[1])
		if err != nil {
			// The specific reason is logged; the response never names it.
			switch err {
			case auth.ErrMissingToken, auth.ErrMalformedToken,
				auth.ErrInvalidToken, auth.ErrExpiredToken:
				slog.Debug("token rejected",
					"reason", err.Error(),
					"path", r.URL.Path)
			default:
				slog.Error("failed to validate token", "error", redact.Error(err))
			}
			respondUnauthenticated(w, r)
			return
		}

		// Bind the verified identity as the sole ownership source for the
		// rest of the request.
		ctx := context.WithValue(r.Context(), shared.UserIDContextKey, claims.UserID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// respondUnauthenticated writes the uniform unauthenticated response.
func respondUnauthenticated(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithError(w, r, http.StatusUnauthorized, unauthenticatedMessage)
}

// GetUserID extracts the verified owner identity from the request context.
// Returns the identity and a boolean indicating if it was found.
func GetUserID(r *http.Request) (uuid.UUID, bool) {
	userID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	return userID, ok
}
