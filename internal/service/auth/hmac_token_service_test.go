package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/config"
)

func testAuthConfig() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:            strings.Repeat("s", 32),
		TokenLifetimeMinutes: 60,
	}
}

func newTestService(t *testing.T) *hmacTokenService {
	t.Helper()

	svc, err := NewTokenService(testAuthConfig())
	require.NoError(t, err)
	return svc.(*hmacTokenService)
}

func TestNewTokenService(t *testing.T) {
	t.Parallel()

	t.Run("rejects short secret", func(t *testing.T) {
		t.Parallel()

		_, err := NewTokenService(config.AuthConfig{
			JWTSecret:            "too-short",
			TokenLifetimeMinutes: 60,
		})
		assert.Error(t, err)
	})

	t.Run("accepts 32 character secret", func(t *testing.T) {
		t.Parallel()

		_, err := NewTokenService(testAuthConfig())
		assert.NoError(t, err)
	})
}

func TestValidateToken_RoundTrip(t *testing.T) {
	t.Parallel()

	svc := newTestService(t)
	ctx := context.Background()
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken_Failures(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	t.Run("empty token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		_, err := svc.ValidateToken(ctx, "")
		assert.ErrorIs(t, err, ErrMissingToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)
		_, err := svc.ValidateToken(ctx, "not-a-token")
		assert.ErrorIs(t, err, ErrMalformedToken)
	})

	t.Run("token signed with a different secret", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)

		other, err := NewTokenService(config.AuthConfig{
			JWTSecret:            strings.Repeat("x", 32),
			TokenLifetimeMinutes: 60,
		})
		require.NoError(t, err)

		token, err := other.GenerateToken(ctx, userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)

		issuedAt := time.Now().Add(-24 * time.Hour)
		svc.timeFunc = func() time.Time { return issuedAt }

		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		// Jump past the token lifetime plus the clock skew leeway.
		svc.timeFunc = time.Now

		_, err = svc.ValidateToken(ctx, token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("expiry within clock skew is accepted", func(t *testing.T) {
		t.Parallel()

		svc := newTestService(t)

		issuedAt := time.Now()
		svc.timeFunc = func() time.Time { return issuedAt }

		token, err := svc.GenerateToken(ctx, userID)
		require.NoError(t, err)

		// One minute past expiry with a two-minute allowed skew.
		svc.timeFunc = func() time.Time {
			return issuedAt.Add(svc.tokenLifetime + time.Minute)
		}

		_, err = svc.ValidateToken(ctx, token)
		assert.NoError(t, err)
	})
}
