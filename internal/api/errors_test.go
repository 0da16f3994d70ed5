package api_test

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/api"
	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing token", auth.ErrMissingToken, http.StatusUnauthorized},
		{"malformed token", auth.ErrMalformedToken, http.StatusUnauthorized},
		{"invalid token", auth.ErrInvalidToken, http.StatusUnauthorized},
		{"expired token", auth.ErrExpiredToken, http.StatusUnauthorized},
		{"task not found", store.ErrTaskNotFound, http.StatusNotFound},
		{"generic not found", store.ErrNotFound, http.StatusNotFound},
		{"transient store failure", store.ErrTransient, http.StatusServiceUnavailable},
		{"invalid entity", store.ErrInvalidEntity, http.StatusUnprocessableEntity},
		{"domain validation", domain.ErrValidation, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError},
		{
			"wrapped sentinel",
			fmt.Errorf("list tasks: %w", store.ErrTransient),
			http.StatusServiceUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.MapErrorToStatusCode(tt.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, "an unexpected error occurred"},
		{"expired token", auth.ErrExpiredToken, "invalid or missing credentials"},
		{"missing token", auth.ErrMissingToken, "invalid or missing credentials"},
		{"task not found", store.ErrTaskNotFound, "task not found"},
		{"generic not found", store.ErrNotFound, "not found"},
		{"transient", store.ErrTransient, "service temporarily unavailable"},
		{"invalid entity", store.ErrInvalidEntity, "invalid task data"},
		{
			"internal detail never leaks",
			errors.New("pq: connection to host=db password=hunter2 failed"),
			"an unexpected error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, api.GetSafeErrorMessage(tt.err))
		})
	}
}

func TestValidationFields(t *testing.T) {
	t.Parallel()

	t.Run("oversized fields produce per-field messages", func(t *testing.T) {
		t.Parallel()

		req := api.CreateTaskRequest{
			Title:       strings.Repeat("a", 201),
			Description: strings.Repeat("b", 2001),
		}
		err := shared.Validate.Struct(req)
		require.Error(t, err)

		fields := api.ValidationFields(err)
		assert.Equal(t, "must be at most 200 characters", fields["title"])
		assert.Equal(t, "must be at most 2000 characters", fields["description"])
	})

	t.Run("required tag message", func(t *testing.T) {
		t.Parallel()

		err := shared.Validate.Struct(api.CreateTaskRequest{Title: ""})
		require.Error(t, err)

		fields := api.ValidationFields(err)
		assert.Equal(t, "must not be empty", fields["title"])
	})

	t.Run("non-validator error gets a body-level message", func(t *testing.T) {
		t.Parallel()

		fields := api.ValidationFields(errors.New("not a validator error"))
		assert.Equal(t, map[string]string{"body": "validation failed"}, fields)
	})
}
