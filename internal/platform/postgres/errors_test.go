package postgres

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskdeck/taskdeck-api/internal/store"
)

// timeoutError satisfies net.Error with Timeout() == true.
type timeoutError struct{}

func (timeoutError) Error() string   { return "i/o timeout" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error",
			err:  nil,
			want: false,
		},
		{
			name: "bad connection",
			err:  driver.ErrBadConn,
			want: true,
		},
		{
			name: "wrapped bad connection",
			err:  errors.Join(errors.New("exec failed"), driver.ErrBadConn),
			want: true,
		},
		{
			name: "unexpected EOF from dropped socket",
			err:  io.EOF,
			want: true,
		},
		{
			name: "connection exception class 08",
			err:  &pgconn.PgError{Code: "08006"},
			want: true,
		},
		{
			name: "admin shutdown",
			err:  &pgconn.PgError{Code: "57P01"},
			want: true,
		},
		{
			name: "crash shutdown",
			err:  &pgconn.PgError{Code: "57P02"},
			want: true,
		},
		{
			name: "too many connections",
			err:  &pgconn.PgError{Code: "53300"},
			want: true,
		},
		{
			name: "network timeout",
			err:  timeoutError{},
			want: true,
		},
		{
			name: "unique violation is not transient",
			err:  &pgconn.PgError{Code: "23505"},
			want: false,
		},
		{
			name: "no rows is not transient",
			err:  sql.ErrNoRows,
			want: false,
		},
		{
			name: "arbitrary error is not transient",
			err:  errors.New("syntax error"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}

func TestMapError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		err        error
		wantTarget error
	}{
		{
			name:       "no rows maps to not found",
			err:        sql.ErrNoRows,
			wantTarget: store.ErrNotFound,
		},
		{
			name:       "bad connection maps to transient",
			err:        driver.ErrBadConn,
			wantTarget: store.ErrTransient,
		},
		{
			name:       "unique violation maps to invalid entity",
			err:        &pgconn.PgError{Code: "23505", ConstraintName: "tasks_pkey"},
			wantTarget: store.ErrInvalidEntity,
		},
		{
			name:       "check violation maps to invalid entity",
			err:        &pgconn.PgError{Code: "23514", ConstraintName: "tasks_title_length"},
			wantTarget: store.ErrInvalidEntity,
		},
		{
			name:       "not null violation maps to invalid entity",
			err:        &pgconn.PgError{Code: "23502", ColumnName: "owner_id"},
			wantTarget: store.ErrInvalidEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mapped := MapError(tt.err)
			assert.ErrorIs(t, mapped, tt.wantTarget)
		})
	}

	t.Run("nil passes through", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, MapError(nil))
	})

	t.Run("unmapped error passes through unchanged", func(t *testing.T) {
		t.Parallel()

		err := errors.New("syntax error at or near SELECT")
		assert.Equal(t, err, MapError(err))
	})
}

func TestReadOnce(t *testing.T) {
	t.Parallel()

	log := slog.Default()

	t.Run("success is not retried", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := readOnce(context.Background(), log, func() error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("transient failure retried exactly once", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := readOnce(context.Background(), log, func() error {
			calls++
			if calls == 1 {
				return driver.ErrBadConn
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("persistent transient failure surfaces after the retry", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := readOnce(context.Background(), log, func() error {
			calls++
			return driver.ErrBadConn
		})
		assert.ErrorIs(t, err, driver.ErrBadConn)
		assert.Equal(t, 2, calls)
	})

	t.Run("non-transient failure is not retried", func(t *testing.T) {
		t.Parallel()

		calls := 0
		wantErr := errors.New("syntax error")
		err := readOnce(context.Background(), log, func() error {
			calls++
			return wantErr
		})
		assert.Equal(t, wantErr, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("no retry once the context is done", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
		defer cancel()
		<-ctx.Done()

		calls := 0
		err := readOnce(ctx, log, func() error {
			calls++
			return driver.ErrBadConn
		})
		assert.ErrorIs(t, err, driver.ErrBadConn)
		assert.Equal(t, 1, calls)
	})
}
