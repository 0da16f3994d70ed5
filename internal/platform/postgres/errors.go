package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgreSQL error codes
const (
	// uniqueViolationCode is the PostgreSQL error code for unique constraint violations
	uniqueViolationCode = "23505"

	// checkViolationCode is the PostgreSQL error code for check constraint violations
	checkViolationCode = "23514"

	// notNullViolationCode is the PostgreSQL error code for not null violations
	notNullViolationCode = "23502"

	// connectionExceptionClass is the two-character prefix of the
	// PostgreSQL connection-exception error class (08xxx).
	connectionExceptionClass = "08"

	// adminShutdownCode and crashShutdownCode are raised when the backend
	// is going away; a fresh connection from the pool may well succeed.
	adminShutdownCode = "57P01"
	crashShutdownCode = "57P02"

	// tooManyConnectionsCode indicates temporary pool pressure on the server.
	tooManyConnectionsCode = "53300"
)

// MapError maps a database error to an appropriate store error.
// It wraps the original error to preserve context for logging.
// This function should be used in all database operations to ensure
// consistent error handling.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	if IsTransient(err) {
		return fmt.Errorf("%w: %v", store.ErrTransient, err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case uniqueViolationCode:
			return fmt.Errorf("%w: unique violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case checkViolationCode:
			return fmt.Errorf("%w: check constraint violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ConstraintName, err)
		case notNullViolationCode:
			return fmt.Errorf("%w: not null violation (%s): %v",
				store.ErrInvalidEntity, pgErr.ColumnName, err)
		}
	}

	// Errors without a specific mapping pass through unchanged.
	return err
}

// IsTransient reports whether the error is plausibly temporary: a dropped
// or recycled connection, a backend shutting down, or server-side pool
// pressure. Read operations retry once on these; writes never do.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.EOF) {
		return true
	}

	if pgconn.SafeToRetry(err) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if strings.HasPrefix(pgErr.Code, connectionExceptionClass) {
			return true
		}
		switch pgErr.Code {
		case adminShutdownCode, crashShutdownCode, tooManyConnectionsCode:
			return true
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return false
}
