package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. For owner-scoped lookups this deliberately covers both a row
	// that does not exist and a row owned by someone else; callers must not
	// be able to tell the two apart.
	ErrNotFound = errors.New("entity not found")

	// ErrTransient is returned when an operation failed for a reason that
	// is plausibly temporary (connection reset, pool exhaustion, backend
	// restart). Read paths retry once before surfacing it; write paths
	// surface it immediately.
	ErrTransient = errors.New("transient store error")

	// ErrInvalidEntity is returned when an entity fails a database
	// constraint before being stored. Check the wrapped error for details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrTaskNotFound indicates that the requested task does not exist
	// for the given owner.
	ErrTaskNotFound = fmt.Errorf("%w: task", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsTransientError checks if the error is a transient store error.
func IsTransientError(err error) bool {
	return errors.Is(err, ErrTransient)
}
