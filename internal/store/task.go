package store

import (
	"context"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
)

// TaskStore defines the persistence operations for tasks. Every method
// takes the verified owner identity first and only ever touches rows whose
// owner_id matches it. A task that exists but belongs to a different owner
// is reported as ErrTaskNotFound, identical to a task that does not exist.
type TaskStore interface {
	// List returns all tasks belonging to the owner, ordered by creation
	// time descending. The result is computed fresh on every call.
	List(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error)

	// GetByID retrieves a single task by ID for the owner.
	// Returns ErrTaskNotFound if no matching row exists.
	GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// Create persists a new task. The task carries its owner ID, assigned
	// from the verified token subject by the handler layer.
	Create(ctx context.Context, task *domain.Task) error

	// Update applies a partial update to the owner's task and returns the
	// updated row. Returns ErrTaskNotFound if no matching row exists.
	Update(ctx context.Context, ownerID, id uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// ToggleCompleted flips the completion flag of the owner's task and
	// returns the updated row. Returns ErrTaskNotFound if no matching row
	// exists.
	ToggleCompleted(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error)

	// Delete permanently removes the owner's task. There is no soft-delete
	// state. Returns ErrTaskNotFound if no matching row exists.
	Delete(ctx context.Context, ownerID, id uuid.UUID) error
}
