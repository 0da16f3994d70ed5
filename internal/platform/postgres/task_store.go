package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/redact"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// PostgresTaskStore implements the store.TaskStore interface
// using a PostgreSQL database as the storage backend.
//
// Every query filters on both id and owner_id in a single predicate, so a
// task owned by someone else produces the same sql.ErrNoRows as a task
// that does not exist.
type PostgresTaskStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTaskStore creates a new PostgreSQL implementation of the
// TaskStore interface. It accepts a database connection or transaction
// that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresTaskStore(db store.DBTX, logger *slog.Logger) *PostgresTaskStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTaskStore{
		db:     db,
		logger: logger.With(slog.String("component", "task_store")),
	}
}

// Ensure PostgresTaskStore implements store.TaskStore interface
var _ store.TaskStore = (*PostgresTaskStore)(nil)

const taskColumns = "id, owner_id, title, description, completed, created_at, updated_at"

// readOnce runs a read-only operation, retrying exactly once if the first
// attempt fails with a transient error. Write paths never go through here:
// retrying a write risks duplicate side effects.
func readOnce(ctx context.Context, log *slog.Logger, op func() error) error {
	err := op()
	if err == nil || !IsTransient(err) {
		return err
	}

	log.Warn("transient store error on read, retrying once",
		slog.String("error", redact.Error(err)))

	if ctx.Err() != nil {
		return err
	}
	return op()
}

// List implements store.TaskStore.List
// It returns the owner's tasks ordered by creation time descending,
// computed fresh on every call.
func (s *PostgresTaskStore) List(ctx context.Context, ownerID uuid.UUID) ([]domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE owner_id = $1
		ORDER BY created_at DESC
	`

	var tasks []domain.Task
	err := readOnce(ctx, log, func() error {
		rows, err := s.db.QueryContext(ctx, query, ownerID)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := rows.Close(); cerr != nil {
				log.Warn("failed to close rows", slog.String("error", cerr.Error()))
			}
		}()

		tasks = tasks[:0]
		for rows.Next() {
			var task domain.Task
			if err := scanTask(rows.Scan, &task); err != nil {
				return err
			}
			tasks = append(tasks, task)
		}
		return rows.Err()
	})

	if err != nil {
		log.Error("failed to list tasks",
			slog.String("error", redact.Error(err)),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}

	if tasks == nil {
		tasks = []domain.Task{}
	}

	log.Debug("listed tasks",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(tasks)))
	return tasks, nil
}

// GetByID implements store.TaskStore.GetByID
// Returns store.ErrTaskNotFound if no row matches both the id and the owner.
func (s *PostgresTaskStore) GetByID(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + taskColumns + `
		FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	var task domain.Task
	err := readOnce(ctx, log, func() error {
		row := s.db.QueryRowContext(ctx, query, id, ownerID)
		return scanTask(row.Scan, &task)
	})

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found",
				slog.String("task_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to get task by ID",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	return &task, nil
}

// Create implements store.TaskStore.Create
// It saves a new task to the database, handling domain validation.
func (s *PostgresTaskStore) Create(ctx context.Context, task *domain.Task) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := task.Validate(); err != nil {
		log.Warn("task validation failed during create",
			slog.String("error", err.Error()),
			slog.String("task_id", task.ID.String()))
		return err
	}

	query := `
		INSERT INTO tasks (id, owner_id, title, description, completed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Completed,
		task.CreatedAt,
		task.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", task.ID.String()),
			slog.String("owner_id", task.OwnerID.String()))
		return MapError(err)
	}

	log.Info("task created successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return nil
}

// Update implements store.TaskStore.Update
// The partial update is applied in a single owner-scoped statement, so the
// write is atomic and last-write-wins across concurrent sessions.
// Returns store.ErrTaskNotFound if no row matches both the id and the owner.
func (s *PostgresTaskStore) Update(
	ctx context.Context,
	ownerID, id uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET title       = COALESCE($3, title),
		    description = COALESCE($4, description),
		    completed   = COALESCE($5, completed),
		    updated_at  = $6
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns + `
	`

	var task domain.Task
	row := s.db.QueryRowContext(
		ctx,
		query,
		id,
		ownerID,
		patch.Title,
		patch.Description,
		patch.Completed,
		time.Now().UTC(),
	)
	if err := scanTask(row.Scan, &task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for update",
				slog.String("task_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to update task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("task updated successfully",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", task.OwnerID.String()))
	return &task, nil
}

// ToggleCompleted implements store.TaskStore.ToggleCompleted
// Returns store.ErrTaskNotFound if no row matches both the id and the owner.
func (s *PostgresTaskStore) ToggleCompleted(ctx context.Context, ownerID, id uuid.UUID) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE tasks
		SET completed  = NOT completed,
		    updated_at = $3
		WHERE id = $1 AND owner_id = $2
		RETURNING ` + taskColumns + `
	`

	var task domain.Task
	row := s.db.QueryRowContext(ctx, query, id, ownerID, time.Now().UTC())
	if err := scanTask(row.Scan, &task); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("task not found for toggle",
				slog.String("task_id", id.String()),
				slog.String("owner_id", ownerID.String()))
			return nil, store.ErrTaskNotFound
		}
		log.Error("failed to toggle task completion",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return nil, MapError(err)
	}

	log.Info("task completion toggled",
		slog.String("task_id", task.ID.String()),
		slog.Bool("completed", task.Completed))
	return &task, nil
}

// Delete implements store.TaskStore.Delete
// The row is permanently destroyed; there is no soft-delete state.
// Returns store.ErrTaskNotFound if no row matches both the id and the owner.
func (s *PostgresTaskStore) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		DELETE FROM tasks
		WHERE id = $1 AND owner_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		log.Error("failed to delete task",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to read delete result",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", id.String()))
		return MapError(err)
	}

	if affected == 0 {
		log.Debug("task not found for delete",
			slog.String("task_id", id.String()),
			slog.String("owner_id", ownerID.String()))
		return store.ErrTaskNotFound
	}

	log.Info("task deleted",
		slog.String("task_id", id.String()),
		slog.String("owner_id", ownerID.String()))
	return nil
}

// scanTask reads one task row using the provided scan function, which
// works for both *sql.Row and *sql.Rows.
func scanTask(scan func(dest ...any) error, task *domain.Task) error {
	return scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Completed,
		&task.CreatedAt,
		&task.UpdatedAt,
	)
}
