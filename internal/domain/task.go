package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Field length bounds for Task, measured in characters after trimming.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Common validation errors for Task
var (
	ErrEmptyTaskID        = errors.New("task ID cannot be empty")
	ErrEmptyTaskOwnerID   = errors.New("task owner ID cannot be empty")
	ErrEmptyTaskTitle     = errors.New("task title cannot be empty")
	ErrTitleTooLong       = errors.New("task title exceeds maximum length")
	ErrDescriptionTooLong = errors.New("task description exceeds maximum length")
)

// Task represents a single to-do item belonging to exactly one owner.
// OwnerID is set once at creation from the verified token subject and
// never changes afterwards.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"-"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch describes a partial update to a task. Nil fields are left
// untouched; non-nil fields replace the current value.
type TaskPatch struct {
	Title       *string
	Description *string
	Completed   *bool
}

// NewTask creates a new Task owned by the given owner. It generates a new
// UUID for the task ID, trims the title, and sets both timestamps to the
// same instant so created_at == updated_at on a fresh task.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, title, description string) (*Task, error) {
	now := time.Now().UTC()
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Completed:   false,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyTaskOwnerID
	}

	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTaskTitle
	}

	if utf8.RuneCountInString(t.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}

	if utf8.RuneCountInString(t.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}

	return nil
}

// Apply merges a patch into the task and refreshes the UpdatedAt
// timestamp. The patched task is re-validated before being accepted.
func (t *Task) Apply(patch TaskPatch) error {
	updated := *t
	if patch.Title != nil {
		updated.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		updated.Description = *patch.Description
	}
	if patch.Completed != nil {
		updated.Completed = *patch.Completed
	}

	if err := updated.Validate(); err != nil {
		return err
	}

	updated.UpdatedAt = time.Now().UTC()
	*t = updated
	return nil
}

// ToggleCompleted flips the completion flag and refreshes UpdatedAt.
// The completion state machine has exactly two states, so toggling
// twice restores the original value.
func (t *Task) ToggleCompleted() {
	t.Completed = !t.Completed
	t.UpdatedAt = time.Now().UTC()
}
