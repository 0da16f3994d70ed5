// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskdeck/taskdeck-api/internal/api/shared"
	"github.com/taskdeck/taskdeck-api/internal/domain"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
	"github.com/taskdeck/taskdeck-api/internal/redact"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// TaskResponse represents the wire form of a task. The owner identity is
// implicit in the bearer token and never serialized.
type TaskResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskRequest represents the request body for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"       validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
}

// UpdateTaskRequest represents the request body for updating a task.
// All fields are optional; absent fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"       validate:"omitempty,max=200"`
	Description *string `json:"description" validate:"omitempty,max=2000"`
	Completed   *bool   `json:"completed"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	taskStore store.TaskStore
	logger    *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(taskStore store.TaskStore, logger *slog.Logger) *TaskHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for TaskHandler")
	}

	return &TaskHandler{
		taskStore: taskStore,
		logger:    logger.With(slog.String("component", "task_handler")),
	}
}

// ListTasks handles GET /tasks requests.
// It returns all of the caller's tasks ordered by creation time descending.
func (h *TaskHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	tasks, err := h.taskStore.List(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	response := make([]TaskResponse, 0, len(tasks))
	for i := range tasks {
		response = append(response, taskToResponse(&tasks[i]))
	}

	log.Debug("listed tasks",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(response)))
	shared.RespondWithJSON(w, r, http.StatusOK, response)
}

// CreateTask handles POST /tasks requests.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("owner_id", ownerID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	// The length bound applies to the trimmed title.
	req.Title = strings.TrimSpace(req.Title)
	if fields := validateTaskBody(&req.Title, req); fields != nil {
		shared.RespondWithValidationError(w, r, fields)
		return
	}

	task, err := domain.NewTask(ownerID, req.Title, req.Description)
	if err != nil {
		// Handler validation should have caught everything the domain
		// checks; treat a disagreement as a server bug, not client input.
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"an unexpected error occurred", err)
		return
	}

	if err := h.taskStore.Create(r.Context(), task); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task created",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, taskToResponse(task))
}

// GetTask handles GET /tasks/{id} requests.
func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	taskID, ok := taskIDFromPath(w, r, log)
	if !ok {
		return
	}

	task, err := h.taskStore.GetByID(r.Context(), ownerID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// UpdateTask handles PUT /tasks/{id} requests.
func (h *TaskHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	taskID, ok := taskIDFromPath(w, r, log)
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format",
			slog.String("error", redact.Error(err)),
			slog.String("task_id", taskID.String()))
		shared.RespondWithError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		req.Title = &trimmed
	}
	if fields := validateTaskBody(req.Title, req); fields != nil {
		shared.RespondWithValidationError(w, r, fields)
		return
	}

	patch := domain.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}

	task, err := h.taskStore.Update(r.Context(), ownerID, taskID, patch)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task updated",
		slog.String("task_id", task.ID.String()),
		slog.String("owner_id", ownerID.String()))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// ToggleTask handles POST /tasks/{id}/toggle requests.
// It flips the completion flag unconditionally; toggling twice restores
// the original state.
func (h *TaskHandler) ToggleTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	taskID, ok := taskIDFromPath(w, r, log)
	if !ok {
		return
	}

	task, err := h.taskStore.ToggleCompleted(r.Context(), ownerID, taskID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task completion toggled",
		slog.String("task_id", task.ID.String()),
		slog.Bool("completed", task.Completed))
	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(task))
}

// DeleteTask handles DELETE /tasks/{id} requests.
func (h *TaskHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := ownerFromContext(w, r, log)
	if !ok {
		return
	}

	taskID, ok := taskIDFromPath(w, r, log)
	if !ok {
		return
	}

	if err := h.taskStore.Delete(r.Context(), ownerID, taskID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("owner_id", ownerID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// ownerFromContext extracts the verified owner identity placed in the
// context by the auth middleware. A missing identity means the guard did
// not run; respond exactly as the guard would.
func ownerFromContext(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	ownerID, ok := r.Context().Value(shared.UserIDContextKey).(uuid.UUID)
	if !ok || ownerID == uuid.Nil {
		log.Warn("owner identity not found in request context")
		shared.RespondWithError(w, r, http.StatusUnauthorized, "invalid or missing credentials")
		return uuid.Nil, false
	}
	return ownerID, true
}

// taskIDFromPath parses the {id} route parameter. A syntactically invalid
// ID gets the same uniform not-found response as an absent task, so the
// response shape cannot be used to distinguish input classes.
func taskIDFromPath(w http.ResponseWriter, r *http.Request, log *slog.Logger) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	taskID, err := uuid.Parse(raw)
	if err != nil {
		log.Debug("invalid task ID in path", slog.String("task_id", raw))
		shared.RespondWithError(w, r, http.StatusNotFound, "task not found")
		return uuid.Nil, false
	}
	return taskID, true
}

// validateTaskBody runs struct-tag validation plus the empty-after-trim
// title rule, returning per-field messages or nil when the body is valid.
// title is the trimmed title value, nil when the request omits it.
func validateTaskBody(title *string, req interface{}) map[string]string {
	var fields map[string]string

	if err := shared.Validate.Struct(req); err != nil {
		fields = ValidationFields(err)
	}

	// Struct tags cannot express "non-empty after trimming"; required
	// catches a create with a missing title but not a whitespace-only one,
	// and an update may omit the title entirely.
	if title != nil && *title == "" {
		if fields == nil {
			fields = make(map[string]string)
		}
		fields["title"] = "must not be empty"
	}

	return fields
}

// taskToResponse converts a domain.Task to a TaskResponse.
// Timestamps are normalized to UTC so representations are stable
// regardless of the database session time zone.
func taskToResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID.String(),
		Title:       task.Title,
		Description: task.Description,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt.UTC(),
		UpdatedAt:   task.UpdatedAt.UTC(),
	}
}
