package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanLimbu/todo-tracker/internal"
)

// TaskService ...
type TaskService interface {
	Add(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, id string) error
	List() []internal.Task
	Task(id string) (internal.Task, error)
	ToggleComplete(ctx context.Context, id string) error
	Update(ctx context.Context, id string, params internal.UpdateParams) error
}

// TaskHandler ...
type TaskHandler struct {
	svc TaskService
}

// NewTaskHandler ...
func NewTaskHandler(svc TaskService) *TaskHandler {
	return &TaskHandler{
		svc: svc,
	}
}

// Register connects the handlers to the router.
func (t *TaskHandler) Register(r chi.Router) {
	r.Get("/tasks", t.list)
	r.Post("/tasks", t.create)
	r.Get("/tasks/{id}", t.task)
	r.Put("/tasks/{id}", t.update)
	r.Delete("/tasks/{id}", t.delete)
	r.Post("/tasks/{id}/toggle", t.toggle)
}

// Task is a single to-do item.
type Task struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Priority    internal.Priority `json:"priority"`
	Completed   bool              `json:"completed"`
	CreatedAt   time.Time         `json:"createdAt"`
}

func newTask(t internal.Task) Task {
	return Task{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Completed:   t.Completed,
		CreatedAt:   t.CreatedAt,
	}
}

// CreateTasksRequest defines the request used for creating tasks, Priority defaults to 4 (None).
type CreateTasksRequest struct {
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    *internal.Priority `json:"priority"`
}

// CreateTasksResponse defines the response returned back after creating tasks.
type CreateTasksResponse struct {
	Task Task `json:"task"`
}

func (t *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	params := internal.CreateParams{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
	}

	if err := params.Validate(); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", err)
		return
	}

	task, err := t.svc.Add(r.Context(), params)
	if err != nil {
		renderErrorResponse(r.Context(), w, "create failed", err)
		return
	}

	renderResponse(w, &CreateTasksResponse{Task: newTask(task)}, http.StatusCreated)
}

func (t *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := t.svc.Delete(r.Context(), id); err != nil {
		renderErrorResponse(r.Context(), w, "delete failed", err)
		return
	}

	renderResponse(w, struct{}{}, http.StatusOK)
}

// ListTasksResponse defines the response returned back after listing tasks.
type ListTasksResponse struct {
	Tasks []Task `json:"tasks"`
}

func (t *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	var priority *internal.Priority

	if val := r.URL.Query().Get("priority"); val != "" {
		p, err := internal.ParsePriority(val)
		if err != nil {
			renderErrorResponse(r.Context(), w, "invalid priority", err)
			return
		}

		priority = &p
	}

	tasks := internal.ByPriority(t.svc.List(), priority)

	res := ListTasksResponse{Tasks: make([]Task, len(tasks))}
	for i, task := range tasks {
		res.Tasks[i] = newTask(task)
	}

	renderResponse(w, &res, http.StatusOK)
}

// ReadTasksResponse defines the response returned back after searching one task.
type ReadTasksResponse struct {
	Task Task `json:"task"`
}

func (t *TaskHandler) task(w http.ResponseWriter, r *http.Request) {
	task, err := t.svc.Task(chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(r.Context(), w, "find failed", err)
		return
	}

	renderResponse(w, &ReadTasksResponse{Task: newTask(task)}, http.StatusOK)
}

// UpdateTasksRequest defines the request used for updating a task, missing fields keep their current
// values.
type UpdateTasksRequest struct {
	Title       *string            `json:"title"`
	Description *string            `json:"description"`
	Priority    *internal.Priority `json:"priority"`
	Completed   *bool              `json:"completed"`
}

func (t *TaskHandler) update(w http.ResponseWriter, r *http.Request) {
	var req UpdateTasksRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	id := chi.URLParam(r, "id")

	current, err := t.svc.Task(id)
	if err != nil {
		renderErrorResponse(r.Context(), w, "update failed", err)
		return
	}

	params := internal.UpdateParams{
		Title:       current.Title,
		Description: current.Description,
		Priority:    current.Priority,
		Completed:   current.Completed,
	}

	if req.Title != nil {
		params.Title = *req.Title
	}

	if req.Description != nil {
		params.Description = *req.Description
	}

	if req.Priority != nil {
		params.Priority = *req.Priority
	}

	if req.Completed != nil {
		params.Completed = *req.Completed
	}

	if err := params.Validate(); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", err)
		return
	}

	if err := t.svc.Update(r.Context(), id, params); err != nil {
		renderErrorResponse(r.Context(), w, "update failed", err)
		return
	}

	t.task(w, r)
}

func (t *TaskHandler) toggle(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if _, err := t.svc.Task(id); err != nil {
		renderErrorResponse(r.Context(), w, "toggle failed", err)
		return
	}

	if err := t.svc.ToggleComplete(r.Context(), id); err != nil {
		renderErrorResponse(r.Context(), w, "toggle failed", err)
		return
	}

	t.task(w, r)
}
