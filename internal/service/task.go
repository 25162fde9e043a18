package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
)

const otelName = "github.com/sanLimbu/todo-tracker/internal/service"

// TaskPersistence defines the datastore holding the snapshot of Task records.
type TaskPersistence interface {
	LoadTasks(ctx context.Context) []internal.Task
	SaveTasks(ctx context.Context, tasks []internal.Task) error
}

// TaskNotifier defines the message broker told about changes to Task records.
type TaskNotifier interface {
	Created(ctx context.Context, task internal.Task) error
	Deleted(ctx context.Context, id string) error
	Updated(ctx context.Context, task internal.Task) error
}

// TaskStoreOption configures optional values of TaskStore.
type TaskStoreOption func(*TaskStore)

// WithClock replaces the function used for CreatedAt.
func WithClock(now func() time.Time) TaskStoreOption {
	return func(s *TaskStore) {
		s.now = now
	}
}

// WithIDGenerator replaces the function used for new Task IDs.
func WithIDGenerator(newID func() string) TaskStoreOption {
	return func(s *TaskStore) {
		s.newID = newID
	}
}

// WithNotifier enables change notifications.
func WithNotifier(notifier TaskNotifier) TaskStoreOption {
	return func(s *TaskStore) {
		s.notifier = notifier
	}
}

// TaskStore owns the Task records of the current session, most recent first. Every change is saved
// before the call returns; when saving fails nothing changes. After Discard every change is rejected
// until the next Load.
type TaskStore struct {
	mu          sync.Mutex
	tasks       []internal.Task
	discarded   bool
	persistence TaskPersistence
	notifier    TaskNotifier
	logger      *zap.Logger
	now         func() time.Time
	newID       func() string
}

// NewTaskStore ...
func NewTaskStore(logger *zap.Logger, persistence TaskPersistence, opts ...TaskStoreOption) *TaskStore {
	s := &TaskStore{
		tasks:       []internal.Task{},
		persistence: persistence,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Load replaces the records in memory with the persisted ones.
func (s *TaskStore) Load(ctx context.Context) {
	ctx, span := newOTELSpan(ctx, "TaskStore.Load")
	defer span.End()

	tasks := s.persistence.LoadTasks(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = tasks
	s.discarded = false

	s.logger.Debug("Load", zap.Int("count", len(tasks)))
}

// Discard calls purge and then drops the records in memory. Changes in flight either finish before
// purge runs or fail with internal.ErrorCodeUnauthenticated, so nothing is saved once purge returns.
func (s *TaskStore) Discard(ctx context.Context, purge func(ctx context.Context) error) error {
	ctx, span := newOTELSpan(ctx, "TaskStore.Discard")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := purge(ctx); err != nil {
		return err
	}

	s.tasks = []internal.Task{}
	s.discarded = true

	return nil
}

// Add prepends a new record. A blank title or an invalid priority is ignored and the zero Task is
// returned, callers are expected to validate the params first.
func (s *TaskStore) Add(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	ctx, span := newOTELSpan(ctx, "TaskStore.Add")
	defer span.End()

	title := strings.TrimSpace(params.Title)
	if title == "" {
		s.logger.Debug("Add: ignoring blank title")
		return internal.Task{}, nil
	}

	priority := params.PriorityOrDefault()
	if err := priority.Validate(); err != nil {
		s.logger.Debug("Add: ignoring invalid priority")
		return internal.Task{}, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, err := s.uniqueID()
	if err != nil {
		return internal.Task{}, err
	}

	task := internal.Task{
		ID:          id,
		Title:       title,
		Description: strings.TrimSpace(params.Description),
		Priority:    priority,
		CreatedAt:   s.now().UTC(),
	}

	tasks := make([]internal.Task, 0, len(s.tasks)+1)
	tasks = append(tasks, task)
	tasks = append(tasks, s.tasks...)

	if err := s.commit(ctx, tasks); err != nil {
		return internal.Task{}, err
	}

	s.notify(func() error { return s.notifier.Created(ctx, task) })

	return task, nil
}

// Update replaces the values of the record matching id, ID and CreatedAt are kept. Unknown ids and
// blank titles are ignored.
func (s *TaskStore) Update(ctx context.Context, id string, params internal.UpdateParams) error {
	ctx, span := newOTELSpan(ctx, "TaskStore.Update")
	defer span.End()

	title := strings.TrimSpace(params.Title)
	if title == "" {
		s.logger.Debug("Update: ignoring blank title", zap.String("id", id))
		return nil
	}

	if err := params.Priority.Validate(); err != nil {
		s.logger.Debug("Update: ignoring invalid priority", zap.String("id", id))
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replace(ctx, id, func(t internal.Task) internal.Task {
		return internal.Task{
			ID:          t.ID,
			Title:       title,
			Description: strings.TrimSpace(params.Description),
			Priority:    params.Priority,
			Completed:   params.Completed,
			CreatedAt:   t.CreatedAt,
		}
	})
}

// ToggleComplete flips Completed of the record matching id. Unknown ids are ignored.
func (s *TaskStore) ToggleComplete(ctx context.Context, id string) error {
	ctx, span := newOTELSpan(ctx, "TaskStore.ToggleComplete")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.replace(ctx, id, func(t internal.Task) internal.Task {
		t.Completed = !t.Completed
		return t
	})
}

// Delete removes the record matching id. Unknown ids are ignored.
func (s *TaskStore) Delete(ctx context.Context, id string) error {
	ctx, span := newOTELSpan(ctx, "TaskStore.Delete")
	defer span.End()

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i == -1 {
		s.logger.Debug("Delete: not found", zap.String("id", id))
		return nil
	}

	tasks := make([]internal.Task, 0, len(s.tasks)-1)
	tasks = append(tasks, s.tasks[:i]...)
	tasks = append(tasks, s.tasks[i+1:]...)

	if err := s.commit(ctx, tasks); err != nil {
		return err
	}

	s.notify(func() error { return s.notifier.Deleted(ctx, id) })

	return nil
}

// List returns a copy of the records, most recent first.
func (s *TaskStore) List() []internal.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]internal.Task(nil), s.tasks...)
}

// Task returns the record matching id.
func (s *TaskStore) Task(id string) (internal.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i == -1 {
		return internal.Task{}, internal.NewErrorf(internal.ErrorCodeNotFound, "task %q not found", id)
	}

	return s.tasks[i], nil
}

// replace must be called with mu held.
func (s *TaskStore) replace(ctx context.Context, id string, fn func(internal.Task) internal.Task) error {
	i := s.indexOf(id)
	if i == -1 {
		s.logger.Debug("replace: not found", zap.String("id", id))
		return nil
	}

	tasks := append([]internal.Task(nil), s.tasks...)
	tasks[i] = fn(tasks[i])

	if err := s.commit(ctx, tasks); err != nil {
		return err
	}

	updated := tasks[i]

	s.notify(func() error { return s.notifier.Updated(ctx, updated) })

	return nil
}

// commit must be called with mu held.
func (s *TaskStore) commit(ctx context.Context, tasks []internal.Task) error {
	if s.discarded {
		return internal.NewErrorf(internal.ErrorCodeUnauthenticated, "session ended")
	}

	if err := s.persistence.SaveTasks(ctx, tasks); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "persistence.SaveTasks")
	}

	s.tasks = tasks

	return nil
}

// uniqueID must be called with mu held.
func (s *TaskStore) uniqueID() (string, error) {
	for i := 0; i < 3; i++ {
		if id := s.newID(); s.indexOf(id) == -1 {
			return id, nil
		}
	}

	return "", internal.NewErrorf(internal.ErrorCodeUnknown, "generating unique id")
}

func (s *TaskStore) indexOf(id string) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}

	return -1
}

func (s *TaskStore) notify(fn func() error) {
	if s.notifier == nil {
		return
	}

	if err := fn(); err != nil { // XXX: Ignoring errors on purpose, the change was already saved
		s.logger.Warn("notify", zap.Error(err))
	}
}

func newOTELSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(otelName).Start(ctx, name)
}
