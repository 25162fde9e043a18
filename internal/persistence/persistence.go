package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
)

const otelName = "github.com/sanLimbu/todo-tracker/internal/persistence"

const (
	// TasksKey is the key holding the JSON array of tasks.
	TasksKey = "todos"

	// IdentityKey is the key holding the JSON object with the session identity.
	IdentityKey = "user"
)

// BlobStore defines the string-keyed datastore the tracker persists to. Get must return an
// internal.Error with internal.ErrorCodeNotFound when the key does not exist.
type BlobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Adapter translates tasks and identities to and from the blobs kept in a BlobStore. Every save is
// a full snapshot overwriting the previous value.
type Adapter struct {
	blobs  BlobStore
	logger *zap.Logger
}

// NewAdapter ...
func NewAdapter(blobs BlobStore, logger *zap.Logger) *Adapter {
	return &Adapter{
		blobs:  blobs,
		logger: logger,
	}
}

type task struct {
	ID          string             `json:"id"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Priority    *internal.Priority `json:"priority"`
	Completed   bool               `json:"completed"`
	CreatedAt   timestamp          `json:"createdAt"`
}

type identity struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// LoadTasks returns the persisted tasks, a missing or corrupted value results in an empty list.
func (a *Adapter) LoadTasks(ctx context.Context) []internal.Task {
	ctx, span := newOTELSpan(ctx, "Adapter.LoadTasks")
	defer span.End()

	val, ok := a.get(ctx, TasksKey)
	if !ok {
		return []internal.Task{}
	}

	var stored []task
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		a.logger.Warn("LoadTasks: discarding unreadable tasks", zap.Error(err))
		return []internal.Task{}
	}

	res := make([]internal.Task, 0, len(stored))
	seen := make(map[string]struct{}, len(stored))

	for _, s := range stored {
		if s.Priority == nil {
			a.logger.Warn("LoadTasks: discarding tasks without priority", zap.String("id", s.ID))
			return []internal.Task{}
		}

		t := internal.Task{
			ID:          s.ID,
			Title:       s.Title,
			Description: s.Description,
			Priority:    *s.Priority,
			Completed:   s.Completed,
			CreatedAt:   time.Time(s.CreatedAt),
		}

		if err := t.Validate(); err != nil {
			a.logger.Warn("LoadTasks: discarding invalid tasks", zap.String("id", s.ID), zap.Error(err))
			return []internal.Task{}
		}

		if _, ok := seen[t.ID]; ok {
			a.logger.Warn("LoadTasks: discarding tasks with duplicated ids", zap.String("id", t.ID))
			return []internal.Task{}
		}

		seen[t.ID] = struct{}{}

		res = append(res, t)
	}

	return res
}

// SaveTasks overwrites the persisted tasks with the received ones.
func (a *Adapter) SaveTasks(ctx context.Context, tasks []internal.Task) error {
	ctx, span := newOTELSpan(ctx, "Adapter.SaveTasks")
	defer span.End()

	stored := make([]task, len(tasks))

	for i, t := range tasks {
		priority := t.Priority

		stored[i] = task{
			ID:          t.ID,
			Title:       t.Title,
			Description: t.Description,
			Priority:    &priority,
			Completed:   t.Completed,
			CreatedAt:   timestamp(t.CreatedAt),
		}
	}

	b, err := json.Marshal(stored)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Marshal")
	}

	if err := a.blobs.Set(ctx, TasksKey, string(b)); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "blobs.Set")
	}

	return nil
}

// LoadIdentity returns the persisted identity, false is returned when there is none or when it can't
// be read.
func (a *Adapter) LoadIdentity(ctx context.Context) (internal.Identity, bool) {
	ctx, span := newOTELSpan(ctx, "Adapter.LoadIdentity")
	defer span.End()

	val, ok := a.get(ctx, IdentityKey)
	if !ok {
		return internal.Identity{}, false
	}

	var stored identity
	if err := json.Unmarshal([]byte(val), &stored); err != nil {
		a.logger.Warn("LoadIdentity: discarding unreadable identity", zap.Error(err))
		return internal.Identity{}, false
	}

	res := internal.Identity{Name: stored.Name, Email: stored.Email}
	if err := res.Validate(); err != nil {
		a.logger.Warn("LoadIdentity: discarding invalid identity", zap.Error(err))
		return internal.Identity{}, false
	}

	return res, true
}

// SaveIdentity overwrites the persisted identity.
func (a *Adapter) SaveIdentity(ctx context.Context, id internal.Identity) error {
	ctx, span := newOTELSpan(ctx, "Adapter.SaveIdentity")
	defer span.End()

	b, err := json.Marshal(identity{Name: id.Name, Email: id.Email})
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.Marshal")
	}

	if err := a.blobs.Set(ctx, IdentityKey, string(b)); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "blobs.Set")
	}

	return nil
}

// Clear removes both the identity and the tasks.
func (a *Adapter) Clear(ctx context.Context) error {
	ctx, span := newOTELSpan(ctx, "Adapter.Clear")
	defer span.End()

	for _, key := range []string{IdentityKey, TasksKey} {
		if err := a.blobs.Delete(ctx, key); err != nil {
			return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "blobs.Delete %s", key)
		}
	}

	return nil
}

func (a *Adapter) get(ctx context.Context, key string) (string, bool) {
	val, err := a.blobs.Get(ctx, key)
	if err != nil {
		var ierr *internal.Error
		if errors.As(err, &ierr) && ierr.Code() == internal.ErrorCodeNotFound {
			a.logger.Debug("get: nothing persisted", zap.String("key", key))
		} else {
			a.logger.Warn("get: reading failed", zap.String("key", key), zap.Error(err))
		}

		return "", false
	}

	return val, true
}

// timestamp is written as RFC 3339 and read from RFC 3339 strings or epoch milliseconds, either as
// a number or a string.
type timestamp time.Time

func (t timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Time(t).UTC().Format(time.RFC3339Nano))
}

func (t *timestamp) UnmarshalJSON(b []byte) error {
	var ms int64
	if err := json.Unmarshal(b, &ms); err == nil {
		*t = timestamp(time.UnixMilli(ms).UTC())
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json.Unmarshal")
	}

	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*t = timestamp(time.UnixMilli(ms).UTC())
		return nil
	}

	res, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "time.Parse")
	}

	*t = timestamp(res.UTC())

	return nil
}

func newOTELSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return otel.Tracer(otelName).Start(ctx, name)
}
