package persistence_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/memory"
	"github.com/sanLimbu/todo-tracker/internal/persistence"
	"github.com/sanLimbu/todo-tracker/internal/persistence/persistencetesting"
)

func TestAdapter_TasksRoundTrip(t *testing.T) {
	t.Parallel()

	adapter := persistence.NewAdapter(memory.NewBlobs(), zap.NewNop())

	tasks := []internal.Task{
		{
			ID:          "b",
			Title:       "Second",
			Description: "with description",
			Priority:    internal.PriorityUrgent,
			Completed:   true,
			CreatedAt:   time.Date(2024, 2, 3, 4, 5, 6, 789000000, time.UTC),
		},
		{
			ID:        "a",
			Title:     "First",
			Priority:  internal.PriorityNone,
			CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 1, time.UTC),
		},
	}

	require.NoError(t, adapter.SaveTasks(context.Background(), tasks))
	assert.Equal(t, tasks, adapter.LoadTasks(context.Background()))

	require.NoError(t, adapter.SaveTasks(context.Background(), tasks[1:]))
	assert.Equal(t, tasks[1:], adapter.LoadTasks(context.Background()))

	require.NoError(t, adapter.SaveTasks(context.Background(), nil))
	assert.Empty(t, adapter.LoadTasks(context.Background()))
}

func TestAdapter_TasksFormat(t *testing.T) {
	t.Parallel()

	blobs := memory.NewBlobs()
	adapter := persistence.NewAdapter(blobs, zap.NewNop())

	require.NoError(t, adapter.SaveTasks(context.Background(), []internal.Task{
		{
			ID:        "1",
			Title:     "Buy milk",
			Priority:  internal.PriorityMedium,
			CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
		},
	}))

	val, err := blobs.Get(context.Background(), persistence.TasksKey)
	require.NoError(t, err)

	assert.JSONEq(t,
		`[{"id":"1","title":"Buy milk","description":"","priority":2,"completed":false,"createdAt":"2024-05-01T09:30:00Z"}]`,
		val)
}

func TestAdapter_LoadTasks(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		stored string
		output []internal.Task
	}{
		{
			"OK: ISO-8601 with offset",
			`[{"id":"1","title":"A","description":"d","priority":1,"completed":true,"createdAt":"2024-05-01T11:30:00.000+02:00"}]`,
			[]internal.Task{
				{
					ID:          "1",
					Title:       "A",
					Description: "d",
					Priority:    internal.PriorityHigh,
					Completed:   true,
					CreatedAt:   time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
				},
			},
		},
		{
			"OK: epoch milliseconds number",
			`[{"id":"1714555800000","title":"A","description":"","priority":4,"completed":false,"createdAt":1714555800000}]`,
			[]internal.Task{
				{
					ID:        "1714555800000",
					Title:     "A",
					Priority:  internal.PriorityNone,
					CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
				},
			},
		},
		{
			"OK: epoch milliseconds string",
			`[{"id":"1","title":"A","description":"","priority":0,"completed":false,"createdAt":"1714555800000"}]`,
			[]internal.Task{
				{
					ID:        "1",
					Title:     "A",
					Priority:  internal.PriorityUrgent,
					CreatedAt: time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
				},
			},
		},
		{
			"OK: empty array",
			`[]`,
			[]internal.Task{},
		},
		{
			"ERR: not json",
			`{{{`,
			[]internal.Task{},
		},
		{
			"ERR: object instead of array",
			`{"id":"1"}`,
			[]internal.Task{},
		},
		{
			"ERR: priority out of range",
			`[{"id":"1","title":"A","description":"","priority":9,"completed":false,"createdAt":"2024-05-01T09:30:00Z"}]`,
			[]internal.Task{},
		},
		{
			"ERR: missing priority",
			`[{"id":"1","title":"A","description":"","completed":false,"createdAt":"2024-05-01T09:30:00Z"}]`,
			[]internal.Task{},
		},
		{
			"ERR: null priority",
			`[{"id":"1","title":"A","description":"","priority":null,"completed":false,"createdAt":"2024-05-01T09:30:00Z"}]`,
			[]internal.Task{},
		},
		{
			"ERR: priority as string",
			`[{"id":"1","title":"A","description":"","priority":"high","completed":false,"createdAt":"2024-05-01T09:30:00Z"}]`,
			[]internal.Task{},
		},
		{
			"ERR: blank title",
			`[{"id":"1","title":"  ","description":"","priority":1,"completed":false,"createdAt":"2024-05-01T09:30:00Z"}]`,
			[]internal.Task{},
		},
		{
			"ERR: invalid date",
			`[{"id":"1","title":"A","description":"","priority":1,"completed":false,"createdAt":"yesterday"}]`,
			[]internal.Task{},
		},
		{
			"ERR: missing id",
			`[{"title":"A","description":"","priority":1,"completed":false,"createdAt":"2024-05-01T09:30:00Z"}]`,
			[]internal.Task{},
		},
		{
			"ERR: duplicated ids",
			`[{"id":"1","title":"A","priority":1,"createdAt":"2024-05-01T09:30:00Z"},{"id":"1","title":"B","priority":1,"createdAt":"2024-05-01T09:30:00Z"}]`,
			[]internal.Task{},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			blobs := memory.NewBlobs()
			require.NoError(t, blobs.Set(context.Background(), persistence.TasksKey, tt.stored))

			res := persistence.NewAdapter(blobs, zap.NewNop()).LoadTasks(context.Background())
			assert.Equal(t, tt.output, res)
		})
	}
}

func TestAdapter_LoadTasks_Missing(t *testing.T) {
	t.Parallel()

	res := persistence.NewAdapter(memory.NewBlobs(), zap.NewNop()).LoadTasks(context.Background())

	assert.NotNil(t, res)
	assert.Empty(t, res)
}

func TestAdapter_Identity(t *testing.T) {
	t.Parallel()

	blobs := memory.NewBlobs()
	adapter := persistence.NewAdapter(blobs, zap.NewNop())

	_, ok := adapter.LoadIdentity(context.Background())
	assert.False(t, ok)

	id := internal.Identity{Name: "Ada", Email: "ada@example.com"}
	require.NoError(t, adapter.SaveIdentity(context.Background(), id))

	got, ok := adapter.LoadIdentity(context.Background())
	assert.True(t, ok)
	assert.Equal(t, id, got)

	val, err := blobs.Get(context.Background(), persistence.IdentityKey)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"Ada","email":"ada@example.com"}`, val)

	for _, stored := range []string{`not json`, `{"name":"","email":"x"}`, `[]`} {
		require.NoError(t, blobs.Set(context.Background(), persistence.IdentityKey, stored))

		_, ok := adapter.LoadIdentity(context.Background())
		assert.False(t, ok, stored)
	}
}

func TestAdapter_Clear(t *testing.T) {
	t.Parallel()

	blobs := memory.NewBlobs()
	adapter := persistence.NewAdapter(blobs, zap.NewNop())

	require.NoError(t, adapter.SaveIdentity(context.Background(), internal.Identity{Name: "Ada", Email: "a@b"}))
	require.NoError(t, adapter.SaveTasks(context.Background(), []internal.Task{
		{ID: "1", Title: "A", Priority: internal.PriorityLow, CreatedAt: time.Now()},
	}))
	require.NoError(t, blobs.Set(context.Background(), "other", "kept"))

	require.NoError(t, adapter.Clear(context.Background()))

	_, err := blobs.Get(context.Background(), persistence.TasksKey)
	persistencetesting.AssertNotFound(t, err)

	_, err = blobs.Get(context.Background(), persistence.IdentityKey)
	persistencetesting.AssertNotFound(t, err)

	val, err := blobs.Get(context.Background(), "other")
	require.NoError(t, err)
	assert.Equal(t, "kept", val)

	// Clearing twice is fine.
	require.NoError(t, adapter.Clear(context.Background()))
}

type brokenBlobs struct{}

func (brokenBlobs) Get(context.Context, string) (string, error) { return "", errors.New("down") }
func (brokenBlobs) Set(context.Context, string, string) error   { return errors.New("down") }
func (brokenBlobs) Delete(context.Context, string) error        { return errors.New("down") }

func TestAdapter_BrokenStore(t *testing.T) {
	t.Parallel()

	adapter := persistence.NewAdapter(brokenBlobs{}, zap.NewNop())

	assert.Empty(t, adapter.LoadTasks(context.Background()))

	_, ok := adapter.LoadIdentity(context.Background())
	assert.False(t, ok)

	assert.Error(t, adapter.SaveTasks(context.Background(), nil))
	assert.Error(t, adapter.SaveIdentity(context.Background(), internal.Identity{Name: "a", Email: "b"}))
	assert.Error(t, adapter.Clear(context.Background()))
}
