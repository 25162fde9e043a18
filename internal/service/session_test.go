package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/memory"
	"github.com/sanLimbu/todo-tracker/internal/persistence"
	"github.com/sanLimbu/todo-tracker/internal/service"
)

func newSession(blobs persistence.BlobStore) *service.Session {
	adapter := persistence.NewAdapter(blobs, zap.NewNop())
	store := service.NewTaskStore(zap.NewNop(), adapter)

	return service.NewSession(zap.NewNop(), adapter, store)
}

func errorCode(t *testing.T, err error) internal.ErrorCode {
	t.Helper()

	var ierr *internal.Error
	require.True(t, errors.As(err, &ierr), "expected internal.Error, got %v", err)

	return ierr.Code()
}

func TestSession_States(t *testing.T) {
	t.Parallel()

	session := newSession(memory.NewBlobs())
	session.Restore(context.Background())

	assert.Equal(t, service.StateAnonymousLogin, session.State())
	assert.False(t, session.IsAuthenticated())

	session.ShowRegister()
	assert.Equal(t, service.StateAnonymousRegister, session.State())

	session.ShowLogin()
	assert.Equal(t, service.StateAnonymousLogin, session.State())

	session.ShowRegister()
	require.NoError(t, session.Login(context.Background(), "Ada", "ada@example.com"))
	assert.Equal(t, service.StateAuthenticated, session.State())

	// Views can't be switched while authenticated.
	session.ShowRegister()
	assert.Equal(t, service.StateAuthenticated, session.State())

	require.NoError(t, session.Logout(context.Background()))
	assert.Equal(t, service.StateAnonymousLogin, session.State())
}

func TestSession_Login(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		session := newSession(memory.NewBlobs())

		require.NoError(t, session.Login(context.Background(), " Ada ", "ada@example.com"))
		assert.True(t, session.IsAuthenticated())

		id, ok := session.Identity()
		assert.True(t, ok)
		assert.Equal(t, internal.Identity{Name: "Ada", Email: "ada@example.com"}, id)
	})

	t.Run("ERR: blank values", func(t *testing.T) {
		t.Parallel()

		session := newSession(memory.NewBlobs())

		err := session.Login(context.Background(), "  ", "ada@example.com")
		assert.Equal(t, internal.ErrorCodeInvalidArgument, errorCode(t, err))

		err = session.Login(context.Background(), "Ada", "")
		assert.Equal(t, internal.ErrorCodeInvalidArgument, errorCode(t, err))

		assert.False(t, session.IsAuthenticated())
	})

	t.Run("ERR: already authenticated", func(t *testing.T) {
		t.Parallel()

		session := newSession(memory.NewBlobs())

		require.NoError(t, session.Login(context.Background(), "Ada", "ada@example.com"))

		err := session.Login(context.Background(), "Bob", "bob@example.com")
		assert.Equal(t, internal.ErrorCodeInvalidArgument, errorCode(t, err))

		id, _ := session.Identity()
		assert.Equal(t, "Ada", id.Name)
	})
}

func TestSession_Tasks(t *testing.T) {
	t.Parallel()

	session := newSession(memory.NewBlobs())

	_, err := session.Tasks()
	assert.Equal(t, internal.ErrorCodeUnauthenticated, errorCode(t, err))

	require.NoError(t, session.Login(context.Background(), "Ada", "ada@example.com"))

	store, err := session.Tasks()
	require.NoError(t, err)
	assert.NotNil(t, store)
}

func TestSession_Restore(t *testing.T) {
	t.Parallel()

	blobs := memory.NewBlobs()

	first := newSession(blobs)
	require.NoError(t, first.Login(context.Background(), "Ada", "ada@example.com"))

	store, err := first.Tasks()
	require.NoError(t, err)

	_, err = store.Add(context.Background(), internal.CreateParams{Title: "A"})
	require.NoError(t, err)

	second := newSession(blobs)
	second.Restore(context.Background())

	assert.Equal(t, service.StateAuthenticated, second.State())

	id, ok := second.Identity()
	assert.True(t, ok)
	assert.Equal(t, "Ada", id.Name)

	store, err = second.Tasks()
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, titles(store.List()))
}

func TestSession_Logout(t *testing.T) {
	t.Parallel()

	blobs := memory.NewBlobs()

	session := newSession(blobs)
	require.NoError(t, session.Login(context.Background(), "Ada", "ada@example.com"))

	store, err := session.Tasks()
	require.NoError(t, err)

	for _, title := range []string{"A", "B", "C"} {
		_, err := store.Add(context.Background(), internal.CreateParams{Title: title})
		require.NoError(t, err)
	}

	require.NoError(t, session.Logout(context.Background()))
	assert.False(t, session.IsAuthenticated())
	assert.Empty(t, store.List())

	_, ok := session.Identity()
	assert.False(t, ok)

	adapter := persistence.NewAdapter(blobs, zap.NewNop())
	assert.Empty(t, adapter.LoadTasks(context.Background()))

	_, ok = adapter.LoadIdentity(context.Background())
	assert.False(t, ok)

	// A new session starts anonymous and, after logging in, empty.
	next := newSession(blobs)
	next.Restore(context.Background())
	assert.Equal(t, service.StateAnonymousLogin, next.State())

	require.NoError(t, next.Login(context.Background(), "Bob", "bob@example.com"))

	store, err = next.Tasks()
	require.NoError(t, err)
	assert.Empty(t, store.List())
}

type hookedBlobs struct {
	*memory.Blobs
	onDelete func(key string)
}

func (h *hookedBlobs) Delete(ctx context.Context, key string) error {
	if err := h.Blobs.Delete(ctx, key); err != nil {
		return err
	}

	if h.onDelete != nil {
		h.onDelete(key)
	}

	return nil
}

func TestSession_LogoutWithChangesInFlight(t *testing.T) {
	t.Parallel()

	blobs := &hookedBlobs{Blobs: memory.NewBlobs()}

	session := newSession(blobs)
	require.NoError(t, session.Login(context.Background(), "Ada", "ada@example.com"))

	store, err := session.Tasks()
	require.NoError(t, err)

	_, err = store.Add(context.Background(), internal.CreateParams{Title: "A"})
	require.NoError(t, err)

	errC := make(chan error, 1)

	blobs.onDelete = func(key string) {
		if key != persistence.TasksKey {
			return
		}

		// Passed the session check before Logout started.
		go func() {
			_, err := store.Add(context.Background(), internal.CreateParams{Title: "in flight"})
			errC <- err
		}()
	}

	require.NoError(t, session.Logout(context.Background()))

	err = <-errC
	require.Error(t, err)
	assert.Equal(t, internal.ErrorCodeUnauthenticated, errorCode(t, err))

	assert.Empty(t, store.List())
	assert.Empty(t, persistence.NewAdapter(blobs, zap.NewNop()).LoadTasks(context.Background()))

	require.NoError(t, session.Login(context.Background(), "Bob", "bob@example.com"))

	_, err = store.Add(context.Background(), internal.CreateParams{Title: "B"})
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, titles(store.List()))
}
