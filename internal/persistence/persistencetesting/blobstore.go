// Package persistencetesting contains helpers for testing persistence.BlobStore implementations.
package persistencetesting

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/persistence"
)

// RunBlobStore checks the behavior every persistence.BlobStore must have.
func RunBlobStore(t *testing.T, blobs persistence.BlobStore) {
	t.Helper()

	ctx := context.Background()

	_, err := blobs.Get(ctx, "missing")
	AssertNotFound(t, err)

	require.NoError(t, blobs.Set(ctx, "a", `{"x":1}`))
	require.NoError(t, blobs.Set(ctx, "b", "second"))

	val, err := blobs.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, val)

	require.NoError(t, blobs.Set(ctx, "a", "overwritten"))

	val, err = blobs.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "overwritten", val)

	require.NoError(t, blobs.Delete(ctx, "a"))

	_, err = blobs.Get(ctx, "a")
	AssertNotFound(t, err)

	require.NoError(t, blobs.Delete(ctx, "a"))

	val, err = blobs.Get(ctx, "b")
	require.NoError(t, err)
	assert.Equal(t, "second", val)
}

// AssertNotFound checks err is an internal.Error with internal.ErrorCodeNotFound.
func AssertNotFound(t *testing.T, err error) {
	t.Helper()

	var ierr *internal.Error
	if assert.True(t, errors.As(err, &ierr), "expected internal.Error, got %v", err) {
		assert.Equal(t, internal.ErrorCodeNotFound, ierr.Code())
	}
}
