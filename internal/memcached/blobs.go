package memcached

import (
	"context"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
)

// BlobStore is the datastore being cached.
type BlobStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Blobs is a cache-aside decorator, reads are served from memcached when possible and writes always
// reach the original store first.
type Blobs struct {
	client     *memcache.Client
	orig       BlobStore
	expiration time.Duration
	logger     *zap.Logger
}

// NewBlobs ...
func NewBlobs(client *memcache.Client, orig BlobStore, logger *zap.Logger) *Blobs {
	return &Blobs{
		client:     client,
		orig:       orig,
		expiration: 15 * time.Minute,
		logger:     logger,
	}
}

// Get returns the cached value, on a miss the original store is used and the result cached.
func (b *Blobs) Get(ctx context.Context, key string) (string, error) {
	defer newOTELSpan(ctx, "Blobs.Get").End()

	if val, err := getBlob(ctx, b.client, key); err == nil {
		return val, nil
	}

	b.logger.Debug("Get: not cached", zap.String("key", key))

	val, err := b.orig.Get(ctx, key)
	if err != nil {
		// NotFound must reach the caller untouched.
		return "", err
	}

	setBlob(ctx, b.client, key, val, b.expiration)

	return val, nil
}

// Set writes to the original store and refreshes the cached value.
func (b *Blobs) Set(ctx context.Context, key, value string) error {
	defer newOTELSpan(ctx, "Blobs.Set").End()

	if err := b.orig.Set(ctx, key, value); err != nil {
		deleteBlob(ctx, b.client, key)
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "orig.Set")
	}

	setBlob(ctx, b.client, key, value, b.expiration)

	return nil
}

// Delete removes the value from both the original store and the cache.
func (b *Blobs) Delete(ctx context.Context, key string) error {
	defer newOTELSpan(ctx, "Blobs.Delete").End()

	deleteBlob(ctx, b.client, key)

	if err := b.orig.Delete(ctx, key); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "orig.Delete")
	}

	return nil
}
