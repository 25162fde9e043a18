package internal

import (
	"context"

	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/envvar"
	"github.com/sanLimbu/todo-tracker/internal/file"
	"github.com/sanLimbu/todo-tracker/internal/memcached"
	"github.com/sanLimbu/todo-tracker/internal/memory"
	"github.com/sanLimbu/todo-tracker/internal/persistence"
	"github.com/sanLimbu/todo-tracker/internal/postgresql"
	"github.com/sanLimbu/todo-tracker/internal/redis"
)

// BlobStore is the datastore selected via STORE_BACKEND.
type BlobStore struct {
	persistence.BlobStore

	closers []func()
}

// Close releases the connections used by the datastore.
func (b *BlobStore) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// NewBlobStore instantiates the datastore using configuration defined in environment variables:
// STORE_BACKEND is one of "memory", "file" (default), "redis" or "postgresql"; when MEMCACHED_HOST
// is defined the datastore is cached.
func NewBlobStore(ctx context.Context, conf *envvar.Configuration, logger *zap.Logger) (*BlobStore, error) {
	backend, err := conf.GetDefault("STORE_BACKEND", "file")
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get STORE_BACKEND")
	}

	var res BlobStore

	switch backend {
	case "memory":
		res.BlobStore = memory.NewBlobs()
	case "file":
		dir, err := conf.GetDefault("STORE_DIR", ".")
		if err != nil {
			return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get STORE_DIR")
		}

		blobs, err := file.NewBlobs(dir)
		if err != nil {
			return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "file.NewBlobs")
		}

		res.BlobStore = blobs
	case "redis":
		rdb, err := NewRedis(conf)
		if err != nil {
			return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "internal.NewRedis")
		}

		res.BlobStore = redis.NewBlobs(rdb)
		res.closers = append(res.closers, func() { _ = rdb.Close() })
	case "postgresql":
		pool, err := NewPostgreSQL(ctx, conf)
		if err != nil {
			return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "internal.NewPostgreSQL")
		}

		res.BlobStore = postgresql.NewBlobs(pool)
		res.closers = append(res.closers, pool.Close)
	default:
		return nil, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unknown STORE_BACKEND %q", backend)
	}

	host, err := conf.Get("MEMCACHED_HOST")
	if err != nil {
		res.Close()
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "conf.Get MEMCACHED_HOST")
	}

	if host != "" {
		client, err := NewMemcached(conf)
		if err != nil {
			res.Close()
			return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "internal.NewMemcached")
		}

		res.BlobStore = memcached.NewBlobs(client, res.BlobStore, logger)
	}

	logger.Info("Datastore", zap.String("backend", backend), zap.Bool("cached", host != ""))

	return &res, nil
}
