package memcached_test

import (
	"testing"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"github.com/sanLimbu/todo-tracker/internal/memcached"
	"github.com/sanLimbu/todo-tracker/internal/memory"
	"github.com/sanLimbu/todo-tracker/internal/persistence/persistencetesting"
)

// With memcached unreachable every call must still be served by the original store.
func TestBlobs_CacheUnavailable(t *testing.T) {
	t.Parallel()

	client := memcache.New("127.0.0.1:1")
	client.Timeout = 100 * time.Millisecond

	blobs := memcached.NewBlobs(client, memory.NewBlobs(), zap.NewNop())

	persistencetesting.RunBlobStore(t, blobs)
}
