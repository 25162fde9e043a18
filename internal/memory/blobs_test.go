package memory_test

import (
	"testing"

	"github.com/sanLimbu/todo-tracker/internal/memory"
	"github.com/sanLimbu/todo-tracker/internal/persistence/persistencetesting"
)

func TestBlobs(t *testing.T) {
	t.Parallel()

	persistencetesting.RunBlobStore(t, memory.NewBlobs())
}
