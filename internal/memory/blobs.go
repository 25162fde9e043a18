// Package memory implements an in-process blob store, values are lost when the process exits.
package memory

import (
	"context"
	"sync"

	"github.com/sanLimbu/todo-tracker/internal"
)

// Blobs keeps values in a map.
type Blobs struct {
	mu     sync.Mutex
	values map[string]string
}

// NewBlobs ...
func NewBlobs() *Blobs {
	return &Blobs{
		values: make(map[string]string),
	}
}

// Get returns the value stored under key.
func (b *Blobs) Get(_ context.Context, key string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	val, ok := b.values[key]
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "key %q not found", key)
	}

	return val, nil
}

// Set overwrites the value stored under key.
func (b *Blobs) Set(_ context.Context, key, value string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.values[key] = value

	return nil
}

// Delete removes key, deleting a missing key is not an error.
func (b *Blobs) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.values, key)

	return nil
}
