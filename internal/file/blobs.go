// Package file implements a blob store kept in a single JSON document on disk.
package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"syscall"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/todo-tracker/internal"
)

const otelName = "github.com/sanLimbu/todo-tracker/internal/file"

// FileName is the document created inside the workspace directory.
const FileName = "storage.json"

// Blobs stores every key in one file. There is no caching, each call reads the file and writes
// it back while holding an exclusive lock so separate processes don't overwrite each other.
type Blobs struct {
	filePath string
}

// NewBlobs creates the ".todo" directory inside workspaceDir if needed.
func NewBlobs(workspaceDir string) (*Blobs, error) {
	filePath := filepath.Join(workspaceDir, ".todo", FileName)

	if err := os.MkdirAll(filepath.Dir(filePath), 0o755); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "os.MkdirAll")
	}

	return &Blobs{
		filePath: filePath,
	}, nil
}

// Path returns the location of the document.
func (b *Blobs) Path() string {
	return b.filePath
}

// Get returns the value stored under key.
func (b *Blobs) Get(ctx context.Context, key string) (string, error) {
	defer newOTELSpan(ctx, "Blobs.Get").End()

	var (
		val string
		ok  bool
	)

	err := b.withFileLock(func(file *os.File) error {
		values, err := readValues(file)
		if err != nil {
			return err
		}

		val, ok = values[key]

		return nil
	})
	if err != nil {
		return "", err
	}

	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "key %q not found", key)
	}

	return val, nil
}

// Set overwrites the value stored under key.
func (b *Blobs) Set(ctx context.Context, key, value string) error {
	defer newOTELSpan(ctx, "Blobs.Set").End()

	return b.withFileLock(func(file *os.File) error {
		values, err := readValues(file)
		if err != nil {
			return err
		}

		values[key] = value

		return writeValues(file, values)
	})
}

// Delete removes key, deleting a missing key is not an error.
func (b *Blobs) Delete(ctx context.Context, key string) error {
	defer newOTELSpan(ctx, "Blobs.Delete").End()

	return b.withFileLock(func(file *os.File) error {
		values, err := readValues(file)
		if err != nil {
			return err
		}

		if _, ok := values[key]; !ok {
			return nil
		}

		delete(values, key)

		return writeValues(file, values)
	})
}

func (b *Blobs) withFileLock(fn func(*os.File) error) error {
	file, err := os.OpenFile(b.filePath, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "os.OpenFile")
	}
	defer file.Close()

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "syscall.Flock")
	}
	defer syscall.Flock(int(file.Fd()), syscall.LOCK_UN) //nolint: errcheck

	return fn(file)
}

// readValues treats an empty or unparsable file as having no values, the next write replaces it.
func readValues(file *os.File) (map[string]string, error) {
	info, err := file.Stat()
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "file.Stat")
	}

	values := make(map[string]string)

	if info.Size() == 0 {
		return values, nil
	}

	data := make([]byte, info.Size())
	if _, err := file.ReadAt(data, 0); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "file.ReadAt")
	}

	if err := json.Unmarshal(data, &values); err != nil {
		return make(map[string]string), nil
	}

	return values, nil
}

func writeValues(file *os.File, values map[string]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "json.MarshalIndent")
	}

	if err := file.Truncate(0); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "file.Truncate")
	}

	if _, err := file.WriteAt(data, 0); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "file.WriteAt")
	}

	return nil
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	return span
}
