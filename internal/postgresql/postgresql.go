package postgresql

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/todo-tracker/internal"
	"github.com/sanLimbu/todo-tracker/internal/postgresql/db"
)

//go:generate sqlc generate

const otelName = "github.com/sanLimbu/todo-tracker/internal/postgresql"

// Blobs stores values in the "blobs" table.
type Blobs struct {
	q *db.Queries
}

// NewBlobs instantiates the Blobs repository.
func NewBlobs(d db.DBTX) *Blobs {
	return &Blobs{
		q: db.New(d),
	}
}

// Get returns the value stored under key.
func (b *Blobs) Get(ctx context.Context, key string) (string, error) {
	defer newOTELSpan(ctx, "Blobs.Get").End()

	val, err := b.q.SelectBlob(ctx, key)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", internal.WrapErrorf(err, internal.ErrorCodeNotFound, "key %q not found", key)
		}

		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "select blob")
	}

	return val, nil
}

// Set overwrites the value stored under key.
func (b *Blobs) Set(ctx context.Context, key, value string) error {
	defer newOTELSpan(ctx, "Blobs.Set").End()

	if err := b.q.UpsertBlob(ctx, db.UpsertBlobParams{
		Key:   key,
		Value: value,
	}); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "upsert blob")
	}

	return nil
}

// Delete removes key, deleting a missing key is not an error.
func (b *Blobs) Delete(ctx context.Context, key string) error {
	defer newOTELSpan(ctx, "Blobs.Delete").End()

	if err := b.q.DeleteBlob(ctx, key); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "delete blob")
	}

	return nil
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemPostgreSQL)

	return span
}
