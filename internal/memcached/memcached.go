package memcached

import (
	"context"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/todo-tracker/internal"
)

const otelName = "github.com/sanLimbu/todo-tracker/internal/memcached"

// KeyPrefix namespaces every key written to memcached.
const KeyPrefix = "todo-tracker:"

func deleteBlob(ctx context.Context, client *memcache.Client, key string) {
	defer newOTELSpan(ctx, "deleteBlob").End()

	_ = client.Delete(KeyPrefix + key)
}

func getBlob(ctx context.Context, client *memcache.Client, key string) (string, error) {
	defer newOTELSpan(ctx, "getBlob").End()

	item, err := client.Get(KeyPrefix + key)
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Get")
	}

	return string(item.Value), nil
}

func setBlob(ctx context.Context, client *memcache.Client, key, value string, expiration time.Duration) {
	defer newOTELSpan(ctx, "setBlob").End()

	_ = client.Set(&memcache.Item{
		Key:        KeyPrefix + key,
		Value:      []byte(value),
		Expiration: int32(expiration.Seconds()),
	})
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemMemcached)

	return span
}
