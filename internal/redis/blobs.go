package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mercari/go-circuitbreaker"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/todo-tracker/internal"
)

const otelName = "github.com/sanLimbu/todo-tracker/internal/redis"

// KeyPrefix namespaces every key written by Blobs.
const KeyPrefix = "todo-tracker:"

// Blobs stores values in Redis, calls go through a circuit breaker so an unavailable server fails
// fast instead of blocking every request.
type Blobs struct {
	client *redis.Client
	cb     *circuitbreaker.CircuitBreaker
}

// NewBlobs ...
func NewBlobs(client *redis.Client) *Blobs {
	return &Blobs{
		client: client,
		cb: circuitbreaker.New(
			circuitbreaker.WithOpenTimeout(10*time.Second),
			circuitbreaker.WithTripFunc(circuitbreaker.NewTripFuncConsecutiveFailures(3)),
		),
	}
}

// Get returns the value stored under key.
func (b *Blobs) Get(ctx context.Context, key string) (string, error) {
	defer newOTELSpan(ctx, "Blobs.Get").End()

	found := true

	res, err := b.cb.Do(ctx, func() (interface{}, error) {
		val, err := b.client.Get(ctx, KeyPrefix+key).Result()
		if errors.Is(err, redis.Nil) {
			found = false
			return "", nil
		}

		return val, err
	})
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Get")
	}

	if !found {
		return "", internal.NewErrorf(internal.ErrorCodeNotFound, "key %q not found", key)
	}

	val, _ := res.(string)

	return val, nil
}

// Set overwrites the value stored under key, values never expire.
func (b *Blobs) Set(ctx context.Context, key, value string) error {
	defer newOTELSpan(ctx, "Blobs.Set").End()

	if _, err := b.cb.Do(ctx, func() (interface{}, error) {
		return nil, b.client.Set(ctx, KeyPrefix+key, value, 0).Err()
	}); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Set")
	}

	return nil
}

// Delete removes key, deleting a missing key is not an error.
func (b *Blobs) Delete(ctx context.Context, key string) error {
	defer newOTELSpan(ctx, "Blobs.Delete").End()

	if _, err := b.cb.Do(ctx, func() (interface{}, error) {
		return nil, b.client.Del(ctx, KeyPrefix+key).Err()
	}); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Del")
	}

	return nil
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemRedis)

	return span
}
