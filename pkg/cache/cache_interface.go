package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract used by the catalog, access checker and
// magic link flow. Values are JSON encoded by the implementation.
type Cache interface {
	// Get unmarshals the cached value into dest.
	// found = false on a cache miss, dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern (SCAN based).
	DeletePattern(ctx context.Context, pattern string) error

	// Take reads and removes a key in one step, used for one-time tokens.
	Take(ctx context.Context, key string, dest interface{}) (bool, error)

	Ping(ctx context.Context) error

	Increment(ctx context.Context, key string) (int64, error)
	Exists(ctx context.Context, key string) (bool, error)
	Expire(ctx context.Context, key string, ttl time.Duration) error
	TTL(ctx context.Context, key string) (time.Duration, error)
}
