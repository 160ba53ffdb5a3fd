package provider

import (
	"context"
	"time"
)

// Cache is a best-effort key/value store used for product caching, rate
// limiting counters and short-lived OAuth state. Implementations must degrade
// gracefully when the backing store is unavailable.
type Cache interface {
	// Get returns the value and whether the key was present
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores a value with an optional TTL (zero means no expiry)
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes a key
	Delete(ctx context.Context, key string) error

	// IncrementWithTTL increments a counter, setting the TTL on first use.
	// Returns the new count.
	IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error)
}
