package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bugswriter/bizniz-api/internal/domain/port/core"
	"github.com/bugswriter/bizniz-api/internal/domain/port/provider"
)

// Cache implements the cache contract on Redis
type Cache struct {
	client *redis.Client
	logger core.Logger
}

// NewCache creates a Redis-backed cache
func NewCache(addr, password string, db int, logger core.Logger) *Cache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &Cache{client: client, logger: logger}
}

// NewCacheFromClient wraps an existing Redis client. Used in tests.
func NewCacheFromClient(client *redis.Client, logger core.Logger) *Cache {
	return &Cache{client: client, logger: logger}
}

var _ provider.Cache = (*Cache)(nil)

// Ping verifies connectivity to the Redis server
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close releases the underlying connection pool
func (c *Cache) Close() error {
	return c.client.Close()
}

// Get returns the value and whether the key was present
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores a value with an optional TTL (zero means no expiry)
func (c *Cache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}

// Delete removes a key
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("cache delete %s: %w", key, err)
	}
	return nil
}

// IncrementWithTTL increments a counter, setting the TTL on first use.
// Returns the new count.
func (c *Cache) IncrementWithTTL(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	count, err := c.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("cache incr %s: %w", key, err)
	}

	if count == 1 {
		if err := c.client.Expire(ctx, key, ttl).Err(); err != nil {
			// The counter will linger without expiry; log and move on
			// rather than failing the caller's request.
			c.logger.Warn("failed to set TTL on rate limit counter", map[string]any{
				"key":   key,
				"error": err.Error(),
			})
		}
	}

	return count, nil
}
