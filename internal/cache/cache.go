// Package cache provides a small JSON view cache over Redis. A nil *ViewCache
// is valid and behaves as a permanent miss, so callers need no redis checks.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

func NewClient(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return rdb, nil
}

// ViewCache caches one JSON-serialisable view type T with a fixed TTL.
type ViewCache[T any] struct {
	client *redis.Client
	ttl    time.Duration
}

func NewViewCache[T any](client *redis.Client, ttl time.Duration) *ViewCache[T] {
	return &ViewCache[T]{client: client, ttl: ttl}
}

// Get returns (nil, false) on a miss, a deserialisation error, or a nil cache.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set stores value under key. Cache write failures are logged, not returned.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		slog.Error("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		slog.Error("cache write failed", "key", key, "error", err)
	}
}
