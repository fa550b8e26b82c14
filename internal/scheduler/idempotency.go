package scheduler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdempotencyCache lets the handler short-circuit a repeated POST /scheduler
// request (same body, retried by a client after a timeout) without paying
// for a second full GA run.
type IdempotencyCache interface {
	Get(ctx context.Context, key string) (*RunResult, bool, error)
	Set(ctx context.Context, key string, result RunResult, ttl time.Duration) error
}

// RedisIdempotencyCache stores a JSON-encoded RunResult per idempotency key.
type RedisIdempotencyCache struct {
	client *redis.Client
	prefix string
}

// NewRedisIdempotencyCache wraps an existing redis client.
func NewRedisIdempotencyCache(client *redis.Client) *RedisIdempotencyCache {
	return &RedisIdempotencyCache{client: client, prefix: "scheduler:run:"}
}

// Get returns the cached result for key, if present and not expired.
func (c *RedisIdempotencyCache) Get(ctx context.Context, key string) (*RunResult, bool, error) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var result RunResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, false, err
	}
	return &result, true, nil
}

// Set stores result under key for ttl.
func (c *RedisIdempotencyCache) Set(ctx context.Context, key string, result RunResult, ttl time.Duration) error {
	raw, err := json.Marshal(result)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.prefix+key, raw, ttl).Err()
}
