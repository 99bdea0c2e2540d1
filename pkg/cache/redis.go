package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache stores entries in redis. Entries are stored as raw bytes and
// expire through redis TTLs.
type RedisCache struct {
	client *redis.Client
}

// NewRedisCache connects to the server at url, e.g. "redis://localhost:6379/0".
// No connection is made until the first command; call [RedisCache.Ping] to
// check the server at startup.
func NewRedisCache(url string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &RedisCache{client: redis.NewClient(opts)}, nil
}

// NewRedisCacheFromClient wraps an existing client.
func NewRedisCacheFromClient(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

// Ping checks that the server answers.
func (c *RedisCache) Ping(ctx context.Context) error {
	return c.unavailable(c.client.Ping(ctx).Err())
}

// Get returns the entry for key. Transient failures are retried.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data  []byte
		found bool
	)
	err := RetryWithBackoff(ctx, func() error {
		b, err := c.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			data, found = nil, false
			return nil
		}
		if err != nil {
			return Retryable(c.unavailable(err))
		}
		data, found = b, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return data, found, nil
}

// Set stores data under key with the given ttl. A zero ttl keeps the entry
// until it is deleted or evicted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	if data == nil {
		data = []byte{}
	}
	return RetryWithBackoff(ctx, func() error {
		return Retryable(c.unavailable(c.client.Set(ctx, key, data, ttl).Err()))
	})
}

// Delete removes key.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.unavailable(c.client.Del(ctx, key).Err())
}

// Close closes the client connection pool.
func (c *RedisCache) Close() error { return c.client.Close() }

func (c *RedisCache) unavailable(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}

var _ Cache = (*RedisCache)(nil)
