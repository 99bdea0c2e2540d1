package cache

import (
	"context"
	"errors"
	"time"
)

// PromoteTTL is the lifetime of entries copied from the back tier into the
// front tier on a read.
const PromoteTTL = 24 * time.Hour

// TieredCache puts a fast front cache, typically [RedisCache], in front of a
// durable back cache, typically [MongoCache]. Reads try the front first and
// copy back-tier hits forward. Writes go to both tiers.
//
// Keys are content hashes, so a promoted copy never disagrees with the back
// tier.
type TieredCache struct {
	front Cache
	back  Cache
}

// NewTieredCache layers front over back.
func NewTieredCache(front, back Cache) *TieredCache {
	return &TieredCache{front: front, back: back}
}

// Get returns the entry from the first tier that has it. A failing front
// tier is skipped.
func (c *TieredCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if data, ok, err := c.front.Get(ctx, key); err == nil && ok {
		return data, true, nil
	}

	data, ok, err := c.back.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	_ = c.front.Set(ctx, key, data, PromoteTTL)
	return data, true, nil
}

// Set writes to both tiers.
func (c *TieredCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return errors.Join(
		c.front.Set(ctx, key, data, ttl),
		c.back.Set(ctx, key, data, ttl),
	)
}

// Delete removes key from both tiers.
func (c *TieredCache) Delete(ctx context.Context, key string) error {
	return errors.Join(c.front.Delete(ctx, key), c.back.Delete(ctx, key))
}

// Close closes both tiers.
func (c *TieredCache) Close() error {
	return errors.Join(c.front.Close(), c.back.Close())
}

var _ Cache = (*TieredCache)(nil)
