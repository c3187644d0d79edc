package quote

import (
	"context"
	"strings"
	"time"
	"trading_simulator/internal/utils" // Redis cache helpers

	"github.com/redis/go-redis/v9" // Redis client
)

// CachedProvider caches successful lookups from another Provider in Redis
// for a fixed TTL. Misses and provider failures are never cached, so a
// transient outage does not pin stale state.
type CachedProvider struct {
	next Provider
	rdb  *redis.Client
	ttl  time.Duration
}

func NewCachedProvider(next Provider, rdb *redis.Client, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedProvider) Lookup(ctx context.Context, symbol string) (*Quote, error) {
	key := "quote:" + strings.ToUpper(symbol) // Cache key per symbol
	var q Quote
	found, err := utils.GetCache(ctx, c.rdb, key, &q) // Try the cache first
	if err == nil && found {
		return &q, nil
	}
	fresh, err := c.next.Lookup(ctx, symbol) // Fall through to the live provider
	if err != nil {
		return nil, err
	}
	_ = utils.SetCache(ctx, c.rdb, key, fresh, c.ttl) // Cache hits only; best effort
	return fresh, nil
}
