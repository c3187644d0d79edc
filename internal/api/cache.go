package api

import (
	"context"
	"time"
)

// Cache is the slice of the cache the handlers need. *utils.RedisCache is the
// production implementation; tests substitute an in-memory fake.
type Cache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}
