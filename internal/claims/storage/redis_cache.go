package storage

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"claims-registry/internal/claims/registry"
	apperrors "claims-registry/internal/common/errors"
)

// DefaultCacheTTL bounds how long a rendered page lives in Redis.
const DefaultCacheTTL = 5 * time.Minute

// RedisCache stores rendered views. Keys already carry the store revision,
// so the TTL only reclaims space.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ registry.PageCache = (*RedisCache)(nil)

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperrors.NewCacheFailedError("get", err)
	}
	return val, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, key, value, c.ttl).Err(); err != nil {
		return apperrors.NewCacheFailedError("set", err)
	}
	return nil
}
