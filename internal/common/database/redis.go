package database

import (
	"context"
	"fmt"
	"time"

	"claims-registry/internal/common/config"

	"github.com/redis/go-redis/v9"
)

// ViewCache is the redis connection that memoizes rendered table pages.
// Page lookups are latency sensitive, so reads and writes time out quickly
// and the cache is skipped rather than waited on.
type ViewCache struct {
	Client *redis.Client
}

func OpenViewCache(cfg config.RedisConfig) *ViewCache {
	poolSize := cfg.PoolSize
	if poolSize <= 0 {
		poolSize = 10
	}
	return &ViewCache{Client: redis.NewClient(&redis.Options{
		Addr:         cfg.Address,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
		PoolSize:     poolSize,
		MinIdleConns: poolSize / 5,
	})}
}

func (c *ViewCache) Role() string { return "viewCache" }

func (c *ViewCache) Ping(ctx context.Context) error {
	if err := c.Client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("view cache ping: %w", err)
	}
	return nil
}

func (c *ViewCache) Close() error {
	if c.Client == nil {
		return nil
	}
	return c.Client.Close()
}
