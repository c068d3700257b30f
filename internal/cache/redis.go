package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"tasktracker/internal/config"
	"tasktracker/pkg/logger"
)

const statsKey = "tasks:stats"

// Cache is a Redis read-through cache for the stats payload, stored as
// raw JSON bytes. All methods are safe on a nil receiver, so the app
// runs unchanged when Redis is absent.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to Redis from config. Returns nil (cache disabled) when
// the URL is invalid or the server is unreachable.
func New(ctx context.Context) *Cache {
	cfg := config.Get()
	if cfg.RedisURL == "" {
		return nil
	}
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn(ctx, "Invalid REDIS_URL, cache disabled", "error", err)
		return nil
	}
	opts.PoolSize = cfg.RedisPoolSize
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn(ctx, "Redis ping failed, cache disabled", "error", err)
		return nil
	}
	logger.Info(ctx, "Redis cache initialized", "pool_size", cfg.RedisPoolSize)
	return &Cache{
		client: client,
		ttl:    time.Duration(cfg.CacheTTL) * time.Second,
	}
}

// GetStats reads the cached stats payload. Returns (nil, false) on miss
// or error; cache failures never become request failures.
func (c *Cache) GetStats(ctx context.Context) ([]byte, bool) {
	if c == nil {
		return nil, false
	}
	b, err := c.client.Get(ctx, statsKey).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		logger.Debug(ctx, "Redis get stats failed", "error", err)
		return nil, false
	}
	return b, true
}

// SetStatsAsync writes the stats payload in the background with the
// configured TTL.
func (c *Cache) SetStatsAsync(b []byte) {
	if c == nil {
		return
	}
	go func() {
		ctx := context.Background()
		if err := c.client.Set(ctx, statsKey, b, c.ttl).Err(); err != nil {
			logger.Debug(ctx, "Redis set stats failed", "error", err)
		}
	}()
}

// Invalidate deletes the stats key so the next read goes to the store.
// Called after every successful mutation.
func (c *Cache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if err := c.client.Del(ctx, statsKey).Err(); err != nil {
		logger.Debug(ctx, "Redis invalidate stats failed", "error", err)
	}
}

// Close releases the Redis connection pool.
func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}
