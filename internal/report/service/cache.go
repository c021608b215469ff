package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	platformredis "fiscaldesk/internal/platform/redis"
)

// Cache stores dashboard snapshots keyed by reference date. A failing or
// absent cache degrades to recomputation, never to a request failure.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

func dashboardKey(today time.Time) string {
	return fmt.Sprintf("fiscaldesk:dashboard:%s", today.Format("2006-01-02"))
}

func (s *Service) cacheGet(ctx context.Context, today time.Time) (*Dashboard, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, ok := s.cache.Get(ctx, dashboardKey(today))
	if !ok {
		return nil, false
	}
	var d Dashboard
	if err := json.Unmarshal(raw, &d); err != nil {
		// Stale or corrupt snapshot; recompute and overwrite.
		return nil, false
	}
	return &d, true
}

func (s *Service) cacheSet(ctx context.Context, today time.Time, d *Dashboard) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(d)
	if err != nil {
		return
	}
	s.cache.Set(ctx, dashboardKey(today), raw, 0)
}

// RedisCache implements Cache over the shared Redis client. Errors are
// logged and swallowed; the dashboard must stay up when Redis is down.
type RedisCache struct {
	client *platformredis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache wraps a Redis client with a default snapshot TTL.
func NewRedisCache(client *platformredis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	return raw, true
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = c.ttl
	}
	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "failed to cache dashboard snapshot", "key", key, "error", err)
	}
}
