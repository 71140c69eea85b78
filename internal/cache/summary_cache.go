package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fixdesk/workorder-service/internal/service"
)

const summaryKey = "workorder:dashboard:summary"

// RedisSummaryCache stores the dashboard summary in Redis under a short TTL.
// Cache failures are logged and treated as misses; the dashboard always has
// the repository to fall back on.
type RedisSummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewRedisSummaryCache builds the cache.
func NewRedisSummaryCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisSummaryCache {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisSummaryCache{client: client, ttl: ttl, logger: logger}
}

var _ service.SummaryCache = (*RedisSummaryCache)(nil)

// Get returns the cached summary if present and fresh.
func (c *RedisSummaryCache) Get(ctx context.Context) (*service.DashboardSummary, bool) {
	raw, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("summary cache get", zap.Error(err))
		}
		return nil, false
	}
	var summary service.DashboardSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		c.logger.Warn("summary cache decode", zap.Error(err))
		return nil, false
	}
	return &summary, true
}

// Set stores the summary under the configured TTL.
func (c *RedisSummaryCache) Set(ctx context.Context, summary service.DashboardSummary) {
	raw, err := json.Marshal(summary)
	if err != nil {
		c.logger.Warn("summary cache encode", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, summaryKey, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("summary cache set", zap.Error(err))
	}
}

// Invalidate drops the cached summary.
func (c *RedisSummaryCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		c.logger.Warn("summary cache invalidate", zap.Error(err))
	}
}
