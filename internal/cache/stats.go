package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/campushub/eventhub/internal/config"
	"github.com/campushub/eventhub/internal/domain"
)

// DashboardTTL keeps admin dashboards slightly stale instead of
// recomputing the full snapshot on every request.
const DashboardTTL = 30 * time.Second

func NewRedisClient(conf *config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
}

// StatsCache stores computed dashboard snapshots in redis. Cache
// failures degrade to recomputation, never to request errors.
type StatsCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{
		client: client,
		ttl:    DashboardTTL,
	}
}

func (c *StatsCache) Get(ctx context.Context, key string) (domain.DashboardStats, bool) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			zap.L().Warn("stats cache read failed", zap.String("key", key), zap.Error(err))
		}

		return domain.DashboardStats{}, false
	}

	var stats domain.DashboardStats
	if err = json.Unmarshal(raw, &stats); err != nil {
		zap.L().Warn("stats cache entry corrupt", zap.String("key", key), zap.Error(err))

		return domain.DashboardStats{}, false
	}

	return stats, true
}

func (c *StatsCache) Set(ctx context.Context, key string, stats domain.DashboardStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		zap.L().Warn("stats cache marshal failed", zap.String("key", key), zap.Error(err))

		return
	}

	if err = c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		zap.L().Warn("stats cache write failed", zap.String("key", key), zap.Error(err))
	}
}
