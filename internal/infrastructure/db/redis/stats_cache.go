package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/triviahq/gameshow-system/internal/api/metrics"
	"github.com/triviahq/gameshow-system/internal/core/ports"
)

const statsTTL = 5 * time.Minute

// StatsCache is the optional cache-aside layer for season stats.
// Key format: seasonstats:<season_id>. Entries are deleted on every attempt
// append for the season, so a hit is always consistent with the log.
type StatsCache struct {
	client *redis.Client
}

// NewStatsCache creates a StatsCache wrapping the given Redis client.
func NewStatsCache(client *redis.Client) *StatsCache {
	return &StatsCache{client: client}
}

// Get returns the cached stats for a season, or nil on a miss.
func (c *StatsCache) Get(ctx context.Context, seasonID string) (*ports.SeasonStats, error) {
	raw, err := c.client.Get(ctx, c.key(seasonID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			metrics.StatsCacheTotal.WithLabelValues("miss").Inc()
			return nil, nil
		}
		return nil, fmt.Errorf("stats cache get: %w", err)
	}

	var s ports.SeasonStats
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, fmt.Errorf("stats cache decode: %w", err)
	}

	metrics.StatsCacheTotal.WithLabelValues("hit").Inc()
	return &s, nil
}

// Set stores the stats for a season (expires after statsTTL as a backstop;
// invalidation on append is the primary freshness mechanism).
func (c *StatsCache) Set(ctx context.Context, seasonID string, s *ports.SeasonStats) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("stats cache encode: %w", err)
	}
	return c.client.Set(ctx, c.key(seasonID), raw, statsTTL).Err()
}

// Invalidate drops the season's cached stats.
func (c *StatsCache) Invalidate(ctx context.Context, seasonID string) error {
	return c.client.Del(ctx, c.key(seasonID)).Err()
}

func (c *StatsCache) key(seasonID string) string {
	return fmt.Sprintf("seasonstats:%s", seasonID)
}
