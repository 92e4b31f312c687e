// Package cache provides a Redis-backed cache for search results, so
// repeated queries do not burn provider quota.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// SearchCache stores search result lists keyed by a hash of the query and
// options. A nil *SearchCache is valid and disables caching.
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// New creates a SearchCache. When the Redis ping fails the cache is disabled
// (nil return) rather than failing startup; the cache is an optimization,
// not a dependency.
func New(ctx context.Context, opts *redis.Options, ttl time.Duration) *SearchCache {
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Log.Warn("redis unavailable, search cache disabled", zap.Error(err))
		return nil
	}
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &SearchCache{client: client, ttl: ttl}
}

// Key builds a deterministic cache key from the query and option fingerprint.
func Key(query, fingerprint string) string {
	sum := sha256.Sum256([]byte(query + "\x00" + fingerprint))
	return "search:" + hex.EncodeToString(sum[:16])
}

// Get returns the cached result list for key, or (nil, false) on miss or
// any Redis failure.
func (c *SearchCache) Get(ctx context.Context, key string) ([]*model.VideoInfo, bool) {
	if c == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if err != redis.Nil {
			logger.Log.Warn("search cache read failed", zap.Error(err))
		}
		return nil, false
	}

	var videos []*model.VideoInfo
	if err := json.Unmarshal([]byte(raw), &videos); err != nil {
		logger.Log.Warn("search cache entry corrupt, dropping", zap.String("key", key))
		c.client.Del(ctx, key)
		return nil, false
	}
	return videos, true
}

// Set stores a result list under key. Failures are logged and ignored.
func (c *SearchCache) Set(ctx context.Context, key string, videos []*model.VideoInfo) {
	if c == nil || len(videos) == 0 {
		return
	}

	raw, err := json.Marshal(videos)
	if err != nil {
		logger.Log.Warn("search cache marshal failed", zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		logger.Log.Warn("search cache write failed", zap.Error(err))
	}
}

// Close releases the Redis connection.
func (c *SearchCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

// String describes the cache for startup logs.
func (c *SearchCache) String() string {
	if c == nil {
		return "disabled"
	}
	return fmt.Sprintf("enabled (ttl=%s)", c.ttl)
}
