package service

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const rejectedVideosSetKey = "rejected_videos:set"

// RejectedVideoCache remembers video IDs that permanently failed ingestion
// (not found, too long, no audio) so they are not reprocessed. Backed by a
// Redis set shared between the server and the ingester.
type RejectedVideoCache struct {
	redisClient *redis.Client
}

// NewRejectedVideoCache creates a new RejectedVideoCache.
func NewRejectedVideoCache(redisClient *redis.Client) *RejectedVideoCache {
	return &RejectedVideoCache{redisClient: redisClient}
}

// IsRejected checks if a video ID was previously rejected.
// This is an O(1) operation using Redis SISMEMBER.
func (c *RejectedVideoCache) IsRejected(ctx context.Context, videoID string) (bool, error) {
	result, err := c.redisClient.SIsMember(ctx, rejectedVideosSetKey, videoID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check if video is rejected: %w", err)
	}
	return result, nil
}

// Add records a video ID as permanently rejected.
func (c *RejectedVideoCache) Add(ctx context.Context, videoID string) error {
	if err := c.redisClient.SAdd(ctx, rejectedVideosSetKey, videoID).Err(); err != nil {
		return fmt.Errorf("failed to add video to rejected cache: %w", err)
	}
	return nil
}

// Remove clears a video ID from the rejected set, allowing reprocessing.
func (c *RejectedVideoCache) Remove(ctx context.Context, videoID string) error {
	if err := c.redisClient.SRem(ctx, rejectedVideosSetKey, videoID).Err(); err != nil {
		return fmt.Errorf("failed to remove video from rejected cache: %w", err)
	}
	return nil
}

// Count returns the number of rejected videos in the cache.
func (c *RejectedVideoCache) Count(ctx context.Context) (int64, error) {
	count, err := c.redisClient.SCard(ctx, rejectedVideosSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get rejected videos count: %w", err)
	}
	return count, nil
}
