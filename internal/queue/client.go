package queue

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// Client wraps asynq client for enqueueing tasks
type Client struct {
	asynqClient *asynq.Client
}

// NewClient creates a new queue client
func NewClient(redisAddr string) (*Client, error) {
	// Parse Redis URL to extract connection details (host, password, db, TLS)
	redisOpt, err := ParseRedisURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	return &Client{
		asynqClient: asynq.NewClient(redisOpt),
	}, nil
}

// Close closes the client connection
func (c *Client) Close() error {
	return c.asynqClient.Close()
}

// EnqueueSearchIngestion enqueues a search-and-ingest task
func (c *Client) EnqueueSearchIngestion(ctx context.Context, query string, maxResults int64) error {
	payload, err := NewIngestSearchTask(query, maxResults, map[string]interface{}{
		"source":      "api",
		"enqueued_at": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to create task payload: %w", err)
	}

	payloadBytes, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeIngestSearch, payloadBytes)

	info, err := c.asynqClient.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(10*time.Minute),
		asynq.Queue("default"),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Printf("[Queue] Enqueued search ingestion: query=%q, task_id=%s", query, info.ID)
	return nil
}

// EnqueueVideoIngestion enqueues a single-video ingest task
func (c *Client) EnqueueVideoIngestion(ctx context.Context, videoID string) error {
	payload, err := NewIngestVideoTask(videoID, map[string]interface{}{
		"source":      "api",
		"enqueued_at": time.Now().Format(time.RFC3339),
	})
	if err != nil {
		return fmt.Errorf("failed to create task payload: %w", err)
	}

	payloadBytes, err := payload.Marshal()
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	task := asynq.NewTask(TypeIngestVideo, payloadBytes)

	info, err := c.asynqClient.EnqueueContext(ctx, task,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
		asynq.Queue("default"),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue task: %w", err)
	}

	log.Printf("[Queue] Enqueued video ingestion: video_id=%s, task_id=%s", videoID, info.ID)
	return nil
}

// EnqueueVideoIngestionBatch enqueues multiple video ingest tasks
func (c *Client) EnqueueVideoIngestionBatch(ctx context.Context, videoIDs []string) error {
	for _, videoID := range videoIDs {
		if err := c.EnqueueVideoIngestion(ctx, videoID); err != nil {
			log.Printf("[Queue] Failed to enqueue video %s: %v", videoID, err)
			// Continue with other videos
		}
	}

	log.Printf("[Queue] Enqueued %d video ingestion tasks", len(videoIDs))
	return nil
}
