package queue

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/service"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/youtube"

	"github.com/hibiken/asynq"
)

// MusicProcessor searches videos and runs them through the audio pipeline.
type MusicProcessor interface {
	SearchAndProcessAudio(ctx context.Context, query string, opts youtube.SearchOptions) ([]*model.AudioTrackData, error)
	DownloadAudioFromVideo(ctx context.Context, videoID string) (model.ProcessOutcome, error)
}

// TrackIngester persists processed tracks into the catalog.
type TrackIngester interface {
	IngestTrack(ctx context.Context, track *model.AudioTrackData) (*models.Song, bool, error)
	IngestTracks(ctx context.Context, tracks []*model.AudioTrackData) []*models.Song
}

// RejectionCache remembers permanently rejected video IDs so retried or
// duplicate tasks can be dropped without reprocessing.
type RejectionCache interface {
	IsRejected(ctx context.Context, videoID string) (bool, error)
	Add(ctx context.Context, videoID string) error
}

var (
	_ MusicProcessor = (*service.UnifiedMusicService)(nil)
	_ TrackIngester  = (*service.IngestionService)(nil)
	_ RejectionCache = (*service.RejectedVideoCache)(nil)
)

// IngestionHandler handles music ingestion tasks
type IngestionHandler struct {
	music     MusicProcessor
	ingestion TrackIngester
	rejected  RejectionCache // nil disables the rejection short-circuit
}

// NewIngestionHandler creates a new ingestion task handler
func NewIngestionHandler(music MusicProcessor, ingestion TrackIngester, rejected RejectionCache) *IngestionHandler {
	return &IngestionHandler{
		music:     music,
		ingestion: ingestion,
		rejected:  rejected,
	}
}

// ProcessTask implements asynq.Handler, dispatching on task type.
func (h *IngestionHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	switch task.Type() {
	case TypeIngestSearch:
		return h.handleSearchTask(ctx, task)
	case TypeIngestVideo:
		return h.handleVideoTask(ctx, task)
	default:
		return fmt.Errorf("unexpected task type %q: %w", task.Type(), asynq.SkipRetry)
	}
}

// HandleSearchTask returns an asynq.HandlerFunc for search-and-ingest tasks
func (h *IngestionHandler) HandleSearchTask() asynq.HandlerFunc {
	return h.handleSearchTask
}

// HandleVideoTask returns an asynq.HandlerFunc for single-video ingest tasks
func (h *IngestionHandler) HandleVideoTask() asynq.HandlerFunc {
	return h.handleVideoTask
}

func (h *IngestionHandler) handleSearchTask(ctx context.Context, task *asynq.Task) error {
	payload, err := UnmarshalIngestSearchPayload(task.Payload())
	if err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Printf("[Handler] Processing search ingestion: query=%q", payload.Query)

	tracks, err := h.music.SearchAndProcessAudio(ctx, payload.Query, youtube.SearchOptions{
		MaxResults: payload.MaxResults,
	})
	if err != nil {
		return fmt.Errorf("failed to search and process %q: %w", payload.Query, err)
	}

	songs := h.ingestion.IngestTracks(ctx, tracks)

	log.Printf("[Handler] Search ingestion done: query=%q, tracks=%d, songs=%d", payload.Query, len(tracks), len(songs))
	return nil
}

func (h *IngestionHandler) handleVideoTask(ctx context.Context, task *asynq.Task) error {
	payload, err := UnmarshalIngestVideoPayload(task.Payload())
	if err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log.Printf("[Handler] Processing video ingestion: video_id=%s", payload.VideoID)

	if h.rejected != nil {
		rejected, err := h.rejected.IsRejected(ctx, payload.VideoID)
		if err != nil {
			log.Printf("[Handler] Warning: rejection cache check failed: %v", err)
		} else if rejected {
			log.Printf("[Handler] Video previously rejected, dropping task: video_id=%s", payload.VideoID)
			return fmt.Errorf("video %s previously rejected: %w", payload.VideoID, asynq.SkipRetry)
		}
	}

	outcome, err := h.music.DownloadAudioFromVideo(ctx, payload.VideoID)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			log.Printf("[Handler] Video not found, dropping task: video_id=%s", payload.VideoID)
			h.markRejected(ctx, payload.VideoID)
			return fmt.Errorf("video %s not found: %v: %w", payload.VideoID, err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to process video %s: %w", payload.VideoID, err)
	}

	switch outcome.Status {
	case model.OutcomeOK:
		// Fall through to ingestion below.
	case model.OutcomeNotFound:
		log.Printf("[Handler] Video not found, dropping task: video_id=%s", payload.VideoID)
		h.markRejected(ctx, payload.VideoID)
		return fmt.Errorf("video %s not found: %w", payload.VideoID, asynq.SkipRetry)
	case model.OutcomeSkipped, model.OutcomeValidationRejected:
		log.Printf("[Handler] Video rejected (%s), dropping task: video_id=%s, reason=%s", outcome.Status, payload.VideoID, outcome.Reason)
		h.markRejected(ctx, payload.VideoID)
		return fmt.Errorf("video %s rejected: %s: %w", payload.VideoID, outcome.Reason, asynq.SkipRetry)
	default:
		// Transient failures are retryable.
		return fmt.Errorf("transient failure for video %s: %s", payload.VideoID, outcome.Reason)
	}

	song, created, err := h.ingestion.IngestTrack(ctx, outcome.Track)
	if err != nil {
		return fmt.Errorf("failed to ingest video %s: %w", payload.VideoID, err)
	}

	log.Printf("[Handler] Successfully ingested video: video_id=%s, song_id=%s, created=%t", payload.VideoID, song.ID, created)
	return nil
}

// markRejected records a permanent rejection; failures only log since the
// cache is an optimization.
func (h *IngestionHandler) markRejected(ctx context.Context, videoID string) {
	if h.rejected == nil {
		return
	}
	if err := h.rejected.Add(ctx, videoID); err != nil {
		log.Printf("[Handler] Warning: failed to record rejected video: %v", err)
	}
}

// Server wraps asynq server for processing tasks
type Server struct {
	asynqServer *asynq.Server
	mux         *asynq.ServeMux
}

// NewServer creates a new task processing server
func NewServer(redisAddr string, concurrency int, handler *IngestionHandler) (*Server, error) {
	// Parse Redis URL to extract connection details (host, password, db, TLS)
	redisOpt, err := ParseRedisURL(redisAddr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}

	srv := asynq.NewServer(
		redisOpt,
		asynq.Config{
			Concurrency: concurrency,
			Queues: map[string]int{
				"default": 10,
			},
			StrictPriority: false, // Process all queues fairly
			ErrorHandler: asynq.ErrorHandlerFunc(func(ctx context.Context, task *asynq.Task, err error) {
				log.Printf("[Server] Task failed: type=%s, error=%v", task.Type(), err)
			}),
		},
	)

	mux := asynq.NewServeMux()

	// Register handlers
	mux.HandleFunc(TypeIngestSearch, handler.HandleSearchTask())
	mux.HandleFunc(TypeIngestVideo, handler.HandleVideoTask())

	return &Server{
		asynqServer: srv,
		mux:         mux,
	}, nil
}

// Start starts the server
func (s *Server) Start() error {
	log.Println("[Server] Starting task processing server...")
	return s.asynqServer.Start(s.mux)
}

// Stop gracefully stops the server
func (s *Server) Stop() {
	log.Println("[Server] Shutting down task processing server...")
	s.asynqServer.Shutdown()
}

// Run starts the server and blocks until shutdown
func (s *Server) Run() error {
	return s.Start()
}
