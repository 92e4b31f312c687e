package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/service"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/audio"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/quota"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/youtube"
	"github.com/SteveSant26/streamflow-music-backend/internal/validation"
	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
)

// MusicService is the slice of the music façade the HTTP layer needs.
type MusicService interface {
	SearchAndProcessAudio(ctx context.Context, query string, opts youtube.SearchOptions) ([]*model.AudioTrackData, error)
	GetRandomMusic(ctx context.Context, opts youtube.SearchOptions) ([]*model.AudioTrackData, error)
	DownloadAudioFromVideo(ctx context.Context, videoID string) (model.ProcessOutcome, error)
	QuotaInfo() quota.Info
	Stats() service.MusicStats
}

// CatalogIngester persists processed tracks into the catalog.
type CatalogIngester interface {
	IngestTrack(ctx context.Context, track *model.AudioTrackData) (*models.Song, bool, error)
	IngestTracks(ctx context.Context, tracks []*model.AudioTrackData) []*models.Song
}

// TaskEnqueuer hands ingestion work to the background queue.
type TaskEnqueuer interface {
	EnqueueSearchIngestion(ctx context.Context, query string, maxResults int64) error
	EnqueueVideoIngestion(ctx context.Context, videoID string) error
}

// AudioProber reports a video's downloadable stream metadata without
// fetching media.
type AudioProber interface {
	Probe(ctx context.Context, url string) (*audio.ProbeResult, error)
}

var (
	_ MusicService    = (*service.UnifiedMusicService)(nil)
	_ CatalogIngester = (*service.IngestionService)(nil)
	_ AudioProber     = (*audio.Downloader)(nil)
)

// MusicHandler handles search and ingestion endpoints.
type MusicHandler struct {
	music     MusicService
	ingestion CatalogIngester
	enqueuer  TaskEnqueuer // nil when no queue is configured
	prober    AudioProber  // nil disables the audio-info endpoint
}

// NewMusicHandler creates a new MusicHandler instance.
func NewMusicHandler(music MusicService, ingestion CatalogIngester, enqueuer TaskEnqueuer, prober AudioProber) *MusicHandler {
	return &MusicHandler{
		music:     music,
		ingestion: ingestion,
		enqueuer:  enqueuer,
		prober:    prober,
	}
}

// SearchRequest is the body of POST /api/v1/music/search.
type SearchRequest struct {
	Query      string `json:"query" binding:"required"`
	MaxResults int64  `json:"max_results"`
	Async      bool   `json:"async"`
}

// Search searches the external source, runs results through the pipeline and
// ingests them into the catalog. With async=true the work is queued instead.
func (h *MusicHandler) Search(c *gin.Context) {
	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request payload: "+err.Error())
		return
	}

	if req.Async {
		if h.enqueuer == nil {
			sendError(c, http.StatusServiceUnavailable, "Service Unavailable", "background queue is not configured")
			return
		}
		if err := h.enqueuer.EnqueueSearchIngestion(c.Request.Context(), req.Query, req.MaxResults); err != nil {
			logger.Log.Error("Failed to enqueue search ingestion",
				zap.Error(err),
				zap.String("query", req.Query),
			)
			internalError(c, "failed to enqueue search")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"status": "queued",
			"query":  req.Query,
		})
		return
	}

	tracks, err := h.music.SearchAndProcessAudio(c.Request.Context(), req.Query, youtube.SearchOptions{
		MaxResults: req.MaxResults,
	})
	if err != nil {
		logger.Log.Error("Search and process failed",
			zap.Error(err),
			zap.String("query", req.Query),
		)
		internalError(c, "search failed")
		return
	}

	songs := h.ingestion.IngestTracks(c.Request.Context(), tracks)

	c.JSON(http.StatusOK, gin.H{
		"query":  req.Query,
		"tracks": len(tracks),
		"songs":  songs,
		"count":  len(songs),
	})
}

// Random processes a random batch of music videos and ingests them.
func (h *MusicHandler) Random(c *gin.Context) {
	maxResults := int64(defaultRandomCount)
	if v := c.Query("max_results"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 && n <= 50 {
			maxResults = n
		}
	}

	tracks, err := h.music.GetRandomMusic(c.Request.Context(), youtube.SearchOptions{
		MaxResults: maxResults,
	})
	if err != nil {
		logger.Log.Error("Random music fetch failed", zap.Error(err))
		internalError(c, "random music fetch failed")
		return
	}

	songs := h.ingestion.IngestTracks(c.Request.Context(), tracks)

	c.JSON(http.StatusOK, gin.H{
		"tracks": len(tracks),
		"songs":  songs,
		"count":  len(songs),
	})
}

// IngestVideo processes one video by id and ingests the result. With
// ?async=true the work is queued instead.
func (h *MusicHandler) IngestVideo(c *gin.Context) {
	videoID := c.Param("videoID")
	if !validation.IsValidVideoID(videoID) {
		badRequest(c, "invalid video id")
		return
	}

	if c.Query("async") == "true" {
		if h.enqueuer == nil {
			sendError(c, http.StatusServiceUnavailable, "Service Unavailable", "background queue is not configured")
			return
		}
		if err := h.enqueuer.EnqueueVideoIngestion(c.Request.Context(), videoID); err != nil {
			logger.Log.Error("Failed to enqueue video ingestion",
				zap.Error(err),
				zap.String("videoId", videoID),
			)
			internalError(c, "failed to enqueue video")
			return
		}
		c.JSON(http.StatusAccepted, gin.H{
			"status":   "queued",
			"video_id": videoID,
		})
		return
	}

	outcome, err := h.music.DownloadAudioFromVideo(c.Request.Context(), videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			notFound(c, "video not found")
			return
		}
		logger.Log.Error("Video processing failed",
			zap.Error(err),
			zap.String("videoId", videoID),
		)
		internalError(c, "video processing failed")
		return
	}

	switch outcome.Status {
	case model.OutcomeOK:
		// Ingested below.
	case model.OutcomeNotFound:
		notFound(c, "video not found")
		return
	case model.OutcomeSkipped, model.OutcomeValidationRejected:
		sendError(c, http.StatusUnprocessableEntity, "Unprocessable Entity", outcome.Reason)
		return
	default:
		sendError(c, http.StatusBadGateway, "Bad Gateway", outcome.Reason)
		return
	}

	song, created, err := h.ingestion.IngestTrack(c.Request.Context(), outcome.Track)
	if err != nil {
		logger.Log.Error("Video ingestion failed",
			zap.Error(err),
			zap.String("videoId", videoID),
		)
		internalError(c, "video ingestion failed")
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, gin.H{
		"song":    song,
		"created": created,
	})
}

// AudioInfo handles GET /api/v1/music/videos/:videoID/audio-info. It probes
// the video's available streams without downloading media.
func (h *MusicHandler) AudioInfo(c *gin.Context) {
	videoID := c.Param("videoID")
	if !validation.IsValidVideoID(videoID) {
		badRequest(c, "invalid video id")
		return
	}
	if h.prober == nil {
		sendError(c, http.StatusServiceUnavailable, "Service Unavailable", "audio probing is not configured")
		return
	}

	info, err := h.prober.Probe(c.Request.Context(), youtube.WatchURL(videoID))
	if err != nil {
		logger.Log.Error("Audio probe failed",
			zap.Error(err),
			zap.String("videoId", videoID),
		)
		sendError(c, http.StatusBadGateway, "Bad Gateway", "failed to probe audio streams")
		return
	}

	formats := make([]gin.H, 0, len(info.Formats))
	for _, f := range info.Formats {
		if f.ACodec == "" || f.ACodec == "none" {
			continue
		}
		formats = append(formats, gin.H{
			"format_id": f.FormatID,
			"ext":       f.Ext,
			"acodec":    f.ACodec,
			"abr":       f.ABR,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"video_id":         videoID,
		"title":            info.Title,
		"uploader":         info.Uploader,
		"duration_seconds": info.Duration,
		"audio_formats":    formats,
	})
}

// Quota reports current search-provider quota usage.
func (h *MusicHandler) Quota(c *gin.Context) {
	info := h.music.QuotaInfo()
	c.JSON(http.StatusOK, gin.H{
		"quota_used":      info.QuotaUsed,
		"quota_limit":     info.QuotaLimit,
		"quota_remaining": info.QuotaRemaining,
		"operations":      info.OperationsCount,
		"day":             info.Day,
	})
}

// Stats reports façade counters.
func (h *MusicHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.music.Stats())
}
