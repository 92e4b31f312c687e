// Package service composes the search adapter, processing pipeline and
// catalog persistence into the application's use cases.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/pipeline"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/quota"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/youtube"
)

// MusicStats are advisory operation counters; read them for reporting, not
// for control flow.
type MusicStats struct {
	SearchesPerformed int64 `json:"searches_performed"`
	VideosProcessed   int64 `json:"videos_processed"`
	TracksProduced    int64 `json:"tracks_produced"`
	Errors            int64 `json:"errors"`
}

// VideoSearcher is the slice of the search adapter the façade needs.
type VideoSearcher interface {
	SearchVideos(ctx context.Context, query string, opts youtube.SearchOptions) ([]*model.VideoInfo, error)
	GetVideoDetails(ctx context.Context, videoID string) (*model.VideoInfo, error)
	GetRandomVideos(ctx context.Context, opts youtube.SearchOptions) ([]*model.VideoInfo, error)
	QuotaInfo() quota.Info
}

// VideoPipeline turns search results into tracks.
type VideoPipeline interface {
	ProcessVideos(ctx context.Context, videos []*model.VideoInfo) []*model.AudioTrackData
	ProcessVideosDetailed(ctx context.Context, videos []*model.VideoInfo) []model.ProcessOutcome
}

// UnifiedMusicService is the single entry point for search-and-ingest flows.
type UnifiedMusicService struct {
	search   VideoSearcher
	pipeline VideoPipeline

	mu    sync.Mutex
	stats MusicStats
}

// NewUnifiedMusicService builds the façade.
func NewUnifiedMusicService(search VideoSearcher, p VideoPipeline) *UnifiedMusicService {
	return &UnifiedMusicService{
		search:   search,
		pipeline: p,
	}
}

// SearchAndProcessAudio searches the provider and runs every result through
// the pipeline, returning the produced tracks.
func (s *UnifiedMusicService) SearchAndProcessAudio(ctx context.Context, query string, opts youtube.SearchOptions) ([]*model.AudioTrackData, error) {
	videos, err := s.search.SearchVideos(ctx, query, opts)
	if err != nil {
		s.count(func(st *MusicStats) { st.Errors++ })
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	s.count(func(st *MusicStats) { st.SearchesPerformed++ })

	tracks := s.pipeline.ProcessVideos(ctx, videos)
	s.count(func(st *MusicStats) {
		st.VideosProcessed += int64(len(videos))
		st.TracksProduced += int64(len(tracks))
	})
	return tracks, nil
}

// GetRandomMusic processes a batch found with a randomly chosen seed query.
func (s *UnifiedMusicService) GetRandomMusic(ctx context.Context, opts youtube.SearchOptions) ([]*model.AudioTrackData, error) {
	videos, err := s.search.GetRandomVideos(ctx, opts)
	if err != nil {
		s.count(func(st *MusicStats) { st.Errors++ })
		return nil, fmt.Errorf("random music: %w", err)
	}
	s.count(func(st *MusicStats) { st.SearchesPerformed++ })

	tracks := s.pipeline.ProcessVideos(ctx, videos)
	s.count(func(st *MusicStats) {
		st.VideosProcessed += int64(len(videos))
		st.TracksProduced += int64(len(tracks))
	})
	return tracks, nil
}

// DownloadAudioFromVideo processes a single known video id end to end. The
// outcome distinguishes not-found and rejection from transient failure.
func (s *UnifiedMusicService) DownloadAudioFromVideo(ctx context.Context, videoID string) (model.ProcessOutcome, error) {
	video, err := s.search.GetVideoDetails(ctx, videoID)
	if err != nil {
		if errors.Is(err, youtube.ErrVideoNotFound) {
			return model.ProcessOutcome{
				VideoID: videoID,
				Status:  model.OutcomeNotFound,
				Reason:  err.Error(),
			}, nil
		}
		s.count(func(st *MusicStats) { st.Errors++ })
		return model.ProcessOutcome{}, err
	}

	outcomes := s.pipeline.ProcessVideosDetailed(ctx, []*model.VideoInfo{video})
	if len(outcomes) != 1 {
		return model.ProcessOutcome{}, fmt.Errorf("unexpected outcome count %d", len(outcomes))
	}

	s.count(func(st *MusicStats) {
		st.VideosProcessed++
		if outcomes[0].Success() {
			st.TracksProduced++
		}
	})
	return outcomes[0], nil
}

// QuotaInfo reports the provider quota snapshot for health endpoints.
func (s *UnifiedMusicService) QuotaInfo() quota.Info {
	return s.search.QuotaInfo()
}

// Stats returns a copy of the advisory counters.
func (s *UnifiedMusicService) Stats() MusicStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

func (s *UnifiedMusicService) count(update func(*MusicStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update(&s.stats)
}

var (
	_ VideoSearcher = (*youtube.Service)(nil)
	_ VideoPipeline = (*pipeline.Pipeline)(nil)
)
