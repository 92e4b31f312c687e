// Package pipeline turns search results into stored audio tracks: a
// strategy picks a track processor per video, media processors fetch and
// store the thumbnail and audio, and a bounded worker pool runs the units
// concurrently. One unit's failure never aborts the batch.
package pipeline

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/SteveSant26/streamflow-music-backend/internal/config"
	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/retry"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/youtube"
	"github.com/SteveSant26/streamflow-music-backend/internal/validation"
)

// Pipeline processes batches of videos into track data.
type Pipeline struct {
	cfg      config.PipelineConfig
	strategy *Strategy
	audio    *AudioProcessor
	thumbs   *ThumbnailProcessor
}

// New assembles a pipeline. audio and thumbs may be shared across batches;
// the pipeline itself is safe for concurrent batches.
func New(cfg config.PipelineConfig, strategy *Strategy, audioProc *AudioProcessor, thumbProc *ThumbnailProcessor) *Pipeline {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 3
	}
	return &Pipeline{
		cfg:      cfg,
		strategy: strategy,
		audio:    audioProc,
		thumbs:   thumbProc,
	}
}

// DefaultRetrier builds the per-unit media retry executor from the pipeline
// configuration.
func DefaultRetrier(cfg config.PipelineConfig) *retry.Executor {
	return retry.NewExecutor("pipeline-unit", retry.Config{
		MaxRetries:    cfg.UnitRetries,
		BaseDelay:     500 * time.Millisecond,
		MaxDelay:      10 * time.Second,
		BackoffFactor: 2.0,
		Jitter:        true,
	})
}

// ProcessVideos runs the batch and returns the successfully produced tracks.
// Output order is not guaranteed to match input order.
func (p *Pipeline) ProcessVideos(ctx context.Context, videos []*model.VideoInfo) []*model.AudioTrackData {
	outcomes := p.ProcessVideosDetailed(ctx, videos)

	tracks := make([]*model.AudioTrackData, 0, len(outcomes))
	for _, o := range outcomes {
		if o.Success() {
			tracks = append(tracks, o.Track)
		}
	}
	return tracks
}

// ProcessVideosDetailed runs the batch and reports one outcome per input
// video, in input order. The batch always runs to completion; failed units
// are reported, not propagated.
func (p *Pipeline) ProcessVideosDetailed(ctx context.Context, videos []*model.VideoInfo) []model.ProcessOutcome {
	if len(videos) == 0 {
		return []model.ProcessOutcome{}
	}

	start := time.Now()
	outcomes := make([]model.ProcessOutcome, len(videos))

	sem := make(chan struct{}, p.cfg.MaxConcurrent)
	var wg sync.WaitGroup
	for i, v := range videos {
		wg.Add(1)
		go func(i int, v *model.VideoInfo) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			unitStart := time.Now()
			outcomes[i] = p.processOne(ctx, v)
			unitDuration.Observe(time.Since(unitStart).Seconds())
			unitsProcessed.WithLabelValues(string(outcomes[i].Status)).Inc()
		}(i, v)
	}
	wg.Wait()
	batchesProcessed.Inc()

	succeeded := 0
	for _, o := range outcomes {
		if o.Success() {
			succeeded++
		} else if o.Status == model.OutcomeTransientFailure {
			log.Printf("[Pipeline] Video %s failed: %s", o.VideoID, o.Reason)
		}
	}
	log.Printf("[Pipeline] Batch done: %d/%d videos succeeded in %v", succeeded, len(videos), time.Since(start).Round(time.Millisecond))

	return outcomes
}

func (p *Pipeline) processOne(ctx context.Context, v *model.VideoInfo) model.ProcessOutcome {
	if v == nil {
		return model.ProcessOutcome{Status: model.OutcomeValidationRejected, Reason: "nil video"}
	}
	outcome := model.ProcessOutcome{VideoID: v.VideoID}

	if !validation.IsValidVideoID(v.VideoID) {
		outcome.Status = model.OutcomeValidationRejected
		outcome.Reason = "invalid video id"
		return outcome
	}

	proc := p.strategy.Select(v)
	if proc == nil {
		outcome.Status = model.OutcomeSkipped
		outcome.Reason = "no processor accepted the video"
		return outcome
	}

	track := proc.BuildTrack(v)

	// Thumbnail storage is best-effort: on failure the track keeps the
	// remote thumbnail URL.
	if p.thumbs != nil && v.ThumbnailURL != "" {
		if storedURL, err := p.thumbs.Process(ctx, v.VideoID, v.ThumbnailURL); err == nil {
			track.ThumbnailURL = storedURL
		} else {
			log.Printf("[Pipeline] Thumbnail for %s not stored: %v", v.VideoID, err)
		}
	}

	if p.cfg.DownloadAudio && p.audio != nil {
		stored, err := p.audio.Process(ctx, v.VideoID, v.URL)
		if err != nil {
			return p.classifyUnitFailure(outcome, err)
		}
		track.AudioFileData = stored.Data
		track.AudioFileName = stored.Filename
		track.FileURL = stored.PublicURL
	}

	outcome.Status = model.OutcomeOK
	outcome.Track = track
	return outcome
}

func (p *Pipeline) classifyUnitFailure(outcome model.ProcessOutcome, err error) model.ProcessOutcome {
	outcome.Reason = err.Error()
	switch {
	case errors.Is(err, youtube.ErrVideoNotFound):
		outcome.Status = model.OutcomeNotFound
	case retry.IsPermanent(err):
		outcome.Status = model.OutcomeValidationRejected
	default:
		outcome.Status = model.OutcomeTransientFailure
	}
	return outcome
}
