package pipeline

import (
	"strings"
	"time"

	"github.com/SteveSant26/streamflow-music-backend/internal/extractor"
	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/validation"
)

// TrackProcessor turns one accepted video into track metadata. Implementations
// decide eligibility through ShouldProcess; the strategy asks them in
// registration order and the first match wins.
type TrackProcessor interface {
	Name() string
	ShouldProcess(v *model.VideoInfo) bool
	BuildTrack(v *model.VideoInfo) *model.AudioTrackData
}

// Strategy holds the ordered processor list.
type Strategy struct {
	processors []TrackProcessor
}

// NewStrategy registers processors in priority order.
func NewStrategy(processors ...TrackProcessor) *Strategy {
	return &Strategy{processors: processors}
}

// Select returns the first processor willing to handle v, or nil when no
// processor matches (the unit is then skipped, not failed).
func (s *Strategy) Select(v *model.VideoInfo) TrackProcessor {
	for _, p := range s.processors {
		if p.ShouldProcess(v) {
			return p
		}
	}
	return nil
}

// MusicTrackProcessor accepts videos inside the configured duration window
// with a usable title.
type MusicTrackProcessor struct {
	MinDuration time.Duration
	MaxDuration time.Duration
}

func (p *MusicTrackProcessor) Name() string { return "music" }

func (p *MusicTrackProcessor) ShouldProcess(v *model.VideoInfo) bool {
	d := time.Duration(v.DurationSeconds) * time.Second
	if d < p.MinDuration || d > p.MaxDuration {
		return false
	}
	return !validation.IsDegenerateTitle(v.Title)
}

func (p *MusicTrackProcessor) BuildTrack(v *model.VideoInfo) *model.AudioTrackData {
	track := &model.AudioTrackData{
		VideoID:          v.VideoID,
		Title:            extractor.CleanSongTitle(v),
		ArtistName:       topArtistName(v),
		DurationSeconds:  v.DurationSeconds,
		ThumbnailURL:     v.ThumbnailURL,
		Genre:            extractor.DetectGenre(v),
		Tags:             v.Tags,
		URL:              v.URL,
		ExtractedArtists: v.ExtractedArtists,
		ExtractedAlbums:  v.ExtractedAlbums,
	}
	if len(v.ExtractedAlbums) > 0 {
		track.AlbumTitle = v.ExtractedAlbums[0].Title
	}
	return track
}

// podcastKeywords gate the podcast processor; matched case-insensitively
// against the raw title.
var podcastKeywords = []string{"podcast", "episode", "interview", "talk show"}

// PodcastTrackProcessor accepts long-form spoken content: at least
// MinDuration long and carrying a podcast keyword in the title.
type PodcastTrackProcessor struct {
	MinDuration time.Duration
}

func (p *PodcastTrackProcessor) Name() string { return "podcast" }

func (p *PodcastTrackProcessor) ShouldProcess(v *model.VideoInfo) bool {
	if time.Duration(v.DurationSeconds)*time.Second < p.MinDuration {
		return false
	}
	title := strings.ToLower(v.Title)
	for _, kw := range podcastKeywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

func (p *PodcastTrackProcessor) BuildTrack(v *model.VideoInfo) *model.AudioTrackData {
	return &model.AudioTrackData{
		VideoID:         v.VideoID,
		Title:           validation.CleanTitle(v.Title),
		ArtistName:      validation.CleanArtistName(v.ChannelTitle),
		DurationSeconds: v.DurationSeconds,
		ThumbnailURL:    v.ThumbnailURL,
		Genre:           "Podcast",
		Tags:            v.Tags,
		URL:             v.URL,
	}
}

// topArtistName picks the highest-confidence extracted artist, falling back
// to the cleaned channel title.
func topArtistName(v *model.VideoInfo) string {
	if len(v.ExtractedArtists) > 0 {
		return v.ExtractedArtists[0].Name
	}
	if name := validation.CleanArtistName(v.ChannelTitle); validation.IsUsableArtistName(name) {
		return name
	}
	return v.ChannelTitle
}
