package youtube

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/youtube/v3"

	"github.com/SteveSant26/streamflow-music-backend/internal/model"
)

// Genre names for the category ids YouTube assigns to media content.
var categoryGenres = map[string]string{
	"10": "Music",
	"24": "Entertainment",
}

// WatchURL returns the public watch page URL for a video id.
func WatchURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/watch?v=%s", videoID)
}

// buildVideoInfo converts a YouTube API video item to the domain snapshot and
// runs metadata extraction over it before returning.
func (s *Service) buildVideoInfo(item *youtube.Video) *model.VideoInfo {
	info := &model.VideoInfo{
		VideoID: item.Id,
		URL:     WatchURL(item.Id),
	}

	if item.Snippet != nil {
		info.Title = item.Snippet.Title
		info.ChannelTitle = item.Snippet.ChannelTitle
		info.ChannelID = item.Snippet.ChannelId
		info.Description = item.Snippet.Description
		info.CategoryID = item.Snippet.CategoryId
		info.Genre = categoryGenres[item.Snippet.CategoryId]
		info.ThumbnailURL = pickThumbnail(item.Snippet.Thumbnails)

		if item.Snippet.Tags != nil {
			info.Tags = item.Snippet.Tags
		} else {
			info.Tags = []string{}
		}

		if item.Snippet.PublishedAt != "" {
			if t, err := time.Parse(time.RFC3339, item.Snippet.PublishedAt); err == nil {
				info.PublishedAt = t
			}
		}
	}

	if item.ContentDetails != nil {
		info.DurationSeconds = ParseDuration(item.ContentDetails.Duration)
	}

	if item.Statistics != nil {
		info.ViewCount = int64(item.Statistics.ViewCount)
		info.LikeCount = int64(item.Statistics.LikeCount)
	}

	if s.extractor != nil {
		s.extractor.ExtractMusicMetadata(info)
	}

	return info
}

// pickThumbnail returns the best available thumbnail URL in the preference
// order maxres > high > medium > default, or "" when none exist.
func pickThumbnail(thumbs *youtube.ThumbnailDetails) string {
	if thumbs == nil {
		return ""
	}
	for _, t := range []*youtube.Thumbnail{thumbs.Maxres, thumbs.High, thumbs.Medium, thumbs.Default} {
		if t != nil && t.Url != "" {
			return t.Url
		}
	}
	return ""
}

// ParseDuration converts an ISO 8601 duration ("PT1H2M3S") to whole seconds.
// Any unparseable input yields 0 rather than an error: upstream data is noisy
// and a missing duration must not fail a whole batch.
func ParseDuration(duration string) int {
	if !strings.HasPrefix(duration, "PT") {
		return 0
	}
	rest := strings.TrimPrefix(duration, "PT")
	if rest == "" {
		return 0
	}

	total := 0
	for _, unit := range []struct {
		suffix  string
		seconds int
	}{
		{"H", 3600},
		{"M", 60},
		{"S", 1},
	} {
		idx := strings.Index(rest, unit.suffix)
		if idx == -1 {
			continue
		}
		n, err := strconv.Atoi(rest[:idx])
		if err != nil {
			return 0
		}
		total += n * unit.seconds
		rest = rest[idx+1:]
	}

	if rest != "" {
		// Trailing garbage after the last recognized unit.
		return 0
	}
	return total
}
