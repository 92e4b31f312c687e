// Package model defines the domain types shared by the ingestion pipeline.
package model

import "time"

// ExtractionSource identifies where an extracted artist/album candidate came from.
type ExtractionSource string

const (
	SourceTitle       ExtractionSource = "title"
	SourceDescription ExtractionSource = "description"
	SourceChannel     ExtractionSource = "channel"
	SourceTags        ExtractionSource = "tags"
)

// VideoInfo is an immutable snapshot of a remote video as returned by the
// search adapter. The extractor populates ExtractedArtists/ExtractedAlbums
// before the snapshot is handed downstream; no other field is ever mutated.
type VideoInfo struct {
	VideoID         string    `json:"video_id"`
	Title           string    `json:"title"`
	ChannelTitle    string    `json:"channel_title"`
	ChannelID       string    `json:"channel_id"`
	ThumbnailURL    string    `json:"thumbnail_url"`
	Description     string    `json:"description"`
	DurationSeconds int       `json:"duration_seconds"`
	PublishedAt     time.Time `json:"published_at"`
	ViewCount       int64     `json:"view_count"`
	LikeCount       int64     `json:"like_count"`
	Tags            []string  `json:"tags"`
	CategoryID      string    `json:"category_id"`
	Genre           string    `json:"genre"`
	URL             string    `json:"url"`

	ExtractedArtists []ExtractedArtistInfo `json:"extracted_artists,omitempty"`
	ExtractedAlbums  []ExtractedAlbumInfo  `json:"extracted_albums,omitempty"`
}

// ExtractedArtistInfo is one artist candidate for a video. Many candidates may
// exist per video; they are ranked by confidence and deduplicated by
// case-insensitive name keeping the highest-confidence entry.
type ExtractedArtistInfo struct {
	Name            string           `json:"name"`
	ChannelID       string           `json:"channel_id,omitempty"`
	ExtractedFrom   ExtractionSource `json:"extracted_from"`
	ConfidenceScore float64          `json:"confidence_score"`
	AdditionalInfo  string           `json:"additional_info,omitempty"`
}

// ExtractedAlbumInfo is one album candidate, deduplicated by lowercase
// (title, artist_name).
type ExtractedAlbumInfo struct {
	Title           string           `json:"title"`
	ArtistName      string           `json:"artist_name,omitempty"`
	ExtractedFrom   ExtractionSource `json:"extracted_from"`
	ConfidenceScore float64          `json:"confidence_score"`
	ReleaseYear     int              `json:"release_year,omitempty"`
}
