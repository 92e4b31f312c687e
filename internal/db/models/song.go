// Package models holds the persisted catalog records.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Song is one catalog track. Its external identity is (source_type,
// source_id); the catalog enforces uniqueness over that pair, so re-ingesting
// the same video never creates a second row.
type Song struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Title           string     `db:"title" json:"title"`
	ArtistID        *uuid.UUID `db:"artist_id" json:"artist_id,omitempty"`
	AlbumID         *uuid.UUID `db:"album_id" json:"album_id,omitempty"`
	GenreID         *uuid.UUID `db:"genre_id" json:"genre_id,omitempty"`
	DurationSeconds int        `db:"duration_seconds" json:"duration_seconds"`
	FileURL         string     `db:"file_url" json:"file_url,omitempty"`
	ThumbnailURL    string     `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	SourceType      string     `db:"source_type" json:"source_type"`
	SourceID        string     `db:"source_id" json:"source_id"`
	SourceURL       string     `db:"source_url" json:"source_url,omitempty"`
	PlayCount       int64      `db:"play_count" json:"play_count"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updated_at"`
}

// NewSong creates a Song with a fresh id and timestamps.
func NewSong(title, sourceType, sourceID string) *Song {
	now := time.Now()
	return &Song{
		ID:         uuid.New(),
		Title:      title,
		SourceType: sourceType,
		SourceID:   sourceID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}
