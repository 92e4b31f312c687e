package models

import (
	"time"

	"github.com/google/uuid"
)

// Album is a catalog album row, unique by lowercase (title, artist_id).
type Album struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Title       string     `db:"title" json:"title"`
	ArtistID    *uuid.UUID `db:"artist_id" json:"artist_id,omitempty"`
	ReleaseYear *int       `db:"release_year" json:"release_year,omitempty"`
	CoverURL    string     `db:"cover_url" json:"cover_url,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// NewAlbum creates an Album with a fresh id and timestamps.
func NewAlbum(title string, artistID *uuid.UUID) *Album {
	now := time.Now()
	return &Album{
		ID:        uuid.New(),
		Title:     title,
		ArtistID:  artistID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
