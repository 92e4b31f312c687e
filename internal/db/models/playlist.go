package models

import (
	"time"

	"github.com/google/uuid"
)

// Playlist is a user-curated ordered song collection.
type Playlist struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// PlaylistSong is one playlist membership row; Position orders the playlist.
type PlaylistSong struct {
	PlaylistID uuid.UUID `db:"playlist_id" json:"playlist_id"`
	SongID     uuid.UUID `db:"song_id" json:"song_id"`
	Position   int       `db:"position" json:"position"`
	AddedAt    time.Time `db:"added_at" json:"added_at"`
}

// NewPlaylist creates a Playlist with a fresh id and timestamps.
func NewPlaylist(name, description string) *Playlist {
	now := time.Now()
	return &Playlist{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
