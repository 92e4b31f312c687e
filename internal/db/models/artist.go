package models

import (
	"time"

	"github.com/google/uuid"
)

// Artist is a catalog artist row, unique by lowercase name.
type Artist struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	ImageURL  string    `db:"image_url" json:"image_url,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// NewArtist creates an Artist with a fresh id and timestamps.
func NewArtist(name string) *Artist {
	now := time.Now()
	return &Artist{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
