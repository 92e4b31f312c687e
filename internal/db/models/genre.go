package models

import (
	"time"

	"github.com/google/uuid"
)

// Genre is a catalog genre row, unique by lowercase name.
type Genre struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// NewGenre creates a Genre with a fresh id.
func NewGenre(name string) *Genre {
	return &Genre{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: time.Now(),
	}
}
