// Package repository contains pgx-backed data access for the music catalog.
package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
)

// SongRepository defines operations for managing catalog songs.
type SongRepository interface {
	// Upsert creates a song or updates the existing row with the same
	// (source_type, source_id) identity.
	Upsert(ctx context.Context, song *models.Song) error

	// GetByID retrieves a single song by catalog id.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Song, error)

	// FindBySource retrieves the song ingested from the given external source,
	// or ErrNotFound.
	FindBySource(ctx context.Context, sourceType, sourceID string) (*models.Song, error)

	// List retrieves songs ordered by creation time, newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Song, error)

	// ListByArtist retrieves an artist's songs.
	ListByArtist(ctx context.Context, artistID uuid.UUID, limit int) ([]*models.Song, error)

	// IncrementPlayCount bumps a song's play counter.
	IncrementPlayCount(ctx context.Context, id uuid.UUID) error

	// Delete removes a song.
	Delete(ctx context.Context, id uuid.UUID) error
}

type songRepository struct {
	pool *pgxpool.Pool
}

// NewSongRepository creates a new SongRepository.
func NewSongRepository(pool *pgxpool.Pool) SongRepository {
	return &songRepository{pool: pool}
}

const songColumns = `id, title, artist_id, album_id, genre_id, duration_seconds,
	file_url, thumbnail_url, source_type, source_id, source_url, play_count,
	created_at, updated_at`

func (r *songRepository) Upsert(ctx context.Context, song *models.Song) error {
	query := `
		INSERT INTO songs (id, title, artist_id, album_id, genre_id, duration_seconds,
			file_url, thumbnail_url, source_type, source_id, source_url, play_count,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (source_type, source_id) DO UPDATE
		SET title = EXCLUDED.title,
		    artist_id = EXCLUDED.artist_id,
		    album_id = EXCLUDED.album_id,
		    genre_id = EXCLUDED.genre_id,
		    duration_seconds = EXCLUDED.duration_seconds,
		    file_url = EXCLUDED.file_url,
		    thumbnail_url = EXCLUDED.thumbnail_url,
		    updated_at = EXCLUDED.updated_at
		RETURNING id, play_count, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		song.ID,
		song.Title,
		song.ArtistID,
		song.AlbumID,
		song.GenreID,
		song.DurationSeconds,
		song.FileURL,
		song.ThumbnailURL,
		song.SourceType,
		song.SourceID,
		song.SourceURL,
		song.PlayCount,
		song.CreatedAt,
		song.UpdatedAt,
	).Scan(
		&song.ID,
		&song.PlayCount,
		&song.CreatedAt,
		&song.UpdatedAt,
	)

	if err != nil {
		return db.WrapError(err, "upsert song")
	}

	return nil
}

func (r *songRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE id = $1`

	song := &models.Song{}
	err := r.pool.QueryRow(ctx, query, id).Scan(songFields(song)...)
	if err != nil {
		return nil, db.WrapError(err, "get song by id")
	}

	return song, nil
}

func (r *songRepository) FindBySource(ctx context.Context, sourceType, sourceID string) (*models.Song, error) {
	query := `SELECT ` + songColumns + ` FROM songs WHERE source_type = $1 AND source_id = $2`

	song := &models.Song{}
	err := r.pool.QueryRow(ctx, query, sourceType, sourceID).Scan(songFields(song)...)
	if err != nil {
		return nil, db.WrapError(err, "find song by source")
	}

	return song, nil
}

func (r *songRepository) List(ctx context.Context, limit, offset int) ([]*models.Song, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + songColumns + ` FROM songs ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list songs")
	}
	defer rows.Close()

	return scanSongs(rows)
}

func (r *songRepository) ListByArtist(ctx context.Context, artistID uuid.UUID, limit int) ([]*models.Song, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + songColumns + ` FROM songs WHERE artist_id = $1 ORDER BY created_at DESC LIMIT $2`

	rows, err := r.pool.Query(ctx, query, artistID, limit)
	if err != nil {
		return nil, db.WrapError(err, "list songs by artist")
	}
	defer rows.Close()

	return scanSongs(rows)
}

func (r *songRepository) IncrementPlayCount(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE songs SET play_count = play_count + 1, updated_at = NOW() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return db.WrapError(err, "increment play count")
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	return nil
}

func (r *songRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM songs WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete song")
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	return nil
}

func songFields(s *models.Song) []any {
	return []any{
		&s.ID,
		&s.Title,
		&s.ArtistID,
		&s.AlbumID,
		&s.GenreID,
		&s.DurationSeconds,
		&s.FileURL,
		&s.ThumbnailURL,
		&s.SourceType,
		&s.SourceID,
		&s.SourceURL,
		&s.PlayCount,
		&s.CreatedAt,
		&s.UpdatedAt,
	}
}

type rowScanner interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}

func scanSongs(rows rowScanner) ([]*models.Song, error) {
	var songs []*models.Song
	for rows.Next() {
		song := &models.Song{}
		if err := rows.Scan(songFields(song)...); err != nil {
			return nil, db.WrapError(err, "scan song")
		}
		songs = append(songs, song)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate songs")
	}

	return songs, nil
}
