package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
)

// AlbumRepository defines operations for managing catalog albums.
type AlbumRepository interface {
	// GetOrCreateByTitle returns the album with the given title under the
	// artist (case-insensitive), creating it when absent. artistID may be nil
	// for albums without a resolved artist.
	GetOrCreateByTitle(ctx context.Context, title string, artistID *uuid.UUID, releaseYear *int) (*models.Album, error)

	// GetByID retrieves a single album.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Album, error)

	// ListByArtist retrieves an artist's albums ordered by title.
	ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*models.Album, error)
}

type albumRepository struct {
	pool *pgxpool.Pool
}

// NewAlbumRepository creates a new AlbumRepository.
func NewAlbumRepository(pool *pgxpool.Pool) AlbumRepository {
	return &albumRepository{pool: pool}
}

func (r *albumRepository) GetOrCreateByTitle(ctx context.Context, title string, artistID *uuid.UUID, releaseYear *int) (*models.Album, error) {
	query := `
		INSERT INTO albums (id, title, artist_id, release_year, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (lower(title), artist_id) DO UPDATE
		SET release_year = COALESCE(albums.release_year, EXCLUDED.release_year),
		    updated_at = NOW()
		RETURNING id, title, artist_id, release_year, cover_url, created_at, updated_at
	`

	album := &models.Album{}
	err := r.pool.QueryRow(ctx, query, uuid.New(), title, artistID, releaseYear).Scan(
		&album.ID,
		&album.Title,
		&album.ArtistID,
		&album.ReleaseYear,
		&album.CoverURL,
		&album.CreatedAt,
		&album.UpdatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get or create album")
	}

	return album, nil
}

func (r *albumRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Album, error) {
	query := `SELECT id, title, artist_id, release_year, cover_url, created_at, updated_at FROM albums WHERE id = $1`

	album := &models.Album{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&album.ID,
		&album.Title,
		&album.ArtistID,
		&album.ReleaseYear,
		&album.CoverURL,
		&album.CreatedAt,
		&album.UpdatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get album by id")
	}

	return album, nil
}

func (r *albumRepository) ListByArtist(ctx context.Context, artistID uuid.UUID) ([]*models.Album, error) {
	query := `SELECT id, title, artist_id, release_year, cover_url, created_at, updated_at FROM albums WHERE artist_id = $1 ORDER BY title`

	rows, err := r.pool.Query(ctx, query, artistID)
	if err != nil {
		return nil, db.WrapError(err, "list albums by artist")
	}
	defer rows.Close()

	var albums []*models.Album
	for rows.Next() {
		album := &models.Album{}
		if err := rows.Scan(&album.ID, &album.Title, &album.ArtistID, &album.ReleaseYear, &album.CoverURL, &album.CreatedAt, &album.UpdatedAt); err != nil {
			return nil, db.WrapError(err, "scan album")
		}
		albums = append(albums, album)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate albums")
	}

	return albums, nil
}
