package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
)

// ArtistRepository defines operations for managing catalog artists.
type ArtistRepository interface {
	// GetOrCreateByName returns the artist with the given name
	// (case-insensitive), creating it when absent.
	GetOrCreateByName(ctx context.Context, name string) (*models.Artist, error)

	// GetByID retrieves a single artist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error)

	// List retrieves artists ordered by name.
	List(ctx context.Context, limit, offset int) ([]*models.Artist, error)
}

type artistRepository struct {
	pool *pgxpool.Pool
}

// NewArtistRepository creates a new ArtistRepository.
func NewArtistRepository(pool *pgxpool.Pool) ArtistRepository {
	return &artistRepository{pool: pool}
}

func (r *artistRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Artist, error) {
	// Insert-first keeps this a single round trip in the common case; the
	// conflict path falls through to the returning select.
	query := `
		INSERT INTO artists (id, name, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (lower(name)) DO UPDATE SET updated_at = artists.updated_at
		RETURNING id, name, image_url, created_at, updated_at
	`

	artist := &models.Artist{}
	err := r.pool.QueryRow(ctx, query, uuid.New(), name).Scan(
		&artist.ID,
		&artist.Name,
		&artist.ImageURL,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get or create artist")
	}

	return artist, nil
}

func (r *artistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Artist, error) {
	query := `SELECT id, name, image_url, created_at, updated_at FROM artists WHERE id = $1`

	artist := &models.Artist{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&artist.ID,
		&artist.Name,
		&artist.ImageURL,
		&artist.CreatedAt,
		&artist.UpdatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get artist by id")
	}

	return artist, nil
}

func (r *artistRepository) List(ctx context.Context, limit, offset int) ([]*models.Artist, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, name, image_url, created_at, updated_at FROM artists ORDER BY name LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list artists")
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		artist := &models.Artist{}
		if err := rows.Scan(&artist.ID, &artist.Name, &artist.ImageURL, &artist.CreatedAt, &artist.UpdatedAt); err != nil {
			return nil, db.WrapError(err, "scan artist")
		}
		artists = append(artists, artist)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate artists")
	}

	return artists, nil
}
