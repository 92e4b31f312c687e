package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
)

// GenreRepository defines operations for managing catalog genres.
type GenreRepository interface {
	// GetOrCreateByName returns the genre with the given name
	// (case-insensitive), creating it when absent.
	GetOrCreateByName(ctx context.Context, name string) (*models.Genre, error)

	// List retrieves all genres ordered by name.
	List(ctx context.Context) ([]*models.Genre, error)
}

type genreRepository struct {
	pool *pgxpool.Pool
}

// NewGenreRepository creates a new GenreRepository.
func NewGenreRepository(pool *pgxpool.Pool) GenreRepository {
	return &genreRepository{pool: pool}
}

func (r *genreRepository) GetOrCreateByName(ctx context.Context, name string) (*models.Genre, error) {
	query := `
		INSERT INTO genres (id, name, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (lower(name)) DO UPDATE SET name = genres.name
		RETURNING id, name, created_at
	`

	genre := &models.Genre{}
	err := r.pool.QueryRow(ctx, query, uuid.New(), name).Scan(
		&genre.ID,
		&genre.Name,
		&genre.CreatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get or create genre")
	}

	return genre, nil
}

func (r *genreRepository) List(ctx context.Context) ([]*models.Genre, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, created_at FROM genres ORDER BY name`)
	if err != nil {
		return nil, db.WrapError(err, "list genres")
	}
	defer rows.Close()

	var genres []*models.Genre
	for rows.Next() {
		genre := &models.Genre{}
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.CreatedAt); err != nil {
			return nil, db.WrapError(err, "scan genre")
		}
		genres = append(genres, genre)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate genres")
	}

	return genres, nil
}
