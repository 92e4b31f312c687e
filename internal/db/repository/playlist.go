package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
)

// PlaylistRepository defines operations for managing playlists.
type PlaylistRepository interface {
	// Create persists a new playlist.
	Create(ctx context.Context, playlist *models.Playlist) error

	// GetByID retrieves a single playlist.
	GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error)

	// List retrieves playlists, newest first.
	List(ctx context.Context, limit, offset int) ([]*models.Playlist, error)

	// Delete removes a playlist and its memberships.
	Delete(ctx context.Context, id uuid.UUID) error

	// AddSong appends a song to the end of the playlist.
	AddSong(ctx context.Context, playlistID, songID uuid.UUID) error

	// RemoveSong removes a song from the playlist.
	RemoveSong(ctx context.Context, playlistID, songID uuid.UUID) error

	// GetSongs retrieves the playlist's songs in position order.
	GetSongs(ctx context.Context, playlistID uuid.UUID) ([]*models.Song, error)
}

type playlistRepository struct {
	pool *pgxpool.Pool
}

// NewPlaylistRepository creates a new PlaylistRepository.
func NewPlaylistRepository(pool *pgxpool.Pool) PlaylistRepository {
	return &playlistRepository{pool: pool}
}

func (r *playlistRepository) Create(ctx context.Context, playlist *models.Playlist) error {
	query := `
		INSERT INTO playlists (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		playlist.ID,
		playlist.Name,
		playlist.Description,
		playlist.CreatedAt,
		playlist.UpdatedAt,
	)
	if err != nil {
		return db.WrapError(err, "create playlist")
	}

	return nil
}

func (r *playlistRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Playlist, error) {
	query := `SELECT id, name, description, created_at, updated_at FROM playlists WHERE id = $1`

	playlist := &models.Playlist{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&playlist.ID,
		&playlist.Name,
		&playlist.Description,
		&playlist.CreatedAt,
		&playlist.UpdatedAt,
	)
	if err != nil {
		return nil, db.WrapError(err, "get playlist by id")
	}

	return playlist, nil
}

func (r *playlistRepository) List(ctx context.Context, limit, offset int) ([]*models.Playlist, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT id, name, description, created_at, updated_at FROM playlists ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, db.WrapError(err, "list playlists")
	}
	defer rows.Close()

	var playlists []*models.Playlist
	for rows.Next() {
		playlist := &models.Playlist{}
		if err := rows.Scan(&playlist.ID, &playlist.Name, &playlist.Description, &playlist.CreatedAt, &playlist.UpdatedAt); err != nil {
			return nil, db.WrapError(err, "scan playlist")
		}
		playlists = append(playlists, playlist)
	}
	if err := rows.Err(); err != nil {
		return nil, db.WrapError(err, "iterate playlists")
	}

	return playlists, nil
}

func (r *playlistRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM playlists WHERE id = $1`, id)
	if err != nil {
		return db.WrapError(err, "delete playlist")
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	return nil
}

func (r *playlistRepository) AddSong(ctx context.Context, playlistID, songID uuid.UUID) error {
	query := `
		INSERT INTO playlist_songs (playlist_id, song_id, position, added_at)
		VALUES ($1, $2,
			(SELECT COALESCE(MAX(position), 0) + 1 FROM playlist_songs WHERE playlist_id = $1),
			NOW())
	`

	_, err := r.pool.Exec(ctx, query, playlistID, songID)
	if err != nil {
		return db.WrapError(err, "add song to playlist")
	}

	return nil
}

func (r *playlistRepository) RemoveSong(ctx context.Context, playlistID, songID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM playlist_songs WHERE playlist_id = $1 AND song_id = $2`,
		playlistID, songID,
	)
	if err != nil {
		return db.WrapError(err, "remove song from playlist")
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}

	return nil
}

func (r *playlistRepository) GetSongs(ctx context.Context, playlistID uuid.UUID) ([]*models.Song, error) {
	query := `
		SELECT s.id, s.title, s.artist_id, s.album_id, s.genre_id, s.duration_seconds,
			s.file_url, s.thumbnail_url, s.source_type, s.source_id, s.source_url, s.play_count,
			s.created_at, s.updated_at
		FROM playlist_songs ps
		JOIN songs s ON s.id = ps.song_id
		WHERE ps.playlist_id = $1
		ORDER BY ps.position
	`

	rows, err := r.pool.Query(ctx, query, playlistID)
	if err != nil {
		return nil, db.WrapError(err, "get playlist songs")
	}
	defer rows.Close()

	return scanSongs(rows)
}
