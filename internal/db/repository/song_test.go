package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/testutil"
)

func TestSongRepository_Upsert(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	songRepo := NewSongRepository(td.Pool)
	artistRepo := NewArtistRepository(td.Pool)
	ctx := context.Background()

	t.Run("creates new song", func(t *testing.T) {
		td.TruncateTables(t)

		artist, err := artistRepo.GetOrCreateByName(ctx, "Daft Punk")
		require.NoError(t, err)

		song := models.NewSong("One More Time", "youtube", "dQw4w9WgXcQ")
		song.ArtistID = &artist.ID
		song.DurationSeconds = 320
		err = songRepo.Upsert(ctx, song)

		require.NoError(t, err)
		assert.NotZero(t, song.CreatedAt)

		retrieved, err := songRepo.GetByID(ctx, song.ID)
		require.NoError(t, err)
		assert.Equal(t, "One More Time", retrieved.Title)
		assert.Equal(t, "youtube", retrieved.SourceType)
		assert.Equal(t, "dQw4w9WgXcQ", retrieved.SourceID)
	})

	t.Run("same source identity updates instead of duplicating", func(t *testing.T) {
		td.TruncateTables(t)

		first := models.NewSong("One More Time", "youtube", "dQw4w9WgXcQ")
		require.NoError(t, songRepo.Upsert(ctx, first))

		time.Sleep(10 * time.Millisecond)

		second := models.NewSong("One More Time (Remaster)", "youtube", "dQw4w9WgXcQ")
		require.NoError(t, songRepo.Upsert(ctx, second))

		// The catalog id is the original row's id, not the new candidate's.
		assert.Equal(t, first.ID, second.ID)

		songs, err := songRepo.List(ctx, 10, 0)
		require.NoError(t, err)
		require.Len(t, songs, 1)
		assert.Equal(t, "One More Time (Remaster)", songs[0].Title)
	})

	t.Run("same video id under a different source is a distinct song", func(t *testing.T) {
		td.TruncateTables(t)

		yt := models.NewSong("Track", "youtube", "shared-id")
		require.NoError(t, songRepo.Upsert(ctx, yt))

		other := models.NewSong("Track", "soundcloud", "shared-id")
		require.NoError(t, songRepo.Upsert(ctx, other))

		songs, err := songRepo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, songs, 2)
	})
}

func TestSongRepository_FindBySource(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	songRepo := NewSongRepository(td.Pool)
	ctx := context.Background()

	t.Run("finds existing song", func(t *testing.T) {
		td.TruncateTables(t)

		song := models.NewSong("One More Time", "youtube", "dQw4w9WgXcQ")
		require.NoError(t, songRepo.Upsert(ctx, song))

		found, err := songRepo.FindBySource(ctx, "youtube", "dQw4w9WgXcQ")
		require.NoError(t, err)
		assert.Equal(t, song.ID, found.ID)
	})

	t.Run("returns ErrNotFound for unknown source id", func(t *testing.T) {
		td.TruncateTables(t)

		_, err := songRepo.FindBySource(ctx, "youtube", "nope")
		require.Error(t, err)
		assert.True(t, db.IsNotFound(err))
	})
}

func TestSongRepository_IncrementPlayCount(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	songRepo := NewSongRepository(td.Pool)
	ctx := context.Background()
	td.TruncateTables(t)

	song := models.NewSong("One More Time", "youtube", "dQw4w9WgXcQ")
	require.NoError(t, songRepo.Upsert(ctx, song))

	require.NoError(t, songRepo.IncrementPlayCount(ctx, song.ID))
	require.NoError(t, songRepo.IncrementPlayCount(ctx, song.ID))

	retrieved, err := songRepo.GetByID(ctx, song.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), retrieved.PlayCount)

	err = songRepo.IncrementPlayCount(ctx, uuid.New())
	assert.True(t, db.IsNotFound(err))
}

func TestSongRepository_Delete(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	songRepo := NewSongRepository(td.Pool)
	ctx := context.Background()
	td.TruncateTables(t)

	song := models.NewSong("One More Time", "youtube", "dQw4w9WgXcQ")
	require.NoError(t, songRepo.Upsert(ctx, song))

	require.NoError(t, songRepo.Delete(ctx, song.ID))

	_, err := songRepo.GetByID(ctx, song.ID)
	assert.True(t, db.IsNotFound(err))

	assert.True(t, db.IsNotFound(songRepo.Delete(ctx, song.ID)))
}
