package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveSant26/streamflow-music-backend/internal/db/testutil"
)

func TestArtistRepository_GetOrCreateByName(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	artistRepo := NewArtistRepository(td.Pool)
	ctx := context.Background()

	t.Run("creates then reuses, case-insensitively", func(t *testing.T) {
		td.TruncateTables(t)

		created, err := artistRepo.GetOrCreateByName(ctx, "Daft Punk")
		require.NoError(t, err)

		same, err := artistRepo.GetOrCreateByName(ctx, "daft punk")
		require.NoError(t, err)
		assert.Equal(t, created.ID, same.ID)
		assert.Equal(t, "Daft Punk", same.Name, "original casing is kept")

		artists, err := artistRepo.List(ctx, 10, 0)
		require.NoError(t, err)
		assert.Len(t, artists, 1)
	})

	t.Run("different names create different rows", func(t *testing.T) {
		td.TruncateTables(t)

		a, err := artistRepo.GetOrCreateByName(ctx, "Daft Punk")
		require.NoError(t, err)
		b, err := artistRepo.GetOrCreateByName(ctx, "Justice")
		require.NoError(t, err)
		assert.NotEqual(t, a.ID, b.ID)
	})
}

func TestAlbumRepository_GetOrCreateByTitle(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	artistRepo := NewArtistRepository(td.Pool)
	albumRepo := NewAlbumRepository(td.Pool)
	ctx := context.Background()

	t.Run("dedupes by title and artist", func(t *testing.T) {
		td.TruncateTables(t)

		artist, err := artistRepo.GetOrCreateByName(ctx, "Daft Punk")
		require.NoError(t, err)

		year := 2001
		created, err := albumRepo.GetOrCreateByTitle(ctx, "Discovery", &artist.ID, &year)
		require.NoError(t, err)

		same, err := albumRepo.GetOrCreateByTitle(ctx, "discovery", &artist.ID, nil)
		require.NoError(t, err)
		assert.Equal(t, created.ID, same.ID)
		require.NotNil(t, same.ReleaseYear)
		assert.Equal(t, 2001, *same.ReleaseYear, "known release year survives later calls without one")
	})

	t.Run("same title under different artists stays distinct", func(t *testing.T) {
		td.TruncateTables(t)

		a, err := artistRepo.GetOrCreateByName(ctx, "Artist A")
		require.NoError(t, err)
		b, err := artistRepo.GetOrCreateByName(ctx, "Artist B")
		require.NoError(t, err)

		first, err := albumRepo.GetOrCreateByTitle(ctx, "Greatest Hits", &a.ID, nil)
		require.NoError(t, err)
		second, err := albumRepo.GetOrCreateByTitle(ctx, "Greatest Hits", &b.ID, nil)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)
	})

	t.Run("nil artist id is allowed", func(t *testing.T) {
		td.TruncateTables(t)

		orphan, err := albumRepo.GetOrCreateByTitle(ctx, "Unknown Compilation", nil, nil)
		require.NoError(t, err)

		same, err := albumRepo.GetOrCreateByTitle(ctx, "Unknown Compilation", nil, nil)
		require.NoError(t, err)
		assert.Equal(t, orphan.ID, same.ID)
	})
}

func TestGenreRepository_GetOrCreateByName(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	genreRepo := NewGenreRepository(td.Pool)
	ctx := context.Background()
	td.TruncateTables(t)

	created, err := genreRepo.GetOrCreateByName(ctx, "Electronic")
	require.NoError(t, err)

	same, err := genreRepo.GetOrCreateByName(ctx, "ELECTRONIC")
	require.NoError(t, err)
	assert.Equal(t, created.ID, same.ID)

	genres, err := genreRepo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, genres, 1)
}
