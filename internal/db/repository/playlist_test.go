package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/testutil"
)

func TestPlaylistRepository(t *testing.T) {
	td := testutil.SetupTestDatabase(t)
	defer td.Cleanup(t)

	playlistRepo := NewPlaylistRepository(td.Pool)
	songRepo := NewSongRepository(td.Pool)
	ctx := context.Background()

	t.Run("create and fetch", func(t *testing.T) {
		td.TruncateTables(t)

		playlist := models.NewPlaylist("Morning Mix", "easy listening")
		require.NoError(t, playlistRepo.Create(ctx, playlist))

		retrieved, err := playlistRepo.GetByID(ctx, playlist.ID)
		require.NoError(t, err)
		assert.Equal(t, "Morning Mix", retrieved.Name)
		assert.Equal(t, "easy listening", retrieved.Description)
	})

	t.Run("songs keep insertion order", func(t *testing.T) {
		td.TruncateTables(t)

		playlist := models.NewPlaylist("Mix", "")
		require.NoError(t, playlistRepo.Create(ctx, playlist))

		first := models.NewSong("Track One", "youtube", "videoone001")
		second := models.NewSong("Track Two", "youtube", "videotwo002")
		require.NoError(t, songRepo.Upsert(ctx, first))
		require.NoError(t, songRepo.Upsert(ctx, second))

		require.NoError(t, playlistRepo.AddSong(ctx, playlist.ID, first.ID))
		require.NoError(t, playlistRepo.AddSong(ctx, playlist.ID, second.ID))

		songs, err := playlistRepo.GetSongs(ctx, playlist.ID)
		require.NoError(t, err)
		require.Len(t, songs, 2)
		assert.Equal(t, "Track One", songs[0].Title)
		assert.Equal(t, "Track Two", songs[1].Title)
	})

	t.Run("adding the same song twice fails", func(t *testing.T) {
		td.TruncateTables(t)

		playlist := models.NewPlaylist("Mix", "")
		require.NoError(t, playlistRepo.Create(ctx, playlist))

		song := models.NewSong("Track", "youtube", "videoone001")
		require.NoError(t, songRepo.Upsert(ctx, song))

		require.NoError(t, playlistRepo.AddSong(ctx, playlist.ID, song.ID))
		err := playlistRepo.AddSong(ctx, playlist.ID, song.ID)
		assert.True(t, db.IsDuplicateKey(err))
	})

	t.Run("remove song and delete playlist", func(t *testing.T) {
		td.TruncateTables(t)

		playlist := models.NewPlaylist("Mix", "")
		require.NoError(t, playlistRepo.Create(ctx, playlist))

		song := models.NewSong("Track", "youtube", "videoone001")
		require.NoError(t, songRepo.Upsert(ctx, song))
		require.NoError(t, playlistRepo.AddSong(ctx, playlist.ID, song.ID))

		require.NoError(t, playlistRepo.RemoveSong(ctx, playlist.ID, song.ID))
		assert.True(t, db.IsNotFound(playlistRepo.RemoveSong(ctx, playlist.ID, song.ID)))

		require.NoError(t, playlistRepo.Delete(ctx, playlist.ID))
		_, err := playlistRepo.GetByID(ctx, playlist.ID)
		assert.True(t, db.IsNotFound(err))

		// The song itself survives playlist deletion.
		_, err = songRepo.GetByID(ctx, song.ID)
		assert.NoError(t, err)
	})
}
