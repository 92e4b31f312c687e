package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/repository"
	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
)

// SongHandler handles catalog song endpoints.
type SongHandler struct {
	songs repository.SongRepository
}

// NewSongHandler creates a new SongHandler instance.
func NewSongHandler(songs repository.SongRepository) *SongHandler {
	return &SongHandler{songs: songs}
}

// List returns songs, newest first.
func (h *SongHandler) List(c *gin.Context) {
	limit := parseLimit(c)
	offset := parseOffset(c)

	songs, err := h.songs.List(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Log.Error("Failed to list songs", zap.Error(err))
		internalError(c, "failed to list songs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"songs":  songs,
		"count":  len(songs),
		"limit":  limit,
		"offset": offset,
	})
}

// Get returns one song by id.
func (h *SongHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	song, err := h.songs.GetByID(c.Request.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			notFound(c, "song not found")
			return
		}
		logger.Log.Error("Failed to get song", zap.Error(err), zap.String("songId", id.String()))
		internalError(c, "failed to retrieve song")
		return
	}

	c.JSON(http.StatusOK, song)
}

// ListByArtist returns an artist's songs.
func (h *SongHandler) ListByArtist(c *gin.Context) {
	artistID, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	songs, err := h.songs.ListByArtist(c.Request.Context(), artistID, parseLimit(c))
	if err != nil {
		logger.Log.Error("Failed to list artist songs", zap.Error(err), zap.String("artistId", artistID.String()))
		internalError(c, "failed to list artist songs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"songs": songs,
		"count": len(songs),
	})
}

// Play records one playback of a song.
func (h *SongHandler) Play(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.songs.IncrementPlayCount(c.Request.Context(), id); err != nil {
		if db.IsNotFound(err) {
			notFound(c, "song not found")
			return
		}
		logger.Log.Error("Failed to record play", zap.Error(err), zap.String("songId", id.String()))
		internalError(c, "failed to record play")
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "recorded"})
}

// Delete removes a song from the catalog.
func (h *SongHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.songs.Delete(c.Request.Context(), id); err != nil {
		if db.IsNotFound(err) {
			notFound(c, "song not found")
			return
		}
		logger.Log.Error("Failed to delete song", zap.Error(err), zap.String("songId", id.String()))
		internalError(c, "failed to delete song")
		return
	}

	c.Status(http.StatusNoContent)
}
