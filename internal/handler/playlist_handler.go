package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/repository"
	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
)

// PlaylistHandler handles playlist endpoints.
type PlaylistHandler struct {
	playlists repository.PlaylistRepository
}

// NewPlaylistHandler creates a new PlaylistHandler instance.
func NewPlaylistHandler(playlists repository.PlaylistRepository) *PlaylistHandler {
	return &PlaylistHandler{playlists: playlists}
}

// CreatePlaylistRequest is the body of POST /api/v1/playlists.
type CreatePlaylistRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

// AddSongRequest is the body of POST /api/v1/playlists/:id/songs.
type AddSongRequest struct {
	SongID string `json:"song_id" binding:"required,uuid"`
}

// Create creates a playlist.
func (h *PlaylistHandler) Create(c *gin.Context) {
	var req CreatePlaylistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request payload: "+err.Error())
		return
	}

	playlist := models.NewPlaylist(req.Name, req.Description)
	if err := h.playlists.Create(c.Request.Context(), playlist); err != nil {
		logger.Log.Error("Failed to create playlist", zap.Error(err), zap.String("name", req.Name))
		internalError(c, "failed to create playlist")
		return
	}

	c.JSON(http.StatusCreated, playlist)
}

// List returns playlists, newest first.
func (h *PlaylistHandler) List(c *gin.Context) {
	limit := parseLimit(c)
	offset := parseOffset(c)

	playlists, err := h.playlists.List(c.Request.Context(), limit, offset)
	if err != nil {
		logger.Log.Error("Failed to list playlists", zap.Error(err))
		internalError(c, "failed to list playlists")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playlists": playlists,
		"count":     len(playlists),
		"limit":     limit,
		"offset":    offset,
	})
}

// Get returns one playlist with its songs in position order.
func (h *PlaylistHandler) Get(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	playlist, err := h.playlists.GetByID(c.Request.Context(), id)
	if err != nil {
		if db.IsNotFound(err) {
			notFound(c, "playlist not found")
			return
		}
		logger.Log.Error("Failed to get playlist", zap.Error(err), zap.String("playlistId", id.String()))
		internalError(c, "failed to retrieve playlist")
		return
	}

	songs, err := h.playlists.GetSongs(c.Request.Context(), id)
	if err != nil {
		logger.Log.Error("Failed to get playlist songs", zap.Error(err), zap.String("playlistId", id.String()))
		internalError(c, "failed to retrieve playlist songs")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"playlist": playlist,
		"songs":    songs,
		"count":    len(songs),
	})
}

// Delete removes a playlist and its memberships.
func (h *PlaylistHandler) Delete(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.playlists.Delete(c.Request.Context(), id); err != nil {
		if db.IsNotFound(err) {
			notFound(c, "playlist not found")
			return
		}
		logger.Log.Error("Failed to delete playlist", zap.Error(err), zap.String("playlistId", id.String()))
		internalError(c, "failed to delete playlist")
		return
	}

	c.Status(http.StatusNoContent)
}

// AddSong appends a song to the playlist.
func (h *PlaylistHandler) AddSong(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req AddSongRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request payload: "+err.Error())
		return
	}
	songID, err := uuid.Parse(req.SongID)
	if err != nil {
		badRequest(c, "song_id must be a valid UUID")
		return
	}

	if err := h.playlists.AddSong(c.Request.Context(), id, songID); err != nil {
		switch {
		case db.IsDuplicateKey(err):
			sendError(c, http.StatusConflict, "Conflict", "song is already in the playlist")
		case db.IsForeignKeyViolation(err):
			notFound(c, "playlist or song not found")
		default:
			logger.Log.Error("Failed to add song to playlist",
				zap.Error(err),
				zap.String("playlistId", id.String()),
				zap.String("songId", songID.String()),
			)
			internalError(c, "failed to add song to playlist")
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"playlist_id": id,
		"song_id":     songID,
	})
}

// RemoveSong removes a song from the playlist.
func (h *PlaylistHandler) RemoveSong(c *gin.Context) {
	id, ok := parseUUIDParam(c, "id")
	if !ok {
		return
	}
	songID, ok := parseUUIDParam(c, "songID")
	if !ok {
		return
	}

	if err := h.playlists.RemoveSong(c.Request.Context(), id, songID); err != nil {
		if db.IsNotFound(err) {
			notFound(c, "song is not in the playlist")
			return
		}
		logger.Log.Error("Failed to remove song from playlist",
			zap.Error(err),
			zap.String("playlistId", id.String()),
			zap.String("songId", songID.String()),
		)
		internalError(c, "failed to remove song from playlist")
		return
	}

	c.Status(http.StatusNoContent)
}
