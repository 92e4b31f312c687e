package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewRouter wires all endpoints onto a gin engine. The auth middleware guards
// the /api/v1 group; pass nil to leave the API open.
func NewRouter(
	music *MusicHandler,
	songs *SongHandler,
	playlists *PlaylistHandler,
	health *HealthHandler,
	auth gin.HandlerFunc,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health/live", health.LivenessProbe)
	r.GET("/health/ready", health.ReadinessProbe)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api/v1")
	if auth != nil {
		api.Use(auth)
	}

	api.POST("/music/search", music.Search)
	api.GET("/music/random", music.Random)
	api.POST("/music/videos/:videoID", music.IngestVideo)
	api.GET("/music/videos/:videoID/audio-info", music.AudioInfo)
	api.GET("/music/quota", music.Quota)
	api.GET("/music/stats", music.Stats)

	api.GET("/songs", songs.List)
	api.GET("/songs/:id", songs.Get)
	api.POST("/songs/:id/play", songs.Play)
	api.DELETE("/songs/:id", songs.Delete)
	api.GET("/artists/:id/songs", songs.ListByArtist)

	api.POST("/playlists", playlists.Create)
	api.GET("/playlists", playlists.List)
	api.GET("/playlists/:id", playlists.Get)
	api.DELETE("/playlists/:id", playlists.Delete)
	api.POST("/playlists/:id/songs", playlists.AddSong)
	api.DELETE("/playlists/:id/songs/:songID", playlists.RemoveSong)

	return r
}
