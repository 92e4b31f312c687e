package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/service"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/audio"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/quota"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/youtube"
)

type fakeMusicService struct {
	searchTracks []*model.AudioTrackData
	searchErr    error
	randomTracks []*model.AudioTrackData
	randomErr    error
	outcome      model.ProcessOutcome
	outcomeErr   error
	quotaInfo    quota.Info

	lastQuery   string
	lastVideoID string
}

func (f *fakeMusicService) SearchAndProcessAudio(_ context.Context, query string, _ youtube.SearchOptions) ([]*model.AudioTrackData, error) {
	f.lastQuery = query
	return f.searchTracks, f.searchErr
}

func (f *fakeMusicService) GetRandomMusic(_ context.Context, _ youtube.SearchOptions) ([]*model.AudioTrackData, error) {
	return f.randomTracks, f.randomErr
}

func (f *fakeMusicService) DownloadAudioFromVideo(_ context.Context, videoID string) (model.ProcessOutcome, error) {
	f.lastVideoID = videoID
	return f.outcome, f.outcomeErr
}

func (f *fakeMusicService) QuotaInfo() quota.Info { return f.quotaInfo }

func (f *fakeMusicService) Stats() service.MusicStats { return service.MusicStats{} }

type fakeCatalogIngester struct {
	ingested []*model.AudioTrackData
	err      error
}

func (f *fakeCatalogIngester) IngestTrack(_ context.Context, track *model.AudioTrackData) (*models.Song, bool, error) {
	if f.err != nil {
		return nil, false, f.err
	}
	f.ingested = append(f.ingested, track)
	return models.NewSong(track.Title, track.SourceType(), track.SourceID()), true, nil
}

func (f *fakeCatalogIngester) IngestTracks(_ context.Context, tracks []*model.AudioTrackData) []*models.Song {
	songs := make([]*models.Song, 0, len(tracks))
	for _, tr := range tracks {
		f.ingested = append(f.ingested, tr)
		songs = append(songs, models.NewSong(tr.Title, tr.SourceType(), tr.SourceID()))
	}
	return songs
}

type fakeEnqueuer struct {
	searches []string
	videos   []string
	err      error
}

func (f *fakeEnqueuer) EnqueueSearchIngestion(_ context.Context, query string, _ int64) error {
	if f.err != nil {
		return f.err
	}
	f.searches = append(f.searches, query)
	return nil
}

func (f *fakeEnqueuer) EnqueueVideoIngestion(_ context.Context, videoID string) error {
	if f.err != nil {
		return f.err
	}
	f.videos = append(f.videos, videoID)
	return nil
}

func musicRouter(h *MusicHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/api/v1/music/search", h.Search)
	r.GET("/api/v1/music/random", h.Random)
	r.POST("/api/v1/music/videos/:videoID", h.IngestVideo)
	r.GET("/api/v1/music/videos/:videoID/audio-info", h.AudioInfo)
	r.GET("/api/v1/music/quota", h.Quota)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchProcessesAndIngests(t *testing.T) {
	music := &fakeMusicService{
		searchTracks: []*model.AudioTrackData{
			{VideoID: "vid00000001", Title: "Track One"},
			{VideoID: "vid00000002", Title: "Track Two"},
		},
	}
	ingester := &fakeCatalogIngester{}
	h := NewMusicHandler(music, ingester, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/search", SearchRequest{Query: "daft punk", MaxResults: 5})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "daft punk", music.lastQuery)
	assert.Len(t, ingester.ingested, 2)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(2), resp["count"])
}

func TestSearchRequiresQuery(t *testing.T) {
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/search", map[string]interface{}{"max_results": 5})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchAsyncEnqueues(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, enqueuer, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/search", SearchRequest{Query: "lofi", Async: true})

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"lofi"}, enqueuer.searches)
}

func TestSearchAsyncWithoutQueueIsUnavailable(t *testing.T) {
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/search", SearchRequest{Query: "lofi", Async: true})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSearchFailureIsInternalError(t *testing.T) {
	music := &fakeMusicService{searchErr: errors.New("api down")}
	h := NewMusicHandler(music, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/search", SearchRequest{Query: "daft punk"})

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestIngestVideoCreated(t *testing.T) {
	track := &model.AudioTrackData{VideoID: "dQw4w9WgXcQ", Title: "Never Gonna Give You Up"}
	music := &fakeMusicService{
		outcome: model.ProcessOutcome{VideoID: "dQw4w9WgXcQ", Status: model.OutcomeOK, Track: track},
	}
	h := NewMusicHandler(music, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ", nil)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "dQw4w9WgXcQ", music.lastVideoID)
}

func TestIngestVideoRejectsBadID(t *testing.T) {
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/videos/short", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestIngestVideoNotFound(t *testing.T) {
	music := &fakeMusicService{
		outcome: model.ProcessOutcome{Status: model.OutcomeNotFound, Reason: "video not found"},
	}
	h := NewMusicHandler(music, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestVideoNotFoundError(t *testing.T) {
	music := &fakeMusicService{
		outcomeErr: fmt.Errorf("get video dQw4w9WgXcQ: %w", youtube.ErrVideoNotFound),
	}
	h := NewMusicHandler(music, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestIngestVideoRejectionIsUnprocessable(t *testing.T) {
	music := &fakeMusicService{
		outcome: model.ProcessOutcome{Status: model.OutcomeValidationRejected, Reason: "file too large"},
	}
	h := NewMusicHandler(music, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestIngestVideoTransientFailureIsBadGateway(t *testing.T) {
	music := &fakeMusicService{
		outcome: model.ProcessOutcome{Status: model.OutcomeTransientFailure, Reason: "download timed out"},
	}
	h := NewMusicHandler(music, &fakeCatalogIngester{}, nil, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ", nil)

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestIngestVideoAsyncEnqueues(t *testing.T) {
	enqueuer := &fakeEnqueuer{}
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, enqueuer, nil)

	w := postJSON(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ?async=true", nil)

	require.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, []string{"dQw4w9WgXcQ"}, enqueuer.videos)
}

type fakeProber struct {
	result  *audio.ProbeResult
	err     error
	lastURL string
}

func (f *fakeProber) Probe(_ context.Context, url string) (*audio.ProbeResult, error) {
	f.lastURL = url
	return f.result, f.err
}

func getPath(r *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAudioInfoFiltersToAudioFormats(t *testing.T) {
	prober := &fakeProber{result: &audio.ProbeResult{
		Title:    "One More Time",
		Uploader: "Daft Punk",
		Duration: 320,
		Formats: []audio.ProbeFormat{
			{FormatID: "251", Ext: "webm", ACodec: "opus", VCodec: "none", ABR: 160},
			{FormatID: "247", Ext: "webm", ACodec: "none", VCodec: "vp9"},
		},
	}}
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, nil, prober)

	w := getPath(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ/audio-info")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "https://www.youtube.com/watch?v=dQw4w9WgXcQ", prober.lastURL)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "One More Time", resp["title"])
	assert.Equal(t, float64(320), resp["duration_seconds"])
	formats, ok := resp["audio_formats"].([]interface{})
	require.True(t, ok)
	require.Len(t, formats, 1)
}

func TestAudioInfoWithoutProberUnavailable(t *testing.T) {
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, nil, nil)

	w := getPath(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ/audio-info")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestAudioInfoRejectsBadVideoID(t *testing.T) {
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, nil, &fakeProber{})

	w := getPath(musicRouter(h), "/api/v1/music/videos/short/audio-info")

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAudioInfoProbeFailure(t *testing.T) {
	prober := &fakeProber{err: errors.New("yt-dlp exited 1")}
	h := NewMusicHandler(&fakeMusicService{}, &fakeCatalogIngester{}, nil, prober)

	w := getPath(musicRouter(h), "/api/v1/music/videos/dQw4w9WgXcQ/audio-info")

	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestQuotaEndpoint(t *testing.T) {
	music := &fakeMusicService{
		quotaInfo: quota.Info{QuotaUsed: 150, QuotaLimit: 10000, QuotaRemaining: 9850},
	}
	h := NewMusicHandler(music, &fakeCatalogIngester{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/music/quota", nil)
	w := httptest.NewRecorder()
	musicRouter(h).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(150), resp["quota_used"])
	assert.Equal(t, float64(9850), resp["quota_remaining"])
}
