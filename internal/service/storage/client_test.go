package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveSant26/streamflow-music-backend/internal/config"
)

func newTestClient(serverURL string) *Client {
	return NewClient(config.StorageConfig{
		BaseURL:        serverURL,
		ServiceKey:     "service-key",
		RequestTimeout: 5 * time.Second,
	})
}

func TestPut(t *testing.T) {
	var gotPath, gotAuth, gotContentType, gotUpsert string
	var gotBody []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotContentType = r.Header.Get("Content-Type")
		gotUpsert = r.Header.Get("x-upsert")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Put(context.Background(), "songs", "audio/abc123_deadbeef.m4a", []byte("audio"), "audio/mp4")
	require.NoError(t, err)

	assert.Equal(t, "/storage/v1/object/songs/audio/abc123_deadbeef.m4a", gotPath)
	assert.Equal(t, "Bearer service-key", gotAuth)
	assert.Equal(t, "audio/mp4", gotContentType)
	assert.Equal(t, "true", gotUpsert)
	assert.Equal(t, []byte("audio"), gotBody)
}

func TestPutServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid bucket"}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	err := c.Put(context.Background(), "songs", "k", []byte("x"), "audio/mp4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "invalid bucket")
}

func TestPublicURL(t *testing.T) {
	c := newTestClient("https://example.supabase.co")
	got := c.PublicURL("thumbnails", "thumbnails/abc123_deadbeef.jpg")
	assert.Equal(t, "https://example.supabase.co/storage/v1/object/public/thumbnails/thumbnails/abc123_deadbeef.jpg", got)
}

func TestDelete(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	require.NoError(t, c.Delete(context.Background(), "songs", "audio/abc.m4a"))
	assert.Equal(t, http.MethodDelete, gotMethod)
	assert.Equal(t, "/storage/v1/object/songs/audio/abc.m4a", gotPath)
}

func TestDeleteMissingObjectIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	assert.NoError(t, c.Delete(context.Background(), "songs", "gone.m4a"))
}
