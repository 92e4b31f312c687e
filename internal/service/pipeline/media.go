package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/SteveSant26/streamflow-music-backend/internal/retry"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/audio"
	"github.com/SteveSant26/streamflow-music-backend/internal/validation"
)

// ObjectStore is the slice of the storage client the media processors need.
type ObjectStore interface {
	Put(ctx context.Context, bucket, key string, data []byte, contentType string) error
	PublicURL(bucket, key string) string
}

// AudioDownloader fetches a video's audio stream into memory.
type AudioDownloader interface {
	DownloadAudio(ctx context.Context, url string) (*audio.DownloadResult, error)
}

var audioContentTypes = map[string]string{
	"mp3":  "audio/mpeg",
	"m4a":  "audio/mp4",
	"aac":  "audio/aac",
	"opus": "audio/opus",
	"ogg":  "audio/ogg",
	"webm": "audio/webm",
	"wav":  "audio/wav",
	"flac": "audio/flac",
}

// shortID returns the 8-character object-key suffix that keeps re-ingested
// videos from overwriting each other's media.
func shortID() string {
	return uuid.New().String()[:8]
}

// ThumbnailProcessor fetches a video thumbnail and stores it.
type ThumbnailProcessor struct {
	store      ObjectStore
	bucket     string
	maxSize    int64
	httpClient *http.Client
	retrier    *retry.Executor
}

// NewThumbnailProcessor builds a thumbnail processor with a 30s fetch timeout.
func NewThumbnailProcessor(store ObjectStore, bucket string, maxSize int64, retrier *retry.Executor) *ThumbnailProcessor {
	return &ThumbnailProcessor{
		store:      store,
		bucket:     bucket,
		maxSize:    maxSize,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		retrier:    retrier,
	}
}

// Process downloads the thumbnail at srcURL and stores it under
// thumbnails/<video_id>_<suffix>.jpg, returning the stored object's public
// URL. Oversize images are rejected without retry.
func (p *ThumbnailProcessor) Process(ctx context.Context, videoID, srcURL string) (string, error) {
	if err := validation.ValidateMediaURL(srcURL); err != nil {
		return "", err
	}

	data, err := retry.Do(ctx, p.retrier, func(ctx context.Context) ([]byte, error) {
		return p.fetch(ctx, srcURL)
	})
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("thumbnails/%s_%s.jpg", videoID, shortID())
	err = p.retrier.Run(ctx, func(ctx context.Context) error {
		return p.store.Put(ctx, p.bucket, key, data, "image/jpeg")
	})
	if err != nil {
		return "", fmt.Errorf("store thumbnail: %w", err)
	}

	return p.store.PublicURL(p.bucket, key), nil
}

func (p *ThumbnailProcessor) fetch(ctx context.Context, srcURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srcURL, nil)
	if err != nil {
		return nil, retry.Permanent(err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch thumbnail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("thumbnail fetch returned status %d", resp.StatusCode)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return nil, retry.Permanent(err)
		}
		return nil, err
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, p.maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("read thumbnail: %w", err)
	}
	if int64(len(data)) > p.maxSize {
		return nil, retry.Permanent(fmt.Errorf("thumbnail exceeds %d byte limit", p.maxSize))
	}
	return data, nil
}

// StoredAudio is one downloaded and persisted audio stream.
type StoredAudio struct {
	Data      []byte
	Filename  string
	Key       string
	PublicURL string
}

// AudioProcessor downloads a video's audio and stores it.
type AudioProcessor struct {
	downloader AudioDownloader
	store      ObjectStore
	bucket     string
	retrier    *retry.Executor
}

// NewAudioProcessor wires the downloader to the object store.
func NewAudioProcessor(downloader AudioDownloader, store ObjectStore, bucket string, retrier *retry.Executor) *AudioProcessor {
	return &AudioProcessor{
		downloader: downloader,
		store:      store,
		bucket:     bucket,
		retrier:    retrier,
	}
}

// Process fetches the audio for url and stores it under
// audio/<video_id>_<suffix>.<ext>. Size rejections are permanent; transport
// failures retry per the executor's policy.
func (p *AudioProcessor) Process(ctx context.Context, videoID, url string) (*StoredAudio, error) {
	result, err := retry.Do(ctx, p.retrier, func(ctx context.Context) (*audio.DownloadResult, error) {
		res, err := p.downloader.DownloadAudio(ctx, url)
		if err != nil && isAudioRejection(err) {
			return nil, retry.Permanent(err)
		}
		return res, err
	})
	if err != nil {
		return nil, err
	}

	key := fmt.Sprintf("audio/%s_%s.%s", videoID, shortID(), result.Extension)
	contentType := audioContentTypes[result.Extension]
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	err = p.retrier.Run(ctx, func(ctx context.Context) error {
		return p.store.Put(ctx, p.bucket, key, result.Data, contentType)
	})
	if err != nil {
		return nil, fmt.Errorf("store audio: %w", err)
	}

	audioBytesDownloaded.Add(float64(result.Size))
	return &StoredAudio{
		Data:      result.Data,
		Filename:  result.Filename,
		Key:       key,
		PublicURL: p.store.PublicURL(p.bucket, key),
	}, nil
}

func isAudioRejection(err error) bool {
	return errors.Is(err, audio.ErrFileTooLarge) || errors.Is(err, audio.ErrNoAudioFile)
}
