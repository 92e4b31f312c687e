// Package audio downloads a video's audio stream through a yt-dlp
// subprocess and returns the raw bytes, validated against the configured
// size and extension limits.
package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/SteveSant26/streamflow-music-backend/internal/config"
	"github.com/SteveSant26/streamflow-music-backend/internal/validation"
	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
)

var (
	// ErrFileTooLarge marks a download rejected for size; callers must not retry it.
	ErrFileTooLarge = errors.New("downloaded file exceeds size limit")
	// ErrNoAudioFile is returned when yt-dlp exits cleanly but no usable file appears.
	ErrNoAudioFile = errors.New("no audio file produced")
)

// Runner executes an external command and returns its stdout. The exec
// implementation is swapped for a fake in tests.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("%s: %v | %s", name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}

// DownloadResult is one successfully fetched audio stream.
type DownloadResult struct {
	Data      []byte
	Filename  string
	Extension string
	Size      int64
}

// ProbeFormat describes one downloadable stream reported by yt-dlp.
type ProbeFormat struct {
	FormatID string  `json:"format_id"`
	Ext      string  `json:"ext"`
	ACodec   string  `json:"acodec"`
	VCodec   string  `json:"vcodec"`
	ABR      float64 `json:"abr"`
}

// ProbeResult is the metadata-only view of a video's downloadable streams.
type ProbeResult struct {
	Title    string        `json:"title"`
	Uploader string        `json:"uploader"`
	Duration float64       `json:"duration"`
	Formats  []ProbeFormat `json:"formats"`
}

// Downloader wraps yt-dlp. Each download gets its own temp directory, an
// explicit deadline, and a fallback option set when the simple invocation
// produces nothing.
type Downloader struct {
	cfg    config.AudioConfig
	runner Runner
}

// NewDownloader builds a Downloader that shells out to yt-dlp.
func NewDownloader(cfg config.AudioConfig) *Downloader {
	return newDownloader(cfg, execRunner{})
}

func newDownloader(cfg config.AudioConfig, runner Runner) *Downloader {
	return &Downloader{cfg: cfg, runner: runner}
}

// DownloadAudio fetches the best audio stream for url into memory. A timeout
// or subprocess failure is returned as-is (retryable by the caller); an
// oversize file returns ErrFileTooLarge and must not be retried.
func (d *Downloader) DownloadAudio(ctx context.Context, url string) (*DownloadResult, error) {
	if err := validation.ValidateMediaURL(url); err != nil {
		return nil, err
	}

	timeout := d.cfg.DownloadTimeout
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tmpDir, err := os.MkdirTemp("", "audio-dl-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(tmpDir)

	outTemplate := filepath.Join(tmpDir, "%(id)s.%(ext)s")

	// Simple invocation first; the richer option set only when it yields nothing.
	primary := []string{
		"--no-warnings", "--no-playlist",
		"-f", d.cfg.Format,
		"-o", outTemplate,
		url,
	}
	fallback := []string{
		"--no-warnings", "--no-playlist",
		"-f", "bestaudio[ext=m4a]/bestaudio/best",
		"--extract-audio", "--audio-quality", d.cfg.Quality,
		"-o", outTemplate,
		url,
	}

	if _, err := d.runner.Run(ctx, "yt-dlp", primary...); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("audio download timed out: %w", ctx.Err())
		}
		logger.Log.Warn("primary download failed, trying fallback options",
			zap.String("url", url), zap.Error(err))
		if _, err := d.runner.Run(ctx, "yt-dlp", fallback...); err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("audio download timed out: %w", ctx.Err())
			}
			return nil, fmt.Errorf("download audio: %w", err)
		}
	}

	result, err := d.collectFile(tmpDir)
	if err != nil {
		return nil, err
	}

	logger.Log.Info("audio downloaded",
		zap.String("url", url),
		zap.String("file", result.Filename),
		zap.Int64("size_bytes", result.Size),
	)
	return result, nil
}

// Probe fetches stream metadata without downloading media.
func (d *Downloader) Probe(ctx context.Context, url string) (*ProbeResult, error) {
	if err := validation.ValidateMediaURL(url); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, 45*time.Second)
	defer cancel()

	out, err := d.runner.Run(ctx, "yt-dlp", "-J", "--no-warnings", "--skip-download", url)
	if err != nil {
		return nil, fmt.Errorf("probe audio: %w", err)
	}

	var info ProbeResult
	if err := json.Unmarshal(out, &info); err != nil {
		return nil, fmt.Errorf("parse probe output: %w", err)
	}
	return &info, nil
}

// collectFile scans the temp directory for the downloaded audio file and
// reads it, enforcing the extension allow-list and size ceiling.
func (d *Downloader) collectFile(dir string) (*DownloadResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scan download dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.TrimPrefix(filepath.Ext(entry.Name()), ".")
		if !validation.IsAllowedAudioExtension(ext) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat downloaded file: %w", err)
		}
		if err := validation.ValidateFileSize(info.Size(), d.cfg.MaxFileSize); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFileTooLarge, err)
		}

		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read downloaded file: %w", err)
		}

		return &DownloadResult{
			Data:      data,
			Filename:  entry.Name(),
			Extension: ext,
			Size:      info.Size(),
		}, nil
	}

	return nil, ErrNoAudioFile
}
