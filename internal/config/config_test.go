package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, "streamflow", cfg.Database.Name)
	assert.Equal(t, 10000, cfg.YouTube.DailyQuotaLimit)
	assert.Equal(t, 90, cfg.YouTube.QuotaThresholdPct)
	assert.Equal(t, 100, cfg.YouTube.SearchQuotaCost)
	assert.Equal(t, 1, cfg.YouTube.VideosListQuotaCost)
	assert.NotEmpty(t, cfg.YouTube.RandomQuerySeeds)
	assert.Equal(t, int64(52428800), cfg.Audio.MaxFileSize)
	assert.Equal(t, 3*time.Minute, cfg.Audio.DownloadTimeout)
	assert.Equal(t, 3, cfg.Pipeline.MaxConcurrent)
	assert.Equal(t, "songs", cfg.Storage.AudioBucket)
	assert.Equal(t, "thumbnails", cfg.Storage.ThumbnailBucket)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load()
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(*Config) {},
		},
		{
			name:    "zero quota limit",
			mutate:  func(c *Config) { c.YouTube.DailyQuotaLimit = 0 },
			wantErr: "dailyquotalimit",
		},
		{
			name:    "threshold above 100",
			mutate:  func(c *Config) { c.YouTube.QuotaThresholdPct = 150 },
			wantErr: "quotathresholdpct",
		},
		{
			name:    "negative max file size",
			mutate:  func(c *Config) { c.Audio.MaxFileSize = -1 },
			wantErr: "maxfilesize",
		},
		{
			name:    "zero download timeout",
			mutate:  func(c *Config) { c.Audio.DownloadTimeout = 0 },
			wantErr: "downloadtimeout",
		},
		{
			name:    "zero concurrency",
			mutate:  func(c *Config) { c.Pipeline.MaxConcurrent = 0 },
			wantErr: "maxconcurrent",
		},
		{
			name: "inverted duration window",
			mutate: func(c *Config) {
				c.Pipeline.MinDuration = 20 * time.Minute
			},
			wantErr: "minduration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
