// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	YouTube  YouTubeConfig
	Audio    AudioConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
	Logging  LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	APIKeys         []string
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// RedisConfig contains the Redis connection used by the task queue and the
// search-result cache.
type RedisConfig struct {
	URL      string
	CacheTTL time.Duration
}

// RabbitMQConfig contains RabbitMQ connection and exchange configuration for
// track-ingested event publishing.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host       string
	User       string
	Password   string
	Exchange   string
	Queue      string
	RoutingKey string
	Port       int
	Enabled    bool
}

// YouTubeConfig contains the search provider configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type YouTubeConfig struct {
	APIKey              string
	DailyQuotaLimit     int
	QuotaThresholdPct   int
	SearchQuotaCost     int
	VideosListQuotaCost int
	RequestsPerSecond   float64
	MaxRetries          int
	RetryBaseDelay      time.Duration
	RandomQuerySeeds    []string
}

// AudioConfig contains audio download configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type AudioConfig struct {
	Format          string
	Quality         string
	MaxFileSize     int64
	DownloadTimeout time.Duration
	MaxRetries      int
	RetryBaseDelay  time.Duration
}

// StorageConfig contains the object store configuration.
type StorageConfig struct {
	BaseURL          string
	ServiceKey       string
	AudioBucket      string
	ThumbnailBucket  string
	MaxThumbnailSize int64
	RequestTimeout   time.Duration
}

// PipelineConfig contains the processing pipeline configuration.
type PipelineConfig struct {
	MaxConcurrent   int
	UnitRetries     int
	MinDuration     time.Duration
	MaxDuration     time.Duration
	DownloadAudio   bool
	ExtractMetadata bool
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings that are fatal when malformed. Missing
// credentials and nonsense limits fail here, at construction time, rather
// than deep inside a component.
func (c *Config) Validate() error {
	if c.YouTube.DailyQuotaLimit <= 0 {
		return fmt.Errorf("youtube.dailyquotalimit must be positive, got %d", c.YouTube.DailyQuotaLimit)
	}
	if c.YouTube.QuotaThresholdPct <= 0 || c.YouTube.QuotaThresholdPct > 100 {
		return fmt.Errorf("youtube.quotathresholdpct must be in (0, 100], got %d", c.YouTube.QuotaThresholdPct)
	}
	if c.Audio.MaxFileSize <= 0 {
		return fmt.Errorf("audio.maxfilesize must be positive, got %d", c.Audio.MaxFileSize)
	}
	if c.Audio.DownloadTimeout <= 0 {
		return fmt.Errorf("audio.downloadtimeout must be positive, got %s", c.Audio.DownloadTimeout)
	}
	if c.Pipeline.MaxConcurrent <= 0 {
		return fmt.Errorf("pipeline.maxconcurrent must be positive, got %d", c.Pipeline.MaxConcurrent)
	}
	if c.Pipeline.MinDuration >= c.Pipeline.MaxDuration {
		return fmt.Errorf("pipeline.minduration (%s) must be below pipeline.maxduration (%s)",
			c.Pipeline.MinDuration, c.Pipeline.MaxDuration)
	}
	return nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)
	viper.SetDefault("server.apikeys", []string{})

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "streamflow")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 10)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 10*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Redis
	viper.SetDefault("redis.url", "redis://localhost:6379/0")
	viper.SetDefault("redis.cachettl", 15*time.Minute)

	// RabbitMQ
	viper.SetDefault("rabbitmq.enabled", false)
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "streamflow.tracks")
	viper.SetDefault("rabbitmq.queue", "streamflow.tracks.ingested")
	viper.SetDefault("rabbitmq.routingkey", "track.ingested")

	// YouTube
	viper.SetDefault("youtube.dailyquotalimit", 10000)
	viper.SetDefault("youtube.quotathresholdpct", 90)
	viper.SetDefault("youtube.searchquotacost", 100)
	viper.SetDefault("youtube.videoslistquotacost", 1)
	viper.SetDefault("youtube.requestspersecond", 5.0)
	viper.SetDefault("youtube.maxretries", 3)
	viper.SetDefault("youtube.retrybasedelay", 500*time.Millisecond)
	viper.SetDefault("youtube.randomqueryseeds", []string{
		"music", "top hits", "new releases", "indie music",
		"rock classics", "electronic music", "hip hop", "jazz",
	})

	// Audio
	viper.SetDefault("audio.format", "bestaudio")
	viper.SetDefault("audio.quality", "192")
	viper.SetDefault("audio.maxfilesize", int64(52428800)) // 50MB
	viper.SetDefault("audio.downloadtimeout", 3*time.Minute)
	viper.SetDefault("audio.maxretries", 2)
	viper.SetDefault("audio.retrybasedelay", 2*time.Second)

	// Storage
	viper.SetDefault("storage.baseurl", "http://localhost:54321")
	viper.SetDefault("storage.audiobucket", "songs")
	viper.SetDefault("storage.thumbnailbucket", "thumbnails")
	viper.SetDefault("storage.maxthumbnailsize", int64(10485760)) // 10MB
	viper.SetDefault("storage.requesttimeout", 30*time.Second)

	// Pipeline
	viper.SetDefault("pipeline.maxconcurrent", 3)
	viper.SetDefault("pipeline.unitretries", 2)
	viper.SetDefault("pipeline.minduration", 30*time.Second)
	viper.SetDefault("pipeline.maxduration", 10*time.Minute)
	viper.SetDefault("pipeline.downloadaudio", true)
	viper.SetDefault("pipeline.extractmetadata", true)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
