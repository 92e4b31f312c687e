// The ingester consumes queued ingestion tasks: it searches the external
// source, runs results through the audio pipeline and persists them into the
// catalog.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SteveSant26/streamflow-music-backend/internal/config"
	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/repository"
	"github.com/SteveSant26/streamflow-music-backend/internal/extractor"
	"github.com/SteveSant26/streamflow-music-backend/internal/queue"
	"github.com/SteveSant26/streamflow-music-backend/internal/service"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/audio"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/cache"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/pipeline"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/quota"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/storage"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/youtube"
	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.File); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	pool, err := db.NewPool(ctx, &db.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.Name,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        int32(cfg.Database.MaxConnections),
		MinConns:        int32(cfg.Database.MinConnections),
		MaxConnLifetime: cfg.Database.MaxLifetime,
		MaxConnIdleTime: cfg.Database.MaxIdleTime,
	})
	if err != nil {
		logger.Log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	songRepo := repository.NewSongRepository(pool)
	artistRepo := repository.NewArtistRepository(pool)
	albumRepo := repository.NewAlbumRepository(pool)
	genreRepo := repository.NewGenreRepository(pool)

	var publisher service.EventPublisher
	if cfg.RabbitMQ.Enabled {
		mp, err := service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable, event publishing disabled", zap.Error(err))
		} else {
			defer mp.Close()
			publisher = mp
		}
	}

	ingestion := service.NewIngestionService(songRepo, artistRepo, albumRepo, genreRepo, publisher)

	quotaManager := quota.NewManager(cfg.YouTube.DailyQuotaLimit, cfg.YouTube.QuotaThresholdPct)

	var ex *extractor.Extractor
	if cfg.Pipeline.ExtractMetadata {
		ex = extractor.New()
	} else {
		logger.Log.Warn("Metadata extraction disabled, tracks will carry raw titles only")
	}

	var searchCache *cache.SearchCache
	var rejectedCache *service.RejectedVideoCache
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Log.Warn("Invalid redis URL, search cache disabled", zap.Error(err))
	} else {
		searchCache = cache.New(ctx, opts, cfg.Redis.CacheTTL)
		rejectedCache = service.NewRejectedVideoCache(redis.NewClient(opts))
	}

	ytService, err := youtube.NewService(ctx, cfg.YouTube, quotaManager, ex, searchCache)
	if err != nil {
		logger.Log.Fatal("Failed to initialize search provider", zap.Error(err))
	}

	store := storage.NewClient(cfg.Storage)
	downloader := audio.NewDownloader(cfg.Audio)
	retrier := pipeline.DefaultRetrier(cfg.Pipeline)

	strategy := pipeline.NewStrategy(
		&pipeline.MusicTrackProcessor{
			MinDuration: cfg.Pipeline.MinDuration,
			MaxDuration: cfg.Pipeline.MaxDuration,
		},
		&pipeline.PodcastTrackProcessor{MinDuration: cfg.Pipeline.MinDuration},
	)

	audioProc := pipeline.NewAudioProcessor(downloader, store, cfg.Storage.AudioBucket, retrier)
	thumbProc := pipeline.NewThumbnailProcessor(store, cfg.Storage.ThumbnailBucket, cfg.Storage.MaxThumbnailSize, retrier)
	pipe := pipeline.New(cfg.Pipeline, strategy, audioProc, thumbProc)

	music := service.NewUnifiedMusicService(ytService, pipe)

	var rejection queue.RejectionCache
	if rejectedCache != nil {
		rejection = rejectedCache
	}
	taskHandler := queue.NewIngestionHandler(music, ingestion, rejection)

	srv, err := queue.NewServer(cfg.Redis.URL, cfg.Pipeline.MaxConcurrent, taskHandler)
	if err != nil {
		logger.Log.Fatal("Failed to initialize task server", zap.Error(err))
	}

	if err := srv.Start(); err != nil {
		logger.Log.Fatal("Failed to start task server", zap.Error(err))
	}

	logger.Log.Info("Ingester started",
		zap.Int("concurrency", cfg.Pipeline.MaxConcurrent),
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)
	sig := <-shutdown

	logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	srv.Stop()
	logger.Log.Info("Ingester stopped gracefully")
}
