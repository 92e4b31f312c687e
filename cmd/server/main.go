package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/SteveSant26/streamflow-music-backend/internal/config"
	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/repository"
	"github.com/SteveSant26/streamflow-music-backend/internal/extractor"
	"github.com/SteveSant26/streamflow-music-backend/internal/handler"
	"github.com/SteveSant26/streamflow-music-backend/internal/middleware"
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

	logger.Log.Info("Database connection established",
		zap.Int32("maxConns", pool.Config().MaxConns),
	)

	songRepo := repository.NewSongRepository(pool)
	artistRepo := repository.NewArtistRepository(pool)
	albumRepo := repository.NewAlbumRepository(pool)
	genreRepo := repository.NewGenreRepository(pool)
	playlistRepo := repository.NewPlaylistRepository(pool)

	// Track-ingested event publishing is optional.
	var publisher service.EventPublisher
	var publisherHealth handler.HealthReporter
	if cfg.RabbitMQ.Enabled {
		mp, err := service.NewMessagePublisher(&cfg.RabbitMQ)
		if err != nil {
			logger.Log.Warn("RabbitMQ unavailable, event publishing disabled", zap.Error(err))
		} else {
			defer mp.Close()
			publisher = mp
			publisherHealth = mp
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
	if opts, err := redis.ParseURL(cfg.Redis.URL); err != nil {
		logger.Log.Warn("Invalid redis URL, search cache disabled", zap.Error(err))
	} else {
		searchCache = cache.New(ctx, opts, cfg.Redis.CacheTTL)
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

	// Background queue is optional; without it async endpoints are disabled.
	var enqueuer handler.TaskEnqueuer
	if cfg.Redis.URL != "" {
		queueClient, err := queue.NewClient(cfg.Redis.URL)
		if err != nil {
			logger.Log.Warn("Failed to initialize queue client, async ingestion disabled", zap.Error(err))
		} else {
			defer queueClient.Close()
			enqueuer = queueClient
		}
	}

	musicHandler := handler.NewMusicHandler(music, ingestion, enqueuer, downloader)
	songHandler := handler.NewSongHandler(songRepo)
	playlistHandler := handler.NewPlaylistHandler(playlistRepo)
	healthHandler := handler.NewHealthHandler(pool, publisherHealth)

	var auth gin.HandlerFunc
	if len(cfg.Server.APIKeys) > 0 {
		auth = middleware.NewAPIKeyAuth(cfg.Server.APIKeys).Middleware()
	} else {
		logger.Log.Warn("No API keys configured, API endpoints are unauthenticated")
	}

	router := handler.NewRouter(musicHandler, songHandler, playlistHandler, healthHandler, auth)

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Log.Info("Server starting", zap.Int("port", cfg.Server.Port))
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Log.Fatal("Server error", zap.Error(err))
	case sig := <-shutdown:
		logger.Log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Log.Error("Graceful shutdown failed", zap.Error(err))
			if err := server.Close(); err != nil {
				logger.Log.Error("Failed to close server", zap.Error(err))
			}
			os.Exit(1)
		}

		logger.Log.Info("Server stopped gracefully")
	}
}
