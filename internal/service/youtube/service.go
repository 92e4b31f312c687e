// Package youtube adapts the YouTube Data API v3 as the pipeline's video
// search provider, with quota accounting, rate limiting, retries and a
// circuit breaker around every metered call.
package youtube

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"

	"github.com/SteveSant26/streamflow-music-backend/internal/breaker"
	"github.com/SteveSant26/streamflow-music-backend/internal/config"
	"github.com/SteveSant26/streamflow-music-backend/internal/extractor"
	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/retry"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/cache"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/quota"
	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
	"go.uber.org/zap"
)

// ErrVideoNotFound is returned when the provider has no data for an id
// (private, deleted or region-blocked video). Never retried.
var ErrVideoNotFound = errors.New("video not found")

const maxIDsPerBatch = 50

// SearchOptions narrows a search call.
type SearchOptions struct {
	MaxResults int64
	Order      string // relevance, date, viewCount, rating
	CategoryID string
	RegionCode string
}

func (o SearchOptions) withDefaults() SearchOptions {
	if o.MaxResults <= 0 || o.MaxResults > maxIDsPerBatch {
		o.MaxResults = 10
	}
	if o.Order == "" {
		o.Order = "relevance"
	}
	return o
}

func (o SearchOptions) fingerprint() string {
	return fmt.Sprintf("%d|%s|%s|%s", o.MaxResults, o.Order, o.CategoryID, o.RegionCode)
}

// Category is one assignable video category of the provider.
type Category struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// apiCaller is the raw provider surface; carved out so tests can run the
// service without the network.
type apiCaller interface {
	searchIDs(ctx context.Context, query string, opts SearchOptions) ([]string, error)
	videosByID(ctx context.Context, ids []string) ([]*youtube.Video, error)
	videoCategories(ctx context.Context, region string) ([]*youtube.VideoCategory, error)
}

// Service is the video search adapter. One instance owns one circuit breaker
// and one quota counter; neither is shared across instances, so multiple
// services in a process do not coordinate.
type Service struct {
	api       apiCaller
	cfg       config.YouTubeConfig
	quota     *quota.Manager
	breaker   *breaker.CircuitBreaker
	retrier   *retry.Executor
	limiter   *rate.Limiter
	extractor *extractor.Extractor
	cache     *cache.SearchCache
}

// NewService constructs the adapter. A missing API key is a construction
// error: fatal, never swallowed.
func NewService(ctx context.Context, cfg config.YouTubeConfig, qm *quota.Manager, ex *extractor.Extractor, sc *cache.SearchCache) (*Service, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube API key is required")
	}

	api, err := youtube.NewService(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	return newService(&googleAPI{svc: api}, cfg, qm, ex, sc), nil
}

func newService(api apiCaller, cfg config.YouTubeConfig, qm *quota.Manager, ex *extractor.Extractor, sc *cache.SearchCache) *Service {
	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 5.0
	}

	return &Service{
		api:   api,
		cfg:   cfg,
		quota: qm,
		breaker: breaker.New("youtube", breaker.Config{
			FailureThreshold: 5,
			RecoveryTimeout:  60 * time.Second,
			IsCounted:        isCountedFailure,
		}),
		retrier: retry.NewExecutor("youtube", retry.Config{
			MaxRetries:    cfg.MaxRetries,
			BaseDelay:     cfg.RetryBaseDelay,
			MaxDelay:      30 * time.Second,
			BackoffFactor: 2.0,
			Jitter:        true,
		}),
		limiter:   rate.NewLimiter(rate.Limit(rps), 1),
		extractor: ex,
		cache:     sc,
	}
}

// SearchVideos resolves matching video ids and fetches full details for them
// in one batched call. Quota is pre-checked fail-closed: when the estimated
// cost would cross the daily ceiling the call returns an empty result
// without touching the network.
func (s *Service) SearchVideos(ctx context.Context, query string, opts SearchOptions) ([]*model.VideoInfo, error) {
	opts = opts.withDefaults()

	cacheKey := cache.Key(query, opts.fingerprint())
	if videos, ok := s.cache.Get(ctx, cacheKey); ok {
		logger.Log.Debug("search served from cache", zap.String("query", query))
		return videos, nil
	}

	estimated := s.cfg.SearchQuotaCost + s.cfg.VideosListQuotaCost
	if !s.quota.CheckAvailable(estimated) {
		logger.Log.Warn("search skipped, daily quota ceiling would be exceeded",
			zap.String("query", query),
			zap.Int("estimated_cost", estimated),
		)
		return []*model.VideoInfo{}, nil
	}

	ids, err := guardedCall(ctx, s, "search.list", s.cfg.SearchQuotaCost, func(ctx context.Context) ([]string, error) {
		return s.api.searchIDs(ctx, query, opts)
	})
	if err != nil {
		return nil, fmt.Errorf("search videos %q: %w", query, err)
	}
	if len(ids) == 0 {
		return []*model.VideoInfo{}, nil
	}

	items, err := guardedCall(ctx, s, "videos.list", s.cfg.VideosListQuotaCost, func(ctx context.Context) ([]*youtube.Video, error) {
		return s.api.videosByID(ctx, ids)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch video details: %w", err)
	}

	videos := make([]*model.VideoInfo, 0, len(items))
	for _, item := range items {
		videos = append(videos, s.buildVideoInfo(item))
	}

	s.cache.Set(ctx, cacheKey, videos)
	return videos, nil
}

// GetVideoDetails fetches one video by id. Returns ErrVideoNotFound when the
// provider has no data for it.
func (s *Service) GetVideoDetails(ctx context.Context, videoID string) (*model.VideoInfo, error) {
	if !s.quota.CheckAvailable(s.cfg.VideosListQuotaCost) {
		return nil, fmt.Errorf("get video %s: quota ceiling reached", videoID)
	}

	items, err := guardedCall(ctx, s, "videos.list", s.cfg.VideosListQuotaCost, func(ctx context.Context) ([]*youtube.Video, error) {
		return s.api.videosByID(ctx, []string{videoID})
	})
	if err != nil {
		return nil, fmt.Errorf("get video %s: %w", videoID, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("get video %s: %w", videoID, ErrVideoNotFound)
	}

	return s.buildVideoInfo(items[0]), nil
}

// GetRandomVideos searches with a query picked from the configured seed list.
// The pick uses crypto/rand: no security property is needed, but it avoids
// the predictable-sequence footgun of a shared math/rand source.
func (s *Service) GetRandomVideos(ctx context.Context, opts SearchOptions) ([]*model.VideoInfo, error) {
	query, err := s.randomQuery()
	if err != nil {
		return nil, err
	}
	logger.Log.Debug("random music search", zap.String("query", query))
	if opts.CategoryID == "" {
		opts.CategoryID = "10" // Music
	}
	return s.SearchVideos(ctx, query, opts)
}

// GetMusicCategories lists the provider's assignable categories for the US
// region.
func (s *Service) GetMusicCategories(ctx context.Context) ([]Category, error) {
	if !s.quota.CheckAvailable(s.cfg.VideosListQuotaCost) {
		return []Category{}, nil
	}

	items, err := guardedCall(ctx, s, "videoCategories.list", s.cfg.VideosListQuotaCost, func(ctx context.Context) ([]*youtube.VideoCategory, error) {
		return s.api.videoCategories(ctx, "US")
	})
	if err != nil {
		return nil, fmt.Errorf("list music categories: %w", err)
	}

	categories := make([]Category, 0, len(items))
	for _, item := range items {
		if item.Snippet == nil || !item.Snippet.Assignable {
			continue
		}
		categories = append(categories, Category{ID: item.Id, Title: item.Snippet.Title})
	}
	return categories, nil
}

// QuotaInfo exposes the adapter's quota snapshot for health reporting.
func (s *Service) QuotaInfo() quota.Info {
	return s.quota.GetInfo()
}

// guardedCall runs one metered provider call through the rate limiter, the
// retry executor and the circuit breaker (retry outside the breaker, so every
// attempt passes through breaker accounting), then records quota usage on
// success.
func guardedCall[T any](ctx context.Context, s *Service, operation string, cost int, call func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := s.limiter.Wait(ctx); err != nil {
		return zero, err
	}

	result, err := retry.Do(ctx, s.retrier, func(ctx context.Context) (T, error) {
		var out T
		callErr := s.breaker.Call(func() error {
			var innerErr error
			out, innerErr = call(ctx)
			return classify(innerErr)
		})
		return out, callErr
	})
	if err != nil {
		return zero, err
	}

	s.quota.RecordUsage(cost, operation)
	return result, nil
}

func (s *Service) randomQuery() (string, error) {
	seeds := s.cfg.RandomQuerySeeds
	if len(seeds) == 0 {
		return "", fmt.Errorf("no random query seeds configured")
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(len(seeds))))
	if err != nil {
		return "", fmt.Errorf("pick random query: %w", err)
	}
	return seeds[n.Int64()], nil
}

// classify maps provider errors into the retry taxonomy: not-found is
// permanent (waiting cannot help), everything else stays retryable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) && ge.Code == 404 {
		return retry.Permanent(fmt.Errorf("%w: %v", ErrVideoNotFound, err))
	}
	return err
}

// isCountedFailure decides which errors advance the breaker: rate/quota
// responses (429/403) and server errors count; not-found does not.
func isCountedFailure(err error) bool {
	if retry.IsPermanent(err) {
		return false
	}
	var ge *googleapi.Error
	if errors.As(err, &ge) {
		return ge.Code == 429 || ge.Code == 403 || ge.Code >= 500
	}
	// Transport-level failures (timeouts, connection resets) count too.
	return true
}

// googleAPI is the real provider behind apiCaller.
type googleAPI struct {
	svc *youtube.Service
}

func (g *googleAPI) searchIDs(ctx context.Context, query string, opts SearchOptions) ([]string, error) {
	call := g.svc.Search.List([]string{"id"}).
		Context(ctx).
		Q(query).
		Type("video").
		Order(opts.Order).
		MaxResults(opts.MaxResults)
	if opts.CategoryID != "" {
		call = call.VideoCategoryId(opts.CategoryID)
	}
	if opts.RegionCode != "" {
		call = call.RegionCode(opts.RegionCode)
	}

	resp, err := call.Do()
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item.Id != nil && item.Id.VideoId != "" {
			ids = append(ids, item.Id.VideoId)
		}
	}
	return ids, nil
}

func (g *googleAPI) videosByID(ctx context.Context, ids []string) ([]*youtube.Video, error) {
	var videos []*youtube.Video
	for start := 0; start < len(ids); start += maxIDsPerBatch {
		end := start + maxIDsPerBatch
		if end > len(ids) {
			end = len(ids)
		}
		resp, err := g.svc.Videos.List([]string{"snippet", "contentDetails", "statistics"}).
			Context(ctx).
			Id(ids[start:end]...).
			Do()
		if err != nil {
			return nil, err
		}
		videos = append(videos, resp.Items...)
	}
	return videos, nil
}

func (g *googleAPI) videoCategories(ctx context.Context, region string) ([]*youtube.VideoCategory, error) {
	resp, err := g.svc.VideoCategories.List([]string{"snippet"}).
		Context(ctx).
		RegionCode(region).
		Do()
	if err != nil {
		return nil, err
	}
	return resp.Items, nil
}
