package youtube

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/youtube/v3"

	"github.com/SteveSant26/streamflow-music-backend/internal/config"
	"github.com/SteveSant26/streamflow-music-backend/internal/extractor"
	"github.com/SteveSant26/streamflow-music-backend/internal/service/quota"
)

type fakeAPI struct {
	searchCalls int
	videoCalls  int

	ids        []string
	videos     []*youtube.Video
	categories []*youtube.VideoCategory

	searchErr error
	videosErr error
}

func (f *fakeAPI) searchIDs(_ context.Context, _ string, _ SearchOptions) ([]string, error) {
	f.searchCalls++
	return f.ids, f.searchErr
}

func (f *fakeAPI) videosByID(_ context.Context, _ []string) ([]*youtube.Video, error) {
	f.videoCalls++
	return f.videos, f.videosErr
}

func (f *fakeAPI) videoCategories(_ context.Context, _ string) ([]*youtube.VideoCategory, error) {
	return f.categories, nil
}

func testConfig() config.YouTubeConfig {
	return config.YouTubeConfig{
		APIKey:              "test-key",
		DailyQuotaLimit:     10000,
		QuotaThresholdPct:   90,
		SearchQuotaCost:     100,
		VideosListQuotaCost: 1,
		RequestsPerSecond:   1000,
		MaxRetries:          0,
		RetryBaseDelay:      time.Millisecond,
		RandomQuerySeeds:    []string{"lofi hip hop", "jazz classics"},
	}
}

func testService(api apiCaller, cfg config.YouTubeConfig) (*Service, *quota.Manager) {
	qm := quota.NewManager(cfg.DailyQuotaLimit, cfg.QuotaThresholdPct)
	return newService(api, cfg, qm, extractor.New(), nil), qm
}

func sampleVideo(id string) *youtube.Video {
	return &youtube.Video{
		Id: id,
		Snippet: &youtube.VideoSnippet{
			Title:        "Daft Punk - One More Time (Official Video)",
			ChannelTitle: "Daft Punk",
			ChannelId:    "UC_kRDKYrUlrbtrSiyu5Tflg",
			CategoryId:   "10",
			PublishedAt:  "2021-03-05T14:00:00Z",
			Tags:         []string{"house", "electronic"},
		},
		ContentDetails: &youtube.VideoContentDetails{Duration: "PT5M20S"},
		Statistics:     &youtube.VideoStatistics{ViewCount: 1000000, LikeCount: 50000},
	}
}

func TestSearchVideosMapsResults(t *testing.T) {
	api := &fakeAPI{
		ids:    []string{"dQw4w9WgXcQ"},
		videos: []*youtube.Video{sampleVideo("dQw4w9WgXcQ")},
	}
	svc, qm := testService(api, testConfig())

	videos, err := svc.SearchVideos(context.Background(), "daft punk", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, videos, 1)

	v := videos[0]
	assert.Equal(t, "dQw4w9WgXcQ", v.VideoID)
	assert.Equal(t, 320, v.DurationSeconds)
	assert.Equal(t, "Music", v.Genre)
	assert.Equal(t, int64(1000000), v.ViewCount)
	require.NotEmpty(t, v.ExtractedArtists)
	assert.Equal(t, "Daft Punk", v.ExtractedArtists[0].Name)

	info := qm.GetInfo()
	assert.Equal(t, 101, info.QuotaUsed, "search.list plus videos.list should be recorded")
	assert.Equal(t, 1, api.searchCalls)
	assert.Equal(t, 1, api.videoCalls)
}

func TestSearchVideosWithoutExtractorSkipsEnrichment(t *testing.T) {
	api := &fakeAPI{
		ids:    []string{"dQw4w9WgXcQ"},
		videos: []*youtube.Video{sampleVideo("dQw4w9WgXcQ")},
	}
	cfg := testConfig()
	qm := quota.NewManager(cfg.DailyQuotaLimit, cfg.QuotaThresholdPct)
	svc := newService(api, cfg, qm, nil, nil)

	videos, err := svc.SearchVideos(context.Background(), "daft punk", SearchOptions{})
	require.NoError(t, err)
	require.Len(t, videos, 1)
	assert.Empty(t, videos[0].ExtractedArtists)
	assert.Empty(t, videos[0].ExtractedAlbums)
}

func TestSearchVideosQuotaPreCheckBlocksCall(t *testing.T) {
	api := &fakeAPI{ids: []string{"dQw4w9WgXcQ"}}
	cfg := testConfig()
	cfg.DailyQuotaLimit = 100 // threshold 90, estimated cost 101
	svc, _ := testService(api, cfg)

	videos, err := svc.SearchVideos(context.Background(), "daft punk", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.Zero(t, api.searchCalls, "call must not reach the network when quota would be exceeded")
}

func TestSearchVideosEmptyResult(t *testing.T) {
	api := &fakeAPI{ids: nil}
	svc, qm := testService(api, testConfig())

	videos, err := svc.SearchVideos(context.Background(), "no matches", SearchOptions{})
	require.NoError(t, err)
	assert.Empty(t, videos)
	assert.Zero(t, api.videoCalls, "no details call without ids")
	assert.Equal(t, 100, qm.GetInfo().QuotaUsed, "only the search cost is recorded")
}

func TestGetVideoDetailsNotFound(t *testing.T) {
	api := &fakeAPI{videos: nil}
	svc, _ := testService(api, testConfig())

	_, err := svc.GetVideoDetails(context.Background(), "dQw4w9WgXcQ")
	require.ErrorIs(t, err, ErrVideoNotFound)
}

func TestGetVideoDetails404IsPermanent(t *testing.T) {
	api := &fakeAPI{videosErr: &googleapi.Error{Code: 404, Message: "not found"}}
	cfg := testConfig()
	cfg.MaxRetries = 3
	svc, _ := testService(api, cfg)

	_, err := svc.GetVideoDetails(context.Background(), "dQw4w9WgXcQ")
	require.ErrorIs(t, err, ErrVideoNotFound)
	assert.Equal(t, 1, api.videoCalls, "not-found must not be retried")
}

func TestSearchVideosRetriesTransientErrors(t *testing.T) {
	api := &fakeAPI{searchErr: &googleapi.Error{Code: 500, Message: "backend error"}}
	cfg := testConfig()
	cfg.MaxRetries = 2
	svc, _ := testService(api, cfg)

	_, err := svc.SearchVideos(context.Background(), "daft punk", SearchOptions{})
	require.Error(t, err)
	assert.Equal(t, 3, api.searchCalls, "transient failures retry up to the limit")
}

func TestGetRandomVideosUsesSeedQueries(t *testing.T) {
	api := &fakeAPI{
		ids:    []string{"dQw4w9WgXcQ"},
		videos: []*youtube.Video{sampleVideo("dQw4w9WgXcQ")},
	}
	svc, _ := testService(api, testConfig())

	videos, err := svc.GetRandomVideos(context.Background(), SearchOptions{MaxResults: 5})
	require.NoError(t, err)
	assert.Len(t, videos, 1)

	cfg := testConfig()
	cfg.RandomQuerySeeds = nil
	svcNoSeeds, _ := testService(api, cfg)
	_, err = svcNoSeeds.GetRandomVideos(context.Background(), SearchOptions{})
	require.Error(t, err)
}

func TestGetMusicCategoriesFiltersAssignable(t *testing.T) {
	api := &fakeAPI{categories: []*youtube.VideoCategory{
		{Id: "10", Snippet: &youtube.VideoCategorySnippet{Title: "Music", Assignable: true}},
		{Id: "19", Snippet: &youtube.VideoCategorySnippet{Title: "Travel & Events", Assignable: false}},
		{Id: "31", Snippet: nil},
	}}
	svc, _ := testService(api, testConfig())

	categories, err := svc.GetMusicCategories(context.Background())
	require.NoError(t, err)
	require.Len(t, categories, 1)
	assert.Equal(t, "Music", categories[0].Title)
}

func TestIsCountedFailure(t *testing.T) {
	assert.True(t, isCountedFailure(&googleapi.Error{Code: 429}))
	assert.True(t, isCountedFailure(&googleapi.Error{Code: 403}))
	assert.True(t, isCountedFailure(&googleapi.Error{Code: 503}))
	assert.False(t, isCountedFailure(&googleapi.Error{Code: 400}))
	assert.False(t, isCountedFailure(classify(&googleapi.Error{Code: 404})))
}

func TestParseDuration(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"PT1H2M3S", 3723},
		{"PT5M", 300},
		{"PT30S", 30},
		{"PT2H", 7200},
		{"PT0S", 0},
		{"", 0},
		{"5 minutes", 0},
		{"PT", 0},
		{"PT1M30", 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ParseDuration(tc.in), "ParseDuration(%q)", tc.in)
	}
}

func TestPickThumbnail(t *testing.T) {
	assert.Equal(t, "", pickThumbnail(nil))
	assert.Equal(t, "max", pickThumbnail(&youtube.ThumbnailDetails{
		Maxres:  &youtube.Thumbnail{Url: "max"},
		High:    &youtube.Thumbnail{Url: "high"},
		Default: &youtube.Thumbnail{Url: "def"},
	}))
	assert.Equal(t, "high", pickThumbnail(&youtube.ThumbnailDetails{
		High:   &youtube.Thumbnail{Url: "high"},
		Medium: &youtube.Thumbnail{Url: "med"},
	}))
	assert.Equal(t, "def", pickThumbnail(&youtube.ThumbnailDetails{
		Default: &youtube.Thumbnail{Url: "def"},
	}))
}
