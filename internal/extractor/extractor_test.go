package extractor

import (
	"testing"

	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func daftPunkVideo() *model.VideoInfo {
	return &model.VideoInfo{
		VideoID:         "FGBhQbmPwH8",
		Title:           "Daft Punk - One More Time (Official Video)",
		ChannelTitle:    "Daft PunkVEVO",
		ChannelID:       "UCATwfIwa6nlk9xqh2ier6Ow",
		Description:     "From the album \"Discovery\"\nListen now.",
		DurationSeconds: 240,
		Tags:            []string{"Daft Punk", "electronic", "one more time"},
		URL:             "https://www.youtube.com/watch?v=FGBhQbmPwH8",
	}
}

func TestExtractArtistFromTitleAndChannel(t *testing.T) {
	e := New()
	v := daftPunkVideo()

	e.ExtractMusicMetadata(v)

	require.NotEmpty(t, v.ExtractedArtists)

	// "Daft Punk" appears via the title pattern, the channel (post-VEVO
	// strip) and a tag; dedup keeps one entry with the channel's 0.8.
	var daftPunk []model.ExtractedArtistInfo
	for _, a := range v.ExtractedArtists {
		if a.Name == "Daft Punk" {
			daftPunk = append(daftPunk, a)
		}
	}
	require.Len(t, daftPunk, 1)
	assert.Equal(t, 0.8, daftPunk[0].ConfidenceScore)
	assert.Equal(t, model.SourceChannel, daftPunk[0].ExtractedFrom)
}

func TestExtractAlbumFromDescription(t *testing.T) {
	e := New()
	v := daftPunkVideo()

	e.ExtractMusicMetadata(v)

	require.NotEmpty(t, v.ExtractedAlbums)
	album := v.ExtractedAlbums[0]
	assert.Equal(t, "Discovery", album.Title)
	assert.Equal(t, "Daft Punk", album.ArtistName)
	assert.Equal(t, model.SourceDescription, album.ExtractedFrom)
}

func TestExtractionIsIdempotent(t *testing.T) {
	e := New()
	v := daftPunkVideo()

	e.ExtractMusicMetadata(v)
	first := v.ExtractedArtists
	firstAlbums := v.ExtractedAlbums

	e.ExtractMusicMetadata(v)

	assert.Equal(t, first, v.ExtractedArtists)
	assert.Equal(t, firstAlbums, v.ExtractedAlbums)
}

func TestDedupKeepsMaxConfidencePerName(t *testing.T) {
	candidates := []model.ExtractedArtistInfo{
		{Name: "Daft Punk", ConfidenceScore: 0.3, ExtractedFrom: model.SourceTags},
		{Name: "daft punk", ConfidenceScore: 0.7, ExtractedFrom: model.SourceTitle},
		{Name: "DAFT PUNK", ConfidenceScore: 0.5, ExtractedFrom: model.SourceDescription},
		{Name: "Justice", ConfidenceScore: 0.6, ExtractedFrom: model.SourceTitle},
	}

	out := dedupArtists(candidates)

	require.Len(t, out, 2)
	// At most one entry per case-insensitive name, at max confidence.
	assert.Equal(t, 0.7, out[0].ConfidenceScore)
	assert.Equal(t, model.SourceTitle, out[0].ExtractedFrom)
	assert.Equal(t, "Justice", out[1].Name)
}

func TestArtistsSortedByConfidenceDescending(t *testing.T) {
	e := New()
	v := &model.VideoInfo{
		Title:        "Song by Some Performer",
		ChannelTitle: "Radiohead",
		Description:  "Artist: Described Artist",
		Tags:         []string{"Tag Artist"},
	}

	e.ExtractMusicMetadata(v)

	require.NotEmpty(t, v.ExtractedArtists)
	for i := 1; i < len(v.ExtractedArtists); i++ {
		assert.GreaterOrEqual(t,
			v.ExtractedArtists[i-1].ConfidenceScore,
			v.ExtractedArtists[i].ConfidenceScore,
		)
	}
	assert.Equal(t, "Radiohead", v.ExtractedArtists[0].Name)
}

func TestFeaturedArtistsSplit(t *testing.T) {
	e := New()
	v := &model.VideoInfo{
		Title:        "Main Act - Some Song feat. Guest One & Guest Two",
		ChannelTitle: "Some Label Records",
	}

	e.ExtractMusicMetadata(v)

	names := make(map[string]bool)
	for _, a := range v.ExtractedArtists {
		names[a.Name] = true
	}
	assert.True(t, names["Main Act"])
	assert.True(t, names["Guest One"])
	assert.True(t, names["Guest Two"])
}

func TestGenericWordsRejected(t *testing.T) {
	e := New()
	v := &model.VideoInfo{
		Title:        "Official - Video",
		ChannelTitle: "Music Channel",
		Tags:         []string{"remix", "hd"},
	}

	e.ExtractMusicMetadata(v)

	for _, a := range v.ExtractedArtists {
		assert.NotEqual(t, "Official", a.Name)
		assert.NotEqual(t, "Video", a.Name)
	}
}

func TestEmptyInputYieldsEmptyLists(t *testing.T) {
	e := New()
	v := &model.VideoInfo{}

	e.ExtractMusicMetadata(v)

	assert.Empty(t, v.ExtractedArtists)
	assert.Empty(t, v.ExtractedAlbums)
}

func TestAlbumStoplistRejectsNonAlbums(t *testing.T) {
	e := New()
	v := &model.VideoInfo{
		Title:        "Band - Song [Live] (Official Video)",
		ChannelTitle: "BandVEVO",
	}

	e.ExtractMusicMetadata(v)

	for _, a := range v.ExtractedAlbums {
		assert.NotContains(t, a.Title, "Live")
		assert.NotContains(t, a.Title, "Official")
	}
}

func TestAlbumReleaseYearExtracted(t *testing.T) {
	e := New()
	v := &model.VideoInfo{
		Title:        "Band - Song [Discovery 2001]",
		ChannelTitle: "BandVEVO",
	}

	e.ExtractMusicMetadata(v)

	require.NotEmpty(t, v.ExtractedAlbums)
	album := v.ExtractedAlbums[0]
	assert.Equal(t, "Discovery", album.Title)
	assert.Equal(t, 2001, album.ReleaseYear)
}

func TestAlbumDedupByTitleAndArtist(t *testing.T) {
	candidates := []model.ExtractedAlbumInfo{
		{Title: "Discovery", ArtistName: "Daft Punk", ConfidenceScore: 0.3},
		{Title: "discovery", ArtistName: "daft punk", ConfidenceScore: 0.7},
		{Title: "Discovery", ArtistName: "Other Band", ConfidenceScore: 0.5},
	}

	out := dedupAlbums(candidates)

	require.Len(t, out, 2)
	assert.Equal(t, 0.7, out[0].ConfidenceScore)
	assert.Equal(t, "Other Band", out[1].ArtistName)
}

func TestCleanSongTitle(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"Daft Punk - One More Time (Official Video)", "One More Time"},
		{"Just A Song", "Just A Song"},
		{"Band - Track [Official Audio]", "Track"},
	}

	for _, tt := range tests {
		v := &model.VideoInfo{Title: tt.title}
		assert.Equal(t, tt.want, CleanSongTitle(v), "title %q", tt.title)
	}
}

func TestDetectGenre(t *testing.T) {
	tests := []struct {
		name string
		v    *model.VideoInfo
		want string
	}{
		{
			name: "from tags",
			v:    &model.VideoInfo{Tags: []string{"best of", "electronic"}},
			want: "electronic",
		},
		{
			name: "from title",
			v:    &model.VideoInfo{Title: "Classic Rock Anthems"},
			want: "rock",
		},
		{
			name: "falls back to adapter genre",
			v:    &model.VideoInfo{Genre: "Music"},
			want: "Music",
		},
		{
			name: "nothing known",
			v:    &model.VideoInfo{},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectGenre(tt.v))
		})
	}
}
