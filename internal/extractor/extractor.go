// Package extractor derives structured music metadata (artists, albums,
// genre) from the unstructured titles, descriptions and tags of videos.
//
// Everything here is best-effort heuristics over noisy real-world text:
// false positives and negatives are expected and acceptable. The contract is
// "plausible ranked candidates", not ground truth.
package extractor

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/validation"
	"github.com/SteveSant26/streamflow-music-backend/pkg/logger"
	"go.uber.org/zap"
)

// Confidence assigned per candidate source. Channel names are the strongest
// signal, tags the weakest.
const (
	confidenceChannel      = 0.8
	confidenceTitleDash    = 0.7
	confidenceTitleColon   = 0.65
	confidenceTitleQuoted  = 0.65
	confidenceTitleBy      = 0.6
	confidenceTitleFeat    = 0.6
	confidenceDescription  = 0.5
	confidenceTags         = 0.3
	confidenceAlbumTitle   = 0.7
	confidenceAlbumBracket = 0.5
	confidenceAlbumParen   = 0.3
	confidenceAlbumDesc    = 0.6
)

// titlePattern is one ordered artist-extraction regex. The first pattern that
// matches contributes a candidate; later patterns still run so collaborations
// are picked up alongside the primary artist.
type titlePattern struct {
	re         *regexp.Regexp
	group      int
	confidence float64
	info       string
}

var artistTitlePatterns = []titlePattern{
	// "Artist - Title"
	{regexp.MustCompile(`^(.{2,}?)\s+-\s+(.+)$`), 1, confidenceTitleDash, "artist-dash-title"},
	// "Artist : Title"
	{regexp.MustCompile(`^(.{2,}?)\s*:\s*(.+)$`), 1, confidenceTitleColon, "artist-colon-title"},
	// `"Artist" Title` / `"Artist" - Title`
	{regexp.MustCompile(`^"([^"]{2,})"\s*[-|]?\s*.+$`), 1, confidenceTitleQuoted, "quoted-artist"},
	// "Title by Artist"
	{regexp.MustCompile(`(?i)^(.{2,}?)\s+by\s+([^()\[\]]{2,})$`), 2, confidenceTitleBy, "title-by-artist"},
}

// feat./ft. collaborations can appear anywhere in the title.
var featRegex = regexp.MustCompile(`(?i)(?:feat\.?|ft\.?|featuring)\s+([^()\[\],]{2,})`)

var artistDescriptionPatterns = []titlePattern{
	{regexp.MustCompile(`(?im)^\s*artist\s*:\s*(.+)$`), 1, confidenceDescription, "description-artist-line"},
	{regexp.MustCompile(`(?im)performed\s+by\s*:?\s+(.+)$`), 1, confidenceDescription, "description-performed-by"},
}

var albumTitlePatterns = []titlePattern{
	// `from the album "X"` / `off the album "X"`
	{regexp.MustCompile(`(?i)(?:from|off)\s+(?:the\s+)?album\s+"([^"]+)"`), 1, confidenceAlbumTitle, "from-album"},
	// "[X]": bracketed text is often the album or release name
	{regexp.MustCompile(`\[([^\]]{2,})\]`), 1, confidenceAlbumBracket, "bracketed"},
	// "(X)": lowest priority, parentheses are usually not albums
	{regexp.MustCompile(`\(([^)]{2,})\)`), 1, confidenceAlbumParen, "parenthesized"},
}

var albumDescriptionPatterns = []titlePattern{
	{regexp.MustCompile(`(?i)from\s+the\s+album\s+"([^"]+)"`), 1, confidenceAlbumTitle, "description-from-album"},
	{regexp.MustCompile(`(?im)^\s*album\s*:\s*(.+)$`), 1, confidenceAlbumDesc, "description-album-line"},
}

// Candidate text containing any of these words is not an album title.
var nonAlbumWords = []string{
	"official", "video", "audio", "live", "remix", "karaoke", "single",
	"ep", "compilation", "cover", "acoustic", "instrumental", "lyric",
	"lyrics", "session", "visualizer", "hd", "hq", "4k",
}

var (
	yearRegex        = regexp.MustCompile(`\b(19\d{2}|20[0-2]\d)\b`)
	collabSplitRegex = regexp.MustCompile(`(?i)\s*(?:,|&|\band\b)\s*`)
	albumWordRegex   = regexp.MustCompile(`(?i)album`)
)

// Genres recognized in tags and titles, checked in order.
var knownGenres = []string{
	"hip hop", "hip-hop", "rock", "pop", "jazz", "blues", "electronic",
	"house", "techno", "trance", "dubstep", "metal", "punk", "reggae",
	"reggaeton", "country", "folk", "classical", "soul", "funk", "r&b",
	"rap", "latin", "salsa", "cumbia", "indie", "ambient", "lo-fi", "lofi",
}

// Extractor derives artist/album/genre candidates from a video snapshot.
// It is stateless: extraction is a pure function of its input, so calling it
// twice on the same snapshot yields identical results.
type Extractor struct{}

// New creates an Extractor.
func New() *Extractor {
	return &Extractor{}
}

// ExtractMusicMetadata populates v.ExtractedArtists and v.ExtractedAlbums.
// It never fails: when nothing usable is found both lists come back empty.
func (e *Extractor) ExtractMusicMetadata(v *model.VideoInfo) {
	if v == nil {
		return
	}

	artists := e.extractArtists(v)
	albums := e.extractAlbums(v, topArtistName(artists))

	v.ExtractedArtists = artists
	v.ExtractedAlbums = albums

	logger.Log.Debug("extracted music metadata",
		zap.String("video_id", v.VideoID),
		zap.Int("artists", len(artists)),
		zap.Int("albums", len(albums)),
	)
}

// CleanSongTitle returns the video title reduced to the bare song name:
// bracketed noise removed and, when the title follows the "Artist - Title"
// shape, the artist prefix dropped.
func CleanSongTitle(v *model.VideoInfo) string {
	cleaned := validation.CleanTitle(v.Title)

	if m := artistTitlePatterns[0].re.FindStringSubmatch(cleaned); m != nil {
		if rest := strings.TrimSpace(m[2]); rest != "" {
			return rest
		}
	}
	return cleaned
}

// DetectGenre returns the first known genre found in the video's tags, then
// its title, then whatever genre the search adapter already resolved.
func DetectGenre(v *model.VideoInfo) string {
	for _, tag := range v.Tags {
		if g := matchGenre(tag); g != "" {
			return g
		}
	}
	if g := matchGenre(v.Title); g != "" {
		return g
	}
	return v.Genre
}

func matchGenre(text string) string {
	lower := strings.ToLower(text)
	for _, genre := range knownGenres {
		if strings.Contains(lower, genre) {
			return genre
		}
	}
	return ""
}

// --- artists ---

func (e *Extractor) extractArtists(v *model.VideoInfo) []model.ExtractedArtistInfo {
	var candidates []model.ExtractedArtistInfo

	// Channel name: strongest signal, but only for artist-looking channels.
	if validation.IsLikelyArtistChannel(v.ChannelTitle) {
		candidates = append(candidates, model.ExtractedArtistInfo{
			Name:            validation.CleanArtistName(v.ChannelTitle),
			ChannelID:       v.ChannelID,
			ExtractedFrom:   model.SourceChannel,
			ConfidenceScore: confidenceChannel,
		})
	}

	candidates = append(candidates, e.artistsFromTitle(v.Title)...)
	candidates = append(candidates, e.artistsFromDescription(v.Description)...)
	candidates = append(candidates, e.artistsFromTags(v.Tags)...)

	return dedupArtists(candidates)
}

func (e *Extractor) artistsFromTitle(title string) []model.ExtractedArtistInfo {
	cleaned := validation.CleanTitle(title)
	var out []model.ExtractedArtistInfo

	for _, p := range artistTitlePatterns {
		m := p.re.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		if c, ok := artistCandidate(m[p.group], model.SourceTitle, p.confidence, p.info); ok {
			out = append(out, c)
		}
		// Only the highest-priority structural pattern contributes; running
		// the rest against the same title mostly produces echoes of it.
		break
	}

	for _, m := range featRegex.FindAllStringSubmatch(cleaned, -1) {
		// A "feat. A & B" clause can name several collaborators.
		for _, part := range splitCollaborators(m[1]) {
			if c, ok := artistCandidate(part, model.SourceTitle, confidenceTitleFeat, "featured-artist"); ok {
				out = append(out, c)
			}
		}
	}

	return out
}

func (e *Extractor) artistsFromDescription(description string) []model.ExtractedArtistInfo {
	if description == "" {
		return nil
	}

	var out []model.ExtractedArtistInfo
	for _, p := range artistDescriptionPatterns {
		for _, m := range p.re.FindAllStringSubmatch(description, -1) {
			if c, ok := artistCandidate(m[p.group], model.SourceDescription, p.confidence, p.info); ok {
				out = append(out, c)
			}
		}
	}
	return out
}

func (e *Extractor) artistsFromTags(tags []string) []model.ExtractedArtistInfo {
	var out []model.ExtractedArtistInfo
	for _, tag := range tags {
		if len([]rune(strings.TrimSpace(tag))) <= 2 {
			continue
		}
		if c, ok := artistCandidate(tag, model.SourceTags, confidenceTags, "tag"); ok {
			out = append(out, c)
		}
	}
	return out
}

func artistCandidate(raw string, source model.ExtractionSource, confidence float64, info string) (model.ExtractedArtistInfo, bool) {
	name := validation.CleanArtistName(raw)
	if !validation.IsUsableArtistName(name) {
		return model.ExtractedArtistInfo{}, false
	}
	return model.ExtractedArtistInfo{
		Name:            name,
		ExtractedFrom:   source,
		ConfidenceScore: confidence,
		AdditionalInfo:  info,
	}, true
}

func splitCollaborators(raw string) []string {
	parts := collabSplitRegex.Split(raw, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// dedupArtists groups candidates case-insensitively by name, keeps the
// highest-confidence entry of each group and returns them sorted by
// confidence, descending.
func dedupArtists(candidates []model.ExtractedArtistInfo) []model.ExtractedArtistInfo {
	best := make(map[string]model.ExtractedArtistInfo)
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		key := strings.ToLower(c.Name)
		existing, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = c
			continue
		}
		if c.ConfidenceScore > existing.ConfidenceScore {
			best[key] = c
		}
	}

	out := make([]model.ExtractedArtistInfo, 0, len(best))
	for _, key := range order {
		out = append(out, best[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConfidenceScore > out[j].ConfidenceScore
	})
	return out
}

// --- albums ---

func (e *Extractor) extractAlbums(v *model.VideoInfo, artistName string) []model.ExtractedAlbumInfo {
	var candidates []model.ExtractedAlbumInfo

	cleanedTitle := strings.TrimSpace(v.Title)
	for _, p := range albumTitlePatterns {
		for _, m := range p.re.FindAllStringSubmatch(cleanedTitle, -1) {
			if c, ok := albumCandidate(m[p.group], artistName, model.SourceTitle, p.confidence); ok {
				candidates = append(candidates, c)
			}
		}
	}

	if v.Description != "" {
		for _, p := range albumDescriptionPatterns {
			for _, m := range p.re.FindAllStringSubmatch(v.Description, -1) {
				if c, ok := albumCandidate(m[p.group], artistName, model.SourceDescription, p.confidence); ok {
					candidates = append(candidates, c)
				}
			}
		}
	}

	for _, tag := range v.Tags {
		if strings.Contains(strings.ToLower(tag), "album") {
			title := strings.TrimSpace(albumWordRegex.ReplaceAllString(tag, ""))
			if c, ok := albumCandidate(title, artistName, model.SourceTags, confidenceTags); ok {
				candidates = append(candidates, c)
			}
		}
	}

	return dedupAlbums(candidates)
}

func albumCandidate(raw, artistName string, source model.ExtractionSource, confidence float64) (model.ExtractedAlbumInfo, bool) {
	text := strings.TrimSpace(raw)
	if len([]rune(text)) < 2 {
		return model.ExtractedAlbumInfo{}, false
	}

	lower := strings.ToLower(text)
	for _, word := range nonAlbumWords {
		if strings.Contains(lower, word) {
			return model.ExtractedAlbumInfo{}, false
		}
	}

	year := 0
	if m := yearRegex.FindString(text); m != "" {
		year, _ = strconv.Atoi(m)
		text = strings.TrimSpace(yearRegex.ReplaceAllString(text, ""))
		text = strings.Trim(text, "-–,. ")
	}
	if len([]rune(text)) < 2 {
		return model.ExtractedAlbumInfo{}, false
	}

	return model.ExtractedAlbumInfo{
		Title:           text,
		ArtistName:      artistName,
		ExtractedFrom:   source,
		ConfidenceScore: confidence,
		ReleaseYear:     year,
	}, true
}

// dedupAlbums applies the same keep-max-confidence rule as artists, keyed by
// lowercase (title, artist).
func dedupAlbums(candidates []model.ExtractedAlbumInfo) []model.ExtractedAlbumInfo {
	best := make(map[string]model.ExtractedAlbumInfo)
	order := make([]string, 0, len(candidates))

	for _, c := range candidates {
		key := strings.ToLower(c.Title) + "\x00" + strings.ToLower(c.ArtistName)
		existing, seen := best[key]
		if !seen {
			order = append(order, key)
			best[key] = c
			continue
		}
		if c.ConfidenceScore > existing.ConfidenceScore {
			best[key] = c
		}
	}

	out := make([]model.ExtractedAlbumInfo, 0, len(best))
	for _, key := range order {
		out = append(out, best[key])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ConfidenceScore > out[j].ConfidenceScore
	})
	return out
}

func topArtistName(artists []model.ExtractedArtistInfo) string {
	if len(artists) == 0 {
		return ""
	}
	return artists[0].Name
}
