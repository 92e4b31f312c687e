// Package validation provides the string, URL and media sanity checks shared
// by the ingestion components.
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

var (
	videoIDRegex   = regexp.MustCompile(`^[a-zA-Z0-9_-]{11}$`)
	channelIDRegex = regexp.MustCompile(`^UC[a-zA-Z0-9_-]{22}$`)

	// Parenthesized/bracketed noise commonly appended to video titles.
	titleNoiseRegex = regexp.MustCompile(`(?i)[(\[](?:official\s*(?:music\s*)?video|official\s*audio|official|lyric\s*video|lyrics|audio|visualizer|hd|hq|4k|m/?v)[)\]]`)

	// Trailing marks on channel names that are not part of the artist name.
	channelSuffixRegex = regexp.MustCompile(`(?i)\s*(?:-\s*)?(?:vevo|official|records|label|entertainment|music|tv|topic|channel)\s*$`)

	spaceRegex = regexp.MustCompile(`\s+`)
)

// Words that can never stand alone as an artist name.
var genericWords = map[string]struct{}{
	"official": {}, "video": {}, "audio": {}, "music": {}, "remix": {},
	"lyrics": {}, "live": {}, "cover": {}, "hd": {}, "hq": {}, "new": {},
	"full": {}, "album": {}, "single": {}, "feat": {}, "ft": {}, "various": {},
}

// Channel-name keywords that mark an aggregator rather than an artist channel.
var nonArtistChannelWords = []string{
	"music", "records", "various", "entertainment", "media", "network",
	"label", "channel", "official charts", "compilation", "playlist", "mix",
}

// Extensions the audio downloader accepts.
var allowedAudioExts = map[string]struct{}{
	".mp3": {}, ".m4a": {}, ".aac": {}, ".opus": {}, ".ogg": {},
	".webm": {}, ".wav": {}, ".flac": {},
}

// IsValidVideoID reports whether id looks like a YouTube video id.
func IsValidVideoID(id string) bool {
	return videoIDRegex.MatchString(id)
}

// IsValidChannelID reports whether id looks like a YouTube channel id.
func IsValidChannelID(id string) bool {
	return channelIDRegex.MatchString(id)
}

// ValidateMediaURL checks that raw is an absolute http(s) URL.
func ValidateMediaURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("empty URL")
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("URL missing host")
	}
	return nil
}

// ValidateFileSize rejects empty and oversized payloads.
func ValidateFileSize(size, maxSize int64) error {
	if size <= 0 {
		return fmt.Errorf("empty file")
	}
	if size > maxSize {
		return fmt.Errorf("file size %d exceeds limit %d", size, maxSize)
	}
	return nil
}

// IsAllowedAudioExtension reports whether ext (with or without leading dot)
// is on the audio allow-list.
func IsAllowedAudioExtension(ext string) bool {
	ext = strings.ToLower(ext)
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	_, ok := allowedAudioExts[ext]
	return ok
}

// CleanTitle strips bracketed noise like "(Official Video)" and collapses
// whitespace. It never empties a title completely: when cleaning would leave
// nothing, the trimmed original is returned.
func CleanTitle(title string) string {
	cleaned := titleNoiseRegex.ReplaceAllString(title, "")
	cleaned = strings.TrimSpace(spaceRegex.ReplaceAllString(cleaned, " "))
	cleaned = strings.Trim(cleaned, "-–—| ")
	if cleaned == "" {
		return strings.TrimSpace(title)
	}
	return cleaned
}

// CleanArtistName strips trailing channel suffixes ("VEVO", "Official",
// "Records", ...) and surrounding punctuation from a candidate artist name.
func CleanArtistName(name string) string {
	cleaned := strings.TrimSpace(name)
	for {
		stripped := channelSuffixRegex.ReplaceAllString(cleaned, "")
		stripped = strings.TrimSpace(stripped)
		if stripped == cleaned {
			break
		}
		cleaned = stripped
	}
	cleaned = strings.Trim(cleaned, `"'.,;:!? `)
	return spaceRegex.ReplaceAllString(cleaned, " ")
}

// IsUsableArtistName rejects cleaned names that are generic words or too
// short to be a plausible artist.
func IsUsableArtistName(name string) bool {
	if len([]rune(name)) < 2 {
		return false
	}
	_, generic := genericWords[strings.ToLower(name)]
	return !generic
}

// IsLikelyArtistChannel reports whether a channel title plausibly names an
// artist rather than an aggregator. The keyword stoplist runs against the
// raw channel title ("Trap Nation Music" is an aggregator even though
// cleaning would drop the "Music"); the usability check runs against the
// cleaned name so "Daft PunkVEVO" is judged as "Daft Punk".
func IsLikelyArtistChannel(channelTitle string) bool {
	lower := strings.ToLower(channelTitle)
	for _, word := range nonArtistChannelWords {
		if strings.Contains(lower, word) {
			return false
		}
	}
	return IsUsableArtistName(CleanArtistName(channelTitle))
}

// IsDegenerateTitle reports whether a title carries no usable signal (empty,
// single word of noise, or placeholder).
func IsDegenerateTitle(title string) bool {
	trimmed := strings.TrimSpace(title)
	if len([]rune(trimmed)) < 3 {
		return true
	}
	lower := strings.ToLower(trimmed)
	switch lower {
	case "untitled", "unknown", "video", "audio", "no title":
		return true
	}
	return false
}
