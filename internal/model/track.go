package model

// SourceTypeYouTube is the only external source the pipeline currently ingests from.
const SourceTypeYouTube = "youtube"

// AudioTrackData is the terminal output of the ingestion pipeline: one video's
// worth of metadata, extraction results and (optionally) downloaded media.
// It is constructed once per video and never mutated afterwards; persistence
// assigns a catalog id but does not alter these fields.
type AudioTrackData struct {
	VideoID         string   `json:"video_id"`
	Title           string   `json:"title"`
	ArtistName      string   `json:"artist_name"`
	AlbumTitle      string   `json:"album_title,omitempty"`
	DurationSeconds int      `json:"duration_seconds"`
	ThumbnailURL    string   `json:"thumbnail_url"`
	Genre           string   `json:"genre,omitempty"`
	Tags            []string `json:"tags,omitempty"`
	URL             string   `json:"url"`

	AudioFileData []byte `json:"-"`
	AudioFileName string `json:"audio_file_name,omitempty"`
	FileURL       string `json:"file_url,omitempty"`

	ExtractedArtists []ExtractedArtistInfo `json:"extracted_artists,omitempty"`
	ExtractedAlbums  []ExtractedAlbumInfo  `json:"extracted_albums,omitempty"`
}

// SourceType returns the external-source discriminant of the track's identity.
func (t *AudioTrackData) SourceType() string { return SourceTypeYouTube }

// SourceID returns the external-source id of the track's identity. Together
// with SourceType it uniquely identifies the track for catalog dedup.
func (t *AudioTrackData) SourceID() string { return t.VideoID }
