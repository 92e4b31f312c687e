package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/SteveSant26/streamflow-music-backend/internal/db"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/models"
	"github.com/SteveSant26/streamflow-music-backend/internal/db/repository"
	"github.com/SteveSant26/streamflow-music-backend/internal/model"
	"github.com/SteveSant26/streamflow-music-backend/internal/validation"
)

// IngestionService persists produced tracks into the catalog. Persistence is
// idempotent over (source_type, source_id): re-ingesting a known video
// returns the existing row untouched.
type IngestionService struct {
	songs     repository.SongRepository
	artists   repository.ArtistRepository
	albums    repository.AlbumRepository
	genres    repository.GenreRepository
	publisher EventPublisher
}

// NewIngestionService wires the catalog repositories and the event publisher.
func NewIngestionService(
	songs repository.SongRepository,
	artists repository.ArtistRepository,
	albums repository.AlbumRepository,
	genres repository.GenreRepository,
	publisher EventPublisher,
) *IngestionService {
	if publisher == nil {
		publisher = NoopPublisher{}
	}
	return &IngestionService{
		songs:     songs,
		artists:   artists,
		albums:    albums,
		genres:    genres,
		publisher: publisher,
	}
}

// IngestTrack persists one track. The bool result reports whether a new
// catalog row was created; false means the source identity already existed.
func (s *IngestionService) IngestTrack(ctx context.Context, track *model.AudioTrackData) (*models.Song, bool, error) {
	if track == nil {
		return nil, false, fmt.Errorf("nil track")
	}

	existing, err := s.songs.FindBySource(ctx, track.SourceType(), track.SourceID())
	if err == nil {
		return existing, false, nil
	}
	if !db.IsNotFound(err) {
		return nil, false, fmt.Errorf("lookup source identity: %w", err)
	}

	song := models.NewSong(track.Title, track.SourceType(), track.SourceID())
	song.DurationSeconds = track.DurationSeconds
	song.ThumbnailURL = track.ThumbnailURL
	song.FileURL = track.FileURL
	song.SourceURL = track.URL

	if artistID, err := s.resolveArtist(ctx, track); err != nil {
		return nil, false, err
	} else if artistID != nil {
		song.ArtistID = artistID
	}

	if albumID, err := s.resolveAlbum(ctx, track, song.ArtistID); err != nil {
		return nil, false, err
	} else if albumID != nil {
		song.AlbumID = albumID
	}

	if track.Genre != "" {
		genre, err := s.genres.GetOrCreateByName(ctx, track.Genre)
		if err != nil {
			return nil, false, fmt.Errorf("resolve genre: %w", err)
		}
		song.GenreID = &genre.ID
	}

	if err := s.songs.Upsert(ctx, song); err != nil {
		// A concurrent ingest of the same video may have won the race;
		// fall back to the existing row.
		if db.IsDuplicateKey(err) {
			existing, lookupErr := s.songs.FindBySource(ctx, track.SourceType(), track.SourceID())
			if lookupErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, fmt.Errorf("persist song: %w", err)
	}

	s.publishIngested(ctx, song)
	return song, true, nil
}

// IngestTracks persists a batch and returns the created songs. Per-track
// failures are logged and skipped; a batch never fails wholesale.
func (s *IngestionService) IngestTracks(ctx context.Context, tracks []*model.AudioTrackData) []*models.Song {
	created := make([]*models.Song, 0, len(tracks))
	for _, track := range tracks {
		song, isNew, err := s.IngestTrack(ctx, track)
		if err != nil {
			log.Printf("[Ingestion] Track %s not persisted: %v", track.VideoID, err)
			continue
		}
		if isNew {
			created = append(created, song)
		}
	}
	return created
}

func (s *IngestionService) resolveArtist(ctx context.Context, track *model.AudioTrackData) (*uuid.UUID, error) {
	name := track.ArtistName
	if !validation.IsUsableArtistName(name) {
		return nil, nil
	}
	artist, err := s.artists.GetOrCreateByName(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("resolve artist: %w", err)
	}
	return &artist.ID, nil
}

func (s *IngestionService) resolveAlbum(ctx context.Context, track *model.AudioTrackData, artistID *uuid.UUID) (*uuid.UUID, error) {
	if track.AlbumTitle == "" {
		return nil, nil
	}

	var releaseYear *int
	for _, a := range track.ExtractedAlbums {
		if a.Title == track.AlbumTitle && a.ReleaseYear > 0 {
			y := a.ReleaseYear
			releaseYear = &y
			break
		}
	}

	album, err := s.albums.GetOrCreateByTitle(ctx, track.AlbumTitle, artistID, releaseYear)
	if err != nil {
		return nil, fmt.Errorf("resolve album: %w", err)
	}
	return &album.ID, nil
}

// publishIngested fires the track.ingested event. Publishing is best-effort:
// a broker outage never rolls back the catalog write.
func (s *IngestionService) publishIngested(ctx context.Context, song *models.Song) {
	artistName := ""
	if song.ArtistID != nil {
		if artist, err := s.artists.GetByID(ctx, *song.ArtistID); err == nil {
			artistName = artist.Name
		}
	}

	event := &TrackIngestedEvent{
		EventID:    uuid.New(),
		SongID:     song.ID,
		SourceType: song.SourceType,
		SourceID:   song.SourceID,
		Title:      song.Title,
		ArtistName: artistName,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishTrackIngested(ctx, event); err != nil {
		log.Printf("[Ingestion] Event for song %s not published: %v", song.ID, err)
	}
}
