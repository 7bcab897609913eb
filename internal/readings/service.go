// Package readings assembles profile and single-track readings from a
// listener's Spotify data.
package readings

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-music-oracle/internal/analysis"
	"github.com/justestif/go-music-oracle/internal/clustering"
	"github.com/justestif/go-music-oracle/internal/oracle"
	"github.com/justestif/go-music-oracle/internal/spotify"
)

// MusicSource provides the listening data a reading is built from.
// *spotify.Client satisfies it.
type MusicSource interface {
	FetchMusicData(ctx context.Context) (*spotify.MusicData, error)
	TrackWithFeatures(ctx context.Context, id string) (analysis.Track, analysis.AudioFeatures, error)
}

var _ MusicSource = (*spotify.Client)(nil)

// GenreEnricher fills in genres for artists that have none.
type GenreEnricher interface {
	EnrichGenres(ctx context.Context, artists []analysis.Artist) ([]analysis.Artist, error)
}

// Narrator writes the narrative of a reading. It must not fail.
type Narrator interface {
	ReadProfile(ctx context.Context, p analysis.Profile, f analysis.FrequencyEstimate) oracle.Narrative
	ReadTrack(ctx context.Context, r analysis.TrackReading) oracle.Narrative
}

var _ Narrator = (*oracle.Service)(nil)

// ProfileReading is the full reading of a listener's top tracks and artists.
type ProfileReading struct {
	ID             uuid.UUID
	CreatedAt      time.Time
	User           spotify.User
	Profile        analysis.Profile
	Frequency      analysis.FrequencyEstimate
	FrequencyColor string
	Constellations []clustering.Constellation
	Outliers       []analysis.Track
	Narrative      oracle.Narrative
}

// TrackReading is the esoteric reading of one track.
type TrackReading struct {
	ID        uuid.UUID
	CreatedAt time.Time
	Title     string
	Reading   analysis.TrackReading
	Narrative oracle.Narrative
}

// Service builds readings.
type Service struct {
	narrator Narrator
	enricher GenreEnricher
	clusters clustering.Config
	choose   analysis.Chooser
	now      func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithGenreEnricher enables genre enrichment before the profile is built.
func WithGenreEnricher(e GenreEnricher) Option {
	return func(s *Service) {
		s.enricher = e
	}
}

// WithClusterConfig sets the constellation clustering parameters.
func WithClusterConfig(cfg clustering.Config) Option {
	return func(s *Service) {
		s.clusters = cfg
	}
}

// WithChooser sets how track reading titles and messages are picked.
func WithChooser(c analysis.Chooser) Option {
	return func(s *Service) {
		s.choose = c
	}
}

// WithClock sets the time source for reading timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a reading service that narrates with narrator.
func New(narrator Narrator, opts ...Option) *Service {
	s := &Service{
		narrator: narrator,
		clusters: clustering.DefaultConfig(),
		choose:   analysis.RandomChooser,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadProfile fetches the listener's data and builds a profile reading.
// Returns *analysis.IncompleteProfileError when no track has audio features.
func (s *Service) ReadProfile(ctx context.Context, src MusicSource) (*ProfileReading, error) {
	data, err := src.FetchMusicData(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching music data: %w", err)
	}

	artists := data.Artists
	if s.enricher != nil {
		artists, err = s.enricher.EnrichGenres(ctx, artists)
		if err != nil {
			return nil, fmt.Errorf("enriching genres: %w", err)
		}
	}

	profile, err := analysis.BuildProfile(data.Tracks, data.Features, artists)
	if err != nil {
		return nil, err
	}

	freq := analysis.EstimateFrequency(profile.Key, profile.Features.Tempo)
	constellations, outliers := clustering.Constellations(data.Tracks, data.Features, s.clusters)

	reading := &ProfileReading{
		ID:             uuid.New(),
		CreatedAt:      s.now(),
		User:           data.User,
		Profile:        profile,
		Frequency:      freq,
		FrequencyColor: analysis.FrequencyColor(freq.Estimated),
		Constellations: constellations,
		Outliers:       outliers,
		Narrative:      s.narrator.ReadProfile(ctx, profile, freq),
	}

	slog.Info("profile reading complete",
		slog.String("reading_id", reading.ID.String()),
		slog.String("user", data.User.ID),
		slog.String("archetype", profile.Archetype.Name),
		slog.Int("frequency_hz", freq.Estimated),
		slog.Int("constellations", len(constellations)),
		slog.Bool("fallback_narrative", reading.Narrative.Fallback),
	)

	return reading, nil
}

// ReadTrack builds the reading of a single track.
// Returns spotify.ErrNoFeatures when the track has no audio analysis.
func (s *Service) ReadTrack(ctx context.Context, src MusicSource, trackID string) (*TrackReading, error) {
	track, features, err := src.TrackWithFeatures(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("fetching track %s: %w", trackID, err)
	}

	r := analysis.ReadTrack(track, features, s.choose)

	reading := &TrackReading{
		ID:        uuid.New(),
		CreatedAt: s.now(),
		Title:     analysis.ReadingTitle(s.choose),
		Reading:   r,
		Narrative: s.narrator.ReadTrack(ctx, r),
	}

	slog.Info("track reading complete",
		slog.String("reading_id", reading.ID.String()),
		slog.String("track_id", trackID),
		slog.String("card", r.Card.Name),
	)

	return reading, nil
}
