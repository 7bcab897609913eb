package readings

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/justestif/go-music-oracle/internal/analysis"
	"github.com/justestif/go-music-oracle/internal/oracle"
	"github.com/justestif/go-music-oracle/internal/spotify"
)

type fakeSource struct {
	data     *spotify.MusicData
	err      error
	track    analysis.Track
	features analysis.AudioFeatures
	trackErr error
}

func (f *fakeSource) FetchMusicData(context.Context) (*spotify.MusicData, error) {
	return f.data, f.err
}

func (f *fakeSource) TrackWithFeatures(_ context.Context, id string) (analysis.Track, analysis.AudioFeatures, error) {
	if f.trackErr != nil {
		return analysis.Track{}, analysis.AudioFeatures{}, f.trackErr
	}
	return f.track, f.features, nil
}

type fakeNarrator struct {
	profileCalls int
	trackCalls   int
	gotFreq      analysis.FrequencyEstimate
}

func (n *fakeNarrator) ReadProfile(_ context.Context, _ analysis.Profile, f analysis.FrequencyEstimate) oracle.Narrative {
	n.profileCalls++
	n.gotFreq = f
	return oracle.Narrative{Title: "Título", Interpretation: "I", Advice: "A"}
}

func (n *fakeNarrator) ReadTrack(_ context.Context, r analysis.TrackReading) oracle.Narrative {
	n.trackCalls++
	return oracle.TrackFallback(r)
}

type fakeEnricher struct {
	err error
}

func (e fakeEnricher) EnrichGenres(_ context.Context, artists []analysis.Artist) ([]analysis.Artist, error) {
	if e.err != nil {
		return artists, e.err
	}
	out := slices.Clone(artists)
	for i := range out {
		if len(out[i].Genres) == 0 {
			out[i].Genres = []string{"shoegaze"}
		}
	}
	return out, nil
}

func musicData(n int) *spotify.MusicData {
	data := &spotify.MusicData{User: spotify.User{ID: "listener", DisplayName: "Listener"}}
	for i := range n {
		data.Tracks = append(data.Tracks, analysis.Track{
			ID:      fmt.Sprintf("t%d", i),
			Name:    fmt.Sprintf("Song %d", i),
			Artists: []string{"Artist"},
		})
		data.Features = append(data.Features, &analysis.AudioFeatures{
			Tempo:        120,
			Energy:       0.6 + 0.03*float64(i),
			Valence:      0.55 + 0.03*float64(i),
			Danceability: 0.4 + 0.02*float64(i),
			Key:          9,
			Mode:         analysis.Minor,
		})
	}
	data.Artists = []analysis.Artist{{ID: "a1", Name: "Artist"}}
	return data
}

var fixedTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestService(n Narrator, opts ...Option) *Service {
	opts = append([]Option{
		WithChooser(analysis.FixedChooser(0)),
		WithClock(func() time.Time { return fixedTime }),
	}, opts...)
	return New(n, opts...)
}

func TestReadProfile(t *testing.T) {
	narrator := &fakeNarrator{}
	svc := newTestService(narrator, WithGenreEnricher(fakeEnricher{}))

	reading, err := svc.ReadProfile(context.Background(), &fakeSource{data: musicData(12)})
	if err != nil {
		t.Fatalf("ReadProfile() error = %v", err)
	}

	if reading.ID == uuid.Nil {
		t.Error("reading has no ID")
	}
	if !reading.CreatedAt.Equal(fixedTime) {
		t.Errorf("CreatedAt = %v", reading.CreatedAt)
	}
	if reading.User.ID != "listener" {
		t.Errorf("User = %+v", reading.User)
	}
	if got := reading.Profile.Archetype.Element; got != analysis.Fire {
		t.Errorf("Archetype = %v, want Fire", got)
	}
	if !slices.Equal(reading.Profile.TopGenres, []string{"shoegaze"}) {
		t.Errorf("TopGenres = %v, want enriched genres", reading.Profile.TopGenres)
	}
	if len(reading.Profile.TopTracks) != 10 {
		t.Errorf("TopTracks = %d, want 10", len(reading.Profile.TopTracks))
	}

	// A minor at 120 BPM is exactly 440 Hz, nearest sacred frequency 432
	if reading.Frequency.Estimated != 440 || reading.Frequency.Nearest.Hz != 432 {
		t.Errorf("Frequency = %+v", reading.Frequency)
	}
	if narrator.gotFreq.Estimated != 440 {
		t.Errorf("narrator got frequency %d", narrator.gotFreq.Estimated)
	}
	if reading.FrequencyColor != analysis.FrequencyColor(440) {
		t.Errorf("FrequencyColor = %q", reading.FrequencyColor)
	}

	clustered := len(reading.Outliers)
	for _, c := range reading.Constellations {
		clustered += len(c.Members)
	}
	if clustered != 12 {
		t.Errorf("constellations and outliers hold %d tracks, want 12", clustered)
	}

	if reading.Narrative.Title != "Título" || narrator.profileCalls != 1 {
		t.Errorf("Narrative = %+v after %d calls", reading.Narrative, narrator.profileCalls)
	}
}

func TestReadProfile_Errors(t *testing.T) {
	fetchErr := errors.New("spotify down")

	tests := []struct {
		name       string
		src        *fakeSource
		enricher   GenreEnricher
		wantErr    error
		incomplete bool
	}{
		{
			name:    "fetch failure",
			src:     &fakeSource{err: fetchErr},
			wantErr: fetchErr,
		},
		{
			name:     "enrichment cancelled",
			src:      &fakeSource{data: musicData(3)},
			enricher: fakeEnricher{err: context.Canceled},
			wantErr:  context.Canceled,
		},
		{
			name:       "no features",
			src:        &fakeSource{data: &spotify.MusicData{Tracks: []analysis.Track{{ID: "x"}}, Features: []*analysis.AudioFeatures{nil}}},
			wantErr:    analysis.ErrEmptyInput,
			incomplete: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			narrator := &fakeNarrator{}
			var opts []Option
			if tt.enricher != nil {
				opts = append(opts, WithGenreEnricher(tt.enricher))
			}

			_, err := newTestService(narrator, opts...).ReadProfile(context.Background(), tt.src)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ReadProfile() error = %v, want %v", err, tt.wantErr)
			}

			var incomplete *analysis.IncompleteProfileError
			if got := errors.As(err, &incomplete); got != tt.incomplete {
				t.Errorf("IncompleteProfileError = %v, want %v", got, tt.incomplete)
			}
			if narrator.profileCalls != 0 {
				t.Error("narrator called for a failed reading")
			}
		})
	}
}

func TestReadTrack(t *testing.T) {
	narrator := &fakeNarrator{}
	src := &fakeSource{
		track:    analysis.Track{ID: "t1", Name: "Teardrop", Artists: []string{"Massive Attack"}},
		features: analysis.AudioFeatures{Tempo: 77, Energy: 0.3, Valence: 0.2, Key: 2, Mode: analysis.Minor},
	}

	reading, err := newTestService(narrator).ReadTrack(context.Background(), src, "t1")
	if err != nil {
		t.Fatalf("ReadTrack() error = %v", err)
	}

	if reading.Title != analysis.ReadingTitle(analysis.FixedChooser(0)) {
		t.Errorf("Title = %q", reading.Title)
	}
	if reading.Reading.Tempo != 77 {
		t.Errorf("Tempo = %d, want 77", reading.Reading.Tempo)
	}
	if reading.Reading.Suit.Element != analysis.Earth {
		t.Errorf("Suit = %+v, want Earth", reading.Reading.Suit)
	}
	if reading.Reading.Chakra.Note != "D" {
		t.Errorf("Chakra = %+v, want D", reading.Reading.Chakra)
	}
	if narrator.trackCalls != 1 || reading.Narrative.Interpretation == "" {
		t.Errorf("Narrative = %+v after %d calls", reading.Narrative, narrator.trackCalls)
	}
}

func TestReadTrack_NoFeatures(t *testing.T) {
	src := &fakeSource{trackErr: fmt.Errorf("track t9: %w", spotify.ErrNoFeatures)}

	_, err := newTestService(&fakeNarrator{}).ReadTrack(context.Background(), src, "t9")
	if !errors.Is(err, spotify.ErrNoFeatures) {
		t.Errorf("ReadTrack() error = %v, want ErrNoFeatures", err)
	}
}
