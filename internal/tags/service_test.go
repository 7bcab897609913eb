package tags

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/justestif/go-music-oracle/internal/analysis"
	"github.com/justestif/go-music-oracle/internal/lastfm"
)

// mockFetcher implements TagFetcher for testing.
type mockFetcher struct {
	// tags maps artist name to tags
	tags map[string][]lastfm.Tag
	// errors maps artist name to errors
	errors map[string]error
	// callCount tracks number of ArtistTags calls
	callCount atomic.Int32
	// delay simulates network latency
	delay time.Duration

	mu     sync.Mutex
	called []string
}

func newMockFetcher() *mockFetcher {
	return &mockFetcher{
		tags:   make(map[string][]lastfm.Tag),
		errors: make(map[string]error),
	}
}

func (m *mockFetcher) ArtistTags(ctx context.Context, artist string) ([]lastfm.Tag, error) {
	m.callCount.Add(1)
	m.mu.Lock()
	m.called = append(m.called, artist)
	m.mu.Unlock()

	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if err, ok := m.errors[artist]; ok {
		return nil, err
	}
	if tags, ok := m.tags[artist]; ok {
		return tags, nil
	}
	return []lastfm.Tag{}, nil
}

func TestEnrichGenres_Empty(t *testing.T) {
	svc := NewService(newMockFetcher())

	out, err := svc.EnrichGenres(context.Background(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 0 {
		t.Errorf("expected empty result, got %d", len(out))
	}
}

func TestEnrichGenres_FillsMissingGenres(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.tags["Boards of Canada"] = []lastfm.Tag{
		{Name: "Electronic", Count: 100},
		{Name: "IDM", Count: 90},
		{Name: "electronic", Count: 60},
		{Name: "ambient", Count: 55},
		{Name: "downtempo", Count: 40},
	}

	artists := []analysis.Artist{
		{ID: "1", Name: "Radiohead", Genres: []string{"art rock"}},
		{ID: "2", Name: "Boards of Canada"},
		{ID: "3", Name: "Nobody Knows"},
	}

	out, err := NewService(fetcher).EnrichGenres(context.Background(), artists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out) != 3 {
		t.Fatalf("expected 3 artists, got %d", len(out))
	}
	if !slices.Equal(out[0].Genres, []string{"art rock"}) {
		t.Errorf("existing genres changed: %v", out[0].Genres)
	}
	want := []string{"electronic", "idm", "ambient"}
	if !slices.Equal(out[1].Genres, want) {
		t.Errorf("Genres = %v, want %v", out[1].Genres, want)
	}
	if len(out[2].Genres) != 0 {
		t.Errorf("artist without tags got genres %v", out[2].Genres)
	}

	// Artists with Spotify genres are never looked up
	if slices.Contains(fetcher.called, "Radiohead") {
		t.Error("Radiohead should not have been looked up")
	}
	if fetcher.callCount.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", fetcher.callCount.Load())
	}

	// Input is not modified
	if artists[1].Genres != nil {
		t.Error("EnrichGenres modified its input")
	}
}

func TestEnrichGenres_IndividualErrors(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.tags["Good"] = []lastfm.Tag{{Name: "jazz"}}
	fetcher.errors["Bad"] = lastfm.ErrArtistNotFound

	artists := []analysis.Artist{{Name: "Bad"}, {Name: "Good"}}

	out, err := NewService(fetcher).EnrichGenres(context.Background(), artists)
	if err != nil {
		t.Fatalf("individual failures should not fail the batch: %v", err)
	}
	if len(out[0].Genres) != 0 {
		t.Errorf("failed artist got genres %v", out[0].Genres)
	}
	if !slices.Equal(out[1].Genres, []string{"jazz"}) {
		t.Errorf("Genres = %v, want [jazz]", out[1].Genres)
	}
}

func TestEnrichGenres_ContextCancellation(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.delay = 100 * time.Millisecond

	artists := make([]analysis.Artist, 10)
	for i := range artists {
		artists[i] = analysis.Artist{Name: "Artist"}
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	out, err := NewService(fetcher, WithConcurrency(2)).EnrichGenres(ctx, artists)

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled error, got %v", err)
	}
	if len(out) != 10 {
		t.Errorf("expected 10 artists, got %d", len(out))
	}
}

func TestEnrichGenres_Concurrency(t *testing.T) {
	fetcher := newMockFetcher()
	fetcher.delay = 10 * time.Millisecond

	artists := make([]analysis.Artist, 20)
	for i := range artists {
		artists[i] = analysis.Artist{Name: "Artist"}
	}

	start := time.Now()
	_, err := NewService(fetcher, WithConcurrency(10)).EnrichGenres(context.Background(), artists)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed := time.Since(start)

	// 20 lookups at 10ms with 10 workers is about 20ms; sequential is 200ms
	if elapsed > 150*time.Millisecond {
		t.Errorf("expected concurrent execution, took %v", elapsed)
	}
	if fetcher.callCount.Load() != 20 {
		t.Errorf("expected 20 calls, got %d", fetcher.callCount.Load())
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name            string
		opts            []Option
		wantConcurrency int
		wantMaxGenres   int
	}{
		{"defaults", nil, DefaultConcurrency, DefaultMaxGenres},
		{"custom", []Option{WithConcurrency(3), WithMaxGenres(5)}, 3, 5},
		{"non-positive ignored", []Option{WithConcurrency(0), WithMaxGenres(-1)}, DefaultConcurrency, DefaultMaxGenres},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(newMockFetcher(), tt.opts...)
			if svc.concurrency != tt.wantConcurrency {
				t.Errorf("concurrency = %d, want %d", svc.concurrency, tt.wantConcurrency)
			}
			if svc.maxGenres != tt.wantMaxGenres {
				t.Errorf("maxGenres = %d, want %d", svc.maxGenres, tt.wantMaxGenres)
			}
		})
	}
}
