package spotify

import (
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

// newTestClient returns a Client talking to an httptest server.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(spotify.New(srv.Client(), spotify.WithBaseURL(srv.URL+"/")))
}

func TestConvertTrack(t *testing.T) {
	tests := []struct {
		name        string
		track       spotify.FullTrack
		wantID      string
		wantName    string
		wantArtists []string
		wantAlbum   string
		wantImage   string
	}{
		{
			name: "single artist with cover",
			track: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:      "track123",
					Name:    "Test Song",
					Artists: []spotify.SimpleArtist{{Name: "Artist One"}},
				},
				Album: spotify.SimpleAlbum{
					Name:   "Test Album",
					Images: []spotify.Image{{URL: "https://i.scdn.co/large"}, {URL: "https://i.scdn.co/small"}},
				},
			},
			wantID:      "track123",
			wantName:    "Test Song",
			wantArtists: []string{"Artist One"},
			wantAlbum:   "Test Album",
			wantImage:   "https://i.scdn.co/large",
		},
		{
			name: "multiple artists without cover",
			track: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{
					ID:   "track456",
					Name: "Collab Track",
					Artists: []spotify.SimpleArtist{
						{Name: "Artist A"},
						{Name: "Artist B"},
					},
				},
			},
			wantID:      "track456",
			wantName:    "Collab Track",
			wantArtists: []string{"Artist A", "Artist B"},
		},
		{
			name: "no artists",
			track: spotify.FullTrack{
				SimpleTrack: spotify.SimpleTrack{ID: "track000", Name: "Unknown Track"},
			},
			wantID:      "track000",
			wantName:    "Unknown Track",
			wantArtists: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := convertTrack(tt.track)

			if got.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", got.ID, tt.wantID)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if !slices.Equal(got.Artists, tt.wantArtists) {
				t.Errorf("Artists = %v, want %v", got.Artists, tt.wantArtists)
			}
			if got.Album != tt.wantAlbum {
				t.Errorf("Album = %q, want %q", got.Album, tt.wantAlbum)
			}
			if got.ImageURL != tt.wantImage {
				t.Errorf("ImageURL = %q, want %q", got.ImageURL, tt.wantImage)
			}
		})
	}
}

func TestConvertArtist(t *testing.T) {
	a := spotify.FullArtist{
		SimpleArtist: spotify.SimpleArtist{ID: "artist1", Name: "Band"},
		Genres:       []string{"shoegaze", "dream pop"},
	}

	got := convertArtist(a)
	if got.ID != "artist1" || got.Name != "Band" {
		t.Errorf("convertArtist() = %+v", got)
	}
	if !slices.Equal(got.Genres, a.Genres) {
		t.Errorf("Genres = %v, want %v", got.Genres, a.Genres)
	}

	got.Genres[0] = "changed"
	if a.Genres[0] != "shoegaze" {
		t.Error("convertArtist should copy the genre slice")
	}
}

func TestSearchTracks(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if !strings.HasSuffix(r.URL.Path, "/search") {
			t.Errorf("path = %s, want /search", r.URL.Path)
		}
		if got := r.URL.Query().Get("q"); got != "bohemian" {
			t.Errorf("q = %q, want bohemian", got)
		}
		if got := r.URL.Query().Get("limit"); got != "5" {
			t.Errorf("limit = %q, want 5", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"tracks":{"items":[
			{"id":"t1","name":"Bohemian Rhapsody","artists":[{"name":"Queen"}],
			 "album":{"name":"A Night at the Opera","images":[{"url":"https://img/1"}]}}
		]}}`))
	})

	tracks, err := c.SearchTracks(context.Background(), "bohemian", 0)
	if err != nil {
		t.Fatalf("SearchTracks() error = %v", err)
	}
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if tracks[0].Name != "Bohemian Rhapsody" || tracks[0].Album != "A Night at the Opera" {
		t.Errorf("track = %+v", tracks[0])
	}

	// Short queries never reach the API
	tracks, err = c.SearchTracks(context.Background(), "b", 5)
	if err != nil || tracks != nil {
		t.Errorf("SearchTracks(short) = %v, %v; want nil, nil", tracks, err)
	}
	if calls.Load() != 1 {
		t.Errorf("API called %d times, want 1", calls.Load())
	}
}

func TestAudioFeatures_IndexAligned(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/audio-features") {
			t.Errorf("path = %s, want /audio-features", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		// Spotify returns null for tracks without analysis
		w.Write([]byte(`{"audio_features":[
			{"id":"a","tempo":120.5,"energy":0.8,"valence":0.6,"key":9,"mode":1,"loudness":-5.5},
			null,
			{"id":"c","tempo":90,"energy":0.2,"valence":0.1,"key":2,"mode":0}
		]}`))
	})

	got, err := c.AudioFeatures(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("AudioFeatures() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d entries, want 3", len(got))
	}
	if got[0] == nil || got[0].Key != 9 || got[0].Mode != 1 || got[0].Tempo != 120.5 {
		t.Errorf("got[0] = %+v", got[0])
	}
	if got[1] != nil {
		t.Errorf("got[1] = %+v, want nil", got[1])
	}
	if got[2] == nil || got[2].Key != 2 {
		t.Errorf("got[2] = %+v", got[2])
	}
}

func TestAudioFeatures_Empty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("API should not be called for empty input")
	})

	got, err := c.AudioFeatures(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("AudioFeatures(nil) = %v, %v", got, err)
	}
}

func TestConvertFeatures(t *testing.T) {
	f := &spotify.AudioFeatures{
		Acousticness:     0.5,
		Danceability:     0.75,
		Energy:           0.25,
		Instrumentalness: 0.125,
		Liveness:         0.0625,
		Loudness:         -5.5,
		Speechiness:      0.03125,
		Tempo:            120,
		Valence:          0.375,
		Key:              11,
		Mode:             1,
	}

	got := convertFeatures(f)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"Acousticness", got.Acousticness, 0.5},
		{"Danceability", got.Danceability, 0.75},
		{"Energy", got.Energy, 0.25},
		{"Instrumentalness", got.Instrumentalness, 0.125},
		{"Liveness", got.Liveness, 0.0625},
		{"Loudness", got.Loudness, -5.5},
		{"Speechiness", got.Speechiness, 0.03125},
		{"Tempo", got.Tempo, 120},
		{"Valence", got.Valence, 0.375},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}

	if got.Key != 11 || got.Mode != 1 {
		t.Errorf("Key/Mode = %d/%d, want 11/1", got.Key, got.Mode)
	}
}

func TestConvertFeatures_DecimalValues(t *testing.T) {
	f := &spotify.AudioFeatures{
		Energy:       0.7,
		Valence:      0.6,
		Danceability: 0.4,
		Acousticness: 0.123,
		Tempo:        128.007,
		Loudness:     -7.3,
	}

	got := convertFeatures(f)

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"Energy", got.Energy, 0.7},
		{"Valence", got.Valence, 0.6},
		{"Danceability", got.Danceability, 0.4},
		{"Acousticness", got.Acousticness, 0.123},
		{"Tempo", got.Tempo, 128.007},
		{"Loudness", got.Loudness, -7.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want exactly %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestAudioFeatures_ThresholdCards(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCard string
	}{
		{
			name:     "sun at the 0.7 boundary",
			body:     `{"audio_features":[{"id":"a","tempo":130,"energy":0.7,"valence":0.7,"key":0,"mode":1}]}`,
			wantCard: "El Sol",
		},
		{
			name:     "tower at the 0.7 boundary",
			body:     `{"audio_features":[{"id":"a","tempo":130,"energy":0.7,"valence":0.3,"key":0,"mode":1}]}`,
			wantCard: "La Torre",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			})

			got, err := c.AudioFeatures(context.Background(), []string{"a"})
			if err != nil {
				t.Fatalf("AudioFeatures() error = %v", err)
			}
			f := got[0]
			card := analysis.TarotCard(f.Energy, f.Valence, f.Tempo)
			if card.Name != tt.wantCard {
				t.Errorf("TarotCard(%v, %v, %v) = %s, want %s", f.Energy, f.Valence, f.Tempo, card.Name, tt.wantCard)
			}
		})
	}
}

func TestAudioFeaturesBatchCount(t *testing.T) {
	tests := []struct {
		name          string
		totalTracks   int
		expectedCalls int
	}{
		{"empty", 0, 0},
		{"single track", 1, 1},
		{"exactly 100", 100, 1},
		{"101 tracks", 101, 2},
		{"250 tracks", 250, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			for i := 0; i < tt.totalTracks; i += maxTracksPerRequest {
				calls++
			}
			if calls != tt.expectedCalls {
				t.Errorf("got %d API calls, want %d", calls, tt.expectedCalls)
			}
		})
	}
}
