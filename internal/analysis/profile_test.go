package analysis

import (
	"errors"
	"fmt"
	"slices"
	"testing"
)

func makeTracks(n int) []Track {
	tracks := make([]Track, n)
	for i := range tracks {
		tracks[i] = Track{
			ID:      fmt.Sprintf("track%d", i),
			Name:    fmt.Sprintf("Song %d", i),
			Artists: []string{"Artist"},
		}
	}
	return tracks
}

func TestBuildProfile(t *testing.T) {
	tracks := makeTracks(12)
	features := make([]*AudioFeatures, len(tracks))
	for i := range features {
		if i%3 == 0 {
			continue // no features for every third track
		}
		features[i] = &AudioFeatures{Tempo: 128, Energy: 0.8, Valence: 0.3, Key: 2, Mode: Major}
	}

	artists := []Artist{
		{ID: "a1", Name: "One", Genres: []string{"techno", "house"}},
		{ID: "a2", Name: "Two", Genres: []string{"house"}},
		{ID: "a3", Name: "Three", Genres: []string{"techno", "ambient"}},
		{ID: "a4", Name: "Four"},
		{ID: "a5", Name: "Five", Genres: []string{"ambient", "idm"}},
		{ID: "a6", Name: "Six", Genres: []string{"idm"}},
		{ID: "a7", Name: "Seven"},
	}

	p, err := BuildProfile(tracks, features, artists)
	if err != nil {
		t.Fatalf("BuildProfile() error = %v", err)
	}

	if p.Features.Count != 8 {
		t.Errorf("Features.Count = %d, want 8", p.Features.Count)
	}
	if p.Key != (KeySignature{Key: 2, Mode: Major}) {
		t.Errorf("Key = %v, want D Major", p.Key)
	}
	if p.Archetype.Element != Air {
		t.Errorf("Archetype = %v, want Air", p.Archetype.Element)
	}
	if len(p.TopTracks) != 10 {
		t.Errorf("len(TopTracks) = %d, want 10", len(p.TopTracks))
	}
	if len(p.TopArtists) != 5 {
		t.Errorf("len(TopArtists) = %d, want 5", len(p.TopArtists))
	}

	wantGenres := []string{"techno", "house", "ambient"}
	if !slices.Equal(p.TopGenres, wantGenres) {
		t.Errorf("TopGenres = %v, want %v", p.TopGenres, wantGenres)
	}
}

func TestBuildProfile_ArchetypeUsesUnroundedMean(t *testing.T) {
	features := []*AudioFeatures{{Energy: 0.4996, Valence: 0.8}}

	p, err := BuildProfile(makeTracks(1), features, nil)
	if err != nil {
		t.Fatalf("BuildProfile() error = %v", err)
	}

	if p.Features.Rounded().Energy != 0.5 {
		t.Fatalf("rounded energy = %v, want 0.5", p.Features.Rounded().Energy)
	}
	if p.Archetype.Element != Water {
		t.Errorf("Archetype = %v, want Water", p.Archetype.Element)
	}
}

func TestBuildProfile_Incomplete(t *testing.T) {
	tracks := makeTracks(3)
	features := []*AudioFeatures{nil, nil, nil}

	_, err := BuildProfile(tracks, features, nil)
	if err == nil {
		t.Fatal("BuildProfile() expected error")
	}

	var incomplete *IncompleteProfileError
	if !errors.As(err, &incomplete) {
		t.Fatalf("error = %T, want *IncompleteProfileError", err)
	}
	if incomplete.Tracks != 3 {
		t.Errorf("Tracks = %d, want 3", incomplete.Tracks)
	}
	if !errors.Is(err, ErrEmptyInput) {
		t.Error("errors.Is(err, ErrEmptyInput) = false")
	}
}

func TestBuildProfile_DoesNotAliasInput(t *testing.T) {
	tracks := makeTracks(2)
	features := []*AudioFeatures{{Energy: 0.5}, {Energy: 0.5}}

	p, err := BuildProfile(tracks, features, nil)
	if err != nil {
		t.Fatalf("BuildProfile() error = %v", err)
	}

	tracks[0].Name = "changed"
	if p.TopTracks[0].Name != "Song 0" {
		t.Errorf("TopTracks[0].Name = %q, profile aliases caller slice", p.TopTracks[0].Name)
	}
}

func TestTopGenres(t *testing.T) {
	tests := []struct {
		name    string
		artists []Artist
		limit   int
		want    []string
	}{
		{
			name: "descending count",
			artists: []Artist{
				{Genres: []string{"jazz"}},
				{Genres: []string{"pop", "rock"}},
				{Genres: []string{"rock", "pop"}},
				{Genres: []string{"rock"}},
			},
			limit: 3,
			want:  []string{"rock", "pop", "jazz"},
		},
		{
			name: "ties keep first seen order",
			artists: []Artist{
				{Genres: []string{"indie", "folk"}},
				{Genres: []string{"dream pop"}},
				{Genres: []string{"folk", "indie"}},
			},
			limit: 3,
			want:  []string{"indie", "folk", "dream pop"},
		},
		{
			name: "later genre with higher count moves ahead",
			artists: []Artist{
				{Genres: []string{"a"}},
				{Genres: []string{"b"}},
				{Genres: []string{"b"}},
			},
			limit: 1,
			want:  []string{"b"},
		},
		{
			name:    "no genres",
			artists: []Artist{{Name: "x"}},
			limit:   3,
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := TopGenres(tt.artists, tt.limit)
			if !slices.Equal(got, tt.want) {
				t.Errorf("TopGenres() = %v, want %v", got, tt.want)
			}
		})
	}
}
