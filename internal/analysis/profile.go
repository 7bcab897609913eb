package analysis

import (
	"fmt"
	"slices"
)

const (
	profileTrackLimit  = 10
	profileArtistLimit = 5
	profileGenreLimit  = 3
)

// Track is the metadata of a song used in a reading.
type Track struct {
	ID       string
	Name     string
	Artists  []string
	Album    string
	ImageURL string
}

// Artist is a performer with its genre tags.
type Artist struct {
	ID     string
	Name   string
	Genres []string
}

// Profile is the listener analysis handed to narrative generation and rendering.
type Profile struct {
	Features   AggregateFeatures // full precision
	Key        KeySignature
	Archetype  Archetype
	TopGenres  []string
	TopTracks  []Track
	TopArtists []Artist
}

// IncompleteProfileError reports that a profile could not be assembled.
type IncompleteProfileError struct {
	Tracks int // tracks supplied
	Err    error
}

func (e *IncompleteProfileError) Error() string {
	return fmt.Sprintf("incomplete profile from %d tracks: %v", e.Tracks, e.Err)
}

func (e *IncompleteProfileError) Unwrap() error {
	return e.Err
}

// BuildProfile assembles a listener profile. features must be index-aligned
// with tracks; nil entries mark tracks without audio features.
// Returns *IncompleteProfileError wrapping ErrEmptyInput when no track has features.
func BuildProfile(tracks []Track, features []*AudioFeatures, artists []Artist) (Profile, error) {
	agg, err := Aggregate(features)
	if err != nil {
		return Profile{}, &IncompleteProfileError{Tracks: len(tracks), Err: err}
	}

	return Profile{
		Features:   agg,
		Key:        DominantKey(features),
		Archetype:  ArchetypeFor(agg.Energy, agg.Valence),
		TopGenres:  TopGenres(artists, profileGenreLimit),
		TopTracks:  slices.Clone(tracks[:min(len(tracks), profileTrackLimit)]),
		TopArtists: slices.Clone(artists[:min(len(artists), profileArtistLimit)]),
	}, nil
}

// TopGenres returns up to limit genres ordered by how many artists carry them.
// Genres with equal counts keep the order in which they were first seen.
func TopGenres(artists []Artist, limit int) []string {
	counts := make(map[string]int)
	var order []string
	for _, a := range artists {
		for _, g := range a.Genres {
			if _, seen := counts[g]; !seen {
				order = append(order, g)
			}
			counts[g]++
		}
	}

	slices.SortStableFunc(order, func(a, b string) int {
		return counts[b] - counts[a]
	})

	if limit < 0 {
		limit = 0
	}
	return order[:min(len(order), limit)]
}
