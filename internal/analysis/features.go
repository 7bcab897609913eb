// Package analysis derives archetypes, tarot cards, chakras, numerology and
// estimated frequencies from Spotify audio features.
//
// Every function in this package is pure: identical inputs always produce
// identical outputs, including the order-dependent tie-breaks.
package analysis

import (
	"errors"
	"math"
)

// ErrEmptyInput is returned when no usable audio features remain after
// dropping tracks without features.
var ErrEmptyInput = errors.New("no audio features to analyze")

// PitchClass is a note irrespective of octave, 0 (C) through 11 (B).
type PitchClass int

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// index returns the table position for the pitch class. Values outside
// 0-11 wrap, so Spotify's -1 (no key detected) reads as B.
func (p PitchClass) index() int {
	i := int(p) % 12
	if i < 0 {
		i += 12
	}
	return i
}

// Name returns the note name, e.g. "C#".
func (p PitchClass) Name() string {
	return pitchNames[p.index()]
}

// Mode is the tonal quality of a key.
type Mode int

const (
	Minor Mode = 0
	Major Mode = 1
)

func (m Mode) String() string {
	if m == Major {
		return "Major"
	}
	return "Minor"
}

// AudioFeatures is the audio analysis of a single track.
type AudioFeatures struct {
	Tempo            float64 // BPM
	Energy           float64
	Valence          float64
	Danceability     float64
	Acousticness     float64
	Instrumentalness float64
	Speechiness      float64
	Liveness         float64
	Loudness         float64 // dB
	Key              PitchClass
	Mode             Mode
}

// AggregateFeatures holds the arithmetic mean of each numeric feature.
// Values are kept at full precision; use Rounded for display.
type AggregateFeatures struct {
	Tempo            float64
	Energy           float64
	Valence          float64
	Danceability     float64
	Acousticness     float64
	Instrumentalness float64
	Speechiness      float64
	Liveness         float64
	Loudness         float64
	Count            int // number of vectors averaged
}

// Aggregate averages the non-nil feature vectors.
// Returns ErrEmptyInput if every entry is nil.
func Aggregate(vectors []*AudioFeatures) (AggregateFeatures, error) {
	var sum AggregateFeatures
	for _, f := range vectors {
		if f == nil {
			continue
		}
		sum.Tempo += f.Tempo
		sum.Energy += f.Energy
		sum.Valence += f.Valence
		sum.Danceability += f.Danceability
		sum.Acousticness += f.Acousticness
		sum.Instrumentalness += f.Instrumentalness
		sum.Speechiness += f.Speechiness
		sum.Liveness += f.Liveness
		sum.Loudness += f.Loudness
		sum.Count++
	}

	if sum.Count == 0 {
		return AggregateFeatures{}, ErrEmptyInput
	}

	n := float64(sum.Count)
	return AggregateFeatures{
		Tempo:            sum.Tempo / n,
		Energy:           sum.Energy / n,
		Valence:          sum.Valence / n,
		Danceability:     sum.Danceability / n,
		Acousticness:     sum.Acousticness / n,
		Instrumentalness: sum.Instrumentalness / n,
		Speechiness:      sum.Speechiness / n,
		Liveness:         sum.Liveness / n,
		Loudness:         sum.Loudness / n,
		Count:            sum.Count,
	}, nil
}

// Rounded returns a display copy: tempo to a whole BPM, loudness to one
// decimal and the 0-1 features to two decimals.
func (a AggregateFeatures) Rounded() AggregateFeatures {
	return AggregateFeatures{
		Tempo:            math.Round(a.Tempo),
		Energy:           roundTo(a.Energy, 2),
		Valence:          roundTo(a.Valence, 2),
		Danceability:     roundTo(a.Danceability, 2),
		Acousticness:     roundTo(a.Acousticness, 2),
		Instrumentalness: roundTo(a.Instrumentalness, 2),
		Speechiness:      roundTo(a.Speechiness, 2),
		Liveness:         roundTo(a.Liveness, 2),
		Loudness:         roundTo(a.Loudness, 1),
		Count:            a.Count,
	}
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// KeySignature is a pitch class together with its mode.
type KeySignature struct {
	Key  PitchClass
	Mode Mode
}

// String returns the full key name, e.g. "A Minor".
func (k KeySignature) String() string {
	return k.Key.Name() + " " + k.Mode.String()
}

// DominantKey returns the most frequent key among the non-nil vectors.
// Ties go to the key encountered first. The mode is Major only when
// strictly more than half of the winning key's tracks are in a major mode.
// With no vectors the result is C Minor.
func DominantKey(vectors []*AudioFeatures) KeySignature {
	counts := make(map[PitchClass]int)
	majors := make(map[PitchClass]int)
	var order []PitchClass

	for _, f := range vectors {
		if f == nil {
			continue
		}
		if _, seen := counts[f.Key]; !seen {
			order = append(order, f.Key)
		}
		counts[f.Key]++
		if f.Mode == Major {
			majors[f.Key]++
		}
	}

	if len(order) == 0 {
		return KeySignature{Key: 0, Mode: Minor}
	}

	best := order[0]
	for _, k := range order[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}

	mode := Minor
	if 2*majors[best] > counts[best] {
		mode = Major
	}
	return KeySignature{Key: best, Mode: mode}
}
