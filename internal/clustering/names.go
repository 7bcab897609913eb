package clustering

import "github.com/justestif/go-music-oracle/internal/analysis"

const acousticThreshold = 0.6

// constellationName names a cluster after its elemental archetype.
// Acousticness modifier: if > 0.6, appends "(Acústico)" to the name.
func constellationName(a analysis.Archetype, c Centroid) string {
	if c.Acousticness > acousticThreshold {
		return a.Name + " (Acústico)"
	}
	return a.Name
}

// Mood describes a constellation for display purposes.
type Mood struct {
	Name        string
	Icon        string
	Energy      int // percent
	Valence     int // percent
	Description string
}

// MoodOf returns the display mood of a constellation.
func MoodOf(c Constellation) Mood {
	return Mood{
		Name:        c.Name,
		Icon:        c.Archetype.Icon,
		Energy:      analysis.Percent(c.Centroid.Energy),
		Valence:     analysis.Percent(c.Centroid.Valence),
		Description: c.Archetype.Description,
	}
}
