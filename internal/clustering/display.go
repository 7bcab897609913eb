package clustering

import (
	"fmt"
	"strings"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

const sampleTrackCount = 3

// FormatSummary returns a human-readable summary of constellations.
// Shows track count and first 3 sample tracks for each constellation.
// Outliers are summarized by count only.
func FormatSummary(constellations []Constellation, outliers []analysis.Track) string {
	var sb strings.Builder

	totalTracks := len(outliers)
	for _, c := range constellations {
		totalTracks += len(c.Members)
	}

	if len(constellations) == 0 {
		sb.WriteString(fmt.Sprintf("No constellations found from %d tracks", totalTracks))
		if len(outliers) > 0 {
			sb.WriteString(fmt.Sprintf(" (%d outliers skipped)", len(outliers)))
		}
		sb.WriteString("\n")
		return sb.String()
	}

	word := "constellation"
	if len(constellations) > 1 {
		word = "constellations"
	}

	sb.WriteString(fmt.Sprintf("Found %d %s from %d tracks", len(constellations), word, totalTracks))
	if len(outliers) > 0 {
		sb.WriteString(fmt.Sprintf(" (%d outliers skipped)", len(outliers)))
	}
	sb.WriteString("\n")

	for i, c := range constellations {
		sb.WriteString("\n")
		sb.WriteString(formatConstellation(i+1, c))
	}

	return sb.String()
}

// formatConstellation formats a single constellation with its sample tracks.
func formatConstellation(num int, c Constellation) string {
	var sb strings.Builder

	trackWord := "track"
	if len(c.Members) > 1 {
		trackWord = "tracks"
	}

	sb.WriteString(fmt.Sprintf("%d. %s %s (%d %s)\n", num, c.Archetype.Icon, c.Name, len(c.Members), trackWord))

	sampleCount := min(sampleTrackCount, len(c.Members))
	for i := 0; i < sampleCount; i++ {
		t := c.Members[i].Track
		sb.WriteString(fmt.Sprintf("  • \"%s\" - %s\n", t.Name, strings.Join(t.Artists, ", ")))
	}

	remaining := len(c.Members) - sampleTrackCount
	if remaining > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", remaining))
	}

	return sb.String()
}
