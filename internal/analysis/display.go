package analysis

import (
	"fmt"
	"strings"
)

const sampleTrackCount = 3

// FormatProfileSummary returns a human-readable summary of a profile and its
// estimated frequency. Shows the archetype, key, averages and the first
// 3 top tracks.
func FormatProfileSummary(p Profile, f FrequencyEstimate) string {
	var sb strings.Builder

	r := p.Features.Rounded()

	sb.WriteString(fmt.Sprintf("%s %s: %s\n", p.Archetype.Icon, p.Archetype.Name, p.Archetype.Description))
	sb.WriteString(fmt.Sprintf("Key: %s | Tempo: %.0f BPM | Loudness: %.1f dB\n", p.Key, r.Tempo, r.Loudness))
	sb.WriteString(fmt.Sprintf("Energy %d%% | Valence %d%% | Danceability %d%% | Acousticness %d%%\n",
		Percent(r.Energy), Percent(r.Valence), Percent(r.Danceability), Percent(r.Acousticness)))
	sb.WriteString(fmt.Sprintf("Frequency: %d Hz (nearest %d Hz, %d away)\n", f.Estimated, f.Nearest.Hz, f.Distance))

	if len(p.TopGenres) > 0 {
		sb.WriteString(fmt.Sprintf("Genres: %s\n", strings.Join(p.TopGenres, ", ")))
	}

	sampleCount := min(sampleTrackCount, len(p.TopTracks))
	for i := 0; i < sampleCount; i++ {
		t := p.TopTracks[i]
		sb.WriteString(fmt.Sprintf("  • \"%s\" - %s\n", t.Name, strings.Join(t.Artists, ", ")))
	}

	remaining := len(p.TopTracks) - sampleTrackCount
	if remaining > 0 {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", remaining))
	}

	return sb.String()
}
