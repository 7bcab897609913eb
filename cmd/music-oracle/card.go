package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/justestif/go-music-oracle/internal/analysis"
	"github.com/justestif/go-music-oracle/internal/clustering"
	"github.com/justestif/go-music-oracle/internal/readings"
)

const cardWidth = 72

var (
	titleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7B801")).Bold(true)
	metaStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A0AEC0")).Width(14)
	adviceStyle = lipgloss.NewStyle().Italic(true)
	tagStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#5B8DEF"))
	offlineNote = metaStyle.Render("(oráculo sin conexión)")
)

var elementColors = map[analysis.Element]lipgloss.Color{
	analysis.Fire:  lipgloss.Color("#FF6B6B"),
	analysis.Water: lipgloss.Color("#5B8DEF"),
	analysis.Air:   lipgloss.Color("#CCCCCC"),
	analysis.Earth: lipgloss.Color("#4CAF50"),
}

func cardStyle(e analysis.Element) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(elementColors[e]).
		Padding(1, 2).
		Width(cardWidth)
}

// renderProfileCard formats a profile reading for the terminal.
func renderProfileCard(r *readings.ProfileReading) string {
	meta := fmt.Sprintf("%s · %s", r.User.DisplayName, r.CreatedAt.Format("2 Jan 2006, 15:04"))
	if r.Narrative.Fallback {
		meta += " " + offlineNote
	}

	sections := []string{
		titleStyle.Render(r.Narrative.Title),
		metaStyle.Render(meta),
		"",
		strings.TrimRight(analysis.FormatProfileSummary(r.Profile, r.Frequency), "\n"),
		"",
		r.Frequency.Interpretation,
		"",
		r.Narrative.Interpretation,
		adviceStyle.Render(r.Narrative.Advice),
		tagStyle.Render(strings.Join(r.Narrative.VibeTags, " ")),
	}

	if len(r.Constellations) > 0 {
		sections = append(sections, "", strings.TrimRight(clustering.FormatSummary(r.Constellations, r.Outliers), "\n"))
	}

	return cardStyle(r.Profile.Archetype.Element).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

// renderTrackCard formats a single-track reading for the terminal.
func renderTrackCard(r *readings.TrackReading) string {
	tr := r.Reading
	meta := fmt.Sprintf("%s · %s", tr.Track.Name, strings.Join(tr.Track.Artists, ", "))
	if r.Narrative.Fallback {
		meta += " " + offlineNote
	}

	row := func(label, value string) string {
		return lipgloss.JoinHorizontal(lipgloss.Top, labelStyle.Render(label), value)
	}

	sections := []string{
		titleStyle.Render(r.Title),
		metaStyle.Render(meta),
		"",
		row("Carta", fmt.Sprintf("%s: %s", tr.Card.Name, tr.Card.Meaning)),
		row("Tempo", fmt.Sprintf("%d BPM · %s", tr.Tempo, tr.Suit.Suit)),
		row("Tonalidad", fmt.Sprintf("%s · %s", tr.Key, tr.ModeText)),
		row("Chakra", fmt.Sprintf("%s · %s · %d Hz", tr.Chakra.Name, tr.Chakra.Color, tr.Chakra.Frequency)),
		row("Numerología", fmt.Sprintf("%d · %s", tr.Numerology.Number, tr.Numerology.Meaning)),
		row("Energía", fmt.Sprintf("%d%% · positividad %d%%", tr.Energy, tr.Valence)),
		"",
		tr.Message,
		"",
		r.Narrative.Interpretation,
		adviceStyle.Render(r.Narrative.Advice),
		tagStyle.Render(strings.Join(r.Narrative.VibeTags, " ")),
	}

	return cardStyle(tr.Suit.Element).Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}
