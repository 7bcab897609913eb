package oracle

import (
	"fmt"
	"strings"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

const profileSystemPrompt = "Eres un oráculo místico-científico que interpreta preferencias musicales. " +
	"Combinas datos técnicos con sabiduría espiritual en un estilo poético pero fundamentado."

// ProfilePrompt renders the user prompt for a profile reading.
func ProfilePrompt(p analysis.Profile, f analysis.FrequencyEstimate) string {
	avg := p.Features.Rounded()

	var b strings.Builder
	b.WriteString("Eres un oráculo místico-científico. Analiza este perfil musical y genera una lectura profunda.\n\n")
	b.WriteString("DATOS TÉCNICOS:\n━━━━━━━━━━━━━━━\n")

	b.WriteString("🎵 TOP 10 CANCIONES:\n")
	for i, t := range p.TopTracks {
		fmt.Fprintf(&b, "%d. %q - %s\n", i+1, t.Name, firstArtist(t))
	}

	b.WriteString("\n👤 TOP 5 ARTISTAS:\n")
	for i, a := range p.TopArtists {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a.Name)
	}

	b.WriteString("\n📊 CARACTERÍSTICAS PROMEDIO:\n")
	fmt.Fprintf(&b, "• Tempo: %.0f BPM\n", avg.Tempo)
	fmt.Fprintf(&b, "• Energía: %d%%\n", analysis.Percent(p.Features.Energy))
	fmt.Fprintf(&b, "• Valencia (Positividad): %d%%\n", analysis.Percent(p.Features.Valence))
	fmt.Fprintf(&b, "• Bailabilidad: %d%%\n", analysis.Percent(p.Features.Danceability))
	fmt.Fprintf(&b, "• Acústico: %d%%\n", analysis.Percent(p.Features.Acousticness))
	fmt.Fprintf(&b, "• Instrumental: %d%%\n", analysis.Percent(p.Features.Instrumentalness))

	fmt.Fprintf(&b, "\n🎹 TONALIDAD DOMINANTE: %s\n", p.Key)
	fmt.Fprintf(&b, "🌟 ELEMENTO: %s %s\n", p.Archetype.Name, p.Archetype.Icon)
	fmt.Fprintf(&b, "🎭 GÉNEROS: %s\n", strings.Join(p.TopGenres, ", "))
	fmt.Fprintf(&b, "📡 FRECUENCIA DEL ALMA: %d Hz\n   %s\n\n", f.Nearest.Hz, f.Nearest.Meaning)

	b.WriteString(`GENERA (formato JSON):
{
  "title": "Título místico del perfil (3-5 palabras, ej: 'El Arquitecto de Frecuencias Bajas')",
  "interpretation": "Interpretación profunda de 120-150 palabras explicando POR QUÉ estas canciones resuenan con esta persona. Conecta los datos técnicos con arquetipos, emociones y búsquedas existenciales. Usa metáforas poéticas pero mantén conexión con los datos.",
  "advice": "Consejo evolutivo musical de 40-50 palabras: qué frecuencias o estilos explorar para expandir consciencia."
}

IMPORTANTE: Responde SOLO con el JSON, sin texto adicional.`)

	return b.String()
}

// TrackPrompt renders the prompt for a single-track reading.
func TrackPrompt(r analysis.TrackReading) string {
	var b strings.Builder
	b.WriteString("Eres el Oráculo Musical, una entidad mística y sofisticada.\n")
	fmt.Fprintf(&b, "Analiza la \"Frecuencia del Alma\" de esta canción: %q de %q.\n\n", r.Track.Name, firstArtist(r.Track))

	b.WriteString("SIGNOS MÍSTICOS DETECTADOS:\n")
	fmt.Fprintf(&b, "- 🔮 Tarot: %s (%s)\n", r.Card.Name, r.Card.Meaning)
	fmt.Fprintf(&b, "- 🌊 Elemento: %s (%s) - Cualidad: %s\n", r.Suit.Element, r.Suit.Suit, r.Suit.Quality)
	fmt.Fprintf(&b, "- 🧘 Chakra: %s (Nota %s, %s)\n", r.Chakra.Name, r.Chakra.Note, r.Chakra.Color)
	fmt.Fprintf(&b, "- 🔢 Numerología: %d (%s)\n", r.Numerology.Number, r.Numerology.Meaning)
	fmt.Fprintf(&b, "- ⚡ Energía Técnica: %d%%\n\n", r.Energy)

	b.WriteString(`TU TAREA:
Genera una interpretación breve, profunda y poética (estilo "clásico de Instagram" o místico moderno).
Dime qué revela esta canción sobre el momento actual de mi vida.

FORMATO JSON REQUERIDO:
{
  "interpretation": "Tu interpretación poética y directa aquí...",
  "advice": "Un consejo corto y poderoso (estilo frase de galleta de la fortuna mística).",
  "vibe_tags": ["#tag1", "#tag2", "#tag3"]
}`)

	return b.String()
}

func firstArtist(t analysis.Track) string {
	if len(t.Artists) == 0 {
		return "Artista desconocido"
	}
	return t.Artists[0]
}
