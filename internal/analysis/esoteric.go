package analysis

import (
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

// Chooser picks an index in [0, n). It selects among equivalent display
// strings so tests can pin the choice.
type Chooser func(n int) int

// RandomChooser picks uniformly at random.
func RandomChooser(n int) int {
	return rand.IntN(n)
}

// FixedChooser always picks i, clamped to the available range.
func FixedChooser(i int) Chooser {
	return func(n int) int {
		return min(max(i, 0), n-1)
	}
}

// TrackReading is the esoteric analysis of a single track.
type TrackReading struct {
	Track      Track
	Tempo      int
	Key        KeySignature
	Suit       ElementalSuit
	Card       Card
	Chakra     Chakra
	Numerology Numerology
	ModeText   string
	Energy     int // percent
	Valence    int // percent
	Message    string
}

var readingTitles = []string{
	"El Alquimista Sonoro",
	"El Viajero del Tiempo",
	"El Guardián de la Frecuencia",
	"El Oráculo Rítmico",
}

// ReadingTitle picks the heading shown above a track reading.
func ReadingTitle(choose Chooser) string {
	return readingTitles[choose(len(readingTitles))]
}

// ReadTrack derives the suit, card, chakra and numerology of one track and
// composes an oracle message from them.
func ReadTrack(track Track, f AudioFeatures, choose Chooser) TrackReading {
	tempo := int(math.Round(f.Tempo))

	r := TrackReading{
		Track:      track,
		Tempo:      tempo,
		Key:        KeySignature{Key: f.Key, Mode: f.Mode},
		Suit:       TempoElement(float64(tempo)),
		Card:       TarotCard(f.Energy, f.Valence, float64(tempo)),
		Chakra:     ChakraFor(f.Key),
		Numerology: NumerologyFor(tempo),
		ModeText:   modeText(f.Mode),
		Energy:     Percent(f.Energy),
		Valence:    Percent(f.Valence),
	}

	messages := oracleMessages(r)
	r.Message = messages[choose(len(messages))]
	return r
}

func modeText(m Mode) string {
	if m == Major {
		return "Mayor (Yang, expansivo, externo)"
	}
	return "Menor (Yin, introspectivo, interno)"
}

func oracleMessages(r TrackReading) []string {
	return []string{
		fmt.Sprintf("%s resuena en el chakra %s. %s.", r.Card.Name, r.Chakra.Name, r.Card.Meaning),
		fmt.Sprintf("El camino del %d (%s) te llama a través del %s.", r.Numerology.Number, r.Numerology.Meaning, r.Suit.Element),
		fmt.Sprintf("Esta frecuencia vibra en %s, activando %s. %s.", r.Chakra.Color, r.Chakra.Name, r.Card.Meaning),
		fmt.Sprintf("%s del %s: %s te guía hacia %s.", r.Suit.Suit, r.Suit.Element, r.Card.Name, strings.ToLower(r.Card.Meaning)),
	}
}

// Percent converts a 0-1 feature to a whole percentage.
func Percent(v float64) int {
	return int(math.Round(v * 100))
}
