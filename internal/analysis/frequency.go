package analysis

import (
	"fmt"
	"math"
	"strings"
)

// concertPitch holds the fourth-octave equal-tempered frequencies (A4 = 440 Hz).
// It is independent of the C=256 chakra table.
var concertPitch = [12]float64{
	261.63, 277.18, 293.66, 311.13, 329.63, 349.23,
	369.99, 392.00, 415.30, 440.00, 466.16, 493.88,
}

// SacredFrequency is a reference frequency and what it is said to influence.
type SacredFrequency struct {
	Hz      int
	Meaning string
}

// sacredFrequencies is scanned in order; on equal distance the earlier entry wins.
var sacredFrequencies = [10]SacredFrequency{
	{174, "Fundación y alivio del dolor"},
	{285, "Influencia energética y sanación tisular"},
	{396, "Liberación de culpa y miedo"},
	{417, "Facilitación del cambio"},
	{432, "Frecuencia natural del universo"},
	{528, "Transformación y milagros (ADN)"},
	{639, "Relaciones armoniosas"},
	{741, "Despertar de la intuición"},
	{852, "Retorno al orden espiritual"},
	{963, "Conexión con la consciencia superior"},
}

// Band classifies an estimated frequency for its interpretation text.
type Band int

const (
	BandResonance Band = iota // within 20 Hz of a sacred frequency
	BandLow                   // below 400 Hz
	BandHigh                  // above 500 Hz
	BandHeart                 // between 400 and 500 Hz
)

func (b Band) String() string {
	switch b {
	case BandResonance:
		return "resonance"
	case BandLow:
		return "low"
	case BandHigh:
		return "high"
	default:
		return "heart"
	}
}

const resonanceDistance = 20

// FrequencyEstimate is the "soul frequency" derived from a key and tempo.
type FrequencyEstimate struct {
	Estimated      int
	BaseNote       float64 // concert pitch of the dominant key
	Nearest        SacredFrequency
	Distance       int
	Band           Band
	Interpretation string
}

// EstimateFrequency scales the concert pitch of the key by the tempo
// (120 BPM leaves it unchanged) and finds the closest sacred frequency.
func EstimateFrequency(key KeySignature, avgTempo float64) FrequencyEstimate {
	base := concertPitch[key.Key.index()]
	multiplier := 1 + (avgTempo-120)/240
	estimated := int(math.Round(base * multiplier))

	nearest := sacredFrequencies[0]
	distance := absInt(estimated - nearest.Hz)
	for _, sf := range sacredFrequencies[1:] {
		if d := absInt(estimated - sf.Hz); d < distance {
			nearest, distance = sf, d
		}
	}

	band := classifyFrequency(estimated, distance)
	return FrequencyEstimate{
		Estimated:      estimated,
		BaseNote:       base,
		Nearest:        nearest,
		Distance:       distance,
		Band:           band,
		Interpretation: interpretFrequency(band, nearest),
	}
}

func classifyFrequency(estimated, distance int) Band {
	switch {
	case distance < resonanceDistance:
		return BandResonance
	case estimated < 400:
		return BandLow
	case estimated > 500:
		return BandHigh
	default:
		return BandHeart
	}
}

func interpretFrequency(b Band, nearest SacredFrequency) string {
	switch b {
	case BandResonance:
		return fmt.Sprintf("Tu frecuencia resuena cerca de %d Hz, conocida por %s. "+
			"Esta sincronía revela una conexión natural con estas vibraciones.",
			nearest.Hz, strings.ToLower(nearest.Meaning))
	case BandLow:
		return "Tu frecuencia gravitacional refleja una conexión con las octavas bajas, " +
			"donde habita la profundidad y la introspección."
	case BandHigh:
		return "Tu frecuencia celestial se eleva hacia el espectro alto, " +
			"revelando una tendencia hacia la claridad y la iluminación."
	default:
		return "Tu frecuencia del corazón equilibra entre tierra y cielo, " +
			"una danza perfecta de dualidades."
	}
}

// FrequencyColor maps a frequency onto the color wheel, 200 Hz to red and
// 1000 Hz back around to red, as a CSS hsl() value.
func FrequencyColor(hz int) string {
	f := min(max(float64(hz), 200), 1000)
	hue := int(math.Round((f - 200) / 800 * 360))
	return fmt.Sprintf("hsl(%d, 70%%, 60%%)", hue)
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
