package analysis

import (
	"strings"
	"testing"
)

func TestReadTrack(t *testing.T) {
	track := Track{ID: "t1", Name: "Sunrise", Artists: []string{"Band"}}
	f := AudioFeatures{Tempo: 119.6, Energy: 0.8, Valence: 0.8, Key: 9, Mode: Major}

	tests := []struct {
		choice int
		want   string
	}{
		{0, "El Sol resuena en el chakra Third Eye. Alegría, éxito, vitalidad."},
		{1, "El camino del 3 (Trinidad, creatividad, expresión) te llama a través del Air."},
		{2, "Esta frecuencia vibra en Violeta, activando Third Eye. Alegría, éxito, vitalidad."},
		{3, "Espadas del Air: El Sol te guía hacia alegría, éxito, vitalidad."},
	}

	for _, tt := range tests {
		r := ReadTrack(track, f, FixedChooser(tt.choice))
		if r.Message != tt.want {
			t.Errorf("choice %d: Message = %q, want %q", tt.choice, r.Message, tt.want)
		}
	}

	r := ReadTrack(track, f, FixedChooser(0))
	if r.Tempo != 120 {
		t.Errorf("Tempo = %d, want 120", r.Tempo)
	}
	if r.Card.Number != TheSun {
		t.Errorf("Card = %q, want El Sol", r.Card.Name)
	}
	if r.Suit.Suit != "Espadas" {
		t.Errorf("Suit = %q, want Espadas", r.Suit.Suit)
	}
	if r.Numerology.Number != 3 {
		t.Errorf("Numerology = %d, want 3", r.Numerology.Number)
	}
	if r.Energy != 80 || r.Valence != 80 {
		t.Errorf("Energy/Valence = %d/%d, want 80/80", r.Energy, r.Valence)
	}
	if !strings.HasPrefix(r.ModeText, "Mayor") {
		t.Errorf("ModeText = %q", r.ModeText)
	}
	if r.Key.String() != "A Major" {
		t.Errorf("Key = %q", r.Key)
	}
}

func TestReadTrack_UsesRoundedTempo(t *testing.T) {
	tests := []struct {
		name     string
		features AudioFeatures
		wantCard int
		wantSuit string
	}{
		{
			name:     "120.4 rounds into the wheel range",
			features: AudioFeatures{Tempo: 120.4, Energy: 0.6, Valence: 0.1},
			wantCard: WheelOfFortune,
			wantSuit: "Espadas",
		},
		{
			name:     "89.6 rounds up to cups",
			features: AudioFeatures{Tempo: 89.6, Energy: 0.6, Valence: 0.1},
			wantCard: TheFool,
			wantSuit: "Copas",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := ReadTrack(Track{ID: "x"}, tt.features, FixedChooser(0))
			if r.Card.Number != tt.wantCard {
				t.Errorf("Card = %q (%d), want %d", r.Card.Name, r.Card.Number, tt.wantCard)
			}
			if r.Suit.Suit != tt.wantSuit {
				t.Errorf("Suit = %q, want %q", r.Suit.Suit, tt.wantSuit)
			}
		})
	}
}

func TestReadTrack_Deterministic(t *testing.T) {
	f := AudioFeatures{Tempo: 95, Energy: 0.3, Valence: 0.2, Key: 3}
	a := ReadTrack(Track{ID: "x"}, f, FixedChooser(2))
	b := ReadTrack(Track{ID: "x"}, f, FixedChooser(2))
	if a.Message != b.Message || a.Card != b.Card || a.Chakra != b.Chakra {
		t.Error("ReadTrack is not deterministic with a fixed chooser")
	}
	if !strings.HasPrefix(a.ModeText, "Menor") {
		t.Errorf("ModeText = %q", a.ModeText)
	}
}

func TestReadingTitle(t *testing.T) {
	if got := ReadingTitle(FixedChooser(1)); got != "El Viajero del Tiempo" {
		t.Errorf("ReadingTitle() = %q", got)
	}
	if got := ReadingTitle(FixedChooser(99)); got != "El Oráculo Rítmico" {
		t.Errorf("ReadingTitle() clamped = %q", got)
	}
}

func TestRandomChooser(t *testing.T) {
	for i := 0; i < 100; i++ {
		if n := RandomChooser(4); n < 0 || n >= 4 {
			t.Fatalf("RandomChooser(4) = %d", n)
		}
	}
}

func TestPercent(t *testing.T) {
	tests := []struct {
		in   float64
		want int
	}{
		{0, 0},
		{0.456, 46},
		{0.999, 100},
		{1, 100},
	}
	for _, tt := range tests {
		if got := Percent(tt.in); got != tt.want {
			t.Errorf("Percent(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
