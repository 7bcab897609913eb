// Package oracle turns analysed listening data into a short mystical
// narrative using a language model, with fixed texts when no model answers.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

// ErrNoNarrative is returned when a model reply contains no JSON object.
var ErrNoNarrative = errors.New("no narrative object in reply")

// Completer sends one system and user prompt pair to a language model and
// returns the raw reply text.
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
}

// Narrative is the interpretive text attached to a reading.
type Narrative struct {
	Title          string   `json:"title,omitempty"`
	Interpretation string   `json:"interpretation"`
	Advice         string   `json:"advice"`
	VibeTags       []string `json:"vibe_tags,omitempty"`
	Fallback       bool     `json:"-"` // true when no model reply was used
}

// ParseNarrative extracts the JSON object embedded in a model reply.
// Markdown code fences and any prose around the object are ignored.
func ParseNarrative(text string) (Narrative, error) {
	cleaned := stripFences(text)

	start := strings.Index(cleaned, "{")
	end := strings.LastIndex(cleaned, "}")
	if start < 0 || end < start {
		return Narrative{}, ErrNoNarrative
	}

	var n Narrative
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &n); err != nil {
		return Narrative{}, fmt.Errorf("decoding narrative: %w", err)
	}
	return n, nil
}

func stripFences(text string) string {
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	return strings.TrimSpace(text)
}

// ============================================================================
// Fallbacks
// ============================================================================

const (
	profileFallbackTitle          = "El Viajero de Frecuencias"
	profileFallbackInterpretation = "Tu universo sonoro revela una búsqueda constante de resonancia. " +
		"Las ondas que eliges no son casuales: son el mapa de tu alma traducido a vibraciones. " +
		"Cada canción es un portal, cada frecuencia un mensaje cifrado de tu ser interior."
	profileFallbackAdvice = "Explora conscientemente las frecuencias que te llaman. " +
		"La música que amas es la llave para comprender quién eres realmente."

	plainTextAdvice = "Escucha con el corazón."
)

// ProfileFallback is the narrative used when no profile reply is available.
func ProfileFallback() Narrative {
	return Narrative{
		Title:          profileFallbackTitle,
		Interpretation: profileFallbackInterpretation,
		Advice:         profileFallbackAdvice,
		Fallback:       true,
	}
}

// TrackFallback builds a narrative for a track reading from its own signs.
func TrackFallback(r analysis.TrackReading) Narrative {
	return Narrative{
		Interpretation: fmt.Sprintf("La energía de %s fluye a través de %s. Es un momento para %s.",
			r.Suit.Element, r.Card.Name, strings.ToLower(r.Card.Meaning)),
		Advice:   fmt.Sprintf("Conecta con tu chakra %s a través del sonido.", r.Chakra.Name),
		VibeTags: []string{"#OfflineOracle", "#Mystic"},
		Fallback: true,
	}
}

// ============================================================================
// Service
// ============================================================================

// Service produces narratives for profile and track readings.
// Either completer may be nil, in which case the fallback text is used.
type Service struct {
	profile Completer
	track   Completer
}

// Option configures a Service.
type Option func(*Service)

// WithProfileCompleter sets the model used for profile readings.
func WithProfileCompleter(c Completer) Option {
	return func(s *Service) {
		s.profile = c
	}
}

// WithTrackCompleter sets the model used for single-track readings.
func WithTrackCompleter(c Completer) Option {
	return func(s *Service) {
		s.track = c
	}
}

// NewService creates a narrative service.
func NewService(opts ...Option) *Service {
	s := &Service{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ReadProfile asks the profile model for a reading of p. It never fails:
// any model or parsing error yields ProfileFallback.
func (s *Service) ReadProfile(ctx context.Context, p analysis.Profile, f analysis.FrequencyEstimate) Narrative {
	if s.profile == nil {
		return ProfileFallback()
	}

	reply, err := s.profile.Complete(ctx, profileSystemPrompt, ProfilePrompt(p, f))
	if err != nil {
		slog.Warn("profile narrative unavailable", slog.Any("error", err))
		return ProfileFallback()
	}

	n, err := ParseNarrative(reply)
	if err != nil {
		slog.Warn("profile narrative unparsable", slog.Any("error", err))
		return ProfileFallback()
	}

	fb := ProfileFallback()
	if n.Title == "" {
		n.Title = fb.Title
	}
	if n.Interpretation == "" {
		n.Interpretation = fb.Interpretation
	}
	if n.Advice == "" {
		n.Advice = fb.Advice
	}
	return n
}

// ReadTrack asks the track model for a reading of r. A reply that is plain
// text rather than JSON becomes the interpretation itself. It never fails.
func (s *Service) ReadTrack(ctx context.Context, r analysis.TrackReading) Narrative {
	if s.track == nil {
		return TrackFallback(r)
	}

	reply, err := s.track.Complete(ctx, "", TrackPrompt(r))
	if err != nil {
		slog.Warn("track narrative unavailable",
			slog.String("track_id", r.Track.ID),
			slog.Any("error", err),
		)
		return TrackFallback(r)
	}

	n, err := ParseNarrative(reply)
	if err != nil || n.Interpretation == "" {
		text := stripFences(reply)
		if text == "" {
			return TrackFallback(r)
		}
		return Narrative{
			Interpretation: text,
			Advice:         plainTextAdvice,
			VibeTags:       []string{"#MusicOracle", "#GeminiAI"},
		}
	}

	if n.Advice == "" {
		n.Advice = plainTextAdvice
	}
	return n
}
