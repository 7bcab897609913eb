package spotify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

const maxTracksPerRequest = 100

// ErrNoFeatures is returned when Spotify has no audio analysis for a track.
var ErrNoFeatures = errors.New("no audio features available")

// AudioFeatures retrieves audio features for the given track IDs.
// The result is index-aligned with ids; tracks without available audio
// features have a nil entry.
// Batches requests to max 100 tracks per request per Spotify API limits.
func (c *Client) AudioFeatures(ctx context.Context, ids []string) ([]*analysis.AudioFeatures, error) {
	out := make([]*analysis.AudioFeatures, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	// A repeated ID maps to every position it occupies.
	indexByID := make(map[string][]int, len(ids))
	spotifyIDs := make([]spotify.ID, len(ids))
	for i, id := range ids {
		spotifyIDs[i] = spotify.ID(id)
		indexByID[id] = append(indexByID[id], i)
	}

	total := len(spotifyIDs)
	for i := 0; i < total; i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, total)
		batch := spotifyIDs[i:end]

		slog.Debug("fetching audio features", slog.Int("from", i+1), slog.Int("to", end), slog.Int("total", total))

		features, err := c.api.GetAudioFeatures(ctx, batch...)
		if err != nil {
			return nil, fmt.Errorf("fetching audio features (batch %d-%d): %w", i+1, end, err)
		}

		for _, f := range features {
			if f == nil {
				continue // Track has no audio features
			}
			converted := convertFeatures(f)
			for _, idx := range indexByID[f.ID.String()] {
				out[idx] = &converted
			}
		}
	}

	return out, nil
}

// TrackWithFeatures returns a track together with its audio features.
// Returns ErrNoFeatures if Spotify has no analysis for the track.
func (c *Client) TrackWithFeatures(ctx context.Context, id string) (analysis.Track, analysis.AudioFeatures, error) {
	track, err := c.Track(ctx, id)
	if err != nil {
		return analysis.Track{}, analysis.AudioFeatures{}, err
	}

	features, err := c.AudioFeatures(ctx, []string{id})
	if err != nil {
		return analysis.Track{}, analysis.AudioFeatures{}, err
	}
	if features[0] == nil {
		return track, analysis.AudioFeatures{}, fmt.Errorf("track %s: %w", id, ErrNoFeatures)
	}

	return track, *features[0], nil
}

// convertFeatures copies Spotify audio feature values into analysis.AudioFeatures.
func convertFeatures(f *spotify.AudioFeatures) analysis.AudioFeatures {
	return analysis.AudioFeatures{
		Tempo:            widen(f.Tempo),
		Energy:           widen(f.Energy),
		Valence:          widen(f.Valence),
		Danceability:     widen(f.Danceability),
		Acousticness:     widen(f.Acousticness),
		Instrumentalness: widen(f.Instrumentalness),
		Speechiness:      widen(f.Speechiness),
		Liveness:         widen(f.Liveness),
		Loudness:         widen(f.Loudness),
		Key:              analysis.PitchClass(f.Key),
		Mode:             analysis.Mode(f.Mode),
	}
}

// widen converts v to the float64 nearest its shortest decimal form, so the
// API's 0.7 stays 0.7 instead of 0.699999988.
func widen(v float32) float64 {
	d, err := strconv.ParseFloat(strconv.FormatFloat(float64(v), 'g', -1, 32), 64)
	if err != nil {
		return float64(v)
	}
	return d
}
