package spotify

import (
	"context"
	"log/slog"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

const (
	profileTrackCount  = 50
	profileArtistCount = 10
)

// MusicData is everything needed to build a listener profile.
type MusicData struct {
	User     User
	Tracks   []analysis.Track
	Features []*analysis.AudioFeatures // index-aligned with Tracks
	Artists  []analysis.Artist
}

// FetchMusicData retrieves the user's profile, top 50 tracks with their
// audio features and top 10 artists.
func (c *Client) FetchMusicData(ctx context.Context) (*MusicData, error) {
	user, err := c.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}

	tracks, err := c.TopTracks(ctx, profileTrackCount)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	features, err := c.AudioFeatures(ctx, ids)
	if err != nil {
		return nil, err
	}

	artists, err := c.TopArtists(ctx, profileArtistCount)
	if err != nil {
		return nil, err
	}

	slog.Info("fetched music data",
		slog.String("user", user.ID),
		slog.Int("tracks", len(tracks)),
		slog.Int("artists", len(artists)),
	)

	return &MusicData{
		User:     user,
		Tracks:   tracks,
		Features: features,
		Artists:  artists,
	}, nil
}
