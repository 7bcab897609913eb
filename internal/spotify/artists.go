package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

// TopArtists returns the user's most played artists over the last six months.
func (c *Client) TopArtists(ctx context.Context, limit int) ([]analysis.Artist, error) {
	page, err := c.api.CurrentUsersTopArtists(ctx,
		spotify.Limit(limit),
		spotify.Timerange(spotify.MediumTermRange),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching top artists: %w", err)
	}

	artists := make([]analysis.Artist, len(page.Artists))
	for i, a := range page.Artists {
		artists[i] = convertArtist(a)
	}
	return artists, nil
}

// convertArtist converts a Spotify FullArtist to analysis.Artist.
func convertArtist(a spotify.FullArtist) analysis.Artist {
	return analysis.Artist{
		ID:     a.ID.String(),
		Name:   a.Name,
		Genres: append([]string(nil), a.Genres...),
	}
}
