package spotify

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/go-music-oracle/internal/analysis"
)

const (
	// DefaultSearchLimit is the number of results returned by SearchTracks.
	DefaultSearchLimit = 5
	minQueryLength     = 2
)

// TopTracks returns the user's most played tracks over the last six months,
// in Spotify's ranking order. limit is capped at 50 by the API.
func (c *Client) TopTracks(ctx context.Context, limit int) ([]analysis.Track, error) {
	page, err := c.api.CurrentUsersTopTracks(ctx,
		spotify.Limit(limit),
		spotify.Timerange(spotify.MediumTermRange),
	)
	if err != nil {
		return nil, fmt.Errorf("fetching top tracks: %w", err)
	}

	tracks := make([]analysis.Track, len(page.Tracks))
	for i, t := range page.Tracks {
		tracks[i] = convertTrack(t)
	}
	return tracks, nil
}

// SearchTracks finds tracks matching query. Queries shorter than two
// characters return no results without calling the API.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]analysis.Track, error) {
	if utf8.RuneCountInString(query) < minQueryLength {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultSearchLimit
	}

	result, err := c.api.Search(ctx, query, spotify.SearchTypeTrack, spotify.Limit(limit))
	if err != nil {
		return nil, fmt.Errorf("searching tracks: %w", err)
	}
	if result.Tracks == nil {
		return nil, nil
	}

	tracks := make([]analysis.Track, len(result.Tracks.Tracks))
	for i, t := range result.Tracks.Tracks {
		tracks[i] = convertTrack(t)
	}
	return tracks, nil
}

// Track returns a single track by ID.
func (c *Client) Track(ctx context.Context, id string) (analysis.Track, error) {
	t, err := c.api.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return analysis.Track{}, fmt.Errorf("fetching track %s: %w", id, err)
	}
	return convertTrack(*t), nil
}

// convertTrack converts a Spotify FullTrack to analysis.Track.
func convertTrack(t spotify.FullTrack) analysis.Track {
	artists := make([]string, len(t.Artists))
	for i, a := range t.Artists {
		artists[i] = a.Name
	}

	var imageURL string
	if len(t.Album.Images) > 0 {
		imageURL = t.Album.Images[0].URL
	}

	return analysis.Track{
		ID:       t.ID.String(),
		Name:     t.Name,
		Artists:  artists,
		Album:    t.Album.Name,
		ImageURL: imageURL,
	}
}
