// Package spotify provides a wrapper around the Spotify Web API.
package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// User is the authenticated listener.
type User struct {
	ID          string
	DisplayName string
	ImageURL    string
}

// CurrentUser returns the authenticated user's profile.
func (c *Client) CurrentUser(ctx context.Context) (User, error) {
	user, err := c.api.CurrentUser(ctx)
	if err != nil {
		return User{}, fmt.Errorf("getting current user: %w", err)
	}

	u := User{ID: user.ID, DisplayName: user.DisplayName}
	if u.DisplayName == "" {
		u.DisplayName = user.ID
	}
	if len(user.Images) > 0 {
		u.ImageURL = user.Images[0].URL
	}
	return u, nil
}

// Token returns the OAuth token currently used by the client, which may
// have been refreshed since the client was created.
func (c *Client) Token() (*oauth2.Token, error) {
	tok, err := c.api.Token()
	if err != nil {
		return nil, fmt.Errorf("reading client token: %w", err)
	}
	return tok, nil
}
