// Package auth provides Spotify OAuth2 authentication (authorization code
// with PKCE) and token caching for the command line.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
)

var (
	// ErrMissingClientID is returned when no Spotify client ID is configured.
	ErrMissingClientID = errors.New("missing Spotify client ID")

	// ErrStateMismatch is returned when the OAuth state parameter doesn't match.
	ErrStateMismatch = errors.New("OAuth state mismatch")
)

// Credentials identify the application to Spotify.
// ClientSecret is optional; PKCE protects the code exchange without it.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

// OAuth runs the Spotify authorization code flow with PKCE.
type OAuth struct {
	auth *spotifyauth.Authenticator
}

// NewOAuth creates an OAuth flow for the given credentials.
// Returns ErrMissingClientID if no client ID is set.
func NewOAuth(creds Credentials) (*OAuth, error) {
	if creds.ClientID == "" {
		return nil, ErrMissingClientID
	}

	opts := []spotifyauth.AuthenticatorOption{
		spotifyauth.WithClientID(creds.ClientID),
		spotifyauth.WithRedirectURL(creds.RedirectURL),
		spotifyauth.WithScopes(
			spotifyauth.ScopeUserTopRead,
			spotifyauth.ScopeUserReadRecentlyPlayed,
		),
	}
	if creds.ClientSecret != "" {
		opts = append(opts, spotifyauth.WithClientSecret(creds.ClientSecret))
	}

	return &OAuth{auth: spotifyauth.New(opts...)}, nil
}

// AuthURL returns the Spotify consent page URL carrying state and the
// S256 challenge of verifier.
func (o *OAuth) AuthURL(state, verifier string) string {
	return o.auth.AuthURL(state, oauth2.S256ChallengeOption(verifier))
}

// Exchange validates the callback request and trades its code for a token.
func (o *OAuth) Exchange(ctx context.Context, r *http.Request, state, verifier string) (*oauth2.Token, error) {
	if r.URL.Query().Get("state") != state {
		return nil, ErrStateMismatch
	}
	if errMsg := r.URL.Query().Get("error"); errMsg != "" {
		return nil, fmt.Errorf("spotify auth error: %s", errMsg)
	}

	token, err := o.auth.Token(ctx, state, r, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchanging code for token: %w", err)
	}
	return token, nil
}

// Client returns a Spotify API client that refreshes token as needed.
func (o *OAuth) Client(ctx context.Context, token *oauth2.Token) *spotify.Client {
	return spotify.New(o.auth.Client(ctx, token), spotify.WithRetry(true))
}

// GenerateState creates a random state string for OAuth.
func GenerateState() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateVerifier creates a PKCE code verifier.
func GenerateVerifier() string {
	return oauth2.GenerateVerifier()
}
