package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/zmb3/spotify/v2"
	"golang.org/x/oauth2"
)

const callbackTimeout = 2 * time.Minute

// ErrAuthTimeout is returned when the OAuth callback is not received in time.
var ErrAuthTimeout = errors.New("authentication timed out waiting for callback")

// Authenticator handles Spotify authentication for the command line using a
// loopback callback server and a token cached on disk.
type Authenticator struct {
	oauth       *OAuth
	cache       *TokenCache
	callbackURL *url.URL
}

// New creates an Authenticator caching tokens in the default location.
// The redirect URL must point at a loopback address.
func New(creds Credentials) (*Authenticator, error) {
	oauth, err := NewOAuth(creds)
	if err != nil {
		return nil, err
	}

	callbackURL, err := url.Parse(creds.RedirectURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redirect URL: %w", err)
	}

	cache, err := DefaultTokenCache()
	if err != nil {
		return nil, fmt.Errorf("creating token cache: %w", err)
	}

	return &Authenticator{
		oauth:       oauth,
		cache:       cache,
		callbackURL: callbackURL,
	}, nil
}

// Authenticate returns an authenticated Spotify client.
// It first checks for a cached token and uses it if valid/refreshable.
// Otherwise, it runs the full OAuth flow.
func (a *Authenticator) Authenticate(ctx context.Context) (*spotify.Client, error) {
	token, err := a.cache.Load()
	if err != nil {
		return nil, fmt.Errorf("loading cached token: %w", err)
	}

	if token != nil {
		// oauth2 refreshes the token transparently if it has expired
		client := a.oauth.Client(ctx, token)

		_, err := client.CurrentUser(ctx)
		if err == nil {
			newToken, tokenErr := client.Token()
			if tokenErr == nil && newToken.AccessToken != token.AccessToken {
				_ = a.cache.Save(newToken)
			}
			return client, nil
		}

		slog.Info("cached token invalid, starting new authentication")
	}

	return a.runOAuthFlow(ctx)
}

// runOAuthFlow performs the full OAuth authorization code flow.
func (a *Authenticator) runOAuthFlow(ctx context.Context) (*spotify.Client, error) {
	state, err := GenerateState()
	if err != nil {
		return nil, fmt.Errorf("generating state: %w", err)
	}
	verifier := GenerateVerifier()

	tokenCh := make(chan *oauth2.Token, 1)
	errCh := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc(a.callbackURL.Path, func(w http.ResponseWriter, r *http.Request) {
		a.handleCallback(w, r, state, verifier, tokenCh, errCh)
	})

	server := &http.Server{
		Addr:    a.callbackURL.Host,
		Handler: mux,
	}

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("callback server error: %w", err)
		}
	}()

	fmt.Println("\nTo authenticate, open this URL in your browser:")
	fmt.Println(a.oauth.AuthURL(state, verifier))
	fmt.Println("\nWaiting for authentication...")

	var token *oauth2.Token
	select {
	case token = <-tokenCh:
	case err := <-errCh:
		_ = server.Shutdown(ctx)
		return nil, err
	case <-time.After(callbackTimeout):
		_ = server.Shutdown(ctx)
		return nil, ErrAuthTimeout
	case <-ctx.Done():
		_ = server.Shutdown(context.Background())
		return nil, ctx.Err()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)

	if err := a.cache.Save(token); err != nil {
		// Auth succeeded; only the cache is lost
		slog.Warn("failed to cache token", slog.Any("error", err))
	}

	return a.oauth.Client(ctx, token), nil
}

// handleCallback processes the OAuth callback from Spotify.
func (a *Authenticator) handleCallback(w http.ResponseWriter, r *http.Request, state, verifier string, tokenCh chan<- *oauth2.Token, errCh chan<- error) {
	token, err := a.oauth.Exchange(r.Context(), r, state, verifier)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, ErrStateMismatch) {
			status = http.StatusBadRequest
		}
		http.Error(w, "Authentication failed", status)
		errCh <- err
		return
	}

	w.Header().Set("Content-Type", "text/html")
	fmt.Fprint(w, `<!DOCTYPE html>
<html>
<head><title>Authentication Successful</title></head>
<body>
<h1>Authentication Successful!</h1>
<p>You can close this window and return to the terminal.</p>
</body>
</html>`)

	tokenCh <- token
}

// Logout removes the cached token.
func (a *Authenticator) Logout() error {
	return a.cache.Delete()
}
