// Package lastfm fetches artist tags from the Last.fm API. The tags stand in
// for genres when Spotify has none for an artist.
package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	defaultBaseURL = "https://ws.audioscrobbler.com/2.0/"
	userAgent      = "music-oracle/1.0"
)

// Last.fm API error codes.
const (
	errCodeInvalidParams = 6
	errCodeInvalidAPIKey = 10
	errCodeRateLimited   = 29
)

var (
	// ErrRateLimited is returned when the API rate limit is exceeded after retries.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidAPIKey is returned when the API key is invalid.
	ErrInvalidAPIKey = errors.New("invalid API key")

	// ErrArtistNotFound is returned when Last.fm does not know the artist.
	ErrArtistNotFound = errors.New("artist not found")
)

// Client is a Last.fm API client with an in-memory cache and rate-limit retries.
type Client struct {
	apiKey      string
	httpClient  *http.Client
	baseURL     string
	retryDelays []time.Duration

	cache   map[string][]Tag // key = normalized artist name
	cacheMu sync.RWMutex
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at a different API endpoint.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		c.baseURL = u
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithRetryDelays sets the waits between retries after a rate-limit response.
func WithRetryDelays(delays ...time.Duration) Option {
	return func(c *Client) {
		c.retryDelays = delays
	}
}

// NewClient creates a new Last.fm API client.
func NewClient(apiKey string, opts ...Option) *Client {
	c := &Client{
		apiKey:      apiKey,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		baseURL:     defaultBaseURL,
		retryDelays: []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second},
		cache:       make(map[string][]Tag),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ArtistTags returns the top tags of an artist, most relevant first.
// Results are cached in memory. Returns an empty slice (not nil) if the
// artist has no tags.
func (c *Client) ArtistTags(ctx context.Context, artist string) ([]Tag, error) {
	cacheKey := strings.ToLower(strings.TrimSpace(artist))

	c.cacheMu.RLock()
	cached, ok := c.cache[cacheKey]
	c.cacheMu.RUnlock()
	if ok {
		return cached, nil
	}

	params := url.Values{
		"method":      {"artist.getTopTags"},
		"artist":      {artist},
		"autocorrect": {"1"},
		"format":      {"json"},
		"api_key":     {c.apiKey},
	}

	body, err := c.doRequest(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("fetching tags for %q: %w", artist, err)
	}

	var resp artistTagsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parsing artist tags response: %w", err)
	}

	tags := resp.TopTags.Tag
	if tags == nil {
		tags = []Tag{}
	}

	c.cacheMu.Lock()
	c.cache[cacheKey] = tags
	c.cacheMu.Unlock()

	return tags, nil
}

// doRequest performs an HTTP GET request, retrying after each configured
// delay while the API reports a rate limit.
func (c *Client) doRequest(ctx context.Context, params url.Values) ([]byte, error) {
	reqURL := c.baseURL + "?" + params.Encode()

	var lastErr error
	for attempt := 0; attempt <= len(c.retryDelays); attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelays[attempt-1]):
			}
		}

		body, err := c.doSingleRequest(ctx, reqURL)
		if err == nil {
			return body, nil
		}
		if !errors.Is(err, ErrRateLimited) {
			return nil, err
		}
		lastErr = err
	}

	return nil, lastErr
}

// doSingleRequest performs a single HTTP request and maps API error codes.
func (c *Client) doSingleRequest(ctx context.Context, reqURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}

	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != 0 {
		switch apiErr.Error {
		case errCodeRateLimited:
			return nil, ErrRateLimited
		case errCodeInvalidAPIKey:
			return nil, ErrInvalidAPIKey
		case errCodeInvalidParams:
			return nil, ErrArtistNotFound
		default:
			return nil, fmt.Errorf("API error %d: %s", apiErr.Error, apiErr.Message)
		}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return body, nil
}
