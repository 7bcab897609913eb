package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultVeniceBaseURL = "https://api.venice.ai/api/v1"
	// DefaultVeniceModel is used when no model is configured.
	DefaultVeniceModel = "llama-3.3-70b"

	veniceTemperature = 0.8
	veniceMaxTokens   = 500
)

// ErrEmptyReply is returned when a model answers without any text.
var ErrEmptyReply = errors.New("empty reply")

// VeniceClient talks to the Venice.ai OpenAI-compatible chat completions API.
type VeniceClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// VeniceOption configures a VeniceClient.
type VeniceOption func(*VeniceClient)

// WithVeniceModel selects the chat model. Empty keeps the default.
func WithVeniceModel(model string) VeniceOption {
	return func(c *VeniceClient) {
		if model != "" {
			c.model = model
		}
	}
}

// WithVeniceBaseURL points the client at a different API root.
func WithVeniceBaseURL(u string) VeniceOption {
	return func(c *VeniceClient) {
		c.baseURL = strings.TrimRight(u, "/")
	}
}

// WithVeniceHTTPClient sets the HTTP client used for requests.
func WithVeniceHTTPClient(hc *http.Client) VeniceOption {
	return func(c *VeniceClient) {
		c.httpClient = hc
	}
}

// NewVeniceClient creates a Venice chat client authenticated with apiKey.
func NewVeniceClient(apiKey string, opts ...VeniceOption) *VeniceClient {
	c := &VeniceClient{
		apiKey:     apiKey,
		model:      DefaultVeniceModel,
		baseURL:    defaultVeniceBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ Completer = (*VeniceClient)(nil)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Complete sends a single chat completion request.
func (c *VeniceClient) Complete(ctx context.Context, system, user string) (string, error) {
	var messages []chatMessage
	if system != "" {
		messages = append(messages, chatMessage{Role: "system", Content: system})
	}
	messages = append(messages, chatMessage{Role: "user", Content: user})

	payload, err := json.Marshal(chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: veniceTemperature,
		MaxTokens:   veniceMaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("venice: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("venice: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("venice: send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("venice: unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", fmt.Errorf("venice: decode response: %w", err)
	}
	if len(decoded.Choices) == 0 || strings.TrimSpace(decoded.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("venice: %w", ErrEmptyReply)
	}

	return decoded.Choices[0].Message.Content, nil
}
