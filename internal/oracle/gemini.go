package oracle

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured.
const DefaultGeminiModel = "gemini-2.5-flash"

// GeminiClient generates replies with the Google Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// GeminiOption configures a GeminiClient.
type GeminiOption func(*geminiSettings)

type geminiSettings struct {
	model   string
	baseURL string
}

// WithGeminiModel selects the model. Empty keeps the default.
func WithGeminiModel(model string) GeminiOption {
	return func(s *geminiSettings) {
		if model != "" {
			s.model = model
		}
	}
}

// WithGeminiBaseURL points the client at a different API root.
func WithGeminiBaseURL(u string) GeminiOption {
	return func(s *geminiSettings) {
		s.baseURL = u
	}
}

// NewGeminiClient creates a Gemini client authenticated with apiKey.
func NewGeminiClient(ctx context.Context, apiKey string, opts ...GeminiOption) (*GeminiClient, error) {
	settings := geminiSettings{model: DefaultGeminiModel}
	for _, opt := range opts {
		opt(&settings)
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if settings.baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: settings.baseURL}
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &GeminiClient{client: client, model: settings.model}, nil
}

var _ Completer = (*GeminiClient)(nil)

// Complete generates one reply. An empty system prompt sends no system instruction.
func (g *GeminiClient) Complete(ctx context.Context, system, user string) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.9)),
		TopP:             genai.Ptr(float32(0.95)),
		TopK:             genai.Ptr(float32(40)),
		MaxOutputTokens:  int32(1024),
		ResponseMIMEType: "application/json",
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		[]*genai.Content{genai.NewContentFromText(user, genai.RoleUser)},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyReply)
	}
	return text, nil
}
