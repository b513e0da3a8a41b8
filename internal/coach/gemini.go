package coach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

// DefaultGeminiModel is used when no model is configured
const DefaultGeminiModel = "gemini-1.5-flash"

// GeminiGenerator talks to the Gemini API
type GeminiGenerator struct {
	client *genai.Client
	model  string
}

// GeminiOption configures a GeminiGenerator
type GeminiOption func(*genai.ClientConfig)

// WithGeminiBaseURL points the client at a different endpoint
func WithGeminiBaseURL(baseURL string) GeminiOption {
	return func(c *genai.ClientConfig) {
		c.HTTPOptions.BaseURL = baseURL
	}
}

// NewGeminiGenerator creates a Gemini client for the given model
func NewGeminiGenerator(ctx context.Context, apiKey, model string, opts ...GeminiOption) (*GeminiGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if model == "" {
		model = DefaultGeminiModel
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return &GeminiGenerator{client: client, model: model}, nil
}

// Name returns the provider name
func (g *GeminiGenerator) Name() string {
	return "gemini"
}

// Generate sends the prompt as a single user turn
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, s Sampling) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:     genai.Ptr(s.Temperature),
		TopP:            genai.Ptr(s.TopP),
		MaxOutputTokens: s.MaxOutputTokens,
	})
	if err != nil {
		if isGeminiRateLimit(err) {
			return "", fmt.Errorf("gemini: %w: %w", ErrRateLimited, err)
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", fmt.Errorf("gemini: %w", ErrEmptyResponse)
	}
	return text, nil
}

func isGeminiRateLimit(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return apiErrPtr.Code == http.StatusTooManyRequests || apiErrPtr.Status == "RESOURCE_EXHAUSTED"
	}
	return isRateLimitMessage(err)
}

var _ Generator = (*GeminiGenerator)(nil)
