package coach

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultAnthropicModel is used when no model is configured
const DefaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicGenerator talks to the Anthropic Messages API
type AnthropicGenerator struct {
	client anthropic.Client
	model  string
}

// NewAnthropicGenerator creates an Anthropic client for the given model.
// Extra request options (base URL, HTTP client) are passed through.
func NewAnthropicGenerator(apiKey, model string, opts ...option.RequestOption) (*AnthropicGenerator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic API key is required")
	}
	if model == "" {
		model = DefaultAnthropicModel
	}

	// retries are handled by WithRetry
	all := append([]option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}, opts...)
	return &AnthropicGenerator{
		client: anthropic.NewClient(all...),
		model:  model,
	}, nil
}

// Name returns the provider name
func (a *AnthropicGenerator) Name() string {
	return "anthropic"
}

// Generate sends the prompt as a single user message
func (a *AnthropicGenerator) Generate(ctx context.Context, prompt string, s Sampling) (string, error) {
	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   int64(s.MaxOutputTokens),
		Temperature: anthropic.Float(float64(s.Temperature)),
		TopP:        anthropic.Float(float64(s.TopP)),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			return "", fmt.Errorf("anthropic: %w: %w", ErrRateLimited, err)
		}
		if isRateLimitMessage(err) {
			return "", fmt.Errorf("anthropic: %w: %w", ErrRateLimited, err)
		}
		return "", fmt.Errorf("anthropic API error: %w", err)
	}

	var b strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			b.WriteString(block.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", fmt.Errorf("anthropic: %w", ErrEmptyResponse)
	}
	return text, nil
}

var _ Generator = (*AnthropicGenerator)(nil)
