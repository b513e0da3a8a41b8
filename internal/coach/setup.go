package coach

import (
	"context"
	"fmt"

	"github.com/briangreenhill/coachbot/internal/config"
)

// Setup creates a registry with every provider that has a credential
func Setup(ctx context.Context, cfg *config.CoachConfig) (*Registry, error) {
	registry := NewRegistry()

	if cfg.GoogleAPIKey != "" {
		model := ""
		if cfg.Provider == config.ProviderGemini {
			model = cfg.Model
		}
		g, err := NewGeminiGenerator(ctx, cfg.GoogleAPIKey, model)
		if err != nil {
			return nil, err
		}
		registry.Register(g)
	}

	if cfg.AnthropicAPIKey != "" {
		model := ""
		if cfg.Provider == config.ProviderAnthropic {
			model = cfg.Model
		}
		a, err := NewAnthropicGenerator(cfg.AnthropicAPIKey, model)
		if err != nil {
			return nil, err
		}
		registry.Register(a)
	}

	return registry, nil
}

// FromConfig returns the configured provider wrapped with rate-limit retries
func FromConfig(ctx context.Context, cfg *config.CoachConfig) (Generator, error) {
	registry, err := Setup(ctx, cfg)
	if err != nil {
		return nil, err
	}
	gen, ok := registry.Get(cfg.Provider)
	if !ok {
		return nil, fmt.Errorf("%w: provider %q is not configured (available: %v)", config.ErrMissingCredential, cfg.Provider, registry.List())
	}
	return WithRetry(gen, cfg.RetryAttempts, cfg.RetryDelay), nil
}

// SamplingFromConfig copies the sampling settings out of the config
func SamplingFromConfig(cfg *config.CoachConfig) Sampling {
	return Sampling{
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		MaxOutputTokens: cfg.MaxOutputTokens,
	}
}
