// Package config handles application configuration from environment variables
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Provider names understood by COACH_PROVIDER
const (
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// ErrMissingCredential is returned when the selected provider has no API key
var ErrMissingCredential = errors.New("missing API credential")

// Config holds all application configuration
type Config struct {
	Port     string `env:"PORT" envDefault:"8080"`
	BaseURL  string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// ShareSecret signs plan share links. A random secret is used when empty,
	// which means links stop working after a restart.
	ShareSecret string `env:"SHARE_SECRET"`

	DatabaseURL string `env:"DATABASE_URL"`
	RedisAddr   string `env:"REDIS_ADDR"`

	SMTPAddr string `env:"SMTP_ADDR"`
	MailFrom string `env:"MAIL_FROM" envDefault:"no-reply@coachbot.local"`

	Coach CoachConfig
}

// CoachConfig holds settings for the hosted text generation service
type CoachConfig struct {
	Provider        string        `env:"COACH_PROVIDER" envDefault:"gemini"`
	Model           string        `env:"COACH_MODEL"`
	GoogleAPIKey    string        `env:"GOOGLE_API_KEY"`
	AnthropicAPIKey string        `env:"ANTHROPIC_API_KEY"`
	Temperature     float32       `env:"COACH_TEMPERATURE" envDefault:"0.5"`
	TopP            float32       `env:"COACH_TOP_P" envDefault:"0.9"`
	MaxOutputTokens int32         `env:"COACH_MAX_OUTPUT_TOKENS" envDefault:"600"`
	RetryAttempts   int           `env:"COACH_RETRY_ATTEMPTS" envDefault:"1"`
	RetryDelay      time.Duration `env:"COACH_RETRY_DELAY" envDefault:"5s"`
	DetailedPrompt  bool          `env:"COACH_DETAILED_PROMPT" envDefault:"false"`
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.Coach.Provider = strings.ToLower(strings.TrimSpace(cfg.Coach.Provider))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWorker reads configuration for cmd/worker, which sends mail only and
// does not need a generation credential
func LoadWorker() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}

// APIKey returns the credential for the selected provider
func (c *CoachConfig) APIKey() string {
	switch c.Provider {
	case ProviderAnthropic:
		return c.AnthropicAPIKey
	default:
		return c.GoogleAPIKey
	}
}

// HasQueue returns true if background jobs can be pushed to Redis
func (c *Config) HasQueue() bool {
	return c.RedisAddr != ""
}

// HasDatabase returns true if plan history should live in Postgres
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// Validate checks ranges and that the selected provider has a credential
func (c *Config) Validate() error {
	switch c.Coach.Provider {
	case ProviderGemini, ProviderAnthropic:
	default:
		return fmt.Errorf("unknown COACH_PROVIDER %q (want %s or %s)", c.Coach.Provider, ProviderGemini, ProviderAnthropic)
	}

	if strings.TrimSpace(c.Coach.APIKey()) == "" {
		if c.Coach.Provider == ProviderAnthropic {
			return fmt.Errorf("%w: set ANTHROPIC_API_KEY", ErrMissingCredential)
		}
		return fmt.Errorf("%w: set GOOGLE_API_KEY", ErrMissingCredential)
	}

	if c.Coach.Temperature < 0 || c.Coach.Temperature > 2 {
		return fmt.Errorf("COACH_TEMPERATURE must be between 0-2, got %v", c.Coach.Temperature)
	}
	if c.Coach.TopP < 0 || c.Coach.TopP > 1 {
		return fmt.Errorf("COACH_TOP_P must be between 0-1, got %v", c.Coach.TopP)
	}
	if c.Coach.MaxOutputTokens <= 0 {
		return fmt.Errorf("COACH_MAX_OUTPUT_TOKENS must be positive, got %d", c.Coach.MaxOutputTokens)
	}
	if c.Coach.RetryAttempts < 0 {
		return fmt.Errorf("COACH_RETRY_ATTEMPTS must not be negative, got %d", c.Coach.RetryAttempts)
	}
	return nil
}
