package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/briangreenhill/coachbot/internal/cache"
)

type cachedGenerator struct {
	next  Generator
	cache cache.ReadWriter
	ttl   time.Duration
}

// WithCache serves repeated prompts from c while they are younger than ttl.
// The key covers the provider, the prompt and the sampling settings.
func WithCache(gen Generator, c cache.ReadWriter, ttl time.Duration) Generator {
	if c == nil {
		return gen
	}
	return &cachedGenerator{next: gen, cache: c, ttl: ttl}
}

func (g *cachedGenerator) Name() string {
	return g.next.Name()
}

func (g *cachedGenerator) Generate(ctx context.Context, prompt string, s Sampling) (string, error) {
	log := zerolog.Ctx(ctx)
	key := cache.KeyFor(g.next.Name(), prompt,
		fmt.Sprintf("%.3f/%.3f/%d", s.Temperature, s.TopP, s.MaxOutputTokens))

	if entry, ok := g.cache.Read(key, g.ttl); ok && entry.Body != "" {
		log.Debug().Str("provider", g.next.Name()).Time("fetched_at", entry.FetchedAt).Msg("reply served from cache")
		return entry.Body, nil
	}

	text, err := g.next.Generate(ctx, prompt, s)
	if err != nil {
		return "", err
	}
	if werr := g.cache.Write(key, &cache.Entry{Provider: g.next.Name(), Body: text}); werr != nil {
		log.Warn().Err(werr).Msg("cache write failed")
	}
	return text, nil
}
