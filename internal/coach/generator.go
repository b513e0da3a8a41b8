// Package coach sends assembled prompts to a hosted text generation service
package coach

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	// ErrRateLimited means the service refused the call for quota reasons
	ErrRateLimited = errors.New("rate limited")
	// ErrEmptyResponse means the service answered without any text
	ErrEmptyResponse = errors.New("empty response")
)

// Sampling controls how the service samples its reply
type Sampling struct {
	Temperature     float32
	TopP            float32
	MaxOutputTokens int32
}

// DefaultSampling matches the tuning the coaching prompts were written for
func DefaultSampling() Sampling {
	return Sampling{Temperature: 0.5, TopP: 0.9, MaxOutputTokens: 600}
}

// Generator produces a reply for a single prompt
type Generator interface {
	// Name returns the provider name (e.g., "gemini", "anthropic")
	Name() string

	// Generate sends one prompt and returns the reply text
	Generate(ctx context.Context, prompt string, s Sampling) (string, error)
}

// Registry manages the available generators
type Registry struct {
	generators map[string]Generator
}

// NewRegistry creates an empty generator registry
func NewRegistry() *Registry {
	return &Registry{generators: make(map[string]Generator)}
}

// Register adds a generator, replacing any with the same name
func (r *Registry) Register(g Generator) {
	r.generators[strings.ToLower(g.Name())] = g
}

// Get returns the generator with the given name
func (r *Registry) Get(name string) (Generator, bool) {
	g, ok := r.generators[strings.ToLower(strings.TrimSpace(name))]
	return g, ok
}

// List returns all registered generator names, sorted
func (r *Registry) List() []string {
	names := make([]string, 0, len(r.generators))
	for name := range r.generators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
