// Package coachtest provides a scripted coach.Generator for tests
package coachtest

import (
	"context"
	"sync"

	"github.com/briangreenhill/coachbot/internal/coach"
)

// Generator returns queued errors first, then Reply. It records every prompt.
type Generator struct {
	Reply string
	Errs  []error

	mu      sync.Mutex
	prompts []string
}

// New returns a generator that always answers with reply
func New(reply string) *Generator {
	return &Generator{Reply: reply}
}

func (g *Generator) Name() string {
	return "fake"
}

func (g *Generator) Generate(_ context.Context, prompt string, _ coach.Sampling) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	if len(g.Errs) > 0 {
		err := g.Errs[0]
		g.Errs = g.Errs[1:]
		if err != nil {
			return "", err
		}
	}
	return g.Reply, nil
}

// Prompts returns the prompts received so far
func (g *Generator) Prompts() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.prompts...)
}

var _ coach.Generator = (*Generator)(nil)
