// Package store keeps a history of generated coaching plans
package store

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/briangreenhill/coachbot/internal/athlete"
)

// ErrNotFound is returned when a plan does not exist
var ErrNotFound = errors.New("plan not found")

// Plan is a generated coaching reply and the request that produced it
type Plan struct {
	ID        uuid.UUID       `json:"id"`
	Feature   string          `json:"feature"`
	Profile   athlete.Profile `json:"profile"`
	Prompt    string          `json:"prompt"`
	Response  string          `json:"response"`
	Provider  string          `json:"provider"`
	CreatedAt time.Time       `json:"created_at"`
}

// Store persists plans
type Store interface {
	Save(ctx context.Context, p *Plan) error
	Get(ctx context.Context, id uuid.UUID) (*Plan, error)
	Recent(ctx context.Context, limit int) ([]Plan, error)
}

// MemoryStore keeps plans in process memory
type MemoryStore struct {
	mu    sync.RWMutex
	plans map[uuid.UUID]Plan
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{plans: make(map[uuid.UUID]Plan)}
}

// Save stores the plan, assigning an ID and timestamp when missing
func (m *MemoryStore) Save(_ context.Context, p *Plan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[p.ID] = *p
	return nil
}

// Get returns the plan with the given ID
func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Plan, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.plans[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

// Recent returns up to limit plans, newest first
func (m *MemoryStore) Recent(_ context.Context, limit int) ([]Plan, error) {
	m.mu.RLock()
	out := make([]Plan, 0, len(m.plans))
	for _, p := range m.plans {
		out = append(out, p)
	}
	m.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

var _ Store = (*MemoryStore)(nil)
