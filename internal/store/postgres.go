package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS plans (
    id          UUID PRIMARY KEY,
    feature     TEXT        NOT NULL,
    profile     JSONB       NOT NULL,
    prompt      TEXT        NOT NULL,
    response    TEXT        NOT NULL,
    provider    TEXT        NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS plans_created_at_idx ON plans (created_at DESC);
`

// PostgresStore keeps plans in a Postgres table
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps an existing pool
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the plans table if it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate plans table: %w", err)
	}
	return nil
}

// Save inserts the plan, assigning an ID and timestamp when missing
func (s *PostgresStore) Save(ctx context.Context, p *Plan) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	profile, err := json.Marshal(p.Profile)
	if err != nil {
		return fmt.Errorf("marshal profile: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO plans (id, feature, profile, prompt, response, provider, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		p.ID, p.Feature, profile, p.Prompt, p.Response, p.Provider, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert plan: %w", err)
	}
	return nil
}

// Get returns the plan with the given ID
func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Plan, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, feature, profile, prompt, response, provider, created_at
		 FROM plans WHERE id = $1`, id)
	p, err := scanPlan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return p, nil
}

// Recent returns up to limit plans, newest first
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]Plan, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, feature, profile, prompt, response, provider, created_at
		 FROM plans ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var out []Plan
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan plan: %w", err)
		}
		out = append(out, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return out, nil
}

func scanPlan(row pgx.Row) (*Plan, error) {
	var (
		p       Plan
		profile []byte
	)
	if err := row.Scan(&p.ID, &p.Feature, &profile, &p.Prompt, &p.Response, &p.Provider, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(profile, &p.Profile); err != nil {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return &p, nil
}

var _ Store = (*PostgresStore)(nil)
