package coach

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/briangreenhill/coachbot/internal/athlete"
	"github.com/briangreenhill/coachbot/internal/planner"
	"github.com/briangreenhill/coachbot/internal/prompt"
	"github.com/briangreenhill/coachbot/internal/store"
)

// Visuals are the locally computed tables and charts shown next to a reply.
// They depend on the profile only, never on the generated text.
type Visuals struct {
	Workout        []planner.Row       `json:"workout,omitempty"`
	WarmupCooldown []planner.Row       `json:"warmup_cooldown,omitempty"`
	Schedule       []planner.Day       `json:"schedule,omitempty"`
	Load           []planner.DayLoad   `json:"load,omitempty"`
	Macros         *planner.MacroSplit `json:"macros,omitempty"`
}

// Empty reports whether the feature has no visuals
func (v Visuals) Empty() bool {
	return len(v.Workout) == 0 && len(v.WarmupCooldown) == 0 &&
		len(v.Schedule) == 0 && len(v.Load) == 0 && v.Macros == nil
}

// BuildVisuals computes the visuals a feature declares for the profile
func BuildVisuals(f prompt.Feature, p athlete.Profile) (Visuals, error) {
	var v Visuals
	if f.Has(prompt.VisualWorkout) {
		rows, err := planner.Workout(p)
		if err != nil {
			return Visuals{}, fmt.Errorf("workout table: %w", err)
		}
		v.Workout = rows
	}
	if f.Has(prompt.VisualWarmup) {
		v.WarmupCooldown = planner.WarmupCooldown(p)
	}
	if f.Has(prompt.VisualSchedule) {
		v.Schedule = planner.WeeklySchedule(p)
	}
	if f.Has(prompt.VisualLoad) {
		v.Load = planner.WeeklyLoad(p)
	}
	if f.Has(prompt.VisualMacros) {
		m := planner.Macros(p.Goal, p.Diet)
		v.Macros = &m
	}
	return v, nil
}

// Plan is a saved reply together with its feature and visuals
type Plan struct {
	store.Plan
	Topic   prompt.Feature `json:"topic"`
	Visuals Visuals        `json:"visuals"`
}

// ServiceOptions wires a Service
type ServiceOptions struct {
	Generator Generator
	Catalog   *prompt.Catalog
	Store     store.Store
	Sampling  Sampling
	Logger    zerolog.Logger
}

// Service runs the profile to reply pipeline
type Service struct {
	gen      Generator
	catalog  *prompt.Catalog
	store    store.Store
	sampling Sampling
	log      zerolog.Logger
}

// NewService creates a Service. A nil catalog uses the embedded one and a
// nil store keeps plans in memory.
func NewService(opts ServiceOptions) *Service {
	s := &Service{
		gen:      opts.Generator,
		catalog:  opts.Catalog,
		store:    opts.Store,
		sampling: opts.Sampling,
		log:      opts.Logger,
	}
	if s.catalog == nil {
		s.catalog = prompt.Default()
	}
	if s.store == nil {
		s.store = store.NewMemoryStore()
	}
	if s.sampling == (Sampling{}) {
		s.sampling = DefaultSampling()
	}
	return s
}

// Catalog returns the feature catalog in use
func (s *Service) Catalog() *prompt.Catalog {
	return s.catalog
}

// Provider returns the name of the configured generator
func (s *Service) Provider() string {
	return s.gen.Name()
}

// Plan validates the profile, asks the generator for a reply, stores it and
// computes the visuals for the feature.
func (s *Service) Plan(ctx context.Context, feature string, p athlete.Profile) (*Plan, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	f, err := s.catalog.Lookup(feature)
	if err != nil {
		return nil, err
	}
	text, err := s.catalog.Build(f.Name, p)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	reply, err := s.gen.Generate(ctx, text, s.sampling)
	if err != nil {
		s.log.Error().Err(err).Str("feature", f.Name).Str("provider", s.gen.Name()).Msg("generation failed")
		return nil, err
	}
	s.log.Info().
		Str("feature", f.Name).
		Str("provider", s.gen.Name()).
		Dur("duration", time.Since(start)).
		Int("reply_len", len(reply)).
		Msg("plan generated")

	saved := store.Plan{
		Feature:  f.Name,
		Profile:  p,
		Prompt:   text,
		Response: reply,
		Provider: s.gen.Name(),
	}
	if err := s.store.Save(ctx, &saved); err != nil {
		return nil, fmt.Errorf("save plan: %w", err)
	}

	return s.assemble(saved, f)
}

// Get loads a saved plan and recomputes its visuals
func (s *Service) Get(ctx context.Context, id string) (*Plan, error) {
	uid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	saved, err := s.store.Get(ctx, uid)
	if err != nil {
		return nil, err
	}
	f, err := s.catalog.Lookup(saved.Feature)
	if err != nil {
		// plans from a feature that was since removed still render their text
		return &Plan{Plan: *saved, Topic: prompt.Feature{Name: saved.Feature}}, nil
	}
	return s.assemble(*saved, f)
}

func parseID(id string) (uuid.UUID, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad id %q", store.ErrNotFound, id)
	}
	return uid, nil
}

// Recent lists recently saved plans, newest first
func (s *Service) Recent(ctx context.Context, limit int) ([]store.Plan, error) {
	return s.store.Recent(ctx, limit)
}

func (s *Service) assemble(saved store.Plan, f prompt.Feature) (*Plan, error) {
	v, err := BuildVisuals(f, saved.Profile)
	if err != nil {
		return nil, err
	}
	return &Plan{Plan: saved, Topic: f, Visuals: v}, nil
}
