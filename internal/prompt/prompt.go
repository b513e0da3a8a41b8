// Package prompt handles coaching prompt generation from the feature catalog
package prompt

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/briangreenhill/coachbot/internal/athlete"
)

// Visual identifies a locally computed table or chart shown with a feature
type Visual string

const (
	VisualWorkout  Visual = "workout"
	VisualWarmup   Visual = "warmup"
	VisualSchedule Visual = "schedule"
	VisualMacros   Visual = "macros"
	VisualLoad     Visual = "load"
)

// ErrUnknownFeature is returned when a feature name is not in the catalog
var ErrUnknownFeature = errors.New("unknown feature")

//go:embed features.yaml
var defaultCatalog []byte

// Feature is a named coaching topic
type Feature struct {
	Name        string   `yaml:"name" json:"name"`
	Instruction string   `yaml:"instruction" json:"instruction"`
	Visuals     []Visual `yaml:"visuals" json:"visuals"`
}

// Has reports whether the feature renders the given visual
func (f Feature) Has(v Visual) bool {
	for _, fv := range f.Visuals {
		if fv == v {
			return true
		}
	}
	return false
}

// Catalog maps feature names to their templates while keeping declared order
type Catalog struct {
	features []Feature
	byName   map[string]Feature
	detailed bool
}

// Option configures a Catalog
type Option func(*Catalog)

// WithPhilosophy appends the long-form coaching philosophy to every prompt
func WithPhilosophy(enabled bool) Option {
	return func(c *Catalog) { c.detailed = enabled }
}

// Default loads the embedded catalog
func Default(opts ...Option) *Catalog {
	c, err := Parse(defaultCatalog, opts...)
	if err != nil {
		panic(fmt.Sprintf("embedded feature catalog is invalid: %v", err))
	}
	return c
}

// Parse reads a catalog from YAML
func Parse(data []byte, opts ...Option) (*Catalog, error) {
	var doc struct {
		Features []Feature `yaml:"features"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode feature catalog: %w", err)
	}
	if len(doc.Features) == 0 {
		return nil, errors.New("feature catalog is empty")
	}

	c := &Catalog{byName: make(map[string]Feature, len(doc.Features))}
	for _, f := range doc.Features {
		f.Name = strings.TrimSpace(f.Name)
		f.Instruction = strings.TrimSpace(f.Instruction)
		if f.Name == "" || f.Instruction == "" {
			return nil, fmt.Errorf("feature %q needs a name and an instruction", f.Name)
		}
		if _, dup := c.byName[f.Name]; dup {
			return nil, fmt.Errorf("duplicate feature %q", f.Name)
		}
		c.features = append(c.features, f)
		c.byName[f.Name] = f
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Names returns feature names in catalog order
func (c *Catalog) Names() []string {
	names := make([]string, 0, len(c.features))
	for _, f := range c.features {
		names = append(names, f.Name)
	}
	return names
}

// Features returns a copy of the catalog entries in order
func (c *Catalog) Features() []Feature {
	out := make([]Feature, len(c.features))
	copy(out, c.features)
	return out
}

// Lookup finds a feature by name
func (c *Catalog) Lookup(name string) (Feature, error) {
	f, ok := c.byName[strings.TrimSpace(name)]
	if !ok {
		return Feature{}, fmt.Errorf("%w: %q", ErrUnknownFeature, name)
	}
	return f, nil
}

var baseTmpl = template.Must(template.New("base").Parse(`
You are a certified professional sports coach and fitness trainer.

Athlete Profile:
Sport: {{.Sport}}
Position: {{or .Position "Not specified"}}
Age: {{.Age}}
Goal: {{.Goal}}
Injury/Risk Area: {{.InjuryLabel}}
Diet Preference: {{.Diet}}
Training Intensity: {{.Intensity}}
Training Days per Week: {{.TrainingDays}}
Session Duration: {{.SessionMinutes}} minutes

Follow safe training practices. Avoid medical diagnosis.
`))

// Build assembles the prompt for the named feature
func (c *Catalog) Build(feature string, p athlete.Profile) (string, error) {
	f, err := c.Lookup(feature)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := baseTmpl.Execute(&b, p); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	if c.detailed {
		b.WriteString("\n")
		b.WriteString(Philosophy())
		b.WriteString("\n")
	}
	b.WriteString(f.Instruction)
	return b.String(), nil
}
