// Package athlete holds the profile collected from the coaching form
package athlete

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Form bounds. The widgets enforce them in the browser; Validate enforces them again.
const (
	MinAge            = 10
	MaxAge            = 80
	DefaultAge        = 21
	MinTrainingDays   = 1
	MaxTrainingDays   = 7
	DefaultDays       = 4
	MinSessionMinutes = 30
	MaxSessionMinutes = 180
	DefaultMinutes    = 60
)

// Intensity levels offered by the form
const (
	IntensityLow      = "Low"
	IntensityModerate = "Moderate"
	IntensityHigh     = "High"
)

// DietNoPreference is the default diet selection
const DietNoPreference = "No Preference"

// Diets lists the diet preferences in select order
var Diets = []string{DietNoPreference, "Vegetarian", "Non-Vegetarian", "Vegan", "Keto", "Gluten-Free"}

// Intensities lists the intensity levels in select order
var Intensities = []string{IntensityLow, IntensityModerate, IntensityHigh}

// Profile is the flat set of attributes describing an athlete for one request
type Profile struct {
	Sport          string `json:"sport"`
	Position       string `json:"position"`
	Age            int    `json:"age"`
	Injury         string `json:"injury"`
	Goal           string `json:"goal"`
	Diet           string `json:"diet"`
	Intensity      string `json:"intensity"`
	TrainingDays   int    `json:"training_days"`
	SessionMinutes int    `json:"session_minutes"`
}

// Default returns a profile populated with the widget defaults
func Default() Profile {
	return Profile{
		Age:            DefaultAge,
		Diet:           DietNoPreference,
		Intensity:      IntensityModerate,
		TrainingDays:   DefaultDays,
		SessionMinutes: DefaultMinutes,
	}
}

// ValidationError lists the user-facing problems found in a profile
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid athlete profile: " + strings.Join(e.Problems, "; ")
}

// FromForm builds a profile from submitted form values. Blank numeric
// fields fall back to defaults; unparsable ones are reported as errors.
func FromForm(form url.Values) (Profile, error) {
	p := Default()
	p.Sport = strings.TrimSpace(form.Get("sport"))
	p.Position = strings.TrimSpace(form.Get("position"))
	p.Injury = strings.TrimSpace(form.Get("injury"))
	p.Goal = strings.TrimSpace(form.Get("goal"))
	if v := strings.TrimSpace(form.Get("diet")); v != "" {
		p.Diet = v
	}
	if v := strings.TrimSpace(form.Get("intensity")); v != "" {
		p.Intensity = v
	}

	var problems []string
	parseInt := func(field, label string, dst *int) {
		raw := strings.TrimSpace(form.Get(field))
		if raw == "" {
			return
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s must be a whole number", label))
			return
		}
		*dst = n
	}
	parseInt("age", "Age", &p.Age)
	parseInt("training_days", "Training days", &p.TrainingDays)
	parseInt("session_minutes", "Session duration", &p.SessionMinutes)

	if len(problems) > 0 {
		return p, &ValidationError{Problems: problems}
	}
	return p, nil
}

// Validate checks the required fields and widget ranges
func (p Profile) Validate() error {
	var problems []string
	if p.Sport == "" || p.Goal == "" {
		problems = append(problems, "Please enter at least the Sport and Goal.")
	}
	if p.Age < MinAge || p.Age > MaxAge {
		problems = append(problems, fmt.Sprintf("Age must be between %d and %d.", MinAge, MaxAge))
	}
	if p.TrainingDays < MinTrainingDays || p.TrainingDays > MaxTrainingDays {
		problems = append(problems, fmt.Sprintf("Training days must be between %d and %d.", MinTrainingDays, MaxTrainingDays))
	}
	if p.SessionMinutes < MinSessionMinutes || p.SessionMinutes > MaxSessionMinutes {
		problems = append(problems, fmt.Sprintf("Session duration must be between %d and %d minutes.", MinSessionMinutes, MaxSessionMinutes))
	}
	if !contains(Diets, p.Diet) {
		problems = append(problems, fmt.Sprintf("Unknown diet preference %q.", p.Diet))
	}
	if !contains(Intensities, p.Intensity) {
		problems = append(problems, fmt.Sprintf("Unknown intensity %q.", p.Intensity))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// HasInjury reports whether an injury or risk area was entered
func (p Profile) HasInjury() bool {
	switch strings.ToLower(strings.TrimSpace(p.Injury)) {
	case "", "none", "no", "n/a", "na", "-":
		return false
	}
	return true
}

// InjuryLabel returns the injury text shown to the model
func (p Profile) InjuryLabel() string {
	if !p.HasInjury() {
		return "None"
	}
	return p.Injury
}

// Values encodes the profile back into form values, used to pre-fill the form
func (p Profile) Values() url.Values {
	v := url.Values{}
	v.Set("sport", p.Sport)
	v.Set("position", p.Position)
	v.Set("age", strconv.Itoa(p.Age))
	v.Set("injury", p.Injury)
	v.Set("goal", p.Goal)
	v.Set("diet", p.Diet)
	v.Set("intensity", p.Intensity)
	v.Set("training_days", strconv.Itoa(p.TrainingDays))
	v.Set("session_minutes", strconv.Itoa(p.SessionMinutes))
	return v
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
