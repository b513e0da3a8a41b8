package planner

import (
	"github.com/briangreenhill/coachbot/internal/athlete"
)

var cardioPool = []Exercise{
	{Name: "Interval running", Stresses: []string{"knee", "ankle", "calf", "hamstring", "hip"}},
	{Name: "Stationary cycling", Stresses: []string{"knee"}},
	{Name: "Rowing machine", Stresses: []string{"back", "shoulder", "wrist"}},
	{Name: "Jump rope", Stresses: []string{"ankle", "calf", "knee"}},
	{Name: "Swimming", Stresses: []string{"shoulder", "neck"}},
}

var strengthPool = []Exercise{
	{Name: "Goblet squats", Stresses: []string{"knee", "hip", "back"}},
	{Name: "Romanian deadlifts", Stresses: []string{"hamstring", "back"}},
	{Name: "Push-ups", Stresses: []string{"wrist", "shoulder", "elbow"}},
	{Name: "Inverted rows", Stresses: []string{"shoulder", "elbow"}},
	{Name: "Reverse lunges", Stresses: []string{"knee", "hip", "ankle"}},
	{Name: "Dead bugs", Stresses: []string{"neck"}},
}

var warmupPool = []Exercise{
	{Name: "Light jog", Stresses: []string{"knee", "ankle", "calf"}},
	{Name: "Leg swings", Stresses: []string{"hip", "hamstring"}},
	{Name: "Arm circles", Stresses: []string{"shoulder"}},
	{Name: "High knees", Stresses: []string{"knee", "hip", "ankle"}},
}

var cooldownPool = []Exercise{
	{Name: "Easy walk", Stresses: []string{"ankle"}},
	{Name: "Static stretching", Stresses: []string{"hamstring"}},
	{Name: "Foam rolling", Stresses: []string{"back"}},
	{Name: "Box breathing"},
}

// lowImpact substitutes for any pool the injury filter empties
var lowImpact = []Exercise{
	{Name: "Low-impact mobility circuit"},
	{Name: "Core bracing holds"},
}

// exerciseCount returns how many exercises fill a block at the given intensity
func exerciseCount(intensity string) int {
	switch intensity {
	case athlete.IntensityLow:
		return 2
	case athlete.IntensityHigh:
		return 4
	default:
		return 3
	}
}

func pick(pool []Exercise, injury string, n int) []string {
	safe := FilterForInjury(pool, injury, lowImpact)
	if len(safe) > n {
		safe = safe[:n]
	}
	return names(safe)
}

// Workout builds the session table: one warm-up row, the cardio and
// strength rows, and one cool-down row. The rows sum to the session length.
func Workout(p athlete.Profile) ([]Row, error) {
	s, err := SplitSession(p.SessionMinutes, DefaultWarmup, DefaultCooldown)
	if err != nil {
		return nil, err
	}
	n := exerciseCount(p.Intensity)

	rows := []Row{{Block: BlockWarmup, Exercise: "Dynamic warm-up", Minutes: s.Warmup}}
	rows = append(rows, Allocate(BlockCardio, pick(cardioPool, p.Injury, n), s.Cardio)...)
	rows = append(rows, Allocate(BlockStrength, pick(strengthPool, p.Injury, n), s.Strength)...)
	rows = append(rows, Row{Block: BlockCooldown, Exercise: "Stretching & breathing", Minutes: s.Cooldown})
	return rows, nil
}

// WarmupCooldown builds the warm-up and cool-down drill table
func WarmupCooldown(p athlete.Profile) []Row {
	rows := Allocate(BlockWarmup, names(FilterForInjury(warmupPool, p.Injury, lowImpact)), DefaultWarmup)
	return append(rows, Allocate(BlockCooldown, names(FilterForInjury(cooldownPool, p.Injury, lowImpact)), DefaultCooldown)...)
}
