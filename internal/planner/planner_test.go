package planner

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/briangreenhill/coachbot/internal/athlete"
)

func profile(mutate func(p *athlete.Profile)) athlete.Profile {
	p := athlete.Default()
	p.Sport = "Football"
	p.Goal = "Build stamina"
	if mutate != nil {
		mutate(&p)
	}
	return p
}

func TestSplitSession(t *testing.T) {
	tests := []struct {
		total    int
		cardio   int
		strength int
	}{
		{20, 0, 0},
		{30, 5, 5},
		{60, 20, 20},
		{61, 20, 21},
		{95, 37, 38},
		{180, 80, 80},
	}

	for _, tt := range tests {
		s, err := SplitSession(tt.total, DefaultWarmup, DefaultCooldown)
		if err != nil {
			t.Fatalf("SplitSession(%d) failed: %v", tt.total, err)
		}
		if s.Cardio != tt.cardio || s.Strength != tt.strength {
			t.Errorf("SplitSession(%d) = cardio %d strength %d, want %d/%d", tt.total, s.Cardio, s.Strength, tt.cardio, tt.strength)
		}
		if s.Total() != tt.total {
			t.Errorf("SplitSession(%d) total = %d", tt.total, s.Total())
		}
	}
}

func TestSplitSessionWorkAddsUp(t *testing.T) {
	for total := DefaultWarmup + DefaultCooldown; total <= 240; total++ {
		s, err := SplitSession(total, DefaultWarmup, DefaultCooldown)
		require.NoError(t, err)
		if s.Cardio+s.Strength != total-DefaultWarmup-DefaultCooldown {
			t.Fatalf("total %d: cardio %d + strength %d does not equal work", total, s.Cardio, s.Strength)
		}
	}
}

func TestSplitSessionTooShort(t *testing.T) {
	_, err := SplitSession(15, DefaultWarmup, DefaultCooldown)
	if !errors.Is(err, ErrSessionTooShort) {
		t.Fatalf("Expected ErrSessionTooShort, got %v", err)
	}
	_, err = SplitSession(30, -1, 10)
	assert.Error(t, err)
}

func TestAllocate(t *testing.T) {
	got := Allocate(BlockCardio, []string{"a", "b", "c"}, 20)
	want := []Row{
		{Block: BlockCardio, Exercise: "a", Minutes: 7},
		{Block: BlockCardio, Exercise: "b", Minutes: 7},
		{Block: BlockCardio, Exercise: "c", Minutes: 6},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Allocate mismatch (-want +got):\n%s", diff)
	}
}

func TestAllocateEdgeCases(t *testing.T) {
	assert.Nil(t, Allocate(BlockCardio, nil, 20), "empty list must not divide by zero")
	assert.Nil(t, Allocate(BlockCardio, []string{"a"}, 0))

	rows := Allocate(BlockStrength, []string{"a", "b", "c", "d", "e"}, 3)
	require.Len(t, rows, 3)
	for _, r := range rows {
		assert.Equal(t, 1, r.Minutes)
	}
}

func TestAllocateAlwaysSums(t *testing.T) {
	exercises := []string{"a", "b", "c", "d"}
	for n := 1; n <= len(exercises); n++ {
		for minutes := 1; minutes <= 90; minutes++ {
			rows := Allocate(BlockCardio, exercises[:n], minutes)
			if TotalMinutes(rows) != minutes {
				t.Fatalf("%d exercises over %d minutes summed to %d", n, minutes, TotalMinutes(rows))
			}
		}
	}
}

func TestInjuredAreas(t *testing.T) {
	tests := []struct {
		injury string
		want   []string
	}{
		{"", []string{}},
		{"None", []string{}},
		{"Knee strain", []string{"knee"}},
		{"Lower back and left KNEE", []string{"back", "knee"}},
		{"Torn ACL", []string{"knee"}},
		{"Rotator cuff", []string{"shoulder"}},
		{"Groin pull", []string{"hip"}},
		{"Sore knees and shoulders", []string{"knee", "shoulder"}},
		{"Patellar tendinitis", []string{"knee"}},
		{"Herniated disc", []string{"back"}},
		{"Shin splints", []string{"calf"}},
		{"Whiplash", []string{"neck"}},
		{"Chip fracture, left ankle", []string{"ankle"}},
		{"Handball player, no injury", []string{}},
		{"Backstroke swimmer", []string{}},
	}
	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, InjuredAreas(tt.injury)); diff != "" {
			t.Errorf("InjuredAreas(%q) mismatch (-want +got):\n%s", tt.injury, diff)
		}
	}
}

func TestFilterForInjury(t *testing.T) {
	got := names(FilterForInjury(cardioPool, "Knee strain", lowImpact))
	assert.Equal(t, []string{"Rowing machine", "Swimming"}, got)

	got = names(FilterForInjury(cardioPool, "", lowImpact))
	assert.Len(t, got, len(cardioPool))

	got = names(FilterForInjury(cardioPool, "Whiplash", lowImpact))
	assert.Equal(t, []string{"Interval running", "Stationary cycling", "Rowing machine", "Jump rope"}, got)
}

func TestFilterForInjuryNeverEmpty(t *testing.T) {
	injuries := []string{
		"knee and shoulder",
		"knee, shoulder, back, ankle, hip, neck, wrist, elbow, hamstring, calf",
		"everything hurts: knee ankle shoulder",
	}
	pools := map[string][]Exercise{
		"cardio":   cardioPool,
		"strength": strengthPool,
		"warmup":   warmupPool,
		"cooldown": cooldownPool,
	}
	for _, injury := range injuries {
		for name, pool := range pools {
			got := FilterForInjury(pool, injury, lowImpact)
			if len(got) == 0 {
				t.Errorf("%s pool filtered to nothing for %q", name, injury)
			}
		}
	}

	got := names(FilterForInjury(cardioPool, "knee and shoulder", lowImpact))
	assert.Equal(t, names(lowImpact), got)
}

func TestWorkout(t *testing.T) {
	rows, err := Workout(profile(func(p *athlete.Profile) { p.Injury = "Knee strain" }))
	require.NoError(t, err)

	want := []Row{
		{Block: BlockWarmup, Exercise: "Dynamic warm-up", Minutes: 10},
		{Block: BlockCardio, Exercise: "Rowing machine", Minutes: 10},
		{Block: BlockCardio, Exercise: "Swimming", Minutes: 10},
		{Block: BlockStrength, Exercise: "Romanian deadlifts", Minutes: 7},
		{Block: BlockStrength, Exercise: "Push-ups", Minutes: 7},
		{Block: BlockStrength, Exercise: "Inverted rows", Minutes: 6},
		{Block: BlockCooldown, Exercise: "Stretching & breathing", Minutes: 10},
	}
	if diff := cmp.Diff(want, rows); diff != "" {
		t.Errorf("Workout mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkoutSumsToSession(t *testing.T) {
	for _, intensity := range athlete.Intensities {
		for minutes := athlete.MinSessionMinutes; minutes <= athlete.MaxSessionMinutes; minutes += 5 {
			p := profile(func(p *athlete.Profile) {
				p.Intensity = intensity
				p.SessionMinutes = minutes
				p.Injury = "ankle"
			})
			rows, err := Workout(p)
			require.NoError(t, err)
			assert.Equal(t, minutes, TotalMinutes(rows), "intensity %s minutes %d", intensity, minutes)
		}
	}
}

func TestWorkoutTooShort(t *testing.T) {
	_, err := Workout(profile(func(p *athlete.Profile) { p.SessionMinutes = 10 }))
	assert.ErrorIs(t, err, ErrSessionTooShort)
}

func TestWarmupCooldown(t *testing.T) {
	rows := WarmupCooldown(profile(nil))
	assert.Equal(t, DefaultWarmup+DefaultCooldown, TotalMinutes(rows))

	warm := 0
	for _, r := range rows {
		if r.Block == BlockWarmup {
			warm += r.Minutes
		}
	}
	assert.Equal(t, DefaultWarmup, warm)
}

func TestWeeklySchedule(t *testing.T) {
	days := WeeklySchedule(profile(nil))
	want := []Day{
		{Name: "Mon", Focus: "Strength", Minutes: 60, Training: true},
		{Name: "Tue", Focus: "Conditioning", Minutes: 60, Training: true},
		{Name: "Wed", Focus: FocusActiveRecovery, Minutes: ActiveRecoveryMinutes},
		{Name: "Thu", Focus: "Sport skills", Minutes: 60, Training: true},
		{Name: "Fri", Focus: FocusActiveRecovery, Minutes: ActiveRecoveryMinutes},
		{Name: "Sat", Focus: "Speed & agility", Minutes: 60, Training: true},
		{Name: "Sun", Focus: FocusActiveRecovery, Minutes: ActiveRecoveryMinutes},
	}
	if diff := cmp.Diff(want, days); diff != "" {
		t.Errorf("WeeklySchedule mismatch (-want +got):\n%s", diff)
	}
}

func TestWeeklyScheduleTrainingDayCount(t *testing.T) {
	for n := athlete.MinTrainingDays; n <= athlete.MaxTrainingDays; n++ {
		days := WeeklySchedule(profile(func(p *athlete.Profile) { p.TrainingDays = n }))
		require.Len(t, days, 7)
		count := 0
		for _, d := range days {
			if d.Training {
				count++
			}
		}
		if count != n {
			t.Errorf("TrainingDays=%d produced %d training days", n, count)
		}
	}
}

func TestWeeklyLoad(t *testing.T) {
	loads := WeeklyLoad(profile(nil))
	require.Len(t, loads, 7)
	assert.Equal(t, 360.0, loads[0].Load)
	assert.Equal(t, 40.0, loads[2].Load)

	total := 0.0
	for _, l := range loads {
		total += l.Load
	}
	assert.Equal(t, 1560.0, total)

	high := WeeklyLoad(profile(func(p *athlete.Profile) { p.Intensity = athlete.IntensityHigh }))
	assert.Greater(t, high[0].Load, loads[0].Load)
}

func TestMacros(t *testing.T) {
	tests := []struct {
		goal string
		diet string
		want MacroSplit
	}{
		{"Build muscle", "No Preference", MacroSplit{30, 45, 25}},
		{"Build stamina", "Non-Vegetarian", MacroSplit{20, 60, 20}},
		{"Build stamina", "Vegan", MacroSplit{15, 65, 20}},
		{"Weight loss", "Vegetarian", MacroSplit{30, 40, 30}},
		{"Recovery", "Gluten-Free", MacroSplit{30, 40, 30}},
		{"Anything", "Keto", MacroSplit{25, 5, 70}},
		{"Play better", "No Preference", MacroSplit{25, 50, 25}},
	}
	for _, tt := range tests {
		got := Macros(tt.goal, tt.diet)
		if got != tt.want {
			t.Errorf("Macros(%q, %q) = %+v, want %+v", tt.goal, tt.diet, got, tt.want)
		}
	}
}

func TestMacrosAlwaysTotal100(t *testing.T) {
	goals := []string{"", "muscle", "lose fat", "endurance", "rehab", "speed"}
	for _, g := range goals {
		for _, d := range athlete.Diets {
			if got := Macros(g, d).Total(); got != 100 {
				t.Errorf("Macros(%q, %q) totals %d", g, d, got)
			}
		}
	}
}
