package planner

import (
	"github.com/briangreenhill/coachbot/internal/athlete"
)

// Weekdays in schedule order
var Weekdays = []string{"Mon", "Tue", "Wed", "Thu", "Fri", "Sat", "Sun"}

// Day focus labels for non-training days
const (
	FocusRest           = "Rest"
	FocusActiveRecovery = "Active recovery"
)

// ActiveRecoveryMinutes is the length of an active recovery session
const ActiveRecoveryMinutes = 20

var trainingFocus = []string{
	"Strength",
	"Conditioning",
	"Sport skills",
	"Speed & agility",
	"Strength endurance",
	"Tempo conditioning",
	"Technique",
}

// Day is one row of the weekly schedule
type Day struct {
	Name     string `json:"name"`
	Focus    string `json:"focus"`
	Minutes  int    `json:"minutes"`
	Training bool   `json:"training"`
}

// DayLoad is the training load of a day, used by the load chart
type DayLoad struct {
	Name string  `json:"name"`
	Load float64 `json:"load"`
}

// trainingDayIndexes spreads n training days evenly over the week
func trainingDayIndexes(n int) map[int]bool {
	if n < 0 {
		n = 0
	}
	if n > len(Weekdays) {
		n = len(Weekdays)
	}
	idx := make(map[int]bool, n)
	for i := 0; i < n; i++ {
		idx[i*len(Weekdays)/n] = true
	}
	return idx
}

// WeeklySchedule lays the training days out over the week. A non-training
// day directly after a training day is active recovery; the rest are rest days.
func WeeklySchedule(p athlete.Profile) []Day {
	training := trainingDayIndexes(p.TrainingDays)
	days := make([]Day, 0, len(Weekdays))
	n := 0
	for i, name := range Weekdays {
		switch {
		case training[i]:
			days = append(days, Day{
				Name:     name,
				Focus:    trainingFocus[n%len(trainingFocus)],
				Minutes:  p.SessionMinutes,
				Training: true,
			})
			n++
		case i > 0 && training[i-1]:
			days = append(days, Day{Name: name, Focus: FocusActiveRecovery, Minutes: ActiveRecoveryMinutes})
		default:
			days = append(days, Day{Name: name, Focus: FocusRest})
		}
	}
	return days
}

// IntensityFactor is the session RPE used for load (minutes x RPE)
func IntensityFactor(intensity string) float64 {
	switch intensity {
	case athlete.IntensityLow:
		return 4
	case athlete.IntensityHigh:
		return 8
	default:
		return 6
	}
}

// recoveryFactor is the session RPE of an active recovery day
const recoveryFactor = 2

// WeeklyLoad computes the per-day load of the weekly schedule
func WeeklyLoad(p athlete.Profile) []DayLoad {
	factor := IntensityFactor(p.Intensity)
	days := WeeklySchedule(p)
	loads := make([]DayLoad, len(days))
	for i, d := range days {
		f := factor
		if !d.Training {
			f = recoveryFactor
		}
		loads[i] = DayLoad{Name: d.Name, Load: float64(d.Minutes) * f}
	}
	return loads
}
