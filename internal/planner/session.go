// Package planner computes the illustrative tables shown next to a coaching
// reply. Everything here is derived from the athlete profile alone.
package planner

import (
	"errors"
	"fmt"
)

// Fixed warm-up and cool-down lengths in minutes
const (
	DefaultWarmup   = 10
	DefaultCooldown = 10
)

// Block names used in workout rows
const (
	BlockWarmup   = "Warm-up"
	BlockCardio   = "Cardio"
	BlockStrength = "Strength"
	BlockCooldown = "Cool-down"
)

// ErrSessionTooShort is returned when a session cannot fit warm-up and cool-down
var ErrSessionTooShort = errors.New("session shorter than warm-up plus cool-down")

// Session is a session length split into blocks, in minutes
type Session struct {
	Warmup   int
	Cardio   int
	Strength int
	Cooldown int
}

// Total returns the session length
func (s Session) Total() int {
	return s.Warmup + s.Cardio + s.Strength + s.Cooldown
}

// SplitSession removes warm-up and cool-down from total and splits the rest
// 50/50 between cardio and strength. Odd minutes go to strength, so
// Cardio+Strength always equals total-warmup-cooldown.
func SplitSession(total, warmup, cooldown int) (Session, error) {
	if warmup < 0 || cooldown < 0 {
		return Session{}, fmt.Errorf("negative warm-up (%d) or cool-down (%d)", warmup, cooldown)
	}
	if total < warmup+cooldown {
		return Session{}, fmt.Errorf("%w: %d < %d+%d", ErrSessionTooShort, total, warmup, cooldown)
	}
	work := total - warmup - cooldown
	cardio := work / 2
	return Session{
		Warmup:   warmup,
		Cardio:   cardio,
		Strength: work - cardio,
		Cooldown: cooldown,
	}, nil
}

// Row is one line of a workout table
type Row struct {
	Block    string `json:"block"`
	Exercise string `json:"exercise"`
	Minutes  int    `json:"minutes"`
}

// Allocate divides minutes evenly among names. The remainder is handed out
// one minute at a time from the first row, so the rows sum to minutes.
// When there are more names than minutes only the first names are used,
// keeping every row at one minute or more. No names or no minutes yields no rows.
func Allocate(block string, names []string, minutes int) []Row {
	if len(names) == 0 || minutes <= 0 {
		return nil
	}
	if len(names) > minutes {
		names = names[:minutes]
	}
	each := minutes / len(names)
	extra := minutes % len(names)

	rows := make([]Row, 0, len(names))
	for i, name := range names {
		m := each
		if i < extra {
			m++
		}
		rows = append(rows, Row{Block: block, Exercise: name, Minutes: m})
	}
	return rows
}

// TotalMinutes sums the minutes of the rows
func TotalMinutes(rows []Row) int {
	total := 0
	for _, r := range rows {
		total += r.Minutes
	}
	return total
}
