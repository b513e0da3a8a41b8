package cli

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/briangreenhill/coachbot/internal/coach"
	"github.com/briangreenhill/coachbot/internal/planner"
)

var (
	ColorPrimary = lipgloss.Color("#27ae60")
	ColorMuted   = lipgloss.Color("#95a5a6")
	ColorError   = lipgloss.Color("#e74c3c")

	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorPrimary)

	SubtitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorMuted)

	ErrorStyle = lipgloss.NewStyle().
			Foreground(ColorError)

	HelpStyle = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Italic(true)

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorMuted)).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...)
}

func rowsTable(title string, rows []planner.Row) string {
	t := newTable("Block", "Exercise", "Minutes")
	for _, r := range rows {
		t.Row(r.Block, r.Exercise, strconv.Itoa(r.Minutes))
	}
	return SubtitleStyle.Render(title) + "\n" + t.String()
}

func scheduleTable(days []planner.Day) string {
	t := newTable("Day", "Focus", "Minutes")
	for _, d := range days {
		t.Row(d.Name, d.Focus, strconv.Itoa(d.Minutes))
	}
	return SubtitleStyle.Render("Weekly schedule") + "\n" + t.String()
}

func loadTable(loads []planner.DayLoad) string {
	t := newTable("Day", "Load")
	for _, l := range loads {
		t.Row(l.Name, strconv.FormatFloat(l.Load, 'f', 0, 64))
	}
	return SubtitleStyle.Render("Training load (min x RPE)") + "\n" + t.String()
}

func macroTable(m planner.MacroSplit) string {
	t := newTable("Protein", "Carbs", "Fat").
		Row(strconv.Itoa(m.Protein)+"%", strconv.Itoa(m.Carbs)+"%", strconv.Itoa(m.Fat)+"%")
	return SubtitleStyle.Render("Macro split") + "\n" + t.String()
}

// RenderVisuals lays out every table the plan carries
func RenderVisuals(v coach.Visuals) string {
	var parts []string
	if len(v.Workout) > 0 {
		parts = append(parts, rowsTable("Session breakdown", v.Workout))
	}
	if len(v.WarmupCooldown) > 0 {
		parts = append(parts, rowsTable("Warm-up & cool-down", v.WarmupCooldown))
	}
	if len(v.Schedule) > 0 {
		parts = append(parts, scheduleTable(v.Schedule))
	}
	if len(v.Load) > 0 {
		parts = append(parts, loadTable(v.Load))
	}
	if v.Macros != nil {
		parts = append(parts, macroTable(*v.Macros))
	}
	if len(parts) == 0 {
		return ""
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
