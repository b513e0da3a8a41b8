// Package charts renders the illustrative PNG charts shown with a plan
package charts

import (
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"

	"github.com/briangreenhill/coachbot/internal/planner"
)

// Chart dimensions in pixels
const (
	Width  = 480
	Height = 320
)

// ErrNoData is returned when there is nothing to draw
var ErrNoData = errors.New("no chart data")

var (
	background = color.White
	ink        = color.RGBA{0x2c, 0x3e, 0x50, 0xff}
	gridColor  = color.RGBA{0xdd, 0xdd, 0xdd, 0xff}
	palette    = []color.Color{
		color.RGBA{0xe7, 0x4c, 0x3c, 0xff}, // protein
		color.RGBA{0x34, 0x98, 0xdb, 0xff}, // carbs
		color.RGBA{0xf3, 0x9c, 0x12, 0xff}, // fat
	}
	lineColor = color.RGBA{0x27, 0xae, 0x60, 0xff}
)

// Slice is one wedge of a pie chart
type Slice struct {
	Label string
	Value float64
}

// MacroSlices converts a macro split into pie slices
func MacroSlices(m planner.MacroSplit) []Slice {
	return []Slice{
		{Label: "Protein", Value: float64(m.Protein)},
		{Label: "Carbs", Value: float64(m.Carbs)},
		{Label: "Fat", Value: float64(m.Fat)},
	}
}

// Pie draws a pie chart with a legend and writes it as PNG
func Pie(w io.Writer, title string, slices []Slice) error {
	total := 0.0
	for _, s := range slices {
		if s.Value < 0 {
			return fmt.Errorf("negative value for %q", s.Label)
		}
		total += s.Value
	}
	if total == 0 {
		return ErrNoData
	}

	dc := gg.NewContext(Width, Height)
	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(ink)
	dc.DrawStringAnchored(title, Width/2, 18, 0.5, 0.5)

	cx, cy, r := 160.0, 175.0, 120.0
	angle := -math.Pi / 2
	for i, s := range slices {
		sweep := s.Value / total * 2 * math.Pi
		if sweep > 0 {
			dc.MoveTo(cx, cy)
			dc.DrawArc(cx, cy, r, angle, angle+sweep)
			dc.ClosePath()
			dc.SetColor(palette[i%len(palette)])
			dc.Fill()
		}
		angle += sweep

		// legend
		ly := 120.0 + float64(i)*28
		dc.SetColor(palette[i%len(palette)])
		dc.DrawRectangle(320, ly-8, 16, 16)
		dc.Fill()
		dc.SetColor(ink)
		dc.DrawStringAnchored(fmt.Sprintf("%s %.0f%%", s.Label, s.Value/total*100), 344, ly, 0, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}

// MacroPie draws the macro split as a pie chart
func MacroPie(w io.Writer, m planner.MacroSplit) error {
	return Pie(w, "Daily macro split", MacroSlices(m))
}

// WeeklyLoad draws the per-day training load as a line chart
func WeeklyLoad(w io.Writer, loads []planner.DayLoad) error {
	if len(loads) == 0 {
		return ErrNoData
	}

	maxLoad := 0.0
	for _, l := range loads {
		maxLoad = math.Max(maxLoad, l.Load)
	}
	if maxLoad == 0 {
		maxLoad = 1
	}

	const (
		left, right  = 56.0, 24.0
		top, bottom  = 40.0, 40.0
		plotW, plotH = Width - left - right, Height - top - bottom
	)

	dc := gg.NewContext(Width, Height)
	dc.SetColor(background)
	dc.Clear()

	dc.SetColor(ink)
	dc.DrawStringAnchored("Weekly training load (min x RPE)", Width/2, 18, 0.5, 0.5)

	// horizontal grid with y labels
	dc.SetLineWidth(1)
	for i := 0; i <= 4; i++ {
		y := top + plotH - float64(i)/4*plotH
		dc.SetColor(gridColor)
		dc.DrawLine(left, y, left+plotW, y)
		dc.Stroke()
		dc.SetColor(ink)
		dc.DrawStringAnchored(fmt.Sprintf("%.0f", maxLoad*float64(i)/4), left-8, y, 1, 0.5)
	}

	step := plotW
	if len(loads) > 1 {
		step = plotW / float64(len(loads)-1)
	}
	point := func(i int) (float64, float64) {
		return left + float64(i)*step, top + plotH - loads[i].Load/maxLoad*plotH
	}

	dc.SetColor(lineColor)
	dc.SetLineWidth(3)
	for i := range loads {
		x, y := point(i)
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.Stroke()

	for i, l := range loads {
		x, y := point(i)
		dc.SetColor(lineColor)
		dc.DrawCircle(x, y, 4)
		dc.Fill()
		dc.SetColor(ink)
		dc.DrawStringAnchored(l.Name, x, top+plotH+18, 0.5, 0.5)
	}

	if err := dc.EncodePNG(w); err != nil {
		return fmt.Errorf("failed to encode PNG: %w", err)
	}
	return nil
}
