package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/briangreenhill/coachbot/internal/athlete"
	"github.com/briangreenhill/coachbot/internal/cache"
	"github.com/briangreenhill/coachbot/internal/charts"
	"github.com/briangreenhill/coachbot/internal/coach"
)

// planError marks failures that have a user-facing explanation
type planError struct{ err error }

func (e *planError) Error() string { return e.err.Error() }
func (e *planError) Unwrap() error { return e.err }

// Message returns the text to print for an error returned by a command
func Message(err error) string {
	var pe *planError
	if errors.As(err, &pe) {
		return coach.UserMessage(pe.err)
	}
	return err.Error()
}

type planFlags struct {
	profile  athlete.Profile
	feature  string
	charts   string
	style    string
	width    int
	verbose  bool
	cacheTTL time.Duration
	cacheDir string
}

func newPlanCmd(backend Backend) *cobra.Command {
	f := planFlags{profile: athlete.Default()}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate a coaching plan for an athlete",
		Long: `Generate a coaching plan from an athlete profile.

The reply from the text generation service is printed as formatted markdown,
followed by tables computed from the profile (session breakdown, weekly
schedule, macro split) depending on the feature.`,
		Example: `  coachbot plan --sport Football --position Striker --goal "Build stamina"
  coachbot plan -f "Weekly Nutrition Plan" --sport Rowing --goal Endurance --diet Vegan --charts ./out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPlan(cmd, backend, f)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.profile.Sport, "sport", "", "Sport (required)")
	fl.StringVar(&f.profile.Position, "position", "", "Position or event")
	fl.IntVar(&f.profile.Age, "age", athlete.DefaultAge, fmt.Sprintf("Age (%d-%d)", athlete.MinAge, athlete.MaxAge))
	fl.StringVar(&f.profile.Injury, "injury", "", "Injury or risk area")
	fl.StringVar(&f.profile.Goal, "goal", "", "Goal (required)")
	fl.StringVar(&f.profile.Diet, "diet", athlete.DietNoPreference, "Diet preference")
	fl.StringVar(&f.profile.Intensity, "intensity", athlete.IntensityModerate, "Training intensity (Low/Moderate/High)")
	fl.IntVar(&f.profile.TrainingDays, "days", athlete.DefaultDays, "Training days per week")
	fl.IntVar(&f.profile.SessionMinutes, "minutes", athlete.DefaultMinutes, "Session duration in minutes")

	fl.StringVarP(&f.feature, "feature", "f", "Full Workout Plan", "Coaching feature (see 'coachbot features')")
	fl.StringVar(&f.charts, "charts", "", "Directory to write PNG charts to")
	fl.StringVar(&f.style, "style", "auto", "Markdown style (auto/dark/light/notty)")
	fl.IntVar(&f.width, "width", 80, "Word wrap width")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "Log provider calls to stderr")
	fl.DurationVar(&f.cacheTTL, "cache", 0, "Reuse identical replies younger than this (e.g. 24h, 0 disables)")
	fl.StringVar(&f.cacheDir, "cache-dir", "", "Reply cache directory (default: user cache dir)")

	return cmd
}

func runPlan(cmd *cobra.Command, backend Backend, f planFlags) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	level := zerolog.WarnLevel
	if f.verbose {
		level = zerolog.DebugLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr()}).Level(level).With().Timestamp().Logger()
	ctx = logger.WithContext(ctx)

	gen, sampling, catalog, err := backend(ctx)
	if err != nil {
		return err
	}
	if f.cacheTTL > 0 {
		fc, err := cache.NewFileCache(f.cacheDir)
		if err != nil {
			return fmt.Errorf("open reply cache: %w", err)
		}
		gen = coach.WithCache(gen, fc, f.cacheTTL)
	}
	svc := coach.NewService(coach.ServiceOptions{
		Generator: gen,
		Catalog:   catalog,
		Sampling:  sampling,
		Logger:    logger,
	})

	fmt.Fprintln(cmd.ErrOrStderr(), HelpStyle.Render(fmt.Sprintf("Asking %s for a %q...", gen.Name(), f.feature)))
	plan, err := svc.Plan(ctx, f.feature, f.profile)
	if err != nil {
		return &planError{err: err}
	}

	reply, err := renderMarkdown(plan.Response, f.style, f.width)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, TitleStyle.Render(plan.Feature))
	fmt.Fprintln(out, reply)
	if tables := RenderVisuals(plan.Visuals); tables != "" {
		fmt.Fprintln(out, tables)
	}

	if f.charts != "" {
		paths, err := writeCharts(f.charts, plan.Visuals)
		if err != nil {
			return err
		}
		for _, p := range paths {
			fmt.Fprintln(out, HelpStyle.Render("chart written to "+p))
		}
	}
	return nil
}

func renderMarkdown(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	s, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return s, nil
}

// writeCharts writes the PNG charts the visuals support and returns their paths
func writeCharts(dir string, v coach.Visuals) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create chart directory: %w", err)
	}

	var paths []string
	write := func(name string, draw func(io.Writer) error) error {
		p := filepath.Join(dir, name)
		fh, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("create %s: %w", p, err)
		}
		if err := draw(fh); err != nil {
			_ = fh.Close()
			return fmt.Errorf("draw %s: %w", name, err)
		}
		if err := fh.Close(); err != nil {
			return fmt.Errorf("close %s: %w", p, err)
		}
		paths = append(paths, p)
		return nil
	}

	if v.Macros != nil {
		m := *v.Macros
		if err := write("macros.png", func(w io.Writer) error { return charts.MacroPie(w, m) }); err != nil {
			return nil, err
		}
	}
	if len(v.Load) > 0 {
		if err := write("load.png", func(w io.Writer) error { return charts.WeeklyLoad(w, v.Load) }); err != nil {
			return nil, err
		}
	}
	return paths, nil
}
