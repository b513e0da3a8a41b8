// Package cli implements the coachbot terminal commands
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/briangreenhill/coachbot/internal/coach"
	"github.com/briangreenhill/coachbot/internal/config"
	"github.com/briangreenhill/coachbot/internal/prompt"
)

// Backend builds the generator and sampling used by the plan command
type Backend func(ctx context.Context) (coach.Generator, coach.Sampling, *prompt.Catalog, error)

// EnvBackend reads the same environment variables as cmd/api
func EnvBackend(ctx context.Context) (coach.Generator, coach.Sampling, *prompt.Catalog, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, coach.Sampling{}, nil, err
	}
	gen, err := coach.FromConfig(ctx, &cfg.Coach)
	if err != nil {
		return nil, coach.Sampling{}, nil, err
	}
	catalog := prompt.Default(prompt.WithPhilosophy(cfg.Coach.DetailedPrompt))
	return gen, coach.SamplingFromConfig(&cfg.Coach), catalog, nil
}

// NewRootCmd wires the plan, features and version commands
func NewRootCmd(version string, backend Backend) *cobra.Command {
	root := &cobra.Command{
		Use:           "coachbot",
		Short:         "AI sports coaching plans from an athlete profile",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newPlanCmd(backend), newFeaturesCmd(), newVersionCmd(version))
	return root
}

func newFeaturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features",
		Short: "List the coaching features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printFeatures(cmd.OutOrStdout(), prompt.Default())
		},
	}
}

func printFeatures(w io.Writer, c *prompt.Catalog) error {
	t := newTable("Feature", "Visuals")
	for _, f := range c.Features() {
		visuals := make([]string, 0, len(f.Visuals))
		for _, v := range f.Visuals {
			visuals = append(visuals, string(v))
		}
		if len(visuals) == 0 {
			visuals = append(visuals, "-")
		}
		t.Row(f.Name, strings.Join(visuals, ", "))
	}
	_, err := fmt.Fprintln(w, t.String())
	return err
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "coachbot %s\n", version)
		},
	}
}
