package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/briangreenhill/coachbot/internal/cli"
)

var version = "0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCmd(version, cli.EnvBackend).ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, cli.ErrorStyle.Render(cli.Message(err)))
		os.Exit(1)
	}
}
