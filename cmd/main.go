package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v3"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runner := NewRunner(RunnerOpts{})

	app := &cli.Command{
		Name:     "radar",
		Usage:    "Keep a playlist of new releases from the artists you follow on Spotify",
		Version:  "0.1.0",
		Flags:    globalFlags(),
		Before:   runner.Setup,
		Commands: runner.register(),
	}

	if err := app.Run(ctx, os.Args); err != nil {
		os.Exit(runner.exitCode(err))
	}
}
