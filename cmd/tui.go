package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive review of new releases.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}
	window, err := r.window(cmd)
	if err != nil {
		return err
	}

	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/radar-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(shared.WithLogger(fileLogger, "run", r.runID))

	model := ui.NewModel(ctx, r.engine, r.playlistName(cmd), window)
	p := tea.NewProgram(model, tea.WithContext(ctx), tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
