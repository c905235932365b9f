package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/radar/internal/catalog"
	"github.com/desertthunder/radar/internal/formatter"
	"github.com/desertthunder/radar/internal/shared"
	"github.com/desertthunder/radar/internal/tasks"
	"github.com/urfave/cli/v3"
)

// SetOperation returns the action writing the union or intersection of the --in-playlist inputs.
func (r *Runner) SetOperation(op tasks.Operator) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		if err := r.requireEngine(); err != nil {
			return err
		}

		output := cmd.StringArg("result")
		if output == "" {
			return fmt.Errorf("%w: result playlist name", shared.ErrMissingArgument)
		}
		inputs := cmd.StringSlice("in-playlist")

		unlock, err := r.lock()
		if err != nil {
			return err
		}
		defer unlock()

		r.logger.Info("computing playlist "+op.String(), "inputs", inputs, "output", output)

		progress, stop := r.watch()
		result, err := r.engine.SetOperation(ctx, op, inputs, output, progress)
		stop()
		if err != nil {
			return err
		}

		if err := r.writePlainln("%s of %d playlists: %d tracks", op, len(result.Inputs), len(result.Tracks)); err != nil {
			return err
		}
		return r.reportWrite(result.Output.Name, result.Created, len(result.Tracks), result.Confirmed)
	}
}

// Playlists lists the user's playlists.
func (r *Runner) Playlists(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	userID, err := catalog.CurrentUserID(ctx, r.catalog)
	if err != nil {
		return err
	}

	r.logger.Debug("listing playlists", "user", userID)

	playlists, err := catalog.ListPlaylists(ctx, r.catalog, userID)
	if err != nil {
		return err
	}

	data, err := formatter.RenderPlaylists(format, playlists)
	if err != nil {
		return err
	}
	return formatter.WriteExport(data, cmd.String("output"), r.output)
}
