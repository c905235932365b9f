package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/radar/internal/formatter"
	"github.com/desertthunder/radar/internal/tasks"
	"github.com/desertthunder/radar/internal/ui"
	"github.com/urfave/cli/v3"
)

// Update replaces the release playlist with the new tracks of the window.
//
// With --dry-run the tracks are rendered instead of written.
func (r *Runner) Update(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}
	window, err := r.window(cmd)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}
	name := r.playlistName(cmd)
	output := cmd.String("output")

	r.logger.Info("updating release playlist", "playlist", name, "window", window)

	if cmd.Bool("dry-run") {
		progress, stop := r.watch()
		releases, err := r.engine.Discover(ctx, window, progress)
		stop()
		if err != nil {
			return err
		}
		return r.exportReleases(format, name, tasks.UniqueTracks(releases), output)
	}

	unlock, err := r.lock()
	if err != nil {
		return err
	}
	defer unlock()

	progress, stop := r.watch()

	result, err := r.engine.Reconcile(ctx, name, window, progress)
	stop()
	if err != nil {
		return err
	}

	if output != "" {
		if err := r.exportReleases(format, result.Playlist.Name, result.Releases, output); err != nil {
			return err
		}
	}

	return r.reportWrite(result.Playlist.Name, result.Created, len(result.Releases), result.Confirmed)
}

// Show lists, per followed artist, the new albums credited to the artist.
func (r *Runner) Show(ctx context.Context, cmd *cli.Command) error {
	if err := r.requireEngine(); err != nil {
		return err
	}
	window, err := r.window(cmd)
	if err != nil {
		return err
	}
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	progress, stop := r.watch()
	groups, err := r.engine.NewAlbums(ctx, window, progress)
	stop()
	if err != nil {
		return err
	}

	data, err := formatter.RenderAlbums(format, groups)
	if err != nil {
		return err
	}
	return formatter.WriteExport(data, cmd.String("output"), r.output)
}

func (r *Runner) exportReleases(format formatter.Format, title string, releases []tasks.Release, path string) error {
	data, err := formatter.RenderReleases(format, title, releases)
	if err != nil {
		return err
	}
	if err := formatter.WriteExport(data, path, r.output); err != nil {
		return err
	}
	if path != "" {
		r.logger.Info("exported releases", "path", path, "tracks", len(releases))
	}
	return nil
}

// reportWrite prints the outcome of a playlist replacement.
func (r *Runner) reportWrite(name string, created bool, tracks int, confirmed bool) error {
	if !confirmed {
		return r.writePlainln("%s", r.style(ui.Warning, fmt.Sprintf("⚠ Spotify did not confirm the update of '%s'", name)))
	}

	verb := "Updated"
	if created {
		verb = "Created"
	}
	return r.writePlainln("%s %s '%s' with %d tracks", r.style(ui.Success, "✓"), verb, name, tracks)
}
