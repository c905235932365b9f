package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/desertthunder/radar/internal/catalog"
	"github.com/desertthunder/radar/internal/shared"
)

// Reconcile replaces the named playlist with the new releases of the window.
func (e *Engine) Reconcile(ctx context.Context, playlistName string, window time.Duration, progress chan<- ProgressUpdate) (*ReconcileResult, error) {
	e.logger.Info("updating playlist", "name", playlistName, "window", window)

	userID, err := e.userID(ctx)
	if err != nil {
		return nil, err
	}

	playlist, created, err := e.resolveOrCreate(ctx, userID, playlistName, progress)
	if err != nil {
		return nil, err
	}

	releases, err := e.Discover(ctx, window, progress)
	if err != nil {
		return nil, err
	}

	return e.replace(ctx, playlist, created, UniqueTracks(releases), progress)
}

// WriteReleases replaces the named playlist with releases as given, creating the playlist if needed.
func (e *Engine) WriteReleases(ctx context.Context, playlistName string, releases []Release, progress chan<- ProgressUpdate) (*ReconcileResult, error) {
	userID, err := e.userID(ctx)
	if err != nil {
		return nil, err
	}

	playlist, created, err := e.resolveOrCreate(ctx, userID, playlistName, progress)
	if err != nil {
		return nil, err
	}

	return e.replace(ctx, playlist, created, releases, progress)
}

func (e *Engine) replace(ctx context.Context, playlist *catalog.Playlist, created bool, releases []Release, progress chan<- ProgressUpdate) (*ReconcileResult, error) {
	tracks := make([]*catalog.Track, len(releases))
	for i, r := range releases {
		tracks[i] = r.Track
	}

	snapshot, confirmed, err := e.write(ctx, playlist, tracks, progress)
	if err != nil {
		return nil, err
	}
	if confirmed {
		e.logger.Info("successfully added new releases to playlist", "name", playlist.Name, "tracks", len(tracks))
	}

	return &ReconcileResult{
		Playlist:   playlist,
		Created:    created,
		Releases:   releases,
		SnapshotID: snapshot,
		Confirmed:  confirmed,
	}, nil
}

func isNotFound(err error) bool {
	return errors.Is(err, shared.ErrPlaylistNotFound)
}
