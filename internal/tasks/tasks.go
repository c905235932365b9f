package tasks

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/radar/internal/catalog"
)

// DefaultDescription is the description given to playlists the engine creates.
const DefaultDescription = "Automatically generated list of new releases of followed artists."

// Release is a new track attributed to a followed artist.
type Release struct {
	Artist *catalog.Artist
	Album  *catalog.Album
	Track  *catalog.Track
}

// ArtistAlbums is a followed artist with the albums released in the window.
type ArtistAlbums struct {
	Artist *catalog.Artist
	Albums []*catalog.Album
}

// ReconcileResult describes a playlist replacement.
type ReconcileResult struct {
	Playlist   *catalog.Playlist // Target playlist
	Created    bool              // Playlist did not exist before the run
	Releases   []Release         // Written tracks in playlist order
	SnapshotID string            // Change confirmation issued by the catalog
	Confirmed  bool              // SnapshotID was present
}

// SetOperationResult describes a union or intersection written to a playlist.
type SetOperationResult struct {
	Operator   Operator
	Inputs     []*catalog.Playlist
	Output     *catalog.Playlist
	Created    bool
	Tracks     []*catalog.Track
	SnapshotID string
	Confirmed  bool
}

// RadarEngine defines the release radar operations.
type RadarEngine interface {
	// Discover walks every followed artist and returns the new tracks attributed to them, in discovery order.
	Discover(ctx context.Context, window time.Duration, progress chan<- ProgressUpdate) ([]Release, error)

	// NewAlbums returns, per followed artist, the albums of the window that are the artist's own releases.
	NewAlbums(ctx context.Context, window time.Duration, progress chan<- ProgressUpdate) ([]ArtistAlbums, error)

	// Reconcile replaces the named playlist with the deduplicated new releases of the window.
	Reconcile(ctx context.Context, playlistName string, window time.Duration, progress chan<- ProgressUpdate) (*ReconcileResult, error)

	// SetOperation writes the union or intersection of the input playlists to the output playlist.
	SetOperation(ctx context.Context, op Operator, inputs []string, output string, progress chan<- ProgressUpdate) (*SetOperationResult, error)
}

// Options tunes an [Engine]. Zero values select the defaults.
type Options struct {
	VariousArtistsID string
	Description      string
}

// Engine implements [RadarEngine] on top of a [catalog.Catalog].
type Engine struct {
	catalog catalog.Catalog
	logger  *log.Logger
	opts    Options
	now     func() time.Time
}

var _ RadarEngine = (*Engine)(nil)

// NewEngine creates an engine. A nil logger discards output.
func NewEngine(c catalog.Catalog, logger *log.Logger, opts Options) *Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.VariousArtistsID == "" {
		opts.VariousArtistsID = catalog.VariousArtistsID
	}
	if opts.Description == "" {
		opts.Description = DefaultDescription
	}
	return &Engine{
		catalog: c,
		logger:  logger,
		opts:    opts,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// sendProgress sends a progress update through the channel without blocking.
func (e *Engine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

func (e *Engine) userID(ctx context.Context) (string, error) {
	e.logger.Debug("requesting current user")
	return catalog.CurrentUserID(ctx, e.catalog)
}

// resolveOrCreate finds the named playlist or creates it as a private playlist.
func (e *Engine) resolveOrCreate(ctx context.Context, userID, name string, progress chan<- ProgressUpdate) (*catalog.Playlist, bool, error) {
	e.sendProgress(progress, resolvePlaylistUpdate(name))

	playlist, err := catalog.FindPlaylist(ctx, e.catalog, userID, name)
	if err == nil {
		e.logger.Debug("found playlist", "name", name, "id", playlist.ID)
		return playlist, false, nil
	}
	if !isNotFound(err) {
		return nil, false, err
	}

	e.sendProgress(progress, createPlaylistUpdate(name))
	e.logger.Debug("creating playlist", "name", name)

	playlist, err = catalog.CreatePlaylist(ctx, e.catalog, userID, name, e.opts.Description)
	if err != nil {
		return nil, false, err
	}
	e.logger.Info("created playlist", "name", name, "id", playlist.ID)
	return playlist, true, nil
}

// write replaces the playlist contents and reports whether the catalog confirmed the change.
// A missing confirmation is logged, not returned.
func (e *Engine) write(ctx context.Context, playlist *catalog.Playlist, tracks []*catalog.Track, progress chan<- ProgressUpdate) (string, bool, error) {
	e.sendProgress(progress, writePlaylistUpdate(playlist.Name, len(tracks)))
	e.logger.Debug("replacing tracks of playlist", "name", playlist.Name, "tracks", len(tracks))

	snapshot, err := playlist.Replace(ctx, e.catalog, tracks)
	if err != nil {
		return "", false, err
	}
	if snapshot == "" {
		e.logger.Error("could not replace tracks of playlist", "name", playlist.Name)
		return "", false, nil
	}
	return snapshot, true, nil
}
