package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/radar/internal/services"
	"github.com/desertthunder/radar/internal/shared"
)

// Playlist is a user playlist with lazily fetched membership.
type Playlist struct {
	ID   string
	Name string

	mu     sync.Mutex
	tracks []*Track
}

// Summary is a playlist as listed in the user's library.
type Summary struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	Public     bool   `json:"public"`
	TrackCount int    `json:"track_count"`
}

// ListPlaylists returns every playlist in the user's library.
func ListPlaylists(ctx context.Context, c Catalog, userID string) ([]Summary, error) {
	wire, err := Collect(ctx, "user playlists", userPlaylists(c, userID))
	if err != nil {
		return nil, err
	}

	summaries := make([]Summary, 0, len(wire))
	for _, p := range wire {
		summaries = append(summaries, Summary{
			ID:         p.ID,
			Name:       p.Name,
			Owner:      p.Owner.ID,
			Public:     p.Public,
			TrackCount: p.Tracks.Total,
		})
	}
	return summaries, nil
}

// FindPlaylist scans the user's playlists for an exact, case-sensitive name match.
// The first match wins; no further pages are requested once it is found.
func FindPlaylist(ctx context.Context, c Catalog, userID, name string) (*Playlist, error) {
	const op = "user playlists"

	var found *Playlist
	var scanErr error
	err := Scan(ctx, op, userPlaylists(c, userID), func(p services.SpotifySimplePlaylist) bool {
		if p.Name != name {
			return true
		}
		if p.ID == "" {
			scanErr = malformed(op, fmt.Sprintf("playlist %q without id", p.Name))
			return false
		}
		found = &Playlist{ID: p.ID, Name: p.Name}
		return false
	})

	switch {
	case err != nil:
		return nil, err
	case scanErr != nil:
		return nil, scanErr
	case found == nil:
		return nil, fmt.Errorf("%w: %q", shared.ErrPlaylistNotFound, name)
	}
	return found, nil
}

func userPlaylists(c Catalog, userID string) PageFunc[services.SpotifySimplePlaylist] {
	return func(ctx context.Context, offset, limit int) (*services.SpotifyPage[services.SpotifySimplePlaylist], error) {
		return c.UserPlaylists(ctx, userID, offset, limit)
	}
}

// CreatePlaylist creates an empty private playlist.
func CreatePlaylist(ctx context.Context, c Catalog, userID, name, description string) (*Playlist, error) {
	created, err := c.CreatePlaylist(ctx, userID, name, description, false)
	if err != nil {
		return nil, err
	}
	if created == nil || created.ID == "" {
		return nil, malformed("create playlist", "missing id")
	}
	return &Playlist{ID: created.ID, Name: name, tracks: []*Track{}}, nil
}

// Tracks returns the playlist's tracks in playlist order.
// Entries without a track id, such as local files or removed tracks, are skipped.
func (p *Playlist) Tracks(ctx context.Context, c Catalog) ([]*Track, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.tracks != nil {
		return p.tracks, nil
	}

	op := fmt.Sprintf("items of playlist %q", p.Name)
	items, err := Collect(ctx, op, func(ctx context.Context, offset, limit int) (*services.SpotifyPage[services.SpotifyPlaylistItem], error) {
		return c.PlaylistItems(ctx, p.ID, offset, limit)
	})
	if err != nil {
		return nil, err
	}

	tracks := make([]*Track, 0, len(items))
	for _, item := range items {
		if item.Track == nil || item.Track.ID == "" {
			continue
		}
		track, err := trackFromWire(op, *item.Track, "")
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	p.tracks = tracks
	return tracks, nil
}

// Replace replaces the playlist contents with tracks in order and returns the confirmation token.
// An empty token means the catalog did not confirm the change.
func (p *Playlist) Replace(ctx context.Context, c Catalog, tracks []*Track) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	ids := make([]string, len(tracks))
	for i, t := range tracks {
		ids[i] = t.ID
	}

	snapshot, err := c.ReplacePlaylistItems(ctx, p.ID, ids)
	if err != nil {
		return "", err
	}

	p.tracks = append([]*Track{}, tracks...)
	if snapshot == nil {
		return "", nil
	}
	return snapshot.SnapshotID, nil
}
