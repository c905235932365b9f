package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/desertthunder/radar/internal/services"
)

// Artist is a catalog artist with a lazily fetched discography.
type Artist struct {
	ID         string
	Name       string
	Popularity *int

	mu       sync.Mutex
	albums   []*Album
	detailed bool
}

// NewArtist creates an artist with an empty album memo.
func NewArtist(id, name string, popularity *int) *Artist {
	return &Artist{ID: id, Name: name, Popularity: popularity}
}

func artistFromWire(op string, a services.SpotifyArtist) (*Artist, error) {
	if a.ID == "" {
		return nil, malformed(op, fmt.Sprintf("artist %q without id", a.Name))
	}
	return NewArtist(a.ID, a.Name, a.Popularity), nil
}

func artistsFromWire(op string, wire []services.SpotifyArtist) ([]*Artist, error) {
	artists := make([]*Artist, 0, len(wire))
	for _, a := range wire {
		artist, err := artistFromWire(op, a)
		if err != nil {
			return nil, err
		}
		artists = append(artists, artist)
	}
	return artists, nil
}

// FollowedArtists returns every artist the current user follows.
func FollowedArtists(ctx context.Context, c Catalog) ([]*Artist, error) {
	const op = "followed artists"

	wire, err := CollectCursor(ctx, op, c.FollowedArtists, func(a services.SpotifyArtist) string { return a.ID })
	if err != nil {
		return nil, err
	}
	return artistsFromWire(op, wire)
}

// Albums returns the albums the artist authored or co-authored.
//
// Each album references this artist only and carries no tracks or type.
// The first call fetches; later calls return the memo unchanged.
func (a *Artist) Albums(ctx context.Context, c Catalog) ([]*Album, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.albumsLocked(ctx, c)
}

func (a *Artist) albumsLocked(ctx context.Context, c Catalog) ([]*Album, error) {
	if a.albums != nil {
		return a.albums, nil
	}

	op := fmt.Sprintf("albums of artist %q", a.Name)
	wire, err := Collect(ctx, op, func(ctx context.Context, offset, limit int) (*services.SpotifyPage[services.SpotifyAlbum], error) {
		return c.ArtistAlbums(ctx, a.ID, offset, limit)
	})
	if err != nil {
		return nil, err
	}

	albums := make([]*Album, 0, len(wire))
	for i := range wire {
		album, err := newAlbum(op, &wire[i], []*Artist{a})
		if err != nil {
			return nil, err
		}
		albums = append(albums, album)
	}

	a.albums = albums
	return albums, nil
}

// AlbumsWithTracks returns the artist's albums in full detail: complete artist credits,
// album type and the full track list of each album.
//
// Album ids come from [Artist.Albums]; the detailed albums are fetched in batches of
// [MaxBatchSize] and replace the memoized simple albums.
func (a *Artist) AlbumsWithTracks(ctx context.Context, c Catalog) ([]*Album, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.detailed {
		return a.albums, nil
	}

	simple, err := a.albumsLocked(ctx, c)
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(simple))
	for i, album := range simple {
		ids[i] = album.ID
	}

	op := fmt.Sprintf("full albums of artist %q", a.Name)
	detailed := make([]*Album, 0, len(ids))

	for start := 0; start < len(ids); start += MaxBatchSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch := ids[start:min(start+MaxBatchSize, len(ids))]
		wire, err := c.SeveralAlbums(ctx, batch)
		if err != nil {
			return nil, err
		}
		if len(wire) > MaxBatchSize {
			return nil, violation(op, "batch of %d albums exceeds ceiling %d", len(wire), MaxBatchSize)
		}
		if len(wire) != len(batch) {
			return nil, malformed(op, fmt.Sprintf("requested %d albums, received %d", len(batch), len(wire)))
		}

		for i, w := range wire {
			if w == nil {
				return nil, malformed(op, fmt.Sprintf("album %s missing", batch[i]))
			}
			album, err := fullAlbum(ctx, c, op, w)
			if err != nil {
				return nil, err
			}
			detailed = append(detailed, album)
		}
	}

	a.albums = detailed
	a.detailed = true
	return detailed, nil
}

// fullAlbum builds an album from a full-detail response, following the embedded track page.
func fullAlbum(ctx context.Context, c Catalog, op string, w *services.SpotifyAlbum) (*Album, error) {
	artists, err := artistsFromWire(op, w.Artists)
	if err != nil {
		return nil, err
	}

	album, err := newAlbum(op, w, artists)
	if err != nil {
		return nil, err
	}
	album.Type = w.AlbumType

	tracks := []*Track{}
	page := w.Tracks
	for page != nil {
		if len(page.Items) > MaxPageSize {
			return nil, violation(op, "page of %d tracks exceeds ceiling %d", len(page.Items), MaxPageSize)
		}
		for _, t := range page.Items {
			track, err := trackFromWire(op, t, album.ID)
			if err != nil {
				return nil, err
			}
			tracks = append(tracks, track)
		}

		if page.Next == nil || *page.Next == "" {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if page, err = c.NextTracks(ctx, *page.Next); err != nil {
			return nil, err
		}
	}

	album.tracks = tracks
	return album, nil
}
