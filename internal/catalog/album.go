package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/radar/internal/services"
)

// VariousArtistsID is the catalog id of the "Various Artists" pseudo-artist.
const VariousArtistsID = "0LyfQWJT6nXafLPZqxe9Of"

// AlbumTypeCompilation is the album type of compilations.
const AlbumTypeCompilation = "compilation"

// Album is a catalog album with a lazily fetched track list.
//
// Type is only set on albums fetched in full detail.
type Album struct {
	ID          string
	Name        string
	Artists     []*Artist
	ReleaseDate time.Time
	Type        string

	mu     sync.Mutex
	tracks []*Track
}

// ParseReleaseDate resolves a release date string with its precision.
// "day" dates are YYYY-MM-DD and "year" dates are YYYY, interpreted as January 1st. Both resolve to midnight UTC.
func ParseReleaseDate(date, precision string) (time.Time, error) {
	var layout string
	switch precision {
	case "day":
		layout = time.DateOnly
	case "year":
		layout = "2006"
	default:
		return time.Time{}, &DatePrecisionError{Date: date, Precision: precision}
	}

	t, err := time.Parse(layout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: release date %q: %v", ErrMalformedResponse, date, err)
	}
	return t, nil
}

func newAlbum(op string, w *services.SpotifyAlbum, artists []*Artist) (*Album, error) {
	if w.ID == "" {
		return nil, malformed(op, fmt.Sprintf("album %q without id", w.Name))
	}

	date, err := ParseReleaseDate(w.ReleaseDate, w.ReleaseDatePrecision)
	if err != nil {
		return nil, fmt.Errorf("album %s: %w", w.ID, err)
	}

	return &Album{
		ID:          w.ID,
		Name:        w.Name,
		Artists:     artists,
		ReleaseDate: date,
	}, nil
}

// IsCollection reports whether the album is a compilation or credited solely to Various Artists.
func (a *Album) IsCollection() bool {
	return a.IsCollectionWith(VariousArtistsID)
}

// IsCollectionWith is [Album.IsCollection] with an explicit Various Artists id.
func (a *Album) IsCollectionWith(variousArtistsID string) bool {
	if a.Type == AlbumTypeCompilation {
		return true
	}
	return len(a.Artists) == 1 && a.Artists[0].ID == variousArtistsID
}

// DoneByArtist reports whether artistID is among the album's credited artists.
func (a *Album) DoneByArtist(artistID string) bool {
	return creditedTo(a.Artists, artistID)
}

// CachedTracks returns the memoized track list, or nil when tracks have not been fetched.
func (a *Album) CachedTracks() []*Track {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tracks
}

// Tracks returns the album's tracks, following the catalog's next links from the first page.
func (a *Album) Tracks(ctx context.Context, c Catalog) ([]*Track, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.tracks != nil {
		return a.tracks, nil
	}

	op := fmt.Sprintf("tracks of album %q", a.Name)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	page, err := c.AlbumTracks(ctx, a.ID, 0, MaxPageSize)
	if err != nil {
		return nil, err
	}

	tracks := []*Track{}
	for page != nil {
		if len(page.Items) > MaxPageSize {
			return nil, violation(op, "page of %d tracks exceeds ceiling %d", len(page.Items), MaxPageSize)
		}
		for _, t := range page.Items {
			track, err := trackFromWire(op, t, a.ID)
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

	a.tracks = tracks
	return tracks, nil
}
