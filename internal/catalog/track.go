package catalog

import (
	"fmt"

	"github.com/desertthunder/radar/internal/services"
)

// Track is a catalog track. Two tracks are the same track when their ids are equal.
//
// AlbumID refers to the owning album; the album owns the track, not the reverse.
type Track struct {
	ID      string
	Name    string
	AlbumID string
	Artists []*Artist
}

func trackFromWire(op string, t services.SpotifyTrack, albumID string) (*Track, error) {
	if t.ID == "" {
		return nil, malformed(op, fmt.Sprintf("track %q without id", t.Name))
	}

	artists, err := artistsFromWire(op, t.Artists)
	if err != nil {
		return nil, err
	}

	return &Track{ID: t.ID, Name: t.Name, AlbumID: albumID, Artists: artists}, nil
}

// DoneByArtist reports whether artistID is among the track's credited artists.
func (t *Track) DoneByArtist(artistID string) bool {
	return creditedTo(t.Artists, artistID)
}

func (t *Track) String() string {
	return fmt.Sprintf("%s (%s)", t.Name, t.ID)
}

func creditedTo(artists []*Artist, artistID string) bool {
	for _, a := range artists {
		if a != nil && a.ID == artistID {
			return true
		}
	}
	return false
}
