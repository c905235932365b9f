package tasks

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/desertthunder/radar/internal/catalog"
)

// Discover returns every new track attributed to a followed artist.
//
// Per artist, albums are walked oldest first and each track name is claimed by its first
// occurrence whether or not that occurrence qualifies. A track qualifies when its album was
// released after now-window, is not a collection, and the track credits the artist.
// The same track may be emitted for several artists.
func (e *Engine) Discover(ctx context.Context, window time.Duration, progress chan<- ProgressUpdate) ([]Release, error) {
	cutoff := e.now().Add(-window)

	e.sendProgress(progress, fetchArtistsUpdate())
	e.logger.Debug("requesting followed artists")

	artists, err := catalog.FollowedArtists(ctx, e.catalog)
	if err != nil {
		return nil, err
	}
	e.logger.Debug("received followed artists", "count", len(artists))

	var releases []Release
	for i, artist := range artists {
		e.sendProgress(progress, fetchAlbumsUpdate(i+1, len(artists), artist.Name))

		albums, err := artist.AlbumsWithTracks(ctx, e.catalog)
		if err != nil {
			return nil, fmt.Errorf("artist %q: %w", artist.Name, err)
		}

		found := e.artistReleases(artist, albums, cutoff)
		e.logger.Debug("checked artist", "artist", artist.Name, "albums", len(albums), "new", len(found))
		releases = append(releases, found...)
	}

	e.sendProgress(progress, discoveredUpdate(len(releases)))
	return releases, nil
}

func (e *Engine) artistReleases(artist *catalog.Artist, albums []*catalog.Album, cutoff time.Time) []Release {
	sorted := slices.Clone(albums)
	slices.SortStableFunc(sorted, byReleaseDate)

	var releases []Release
	seen := make(map[string]struct{})

	for _, album := range sorted {
		for _, track := range album.CachedTracks() {
			if _, ok := seen[track.Name]; ok {
				continue
			}
			seen[track.Name] = struct{}{}

			if e.current(album, cutoff) && track.DoneByArtist(artist.ID) {
				releases = append(releases, Release{Artist: artist, Album: album, Track: track})
			}
		}
	}
	return releases
}

func (e *Engine) current(album *catalog.Album, cutoff time.Time) bool {
	return album.ReleaseDate.After(cutoff) && !album.IsCollectionWith(e.opts.VariousArtistsID)
}

func byReleaseDate(a, b *catalog.Album) int {
	return a.ReleaseDate.Compare(b.ReleaseDate)
}

// UniqueTracks collapses releases to one per track id, keeping the first occurrence,
// and orders them by album release date, oldest first. Equal dates keep discovery order.
func UniqueTracks(releases []Release) []Release {
	seen := make(map[string]struct{}, len(releases))
	unique := make([]Release, 0, len(releases))

	for _, r := range releases {
		if _, ok := seen[r.Track.ID]; ok {
			continue
		}
		seen[r.Track.ID] = struct{}{}
		unique = append(unique, r)
	}

	slices.SortStableFunc(unique, func(a, b Release) int {
		return byReleaseDate(a.Album, b.Album)
	})
	return unique
}

// NewAlbums lists, per followed artist, the albums released in the window that credit the
// artist and are not collections. Albums are ordered by release date.
func (e *Engine) NewAlbums(ctx context.Context, window time.Duration, progress chan<- ProgressUpdate) ([]ArtistAlbums, error) {
	cutoff := e.now().Add(-window)

	e.sendProgress(progress, fetchArtistsUpdate())
	artists, err := catalog.FollowedArtists(ctx, e.catalog)
	if err != nil {
		return nil, err
	}

	result := make([]ArtistAlbums, 0, len(artists))
	for i, artist := range artists {
		e.sendProgress(progress, fetchAlbumsUpdate(i+1, len(artists), artist.Name))

		albums, err := artist.AlbumsWithTracks(ctx, e.catalog)
		if err != nil {
			return nil, fmt.Errorf("artist %q: %w", artist.Name, err)
		}

		var current []*catalog.Album
		for _, album := range albums {
			if e.current(album, cutoff) && album.DoneByArtist(artist.ID) {
				current = append(current, album)
			}
		}
		slices.SortStableFunc(current, func(a, b *catalog.Album) int {
			return cmp.Or(byReleaseDate(a, b), cmp.Compare(a.Name, b.Name))
		})

		result = append(result, ArtistAlbums{Artist: artist, Albums: current})
	}

	return result, nil
}
