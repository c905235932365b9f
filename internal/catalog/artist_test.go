package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/desertthunder/radar/internal/services"
	tu "github.com/desertthunder/radar/internal/testing"
)

func TestFollowedArtists(t *testing.T) {
	fake := tu.NewFakeCatalog("user")
	for i := range 120 {
		fake.Follow(tu.Artist(fmt.Sprintf("a%d", i), fmt.Sprintf("Artist %d", i)))
	}

	artists, err := FollowedArtists(context.Background(), fake)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(artists) != 120 {
		t.Fatalf("expected 120 artists, got %d", len(artists))
	}
	if artists[0].ID != "a0" || artists[119].Name != "Artist 119" {
		t.Errorf("unexpected artists %v, %v", artists[0], artists[119])
	}
	if got := fake.CallCount("FollowedArtists"); got != 3 {
		t.Errorf("expected 3 pages, got %d", got)
	}

	t.Run("missing id is malformed", func(t *testing.T) {
		fake := tu.NewFakeCatalog("user")
		fake.Follow(tu.Artist("", "Nobody"))

		_, err := FollowedArtists(context.Background(), fake)
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

func TestArtistAlbums(t *testing.T) {
	one := tu.Artist("a1", "One")
	two := tu.Artist("a2", "Two")

	fake := tu.NewFakeCatalog("user")
	fake.AddAlbum(tu.Album("al1", "First", "2024-01-01", one, two), tu.Track("t1", "Song", one))
	fake.AddAlbum(tu.Album("al2", "Second", "2024-02-01", one), tu.Track("t2", "Other", one))

	artist := NewArtist("a1", "One", nil)

	albums, err := artist.Albums(context.Background(), fake)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(albums) != 2 {
		t.Fatalf("expected 2 albums, got %d", len(albums))
	}

	t.Run("simple albums reference only the artist", func(t *testing.T) {
		for _, a := range albums {
			if len(a.Artists) != 1 || a.Artists[0] != artist {
				t.Errorf("album %s: expected only the requesting artist, got %v", a.ID, a.Artists)
			}
			if a.Type != "" || a.CachedTracks() != nil {
				t.Errorf("album %s: expected no type or tracks", a.ID)
			}
		}
	})

	t.Run("memoized", func(t *testing.T) {
		again, _ := artist.Albums(context.Background(), fake)
		if again[0] != albums[0] || fake.CallCount("ArtistAlbums") != 1 {
			t.Errorf("expected memoized albums, got calls %v", fake.Calls())
		}
	})

	t.Run("unknown precision aborts", func(t *testing.T) {
		fake := tu.NewFakeCatalog("user")
		bad := tu.Album("al3", "Bad", "2024-05", one)
		bad.ReleaseDatePrecision = "month"
		fake.AddAlbum(bad)

		_, err := NewArtist("a1", "One", nil).Albums(context.Background(), fake)
		if !errors.Is(err, ErrUnknownPrecision) {
			t.Errorf("expected ErrUnknownPrecision, got %v", err)
		}
	})
}

func TestArtistAlbumsWithTracks(t *testing.T) {
	one := tu.Artist("a1", "One")
	guest := tu.Artist("a9", "Guest")

	fake := tu.NewFakeCatalog("user")
	for i := range 45 {
		album := tu.Album(fmt.Sprintf("al%d", i), fmt.Sprintf("Album %d", i), "2024-01-01", one)
		if i == 0 {
			album.AlbumType = "compilation"
		}
		fake.AddAlbum(album, tu.Track(fmt.Sprintf("t%d", i), "Song", one, guest))
	}

	artist := NewArtist("a1", "One", nil)
	simple, err := artist.Albums(context.Background(), fake)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	detailed, err := artist.AlbumsWithTracks(context.Background(), fake)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	t.Run("batches of twenty", func(t *testing.T) {
		if got := fake.CallCount("SeveralAlbums"); got != 3 {
			t.Errorf("expected 3 batches, got %d", got)
		}
		if got := fake.CallCount("ArtistAlbums"); got != 1 {
			t.Errorf("expected album ids from the memo, got %d listings", got)
		}
	})

	t.Run("replaces the memo with detailed albums", func(t *testing.T) {
		if len(detailed) != 45 {
			t.Fatalf("expected 45 albums, got %d", len(detailed))
		}
		if detailed[0] == simple[0] {
			t.Error("expected detailed albums to replace the simple ones")
		}
		if detailed[0].Type != "compilation" || detailed[1].Type != "album" {
			t.Errorf("expected album types, got %q and %q", detailed[0].Type, detailed[1].Type)
		}

		memo, _ := artist.Albums(context.Background(), fake)
		if memo[0] != detailed[0] {
			t.Error("expected Albums to return the detailed memo")
		}
	})

	t.Run("tracks carry credits and album id", func(t *testing.T) {
		tracks := detailed[3].CachedTracks()
		if len(tracks) != 1 {
			t.Fatalf("expected 1 track, got %d", len(tracks))
		}
		if tracks[0].AlbumID != "al3" || !tracks[0].DoneByArtist("a9") {
			t.Errorf("unexpected track %+v", tracks[0])
		}
	})

	t.Run("memoized", func(t *testing.T) {
		before := len(fake.Calls())
		if _, err := artist.AlbumsWithTracks(context.Background(), fake); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(fake.Calls()) != before {
			t.Errorf("expected no new calls, got %v", fake.Calls()[before:])
		}
	})

	t.Run("follows next links of embedded tracks", func(t *testing.T) {
		fake := tu.NewFakeCatalog("user")
		fake.PageSize = 2

		tracks := make([]services.SpotifyTrack, 5)
		for i := range tracks {
			tracks[i] = tu.Track(fmt.Sprintf("t%d", i), fmt.Sprintf("Song %d", i), one)
		}
		fake.AddAlbum(tu.Album("al1", "Long", "2024-01-01", one), tracks...)

		albums, err := NewArtist("a1", "One", nil).AlbumsWithTracks(context.Background(), fake)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if got := len(albums[0].CachedTracks()); got != 5 {
			t.Errorf("expected 5 tracks, got %d", got)
		}
		if got := fake.CallCount("NextTracks"); got != 2 {
			t.Errorf("expected 2 next pages, got %d", got)
		}
	})

	t.Run("missing album in batch is malformed", func(t *testing.T) {
		fake := tu.NewFakeCatalog("user")
		fake.AddAlbum(tu.Album("al1", "Known", "2024-01-01", one))

		_, err := NewArtist("a1", "One", nil).AlbumsWithTracks(context.Background(), &ghostCatalog{fake})
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})
}

// ghostCatalog lists an album id the detail lookup does not know.
type ghostCatalog struct{ *tu.FakeCatalog }

func (g *ghostCatalog) ArtistAlbums(ctx context.Context, artistID string, offset, limit int) (*services.SpotifyPage[services.SpotifyAlbum], error) {
	album := tu.Album("ghost", "Ghost", "2024-01-01", tu.Artist(artistID, ""))
	return &services.SpotifyPage[services.SpotifyAlbum]{Items: []services.SpotifyAlbum{album}, Total: 1, Limit: limit}, nil
}
