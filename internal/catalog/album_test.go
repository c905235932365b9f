package catalog

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/desertthunder/radar/internal/services"
	tu "github.com/desertthunder/radar/internal/testing"
)

func TestParseReleaseDate(t *testing.T) {
	t.Run("valid precisions", func(t *testing.T) {
		tests := []struct {
			date      string
			precision string
			want      time.Time
		}{
			{"2024-03-15", "day", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
			{"1999", "year", time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)},
		}

		for _, tt := range tests {
			got, err := ParseReleaseDate(tt.date, tt.precision)
			if err != nil {
				t.Fatalf("ParseReleaseDate(%q, %q): expected no error, got %v", tt.date, tt.precision, err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseReleaseDate(%q, %q) = %v, want %v", tt.date, tt.precision, got, tt.want)
			}
		}
	})

	t.Run("unknown precision", func(t *testing.T) {
		for _, precision := range []string{"month", "", "DAY"} {
			_, err := ParseReleaseDate("2024-03", precision)
			if !errors.Is(err, ErrUnknownPrecision) {
				t.Errorf("precision %q: expected ErrUnknownPrecision, got %v", precision, err)
			}
			var perr *DatePrecisionError
			if !errors.As(err, &perr) || perr.Precision != precision {
				t.Errorf("precision %q: expected DatePrecisionError, got %#v", precision, err)
			}
		}
	})

	t.Run("date not matching precision", func(t *testing.T) {
		_, err := ParseReleaseDate("2024", "day")
		if !errors.Is(err, ErrMalformedResponse) {
			t.Errorf("expected ErrMalformedResponse, got %v", err)
		}
	})

	t.Run("no album produced on unknown precision", func(t *testing.T) {
		w := &services.SpotifyAlbum{ID: "al1", ReleaseDate: "2024-03", ReleaseDatePrecision: "month"}
		album, err := newAlbum("test", w, nil)
		if album != nil || !errors.Is(err, ErrUnknownPrecision) {
			t.Errorf("expected nil album and ErrUnknownPrecision, got %v, %v", album, err)
		}
	})
}

func TestAlbumIsCollection(t *testing.T) {
	various := NewArtist(VariousArtistsID, "Various Artists", nil)
	a := NewArtist("a1", "One", nil)
	b := NewArtist("a2", "Two", nil)

	tests := []struct {
		name  string
		album *Album
		want  bool
	}{
		{name: "compilation with many artists", album: &Album{Type: "compilation", Artists: []*Artist{a, b}}, want: true},
		{name: "compilation with one artist", album: &Album{Type: "compilation", Artists: []*Artist{a}}, want: true},
		{name: "various artists without type", album: &Album{Artists: []*Artist{various}}, want: true},
		{name: "various artists with a real artist", album: &Album{Artists: []*Artist{various, a}}, want: false},
		{name: "two real artists without type", album: &Album{Artists: []*Artist{a, b}}, want: false},
		{name: "single", album: &Album{Type: "single", Artists: []*Artist{a}}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.album.IsCollection(); got != tt.want {
				t.Errorf("IsCollection() = %v, want %v", got, tt.want)
			}
		})
	}

	t.Run("custom various artists id", func(t *testing.T) {
		album := &Album{Artists: []*Artist{a}}
		if !album.IsCollectionWith("a1") {
			t.Error("expected album credited to the custom id to be a collection")
		}
		if album.IsCollection() {
			t.Error("expected album not to be a collection with the default id")
		}
	})
}

func TestAlbumTracks(t *testing.T) {
	artist := tu.Artist("a1", "One")
	tracks := make([]services.SpotifyTrack, 120)
	for i := range tracks {
		tracks[i] = tu.Track(fmt.Sprintf("t%d", i), fmt.Sprintf("Song %d", i), artist)
	}

	fake := tu.NewFakeCatalog("user")
	fake.AddAlbum(tu.Album("al1", "Long", "2024-01-01", artist), tracks...)

	album := &Album{ID: "al1", Name: "Long"}
	if album.CachedTracks() != nil {
		t.Fatal("expected no tracks before the first fetch")
	}

	got, err := album.Tracks(context.Background(), fake)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(got) != 120 {
		t.Fatalf("expected 120 tracks, got %d", len(got))
	}
	if got[119].ID != "t119" || got[0].AlbumID != "al1" {
		t.Errorf("unexpected tracks %v, %v", got[119], got[0])
	}
	if fake.CallCount("AlbumTracks") != 1 || fake.CallCount("NextTracks") != 2 {
		t.Errorf("expected one first page and two next pages, got %v", fake.Calls())
	}

	t.Run("memoized", func(t *testing.T) {
		again, err := album.Tracks(context.Background(), fake)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(again) != 120 || fake.CallCount("AlbumTracks") != 1 {
			t.Errorf("expected memoized tracks without new requests, got %v", fake.Calls())
		}
	})
}

func TestDoneByArtist(t *testing.T) {
	a := NewArtist("a1", "One", nil)
	b := NewArtist("a2", "Two", nil)
	track := &Track{ID: "t1", Artists: []*Artist{a, b}}
	album := &Album{ID: "al1", Artists: []*Artist{b}}

	if !track.DoneByArtist("a1") || !track.DoneByArtist("a2") || track.DoneByArtist("a3") {
		t.Error("unexpected track credits")
	}
	if album.DoneByArtist("a1") || !album.DoneByArtist("a2") {
		t.Error("unexpected album credits")
	}
	if (&Track{ID: "t2"}).DoneByArtist("a1") {
		t.Error("expected track without artists to be credited to nobody")
	}
}
