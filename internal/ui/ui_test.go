package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/radar/internal/catalog"
	"github.com/desertthunder/radar/internal/tasks"
)

type fakeEngine struct {
	releases    []tasks.Release
	discoverErr error
	written     []tasks.Release
	writeErr    error
}

func (f *fakeEngine) Discover(_ context.Context, _ time.Duration, progress chan<- tasks.ProgressUpdate) ([]tasks.Release, error) {
	progress <- tasks.ProgressUpdate{Phase: tasks.FetchArtists, Message: "Fetching followed artists..."}
	return f.releases, f.discoverErr
}

func (f *fakeEngine) WriteReleases(_ context.Context, name string, releases []tasks.Release, _ chan<- tasks.ProgressUpdate) (*tasks.ReconcileResult, error) {
	f.written = releases
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	return &tasks.ReconcileResult{
		Playlist:   &catalog.Playlist{ID: "pl1", Name: name},
		Releases:   releases,
		SnapshotID: "snap1",
		Confirmed:  true,
	}, nil
}

func release(artist, trackID string) tasks.Release {
	a := catalog.NewArtist(artist, artist, nil)
	return tasks.Release{
		Artist: a,
		Album:  &catalog.Album{ID: "al-" + trackID, Name: "Album " + trackID, ReleaseDate: time.Date(2024, 6, 8, 0, 0, 0, 0, time.UTC)},
		Track:  &catalog.Track{ID: trackID, Name: "Track " + trackID},
	}
}

// drain runs cmd and feeds every message it yields back into the model until the operation ends.
func drain(t *testing.T, m *Model, cmd tea.Cmd) {
	t.Helper()
	for i := 0; cmd != nil && i < 20; i++ {
		msg := cmd()
		if msg == nil {
			return
		}
		m.Update(msg)
		ui, ok := msg.(Msg)
		if !ok || ui.kind != MsgProgressUpdate {
			return
		}
		cmd = m.waitForProgress()
	}
}

func keyPress(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestModel(t *testing.T) {
	t.Run("discovery lists unique tracks", func(t *testing.T) {
		engine := &fakeEngine{releases: []tasks.Release{release("a1", "t1"), release("a2", "t1"), release("a2", "t2")}}
		m := NewModel(context.Background(), engine, "Radar", 7*24*time.Hour)

		drain(t, m, m.startDiscovery())

		if m.view != ReleaseListView {
			t.Fatalf("expected ReleaseListView, got %v", m.view)
		}
		if len(m.releases) != 2 {
			t.Fatalf("expected 2 unique releases, got %d", len(m.releases))
		}
		if m.progress.Phase != tasks.FetchArtists {
			t.Errorf("expected last progress phase FetchArtists, got %v", m.progress.Phase)
		}
	})

	t.Run("discovery error shows result", func(t *testing.T) {
		engine := &fakeEngine{discoverErr: errors.New("boom")}
		m := NewModel(context.Background(), engine, "Radar", time.Hour)

		drain(t, m, m.startDiscovery())

		if m.view != ResultView {
			t.Fatalf("expected ResultView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "boom") {
			t.Errorf("expected error in view, got %q", m.View())
		}
	})

	t.Run("confirm writes releases", func(t *testing.T) {
		engine := &fakeEngine{releases: []tasks.Release{release("a1", "t1")}}
		m := NewModel(context.Background(), engine, "Radar", time.Hour)
		drain(t, m, m.startDiscovery())

		m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		if m.view != ConfirmView {
			t.Fatalf("expected ConfirmView, got %v", m.view)
		}

		_, cmd := m.handleConfirmKeys(keyPress('y'))
		if m.view != WriteView {
			t.Fatalf("expected WriteView, got %v", m.view)
		}
		if cmd == nil {
			t.Fatal("expected write command")
		}
		drain(t, m, m.waitForProgress())

		if m.view != ResultView {
			t.Fatalf("expected ResultView, got %v", m.view)
		}
		if len(engine.written) != 1 || engine.written[0].Track.ID != "t1" {
			t.Errorf("unexpected written releases: %v", engine.written)
		}
		if !strings.Contains(m.View(), "Playlist Updated") {
			t.Errorf("expected success view, got %q", m.View())
		}
	})

	t.Run("declining returns to list", func(t *testing.T) {
		engine := &fakeEngine{releases: []tasks.Release{release("a1", "t1")}}
		m := NewModel(context.Background(), engine, "Radar", time.Hour)
		drain(t, m, m.startDiscovery())
		m.view = ConfirmView

		m.Update(keyPress('n'))

		if m.view != ReleaseListView {
			t.Errorf("expected ReleaseListView, got %v", m.view)
		}
		if engine.written != nil {
			t.Error("expected no write")
		}
	})

	t.Run("empty discovery warns before write", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeEngine{}, "Radar", time.Hour)
		drain(t, m, m.startDiscovery())
		m.view = ConfirmView

		if !strings.Contains(m.View(), "emptied") {
			t.Errorf("expected empty warning, got %q", m.View())
		}
	})
}

func TestKeyMap(t *testing.T) {
	keys := newKeyMap()

	t.Run("help follows the view", func(t *testing.T) {
		tests := []struct {
			view ViewState
			want []string
		}{
			{DiscoverView, []string{"quit"}},
			{ReleaseListView, []string{"write playlist", "quit"}},
			{ConfirmView, []string{"replace", "back to releases"}},
			{WriteView, []string{"quit"}},
			{ResultView, []string{"discover again", "quit"}},
		}
		for _, tt := range tests {
			bindings := keys.forView(tt.view)
			if len(bindings) != len(tt.want) {
				t.Fatalf("view %v: expected %d bindings, got %d", tt.view, len(tt.want), len(bindings))
			}
			for i, b := range bindings {
				if b.Help().Desc != tt.want[i] {
					t.Errorf("view %v: expected %q, got %q", tt.view, tt.want[i], b.Help().Desc)
				}
			}
		}
	})

	t.Run("w opens the confirmation", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeEngine{releases: []tasks.Release{release("a1", "t1")}}, "Radar", time.Hour)
		drain(t, m, m.startDiscovery())

		m.Update(keyPress('w'))
		if m.view != ConfirmView {
			t.Fatalf("expected ConfirmView, got %v", m.view)
		}
		if !strings.Contains(m.View(), "replace") {
			t.Errorf("expected confirm help, got %q", m.View())
		}
	})

	t.Run("esc declines", func(t *testing.T) {
		m := NewModel(context.Background(), &fakeEngine{releases: []tasks.Release{release("a1", "t1")}}, "Radar", time.Hour)
		drain(t, m, m.startDiscovery())
		m.view = ConfirmView

		m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		if m.view != ReleaseListView {
			t.Errorf("expected ReleaseListView, got %v", m.view)
		}
	})
}
