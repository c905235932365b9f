package catalog

import (
	"fmt"
	"testing"
)

func tracks(ids ...string) []*Track {
	out := make([]*Track, len(ids))
	for i, id := range ids {
		out[i] = &Track{ID: id, Name: "name-" + id}
	}
	return out
}

func TestTrackSet(t *testing.T) {
	p1 := NewTrackSet(tracks("t1", "t2")...)
	p2 := NewTrackSet(tracks("t2", "t3")...)

	t.Run("union", func(t *testing.T) {
		if got := fmt.Sprint(p1.Union(p2).IDs()); got != "[t1 t2 t3]" {
			t.Errorf("expected [t1 t2 t3], got %s", got)
		}
	})

	t.Run("intersection", func(t *testing.T) {
		if got := fmt.Sprint(p1.Intersect(p2).IDs()); got != "[t2]" {
			t.Errorf("expected [t2], got %s", got)
		}
	})

	t.Run("operands are unchanged", func(t *testing.T) {
		if p1.Len() != 2 || p2.Len() != 2 {
			t.Errorf("expected operands to keep 2 members, got %d and %d", p1.Len(), p2.Len())
		}
	})

	t.Run("identity is the id", func(t *testing.T) {
		s := NewTrackSet(&Track{ID: "t1", Name: "A"})
		if s.Add(&Track{ID: "t1", Name: "B", AlbumID: "other"}) {
			t.Error("expected a track with the same id to be rejected")
		}
		if s.Len() != 1 || s.Tracks()[0].Name != "A" {
			t.Errorf("expected the first track to win, got %+v", s.Tracks())
		}
		if s.Add(nil) {
			t.Error("expected nil to be rejected")
		}
	})

	t.Run("empty operands", func(t *testing.T) {
		empty := NewTrackSet()
		if empty.Union(p1).Len() != 2 || empty.Intersect(p1).Len() != 0 || p1.Intersect(empty).Len() != 0 {
			t.Error("unexpected result with empty operand")
		}
	})
}
