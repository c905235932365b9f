package catalog

// TrackSet is a set of tracks keyed by id. Iteration follows insertion order.
type TrackSet struct {
	order []string
	byID  map[string]*Track
}

// NewTrackSet builds a set from tracks; later tracks with a seen id are dropped.
func NewTrackSet(tracks ...*Track) *TrackSet {
	s := &TrackSet{byID: make(map[string]*Track, len(tracks))}
	for _, t := range tracks {
		s.Add(t)
	}
	return s
}

// Add inserts t unless a track with the same id is present. It reports whether t was added.
func (s *TrackSet) Add(t *Track) bool {
	if t == nil {
		return false
	}
	if _, ok := s.byID[t.ID]; ok {
		return false
	}
	s.byID[t.ID] = t
	s.order = append(s.order, t.ID)
	return true
}

func (s *TrackSet) Contains(id string) bool {
	_, ok := s.byID[id]
	return ok
}

func (s *TrackSet) Len() int { return len(s.order) }

// Tracks returns the members in insertion order.
func (s *TrackSet) Tracks() []*Track {
	tracks := make([]*Track, len(s.order))
	for i, id := range s.order {
		tracks[i] = s.byID[id]
	}
	return tracks
}

// IDs returns the member ids in insertion order.
func (s *TrackSet) IDs() []string {
	return append([]string{}, s.order...)
}

// Union returns the members of s followed by the members of o not in s.
func (s *TrackSet) Union(o *TrackSet) *TrackSet {
	out := NewTrackSet(s.Tracks()...)
	for _, t := range o.Tracks() {
		out.Add(t)
	}
	return out
}

// Intersect returns the members of s whose id is also in o.
func (s *TrackSet) Intersect(o *TrackSet) *TrackSet {
	out := NewTrackSet()
	for _, t := range s.Tracks() {
		if o.Contains(t.ID) {
			out.Add(t)
		}
	}
	return out
}
