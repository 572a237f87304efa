package bota

import "testing"

// overlapDataset is two 10x10 squares in a 20x20 source space: A at the
// origin and B shifted by (5, 5), defined after A so it is on top.
func overlapDataset(t *testing.T) *Dataset {
	t.Helper()
	ds, err := LoadShapes(20, 20, []RawEntity{
		{ID: "A", Name: "Alpha", Paths: []string{"M0 0 L10 0 L10 10 L0 10 Z"}},
		{ID: "B", Name: "Beta", Paths: []string{"M5 5 L15 5 L15 15 L5 15 Z"}},
	}, WithStrict())
	if err != nil {
		t.Fatalf("LoadShapes: %v", err)
	}
	return ds
}

// newTestMap builds a widget over overlapDataset with instant controls and
// a display of w x h.
func newTestMap(t *testing.T, w, h float64) *WorldMap {
	t.Helper()
	m := New(overlapDataset(t), Config{AnimationDuration: -1})
	m.Resize(w, h)
	return m
}

// recordingSink collects map events.
type recordingSink struct {
	events []MapEvent
}

func (s *recordingSink) EmitEvent(e MapEvent) { s.events = append(s.events, e) }

func (s *recordingSink) count(t EventType) int {
	n := 0
	for _, e := range s.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func entityID(e *Entity) string {
	if e == nil {
		return ""
	}
	return e.ID
}
