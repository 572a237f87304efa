package bota

import "sort"

// HighlightSet reports which entities are drawn in the highlight colour.
// It is owned by the embedder and read by the renderer every frame.
type HighlightSet interface {
	Has(id string) bool
}

// HighlightFunc adapts a function to HighlightSet.
type HighlightFunc func(id string) bool

// Has implements HighlightSet.
func (f HighlightFunc) Has(id string) bool { return f(id) }

// noHighlight is used when no set has been installed.
var noHighlight HighlightSet = HighlightFunc(func(string) bool { return false })

// Selection is a map-backed HighlightSet with the toggle semantics of a
// "click to select" map. The zero value is empty and ready to use.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection returns a selection containing ids.
func NewSelection(ids ...string) *Selection {
	s := &Selection{}
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Has implements HighlightSet.
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Add selects id.
func (s *Selection) Add(id string) {
	if s.ids == nil {
		s.ids = make(map[string]struct{})
	}
	s.ids[id] = struct{}{}
}

// Remove deselects id.
func (s *Selection) Remove(id string) {
	delete(s.ids, id)
}

// Toggle flips the selection state of id and reports whether it is now selected.
func (s *Selection) Toggle(id string) bool {
	if s.Has(id) {
		s.Remove(id)
		return false
	}
	s.Add(id)
	return true
}

// Clear deselects everything.
func (s *Selection) Clear() {
	clear(s.ids)
}

// SelectAll selects every entity in ds.
func (s *Selection) SelectAll(ds *Dataset) {
	for _, e := range ds.Entities() {
		s.Add(e.ID)
	}
}

// Len returns the number of selected ids.
func (s *Selection) Len() int { return len(s.ids) }

// IDs returns the selected ids in sorted order.
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
