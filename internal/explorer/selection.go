package explorer

import (
	"slices"

	mapset "github.com/deckarep/golang-set/v2"
)

// Selection is a set of marked entry paths.
type Selection struct {
	set mapset.Set[string]
}

func NewSelection(paths ...string) *Selection {
	return &Selection{set: mapset.NewThreadUnsafeSet(paths...)}
}

// Toggle flips the mark on path and reports whether it is now marked.
func (s *Selection) Toggle(path string) bool {
	if s.set.Contains(path) {
		s.set.Remove(path)
		return false
	}
	s.set.Add(path)
	return true
}

func (s *Selection) Add(path string)    { s.set.Add(path) }
func (s *Selection) Remove(path string) { s.set.Remove(path) }

func (s *Selection) Contains(path string) bool { return s.set.Contains(path) }

func (s *Selection) Len() int { return s.set.Cardinality() }

func (s *Selection) Clear() { s.set.Clear() }

// Items returns the marked paths in sorted order.
func (s *Selection) Items() []string {
	items := s.set.ToSlice()
	slices.Sort(items)
	return items
}
