package service

import (
	"slices"
	"sync"
)

// Selection is the ordered set of checked recording ids
// it is always a subset of the ids on the currently loaded page
type Selection struct {
	mu      sync.RWMutex
	visible map[string]struct{}
	order   []string
}

// NewSelection returns an empty selection with nothing visible
func NewSelection() *Selection {
	return &Selection{visible: map[string]struct{}{}}
}

// Reset empties the selection and replaces the visible ids
func (s *Selection) Reset(visible []string) {
	vis := make(map[string]struct{}, len(visible))
	for _, id := range visible {
		vis[id] = struct{}{}
	}
	s.mu.Lock()
	s.visible = vis
	s.order = nil
	s.mu.Unlock()
}

// Clear empties the selection and keeps the visible ids
func (s *Selection) Clear() {
	s.mu.Lock()
	s.order = nil
	s.mu.Unlock()
}

// Toggle adds id when absent and removes it when present
// ids that are not visible are ignored; the result is whether id is selected afterwards
func (s *Selection) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.visible[id]; !ok {
		return false
	}
	if i := slices.Index(s.order, id); i >= 0 {
		s.order = slices.Delete(s.order, i, i+1)
		return false
	}
	s.order = append(s.order, id)
	return true
}

// SelectAllVisible makes the selection exactly the visible members of ids when checked
// and empties it when unchecked
func (s *Selection) SelectAllVisible(ids []string, checked bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !checked {
		s.order = nil
		return
	}
	next := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := s.visible[id]; !ok || slices.Contains(next, id) {
			continue
		}
		next = append(next, id)
	}
	s.order = next
}

// IDs returns a copy of the selection in selection order, never nil
func (s *Selection) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.order...)
}

// state reads the ids and the all-visible flag under one lock
func (s *Selection) state() ([]string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.order...), s.allVisible()
}

// Len returns the number of selected ids
func (s *Selection) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Has reports whether id is selected
func (s *Selection) Has(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.order, id)
}

// allVisible reports whether every visible id is selected, false when nothing is visible.
// Requires s.mu.
func (s *Selection) allVisible() bool { return len(s.visible) > 0 && len(s.order) == len(s.visible) }
