package realtime

import "sync"

// Selection tracks the entity id shown in an open detail panel so that a
// realtime deletion can clear the panel instead of leaving it pointing at a
// stale id.
type Selection struct {
	mu      sync.Mutex
	id      string
	onClear func()
}

// Select records the currently open detail id and the callback that clears
// the panel's cached state.
func (s *Selection) Select(id string, onClear func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.id = id
	s.onClear = onClear
}

// Current returns the selected id, or "" when nothing is open.
func (s *Selection) Current() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Clear unconditionally drops the selection and runs the clear callback.
func (s *Selection) Clear() {
	s.mu.Lock()
	id, onClear := s.id, s.onClear
	s.id = ""
	s.onClear = nil
	s.mu.Unlock()
	if id != "" && onClear != nil {
		onClear()
	}
}

// Drop clears the selection only when it refers to the given id.
func (s *Selection) Drop(id string) {
	s.mu.Lock()
	if s.id != id {
		s.mu.Unlock()
		return
	}
	onClear := s.onClear
	s.id = ""
	s.onClear = nil
	s.mu.Unlock()
	if onClear != nil {
		onClear()
	}
}
