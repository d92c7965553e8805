package placement

import "sync"

// SlotKey identifies a cascade slot sequence.
type SlotKey string

const (
	SlotTopLeft                SlotKey = "top_left"
	SlotTopRight               SlotKey = "top_right"
	SlotTopCenter              SlotKey = "top_center"
	SlotRightToLeftTopRight    SlotKey = "right_to_left_top_right"
	SlotLeftToRightTopLeft     SlotKey = "left_to_right_top_left"
	SlotRightToLeftBottomRight SlotKey = "right_to_left_bottom_right"
	SlotLeftToRightBottomLeft  SlotKey = "left_to_right_bottom_left"
)

// SlotKeys returns all registry keys.
func SlotKeys() []SlotKey {
	return []SlotKey{
		SlotTopLeft,
		SlotTopRight,
		SlotTopCenter,
		SlotRightToLeftTopRight,
		SlotLeftToRightTopLeft,
		SlotRightToLeftBottomRight,
		SlotLeftToRightBottomLeft,
	}
}

// slot is a single cascade counter with its own lock, so bubbles in
// different cascade modes never contend.
type slot struct {
	mu    sync.Mutex
	index int
}

// Registry tracks the next cascade slot for each cascade key.
// One Registry is shared by every bubble an application creates.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.Mutex
	slots map[SlotKey]*slot
}

// NewRegistry creates a registry with every key at slot 0.
func NewRegistry() *Registry {
	r := &Registry{slots: make(map[SlotKey]*slot)}
	for _, k := range SlotKeys() {
		r.slots[k] = &slot{}
	}
	return r
}

func (r *Registry) get(key SlotKey) *slot {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.slots[key]
	if !ok {
		s = &slot{}
		r.slots[key] = s
	}
	return s
}

// Next returns the current index for key and advances it modulo limit.
// A limit below 1 is treated as 1.
func (r *Registry) Next(key SlotKey, limit int) int {
	if limit < 1 {
		limit = 1
	}
	s := r.get(key)
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.index
	if current >= limit {
		// Screen shrank since the last advance.
		current = 0
	}
	s.index = (current + 1) % limit
	return current
}

// Peek returns the current index for key without advancing it.
func (r *Registry) Peek(key SlotKey) int {
	s := r.get(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index
}

// Reset sets the index for key back to 0.
func (r *Registry) Reset(key SlotKey) {
	s := r.get(key)
	s.mu.Lock()
	s.index = 0
	s.mu.Unlock()
}

// ResetAll sets every key back to 0.
func (r *Registry) ResetAll() {
	for _, k := range SlotKeys() {
		r.Reset(k)
	}
}
