package gallery

import "sync"

// Slot names an action whose responses can race each other.
type Slot string

const (
	SlotList    Slot = "list"
	SlotInspect Slot = "inspect"
	SlotApply   Slot = "apply"
)

// Sequencer hands out increasing tokens per slot so that only the response to
// the most recent request is applied. The zero value is ready to use.
type Sequencer struct {
	mu     sync.Mutex
	latest map[Slot]uint64
}

// Issue records a new request for slot and returns its token.
func (s *Sequencer) Issue(slot Slot) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.latest == nil {
		s.latest = make(map[Slot]uint64)
	}
	s.latest[slot]++
	return s.latest[slot]
}

// IsLatest reports whether token is still the newest issued for slot.
func (s *Sequencer) IsLatest(slot Slot, token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest[slot] == token
}
