package booking

import "sync"

// slotLocks hands out one mutex per (garage, date, time slot) key so
// that the occupied-bays read and the following insert or patch for a
// slot run under mutual exclusion.  Entries are reference counted and
// removed once the last holder releases them, keeping the map bounded
// by the number of slots currently being written.
type slotLocks struct {
	mu    sync.Mutex
	slots map[string]*slotLock
}

type slotLock struct {
	sync.Mutex
	refs int
}

func newSlotLocks() *slotLocks {
	return &slotLocks{slots: make(map[string]*slotLock)}
}

// acquire blocks until the caller holds the lock for key and returns
// the release function.
func (l *slotLocks) acquire(key string) func() {
	l.mu.Lock()
	s, ok := l.slots[key]
	if !ok {
		s = &slotLock{}
		l.slots[key] = s
	}
	s.refs++
	l.mu.Unlock()

	s.Lock()
	return func() {
		s.Unlock()
		l.mu.Lock()
		s.refs--
		if s.refs == 0 {
			delete(l.slots, key)
		}
		l.mu.Unlock()
	}
}
