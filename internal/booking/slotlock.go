package booking

import (
	"fmt"
	"sync"
)

// slotLocks serializes creates per (court, date) key. The authoritative
// overlap check lives inside the store's conditional commit; this lock
// keeps concurrent creates for the same key from racing into it.
type slotLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSlotLocks() *slotLocks {
	return &slotLocks{locks: make(map[string]*sync.Mutex)}
}

func slotKey(courtID int64, date string) string {
	return fmt.Sprintf("%d|%s", courtID, date)
}

// acquire locks the mutex for (courtID, date) and returns it for the
// caller to unlock. Creates for different keys never contend.
func (s *slotLocks) acquire(courtID int64, date string) *sync.Mutex {
	key := slotKey(courtID, date)

	s.mu.Lock()
	lock, ok := s.locks[key]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[key] = lock
	}
	s.mu.Unlock()

	lock.Lock()
	return lock
}
