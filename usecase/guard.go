package usecase

import (
	"based/domain"
	"sync"
)

// EntryGuard serializes the protocol's mutating entry points. It rejects a
// call while another guarded call is active, and rejects a second guarded call
// from the same origin within the same execution unit. The unit height is
// injected so tests and the daemon can define what "same block" means.
type EntryGuard struct {
	mu        sync.Mutex
	active    bool
	height    func() uint64
	lastEntry map[string]uint64
}

func NewEntryGuard(height func() uint64) *EntryGuard {
	return &EntryGuard{
		height:    height,
		lastEntry: make(map[string]uint64),
	}
}

// Enter claims the guard for origin. The returned done function must be called
// with the outcome of the operation: a failed operation releases the origin's
// per-unit slot again, so a rejection leaves no trace, as if it never ran.
func (guard *EntryGuard) Enter(origin string) (func(error), error) {
	guard.mu.Lock()
	defer guard.mu.Unlock()

	if guard.active {
		return nil, domain.ErrorReentrantCall
	}

	unit := guard.height()
	previous, seen := guard.lastEntry[origin]
	if seen && previous == unit {
		return nil, domain.ErrorOneCallPerUnit
	}

	guard.active = true
	guard.lastEntry[origin] = unit

	done := func(err error) {
		guard.mu.Lock()
		defer guard.mu.Unlock()
		guard.active = false
		if err != nil {
			if seen {
				guard.lastEntry[origin] = previous
			} else {
				delete(guard.lastEntry, origin)
			}
		}
	}
	return done, nil
}
