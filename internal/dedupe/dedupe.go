// Package dedupe serialises and coalesces work that targets the same fight.
// Turn resolution is a read-modify-write of the whole state blob, so two
// concurrent writers on one fight would lose an update.
package dedupe

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// ResolveGroup coalesces concurrent resolve requests for the same fight id
// into one turn. Callers that arrive while a turn is being resolved share its
// result instead of resolving a second turn.
var ResolveGroup singleflight.Group

// Locks hands out one mutex per key. Entries are reference counted and
// dropped once nobody holds or waits for them.
type Locks struct {
	mu    sync.Mutex
	locks map[string]*refLock
}

type refLock struct {
	mu   sync.Mutex
	refs int
}

// NewLocks returns an empty lock table.
func NewLocks() *Locks {
	return &Locks{locks: make(map[string]*refLock)}
}

// Lock blocks until the mutex for key is held and returns its release func.
func (l *Locks) Lock(key string) (unlock func()) {
	l.mu.Lock()
	rl, ok := l.locks[key]
	if !ok {
		rl = &refLock{}
		l.locks[key] = rl
	}
	rl.refs++
	l.mu.Unlock()

	rl.mu.Lock()
	return func() {
		rl.mu.Unlock()
		l.mu.Lock()
		rl.refs--
		if rl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}

// Len returns the number of keys currently locked or waited on.
func (l *Locks) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}
