package concurrency

import (
	"fmt"
	"sync"
)

// linkKeyFormat keys work on one (user, platform) link
const linkKeyFormat = "link:%s:%s"

// LinkKey is the lock key shared by every writer of a (user, platform) link and its cached stats
func LinkKey(userID string, platform fmt.Stringer) string {
	return fmt.Sprintf(linkKeyFormat, userID, platform)
}

type keyedLock struct {
	mu      sync.Mutex
	waiters int
}

// LockManager serializes work per key. Entries are dropped once no goroutine holds or waits on them,
// so the map only grows with the number of keys in flight.
type LockManager struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

// NewLockManager creates a new LockManager
func NewLockManager() *LockManager {
	return &LockManager{locks: make(map[string]*keyedLock)}
}

// Lock blocks until the named lock is held and returns its release function.
// The release function must be called exactly once.
func (lm *LockManager) Lock(key string) func() {
	lm.mu.Lock()
	kl, ok := lm.locks[key]
	if !ok {
		kl = &keyedLock{}
		lm.locks[key] = kl
	}
	kl.waiters++
	lm.mu.Unlock()

	kl.mu.Lock()

	return func() {
		kl.mu.Unlock()

		lm.mu.Lock()
		kl.waiters--
		if kl.waiters == 0 {
			delete(lm.locks, key)
		}
		lm.mu.Unlock()
	}
}

// Len returns the number of keys currently held or awaited
func (lm *LockManager) Len() int {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	return len(lm.locks)
}
