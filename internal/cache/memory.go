package cache

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/metrics"
)

// slot holds the current snapshot for one (user, platform) key.
// The pointer is only ever swapped, never mutated in place.
type slot struct {
	snap atomic.Pointer[domain.NormalizedStats]
}

// MemoryStore is a bounded in-memory snapshot cache. Writers to the same key resolve by
// FetchedAt with compare-and-swap; writers to different keys never share a lock beyond slot lookup.
type MemoryStore struct {
	mu  sync.Mutex
	lru *expirable.LRU[string, *slot]
}

// NewMemoryStore creates a store holding at most size keys, each for at most ttl
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = DefaultSize
	}
	return &MemoryStore{
		lru: expirable.NewLRU[string, *slot](size, nil, ttl),
	}
}

// Get returns a deep copy of the cached snapshot; it never blocks on writers
func (m *MemoryStore) Get(userID string, p domain.Platform) (*domain.NormalizedStats, bool) {
	s, ok := m.lru.Get(cacheKey(userID, p))
	if !ok {
		return nil, false
	}
	snap := s.snap.Load()
	if snap == nil {
		return nil, false
	}
	return snap.Clone(), true
}

// Put stores stats unless a snapshot with a later FetchedAt is already present.
// It reports whether the write was applied.
func (m *MemoryStore) Put(userID string, stats *domain.NormalizedStats) bool {
	next := stats.Clone()
	s := m.slotFor(cacheKey(userID, stats.Platform))
	for {
		cur := s.snap.Load()
		if cur != nil && cur.FetchedAt.After(next.FetchedAt) {
			metrics.CacheStaleRejections.Inc()
			return false
		}
		if s.snap.CompareAndSwap(cur, next) {
			return true
		}
	}
}

// Delete drops the key
func (m *MemoryStore) Delete(userID string, p domain.Platform) {
	m.lru.Remove(cacheKey(userID, p))
}

// Len returns the number of cached keys
func (m *MemoryStore) Len() int {
	return m.lru.Len()
}

func (m *MemoryStore) slotFor(key string) *slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.lru.Get(key); ok {
		return s
	}
	s := &slot{}
	m.lru.Add(key, s)
	return s
}

func cacheKey(userID string, p domain.Platform) string {
	return userID + keySeparator + string(p)
}
