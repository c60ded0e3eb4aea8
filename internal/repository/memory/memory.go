// Package memory provides process-local implementations of the repository interfaces.
// They back STORAGE_BACKEND=memory and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

type key struct {
	userID   string
	platform domain.Platform
}

// LinkStore is an in-memory repository.PlatformLink
type LinkStore struct {
	mu    sync.RWMutex
	links map[key]domain.PlatformLink
	now   func() time.Time
}

// NewLinkStore creates an empty LinkStore
func NewLinkStore() *LinkStore {
	return &LinkStore{links: make(map[key]domain.PlatformLink), now: time.Now}
}

func (s *LinkStore) GetLink(_ context.Context, userID string, platform domain.Platform) (*domain.PlatformLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.links[key{userID, platform}]
	if !ok {
		return nil, domain.ErrLinkNotFound
	}
	return copyLink(l), nil
}

func (s *LinkStore) SaveLink(_ context.Context, link *domain.PlatformLink) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{link.UserID, link.Platform}
	stored := *copyLink(*link)
	if prev, ok := s.links[k]; ok {
		stored.CreatedAt = prev.CreatedAt
	}
	s.links[k] = stored
	return nil
}

func (s *LinkStore) ListLinks(_ context.Context, userID string) ([]domain.PlatformLink, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []domain.PlatformLink
	for k, l := range s.links {
		if k.userID == userID {
			out = append(out, *copyLink(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Platform < out[j].Platform })
	return out, nil
}

func (s *LinkStore) ResetLink(_ context.Context, userID string, platform domain.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, platform}
	l, ok := s.links[k]
	if !ok {
		return nil
	}
	l.Reset(s.now())
	s.links[k] = l
	return nil
}

func (s *LinkStore) TouchLastSynced(_ context.Context, userID string, platform domain.Platform, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, platform}
	l, ok := s.links[k]
	if !ok {
		return domain.ErrLinkNotFound
	}
	if l.LastSyncedAt == nil || at.After(*l.LastSyncedAt) {
		l.LastSyncedAt = &at
		s.links[k] = l
	}
	return nil
}

func (s *LinkStore) ListConnectedUserIDs(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for k, l := range s.links {
		if l.Connected {
			seen[k.userID] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

func copyLink(l domain.PlatformLink) *domain.PlatformLink {
	out := l
	out.VerificationExpiry = copyTime(l.VerificationExpiry)
	out.VerifiedAt = copyTime(l.VerifiedAt)
	out.LastSyncedAt = copyTime(l.LastSyncedAt)
	return &out
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

// StatsStore is an in-memory repository.StatsCache
type StatsStore struct {
	mu    sync.RWMutex
	stats map[key]*domain.NormalizedStats
}

// NewStatsStore creates an empty StatsStore
func NewStatsStore() *StatsStore {
	return &StatsStore{stats: make(map[key]*domain.NormalizedStats)}
}

func (s *StatsStore) GetStats(_ context.Context, userID string, platform domain.Platform) (*domain.NormalizedStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.stats[key{userID, platform}]
	if !ok {
		return nil, domain.ErrStatsNotFound
	}
	return st.Clone(), nil
}

func (s *StatsStore) UpsertStats(_ context.Context, userID string, stats *domain.NormalizedStats) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := key{userID, stats.Platform}
	if prev, ok := s.stats[k]; ok && prev.FetchedAt.After(stats.FetchedAt) {
		return false, nil
	}
	s.stats[k] = stats.Clone()
	return true, nil
}

func (s *StatsStore) DeleteStats(_ context.Context, userID string, platform domain.Platform) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.stats, key{userID, platform})
	return nil
}
