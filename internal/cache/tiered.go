package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/logger"
	"github.com/osse101/CodeLedger_Go/internal/metrics"
	"github.com/osse101/CodeLedger_Go/internal/repository"
)

// TieredStore serves snapshots from memory and falls back to the durable StatsCache.
// Writes go to the durable layer first so memory never holds data the database rejected.
type TieredStore struct {
	mem     *MemoryStore
	durable repository.StatsCache
}

// NewTieredStore creates a store. A nil durable layer makes it memory-only.
func NewTieredStore(mem *MemoryStore, durable repository.StatsCache) *TieredStore {
	if mem == nil {
		mem = NewMemoryStore(DefaultSize, DefaultTTL)
	}
	return &TieredStore{mem: mem, durable: durable}
}

// Get never calls an upstream platform. Missing snapshots return domain.ErrStatsNotFound.
func (t *TieredStore) Get(ctx context.Context, userID string, p domain.Platform) (*domain.NormalizedStats, error) {
	if stats, ok := t.mem.Get(userID, p); ok {
		metrics.CacheHits.WithLabelValues(metrics.LayerMemory).Inc()
		return stats, nil
	}
	metrics.CacheMisses.WithLabelValues(metrics.LayerMemory).Inc()

	if t.durable == nil {
		return nil, domain.ErrStatsNotFound
	}
	stats, err := t.durable.GetStats(ctx, userID, p)
	if errors.Is(err, domain.ErrStatsNotFound) {
		metrics.CacheMisses.WithLabelValues(metrics.LayerPersistent).Inc()
		return nil, domain.ErrStatsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgReadDurable, err)
	}
	metrics.CacheHits.WithLabelValues(metrics.LayerPersistent).Inc()

	if !t.mem.Put(userID, stats) {
		logger.FromContext(ctx).Debug(LogMsgWarmFailed, "user_id", userID, "platform", p)
	}
	return stats, nil
}

// Put applies last-writer-wins by FetchedAt in both layers and reports whether the write won
func (t *TieredStore) Put(ctx context.Context, userID string, stats *domain.NormalizedStats) (bool, error) {
	if t.durable != nil {
		applied, err := t.durable.UpsertStats(ctx, userID, stats)
		if err != nil {
			return false, fmt.Errorf("%s: %w", ErrMsgWriteDurable, err)
		}
		if !applied {
			metrics.CacheStaleRejections.Inc()
			logger.FromContext(ctx).Debug(LogMsgStaleWriteRejected, "user_id", userID, "platform", stats.Platform, "fetched_at", stats.FetchedAt)
			return false, nil
		}
	}
	return t.mem.Put(userID, stats), nil
}

// Delete removes the snapshot from both layers
func (t *TieredStore) Delete(ctx context.Context, userID string, p domain.Platform) error {
	if t.durable != nil {
		if err := t.durable.DeleteStats(ctx, userID, p); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgDeleteDurable, err)
		}
	}
	t.mem.Delete(userID, p)
	return nil
}
