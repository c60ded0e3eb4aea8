package repository

import (
	"context"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// StatsCache defines durable storage for the last good NormalizedStats per (user, platform)
type StatsCache interface {
	// GetStats returns domain.ErrStatsNotFound when nothing is cached for the key
	GetStats(ctx context.Context, userID string, platform domain.Platform) (*domain.NormalizedStats, error)

	// UpsertStats stores the snapshot unless a newer one (by FetchedAt) is already stored.
	// The boolean reports whether the write was applied.
	UpsertStats(ctx context.Context, userID string, stats *domain.NormalizedStats) (bool, error)

	// DeleteStats removes the snapshot for the key; missing keys are not an error
	DeleteStats(ctx context.Context, userID string, platform domain.Platform) error
}
