package repository

import (
	"context"
	"time"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// PlatformLink defines data access for per-user platform links
type PlatformLink interface {
	// GetLink returns domain.ErrLinkNotFound when no record exists for the key
	GetLink(ctx context.Context, userID string, platform domain.Platform) (*domain.PlatformLink, error)

	// SaveLink inserts or replaces the link for its (user, platform) key
	SaveLink(ctx context.Context, link *domain.PlatformLink) error

	// ListLinks returns every stored link for a user
	ListLinks(ctx context.Context, userID string) ([]domain.PlatformLink, error)

	// ResetLink returns the link to its unconnected default
	ResetLink(ctx context.Context, userID string, platform domain.Platform) error

	// TouchLastSynced advances last_synced_at; an older timestamp never overwrites a newer one
	TouchLastSynced(ctx context.Context, userID string, platform domain.Platform, at time.Time) error

	// ListConnectedUserIDs returns users with at least one connected platform
	ListConnectedUserIDs(ctx context.Context) ([]string, error)
}
