package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CodeLedger_Go/internal/database/postgres"
	"github.com/osse101/CodeLedger_Go/internal/repository"
	"github.com/osse101/CodeLedger_Go/internal/repository/memory"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Links repository.PlatformLink
	Stats repository.StatsCache
}

// InitializeRepositories creates PostgreSQL repositories, or in-memory ones when dbPool is nil
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	if dbPool == nil {
		return &Repositories{
			Links: memory.NewLinkStore(),
			Stats: memory.NewStatsStore(),
		}
	}
	return &Repositories{
		Links: postgres.NewLinkRepository(dbPool),
		Stats: postgres.NewStatsRepository(dbPool),
	}
}
