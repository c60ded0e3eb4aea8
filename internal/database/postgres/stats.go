package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/repository"
)

// StatsRepository implements repository.StatsCache on the platform_stats table
type StatsRepository struct {
	db *pgxpool.Pool
}

var _ repository.StatsCache = (*StatsRepository)(nil)

// NewStatsRepository creates a new stats repository
func NewStatsRepository(db *pgxpool.Pool) *StatsRepository {
	return &StatsRepository{db: db}
}

// GetStats returns the last stored snapshot for the key
func (r *StatsRepository) GetStats(ctx context.Context, userID string, platform domain.Platform) (*domain.NormalizedStats, error) {
	query := `
		SELECT platform, total_solved, rating_current, rating_max,
			rating_history, difficulty_breakdown, extensions, fetched_at
		FROM platform_stats
		WHERE user_id = $1 AND platform = $2
	`
	var (
		stats                        domain.NormalizedStats
		history, breakdown, extended []byte
	)
	err := r.db.QueryRow(ctx, query, userID, platform).Scan(
		&stats.Platform,
		&stats.TotalSolved,
		&stats.RatingCurrent,
		&stats.RatingMax,
		&history,
		&breakdown,
		&extended,
		&stats.FetchedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrStatsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetStats, err)
	}

	if err := decodeJSONB(history, &stats.RatingHistory); err != nil {
		return nil, err
	}
	if err := decodeJSONB(breakdown, &stats.DifficultyBreakdown); err != nil {
		return nil, err
	}
	if err := decodeJSONB(extended, &stats.Extensions); err != nil {
		return nil, err
	}
	if len(stats.Extensions) == 0 {
		stats.Extensions = nil
	}
	return &stats, nil
}

// UpsertStats writes the snapshot unless the stored one was fetched later
func (r *StatsRepository) UpsertStats(ctx context.Context, userID string, stats *domain.NormalizedStats) (bool, error) {
	history, err := encodeJSONB(stats.RatingHistory, stats.RatingHistory == nil, emptyJSONArray)
	if err != nil {
		return false, err
	}
	breakdown, err := encodeJSONB(stats.DifficultyBreakdown, stats.DifficultyBreakdown == nil, emptyJSONObject)
	if err != nil {
		return false, err
	}
	extended, err := encodeJSONB(stats.Extensions, stats.Extensions == nil, emptyJSONObject)
	if err != nil {
		return false, err
	}

	query := `
		INSERT INTO platform_stats (user_id, platform, total_solved, rating_current, rating_max,
			rating_history, difficulty_breakdown, extensions, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			total_solved = EXCLUDED.total_solved,
			rating_current = EXCLUDED.rating_current,
			rating_max = EXCLUDED.rating_max,
			rating_history = EXCLUDED.rating_history,
			difficulty_breakdown = EXCLUDED.difficulty_breakdown,
			extensions = EXCLUDED.extensions,
			fetched_at = EXCLUDED.fetched_at
		WHERE platform_stats.fetched_at <= EXCLUDED.fetched_at
	`
	tag, err := r.db.Exec(ctx, query,
		userID,
		stats.Platform,
		stats.TotalSolved,
		stats.RatingCurrent,
		stats.RatingMax,
		history,
		breakdown,
		extended,
		stats.FetchedAt,
	)
	if err != nil {
		return false, fmt.Errorf("%s: %w", ErrMsgUpsertStats, err)
	}
	return tag.RowsAffected() > 0, nil
}

// DeleteStats removes the snapshot; a missing row is not an error
func (r *StatsRepository) DeleteStats(ctx context.Context, userID string, platform domain.Platform) error {
	query := `DELETE FROM platform_stats WHERE user_id = $1 AND platform = $2`
	if _, err := r.db.Exec(ctx, query, userID, platform); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgDeleteStats, err)
	}
	return nil
}
