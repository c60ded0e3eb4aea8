package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/repository"
)

const linkColumns = `user_id, platform, handle, connected, COALESCE(verification_code, ''),
	verification_expiry, verified_at, last_synced_at, created_at, updated_at`

// LinkRepository implements repository.PlatformLink
type LinkRepository struct {
	db *pgxpool.Pool
}

var _ repository.PlatformLink = (*LinkRepository)(nil)

// NewLinkRepository creates a new link repository
func NewLinkRepository(db *pgxpool.Pool) *LinkRepository {
	return &LinkRepository{db: db}
}

// GetLink retrieves the link for a (user, platform) key
func (r *LinkRepository) GetLink(ctx context.Context, userID string, platform domain.Platform) (*domain.PlatformLink, error) {
	query := `SELECT ` + linkColumns + ` FROM platform_links WHERE user_id = $1 AND platform = $2`

	link, err := scanLink(r.db.QueryRow(ctx, query, userID, platform))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGetLink, err)
	}
	return link, nil
}

// SaveLink upserts the full link row. last_synced_at only moves forward.
func (r *LinkRepository) SaveLink(ctx context.Context, link *domain.PlatformLink) error {
	query := `
		INSERT INTO platform_links (user_id, platform, handle, connected, verification_code,
			verification_expiry, verified_at, last_synced_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (user_id, platform) DO UPDATE SET
			handle = EXCLUDED.handle,
			connected = EXCLUDED.connected,
			verification_code = EXCLUDED.verification_code,
			verification_expiry = EXCLUDED.verification_expiry,
			verified_at = EXCLUDED.verified_at,
			last_synced_at = CASE
				WHEN EXCLUDED.connected THEN GREATEST(platform_links.last_synced_at, EXCLUDED.last_synced_at)
				ELSE EXCLUDED.last_synced_at
			END,
			updated_at = EXCLUDED.updated_at
	`
	_, err := r.db.Exec(ctx, query,
		link.UserID,
		link.Platform,
		link.Handle,
		link.Connected,
		nullString(link.VerificationCode),
		link.VerificationExpiry,
		link.VerifiedAt,
		link.LastSyncedAt,
		link.CreatedAt,
		link.UpdatedAt,
	)
	if isCheckViolation(err) {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, ErrMsgInvalidLink, err)
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSaveLink, err)
	}
	return nil
}

// ListLinks returns every stored link for the user ordered by platform
func (r *LinkRepository) ListLinks(ctx context.Context, userID string) ([]domain.PlatformLink, error) {
	query := `SELECT ` + linkColumns + ` FROM platform_links WHERE user_id = $1 ORDER BY platform`

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListLinks, err)
	}
	defer rows.Close()

	var links []domain.PlatformLink
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgScanLink, err)
		}
		links = append(links, *link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListLinks, err)
	}
	return links, nil
}

// ResetLink clears handle, challenge and sync state. Missing rows are ignored.
func (r *LinkRepository) ResetLink(ctx context.Context, userID string, platform domain.Platform) error {
	query := `
		UPDATE platform_links
		SET handle = '', connected = FALSE, verification_code = NULL, verification_expiry = NULL,
			verified_at = NULL, last_synced_at = NULL, updated_at = NOW()
		WHERE user_id = $1 AND platform = $2
	`
	if _, err := r.db.Exec(ctx, query, userID, platform); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgResetLink, err)
	}
	return nil
}

// TouchLastSynced advances last_synced_at monotonically
func (r *LinkRepository) TouchLastSynced(ctx context.Context, userID string, platform domain.Platform, at time.Time) error {
	query := `
		UPDATE platform_links
		SET last_synced_at = GREATEST(last_synced_at, $3)
		WHERE user_id = $1 AND platform = $2
	`
	tag, err := r.db.Exec(ctx, query, userID, platform, at)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgTouchLink, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLinkNotFound
	}
	return nil
}

// ListConnectedUserIDs returns distinct users with a connected platform in stable order
func (r *LinkRepository) ListConnectedUserIDs(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT user_id FROM platform_links WHERE connected ORDER BY user_id`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListConnected, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgListConnected, err)
	}
	return ids, nil
}

func scanLink(row pgx.Row) (*domain.PlatformLink, error) {
	var link domain.PlatformLink
	err := row.Scan(
		&link.UserID,
		&link.Platform,
		&link.Handle,
		&link.Connected,
		&link.VerificationCode,
		&link.VerificationExpiry,
		&link.VerifiedAt,
		&link.LastSyncedAt,
		&link.CreatedAt,
		&link.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &link, nil
}
