package syncer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/osse101/CodeLedger_Go/internal/concurrency"
	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/logger"
	"github.com/osse101/CodeLedger_Go/internal/metrics"
	"github.com/osse101/CodeLedger_Go/internal/platform"
	"github.com/osse101/CodeLedger_Go/internal/repository"
)

// AdapterLookup resolves the adapter for a platform
type AdapterLookup interface {
	Lookup(p domain.Platform) (platform.Adapter, error)
}

// StatsStore is the snapshot cache the orchestrator writes on success
type StatsStore interface {
	Get(ctx context.Context, userID string, p domain.Platform) (*domain.NormalizedStats, error)
	Put(ctx context.Context, userID string, stats *domain.NormalizedStats) (bool, error)
}

// SweepNotifier is told about sweeps that had failures
type SweepNotifier interface {
	NotifySweep(ctx context.Context, summary *domain.SweepSummary) error
}

// Admission reserves a platform's background request budget before a sweep sync starts its timeout
type Admission interface {
	Admit(ctx context.Context, p domain.Platform, n int) (context.Context, error)
}

// Service coordinates on-demand and scheduled synchronization
type Service interface {
	// SyncOne syncs one connected platform under the sync timeout
	SyncOne(ctx context.Context, userID string, p domain.Platform) (*domain.NormalizedStats, error)

	// SyncAllForUser syncs every connected platform concurrently; per-platform failures land in the outcome
	SyncAllForUser(ctx context.Context, userID string) (*domain.SyncOutcome, error)

	// Sweep syncs every user with at least one connected platform
	Sweep(ctx context.Context) (*domain.SweepSummary, error)

	// CachedStats returns cached snapshots of connected platforms without upstream calls
	CachedStats(ctx context.Context, userID string) (*CachedView, error)
}

// CachedView is the read-only stats view served to the UI
type CachedView struct {
	UserID string `json:"user_id"`
	Demo   bool   `json:"demo"`

	// Stats has an entry per connected platform; nil means not synced yet
	Stats map[domain.Platform]*domain.NormalizedStats `json:"stats"`
}

// Config tunes the orchestrator
type Config struct {
	SyncTimeout      time.Duration
	SweepConcurrency int
	DemoMode         bool

	// Admission gates sweep syncs on the shared upstream budget; nil admits immediately
	Admission Admission

	// Now overrides the clock in tests
	Now func() time.Time
}

type service struct {
	links    repository.PlatformLink
	stats    StatsStore
	adapters AdapterLookup
	demo     platform.Adapter
	notifier SweepNotifier
	locks    *concurrency.LockManager
	cfg      Config

	sweeping atomic.Bool
}

// NewService creates the orchestrator. demo may be nil when demo mode is off; notifier may be nil.
// locks must be the manager verification uses so disconnects and stats writes on a link serialize.
func NewService(links repository.PlatformLink, store StatsStore, adapters AdapterLookup, demo platform.Adapter, notifier SweepNotifier, locks *concurrency.LockManager, cfg Config) Service {
	if cfg.SyncTimeout <= 0 {
		cfg.SyncTimeout = DefaultSyncTimeout
	}
	if cfg.SyncTimeout > MaxSyncTimeout {
		cfg.SyncTimeout = MaxSyncTimeout
	}
	if cfg.SweepConcurrency <= 0 {
		cfg.SweepConcurrency = DefaultSweepConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if demo == nil {
		cfg.DemoMode = false
	}
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &service{
		links:    links,
		stats:    store,
		adapters: adapters,
		demo:     demo,
		notifier: notifier,
		locks:    locks,
		cfg:      cfg,
	}
}

// SyncOne fails with domain.ErrNotConnected unless the link is connected
func (s *service) SyncOne(ctx context.Context, userID string, p domain.Platform) (*domain.NormalizedStats, error) {
	if !p.IsSupported() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPlatform, p)
	}
	link, err := s.links.GetLink(ctx, userID, p)
	if errors.Is(err, domain.ErrLinkNotFound) {
		return nil, domain.ErrNotConnected
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadLinks, err)
	}
	if !link.Connected {
		return nil, domain.ErrNotConnected
	}
	return s.syncLink(ctx, link, false)
}

// syncLink fetches, normalizes and stores one pair. A failed fetch never touches the cache.
// Background syncs wait for admission before the sync timeout starts.
func (s *service) syncLink(ctx context.Context, link *domain.PlatformLink, background bool) (*domain.NormalizedStats, error) {
	log := logger.FromContext(ctx).With("user_id", link.UserID, "platform", link.Platform)
	start := s.cfg.Now()

	stats, err := s.fetch(ctx, link, background)
	metrics.SyncDuration.WithLabelValues(link.Platform.String()).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.SyncResultsTotal.WithLabelValues(link.Platform.String(), string(domain.KindOf(err))).Inc()
		log.Warn(LogMsgPlatformSyncFailed, "error", err, "kind", domain.KindOf(err))
		return nil, err
	}

	if err := s.persist(ctx, link, stats); err != nil {
		return nil, err
	}

	metrics.SyncResultsTotal.WithLabelValues(link.Platform.String(), kindOK).Inc()
	log.Debug(LogMsgPlatformSynced, "total_solved", stats.TotalSolved, "duration", time.Since(start))
	return stats, nil
}

// persist writes a fetched snapshot under the link lock. A disconnect that landed while the fetch
// was in flight wins over its result, and one arriving now waits until the write is done.
func (s *service) persist(ctx context.Context, link *domain.PlatformLink, stats *domain.NormalizedStats) error {
	log := logger.FromContext(ctx).With("user_id", link.UserID, "platform", link.Platform)

	unlock := s.locks.Lock(concurrency.LinkKey(link.UserID, link.Platform))
	defer unlock()

	current, err := s.links.GetLink(ctx, link.UserID, link.Platform)
	if err != nil && !errors.Is(err, domain.ErrLinkNotFound) {
		return fmt.Errorf("%s: %w", ErrMsgLoadLinks, err)
	}
	if current == nil || !current.Connected || current.Handle != link.Handle {
		log.Info(LogMsgLinkGone)
		return domain.ErrNotConnected
	}

	applied, err := s.stats.Put(ctx, link.UserID, stats)
	if err != nil {
		metrics.SyncResultsTotal.WithLabelValues(link.Platform.String(), string(domain.KindInternal)).Inc()
		return fmt.Errorf("%s: %w", ErrMsgWriteStats, err)
	}
	if !applied {
		log.Info(LogMsgStaleResult, "fetched_at", stats.FetchedAt)
	}
	// last_synced_at is advisory once the snapshot is stored
	if err := s.links.TouchLastSynced(ctx, link.UserID, link.Platform, stats.FetchedAt); err != nil {
		log.Warn(LogMsgTouchFailed, "error", err)
	}
	return nil
}

// fetch runs stats and history concurrently under one timeout and normalizes the result
func (s *service) fetch(ctx context.Context, link *domain.PlatformLink, background bool) (*domain.NormalizedStats, error) {
	adapter, err := s.adapters.Lookup(link.Platform)
	if err != nil {
		return nil, err
	}
	if background && s.cfg.Admission != nil {
		if ctx, err = s.cfg.Admission.Admit(ctx, link.Platform, platform.RequestsPerSync(adapter)); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgAdmission, err)
		}
	}
	return fetchWith(ctx, adapter, link.Handle, s.cfg.SyncTimeout, s.cfg.Now)
}

func fetchWith(ctx context.Context, adapter platform.Adapter, handle string, timeout time.Duration, now func() time.Time) (*domain.NormalizedStats, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var (
		raw     domain.RawStats
		history []domain.RawRatingPoint
	)
	if snap, ok := adapter.(platform.SnapshotFetcher); ok {
		var err error
		if raw, history, err = snap.FetchSnapshot(ctx, handle); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFetchStats, err)
		}
		return normalize(adapter, raw, history, now())
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if raw, err = adapter.FetchStats(gctx, handle); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFetchStats, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if history, err = adapter.FetchRatingHistory(gctx, handle); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgFetchHistory, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return normalize(adapter, raw, history, now())
}

func normalize(adapter platform.Adapter, raw domain.RawStats, history []domain.RawRatingPoint, fetchedAt time.Time) (*domain.NormalizedStats, error) {
	stats, err := adapter.Normalize(raw, history)
	if err != nil {
		return nil, err
	}
	stats.Platform = adapter.Platform()
	stats.FetchedAt = fetchedAt
	stats.SortHistory()
	return stats, nil
}

// SyncAllForUser fails only when the user's links cannot be read
func (s *service) SyncAllForUser(ctx context.Context, userID string) (*domain.SyncOutcome, error) {
	return s.syncUser(ctx, userID, false)
}

func (s *service) syncUser(ctx context.Context, userID string, background bool) (*domain.SyncOutcome, error) {
	log := logger.FromContext(ctx)

	connected, err := s.connectedLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	outcome := domain.NewSyncOutcome(userID, s.cfg.Now())
	if len(connected) == 0 && s.cfg.DemoMode {
		log.Info(LogMsgDemoOutcome, "user_id", userID)
		stats, err := fetchWith(ctx, s.demo, userID, s.cfg.SyncTimeout, s.cfg.Now)
		outcome.Demo = true
		outcome.Results[domain.PlatformDemo] = domain.PlatformResult{Stats: stats, Err: err}
		outcome.FinishedAt = s.cfg.Now()
		return outcome, nil
	}

	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	for i := range connected {
		link := &connected[i]
		g.Go(func() error {
			stats, err := s.syncLink(ctx, link, background)
			mu.Lock()
			outcome.Results[link.Platform] = domain.PlatformResult{Stats: stats, Err: err}
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	outcome.FinishedAt = s.cfg.Now()

	log.Info(LogMsgUserSynced, "user_id", userID, "succeeded", outcome.Succeeded(), "failed", outcome.Failed(),
		"duration", outcome.FinishedAt.Sub(outcome.StartedAt))
	return outcome, nil
}

// Sweep refuses to overlap with a running sweep and is fatal only when the user list cannot be read
func (s *service) Sweep(ctx context.Context) (*domain.SweepSummary, error) {
	log := logger.FromContext(ctx)
	started := s.cfg.Now()

	if !s.sweeping.CompareAndSwap(false, true) {
		log.Warn(LogMsgSweepSkipped)
		metrics.SweepsTotal.WithLabelValues(metrics.ResultSkipped).Inc()
		return &domain.SweepSummary{Skipped: true, StartedAt: started, FinishedAt: started}, nil
	}
	defer s.sweeping.Store(false)

	userIDs, err := s.links.ListConnectedUserIDs(ctx)
	if err != nil {
		metrics.SweepsTotal.WithLabelValues(metrics.ResultFailed).Inc()
		log.Error(LogMsgSweepLoadFailed, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadUsers, err)
	}
	log.Info(LogMsgSweepStarted, "users", len(userIDs), "concurrency", s.cfg.SweepConcurrency)

	summary := &domain.SweepSummary{
		UsersTotal: len(userIDs),
		Failures:   make(map[string]string),
		StartedAt:  started,
	}
	var (
		mu sync.Mutex
		g  errgroup.Group
	)
	g.SetLimit(s.cfg.SweepConcurrency)
	for _, userID := range userIDs {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			metrics.SweepUsersInFlight.Inc()
			defer metrics.SweepUsersInFlight.Dec()

			outcome, err := s.syncUser(ctx, userID, true)

			mu.Lock()
			defer mu.Unlock()
			recordUser(summary, userID, outcome, err)
			if err != nil {
				log.Warn(LogMsgSweepUserFailed, "user_id", userID, "error", err)
			}
			return nil
		})
	}
	_ = g.Wait()
	summary.FinishedAt = s.cfg.Now()

	metrics.SweepsTotal.WithLabelValues(metrics.ResultCompleted).Inc()
	metrics.SweepDuration.Observe(summary.Duration().Seconds())
	log.Info(LogMsgSweepCompleted,
		"users", summary.UsersTotal,
		"succeeded", summary.UsersSucceeded,
		"partial", summary.UsersPartial,
		"failed", summary.UsersFailed,
		"platforms_synced", summary.PlatformsSynced,
		"platforms_failed", summary.PlatformsFailed,
		"duration", summary.Duration())

	if s.notifier != nil && summary.UsersFailed+summary.UsersPartial > 0 {
		if err := s.notifier.NotifySweep(ctx, summary); err != nil {
			log.Warn(LogMsgSweepNotifyFailed, "error", err)
		}
	}
	return summary, nil
}

// recordUser folds one user's outcome into the summary; callers hold the summary lock
func recordUser(summary *domain.SweepSummary, userID string, outcome *domain.SyncOutcome, err error) {
	if err != nil {
		summary.UsersFailed++
		summary.Failures[userID] = err.Error()
		return
	}
	ok, failed := outcome.Succeeded(), outcome.Failed()
	summary.PlatformsSynced += ok
	summary.PlatformsFailed += failed
	switch {
	case failed == 0:
		summary.UsersSucceeded++
	case ok == 0:
		summary.UsersFailed++
		summary.Failures[userID] = ErrMsgAllFailed + ": " + failureKinds(outcome)
	default:
		summary.UsersPartial++
		summary.Failures[userID] = ErrMsgPartialFailure + ": " + failureKinds(outcome)
	}
}

// failureKinds renders "platform=Kind" pairs in stable order
func failureKinds(outcome *domain.SyncOutcome) string {
	var parts []string
	for p, r := range outcome.Results {
		if r.Err != nil {
			parts = append(parts, fmt.Sprintf("%s=%s", p, domain.KindOf(r.Err)))
		}
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}

// CachedStats never calls an upstream platform
func (s *service) CachedStats(ctx context.Context, userID string) (*CachedView, error) {
	connected, err := s.connectedLinks(ctx, userID)
	if err != nil {
		return nil, err
	}

	view := &CachedView{UserID: userID, Stats: make(map[domain.Platform]*domain.NormalizedStats, len(connected))}
	if len(connected) == 0 && s.cfg.DemoMode {
		stats, err := fetchWith(ctx, s.demo, userID, s.cfg.SyncTimeout, s.cfg.Now)
		if err != nil {
			return nil, err
		}
		view.Demo = true
		view.Stats[domain.PlatformDemo] = stats
		return view, nil
	}

	for _, link := range connected {
		stats, err := s.stats.Get(ctx, userID, link.Platform)
		switch {
		case errors.Is(err, domain.ErrStatsNotFound):
			view.Stats[link.Platform] = nil
		case err != nil:
			return nil, fmt.Errorf("%s: %w", ErrMsgReadStats, err)
		default:
			view.Stats[link.Platform] = stats
		}
	}
	return view, nil
}

func (s *service) connectedLinks(ctx context.Context, userID string) ([]domain.PlatformLink, error) {
	links, err := s.links.ListLinks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadLinks, err)
	}
	connected := links[:0]
	for _, l := range links {
		if l.Connected && l.Platform.IsSupported() {
			connected = append(connected, l)
		}
	}
	return connected, nil
}
