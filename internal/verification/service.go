package verification

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/text/cases"

	"github.com/osse101/CodeLedger_Go/internal/concurrency"
	"github.com/osse101/CodeLedger_Go/internal/domain"
	"github.com/osse101/CodeLedger_Go/internal/logger"
	"github.com/osse101/CodeLedger_Go/internal/metrics"
	"github.com/osse101/CodeLedger_Go/internal/platform"
	"github.com/osse101/CodeLedger_Go/internal/repository"
)

// AdapterLookup resolves the adapter used to read a platform profile
type AdapterLookup interface {
	Lookup(p domain.Platform) (platform.Adapter, error)
}

// StatsEvictor drops cached stats when a platform is disconnected
type StatsEvictor interface {
	Delete(ctx context.Context, userID string, p domain.Platform) error
}

// Service defines the proof-of-ownership workflow
type Service interface {
	// Initiate issues (or re-issues) a challenge for the handle
	Initiate(ctx context.Context, userID string, p domain.Platform, handle string) (*Challenge, error)

	// Confirm checks the external profile for the pending code
	Confirm(ctx context.Context, userID string, p domain.Platform, handle string) (*ConnectionResult, error)

	// Cancel drops a pending challenge
	Cancel(ctx context.Context, userID string, p domain.Platform) error

	// Disconnect resets a connected link and evicts its cached stats
	Disconnect(ctx context.Context, userID string, p domain.Platform) error

	// Status reports the state of every supported platform for the user
	Status(ctx context.Context, userID string) ([]LinkStatus, error)
}

// Challenge is returned by Initiate
type Challenge struct {
	Platform         domain.Platform `json:"platform"`
	Handle           string          `json:"handle"`
	VerificationCode string          `json:"verification_code"`
	ExpiresAt        time.Time       `json:"expires_at"`
	ExpiresInMinutes int             `json:"expires_in_minutes"`
	Instructions     string          `json:"instructions"`
}

// ConnectionResult is returned by a successful Confirm
type ConnectionResult struct {
	Platform   domain.Platform `json:"platform"`
	Connected  bool            `json:"connected"`
	Handle     string          `json:"handle"`
	VerifiedAt *time.Time      `json:"verified_at,omitempty"`
}

// LinkStatus is the caller-visible view of one PlatformLink
type LinkStatus struct {
	Platform     domain.Platform  `json:"platform"`
	DisplayName  string           `json:"display_name"`
	State        domain.LinkState `json:"state"`
	Handle       string           `json:"handle,omitempty"`
	ExpiresAt    *time.Time       `json:"expires_at,omitempty"`
	VerifiedAt   *time.Time       `json:"verified_at,omitempty"`
	LastSyncedAt *time.Time       `json:"last_synced_at,omitempty"`
}

// Config tunes the verification service
type Config struct {
	CodeLength   int
	TTL          time.Duration
	FetchTimeout time.Duration

	// Now overrides the clock in tests
	Now func() time.Time
}

type service struct {
	repo     repository.PlatformLink
	adapters AdapterLookup
	evictor  StatsEvictor
	locks    *concurrency.LockManager
	cfg      Config
}

// NewService creates a new verification service
func NewService(repo repository.PlatformLink, adapters AdapterLookup, evictor StatsEvictor, locks *concurrency.LockManager, cfg Config) Service {
	if cfg.CodeLength < MinCodeLength {
		cfg.CodeLength = DefaultCodeLength
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.FetchTimeout <= 0 {
		cfg.FetchTimeout = DefaultFetchTimeout
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if locks == nil {
		locks = concurrency.NewLockManager()
	}
	return &service{
		repo:     repo,
		adapters: adapters,
		evictor:  evictor,
		locks:    locks,
		cfg:      cfg,
	}
}

// Initiate issues a challenge. Re-issuing while pending replaces the code and resets the expiry.
func (s *service) Initiate(ctx context.Context, userID string, p domain.Platform, handle string) (*Challenge, error) {
	log := logger.FromContext(ctx)

	if !p.IsSupported() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPlatform, p)
	}
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, ErrMsgHandleRequired)
	}

	unlock := s.locks.Lock(concurrency.LinkKey(userID, p))
	defer unlock()

	now := s.cfg.Now()
	link, err := s.loadOrNew(ctx, userID, p, now)
	if err != nil {
		return nil, err
	}
	if link.Connected {
		return nil, fmt.Errorf("%w: %s %s %s", domain.ErrAlreadyConnected, p, ErrMsgConnectedAs, link.Handle)
	}
	if link.State(now) == domain.LinkStatePendingVerification {
		log.Info(LogMsgChallengeReplaced, "user_id", userID, "platform", p)
	}

	code, err := generateCode(s.cfg.CodeLength)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgGenerateCode, err)
	}
	expiry := now.Add(s.cfg.TTL)
	link.Handle = handle
	link.VerificationCode = code
	link.VerificationExpiry = &expiry
	link.UpdatedAt = now

	if err := s.repo.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSaveLink, err)
	}

	metrics.VerificationsTotal.WithLabelValues(p.String(), resultInitiated).Inc()
	log.Info(LogMsgChallengeIssued, "user_id", userID, "platform", p, "handle", handle, "expires_at", expiry)

	return &Challenge{
		Platform:         p,
		Handle:           handle,
		VerificationCode: code,
		ExpiresAt:        expiry,
		ExpiresInMinutes: int(s.cfg.TTL / time.Minute),
		Instructions:     instructions(p, code),
	}, nil
}

// Confirm is idempotent: confirming an already connected handle returns the connected state.
func (s *service) Confirm(ctx context.Context, userID string, p domain.Platform, handle string) (*ConnectionResult, error) {
	log := logger.FromContext(ctx)

	if !p.IsSupported() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidPlatform, p)
	}
	handle = strings.TrimSpace(handle)

	unlock := s.locks.Lock(concurrency.LinkKey(userID, p))
	defer unlock()

	now := s.cfg.Now()
	link, err := s.repo.GetLink(ctx, userID, p)
	if errors.Is(err, domain.ErrLinkNotFound) {
		return nil, fmt.Errorf("%w: %s", domain.ErrChallengeExpired, ErrMsgNoPendingChallenge)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadLink, err)
	}

	if link.Connected {
		if handle != "" && !sameHandle(handle, link.Handle) {
			return nil, fmt.Errorf("%w: %s %s %s", domain.ErrAlreadyConnected, p, ErrMsgConnectedAs, link.Handle)
		}
		log.Debug(LogMsgAlreadyConnected, "user_id", userID, "platform", p)
		return connectionResult(link), nil
	}

	if !link.HasPendingChallenge() {
		return nil, fmt.Errorf("%w: %s", domain.ErrChallengeExpired, ErrMsgNoPendingChallenge)
	}
	if link.ChallengeExpired(now) {
		// An expired code is cleared so it can never match later
		link.ClearChallenge()
		link.UpdatedAt = now
		if err := s.repo.SaveLink(ctx, link); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgSaveLink, err)
		}
		metrics.VerificationsTotal.WithLabelValues(p.String(), resultExpired).Inc()
		log.Info(LogMsgChallengeExpired, "user_id", userID, "platform", p)
		return nil, domain.ErrChallengeExpired
	}
	if handle != "" && !sameHandle(handle, link.Handle) {
		return nil, fmt.Errorf("%w: %s", domain.ErrVerificationFailed, ErrMsgHandleMismatch)
	}

	text, err := s.fetchProfileText(ctx, p, link.Handle)
	if err != nil {
		metrics.VerificationsTotal.WithLabelValues(p.String(), resultError).Inc()
		log.Warn(LogMsgProfileFetchFailed, "user_id", userID, "platform", p, "error", err)
		return nil, err
	}
	if !strings.Contains(text, link.VerificationCode) {
		metrics.VerificationsTotal.WithLabelValues(p.String(), resultMismatch).Inc()
		log.Info(LogMsgCodeNotFound, "user_id", userID, "platform", p, "handle", link.Handle)
		return nil, domain.ErrVerificationFailed
	}

	link.MarkConnected(link.Handle, now)
	if err := s.repo.SaveLink(ctx, link); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgSaveLink, err)
	}

	metrics.VerificationsTotal.WithLabelValues(p.String(), resultConnected).Inc()
	log.Info(LogMsgPlatformConnected, "user_id", userID, "platform", p, "handle", link.Handle)
	return connectionResult(link), nil
}

// Cancel is a no-op when nothing is pending
func (s *service) Cancel(ctx context.Context, userID string, p domain.Platform) error {
	if !p.IsSupported() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPlatform, p)
	}

	unlock := s.locks.Lock(concurrency.LinkKey(userID, p))
	defer unlock()

	link, err := s.repo.GetLink(ctx, userID, p)
	if errors.Is(err, domain.ErrLinkNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLoadLink, err)
	}
	if link.Connected {
		return fmt.Errorf("%w: %s %s %s", domain.ErrAlreadyConnected, p, ErrMsgConnectedAs, link.Handle)
	}
	if !link.HasPendingChallenge() {
		return nil
	}

	link.ClearChallenge()
	link.Handle = ""
	link.UpdatedAt = s.cfg.Now()
	if err := s.repo.SaveLink(ctx, link); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSaveLink, err)
	}
	logger.FromContext(ctx).Info(LogMsgChallengeCancelled, "user_id", userID, "platform", p)
	return nil
}

// Disconnect resets the link, then evicts its cached stats
func (s *service) Disconnect(ctx context.Context, userID string, p domain.Platform) error {
	if !p.IsSupported() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidPlatform, p)
	}

	unlock := s.locks.Lock(concurrency.LinkKey(userID, p))
	defer unlock()

	link, err := s.repo.GetLink(ctx, userID, p)
	if errors.Is(err, domain.ErrLinkNotFound) {
		return domain.ErrNotConnected
	}
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgLoadLink, err)
	}
	if !link.Connected {
		return domain.ErrNotConnected
	}

	if err := s.repo.ResetLink(ctx, userID, p); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgSaveLink, err)
	}
	if s.evictor != nil {
		if err := s.evictor.Delete(ctx, userID, p); err != nil {
			return fmt.Errorf("%s: %w", ErrMsgEvictStats, err)
		}
	}

	logger.FromContext(ctx).Info(LogMsgPlatformDisconnected, "user_id", userID, "platform", p, "handle", link.Handle)
	return nil
}

// Status lists every supported platform; platforms without a record are unconnected
func (s *service) Status(ctx context.Context, userID string) ([]LinkStatus, error) {
	links, err := s.repo.ListLinks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadLink, err)
	}
	byPlatform := make(map[domain.Platform]*domain.PlatformLink, len(links))
	for i := range links {
		byPlatform[links[i].Platform] = &links[i]
	}

	now := s.cfg.Now()
	out := make([]LinkStatus, 0, len(domain.SupportedPlatforms()))
	for _, p := range domain.SupportedPlatforms() {
		link := byPlatform[p]
		st := LinkStatus{Platform: p, DisplayName: p.DisplayName(), State: link.State(now)}
		switch st.State {
		case domain.LinkStateConnected:
			st.Handle = link.Handle
			st.VerifiedAt = link.VerifiedAt
			st.LastSyncedAt = link.LastSyncedAt
		case domain.LinkStatePendingVerification:
			st.Handle = link.Handle
			st.ExpiresAt = link.VerificationExpiry
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *service) loadOrNew(ctx context.Context, userID string, p domain.Platform, now time.Time) (*domain.PlatformLink, error) {
	link, err := s.repo.GetLink(ctx, userID, p)
	if errors.Is(err, domain.ErrLinkNotFound) {
		return domain.NewPlatformLink(userID, p, now), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgLoadLink, err)
	}
	return link, nil
}

func (s *service) fetchProfileText(ctx context.Context, p domain.Platform, handle string) (string, error) {
	adapter, err := s.adapters.Lookup(p)
	if err != nil {
		return "", err
	}
	ctx, cancel := context.WithTimeout(ctx, s.cfg.FetchTimeout)
	defer cancel()
	return adapter.FetchProfileText(ctx, handle)
}

func connectionResult(link *domain.PlatformLink) *ConnectionResult {
	return &ConnectionResult{
		Platform:   link.Platform,
		Connected:  true,
		Handle:     link.Handle,
		VerifiedAt: link.VerifiedAt,
	}
}

// sameHandle compares handles case-insensitively; platforms treat handles that way
func sameHandle(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

func instructions(p domain.Platform, code string) string {
	tmpl, ok := instructionTemplates[p]
	if !ok {
		return code
	}
	return fmt.Sprintf(tmpl, code)
}

// generateCode draws length characters from codeAlphabet with rejection sampling to avoid modulo bias
func generateCode(length int) (string, error) {
	const n = len(codeAlphabet)
	const limit = 256 - 256%n

	out := make([]byte, 0, length)
	buf := make([]byte, length*2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if int(b) >= limit {
				continue
			}
			out = append(out, codeAlphabet[int(b)%n])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
