package platform

import (
	"context"
	"fmt"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// Adapter isolates everything platform-specific behind one contract.
// Platforms without contest history return an empty slice from FetchRatingHistory, not an error.
type Adapter interface {
	Platform() domain.Platform

	// FetchProfileText reads the public profile fields a user can edit, for verification only
	FetchProfileText(ctx context.Context, handle string) (string, error)

	// FetchStats retrieves solve counts and ratings in the platform's native shape
	FetchStats(ctx context.Context, handle string) (domain.RawStats, error)

	// FetchRatingHistory retrieves contest history, ordered ascending by time
	FetchRatingHistory(ctx context.Context, handle string) ([]domain.RawRatingPoint, error)

	// Normalize maps native data onto NormalizedStats. It performs no I/O.
	Normalize(raw domain.RawStats, history []domain.RawRatingPoint) (*domain.NormalizedStats, error)
}

// defaultRequestsPerSync assumes one request for stats and one for history
const defaultRequestsPerSync = 2

// RequestBudgeter is implemented by adapters that know how many upstream requests one sync costs
type RequestBudgeter interface {
	RequestsPerSync() int
}

// SnapshotFetcher is implemented by adapters that read stats and history from a single response
type SnapshotFetcher interface {
	FetchSnapshot(ctx context.Context, handle string) (domain.RawStats, []domain.RawRatingPoint, error)
}

// RequestsPerSync returns the upstream requests one stats+history sync through a spends
func RequestsPerSync(a Adapter) int {
	if b, ok := a.(RequestBudgeter); ok {
		return b.RequestsPerSync()
	}
	return defaultRequestsPerSync
}

// Registry maps each platform to its adapter
type Registry struct {
	adapters map[domain.Platform]Adapter
}

// NewRegistry builds a registry from the given adapters. A later adapter replaces an earlier one for the same platform.
func NewRegistry(adapters ...Adapter) *Registry {
	r := &Registry{adapters: make(map[domain.Platform]Adapter, len(adapters))}
	for _, a := range adapters {
		r.adapters[a.Platform()] = a
	}
	return r
}

// NewDefaultRegistry wires the four real platform adapters onto one shared client
func NewDefaultRegistry(client *Client, urls BaseURLs, githubToken string) *Registry {
	urls = urls.withDefaults()
	return NewRegistry(
		NewLeetCodeAdapter(client, urls.LeetCode),
		NewCodeforcesAdapter(client, urls.Codeforces),
		NewCodeChefAdapter(client, urls.CodeChef),
		NewGitHubAdapter(client, urls.GitHub, githubToken),
	)
}

// Lookup returns the adapter for p
func (r *Registry) Lookup(p domain.Platform) (Adapter, error) {
	a, ok := r.adapters[p]
	if !ok {
		return nil, fmt.Errorf("%w: no adapter for %q", domain.ErrInvalidPlatform, p)
	}
	return a, nil
}

// Platforms lists registered platforms in the stable supported order
func (r *Registry) Platforms() []domain.Platform {
	out := make([]domain.Platform, 0, len(r.adapters))
	for _, p := range domain.SupportedPlatforms() {
		if _, ok := r.adapters[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// BaseURLs overrides upstream endpoints, mostly for tests and mirrors
type BaseURLs struct {
	LeetCode   string
	Codeforces string
	CodeChef   string
	GitHub     string
}

func (u BaseURLs) withDefaults() BaseURLs {
	if u.LeetCode == "" {
		u.LeetCode = DefaultLeetCodeBaseURL
	}
	if u.Codeforces == "" {
		u.Codeforces = DefaultCodeforcesBaseURL
	}
	if u.CodeChef == "" {
		u.CodeChef = DefaultCodeChefBaseURL
	}
	if u.GitHub == "" {
		u.GitHub = DefaultGitHubBaseURL
	}
	return u
}

// wrongVariant is returned by Normalize when handed another adapter's raw payload
func wrongVariant(want domain.Platform, raw domain.RawStats) error {
	got := "nil"
	if raw != nil {
		got = raw.RawPlatform().String()
	}
	return fmt.Errorf("%w: %s: %s %s", domain.ErrUpstreamShapeChanged, want, ErrMsgWrongRawVariant, got)
}

// convertHistory maps raw points and sorts them ascending
func convertHistory(raw []domain.RawRatingPoint) []domain.RatingPoint {
	out := make([]domain.RatingPoint, 0, len(raw))
	for _, p := range raw {
		out = append(out, domain.RatingPoint{
			Timestamp:   p.At.UTC(),
			Rating:      p.Rating,
			ContestName: p.ContestName,
		})
	}
	return out
}

// maxHistoryRating returns the highest rating in history, or nil for an empty history
func maxHistoryRating(history []domain.RatingPoint) *int {
	if len(history) == 0 {
		return nil
	}
	best := history[0].Rating
	for _, p := range history[1:] {
		if p.Rating > best {
			best = p.Rating
		}
	}
	return &best
}
