package platform

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"time"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// demoContests is the number of synthetic contests in a demo history
const demoContests = 12

// DemoRaw is the synthetic payload produced by DemoAdapter
type DemoRaw struct {
	Seed   uint64
	Easy   int
	Medium int
	Hard   int
	Rating int
}

// RawPlatform implements domain.RawStats
func (DemoRaw) RawPlatform() domain.Platform { return domain.PlatformDemo }

// DemoAdapter fabricates deterministic stats for users with nothing connected.
// Output is always labeled synthetic and must never be cached as real data.
type DemoAdapter struct {
	// epoch anchors the synthetic history so output is stable across calls
	epoch time.Time
}

// NewDemoAdapter creates a demo adapter whose history ends at epoch
func NewDemoAdapter(epoch time.Time) *DemoAdapter {
	return &DemoAdapter{epoch: epoch.UTC().Truncate(24 * time.Hour)}
}

func (a *DemoAdapter) Platform() domain.Platform { return domain.PlatformDemo }

func (a *DemoAdapter) RequestsPerSync() int { return 0 }

// FetchProfileText is not supported; demo links are never verified
func (a *DemoAdapter) FetchProfileText(context.Context, string) (string, error) {
	return "", fmt.Errorf("%w: demo adapter has no profiles", domain.ErrInvalidPlatform)
}

// FetchStats derives stats from seed, which is the user id
func (a *DemoAdapter) FetchStats(_ context.Context, seed string) (domain.RawStats, error) {
	s := seedOf(seed)
	r := rand.New(rand.NewPCG(s, s>>1))
	return DemoRaw{
		Seed:   s,
		Easy:   40 + r.IntN(160),
		Medium: 20 + r.IntN(120),
		Hard:   r.IntN(40),
		Rating: 1200 + r.IntN(900),
	}, nil
}

// FetchRatingHistory produces one contest per week ending at the adapter epoch
func (a *DemoAdapter) FetchRatingHistory(_ context.Context, seed string) ([]domain.RawRatingPoint, error) {
	s := seedOf(seed)
	r := rand.New(rand.NewPCG(s, s>>2))
	rating := 1200
	out := make([]domain.RawRatingPoint, 0, demoContests)
	for i := demoContests; i > 0; i-- {
		rating += r.IntN(120) - 50
		out = append(out, domain.RawRatingPoint{
			At:          a.epoch.Add(-time.Duration(i) * 7 * 24 * time.Hour),
			Rating:      rating,
			ContestName: fmt.Sprintf("Demo Weekly %d", demoContests-i+1),
			Rank:        1 + r.IntN(5000),
		})
	}
	return out, nil
}

// Normalize marks the result synthetic
func (a *DemoAdapter) Normalize(raw domain.RawStats, history []domain.RawRatingPoint) (*domain.NormalizedStats, error) {
	d, ok := raw.(DemoRaw)
	if !ok {
		return nil, wrongVariant(domain.PlatformDemo, raw)
	}
	stats := &domain.NormalizedStats{
		Platform:    domain.PlatformDemo,
		TotalSolved: d.Easy + d.Medium + d.Hard,
		DifficultyBreakdown: map[string]int{
			domain.DifficultyEasy:   d.Easy,
			domain.DifficultyMedium: d.Medium,
			domain.DifficultyHard:   d.Hard,
		},
		RatingHistory: convertHistory(history),
		Extensions: map[string]any{
			ExtSynthetic:     true,
			ExtSyntheticSeed: d.Seed,
		},
	}
	stats.SortHistory()
	stats.RatingMax = maxHistoryRating(stats.RatingHistory)
	if n := len(stats.RatingHistory); n > 0 {
		stats.RatingCurrent = domain.IntPtr(stats.RatingHistory[n-1].Rating)
	} else {
		stats.RatingCurrent = domain.IntPtr(d.Rating)
	}
	return stats, nil
}

func seedOf(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
