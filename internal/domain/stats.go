package domain

import (
	"sort"
	"time"
)

// Difficulty buckets shared by platforms that report them
const (
	DifficultyEasy   = "easy"
	DifficultyMedium = "medium"
	DifficultyHard   = "hard"
)

// RatingPoint is one entry of a normalized contest rating history
type RatingPoint struct {
	Timestamp   time.Time `json:"timestamp"`
	Rating      int       `json:"rating"`
	ContestName string    `json:"contest_name"`
}

// NormalizedStats is the platform-agnostic snapshot every adapter produces.
// RatingHistory is replaced wholesale on each sync and kept in ascending timestamp order.
type NormalizedStats struct {
	Platform            Platform       `json:"platform"`
	TotalSolved         int            `json:"total_solved"`
	RatingCurrent       *int           `json:"rating_current"`
	RatingMax           *int           `json:"rating_max"`
	RatingHistory       []RatingPoint  `json:"rating_history"`
	DifficultyBreakdown map[string]int `json:"difficulty_breakdown"`
	Extensions          map[string]any `json:"extensions,omitempty"`
	FetchedAt           time.Time      `json:"fetched_at"`
}

// SortHistory orders the rating history ascending by timestamp
func (s *NormalizedStats) SortHistory() {
	sort.SliceStable(s.RatingHistory, func(i, j int) bool {
		return s.RatingHistory[i].Timestamp.Before(s.RatingHistory[j].Timestamp)
	})
}

// HistorySorted reports whether the rating history is in ascending order
func (s *NormalizedStats) HistorySorted() bool {
	return sort.SliceIsSorted(s.RatingHistory, func(i, j int) bool {
		return s.RatingHistory[i].Timestamp.Before(s.RatingHistory[j].Timestamp)
	})
}

// Clone returns a deep copy so cached snapshots are never shared with callers
func (s *NormalizedStats) Clone() *NormalizedStats {
	if s == nil {
		return nil
	}
	out := *s
	out.RatingCurrent = cloneInt(s.RatingCurrent)
	out.RatingMax = cloneInt(s.RatingMax)
	if s.RatingHistory != nil {
		out.RatingHistory = make([]RatingPoint, len(s.RatingHistory))
		copy(out.RatingHistory, s.RatingHistory)
	}
	if s.DifficultyBreakdown != nil {
		out.DifficultyBreakdown = make(map[string]int, len(s.DifficultyBreakdown))
		for k, v := range s.DifficultyBreakdown {
			out.DifficultyBreakdown[k] = v
		}
	}
	if s.Extensions != nil {
		out.Extensions = make(map[string]any, len(s.Extensions))
		for k, v := range s.Extensions {
			out.Extensions[k] = v
		}
	}
	return &out
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int {
	return &v
}

// RawStats is the platform-native stats payload returned by an adapter.
// Each adapter has its own concrete type; Normalize rejects a foreign variant.
type RawStats interface {
	RawPlatform() Platform
}

// RawRatingPoint is one contest result as reported by the upstream
type RawRatingPoint struct {
	At          time.Time
	Rating      int
	ContestName string
	Rank        int
}
