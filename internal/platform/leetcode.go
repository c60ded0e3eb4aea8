package platform

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

const leetCodeProfileQuery = `query userPublicProfile($username: String!) {
  matchedUser(username: $username) {
    username
    profile { realName aboutMe }
  }
}`

const leetCodeStatsQuery = `query userStats($username: String!) {
  matchedUser(username: $username) {
    username
    profile { ranking }
    submitStatsGlobal { acSubmissionNum { difficulty count } }
  }
  userContestRanking(username: $username) {
    attendedContestsCount
    rating
    globalRanking
    topPercentage
  }
}`

const leetCodeHistoryQuery = `query userContestRankingHistory($username: String!) {
  matchedUser(username: $username) { username }
  userContestRankingHistory(username: $username) {
    attended
    rating
    ranking
    contest { title startTime }
  }
}`

// LeetCodeRaw is the native LeetCode stats payload
type LeetCodeRaw struct {
	Handle  string
	Ranking int

	// Solved holds accepted counts keyed by LeetCode difficulty, including "All"
	Solved map[string]int

	ContestRating    *float64
	ContestsAttended int
	GlobalRanking    int
	TopPercentage    *float64
}

// RawPlatform implements domain.RawStats
func (LeetCodeRaw) RawPlatform() domain.Platform { return domain.PlatformLeetCode }

// LeetCodeAdapter talks to LeetCode's public GraphQL endpoint
type LeetCodeAdapter struct {
	client  *Client
	baseURL string
}

// NewLeetCodeAdapter creates a LeetCode adapter
func NewLeetCodeAdapter(client *Client, baseURL string) *LeetCodeAdapter {
	if baseURL == "" {
		baseURL = DefaultLeetCodeBaseURL
	}
	return &LeetCodeAdapter{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *LeetCodeAdapter) Platform() domain.Platform { return domain.PlatformLeetCode }

// RequestsPerSync covers the stats query and the contest history query
func (a *LeetCodeAdapter) RequestsPerSync() int { return 2 }

type leetCodeEnvelope struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

type leetCodeMatchedUser struct {
	Username string `json:"username"`
	Profile  struct {
		RealName string `json:"realName"`
		AboutMe  string `json:"aboutMe"`
		Ranking  int    `json:"ranking"`
	} `json:"profile"`
	SubmitStatsGlobal struct {
		AcSubmissionNum []struct {
			Difficulty string `json:"difficulty"`
			Count      int    `json:"count"`
		} `json:"acSubmissionNum"`
	} `json:"submitStatsGlobal"`
}

type leetCodeData struct {
	MatchedUser        *leetCodeMatchedUser `json:"matchedUser"`
	UserContestRanking *struct {
		AttendedContestsCount int      `json:"attendedContestsCount"`
		Rating                float64  `json:"rating"`
		GlobalRanking         int      `json:"globalRanking"`
		TopPercentage         *float64 `json:"topPercentage"`
	} `json:"userContestRanking"`
	UserContestRankingHistory []struct {
		Attended bool    `json:"attended"`
		Rating   float64 `json:"rating"`
		Ranking  int     `json:"ranking"`
		Contest  struct {
			Title     string `json:"title"`
			StartTime int64  `json:"startTime"`
		} `json:"contest"`
	} `json:"userContestRankingHistory"`
}

func (a *LeetCodeAdapter) query(ctx context.Context, query, handle string) (*leetCodeData, error) {
	body, err := json.Marshal(map[string]any{
		"query":     query,
		"variables": map[string]string{"username": handle},
	})
	if err != nil {
		return nil, fmt.Errorf("leetcode: encode query: %w", err)
	}

	header := jsonHeader()
	header.Set(HeaderContentType, ContentTypeJSON)
	header.Set(HeaderReferer, a.baseURL+"/"+handle+"/")

	var env leetCodeEnvelope
	err = a.client.DoJSON(ctx, domain.PlatformLeetCode, Request{
		Method: http.MethodPost,
		URL:    a.baseURL + "/graphql",
		Header: header,
		Body:   body,
	}, &env)
	if err != nil {
		return nil, err
	}
	if len(env.Data) == 0 || string(env.Data) == "null" {
		if len(env.Errors) > 0 && strings.Contains(strings.ToLower(env.Errors[0].Message), "does not exist") {
			return nil, fmt.Errorf("%w: leetcode: %s", domain.ErrHandleNotFound, handle)
		}
		return nil, fmt.Errorf("%w: leetcode: response has no data", domain.ErrUpstreamShapeChanged)
	}

	var data leetCodeData
	if err := decodeJSON(domain.PlatformLeetCode, env.Data, &data); err != nil {
		return nil, err
	}
	if data.MatchedUser == nil {
		return nil, fmt.Errorf("%w: leetcode: %s", domain.ErrHandleNotFound, handle)
	}
	return &data, nil
}

// FetchProfileText returns the "About me" summary and real name
func (a *LeetCodeAdapter) FetchProfileText(ctx context.Context, handle string) (string, error) {
	data, err := a.query(ctx, leetCodeProfileQuery, handle)
	if err != nil {
		return "", err
	}
	return joinNonEmpty(data.MatchedUser.Profile.AboutMe, data.MatchedUser.Profile.RealName), nil
}

// FetchStats returns accepted counts and contest ranking
func (a *LeetCodeAdapter) FetchStats(ctx context.Context, handle string) (domain.RawStats, error) {
	data, err := a.query(ctx, leetCodeStatsQuery, handle)
	if err != nil {
		return nil, err
	}

	counts := data.MatchedUser.SubmitStatsGlobal.AcSubmissionNum
	if len(counts) == 0 {
		return nil, fmt.Errorf("%w: leetcode: acSubmissionNum missing", domain.ErrUpstreamShapeChanged)
	}
	raw := LeetCodeRaw{
		Handle:  data.MatchedUser.Username,
		Ranking: data.MatchedUser.Profile.Ranking,
		Solved:  make(map[string]int, len(counts)),
	}
	for _, c := range counts {
		raw.Solved[c.Difficulty] = c.Count
	}
	if r := data.UserContestRanking; r != nil {
		rating := r.Rating
		raw.ContestRating = &rating
		raw.ContestsAttended = r.AttendedContestsCount
		raw.GlobalRanking = r.GlobalRanking
		raw.TopPercentage = r.TopPercentage
	}
	return raw, nil
}

// FetchRatingHistory returns attended contests only; LeetCode pads history with skipped contests
func (a *LeetCodeAdapter) FetchRatingHistory(ctx context.Context, handle string) ([]domain.RawRatingPoint, error) {
	data, err := a.query(ctx, leetCodeHistoryQuery, handle)
	if err != nil {
		return nil, err
	}

	out := make([]domain.RawRatingPoint, 0, len(data.UserContestRankingHistory))
	for _, h := range data.UserContestRankingHistory {
		if !h.Attended {
			continue
		}
		out = append(out, domain.RawRatingPoint{
			At:          time.Unix(h.Contest.StartTime, 0).UTC(),
			Rating:      int(math.Round(h.Rating)),
			ContestName: h.Contest.Title,
			Rank:        h.Ranking,
		})
	}
	return out, nil
}

// Normalize maps LeetCode difficulties onto the shared buckets
func (a *LeetCodeAdapter) Normalize(raw domain.RawStats, history []domain.RawRatingPoint) (*domain.NormalizedStats, error) {
	lc, ok := raw.(LeetCodeRaw)
	if !ok {
		return nil, wrongVariant(domain.PlatformLeetCode, raw)
	}
	total, ok := lc.Solved["All"]
	if !ok {
		return nil, fmt.Errorf("%w: leetcode: missing All difficulty", domain.ErrUpstreamShapeChanged)
	}

	stats := &domain.NormalizedStats{
		Platform:    domain.PlatformLeetCode,
		TotalSolved: total,
		DifficultyBreakdown: map[string]int{
			domain.DifficultyEasy:   lc.Solved["Easy"],
			domain.DifficultyMedium: lc.Solved["Medium"],
			domain.DifficultyHard:   lc.Solved["Hard"],
		},
		RatingHistory: convertHistory(history),
		Extensions: map[string]any{
			ExtRanking:       lc.Ranking,
			ExtContestsCount: lc.ContestsAttended,
		},
	}
	stats.SortHistory()

	if lc.ContestRating != nil {
		stats.RatingCurrent = domain.IntPtr(int(math.Round(*lc.ContestRating)))
		stats.Extensions[ExtContestGlobal] = lc.GlobalRanking
	}
	if lc.TopPercentage != nil {
		stats.Extensions[ExtContestTopPct] = *lc.TopPercentage
	}
	stats.RatingMax = maxHistoryRating(stats.RatingHistory)
	if stats.RatingMax == nil && stats.RatingCurrent != nil {
		stats.RatingMax = domain.IntPtr(*stats.RatingCurrent)
	}
	return stats, nil
}

func joinNonEmpty(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, "\n")
}
