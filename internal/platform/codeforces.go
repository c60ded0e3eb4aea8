package platform

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// CodeforcesRaw is the native Codeforces stats payload
type CodeforcesRaw struct {
	Handle        string
	Rating        *int
	MaxRating     *int
	Rank          string
	MaxRank       string
	Contribution  int
	FriendOfCount int

	// Solved counts distinct problems with at least one OK verdict
	Solved  int
	Buckets map[string]int
}

// RawPlatform implements domain.RawStats
func (CodeforcesRaw) RawPlatform() domain.Platform { return domain.PlatformCodeforces }

// CodeforcesAdapter talks to the official Codeforces REST API
type CodeforcesAdapter struct {
	client  *Client
	baseURL string
}

// NewCodeforcesAdapter creates a Codeforces adapter
func NewCodeforcesAdapter(client *Client, baseURL string) *CodeforcesAdapter {
	if baseURL == "" {
		baseURL = DefaultCodeforcesBaseURL
	}
	return &CodeforcesAdapter{client: client, baseURL: strings.TrimRight(baseURL, "/")}
}

func (a *CodeforcesAdapter) Platform() domain.Platform { return domain.PlatformCodeforces }

// RequestsPerSync covers user.info, user.status and user.rating
func (a *CodeforcesAdapter) RequestsPerSync() int { return 3 }

type codeforcesEnvelope struct {
	Status  string          `json:"status"`
	Comment string          `json:"comment"`
	Result  json.RawMessage `json:"result"`
}

type codeforcesUser struct {
	Handle        string `json:"handle"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	Organization  string `json:"organization"`
	City          string `json:"city"`
	Rating        *int   `json:"rating"`
	MaxRating     *int   `json:"maxRating"`
	Rank          string `json:"rank"`
	MaxRank       string `json:"maxRank"`
	Contribution  int    `json:"contribution"`
	FriendOfCount int    `json:"friendOfCount"`
}

type codeforcesSubmission struct {
	Verdict string `json:"verdict"`
	Problem struct {
		ContestID int    `json:"contestId"`
		Index     string `json:"index"`
		Name      string `json:"name"`
		Rating    int    `json:"rating"`
	} `json:"problem"`
}

type codeforcesRatingChange struct {
	ContestName             string `json:"contestName"`
	Rank                    int    `json:"rank"`
	RatingUpdateTimeSeconds int64  `json:"ratingUpdateTimeSeconds"`
	NewRating               int    `json:"newRating"`
}

// call invokes one API method. Codeforces reports failures as status FAILED in a 400 body.
func (a *CodeforcesAdapter) call(ctx context.Context, method string, params url.Values, maxBytes int64, out any) error {
	resp, err := a.client.Do(ctx, domain.PlatformCodeforces, Request{
		URL:      a.baseURL + "/api/" + method + "?" + params.Encode(),
		Header:   jsonHeader(),
		MaxBytes: maxBytes,
	})
	if err != nil {
		return err
	}

	var env codeforcesEnvelope
	if err := decodeJSON(domain.PlatformCodeforces, resp.Body, &env); err != nil {
		return err
	}
	switch env.Status {
	case "OK":
		return decodeJSON(domain.PlatformCodeforces, env.Result, out)
	case "FAILED":
		comment := strings.ToLower(env.Comment)
		switch {
		case strings.Contains(comment, "not found"):
			return fmt.Errorf("%w: codeforces: %s", domain.ErrHandleNotFound, env.Comment)
		case strings.Contains(comment, "limit exceeded"):
			return fmt.Errorf("%w: codeforces: %s", domain.ErrRateLimited, env.Comment)
		default:
			return fmt.Errorf("%w: codeforces: %s", domain.ErrUpstreamUnavailable, env.Comment)
		}
	default:
		return fmt.Errorf("%w: codeforces: status %q (http %d)", domain.ErrUpstreamShapeChanged, env.Status, resp.StatusCode)
	}
}

func (a *CodeforcesAdapter) userInfo(ctx context.Context, handle string) (*codeforcesUser, error) {
	var users []codeforcesUser
	if err := a.call(ctx, "user.info", url.Values{"handles": {handle}}, 0, &users); err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: codeforces: %s", domain.ErrHandleNotFound, handle)
	}
	return &users[0], nil
}

// FetchProfileText returns the user-editable name, organization and city fields
func (a *CodeforcesAdapter) FetchProfileText(ctx context.Context, handle string) (string, error) {
	u, err := a.userInfo(ctx, handle)
	if err != nil {
		return "", err
	}
	return joinNonEmpty(u.FirstName, u.LastName, u.Organization, u.City), nil
}

// FetchStats returns profile ratings plus solved counts derived from the submission list
func (a *CodeforcesAdapter) FetchStats(ctx context.Context, handle string) (domain.RawStats, error) {
	u, err := a.userInfo(ctx, handle)
	if err != nil {
		return nil, err
	}

	var subs []codeforcesSubmission
	if err := a.call(ctx, "user.status", url.Values{"handle": {handle}}, codeforcesStatusMaxBytes, &subs); err != nil {
		return nil, err
	}

	raw := CodeforcesRaw{
		Handle:        u.Handle,
		Rating:        u.Rating,
		MaxRating:     u.MaxRating,
		Rank:          u.Rank,
		MaxRank:       u.MaxRank,
		Contribution:  u.Contribution,
		FriendOfCount: u.FriendOfCount,
		Buckets:       make(map[string]int),
	}
	seen := make(map[string]struct{})
	for _, s := range subs {
		if s.Verdict != "OK" {
			continue
		}
		key := problemKey(s)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		raw.Buckets[ratingBucket(s.Problem.Rating)]++
	}
	raw.Solved = len(seen)
	return raw, nil
}

// FetchRatingHistory returns rated contest results
func (a *CodeforcesAdapter) FetchRatingHistory(ctx context.Context, handle string) ([]domain.RawRatingPoint, error) {
	var changes []codeforcesRatingChange
	if err := a.call(ctx, "user.rating", url.Values{"handle": {handle}}, 0, &changes); err != nil {
		return nil, err
	}
	out := make([]domain.RawRatingPoint, 0, len(changes))
	for _, c := range changes {
		out = append(out, domain.RawRatingPoint{
			At:          time.Unix(c.RatingUpdateTimeSeconds, 0).UTC(),
			Rating:      c.NewRating,
			ContestName: c.ContestName,
			Rank:        c.Rank,
		})
	}
	return out, nil
}

// Normalize keeps rank titles and contribution as extensions
func (a *CodeforcesAdapter) Normalize(raw domain.RawStats, history []domain.RawRatingPoint) (*domain.NormalizedStats, error) {
	cf, ok := raw.(CodeforcesRaw)
	if !ok {
		return nil, wrongVariant(domain.PlatformCodeforces, raw)
	}

	breakdown := make(map[string]int, len(cf.Buckets))
	for k, v := range cf.Buckets {
		breakdown[k] = v
	}
	stats := &domain.NormalizedStats{
		Platform:            domain.PlatformCodeforces,
		TotalSolved:         cf.Solved,
		RatingCurrent:       cf.Rating,
		RatingMax:           cf.MaxRating,
		RatingHistory:       convertHistory(history),
		DifficultyBreakdown: breakdown,
		Extensions: map[string]any{
			ExtContribution:  cf.Contribution,
			ExtFriendOfCount: cf.FriendOfCount,
		},
	}
	if cf.Rank != "" {
		stats.Extensions[ExtRank] = cf.Rank
	}
	if cf.MaxRank != "" {
		stats.Extensions[ExtMaxRank] = cf.MaxRank
	}
	stats.SortHistory()
	if stats.RatingMax == nil {
		stats.RatingMax = maxHistoryRating(stats.RatingHistory)
	}
	return stats, nil
}

func problemKey(s codeforcesSubmission) string {
	if s.Problem.ContestID == 0 {
		return "name:" + s.Problem.Name
	}
	return strconv.Itoa(s.Problem.ContestID) + s.Problem.Index
}

func ratingBucket(rating int) string {
	switch {
	case rating <= 0:
		return BucketUnrated
	case rating < 1200:
		return BucketBelow1200
	case rating < 1600:
		return Bucket1200
	case rating < 2000:
		return Bucket1600
	default:
		return Bucket2000
	}
}
