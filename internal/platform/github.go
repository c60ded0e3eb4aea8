package platform

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// GitHubRaw is the native GitHub user payload
type GitHubRaw struct {
	Login       string
	PublicRepos int
	PublicGists int
	Followers   int
	Following   int
}

// RawPlatform implements domain.RawStats
func (GitHubRaw) RawPlatform() domain.Platform { return domain.PlatformGitHub }

// GitHubAdapter reads public user data from the GitHub REST API
type GitHubAdapter struct {
	client  *Client
	baseURL string
	token   string
}

// NewGitHubAdapter creates a GitHub adapter. An empty token uses the unauthenticated quota.
func NewGitHubAdapter(client *Client, baseURL, token string) *GitHubAdapter {
	if baseURL == "" {
		baseURL = DefaultGitHubBaseURL
	}
	return &GitHubAdapter{client: client, baseURL: strings.TrimRight(baseURL, "/"), token: token}
}

func (a *GitHubAdapter) Platform() domain.Platform { return domain.PlatformGitHub }

func (a *GitHubAdapter) RequestsPerSync() int { return 1 }

type gitHubUser struct {
	Login       string  `json:"login"`
	Name        *string `json:"name"`
	Company     *string `json:"company"`
	Blog        *string `json:"blog"`
	Bio         *string `json:"bio"`
	PublicRepos *int    `json:"public_repos"`
	PublicGists int     `json:"public_gists"`
	Followers   int     `json:"followers"`
	Following   int     `json:"following"`
}

func (a *GitHubAdapter) user(ctx context.Context, handle string) (*gitHubUser, error) {
	header := jsonHeader()
	header.Set(HeaderAccept, AcceptGitHubV3)
	if a.token != "" {
		header.Set(HeaderAuthorization, "Bearer "+a.token)
	}

	var u gitHubUser
	err := a.client.DoJSON(ctx, domain.PlatformGitHub, Request{
		URL:    a.baseURL + "/users/" + url.PathEscape(handle),
		Header: header,
	}, &u)
	if err != nil {
		return nil, err
	}
	if u.Login == "" || u.PublicRepos == nil {
		return nil, fmt.Errorf("%w: github: user payload missing login or public_repos", domain.ErrUpstreamShapeChanged)
	}
	return &u, nil
}

// FetchProfileText returns bio, name, company and blog
func (a *GitHubAdapter) FetchProfileText(ctx context.Context, handle string) (string, error) {
	u, err := a.user(ctx, handle)
	if err != nil {
		return "", err
	}
	return joinNonEmpty(deref(u.Bio), deref(u.Name), deref(u.Company), deref(u.Blog)), nil
}

// FetchStats returns repository and follower counts
func (a *GitHubAdapter) FetchStats(ctx context.Context, handle string) (domain.RawStats, error) {
	u, err := a.user(ctx, handle)
	if err != nil {
		return nil, err
	}
	return GitHubRaw{
		Login:       u.Login,
		PublicRepos: *u.PublicRepos,
		PublicGists: u.PublicGists,
		Followers:   u.Followers,
		Following:   u.Following,
	}, nil
}

// FetchRatingHistory returns an empty history; GitHub has no contests
func (a *GitHubAdapter) FetchRatingHistory(context.Context, string) ([]domain.RawRatingPoint, error) {
	return []domain.RawRatingPoint{}, nil
}

// Normalize counts public repositories as the solved total
func (a *GitHubAdapter) Normalize(raw domain.RawStats, history []domain.RawRatingPoint) (*domain.NormalizedStats, error) {
	gh, ok := raw.(GitHubRaw)
	if !ok {
		return nil, wrongVariant(domain.PlatformGitHub, raw)
	}
	stats := &domain.NormalizedStats{
		Platform:            domain.PlatformGitHub,
		TotalSolved:         gh.PublicRepos,
		RatingHistory:       convertHistory(history),
		DifficultyBreakdown: map[string]int{},
		Extensions: map[string]any{
			ExtFollowers:   gh.Followers,
			ExtFollowing:   gh.Following,
			ExtPublicGists: gh.PublicGists,
		},
	}
	stats.SortHistory()
	return stats, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
