package platform

import "time"

// Default upstream base URLs
const (
	DefaultLeetCodeBaseURL   = "https://leetcode.com"
	DefaultCodeforcesBaseURL = "https://codeforces.com"
	DefaultCodeChefBaseURL   = "https://www.codechef.com"
	DefaultGitHubBaseURL     = "https://api.github.com"
)

// Client defaults
const (
	DefaultUserAgent = "codeledger/1.0"
	DefaultRPS       = 2.0
	DefaultBurst     = 4

	// DefaultOnDemandShare keeps a quarter of each platform's rate for user-initiated calls
	DefaultOnDemandShare = 0.25

	// MaxResponseBytes caps upstream body reads unless a request overrides it
	MaxResponseBytes = 2 << 20

	// codeforcesStatusMaxBytes covers the full submission list of very active accounts
	codeforcesStatusMaxBytes = 16 << 20

	breakerMaxRequests     = 1
	breakerInterval        = time.Minute
	breakerTimeout         = 30 * time.Second
	breakerMinRequests     = 5
	breakerFailureRatio    = 0.6
	breakerConsecutiveTrip = 5
)

// Header names
const (
	HeaderUserAgent          = "User-Agent"
	HeaderAccept             = "Accept"
	HeaderContentType        = "Content-Type"
	HeaderAuthorization      = "Authorization"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderReferer            = "Referer"

	ContentTypeJSON = "application/json"
	AcceptGitHubV3  = "application/vnd.github+json"
)

// Extension keys. Platform-unique fields land here instead of being dropped.
const (
	ExtRanking       = "ranking"
	ExtContestGlobal = "contest_global_ranking"
	ExtContestTopPct = "contest_top_percentage"
	ExtContestsCount = "contests_attended"
	ExtRank          = "rank"
	ExtMaxRank       = "max_rank"
	ExtContribution  = "contribution"
	ExtFriendOfCount = "friend_of_count"
	ExtStars         = "stars"
	ExtGlobalRank    = "global_rank"
	ExtCountryRank   = "country_rank"
	ExtFollowers     = "followers"
	ExtFollowing     = "following"
	ExtPublicGists   = "public_gists"
	ExtSyntheticSeed = "synthetic_seed"
	ExtSynthetic     = "synthetic"
)

// Codeforces problem rating buckets
const (
	BucketUnrated   = "unrated"
	BucketBelow1200 = "<1200"
	Bucket1200      = "1200-1599"
	Bucket1600      = "1600-1999"
	Bucket2000      = "2000+"
)

// Log messages
const (
	LogMsgUpstreamRequestFailed = "Upstream request failed"
	LogMsgBreakerStateChanged   = "Upstream circuit breaker state changed"
	LogMsgBreakerRejected       = "Upstream circuit breaker rejected request"
)

// Error message details
const (
	ErrMsgCircuitOpen      = "circuit open"
	ErrMsgLimiterWait      = "rate limiter wait"
	ErrMsgResponseTooLarge = "response body exceeds limit"
	ErrMsgUnexpectedStatus = "unexpected status"
	ErrMsgDecodeFailed     = "decode failed"
	ErrMsgWrongRawVariant  = "raw stats of another platform"
	ErrMsgBuildRequest     = "failed to build request"
)
