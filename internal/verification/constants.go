package verification

import (
	"time"

	"github.com/osse101/CodeLedger_Go/internal/domain"
)

// ============================================================================
// Code Configuration
// ============================================================================

const (
	// DefaultCodeLength is the number of characters in a verification code
	DefaultCodeLength = 10

	// MinCodeLength keeps codes collision resistant
	MinCodeLength = 8

	// DefaultTTL is how long a challenge remains valid
	DefaultTTL = 15 * time.Minute

	// DefaultFetchTimeout bounds the profile read during confirm
	DefaultFetchTimeout = 10 * time.Second

	// codeAlphabet is the character set of issued codes
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// ============================================================================
// Instructions
// ============================================================================

var instructionTemplates = map[domain.Platform]string{
	domain.PlatformLeetCode:   "Add %s to the Summary field of your LeetCode profile (leetcode.com/profile), save, then confirm.",
	domain.PlatformCodeforces: "Put %s in the First name or Organization field of your Codeforces settings (codeforces.com/settings/social), save, then confirm.",
	domain.PlatformCodeChef:   "Add %s to the About Me section of your CodeChef profile (Edit Profile), save, then confirm.",
	domain.PlatformGitHub:     "Add %s to the bio of your GitHub profile (github.com/settings/profile), save, then confirm.",
}

// ============================================================================
// Metric Results
// ============================================================================

const (
	resultInitiated = "initiated"
	resultConnected = "connected"
	resultMismatch  = "mismatch"
	resultExpired   = "expired"
	resultError     = "error"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgChallengeIssued      = "Verification challenge issued"
	LogMsgChallengeReplaced    = "Replacing pending verification challenge"
	LogMsgChallengeExpired     = "Verification challenge expired"
	LogMsgChallengeCancelled   = "Verification challenge cancelled"
	LogMsgCodeNotFound         = "Verification code not found on profile"
	LogMsgPlatformConnected    = "Platform connected"
	LogMsgAlreadyConnected     = "Confirm on already connected platform"
	LogMsgPlatformDisconnected = "Platform disconnected"
	LogMsgProfileFetchFailed   = "Failed to fetch profile text"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgNoPendingChallenge = "no pending challenge"
	ErrMsgHandleMismatch     = "handle differs from pending challenge"
	ErrMsgHandleRequired     = "handle is required"
	ErrMsgConnectedAs        = "connected as"
	ErrMsgGenerateCode       = "failed to generate verification code"
	ErrMsgLoadLink           = "failed to load platform link"
	ErrMsgSaveLink           = "failed to save platform link"
	ErrMsgEvictStats         = "failed to evict cached stats"
)
