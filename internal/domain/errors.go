package domain

import (
	"context"
	"errors"
)

// Error message string constants - single source of truth for error messages
// Use these in assert.Contains() checks when testing error messages
const (
	// Platform errors
	ErrMsgInvalidPlatform = "invalid platform"

	// Verification errors
	ErrMsgAlreadyConnected   = "platform already connected"
	ErrMsgNotConnected       = "platform not connected"
	ErrMsgChallengeExpired   = "verification challenge expired"
	ErrMsgVerificationFailed = "verification code not found on profile"

	// Upstream errors
	ErrMsgHandleNotFound       = "handle not found"
	ErrMsgRateLimited          = "rate limited by upstream"
	ErrMsgUpstreamUnavailable  = "upstream unavailable"
	ErrMsgUpstreamShapeChanged = "upstream response shape changed"

	// Local request budget errors
	ErrMsgThrottled = "upstream request budget exhausted"

	// Store errors
	ErrMsgLinkNotFound  = "platform link not found"
	ErrMsgStatsNotFound = "stats not cached"
	ErrMsgUserNotFound  = "user not found"

	// Input errors
	ErrMsgInvalidInput = "invalid input"
)

// Common domain errors
// Wrap these errors with fmt.Errorf("%w: %s", domain.ErrXxx, details) for additional context.
var (
	ErrInvalidPlatform = errors.New(ErrMsgInvalidPlatform)

	ErrAlreadyConnected   = errors.New(ErrMsgAlreadyConnected)
	ErrNotConnected       = errors.New(ErrMsgNotConnected)
	ErrChallengeExpired   = errors.New(ErrMsgChallengeExpired)
	ErrVerificationFailed = errors.New(ErrMsgVerificationFailed)

	ErrHandleNotFound       = errors.New(ErrMsgHandleNotFound)
	ErrRateLimited          = errors.New(ErrMsgRateLimited)
	ErrUpstreamUnavailable  = errors.New(ErrMsgUpstreamUnavailable)
	ErrUpstreamShapeChanged = errors.New(ErrMsgUpstreamShapeChanged)

	ErrThrottled = errors.New(ErrMsgThrottled)

	ErrLinkNotFound  = errors.New(ErrMsgLinkNotFound)
	ErrStatsNotFound = errors.New(ErrMsgStatsNotFound)
	ErrUserNotFound  = errors.New(ErrMsgUserNotFound)

	ErrInvalidInput = errors.New(ErrMsgInvalidInput)
)

// ErrorKind is the stable, caller-visible classification of an error
type ErrorKind string

// Error kinds
const (
	KindInvalidPlatform      ErrorKind = "InvalidPlatform"
	KindAlreadyConnected     ErrorKind = "AlreadyConnected"
	KindNotConnected         ErrorKind = "NotConnected"
	KindChallengeExpired     ErrorKind = "ChallengeExpired"
	KindVerificationFailed   ErrorKind = "VerificationFailed"
	KindHandleNotFound       ErrorKind = "HandleNotFound"
	KindRateLimited          ErrorKind = "RateLimited"
	KindUpstreamUnavailable  ErrorKind = "UpstreamUnavailable"
	KindUpstreamShapeChanged ErrorKind = "UpstreamShapeChanged"
	KindThrottled            ErrorKind = "Throttled"
	KindInvalidInput         ErrorKind = "InvalidInput"
	KindNotFound             ErrorKind = "NotFound"
	KindInternal             ErrorKind = "Internal"
)

var kindTable = []struct {
	err  error
	kind ErrorKind
}{
	{ErrInvalidPlatform, KindInvalidPlatform},
	{ErrAlreadyConnected, KindAlreadyConnected},
	{ErrNotConnected, KindNotConnected},
	{ErrChallengeExpired, KindChallengeExpired},
	{ErrVerificationFailed, KindVerificationFailed},
	{ErrHandleNotFound, KindHandleNotFound},
	{ErrRateLimited, KindRateLimited},
	{ErrUpstreamShapeChanged, KindUpstreamShapeChanged},
	{ErrUpstreamUnavailable, KindUpstreamUnavailable},
	{ErrThrottled, KindThrottled},
	{ErrInvalidInput, KindInvalidInput},
	{ErrLinkNotFound, KindNotFound},
	{ErrStatsNotFound, KindNotFound},
	{ErrUserNotFound, KindNotFound},
}

// KindOf classifies err. Deadline and cancellation errors count as upstream outages.
// ErrThrottled is local: the client's own request budget ran out before the call was sent.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	for _, entry := range kindTable {
		if errors.Is(err, entry.err) {
			return entry.kind
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindUpstreamUnavailable
	}
	return KindInternal
}

// IsUpstreamError reports whether err came from a platform adapter rather than local storage
func IsUpstreamError(err error) bool {
	switch KindOf(err) {
	case KindHandleNotFound, KindRateLimited, KindUpstreamUnavailable, KindUpstreamShapeChanged:
		return true
	default:
		return false
	}
}
