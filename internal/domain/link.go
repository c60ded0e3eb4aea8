package domain

import "time"

// LinkState is the derived verification state of a PlatformLink
type LinkState string

// Link states
const (
	LinkStateUnconnected         LinkState = "unconnected"
	LinkStatePendingVerification LinkState = "pending_verification"
	LinkStateConnected           LinkState = "connected"
)

// PlatformLink tracks whether and how a user's account on one platform is connected.
// VerificationCode is only set while a challenge is pending.
type PlatformLink struct {
	UserID             string     `json:"user_id"`
	Platform           Platform   `json:"platform"`
	Handle             string     `json:"handle"`
	Connected          bool       `json:"connected"`
	VerificationCode   string     `json:"-"`
	VerificationExpiry *time.Time `json:"verification_expiry,omitempty"`
	VerifiedAt         *time.Time `json:"verified_at,omitempty"`
	LastSyncedAt       *time.Time `json:"last_synced_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// NewPlatformLink returns an unconnected link for the given key
func NewPlatformLink(userID string, platform Platform, now time.Time) *PlatformLink {
	return &PlatformLink{
		UserID:    userID,
		Platform:  platform,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// State derives the link state at the given instant
func (l *PlatformLink) State(now time.Time) LinkState {
	if l == nil {
		return LinkStateUnconnected
	}
	if l.Connected {
		return LinkStateConnected
	}
	if l.HasPendingChallenge() && !l.ChallengeExpired(now) {
		return LinkStatePendingVerification
	}
	return LinkStateUnconnected
}

// HasPendingChallenge reports whether a verification code has been issued and not cleared
func (l *PlatformLink) HasPendingChallenge() bool {
	return l.VerificationCode != ""
}

// ChallengeExpired reports whether the pending challenge is past its expiry
func (l *PlatformLink) ChallengeExpired(now time.Time) bool {
	if l.VerificationExpiry == nil {
		return true
	}
	return !now.Before(*l.VerificationExpiry)
}

// ClearChallenge removes any pending code and expiry
func (l *PlatformLink) ClearChallenge() {
	l.VerificationCode = ""
	l.VerificationExpiry = nil
}

// MarkConnected records a successful verification
func (l *PlatformLink) MarkConnected(handle string, now time.Time) {
	l.Handle = handle
	l.Connected = true
	l.VerifiedAt = &now
	l.ClearChallenge()
	l.UpdatedAt = now
}

// Reset returns the link to its default unconnected shape
func (l *PlatformLink) Reset(now time.Time) {
	l.Handle = ""
	l.Connected = false
	l.VerifiedAt = nil
	l.LastSyncedAt = nil
	l.ClearChallenge()
	l.UpdatedAt = now
}
