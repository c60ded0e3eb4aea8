package syncer

import "time"

// ============================================================================
// Defaults
// ============================================================================

const (
	// DefaultSyncTimeout bounds one (user, platform) sync; it stays under typical request timeouts
	DefaultSyncTimeout = 12 * time.Second

	// MaxSyncTimeout is the ceiling allowed for the per-platform timeout
	MaxSyncTimeout = 15 * time.Second

	// DefaultSweepConcurrency caps users synced at once during a sweep
	DefaultSweepConcurrency = 20

	// DefaultSweepInterval is how often the scheduled sweep runs
	DefaultSweepInterval = 6 * time.Hour

	// SweepJobName identifies the sweep in worker logs
	SweepJobName = "platform-sweep"

	kindOK = "ok"
)

// ============================================================================
// Log Messages
// ============================================================================

const (
	LogMsgPlatformSynced     = "Platform synced"
	LogMsgPlatformSyncFailed = "Platform sync failed"
	LogMsgStaleResult        = "Sync result older than cached snapshot, cache kept"
	LogMsgUserSynced         = "User sync finished"
	LogMsgDemoOutcome        = "No connected platforms, serving demo stats"
	LogMsgSweepStarted       = "Sweep started"
	LogMsgSweepCompleted     = "Sweep completed"
	LogMsgSweepSkipped       = "Sweep already running, skipping"
	LogMsgSweepUserFailed    = "Sweep user sync failed"
	LogMsgSweepNotifyFailed  = "Failed to notify sweep summary"
	LogMsgSweepLoadFailed    = "Sweep could not load connected users"
	LogMsgLinkGone           = "Link disconnected during sync, result discarded"
	LogMsgTouchFailed        = "Stats stored but last synced time not updated"
)

// ============================================================================
// Error Messages
// ============================================================================

const (
	ErrMsgLoadLinks      = "failed to load platform links"
	ErrMsgLoadUsers      = "failed to load connected users"
	ErrMsgWriteStats     = "failed to write stats"
	ErrMsgAdmission      = "wait for request budget"
	ErrMsgReadStats      = "failed to read cached stats"
	ErrMsgFetchStats     = "fetch stats"
	ErrMsgFetchHistory   = "fetch rating history"
	ErrMsgAllFailed      = "all platforms failed"
	ErrMsgPartialFailure = "some platforms failed"
)
