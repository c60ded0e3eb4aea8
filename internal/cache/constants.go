package cache

import "time"

const (
	// DefaultSize is the number of (user, platform) snapshots kept in memory
	DefaultSize = 10000

	// DefaultTTL bounds how long a snapshot stays in memory before falling back to the durable layer
	DefaultTTL = 30 * time.Minute

	keySeparator = ":"
)

// Log messages
const (
	LogMsgStaleWriteRejected = "Rejected stats write older than stored snapshot"
	LogMsgWarmFailed         = "Failed to warm memory cache"
)

// Error messages
const (
	ErrMsgReadDurable   = "failed to read durable stats"
	ErrMsgWriteDurable  = "failed to write durable stats"
	ErrMsgDeleteDurable = "failed to delete durable stats"
)
