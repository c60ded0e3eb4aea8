package bootstrap

import "time"

// =============================================================================
// File System Permissions
// =============================================================================

const (
	// DirPermission is the standard permission for creating directories
	DirPermission = 0755

	// LogFilePermission is the permission for log files (read/write for owner, read for group/others)
	LogFilePermission = 0666
)

// =============================================================================
// Logger Configuration
// =============================================================================

const (
	// LogFileTimestampFormat is the timestamp format for log filenames (YYYY-MM-DD_HH-MM-SS)
	LogFileTimestampFormat = "2006-01-02_15-04-05"

	// LogFileNamePattern is the format string for log filenames
	LogFileNamePattern = "session_%s.log"

	// LogFileExtension is the file extension for log files
	LogFileExtension = ".log"

	// LogFileRetentionLimit is the maximum number of log files to keep
	LogFileRetentionLimit = 10

	// LogFileRetentionCount is the number of log files to retain after cleanup
	LogFileRetentionCount = 9
)

// Log messages for logger initialization
const (
	LogMsgLoggingInitialized  = "Logging initialized"
	LogMsgStartingService     = "Starting CodeLedger"
	LogMsgConfigurationLoaded = "Configuration loaded"
	LogMsgFailedCreateLogsDir = "failed to create logs directory"
	LogMsgFailedOpenLogFile   = "failed to open log file"
	LogMsgFailedDeleteOldLog  = "Failed to delete old log file %s: %v\n"
)

// =============================================================================
// Application Wiring
// =============================================================================

const (
	// ShutdownTimeout bounds graceful shutdown of the whole application
	ShutdownTimeout = 30 * time.Second
)

// Log messages for application wiring
const (
	LogMsgConfigWarning        = "Configuration warning"
	LogMsgDatabaseConnected    = "Database connected"
	LogMsgMigrationsApplied    = "Database migrations applied"
	LogMsgDemoModeEnabled      = "Demo mode enabled for users without connected platforms"
	LogMsgNotifierEnabled      = "Discord sweep notifications enabled"
	LogMsgSweepScheduled       = "Platform sweep scheduled"
	LogMsgSweepDisabled        = "Platform sweep disabled"
	LogMsgStartupSweepQueued   = "Startup sweep queued"
	LogMsgStartupSweepRejected = "Startup sweep could not be queued"
)

// Error messages for application wiring
const (
	ErrMsgConnectDatabase = "failed to connect to database"
	ErrMsgRunMigrations   = "failed to run migrations"
	ErrMsgCreateNotifier  = "failed to create Discord notifier"
)

// =============================================================================
// Shutdown Messages
// =============================================================================

const (
	LogMsgShuttingDownServer   = "Shutting down server..."
	LogMsgStoppingScheduler    = "Stopping scheduler..."
	LogMsgStoppingWorkers      = "Stopping worker pool..."
	LogMsgClosingDatabase      = "Closing database pool..."
	LogMsgServerStopped        = "Server stopped"
	LogMsgServerForcedShutdown = "Server forced to shutdown"
	LogMsgWorkersStopTimedOut  = "Worker pool did not stop before the shutdown deadline"
)
