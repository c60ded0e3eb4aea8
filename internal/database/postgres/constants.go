package postgres

// PostgreSQL Error Codes
const (
	// PgErrorCodeCheckViolation is the PostgreSQL error code for CHECK constraint violations
	PgErrorCodeCheckViolation = "23514"
)

// JSONB defaults used when a snapshot field is empty
const (
	emptyJSONArray  = "[]"
	emptyJSONObject = "{}"
)

// Error Messages - Link Operations
const (
	ErrMsgGetLink       = "failed to get platform link"
	ErrMsgSaveLink      = "failed to save platform link"
	ErrMsgListLinks     = "failed to list platform links"
	ErrMsgResetLink     = "failed to reset platform link"
	ErrMsgTouchLink     = "failed to update last synced time"
	ErrMsgListConnected = "failed to list connected users"
	ErrMsgScanLink      = "failed to scan platform link"
	ErrMsgInvalidLink   = "link violates storage constraints"
)

// Error Messages - Stats Operations
const (
	ErrMsgGetStats    = "failed to get cached stats"
	ErrMsgUpsertStats = "failed to upsert stats"
	ErrMsgDeleteStats = "failed to delete stats"
	ErrMsgEncodeJSONB = "failed to encode jsonb column"
	ErrMsgDecodeJSONB = "failed to decode jsonb column"
)
