package handler

// Generic HTTP error messages for client responses.
// These messages intentionally do not expose internal error details.
// Both handlers and tests should reference these constants to maintain consistency.
const (
	// Request errors
	ErrMsgInvalidRequest        = "Invalid request body"
	ErrMsgInvalidRequestSummary = "Invalid request"
	ErrMsgMissingUserID         = "Missing or invalid X-User-ID header"
	ErrMsgInvalidPlatformParam  = "Unsupported platform"

	// Service errors, keyed by domain.ErrorKind
	ErrMsgInvalidPlatformError      = "Unsupported platform"
	ErrMsgInvalidInputError         = "Invalid request. Please check your inputs."
	ErrMsgAlreadyConnectedError     = "Platform is already connected. Disconnect it first."
	ErrMsgNotConnectedError         = "Platform is not connected"
	ErrMsgChallengeExpiredError     = "Verification code expired. Start verification again."
	ErrMsgVerificationFailedError   = "Verification code not found on your profile yet"
	ErrMsgHandleNotFoundError       = "Handle not found on the platform"
	ErrMsgRateLimitedError          = "The platform is rate limiting requests. Try again later."
	ErrMsgThrottledError            = "Too many platform requests in flight. Try again shortly."
	ErrMsgUpstreamUnavailableError  = "The platform is temporarily unavailable. Try again later."
	ErrMsgUpstreamShapeChangedError = "The platform changed its response format"
	ErrMsgNotFoundError             = "Resource not found"
	ErrMsgGenericServerError        = "Something went wrong"

	// Validation messages
	ErrMsgFieldRequired     = "This field is required"
	ErrMsgFieldInvalidChars = "Contains invalid characters"
	ErrMsgFieldTooLong      = "Must be at most %s characters"
	ErrMsgFieldTooShort     = "Must be at least %s characters"
	ErrMsgFieldInvalid      = "Invalid value"
	ErrMsgFieldPlatform     = "Invalid platform"
	ErrMsgFieldHandle       = "Invalid handle"
	ErrMsgRequestFormat     = "Invalid request format"
)

// Success messages for API responses
const (
	MsgChallengeCancelled   = "Verification cancelled"
	MsgPlatformDisconnected = "Platform disconnected"
	MsgSweepSkipped         = "A sweep is already running"
	MsgSweepQueued          = "Sweep queued"
)

// Header names
const (
	HeaderUserID      = "X-User-ID"
	HeaderContentType = "Content-Type"
	ContentTypeJSON   = "application/json"
)

// Log messages
const (
	LogMsgDecodeFailed     = "Failed to decode request"
	LogMsgValidationFailed = "Request validation failed"
	LogMsgRequestDecoded   = "Request decoded"
	LogMsgServiceError     = "Service call failed"
	LogMsgEncodeFailed     = "Failed to encode JSON response"
	LogMsgWriteFailed      = "Failed to write response buffer"
	LogMsgReadinessFailed  = "Readiness check failed"
)

// Health statuses
const (
	HealthStatusOK          = "ok"
	HealthStatusUnavailable = "unavailable"
	HealthMsgDatabaseDown   = "database connection failed"
	StorageMemory           = "memory"
	StoragePostgres         = "postgres"
)
