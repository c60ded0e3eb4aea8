package server

import "time"

// HTTP error messages for middleware responses
const (
	ErrMsgUnauthorized    = "Unauthorized"
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "SECURITY ALERT: Multiple failed authentication attempts"
	SecurityAlertHighRate   = "SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting      = "Server starting"
	LogMsgRequestStarted      = "Request started"
	LogMsgRequestCompleted    = "Request completed"
	LogMsgRequestHeaders      = "Request headers"
	LogMsgAuthFailed          = "Authentication failed"
	LogMsgInvalidTrustedProxy = "Ignoring invalid trusted proxy entry"
)

// HTTP header names
const (
	HeaderAPIKey         = "X-API-Key"
	HeaderAuthorization  = "Authorization"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderRequestID      = "X-Request-ID"
	HeaderUserID         = "X-User-ID"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Limits
const (
	DefaultMaxBodyBytes  = 1 << 20
	ReadHeaderTimeout    = 5 * time.Second
	FailedAuthAlertCount = 5
	RequestRateLimit     = 1000
	RateWindow           = 5 * time.Minute
	MaxTrackedIPs        = 10000
)

// Public path prefixes that bypass authentication
var PublicPaths = []string{
	"/swagger/",
	"/healthz",
	"/readyz",
	"/version",
	"/metrics",
}

// Probe paths excluded from request logging
var probePathPrefixes = []string{
	"/healthz",
	"/readyz",
	"/metrics",
}

// CORS settings
var (
	corsAllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsAllowedHeaders = []string{"Content-Type", HeaderAPIKey, HeaderUserID, HeaderRequestID}
	corsExposedHeaders = []string{HeaderRequestID}
)

const corsMaxAgeSeconds = 600

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)
