package notify

// Embed colors
const (
	ColorPartial = 0xf39c12 // Orange
	ColorFailed  = 0xe74c3c // Red
)

// Embed text
const (
	EmbedTitle        = "Platform sweep finished with failures"
	EmbedFooter       = "Scheduled sweep"
	FieldUsers        = "Users"
	FieldPlatforms    = "Platforms"
	FieldDuration     = "Duration"
	FieldFailures     = "Failures"
	MaxFailureLines   = 10
	webhookPathPrefix = "webhooks"
)

// Log messages
const (
	LogMsgSweepNotified = "Sweep summary posted to Discord"
)

// Error messages
const (
	ErrMsgInvalidWebhookURL = "invalid Discord webhook URL"
	ErrMsgCreateSession     = "failed to create Discord session"
	ErrMsgExecuteWebhook    = "failed to execute Discord webhook"
)
