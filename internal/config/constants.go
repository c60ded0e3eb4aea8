package config

// Environment names
const (
	EnvironmentDev         = "dev"
	EnvironmentDevelopment = "development"
)

// Storage backends
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
)

// Error messages
const (
	ErrMsgParseConfig   = "failed to parse configuration"
	ErrMsgInvalidConfig = "invalid configuration"
)

// Startup warnings
const (
	WarnMsgExampleDBPassword = "DB_PASSWORD uses the example value"
	WarnMsgExampleAPIKey     = "API_KEY uses the example value; generate one with: openssl rand -hex 32"
	WarnMsgNoGitHubToken     = "GITHUB_TOKEN is not set; GitHub sync is limited to 60 unauthenticated requests per hour"
	WarnMsgDemoOutsideDev    = "DEMO_MODE is enabled outside a development environment"
	WarnMsgMemoryBackend     = "STORAGE_BACKEND=memory; links and stats are lost on restart"
)
