package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	// Server
	Port           int           `env:"PORT" envDefault:"8080" validate:"min=1,max=65535"`
	APIKey         string        `env:"API_KEY" validate:"required"`
	TrustedProxies []string      `env:"TRUSTED_PROXIES" envSeparator:","`
	CORSOrigins    []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
	SyncRateLimit  int           `env:"SYNC_RATE_LIMIT" envDefault:"30" validate:"min=0"`
	SyncRateWindow time.Duration `env:"SYNC_RATE_WINDOW" envDefault:"1m"`

	// Logging
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
	LogDir      string `env:"LOG_DIR" envDefault:"logs"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"codeledger"`
	Version     string `env:"VERSION" envDefault:"dev"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`

	// Storage
	StorageBackend string        `env:"STORAGE_BACKEND" envDefault:"postgres" validate:"oneof=postgres memory"`
	StatsCacheSize int           `env:"STATS_CACHE_SIZE" envDefault:"10000" validate:"min=1"`
	StatsCacheTTL  time.Duration `env:"STATS_CACHE_TTL" envDefault:"30m" validate:"min=1s"`

	// Database
	DBUser        string        `env:"DB_USER" envDefault:"postgres"`
	DBPassword    string        `env:"DB_PASSWORD" envDefault:"postgres"`
	DBHost        string        `env:"DB_HOST" envDefault:"localhost"`
	DBPort        string        `env:"DB_PORT" envDefault:"5432"`
	DBName        string        `env:"DB_NAME" envDefault:"codeledger"`
	DBMaxConns    int           `env:"DB_MAX_CONNS" envDefault:"20" validate:"min=1"`
	DBMaxConnIdle time.Duration `env:"DB_MAX_CONN_IDLE" envDefault:"30m"`
	DBMaxConnLife time.Duration `env:"DB_MAX_CONN_LIFE" envDefault:"1h"`
	RunMigrations bool          `env:"RUN_MIGRATIONS" envDefault:"true"`

	// Verification
	VerificationTTL          time.Duration `env:"VERIFICATION_TTL" envDefault:"15m" validate:"min=1m"`
	VerificationCodeLength   int           `env:"VERIFICATION_CODE_LENGTH" envDefault:"10" validate:"min=8,max=32"`
	VerificationFetchTimeout time.Duration `env:"VERIFICATION_FETCH_TIMEOUT" envDefault:"10s"`

	// Sync
	SyncTimeout      time.Duration `env:"SYNC_TIMEOUT" envDefault:"12s" validate:"min=1s,max=15s"`
	SweepInterval    time.Duration `env:"SWEEP_INTERVAL" envDefault:"6h" validate:"min=1m"`
	SweepConcurrency int           `env:"SWEEP_CONCURRENCY" envDefault:"20" validate:"min=1,max=500"`
	SweepOnStartup   bool          `env:"SWEEP_ON_STARTUP" envDefault:"false"`
	DemoMode         bool          `env:"DEMO_MODE" envDefault:"false"`

	// Workers
	WorkerCount     int           `env:"WORKER_COUNT" envDefault:"2" validate:"min=1"`
	WorkerQueueSize int           `env:"WORKER_QUEUE_SIZE" envDefault:"8" validate:"min=1"`
	JobTimeout      time.Duration `env:"JOB_TIMEOUT" envDefault:"2h"`

	// Upstream platforms
	LeetCodeBaseURL   string  `env:"LEETCODE_BASE_URL" envDefault:"https://leetcode.com" validate:"url"`
	CodeforcesBaseURL string  `env:"CODEFORCES_BASE_URL" envDefault:"https://codeforces.com" validate:"url"`
	CodeChefBaseURL   string  `env:"CODECHEF_BASE_URL" envDefault:"https://www.codechef.com" validate:"url"`
	GitHubBaseURL     string  `env:"GITHUB_BASE_URL" envDefault:"https://api.github.com" validate:"url"`
	GitHubToken       string  `env:"GITHUB_TOKEN"`
	UpstreamRPS       float64 `env:"UPSTREAM_RPS" envDefault:"2" validate:"gt=0"`
	UpstreamBurst     int     `env:"UPSTREAM_BURST" envDefault:"4" validate:"min=1"`
	UserAgent         string  `env:"UPSTREAM_USER_AGENT" envDefault:"codeledger/1.0 (+https://github.com/osse101/CodeLedger_Go)"`

	// OnDemandShare of UPSTREAM_RPS is kept for user-initiated syncs while a sweep runs
	UpstreamOnDemandShare float64 `env:"UPSTREAM_ON_DEMAND_SHARE" envDefault:"0.25" validate:"gt=0,lt=1"`

	// Notifications
	DiscordWebhookURL string `env:"DISCORD_WEBHOOK_URL"`
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadDatabase loads the configuration without validating it, for tools that only touch the database
func LoadDatabase() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgParseConfig, err)
	}
	return cfg, nil
}

// Validate checks field constraints declared in struct tags
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		var fields []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s(%s)", fe.Field(), fe.Tag()))
			}
		} else {
			fields = append(fields, err.Error())
		}
		return fmt.Errorf("%s: %s", ErrMsgInvalidConfig, strings.Join(fields, ", "))
	}
	return nil
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}

// UsesPostgres reports whether links and stats are persisted in PostgreSQL
func (c *Config) UsesPostgres() bool {
	return c.StorageBackend == StorageBackendPostgres
}

// IsDevelopment reports whether the service runs in a development environment
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvironmentDev || c.Environment == EnvironmentDevelopment
}
