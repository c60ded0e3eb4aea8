package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/osse101/CodeLedger_Go/internal/cache"
	"github.com/osse101/CodeLedger_Go/internal/concurrency"
	"github.com/osse101/CodeLedger_Go/internal/config"
	"github.com/osse101/CodeLedger_Go/internal/database"
	"github.com/osse101/CodeLedger_Go/internal/handler"
	"github.com/osse101/CodeLedger_Go/internal/notify"
	"github.com/osse101/CodeLedger_Go/internal/platform"
	"github.com/osse101/CodeLedger_Go/internal/scheduler"
	"github.com/osse101/CodeLedger_Go/internal/server"
	"github.com/osse101/CodeLedger_Go/internal/syncer"
	"github.com/osse101/CodeLedger_Go/internal/verification"
	"github.com/osse101/CodeLedger_Go/internal/worker"
)

// Application is the fully wired service
type Application struct {
	Server       *server.Server
	Verification verification.Service
	Sync         syncer.Service
	Scheduler    *scheduler.Scheduler
	WorkerPool   *worker.Pool
	DBPool       *pgxpool.Pool
}

// NewApplication connects storage, wires every component and starts the background workers.
// The HTTP server is created but not started.
func NewApplication(ctx context.Context, cfg *config.Config) (*Application, error) {
	for _, w := range cfg.Warnings() {
		slog.Warn(LogMsgConfigWarning, "warning", w)
	}

	var dbPool *pgxpool.Pool
	if cfg.UsesPostgres() {
		pool, err := database.NewPool(ctx, cfg.GetDBConnString(), database.PoolOptions{
			MaxConns:    cfg.DBMaxConns,
			MaxConnIdle: cfg.DBMaxConnIdle,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgConnectDatabase, err)
		}
		slog.Info(LogMsgDatabaseConnected, "host", cfg.DBHost, "name", cfg.DBName)

		if cfg.RunMigrations {
			if err := database.Migrate(ctx, pool, database.MigrateUp); err != nil {
				pool.Close()
				return nil, fmt.Errorf("%s: %w", ErrMsgRunMigrations, err)
			}
			slog.Info(LogMsgMigrationsApplied)
		}
		dbPool = pool
	}

	repos := InitializeRepositories(dbPool)

	client := platform.NewClient(platform.ClientConfig{
		UserAgent: cfg.UserAgent,
		RPS:       cfg.UpstreamRPS,
		Burst:     cfg.UpstreamBurst,

		OnDemandShare: cfg.UpstreamOnDemandShare,
	})
	registry := platform.NewDefaultRegistry(client, platform.BaseURLs{
		LeetCode:   cfg.LeetCodeBaseURL,
		Codeforces: cfg.CodeforcesBaseURL,
		CodeChef:   cfg.CodeChefBaseURL,
		GitHub:     cfg.GitHubBaseURL,
	}, cfg.GitHubToken)

	statsStore := cache.NewTieredStore(cache.NewMemoryStore(cfg.StatsCacheSize, cfg.StatsCacheTTL), repos.Stats)

	// Verification and sync share link locks so a disconnect never races a stats write
	linkLocks := concurrency.NewLockManager()

	verifySvc := verification.NewService(repos.Links, registry, statsStore, linkLocks, verification.Config{
		CodeLength:   cfg.VerificationCodeLength,
		TTL:          cfg.VerificationTTL,
		FetchTimeout: cfg.VerificationFetchTimeout,
	})

	var demo platform.Adapter
	if cfg.DemoMode {
		demo = platform.NewDemoAdapter(time.Now())
		slog.Info(LogMsgDemoModeEnabled)
	}

	var notifier syncer.SweepNotifier
	if cfg.DiscordWebhookURL != "" {
		discord, err := notify.NewDiscordNotifier(cfg.DiscordWebhookURL)
		if err != nil {
			closePool(dbPool)
			return nil, fmt.Errorf("%s: %w", ErrMsgCreateNotifier, err)
		}
		notifier = discord
		slog.Info(LogMsgNotifierEnabled)
	}

	syncSvc := syncer.NewService(repos.Links, statsStore, registry, demo, notifier, linkLocks, syncer.Config{
		SyncTimeout:      cfg.SyncTimeout,
		SweepConcurrency: cfg.SweepConcurrency,
		DemoMode:         cfg.DemoMode,
		Admission:        client,
	})

	pool := worker.NewPool(cfg.WorkerCount, cfg.WorkerQueueSize, cfg.JobTimeout)
	pool.Start()
	sched := scheduler.New(pool)

	if syncer.ScheduleSweep(sched, syncSvc, cfg.SweepInterval) {
		slog.Info(LogMsgSweepScheduled, "interval", cfg.SweepInterval.String(), "concurrency", cfg.SweepConcurrency)
	} else {
		slog.Warn(LogMsgSweepDisabled)
	}

	sweepJob := syncer.NewSweepJob(syncSvc)
	if cfg.SweepOnStartup {
		if sched.Trigger(sweepJob) {
			slog.Info(LogMsgStartupSweepQueued)
		} else {
			slog.Warn(LogMsgStartupSweepRejected)
		}
	}

	var readiness database.Pool
	if dbPool != nil {
		readiness = dbPool
	}

	srv := server.NewServer(server.Options{
		Port:           cfg.Port,
		APIKey:         cfg.APIKey,
		TrustedProxies: cfg.TrustedProxies,
		ServiceName:    cfg.ServiceName,
		Version:        cfg.Version,

		CORSAllowedOrigins: cfg.CORSOrigins,
		SyncRateLimit:      cfg.SyncRateLimit,
		SyncRateWindow:     cfg.SyncRateWindow,
	}, readiness, handler.NewPlatformHandlers(verifySvc, syncSvc), handler.NewAdminHandlers(sched, sweepJob))

	return &Application{
		Server:       srv,
		Verification: verifySvc,
		Sync:         syncSvc,
		Scheduler:    sched,
		WorkerPool:   pool,
		DBPool:       dbPool,
	}, nil
}

// ShutdownComponents returns what GracefulShutdown needs to stop
func (a *Application) ShutdownComponents() ShutdownComponents {
	return ShutdownComponents{
		Server:     a.Server,
		Scheduler:  a.Scheduler,
		WorkerPool: a.WorkerPool,
		DBPool:     a.DBPool,
	}
}

func closePool(pool *pgxpool.Pool) {
	if pool != nil {
		pool.Close()
	}
}
