package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrations embed.FS

var migrateCommands = map[string]func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error{
	MigrateUp:     goose.UpContext,
	MigrateDown:   goose.DownContext,
	MigrateStatus: goose.StatusContext,
	MigrateReset:  goose.ResetContext,
}

// Migrate runs a goose command against the pool using the embedded migrations
func Migrate(ctx context.Context, pool *pgxpool.Pool, command string) error {
	run, ok := migrateCommands[command]
	if !ok {
		return fmt.Errorf("%s: %q", ErrMsgUnknownMigrateCommand, command)
	}

	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(gooseDialect); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToSetDialect, err)
	}

	db := stdlib.OpenDBFromPool(pool)
	defer db.Close()

	if err := run(ctx, db, migrationsDir); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToMigrate, err)
	}

	slog.Default().Info(LogMsgMigrationsApplied, "command", command)
	return nil
}
