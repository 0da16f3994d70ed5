package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver registration
	"github.com/pressly/goose/v3"

	"github.com/taskdeck/taskdeck-api/internal/config"
)

// migrationsDir is the path to the goose SQL migrations, relative to the
// working directory the server is started from.
const migrationsDir = "migrations"

// runMigrations executes the given goose command (up, down, status)
// against the configured database and returns when it completes.
func runMigrations(cfg *config.Config, command string) error {
	migrationLogger := slog.Default().With(
		slog.String("component", "migrations"),
		slog.String("command", command),
	)

	switch command {
	case "up", "down", "status":
	default:
		return fmt.Errorf("unsupported migration command %q (want up, down, or status)", command)
	}

	goose.SetLogger(&slogGooseLogger{logger: migrationLogger})

	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}
	defer func() {
		if cerr := db.Close(); cerr != nil {
			migrationLogger.Error("failed to close migration connection", "error", cerr)
		}
	}()

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}

	start := time.Now()
	migrationLogger.Info("starting migration operation")

	switch command {
	case "up":
		err = goose.Up(db, migrationsDir)
	case "down":
		err = goose.Down(db, migrationsDir)
	case "status":
		err = goose.Status(db, migrationsDir)
	}

	if err != nil {
		return fmt.Errorf("goose %s failed: %w", command, err)
	}

	migrationLogger.Info("migration operation completed",
		"duration", time.Since(start).String())
	return nil
}

// slogGooseLogger adapts goose's logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...))
}

func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, v...))
}
