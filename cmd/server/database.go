package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver registration

	"github.com/taskdeck/taskdeck-api/internal/config"
)

// setupDatabase establishes the process-lifetime connection pool and
// verifies connectivity. The pool is the only long-lived shared mutable
// resource in the core: stores borrow a connection per operation and the
// pool's own synchronization mediates concurrent acquisition.
func setupDatabase(cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Bounded pool: a small steady-state size plus limited overflow.
	// Connection lifetime and idle timeout age out connections the server
	// may have silently recycled.
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	lifetime := time.Duration(cfg.Database.ConnMaxLifetimeMins) * time.Minute
	db.SetConnMaxLifetime(lifetime)
	db.SetConnMaxIdleTime(lifetime)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("database connection established",
		"max_idle_conns", cfg.Database.MaxIdleConns,
		"max_open_conns", cfg.Database.MaxOpenConns)
	return db, nil
}
