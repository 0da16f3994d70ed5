package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/platform/postgres"
	"github.com/taskdeck/taskdeck-api/internal/service/auth"
	"github.com/taskdeck/taskdeck-api/internal/store"
)

// application holds all the shared application dependencies to simplify
// management and ensure proper cleanup on shutdown. It is constructed once
// at startup and passed into handlers and stores; nothing reads shared
// state through globals.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	taskStore    store.TaskStore
	tokenService auth.TokenService
}

// newApplication creates a new application instance with all dependencies
// initialized. It accepts the core resources (configuration, logger,
// database pool) that must be established before application wiring.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	app := &application{
		config: cfg,
		logger: logger,
		db:     db,
	}

	var err error
	app.tokenService, err = auth.NewTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token service: %w", err)
	}
	logger.Info("token verification service initialized",
		"token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes)

	app.taskStore = postgres.NewPostgresTaskStore(db, logger)

	logger.Info("application initialized successfully")
	return app, nil
}

// Run starts the application server, handling lifecycle and cleanup.
// It returns an error if the server fails to start or encounters problems.
func (app *application) Run(ctx context.Context) error {
	router := app.setupRouter()

	if err := app.startHTTPServer(ctx, router); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// cleanup handles graceful shutdown of application resources.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", "error", err)
		}
	}

	app.logger.Info("application shutdown completed")
}
