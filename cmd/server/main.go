// Package main implements the entry point for the taskdeck API server,
// a multi-tenant task-tracking backend with bearer-token authentication.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/taskdeck/taskdeck-api/internal/config"
	"github.com/taskdeck/taskdeck-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run database migrations (up|down|status) and exit")
	flag.Parse()

	cfg, appLogger, err := initializeApp()
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd); err != nil {
			appLogger.Error("migration failed", "command", *migrateCmd, "error", err)
			os.Exit(1)
		}
		return
	}

	db, err := setupDatabase(cfg, appLogger)
	if err != nil {
		appLogger.Error("database setup failed", "error", err)
		os.Exit(1)
	}

	app, err := newApplication(cfg, appLogger, db)
	if err != nil {
		appLogger.Error("application setup failed", "error", err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		appLogger.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

// initializeApp loads configuration and sets up structured logging.
// Returns the loaded config, the configured logger, and any error.
func initializeApp() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel)
	slog.Debug("database configuration", "url_present", cfg.Database.URL != "")
	slog.Debug("auth configuration", "jwt_secret_present", cfg.Auth.JWTSecret != "")

	return cfg, appLogger, nil
}
