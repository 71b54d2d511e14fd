// Package main implements the entry point for the task management API
// server, which handles user signup and login and per-user task CRUD.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/database"
)

// main is the entry point for the taskman-api server.
// With -migrate it runs a single migration command and exits; otherwise it
// serves HTTP until SIGINT or SIGTERM.
func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command ("+strings.Join(database.Commands(), "|")+") and exit")
	flag.Parse()

	if err := run(context.Background(), *migrateCmd); err != nil {
		slog.Error("taskman-api exited with error", "error", err)
		os.Exit(1)
	}
}

// run wires configuration, logging and the database, then either executes
// migrateCmd or starts the server.
func run(ctx context.Context, migrateCmd string) error {
	cfg, err := loadAppConfig()
	if err != nil {
		return err
	}

	logger, err := setupAppLogger(cfg)
	if err != nil {
		return err
	}

	db, err := setupAppDatabase(ctx, cfg, logger)
	if err != nil {
		return err
	}

	if migrateCmd != "" {
		defer func() { _ = db.Close() }()
		logger.Info("Executing migrations", "command", migrateCmd)
		return database.Migrate(ctx, db, cfg.Database.Driver, migrateCmd, logger)
	}

	// SQLite is the local development driver; its databases start empty.
	if cfg.Database.Driver == database.DriverSQLite {
		if err := database.Migrate(ctx, db, cfg.Database.Driver, database.CommandUp, logger); err != nil {
			_ = db.Close()
			return err
		}
	}

	app, err := newApplication(cfg, logger, db)
	if err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}

// loadAppConfig loads the application configuration from environment variables or config file.
// Returns the loaded config and any loading error.
func loadAppConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, nil
}
