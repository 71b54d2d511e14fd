package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/redact"

	// Register database/sql drivers.
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// Supported values for config.DatabaseConfig.Driver.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

const pingTimeout = 5 * time.Second

// Open establishes a connection pool for cfg and verifies it with a ping.
//
// SQLite handles are limited to a single connection that is never recycled:
// an in-memory database lives only as long as its connection, and SQLite
// allows one writer at a time anyway. Foreign keys are switched on for SQLite
// since it ships with them disabled.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "database", "driver", cfg.Driver)

	switch cfg.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	db, err := sql.Open(cfg.Driver, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		log.Error("database ping failed", slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if cfg.Driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable sqlite foreign keys: %w", err)
		}
	}

	log.Info("database connection established",
		slog.String("url", redact.String(cfg.URL)))
	return db, nil
}

// Dialect returns the goose dialect name for a driver.
func Dialect(driver string) (string, error) {
	switch strings.ToLower(driver) {
	case DriverPostgres, "postgres", "postgresql":
		return "postgres", nil
	case DriverSQLite, "sqlite3":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}
