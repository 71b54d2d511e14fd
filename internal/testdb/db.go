package testdb

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/phrazzld/taskman-api/internal/config"
	"github.com/phrazzld/taskman-api/internal/platform/database"
)

const setupTimeout = 30 * time.Second

// GetTestDB returns a migrated database for t. The handle is closed when the
// test finishes.
func GetTestDB(t *testing.T) *sql.DB {
	t.Helper()
	if url := PostgresURL(); url != "" {
		return open(t, config.DatabaseConfig{
			Driver:       database.DriverPostgres,
			URL:          url,
			MaxOpenConns: 5,
			MaxIdleConns: 2,
		})
	}
	return GetSQLiteDB(t)
}

// GetSQLiteDB returns a private, migrated in-memory SQLite database.
func GetSQLiteDB(t *testing.T) *sql.DB {
	t.Helper()
	return open(t, config.DatabaseConfig{
		Driver: database.DriverSQLite,
		URL:    ":memory:",
	})
}

// Driver reports which driver GetTestDB uses in this environment.
func Driver() string {
	if PostgresURL() != "" {
		return database.DriverPostgres
	}
	return database.DriverSQLite
}

func open(t *testing.T, cfg config.DatabaseConfig) *sql.DB {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), setupTimeout)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := database.Open(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("warning: failed to close test database: %v", err)
		}
	})

	if err := database.Migrate(ctx, db, cfg.Driver, database.CommandUp, logger); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	// A Postgres test database outlives the test, so start and finish empty.
	if cfg.Driver == database.DriverPostgres {
		truncate(t, db)
		t.Cleanup(func() { truncate(t, db) })
	}

	return db
}

func truncate(t *testing.T, db *sql.DB) {
	t.Helper()
	if _, err := db.ExecContext(context.Background(), "TRUNCATE tasks, users"); err != nil {
		t.Fatalf("failed to truncate test database: %v", err)
	}
}
