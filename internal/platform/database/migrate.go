package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/postgres/*.sql migrations/sqlite/*.sql
var migrationFS embed.FS

// Migration commands accepted by Migrate.
const (
	CommandUp      = "up"
	CommandDown    = "down"
	CommandReset   = "reset"
	CommandStatus  = "status"
	CommandVersion = "version"
)

// goose keeps its dialect, filesystem and logger in package globals.
var gooseMu sync.Mutex

// Commands returns the migration commands accepted by Migrate.
func Commands() []string {
	return []string{CommandUp, CommandDown, CommandReset, CommandStatus, CommandVersion}
}

// Migrate runs a goose command against db using the embedded migrations for
// driver's dialect.
func Migrate(ctx context.Context, db *sql.DB, driver, command string, logger *slog.Logger) error {
	command = strings.ToLower(strings.TrimSpace(command))
	if !isCommand(command) {
		return fmt.Errorf("unsupported migration command %q (expected one of %s)",
			command, strings.Join(Commands(), ", "))
	}

	if logger == nil {
		logger = slog.Default()
	}
	log := logger.With("component", "migrations", "command", command)

	return withGoose(driver, log, func(dir string) error {
		log.Info("running migrations", slog.String("dir", dir))
		if err := goose.RunContext(ctx, command, db, dir); err != nil {
			return fmt.Errorf("migration command %q failed: %w", command, err)
		}
		return nil
	})
}

// Version reports the schema version currently applied to db.
func Version(ctx context.Context, db *sql.DB, driver string) (int64, error) {
	var version int64
	err := withGoose(driver, slog.Default(), func(string) error {
		v, err := goose.GetDBVersionContext(ctx, db)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		version = v
		return nil
	})
	return version, err
}

func withGoose(driver string, log *slog.Logger, fn func(dir string) error) error {
	dialect, err := Dialect(driver)
	if err != nil {
		return err
	}

	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrationFS)
	goose.SetLogger(&slogGooseLogger{logger: log})
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	return fn(migrationsDir(dialect))
}

func migrationsDir(dialect string) string {
	if dialect == "sqlite3" {
		return path.Join("migrations", "sqlite")
	}
	return path.Join("migrations", "postgres")
}

func isCommand(command string) bool {
	for _, c := range Commands() {
		if c == command {
			return true
		}
	}
	return false
}

// slogGooseLogger adapts the goose logger interface to slog.
type slogGooseLogger struct {
	logger *slog.Logger
}

// Printf forwards goose progress output at info level.
func (l *slogGooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Fatalf logs at error level. It does NOT exit; the failure is returned to
// the caller through goose's error result instead.
func (l *slogGooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(strings.TrimSpace(fmt.Sprintf(format, v...)))
}
