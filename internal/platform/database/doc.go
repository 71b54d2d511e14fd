// Package database opens the application's database/sql handle and applies
// schema migrations.
//
// Two drivers are supported. "pgx" (github.com/jackc/pgx/v5/stdlib) is the
// production PostgreSQL driver. "sqlite" (modernc.org/sqlite) backs local
// development and the test suites with a file or in-memory database.
//
// Migrations are embedded into the binary and kept in one directory per
// dialect so each can use its native column types. They are applied with
// goose, whose output is routed through slog.
package database
