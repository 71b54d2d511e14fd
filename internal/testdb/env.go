package testdb

import "os"

// EnvTestDatabaseURL names the variable that points the fixtures at PostgreSQL.
const EnvTestDatabaseURL = "TASKMAN_TEST_DATABASE_URL"

// PostgresURL returns the configured PostgreSQL test URL, or "".
func PostgresURL() string {
	return os.Getenv(EnvTestDatabaseURL)
}

// ShouldSkipPostgres reports whether PostgreSQL-only tests should be skipped.
func ShouldSkipPostgres() bool {
	return PostgresURL() == ""
}
