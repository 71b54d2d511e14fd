// Package sqlstore implements the store interfaces on top of database/sql.
//
// Queries use $N placeholders and portable SQL so the same stores run on
// PostgreSQL through pgx and on SQLite through modernc.org/sqlite. Driver
// specific constraint errors are classified in errors.go and mapped to the
// sentinel errors of package store.
//
// Every store accepts a store.DBTX, so it can be bound either to a *sql.DB or,
// through WithTx, to a *sql.Tx.
package sqlstore
