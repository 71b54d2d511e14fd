package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/phrazzld/taskman-api/internal/store"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// PostgreSQL error codes
const (
	pgUniqueViolationCode     = "23505"
	pgForeignKeyViolationCode = "23503"
	pgCheckViolationCode      = "23514"
	pgNotNullViolationCode    = "23502"
)

type constraintKind int

const (
	constraintNone constraintKind = iota
	constraintUnique
	constraintForeignKey
	constraintCheck
	constraintNotNull
)

// classify reports which kind of integrity constraint err violated, for
// either supported driver.
func classify(err error) constraintKind {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolationCode:
			return constraintUnique
		case pgForeignKeyViolationCode:
			return constraintForeignKey
		case pgCheckViolationCode:
			return constraintCheck
		case pgNotNullViolationCode:
			return constraintNotNull
		}
		return constraintNone
	}

	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return constraintUnique
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return constraintForeignKey
		case sqlite3.SQLITE_CONSTRAINT_CHECK:
			return constraintCheck
		case sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return constraintNotNull
		}
	}

	return constraintNone
}

// IsUniqueViolation checks if err is a unique constraint violation.
func IsUniqueViolation(err error) bool {
	return classify(err) == constraintUnique
}

// IsForeignKeyViolation checks if err is a foreign key constraint violation.
func IsForeignKeyViolation(err error) bool {
	return classify(err) == constraintForeignKey
}

// MapError maps a database error to the matching store sentinel, wrapping the
// original error for context. Errors without a mapping are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %v", store.ErrNotFound, err)
	}

	switch classify(err) {
	case constraintUnique:
		return fmt.Errorf("%w: %v", store.ErrDuplicate, err)
	case constraintForeignKey:
		return fmt.Errorf("%w: foreign key violation: %v", store.ErrInvalidEntity, err)
	case constraintCheck:
		return fmt.Errorf("%w: check constraint violation: %v", store.ErrInvalidEntity, err)
	case constraintNotNull:
		return fmt.Errorf("%w: not null violation: %v", store.ErrInvalidEntity, err)
	}

	return err
}

// CheckRowsAffected returns notFound when result reports no affected rows.
func CheckRowsAffected(result sql.Result, notFound error) error {
	if result == nil {
		return fmt.Errorf("nil result provided to CheckRowsAffected")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rows == 0 {
		if notFound == nil {
			return store.ErrNotFound
		}
		return notFound
	}

	return nil
}
