package data

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"
	moderncsqlite "modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

const (
	pgForeignKeyViolation = "23503"
	mysqlNoReferencedRow  = 1452
	mysqlRowIsReferenced  = 1451
)

// classify tags driver-specific foreign key failures with ErrForeignKey so
// callers can test for them without knowing the engine.
func classify(err error) error {
	if err == nil || !isForeignKeyViolation(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrForeignKey, err)
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == pgForeignKeyViolation
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == mysqlNoReferencedRow || myErr.Number == mysqlRowIsReferenced
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
	}
	var modErr *moderncsqlite.Error
	if errors.As(err, &modErr) {
		// The primary code is reported unless extended codes are enabled.
		return modErr.Code() == sqlitelib.SQLITE_CONSTRAINT_FOREIGNKEY ||
			(modErr.Code() == sqlitelib.SQLITE_CONSTRAINT && strings.Contains(modErr.Error(), "FOREIGN KEY"))
	}
	return false
}
