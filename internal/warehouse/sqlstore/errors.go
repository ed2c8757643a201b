package sqlstore

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// classify maps driver errors onto the warehouse error types so callers can
// use errors.Is without knowing which database is underneath.
func classify(err error, table, identity string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return warehouse.Missing{Table: table, Identity: identity}
	}

	if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
		switch pgerr.Code {
		case pgerrcode.UniqueViolation:
			return warehouse.Conflict{Table: table, Identity: identity}
		case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected:
			return fmt.Errorf("%s: %w: %s", table, warehouse.ErrConflict, pgerr.Message)
		case pgerrcode.ForeignKeyViolation:
			return fmt.Errorf("%s: %w: %s", table, warehouse.ErrForeignKey, pgerr.ConstraintName)
		}
	}

	var lite *sqlite.Error
	if errors.As(err, &lite) {
		// Extended codes are not always enabled, so fall back to the message.
		code, msg := lite.Code(), lite.Error()
		switch {
		case code == sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY || strings.Contains(msg, "FOREIGN KEY constraint failed"):
			return fmt.Errorf("%s: %w: %s", table, warehouse.ErrForeignKey, identity)
		case code == sqlite3.SQLITE_CONSTRAINT_UNIQUE || code == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY ||
			strings.Contains(msg, "UNIQUE constraint failed"):
			return warehouse.Conflict{Table: table, Identity: identity}
		case code&0xff == sqlite3.SQLITE_BUSY:
			return fmt.Errorf("%s: %w: database is busy", table, warehouse.ErrConflict)
		}
	}

	return fmt.Errorf("sqlstore: %s %s: %w", table, identity, err)
}
