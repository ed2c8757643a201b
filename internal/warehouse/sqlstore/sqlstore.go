// Package sqlstore implements warehouse.Store on database/sql. Two drivers
// are supported: PostgreSQL through pgx ("pgx") and an embedded SQLite file
// through modernc.org/sqlite ("sqlite"). The schema is created on open.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/specialistvlad/residencygrid/internal/ctxlog"
	"github.com/specialistvlad/residencygrid/internal/warehouse"
)

// Supported driver names.
const (
	DriverPostgres = "pgx"
	DriverSQLite   = "sqlite"
)

type dialect struct {
	driver    string
	idColumn  string
	isolation sql.IsolationLevel
	numbered  bool
}

var dialects = map[string]dialect{
	DriverPostgres: {
		driver:    DriverPostgres,
		idColumn:  "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY",
		isolation: sql.LevelSerializable,
		numbered:  true,
	},
	DriverSQLite: {
		driver:   DriverSQLite,
		idColumn: "INTEGER PRIMARY KEY",
	},
}

// rebind rewrites ? placeholders as $1, $2, ... for drivers that need it.
func (d dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Store is a warehouse.Store backed by a SQL database.
type Store struct {
	db      *sql.DB
	dialect dialect
}

var _ warehouse.Store = (*Store)(nil)

// Open connects to the database and makes sure the schema exists.
func Open(ctx context.Context, driver, dsn string) (*Store, error) {
	if _, ok := dialects[driver]; !ok {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	if driver == DriverSQLite && !strings.Contains(dsn, "foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlstore: open %s: %w", driver, err)
	}
	s, err := OpenDB(ctx, db, driver)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// OpenDB wraps an existing handle. The store takes ownership of db.
func OpenDB(ctx context.Context, db *sql.DB, driver string) (*Store, error) {
	d, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}
	if driver == DriverSQLite {
		// One writer at a time; also keeps PRAGMA state on a single connection.
		db.SetMaxOpenConns(1)
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("sqlstore: ping %s: %w", driver, err)
	}
	if driver == DriverSQLite {
		if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
			return nil, fmt.Errorf("sqlstore: enable foreign keys: %w", err)
		}
	}

	s := &Store{db: db, dialect: d}
	if err := s.ensureSchema(ctx); err != nil {
		return nil, err
	}
	ctxlog.FromContext(ctx).Info("Warehouse opened.", "driver", driver)
	return s, nil
}

// Tx runs fn inside a database transaction.
func (s *Store) Tx(ctx context.Context, fn func(ctx context.Context, tx warehouse.Tx) error) error {
	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: s.dialect.isolation})
	if err != nil {
		return fmt.Errorf("sqlstore: begin: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(ctx, &transaction{tx: sqlTx, dialect: s.dialect}); err != nil {
		return err
	}
	if err := sqlTx.Commit(); err != nil {
		return classify(err, "", "commit")
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
