// Package connection opens named database connections and keeps them in a
// registry. A Connection must not be used from two goroutines at once: open one
// connection per worker, named with GenerateConnectionName.
package connection

import (
	"context"
	"database/sql"
	"fmt"

	"mdtsql/internal/dialect"
)

// Connection is a named database handle.
type Connection struct {
	name string
	typ  dialect.Type
	db   *sql.DB
}

// NewConnection wraps an already opened handle. It is meant for handles the
// registry did not open, such as mocks in tests.
func NewConnection(name string, t dialect.Type, db *sql.DB) *Connection {
	return &Connection{name: name, typ: t, db: db}
}

func (c *Connection) Name() string {
	return c.name
}

func (c *Connection) Dialect() dialect.Type {
	return c.typ
}

func (c *Connection) DB() *sql.DB {
	return c.db
}

// IsOpen reports if the handle was not closed yet.
func (c *Connection) IsOpen() bool {
	return c != nil && c.db != nil
}

func (c *Connection) Close() error {
	if c.db == nil {
		return nil
	}
	err := c.db.Close()
	c.db = nil
	return err
}

// open opens and checks a handle for p.
func open(ctx context.Context, p Parameters) (*sql.DB, error) {
	driver := DriverName(p.Driver)
	if driver == "" {
		return nil, fmt.Errorf("no database driver for dialect %q", p.Driver)
	}

	db, err := sql.Open(driver, p.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	var setupErr error
	switch p.Driver {
	case dialect.SQLite:
		setupErr = setupSQLite(ctx, db)
	default:
		setupErr = db.PingContext(ctx)
	}
	if setupErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to set up database: %v; additionally failed to close connection: %w", setupErr, closeErr)
		}
		return nil, fmt.Errorf("failed to set up database: %w", setupErr)
	}
	return db, nil
}

// setupSQLite pins the pool to one connection so the pragmas below hold for every
// statement, then checks the file really is a SQLite database.
func setupSQLite(ctx context.Context, db *sql.DB) error {
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)
	db.SetConnMaxIdleTime(0)

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("%s: %w", pragma, err)
		}
	}

	var version int
	if err := db.QueryRowContext(ctx, "PRAGMA schema_version").Scan(&version); err != nil {
		return fmt.Errorf("not a SQLite database: %w", err)
	}
	return nil
}
