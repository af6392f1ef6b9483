package connection

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"mdtsql/internal/mdterror"
)

// SQLiteDatabase creates or opens one SQLite database file and owns its
// connection in a registry.
type SQLiteDatabase struct {
	registry *Registry
	name     string
	conn     *Connection
	path     string
	lastErr  *mdterror.Error
}

// NewSQLiteDatabase returns a database whose connection will be registered in
// registry under name, or under a generated name when name is empty.
func NewSQLiteDatabase(registry *Registry, name string) *SQLiteDatabase {
	return &SQLiteDatabase{registry: registry, name: name}
}

// CreateNew creates the database file at path. It fails if path exists.
func (d *SQLiteDatabase) CreateNew(ctx context.Context, path string) error {
	switch _, err := os.Stat(path); {
	case err == nil:
		return d.fail(mdterror.Newf(mdterror.LevelCritical, "SQLiteDatabase", "Creating database '%s' failed: the path already exists.", path))
	case !errors.Is(err, fs.ErrNotExist):
		return d.fail(mdterror.Newf(mdterror.LevelCritical, "SQLiteDatabase", "Creating database '%s' failed.", path).
			StackNative(err, "os"))
	}
	return d.open(ctx, path, ReadWriteCreate, "Creating")
}

// OpenExisting opens the database file at path. It fails if path is missing, is a
// directory or is not a SQLite database.
func (d *SQLiteDatabase) OpenExisting(ctx context.Context, path string, mode OpenMode) error {
	info, err := os.Stat(path)
	switch {
	case err != nil:
		return d.fail(mdterror.Newf(mdterror.LevelCritical, "SQLiteDatabase", "Opening database '%s' failed.", path).
			WithCode(mdterror.NotFound).
			StackNative(err, "os"))
	case info.IsDir():
		return d.fail(mdterror.Newf(mdterror.LevelCritical, "SQLiteDatabase", "Opening database '%s' failed: the path is a directory.", path))
	}
	if mode == ReadWriteCreate {
		mode = ReadWrite
	}
	return d.open(ctx, path, mode, "Opening")
}

func (d *SQLiteDatabase) open(ctx context.Context, path string, mode OpenMode, verb string) error {
	if d.conn != nil {
		if err := d.Close(); err != nil {
			return err
		}
	}
	p := SQLiteParameters{Path: path, OpenMode: mode}.Parameters(d.name)
	conn, err := d.registry.Add(ctx, p)
	if err != nil {
		return d.fail(mdterror.Newf(mdterror.LevelCritical, "SQLiteDatabase", "%s database '%s' failed.", verb, path).
			StackNative(err, "connection"))
	}
	d.conn, d.path, d.lastErr = conn, path, nil
	return nil
}

func (d *SQLiteDatabase) fail(err *mdterror.Error) error {
	d.lastErr = err
	return err
}

// Connection returns nil until a database was created or opened.
func (d *SQLiteDatabase) Connection() *Connection {
	return d.conn
}

func (d *SQLiteDatabase) Path() string {
	return d.path
}

func (d *SQLiteDatabase) LastError() *mdterror.Error {
	return d.lastErr
}

// Close removes the connection from the registry.
func (d *SQLiteDatabase) Close() error {
	if d.conn == nil {
		return nil
	}
	name := d.conn.Name()
	d.conn = nil
	if err := d.registry.Remove(name); err != nil {
		return d.fail(mdterror.Newf(mdterror.LevelCritical, "SQLiteDatabase", "Closing database '%s' failed.", d.path).
			StackNative(err, "connection"))
	}
	return nil
}
