package connection

import (
	"strings"

	"mdtsql/internal/dialect"
)

// OpenMode is how a SQLite database file is opened.
type OpenMode string

const (
	ReadOnly  OpenMode = "ro"
	ReadWrite OpenMode = "rw"
	// ReadWriteCreate also creates the file when it does not exist.
	ReadWriteCreate OpenMode = "rwc"
)

// ParseOpenMode accepts ro, rw and rwc. An empty string gives ReadWrite.
func ParseOpenMode(s string) (OpenMode, bool) {
	switch OpenMode(s) {
	case "":
		return ReadWrite, true
	case ReadOnly, ReadWrite, ReadWriteCreate:
		return OpenMode(s), true
	}
	return "", false
}

// Parameters describe a connection to open.
type Parameters struct {
	// Name identifies the connection in its registry. A name is generated when empty.
	Name   string
	Driver dialect.Type
	// DSN is the data source name handed to the database/sql driver.
	DSN string
}

// SQLiteParameters describe a SQLite database file.
type SQLiteParameters struct {
	Path     string
	OpenMode OpenMode
}

// DSN returns the URI filename opening Path with OpenMode.
func (p SQLiteParameters) DSN() string {
	mode := p.OpenMode
	if mode == "" {
		mode = ReadWrite
	}
	return "file:" + uriPathReplacer.Replace(p.Path) + "?mode=" + string(mode)
}

// uriPathReplacer escapes the characters SQLite URI filenames give a meaning to.
var uriPathReplacer = strings.NewReplacer("%", "%25", "?", "%3f", "#", "%23")

// Parameters converts p to generic connection parameters named name.
func (p SQLiteParameters) Parameters(name string) Parameters {
	return Parameters{Name: name, Driver: dialect.SQLite, DSN: p.DSN()}
}

// DriverName returns the database/sql driver registered for t.
func DriverName(t dialect.Type) string {
	switch t {
	case dialect.SQLite:
		return sqliteDriverName
	case dialect.MySQL:
		return "mysql"
	}
	return ""
}

// SQLiteDriverType tells which SQLite driver the binary was built with: purego or cgo.
func SQLiteDriverType() string {
	return sqliteDriverType
}
