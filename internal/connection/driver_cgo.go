//go:build cgo_sqlite

// CGO SQLite driver using mattn/go-sqlite3, used when the cgo_sqlite build tag
// is set.
//
// Build with: go build -tags cgo_sqlite
// Requires: CGO_ENABLED=1
package connection

import (
	_ "github.com/mattn/go-sqlite3"
)

const (
	sqliteDriverName = "sqlite3"
	sqliteDriverType = "cgo"
)
