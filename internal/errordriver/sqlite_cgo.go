//go:build cgo_sqlite

package errordriver

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

// sqliteNativeCode extracts the result code of a mattn/go-sqlite3 error,
// preferring the extended code.
func sqliteNativeCode(err error) (int, bool) {
	var e sqlite3.Error
	if !errors.As(err, &e) {
		return 0, false
	}
	if e.ExtendedCode != 0 {
		return int(e.ExtendedCode), true
	}
	return int(e.Code), true
}
