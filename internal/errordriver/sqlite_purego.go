//go:build !cgo_sqlite

package errordriver

import (
	"errors"

	"modernc.org/sqlite"
)

// sqliteNativeCode extracts the result code of a modernc.org/sqlite error. The
// driver enables extended result codes.
func sqliteNativeCode(err error) (int, bool) {
	var e *sqlite.Error
	if errors.As(err, &e) {
		return e.Code(), true
	}
	return 0, false
}
