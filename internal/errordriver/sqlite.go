package errordriver

import "mdtsql/internal/mdterror"

// SQLite result codes, see https://www.sqlite.org/rescode.html.
const (
	sqliteConstraint           = 19
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// IsExtendedErrorCode reports if code is an extended result code, which carries the
// primary code in its low byte.
func IsExtendedErrorCode(code int) bool {
	return code > 0xff
}

// FromPrimaryErrorCode maps a primary SQLite result code.
func FromPrimaryErrorCode(code int) mdterror.Code {
	switch code {
	case 0:
		return mdterror.NoError
	case sqliteConstraint:
		return mdterror.ConstraintError
	}
	return mdterror.UnknownError
}

// FromExtendedErrorCode maps an extended SQLite result code. Primary key and
// unique violations give UniqueConstraintError, other constraint violations give
// ConstraintError.
func FromExtendedErrorCode(code int) mdterror.Code {
	switch code {
	case sqliteConstraintPrimaryKey, sqliteConstraintUnique:
		return mdterror.UniqueConstraintError
	}
	if code&0xff == sqliteConstraint {
		return mdterror.ConstraintError
	}
	return mdterror.UnknownError
}

// FromSQLiteCode maps either kind of result code.
func FromSQLiteCode(code int) mdterror.Code {
	if IsExtendedErrorCode(code) {
		return FromExtendedErrorCode(code)
	}
	return FromPrimaryErrorCode(code)
}

func sqliteErrorCode(err error) mdterror.Code {
	code, ok := sqliteNativeCode(err)
	if !ok {
		return mdterror.UnknownError
	}
	return FromSQLiteCode(code)
}
