// Package errordriver maps native database errors onto the portable error codes
// and levels of mdterror. The set of supported databases is closed and chosen
// from a dialect type; an unsupported database gives an invalid driver whose
// answers are always UnknownError and LevelCritical.
package errordriver

import (
	"mdtsql/internal/dialect"
	"mdtsql/internal/mdterror"
)

type ErrorDriver struct {
	typ dialect.Type
}

// New returns the driver for t. It is invalid if t is not supported.
func New(t dialect.Type) ErrorDriver {
	switch t {
	case dialect.SQLite, dialect.MySQL:
		return ErrorDriver{typ: t}
	}
	return ErrorDriver{}
}

// FromDriverName returns the driver for a database/sql driver name such as
// "sqlite3" or "mysql".
func FromDriverName(name string) ErrorDriver {
	t, err := dialect.ParseType(name)
	if err != nil {
		return ErrorDriver{}
	}
	return New(t)
}

// IsValid reports if errors can be mapped. An invalid driver still answers.
func (d ErrorDriver) IsValid() bool {
	return d.typ != ""
}

func (d ErrorDriver) Type() dialect.Type {
	return d.typ
}

// ErrorCode maps err. An invalid driver always gives UnknownError, otherwise a
// nil err gives NoError.
func (d ErrorDriver) ErrorCode(err error) mdterror.Code {
	if !d.IsValid() {
		return mdterror.UnknownError
	}
	if err == nil {
		return mdterror.NoError
	}
	switch d.typ {
	case dialect.SQLite:
		return sqliteErrorCode(err)
	case dialect.MySQL:
		return mysqlErrorCode(err)
	}
	return mdterror.UnknownError
}

// ErrorLevel is LevelError for constraint violations, the caller being able to
// fix the data, and LevelCritical for everything else.
func (d ErrorDriver) ErrorLevel(err error) mdterror.Level {
	return LevelOf(d.ErrorCode(err))
}

// LevelOf gives the level matching a code.
func LevelOf(code mdterror.Code) mdterror.Level {
	switch code {
	case mdterror.ConstraintError, mdterror.UniqueConstraintError:
		return mdterror.LevelError
	case mdterror.NoError:
		return mdterror.LevelWarning
	}
	return mdterror.LevelCritical
}

// Wrap builds an error carrying message, the mapped code and level of native, with
// native stacked as cause. It returns nil if native is nil.
func (d ErrorDriver) Wrap(native error, message, source string) *mdterror.Error {
	if native == nil {
		return nil
	}
	code := d.ErrorCode(native)
	return mdterror.New(message, LevelOf(code), source).
		WithCode(code).
		StackNative(native, source)
}
