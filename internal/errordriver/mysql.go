package errordriver

import (
	"errors"

	"github.com/go-sql-driver/mysql"

	"mdtsql/internal/mdterror"
)

// MySQL server error numbers.
const (
	mysqlDuplicateEntry       = 1062
	mysqlNoReferencedRow      = 1216
	mysqlRowIsReferenced      = 1217
	mysqlRowIsReferenced2     = 1451
	mysqlNoReferencedRow2     = 1452
	mysqlBadNull              = 1048
	mysqlCheckConstraintFails = 3819
)

// FromMySQLNumber maps a MySQL server error number.
func FromMySQLNumber(number uint16) mdterror.Code {
	switch number {
	case mysqlDuplicateEntry:
		return mdterror.UniqueConstraintError
	case mysqlNoReferencedRow, mysqlRowIsReferenced, mysqlRowIsReferenced2, mysqlNoReferencedRow2,
		mysqlBadNull, mysqlCheckConstraintFails:
		return mdterror.ConstraintError
	}
	return mdterror.UnknownError
}

func mysqlErrorCode(err error) mdterror.Code {
	var e *mysql.MySQLError
	if errors.As(err, &e) {
		return FromMySQLNumber(e.Number)
	}
	return mdterror.UnknownError
}
