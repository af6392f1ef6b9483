package dialect

import (
	"strconv"
	"strings"

	"mdtsql/internal/schema"
)

// FieldTypeFromString parses the type part of a type string such as "VARCHAR(50)",
// "varchar (50)" or "INTEGER UNSIGNED", ignoring case.
func FieldTypeFromString(s string) schema.FieldType {
	s = strings.ToUpper(strings.TrimSpace(s))
	if i := strings.IndexByte(s, '('); i >= 0 {
		s = s[:i]
	}
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return schema.UnknownType
	}
	switch fields[0] {
	case "BOOL", "BOOLEAN":
		return schema.Boolean
	case "INT", "INTEGER":
		return schema.Integer
	case "FLOAT":
		return schema.Float
	case "DOUBLE":
		return schema.Double
	case "VARCHAR":
		return schema.Varchar
	case "DATE":
		return schema.Date
	case "TIME":
		return schema.Time
	case "DATETIME":
		return schema.DateTime
	}
	return schema.UnknownType
}

// LengthKind tells how a length was found in a type string.
type LengthKind int

const (
	// LengthAbsent means the type string has no length part.
	LengthAbsent LengthKind = iota
	// LengthValue means a single positive length was parsed.
	LengthValue
	// LengthUnsupported means a length part exists but its syntax is not supported,
	// for example DOUBLE(2,3).
	LengthUnsupported
)

// FieldLength is the result of FieldLengthFromString.
type FieldLength struct {
	Kind  LengthKind
	Value int
}

// Int returns the length as a plain int: the value, -1 when absent, -2 when unsupported.
func (l FieldLength) Int() int {
	switch l.Kind {
	case LengthValue:
		return l.Value
	case LengthUnsupported:
		return -2
	case LengthAbsent:
	}
	return -1
}

// FieldLengthFromString parses the length part of a type string such as "VARCHAR( 50 )".
func FieldLengthFromString(s string) FieldLength {
	open := strings.IndexByte(s, '(')
	if open < 0 {
		return FieldLength{Kind: LengthAbsent}
	}
	closing := strings.IndexByte(s[open:], ')')
	if closing < 0 {
		return FieldLength{Kind: LengthUnsupported}
	}
	n, err := strconv.Atoi(strings.TrimSpace(s[open+1 : open+closing]))
	if err != nil || n <= 0 {
		return FieldLength{Kind: LengthUnsupported}
	}
	return FieldLength{Kind: LengthValue, Value: n}
}

// TypedDefault converts a default value read back from a database to the Go type
// matching typ. Boolean defaults are stored as 0 and 1.
func TypedDefault(typ schema.FieldType, v any) any {
	if typ != schema.Boolean {
		return v
	}
	switch x := v.(type) {
	case int64:
		return x != 0
	case string:
		if b, err := strconv.ParseBool(x); err == nil {
			return b
		}
	}
	return v
}
