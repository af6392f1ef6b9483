// Package sqlite is the SQLite dialect: double quoted identifiers, BINARY and
// NOCASE collations, AUTOINCREMENT keys and PRAGMA based reverse engineering.
package sqlite

import (
	"strings"

	"mdtsql/internal/dialect"
	"mdtsql/internal/schema"
)

func init() {
	dialect.RegisterDialect(dialect.SQLite, func() dialect.Dialect {
		return New()
	})
}

type Dialect struct{}

func New() *Dialect {
	return &Dialect{}
}

func (d *Dialect) Name() dialect.Type {
	return dialect.SQLite
}

// QuoteIdentifier wraps name in double quotes, doubling embedded ones.
func (d *Dialect) QuoteIdentifier(name string) string {
	name = strings.TrimSpace(name)
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// QuoteString wraps value in single quotes, doubling embedded ones. SQLite
// string literals have no backslash escapes.
func (d *Dialect) QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

func (d *Dialect) FieldTypeDefinition(f schema.Field) string {
	return dialect.TypeWithLength(f)
}

// CollationDefinition maps the case sensitivity to BINARY or NOCASE. SQLite has no
// locale aware collation so the language and country are ignored.
func (d *Dialect) CollationDefinition(c schema.Collation) string {
	if c.IsCaseSensitive() {
		return "COLLATE BINARY"
	}
	return "COLLATE NOCASE"
}

func (d *Dialect) AutoIncrementKeyword() string {
	return "AUTOINCREMENT"
}

func (d *Dialect) AllowsRequiredNullDefault() bool {
	return true
}

func (d *Dialect) DropIndexSQL(idx schema.Index) string {
	return "DROP INDEX IF EXISTS " + d.QuoteIdentifier(idx.Name())
}

func (d *Dialect) SupportsTemporaryTrigger() bool {
	return true
}

func (d *Dialect) Introspecter() dialect.Introspecter {
	return &introspecter{d: d}
}
