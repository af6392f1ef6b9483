// Package dialect turns the schema model into SQL text. The Generator renders
// everything that is common to all dialects; a Dialect only supplies quoting,
// collations and the few clauses that differ between database engines.
package dialect

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"strings"
	"sync"

	"mdtsql/internal/expression"
	"mdtsql/internal/schema"
)

type Type string

const (
	SQLite Type = "sqlite"
	MySQL  Type = "mysql"
)

// SupportedTypes returns every dialect known at build time.
func SupportedTypes() []Type {
	return []Type{SQLite, MySQL}
}

// ParseType accepts a dialect name or a database/sql driver name, ignoring case.
func ParseType(name string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sqlite", "sqlite3", "qsqlite":
		return SQLite, nil
	case "mysql", "mariadb", "qmysql":
		return MySQL, nil
	}
	return "", fmt.Errorf("unsupported dialect %q; supported dialects: %v", name, SupportedTypes())
}

// Dialect supplies the dialect specific parts of the generated SQL.
type Dialect interface {
	expression.Quoter
	Name() Type
	// FieldTypeDefinition renders the type of f, with its length when relevant.
	FieldTypeDefinition(f schema.Field) string
	CollationDefinition(c schema.Collation) string
	AutoIncrementKeyword() string
	// AllowsRequiredNullDefault reports if DEFAULT NULL may follow NOT NULL.
	AllowsRequiredNullDefault() bool
	DropIndexSQL(idx schema.Index) string
	SupportsTemporaryTrigger() bool
	Introspecter() Introspecter
}

// Validator is implemented by dialects able to check generated SQL without a database.
type Validator interface {
	ValidateSQL(sql string) error
}

// Introspecter reads the structure of an existing table back into the schema model.
// FieldList returns columns whose type is outside the model with UnknownType.
type Introspecter interface {
	FieldList(ctx context.Context, db *sql.DB, table string) (schema.FieldList, error)
	IndexList(ctx context.Context, db *sql.DB, table string) ([]schema.Index, error)
	PrimaryKey(ctx context.Context, db *sql.DB, table string) (schema.PrimaryKeyContainer, error)
	ForeignKeyList(ctx context.Context, db *sql.DB, table string) ([]schema.ForeignKey, error)
}

var (
	registry = make(map[Type]func() Dialect)
	mu       sync.RWMutex
)

// RegisterDialect creates a new registry entry for the specified dialect.
func RegisterDialect(t Type, ctor func() Dialect) {
	mu.Lock()
	defer mu.Unlock()
	registry[t] = ctor
}

// GetDialect returns the dialect registered for t.
func GetDialect(t Type) (Dialect, error) {
	mu.RLock()
	ctor, ok := registry[t]
	mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("dialect %q is not registered", t)
	}
	return ctor(), nil
}

// RegisteredTypes returns the registered dialects, sorted.
func RegisteredTypes() []Type {
	mu.RLock()
	defer mu.RUnlock()
	out := make([]Type, 0, len(registry))
	for t := range registry {
		out = append(out, t)
	}
	slices.Sort(out)
	return out
}
