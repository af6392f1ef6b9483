// Package output renders the results of the mdtsql commands: schema scripts
// and reverse engineered tables. It provides three formats: SQL, JSON and a
// compact summary.
package output

import (
	"fmt"
	"strings"

	"mdtsql/internal/dialect"
	"mdtsql/internal/schema"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatSQL     Format = "sql"
	FormatJSON    Format = "json"
	FormatSummary Format = "summary"
)

// Formatter formats schema scripts and table reports.
type Formatter interface {
	FormatScript(*Script) (string, error)
	FormatTable(*TableReport) (string, error)
}

// NewFormatter creates a new Formatter instance based on the given name.
// If no format is specified, defaults to SQL format.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatSQL:
		return sqlFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	case FormatSummary:
		return summaryFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'sql', 'json', or 'summary'", name)
	}
}

// Operation tells what a script does to the database.
type Operation string

const (
	OperationCreate Operation = "create"
	OperationDrop   Operation = "drop"
)

// Script is the ordered list of statements creating or dropping a schema.
type Script struct {
	Operation   Operation
	Dialect     dialect.Type
	Statements  []string
	Tables      int
	Views       int
	Triggers    int
	Populations int
	Rows        int
}

// NewCreateScript collects the statements creating s.
func NewCreateScript(g *dialect.Generator, s *schema.Schema) *Script {
	sc := newScript(OperationCreate, g, s)
	sc.Statements = g.CreateSchemaStatements(s)
	sc.Triggers = len(s.Triggers())
	sc.Populations = len(s.TablePopulations())
	for _, p := range s.TablePopulations() {
		sc.Rows += p.RowCount()
	}
	return sc
}

// NewDropScript collects the statements dropping s. Triggers go away with
// their table and populations with their rows, so only tables and views count.
func NewDropScript(g *dialect.Generator, s *schema.Schema) *Script {
	sc := newScript(OperationDrop, g, s)
	sc.Statements = g.DropSchemaStatements(s)
	return sc
}

func newScript(op Operation, g *dialect.Generator, s *schema.Schema) *Script {
	return &Script{
		Operation: op,
		Dialect:   g.Dialect().Name(),
		Tables:    s.TableCount(),
		Views:     s.ViewCount(),
	}
}

// TableReport is a table read back from a database with the statements
// recreating it.
type TableReport struct {
	Dialect    dialect.Type
	Table      *schema.Table
	Statements []string
}

func NewTableReport(g *dialect.Generator, t *schema.Table) *TableReport {
	stmts := []string{strings.TrimSuffix(strings.TrimSpace(g.SQLToCreateTable(t)), ";")}
	for _, idx := range dialect.TableIndexes(t) {
		stmts = append(stmts, g.SQLToCreateIndex(idx))
	}
	return &TableReport{Dialect: g.Dialect().Name(), Table: t, Statements: stmts}
}

func normalizeStatements(stmts []string) []string {
	var out []string
	for _, stmt := range stmts {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if !strings.HasSuffix(stmt, ";") {
			stmt += ";"
		}
		out = append(out, stmt)
	}
	return out
}
