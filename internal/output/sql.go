package output

import (
	"fmt"
	"strings"
)

type sqlFormatter struct{}

// FormatScript formats a script as SQL, one statement per paragraph.
func (sqlFormatter) FormatScript(sc *Script) (string, error) {
	if sc == nil {
		return "", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "-- mdtsql %s script for %s\n", sc.Operation, sc.Dialect)
	stmts := normalizeStatements(sc.Statements)
	if len(stmts) == 0 {
		sb.WriteString("-- nothing to do\n")
		return sb.String(), nil
	}
	writeStatements(&sb, stmts)
	return sb.String(), nil
}

// FormatTable formats a table report as the statements recreating the table.
func (sqlFormatter) FormatTable(r *TableReport) (string, error) {
	if r == nil || r.Table == nil {
		return "", nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "-- table %s read from %s\n", r.Table.TableName(), r.Dialect)
	writeStatements(&sb, normalizeStatements(r.Statements))
	return sb.String(), nil
}

func writeStatements(sb *strings.Builder, stmts []string) {
	for i, stmt := range stmts {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(stmt)
		sb.WriteString("\n")
	}
}
