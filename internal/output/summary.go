package output

import (
	"fmt"
	"strings"
)

type summaryFormatter struct{}

// FormatScript formats a script as a compact summary.
// Example output:
//
//	Create Script Summary (sqlite)
//	==============================
//
//	Tables:      2
//	Views:       1
//	Triggers:    1
//	Populations: 1 (2 rows)
//	Statements:  7
func (summaryFormatter) FormatScript(sc *Script) (string, error) {
	if sc == nil {
		return "Nothing to do.\n", nil
	}

	var sb strings.Builder
	title := fmt.Sprintf("%s Script Summary (%s)", capitalize(string(sc.Operation)), sc.Dialect)
	sb.WriteString(title + "\n")
	sb.WriteString(strings.Repeat("=", len(title)) + "\n\n")

	fmt.Fprintf(&sb, "Tables:      %d\n", sc.Tables)
	fmt.Fprintf(&sb, "Views:       %d\n", sc.Views)
	if sc.Operation == OperationCreate {
		fmt.Fprintf(&sb, "Triggers:    %d\n", sc.Triggers)
		fmt.Fprintf(&sb, "Populations: %d (%d rows)\n", sc.Populations, sc.Rows)
	}
	fmt.Fprintf(&sb, "Statements:  %d\n", len(normalizeStatements(sc.Statements)))
	return sb.String(), nil
}

// FormatTable formats a table report as one line per column followed by keys
// and indexes.
func (summaryFormatter) FormatTable(r *TableReport) (string, error) {
	if r == nil || r.Table == nil {
		return "", nil
	}
	t := r.Table

	var sb strings.Builder
	fmt.Fprintf(&sb, "Table %s (%s)\n", t.TableName(), r.Dialect)
	for _, f := range t.FieldList() {
		var flags []string
		if t.PrimaryKey().Contains(f.Name()) {
			flags = append(flags, "pk")
		}
		if f.IsRequired() {
			flags = append(flags, "required")
		}
		if f.IsUnique() {
			flags = append(flags, "unique")
		}
		typ := strings.ToLower(f.Type().Name())
		if f.HasLength() {
			typ = fmt.Sprintf("%s(%d)", typ, f.Length())
		}
		fmt.Fprintf(&sb, "  %-24s %-14s %s\n", f.Name(), typ, strings.Join(flags, ","))
	}
	fmt.Fprintf(&sb, "Primary key: %s %v\n", t.PrimaryKey().Kind(), t.PrimaryKey().FieldNames())
	for _, fk := range t.ForeignKeyList() {
		fmt.Fprintf(&sb, "Foreign key: %v -> %s%v\n", fk.ChildFieldNames(), fk.ParentTableName(), fk.ParentFieldNames())
	}
	for _, idx := range t.IndexList() {
		fmt.Fprintf(&sb, "Index:       %s %v\n", idx.Name(), idx.FieldNames())
	}
	return sb.String(), nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
