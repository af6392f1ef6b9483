package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"mdtsql/internal/dialect"
	"mdtsql/internal/schema"
)

// introspecter reads table structures through PRAGMA statements. Every result set
// is closed before the next query is issued since connections are used one at a
// time.
type introspecter struct {
	d *Dialect
}

type columnInfo struct {
	name    string
	typ     string
	notNull bool
	dflt    sql.NullString
	pk      int
}

func (i *introspecter) tableInfo(ctx context.Context, db *sql.DB, table string) ([]columnInfo, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA table_info("+i.d.QuoteIdentifier(table)+")")
	if err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", table, err)
	}
	defer rows.Close()

	var cols []columnInfo
	for rows.Next() {
		var (
			cid     int
			notNull int
			c       columnInfo
		)
		if err := rows.Scan(&cid, &c.name, &c.typ, &notNull, &c.dflt, &c.pk); err != nil {
			return nil, fmt.Errorf("reading columns of %q: %w", table, err)
		}
		c.notNull = notNull != 0
		cols = append(cols, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", table, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return cols, nil
}

func (i *introspecter) FieldList(ctx context.Context, db *sql.DB, table string) (schema.FieldList, error) {
	cols, err := i.tableInfo(ctx, db, table)
	if err != nil {
		return nil, err
	}
	uniques, err := i.uniqueColumns(ctx, db, table)
	if err != nil {
		return nil, err
	}
	ddl, err := i.tableDDL(ctx, db, table)
	if err != nil {
		return nil, err
	}
	collations := columnCollations(ddl)

	fields := make(schema.FieldList, 0, len(cols))
	for _, c := range cols {
		typ := dialect.FieldTypeFromString(c.typ)
		f := schema.NewField(c.name, typ)
		if l := dialect.FieldLengthFromString(c.typ); l.Kind == dialect.LengthValue && typ == schema.Varchar {
			f.SetLength(l.Value)
		}
		f.SetUnsigned(strings.Contains(strings.ToUpper(c.typ), "UNSIGNED"))
		f.SetRequired(c.notNull)
		f.SetUnique(uniques[strings.ToLower(c.name)])
		f.SetDefaultValue(dialect.TypedDefault(typ, parseDefault(c.dflt)))
		f.SetCollation(collations[strings.ToLower(c.name)])
		fields = append(fields, f)
	}
	return fields, nil
}

// parseDefault converts the dflt_value column of table_info, which holds the
// default as written in the CREATE TABLE statement.
func parseDefault(v sql.NullString) any {
	if !v.Valid || strings.EqualFold(v.String, "NULL") {
		return nil
	}
	s := v.String
	if len(s) >= 2 {
		switch q := s[0]; q {
		case '\'', '"':
			if s[len(s)-1] == q {
				return strings.ReplaceAll(s[1:len(s)-1], string([]byte{q, q}), string(q))
			}
		}
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

type indexEntry struct {
	name   string
	unique bool
	origin string
}

func (i *introspecter) indexEntries(ctx context.Context, db *sql.DB, table string) ([]indexEntry, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA index_list("+i.d.QuoteIdentifier(table)+")")
	if err != nil {
		return nil, fmt.Errorf("reading indexes of %q: %w", table, err)
	}
	defer rows.Close()

	var out []indexEntry
	for rows.Next() {
		var (
			seq, unique, partial int
			e                    indexEntry
		)
		if err := rows.Scan(&seq, &e.name, &unique, &e.origin, &partial); err != nil {
			return nil, fmt.Errorf("reading indexes of %q: %w", table, err)
		}
		e.unique = unique != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

func (i *introspecter) indexColumns(ctx context.Context, db *sql.DB, index string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA index_info("+i.d.QuoteIdentifier(index)+")")
	if err != nil {
		return nil, fmt.Errorf("reading columns of index %q: %w", index, err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var (
			seqno, cid int
			name       sql.NullString
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("reading columns of index %q: %w", index, err)
		}
		names = append(names, name.String)
	}
	return names, rows.Err()
}

// uniqueColumns returns the lower cased names of the columns declared UNIQUE on
// their own.
func (i *introspecter) uniqueColumns(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	entries, err := i.indexEntries(ctx, db, table)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool)
	for _, e := range entries {
		if e.origin != "u" {
			continue
		}
		cols, err := i.indexColumns(ctx, db, e.name)
		if err != nil {
			return nil, err
		}
		if len(cols) == 1 {
			out[strings.ToLower(cols[0])] = true
		}
	}
	return out, nil
}

// IndexList returns the indexes created with CREATE INDEX, leaving out the ones
// SQLite creates for UNIQUE and PRIMARY KEY constraints.
func (i *introspecter) IndexList(ctx context.Context, db *sql.DB, table string) ([]schema.Index, error) {
	entries, err := i.indexEntries(ctx, db, table)
	if err != nil {
		return nil, err
	}

	var out []schema.Index
	for _, e := range entries {
		if e.origin != "c" {
			continue
		}
		cols, err := i.indexColumns(ctx, db, e.name)
		if err != nil {
			return nil, err
		}
		idx := schema.NewIndex(table, e.unique, cols...)
		idx.SetName(e.name)
		out = append(out, idx)
	}
	return out, nil
}

func (i *introspecter) PrimaryKey(ctx context.Context, db *sql.DB, table string) (schema.PrimaryKeyContainer, error) {
	cols, err := i.tableInfo(ctx, db, table)
	if err != nil {
		return schema.PrimaryKeyContainer{}, err
	}

	names := make([]string, 0, 1)
	for pos := 1; ; pos++ {
		found := false
		for _, c := range cols {
			if c.pk == pos {
				names = append(names, c.name)
				found = true
			}
		}
		if !found {
			break
		}
	}
	if len(names) == 0 {
		return schema.PrimaryKeyContainer{}, nil
	}

	if len(names) == 1 {
		auto, err := i.hasAutoIncrement(ctx, db, table)
		if err != nil {
			return schema.PrimaryKeyContainer{}, err
		}
		if auto {
			return schema.AutoIncrementContainer(schema.NewAutoIncrementPrimaryKey(names[0])), nil
		}
	}
	return schema.CompositeContainer(schema.NewPrimaryKey(names...)), nil
}

func (i *introspecter) hasAutoIncrement(ctx context.Context, db *sql.DB, table string) (bool, error) {
	ddl, err := i.tableDDL(ctx, db, table)
	if err != nil {
		return false, err
	}
	return strings.Contains(strings.ToUpper(ddl), "AUTOINCREMENT"), nil
}

// tableDDL returns the CREATE TABLE statement stored by SQLite for table.
func (i *introspecter) tableDDL(ctx context.Context, db *sql.DB, table string) (string, error) {
	var ddl sql.NullString
	err := db.QueryRowContext(ctx, `
		SELECT sql FROM sqlite_master WHERE type = 'table' AND name = ?
		UNION ALL
		SELECT sql FROM sqlite_temp_master WHERE type = 'table' AND name = ?
	`, table, table).Scan(&ddl)
	if err != nil {
		return "", fmt.Errorf("reading definition of %q: %w", table, err)
	}
	return ddl.String, nil
}

// columnCollations finds the COLLATE clause of each column definition of a
// CREATE TABLE statement. PRAGMA table_info does not report collations.
func columnCollations(ddl string) map[string]schema.Collation {
	out := make(map[string]schema.Collation)
	open := strings.IndexByte(ddl, '(')
	end := strings.LastIndexByte(ddl, ')')
	if open < 0 || end <= open {
		return out
	}
	for _, item := range splitTopLevel(ddl[open+1 : end]) {
		words := strings.Fields(item)
		if len(words) < 2 {
			continue
		}
		name := strings.Trim(words[0], "\"`[]")
		for k := 1; k+1 < len(words); k++ {
			if !strings.EqualFold(words[k], "COLLATE") {
				continue
			}
			switch strings.ToUpper(strings.Trim(words[k+1], "\"`")) {
			case "BINARY":
				out[strings.ToLower(name)] = schema.NewCollation(true)
			case "NOCASE":
				out[strings.ToLower(name)] = schema.NewCollation(false)
			}
		}
	}
	return out
}

// splitTopLevel splits a column definition list on the commas outside parentheses
// and quotes.
func splitTopLevel(s string) []string {
	var (
		out   []string
		depth int
		quote rune
		start int
	)
	for pos, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'' || r == '`':
			quote = r
		case r == '(':
			depth++
		case r == ')':
			depth--
		case r == ',' && depth == 0:
			out = append(out, s[start:pos])
			start = pos + 1
		}
	}
	return append(out, s[start:])
}

// ForeignKeyList returns the foreign keys in the order SQLite reports them, which
// is the reverse of the declaration order.
func (i *introspecter) ForeignKeyList(ctx context.Context, db *sql.DB, table string) ([]schema.ForeignKey, error) {
	rows, err := db.QueryContext(ctx, "PRAGMA foreign_key_list("+i.d.QuoteIdentifier(table)+")")
	if err != nil {
		return nil, fmt.Errorf("reading foreign keys of %q: %w", table, err)
	}
	defer rows.Close()

	type pending struct {
		parent           string
		child, parentCol []string
		onDelete         string
		onUpdate         string
	}
	var (
		order []int
		byID  = make(map[int]*pending)
	)
	for rows.Next() {
		var (
			id, seq                          int
			parent, from, onUpdate, onDelete string
			to, match                        sql.NullString
		)
		if err := rows.Scan(&id, &seq, &parent, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, fmt.Errorf("reading foreign keys of %q: %w", table, err)
		}
		if !to.Valid || to.String == "" {
			return nil, fmt.Errorf("foreign key %d of %q does not name its parent columns", id, table)
		}
		p, ok := byID[id]
		if !ok {
			p = &pending{parent: parent, onDelete: onDelete, onUpdate: onUpdate}
			byID[id] = p
			order = append(order, id)
		}
		p.child = append(p.child, from)
		p.parentCol = append(p.parentCol, to.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading foreign keys of %q: %w", table, err)
	}

	out := make([]schema.ForeignKey, 0, len(order))
	for _, id := range order {
		p := byID[id]
		onDelete, err := schema.ActionFromString(p.onDelete)
		if err != nil {
			return nil, err
		}
		onUpdate, err := schema.ActionFromString(p.onUpdate)
		if err != nil {
			return nil, err
		}
		out = append(out, schema.NewForeignKey(table, p.parent, p.child, p.parentCol,
			schema.ForeignKeySettings{OnDelete: onDelete, OnUpdate: onUpdate}))
	}
	return out, nil
}
