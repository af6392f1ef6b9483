package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"mdtsql/internal/dialect"
	"mdtsql/internal/schema"
)

type introspecter struct {
	d *Dialect
}

func (i *introspecter) FieldList(ctx context.Context, db *sql.DB, table string) (schema.FieldList, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT
			c.column_name,
			c.column_type,
			c.is_nullable,
			c.column_default,
			c.collation_name,
			c.column_key
		FROM information_schema.columns c
		WHERE c.table_schema = DATABASE() AND c.table_name = ?
		ORDER BY c.ordinal_position
	`, table)
	if err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", table, err)
	}
	defer rows.Close()

	var fields schema.FieldList
	for rows.Next() {
		var name, colType, nullable, defaultVal, collation, colKey sql.NullString
		if err := rows.Scan(&name, &colType, &nullable, &defaultVal, &collation, &colKey); err != nil {
			return nil, fmt.Errorf("reading columns of %q: %w", table, err)
		}

		typ := fieldTypeFromColumnType(colType.String)
		f := schema.NewField(name.String, typ)
		if l := dialect.FieldLengthFromString(colType.String); l.Kind == dialect.LengthValue && typ == schema.Varchar {
			f.SetLength(l.Value)
		}
		f.SetUnsigned(strings.Contains(strings.ToLower(colType.String), "unsigned"))
		f.SetRequired(nullable.String == "NO")
		f.SetUnique(colKey.String == "UNI")
		f.SetDefaultValue(dialect.TypedDefault(typ, parseDefault(defaultVal)))
		if typ == schema.Varchar {
			f.SetCollation(collationFromName(collation.String))
		}
		fields = append(fields, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading columns of %q: %w", table, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("table %q not found", table)
	}
	return fields, nil
}

// fieldTypeFromColumnType maps tinyint(1), what BOOLEAN becomes, before the
// generic parsing.
func fieldTypeFromColumnType(colType string) schema.FieldType {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(colType)), "tinyint(1)") {
		return schema.Boolean
	}
	return dialect.FieldTypeFromString(colType)
}

// parseDefault converts information_schema.columns.column_default, which holds
// text defaults unquoted.
func parseDefault(v sql.NullString) any {
	if !v.Valid || v.String == "NULL" {
		return nil
	}
	if n, err := strconv.ParseInt(v.String, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(v.String, 64); err == nil {
		return f
	}
	return v.String
}

// IndexList returns the secondary indexes of table. The primary key, the indexes
// backing foreign keys and the ones MySQL creates for UNIQUE columns, named after
// their column, are left out.
func (i *introspecter) IndexList(ctx context.Context, db *sql.DB, table string) ([]schema.Index, error) {
	fkNames, err := i.foreignKeyNames(ctx, db, table)
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT
			i.index_name,
			i.non_unique,
			GROUP_CONCAT(i.column_name ORDER BY i.seq_in_index SEPARATOR ',')
		FROM information_schema.statistics i
		WHERE i.table_schema = DATABASE() AND i.table_name = ?
		GROUP BY i.index_name, i.non_unique
		ORDER BY i.index_name
	`, table)
	if err != nil {
		return nil, fmt.Errorf("reading indexes of %q: %w", table, err)
	}
	defer rows.Close()

	var out []schema.Index
	for rows.Next() {
		var (
			indexName, columns sql.NullString
			nonUnique          int
		)
		if err := rows.Scan(&indexName, &nonUnique, &columns); err != nil {
			return nil, fmt.Errorf("reading indexes of %q: %w", table, err)
		}
		cols := strings.Split(columns.String, ",")
		switch {
		case indexName.String == "PRIMARY":
			continue
		case fkNames[indexName.String]:
			continue
		case nonUnique == 0 && len(cols) == 1 && strings.EqualFold(cols[0], indexName.String):
			continue
		}
		idx := schema.NewIndex(table, nonUnique == 0, cols...)
		idx.SetName(indexName.String)
		out = append(out, idx)
	}
	return out, rows.Err()
}

func (i *introspecter) foreignKeyNames(ctx context.Context, db *sql.DB, table string) (map[string]bool, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT constraint_name
		FROM information_schema.table_constraints
		WHERE table_schema = DATABASE() AND table_name = ? AND constraint_type = 'FOREIGN KEY'
	`, table)
	if err != nil {
		return nil, fmt.Errorf("reading constraints of %q: %w", table, err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("reading constraints of %q: %w", table, err)
		}
		out[name] = true
	}
	return out, rows.Err()
}

func (i *introspecter) PrimaryKey(ctx context.Context, db *sql.DB, table string) (schema.PrimaryKeyContainer, error) {
	def, err := i.showCreateTable(ctx, db, table)
	if err != nil {
		return schema.PrimaryKeyContainer{}, err
	}
	return def.primaryKey(), nil
}

func (i *introspecter) ForeignKeyList(ctx context.Context, db *sql.DB, table string) ([]schema.ForeignKey, error) {
	def, err := i.showCreateTable(ctx, db, table)
	if err != nil {
		return nil, err
	}
	return def.foreignKeys()
}

func (i *introspecter) showCreateTable(ctx context.Context, db *sql.DB, table string) (*tableDefinition, error) {
	var name, ddl string
	err := db.QueryRowContext(ctx, "SHOW CREATE TABLE "+i.d.QuoteIdentifier(table)).Scan(&name, &ddl)
	if err != nil {
		return nil, fmt.Errorf("reading definition of %q: %w", table, err)
	}
	return parseCreateTable(ddl)
}
