package mysql

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/ast"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"mdtsql/internal/schema"
)

// tableDefinition is the parsed form of one CREATE TABLE statement.
type tableDefinition struct {
	stmt *ast.CreateTableStmt
}

func parseCreateTable(ddl string) (*tableDefinition, error) {
	stmtNodes, _, err := parser.New().Parse(ddl, "", "")
	if err != nil {
		return nil, fmt.Errorf("failed to parse table definition: %w", err)
	}
	for _, node := range stmtNodes {
		if stmt, ok := node.(*ast.CreateTableStmt); ok {
			return &tableDefinition{stmt: stmt}, nil
		}
	}
	return nil, errors.New("no CREATE TABLE statement found")
}

func (t *tableDefinition) name() string {
	return t.stmt.Table.Name.O
}

// primaryKey reads the key from the PRIMARY KEY constraint or from a column
// option. A single AUTO_INCREMENT column gives an auto increment key.
func (t *tableDefinition) primaryKey() schema.PrimaryKeyContainer {
	var names []string
	autoIncrement := make(map[string]bool)

	for _, colDef := range t.stmt.Cols {
		col := colDef.Name.Name.O
		for _, opt := range colDef.Options {
			switch opt.Tp {
			case ast.ColumnOptionPrimaryKey:
				names = append(names, col)
			case ast.ColumnOptionAutoIncrement:
				autoIncrement[strings.ToLower(col)] = true
			default:
			}
		}
	}
	for _, constraint := range t.stmt.Constraints {
		if constraint.Tp != ast.ConstraintPrimaryKey {
			continue
		}
		for _, key := range constraint.Keys {
			if key.Column != nil {
				names = append(names, key.Column.Name.O)
			}
		}
	}

	switch {
	case len(names) == 0:
		return schema.PrimaryKeyContainer{}
	case len(names) == 1 && autoIncrement[strings.ToLower(names[0])]:
		return schema.AutoIncrementContainer(schema.NewAutoIncrementPrimaryKey(names[0]))
	}
	return schema.CompositeContainer(schema.NewPrimaryKey(names...))
}

// foreignKeys returns the foreign keys in the order of the statement.
func (t *tableDefinition) foreignKeys() ([]schema.ForeignKey, error) {
	var out []schema.ForeignKey
	for _, constraint := range t.stmt.Constraints {
		if constraint.Tp != ast.ConstraintForeignKey || constraint.Refer == nil {
			continue
		}
		columns := make([]string, 0, len(constraint.Keys))
		for _, key := range constraint.Keys {
			if key.Column != nil {
				columns = append(columns, key.Column.Name.O)
			}
		}
		refCols := make([]string, 0, len(constraint.Refer.IndexPartSpecifications))
		for _, spec := range constraint.Refer.IndexPartSpecifications {
			if spec.Column != nil {
				refCols = append(refCols, spec.Column.Name.O)
			}
		}

		var settings schema.ForeignKeySettings
		if constraint.Refer.OnDelete != nil {
			action, err := schema.ActionFromString(constraint.Refer.OnDelete.ReferOpt.String())
			if err != nil {
				return nil, err
			}
			settings.OnDelete = action
		}
		if constraint.Refer.OnUpdate != nil {
			action, err := schema.ActionFromString(constraint.Refer.OnUpdate.ReferOpt.String())
			if err != nil {
				return nil, err
			}
			settings.OnUpdate = action
		}
		if len(columns) == 0 || len(columns) != len(refCols) {
			return nil, fmt.Errorf("foreign key %q of %q has mismatched columns", constraint.Name, t.name())
		}
		out = append(out, schema.NewForeignKey(t.name(), constraint.Refer.Table.Name.O, columns, refCols, settings))
	}
	return out, nil
}

// ValidateSQL parses sql with the MySQL grammar without executing it. The grammar
// has no trigger statements, so trigger definitions cannot be validated.
func (d *Dialect) ValidateSQL(sql string) error {
	if _, _, err := parser.New().Parse(sql, "", ""); err != nil {
		return fmt.Errorf("invalid MySQL: %w", err)
	}
	return nil
}
