package schema

import (
	"fmt"
	"strings"
)

// TablePopulation is a named set of rows inserted into a table when the schema is created.
type TablePopulation struct {
	name       string
	tableName  string
	fieldNames []string
	rows       [][]any
}

// NewTablePopulation returns an empty population of tableName.
func NewTablePopulation(name, tableName string) *TablePopulation {
	return &TablePopulation{name: name, tableName: tableName}
}

// SetName sets the display name.
func (p *TablePopulation) SetName(name string) {
	p.name = name
}

func (p *TablePopulation) Name() string {
	return p.name
}

func (p *TablePopulation) SetTableName(name string) {
	p.tableName = name
}

func (p *TablePopulation) TableName() string {
	return p.tableName
}

// AddFieldName appends a field name. It panics once a row was added or on an empty name.
func (p *TablePopulation) AddFieldName(name string) {
	if len(p.rows) > 0 {
		panic(fmt.Sprintf("schema: population %q: cannot add field %q after rows", p.name, name))
	}
	if strings.TrimSpace(name) == "" {
		panic("schema: population field name must not be empty")
	}
	p.fieldNames = append(p.fieldNames, name)
}

// AddField appends the name of f.
func (p *TablePopulation) AddField(f Field) {
	p.AddFieldName(f.Name())
}

// AddRow appends a row. It panics if the value count differs from the field count.
func (p *TablePopulation) AddRow(values ...any) {
	if len(values) != len(p.fieldNames) {
		panic(fmt.Sprintf("schema: population %q: row has %d values for %d fields", p.name, len(values), len(p.fieldNames)))
	}
	p.rows = append(p.rows, append([]any(nil), values...))
}

func (p *TablePopulation) FieldNames() []string {
	return p.fieldNames
}

func (p *TablePopulation) FieldCount() int {
	return len(p.fieldNames)
}

func (p *TablePopulation) Rows() [][]any {
	return p.rows
}

func (p *TablePopulation) RowCount() int {
	return len(p.rows)
}

// Value returns the value at row and column. It panics on an index out of range.
func (p *TablePopulation) Value(row, column int) any {
	return p.rows[row][column]
}

func (p *TablePopulation) IsNull() bool {
	return p == nil || p.tableName == "" || len(p.fieldNames) == 0
}

func (p *TablePopulation) Clear() {
	*p = TablePopulation{}
}
