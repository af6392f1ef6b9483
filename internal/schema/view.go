package schema

import (
	"strings"

	"mdtsql/internal/expression"
)

// View is a named select statement over a base table and optional joins.
type View struct {
	name string
	stmt expression.SelectStatement
}

// NewView returns a view named name selecting from table.
func NewView(name string, table expression.Entity) *View {
	v := &View{}
	v.SetName(name)
	v.SetTable(table)
	return v
}

// SetName panics on an empty name.
func (v *View) SetName(name string) {
	if strings.TrimSpace(name) == "" {
		panic("schema: view name must not be empty")
	}
	v.name = name
}

func (v *View) Name() string {
	return v.name
}

// SetTable sets the base table.
func (v *View) SetTable(table expression.Entity) {
	v.stmt.SetEntity(table)
}

func (v *View) Table() expression.Entity {
	return v.stmt.Entity()
}

// AddSelectField selects fieldName of table, aliased when alias is not empty.
func (v *View) AddSelectField(table expression.Entity, fieldName, alias string) {
	f := table.Field(fieldName)
	if alias != "" {
		f = f.As(alias)
	}
	v.stmt.AddField(f)
}

// AddSelectAllFields selects table.*.
func (v *View) AddSelectAllFields(table expression.Entity) {
	v.stmt.AddSelectField(expression.AllOf(table))
}

// AddJoinClause appends a join clause.
func (v *View) AddJoinClause(j expression.JoinClause) {
	v.stmt.AddJoinClause(j)
}

func (v *View) JoinClauses() []expression.JoinClause {
	return v.stmt.JoinClauses()
}

// SetFilter restricts the rows of the view.
func (v *View) SetFilter(f expression.Filter) {
	v.stmt.SetFilter(f)
}

// SelectStatement returns the statement the view is defined by.
func (v *View) SelectStatement() *expression.SelectStatement {
	return &v.stmt
}

// IsNull reports if the view has no name or no base table.
func (v *View) IsNull() bool {
	return v == nil || v.name == "" || v.stmt.IsNull()
}

func (v *View) Clear() {
	*v = View{}
}
