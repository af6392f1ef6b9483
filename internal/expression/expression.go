// Package expression models the parts of a query that are independent of any
// connection: entities, fields, filter expressions, join clauses and select
// statements. Rendering to SQL goes through a Quoter, which is implemented by
// every dialect.
package expression

import (
	"strings"
)

// Quoter quotes identifiers and string literals for one SQL dialect.
type Quoter interface {
	QuoteIdentifier(name string) string
	QuoteString(value string) string
}

// Entity is a table or a view, optionally aliased.
type Entity struct {
	Name  string
	Alias string
}

// NewEntity returns an entity without alias.
func NewEntity(name string) Entity {
	return Entity{Name: name}
}

// As returns a copy of e with alias set.
func (e Entity) As(alias string) Entity {
	e.Alias = alias
	return e
}

// IsNull reports if the entity has no name.
func (e Entity) IsNull() bool {
	return strings.TrimSpace(e.Name) == ""
}

// Qualifier returns the name used to qualify fields: the alias when set, else the name.
func (e Entity) Qualifier() string {
	if e.Alias != "" {
		return e.Alias
	}
	return e.Name
}

// Field returns a field qualified by this entity.
func (e Entity) Field(name string) Field {
	return Field{qualifier: e.Qualifier(), name: name}
}

// SQL renders the entity as it appears in FROM and JOIN: "name" or "name" "alias".
func (e Entity) SQL(q Quoter) string {
	if e.Alias == "" {
		return q.QuoteIdentifier(e.Name)
	}
	return q.QuoteIdentifier(e.Name) + " " + q.QuoteIdentifier(e.Alias)
}

// Field is a column reference, optionally qualified by an entity and aliased.
type Field struct {
	qualifier string
	name      string
	alias     string
}

// F returns an unqualified field.
func F(name string) Field {
	return Field{name: name}
}

// As returns a copy of f with alias set. The alias is only used in select lists.
func (f Field) As(alias string) Field {
	f.alias = alias
	return f
}

func (f Field) Name() string { return f.name }
func (f Field) Qualifier() string { return f.qualifier }
func (f Field) Alias() string { return f.alias }

// SQL renders the field reference without its alias.
func (f Field) SQL(q Quoter) string {
	if f.qualifier == "" {
		return q.QuoteIdentifier(f.name)
	}
	return q.QuoteIdentifier(f.qualifier) + "." + q.QuoteIdentifier(f.name)
}

type selectFieldKind int

const (
	selectAll selectFieldKind = iota
	selectAllOf
	selectField
	selectRaw
)

// SelectField is one item of a select list.
type SelectField struct {
	kind   selectFieldKind
	entity Entity
	field  Field
	raw    string
}

// All selects every field (*).
func All() SelectField {
	return SelectField{kind: selectAll}
}

// AllOf selects every field of entity ("T".*).
func AllOf(entity Entity) SelectField {
	return SelectField{kind: selectAllOf, entity: entity}
}

// Select selects one field.
func Select(f Field) SelectField {
	return SelectField{kind: selectField, field: f}
}

// Raw selects a verbatim SQL expression.
func Raw(sql string) SelectField {
	return SelectField{kind: selectRaw, raw: sql}
}

// SQL renders the select item.
func (s SelectField) SQL(q Quoter) string {
	switch s.kind {
	case selectAllOf:
		return q.QuoteIdentifier(s.entity.Qualifier()) + ".*"
	case selectField:
		out := s.field.SQL(q)
		if s.field.alias != "" {
			out += " AS " + q.QuoteIdentifier(s.field.alias)
		}
		return out
	case selectRaw:
		return s.raw
	case selectAll:
		return "*"
	}
	return "*"
}

// SelectFieldListSQL renders a select list, one item per line, each indented by one space.
func SelectFieldListSQL(fields []SelectField, q Quoter) string {
	if len(fields) == 0 {
		return " *"
	}
	items := make([]string, 0, len(fields))
	for _, f := range fields {
		items = append(items, " "+f.SQL(q))
	}
	return strings.Join(items, ",\n")
}
