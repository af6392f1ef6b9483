package expression

import (
	"strconv"
	"strings"
)

// SelectStatement describes a SELECT over one entity, with optional joins and filter.
type SelectStatement struct {
	entity Entity
	fields []SelectField
	joins  []JoinClause
	filter Filter
}

// NewSelectStatement returns a statement selecting from entity.
func NewSelectStatement(entity Entity) *SelectStatement {
	return &SelectStatement{entity: entity}
}

func (s *SelectStatement) SetEntity(entity Entity) {
	s.entity = entity
}

func (s *SelectStatement) Entity() Entity {
	return s.entity
}

// AddField appends a field to the select list.
func (s *SelectStatement) AddField(f Field) {
	s.fields = append(s.fields, Select(f))
}

// AddSelectField appends any select item.
func (s *SelectStatement) AddSelectField(f SelectField) {
	s.fields = append(s.fields, f)
}

// AddAllFields appends * to the select list.
func (s *SelectStatement) AddAllFields() {
	s.fields = append(s.fields, All())
}

func (s *SelectStatement) Fields() []SelectField {
	return s.fields
}

// Join adds a JOIN clause.
func (s *SelectStatement) Join(entity Entity, on Filter) {
	s.joins = append(s.joins, NewJoinClause(Join, entity, on))
}

// LeftJoin adds a LEFT JOIN clause.
func (s *SelectStatement) LeftJoin(entity Entity, on Filter) {
	s.joins = append(s.joins, NewJoinClause(LeftJoin, entity, on))
}

// AddJoinClause appends a prebuilt join clause.
func (s *SelectStatement) AddJoinClause(j JoinClause) {
	s.joins = append(s.joins, j)
}

func (s *SelectStatement) JoinClauses() []JoinClause {
	return s.joins
}

// SetFilter sets the WHERE condition. A nil filter selects every row.
func (s *SelectStatement) SetFilter(f Filter) {
	s.filter = f
}

func (s *SelectStatement) Filter() Filter {
	return s.filter
}

// IsNull reports if there is no entity to select from.
func (s *SelectStatement) IsNull() bool {
	return s.entity.IsNull()
}

// Clear resets s to its zero state.
func (s *SelectStatement) Clear() {
	*s = SelectStatement{}
}

// SQL renders the statement. A negative maxRows means no LIMIT clause.
func (s *SelectStatement) SQL(q Quoter, maxRows int) string {
	var sb strings.Builder

	sb.WriteString("SELECT\n")
	sb.WriteString(SelectFieldListSQL(s.fields, q))
	sb.WriteString("\n")
	sb.WriteString(FromClauseSQL(s.entity, s.joins, q))
	if s.filter != nil {
		sb.WriteString("\nWHERE ")
		sb.WriteString(s.filter.SQL(q))
	}
	if maxRows >= 0 {
		sb.WriteString("\nLIMIT ")
		sb.WriteString(strconv.Itoa(maxRows))
	}

	return sb.String()
}

// FromClauseSQL renders FROM with its join clauses, each join on its own lines.
func FromClauseSQL(entity Entity, joins []JoinClause, q Quoter) string {
	var sb strings.Builder
	sb.WriteString("FROM ")
	sb.WriteString(entity.SQL(q))
	for _, j := range joins {
		sb.WriteString("\n")
		sb.WriteString(j.SQL(q))
	}
	return sb.String()
}
