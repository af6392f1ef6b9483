package statement

import (
	"fmt"
	"strings"

	"mdtsql/internal/expression"
)

// SelectStatement is the query expression select statement, consumed by the select query.
type SelectStatement = expression.SelectStatement

type tableStatement struct {
	tableName string
}

// SetTableName panics on an empty name.
func (s *tableStatement) SetTableName(name string) {
	if strings.TrimSpace(name) == "" {
		panic("statement: table name must not be empty")
	}
	s.tableName = name
}

func (s *tableStatement) TableName() string {
	return s.tableName
}

// conditions is either a primary key record or a filter expression, never both.
// Without any, UPDATE and DELETE apply to every row.
type conditions struct {
	record PrimaryKeyRecord
	filter expression.Filter
}

// SetConditions identifies rows by a primary key record, replacing any filter.
func (c *conditions) SetConditions(rec PrimaryKeyRecord) {
	c.record = rec
	c.filter = nil
}

// SetFilter identifies rows by a filter expression, replacing any record.
func (c *conditions) SetFilter(f expression.Filter) {
	c.filter = f
	c.record.Clear()
}

func (c *conditions) HasConditions() bool {
	return c.filter != nil || !c.record.IsNull()
}

// ToConditionsValueList returns the record values to bind, in record order.
func (c *conditions) ToConditionsValueList() []any {
	return c.record.Values()
}

func (c *conditions) preparedWhere(q expression.Quoter) string {
	switch {
	case c.filter != nil:
		return "\nWHERE " + c.filter.SQL(q)
	case !c.record.IsNull():
		return "\nWHERE " + placeholders(c.record.FieldNames(), " AND ", q.QuoteIdentifier)
	}
	return ""
}

func (c *conditions) clear() {
	c.record.Clear()
	c.filter = nil
}

// InsertStatement inserts one row.
type InsertStatement struct {
	tableStatement
	values FieldNameValueMap
}

// NewInsertStatement returns an insert into table.
func NewInsertStatement(table string) *InsertStatement {
	s := &InsertStatement{}
	s.SetTableName(table)
	return s
}

// AddValue panics on an empty or duplicate field name.
func (s *InsertStatement) AddValue(name FieldName, value any) {
	s.values.AddValue(name, value)
}

func (s *InsertStatement) FieldNames() []string {
	return s.values.FieldNames()
}

// ToValueList returns the values to bind, in insertion order.
func (s *InsertStatement) ToValueList() []any {
	return s.values.Values()
}

// ToPrepareStatementSQL renders INSERT INTO "T" ("f1","f2") VALUES (?,?).
func (s *InsertStatement) ToPrepareStatementSQL(q expression.Quoter) string {
	names := s.values.FieldNames()
	quoted := make([]string, 0, len(names))
	marks := make([]string, 0, len(names))
	for _, n := range names {
		quoted = append(quoted, q.QuoteIdentifier(n))
		marks = append(marks, "?")
	}
	return "INSERT INTO " + q.QuoteIdentifier(s.tableName) +
		" (" + strings.Join(quoted, ",") + ") VALUES (" + strings.Join(marks, ",") + ")"
}

func (s *InsertStatement) Clear() {
	*s = InsertStatement{}
}

// UpdateStatement updates the rows matching its conditions.
type UpdateStatement struct {
	tableStatement
	conditions
	values FieldNameValueMap
}

// NewUpdateStatement returns an update of table.
func NewUpdateStatement(table string) *UpdateStatement {
	s := &UpdateStatement{}
	s.SetTableName(table)
	return s
}

// AddValue panics on an empty or duplicate field name.
func (s *UpdateStatement) AddValue(name FieldName, value any) {
	s.values.AddValue(name, value)
}

// ToValueList returns the SET values followed by the record values.
func (s *UpdateStatement) ToValueList() []any {
	return append(s.values.Values(), s.ToConditionsValueList()...)
}

// ToPrepareStatementSQL renders
//
//	UPDATE "T"
//	SET "f1"=?,"f2"=?
//	WHERE "k1"=? AND "k2"=?
//
// The WHERE line is omitted when there is no condition. It panics if no value
// was added.
func (s *UpdateStatement) ToPrepareStatementSQL(q expression.Quoter) string {
	if s.values.IsEmpty() {
		panic(fmt.Sprintf("statement: update of %q has no value to set", s.tableName))
	}
	return "UPDATE " + q.QuoteIdentifier(s.tableName) +
		"\nSET " + placeholders(s.values.FieldNames(), ",", q.QuoteIdentifier) +
		s.preparedWhere(q)
}

func (s *UpdateStatement) Clear() {
	s.tableName = ""
	s.values.Clear()
	s.clear()
}

// DeleteStatement deletes the rows matching its conditions.
type DeleteStatement struct {
	tableStatement
	conditions
}

// NewDeleteStatement returns a delete from table.
func NewDeleteStatement(table string) *DeleteStatement {
	s := &DeleteStatement{}
	s.SetTableName(table)
	return s
}

// ToValueList returns the record values to bind.
func (s *DeleteStatement) ToValueList() []any {
	return s.ToConditionsValueList()
}

// ToPrepareStatementSQL renders DELETE FROM "T" followed by a WHERE line with placeholders.
func (s *DeleteStatement) ToPrepareStatementSQL(q expression.Quoter) string {
	return "DELETE FROM " + q.QuoteIdentifier(s.tableName) + s.preparedWhere(q)
}

// ToSQL renders the statement with literal values. Record conditions use the
// compact (f1=v1)AND(f2=v2) form with unquoted field names, as older generated
// scripts expect.
func (s *DeleteStatement) ToSQL(q expression.Quoter) string {
	sql := "DELETE FROM " + q.QuoteIdentifier(s.tableName)
	switch {
	case s.filter != nil:
		return sql + "\nWHERE " + s.filter.SQL(q)
	case !s.record.IsNull():
		names := s.record.FieldNames()
		values := s.record.Values()
		var sb strings.Builder
		for i := range names {
			if i > 0 {
				sb.WriteString("AND")
			}
			sb.WriteString("(")
			sb.WriteString(names[i])
			sb.WriteString("=")
			sb.WriteString(expression.LiteralSQL(values[i], q))
			sb.WriteString(")")
		}
		return sql + "\nWHERE " + sb.String()
	}
	return sql
}

func (s *DeleteStatement) Clear() {
	s.tableName = ""
	s.clear()
}
