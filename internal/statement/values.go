// Package statement builds INSERT, UPDATE and DELETE statements independently of
// any connection. A statement renders to prepared SQL with ? placeholders plus the
// ordered list of values to bind.
package statement

import (
	"fmt"
	"strings"

	"mdtsql/internal/schema"
)

// FieldName is the name of a field used in a statement.
type FieldName string

// FieldNameOf returns the name of f.
func FieldNameOf(f schema.Field) FieldName {
	return FieldName(f.Name())
}

func (n FieldName) IsNull() bool {
	return strings.TrimSpace(string(n)) == ""
}

type fieldValue struct {
	name  FieldName
	value any
}

// FieldNameValueMap associates field names to values, keeping insertion order.
// Lookups ignore case.
type FieldNameValueMap struct {
	entries []fieldValue
}

// AddValue appends a pair. It panics on an empty name or a name already present.
func (m *FieldNameValueMap) AddValue(name FieldName, value any) {
	if name.IsNull() {
		panic("statement: field name must not be empty")
	}
	if m.ContainsFieldName(name) {
		panic(fmt.Sprintf("statement: field %q already has a value", name))
	}
	m.entries = append(m.entries, fieldValue{name: name, value: value})
}

func (m *FieldNameValueMap) indexOf(name FieldName) int {
	for i := range m.entries {
		if strings.EqualFold(string(m.entries[i].name), string(name)) {
			return i
		}
	}
	return -1
}

// ContainsFieldName reports if name is present, ignoring case.
func (m *FieldNameValueMap) ContainsFieldName(name FieldName) bool {
	return m.indexOf(name) >= 0
}

// Value returns the value of name, ignoring case.
func (m *FieldNameValueMap) Value(name FieldName) (any, bool) {
	i := m.indexOf(name)
	if i < 0 {
		return nil, false
	}
	return m.entries[i].value, true
}

// FieldNames returns the names in insertion order.
func (m *FieldNameValueMap) FieldNames() []string {
	out := make([]string, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, string(e.name))
	}
	return out
}

// Values returns the values in insertion order.
func (m *FieldNameValueMap) Values() []any {
	out := make([]any, 0, len(m.entries))
	for _, e := range m.entries {
		out = append(out, e.value)
	}
	return out
}

func (m *FieldNameValueMap) Len() int {
	return len(m.entries)
}

func (m *FieldNameValueMap) IsEmpty() bool {
	return len(m.entries) == 0
}

func (m *FieldNameValueMap) Clear() {
	m.entries = nil
}

// PrimaryKeyRecord identifies rows by field values combined with AND.
// A record without entries is null.
type PrimaryKeyRecord struct {
	FieldNameValueMap
}

func (r *PrimaryKeyRecord) IsNull() bool {
	return r.IsEmpty()
}

// NewPrimaryKeyRecord builds a record from alternating names and values.
// It panics on an odd argument count or a name that is not a string.
func NewPrimaryKeyRecord(pairs ...any) PrimaryKeyRecord {
	if len(pairs)%2 != 0 {
		panic("statement: primary key record needs name and value pairs")
	}
	var r PrimaryKeyRecord
	for i := 0; i < len(pairs); i += 2 {
		switch n := pairs[i].(type) {
		case string:
			r.AddValue(FieldName(n), pairs[i+1])
		case FieldName:
			r.AddValue(n, pairs[i+1])
		default:
			panic(fmt.Sprintf("statement: primary key record field name must be a string, got %T", pairs[i]))
		}
	}
	return r
}

// placeholders renders "q1"=?<sep>"q2"=?...
func placeholders(names []string, sep string, quote func(string) string) string {
	parts := make([]string, 0, len(names))
	for _, n := range names {
		parts = append(parts, quote(n)+"=?")
	}
	return strings.Join(parts, sep)
}
