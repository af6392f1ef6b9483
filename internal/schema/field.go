// Package schema holds the typed description of a SQL database: fields, primary
// and foreign keys, indexes, triggers, views and table populations. Values of this
// package are plain data, built once through their builder methods and then handed
// to a dialect generator or to the schema driver.
package schema

import (
	"fmt"
	"strings"
)

// FieldType is the portable SQL type of a field.
type FieldType string

const (
	UnknownType FieldType = ""
	Boolean     FieldType = "BOOLEAN"
	Integer     FieldType = "INTEGER"
	Float       FieldType = "FLOAT"
	Double      FieldType = "DOUBLE"
	Varchar     FieldType = "VARCHAR"
	Date        FieldType = "DATE"
	Time        FieldType = "TIME"
	DateTime    FieldType = "DATETIME"
)

// AvailableFieldTypes returns every known field type, UnknownType excluded.
func AvailableFieldTypes() []FieldType {
	return []FieldType{Boolean, Integer, Float, Double, Varchar, Date, Time, DateTime}
}

// FieldTypeFromName returns the field type whose name equals name, ignoring case.
func FieldTypeFromName(name string) FieldType {
	name = strings.TrimSpace(name)
	for _, ft := range AvailableFieldTypes() {
		if strings.EqualFold(string(ft), name) {
			return ft
		}
	}
	return UnknownType
}

// Name returns the SQL name of the type, empty for UnknownType.
func (t FieldType) Name() string {
	return string(t)
}

// CaseSensitivity is the case sensitivity part of a collation.
type CaseSensitivity int

const (
	CaseUnset CaseSensitivity = iota
	CaseSensitive
	CaseInsensitive
)

// Collation describes how text values of a field are compared.
// Language and Country are only honoured by dialects supporting locale aware collations.
type Collation struct {
	Sensitivity CaseSensitivity
	Language    string
	Country     string
}

// NewCollation returns a collation with only the case sensitivity set.
func NewCollation(caseSensitive bool) Collation {
	if caseSensitive {
		return Collation{Sensitivity: CaseSensitive}
	}
	return Collation{Sensitivity: CaseInsensitive}
}

// IsNull reports if nothing is set.
func (c Collation) IsNull() bool {
	return c.Sensitivity == CaseUnset && c.Language == "" && c.Country == ""
}

// IsCaseSensitive reports false only for an explicit CaseInsensitive collation.
func (c Collation) IsCaseSensitive() bool {
	return c.Sensitivity != CaseInsensitive
}

func (c *Collation) Clear() {
	*c = Collation{}
}

// Charset names a character set, for example utf8mb4.
type Charset struct {
	Name string
}

func (c Charset) IsNull() bool {
	return strings.TrimSpace(c.Name) == ""
}

// Field describes one column.
type Field struct {
	name         string
	typ          FieldType
	length       int
	unsigned     bool
	required     bool
	unique       bool
	defaultValue any
	collation    Collation
}

// NewField returns a field with name and type set.
func NewField(name string, typ FieldType) Field {
	var f Field
	f.SetName(name)
	f.SetType(typ)
	return f
}

// NewVarchar returns a Varchar field of the given length.
func NewVarchar(name string, length int) Field {
	f := NewField(name, Varchar)
	f.SetLength(length)
	return f
}

// SetName panics on an empty name.
func (f *Field) SetName(name string) {
	if strings.TrimSpace(name) == "" {
		panic("schema: field name must not be empty")
	}
	f.name = name
}

func (f *Field) SetType(t FieldType) {
	f.typ = t
}

// SetLength sets the length used by Varchar fields. -1 unsets it; any other
// value must be > 0 for a Varchar. Other types ignore the length, so values
// below 1 just unset it.
func (f *Field) SetLength(length int) {
	if length == -1 || (f.typ != Varchar && length <= 0) {
		f.length = 0
		return
	}
	if length <= 0 {
		panic(fmt.Sprintf("schema: field %q length must be > 0, got %d", f.name, length))
	}
	f.length = length
}

func (f *Field) SetUnsigned(u bool) { f.unsigned = u }
func (f *Field) SetRequired(r bool) { f.required = r }
func (f *Field) SetUnique(u bool) { f.unique = u }
func (f *Field) SetDefaultValue(v any) { f.defaultValue = v }
func (f *Field) SetCollation(c Collation) { f.collation = c }
func (f *Field) SetCaseSensitive(sens bool) { f.collation.Sensitivity = NewCollation(sens).Sensitivity }

func (f Field) Name() string { return f.name }
func (f Field) Type() FieldType { return f.typ }
func (f Field) IsUnsigned() bool { return f.unsigned }
func (f Field) IsRequired() bool { return f.required }
func (f Field) IsUnique() bool { return f.unique }
func (f Field) DefaultValue() any { return f.defaultValue }
func (f Field) Collation() Collation { return f.collation }

// Length returns -1 if no length was set.
func (f Field) Length() int {
	if f.length == 0 {
		return -1
	}
	return f.length
}

// HasLength reports if a length was set.
func (f Field) HasLength() bool {
	return f.length > 0
}

// IsNull reports if the field has no name or no known type.
func (f Field) IsNull() bool {
	return f.name == "" || f.typ == UnknownType
}

// Clear resets f to the zero field.
func (f *Field) Clear() {
	*f = Field{}
}

// Equal compares every attribute. Default values are compared by their textual form,
// so 5 and "5" are equal, and true equals 1; that is what a database gives back.
// Lengths are only compared for Varchar fields.
func (f Field) Equal(o Field) bool {
	return strings.EqualFold(f.name, o.name) &&
		f.typ == o.typ &&
		(f.typ != Varchar || f.Length() == o.Length()) &&
		f.unsigned == o.unsigned &&
		f.required == o.required &&
		f.unique == o.unique &&
		defaultText(f.defaultValue) == defaultText(o.defaultValue) &&
		f.collation == o.collation
}

func defaultText(v any) string {
	switch x := v.(type) {
	case nil:
		return "\x00null"
	case bool:
		if x {
			return "1"
		}
		return "0"
	}
	return fmt.Sprint(v)
}

// FieldList is an ordered list of fields.
type FieldList []Field

// IndexOf returns the position of the field named name, ignoring case, or -1.
func (l FieldList) IndexOf(name string) int {
	for i := range l {
		if strings.EqualFold(l[i].name, name) {
			return i
		}
	}
	return -1
}

func (l FieldList) Contains(name string) bool {
	return l.IndexOf(name) >= 0
}

// Names returns the field names in order.
func (l FieldList) Names() []string {
	names := make([]string, 0, len(l))
	for i := range l {
		names = append(names, l[i].name)
	}
	return names
}
