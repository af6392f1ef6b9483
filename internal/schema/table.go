package schema

import (
	"fmt"
	"strings"
)

// Table describes a table. It is built once through its builder methods and
// must not be changed after being handed to a Schema or a driver.
//
// Concrete tables are usually declared by composition:
//
//	type ClientTable struct{ *schema.Table }
//
//	func NewClientTable() ClientTable {
//		t := schema.NewTable("Client_tbl")
//		t.SetAutoIncrementPrimaryKey("Id_PK")
//		t.AddField(schema.NewVarchar("Name", 100))
//		return ClientTable{t}
//	}
type Table struct {
	name        string
	temporary   bool
	fields      FieldList
	primaryKey  PrimaryKeyContainer
	foreignKeys []ForeignKey
	indexes     []Index
}

// NewTable returns an empty table named name.
func NewTable(name string) *Table {
	t := &Table{}
	t.SetTableName(name)
	return t
}

// SetTableName panics on an empty name.
func (t *Table) SetTableName(name string) {
	if strings.TrimSpace(name) == "" {
		panic("schema: table name must not be empty")
	}
	t.name = name
}

func (t *Table) TableName() string {
	return t.name
}

func (t *Table) SetTemporary(temp bool) {
	t.temporary = temp
}

func (t *Table) IsTemporary() bool {
	return t.temporary
}

// AddField appends f. It panics on a null field or a name already used, ignoring case.
func (t *Table) AddField(f Field) {
	if f.IsNull() {
		panic(fmt.Sprintf("schema: table %q: cannot add a null field", t.name))
	}
	if t.ContainsField(f.Name()) {
		panic(fmt.Sprintf("schema: table %q already has a field named %q", t.name, f.Name()))
	}
	t.fields = append(t.fields, f)
}

// SetAutoIncrementPrimaryKey declares fieldName as an auto increment integer key.
// The field is rendered first. It panics if a primary key was already chosen.
func (t *Table) SetAutoIncrementPrimaryKey(fieldName string) {
	t.requireNoPrimaryKey()
	if t.fields.Contains(fieldName) {
		panic(fmt.Sprintf("schema: table %q: auto increment key %q conflicts with an existing field", t.name, fieldName))
	}
	t.primaryKey = AutoIncrementContainer(NewAutoIncrementPrimaryKey(fieldName))
}

// SetPrimaryKey declares fields as the primary key. Fields not yet in the table are
// appended, as required fields. It panics if a primary key was already chosen.
func (t *Table) SetPrimaryKey(fields ...Field) {
	t.requireNoPrimaryKey()
	names := make([]string, 0, len(fields))
	for _, f := range fields {
		if !t.ContainsField(f.Name()) {
			f.SetRequired(true)
			t.AddField(f)
		}
		names = append(names, f.Name())
	}
	t.primaryKey = CompositeContainer(NewPrimaryKey(names...))
}

func (t *Table) requireNoPrimaryKey() {
	if !t.primaryKey.IsNull() {
		panic(fmt.Sprintf("schema: table %q already has a %s primary key", t.name, t.primaryKey.Kind()))
	}
}

func (t *Table) PrimaryKey() PrimaryKeyContainer {
	return t.primaryKey
}

// AddForeignKey declares a foreign key from childFields to parentFields of parentTable.
// Child fields not yet in the table are appended.
func (t *Table) AddForeignKey(childFields []Field, parentTable string, parentFields []string, settings ForeignKeySettings) {
	names := make([]string, 0, len(childFields))
	for _, f := range childFields {
		if !t.ContainsField(f.Name()) && !t.isAutoIncrementField(f.Name()) {
			t.AddField(f)
		}
		names = append(names, f.Name())
	}
	t.foreignKeys = append(t.foreignKeys, NewForeignKey(t.name, parentTable, names, parentFields, settings))
}

func (t *Table) ForeignKeyList() []ForeignKey {
	return t.foreignKeys
}

// ForeignKeyReferencing returns the first foreign key whose parent is table.
func (t *Table) ForeignKeyReferencing(table string) (ForeignKey, bool) {
	for _, fk := range t.foreignKeys {
		if strings.EqualFold(fk.parentTable, table) {
			return fk, true
		}
	}
	return ForeignKey{}, false
}

// AddIndex appends idx after setting its table name, generating its name when unset.
func (t *Table) AddIndex(idx Index) {
	idx.SetTableName(t.name)
	if idx.Name() == "" {
		idx.GenerateName()
	}
	t.indexes = append(t.indexes, idx)
}

func (t *Table) IndexList() []Index {
	return t.indexes
}

// FieldList returns every column in rendering order: the auto increment key field
// first, if any, then the added fields.
func (t *Table) FieldList() FieldList {
	pk, ok := t.primaryKey.AutoIncrement()
	if !ok {
		return t.fields
	}
	out := make(FieldList, 0, len(t.fields)+1)
	out = append(out, pk.Field())
	return append(out, t.fields...)
}

// Fields returns the added fields, without the auto increment key field.
func (t *Table) Fields() FieldList {
	return t.fields
}

func (t *Table) FieldCount() int {
	return len(t.FieldList())
}

func (t *Table) FieldNames() []string {
	return t.FieldList().Names()
}

// ContainsField reports if a field named name exists, ignoring case.
func (t *Table) ContainsField(name string) bool {
	return t.FieldList().Contains(name)
}

// FindField returns the field named name, ignoring case.
func (t *Table) FindField(name string) (Field, bool) {
	l := t.FieldList()
	i := l.IndexOf(name)
	if i < 0 {
		return Field{}, false
	}
	return l[i], true
}

func (t *Table) isAutoIncrementField(name string) bool {
	pk, ok := t.primaryKey.AutoIncrement()
	return ok && strings.EqualFold(pk.FieldName(), name)
}

// IsNull reports if the table has no name or no field.
func (t *Table) IsNull() bool {
	return t == nil || t.name == "" || t.FieldCount() == 0
}

// Clear resets t to an empty, unnamed table.
func (t *Table) Clear() {
	*t = Table{}
}
