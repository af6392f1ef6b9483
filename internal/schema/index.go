package schema

import (
	"strings"
)

// Index is an index on one or more fields of a table.
type Index struct {
	name       string
	tableName  string
	fieldNames []string
	unique     bool
}

// NewIndex returns an unnamed index; call GenerateName or SetName before rendering it.
func NewIndex(tableName string, unique bool, fieldNames ...string) Index {
	return Index{
		tableName:  tableName,
		fieldNames: append([]string(nil), fieldNames...),
		unique:     unique,
	}
}

func (i *Index) SetName(name string) { i.name = name }
func (i *Index) SetTableName(name string) { i.tableName = name }
func (i *Index) SetUnique(u bool) { i.unique = u }

// AddFieldName panics on an empty name.
func (i *Index) AddFieldName(name string) {
	if strings.TrimSpace(name) == "" {
		panic("schema: index field name must not be empty")
	}
	i.fieldNames = append(i.fieldNames, name)
}

func (i Index) Name() string { return i.name }
func (i Index) TableName() string { return i.tableName }
func (i Index) FieldNames() []string { return i.fieldNames }
func (i Index) IsUnique() bool { return i.unique }

// GenerateName sets the name to tableName_field1_..._fieldN_index.
func (i *Index) GenerateName() {
	parts := make([]string, 0, len(i.fieldNames)+2)
	parts = append(parts, i.tableName)
	parts = append(parts, i.fieldNames...)
	parts = append(parts, "index")
	i.name = strings.Join(parts, "_")
}

// IsNull reports if the index has no table or no field.
func (i Index) IsNull() bool {
	return i.tableName == "" || len(i.fieldNames) == 0
}

func (i *Index) Clear() {
	*i = Index{}
}

// Equal compares names, table, fields and uniqueness, ignoring case.
func (i Index) Equal(o Index) bool {
	return strings.EqualFold(i.name, o.name) &&
		strings.EqualFold(i.tableName, o.tableName) &&
		equalFoldSlices(i.fieldNames, o.fieldNames) &&
		i.unique == o.unique
}
