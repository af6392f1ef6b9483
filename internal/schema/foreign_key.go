package schema

import (
	"fmt"
	"strings"
)

// ForeignKeyAction is the referential action applied on delete or update of a parent row.
type ForeignKeyAction string

const (
	NoAction   ForeignKeyAction = "NO ACTION"
	Restrict   ForeignKeyAction = "RESTRICT"
	SetNull    ForeignKeyAction = "SET NULL"
	SetDefault ForeignKeyAction = "SET DEFAULT"
	Cascade    ForeignKeyAction = "CASCADE"
)

// SQL returns the action keyword. The zero action is NO ACTION.
func (a ForeignKeyAction) SQL() string {
	if a == "" {
		return string(NoAction)
	}
	return string(a)
}

// ActionFromString parses an action keyword, ignoring case, spaces and underscores.
func ActionFromString(s string) (ForeignKeyAction, error) {
	norm := strings.Join(strings.Fields(strings.ReplaceAll(strings.ToUpper(s), "_", " ")), " ")
	switch norm {
	case "", "NO ACTION", "NOACTION":
		return NoAction, nil
	case "RESTRICT":
		return Restrict, nil
	case "SET NULL", "SETNULL":
		return SetNull, nil
	case "SET DEFAULT", "SETDEFAULT":
		return SetDefault, nil
	case "CASCADE":
		return Cascade, nil
	}
	return "", fmt.Errorf("unknown foreign key action %q", s)
}

// ForeignKeySettings holds referential actions and index creation of a foreign key.
type ForeignKeySettings struct {
	OnDelete    ForeignKeyAction
	OnUpdate    ForeignKeyAction
	CreateIndex bool
}

// ForeignKey links child fields of a table to parent fields of another table.
type ForeignKey struct {
	childTable   string
	parentTable  string
	childFields  []string
	parentFields []string
	settings     ForeignKeySettings
}

// NewForeignKey panics if the field lists are empty, differ in length or contain an
// empty name, or if parentTable is empty.
func NewForeignKey(childTable, parentTable string, childFields, parentFields []string, settings ForeignKeySettings) ForeignKey {
	if strings.TrimSpace(parentTable) == "" {
		panic("schema: foreign key requires a parent table")
	}
	if len(childFields) == 0 || len(childFields) != len(parentFields) {
		panic(fmt.Sprintf("schema: foreign key to %q requires the same non zero count of child and parent fields, got %d and %d",
			parentTable, len(childFields), len(parentFields)))
	}
	for i := range childFields {
		if strings.TrimSpace(childFields[i]) == "" || strings.TrimSpace(parentFields[i]) == "" {
			panic(fmt.Sprintf("schema: foreign key to %q contains an empty field name", parentTable))
		}
	}
	if settings.OnDelete == "" {
		settings.OnDelete = NoAction
	}
	if settings.OnUpdate == "" {
		settings.OnUpdate = NoAction
	}
	return ForeignKey{
		childTable:   childTable,
		parentTable:  parentTable,
		childFields:  append([]string(nil), childFields...),
		parentFields: append([]string(nil), parentFields...),
		settings:     settings,
	}
}

func (fk ForeignKey) ChildTableName() string { return fk.childTable }
func (fk ForeignKey) ParentTableName() string { return fk.parentTable }
func (fk ForeignKey) ChildFieldNames() []string { return fk.childFields }
func (fk ForeignKey) ParentFieldNames() []string { return fk.parentFields }
func (fk ForeignKey) Settings() ForeignKeySettings { return fk.settings }
func (fk ForeignKey) OnDelete() ForeignKeyAction { return fk.settings.OnDelete }
func (fk ForeignKey) OnUpdate() ForeignKeyAction { return fk.settings.OnUpdate }

// IsIndexed reports if an index must be created on the child fields.
func (fk ForeignKey) IsIndexed() bool {
	return fk.settings.CreateIndex
}

func (fk ForeignKey) IsNull() bool {
	return fk.parentTable == "" || len(fk.childFields) == 0
}

// WithChildTable returns a copy of fk owned by table.
func (fk ForeignKey) WithChildTable(table string) ForeignKey {
	fk.childTable = table
	return fk
}

// Index returns the index supporting the child fields.
func (fk ForeignKey) Index() Index {
	idx := NewIndex(fk.childTable, false, fk.childFields...)
	idx.GenerateName()
	return idx
}

// Equal compares tables, fields and actions, ignoring case. Index creation is not
// compared since it cannot be read back from a database.
func (fk ForeignKey) Equal(o ForeignKey) bool {
	return strings.EqualFold(fk.childTable, o.childTable) &&
		strings.EqualFold(fk.parentTable, o.parentTable) &&
		equalFoldSlices(fk.childFields, o.childFields) &&
		equalFoldSlices(fk.parentFields, o.parentFields) &&
		fk.settings.OnDelete == o.settings.OnDelete &&
		fk.settings.OnUpdate == o.settings.OnUpdate
}

func equalFoldSlices(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !strings.EqualFold(a[i], b[i]) {
			return false
		}
	}
	return true
}
