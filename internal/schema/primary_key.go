package schema

import (
	"fmt"
	"strings"
)

// AutoIncrementPrimaryKey is a single integer field whose values are generated by the database.
type AutoIncrementPrimaryKey struct {
	fieldName string
}

// NewAutoIncrementPrimaryKey panics on an empty field name.
func NewAutoIncrementPrimaryKey(fieldName string) AutoIncrementPrimaryKey {
	if strings.TrimSpace(fieldName) == "" {
		panic("schema: auto increment primary key requires a field name")
	}
	return AutoIncrementPrimaryKey{fieldName: fieldName}
}

func (pk AutoIncrementPrimaryKey) FieldName() string {
	return pk.fieldName
}

// Field returns the field definition backing the key.
func (pk AutoIncrementPrimaryKey) Field() Field {
	f := NewField(pk.fieldName, Integer)
	f.SetRequired(true)
	return f
}

// PrimaryKey is a primary key made of one or more fields, without value generation.
type PrimaryKey struct {
	fieldNames []string
}

// NewPrimaryKey panics if no field name is given or one is empty.
func NewPrimaryKey(fieldNames ...string) PrimaryKey {
	if len(fieldNames) == 0 {
		panic("schema: primary key requires at least one field")
	}
	for _, n := range fieldNames {
		if strings.TrimSpace(n) == "" {
			panic("schema: primary key field name must not be empty")
		}
	}
	return PrimaryKey{fieldNames: append([]string(nil), fieldNames...)}
}

func (pk PrimaryKey) FieldNames() []string {
	return pk.fieldNames
}

func (pk PrimaryKey) FieldCount() int {
	return len(pk.fieldNames)
}

// PrimaryKeyKind tells which representation a PrimaryKeyContainer holds.
type PrimaryKeyKind int

const (
	NoPrimaryKey PrimaryKeyKind = iota
	AutoIncrementKey
	CompositeKey
)

func (k PrimaryKeyKind) String() string {
	switch k {
	case NoPrimaryKey:
		return "none"
	case AutoIncrementKey:
		return "auto increment"
	case CompositeKey:
		return "composite"
	}
	return fmt.Sprintf("PrimaryKeyKind(%d)", int(k))
}

// PrimaryKeyContainer holds at most one primary key representation.
type PrimaryKeyContainer struct {
	kind    PrimaryKeyKind
	autoInc AutoIncrementPrimaryKey
	pk      PrimaryKey
}

// AutoIncrementContainer wraps an auto increment primary key.
func AutoIncrementContainer(pk AutoIncrementPrimaryKey) PrimaryKeyContainer {
	return PrimaryKeyContainer{kind: AutoIncrementKey, autoInc: pk}
}

// CompositeContainer wraps a primary key.
func CompositeContainer(pk PrimaryKey) PrimaryKeyContainer {
	return PrimaryKeyContainer{kind: CompositeKey, pk: pk}
}

func (c PrimaryKeyContainer) Kind() PrimaryKeyKind {
	return c.kind
}

func (c PrimaryKeyContainer) IsNull() bool {
	return c.kind == NoPrimaryKey
}

// AutoIncrement returns the key and true if c holds an auto increment key.
func (c PrimaryKeyContainer) AutoIncrement() (AutoIncrementPrimaryKey, bool) {
	return c.autoInc, c.kind == AutoIncrementKey
}

// Composite returns the key and true if c holds a primary key.
func (c PrimaryKeyContainer) Composite() (PrimaryKey, bool) {
	return c.pk, c.kind == CompositeKey
}

// FieldNames returns the names of the fields that are part of the key.
func (c PrimaryKeyContainer) FieldNames() []string {
	switch c.kind {
	case AutoIncrementKey:
		return []string{c.autoInc.fieldName}
	case CompositeKey:
		return c.pk.fieldNames
	case NoPrimaryKey:
	}
	return nil
}

// Contains reports if the field named name is part of the key, ignoring case.
func (c PrimaryKeyContainer) Contains(name string) bool {
	for _, n := range c.FieldNames() {
		if strings.EqualFold(n, name) {
			return true
		}
	}
	return false
}

// Equal compares kinds and field names, ignoring case.
func (c PrimaryKeyContainer) Equal(o PrimaryKeyContainer) bool {
	if c.kind != o.kind {
		return false
	}
	a, b := c.FieldNames(), o.FieldNames()
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

func (c *PrimaryKeyContainer) Clear() {
	*c = PrimaryKeyContainer{}
}
