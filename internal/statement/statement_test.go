package statement

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtsql/internal/expression"
	"mdtsql/internal/schema"
)

type ansiQuoter struct{}

func (ansiQuoter) QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (ansiQuoter) QuoteString(value string) string {
	return "'" + strings.ReplaceAll(value, "'", "''") + "'"
}

var q ansiQuoter

func TestFieldNameValueMap(t *testing.T) {
	var m FieldNameValueMap
	assert.True(t, m.IsEmpty())

	m.AddValue("Id_PK", 1)
	m.AddValue("Name", "A")
	m.AddValue("Age", 30)

	t.Run("lookup ignores case", func(t *testing.T) {
		assert.True(t, m.ContainsFieldName("Id_PK"))
		assert.True(t, m.ContainsFieldName("id_pk"))
		assert.True(t, m.ContainsFieldName("ID_PK"))
		v, ok := m.Value("name")
		require.True(t, ok)
		assert.Equal(t, "A", v)
		_, ok = m.Value("Remarks")
		assert.False(t, ok)
	})

	t.Run("insertion order is kept", func(t *testing.T) {
		assert.Equal(t, []string{"Id_PK", "Name", "Age"}, m.FieldNames())
		assert.Equal(t, []any{1, "A", 30}, m.Values())
		assert.Equal(t, 3, m.Len())
	})

	t.Run("preconditions", func(t *testing.T) {
		assert.Panics(t, func() { m.AddValue("NAME", "B") })
		assert.Panics(t, func() { m.AddValue("", "B") })
	})

	m.Clear()
	m.Clear()
	assert.True(t, m.IsEmpty())
}

func TestPrimaryKeyRecord(t *testing.T) {
	var r PrimaryKeyRecord
	assert.True(t, r.IsNull())

	r = NewPrimaryKeyRecord("IdA_PK", 1, FieldName("IdB_PK"), 2)
	assert.False(t, r.IsNull())
	assert.Equal(t, []string{"IdA_PK", "IdB_PK"}, r.FieldNames())

	assert.Panics(t, func() { NewPrimaryKeyRecord("IdA_PK") })
	assert.Panics(t, func() { NewPrimaryKeyRecord(1, 2) })
}

func TestInsertStatement(t *testing.T) {
	s := NewInsertStatement("Client_tbl")
	s.AddValue("FirstName", "Jane")
	s.AddValue(FieldNameOf(schema.NewVarchar("LastName", 50)), "Doe")

	assert.Equal(t, `INSERT INTO "Client_tbl" ("FirstName","LastName") VALUES (?,?)`, s.ToPrepareStatementSQL(q))
	assert.Equal(t, []any{"Jane", "Doe"}, s.ToValueList())

	t.Run("order is insertion order, not alphabetical", func(t *testing.T) {
		s := NewInsertStatement("Client_tbl")
		s.AddValue("Name", "A")
		s.AddValue("Id_PK", 1)
		assert.Equal(t, `INSERT INTO "Client_tbl" ("Name","Id_PK") VALUES (?,?)`, s.ToPrepareStatementSQL(q))
		assert.Equal(t, []any{"A", 1}, s.ToValueList())
	})

	t.Run("duplicate field panics", func(t *testing.T) {
		assert.Panics(t, func() { s.AddValue("firstname", "X") })
	})

	s.Clear()
	s.Clear()
	assert.Empty(t, s.TableName())
	assert.Empty(t, s.ToValueList())
}

func TestUpdateStatement(t *testing.T) {
	t.Run("single field primary key", func(t *testing.T) {
		s := NewUpdateStatement("Client_tbl")
		s.AddValue("Name", "Name 111")
		s.SetConditions(NewPrimaryKeyRecord("Id_PK", 1))

		assert.Equal(t, "UPDATE \"Client_tbl\"\nSET \"Name\"=?\nWHERE \"Id_PK\"=?", s.ToPrepareStatementSQL(q))
		assert.Equal(t, []any{"Name 111", 1}, s.ToValueList())
		assert.Equal(t, []any{1}, s.ToConditionsValueList())
	})

	t.Run("composite primary key", func(t *testing.T) {
		s := NewUpdateStatement("Link_tbl")
		s.AddValue("A", 10)
		s.AddValue("B", 20)
		s.SetConditions(NewPrimaryKeyRecord("IdA_PK", 1, "IdB_PK", 2))

		assert.Equal(t, "UPDATE \"Link_tbl\"\nSET \"A\"=?,\"B\"=?\nWHERE \"IdA_PK\"=? AND \"IdB_PK\"=?", s.ToPrepareStatementSQL(q))
		assert.Equal(t, []any{10, 20, 1, 2}, s.ToValueList())
	})

	t.Run("without conditions updates every row", func(t *testing.T) {
		s := NewUpdateStatement("Client_tbl")
		s.AddValue("Name", "X")
		assert.False(t, s.HasConditions())
		assert.Equal(t, "UPDATE \"Client_tbl\"\nSET \"Name\"=?", s.ToPrepareStatementSQL(q))
	})

	t.Run("without values", func(t *testing.T) {
		s := NewUpdateStatement("Client_tbl")
		s.SetConditions(NewPrimaryKeyRecord("Id_PK", 1))
		assert.Panics(t, func() { s.ToPrepareStatementSQL(q) })
	})

	t.Run("filter expression", func(t *testing.T) {
		s := NewUpdateStatement("Client_tbl")
		s.AddValue("Name", "X")
		s.SetConditions(NewPrimaryKeyRecord("Id_PK", 1))
		s.SetFilter(expression.F("Age").Gt(30))
		assert.Equal(t, "UPDATE \"Client_tbl\"\nSET \"Name\"=?\nWHERE \"Age\">30", s.ToPrepareStatementSQL(q))
		assert.Equal(t, []any{"X"}, s.ToValueList())
	})

	t.Run("clear is idempotent", func(t *testing.T) {
		s := NewUpdateStatement("Client_tbl")
		s.AddValue("Name", "X")
		s.SetConditions(NewPrimaryKeyRecord("Id_PK", 1))
		s.Clear()
		s.Clear()
		assert.Empty(t, s.TableName())
		assert.False(t, s.HasConditions())
		assert.Empty(t, s.ToValueList())
	})
}

func TestDeleteStatement(t *testing.T) {
	t.Run("composite primary key literal form", func(t *testing.T) {
		s := NewDeleteStatement("Link_tbl")
		s.SetConditions(NewPrimaryKeyRecord("IdA_PK", 1, "IdB_PK", 2))
		assert.Equal(t, "DELETE FROM \"Link_tbl\"\nWHERE (IdA_PK=1)AND(IdB_PK=2)", s.ToSQL(q))
		assert.Equal(t, "DELETE FROM \"Link_tbl\"\nWHERE \"IdA_PK\"=? AND \"IdB_PK\"=?", s.ToPrepareStatementSQL(q))
		assert.Equal(t, []any{1, 2}, s.ToValueList())
	})

	t.Run("single key prepared form", func(t *testing.T) {
		s := NewDeleteStatement("Client_tbl")
		s.SetConditions(NewPrimaryKeyRecord("Id_PK", 5))
		assert.Equal(t, "DELETE FROM \"Client_tbl\"\nWHERE \"Id_PK\"=?", s.ToPrepareStatementSQL(q))
		assert.Equal(t, "DELETE FROM \"Client_tbl\"\nWHERE (Id_PK=5)", s.ToSQL(q))
	})

	t.Run("string values are quoted", func(t *testing.T) {
		s := NewDeleteStatement("Client_tbl")
		s.SetConditions(NewPrimaryKeyRecord("Code", "O'Neil"))
		assert.Equal(t, "DELETE FROM \"Client_tbl\"\nWHERE (Code='O''Neil')", s.ToSQL(q))
	})

	t.Run("filter", func(t *testing.T) {
		s := NewDeleteStatement("Client_tbl")
		s.SetFilter(expression.F("Name").Like("A*"))
		assert.Equal(t, "DELETE FROM \"Client_tbl\"\nWHERE \"Name\" LIKE 'A%' ESCAPE '\\'", s.ToSQL(q))
	})

	t.Run("no condition", func(t *testing.T) {
		s := NewDeleteStatement("Client_tbl")
		assert.Equal(t, `DELETE FROM "Client_tbl"`, s.ToSQL(q))
		assert.Equal(t, `DELETE FROM "Client_tbl"`, s.ToPrepareStatementSQL(q))
		s.Clear()
		s.Clear()
		assert.Empty(t, s.TableName())
	})
}
