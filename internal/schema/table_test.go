package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtsql/internal/expression"
)

type clientTable struct{ *Table }

func newClientTable() clientTable {
	t := NewTable("Client_tbl")
	t.SetAutoIncrementPrimaryKey("Id_PK")
	name := NewVarchar("Name", 100)
	name.SetRequired(true)
	t.AddField(name)
	return clientTable{t}
}

func (c clientTable) Name() Field {
	f, _ := c.FindField("Name")
	return f
}

func TestTableComposition(t *testing.T) {
	client := newClientTable()

	assert.Equal(t, "Client_tbl", client.TableName())
	assert.Equal(t, "Name", client.Name().Name())
	assert.Equal(t, 100, client.Name().Length())
}

func TestTableAutoIncrementPrimaryKey(t *testing.T) {
	table := NewTable("Client_tbl")
	table.AddField(NewVarchar("Name", 50))
	table.SetAutoIncrementPrimaryKey("Id_PK")

	assert.Equal(t, []string{"Id_PK", "Name"}, table.FieldNames())
	assert.Equal(t, 2, table.FieldCount())
	assert.Len(t, table.Fields(), 1)
	assert.Equal(t, AutoIncrementKey, table.PrimaryKey().Kind())
	assert.True(t, table.ContainsField("id_pk"))

	assert.Panics(t, func() { table.SetAutoIncrementPrimaryKey("Other") })
	assert.Panics(t, func() { table.SetPrimaryKey(NewField("Other", Integer)) })
	assert.Panics(t, func() { table.AddField(NewField("ID_PK", Integer)) })
}

func TestTableSetPrimaryKeyAddsMissingFields(t *testing.T) {
	table := NewTable("Link_tbl")
	idA := NewField("IdA_PK", Integer)
	idB := NewField("IdB_PK", Integer)
	table.AddField(idA)
	table.SetPrimaryKey(idA, idB)

	require.Equal(t, 2, table.FieldCount())
	assert.Equal(t, []string{"IdA_PK", "IdB_PK"}, table.PrimaryKey().FieldNames())

	a, ok := table.FindField("IdA_PK")
	require.True(t, ok)
	assert.False(t, a.IsRequired(), "fields already in the table are left untouched")

	b, ok := table.FindField("idb_pk")
	require.True(t, ok)
	assert.True(t, b.IsRequired())
}

func TestTableAddFieldPreconditions(t *testing.T) {
	table := NewTable("T")
	table.AddField(NewField("A", Integer))

	assert.Panics(t, func() { table.AddField(NewField("a", Integer)) })
	assert.Panics(t, func() { table.AddField(Field{}) })
	assert.Panics(t, func() { NewTable("") })
}

func TestTableForeignKeys(t *testing.T) {
	table := NewTable("Address_tbl")
	table.SetAutoIncrementPrimaryKey("Id_PK")
	table.AddForeignKey([]Field{NewField("Client_Id_FK", Integer)}, "Client_tbl", []string{"Id_PK"},
		ForeignKeySettings{OnDelete: Cascade, CreateIndex: true})

	assert.True(t, table.ContainsField("Client_Id_FK"))
	require.Len(t, table.ForeignKeyList(), 1)

	fk := table.ForeignKeyList()[0]
	assert.Equal(t, "Address_tbl", fk.ChildTableName())
	assert.Equal(t, Cascade, fk.OnDelete())

	found, ok := table.ForeignKeyReferencing("client_tbl")
	require.True(t, ok)
	assert.True(t, found.Equal(fk))
	_, ok = table.ForeignKeyReferencing("Other")
	assert.False(t, ok)

	t.Run("existing child field is not added twice", func(t *testing.T) {
		table.AddForeignKey([]Field{NewField("Client_Id_FK", Integer)}, "Client2_tbl", []string{"Id_PK"}, ForeignKeySettings{})
		assert.Equal(t, 2, table.FieldCount())
		assert.Len(t, table.ForeignKeyList(), 2)
	})
}

func TestTableIndexes(t *testing.T) {
	table := NewTable("Client_tbl")
	table.AddField(NewField("Id_A", Integer))
	table.AddField(NewField("Id_B", Integer))

	table.AddIndex(NewIndex("", true, "Id_A", "Id_B"))
	named := NewIndex("", false, "Id_B")
	named.SetName("custom_index")
	table.AddIndex(named)

	require.Len(t, table.IndexList(), 2)
	assert.Equal(t, "Client_tbl_Id_A_Id_B_index", table.IndexList()[0].Name())
	assert.Equal(t, "Client_tbl", table.IndexList()[0].TableName())
	assert.True(t, table.IndexList()[0].IsUnique())
	assert.Equal(t, "custom_index", table.IndexList()[1].Name())
}

func TestTableClear(t *testing.T) {
	table := newClientTable().Table
	table.SetTemporary(true)
	table.Clear()
	table.Clear()

	assert.True(t, table.IsNull())
	assert.False(t, table.IsTemporary())
	assert.True(t, table.PrimaryKey().IsNull())
	assert.Empty(t, table.ForeignKeyList())
}

func TestTablePopulation(t *testing.T) {
	p := NewTablePopulation("Clients", "Client_tbl")
	p.AddFieldName("Name")
	p.AddField(NewField("Id_PK", Integer))
	p.AddRow("Zed", 2)
	p.AddRow("Alice", 1)

	assert.Equal(t, []string{"Name", "Id_PK"}, p.FieldNames())
	assert.Equal(t, 2, p.RowCount())
	assert.Equal(t, "Zed", p.Value(0, 0))
	assert.Equal(t, 1, p.Value(1, 1))

	assert.Panics(t, func() { p.AddFieldName("Remarks") })
	assert.Panics(t, func() { p.AddRow("only one") })

	p.Clear()
	p.Clear()
	assert.True(t, p.IsNull())
	assert.Zero(t, p.RowCount())
}

func TestView(t *testing.T) {
	client := expression.NewEntity("Client_tbl").As("CLI")
	address := expression.NewEntity("Address_tbl").As("ADR")

	v := NewView("Client_address_view", client)
	v.AddSelectField(client, "Name", "ClientName")
	v.AddSelectAllFields(address)
	v.AddJoinClause(expression.NewJoinClause(expression.LeftJoin, address,
		address.Field("Client_Id_FK").Eq(client.Field("Id_PK"))))

	assert.Equal(t, "Client_address_view", v.Name())
	assert.Equal(t, "Client_tbl", v.Table().Name)
	assert.Len(t, v.SelectStatement().Fields(), 2)
	assert.Len(t, v.JoinClauses(), 1)
	assert.False(t, v.IsNull())

	v.Clear()
	v.Clear()
	assert.True(t, v.IsNull())
	assert.Panics(t, func() { v.SetName("") })
}

func TestSchema(t *testing.T) {
	s := New()
	client := newClientTable().Table
	s.AddTable(client)
	s.AddView(NewView("Client_view", expression.NewEntity("Client_tbl")))
	s.AddTrigger(Trigger{Name: "T", Event: AfterInsert, TableName: "Client_tbl"})
	p := NewTablePopulation("Clients", "Client_tbl")
	p.AddFieldName("Name")
	s.AddTablePopulation(p)

	assert.Equal(t, 1, s.TableCount())
	assert.Equal(t, 1, s.ViewCount())
	assert.Same(t, client, s.FindTable("CLIENT_TBL"))
	assert.Nil(t, s.FindTable("Other"))
	assert.NotNil(t, s.FindView("client_view"))
	assert.Equal(t, []string{"Client_tbl"}, s.TableNames())
	assert.Len(t, s.Triggers(), 1)
	assert.Len(t, s.TablePopulations(), 1)

	assert.Panics(t, func() { s.AddTable(&Table{}) })
	assert.Panics(t, func() { s.AddTrigger(Trigger{}) })

	s.Clear()
	s.Clear()
	assert.Zero(t, s.TableCount())
	assert.Empty(t, s.Triggers())
}
