package driver

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtsql/internal/connection"
	"mdtsql/internal/dialect"
	_ "mdtsql/internal/dialect/sqlite"
	"mdtsql/internal/expression"
	"mdtsql/internal/mdterror"
	"mdtsql/internal/schema"
)

func newSQLiteDriver(t *testing.T) *Driver {
	t.Helper()
	reg := connection.NewRegistry()
	t.Cleanup(func() { _ = reg.Close() })

	p := connection.SQLiteParameters{Path: filepath.Join(t.TempDir(), "test.db"), OpenMode: connection.ReadWriteCreate}
	conn, err := reg.Add(context.Background(), p.Parameters("test"))
	require.NoError(t, err)

	d, err := New(conn)
	require.NoError(t, err)
	return d
}

func clientTable() *schema.Table {
	tbl := schema.NewTable("Client_tbl")
	tbl.SetAutoIncrementPrimaryKey("Id_PK")
	name := schema.NewVarchar("Name", 50)
	name.SetRequired(true)
	tbl.AddField(name)
	tbl.AddField(schema.NewField("Age", schema.Integer))
	tbl.AddIndex(schema.NewIndex("", false, "Name"))
	return tbl
}

func addressTable() *schema.Table {
	tbl := schema.NewTable("Address_tbl")
	tbl.SetAutoIncrementPrimaryKey("Id_PK")
	tbl.AddField(schema.NewVarchar("Street", 100))
	tbl.AddForeignKey([]schema.Field{schema.NewField("Client_Id_FK", schema.Integer)}, "Client_tbl", []string{"Id_PK"},
		schema.ForeignKeySettings{OnDelete: schema.Cascade, CreateIndex: true})
	return tbl
}

func testSchema() *schema.Schema {
	s := schema.New()
	s.AddTable(clientTable())
	s.AddTable(addressTable())

	client := expression.NewEntity("Client_tbl")
	v := schema.NewView("Client_view", client)
	v.AddSelectField(client, "Name", "ClientName")
	s.AddView(v)

	s.AddTrigger(schema.Trigger{
		Name:      "Client_age_trg",
		Event:     schema.AfterInsert,
		TableName: "Client_tbl",
		Script:    `UPDATE "Client_tbl" SET "Age" = 0 WHERE "Age" IS NULL AND "Id_PK" = NEW."Id_PK";`,
	})

	p := schema.NewTablePopulation("Client_pop", "Client_tbl")
	p.AddFieldName("Name")
	p.AddFieldName("Age")
	p.AddRow("Ann", 41)
	p.AddRow("Bob", nil)
	s.AddTablePopulation(p)
	return s
}

func count(t *testing.T, d *Driver, query string) int {
	t.Helper()
	var n int
	require.NoError(t, d.Connection().DB().QueryRowContext(context.Background(), query).Scan(&n))
	return n
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	_, err = New(connection.NewConnection("x", "oracle", nil))
	assert.ErrorContains(t, err, `dialect "oracle" is not registered`)
}

func TestCreateAndDropSchema(t *testing.T) {
	ctx := context.Background()
	d := newSQLiteDriver(t)
	s := testSchema()

	require.NoError(t, d.CreateSchema(ctx, s))
	assert.Nil(t, d.LastError())

	assert.Equal(t, 2, count(t, d, `SELECT COUNT(*) FROM "Client_tbl"`))
	assert.Equal(t, 0, count(t, d, `SELECT COUNT(*) FROM "Client_tbl" WHERE "Age" IS NULL`), "trigger ran")
	assert.Equal(t, 2, count(t, d, `SELECT COUNT(*) FROM "Client_view"`))
	assert.Equal(t, 2, count(t, d, `SELECT COUNT(*) FROM sqlite_master WHERE type = 'index' AND sql IS NOT NULL`))

	require.NoError(t, d.DropSchema(ctx, s))
	assert.Equal(t, 0, count(t, d, `SELECT COUNT(*) FROM sqlite_master WHERE type IN ('table', 'view')`))
}

func TestCreateTableTwiceFails(t *testing.T) {
	ctx := context.Background()
	d := newSQLiteDriver(t)

	require.NoError(t, d.CreateTable(ctx, clientTable()))

	err := d.CreateTable(ctx, clientTable())
	require.Error(t, err)

	var merr *mdterror.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Creating table 'Client_tbl' failed.", merr.Message())
	assert.Equal(t, mdterror.LevelCritical, merr.Level())
	assert.Same(t, merr, d.LastError())
	require.NotEmpty(t, merr.Causes())
	assert.NotNil(t, merr.Causes()[0].Native())

	t.Run("a schema failure stacks the table failure", func(t *testing.T) {
		err := d.CreateSchema(ctx, testSchema())
		require.Error(t, err)
		require.ErrorAs(t, err, &merr)
		assert.Equal(t, "Creating schema failed.", merr.Message())
		assert.Equal(t, "Creating table 'Client_tbl' failed.", merr.Causes()[0].Message())
	})
}

func TestPopulateTableConstraint(t *testing.T) {
	ctx := context.Background()
	d := newSQLiteDriver(t)
	require.NoError(t, d.CreateTable(ctx, clientTable()))

	p := schema.NewTablePopulation("pop", "Client_tbl")
	p.AddFieldName("Name")
	p.AddRow(nil)

	err := d.PopulateTable(ctx, p)
	require.Error(t, err)
	var merr *mdterror.Error
	require.ErrorAs(t, err, &merr)
	assert.Equal(t, "Populating table 'Client_tbl' failed.", merr.Message())
	assert.Equal(t, mdterror.ConstraintError, merr.Code())
	assert.Equal(t, mdterror.LevelCritical, merr.Level())
}

func TestReverseEngineering(t *testing.T) {
	ctx := context.Background()
	d := newSQLiteDriver(t)
	client, address := clientTable(), addressTable()
	require.NoError(t, d.CreateTable(ctx, client))
	require.NoError(t, d.CreateTable(ctx, address))

	fields := d.FieldListFromDatabase(ctx, "Client_tbl")
	require.True(t, fields.HasValue())
	assert.Equal(t, client.FieldNames(), fields.Value().Names())

	pk := d.PrimaryKeyFromDatabase(ctx, "Client_tbl")
	require.True(t, pk.HasValue())
	assert.True(t, pk.Value().Equal(client.PrimaryKey()))

	fks := d.ForeignKeyListFromDatabase(ctx, "Address_tbl")
	require.True(t, fks.HasValue())
	require.Len(t, fks.Value(), 1)
	assert.Equal(t, "Client_tbl", fks.Value()[0].ParentTableName())

	indexes := d.IndexListFromDatabase(ctx, "Client_tbl")
	require.True(t, indexes.HasValue())
	require.Len(t, indexes.Value(), 1)
	assert.True(t, indexes.Value()[0].Equal(client.IndexList()[0]))

	t.Run("whole table", func(t *testing.T) {
		tbl, err := d.TableFromDatabase(ctx, "Address_tbl").Get()
		require.NoError(t, err)
		assert.Equal(t, d.Generator().SQLToCreateTable(address), d.Generator().SQLToCreateTable(tbl))
	})

	t.Run("unknown table", func(t *testing.T) {
		res := d.FieldListFromDatabase(ctx, "Missing_tbl")
		require.False(t, res.HasValue())
		assert.Equal(t, "Reading fields of table 'Missing_tbl' failed.", res.Err().Message())
		assert.Same(t, res.Err(), d.LastError())

		_, err := d.TableFromDatabase(ctx, "Missing_tbl").Get()
		assert.Error(t, err)
	})
}

func typesTable() *schema.Table {
	defaults := map[schema.FieldType]any{
		schema.Boolean:  true,
		schema.Integer:  5,
		schema.Float:    1.5,
		schema.Double:   2.5,
		schema.Varchar:  "Default name",
		schema.Date:     "2024-01-31",
		schema.Time:     "12:30:00",
		schema.DateTime: "2024-01-31 12:30:00",
	}

	tbl := schema.NewTable("Types_tbl")
	tbl.SetPrimaryKey(schema.NewField("IdA_PK", schema.Integer), schema.NewField("IdB_PK", schema.Integer))
	for _, typ := range schema.AvailableFieldTypes() {
		plain := schema.NewField(typ.Name()+"_plain", typ)
		full := schema.NewField(typ.Name()+"_full", typ)
		if typ == schema.Varchar {
			plain.SetLength(20)
			full.SetLength(150)
			full.SetCaseSensitive(false)
		}
		if typ == schema.Integer {
			full.SetUnsigned(true)
		}
		full.SetRequired(true)
		full.SetUnique(true)
		full.SetDefaultValue(defaults[typ])
		tbl.AddField(plain)
		tbl.AddField(full)
	}
	binary := schema.NewVarchar("Code", 10)
	binary.SetCaseSensitive(true)
	tbl.AddField(binary)
	return tbl
}

func linkTable() *schema.Table {
	tbl := schema.NewTable("Link_tbl")
	tbl.SetAutoIncrementPrimaryKey("Id_PK")
	tbl.AddForeignKey([]schema.Field{schema.NewField("RefA", schema.Integer), schema.NewField("RefB", schema.Integer)},
		"Types_tbl", []string{"IdA_PK", "IdB_PK"},
		schema.ForeignKeySettings{OnDelete: schema.Cascade, OnUpdate: schema.SetNull})
	tbl.AddForeignKey([]schema.Field{schema.NewField("Client_Id_FK", schema.Integer)},
		"Client_tbl", []string{"Id_PK"},
		schema.ForeignKeySettings{OnDelete: schema.Restrict, OnUpdate: schema.NoAction, CreateIndex: true})
	return tbl
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	d := newSQLiteDriver(t)
	types, link := typesTable(), linkTable()
	require.NoError(t, d.CreateTable(ctx, clientTable()))
	require.NoError(t, d.CreateTable(ctx, types))
	require.NoError(t, d.CreateTable(ctx, link))

	t.Run("fields", func(t *testing.T) {
		fields, err := d.FieldListFromDatabase(ctx, "Types_tbl").Get()
		require.NoError(t, err)
		want := types.FieldList()
		require.Len(t, fields, len(want))
		for i, f := range want {
			t.Run(f.Name(), func(t *testing.T) {
				got := fields[i]
				assert.Truef(t, f.Equal(got), "want %+v, got %+v", f, got)
			})
		}
	})

	t.Run("composite primary key", func(t *testing.T) {
		pk, err := d.PrimaryKeyFromDatabase(ctx, "Types_tbl").Get()
		require.NoError(t, err)
		assert.Equal(t, schema.CompositeKey, pk.Kind())
		assert.True(t, pk.Equal(types.PrimaryKey()))
	})

	t.Run("foreign keys", func(t *testing.T) {
		fks, err := d.ForeignKeyListFromDatabase(ctx, "Link_tbl").Get()
		require.NoError(t, err)
		require.Len(t, fks, 2)
		for _, want := range link.ForeignKeyList() {
			t.Run(want.ParentTableName(), func(t *testing.T) {
				var got schema.ForeignKey
				for _, fk := range fks {
					if fk.ParentTableName() == want.ParentTableName() {
						got = fk
					}
				}
				assert.Truef(t, want.Equal(got), "want %+v, got %+v", want, got)
			})
		}
	})

	t.Run("boolean default is a bool", func(t *testing.T) {
		fields, err := d.FieldListFromDatabase(ctx, "Types_tbl").Get()
		require.NoError(t, err)
		i := fields.IndexOf("BOOLEAN_full")
		require.GreaterOrEqual(t, i, 0)
		assert.Equal(t, true, fields[i].DefaultValue())
	})

	t.Run("whole table", func(t *testing.T) {
		tbl, err := d.TableFromDatabase(ctx, "Types_tbl").Get()
		require.NoError(t, err)
		assert.Equal(t, d.Generator().SQLToCreateTable(types), d.Generator().SQLToCreateTable(tbl))
	})
}

func TestUnsupportedColumnTypes(t *testing.T) {
	ctx := context.Background()
	d := newSQLiteDriver(t)
	db := d.Connection().DB()
	_, err := db.ExecContext(ctx, `CREATE TABLE "Txt_tbl" ("Id_PK" INTEGER NOT NULL PRIMARY KEY AUTOINCREMENT, "Name" VARCHAR(20), "Note" TEXT)`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE INDEX "Txt_tbl_Note_index" ON "Txt_tbl" ("Note")`)
	require.NoError(t, err)
	_, err = db.ExecContext(ctx, `CREATE INDEX "Txt_tbl_Name_index" ON "Txt_tbl" ("Name")`)
	require.NoError(t, err)

	fields, err := d.FieldListFromDatabase(ctx, "Txt_tbl").Get()
	require.NoError(t, err)
	require.Len(t, fields, 3)
	assert.Equal(t, schema.UnknownType, fields[2].Type())

	tbl, err := d.TableFromDatabase(ctx, "Txt_tbl").Get()
	require.NoError(t, err)
	assert.Equal(t, []string{"Id_PK", "Name"}, tbl.FieldNames())
	require.Len(t, tbl.IndexList(), 1)
	assert.Equal(t, "Txt_tbl_Name_index", tbl.IndexList()[0].Name())
}

func TestExecFailureWithMock(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	d, err := New(connection.NewConnection("mock", dialect.SQLite, db))
	require.NoError(t, err)

	mock.ExpectExec(`DROP VIEW IF EXISTS "V"`).WillReturnError(errors.New("disk I/O error"))
	err = d.DropView(ctx, schema.NewView("V", expression.NewEntity("T")))
	require.Error(t, err)
	assert.Equal(t, "Dropping view 'V' failed.", d.LastError().Message())
	assert.Equal(t, mdterror.UnknownError, d.LastError().Code())

	mock.ExpectExec(`DROP INDEX IF EXISTS "idx"`).WillReturnResult(sqlmock.NewResult(0, 0))
	idx := schema.NewIndex("T", false, "A")
	idx.SetName("idx")
	require.NoError(t, d.DropIndex(ctx, idx))
	assert.Nil(t, d.LastError())
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectClose()
	require.NoError(t, d.Connection().Close())
	err = d.DropTable(ctx, clientTable())
	require.Error(t, err)
	assert.Equal(t, "Dropping table 'Client_tbl' failed.", d.LastError().Message())
}
