package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"mdtsql/internal/dialect"
	"mdtsql/internal/schema"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func createTables(t *testing.T, db *sql.DB, tables ...*schema.Table) {
	t.Helper()
	g := newGenerator()
	for _, tbl := range tables {
		_, err := db.ExecContext(context.Background(), g.SQLToCreateTable(tbl))
		require.NoError(t, err)
		for _, idx := range dialect.TableIndexes(tbl) {
			_, err := db.ExecContext(context.Background(), g.SQLToCreateIndex(idx))
			require.NoError(t, err)
		}
	}
}

func clientTable() *schema.Table {
	tbl := schema.NewTable("Client_tbl")
	tbl.SetAutoIncrementPrimaryKey("Id_PK")

	name := schema.NewVarchar("Name", 50)
	name.SetRequired(true)
	name.SetDefaultValue("Default name")
	name.SetCaseSensitive(false)
	tbl.AddField(name)

	code := schema.NewVarchar("Code", 10)
	code.SetUnique(true)
	tbl.AddField(code)

	age := schema.NewField("Age", schema.Integer)
	age.SetUnsigned(true)
	age.SetDefaultValue(18)
	tbl.AddField(age)

	tbl.AddField(schema.NewField("Ratio", schema.Double))
	tbl.AddField(schema.NewField("Born", schema.Date))

	idx := schema.NewIndex("", false, "Name", "Age")
	tbl.AddIndex(idx)
	return tbl
}

func linkTable() *schema.Table {
	tbl := schema.NewTable("Link_tbl")
	tbl.SetPrimaryKey(schema.NewField("IdA_PK", schema.Integer), schema.NewField("IdB_PK", schema.Integer))
	tbl.AddForeignKey([]schema.Field{schema.NewField("IdA_PK", schema.Integer)}, "Client_tbl", []string{"Id_PK"},
		schema.ForeignKeySettings{OnDelete: schema.Cascade, OnUpdate: schema.Restrict})
	tbl.AddForeignKey([]schema.Field{schema.NewField("IdB_PK", schema.Integer)}, "Client_tbl", []string{"Id_PK"},
		schema.ForeignKeySettings{OnDelete: schema.SetNull, CreateIndex: true})
	return tbl
}

func TestIntrospectRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	client, link := clientTable(), linkTable()
	createTables(t, db, client, link)
	in := New().Introspecter()

	t.Run("fields", func(t *testing.T) {
		fields, err := in.FieldList(ctx, db, "Client_tbl")
		require.NoError(t, err)

		want := client.FieldList()
		require.Len(t, fields, len(want))
		for i := range want {
			assert.Truef(t, want[i].Equal(fields[i]), "field %s: want %+v, got %+v", want[i].Name(), want[i], fields[i])
		}
	})

	t.Run("auto increment primary key", func(t *testing.T) {
		pk, err := in.PrimaryKey(ctx, db, "Client_tbl")
		require.NoError(t, err)
		assert.Equal(t, schema.AutoIncrementKey, pk.Kind())
		assert.True(t, client.PrimaryKey().Equal(pk))
	})

	t.Run("composite primary key", func(t *testing.T) {
		pk, err := in.PrimaryKey(ctx, db, "Link_tbl")
		require.NoError(t, err)
		assert.Equal(t, schema.CompositeKey, pk.Kind())
		assert.Equal(t, []string{"IdA_PK", "IdB_PK"}, pk.FieldNames())
	})

	t.Run("indexes", func(t *testing.T) {
		idx, err := in.IndexList(ctx, db, "Client_tbl")
		require.NoError(t, err)
		require.Len(t, idx, 1)
		assert.True(t, client.IndexList()[0].Equal(idx[0]))

		idx, err = in.IndexList(ctx, db, "Link_tbl")
		require.NoError(t, err)
		require.Len(t, idx, 1)
		assert.Equal(t, "Link_tbl_IdB_PK_index", idx[0].Name())
	})

	t.Run("foreign keys are reported in reverse order", func(t *testing.T) {
		fks, err := in.ForeignKeyList(ctx, db, "Link_tbl")
		require.NoError(t, err)
		want := link.ForeignKeyList()
		require.Len(t, fks, 2)
		assert.True(t, want[1].Equal(fks[0]))
		assert.True(t, want[0].Equal(fks[1]))
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := in.FieldList(ctx, db, "Missing_tbl")
		assert.Error(t, err)
		_, err = in.PrimaryKey(ctx, db, "Missing_tbl")
		assert.Error(t, err)
	})
}

func TestParseDefault(t *testing.T) {
	tests := []struct {
		in   sql.NullString
		want any
	}{
		{sql.NullString{}, nil},
		{sql.NullString{String: "NULL", Valid: true}, nil},
		{sql.NullString{String: `"Default name"`, Valid: true}, "Default name"},
		{sql.NullString{String: `'O''Hara'`, Valid: true}, "O'Hara"},
		{sql.NullString{String: "18", Valid: true}, int64(18)},
		{sql.NullString{String: "0.5", Valid: true}, 0.5},
		{sql.NullString{String: "CURRENT_TIMESTAMP", Valid: true}, "CURRENT_TIMESTAMP"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, parseDefault(tt.in))
	}
}

func TestColumnCollations(t *testing.T) {
	got := columnCollations("CREATE TABLE \"T\" (\n  \"A\" VARCHAR(10) DEFAULT \"x,y\" COLLATE NOCASE,\n  \"B\" VARCHAR(10) DEFAULT NULL COLLATE BINARY,\n  \"C\" INTEGER DEFAULT NULL\n)")
	assert.Equal(t, map[string]schema.Collation{
		"a": schema.NewCollation(false),
		"b": schema.NewCollation(true),
	}, got)
}
