package mysql

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcmysql "github.com/testcontainers/testcontainers-go/modules/mysql"

	"mdtsql/internal/dialect"
	"mdtsql/internal/schema"
)

func setupMySQL(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	mysqlContainer, err := tcmysql.Run(ctx, "mysql:8.0",
		tcmysql.WithDatabase("testdb"),
		tcmysql.WithUsername("root"),
		tcmysql.WithPassword("testpass"),
	)
	require.NoError(t, err, "failed to start MySQL container")

	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(mysqlContainer); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := mysqlContainer.ConnectionString(ctx, "parseTime=true")
	require.NoError(t, err, "failed to get connection string")

	db, err := sql.Open("mysql", dsn)
	require.NoError(t, err, "failed to open DB connection")
	require.NoError(t, db.PingContext(ctx), "failed to ping database")
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Logf("failed to close DB: %v", err)
		}
	})
	return db
}

func TestIntrospectIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	db := setupMySQL(t)
	ctx := context.Background()
	d := New()
	g := dialect.NewGenerator(d)

	client := schema.NewTable("Client_tbl")
	client.SetAutoIncrementPrimaryKey("Id_PK")
	name := schema.NewVarchar("Name", 50)
	name.SetRequired(true)
	name.SetDefaultValue("Default name")
	name.SetCaseSensitive(false)
	client.AddField(name)
	code := schema.NewVarchar("Code", 10)
	code.SetUnique(true)
	client.AddField(code)
	age := schema.NewField("Age", schema.Integer)
	age.SetUnsigned(true)
	age.SetDefaultValue(18)
	client.AddField(age)
	client.AddField(schema.NewField("Active", schema.Boolean))
	client.AddIndex(schema.NewIndex("", false, "Name", "Age"))

	link := schema.NewTable("Link_tbl")
	link.SetPrimaryKey(schema.NewField("IdA_PK", schema.Integer), schema.NewField("IdB_PK", schema.Integer))
	link.AddForeignKey([]schema.Field{schema.NewField("IdA_PK", schema.Integer)}, "Client_tbl", []string{"Id_PK"},
		schema.ForeignKeySettings{OnDelete: schema.Cascade})
	link.AddForeignKey([]schema.Field{schema.NewField("IdB_PK", schema.Integer)}, "Client_tbl", []string{"Id_PK"},
		schema.ForeignKeySettings{OnDelete: schema.Cascade, OnUpdate: schema.Cascade, CreateIndex: true})

	for _, tbl := range []*schema.Table{client, link} {
		_, err := db.ExecContext(ctx, g.SQLToCreateTable(tbl))
		require.NoError(t, err)
		for _, idx := range dialect.TableIndexes(tbl) {
			_, err := db.ExecContext(ctx, g.SQLToCreateIndex(idx))
			require.NoError(t, err)
		}
	}

	in := d.Introspecter()

	t.Run("fields", func(t *testing.T) {
		fields, err := in.FieldList(ctx, db, "Client_tbl")
		require.NoError(t, err)
		want := client.FieldList()
		require.Len(t, fields, len(want))
		for i := range want {
			assert.Truef(t, want[i].Equal(fields[i]), "field %s: want %+v, got %+v", want[i].Name(), want[i], fields[i])
		}
	})

	t.Run("primary keys", func(t *testing.T) {
		pk, err := in.PrimaryKey(ctx, db, "Client_tbl")
		require.NoError(t, err)
		assert.True(t, client.PrimaryKey().Equal(pk))

		pk, err = in.PrimaryKey(ctx, db, "Link_tbl")
		require.NoError(t, err)
		assert.True(t, link.PrimaryKey().Equal(pk))
	})

	t.Run("indexes", func(t *testing.T) {
		idx, err := in.IndexList(ctx, db, "Client_tbl")
		require.NoError(t, err)
		require.Len(t, idx, 1)
		assert.True(t, client.IndexList()[0].Equal(idx[0]))
	})

	t.Run("foreign keys", func(t *testing.T) {
		fks, err := in.ForeignKeyList(ctx, db, "Link_tbl")
		require.NoError(t, err)
		want := link.ForeignKeyList()
		require.Len(t, fks, len(want))
		for i := range want {
			assert.True(t, want[i].Equal(fks[i]))
		}
	})

	t.Run("unknown table", func(t *testing.T) {
		_, err := in.FieldList(ctx, db, "Missing_tbl")
		assert.Error(t, err)
		_, err = in.ForeignKeyList(ctx, db, "Missing_tbl")
		assert.Error(t, err)
	})
}
