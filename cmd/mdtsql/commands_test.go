package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const schemaFile = "../../internal/schemafile/testdata/schema.toml"

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSQLCommand(t *testing.T) {
	t.Run("create script", func(t *testing.T) {
		out, err := run(t, "sql", schemaFile)
		require.NoError(t, err)
		assert.Contains(t, out, "-- mdtsql create script for sqlite\n")
		assert.Contains(t, out, `CREATE TABLE "Client_tbl" (`)
		assert.Contains(t, out, `CREATE TRIGGER "Client_insert_trg"`)
		assert.Contains(t, out, `INSERT INTO "Client_tbl" ("Name", "Age") VALUES ('Bob', 17);`)
	})

	t.Run("drop script", func(t *testing.T) {
		out, err := run(t, "sql", schemaFile, "--drop")
		require.NoError(t, err)
		assert.Contains(t, out, "-- mdtsql drop script for sqlite\n")
		assert.Contains(t, out, `DROP VIEW IF EXISTS "Client_address_view";`)
		assert.NotContains(t, out, "INSERT")
	})

	t.Run("mysql validated", func(t *testing.T) {
		out, err := run(t, "sql", schemaFile, "--dialect", "mysql", "--validate", "-f", "json")
		require.NoError(t, err)

		var payload map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &payload))
		assert.Equal(t, "create", payload["operation"])
		assert.Equal(t, "mysql", payload["dialect"])
	})

	t.Run("sqlite cannot validate", func(t *testing.T) {
		_, err := run(t, "sql", schemaFile, "--validate")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot validate SQL")
	})

	t.Run("output file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "create.sql")
		out, err := run(t, "sql", schemaFile, "-o", path)
		require.NoError(t, err)
		assert.Empty(t, out)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `CREATE VIEW "Client_address_view"`)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := run(t, "sql", "missing.toml")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `failed to parse schema "missing.toml"`)

		_, err = run(t, "sql", schemaFile, "-f", "xml")
		require.Error(t, err)

		_, err = run(t, "sql", schemaFile, "--dialect", "oracle")
		require.Error(t, err)
	})
}

func TestSchemaLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}
	db := filepath.Join(t.TempDir(), "app.db")

	out, err := run(t, "create", schemaFile, "--db", db)
	require.NoError(t, err)
	assert.Equal(t, "Created 2 table(s), 1 trigger(s), 1 view(s) and inserted 2 row(s)\n", out)

	_, err = run(t, "create", schemaFile, "--db", db)
	require.Error(t, err, "tables already exist")

	out, err = run(t, "inspect", "Client_tbl", "--db", db, "-f", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "Table Client_tbl (sqlite)\n")
	assert.Contains(t, out, "Primary key: auto increment [Id_PK]\n")
	assert.Contains(t, out, "varchar(100)")

	out, err = run(t, "inspect", "Address_tbl", "--db", db, "-f", "json")
	require.NoError(t, err)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "Address_tbl", payload["name"])
	assert.Len(t, payload["foreignKeys"], 1)

	_, err = run(t, "inspect", "Missing_tbl", "--db", db)
	require.Error(t, err)

	_, err = run(t, "drop", schemaFile, "--db", db)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "use --unsafe")

	out, err = run(t, "drop", schemaFile, "--db", db, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, `DROP TABLE IF EXISTS "Address_tbl";`)

	out, err = run(t, "drop", schemaFile, "--db", db, "--unsafe")
	require.NoError(t, err)
	assert.Equal(t, "Dropped 1 view(s) and 2 table(s)\n", out)
}
