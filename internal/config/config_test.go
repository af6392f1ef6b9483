package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mdtsql/internal/connection"
	"mdtsql/internal/dialect"
)

func TestDecode(t *testing.T) {
	t.Run("sqlite with defaults", func(t *testing.T) {
		cfg, err := Decode(strings.NewReader("[database]\ndialect = \"sqlite3\"\npath = \"app.db\"\n"))
		require.NoError(t, err)
		assert.Equal(t, 30*time.Second, cfg.Database.Timeout)
		assert.Equal(t, "info", cfg.Log.Level)
		assert.Equal(t, "text", cfg.Log.Format)

		p, err := cfg.Database.Parameters("")
		require.NoError(t, err)
		assert.Equal(t, connection.Parameters{Driver: dialect.SQLite, DSN: "file:app.db?mode=rw"}, p)

		p, err = cfg.Database.Parameters(connection.ReadOnly)
		require.NoError(t, err)
		assert.Equal(t, "file:app.db?mode=ro", p.DSN)
	})

	t.Run("mysql", func(t *testing.T) {
		doc := "[database]\nname = \"main\"\ndialect = \"mariadb\"\ndsn = \"u:p@tcp(localhost:3306)/db\"\ncharset = \"utf8\"\ntimeout = \"5s\"\n" +
			"[log]\nlevel = \"debug\"\nformat = \"json\"\n"
		cfg, err := Decode(strings.NewReader(doc))
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, cfg.Database.Timeout)

		p, err := cfg.Database.Parameters(connection.ReadOnly)
		require.NoError(t, err)
		assert.Equal(t, connection.Parameters{Name: "main", Driver: dialect.MySQL, DSN: "u:p@tcp(localhost:3306)/db"}, p)
	})

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"missing dialect", "[database]\npath = \"a.db\"\n", "Dialect"},
		{"unknown dialect", "[database]\ndialect = \"oracle\"\n", `unsupported dialect "oracle"`},
		{"sqlite without path", "[database]\ndialect = \"sqlite\"\n", "database.path is required"},
		{"mysql without dsn", "[database]\ndialect = \"mysql\"\n", "database.dsn is required"},
		{"open mode", "[database]\ndialect = \"sqlite\"\npath = \"a.db\"\nopen_mode = \"rx\"\n", "OpenMode"},
		{"log level", "[database]\ndialect = \"sqlite\"\npath = \"a.db\"\n[log]\nlevel = \"trace\"\n", "Level"},
		{"log format", "[database]\ndialect = \"sqlite\"\npath = \"a.db\"\n[log]\nformat = \"xml\"\n", "Format"},
		{"charset", "[database]\ndialect = \"mysql\"\ndsn = \"x\"\ncharset = \"UTF8\"\n", "Charset"},
		{"unknown key", "[database]\ndialect = \"sqlite\"\npath = \"a.db\"\nport = 1\n", "unknown key"},
		{"bad toml", "[database\n", "decode error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mdtsql.toml")
	require.NoError(t, os.WriteFile(path, []byte("[database]\ndialect = \"sqlite\"\npath = \"a.db\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "a.db", cfg.Database.Path)

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDefault(t *testing.T) {
	cfg := Default("x.db")
	require.NoError(t, cfg.Validate())
	p, err := cfg.Database.Parameters("")
	require.NoError(t, err)
	assert.Equal(t, "file:x.db?mode=rw", p.DSN)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger, err := Log{Level: "warn", Format: "json"}.NewLogger(&buf)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "table", "Client_tbl")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), `"table":"Client_tbl"`)

	buf.Reset()
	logger, err = Log{Level: "debug"}.NewLogger(&buf)
	require.NoError(t, err)
	logger.Debug("statement", "sql", "DROP TABLE x")
	assert.Contains(t, buf.String(), "level=DEBUG")

	_, err = Log{Level: "trace"}.NewLogger(&buf)
	assert.Error(t, err)
	_, err = Log{Format: "xml"}.NewLogger(&buf)
	assert.Error(t, err)
}
