// Package config loads the mdtsql configuration file:
//
//	[database]
//	dialect = "sqlite"
//	path = "app.db"
//	open_mode = "rwc"
//
//	[log]
//	level = "debug"
//	format = "json"
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"mdtsql/internal/connection"
	"mdtsql/internal/dialect"
)

const defaultTimeout = 30 * time.Second

type Config struct {
	Database Database `toml:"database"`
	Log      Log      `toml:"log"`
}

// Database selects the connection. Path is used by SQLite, DSN by MySQL.
type Database struct {
	Name     string        `toml:"name"`
	Dialect  string        `toml:"dialect" validate:"required"`
	Path     string        `toml:"path"`
	DSN      string        `toml:"dsn"`
	OpenMode string        `toml:"open_mode" validate:"omitempty,oneof=ro rw rwc"`
	Charset  string        `toml:"charset" validate:"omitempty,alphanum,lowercase"`
	Timeout  time.Duration `toml:"timeout" validate:"gte=0"`
}

type Log struct {
	// debug, info, warn or error
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error"`
	// text or json
	Format string `toml:"format" validate:"omitempty,oneof=text json"`
}

// Default returns a configuration for a SQLite database at path.
func Default(path string) *Config {
	return &Config{
		Database: Database{Dialect: string(dialect.SQLite), Path: path, OpenMode: string(connection.ReadWrite), Timeout: defaultTimeout},
		Log:      Log{Level: "info", Format: "text"},
	}
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open file %q: %w", path, err)
	}
	defer f.Close()

	return Decode(f)
}

// Decode reads and validates a TOML configuration. Unknown keys are rejected.
func Decode(r io.Reader) (*Config, error) {
	cfg := &Config{}
	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		return nil, fmt.Errorf("config: decode error: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: unknown key %q", undecoded[0].String())
	}
	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) setDefaults() {
	if c.Database.Timeout == 0 {
		c.Database.Timeout = defaultTimeout
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks field values, then the settings each dialect requires.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	t, err := c.Database.DialectType()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	switch t {
	case dialect.SQLite:
		if c.Database.Path == "" {
			return fmt.Errorf("config: database.path is required for %s", t)
		}
	case dialect.MySQL:
		if c.Database.DSN == "" {
			return fmt.Errorf("config: database.dsn is required for %s", t)
		}
	}
	return nil
}

func (d Database) DialectType() (dialect.Type, error) {
	return dialect.ParseType(d.Dialect)
}

// Parameters returns the connection parameters. mode overrides the configured
// open mode of SQLite databases when not empty.
func (d Database) Parameters(mode connection.OpenMode) (connection.Parameters, error) {
	t, err := d.DialectType()
	if err != nil {
		return connection.Parameters{}, err
	}
	if t == dialect.MySQL {
		return connection.Parameters{Name: d.Name, Driver: t, DSN: d.DSN}, nil
	}
	if mode == "" {
		parsed, ok := connection.ParseOpenMode(d.OpenMode)
		if !ok {
			return connection.Parameters{}, fmt.Errorf("unsupported open mode %q", d.OpenMode)
		}
		mode = parsed
	}
	return connection.SQLiteParameters{Path: d.Path, OpenMode: mode}.Parameters(d.Name), nil
}

// NewLogger builds the logger described by l, writing to w.
func (l Log) NewLogger(w io.Writer) (*slog.Logger, error) {
	level, err := parseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(l.Format) {
	case "", "text":
		handler = slog.NewTextHandler(w, opts)
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		return nil, fmt.Errorf("unsupported log format: %s", l.Format)
	}
	return slog.New(handler), nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown level %q", level)
}
