package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"mdtsql/internal/config"
	"mdtsql/internal/connection"
	"mdtsql/internal/dialect"
	"mdtsql/internal/dialect/mysql"
	_ "mdtsql/internal/dialect/sqlite"
	"mdtsql/internal/driver"
	"mdtsql/internal/output"
	"mdtsql/internal/schema"
	"mdtsql/internal/schemafile"
)

// globalOptions are the persistent flags. Flags set on the command line
// override the configuration file.
type globalOptions struct {
	configPath string
	dialect    string
	path       string
	dsn        string
	charset    string
	logLevel   string
	logFormat  string
	format     string
}

type app struct {
	opts   globalOptions
	out    io.Writer
	errOut io.Writer
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{out: out, errOut: errOut}

	rootCmd := &cobra.Command{
		Use:           "mdtsql",
		Short:         "Typed SQL schema tool for SQLite and MySQL",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.opts.configPath, "config", "c", "", "Path to a TOML configuration file")
	flags.StringVar(&a.opts.dialect, "dialect", "", "Database dialect: sqlite or mysql")
	flags.StringVar(&a.opts.path, "db", "", "SQLite database file")
	flags.StringVar(&a.opts.dsn, "dsn", "", "MySQL data source name, e.g. user:pass@tcp(localhost:3306)/db")
	flags.StringVar(&a.opts.charset, "charset", "", "MySQL charset collation names are built from")
	flags.StringVar(&a.opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&a.opts.logFormat, "log-format", "", "Log format: text or json")
	flags.StringVarP(&a.opts.format, "format", "f", "", "Output format: sql, json or summary")

	rootCmd.AddCommand(a.sqlCmd())
	rootCmd.AddCommand(a.createCmd())
	rootCmd.AddCommand(a.dropCmd())
	rootCmd.AddCommand(a.inspectCmd())
	return rootCmd
}

// config loads the configuration file, when given, and applies the flags.
func (a *app) config() (*config.Config, error) {
	cfg := config.Default("")
	if a.opts.configPath != "" {
		loaded, err := config.Load(a.opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	db := &cfg.Database
	if a.opts.dialect != "" {
		db.Dialect = a.opts.dialect
	}
	if a.opts.path != "" {
		db.Path = a.opts.path
	}
	if a.opts.dsn != "" {
		db.DSN = a.opts.dsn
	}
	if a.opts.charset != "" {
		db.Charset = a.opts.charset
	}
	if a.opts.logLevel != "" {
		cfg.Log.Level = a.opts.logLevel
	}
	if a.opts.logFormat != "" {
		cfg.Log.Format = a.opts.logFormat
	}
	return cfg, nil
}

func (a *app) logger(cfg *config.Config) (*slog.Logger, error) {
	return cfg.Log.NewLogger(a.errOut)
}

// newDialect returns the dialect of cfg. MySQL gets the configured charset.
func newDialect(cfg *config.Config) (dialect.Dialect, error) {
	t, err := cfg.Database.DialectType()
	if err != nil {
		return nil, err
	}
	if t == dialect.MySQL {
		return mysql.New(mysql.WithCharset(cfg.Database.Charset)), nil
	}
	return dialect.GetDialect(t)
}

func (a *app) formatter() (output.Formatter, error) {
	return output.NewFormatter(a.opts.format)
}

// session is an open connection with its schema driver.
type session struct {
	registry *connection.Registry
	driver   *driver.Driver
	logger   *slog.Logger
}

func (s *session) Close() error {
	return s.registry.Close()
}

// openSession validates cfg and connects. mode overrides the SQLite open mode.
func (a *app) openSession(ctx context.Context, cfg *config.Config, mode connection.OpenMode) (*session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	logger, err := a.logger(cfg)
	if err != nil {
		return nil, err
	}
	d, err := newDialect(cfg)
	if err != nil {
		return nil, err
	}
	params, err := cfg.Database.Parameters(mode)
	if err != nil {
		return nil, err
	}

	reg := connection.NewRegistry(connection.WithLogger(logger))
	conn, err := reg.Add(ctx, params)
	if err != nil {
		return nil, err
	}
	drv, err := driver.New(conn, driver.WithDialect(d), driver.WithLogger(logger))
	if err != nil {
		_ = reg.Close()
		return nil, err
	}
	return &session{registry: reg, driver: drv, logger: logger}, nil
}

func (a *app) timeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, cfg.Database.Timeout)
}

func (a *app) print(s string) error {
	_, err := io.WriteString(a.out, s)
	return err
}

func writeOutput(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func parseSchemaFile(path string) (*schema.Schema, error) {
	s, err := schemafile.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema %q: %w", path, err)
	}
	return s, nil
}
