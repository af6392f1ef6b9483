package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"mdtsql/internal/connection"
	"mdtsql/internal/dialect"
	"mdtsql/internal/output"
)

func (a *app) sqlCmd() *cobra.Command {
	var drop, validate bool
	var outFile string

	cmd := &cobra.Command{
		Use:   "sql <schema-file>",
		Short: "Print the SQL script of a schema file",
		Long: `Sql renders the statements creating (or, with --drop, dropping) the schema
described by a TOML or YAML schema file, without connecting to a database.

Examples:
  mdtsql sql schema.toml
  mdtsql sql schema.yaml --dialect mysql --charset utf8mb4 --validate
  mdtsql sql schema.toml --drop -f json -o drop.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			d, err := newDialect(cfg)
			if err != nil {
				return err
			}
			s, err := parseSchemaFile(args[0])
			if err != nil {
				return err
			}

			g := dialect.NewGenerator(d)
			script := output.NewCreateScript(g, s)
			if drop {
				script = output.NewDropScript(g, s)
			}
			if validate {
				if err := validateScript(d, script.Statements); err != nil {
					return err
				}
			}

			formatter, err := a.formatter()
			if err != nil {
				return err
			}
			formatted, err := formatter.FormatScript(script)
			if err != nil {
				return fmt.Errorf("failed to format output: %w", err)
			}
			if outFile == "" {
				return a.print(formatted)
			}
			if err := writeOutput(outFile, formatted); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(a.errOut, "Output saved to %s\n", outFile)
			return nil
		},
	}

	cmd.Flags().BoolVar(&drop, "drop", false, "Print the drop script instead of the create script")
	cmd.Flags().BoolVar(&validate, "validate", false, "Parse the generated statements with the dialect grammar (MySQL only)")
	cmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file for the script")
	return cmd
}

// validateScript parses each statement with the grammar of d. Trigger
// definitions are skipped, the grammar has no trigger statement.
func validateScript(d dialect.Dialect, stmts []string) error {
	v, ok := d.(dialect.Validator)
	if !ok {
		return fmt.Errorf("dialect %s cannot validate SQL", d.Name())
	}
	for i, stmt := range stmts {
		upper := strings.ToUpper(stmt)
		if strings.HasPrefix(upper, "CREATE TRIGGER") || strings.HasPrefix(upper, "CREATE TEMPORARY TRIGGER") {
			continue
		}
		if err := v.ValidateSQL(stmt); err != nil {
			return fmt.Errorf("statement %d: %w", i+1, err)
		}
	}
	return nil
}

func (a *app) createCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "create <schema-file>",
		Short: "Create the tables, triggers, views and rows of a schema file",
		Long: `Create connects to the configured database and creates the schema. A
missing SQLite database file is created.

Examples:
  mdtsql create schema.toml --db app.db
  mdtsql create schema.toml --dialect mysql --dsn "user:pass@tcp(localhost:3306)/mydb"
  mdtsql create schema.toml -c mdtsql.toml --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runSchemaCommand(cmd.Context(), args[0], output.OperationCreate, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print the statements without executing them")
	return cmd
}

func (a *app) dropCmd() *cobra.Command {
	var dryRun, unsafe bool

	cmd := &cobra.Command{
		Use:   "drop <schema-file>",
		Short: "Drop the views and tables of a schema file",
		Long: `Drop removes the views and tables of the schema, in reverse declaration
order. Dropping a table deletes its data, so --unsafe is required.

Examples:
  mdtsql drop schema.toml --db app.db --dry-run
  mdtsql drop schema.toml --db app.db --unsafe`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !dryRun && !unsafe {
				return fmt.Errorf("drop deletes tables and their data; use --unsafe to proceed or --dry-run to review")
			}
			return a.runSchemaCommand(cmd.Context(), args[0], output.OperationDrop, dryRun)
		},
	}

	cmd.Flags().BoolVarP(&dryRun, "dry-run", "d", false, "Print the statements without executing them")
	cmd.Flags().BoolVarP(&unsafe, "unsafe", "u", false, "Allow dropping tables and their data")
	return cmd
}

func (a *app) runSchemaCommand(ctx context.Context, path string, op output.Operation, dryRun bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := a.config()
	if err != nil {
		return err
	}
	s, err := parseSchemaFile(path)
	if err != nil {
		return err
	}

	if dryRun {
		d, err := newDialect(cfg)
		if err != nil {
			return err
		}
		g := dialect.NewGenerator(d)
		script := output.NewCreateScript(g, s)
		if op == output.OperationDrop {
			script = output.NewDropScript(g, s)
		}
		formatter, err := a.formatter()
		if err != nil {
			return err
		}
		formatted, err := formatter.FormatScript(script)
		if err != nil {
			return fmt.Errorf("failed to format output: %w", err)
		}
		return a.print(formatted)
	}

	mode := connection.ReadWrite
	if op == output.OperationCreate {
		mode = connection.ReadWriteCreate
	}
	sess, err := a.openSession(ctx, cfg, mode)
	if err != nil {
		return err
	}
	defer func() {
		if err := sess.Close(); err != nil {
			sess.logger.Warn("failed to close database connection", "error", err)
		}
	}()

	ctx, cancel := a.timeout(ctx, cfg)
	defer cancel()

	if op == output.OperationDrop {
		if err := sess.driver.DropSchema(ctx, s); err != nil {
			return err
		}
		return a.print(fmt.Sprintf("Dropped %d view(s) and %d table(s)\n", s.ViewCount(), s.TableCount()))
	}
	if err := sess.driver.CreateSchema(ctx, s); err != nil {
		return err
	}
	rows := 0
	for _, p := range s.TablePopulations() {
		rows += p.RowCount()
	}
	return a.print(fmt.Sprintf("Created %d table(s), %d trigger(s), %d view(s) and inserted %d row(s)\n",
		s.TableCount(), len(s.Triggers()), s.ViewCount(), rows))
}

func (a *app) inspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <table>...",
		Short: "Read table definitions back from the database",
		Long: `Inspect reads the columns, primary key, foreign keys and indexes of tables
from the configured database. SQLite databases are opened read only.
Columns of a type mdtsql does not model, such as TEXT or BLOB, are left out
along with the keys and indexes using them; a warning is logged for each.

Examples:
  mdtsql inspect Client_tbl --db app.db
  mdtsql inspect Client_tbl Address_tbl --db app.db -f json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cfg, err := a.config()
			if err != nil {
				return err
			}
			formatter, err := a.formatter()
			if err != nil {
				return err
			}
			sess, err := a.openSession(ctx, cfg, connection.ReadOnly)
			if err != nil {
				return err
			}
			defer func() {
				if err := sess.Close(); err != nil {
					sess.logger.Warn("failed to close database connection", "error", err)
				}
			}()

			ctx, cancel := a.timeout(ctx, cfg)
			defer cancel()

			for _, name := range args {
				t, err := sess.driver.TableFromDatabase(ctx, name).Get()
				if err != nil {
					return err
				}
				formatted, err := formatter.FormatTable(output.NewTableReport(sess.driver.Generator(), t))
				if err != nil {
					return fmt.Errorf("failed to format output: %w", err)
				}
				if err := a.print(formatted); err != nil {
					return err
				}
			}
			return nil
		},
	}
	return cmd
}
