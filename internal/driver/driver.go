// Package driver applies a schema to a live connection and reads table
// structures back from it. Every failing operation returns a *mdterror.Error,
// also kept as LastError, whose stacked cause is the native database error.
package driver

import (
	"context"
	"fmt"
	"log/slog"

	"mdtsql/internal/connection"
	"mdtsql/internal/dialect"
	"mdtsql/internal/errordriver"
	"mdtsql/internal/mdterror"
	"mdtsql/internal/schema"
	"mdtsql/internal/statement"
)

const source = "Driver"

type Driver struct {
	conn    *connection.Connection
	dialect dialect.Dialect
	gen     *dialect.Generator
	errs    errordriver.ErrorDriver
	logger  *slog.Logger
	lastErr *mdterror.Error
}

type Option func(*Driver)

func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithDialect overrides the registered dialect of the connection, for example
// to use a MySQL dialect with another charset.
func WithDialect(dl dialect.Dialect) Option {
	return func(d *Driver) {
		if dl != nil {
			d.dialect = dl
		}
	}
}

// New returns a driver working on conn with the dialect registered for it.
func New(conn *connection.Connection, opts ...Option) (*Driver, error) {
	if conn == nil {
		return nil, fmt.Errorf("driver requires a connection")
	}
	d := &Driver{
		conn:   conn,
		errs:   errordriver.New(conn.Dialect()),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.dialect == nil {
		dl, err := dialect.GetDialect(conn.Dialect())
		if err != nil {
			return nil, fmt.Errorf("driver for connection %q: %w", conn.Name(), err)
		}
		d.dialect = dl
	}
	d.gen = dialect.NewGenerator(d.dialect)
	return d, nil
}

func (d *Driver) Connection() *connection.Connection {
	return d.conn
}

func (d *Driver) Dialect() dialect.Dialect {
	return d.dialect
}

func (d *Driver) Generator() *dialect.Generator {
	return d.gen
}

// LastError returns the error of the last failed operation, nil if the last
// operation succeeded.
func (d *Driver) LastError() *mdterror.Error {
	return d.lastErr
}

func (d *Driver) fail(err *mdterror.Error) *mdterror.Error {
	d.lastErr = err
	return err
}

// exec runs one statement. Failures are reported with message and the native
// error stacked, always at critical level.
func (d *Driver) exec(ctx context.Context, query, message string) error {
	if !d.conn.IsOpen() {
		return d.fail(mdterror.New(message, mdterror.LevelCritical, source).
			Stack(mdterror.New("The connection is closed.", mdterror.LevelCritical, source)))
	}
	d.logger.DebugContext(ctx, "executing statement", slog.String("connection", d.conn.Name()), slog.String("sql", query))
	if _, err := d.conn.DB().ExecContext(ctx, query); err != nil {
		return d.fail(d.errs.Wrap(err, message, source).WithLevel(mdterror.LevelCritical))
	}
	d.lastErr = nil
	return nil
}

// CreateTable creates t with the indexes of its indexed foreign keys and its own
// indexes.
func (d *Driver) CreateTable(ctx context.Context, t *schema.Table) error {
	if err := d.exec(ctx, d.gen.SQLToCreateTable(t), fmt.Sprintf("Creating table '%s' failed.", t.TableName())); err != nil {
		return err
	}
	for _, idx := range dialect.TableIndexes(t) {
		if err := d.CreateIndex(ctx, idx); err != nil {
			return d.fail(mdterror.Newf(mdterror.LevelCritical, source, "Creating table '%s' failed.", t.TableName()).
				Stack(d.lastErr))
		}
	}
	return nil
}

func (d *Driver) DropTable(ctx context.Context, t *schema.Table) error {
	return d.exec(ctx, d.gen.SQLToDropTable(t), fmt.Sprintf("Dropping table '%s' failed.", t.TableName()))
}

func (d *Driver) CreateIndex(ctx context.Context, idx schema.Index) error {
	return d.exec(ctx, d.gen.SQLToCreateIndex(idx), fmt.Sprintf("Creating index '%s' failed.", idx.Name()))
}

func (d *Driver) DropIndex(ctx context.Context, idx schema.Index) error {
	return d.exec(ctx, d.gen.SQLToDropIndex(idx), fmt.Sprintf("Dropping index '%s' failed.", idx.Name()))
}

func (d *Driver) CreateView(ctx context.Context, v *schema.View) error {
	return d.exec(ctx, d.gen.SQLToCreateView(v), fmt.Sprintf("Creating view '%s' failed.", v.Name()))
}

func (d *Driver) DropView(ctx context.Context, v *schema.View) error {
	return d.exec(ctx, d.gen.SQLToDropView(v), fmt.Sprintf("Dropping view '%s' failed.", v.Name()))
}

func (d *Driver) CreateTrigger(ctx context.Context, tr schema.Trigger) error {
	return d.exec(ctx, d.gen.SQLToCreateTrigger(tr), fmt.Sprintf("Creating trigger '%s' failed.", tr.Name))
}

func (d *Driver) DropTrigger(ctx context.Context, tr schema.Trigger) error {
	return d.exec(ctx, d.gen.SQLToDropTrigger(tr), fmt.Sprintf("Dropping trigger '%s' failed.", tr.Name))
}

// PopulateTable inserts the rows of p, one prepared INSERT per row.
func (d *Driver) PopulateTable(ctx context.Context, p *schema.TablePopulation) error {
	message := fmt.Sprintf("Populating table '%s' failed.", p.TableName())
	if !d.conn.IsOpen() {
		return d.exec(ctx, "", message)
	}
	for _, row := range p.Rows() {
		stmt := statement.NewInsertStatement(p.TableName())
		for i, name := range p.FieldNames() {
			stmt.AddValue(statement.FieldName(name), row[i])
		}
		query := stmt.ToPrepareStatementSQL(d.dialect)
		d.logger.DebugContext(ctx, "executing statement", slog.String("connection", d.conn.Name()), slog.String("sql", query))
		if _, err := d.conn.DB().ExecContext(ctx, query, stmt.ToValueList()...); err != nil {
			return d.fail(d.errs.Wrap(err, message, source).WithLevel(mdterror.LevelCritical))
		}
	}
	d.lastErr = nil
	return nil
}

// CreateSchema creates the tables, then the triggers, the views and finally
// inserts the table populations. It stops at the first failure.
func (d *Driver) CreateSchema(ctx context.Context, s *schema.Schema) error {
	steps := make([]func() error, 0, s.TableCount()+len(s.Triggers())+s.ViewCount()+len(s.TablePopulations()))
	for _, t := range s.Tables() {
		steps = append(steps, func() error { return d.CreateTable(ctx, t) })
	}
	for _, tr := range s.Triggers() {
		steps = append(steps, func() error { return d.CreateTrigger(ctx, tr) })
	}
	for _, v := range s.Views() {
		steps = append(steps, func() error { return d.CreateView(ctx, v) })
	}
	for _, p := range s.TablePopulations() {
		steps = append(steps, func() error { return d.PopulateTable(ctx, p) })
	}
	return d.run(steps, "Creating schema failed.")
}

// DropSchema drops the views then the tables, both in reverse declaration order.
func (d *Driver) DropSchema(ctx context.Context, s *schema.Schema) error {
	views, tables := s.Views(), s.Tables()
	steps := make([]func() error, 0, len(views)+len(tables))
	for i := len(views) - 1; i >= 0; i-- {
		steps = append(steps, func() error { return d.DropView(ctx, views[i]) })
	}
	for i := len(tables) - 1; i >= 0; i-- {
		steps = append(steps, func() error { return d.DropTable(ctx, tables[i]) })
	}
	return d.run(steps, "Dropping schema failed.")
}

func (d *Driver) run(steps []func() error, message string) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return d.fail(mdterror.New(message, mdterror.LevelCritical, source).
				WithCode(d.lastErr.Code()).
				Stack(d.lastErr))
		}
	}
	d.lastErr = nil
	return nil
}
