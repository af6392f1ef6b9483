// Package query executes statements on a connection and reports failures as
// *mdterror.Error values classified by the error driver of the connection.
//
// A query value is bound to one connection and is not safe for concurrent use.
package query

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"mdtsql/internal/connection"
	"mdtsql/internal/dialect"
	"mdtsql/internal/errordriver"
	"mdtsql/internal/mdterror"
)

type Option func(*baseQuery)

func WithLogger(logger *slog.Logger) Option {
	return func(q *baseQuery) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// WithDialect overrides the dialect registered for the connection.
func WithDialect(d dialect.Dialect) Option {
	return func(q *baseQuery) {
		if d != nil {
			q.dialect = d
		}
	}
}

type baseQuery struct {
	conn    *connection.Connection
	dialect dialect.Dialect
	errs    errordriver.ErrorDriver
	logger  *slog.Logger
	lastErr *mdterror.Error
}

func newBaseQuery(conn *connection.Connection, opts []Option) (baseQuery, error) {
	if conn == nil {
		return baseQuery{}, fmt.Errorf("query requires a connection")
	}
	q := baseQuery{
		conn:   conn,
		errs:   errordriver.New(conn.Dialect()),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&q)
	}
	if q.dialect == nil {
		d, err := dialect.GetDialect(conn.Dialect())
		if err != nil {
			return baseQuery{}, fmt.Errorf("query on connection %q: %w", conn.Name(), err)
		}
		q.dialect = d
	}
	return q, nil
}

func (q *baseQuery) Connection() *connection.Connection {
	return q.conn
}

// LastError returns the error of the last failed execution, nil after a success.
func (q *baseQuery) LastError() *mdterror.Error {
	return q.lastErr
}

// setLastError records err and returns it. It panics on a null error.
func (q *baseQuery) setLastError(err *mdterror.Error) *mdterror.Error {
	if err.IsNull() {
		panic("query: setLastError requires a non null error")
	}
	q.lastErr = err
	return err
}

func (q *baseQuery) checkOpen(message, source string) error {
	if q.conn.IsOpen() {
		return nil
	}
	return q.setLastError(mdterror.New(message, mdterror.LevelCritical, source).
		Stack(mdterror.New("The connection is closed.", mdterror.LevelCritical, source)))
}

// exec runs a prepared statement with args.
func (q *baseQuery) exec(ctx context.Context, query string, args []any, message, source string) (sql.Result, error) {
	if err := q.checkOpen(message, source); err != nil {
		return nil, err
	}
	q.logger.DebugContext(ctx, "executing statement", slog.String("connection", q.conn.Name()), slog.String("sql", query))
	res, err := q.conn.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return nil, q.setLastError(q.errs.Wrap(err, message, source))
	}
	q.lastErr = nil
	return res, nil
}
