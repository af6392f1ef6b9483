package query

import (
	"context"
	"database/sql"

	"mdtsql/internal/connection"
	"mdtsql/internal/expression"
	"mdtsql/internal/mdterror"
)

const selectSource = "SelectQuery"

// SelectQuery runs a SELECT and iterates its rows. Text values are returned as
// string whatever the driver gives back.
//
// The result set is read completely by ExecStatement and its rows are closed
// before it returns, so other queries on the same connection can run while the
// records are iterated.
type SelectQuery struct {
	baseQuery
	columns []string
	records [][]any
	// fetchErr is reported by the Next call reaching the row that failed.
	fetchErr *mdterror.Error
	record   []any
}

func NewSelectQuery(conn *connection.Connection, opts ...Option) (*SelectQuery, error) {
	base, err := newBaseQuery(conn, opts)
	if err != nil {
		return nil, err
	}
	return &SelectQuery{baseQuery: base}, nil
}

// ExecStatement runs stmt, returning at most maxRows rows unless maxRows is negative.
// A previous result set is released first.
func (q *SelectQuery) ExecStatement(ctx context.Context, stmt *expression.SelectStatement, maxRows int) error {
	return q.ExecSQL(ctx, stmt.SQL(q.dialect, maxRows))
}

// ExecSQL runs a raw SELECT with args bound to its placeholders.
func (q *SelectQuery) ExecSQL(ctx context.Context, query string, args ...any) error {
	q.reset()
	message := "Executing query failed."
	if err := q.checkOpen(message, selectSource); err != nil {
		return err
	}
	q.logger.DebugContext(ctx, "executing query", "connection", q.conn.Name(), "sql", query)

	rows, err := q.conn.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return q.setLastError(q.errs.Wrap(err, message, selectSource))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			q.logger.WarnContext(ctx, "failed to close rows", "connection", q.conn.Name(), "error", err)
		}
	}()

	columns, err := rows.Columns()
	if err != nil {
		return q.setLastError(q.errs.Wrap(err, message, selectSource))
	}
	q.columns = columns
	q.fetchErr = q.fetchAll(rows)
	q.lastErr = nil
	return nil
}

// fetchAll reads rows into q.records and returns the error that stopped it, if any.
func (q *SelectQuery) fetchAll(rows *sql.Rows) *mdterror.Error {
	for rows.Next() {
		values := make([]any, len(q.columns))
		ptrs := make([]any, len(values))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return q.errs.Wrap(err, "Fetching next record failed.", selectSource)
		}
		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		q.records = append(q.records, values)
	}
	if err := rows.Err(); err != nil {
		return q.errs.Wrap(err, "Fetching next record failed.", selectSource)
	}
	return nil
}

// FieldCount returns the column count of the active result set, 0 when there is none.
func (q *SelectQuery) FieldCount() int {
	return len(q.columns)
}

// FieldNames returns the column names of the active result set.
func (q *SelectQuery) FieldNames() []string {
	return q.columns
}

// Next advances to the next row. It returns false at the end of the result set
// and on failure, in which case LastError is set.
func (q *SelectQuery) Next() bool {
	q.record = nil
	if len(q.records) == 0 {
		if q.fetchErr != nil {
			q.setLastError(q.fetchErr)
			q.fetchErr = nil
		}
		return false
	}
	q.record, q.records = q.records[0], q.records[1:]
	return true
}

// Record returns the values of the current row, nil before the first Next.
func (q *SelectQuery) Record() []any {
	return q.record
}

// Value returns the value of column i of the current row. It panics if there
// is no current row or i is out of range.
func (q *SelectQuery) Value(i int) any {
	if q.record == nil {
		panic("query: Value called without a current record")
	}
	return q.record[i]
}

// FetchSingleRecord runs stmt and returns its only row. No row, or more than
// one, is reported as NotFound with an empty record.
func (q *SelectQuery) FetchSingleRecord(ctx context.Context, stmt *expression.SelectStatement) ([]any, error) {
	if err := q.ExecStatement(ctx, stmt, 2); err != nil {
		return nil, err
	}
	defer q.Close()

	if !q.Next() {
		if q.lastErr != nil {
			return nil, q.lastErr
		}
		return nil, q.setLastError(mdterror.New("Fetching single record failed.", mdterror.LevelError, selectSource).
			WithCode(mdterror.NotFound).
			Stack(mdterror.New("No record matches.", mdterror.LevelError, selectSource)))
	}
	record := q.record
	if q.Next() {
		return nil, q.setLastError(mdterror.New("Fetching single record failed.", mdterror.LevelError, selectSource).
			WithCode(mdterror.NotFound).
			Stack(mdterror.New("More than one record matches.", mdterror.LevelError, selectSource)))
	}
	if q.lastErr != nil {
		return nil, q.lastErr
	}
	return record, nil
}

func (q *SelectQuery) reset() {
	q.columns, q.records, q.record, q.fetchErr = nil, nil, nil, nil
}

// Close releases the active result set.
func (q *SelectQuery) Close() error {
	q.reset()
	return nil
}
