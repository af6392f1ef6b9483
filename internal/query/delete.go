package query

import (
	"context"
	"fmt"

	"mdtsql/internal/connection"
	"mdtsql/internal/statement"
)

type DeleteQuery struct {
	baseQuery
	affected int64
}

func NewDeleteQuery(conn *connection.Connection, opts ...Option) (*DeleteQuery, error) {
	base, err := newBaseQuery(conn, opts)
	if err != nil {
		return nil, err
	}
	return &DeleteQuery{baseQuery: base}, nil
}

// ExecStatement deletes the rows matching stmt. Deleting no row is not a failure.
func (q *DeleteQuery) ExecStatement(ctx context.Context, stmt *statement.DeleteStatement) error {
	q.affected = 0
	res, err := q.exec(ctx, stmt.ToPrepareStatementSQL(q.dialect), stmt.ToValueList(),
		fmt.Sprintf("Deleting from table '%s' failed.", stmt.TableName()), "DeleteQuery")
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil {
		q.affected = n
	}
	return nil
}

// AffectedRows returns the count reported for the last successful delete.
func (q *DeleteQuery) AffectedRows() int64 {
	return q.affected
}
