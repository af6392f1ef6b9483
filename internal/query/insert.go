package query

import (
	"context"
	"fmt"

	"mdtsql/internal/connection"
	"mdtsql/internal/statement"
)

type InsertQuery struct {
	baseQuery
	lastInsertID int64
	hasInsertID  bool
}

func NewInsertQuery(conn *connection.Connection, opts ...Option) (*InsertQuery, error) {
	base, err := newBaseQuery(conn, opts)
	if err != nil {
		return nil, err
	}
	return &InsertQuery{baseQuery: base}, nil
}

// ExecStatement inserts the row described by stmt.
func (q *InsertQuery) ExecStatement(ctx context.Context, stmt *statement.InsertStatement) error {
	q.lastInsertID, q.hasInsertID = 0, false
	res, err := q.exec(ctx, stmt.ToPrepareStatementSQL(q.dialect), stmt.ToValueList(),
		fmt.Sprintf("Inserting into table '%s' failed.", stmt.TableName()), "InsertQuery")
	if err != nil {
		return err
	}
	if id, err := res.LastInsertId(); err == nil && id != 0 {
		q.lastInsertID, q.hasInsertID = id, true
	}
	return nil
}

// LastInsertID returns the identity generated by the last insert. ok is false
// when the driver reported none, which MySQL does for tables without an auto
// increment key.
func (q *InsertQuery) LastInsertID() (id int64, ok bool) {
	return q.lastInsertID, q.hasInsertID
}
