package query

import (
	"context"
	"fmt"

	"mdtsql/internal/connection"
	"mdtsql/internal/mdterror"
	"mdtsql/internal/statement"
)

// AffectedRowsFailureMode tells which affected row counts make an update fail.
type AffectedRowsFailureMode int

const (
	AcceptAnyAffectedRowCount AffectedRowsFailureMode = iota
	FailIfNoRowAffected
	FailIfNotExactlyOneRowAffected
)

type UpdateQuery struct {
	baseQuery
	mode AffectedRowsFailureMode
}

func NewUpdateQuery(conn *connection.Connection, opts ...Option) (*UpdateQuery, error) {
	base, err := newBaseQuery(conn, opts)
	if err != nil {
		return nil, err
	}
	return &UpdateQuery{baseQuery: base}, nil
}

func (q *UpdateQuery) SetAffectedRowsFailureMode(mode AffectedRowsFailureMode) {
	q.mode = mode
}

func (q *UpdateQuery) AffectedRowsFailureMode() AffectedRowsFailureMode {
	return q.mode
}

// ExecStatement runs stmt then checks the affected row count against the
// failure mode. No affected row is reported as NotFound, more than one under
// FailIfNotExactlyOneRowAffected as UnknownError.
func (q *UpdateQuery) ExecStatement(ctx context.Context, stmt *statement.UpdateStatement) error {
	message := fmt.Sprintf("Updating table '%s' failed.", stmt.TableName())
	res, err := q.exec(ctx, stmt.ToPrepareStatementSQL(q.dialect), stmt.ToValueList(), message, "UpdateQuery")
	if err != nil {
		return err
	}
	if q.mode == AcceptAnyAffectedRowCount {
		return nil
	}

	n, err := res.RowsAffected()
	if err != nil {
		return q.setLastError(q.errs.Wrap(err, message, "UpdateQuery"))
	}
	switch {
	case n == 0:
		return q.setLastError(mdterror.New(message, mdterror.LevelError, "UpdateQuery").
			WithCode(mdterror.NotFound).
			Stack(mdterror.New("No row was affected.", mdterror.LevelError, "UpdateQuery")))
	case n > 1 && q.mode == FailIfNotExactlyOneRowAffected:
		return q.setLastError(mdterror.New(message, mdterror.LevelError, "UpdateQuery").
			Stack(mdterror.Newf(mdterror.LevelError, "UpdateQuery", "%d rows were affected, exactly one was expected.", n)))
	}
	return nil
}
