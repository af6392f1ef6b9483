package expression

import "fmt"

// JoinOperator is the kind of join.
type JoinOperator string

const (
	Join     JoinOperator = "JOIN"
	LeftJoin JoinOperator = "LEFT JOIN"
)

// JoinClause joins Entity to the statement's main entity using the On constraint.
type JoinClause struct {
	Operator JoinOperator
	Entity   Entity
	On       Filter
}

// NewJoinClause builds a join clause. It panics on a null entity or a nil constraint.
func NewJoinClause(op JoinOperator, entity Entity, on Filter) JoinClause {
	if entity.IsNull() {
		panic("expression: join clause requires an entity")
	}
	if on == nil {
		panic(fmt.Sprintf("expression: join on %q requires a constraint", entity.Name))
	}
	if op == "" {
		op = Join
	}
	return JoinClause{Operator: op, Entity: entity, On: on}
}

// JoinOn builds the usual equality constraint between pairs of fields of the
// joined entity and of the main entity, in that order.
func JoinOn(pairs ...[2]Field) Filter {
	filters := make([]Filter, 0, len(pairs))
	for _, p := range pairs {
		filters = append(filters, p[0].Eq(p[1]))
	}
	return And(filters...)
}

// SQL renders the clause, for example:
//
//	JOIN
//	 "Address" "ADR"
//	  ON "ADR"."personId"="Person"."id"
func (j JoinClause) SQL(q Quoter) string {
	return string(j.Operator) + "\n " + j.Entity.SQL(q) + "\n  ON " + j.On.SQL(q)
}
