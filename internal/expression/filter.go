package expression

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Filter is a boolean expression usable in WHERE and ON clauses.
type Filter interface {
	SQL(q Quoter) string
}

// Operator is a comparison or logical operator.
type Operator string

const (
	OpEqual          Operator = "="
	OpNotEqual       Operator = "<>"
	OpLess           Operator = "<"
	OpLessOrEqual    Operator = "<="
	OpGreater        Operator = ">"
	OpGreaterOrEqual Operator = ">="
	OpAnd            Operator = "AND"
	OpOr             Operator = "OR"
)

type comparison struct {
	left  Field
	op    Operator
	right any
}

func (c comparison) SQL(q Quoter) string {
	return c.left.SQL(q) + string(c.op) + operandSQL(c.right, q)
}

// Compare builds "left op right". right is either a Field or a literal value.
func Compare(left Field, op Operator, right any) Filter {
	switch op {
	case OpEqual, OpNotEqual, OpLess, OpLessOrEqual, OpGreater, OpGreaterOrEqual:
	default:
		panic(fmt.Sprintf("expression: %q is not a comparison operator", op))
	}
	return comparison{left: left, op: op, right: right}
}

func (f Field) Eq(v any) Filter { return Compare(f, OpEqual, v) }
func (f Field) Ne(v any) Filter { return Compare(f, OpNotEqual, v) }
func (f Field) Lt(v any) Filter { return Compare(f, OpLess, v) }
func (f Field) Le(v any) Filter { return Compare(f, OpLessOrEqual, v) }
func (f Field) Gt(v any) Filter { return Compare(f, OpGreater, v) }
func (f Field) Ge(v any) Filter { return Compare(f, OpGreaterOrEqual, v) }

type logical struct {
	op       Operator
	operands []Filter
}

func (l logical) SQL(q Quoter) string {
	var sb strings.Builder
	for i, f := range l.operands {
		if i > 0 {
			sb.WriteString(string(l.op))
		}
		sb.WriteString("(")
		sb.WriteString(f.SQL(q))
		sb.WriteString(")")
	}
	return sb.String()
}

// And joins filters with AND, rendered as (a)AND(b). Nil filters are skipped.
func And(filters ...Filter) Filter {
	return combine(OpAnd, filters)
}

// Or joins filters with OR, rendered as (a)OR(b). Nil filters are skipped.
func Or(filters ...Filter) Filter {
	return combine(OpOr, filters)
}

func combine(op Operator, filters []Filter) Filter {
	kept := make([]Filter, 0, len(filters))
	for _, f := range filters {
		if f != nil {
			kept = append(kept, f)
		}
	}
	switch len(kept) {
	case 0:
		return nil
	case 1:
		return kept[0]
	}
	return logical{op: op, operands: kept}
}

type like struct {
	field   Field
	pattern string
}

func (l like) SQL(q Quoter) string {
	return l.field.SQL(q) + " LIKE " + q.QuoteString(LikePattern(l.pattern)) + " ESCAPE " + q.QuoteString(`\`)
}

// Like matches field against a wildcard pattern where ? matches one character and
// * any sequence. A backslash makes the next ? or * literal.
func (f Field) Like(pattern string) Filter {
	return like{field: f, pattern: pattern}
}

// LikePattern translates a wildcard pattern to a SQL LIKE pattern using \ as
// escape character. The result still has to be quoted as a string literal.
func LikePattern(pattern string) string {
	var sb strings.Builder
	runes := []rune(pattern)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '\\':
			if i+1 < len(runes) && (runes[i+1] == '?' || runes[i+1] == '*') {
				i++
				sb.WriteRune(runes[i])
			} else {
				sb.WriteString(`\\`)
			}
		case '?':
			sb.WriteByte('_')
		case '*':
			sb.WriteByte('%')
		case '_', '%':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func operandSQL(v any, q Quoter) string {
	if f, ok := v.(Field); ok {
		return f.SQL(q)
	}
	return LiteralSQL(v, q)
}

// LiteralSQL renders a Go value as a SQL literal.
func LiteralSQL(v any, q Quoter) string {
	switch x := v.(type) {
	case nil:
		return "NULL"
	case string:
		return q.QuoteString(x)
	case []byte:
		return q.QuoteString(string(x))
	case bool:
		if x {
			return "1"
		}
		return "0"
	case int:
		return strconv.Itoa(x)
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", x)
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", x)
	case float32:
		return strconv.FormatFloat(float64(x), 'g', -1, 32)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case time.Time:
		return q.QuoteString(x.Format("2006-01-02 15:04:05"))
	case fmt.Stringer:
		return q.QuoteString(x.String())
	}
	return q.QuoteString(fmt.Sprint(v))
}
