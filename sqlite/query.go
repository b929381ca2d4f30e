package sqlite

import (
	"fmt"
	"strings"
)

// opKind enumerates the comparison operators a Query supports.
type opKind int

const (
	opEq opKind = iota
	opNeq
	opGt
	opGte
	opLt
	opLte
	opLike
	opIn
)

// Operator is a comparison applied to a single field.
type Operator struct {
	kind   opKind
	value  Value
	values []Value
}

// Eq matches rows where the field equals value.
func Eq(value Value) Operator {
	return Operator{kind: opEq, value: value}
}

// Neq matches rows where the field differs from value.
func Neq(value Value) Operator {
	return Operator{kind: opNeq, value: value}
}

// Gt matches rows where the field is greater than value.
func Gt(value Value) Operator {
	return Operator{kind: opGt, value: value}
}

// Gte matches rows where the field is greater than or equal to value.
func Gte(value Value) Operator {
	return Operator{kind: opGte, value: value}
}

// Lt matches rows where the field is less than value.
func Lt(value Value) Operator {
	return Operator{kind: opLt, value: value}
}

// Lte matches rows where the field is less than or equal to value.
func Lte(value Value) Operator {
	return Operator{kind: opLte, value: value}
}

// Like matches rows where the field matches the SQL LIKE pattern.
func Like(pattern string) Operator {
	return Operator{kind: opLike, value: Text(pattern)}
}

// In matches rows where the field equals any of the given values.
// An empty value list matches no rows.
func In(values ...Value) Operator {
	return Operator{kind: opIn, values: values}
}

// condition pairs a field with its operator.
type condition struct {
	field string
	op    Operator
}

// Query is a composable filter compiled into a WHERE clause. Conditions
// are AND-combined and kept in insertion order so compiled SQL is
// deterministic.
type Query struct {
	conditions []condition
}

// NewQuery returns an empty filter matching all rows.
func NewQuery() *Query {
	return &Query{}
}

// Where adds a condition on field. A repeated field adds another
// condition rather than replacing the earlier one.
func (q *Query) Where(field string, op Operator) *Query {
	q.conditions = append(q.conditions, condition{field: field, op: op})
	return q
}

// Empty reports whether the query has no conditions.
func (q *Query) Empty() bool {
	return q == nil || len(q.conditions) == 0
}

// Len returns the number of conditions.
func (q *Query) Len() int {
	if q == nil {
		return 0
	}
	return len(q.conditions)
}

// whereClause compiles the conditions into a SQL fragment (without the
// WHERE keyword) and its positional arguments.
func (q *Query) whereClause() (string, []any, error) {
	if q.Empty() {
		return "", nil, nil
	}
	var (
		parts = make([]string, 0, len(q.conditions))
		args  []any
	)
	for _, c := range q.conditions {
		if !validIdent(c.field) {
			return "", nil, fmt.Errorf("%w: invalid field name %q", ErrInvalidInput, c.field)
		}
		field := quoteIdent(c.field)
		switch c.op.kind {
		case opEq:
			if c.op.value.IsNull() {
				parts = append(parts, field+" IS NULL")
				continue
			}
			parts = append(parts, field+" = ?")
			args = append(args, c.op.value.arg())
		case opNeq:
			if c.op.value.IsNull() {
				parts = append(parts, field+" IS NOT NULL")
				continue
			}
			parts = append(parts, field+" <> ?")
			args = append(args, c.op.value.arg())
		case opGt:
			parts = append(parts, field+" > ?")
			args = append(args, c.op.value.arg())
		case opGte:
			parts = append(parts, field+" >= ?")
			args = append(args, c.op.value.arg())
		case opLt:
			parts = append(parts, field+" < ?")
			args = append(args, c.op.value.arg())
		case opLte:
			parts = append(parts, field+" <= ?")
			args = append(args, c.op.value.arg())
		case opLike:
			parts = append(parts, field+" LIKE ?")
			args = append(args, c.op.value.arg())
		case opIn:
			if len(c.op.values) == 0 {
				// IN over an empty set matches nothing.
				parts = append(parts, "1 = 0")
				continue
			}
			placeholders := make([]string, len(c.op.values))
			for i, v := range c.op.values {
				placeholders[i] = "?"
				args = append(args, v.arg())
			}
			parts = append(parts, field+" IN ("+strings.Join(placeholders, ", ")+")")
		default:
			return "", nil, fmt.Errorf("%w: unknown operator on field %q", ErrInvalidInput, c.field)
		}
	}
	return strings.Join(parts, " AND "), args, nil
}

// validIdent reports whether s is a legal bare SQLite identifier:
// a letter or underscore followed by letters, digits or underscores.
func validIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_',
			r >= 'a' && r <= 'z',
			r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// quoteIdent wraps a validated identifier in double quotes.
func quoteIdent(s string) string {
	return `"` + s + `"`
}
