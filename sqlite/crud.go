package sqlite

import (
	"fmt"
	"sort"
	"strings"
)

// Order is one ORDER BY term.
type Order struct {
	Field     string
	Ascending bool
}

// Asc orders by field ascending.
func Asc(field string) Order {
	return Order{Field: field, Ascending: true}
}

// Desc orders by field descending.
func Desc(field string) Order {
	return Order{Field: field}
}

// Operation is a typed CRUD operation the service can apply.
type Operation interface {
	// compile renders the operation into SQL with positional arguments.
	compile() (string, []any, error)
	// kind names the operation for error messages and change events.
	kind() string
}

// CreateOperation inserts one row into a table.
type CreateOperation struct {
	Table string
	Data  map[string]Value
}

// ReadOperation selects rows from a table.
type ReadOperation struct {
	Table   string
	Where   *Query
	Fields  []string
	OrderBy []Order
	Limit   int
	Offset  int
}

// UpdateOperation updates the rows matched by Where.
type UpdateOperation struct {
	Table   string
	Where   *Query
	Updates map[string]Value
}

// DeleteOperation deletes the rows matched by Where.
type DeleteOperation struct {
	Table string
	Where *Query
}

func (op CreateOperation) kind() string { return "create" }
func (op ReadOperation) kind() string   { return "read" }
func (op UpdateOperation) kind() string { return "update" }
func (op DeleteOperation) kind() string { return "delete" }

func (op CreateOperation) compile() (string, []any, error) {
	if !validIdent(op.Table) {
		return "", nil, fmt.Errorf("%w: invalid table name %q", ErrInvalidInput, op.Table)
	}
	if len(op.Data) == 0 {
		return "", nil, fmt.Errorf("%w: create on %q has no data", ErrInvalidInput, op.Table)
	}
	fields, err := sortedFields(op.Data)
	if err != nil {
		return "", nil, err
	}
	cols := make([]string, len(fields))
	placeholders := make([]string, len(fields))
	args := make([]any, len(fields))
	for i, f := range fields {
		cols[i] = quoteIdent(f)
		placeholders[i] = "?"
		args[i] = op.Data[f].arg()
	}
	sqlText := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quoteIdent(op.Table), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return sqlText, args, nil
}

func (op ReadOperation) compile() (string, []any, error) {
	if !validIdent(op.Table) {
		return "", nil, fmt.Errorf("%w: invalid table name %q", ErrInvalidInput, op.Table)
	}
	projection := "*"
	if len(op.Fields) > 0 {
		quoted := make([]string, len(op.Fields))
		for i, f := range op.Fields {
			if !validIdent(f) {
				return "", nil, fmt.Errorf("%w: invalid field name %q", ErrInvalidInput, f)
			}
			quoted[i] = quoteIdent(f)
		}
		projection = strings.Join(quoted, ", ")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SELECT %s FROM %s", projection, quoteIdent(op.Table))

	where, args, err := op.Where.whereClause()
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}

	if len(op.OrderBy) > 0 {
		terms := make([]string, len(op.OrderBy))
		for i, o := range op.OrderBy {
			if !validIdent(o.Field) {
				return "", nil, fmt.Errorf("%w: invalid order field %q", ErrInvalidInput, o.Field)
			}
			dir := "DESC"
			if o.Ascending {
				dir = "ASC"
			}
			terms[i] = quoteIdent(o.Field) + " " + dir
		}
		b.WriteString(" ORDER BY ")
		b.WriteString(strings.Join(terms, ", "))
	}

	if op.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", op.Limit)
		if op.Offset > 0 {
			fmt.Fprintf(&b, " OFFSET %d", op.Offset)
		}
	} else if op.Offset > 0 {
		// SQLite requires LIMIT before OFFSET.
		fmt.Fprintf(&b, " LIMIT -1 OFFSET %d", op.Offset)
	}

	return b.String(), args, nil
}

func (op UpdateOperation) compile() (string, []any, error) {
	if !validIdent(op.Table) {
		return "", nil, fmt.Errorf("%w: invalid table name %q", ErrInvalidInput, op.Table)
	}
	if len(op.Updates) == 0 {
		return "", nil, fmt.Errorf("%w: update on %q has no assignments", ErrInvalidInput, op.Table)
	}
	fields, err := sortedFields(op.Updates)
	if err != nil {
		return "", nil, err
	}
	sets := make([]string, len(fields))
	args := make([]any, 0, len(fields))
	for i, f := range fields {
		sets[i] = quoteIdent(f) + " = ?"
		args = append(args, op.Updates[f].arg())
	}

	var b strings.Builder
	fmt.Fprintf(&b, "UPDATE %s SET %s", quoteIdent(op.Table), strings.Join(sets, ", "))

	where, whereArgs, err := op.Where.whereClause()
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	return b.String(), append(args, whereArgs...), nil
}

func (op DeleteOperation) compile() (string, []any, error) {
	if !validIdent(op.Table) {
		return "", nil, fmt.Errorf("%w: invalid table name %q", ErrInvalidInput, op.Table)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "DELETE FROM %s", quoteIdent(op.Table))

	where, args, err := op.Where.whereClause()
	if err != nil {
		return "", nil, err
	}
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	return b.String(), args, nil
}

// sortedFields validates and sorts the keys of a field map so compiled
// SQL is deterministic.
func sortedFields(m map[string]Value) ([]string, error) {
	fields := make([]string, 0, len(m))
	for f := range m {
		if !validIdent(f) {
			return nil, fmt.Errorf("%w: invalid field name %q", ErrInvalidInput, f)
		}
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields, nil
}
