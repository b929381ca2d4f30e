package sqlite

import (
	"database/sql"
	"fmt"
)

// Row is one result row keyed by column name.
type Row map[string]Value

// Get returns the value of the named column.
func (r Row) Get(column string) (Value, bool) {
	v, ok := r[column]
	return v, ok
}

// ExecResult reports the outcome of a mutation.
type ExecResult struct {
	RowsAffected int64
	LastInsertID int64
}

// scanRows drains a result set into Value-typed rows.
func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var out []Row
	raw := make([]any, len(columns))
	ptrs := make([]any, len(columns))
	for i := range raw {
		ptrs[i] = &raw[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		row := make(Row, len(columns))
		for i, col := range columns {
			row[col] = valueFrom(raw[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return out, nil
}
