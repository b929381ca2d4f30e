package sqlite

import "fmt"

// DataType is a SQLite column type.
type DataType string

// Column types supported by the schema DSL.
const (
	TypeInteger DataType = "INTEGER"
	TypeText    DataType = "TEXT"
	TypeReal    DataType = "REAL"
	TypeBlob    DataType = "BLOB"
)

// ColumnConstraint is a single-column constraint.
type ColumnConstraint string

// Constraints supported on individual columns.
const (
	PrimaryKey ColumnConstraint = "PRIMARY KEY"
	NotNull    ColumnConstraint = "NOT NULL"
	Unique     ColumnConstraint = "UNIQUE"
)

// ForeignKeyAction is the referential action for ON DELETE / ON UPDATE.
type ForeignKeyAction string

// Referential actions.
const (
	NoAction   ForeignKeyAction = "NO ACTION"
	Cascade    ForeignKeyAction = "CASCADE"
	SetNull    ForeignKeyAction = "SET NULL"
	SetDefault ForeignKeyAction = "SET DEFAULT"
	Restrict   ForeignKeyAction = "RESTRICT"
)

// DefaultValue is a column default: either a literal value or the
// CURRENT_TIMESTAMP keyword.
type DefaultValue struct {
	value            Value
	currentTimestamp bool
}

// DefaultOf returns a literal column default.
func DefaultOf(v Value) *DefaultValue {
	return &DefaultValue{value: v}
}

// DefaultCurrentTimestamp returns the CURRENT_TIMESTAMP column default.
func DefaultCurrentTimestamp() *DefaultValue {
	return &DefaultValue{currentTimestamp: true}
}

// ColumnDefinition describes one column of a table.
type ColumnDefinition struct {
	Name        string
	Type        DataType
	Constraints []ColumnConstraint
	Default     *DefaultValue
}

// Column is a convenience constructor for a column definition.
func Column(name string, dataType DataType, constraints ...ColumnConstraint) ColumnDefinition {
	return ColumnDefinition{Name: name, Type: dataType, Constraints: constraints}
}

// WithDefault returns a copy of the column with the given default.
func (c ColumnDefinition) WithDefault(d *DefaultValue) ColumnDefinition {
	c.Default = d
	return c
}

// ForeignKey declares a referential constraint from one column to a
// column of another table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
	OnDelete  ForeignKeyAction
	OnUpdate  ForeignKeyAction
}

// IndexDefinition describes a secondary index.
type IndexDefinition struct {
	Name    string
	Columns []string
	Unique  bool
}

// TableDefinition describes one table: columns, primary key, foreign
// keys and indexes. PrimaryKey lists columns of a composite key; a
// single-column key may instead carry the PrimaryKey column constraint.
type TableDefinition struct {
	Name        string
	Columns     []ColumnDefinition
	PrimaryKey  []string
	ForeignKeys []ForeignKey
	Indexes     []IndexDefinition
}

// Table is a convenience constructor for a table definition.
func Table(name string, columns ...ColumnDefinition) TableDefinition {
	return TableDefinition{Name: name, Columns: columns}
}

// WithPrimaryKey returns a copy of the table with a composite primary key.
func (t TableDefinition) WithPrimaryKey(columns ...string) TableDefinition {
	t.PrimaryKey = columns
	return t
}

// WithForeignKey returns a copy of the table with an added foreign key.
func (t TableDefinition) WithForeignKey(fk ForeignKey) TableDefinition {
	t.ForeignKeys = append(t.ForeignKeys, fk)
	return t
}

// WithIndex returns a copy of the table with an added index.
func (t TableDefinition) WithIndex(idx IndexDefinition) TableDefinition {
	t.Indexes = append(t.Indexes, idx)
	return t
}

// column returns the definition of the named column.
func (t TableDefinition) column(name string) (ColumnDefinition, bool) {
	for _, c := range t.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return ColumnDefinition{}, false
}

// Schema is the full database schema managed by the service.
type Schema struct {
	Tables []TableDefinition
}

// NewSchema returns an empty schema.
func NewSchema() Schema {
	return Schema{}
}

// AddTable returns a copy of the schema with the table appended.
func (s Schema) AddTable(t TableDefinition) Schema {
	s.Tables = append(append([]TableDefinition(nil), s.Tables...), t)
	return s
}

// Validate checks table, column, index and foreign key definitions for
// legal identifiers and internal consistency.
func (s Schema) Validate() error {
	names := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if err := t.validate(); err != nil {
			return err
		}
		if names[t.Name] {
			return fmt.Errorf("%w: duplicate table %q", ErrInvalidInput, t.Name)
		}
		names[t.Name] = true
	}
	return nil
}

func (t TableDefinition) validate() error {
	if !validIdent(t.Name) {
		return fmt.Errorf("%w: invalid table name %q", ErrInvalidInput, t.Name)
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("%w: table %q has no columns", ErrInvalidInput, t.Name)
	}
	seen := make(map[string]bool, len(t.Columns))
	for _, c := range t.Columns {
		if !validIdent(c.Name) {
			return fmt.Errorf("%w: invalid column name %q in table %q", ErrInvalidInput, c.Name, t.Name)
		}
		if seen[c.Name] {
			return fmt.Errorf("%w: duplicate column %q in table %q", ErrInvalidInput, c.Name, t.Name)
		}
		seen[c.Name] = true
		switch c.Type {
		case TypeInteger, TypeText, TypeReal, TypeBlob:
		default:
			return fmt.Errorf("%w: unknown type %q for column %q.%q", ErrInvalidInput, c.Type, t.Name, c.Name)
		}
	}
	for _, pk := range t.PrimaryKey {
		if !seen[pk] {
			return fmt.Errorf("%w: primary key column %q not defined in table %q", ErrInvalidInput, pk, t.Name)
		}
	}
	for _, fk := range t.ForeignKeys {
		if !seen[fk.Column] {
			return fmt.Errorf("%w: foreign key column %q not defined in table %q", ErrInvalidInput, fk.Column, t.Name)
		}
		if !validIdent(fk.RefTable) || !validIdent(fk.RefColumn) {
			return fmt.Errorf("%w: invalid foreign key reference %q.%q in table %q",
				ErrInvalidInput, fk.RefTable, fk.RefColumn, t.Name)
		}
	}
	for _, idx := range t.Indexes {
		if !validIdent(idx.Name) {
			return fmt.Errorf("%w: invalid index name %q on table %q", ErrInvalidInput, idx.Name, t.Name)
		}
		if len(idx.Columns) == 0 {
			return fmt.Errorf("%w: index %q on table %q has no columns", ErrInvalidInput, idx.Name, t.Name)
		}
		for _, col := range idx.Columns {
			if !seen[col] {
				return fmt.Errorf("%w: index %q references unknown column %q in table %q",
					ErrInvalidInput, idx.Name, col, t.Name)
			}
		}
	}
	return nil
}
