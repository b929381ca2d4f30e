package sqlite

import (
	"fmt"
	"strings"
)

// CreateSQL renders the CREATE TABLE IF NOT EXISTS statement for the
// table. The definition must validate first.
func (t TableDefinition) CreateSQL() string {
	var defs []string
	for _, c := range t.Columns {
		defs = append(defs, c.definitionSQL())
	}
	if len(t.PrimaryKey) > 0 {
		quoted := make([]string, len(t.PrimaryKey))
		for i, col := range t.PrimaryKey {
			quoted[i] = quoteIdent(col)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(quoted, ", ")+")")
	}
	for _, fk := range t.ForeignKeys {
		defs = append(defs, fk.clauseSQL())
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", quoteIdent(t.Name), strings.Join(defs, ", "))
}

// IndexSQL renders the CREATE INDEX IF NOT EXISTS statements for the
// table's indexes.
func (t TableDefinition) IndexSQL() []string {
	stmts := make([]string, 0, len(t.Indexes))
	for _, idx := range t.Indexes {
		unique := ""
		if idx.Unique {
			unique = "UNIQUE "
		}
		quoted := make([]string, len(idx.Columns))
		for i, col := range idx.Columns {
			quoted[i] = quoteIdent(col)
		}
		stmts = append(stmts, fmt.Sprintf("CREATE %sINDEX IF NOT EXISTS %s ON %s (%s)",
			unique, quoteIdent(idx.Name), quoteIdent(t.Name), strings.Join(quoted, ", ")))
	}
	return stmts
}

// definitionSQL renders one column definition.
func (c ColumnDefinition) definitionSQL() string {
	var b strings.Builder
	b.WriteString(quoteIdent(c.Name))
	b.WriteString(" ")
	b.WriteString(string(c.Type))
	for _, constraint := range c.Constraints {
		b.WriteString(" ")
		b.WriteString(string(constraint))
	}
	if c.Default != nil {
		b.WriteString(" DEFAULT ")
		b.WriteString(c.Default.literalSQL())
	}
	return b.String()
}

// clauseSQL renders a table-level FOREIGN KEY clause.
func (fk ForeignKey) clauseSQL() string {
	var b strings.Builder
	fmt.Fprintf(&b, "FOREIGN KEY (%s) REFERENCES %s (%s)",
		quoteIdent(fk.Column), quoteIdent(fk.RefTable), quoteIdent(fk.RefColumn))
	if fk.OnDelete != "" {
		fmt.Fprintf(&b, " ON DELETE %s", string(fk.OnDelete))
	}
	if fk.OnUpdate != "" {
		fmt.Fprintf(&b, " ON UPDATE %s", string(fk.OnUpdate))
	}
	return b.String()
}

// literalSQL renders the default value as a SQL literal.
func (d DefaultValue) literalSQL() string {
	if d.currentTimestamp {
		return "CURRENT_TIMESTAMP"
	}
	switch d.value.kind {
	case KindNull:
		return "NULL"
	case KindInteger:
		return fmt.Sprintf("%d", d.value.i)
	case KindBoolean:
		return fmt.Sprintf("%d", d.value.i)
	case KindReal:
		return fmt.Sprintf("%g", d.value.f)
	case KindText:
		return "'" + strings.ReplaceAll(d.value.s, "'", "''") + "'"
	case KindBlob:
		return "X'" + fmt.Sprintf("%X", d.value.b) + "'"
	default:
		return "NULL"
	}
}
