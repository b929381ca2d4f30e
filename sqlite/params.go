package sqlite

import (
	"database/sql"
	"fmt"
	"sort"
)

// Params holds named parameter bindings for a Statement.
type Params map[string]Value

// NewParams returns an empty parameter set.
func NewParams() Params {
	return Params{}
}

// With returns a copy of the params with name bound to value.
func (p Params) With(name string, value Value) Params {
	out := make(Params, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	out[name] = value
	return out
}

// Names returns the bound parameter names in sorted order.
func (p Params) Names() []string {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// args converts the bindings into database/sql named arguments.
func (p Params) args() ([]any, error) {
	if len(p) == 0 {
		return nil, nil
	}
	args := make([]any, 0, len(p))
	for _, name := range p.Names() {
		if !validIdent(name) {
			return nil, fmt.Errorf("%w: invalid parameter name %q", ErrInvalidInput, name)
		}
		args = append(args, sql.Named(name, p[name].arg()))
	}
	return args, nil
}

// Statement is a raw SQL statement with named parameter bindings.
// Placeholders use the :name form.
type Statement struct {
	SQL    string
	Params Params
}

// NewStatement returns a statement for the given SQL.
func NewStatement(sqlText string) Statement {
	return Statement{SQL: sqlText, Params: Params{}}
}

// Bind returns a copy of the statement with name bound to value.
func (s Statement) Bind(name string, value Value) Statement {
	s.Params = s.Params.With(name, value)
	return s
}

// WithParams returns a copy of the statement using the given bindings.
func (s Statement) WithParams(p Params) Statement {
	s.Params = p
	return s
}
