package sql

import (
	"strings"

	errors "gopkg.in/src-d/go-errors.v1"
)

// ErrDuplicateColumn is returned when a schema declares the same column twice.
var ErrDuplicateColumn = errors.NewKind("duplicate column name: %s")

// Column is the definition of a table column.
type Column struct {
	// Name is the name of the column.
	Name string
	// Type is the data type of the column.
	Type Type
	// Source is the name of the table this column belongs to. When the table
	// has an alias in a statement, Source is the alias.
	Source string
	// Nullable is true if the column can contain NULL values.
	Nullable bool
}

// QualifiedName returns the name of the column prefixed by its source, if
// any.
func (c *Column) QualifiedName() string {
	if c.Source == "" {
		return c.Name
	}
	return c.Source + "." + c.Name
}

// WithSource returns a copy of the column owned by the given source.
func (c *Column) WithSource(source string) *Column {
	nc := *c
	nc.Source = source
	return &nc
}

// Equals checks whether two columns are equal.
func (c *Column) Equals(c2 *Column) bool {
	return c.Name == c2.Name &&
		c.Source == c2.Source &&
		c.Nullable == c2.Nullable &&
		c.Type == c2.Type
}

// Schema is the ordered definition of a table or of the output of a query.
type Schema []*Column

// NewSchema builds a schema from the given columns, rejecting duplicated
// names.
func NewSchema(cols ...*Column) (Schema, error) {
	seen := make(map[string]struct{}, len(cols))
	s := make(Schema, 0, len(cols))
	for _, c := range cols {
		name := strings.ToLower(c.Name)
		if _, ok := seen[name]; ok {
			return nil, ErrDuplicateColumn.New(c.Name)
		}
		seen[name] = struct{}{}
		s = append(s, c)
	}
	return s, nil
}

// Contains returns whether the schema contains a column with the given name.
func (s Schema) Contains(column string) bool {
	return s.IndexOf(column) >= 0
}

// IndexOf returns the index of the given column in the schema or -1 if it's
// not present. Names are compared case-insensitively.
func (s Schema) IndexOf(column string) int {
	column = strings.ToLower(column)
	for i, col := range s {
		if strings.ToLower(col.Name) == column {
			return i
		}
	}
	return -1
}

// Column returns the column with the given name or nil.
func (s Schema) Column(name string) *Column {
	if i := s.IndexOf(name); i >= 0 {
		return s[i]
	}
	return nil
}

// WithSource returns a copy of the schema with all columns owned by source.
func (s Schema) WithSource(source string) Schema {
	out := make(Schema, len(s))
	for i, c := range s {
		out[i] = c.WithSource(source)
	}
	return out
}

// Equals checks whether the given schema is equal to this one.
func (s Schema) Equals(s2 Schema) bool {
	if len(s) != len(s2) {
		return false
	}

	for i := range s {
		if !s[i].Equals(s2[i]) {
			return false
		}
	}

	return true
}
