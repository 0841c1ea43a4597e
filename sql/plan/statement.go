// Package plan holds the statements produced by the analyzer: query blocks,
// table definitions and index definitions bound to the catalog. Statements
// are immutable once built.
package plan

import (
	"strings"

	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/expression"
)

// Statement is a bound statement.
type Statement interface {
	String() string
	statement()
}

// TableRef is a table of a FROM clause.
type TableRef struct {
	Name  string
	Alias string
	Desc  *sql.TableDesc
}

// NewTableRef returns a reference to the given table.
func NewTableRef(name, alias string, desc *sql.TableDesc) *TableRef {
	return &TableRef{Name: name, Alias: alias, Desc: desc}
}

// HasAlias returns whether the table was given an alias.
func (t *TableRef) HasAlias() bool { return t.Alias != "" }

// CanonicalName returns the alias of the table if it has one, its name
// otherwise.
func (t *TableRef) CanonicalName() string {
	if t.Alias != "" {
		return t.Alias
	}
	return t.Name
}

// Schema returns the columns of the table qualified by its canonical name.
func (t *TableRef) Schema() sql.Schema {
	return t.Desc.Schema.WithSource(t.CanonicalName())
}

func (t *TableRef) String() string {
	if t.Alias != "" {
		return t.Name + " AS " + t.Alias
	}
	return t.Name
}

// SortKey is a column to sort by.
type SortKey struct {
	Column     *expression.Field
	Ascending  bool
	NullsFirst bool
}

// NewSortKey returns a sort key. Nulls go last on ascending keys and first
// on descending keys.
func NewSortKey(col *expression.Field, ascending bool) *SortKey {
	return &SortKey{Column: col, Ascending: ascending, NullsFirst: !ascending}
}

func (k *SortKey) String() string {
	var b strings.Builder
	b.WriteString(k.Column.QualifiedName())
	if k.Ascending {
		b.WriteString(" ASC")
	} else {
		b.WriteString(" DESC")
	}
	if k.NullsFirst {
		b.WriteString(" NULLS FIRST")
	} else {
		b.WriteString(" NULLS LAST")
	}
	return b.String()
}

func sortKeyStrings(keys []*SortKey) []string {
	s := make([]string, len(keys))
	for i, k := range keys {
		s[i] = k.String()
	}
	return s
}

func (*QueryBlock) statement()      {}
func (*CreateTableStmt) statement() {}
func (*CreateIndexStmt) statement() {}
