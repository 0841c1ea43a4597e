package plan

import (
	"fmt"
	"strings"

	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/expression"
)

// Target is an item of the select list.
type Target struct {
	Expr  expression.Node
	Alias string
}

// Name returns the output name of the target: its alias, or the name of the
// column it projects. It is empty for unnamed expressions.
func (t *Target) Name() string {
	if t.Alias != "" {
		return t.Alias
	}
	if f, ok := t.Expr.(*expression.Field); ok {
		return f.Name
	}
	return ""
}

func (t *Target) String() string {
	if t.Alias != "" {
		return fmt.Sprintf("%s AS %s", t.Expr, t.Alias)
	}
	return t.Expr.String()
}

// QueryBlock is a bound SELECT.
type QueryBlock struct {
	FromTables []*TableRef
	Join       *JoinClause
	Targets    []*Target
	Where      expression.Node
	GroupBy    []*expression.Field
	Having     expression.Node
	SortKeys   []*SortKey
}

// HasFromTable returns whether the block reads from any table.
func (b *QueryBlock) HasFromTable() bool { return len(b.FromTables) > 0 }

// HasJoin returns whether the tables of the block are joined explicitly.
func (b *QueryBlock) HasJoin() bool { return b.Join != nil }

// HasWhere returns whether the block has a WHERE condition.
func (b *QueryBlock) HasWhere() bool { return b.Where != nil }

// HasGroupBy returns whether the block is grouped.
func (b *QueryBlock) HasGroupBy() bool { return len(b.GroupBy) > 0 }

// HasHaving returns whether the block has a HAVING condition.
func (b *QueryBlock) HasHaving() bool { return b.Having != nil }

// HasOrderBy returns whether the block is sorted.
func (b *QueryBlock) HasOrderBy() bool { return len(b.SortKeys) > 0 }

// Schema returns the output schema of the block. Targets without a name are
// named ?columnN, N being their 1-based position.
func (b *QueryBlock) Schema() sql.Schema {
	schema := make(sql.Schema, len(b.Targets))
	for i, t := range b.Targets {
		name := t.Name()
		if name == "" {
			name = fmt.Sprintf("?column%d", i+1)
		}
		schema[i] = &sql.Column{
			Name:     name,
			Type:     t.Expr.Type(),
			Nullable: t.Expr.IsNullable(),
		}
	}
	return schema
}

func (b *QueryBlock) String() string {
	targets := make([]string, len(b.Targets))
	for i, t := range b.Targets {
		targets[i] = t.String()
	}

	p := sql.NewTreePrinter()
	_ = p.WriteNode("QueryBlock(%s)", strings.Join(targets, ", "))

	var children []string
	if b.HasJoin() {
		children = append(children, b.Join.String())
	} else if b.HasFromTable() {
		tables := make([]string, len(b.FromTables))
		for i, t := range b.FromTables {
			tables[i] = t.String()
		}
		children = append(children, "From("+strings.Join(tables, ", ")+")")
	}
	if b.HasWhere() {
		children = append(children, fmt.Sprintf("Where(%s)", b.Where))
	}
	if b.HasGroupBy() {
		cols := make([]string, len(b.GroupBy))
		for i, c := range b.GroupBy {
			cols[i] = c.String()
		}
		children = append(children, "GroupBy("+strings.Join(cols, ", ")+")")
	}
	if b.HasHaving() {
		children = append(children, fmt.Sprintf("Having(%s)", b.Having))
	}
	if b.HasOrderBy() {
		children = append(children, "OrderBy("+strings.Join(sortKeyStrings(b.SortKeys), ", ")+")")
	}
	_ = p.WriteChildren(children...)
	return p.String()
}
