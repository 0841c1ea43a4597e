package plan

import (
	"fmt"
	"sort"
	"strings"

	"github.com/src-d/go-nql/sql"
)

// CreateIndexStmt is a bound CREATE INDEX.
type CreateIndexStmt struct {
	Name      string
	Unique    bool
	Table     string
	Method    sql.IndexMethod
	SortSpecs []*SortKey
	Params    map[string]string
}

// HasParams returns whether the statement has a WITH clause.
func (c *CreateIndexStmt) HasParams() bool { return len(c.Params) > 0 }

// IndexDescs returns the descriptor of the index on each of the indexed
// columns. The first one is named after the index, the following ones get
// the position of the column appended.
func (c *CreateIndexStmt) IndexDescs() []*sql.IndexDesc {
	descs := make([]*sql.IndexDesc, len(c.SortSpecs))
	for i, spec := range c.SortSpecs {
		name := c.Name
		if i > 0 {
			name = fmt.Sprintf("%s_%d", c.Name, i)
		}
		descs[i] = &sql.IndexDesc{
			Name:      name,
			Table:     c.Table,
			Column:    spec.Column.Column(),
			Method:    c.Method,
			Unique:    c.Unique,
			Ascending: spec.Ascending,
		}
	}
	return descs
}

func (c *CreateIndexStmt) String() string {
	kind := "CreateIndex"
	if c.Unique {
		kind = "CreateUniqueIndex"
	}

	p := sql.NewTreePrinter()
	_ = p.WriteNode("%s(%s ON %s USING %s)", kind, c.Name, c.Table, c.Method)
	children := []string{"Columns(" + strings.Join(sortKeyStrings(c.SortSpecs), ", ") + ")"}
	if c.HasParams() {
		keys := make([]string, 0, len(c.Params))
		for k := range c.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		params := make([]string, len(keys))
		for i, k := range keys {
			params[i] = fmt.Sprintf("%s=%s", k, c.Params[k])
		}
		children = append(children, "With("+strings.Join(params, ", ")+")")
	}
	_ = p.WriteChildren(children...)
	return p.String()
}
