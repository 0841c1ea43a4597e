package plan

import (
	"strings"

	"github.com/src-d/go-nql/sql"
)

// CreateTableStmt is a bound CREATE TABLE. Tables created from a query carry
// the bound query in Select.
type CreateTableStmt struct {
	Name   string
	Schema sql.Schema
	Meta   *sql.TableMeta
	Path   string
	Select *QueryBlock
}

// StoreType returns the store type of the new table.
func (c *CreateTableStmt) StoreType() sql.StoreType { return c.Meta.StoreType() }

// HasSelect returns whether the table is created from a query.
func (c *CreateTableStmt) HasSelect() bool { return c.Select != nil }

// HasPath returns whether the statement sets the location of the table.
func (c *CreateTableStmt) HasPath() bool { return c.Path != "" }

// TableDesc returns the descriptor of the table the statement creates.
func (c *CreateTableStmt) TableDesc() *sql.TableDesc {
	return sql.NewTableDesc(c.Name, c.Schema, c.Meta, c.Path)
}

func (c *CreateTableStmt) String() string {
	cols := make([]string, len(c.Schema))
	for i, col := range c.Schema {
		cols[i] = col.Name + " " + col.Type.String()
	}

	p := sql.NewTreePrinter()
	_ = p.WriteNode("CreateTable(%s)", c.Name)
	children := []string{
		"Schema(" + strings.Join(cols, ", ") + ")",
		c.Meta.String(),
	}
	if c.HasPath() {
		children = append(children, "Location("+c.Path+")")
	}
	if c.HasSelect() {
		children = append(children, c.Select.String())
	}
	_ = p.WriteChildren(children...)
	return p.String()
}
