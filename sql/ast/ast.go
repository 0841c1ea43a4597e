// Package ast defines the raw syntax tree handed to the analyzer. Nodes carry
// names and literal text exactly as written; nothing in this package knows
// about the catalog or about types.
package ast

import "fmt"

// Statement is a parsed SQL statement.
type Statement interface {
	statementNode()
}

// Expr is a parsed expression.
type Expr interface {
	fmt.Stringer
	exprNode()
}

// Select is a SELECT statement. A Select without From is a bare expression.
type Select struct {
	Targets []*Target
	From    []*FromSource
	Where   Expr
	GroupBy []Expr
	Having  Expr
	OrderBy []*SortSpec
}

// Target is an item of the select list. Star targets have a nil Expr.
type Target struct {
	Expr  Expr
	Alias string
	// Star is set for `*` and `t.*`; StarTable holds the qualifier.
	Star      bool
	StarTable string
}

// JoinKind tells how a from source is attached to the sources before it.
type JoinKind uint8

const (
	// JoinNone marks the first source of a FROM clause.
	JoinNone JoinKind = iota
	// JoinComma is a source separated from the previous one by a comma.
	JoinComma
	// JoinBare is the JOIN keyword without a join type.
	JoinBare
	JoinInner
	JoinNatural
	JoinLeftOuter
	JoinRightOuter
	JoinCross
)

// FromSource is a table in a FROM clause together with the join that
// attaches it to the previous sources. Sources keep their textual order.
type FromSource struct {
	Table string
	Alias string
	Join  JoinKind
	// On is the join qualifier, if any.
	On Expr
	// Using holds the columns of a USING clause, if any.
	Using []*ColumnRef
}

// NullOrder is the explicit placement of NULL values in a sort.
type NullOrder uint8

const (
	// NullsDefault lets the sort direction decide.
	NullsDefault NullOrder = iota
	NullsFirst
	NullsLast
)

// SortSpec is an ORDER BY item or an indexed column.
type SortSpec struct {
	Expr       Expr
	Descending bool
	Nulls      NullOrder
}

// CreateTable is either CREATE TABLE ... AS SELECT (AsSelect set) or a
// CREATE TABLE with column definitions.
type CreateTable struct {
	Name      string
	Columns   []*ColumnDef
	StoreType string
	Location  string
	Options   []*Option
	AsSelect  *Select
}

// ColumnDef is a column declared in CREATE TABLE.
type ColumnDef struct {
	Name string
	Type string
}

// Option is a key/value pair of a WITH clause. Value holds a string, an
// int64, a float64 or a bool.
type Option struct {
	Key   string
	Value interface{}
}

// CreateIndex is a CREATE [UNIQUE] INDEX statement.
type CreateIndex struct {
	Unique  bool
	Name    string
	Table   string
	Method  string
	Columns []*SortSpec
	Params  []*Option
}

func (*Select) statementNode()      {}
func (*CreateTable) statementNode() {}
func (*CreateIndex) statementNode() {}
