package plan

import (
	"fmt"
	"strings"

	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/expression"
)

// JoinType is the type of a join.
type JoinType uint8

const (
	NaturalJoin JoinType = iota
	InnerJoin
	LeftOuterJoin
	RightOuterJoin
	CrossJoin
)

func (t JoinType) String() string {
	switch t {
	case NaturalJoin:
		return "NATURAL"
	case InnerJoin:
		return "INNER"
	case LeftOuterJoin:
		return "LEFT_OUTER"
	case RightOuterJoin:
		return "RIGHT_OUTER"
	default:
		return "CROSS"
	}
}

var joinNodeNames = map[JoinType]string{
	NaturalJoin:    "NaturalJoin",
	InnerJoin:      "InnerJoin",
	LeftOuterJoin:  "LeftOuterJoin",
	RightOuterJoin: "RightOuterJoin",
	CrossJoin:      "CrossJoin",
}

// JoinClause joins a table with either another table or the join of the
// tables that follow it. Chains of joins are nested to the right, keeping the
// order of the tables in the FROM clause.
//
// A clause has at most one of a qualifier and a list of join columns.
type JoinClause struct {
	Type  JoinType
	Left  *TableRef
	Right *TableRef
	// RightJoin is set instead of Right when the right operand is a join.
	RightJoin *JoinClause
	Qual      expression.Node
	// Columns holds the USING columns or, for natural joins, the columns
	// both sides have in common.
	Columns []string
}

// HasRightJoin returns whether the right operand is a join.
func (j *JoinClause) HasRightJoin() bool { return j.RightJoin != nil }

// HasQual returns whether the join has an ON condition.
func (j *JoinClause) HasQual() bool { return j.Qual != nil }

// HasColumns returns whether the join has join columns.
func (j *JoinClause) HasColumns() bool { return len(j.Columns) > 0 }

// Tables returns the tables of the join in the order they were written.
func (j *JoinClause) Tables() []*TableRef {
	tables := []*TableRef{j.Left}
	if j.HasRightJoin() {
		return append(tables, j.RightJoin.Tables()...)
	}
	return append(tables, j.Right)
}

// RightSchema returns the schema of the right operand.
func (j *JoinClause) RightSchema() sql.Schema {
	if j.HasRightJoin() {
		return j.RightJoin.Schema()
	}
	return j.Right.Schema()
}

// Schema returns the columns of both operands, left first.
func (j *JoinClause) Schema() sql.Schema {
	left := j.Left.Schema()
	right := j.RightSchema()
	schema := make(sql.Schema, 0, len(left)+len(right))
	schema = append(schema, left...)
	return append(schema, right...)
}

func (j *JoinClause) String() string {
	p := sql.NewTreePrinter()
	switch {
	case j.HasQual():
		_ = p.WriteNode("%s(%s)", joinNodeNames[j.Type], j.Qual)
	case j.HasColumns():
		_ = p.WriteNode("%s(USING %s)", joinNodeNames[j.Type], strings.Join(j.Columns, ", "))
	default:
		_ = p.WriteNode(joinNodeNames[j.Type])
	}

	right := fmt.Sprint(j.Right)
	if j.HasRightJoin() {
		right = j.RightJoin.String()
	}
	_ = p.WriteChildren(j.Left.String(), right)
	return p.String()
}
