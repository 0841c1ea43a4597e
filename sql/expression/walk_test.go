package expression

import (
	"testing"

	"github.com/src-d/go-nql/sql"
	"github.com/stretchr/testify/require"
)

func TestWalk(t *testing.T) {
	require := require.New(t)

	lit1 := NewLiteral(int32(1), sql.Int)
	lit2 := NewLiteral(int32(2), sql.Int)
	call := NewFuncCall(sumtest, lit1)
	expr := NewBinaryOp(Plus, call, lit2, sql.Int)

	var visited []Node
	Inspect(expr, func(n Node) bool {
		if n != nil {
			visited = append(visited, n)
		}
		return true
	})
	require.Equal([]Node{expr, call, lit1, lit2}, visited)

	visited = nil
	Inspect(expr, func(n Node) bool {
		if n != nil {
			visited = append(visited, n)
		}
		_, ok := n.(*FuncCall)
		return !ok
	})
	require.Equal([]Node{expr, call, lit2}, visited)
}

func TestFields(t *testing.T) {
	require := require.New(t)

	a := &Field{Table: "t", Name: "a", FieldType: sql.Int}
	b := &Field{Table: "t", Name: "b", FieldType: sql.Int}
	expr := NewBinaryOp(And,
		NewBinaryOp(GreaterThan, a, NewLiteral(int32(3), sql.Int), sql.Boolean),
		NewUnaryOp(IsNotNull, b, sql.Boolean),
		sql.Boolean,
	)
	require.Equal([]*Field{a, b}, Fields(expr))
	require.Nil(Fields(lit(1)))
}

func TestHasAggregate(t *testing.T) {
	require := require.New(t)

	general := &sql.FunctionDesc{Name: "abs", ReturnType: sql.Int, Params: []sql.Type{sql.Int}}
	require.False(HasAggregate(NewFuncCall(general, lit(1))))
	require.True(HasAggregate(NewBinaryOp(Plus, lit(1), NewFuncCall(sumtest, lit(2)), sql.Int)))
	require.False(HasAggregate(lit(3)))
}

func lit(n int32) *Literal { return NewLiteral(n, sql.Int) }
