// Package expression holds the bound, statically typed expression trees
// produced by the analyzer.
//
// Node is a closed set: Literal, Field, UnaryOp, BinaryOp and FuncCall are
// its only implementations, so consumers can switch over the concrete type
// exhaustively.
package expression

import (
	"fmt"
	"strings"

	"github.com/src-d/go-nql/sql"
)

// Node is a bound expression.
type Node interface {
	fmt.Stringer
	// Type returns the static type of the value the expression produces.
	Type() sql.Type
	// IsNullable returns whether the expression may produce NULL.
	IsNullable() bool
	// Children returns the operands of the expression.
	Children() []Node
	node()
}

// Literal is a constant.
type Literal struct {
	Datum sql.Datum
}

// NewLiteral creates a literal of the given type.
func NewLiteral(v interface{}, t sql.Type) *Literal {
	return &Literal{Datum: sql.NewDatum(t, v)}
}

// Type implements the Node interface.
func (l *Literal) Type() sql.Type { return l.Datum.Type }

// IsNullable implements the Node interface.
func (l *Literal) IsNullable() bool { return l.Datum.IsNull() }

// Children implements the Node interface.
func (*Literal) Children() []Node { return nil }

func (l *Literal) String() string { return l.Datum.String() }

// Field is a reference to a column of a table visible in the statement.
type Field struct {
	// Table is the canonical name of the table: its alias, if it has one.
	Table     string
	Name      string
	FieldType sql.Type
	Nullable  bool
}

// NewField creates a reference to the given column.
func NewField(col *sql.Column) *Field {
	return &Field{
		Table:     col.Source,
		Name:      col.Name,
		FieldType: col.Type,
		Nullable:  col.Nullable,
	}
}

// QualifiedName returns table.column.
func (f *Field) QualifiedName() string {
	if f.Table == "" {
		return f.Name
	}
	return f.Table + "." + f.Name
}

// Column returns the column the field references.
func (f *Field) Column() *sql.Column {
	return &sql.Column{Name: f.Name, Type: f.FieldType, Source: f.Table, Nullable: f.Nullable}
}

// Type implements the Node interface.
func (f *Field) Type() sql.Type { return f.FieldType }

// IsNullable implements the Node interface.
func (f *Field) IsNullable() bool { return f.Nullable }

// Children implements the Node interface.
func (*Field) Children() []Node { return nil }

func (f *Field) String() string { return f.QualifiedName() }

// UnaryOp is an operator applied to one operand.
type UnaryOp struct {
	Op         Operator
	Child      Node
	ResultType sql.Type
}

// NewUnaryOp creates a unary operation with the given result type.
func NewUnaryOp(op Operator, child Node, t sql.Type) *UnaryOp {
	return &UnaryOp{Op: op, Child: child, ResultType: t}
}

// Type implements the Node interface.
func (u *UnaryOp) Type() sql.Type { return u.ResultType }

// IsNullable implements the Node interface. Null checks never yield NULL.
func (u *UnaryOp) IsNullable() bool {
	if u.Op == IsNull || u.Op == IsNotNull {
		return false
	}
	return u.Child.IsNullable()
}

// Children implements the Node interface.
func (u *UnaryOp) Children() []Node { return []Node{u.Child} }

func (u *UnaryOp) String() string {
	switch u.Op {
	case IsNull, IsNotNull:
		return fmt.Sprintf("%s %s", u.Child, u.Op)
	default:
		return fmt.Sprintf("%s%s", u.Op, u.Child)
	}
}

// BinaryOp is an operator applied to two operands.
type BinaryOp struct {
	Op          Operator
	Left, Right Node
	ResultType  sql.Type
}

// NewBinaryOp creates a binary operation with the given result type.
func NewBinaryOp(op Operator, left, right Node, t sql.Type) *BinaryOp {
	return &BinaryOp{Op: op, Left: left, Right: right, ResultType: t}
}

// Type implements the Node interface.
func (b *BinaryOp) Type() sql.Type { return b.ResultType }

// IsNullable implements the Node interface.
func (b *BinaryOp) IsNullable() bool {
	return b.Left.IsNullable() || b.Right.IsNullable()
}

// Children implements the Node interface.
func (b *BinaryOp) Children() []Node { return []Node{b.Left, b.Right} }

func (b *BinaryOp) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// FuncCall is a call to a function registered in the catalog.
type FuncCall struct {
	Func *sql.FunctionDesc
	Args []Node
}

// NewFuncCall creates a call to the given function.
func NewFuncCall(fn *sql.FunctionDesc, args ...Node) *FuncCall {
	return &FuncCall{Func: fn, Args: args}
}

// Type implements the Node interface.
func (f *FuncCall) Type() sql.Type { return f.Func.ReturnType }

// IsNullable implements the Node interface.
func (f *FuncCall) IsNullable() bool {
	for _, a := range f.Args {
		if a.IsNullable() {
			return true
		}
	}
	return false
}

// Children implements the Node interface.
func (f *FuncCall) Children() []Node { return f.Args }

func (f *FuncCall) String() string {
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = a.String()
	}
	return fmt.Sprintf("%s(%s)", strings.ToLower(f.Func.Name), strings.Join(args, ", "))
}

func (*Literal) node()  {}
func (*Field) node()    {}
func (*UnaryOp) node()  {}
func (*BinaryOp) node() {}
func (*FuncCall) node() {}
