package ast

// LiteralKind is the surface syntax of a literal.
type LiteralKind uint8

const (
	IntegerLiteral LiteralKind = iota
	FloatLiteral
	StringLiteral
	BoolLiteral
	NullLiteral
)

func (k LiteralKind) String() string {
	switch k {
	case IntegerLiteral:
		return "integer"
	case FloatLiteral:
		return "float"
	case StringLiteral:
		return "string"
	case BoolLiteral:
		return "boolean"
	default:
		return "null"
	}
}

// Literal is a constant as written in the query.
type Literal struct {
	Kind LiteralKind
	Raw  string
}

// ColumnRef references a column, optionally qualified by a table name or
// alias.
type ColumnRef struct {
	Table string
	Name  string
}

// UnaryOperator is the operator of a unary expression.
type UnaryOperator uint8

const (
	Negate UnaryOperator = iota
	Positive
	Not
	IsNull
	IsNotNull
)

// UnaryExpr is an expression with one operand.
type UnaryExpr struct {
	Op      UnaryOperator
	Operand Expr
}

// BinaryOperator is the operator of a binary expression.
type BinaryOperator uint8

const (
	Plus BinaryOperator = iota
	Minus
	Multiply
	Divide
	Modulo
	Equal
	NotEqual
	LessThan
	LessOrEqual
	GreaterThan
	GreaterOrEqual
	And
	Or
	Like
)

// BinaryExpr is an expression with two operands.
type BinaryExpr struct {
	Op          BinaryOperator
	Left, Right Expr
}

// FuncCall is a function call. Star is set for calls like count(*), which
// have no arguments.
type FuncCall struct {
	Name string
	Args []Expr
	Star bool
}

func (*Literal) exprNode()    {}
func (*ColumnRef) exprNode()  {}
func (*UnaryExpr) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*FuncCall) exprNode()   {}

// NewColumn returns a reference to an unqualified column.
func NewColumn(name string) *ColumnRef {
	return &ColumnRef{Name: name}
}

// NewQualifiedColumn returns a reference to a column of the given table.
func NewQualifiedColumn(table, name string) *ColumnRef {
	return &ColumnRef{Table: table, Name: name}
}

// NewInt returns an integer literal.
func NewInt(raw string) *Literal { return &Literal{Kind: IntegerLiteral, Raw: raw} }

// NewString returns a string literal.
func NewString(raw string) *Literal { return &Literal{Kind: StringLiteral, Raw: raw} }

// NewBinary returns a binary expression.
func NewBinary(op BinaryOperator, left, right Expr) *BinaryExpr {
	return &BinaryExpr{Op: op, Left: left, Right: right}
}
