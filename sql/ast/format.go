package ast

import (
	"fmt"
	"strings"
)

var unaryOperators = map[UnaryOperator]string{
	Negate:    "-",
	Positive:  "+",
	Not:       "NOT ",
	IsNull:    " IS NULL",
	IsNotNull: " IS NOT NULL",
}

var binaryOperators = map[BinaryOperator]string{
	Plus:           "+",
	Minus:          "-",
	Multiply:       "*",
	Divide:         "/",
	Modulo:         "%",
	Equal:          "=",
	NotEqual:       "!=",
	LessThan:       "<",
	LessOrEqual:    "<=",
	GreaterThan:    ">",
	GreaterOrEqual: ">=",
	And:            "AND",
	Or:             "OR",
	Like:           "LIKE",
}

func (l *Literal) String() string {
	if l.Kind == StringLiteral {
		return "'" + strings.Replace(l.Raw, "'", "''", -1) + "'"
	}
	return l.Raw
}

func (c *ColumnRef) String() string {
	if c.Table == "" {
		return c.Name
	}
	return c.Table + "." + c.Name
}

func (u *UnaryExpr) String() string {
	if u.Op == IsNull || u.Op == IsNotNull {
		return fmt.Sprintf("%s%s", u.Operand, unaryOperators[u.Op])
	}
	return fmt.Sprintf("%s%s", unaryOperators[u.Op], u.Operand)
}

func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, binaryOperators[b.Op], b.Right)
}

func (f *FuncCall) String() string {
	if f.Star {
		return f.Name + "(*)"
	}
	args := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = fmt.Sprint(a)
	}
	return f.Name + "(" + strings.Join(args, ", ") + ")"
}
