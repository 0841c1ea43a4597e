package parse

import (
	"strings"

	"github.com/src-d/go-nql/sql/ast"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"
)

var comparisonOperators = map[string]ast.BinaryOperator{
	sqlparser.EqualStr:        ast.Equal,
	sqlparser.NotEqualStr:     ast.NotEqual,
	sqlparser.LessThanStr:     ast.LessThan,
	sqlparser.LessEqualStr:    ast.LessOrEqual,
	sqlparser.GreaterThanStr:  ast.GreaterThan,
	sqlparser.GreaterEqualStr: ast.GreaterOrEqual,
	sqlparser.LikeStr:         ast.Like,
}

var arithmeticOperators = map[string]ast.BinaryOperator{
	sqlparser.PlusStr:  ast.Plus,
	sqlparser.MinusStr: ast.Minus,
	sqlparser.MultStr:  ast.Multiply,
	sqlparser.DivStr:   ast.Divide,
	sqlparser.ModStr:   ast.Modulo,
}

func exprToExpr(e sqlparser.Expr) (ast.Expr, error) {
	switch v := e.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(e)
	case *sqlparser.ColName:
		if !v.Qualifier.Qualifier.IsEmpty() {
			return nil, ErrUnsupportedFeature.New("database qualified columns")
		}
		if !v.Qualifier.IsEmpty() {
			return ast.NewQualifiedColumn(v.Qualifier.Name.String(), v.Name.String()), nil
		}
		return ast.NewColumn(v.Name.String()), nil
	case *sqlparser.SQLVal:
		return convertVal(v)
	case sqlparser.BoolVal:
		if v {
			return &ast.Literal{Kind: ast.BoolLiteral, Raw: "true"}, nil
		}
		return &ast.Literal{Kind: ast.BoolLiteral, Raw: "false"}, nil
	case *sqlparser.NullVal:
		return &ast.Literal{Kind: ast.NullLiteral, Raw: "NULL"}, nil
	case *sqlparser.ParenExpr:
		return exprToExpr(v.Expr)
	case *sqlparser.NotExpr:
		c, err := exprToExpr(v.Expr)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.Not, Operand: c}, nil
	case *sqlparser.UnaryExpr:
		return unaryExprToExpr(v)
	case *sqlparser.IsExpr:
		return isExprToExpr(v)
	case *sqlparser.AndExpr:
		return binary(ast.And, v.Left, v.Right)
	case *sqlparser.OrExpr:
		return binary(ast.Or, v.Left, v.Right)
	case *sqlparser.ComparisonExpr:
		return comparisonExprToExpr(v)
	case *sqlparser.BinaryExpr:
		op, ok := arithmeticOperators[v.Operator]
		if !ok {
			return nil, ErrUnsupportedFeature.New(v.Operator)
		}
		return binary(op, v.Left, v.Right)
	case *sqlparser.RangeCond:
		return rangeCondToExpr(v)
	case *sqlparser.FuncExpr:
		return funcExprToExpr(v)
	}
}

func binary(op ast.BinaryOperator, left, right sqlparser.Expr) (*ast.BinaryExpr, error) {
	l, err := exprToExpr(left)
	if err != nil {
		return nil, err
	}

	r, err := exprToExpr(right)
	if err != nil {
		return nil, err
	}

	return ast.NewBinary(op, l, r), nil
}

func convertVal(v *sqlparser.SQLVal) (ast.Expr, error) {
	switch v.Type {
	case sqlparser.StrVal:
		return ast.NewString(string(v.Val)), nil
	case sqlparser.IntVal:
		return ast.NewInt(string(v.Val)), nil
	case sqlparser.FloatVal:
		return &ast.Literal{Kind: ast.FloatLiteral, Raw: string(v.Val)}, nil
	default:
		return nil, ErrUnsupportedFeature.New("literal " + string(v.Val))
	}
}

func unaryExprToExpr(u *sqlparser.UnaryExpr) (ast.Expr, error) {
	c, err := exprToExpr(u.Expr)
	if err != nil {
		return nil, err
	}

	switch u.Operator {
	case sqlparser.UMinusStr:
		return &ast.UnaryExpr{Op: ast.Negate, Operand: c}, nil
	case sqlparser.UPlusStr:
		return &ast.UnaryExpr{Op: ast.Positive, Operand: c}, nil
	case sqlparser.BangStr:
		return &ast.UnaryExpr{Op: ast.Not, Operand: c}, nil
	default:
		return nil, ErrUnsupportedFeature.New(u.Operator)
	}
}

func isExprToExpr(c *sqlparser.IsExpr) (ast.Expr, error) {
	e, err := exprToExpr(c.Expr)
	if err != nil {
		return nil, err
	}

	switch c.Operator {
	case sqlparser.IsNullStr:
		return &ast.UnaryExpr{Op: ast.IsNull, Operand: e}, nil
	case sqlparser.IsNotNullStr:
		return &ast.UnaryExpr{Op: ast.IsNotNull, Operand: e}, nil
	default:
		return nil, ErrUnsupportedFeature.New(c.Operator)
	}
}

func comparisonExprToExpr(c *sqlparser.ComparisonExpr) (ast.Expr, error) {
	if c.Operator == sqlparser.NotLikeStr {
		like, err := binary(ast.Like, c.Left, c.Right)
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Op: ast.Not, Operand: like}, nil
	}

	op, ok := comparisonOperators[c.Operator]
	if !ok {
		return nil, ErrUnsupportedFeature.New(c.Operator)
	}

	return binary(op, c.Left, c.Right)
}

// rangeCondToExpr rewrites x BETWEEN a AND b as (x >= a AND x <= b).
func rangeCondToExpr(c *sqlparser.RangeCond) (ast.Expr, error) {
	lower, err := binary(ast.GreaterOrEqual, c.Left, c.From)
	if err != nil {
		return nil, err
	}

	upper, err := binary(ast.LessOrEqual, c.Left, c.To)
	if err != nil {
		return nil, err
	}

	between := ast.NewBinary(ast.And, lower, upper)
	switch c.Operator {
	case sqlparser.BetweenStr:
		return between, nil
	case sqlparser.NotBetweenStr:
		return &ast.UnaryExpr{Op: ast.Not, Operand: between}, nil
	default:
		return nil, ErrUnsupportedFeature.New(c.Operator)
	}
}

func funcExprToExpr(f *sqlparser.FuncExpr) (ast.Expr, error) {
	if f.Distinct {
		return nil, ErrUnsupportedFeature.New("DISTINCT in function calls")
	}

	call := &ast.FuncCall{Name: strings.ToLower(f.Name.String())}
	for _, se := range f.Exprs {
		switch e := se.(type) {
		case *sqlparser.StarExpr:
			if len(f.Exprs) != 1 || !e.TableName.IsEmpty() {
				return nil, ErrUnsupportedSyntax.New(se)
			}
			call.Star = true
		case *sqlparser.AliasedExpr:
			arg, err := exprToExpr(e.Expr)
			if err != nil {
				return nil, err
			}
			call.Args = append(call.Args, arg)
		default:
			return nil, ErrUnsupportedSyntax.New(se)
		}
	}

	return call, nil
}
