package analyzer

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/src-d/go-nql/internal/similartext"
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/src-d/go-nql/sql/expression"
	"github.com/src-d/go-nql/sql/plan"
)

// scope is the list of tables an expression can reference.
type scope []*plan.TableRef

func (s scope) table(name string) *plan.TableRef {
	for _, t := range s {
		if strings.EqualFold(t.CanonicalName(), name) {
			return t
		}
	}
	return nil
}

func (s scope) names() []string {
	names := make([]string, len(s))
	for i, t := range s {
		names[i] = t.CanonicalName()
	}
	return names
}

func (s scope) resolveColumn(ref *ast.ColumnRef) (*expression.Field, error) {
	if ref.Table != "" {
		t := s.table(ref.Table)
		if t == nil {
			return nil, sql.ErrTableNotFound.New(ref.Table + similartext.Find(s.names(), ref.Table))
		}

		col := t.Schema().Column(ref.Name)
		if col == nil {
			return nil, sql.ErrTableColumnNotFound.New(ref.Table, ref.Name)
		}
		return expression.NewField(col), nil
	}

	var found *sql.Column
	var tables []string
	for _, t := range s {
		if col := t.Schema().Column(ref.Name); col != nil {
			found = col
			tables = append(tables, t.CanonicalName())
		}
	}

	switch len(tables) {
	case 0:
		return nil, sql.ErrColumnNotFound.New(ref.Name)
	case 1:
		return expression.NewField(found), nil
	default:
		return nil, sql.ErrAmbiguousColumnName.New(ref.Name, strings.Join(tables, ", "))
	}
}

var binaryOperators = map[ast.BinaryOperator]expression.Operator{
	ast.Plus:           expression.Plus,
	ast.Minus:          expression.Minus,
	ast.Multiply:       expression.Multiply,
	ast.Divide:         expression.Divide,
	ast.Modulo:         expression.Modulo,
	ast.Equal:          expression.Equals,
	ast.NotEqual:       expression.NotEquals,
	ast.LessThan:       expression.LessThan,
	ast.LessOrEqual:    expression.LessOrEqual,
	ast.GreaterThan:    expression.GreaterThan,
	ast.GreaterOrEqual: expression.GreaterOrEqual,
	ast.And:            expression.And,
	ast.Or:             expression.Or,
	ast.Like:           expression.Like,
}

var unaryOperators = map[ast.UnaryOperator]expression.Operator{
	ast.Negate:    expression.Negate,
	ast.Positive:  expression.Positive,
	ast.Not:       expression.Not,
	ast.IsNull:    expression.IsNull,
	ast.IsNotNull: expression.IsNotNull,
}

// bindExpr turns a parsed expression into a typed one, resolving columns
// against the given scope and functions against the catalog.
func (a *Analyzer) bindExpr(ctx *sql.Context, s scope, e ast.Expr) (expression.Node, error) {
	switch e := e.(type) {
	case *ast.Literal:
		return bindLiteral(e)
	case *ast.ColumnRef:
		f, err := s.resolveColumn(e)
		if err != nil {
			return nil, err
		}
		a.Log(ctx, "column %q was resolved to %q", e, f.QualifiedName())
		return f, nil
	case *ast.UnaryExpr:
		child, err := a.bindExpr(ctx, s, e.Operand)
		if err != nil {
			return nil, err
		}
		return bindUnary(unaryOperators[e.Op], child)
	case *ast.BinaryExpr:
		left, err := a.bindExpr(ctx, s, e.Left)
		if err != nil {
			return nil, err
		}
		right, err := a.bindExpr(ctx, s, e.Right)
		if err != nil {
			return nil, err
		}
		return bindBinary(binaryOperators[e.Op], left, right)
	case *ast.FuncCall:
		return a.bindFuncCall(ctx, s, e)
	default:
		return nil, sql.ErrUnsupportedStatement.New(e)
	}
}

func bindLiteral(l *ast.Literal) (*expression.Literal, error) {
	switch l.Kind {
	case ast.IntegerLiteral:
		n, err := strconv.ParseInt(l.Raw, 10, 64)
		if err != nil {
			return nil, sql.ErrInvalidLiteral.New(l.Kind, l.Raw)
		}
		if n >= math.MinInt32 && n <= math.MaxInt32 {
			return expression.NewLiteral(int32(n), sql.Int), nil
		}
		return expression.NewLiteral(n, sql.Long), nil
	case ast.FloatLiteral:
		f, err := strconv.ParseFloat(l.Raw, 64)
		if err != nil {
			return nil, sql.ErrInvalidLiteral.New(l.Kind, l.Raw)
		}
		if math.Abs(f) <= math.MaxFloat32 {
			return expression.NewLiteral(float32(f), sql.Float), nil
		}
		return expression.NewLiteral(f, sql.Double), nil
	case ast.StringLiteral:
		return expression.NewLiteral(l.Raw, sql.String), nil
	case ast.BoolLiteral:
		b, err := strconv.ParseBool(strings.ToLower(l.Raw))
		if err != nil {
			return nil, sql.ErrInvalidLiteral.New(l.Kind, l.Raw)
		}
		return expression.NewLiteral(b, sql.Boolean), nil
	case ast.NullLiteral:
		return expression.NewLiteral(nil, sql.Null), nil
	default:
		return nil, sql.ErrInvalidLiteral.New(l.Kind, l.Raw)
	}
}

func bindUnary(op expression.Operator, child expression.Node) (expression.Node, error) {
	t := child.Type()
	switch op {
	case expression.Negate, expression.Positive:
		if t != sql.Null && !t.IsNumeric() {
			return nil, sql.ErrTypeMismatch.New(fmt.Sprintf("%s%s", op, t))
		}
		return expression.NewUnaryOp(op, child, t), nil
	case expression.Not:
		if t != sql.Null && t != sql.Boolean {
			return nil, sql.ErrTypeMismatch.New(fmt.Sprintf("%s%s", op, t))
		}
		return expression.NewUnaryOp(op, child, sql.Boolean), nil
	default:
		return expression.NewUnaryOp(op, child, sql.Boolean), nil
	}
}

func bindBinary(op expression.Operator, left, right expression.Node) (expression.Node, error) {
	lt, rt := left.Type(), right.Type()
	mismatch := func() error {
		return sql.ErrTypeMismatch.New(fmt.Sprintf("%s %s %s", lt, op, rt))
	}
	accepts := func(t sql.Type, ok func(sql.Type) bool) bool {
		return t == sql.Null || ok(t)
	}

	switch {
	case op.IsArithmetic():
		if !accepts(lt, sql.Type.IsNumeric) || !accepts(rt, sql.Type.IsNumeric) {
			return nil, mismatch()
		}
		return expression.NewBinaryOp(op, left, right, sql.WiderNumeric(lt, rt)), nil
	case op.IsComparison():
		if !sql.Comparable(lt, rt) {
			return nil, mismatch()
		}
	case op.IsLogical():
		if !accepts(lt, isBoolean) || !accepts(rt, isBoolean) {
			return nil, mismatch()
		}
	case op == expression.Like:
		if !accepts(lt, sql.Type.IsCharacter) || !accepts(rt, sql.Type.IsCharacter) {
			return nil, mismatch()
		}
	}

	return expression.NewBinaryOp(op, left, right, sql.Boolean), nil
}

func isBoolean(t sql.Type) bool { return t == sql.Boolean }

func (a *Analyzer) bindFuncCall(ctx *sql.Context, s scope, call *ast.FuncCall) (expression.Node, error) {
	args := make([]expression.Node, len(call.Args))
	types := make([]sql.Type, len(call.Args))
	for i, arg := range call.Args {
		n, err := a.bindExpr(ctx, s, arg)
		if err != nil {
			return nil, err
		}
		args[i] = n
		types[i] = n.Type()
	}

	fn, err := a.getFunction(ctx, call.Name, types)
	if err != nil {
		return nil, err
	}

	a.Log(ctx, "function call %s resolved to %s", call, fn.Signature())
	return expression.NewFuncCall(fn, args...), nil
}

// bindCondition binds an expression that must be a boolean.
func (a *Analyzer) bindCondition(ctx *sql.Context, s scope, clause string, e ast.Expr) (expression.Node, error) {
	n, err := a.bindExpr(ctx, s, e)
	if err != nil {
		return nil, err
	}

	if t := n.Type(); t != sql.Boolean && t != sql.Null {
		return nil, sql.ErrTypeMismatch.New(fmt.Sprintf("%s condition must be BOOLEAN, got %s", clause, t))
	}
	return n, nil
}
