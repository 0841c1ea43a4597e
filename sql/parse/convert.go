package parse

import (
	"fmt"
	"strings"

	"github.com/src-d/go-nql/sql/ast"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"
)

const dualTable = "dual"

func convertSelect(s *sqlparser.Select, nullOrders map[int]ast.NullOrder, joins *plainJoins) (*ast.Select, error) {
	if s.Distinct != "" {
		return nil, ErrUnsupportedFeature.New("DISTINCT")
	}

	if s.Limit != nil {
		return nil, ErrUnsupportedFeature.New("LIMIT")
	}

	if s.Lock != "" {
		return nil, ErrUnsupportedFeature.New(strings.TrimSpace(s.Lock))
	}

	sel := new(ast.Select)
	var err error
	if sel.From, err = tableExprsToSources(s.From, joins); err != nil {
		return nil, err
	}

	if sel.Targets, err = selectExprsToTargets(s.SelectExprs); err != nil {
		return nil, err
	}

	if s.Where != nil {
		if sel.Where, err = exprToExpr(s.Where.Expr); err != nil {
			return nil, err
		}
	}

	for _, g := range s.GroupBy {
		e, err := exprToExpr(g)
		if err != nil {
			return nil, err
		}
		sel.GroupBy = append(sel.GroupBy, e)
	}

	if s.Having != nil {
		if sel.Having, err = exprToExpr(s.Having.Expr); err != nil {
			return nil, err
		}
	}

	if sel.OrderBy, err = orderByToSortSpecs(s.OrderBy, nullOrders); err != nil {
		return nil, err
	}

	return sel, nil
}

// tableExprsToSources flattens the FROM clause into its tables, in textual
// order, each one carrying the join that attaches it to the previous ones.
func tableExprsToSources(te sqlparser.TableExprs, joins *plainJoins) ([]*ast.FromSource, error) {
	var sources []*ast.FromSource
	for i, t := range te {
		srcs, err := tableExprToSources(t, joins)
		if err != nil {
			return nil, err
		}

		if i > 0 {
			srcs[0].Join = ast.JoinComma
		}
		sources = append(sources, srcs...)
	}

	if len(sources) == 1 && sources[0].Alias == "" &&
		strings.EqualFold(sources[0].Table, dualTable) {
		return nil, nil
	}

	return sources, nil
}

func tableExprToSources(te sqlparser.TableExpr, joins *plainJoins) ([]*ast.FromSource, error) {
	switch t := te.(type) {
	default:
		return nil, ErrUnsupportedSyntax.New(te)
	case *sqlparser.AliasedTableExpr:
		name, ok := t.Expr.(sqlparser.TableName)
		if !ok {
			return nil, ErrUnsupportedFeature.New("subqueries in FROM")
		}

		if !name.Qualifier.IsEmpty() {
			return nil, ErrUnsupportedFeature.New("qualified table names")
		}

		return []*ast.FromSource{{
			Table: name.Name.String(),
			Alias: t.As.String(),
		}}, nil
	case *sqlparser.ParenTableExpr:
		if len(t.Exprs) != 1 {
			return nil, ErrUnsupportedFeature.New("parenthesized table lists")
		}
		return tableExprToSources(t.Exprs[0], joins)
	case *sqlparser.JoinTableExpr:
		left, err := tableExprToSources(t.LeftExpr, joins)
		if err != nil {
			return nil, err
		}

		right, err := tableExprToSources(t.RightExpr, joins)
		if err != nil {
			return nil, err
		}

		if len(right) != 1 {
			return nil, ErrUnsupportedFeature.New("nested joins on the right side")
		}

		src := right[0]
		if src.Join, err = joinKind(t, joins); err != nil {
			return nil, err
		}

		if t.Condition.On != nil {
			if src.On, err = exprToExpr(t.Condition.On); err != nil {
				return nil, err
			}
		}

		for _, c := range t.Condition.Using {
			src.Using = append(src.Using, ast.NewColumn(c.String()))
		}

		return append(left, src), nil
	}
}

// joinKind maps the join of the parser to the join of the AST. Joins are
// visited in textual order, so plain joins are taken from joins in turn.
func joinKind(t *sqlparser.JoinTableExpr, joins *plainJoins) (ast.JoinKind, error) {
	switch t.Join {
	case sqlparser.JoinStr:
		return joins.pop(), nil
	case sqlparser.LeftJoinStr:
		return ast.JoinLeftOuter, nil
	case sqlparser.RightJoinStr:
		return ast.JoinRightOuter, nil
	case sqlparser.NaturalJoinStr:
		return ast.JoinNatural, nil
	default:
		return 0, ErrUnsupportedFeature.New(t.Join)
	}
}

func selectExprsToTargets(se sqlparser.SelectExprs) ([]*ast.Target, error) {
	targets := make([]*ast.Target, len(se))
	for i, e := range se {
		switch e := e.(type) {
		default:
			return nil, ErrUnsupportedSyntax.New(e)
		case *sqlparser.StarExpr:
			targets[i] = &ast.Target{Star: true, StarTable: e.TableName.Name.String()}
		case *sqlparser.AliasedExpr:
			expr, err := exprToExpr(e.Expr)
			if err != nil {
				return nil, err
			}
			targets[i] = &ast.Target{Expr: expr, Alias: e.As.String()}
		}
	}
	return targets, nil
}

func orderByToSortSpecs(ob sqlparser.OrderBy, nullOrders map[int]ast.NullOrder) ([]*ast.SortSpec, error) {
	var specs []*ast.SortSpec
	for i, o := range ob {
		e, err := exprToExpr(o.Expr)
		if err != nil {
			return nil, err
		}

		spec := &ast.SortSpec{Expr: e, Nulls: nullOrders[i]}
		switch o.Direction {
		default:
			return nil, ErrUnsupportedFeature.New(fmt.Sprintf("sort order %s", o.Direction))
		case sqlparser.AscScr:
		case sqlparser.DescScr:
			spec.Descending = true
		}

		specs = append(specs, spec)
	}
	return specs, nil
}
