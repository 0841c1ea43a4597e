package analyzer

import (
	"strings"

	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/src-d/go-nql/sql/plan"
)

var joinTypes = map[ast.JoinKind]plan.JoinType{
	ast.JoinComma:      plan.CrossJoin,
	ast.JoinCross:      plan.CrossJoin,
	ast.JoinBare:       plan.InnerJoin,
	ast.JoinInner:      plan.InnerJoin,
	ast.JoinNatural:    plan.NaturalJoin,
	ast.JoinLeftOuter:  plan.LeftOuterJoin,
	ast.JoinRightOuter: plan.RightOuterJoin,
}

// resolveJoins builds the join tree of a FROM clause. tables holds the
// resolved tables in the same order as sources. The join of the i-th and
// (i+1)-th sources is described by the (i+1)-th source, and every join
// takes the join of all the sources after it as its right operand.
//
// The ON condition of a source sees that source and every source before
// it, never the ones after.
func (a *Analyzer) resolveJoins(
	ctx *sql.Context,
	sources []*ast.FromSource,
	tables []*plan.TableRef,
) (*plan.JoinClause, error) {
	span, ctx := ctx.Span("resolve_joins")
	defer span.Finish()

	var right *plan.JoinClause
	for i := len(tables) - 2; i >= 0; i-- {
		clause := &plan.JoinClause{Left: tables[i]}
		if right == nil {
			clause.Right = tables[i+1]
		} else {
			clause.RightJoin = right
		}

		if err := a.resolveJoin(ctx, clause, sources[i+1], scope(tables[:i+2])); err != nil {
			return nil, err
		}

		a.Log(ctx, "resolved %s join of %s", clause.Type, clause.Left.CanonicalName())
		right = clause
	}

	return right, nil
}

func (a *Analyzer) resolveJoin(
	ctx *sql.Context,
	clause *plan.JoinClause,
	src *ast.FromSource,
	visible scope,
) error {
	typ, ok := joinTypes[src.Join]
	if !ok {
		return sql.ErrInvalidJoin.New("missing join type before " + src.Table)
	}
	clause.Type = typ

	switch {
	case src.On != nil && src.Using != nil:
		return sql.ErrInvalidJoin.New("join cannot have both ON and USING")
	case typ == plan.NaturalJoin && (src.On != nil || src.Using != nil):
		return sql.ErrInvalidJoin.New("natural join cannot have a condition")
	case typ == plan.CrossJoin && (src.On != nil || src.Using != nil):
		return sql.ErrInvalidJoin.New("cross join cannot have a condition")
	}

	switch {
	case typ == plan.NaturalJoin:
		return a.resolveNaturalJoin(ctx, clause)
	case src.On != nil:
		qual, err := a.bindCondition(ctx, visible, "ON", src.On)
		if err != nil {
			return err
		}
		clause.Qual = qual
	case src.Using != nil:
		left, right := clause.Left.Schema(), clause.RightSchema()
		for _, col := range src.Using {
			if !left.Contains(col.Name) || !right.Contains(col.Name) {
				return sql.ErrJoinColumnNotFound.New(col.Name)
			}
			clause.Columns = append(clause.Columns, col.Name)
		}
	}

	return nil
}

// resolveNaturalJoin finds the columns both sides of a natural join have in
// common. Without any, the join is a cross join.
func (a *Analyzer) resolveNaturalJoin(ctx *sql.Context, clause *plan.JoinClause) error {
	right := clause.RightSchema()

	var common []string
	for _, col := range clause.Left.Schema() {
		if right.Contains(col.Name) {
			common = append(common, col.Name)
		}
	}
	common = dedupStrings(common)

	if len(common) > 0 {
		clause.Columns = common
		return nil
	}

	if a.NaturalJoin == RejectNaturalJoin {
		names := make([]string, 0, len(clause.Tables())-1)
		for _, t := range clause.Tables()[1:] {
			names = append(names, t.CanonicalName())
		}
		return sql.ErrNoCommonColumns.New(clause.Left.CanonicalName(), strings.Join(names, ", "))
	}

	a.Log(ctx, "natural join of %s has no common columns, using a cross join", clause.Left.CanonicalName())
	clause.Type = plan.CrossJoin
	return nil
}

func dedupStrings(in []string) []string {
	var seen = make(map[string]struct{})
	var result []string
	for _, s := range in {
		key := strings.ToLower(s)
		if _, ok := seen[key]; !ok {
			seen[key] = struct{}{}
			result = append(result, s)
		}
	}
	return result
}
