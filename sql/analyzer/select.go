package analyzer

import (
	"strings"

	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/src-d/go-nql/sql/expression"
	"github.com/src-d/go-nql/sql/plan"
)

func (a *Analyzer) bindSelect(ctx *sql.Context, sel *ast.Select) (*plan.QueryBlock, error) {
	span, ctx := ctx.Span("bind_select")
	defer span.Finish()

	tables, err := a.resolveTables(ctx, sel.From)
	if err != nil {
		return nil, err
	}

	block := &plan.QueryBlock{FromTables: tables}
	if len(tables) > 1 {
		if block.Join, err = a.resolveJoins(ctx, sel.From, tables); err != nil {
			return nil, err
		}
	}

	if err := a.bindQueryBody(ctx, scope(tables), sel, block); err != nil {
		return nil, err
	}
	return block, nil
}

// bindBareExpr binds a SELECT without FROM. Nothing is visible to its
// expressions but literals and functions.
func (a *Analyzer) bindBareExpr(ctx *sql.Context, sel *ast.Select) (*plan.QueryBlock, error) {
	span, ctx := ctx.Span("bind_expression")
	defer span.Finish()

	block := new(plan.QueryBlock)
	if err := a.bindQueryBody(ctx, nil, sel, block); err != nil {
		return nil, err
	}
	return block, nil
}

// resolveTables looks up the tables of a FROM clause and declares them in
// the context, which rejects duplicated canonical names.
func (a *Analyzer) resolveTables(ctx *sql.Context, sources []*ast.FromSource) ([]*plan.TableRef, error) {
	tables := make([]*plan.TableRef, len(sources))
	for i, src := range sources {
		desc, err := a.getTable(ctx, src.Table)
		if err != nil {
			return nil, err
		}

		if err := ctx.AddTable(src.Table, src.Alias); err != nil {
			return nil, err
		}

		tables[i] = plan.NewTableRef(src.Table, src.Alias, desc)
		a.Log(ctx, "table %q resolved as %q", src.Table, tables[i].CanonicalName())
	}
	return tables, nil
}

func (a *Analyzer) bindQueryBody(ctx *sql.Context, s scope, sel *ast.Select, block *plan.QueryBlock) error {
	var err error
	if block.Targets, err = a.bindTargets(ctx, s, sel.Targets); err != nil {
		return err
	}

	if sel.Where != nil {
		if block.Where, err = a.bindCondition(ctx, s, "WHERE", sel.Where); err != nil {
			return err
		}
		if err := checkNoAggregate(block.Where); err != nil {
			return err
		}
	}

	if block.GroupBy, err = a.bindGroupBy(ctx, s, sel.GroupBy); err != nil {
		return err
	}

	if sel.Having != nil {
		if block.Having, err = a.bindCondition(ctx, s, "HAVING", sel.Having); err != nil {
			return err
		}
	}

	if a.GroupBy == StrictGroupBy {
		if err := checkGrouping(block); err != nil {
			return err
		}
	}

	block.SortKeys, err = a.bindSortSpecs(ctx, s, sel.OrderBy)
	return err
}

func (a *Analyzer) bindTargets(ctx *sql.Context, s scope, targets []*ast.Target) ([]*plan.Target, error) {
	var result []*plan.Target
	for _, t := range targets {
		if t.Star {
			expanded, err := expandStar(s, t.StarTable)
			if err != nil {
				return nil, err
			}
			result = append(result, expanded...)
			continue
		}

		n, err := a.bindExpr(ctx, s, t.Expr)
		if err != nil {
			return nil, err
		}
		result = append(result, &plan.Target{Expr: n, Alias: t.Alias})
	}
	return result, nil
}

// expandStar returns a target for every column of the given table or, if
// table is empty, of every table in scope.
func expandStar(s scope, table string) ([]*plan.Target, error) {
	tables := s
	if table != "" {
		t := s.table(table)
		if t == nil {
			return nil, sql.ErrTableNotFound.New(table)
		}
		tables = scope{t}
	}

	if len(tables) == 0 {
		return nil, sql.ErrColumnNotFound.New("*")
	}

	var targets []*plan.Target
	for _, t := range tables {
		for _, col := range t.Schema() {
			targets = append(targets, &plan.Target{Expr: expression.NewField(col)})
		}
	}
	return targets, nil
}

func (a *Analyzer) bindGroupBy(ctx *sql.Context, s scope, exprs []ast.Expr) ([]*expression.Field, error) {
	var fields []*expression.Field
	for _, e := range exprs {
		ref, ok := e.(*ast.ColumnRef)
		if !ok {
			return nil, sql.ErrInvalidGroupBy.New(e)
		}

		f, err := s.resolveColumn(ref)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}
	return fields, nil
}

func (a *Analyzer) bindSortSpecs(ctx *sql.Context, s scope, specs []*ast.SortSpec) ([]*plan.SortKey, error) {
	var keys []*plan.SortKey
	for _, spec := range specs {
		ref, ok := spec.Expr.(*ast.ColumnRef)
		if !ok {
			return nil, sql.ErrInvalidSortKey.New(spec.Expr)
		}

		f, err := s.resolveColumn(ref)
		if err != nil {
			return nil, err
		}

		key := plan.NewSortKey(f, !spec.Descending)
		switch spec.Nulls {
		case ast.NullsFirst:
			key.NullsFirst = true
		case ast.NullsLast:
			key.NullsFirst = false
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func checkNoAggregate(n expression.Node) error {
	var agg *expression.FuncCall
	expression.Inspect(n, func(n expression.Node) bool {
		if fn, ok := n.(*expression.FuncCall); ok && fn.Func.IsAggregate() && agg == nil {
			agg = fn
		}
		return agg == nil
	})

	if agg != nil {
		return sql.ErrAggregateInWhere.New(agg.Func.Name)
	}
	return nil
}

// checkGrouping verifies that targets not computed by an aggregation only
// use grouped columns. It only applies to grouped or aggregated blocks.
func checkGrouping(block *plan.QueryBlock) error {
	aggregated := block.HasGroupBy()
	for _, t := range block.Targets {
		if expression.HasAggregate(t.Expr) {
			aggregated = true
		}
	}
	if !aggregated {
		return nil
	}

	grouped := make(map[string]struct{}, len(block.GroupBy))
	for _, f := range block.GroupBy {
		grouped[strings.ToLower(f.QualifiedName())] = struct{}{}
	}

	for _, t := range block.Targets {
		if expression.HasAggregate(t.Expr) {
			continue
		}
		for _, f := range expression.Fields(t.Expr) {
			if _, ok := grouped[strings.ToLower(f.QualifiedName())]; !ok {
				return sql.ErrGroupByViolation.New(f.QualifiedName())
			}
		}
	}
	return nil
}
