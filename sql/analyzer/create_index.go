package analyzer

import (
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/src-d/go-nql/sql/plan"
)

func (a *Analyzer) bindCreateIndex(ctx *sql.Context, ci *ast.CreateIndex) (*plan.CreateIndexStmt, error) {
	span, ctx := ctx.Span("bind_create_index")
	defer span.Finish()

	exists, err := a.existsIndex(ctx, ci.Name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, sql.ErrIndexAlreadyExists.New(ci.Name)
	}

	tables, err := a.resolveTables(ctx, []*ast.FromSource{{Table: ci.Table}})
	if err != nil {
		return nil, err
	}

	method := sql.TwoLevelBinTree
	if ci.Method != "" {
		if method, err = sql.ParseIndexMethod(ci.Method); err != nil {
			return nil, err
		}
	}

	keys, err := a.bindSortSpecs(ctx, scope(tables), ci.Columns)
	if err != nil {
		return nil, err
	}

	params, err := bindOptions(ci.Params)
	if err != nil {
		return nil, err
	}

	a.Log(ctx, "index %q on %q with %d columns", ci.Name, ci.Table, len(keys))
	return &plan.CreateIndexStmt{
		Name:      ci.Name,
		Unique:    ci.Unique,
		Table:     ci.Table,
		Method:    method,
		SortSpecs: keys,
		Params:    params,
	}, nil
}
