package analyzer

import (
	"github.com/spf13/cast"
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/src-d/go-nql/sql/plan"
)

// bindCreateTableAsSelect binds CREATE TABLE ... AS SELECT. The schema of the
// table is the output schema of the query.
func (a *Analyzer) bindCreateTableAsSelect(ctx *sql.Context, ct *ast.CreateTable) (*plan.CreateTableStmt, error) {
	span, ctx := ctx.Span("bind_create_table_as_select")
	defer span.Finish()

	if err := a.checkTableNotExists(ctx, ct.Name); err != nil {
		return nil, err
	}

	var block *plan.QueryBlock
	var err error
	if len(ct.AsSelect.From) == 0 {
		block, err = a.bindBareExpr(ctx, ct.AsSelect)
	} else {
		block, err = a.bindSelect(ctx, ct.AsSelect)
	}
	if err != nil {
		return nil, err
	}

	schema, err := sql.NewSchema(block.Schema()...)
	if err != nil {
		return nil, err
	}

	meta, err := bindTableMeta(ct)
	if err != nil {
		return nil, err
	}

	return &plan.CreateTableStmt{
		Name:   ct.Name,
		Schema: schema.WithSource(ct.Name),
		Meta:   meta,
		Path:   ct.Location,
		Select: block,
	}, nil
}

// bindCreateTable binds a CREATE TABLE with column definitions.
func (a *Analyzer) bindCreateTable(ctx *sql.Context, ct *ast.CreateTable) (*plan.CreateTableStmt, error) {
	span, ctx := ctx.Span("bind_create_table")
	defer span.Finish()

	if err := a.checkTableNotExists(ctx, ct.Name); err != nil {
		return nil, err
	}

	cols := make([]*sql.Column, len(ct.Columns))
	for i, def := range ct.Columns {
		typ, err := sql.ParseColumnType(def.Type)
		if err != nil {
			return nil, err
		}
		cols[i] = &sql.Column{Name: def.Name, Type: typ, Source: ct.Name, Nullable: true}
	}

	schema, err := sql.NewSchema(cols...)
	if err != nil {
		return nil, err
	}

	meta, err := bindTableMeta(ct)
	if err != nil {
		return nil, err
	}

	a.Log(ctx, "table %q defined with %d columns", ct.Name, len(schema))
	return &plan.CreateTableStmt{
		Name:   ct.Name,
		Schema: schema,
		Meta:   meta,
		Path:   ct.Location,
	}, nil
}

func (a *Analyzer) checkTableNotExists(ctx *sql.Context, name string) error {
	exists, err := a.existsTable(ctx, name)
	if err != nil {
		return err
	}
	if exists {
		return sql.ErrTableAlreadyExists.New(name)
	}
	return nil
}

// bindTableMeta builds the table meta of a CREATE TABLE. The store type
// defaults to CSV.
func bindTableMeta(ct *ast.CreateTable) (*sql.TableMeta, error) {
	storeType := sql.CSV
	if ct.StoreType != "" {
		var err error
		if storeType, err = sql.ParseStoreType(ct.StoreType); err != nil {
			return nil, err
		}
	}

	options, err := bindOptions(ct.Options)
	if err != nil {
		return nil, err
	}
	return sql.NewTableMeta(storeType, options), nil
}

// bindOptions turns the pairs of a WITH clause into a map of strings.
func bindOptions(opts []*ast.Option) (map[string]string, error) {
	if len(opts) == 0 {
		return nil, nil
	}

	m := make(map[string]string, len(opts))
	for _, o := range opts {
		v, err := cast.ToStringE(o.Value)
		if err != nil {
			return nil, sql.ErrInvalidLiteral.New("option", o.Key)
		}
		m[o.Key] = v
	}
	return m, nil
}
