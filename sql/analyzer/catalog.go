package analyzer

import (
	"strings"

	"github.com/src-d/go-nql/internal/similartext"
	"github.com/src-d/go-nql/sql"
)

// catalogKey identifies a catalog response in the context cache.
type catalogKey struct {
	Op     string
	Name   string
	Params []sql.Type
}

func (a *Analyzer) catalog(ctx *sql.Context) sql.Catalog {
	if c := ctx.Catalog(); c != nil {
		return c
	}
	return a.Catalog
}

// getTable retrieves a table descriptor. Missing tables fail with
// sql.ErrTableNotFound.
func (a *Analyzer) getTable(ctx *sql.Context, name string) (*sql.TableDesc, error) {
	span, ctx := ctx.Span("get_table")
	defer span.Finish()

	v, err := ctx.Cached(catalogKey{Op: "table", Name: strings.ToLower(name)}, func() (interface{}, error) {
		cat := a.catalog(ctx)
		ok, err := cat.ExistsTable(name)
		if err != nil {
			return nil, catalogError(err)
		}
		if !ok {
			return nil, tableNotFound(cat, name)
		}

		desc, err := cat.GetTableDesc(name)
		if err != nil {
			return nil, catalogError(err)
		}
		return desc, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*sql.TableDesc), nil
}

// tableNotFound returns sql.ErrTableNotFound, suggesting the tables of the
// catalog with a similar name.
func tableNotFound(cat sql.Catalog, name string) error {
	names, err := cat.GetAllTableNames()
	if err != nil {
		return sql.ErrTableNotFound.New(name)
	}
	return sql.ErrTableNotFound.New(name + similartext.Find(names, name))
}

// existsTable returns whether the table is in the catalog.
func (a *Analyzer) existsTable(ctx *sql.Context, name string) (bool, error) {
	ok, err := a.catalog(ctx).ExistsTable(name)
	if err != nil {
		return false, catalogError(err)
	}
	return ok, nil
}

// getFunction retrieves the function with exactly the given name and
// parameter types.
func (a *Analyzer) getFunction(ctx *sql.Context, name string, params []sql.Type) (*sql.FunctionDesc, error) {
	name = strings.ToLower(name)
	key := catalogKey{Op: "function", Name: name, Params: params}
	v, err := ctx.Cached(key, func() (interface{}, error) {
		fn, err := a.catalog(ctx).GetFunctionMeta(name, params)
		if err != nil {
			if sql.ErrFunctionNotFound.Is(err) {
				return nil, sql.ErrFunctionNotFound.New(name, sql.TypeList(params))
			}
			return nil, catalogError(err)
		}
		return fn, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*sql.FunctionDesc), nil
}

// existsIndex returns whether an index with the given name exists.
func (a *Analyzer) existsIndex(ctx *sql.Context, name string) (bool, error) {
	ok, err := a.catalog(ctx).ExistIndex(name)
	if err != nil {
		return false, catalogError(err)
	}
	return ok, nil
}

// catalogError keeps the catalog errors the analyzer knows about and turns
// anything else into sql.ErrCatalogUnavailable.
func catalogError(err error) error {
	switch {
	case sql.ErrTableNotFound.Is(err),
		sql.ErrFunctionNotFound.Is(err),
		sql.ErrIndexNotFound.Is(err),
		sql.ErrCatalogUnavailable.Is(err):
		return err
	default:
		return sql.ErrCatalogUnavailable.Wrap(err, err.Error())
	}
}
