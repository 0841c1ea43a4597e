package testutil

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/src-d/go-nql/sql"
	"github.com/stretchr/testify/require"
)

// RunCatalogTests checks that the catalogs returned by newCatalog honor the
// catalog contract. Every subtest gets an empty catalog.
func RunCatalogTests(t *testing.T, newCatalog func(t *testing.T) sql.Catalog) {
	t.Run("tables", func(t *testing.T) {
		require := require.New(t)
		c := newCatalog(t)

		ok, err := c.ExistsTable("people")
		require.NoError(err)
		require.False(ok)

		_, err = c.GetTableDesc("people")
		require.Error(err)
		require.True(sql.ErrTableNotFound.Is(err), "unexpected error: %s", err)

		require.NoError(c.AddTable(People()))
		require.NoError(c.AddTable(Branch()))
		err = c.AddTable(People())
		require.True(sql.ErrTableAlreadyExists.Is(err), "unexpected error: %s", err)

		ok, err = c.ExistsTable("people")
		require.NoError(err)
		require.True(ok)

		desc, err := c.GetTableDesc("people")
		require.NoError(err)
		requireTableEqual(t, People(), desc)

		desc, err = c.GetTableDesc("branch")
		require.NoError(err)
		requireTableEqual(t, Branch(), desc)

		names, err := c.GetAllTableNames()
		require.NoError(err)
		require.Equal([]string{"branch", "people"}, names)

		require.NoError(c.DeleteTable("people"))
		err = c.DeleteTable("people")
		require.True(sql.ErrTableNotFound.Is(err), "unexpected error: %s", err)

		names, err = c.GetAllTableNames()
		require.NoError(err)
		require.Equal([]string{"branch"}, names)
	})

	t.Run("functions", func(t *testing.T) {
		require := require.New(t)
		c := newCatalog(t)

		fns, err := c.GetFunctions()
		require.NoError(err)
		require.Empty(fns)

		for _, fn := range Functions() {
			require.NoError(c.RegisterFunction(fn))
		}
		err = c.RegisterFunction(Functions()[0])
		require.True(sql.ErrFunctionAlreadyExists.Is(err), "unexpected error: %s", err)

		fn, err := c.GetFunctionMeta("SUMTEST", []sql.Type{sql.Int})
		require.NoError(err)
		require.Equal(Functions()[0], fn)

		fn, err = c.GetFunctionMeta("count", nil)
		require.NoError(err)
		require.Equal(sql.AggregateFunction, fn.Kind)

		_, err = c.GetFunctionMeta("sumtest", []sql.Type{sql.Long})
		require.True(sql.ErrFunctionNotFound.Is(err), "unexpected error: %s", err)

		ok, err := c.ContainFunction("sumtest", []sql.Type{sql.Int})
		require.NoError(err)
		require.True(ok)

		ok, err = c.ContainFunction("sumtest", []sql.Type{sql.Int, sql.Int})
		require.NoError(err)
		require.False(ok)

		fns, err = c.GetFunctions()
		require.NoError(err)
		require.Len(fns, len(Functions()))

		require.NoError(c.UnregisterFunction("sumtest", []sql.Type{sql.Int}))
		err = c.UnregisterFunction("sumtest", []sql.Type{sql.Int})
		require.True(sql.ErrFunctionNotFound.Is(err), "unexpected error: %s", err)

		ok, err = c.ContainFunction("sumtest", []sql.Type{sql.Int})
		require.NoError(err)
		require.False(ok)
	})

	t.Run("indexes", func(t *testing.T) {
		require := require.New(t)
		c := newCatalog(t)

		idx := &sql.IndexDesc{
			Name:      "score_idx",
			Table:     "people",
			Column:    &sql.Column{Name: "score", Type: sql.Int, Source: "people", Nullable: true},
			Method:    sql.Hash,
			Unique:    true,
			Ascending: true,
		}

		ok, err := c.ExistIndex("score_idx")
		require.NoError(err)
		require.False(ok)

		_, err = c.GetIndex("score_idx")
		require.True(sql.ErrIndexNotFound.Is(err), "unexpected error: %s", err)

		require.NoError(c.AddIndex(idx))
		err = c.AddIndex(idx)
		require.True(sql.ErrIndexAlreadyExists.Is(err), "unexpected error: %s", err)

		ok, err = c.ExistIndex("score_idx")
		require.NoError(err)
		require.True(ok)

		got, err := c.GetIndex("score_idx")
		require.NoError(err)
		require.Equal(idx, got)

		require.NoError(c.DelIndex("score_idx"))
		err = c.DelIndex("score_idx")
		require.True(sql.ErrIndexNotFound.Is(err), "unexpected error: %s", err)
	})
}

func requireTableEqual(t *testing.T, expected, actual *sql.TableDesc) {
	t.Helper()
	if diff := cmp.Diff(expected, actual); diff != "" {
		t.Fatalf("table descriptors differ (-expected +actual):\n%s", diff)
	}
}
