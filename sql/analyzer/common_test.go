package analyzer

import (
	"context"
	"testing"

	"github.com/src-d/go-nql/memory"
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/src-d/go-nql/sql/plan"
	testutil "github.com/src-d/go-nql/sql/test_util"
	"github.com/stretchr/testify/require"
	errors "gopkg.in/src-d/go-errors.v1"
)

func newTestCatalog(t *testing.T) *memory.Catalog {
	c := memory.NewCatalog()
	testutil.Populate(t, c)
	return c
}

func analyzeStmt(a *Analyzer, c sql.Catalog, stmt ast.Statement) (plan.Statement, error) {
	return a.Analyze(sql.NewContext(context.Background(), c), stmt)
}

func mustAnalyze(t *testing.T, c sql.Catalog, stmt ast.Statement) plan.Statement {
	t.Helper()
	result, err := analyzeStmt(NewDefault(c), c, stmt)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func mustSelect(t *testing.T, c sql.Catalog, sel *ast.Select) *plan.QueryBlock {
	t.Helper()
	block, ok := mustAnalyze(t, c, sel).(*plan.QueryBlock)
	require.True(t, ok)
	return block
}

// requireInvalid checks the error is an invalid query caused by an error of
// the given kind.
func requireInvalid(t *testing.T, err error, cause *errors.Kind) {
	t.Helper()
	require.Error(t, err)
	require.True(t, sql.ErrInvalidQuery.Is(err), "unexpected error: %s", err)

	e, ok := err.(*errors.Error)
	require.True(t, ok)
	require.True(t, cause.Is(e.Cause()), "unexpected cause: %s", e.Cause())
}

func col(name string) *ast.ColumnRef { return ast.NewColumn(name) }

func qcol(table, name string) *ast.ColumnRef { return ast.NewQualifiedColumn(table, name) }

func targets(exprs ...ast.Expr) []*ast.Target {
	ts := make([]*ast.Target, len(exprs))
	for i, e := range exprs {
		ts[i] = &ast.Target{Expr: e}
	}
	return ts
}

func from(table, alias string) *ast.FromSource {
	return &ast.FromSource{Table: table, Alias: alias}
}

func joined(kind ast.JoinKind, table, alias string) *ast.FromSource {
	return &ast.FromSource{Table: table, Alias: alias, Join: kind}
}

func joinedOn(kind ast.JoinKind, table, alias string, on ast.Expr) *ast.FromSource {
	return &ast.FromSource{Table: table, Alias: alias, Join: kind, On: on}
}

func call(name string, args ...ast.Expr) *ast.FuncCall {
	return &ast.FuncCall{Name: name, Args: args}
}

func eq(left, right ast.Expr) ast.Expr {
	return ast.NewBinary(ast.Equal, left, right)
}

// sortedPeople is `select name, score from people order by score asc, age
// desc null first`.
func sortedPeople() *ast.Select {
	return &ast.Select{
		Targets: targets(col("name"), col("score")),
		From:    []*ast.FromSource{from("people", "")},
		OrderBy: []*ast.SortSpec{
			{Expr: col("score")},
			{Expr: col("age"), Descending: true, Nulls: ast.NullsFirst},
		},
	}
}

func requireSortedPeople(t *testing.T, keys []*plan.SortKey) {
	t.Helper()
	require := require.New(t)

	require.Len(keys, 2)
	require.Equal("people.score", keys[0].Column.QualifiedName())
	require.True(keys[0].Ascending)
	require.False(keys[0].NullsFirst)
	require.Equal("people.age", keys[1].Column.QualifiedName())
	require.False(keys[1].Ascending)
	require.True(keys[1].NullsFirst)
}
