package analyzer

import (
	"context"
	"fmt"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/src-d/go-nql/memory"
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/stretchr/testify/require"
)

func TestBuilder(t *testing.T) {
	require := require.New(t)
	c := newTestCatalog(t)

	a := NewDefault(c)
	require.Equal(LenientGroupBy, a.GroupBy)
	require.Equal(DegradeNaturalJoin, a.NaturalJoin)
	require.Equal(c, a.Catalog)

	a = NewBuilder(c).
		WithConfig(Config{GroupBy: "STRICT", NaturalJoin: "Reject"}).
		WithDebug().
		Build()
	require.Equal(StrictGroupBy, a.GroupBy)
	require.Equal(RejectNaturalJoin, a.NaturalJoin)
	require.True(a.Debug)
}

func TestConfigValidate(t *testing.T) {
	require := require.New(t)

	require.NoError(DefaultConfig().Validate())
	require.NoError(Config{}.Validate())
	require.NoError(Config{GroupBy: "Strict", NaturalJoin: "REJECT"}.Validate())

	err := Config{GroupBy: "loose"}.Validate()
	require.True(ErrInvalidPolicy.Is(err))
	err = Config{NaturalJoin: "fail"}.Validate()
	require.True(ErrInvalidPolicy.Is(err))
}

func TestAnalyzeUnsupportedStatement(t *testing.T) {
	c := newTestCatalog(t)
	_, err := analyzeStmt(NewDefault(c), c, nil)
	requireInvalid(t, err, sql.ErrUnsupportedStatement)
}

func TestAnalyzeWithoutCatalog(t *testing.T) {
	_, err := NewDefault(nil).Analyze(sql.NewEmptyContext(nil), sortedPeople())
	requireInvalid(t, err, sql.ErrCatalogUnavailable)
}

func TestAnalyzerCatalogFallback(t *testing.T) {
	c := newTestCatalog(t)
	block := mustSelect(t, c, sortedPeople())

	result, err := NewDefault(c).Analyze(sql.NewEmptyContext(nil), sortedPeople())
	require.NoError(t, err)
	require.Equal(t, block, result)
}

type brokenCatalog struct {
	*memory.Catalog
}

func (brokenCatalog) ExistsTable(string) (bool, error) {
	return false, fmt.Errorf("connection refused")
}

func TestCatalogUnavailable(t *testing.T) {
	c := brokenCatalog{newTestCatalog(t)}
	_, err := analyzeStmt(NewDefault(c), c, sortedPeople())
	requireInvalid(t, err, sql.ErrCatalogUnavailable)

	_, err = analyzeStmt(NewDefault(c), c, &ast.CreateTable{Name: "t", Columns: []*ast.ColumnDef{{Name: "a", Type: "int"}}})
	requireInvalid(t, err, sql.ErrCatalogUnavailable)
}

type countingCatalog struct {
	*memory.Catalog
	tables    int
	functions int
}

func (c *countingCatalog) GetTableDesc(name string) (*sql.TableDesc, error) {
	c.tables++
	return c.Catalog.GetTableDesc(name)
}

func (c *countingCatalog) GetFunctionMeta(name string, params []sql.Type) (*sql.FunctionDesc, error) {
	c.functions++
	return c.Catalog.GetFunctionMeta(name, params)
}

func TestCatalogLookupsAreCached(t *testing.T) {
	require := require.New(t)
	c := &countingCatalog{Catalog: newTestCatalog(t)}

	stmt := &ast.Select{
		Targets: targets(
			call("sumtest", qcol("a", "score")),
			call("sumtest", qcol("b", "score")),
			call("SUMTEST", qcol("a", "age")),
		),
		From: []*ast.FromSource{
			from("people", "a"),
			joined(ast.JoinComma, "people", "b"),
		},
	}

	_, err := analyzeStmt(NewDefault(c), c, stmt)
	require.NoError(err)
	require.Equal(1, c.tables)
	require.Equal(1, c.functions)

	_, err = NewDefault(c).Analyze(sql.NewContext(context.Background(), c, sql.WithCacheSize(0)), stmt)
	require.NoError(err)
	require.Equal(3, c.tables)
	require.Equal(4, c.functions)
}

func TestMetrics(t *testing.T) {
	require := require.New(t)
	c := newTestCatalog(t)

	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(err)

	again, err := NewMetrics(reg)
	require.NoError(err)
	require.Equal(m.statements, again.statements)

	a := NewBuilder(c).WithMetrics(m).Build()
	_, err = analyzeStmt(a, c, sortedPeople())
	require.NoError(err)
	_, err = analyzeStmt(a, c, sortedPeople())
	require.NoError(err)
	_, err = analyzeStmt(a, c, &ast.Select{Targets: targets(col("x")), From: []*ast.FromSource{from("nope", "")}})
	require.Error(err)
	_, err = analyzeStmt(a, c, scoreIndex())
	require.NoError(err)

	counts := map[string]float64{}
	families, err := reg.Gather()
	require.NoError(err)
	for _, f := range families {
		require.Equal("nql_analyzer_statements_total", f.GetName())
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			counts[labels["kind"]+"/"+labels["result"]] = metric.GetCounter().GetValue()
		}
	}

	require.Equal(map[string]float64{
		"select/ok":       2,
		"select/error":    1,
		"create_index/ok": 1,
	}, counts)
}

func TestDebugLog(t *testing.T) {
	require := require.New(t)
	c := newTestCatalog(t)

	logger, hook := test.NewNullLogger()
	ctx := sql.NewContext(context.Background(), c, sql.WithLogger(logger), sql.WithQuery("select name, score from people"))

	a := NewBuilder(c).WithDebug().Build()
	_, err := a.Analyze(ctx, sortedPeople())
	require.NoError(err)

	entries := hook.AllEntries()
	require.NotEmpty(entries)
	require.Equal(logrus.InfoLevel, entries[0].Level)
	require.Equal("starting analysis of statement of type: *ast.Select", entries[0].Message)
	require.Equal("select name, score from people", entries[0].Data["query"])

	hook.Reset()
	_, err = NewDefault(c).Analyze(sql.NewContext(context.Background(), c, sql.WithLogger(logger)), sortedPeople())
	require.NoError(err)
	require.Empty(hook.AllEntries())
}
