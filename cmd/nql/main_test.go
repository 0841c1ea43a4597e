package main

import (
	"bytes"
	"io/ioutil"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/src-d/go-nql/boltdb"
	"github.com/src-d/go-nql/memory"
	"github.com/src-d/go-nql/remote"
	"github.com/src-d/go-nql/sql"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli"
)

const peopleFixture = `
tables:
  - name: people
    path: file:///data/people
    options:
      csv.delimiter: "|"
      csv.skip: 1
    columns:
      - {name: id, type: int, nullable: false}
      - {name: name, type: text}
      - {name: score, type: int, nullable: "true"}
  - name: branch
    store: parquet
    columns:
      - {name: id, type: long}
      - {name: people_id, type: int}
functions:
  - name: SumTest
    returns: int
    params: [int]
  - name: count
    aggregate: true
    returns: long
    description: Number of rows of the group
indexes:
  - {name: score_idx, table: people, column: score, method: hash, unique: 1}
`

func init() {
	cli.OsExiter = func(int) {}
	cli.ErrWriter = ioutil.Discard
}

type run struct {
	out, err bytes.Buffer
}

func (r *run) exec(args ...string) error {
	r.out.Reset()
	r.err.Reset()
	app := newApp()
	app.Writer = &r.out
	app.ErrWriter = &r.err
	return app.Run(append([]string{"nql"}, args...))
}

func setup(t *testing.T) (dir string, cleanup func()) {
	t.Helper()
	dir, err := ioutil.TempDir("", "nql-cmd")
	require.NoError(t, err)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "fixture.yaml"), []byte(peopleFixture), 0600))
	return dir, func() { _ = os.RemoveAll(dir) }
}

func TestLoadAndTables(t *testing.T) {
	require := require.New(t)
	dir, cleanup := setup(t)
	defer cleanup()

	catalog := filepath.Join(dir, "catalog.db")
	var r run
	require.NoError(r.exec("load", "--catalog", catalog, filepath.Join(dir, "fixture.yaml")))
	require.Contains(r.out.String(), "loaded 2 tables, 2 functions, 1 indexes")

	require.NoError(r.exec("tables", "-c", catalog))
	out := r.out.String()
	require.Contains(out, "branch")
	require.Contains(out, "people")
	require.Contains(out, "  id INT NOT NULL\n")
	require.Contains(out, "  name TEXT\n")
	require.Contains(out, "  id LONG\n")

	c, err := boltdb.Open(catalog, 0600)
	require.NoError(err)
	defer c.Close()

	desc, err := c.GetTableDesc("people")
	require.NoError(err)
	require.Equal("1", desc.Meta.OptionOr("csv.skip", ""))
	require.Equal("|", desc.Meta.OptionOr("csv.delimiter", ""))
	require.Equal("file:///data/people", desc.Path)

	desc, err = c.GetTableDesc("branch")
	require.NoError(err)
	require.Equal(sql.Parquet, desc.Meta.StoreType())

	fn, err := c.GetFunctionMeta("sumtest", []sql.Type{sql.Int})
	require.NoError(err)
	require.Equal("sumtest", fn.Name)

	idx, err := c.GetIndex("score_idx")
	require.NoError(err)
	require.True(idx.Unique)
	require.True(idx.Ascending)
	require.Equal(sql.Hash, idx.Method)
	require.Equal("people.score", idx.Column.QualifiedName())
}

func TestAnalyzeCommand(t *testing.T) {
	require := require.New(t)
	dir, cleanup := setup(t)
	defer cleanup()

	catalog := filepath.Join(dir, "catalog.db")
	var r run
	require.NoError(r.exec("load", "--catalog", catalog, filepath.Join(dir, "fixture.yaml")))

	require.NoError(r.exec("analyze", "--catalog", catalog,
		"select name, sumtest(score) as total from people order by score desc"))
	require.Contains(r.out.String(), "QueryBlock(people.name, sumtest(people.score) AS total)")
	require.Empty(r.err.String())

	err := r.exec("analyze", "--catalog", catalog,
		"select name from people",
		"select name from nope",
	)
	require.Error(err)
	require.Contains(err.Error(), "1 of 2 queries are invalid")
	require.Contains(r.out.String(), "QueryBlock(people.name)")
	require.Contains(r.err.String(), "table not found: nope")

	err = r.exec("analyze", "--catalog", catalog)
	require.Error(err)
	require.Contains(err.Error(), "no query given")
}

func TestAnalyzeRemote(t *testing.T) {
	require := require.New(t)
	dir, cleanup := setup(t)
	defer cleanup()

	c := memory.NewCatalog()
	data, err := ioutil.ReadFile(filepath.Join(dir, "fixture.yaml"))
	require.NoError(err)
	_, err = loadFixture(c, data)
	require.NoError(err)

	logger, _ := test.NewNullLogger()
	s := httptest.NewServer(remote.NewServer(c, logger))
	defer s.Close()

	var r run
	require.NoError(r.exec("analyze", "--remote", s.URL, "select count(*) from branch"))
	require.Contains(r.out.String(), "QueryBlock(count())")

	require.NoError(r.exec("tables", "--remote", s.URL))
	require.Contains(r.out.String(), "people")

	err = r.exec("analyze", "--remote", s.URL, "--catalog", filepath.Join(dir, "x.db"), "select 1")
	require.Error(err)
	require.Contains(err.Error(), "mutually exclusive")
}

func TestAnalyzeWithConfig(t *testing.T) {
	require := require.New(t)
	dir, cleanup := setup(t)
	defer cleanup()

	catalog := filepath.Join(dir, "catalog.db")
	config := filepath.Join(dir, "nql.yaml")
	require.NoError(ioutil.WriteFile(config, []byte("analyzer:\n  group_by: strict\n"), 0600))

	var r run
	require.NoError(r.exec("load", "--catalog", catalog, filepath.Join(dir, "fixture.yaml")))

	err := r.exec("analyze", "--catalog", catalog, "--config", config,
		"select name, count(*) from people")
	require.Error(err)
	require.Contains(r.err.String(), "must appear in the GROUP BY clause")

	err = r.exec("analyze", "--catalog", catalog, "--config", filepath.Join(dir, "missing.yaml"), "select 1")
	require.Error(err)
	require.Contains(err.Error(), "invalid configuration file")
}

func TestLoadFixtureErrors(t *testing.T) {
	testCases := []struct {
		name    string
		fixture string
		kind    interface{ Is(error) bool }
	}{
		{"malformed", "tables: [", ErrInvalidFixture},
		{"unknown key", "views: []", ErrInvalidFixture},
		{"unnamed table", "tables:\n  - columns: []", ErrInvalidFixture},
		{"unknown type", "tables:\n  - name: t\n    columns:\n      - {name: a, type: decimal}", sql.ErrUnknownType},
		{"unknown store", "tables:\n  - name: t\n    store: orc", sql.ErrUnknownStoreType},
		{"null column", "tables:\n  - name: t\n    columns:\n      - {name: a, type: 'null'}", sql.ErrInvalidColumnType},
		{"bad nullable", "tables:\n  - name: t\n    columns:\n      - {name: a, type: int, nullable: sometimes}", ErrInvalidFixture},
		{"duplicated column", "tables:\n  - name: t\n    columns:\n      - {name: a, type: int}\n      - {name: A, type: int}", sql.ErrDuplicateColumn},
		{"unknown return type", "functions:\n  - {name: f, returns: money}", sql.ErrUnknownType},
		{"index on missing table", "indexes:\n  - {name: i, table: t, column: a}", sql.ErrTableNotFound},
		{"index on missing column", "tables:\n  - name: t\n    columns:\n      - {name: a, type: int}\nindexes:\n  - {name: i, table: t, column: b}", sql.ErrTableColumnNotFound},
		{"unknown method", "tables:\n  - name: t\n    columns:\n      - {name: a, type: int}\nindexes:\n  - {name: i, table: t, column: a, method: gist}", sql.ErrUnknownIndexMethod},
		{"table exists", "tables:\n  - name: t\n  - name: T", sql.ErrTableAlreadyExists},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadFixture(memory.NewCatalog(), []byte(tt.fixture))
			require.Error(t, err)
			require.True(t, tt.kind.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestLoadFixtureCounts(t *testing.T) {
	require := require.New(t)

	n, err := loadFixture(memory.NewCatalog(), []byte(peopleFixture))
	require.NoError(err)
	require.Equal(loaded{tables: 2, functions: 2, indexes: 1}, n)

	n, err = loadFixture(memory.NewCatalog(), []byte("tables:\n  - name: t\n  - name: t"))
	require.Error(err)
	require.Equal(1, n.tables)
}
