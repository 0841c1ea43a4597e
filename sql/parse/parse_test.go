package parse

import (
	"testing"

	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	"github.com/stretchr/testify/require"
	errors "gopkg.in/src-d/go-errors.v1"
)

var fixtures = map[string]ast.Statement{
	`SELECT id, name FROM people`: &ast.Select{
		Targets: []*ast.Target{
			{Expr: ast.NewColumn("id")},
			{Expr: ast.NewColumn("name")},
		},
		From: []*ast.FromSource{{Table: "people"}},
	},
	`select p.name as n from people p where p.age > 30;`: &ast.Select{
		Targets: []*ast.Target{
			{Expr: ast.NewQualifiedColumn("p", "name"), Alias: "n"},
		},
		From:  []*ast.FromSource{{Table: "people", Alias: "p"}},
		Where: ast.NewBinary(ast.GreaterThan, ast.NewQualifiedColumn("p", "age"), ast.NewInt("30")),
	},
	`SELECT * FROM people, student, branch`: &ast.Select{
		Targets: []*ast.Target{{Star: true}},
		From: []*ast.FromSource{
			{Table: "people"},
			{Table: "student", Join: ast.JoinComma},
			{Table: "branch", Join: ast.JoinComma},
		},
	},
	`SELECT p.* FROM people p natural join student natural join branch`: &ast.Select{
		Targets: []*ast.Target{{Star: true, StarTable: "p"}},
		From: []*ast.FromSource{
			{Table: "people", Alias: "p"},
			{Table: "student", Join: ast.JoinNatural},
			{Table: "branch", Join: ast.JoinNatural},
		},
	},
	`SELECT name FROM people p JOIN student s ON p.id = s.people_id LEFT JOIN branch b USING (people_id)`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("name")}},
		From: []*ast.FromSource{
			{Table: "people", Alias: "p"},
			{
				Table: "student",
				Alias: "s",
				Join:  ast.JoinBare,
				On: ast.NewBinary(ast.Equal,
					ast.NewQualifiedColumn("p", "id"),
					ast.NewQualifiedColumn("s", "people_id"),
				),
			},
			{
				Table: "branch",
				Alias: "b",
				Join:  ast.JoinLeftOuter,
				Using: []*ast.ColumnRef{ast.NewColumn("people_id")},
			},
		},
	},
	`SELECT name FROM people CROSS JOIN student RIGHT OUTER JOIN branch ON true`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("name")}},
		From: []*ast.FromSource{
			{Table: "people"},
			{Table: "student", Join: ast.JoinCross},
			{Table: "branch", Join: ast.JoinRightOuter, On: &ast.Literal{Kind: ast.BoolLiteral, Raw: "true"}},
		},
	},
	`SELECT name FROM people JOIN student INNER JOIN branch cross join people p2`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("name")}},
		From: []*ast.FromSource{
			{Table: "people"},
			{Table: "student", Join: ast.JoinBare},
			{Table: "branch", Join: ast.JoinInner},
			{Table: "people", Alias: "p2", Join: ast.JoinCross},
		},
	},
	`SELECT name FROM people LEFT JOIN student USING (id) JOIN branch ON name = 'cross join'`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("name")}},
		From: []*ast.FromSource{
			{Table: "people"},
			{Table: "student", Join: ast.JoinLeftOuter, Using: []*ast.ColumnRef{ast.NewColumn("id")}},
			{Table: "branch", Join: ast.JoinBare, On: ast.NewBinary(ast.Equal, ast.NewColumn("name"), ast.NewString("cross join"))},
		},
	},
	`select name, dept from people as p inner join student as s using (p.id, s.people_id)`: &ast.Select{
		Targets: []*ast.Target{
			{Expr: ast.NewColumn("name")},
			{Expr: ast.NewColumn("dept")},
		},
		From: []*ast.FromSource{
			{Table: "people", Alias: "p"},
			{
				Table: "student",
				Alias: "s",
				Join:  ast.JoinInner,
				Using: []*ast.ColumnRef{ast.NewColumn("id"), ast.NewColumn("people_id")},
			},
		},
	},
	`SELECT name FROM people CROSS JOIN student ON id = people_id`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("name")}},
		From: []*ast.FromSource{
			{Table: "people"},
			{Table: "student", Join: ast.JoinCross, On: ast.NewBinary(ast.Equal, ast.NewColumn("id"), ast.NewColumn("people_id"))},
		},
	},
	`SELECT name, sum(score) FROM people GROUP BY name HAVING sum(score) > 10`: &ast.Select{
		Targets: []*ast.Target{
			{Expr: ast.NewColumn("name")},
			{Expr: &ast.FuncCall{Name: "sum", Args: []ast.Expr{ast.NewColumn("score")}}},
		},
		From:    []*ast.FromSource{{Table: "people"}},
		GroupBy: []ast.Expr{ast.NewColumn("name")},
		Having: ast.NewBinary(ast.GreaterThan,
			&ast.FuncCall{Name: "sum", Args: []ast.Expr{ast.NewColumn("score")}},
			ast.NewInt("10"),
		),
	},
	`SELECT COUNT(*) FROM people`: &ast.Select{
		Targets: []*ast.Target{{Expr: &ast.FuncCall{Name: "count", Star: true}}},
		From:    []*ast.FromSource{{Table: "people"}},
	},
	`select name, score from people order by score asc, age desc null first`: &ast.Select{
		Targets: []*ast.Target{
			{Expr: ast.NewColumn("name")},
			{Expr: ast.NewColumn("score")},
		},
		From: []*ast.FromSource{{Table: "people"}},
		OrderBy: []*ast.SortSpec{
			{Expr: ast.NewColumn("score")},
			{Expr: ast.NewColumn("age"), Descending: true, Nulls: ast.NullsFirst},
		},
	},
	`select name from people where name = 'null first' order by name nulls last`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("name")}},
		From:    []*ast.FromSource{{Table: "people"}},
		Where:   ast.NewBinary(ast.Equal, ast.NewColumn("name"), ast.NewString("null first")),
		OrderBy: []*ast.SortSpec{
			{Expr: ast.NewColumn("name"), Nulls: ast.NullsLast},
		},
	},
	`SELECT 3 + 5 * 3`: &ast.Select{
		Targets: []*ast.Target{{
			Expr: ast.NewBinary(ast.Plus,
				ast.NewInt("3"),
				ast.NewBinary(ast.Multiply, ast.NewInt("5"), ast.NewInt("3")),
			),
		}},
	},
	`SELECT -age FROM people`: &ast.Select{
		Targets: []*ast.Target{{Expr: &ast.UnaryExpr{Op: ast.Negate, Operand: ast.NewColumn("age")}}},
		From:    []*ast.FromSource{{Table: "people"}},
	},
	`SELECT 1.5, NOT true, null`: &ast.Select{
		Targets: []*ast.Target{
			{Expr: &ast.Literal{Kind: ast.FloatLiteral, Raw: "1.5"}},
			{Expr: &ast.UnaryExpr{Op: ast.Not, Operand: &ast.Literal{Kind: ast.BoolLiteral, Raw: "true"}}},
			{Expr: &ast.Literal{Kind: ast.NullLiteral, Raw: "NULL"}},
		},
	},
	`SELECT name FROM people WHERE age IS NOT NULL AND (name LIKE 'a%' OR name NOT LIKE 'b%')`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("name")}},
		From:    []*ast.FromSource{{Table: "people"}},
		Where: ast.NewBinary(ast.And,
			&ast.UnaryExpr{Op: ast.IsNotNull, Operand: ast.NewColumn("age")},
			ast.NewBinary(ast.Or,
				ast.NewBinary(ast.Like, ast.NewColumn("name"), ast.NewString("a%")),
				&ast.UnaryExpr{
					Op:      ast.Not,
					Operand: ast.NewBinary(ast.Like, ast.NewColumn("name"), ast.NewString("b%")),
				},
			),
		),
	},
	`SELECT name FROM people WHERE age BETWEEN 1 AND 2`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("name")}},
		From:    []*ast.FromSource{{Table: "people"}},
		Where: ast.NewBinary(ast.And,
			ast.NewBinary(ast.GreaterOrEqual, ast.NewColumn("age"), ast.NewInt("1")),
			ast.NewBinary(ast.LessOrEqual, ast.NewColumn("age"), ast.NewInt("2")),
		),
	},
	`CREATE TABLE people2 AS SELECT id, name FROM people`: &ast.CreateTable{
		Name: "people2",
		AsSelect: &ast.Select{
			Targets: []*ast.Target{
				{Expr: ast.NewColumn("id")},
				{Expr: ast.NewColumn("name")},
			},
			From: []*ast.FromSource{{Table: "people"}},
		},
	},
	`CREATE TABLE scores (id int, name string, score float) USING csv WITH ('csv.delimiter'='|', 'compression'='none') LOCATION '/tmp/data'`: &ast.CreateTable{
		Name: "scores",
		Columns: []*ast.ColumnDef{
			{Name: "id", Type: "int"},
			{Name: "name", Type: "string"},
			{Name: "score", Type: "float"},
		},
		StoreType: "csv",
		Location:  "/tmp/data",
		Options: []*ast.Option{
			{Key: "csv.delimiter", Value: "|"},
			{Key: "compression", Value: "none"},
		},
	},
	`store1 := select name, score from people order by score asc, age desc null first`: &ast.CreateTable{
		Name: "store1",
		AsSelect: &ast.Select{
			Targets: []*ast.Target{
				{Expr: ast.NewColumn("name")},
				{Expr: ast.NewColumn("score")},
			},
			From: []*ast.FromSource{{Table: "people"}},
			OrderBy: []*ast.SortSpec{
				{Expr: ast.NewColumn("score")},
				{Expr: ast.NewColumn("age"), Descending: true, Nulls: ast.NullsFirst},
			},
		},
	},
	`create table table1 (name string, age int) using csv location '/tmp/data' with ('csv.delimiter'='|')`: &ast.CreateTable{
		Name: "table1",
		Columns: []*ast.ColumnDef{
			{Name: "name", Type: "string"},
			{Name: "age", Type: "int"},
		},
		StoreType: "csv",
		Location:  "/tmp/data",
		Options:   []*ast.Option{{Key: "csv.delimiter", Value: "|"}},
	},
	`create external table logs (line text)`: &ast.CreateTable{
		Name:    "logs",
		Columns: []*ast.ColumnDef{{Name: "line", Type: "text"}},
	},
	`CREATE UNIQUE INDEX score_idx ON people USING hash (score, age desc null first) WITH ('fillfactor'=70)`: &ast.CreateIndex{
		Unique: true,
		Name:   "score_idx",
		Table:  "people",
		Method: "hash",
		Columns: []*ast.SortSpec{
			{Expr: ast.NewColumn("score")},
			{Expr: ast.NewColumn("age"), Descending: true, Nulls: ast.NullsFirst},
		},
		Params: []*ast.Option{{Key: "fillfactor", Value: int64(70)}},
	},
	`create index age_idx on people (p.age asc nulls last)`: &ast.CreateIndex{
		Name:  "age_idx",
		Table: "people",
		Columns: []*ast.SortSpec{
			{Expr: ast.NewQualifiedColumn("p", "age"), Nulls: ast.NullsLast},
		},
	},
	`-- comment
	SELECT id /* inline */ FROM people`: &ast.Select{
		Targets: []*ast.Target{{Expr: ast.NewColumn("id")}},
		From:    []*ast.FromSource{{Table: "people"}},
	},
}

func TestParse(t *testing.T) {
	for query, expected := range fixtures {
		t.Run(query, func(t *testing.T) {
			require := require.New(t)
			ctx := sql.NewEmptyContext(nil)
			stmt, err := Parse(ctx, query)
			require.NoError(err)
			require.Equal(expected, stmt)
		})
	}
}

var fixturesErrors = map[string]*errors.Kind{
	`SELECT DISTINCT name FROM people`:                     ErrUnsupportedFeature,
	`SELECT name FROM people LIMIT 10`:                     ErrUnsupportedFeature,
	`SELECT name FROM (SELECT name FROM people) t`:         ErrUnsupportedFeature,
	`SELECT name FROM people WHERE name REGEXP 'a'`:        ErrUnsupportedFeature,
	`INSERT INTO people VALUES (1)`:                        ErrUnsupportedSyntax,
	`CREATE TABLE t AS INSERT INTO people VALUES (1)`:      ErrUnsupportedSyntax,
	`CREATE INDEX idx ON people (score) WITH (fillfactor)`: errUnexpectedSyntax,
	`CREATE INDEX idx ON people (score null middle)`:       errUnexpectedSyntax,
	`CREATE TABLE t (id int) trailing`:                     errUnexpectedSyntax,
	`CREATE TABLE t (id int`:                               errUnexpectedSyntax,
	`CREATE TABLE t (id int) LOCATION '/a' LOCATION '/b'`:  errUnexpectedSyntax,
	`t := INSERT INTO people VALUES (1)`:                   ErrUnsupportedSyntax,
	`-- only a comment`:                                    ErrEmptyQuery,
}

func TestParseErrors(t *testing.T) {
	for query, kind := range fixturesErrors {
		t.Run(query, func(t *testing.T) {
			require := require.New(t)
			ctx := sql.NewEmptyContext(nil)
			stmt, err := Parse(ctx, query)
			require.Error(err)
			require.Nil(stmt)
			require.True(kind.Is(err), "unexpected error: %s", err)
		})
	}
}

func TestParseExpr(t *testing.T) {
	require := require.New(t)

	e, err := ParseExpr("upper(name) = 'A'")
	require.NoError(err)
	require.Equal(
		ast.NewBinary(ast.Equal,
			&ast.FuncCall{Name: "upper", Args: []ast.Expr{ast.NewColumn("name")}},
			ast.NewString("A"),
		),
		e,
	)
	require.Equal("(upper(name) = 'A')", e.String())

	_, err = ParseExpr("name AS n")
	require.True(ErrUnsupportedSyntax.Is(err))
}
