// Package testutil holds the catalog fixtures and the catalog contract
// tests shared by the catalog implementations and the analyzer tests.
package testutil

import (
	"testing"

	"github.com/src-d/go-nql/sql"
	"github.com/stretchr/testify/require"
)

// People returns the descriptor of the people table.
func People() *sql.TableDesc {
	return sql.NewTableDesc("people", sql.Schema{
		{Name: "id", Type: sql.Int},
		{Name: "name", Type: sql.String, Nullable: true},
		{Name: "score", Type: sql.Int, Nullable: true},
		{Name: "age", Type: sql.Int, Nullable: true},
	}, sql.NewTableMeta(sql.CSV, nil), "file:///")
}

// Student returns the descriptor of the student table.
func Student() *sql.TableDesc {
	return sql.NewTableDesc("student", sql.Schema{
		{Name: "id", Type: sql.Int},
		{Name: "people_id", Type: sql.Int},
		{Name: "dept", Type: sql.String, Nullable: true},
		{Name: "year", Type: sql.Int, Nullable: true},
	}, sql.NewTableMeta(sql.CSV, nil), "file:///")
}

// Branch returns the descriptor of the branch table.
func Branch() *sql.TableDesc {
	return sql.NewTableDesc("branch", sql.Schema{
		{Name: "id", Type: sql.Int},
		{Name: "people_id", Type: sql.Int},
		{Name: "class", Type: sql.String, Nullable: true},
		{Name: "branch_name", Type: sql.String, Nullable: true},
	}, sql.NewTableMeta(sql.CSV, map[string]string{"csv.delimiter": ","}), "file:///")
}

// Functions returns the functions registered by Populate.
func Functions() []*sql.FunctionDesc {
	return []*sql.FunctionDesc{
		{
			Name:       "sumtest",
			Kind:       sql.GeneralFunction,
			ReturnType: sql.Int,
			Params:     []sql.Type{sql.Int},
		},
		{
			Name:        "sum",
			Kind:        sql.AggregateFunction,
			ReturnType:  sql.Long,
			Params:      []sql.Type{sql.Int},
			Description: "Sum of the values of the group",
			Example:     "sum(score)",
		},
		{
			Name:        "count",
			Kind:        sql.AggregateFunction,
			ReturnType:  sql.Long,
			Description: "Number of rows of the group",
			Example:     "count(*)",
		},
		{
			Name:       "upper",
			Kind:       sql.GeneralFunction,
			ReturnType: sql.String,
			Params:     []sql.Type{sql.String},
		},
	}
}

// Populate adds the people, student and branch tables and the test
// functions to the catalog.
func Populate(t testing.TB, c sql.Catalog) {
	t.Helper()
	for _, desc := range []*sql.TableDesc{People(), Student(), Branch()} {
		require.NoError(t, c.AddTable(desc))
	}
	for _, fn := range Functions() {
		require.NoError(t, c.RegisterFunction(fn))
	}
}
