package nql_test

import (
	"context"
	"fmt"

	nql "github.com/src-d/go-nql"
	"github.com/src-d/go-nql/memory"
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/plan"
)

func Example() {
	c := memory.NewCatalog()
	checkIfError(c.AddTable(sql.NewTableDesc("people", sql.Schema{
		{Name: "name", Type: sql.String, Nullable: true},
		{Name: "score", Type: sql.Int, Nullable: true},
	}, sql.NewTableMeta(sql.CSV, nil), "file:///data/people")))
	checkIfError(c.RegisterFunction(&sql.FunctionDesc{
		Name:       "sumtest",
		Kind:       sql.GeneralFunction,
		ReturnType: sql.Int,
		Params:     []sql.Type{sql.Int},
	}))

	e := nql.New(c)
	stmt, err := e.Analyze(context.Background(), "select name, sumtest(score) as total from people")
	checkIfError(err)

	for _, t := range stmt.(*plan.QueryBlock).Targets {
		fmt.Println(t.Name(), t.Expr.Type())
	}

	// Output: name STRING
	// total INT
}

func checkIfError(err error) {
	if err != nil {
		panic(err)
	}
}
