package parse

import (
	"bufio"
	"strings"

	"github.com/src-d/go-nql/sql/ast"
)

// parseCreateIndex parses
//
//	CREATE [UNIQUE] INDEX name ON table [USING method]
//	    (column [ASC|DESC] [NULL[S] FIRST|LAST], ...)
//	    [WITH ('key'=value, ...)]
func parseCreateIndex(s string) (*ast.CreateIndex, error) {
	r := bufio.NewReader(strings.NewReader(s))

	ci := new(ast.CreateIndex)
	steps := []parseFunc{
		expect("create"),
		skipSpaces,
		optional("unique", expect("unique"), skipSpaces, func(*bufio.Reader) error {
			ci.Unique = true
			return nil
		}),
		expect("index"),
		skipSpaces,
		readIdent(&ci.Name),
		skipSpaces,
		expect("on"),
		skipSpaces,
		readIdent(&ci.Table),
		skipSpaces,
		optional("using", expect("using"), skipSpaces, readIdent(&ci.Method), skipSpaces),
		readList(func() parseFunc { return readSortSpec(&ci.Columns) }),
		skipSpaces,
		optional("with", expect("with"), skipSpaces, readOptions(&ci.Params)),
		checkEOF,
	}

	if err := parseSteps(r, steps...); err != nil {
		return nil, err
	}

	return ci, nil
}

// readSortSpec reads an indexed column with its optional direction and null
// ordering.
func readSortSpec(specs *[]*ast.SortSpec) parseFunc {
	return func(r *bufio.Reader) error {
		var col *ast.ColumnRef
		if err := parseSteps(r, readColumn(&col), skipSpaces); err != nil {
			return err
		}

		spec := &ast.SortSpec{Expr: col}
		switch {
		case keywordAhead(r, "asc"):
			if err := parseSteps(r, expect("asc"), skipSpaces); err != nil {
				return err
			}
		case keywordAhead(r, "desc"):
			if err := parseSteps(r, expect("desc"), skipSpaces); err != nil {
				return err
			}
			spec.Descending = true
		}

		if keywordAhead(r, "null") || keywordAhead(r, "nulls") {
			var null, order string
			err := parseSteps(r, readIdent(&null), skipSpaces, readIdent(&order))
			if err != nil {
				return err
			}

			if spec.Nulls = nullOrder(order); spec.Nulls == ast.NullsDefault {
				return errUnexpectedSyntax.New("FIRST or LAST", order)
			}
		}

		*specs = append(*specs, spec)
		return nil
	}
}

func nullOrder(s string) ast.NullOrder {
	switch strings.ToLower(s) {
	case "first":
		return ast.NullsFirst
	case "last":
		return ast.NullsLast
	default:
		return ast.NullsDefault
	}
}

// parseCreateTable parses
//
//	CREATE [EXTERNAL] TABLE name (column type, ...)
//	    [USING store_type] [WITH ('key'=value, ...)] [LOCATION 'path']
//
// WITH and LOCATION may come in any order.
func parseCreateTable(s string) (*ast.CreateTable, error) {
	r := bufio.NewReader(strings.NewReader(s))

	ct := new(ast.CreateTable)
	steps := []parseFunc{
		expect("create"),
		skipSpaces,
		optional("external", expect("external"), skipSpaces),
		expect("table"),
		skipSpaces,
		readIdent(&ct.Name),
		skipSpaces,
		readList(func() parseFunc { return readColumnDef(&ct.Columns) }),
		skipSpaces,
		optional("using", expect("using"), skipSpaces, readIdent(&ct.StoreType), skipSpaces),
		readTableClauses(ct),
		checkEOF,
	}

	if err := parseSteps(r, steps...); err != nil {
		return nil, err
	}

	return ct, nil
}

func readColumnDef(defs *[]*ast.ColumnDef) parseFunc {
	return func(r *bufio.Reader) error {
		def := new(ast.ColumnDef)
		if err := parseSteps(r, readIdent(&def.Name), skipSpaces, readIdent(&def.Type)); err != nil {
			return err
		}

		*defs = append(*defs, def)
		return nil
	}
}

// readTableClauses reads the WITH and LOCATION clauses of a table
// definition. Each one may appear once.
func readTableClauses(ct *ast.CreateTable) parseFunc {
	return func(r *bufio.Reader) error {
		var with, location bool
		for {
			switch {
			case keywordAhead(r, "with") && !with:
				with = true
				err := parseSteps(r, expect("with"), skipSpaces, readOptions(&ct.Options), skipSpaces)
				if err != nil {
					return err
				}
			case keywordAhead(r, "location") && !location:
				location = true
				err := parseSteps(r, expect("location"), skipSpaces, readQuotedString(&ct.Location), skipSpaces)
				if err != nil {
					return err
				}
			default:
				return nil
			}
		}
	}
}
