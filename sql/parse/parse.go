package parse // import "github.com/src-d/go-nql/sql/parse"

import (
	"bufio"
	"io"
	"regexp"
	"strings"

	opentracing "github.com/opentracing/opentracing-go"
	"github.com/src-d/go-nql/sql"
	"github.com/src-d/go-nql/sql/ast"
	errors "gopkg.in/src-d/go-errors.v1"
	"gopkg.in/src-d/go-vitess.v1/vt/sqlparser"
)

var (
	// ErrUnsupportedSyntax is thrown when a specific syntax is not already supported
	ErrUnsupportedSyntax = errors.NewKind("unsupported syntax: %#v")

	// ErrUnsupportedFeature is thrown when a feature is not already supported
	ErrUnsupportedFeature = errors.NewKind("unsupported feature: %s")

	// ErrEmptyQuery is returned when the query has no statement.
	ErrEmptyQuery = errors.NewKind("query is empty")
)

var (
	createIndexRegex    = regexp.MustCompile(`^create\s+(unique\s+)?index\s+`)
	createTableAsRegex  = regexp.MustCompile(`^create\s+(external\s+)?table\s+(\w+)\s+as\s+`)
	createTableRegex    = regexp.MustCompile(`^create\s+(external\s+)?table\s+`)
	storeAsRegex        = regexp.MustCompile(`^(\w+)\s*:=\s*`)
	selectStatementLike = regexp.MustCompile(`^\(?\s*select\s+`)
)

// Parse parses the given SQL sentence and returns the corresponding
// statement.
func Parse(ctx *sql.Context, query string) (ast.Statement, error) {
	span, ctx := ctx.Span("parse", opentracing.Tag{Key: "query", Value: query})
	defer span.Finish()

	s := strings.TrimSpace(removeComments(query))
	if strings.HasSuffix(s, ";") {
		s = strings.TrimSpace(s[:len(s)-1])
	}

	if s == "" {
		ctx.Log().Debug("query became empty after removing comments")
		return nil, ErrEmptyQuery.New()
	}

	var stmt ast.Statement
	var err error
	lowerQuery := strings.ToLower(s)
	switch true {
	case createIndexRegex.MatchString(lowerQuery):
		stmt, err = parseCreateIndex(s)
	case createTableAsRegex.MatchString(lowerQuery):
		stmt, err = parseCreateTableAs(s, lowerQuery, createTableAsRegex, 2)
	case storeAsRegex.MatchString(lowerQuery):
		stmt, err = parseCreateTableAs(s, lowerQuery, storeAsRegex, 1)
	case createTableRegex.MatchString(lowerQuery):
		stmt, err = parseCreateTable(s)
	default:
		stmt, err = parseSelect(s)
	}

	if err != nil {
		return nil, err
	}

	return stmt, nil
}

// ParseExpr parses a single expression.
func ParseExpr(str string) (ast.Expr, error) {
	sel, err := parseSelect("SELECT " + str)
	if err != nil {
		return nil, err
	}

	if len(sel.Targets) != 1 || sel.Targets[0].Star || sel.Targets[0].Alias != "" {
		return nil, ErrUnsupportedSyntax.New(str)
	}

	return sel.Targets[0].Expr, nil
}

// parseCreateTableAs parses a query that stores the result of a select in a
// new table, either as CREATE TABLE name AS SELECT or as name := SELECT. The
// table name is the given submatch of the regex.
func parseCreateTableAs(s, lowerQuery string, re *regexp.Regexp, group int) (*ast.CreateTable, error) {
	loc := re.FindStringSubmatchIndex(lowerQuery)
	query := s[loc[1]:]
	if !selectStatementLike.MatchString(strings.ToLower(query)) {
		return nil, ErrUnsupportedSyntax.New(query)
	}

	sel, err := parseSelect(query)
	if err != nil {
		return nil, err
	}

	return &ast.CreateTable{Name: s[loc[2*group]:loc[2*group+1]], AsSelect: sel}, nil
}

func parseSelect(s string) (*ast.Select, error) {
	query, nullOrders := extractNullOrders(s)
	query = unqualifyUsing(query)

	stmt, err := sqlparser.Parse(query)
	if err != nil {
		return nil, err
	}

	sel, ok := stmt.(*sqlparser.Select)
	if !ok {
		return nil, ErrUnsupportedSyntax.New(stmt)
	}

	return convertSelect(sel, nullOrders, scanPlainJoins(query))
}

func removeComments(s string) string {
	r := bufio.NewReader(strings.NewReader(s))
	var result []rune
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		switch ru {
		case '\'', '"':
			result = append(result, ru)
			result = append(result, readString(r, ru)...)
		case '-':
			if peeked, err := r.Peek(2); err == nil && string(peeked) == "- " {
				discardUntil(r, "\n")
			} else {
				result = append(result, ru)
			}
		case '/':
			if runeAhead(r, '*') {
				_, _, _ = r.ReadRune()
				discardUntil(r, "*/")
			} else {
				result = append(result, ru)
			}
		default:
			result = append(result, ru)
		}
	}
	return string(result)
}

// discardUntil consumes the reader up to and including the given terminator,
// or up to EOF.
func discardUntil(r *bufio.Reader, terminator string) {
	var tail string
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			return
		}
		if err != nil {
			continue
		}

		tail += string(ru)
		if len(tail) > len(terminator) {
			tail = tail[len(tail)-len(terminator):]
		}

		if tail == terminator {
			return
		}
	}
}

// readString reads the rest of a quoted string, returning it verbatim with
// its closing quote.
func readString(r *bufio.Reader, quote rune) []rune {
	var result []rune
	var escaped bool
	for {
		ru, _, err := r.ReadRune()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		result = append(result, ru)
		if ru == quote && !escaped {
			break
		}
		escaped = !escaped && ru == '\\'
	}
	return result
}
