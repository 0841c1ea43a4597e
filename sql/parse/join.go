package parse

import (
	"regexp"
	"strings"

	"github.com/src-d/go-nql/sql/ast"
)

var (
	joinKeywordRegex = regexp.MustCompile(`(?i)\bjoin\b`)
	lastWordRegex    = regexp.MustCompile(`(\w+)\s*$`)
)

// plainJoins holds, in textual order, the kind of each join that the SQL
// parser reads as a plain JOIN. The parser does not tell JOIN, INNER JOIN
// and CROSS JOIN apart, so they are recovered from the query text.
type plainJoins struct {
	kinds []ast.JoinKind
	next  int
}

func scanPlainJoins(query string) *plainJoins {
	masked := maskQuoted(query)
	j := new(plainJoins)
	for _, loc := range joinKeywordRegex.FindAllStringIndex(masked, -1) {
		var prev string
		if m := lastWordRegex.FindStringSubmatch(masked[:loc[0]]); m != nil {
			prev = strings.ToLower(m[1])
		}

		switch prev {
		case "left", "right", "outer", "natural":
		case "inner":
			j.kinds = append(j.kinds, ast.JoinInner)
		case "cross":
			j.kinds = append(j.kinds, ast.JoinCross)
		default:
			j.kinds = append(j.kinds, ast.JoinBare)
		}
	}
	return j
}

// pop returns the kind of the next plain join.
func (j *plainJoins) pop() ast.JoinKind {
	if j == nil || j.next >= len(j.kinds) {
		return ast.JoinBare
	}
	k := j.kinds[j.next]
	j.next++
	return k
}

var (
	usingListRegex = regexp.MustCompile(`(?i)\busing\s*\(([^()]*)\)`)
	qualifierRegex = regexp.MustCompile("(?:\\w+|`[^`]*`)\\s*\\.\\s*")
)

// unqualifyUsing removes the table qualifiers of the columns of USING
// lists, which the SQL parser only accepts as bare names.
func unqualifyUsing(query string) string {
	masked := maskQuoted(query)
	var result []byte
	last := 0
	for _, loc := range usingListRegex.FindAllStringSubmatchIndex(masked, -1) {
		list := masked[loc[2]:loc[3]]
		for _, q := range qualifierRegex.FindAllStringIndex(list, -1) {
			result = append(result, query[last:loc[2]+q[0]]...)
			last = loc[2] + q[1]
		}
	}
	return string(append(result, query[last:]...))
}
