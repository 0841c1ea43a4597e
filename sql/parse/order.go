package parse

import (
	"regexp"

	"github.com/src-d/go-nql/sql/ast"
)

var (
	orderByRegex   = regexp.MustCompile(`(?i)\border\s+by\b`)
	nullOrderRegex = regexp.MustCompile(`(?i)\s+nulls?\s+(first|last)\b`)
)

// extractNullOrders removes the NULL[S] FIRST|LAST modifiers from the ORDER
// BY clause of a query, which the SQL parser does not understand. It returns
// the remaining query and the null ordering of each ORDER BY item, by
// position.
func extractNullOrders(query string) (string, map[int]ast.NullOrder) {
	masked := maskQuoted(query)

	start := -1
	for _, loc := range orderByRegex.FindAllStringIndex(masked, -1) {
		if depth(masked[:loc[0]]) == 0 {
			start = loc[1]
		}
	}

	if start < 0 {
		return query, nil
	}

	orders := make(map[int]ast.NullOrder)
	var cuts [][2]int
	item, level, from := 0, 0, start
	for i := start; i <= len(masked); i++ {
		if i < len(masked) {
			switch masked[i] {
			case '(':
				level++
				continue
			case ')':
				level--
				continue
			case ',':
				if level != 0 {
					continue
				}
			default:
				continue
			}
		}

		loc := nullOrderRegex.FindStringSubmatchIndex(masked[from:i])
		if loc != nil {
			orders[item] = nullOrder(masked[from+loc[2] : from+loc[3]])
			cuts = append(cuts, [2]int{from + loc[0], from + loc[1]})
		}

		item++
		from = i + 1
	}

	if len(cuts) == 0 {
		return query, nil
	}

	var result []byte
	last := 0
	for _, c := range cuts {
		result = append(result, query[last:c[0]]...)
		last = c[1]
	}
	result = append(result, query[last:]...)

	return string(result), orders
}

// maskQuoted returns the query with the contents of every quoted string and
// identifier replaced by underscores, keeping byte offsets.
func maskQuoted(query string) string {
	masked := []byte(query)
	var quote byte
	for i := 0; i < len(masked); i++ {
		c := masked[i]
		switch {
		case quote == 0 && (c == '\'' || c == '"' || c == '`'):
			quote = c
		case quote != 0 && c == '\\' && i+1 < len(masked):
			masked[i], masked[i+1] = '_', '_'
			i++
		case quote != 0 && c == quote:
			quote = 0
		case quote != 0:
			masked[i] = '_'
		}
	}
	return string(masked)
}

func depth(s string) int {
	var n int
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			n++
		case ')':
			n--
		}
	}
	return n
}
