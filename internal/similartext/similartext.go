// Package similartext suggests names close to a misspelled one.
package similartext

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// maxDistance is the largest edit distance of a suggestion.
const maxDistance = 2

// Distance returns the Levenshtein distance between two strings.
func Distance(a, b string) int {
	source, target := []rune(a), []rune(b)
	row := make([]int, len(target)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(source); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(target); j++ {
			cost := 1
			if source[i-1] == target[j-1] {
				cost = 0
			}
			cur := row[j]
			row[j] = min(min(row[j]+1, row[j-1]+1), prev+cost)
			prev = cur
		}
	}
	return row[len(target)]
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// Find returns a hint with the names closest to src, in the order they are
// given, or an empty string if none is close enough.
func Find(names []string, src string) string {
	if src == "" {
		return ""
	}

	best := maxDistance + 1
	var matches []string
	for _, name := range names {
		d := Distance(strings.ToLower(name), strings.ToLower(src))
		switch {
		case d < best:
			best = d
			matches = []string{name}
		case d == best:
			matches = append(matches, name)
		}
	}

	if len(matches) == 0 {
		return ""
	}
	return fmt.Sprintf(", maybe you mean %s?", strings.Join(matches, " or "))
}

// FindFromMap works like Find with the keys of a map with string keys.
// Keys are compared in lexicographic order.
func FindFromMap(names interface{}, src string) string {
	v := reflect.ValueOf(names)
	if v.Kind() != reflect.Map || v.Type().Key().Kind() != reflect.String {
		panic(fmt.Sprintf("similartext: expecting a map with string keys, got %T", names))
	}

	keys := make([]string, 0, v.Len())
	for _, k := range v.MapKeys() {
		keys = append(keys, k.String())
	}
	sort.Strings(keys)
	return Find(keys, src)
}
