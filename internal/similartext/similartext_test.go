package similartext

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	require := require.New(t)
	require.Equal(0, Distance("people", "people"))
	require.Equal(1, Distance("people", "peple"))
	require.Equal(3, Distance("kitten", "sitting"))
	require.Equal(4, Distance("", "dept"))
}

func TestFind(t *testing.T) {
	require := require.New(t)

	var names []string
	require.Empty(Find(names, ""))

	names = []string{"people", "student", "branch", "brunch"}
	require.Equal(", maybe you mean people?", Find(names, "peple"))
	require.Equal(", maybe you mean student?", Find(names, "STUDENT"))
	require.Empty(Find(names, ""))
	require.Empty(Find(names, "departments"))
	require.Equal(", maybe you mean branch or brunch?", Find(names, "brench"))
}

func TestFindFromMap(t *testing.T) {
	require := require.New(t)

	var names map[string]int
	require.Empty(FindFromMap(names, ""))

	names = map[string]int{"score": 1, "store": 2, "age": 3}
	require.Equal(", maybe you mean score or store?", FindFromMap(names, "sore"))
	require.Equal(", maybe you mean age?", FindFromMap(names, "age"))

	require.Panics(func() { FindFromMap([]string{"age"}, "age") })
}
