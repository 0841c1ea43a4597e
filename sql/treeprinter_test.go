package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const expectedTree = `QueryBlock(people.name, student.dept)
 ├─ InnerJoin(people.id = student.people_id)
 │   ├─ people
 │   └─ student
 └─ OrderBy(people.name ASC NULLS LAST)
`

func TestTreePrinter(t *testing.T) {
	require := require.New(t)

	p := NewTreePrinter()
	require.NoError(p.WriteNode("QueryBlock(%s, %s)", "people.name", "student.dept"))

	join := NewTreePrinter()
	require.NoError(join.WriteNode("InnerJoin(people.id = student.people_id)"))
	require.NoError(join.WriteChildren("people", "student"))

	require.NoError(p.WriteChildren(join.String(), "OrderBy(people.name ASC NULLS LAST)"))
	require.Equal(expectedTree, p.String())
}

func TestTreePrinterErrors(t *testing.T) {
	require := require.New(t)

	p := NewTreePrinter()
	require.True(ErrNodeNotWritten.Is(p.WriteChildren("people")))

	require.NoError(p.WriteNode("CrossJoin"))
	require.True(ErrNodeAlreadyWritten.Is(p.WriteNode("CrossJoin")))

	require.NoError(p.WriteChildren("people", "branch"))
	require.True(ErrChildrenAlreadyWritten.Is(p.WriteChildren("student")))
}
