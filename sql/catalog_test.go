package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFunctionSignature(t *testing.T) {
	require := require.New(t)

	fn := &FunctionDesc{Name: "SumTest", Kind: AggregateFunction, ReturnType: Int, Params: []Type{Int, Long}}
	require.Equal("sumtest(INT,LONG)", fn.Signature())
	require.True(fn.IsAggregate())
	require.Equal("AGGREGATION", fn.Kind.String())
	require.Equal("now()", FunctionSignature("NOW", nil))
}

func TestParseIndexMethod(t *testing.T) {
	require := require.New(t)

	m, err := ParseIndexMethod("hash")
	require.NoError(err)
	require.Equal(Hash, m)

	m, err = ParseIndexMethod("Two_Level_Bin_Tree")
	require.NoError(err)
	require.Equal(TwoLevelBinTree, m)
	require.Equal("TWO_LEVEL_BIN_TREE", m.String())

	_, err = ParseIndexMethod("gist")
	require.True(ErrUnknownIndexMethod.Is(err))
}

func TestNewTableDescOwnsColumns(t *testing.T) {
	require := require.New(t)

	schema := Schema{{Name: "id", Type: Int}, {Name: "name", Type: String}}
	desc := NewTableDesc("people", schema, NewTableMeta(CSV, nil), "/tmp/people")
	require.Equal("people.id", desc.Schema[0].QualifiedName())
	require.Equal("", schema[0].Source)
}
