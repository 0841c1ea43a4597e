package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseStoreType(t *testing.T) {
	require := require.New(t)

	st, err := ParseStoreType("csv")
	require.NoError(err)
	require.Equal(CSV, st)

	st, err = ParseStoreType("Parquet")
	require.NoError(err)
	require.Equal(Parquet, st)
	require.Equal("PARQUET", st.String())

	_, err = ParseStoreType("orc")
	require.True(ErrUnknownStoreType.Is(err))
}

func TestTableMetaAccessors(t *testing.T) {
	require := require.New(t)

	opts := map[string]string{"csv.delimiter": "|"}
	meta := NewTableMeta(CSV, opts)
	opts["csv.delimiter"] = ","

	v, ok := meta.Option("csv.delimiter")
	require.True(ok)
	require.Equal("|", v)
	require.Equal("x", meta.OptionOr("csv.null", "x"))
	require.True(meta.HasOptions())

	copied := meta.Options()
	copied["other"] = "1"
	_, ok = meta.Option("other")
	require.False(ok)

	meta.PutOption("compression", "snappy")
	require.Equal(`TableMeta(CSV, {compression="snappy", csv.delimiter="|"})`, meta.String())
}

func TestTableMetaBinary(t *testing.T) {
	require := require.New(t)

	meta := NewTableMeta(RCFile, map[string]string{
		"rcfile.serde": "binary",
		"a":            "",
		"compression":  "snappy",
	})

	data, err := meta.MarshalBinary()
	require.NoError(err)

	other := NewTableMeta(RCFile, meta.Options())
	data2, err := other.MarshalBinary()
	require.NoError(err)
	require.Equal(data, data2)

	var decoded TableMeta
	require.NoError(decoded.UnmarshalBinary(data))
	require.True(meta.Equal(&decoded))
	require.Equal(RCFile, decoded.StoreType())

	empty := NewTableMeta(CSV, nil)
	data, err = empty.MarshalBinary()
	require.NoError(err)
	require.NoError(decoded.UnmarshalBinary(data))
	require.True(empty.Equal(&decoded))
	require.False(decoded.HasOptions())
}

func TestTableMetaBinaryMalformed(t *testing.T) {
	require := require.New(t)

	var meta TableMeta
	err := meta.UnmarshalBinary([]byte{0x08, 0x7f})
	require.Error(err)
	require.True(ErrMalformedTableMeta.Is(err))

	err = meta.UnmarshalBinary([]byte{0x12, 0x05, 0x0a})
	require.Error(err)
	require.True(ErrMalformedTableMeta.Is(err))
}

func TestTableMetaWireForm(t *testing.T) {
	require := require.New(t)

	data, err := NewTableMeta(RCFile, map[string]string{"a": "b"}).MarshalBinary()
	require.NoError(err)
	require.Equal([]byte{0x08, 0x02, 0x12, 0x06, 0x0a, 0x01, 'a', 0x12, 0x01, 'b'}, data)

	var meta TableMeta
	require.NoError(meta.UnmarshalBinary([]byte{0x12, 0x03, 0x0a, 0x01, 'k', 0x08, 0x06}))
	require.Equal(Parquet, meta.StoreType())
	require.Equal("", meta.OptionOr("k", "unset"))
}
