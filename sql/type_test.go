package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseType(t *testing.T) {
	testCases := []struct {
		name     string
		expected Type
	}{
		{"int", Int},
		{"INTEGER", Int},
		{"bigint", Long},
		{"long", Long},
		{"float", Float},
		{"real", Float},
		{"Double", Double},
		{"string", String},
		{"varchar", String},
		{"text", Text},
		{"bool", Boolean},
		{" date ", Date},
		{"inet4", Inet4},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			typ, err := ParseType(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.expected, typ)
		})
	}

	_, err := ParseType("decimal(10, 2)")
	require.Error(t, err)
	require.True(t, ErrUnknownType.Is(err))
}

func TestParseColumnType(t *testing.T) {
	require := require.New(t)

	typ, err := ParseColumnType("int8")
	require.NoError(err)
	require.Equal(Long, typ)

	for _, name := range []string{"null", "Any"} {
		_, err = ParseColumnType(name)
		require.True(ErrInvalidColumnType.Is(err), "unexpected error for %s: %v", name, err)
	}

	_, err = ParseColumnType("money")
	require.True(ErrUnknownType.Is(err))
}

func TestTypeClasses(t *testing.T) {
	require := require.New(t)

	for _, typ := range []Type{Byte, Short, Int, Long, Float, Double} {
		require.True(typ.IsNumeric(), typ.String())
		require.False(typ.IsCharacter(), typ.String())
	}
	for _, typ := range []Type{Char, String, Text} {
		require.False(typ.IsNumeric(), typ.String())
		require.True(typ.IsCharacter(), typ.String())
	}
	require.False(Boolean.IsNumeric())
	require.Equal("UNKNOWN", Type(200).String())
}

func TestWiderNumeric(t *testing.T) {
	require := require.New(t)

	require.Equal(Long, WiderNumeric(Int, Long))
	require.Equal(Long, WiderNumeric(Long, Int))
	require.Equal(Double, WiderNumeric(Float, Double))
	require.Equal(Float, WiderNumeric(Long, Float))
	require.Equal(Short, WiderNumeric(Byte, Short))
	require.Equal(Int, WiderNumeric(Null, Int))
	require.Equal(Int, WiderNumeric(Int, Null))
}

func TestComparable(t *testing.T) {
	require := require.New(t)

	require.True(Comparable(Int, Double))
	require.True(Comparable(String, Text))
	require.True(Comparable(Date, Date))
	require.True(Comparable(Null, Boolean))
	require.False(Comparable(Int, String))
	require.False(Comparable(Boolean, Int))
}
