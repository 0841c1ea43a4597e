package sql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInvalidQueryCause(t *testing.T) {
	require := require.New(t)

	cause := ErrTableNotFound.New("invalid_table")
	err := ErrInvalidQuery.Wrap(cause, cause.Error())

	require.True(ErrInvalidQuery.Is(err))
	require.Equal("invalid query: table not found: invalid_table", err.Error())
	require.True(ErrTableNotFound.Is(error(err).(interface{ Cause() error }).Cause()))
}
