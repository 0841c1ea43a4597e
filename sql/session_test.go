package sql

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
)

func TestContextAddTable(t *testing.T) {
	require := require.New(t)
	ctx := NewEmptyContext(nil)

	require.NoError(ctx.AddTable("people", "p"))
	require.NoError(ctx.AddTable("people", ""))

	err := ctx.AddTable("student", "P")
	require.Error(err)
	require.True(ErrDuplicateAlias.Is(err))

	err = ctx.AddTable("PEOPLE", "")
	require.True(ErrDuplicateAlias.Is(err))
}

func TestContextLogFields(t *testing.T) {
	require := require.New(t)

	logger, hook := test.NewNullLogger()
	ctx := NewContext(context.Background(), nil, WithQuery("select 1"), WithLogger(logger))
	ctx.Log().Info("hello")

	entry := hook.LastEntry()
	require.NotNil(entry)
	require.Equal("select 1", entry.Data["query"])
	require.Equal(ctx.ID().String(), entry.Data["context_id"])
	require.Equal(logrus.InfoLevel, entry.Level)
}

func TestContextFactory(t *testing.T) {
	require := require.New(t)

	f := NewContextFactory(nil, WithQuery("a"))
	c1 := f.NewContext(context.Background())
	c2 := f.NewContext(context.Background(), WithQuery("b"))

	require.Equal("a", c1.Query())
	require.Equal("b", c2.Query())
	require.NotEqual(c1.ID(), c2.ID())

	require.NoError(c1.AddTable("t", ""))
	require.NoError(c2.AddTable("t", ""))
}

func TestContextSpanSharesScope(t *testing.T) {
	require := require.New(t)
	ctx := NewEmptyContext(nil)

	span, child := ctx.Span("test")
	defer span.Finish()

	require.NoError(child.AddTable("t", ""))
	require.True(ErrDuplicateAlias.Is(ctx.AddTable("t", "")))
}

func TestContextCached(t *testing.T) {
	require := require.New(t)
	ctx := NewEmptyContext(nil)

	var calls int
	fn := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	v, err := ctx.Cached([]interface{}{"sumtest", []Type{Int}}, fn)
	require.NoError(err)
	require.Equal(1, v)

	v, err = ctx.Cached([]interface{}{"sumtest", []Type{Int}}, fn)
	require.NoError(err)
	require.Equal(1, v)

	v, err = ctx.Cached([]interface{}{"sumtest", []Type{Long}}, fn)
	require.NoError(err)
	require.Equal(2, v)

	failing := func() (interface{}, error) {
		calls++
		return nil, ErrTableNotFound.New("x")
	}
	_, err = ctx.Cached("x", failing)
	require.Error(err)
	_, err = ctx.Cached("x", failing)
	require.Error(err)
	require.Equal(4, calls)

	uncached := NewContext(context.Background(), nil, WithCacheSize(0))
	calls = 0
	_, _ = uncached.Cached("k", fn)
	_, _ = uncached.Cached("k", fn)
	require.Equal(2, calls)
}
