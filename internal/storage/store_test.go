package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, s Store) []string {
	t.Helper()
	lines, err := ReadLines(context.Background(), s)
	require.NoError(t, err)
	return lines
}

// runStoreSuite checks the behaviour every backend must share
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("missing resource reads empty", func(t *testing.T) {
		s := newStore(t)
		assert.Empty(t, collect(t, s))
	})

	t.Run("append keeps order", func(t *testing.T) {
		s := newStore(t)
		for _, line := range []string{"a:1", "b:2", "c:3"} {
			require.NoError(t, s.AppendOne(ctx, line))
		}
		assert.Equal(t, []string{"a:1", "b:2", "c:3"}, collect(t, s))
	})

	t.Run("reads are restartable", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AppendOne(ctx, "a"))
		require.NoError(t, s.AppendOne(ctx, "b"))

		first := collect(t, s)
		second := collect(t, s)
		assert.Equal(t, first, second)
	})

	t.Run("write all replaces content", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AppendOne(ctx, "a"))
		require.NoError(t, s.AppendOne(ctx, "b"))
		require.NoError(t, s.AppendOne(ctx, "c"))

		require.NoError(t, s.WriteAll(ctx, []string{"x", "y"}))
		assert.Equal(t, []string{"x", "y"}, collect(t, s))

		require.NoError(t, s.WriteAll(ctx, nil))
		assert.Empty(t, collect(t, s))
	})

	t.Run("write all on missing resource", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.WriteAll(ctx, []string{"x"}))
		assert.Equal(t, []string{"x"}, collect(t, s))
	})

	t.Run("append after write all", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.WriteAll(ctx, []string{"x"}))
		require.NoError(t, s.AppendOne(ctx, "y"))
		assert.Equal(t, []string{"x", "y"}, collect(t, s))
	})

	t.Run("early break then write", func(t *testing.T) {
		s := newStore(t)
		require.NoError(t, s.AppendOne(ctx, "a"))
		require.NoError(t, s.AppendOne(ctx, "b"))

		for line, err := range s.ReadAll(ctx) {
			require.NoError(t, err)
			assert.Equal(t, "a", line)
			break
		}
		require.NoError(t, s.AppendOne(ctx, "c"))
		assert.Equal(t, []string{"a", "b", "c"}, collect(t, s))
	})

	t.Run("rejects line terminators", func(t *testing.T) {
		s := newStore(t)
		err := s.AppendOne(ctx, "a\nb")
		assert.True(t, errors.Is(err, ErrInvalidLine))

		err = s.WriteAll(ctx, []string{"ok", "bad\r"})
		assert.True(t, errors.Is(err, ErrInvalidLine))
		assert.Empty(t, collect(t, s))
	})
}
