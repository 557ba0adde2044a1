package core

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/credstore/internal/storage"
)

func TestDiffLines(t *testing.T) {
	ours := []string{"alice:1", "bob:2", "carol:3"}
	theirs := []string{"alice:1", "bob:9", "dave:4"}

	changes := diffLines(ours, theirs)

	assert.ElementsMatch(t, []Change{
		{Login: "bob", Kind: ChangeUpdated},
		{Login: "carol", Kind: ChangeRemoved},
		{Login: "dave", Kind: ChangeAdded},
	}, changes)
}

func TestDiffLinesIdentical(t *testing.T) {
	lines := []string{"alice:1", "bob:2"}
	assert.Empty(t, diffLines(lines, lines))
	assert.Empty(t, diffLines(nil, nil))
}

func TestDiffLinesMalformed(t *testing.T) {
	changes := diffLines(nil, []string{"garbage"})
	require.Len(t, changes, 1)
	assert.Equal(t, "(malformed line)", changes[0].Login)
	assert.Equal(t, ChangeAdded, changes[0].Kind)
}

func TestDirectoryDiff(t *testing.T) {
	ctx := context.Background()
	dir, store := newTestDirectory(t)
	require.NoError(t, dir.Register(ctx, "alice", []byte("pw")))
	require.NoError(t, dir.Register(ctx, "bob", []byte("pw")))

	backup := storage.NewFileStore(filepath.Join(t.TempDir(), "backup"))
	lines, err := storage.ReadLines(ctx, store)
	require.NoError(t, err)
	require.NoError(t, backup.WriteAll(ctx, lines))

	changes, err := dir.Diff(ctx, backup)
	require.NoError(t, err)
	assert.Empty(t, changes)

	require.NoError(t, dir.ChangePassword(ctx, "bob", []byte("new")))
	require.NoError(t, dir.Register(ctx, "carol", []byte("pw")))

	changes, err = dir.Diff(ctx, backup)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Change{
		{Login: "bob", Kind: ChangeUpdated},
		{Login: "carol", Kind: ChangeRemoved},
	}, changes)
}

func TestChangeKindString(t *testing.T) {
	assert.Equal(t, "added", ChangeAdded.String())
	assert.Equal(t, "removed", ChangeRemoved.String())
	assert.Equal(t, "changed", ChangeUpdated.String())
	assert.Equal(t, "ChangeKind(7)", ChangeKind(7).String())
}
