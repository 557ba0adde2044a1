package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/credstore/internal/config"
)

func TestFileStoreSuite(t *testing.T) {
	runStoreSuite(t, func(t *testing.T) Store {
		return NewFileStore(filepath.Join(t.TempDir(), "app_users"))
	})
}

func TestFileStoreLayout(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app_users")
	s := NewFileStore(path)

	require.NoError(t, s.AppendOne(ctx, "alice:1"))
	require.NoError(t, s.AppendOne(ctx, "bob:2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice:1\nbob:2", string(data))

	require.NoError(t, s.WriteAll(ctx, []string{"carol:3", "dave:4"}))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "carol:3\ndave:4", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestFileStoreAppendAfterTrailingNewline(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "app_users")
	require.NoError(t, os.WriteFile(path, []byte("alice:1\n"), 0600))

	s := NewFileStore(path)
	require.NoError(t, s.AppendOne(ctx, "bob:2"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "alice:1\nbob:2", string(data))
}

func TestFileStoreTrimsAndSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_users")
	require.NoError(t, os.WriteFile(path, []byte("alice:1\r\n\n  \nbob:2  \n"), 0600))

	s := NewFileStore(path)
	assert.Equal(t, []string{"alice:1", "bob:2"}, collect(t, s))
}

func TestFileStoreWriteAllLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "app_users"))

	require.NoError(t, s.WriteAll(context.Background(), []string{"a", "b"}))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "app_users", entries[0].Name())
}

func TestFileStoreIOErrors(t *testing.T) {
	ctx := context.Background()
	// A directory in place of the file fails regardless of privileges
	dir := t.TempDir()
	s := NewFileStore(dir)

	_, err := ReadLines(ctx, s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))

	err = s.AppendOne(ctx, "alice:1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))

	err = NewFileStore(filepath.Join(dir, "missing", "app_users")).WriteAll(ctx, []string{"a"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStorage))
}

func TestFileStoreCanceledContext(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app_users")
	require.NoError(t, os.WriteFile(path, []byte("a\nb"), 0600))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := NewFileStore(path)
	_, err := ReadLines(ctx, s)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.True(t, errors.Is(s.AppendOne(ctx, "c"), context.Canceled))
	assert.True(t, errors.Is(s.WriteAll(ctx, nil), context.Canceled))
}

func TestOpenSelectsBackend(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	tests := []struct {
		backend string
		want    any
	}{
		{backend: config.BackendFile, want: &FileStore{}},
		{backend: config.BackendBolt, want: &BoltStore{}},
		{backend: config.BackendSQLite, want: &SQLiteStore{}},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			cfg := &config.Config{}
			cfg.LoadDefaults()
			cfg.Backend = tt.backend
			cfg.StorePath = filepath.Join(dir, tt.backend+".store")

			s, err := Open(ctx, cfg)
			require.NoError(t, err)
			defer s.Close()
			assert.IsType(t, tt.want, s)
		})
	}

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.Backend = "mongo"
	_, err := Open(ctx, cfg)
	assert.True(t, errors.Is(err, config.ErrInvalidConfig))
}
