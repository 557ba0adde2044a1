package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/illarion/credstore/internal/config"
	"github.com/illarion/credstore/internal/core"
	"github.com/illarion/credstore/internal/credential"
)

func TestFormatSize(t *testing.T) {
	tests := []struct {
		size int64
		want string
	}{
		{0, "0 bytes"},
		{1023, "1023 bytes"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{5 * 1024 * 1024, "5.0 MB"},
		{3 * 1024 * 1024 * 1024, "3.0 GB"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, formatSize(tt.size))
	}
}

func TestErrorHints(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		first string
		lines int
	}{
		{"wrong password", ErrWrongPassword, "Error: wrong password", 1},
		{"unknown user", fmt.Errorf("%w: bob", core.ErrUnknownUser), "Error: user does not exist: bob", 2},
		{"duplicate user", fmt.Errorf("%w: bob", core.ErrDuplicateUser), "Error: user already exists: bob", 2},
		{"malformed", fmt.Errorf("line 3: %w", credential.ErrMalformedRecord), "Error: line 3: ", 2},
		{"mismatch", core.ErrPasswordMismatch, "Error: passwords do not match", 1},
		{"config", fmt.Errorf("%w: bad", config.ErrInvalidConfig), "Error: invalid configuration: bad", 2},
		{"other", errors.New("boom"), "Error: boom", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lines := errorHints(tt.err)
			require.Len(t, lines, tt.lines)
			assert.Contains(t, lines[0], tt.first)
		})
	}
}

func TestLoadConfigFlagsOverride(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvStore, "")
	t.Setenv(config.EnvBackend, "sqlite")
	t.Setenv(config.EnvLogLevel, "")

	path := filepath.Join(t.TempDir(), "users.db")
	cfg, err := LoadConfig(Options{StorePath: path, Backend: "bolt", Verbose: true})
	require.NoError(t, err)

	assert.Equal(t, path, cfg.StorePath)
	assert.Equal(t, config.BackendBolt, cfg.Backend)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsUnknownBackend(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	t.Setenv(config.EnvBackend, "")

	_, err := LoadConfig(Options{Backend: "tape"})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestChangeSign(t *testing.T) {
	assert.Equal(t, "+", changeSign(core.ChangeAdded))
	assert.Equal(t, "-", changeSign(core.ChangeRemoved))
	assert.Equal(t, "~", changeSign(core.ChangeUpdated))
}
