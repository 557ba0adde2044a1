package git

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatGitStatus(t *testing.T) {
	tests := []struct {
		name   string
		status GitStatus
		want   []string
		absent []string
	}{
		{
			name:   "not a repo",
			status: GitStatus{StorePath: "app_users"},
		},
		{
			name:   "ignored and untracked",
			status: GitStatus{IsRepo: true, StorePath: "app_users", Ignored: true},
			want:   []string{"ok: app_users is not tracked", "ok: app_users is in .gitignore"},
			absent: []string{"error:", "warning:"},
		},
		{
			name:   "untracked, not ignored",
			status: GitStatus{IsRepo: true, StorePath: "app_users"},
			want:   []string{"warning: app_users not in .gitignore (add to .gitignore)"},
		},
		{
			name:   "tracked",
			status: GitStatus{IsRepo: true, StorePath: "app_users", Tracked: true},
			want:   []string{"error: app_users is tracked by git (run: git rm --cached app_users)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := FormatGitStatus(&tt.status)
			if len(tt.want) == 0 {
				assert.Empty(t, out)
			}
			for _, s := range tt.want {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestCheckStore(t *testing.T) {
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not installed")
	}

	dir := t.TempDir()
	storePath := filepath.Join(dir, "app_users")
	require.NoError(t, os.WriteFile(storePath, []byte("alice:1"), 0600))

	status, err := CheckStore(storePath)
	require.NoError(t, err)
	if status.IsRepo {
		t.Skip("temp dir is inside a git work tree")
	}
	assert.Equal(t, "app_users", status.StorePath)

	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, string(out))
	}
	run("init", "-q")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("app_users\n"), 0600))

	status, err = CheckStore(storePath)
	require.NoError(t, err)
	assert.True(t, status.IsRepo)
	assert.False(t, status.Tracked)
	assert.True(t, status.Ignored)
}
