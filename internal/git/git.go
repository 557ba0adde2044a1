package git

import (
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// GitStatus contains git integration status for a store file
type GitStatus struct {
	IsRepo    bool
	StorePath string // Path relative to the repository work tree
	Tracked   bool   // Store is committed or staged (bad)
	Ignored   bool   // Store is matched by .gitignore (good)
}

// IsGitRepo checks if the working directory is inside a git repository
func IsGitRepo(workDir string) bool {
	cmd := exec.Command("git", "rev-parse", "--is-inside-work-tree")
	cmd.Dir = workDir
	err := cmd.Run()
	return err == nil
}

// IsTracked checks if a file is tracked by git
func IsTracked(workDir, path string) bool {
	cmd := exec.Command("git", "ls-files", "--", path)
	cmd.Dir = workDir
	output, err := cmd.Output()

	if err != nil {
		return false
	}

	return len(strings.TrimSpace(string(output))) > 0
}

// IsIgnored checks if a file is ignored by git (handles all .gitignore files)
func IsIgnored(workDir, path string) bool {
	cmd := exec.Command("git", "check-ignore", "-q", "--", path)
	cmd.Dir = workDir
	err := cmd.Run()

	// git check-ignore returns exit code 0 if file is ignored
	return err == nil
}

// CheckStore checks git integration status for the store file at storePath
func CheckStore(storePath string) (*GitStatus, error) {
	abs, err := filepath.Abs(storePath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", storePath, err)
	}
	workDir, name := filepath.Split(abs)

	status := &GitStatus{StorePath: name}
	if !IsGitRepo(workDir) {
		return status, nil
	}
	status.IsRepo = true
	status.Tracked = IsTracked(workDir, name)
	status.Ignored = IsIgnored(workDir, name)

	return status, nil
}

// FormatGitStatus formats git status for display
func FormatGitStatus(status *GitStatus) string {
	if !status.IsRepo {
		return ""
	}

	var result strings.Builder
	result.WriteString("\nGit Integration:\n")

	if status.Tracked {
		result.WriteString(fmt.Sprintf("   error: %s is tracked by git (run: git rm --cached %s)\n", status.StorePath, status.StorePath))
	} else {
		result.WriteString(fmt.Sprintf("   ok: %s is not tracked by git\n", status.StorePath))
	}

	if status.Ignored {
		result.WriteString(fmt.Sprintf("   ok: %s is in .gitignore\n", status.StorePath))
	} else if !status.Tracked {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore (add to .gitignore)\n", status.StorePath))
	} else {
		result.WriteString(fmt.Sprintf("   warning: %s not in .gitignore\n", status.StorePath))
	}

	return result.String()
}
