package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/illarion/credstore/internal/storage"
)

// ChangeKind classifies how a login differs between two stores
type ChangeKind int

const (
	ChangeAdded   ChangeKind = iota // Only in the other store
	ChangeRemoved                   // Only in this directory
	ChangeUpdated                   // In both, with different credentials
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeRemoved:
		return "removed"
	case ChangeUpdated:
		return "changed"
	default:
		return fmt.Sprintf("ChangeKind(%d)", int(k))
	}
}

// Change is one differing login. Credentials are never exposed.
type Change struct {
	Login string
	Kind  ChangeKind
}

// Diff compares the entries of this directory with the lines of other,
// as a line diff from this directory to other, reported per login.
func (d *Directory) Diff(ctx context.Context, other storage.Store) ([]Change, error) {
	theirs, err := storage.ReadLines(ctx, other)
	if err != nil {
		return nil, fmt.Errorf("failed to read other store: %w", err)
	}

	d.mu.Lock()
	ours := d.linesLocked()
	d.mu.Unlock()

	return diffLines(ours, theirs), nil
}

func diffLines(ours, theirs []string) []Change {
	dmp := diffmatchpatch.New()

	// Line-mode diff
	a, b, lineArray := dmp.DiffLinesToChars(joinLines(ours), joinLines(theirs))
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCharsToLines(diffs, lineArray)

	removed := make(map[string]bool)
	added := make(map[string]bool)
	var seen []string
	note := func(login string) {
		if !removed[login] && !added[login] {
			seen = append(seen, login)
		}
	}

	for _, diff := range diffs {
		if diff.Type == diffmatchpatch.DiffEqual {
			continue
		}
		for _, line := range strings.Split(strings.TrimSuffix(diff.Text, "\n"), "\n") {
			if line == "" {
				continue
			}
			login := loginOf(line)
			note(login)
			if diff.Type == diffmatchpatch.DiffDelete {
				removed[login] = true
			} else {
				added[login] = true
			}
		}
	}

	changes := make([]Change, 0, len(seen))
	for _, login := range seen {
		kind := ChangeUpdated
		switch {
		case added[login] && !removed[login]:
			kind = ChangeAdded
		case removed[login] && !added[login]:
			kind = ChangeRemoved
		}
		changes = append(changes, Change{Login: login, Kind: kind})
	}
	return changes
}

func joinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// loginOf returns the login part of a line without parsing the credential
func loginOf(line string) string {
	login, _, ok := strings.Cut(line, ":")
	if !ok || login == "" {
		return "(malformed line)"
	}
	return login
}
