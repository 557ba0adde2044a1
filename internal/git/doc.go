// Package git checks whether a credential store file is exposed through
// the git repository it lives in. Password hashes should never be
// committed: the store should be untracked and listed in .gitignore.
package git
