package core

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const MaxLoginLength = 256 // bytes

// ValidateLogin checks that login can be stored in a credential line
func ValidateLogin(login string) error {
	if login == "" {
		return fmt.Errorf("%w: login cannot be empty", ErrInvalidLogin)
	}
	if len(login) > MaxLoginLength {
		return fmt.Errorf("%w: login must not exceed %d bytes", ErrInvalidLogin, MaxLoginLength)
	}
	if !utf8.ValidString(login) {
		return fmt.Errorf("%w: login must be valid UTF-8", ErrInvalidLogin)
	}
	if strings.TrimSpace(login) != login {
		return fmt.Errorf("%w: login cannot start or end with whitespace", ErrInvalidLogin)
	}
	if strings.Contains(login, ":") {
		return fmt.Errorf("%w: login cannot contain ':'", ErrInvalidLogin)
	}
	for _, r := range login {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: login cannot contain control characters", ErrInvalidLogin)
		}
	}
	return nil
}
