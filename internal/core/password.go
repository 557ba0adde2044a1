package core

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"golang.org/x/term"

	"github.com/illarion/credstore/internal/crypto"
)

const (
	EnvPassword    = "CREDSTORE_PASSWORD"
	EnvNewPassword = "CREDSTORE_NEW_PASSWORD"
)

var ErrPasswordMismatch = errors.New("passwords do not match")

// ReadPassword reads a password from the terminal without echoing
func ReadPassword(prompt string) ([]byte, error) {
	fmt.Fprint(os.Stderr, prompt)

	// Read password without echo
	password, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr) // New line after password

	if err != nil {
		return nil, fmt.Errorf("failed to read password: %w", err)
	}

	return password, nil
}

// ReadPasswordConfirm reads a password twice and ensures they match
func ReadPasswordConfirm(prompt string) ([]byte, error) {
	password1, err := ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password1)

	password2, err := ReadPassword("Confirm password: ")
	if err != nil {
		return nil, err
	}
	defer crypto.ClearBytes(password2)

	if !crypto.ConstantTimeCompare(password1, password2) {
		return nil, ErrPasswordMismatch
	}

	// Return a copy of the password
	result := make([]byte, len(password1))
	copy(result, password1)
	return result, nil
}

// GetPasswordFromEnv reads the password from CREDSTORE_PASSWORD
func GetPasswordFromEnv() []byte {
	return passwordFromEnv(EnvPassword)
}

// GetNewPasswordFromEnv reads the replacement password from CREDSTORE_NEW_PASSWORD
func GetNewPasswordFromEnv() []byte {
	return passwordFromEnv(EnvNewPassword)
}

func passwordFromEnv(name string) []byte {
	password := os.Getenv(name)
	if password == "" {
		return nil
	}
	// Return a copy to avoid issues when clearing the bytes
	result := make([]byte, len(password))
	copy(result, password)
	return result
}
