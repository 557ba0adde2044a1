package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/illarion/credstore/internal/config"
	"github.com/illarion/credstore/internal/core"
	"github.com/illarion/credstore/internal/credential"
	"github.com/illarion/credstore/internal/crypto"
	"github.com/illarion/credstore/internal/keyring"
	"github.com/illarion/credstore/internal/logging"
	"github.com/illarion/credstore/internal/storage"
)

var ErrWrongPassword = errors.New("wrong password")

// Options holds the flags shared by every command
type Options struct {
	ConfigPath string
	StorePath  string
	Backend    string
	Verbose    bool
}

// LoadConfig builds the configuration from file, environment and flags
func LoadConfig(opts Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath, os.Getenv)
	if err != nil {
		return nil, err
	}

	if opts.StorePath != "" {
		cfg.StorePath = opts.StorePath
	}
	if opts.Backend != "" {
		cfg.Backend = opts.Backend
	}
	if opts.Verbose {
		cfg.LogLevel = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadConfigOrExit is like LoadConfig but exits on error
func LoadConfigOrExit(opts Options) *config.Config {
	cfg, err := LoadConfig(opts)
	if err != nil {
		HandleError(err)
	}
	return cfg
}

func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

// openDirectory opens the configured store and loads its users.
// The caller must close the returned store.
func openDirectory(ctx context.Context, cfg *config.Config) (*core.Directory, storage.Store) {
	log := newLogger(cfg)

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		HandleError(err)
	}
	log.Debug(ctx, "store opened", "backend", cfg.Backend, "location", cfg.Location())

	dir, err := core.New(ctx, store, core.Options{
		Params: cfg.Scrypt,
		Logger: log,
	})
	if err != nil {
		store.Close()
		HandleError(err)
	}
	return dir, store
}

// GetPassword retrieves the password of login from the environment, the
// OS keyring or the terminal, in that order. fromKeyring reports whether
// the keyring supplied it.
// The caller is responsible for calling crypto.ClearBytes on the returned password
func GetPassword(prompt, storeID, login string) (password []byte, fromKeyring bool, err error) {
	// Try environment variable first
	if password = core.GetPasswordFromEnv(); password != nil {
		return password, false, nil
	}

	if pw, err := keyring.GetPassword(storeID, login); err == nil {
		return []byte(pw), true, nil
	}

	// Prompt user
	password, err = core.ReadPassword(prompt)
	if err != nil {
		return nil, false, err
	}
	return password, false, nil
}

// GetPasswordWithRetry is like GetPassword but verifies the password. A
// stale keyring entry falls back to a prompt instead of failing.
func GetPasswordWithRetry(prompt, storeID, login string, verify func([]byte) (bool, error)) ([]byte, error) {
	password, fromKeyring, err := GetPassword(prompt, storeID, login)
	if err != nil {
		return nil, err
	}

	ok, err := verify(password)
	if err != nil {
		crypto.ClearBytes(password)
		return nil, err
	}
	if ok {
		return password, nil
	}
	crypto.ClearBytes(password)

	if !fromKeyring {
		return nil, ErrWrongPassword
	}

	fmt.Fprintln(os.Stderr, "warning: password in keyring is outdated")
	password, err = core.ReadPassword(prompt)
	if err != nil {
		return nil, err
	}
	ok, err = verify(password)
	if err != nil || !ok {
		crypto.ClearBytes(password)
		if err == nil {
			err = ErrWrongPassword
		}
		return nil, err
	}
	return password, nil
}

// GetNewPassword reads a replacement password from the environment or
// prompts for it twice.
func GetNewPassword(envValue []byte, prompt string) ([]byte, error) {
	if envValue != nil {
		return envValue, nil
	}
	return core.ReadPasswordConfirm(prompt)
}

// errorHints maps known errors to the lines printed for them
func errorHints(err error) []string {
	switch {
	case errors.Is(err, ErrWrongPassword):
		return []string{"Error: wrong password"}
	case errors.Is(err, core.ErrUnknownUser):
		return []string{
			fmt.Sprintf("Error: %s", err),
			"Use 'credstore ls' to see registered users",
		}
	case errors.Is(err, core.ErrDuplicateUser):
		return []string{
			fmt.Sprintf("Error: %s", err),
			"Use 'credstore passwd' to change the password",
		}
	case errors.Is(err, core.ErrInvalidLogin):
		return []string{
			fmt.Sprintf("Error: %s", err),
			"Logins must not contain ':' or control characters",
		}
	case errors.Is(err, core.ErrPasswordMismatch):
		return []string{"Error: passwords do not match"}
	case errors.Is(err, credential.ErrMalformedRecord):
		return []string{
			fmt.Sprintf("Error: %s", err),
			"The credential store is corrupted; fix or remove the reported line",
		}
	case errors.Is(err, config.ErrInvalidConfig), errors.Is(err, crypto.ErrInvalidParams):
		return []string{
			fmt.Sprintf("Error: %s", err),
			"Check the config file and CREDSTORE_* environment variables",
		}
	default:
		return []string{fmt.Sprintf("Error: %s", err)}
	}
}

// HandleError handles common errors consistently
func HandleError(err error) {
	for _, line := range errorHints(err) {
		fmt.Fprintln(os.Stderr, line)
	}
	os.Exit(1)
}

// formatSize formats a file size in human-readable form
func formatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d bytes", size)
	}
}
