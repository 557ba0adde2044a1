package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/credstore/internal/config"
	"github.com/illarion/credstore/internal/core"
	"github.com/illarion/credstore/internal/crypto"
	"github.com/illarion/credstore/internal/keyring"
)

// KeyringSave saves the password of login to the OS keyring
func KeyringSave(ctx context.Context, cfg *config.Config, login string) {
	dir, store := openDirectory(ctx, cfg)
	defer store.Close()

	if !dir.Exists(login) {
		HandleError(fmt.Errorf("%w: %s", core.ErrUnknownUser, login))
	}

	password := core.GetPasswordFromEnv()
	if password == nil {
		var err error
		password, err = core.ReadPassword("Enter password: ")
		if err != nil {
			HandleError(err)
		}
	}
	defer crypto.ClearBytes(password)

	// Verify password is correct
	ok, err := dir.Login(login, password)
	if err != nil {
		HandleError(err)
	}
	if !ok {
		HandleError(ErrWrongPassword)
	}

	if err := keyring.SavePassword(cfg.StoreID(), login, string(password)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to save to keyring: %s\n", err)
		os.Exit(1)
	}

	fmt.Println("Password saved to keyring")
}

// KeyringDelete removes the password of login from the OS keyring
func KeyringDelete(cfg *config.Config, login string) {
	if err := keyring.DeletePassword(cfg.StoreID(), login); err != nil {
		fmt.Println("No password stored in keyring")
		return
	}

	fmt.Println("Password removed from keyring")
}

// KeyringStatus checks if a password for login is stored in the keyring
func KeyringStatus(cfg *config.Config, login string) {
	if keyring.HasPassword(cfg.StoreID(), login) {
		fmt.Println("Password: stored in keyring")
	} else {
		fmt.Println("Password: not stored")
	}
}
