package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/credstore/internal/config"
	"github.com/illarion/credstore/internal/core"
	"github.com/illarion/credstore/internal/crypto"
	"github.com/illarion/credstore/internal/keyring"
)

// Passwd changes the password of a user
func Passwd(ctx context.Context, cfg *config.Config, login string) {
	dir, store := openDirectory(ctx, cfg)
	defer store.Close()

	if !dir.Exists(login) {
		HandleError(fmt.Errorf("%w: %s", core.ErrUnknownUser, login))
	}

	storeID := cfg.StoreID()

	// Get current password with retry on stale keyring
	currentPassword, err := GetPasswordWithRetry("Enter current password: ", storeID, login, func(pw []byte) (bool, error) {
		return dir.Login(login, pw)
	})
	if err != nil {
		HandleError(err)
	}
	crypto.ClearBytes(currentPassword)

	newPassword, err := GetNewPassword(core.GetNewPasswordFromEnv(), "Enter new password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(newPassword)

	if err := dir.ChangePassword(ctx, login, newPassword); err != nil {
		HandleError(err)
	}

	// Only refresh an entry the user chose to keep
	if keyring.HasPassword(storeID, login) {
		if err := keyring.SavePassword(storeID, login, string(newPassword)); err == nil {
			fmt.Println("Keyring updated with new password")
		}
	}

	fmt.Println("password changed successfully")
}
