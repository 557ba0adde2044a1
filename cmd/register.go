package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/credstore/internal/config"
	"github.com/illarion/credstore/internal/core"
	"github.com/illarion/credstore/internal/crypto"
)

// Register adds a new user to the store
func Register(ctx context.Context, cfg *config.Config, login string) {
	// Reject bad logins before prompting
	if err := core.ValidateLogin(login); err != nil {
		HandleError(err)
	}

	dir, store := openDirectory(ctx, cfg)
	defer store.Close()

	if dir.Exists(login) {
		HandleError(fmt.Errorf("%w: %s", core.ErrDuplicateUser, login))
	}

	password, err := GetNewPassword(core.GetPasswordFromEnv(), "Enter password: ")
	if err != nil {
		HandleError(err)
	}
	defer crypto.ClearBytes(password)

	if err := dir.Register(ctx, login, password); err != nil {
		HandleError(err)
	}

	fmt.Printf("registered %s\n", login)
}
