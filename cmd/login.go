package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/credstore/internal/config"
	"github.com/illarion/credstore/internal/crypto"
)

// Login verifies the password of a user
func Login(ctx context.Context, cfg *config.Config, login string) {
	dir, store := openDirectory(ctx, cfg)
	defer store.Close()

	password, err := GetPasswordWithRetry("Enter password: ", cfg.StoreID(), login, func(pw []byte) (bool, error) {
		return dir.Login(login, pw)
	})
	if err != nil {
		HandleError(err)
	}
	crypto.ClearBytes(password)

	if upgrade, err := dir.NeedsUpgrade(login); err == nil && upgrade {
		fmt.Fprintf(os.Stderr, "warning: credential of %s uses outdated parameters, run 'credstore passwd %s'\n", login, login)
	}

	fmt.Println("password ok")
}
