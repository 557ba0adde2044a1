package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/credstore/internal/config"
)

// Ls lists registered users
func Ls(ctx context.Context, cfg *config.Config) {
	dir, store := openDirectory(ctx, cfg)
	defer store.Close()

	logins := dir.Logins()
	if len(logins) == 0 {
		fmt.Println("No users registered")
		return
	}

	for _, login := range logins {
		fmt.Println(login)
	}
}
