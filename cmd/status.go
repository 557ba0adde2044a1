package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/illarion/credstore/internal/config"
	"github.com/illarion/credstore/internal/git"
	"github.com/illarion/credstore/internal/storage"
)

// Status shows the state of the credential store
func Status(ctx context.Context, cfg *config.Config) {
	dir, store := openDirectory(ctx, cfg)
	defer store.Close()

	fmt.Printf("Backend:  %s\n", cfg.Backend)
	fmt.Printf("Location: %s\n", cfg.Location())

	if cfg.Backend != config.BackendRedis {
		if info, err := os.Stat(cfg.StorePath); err == nil {
			fmt.Printf("Size:     %s\n", formatSize(info.Size()))
		} else {
			fmt.Println("Size:     (not created yet)")
		}
	}

	if bs, ok := store.(*storage.BoltStore); ok {
		if modified, err := bs.Modified(ctx); err == nil && !modified.IsZero() {
			fmt.Printf("Modified: %s\n", modified.Format(time.RFC3339))
		}
	}

	p := dir.Params()
	fmt.Printf("\nScrypt:   N=%d r=%d p=%d, %d byte keys, %d byte salts\n", p.N, p.R, p.P, p.KeyLength, p.SaltLength)

	logins := dir.Logins()
	outdated := 0
	for _, login := range logins {
		if upgrade, err := dir.NeedsUpgrade(login); err == nil && upgrade {
			outdated++
		}
	}
	fmt.Printf("Users:    %d\n", len(logins))
	if outdated > 0 {
		fmt.Printf("Outdated: %d (run 'credstore passwd <login>' to upgrade)\n", outdated)
	}

	if cfg.Backend != config.BackendRedis {
		if gs, err := git.CheckStore(cfg.StorePath); err == nil {
			fmt.Print(git.FormatGitStatus(gs))
		}
	}
}
