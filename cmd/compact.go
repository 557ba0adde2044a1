package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/illarion/credstore/internal/config"
)

// Compact rewrites the store and reclaims unused space
func Compact(ctx context.Context, cfg *config.Config) {
	dir, store := openDirectory(ctx, cfg)
	defer store.Close()

	if cfg.Backend == config.BackendRedis {
		if err := dir.Compact(ctx); err != nil {
			HandleError(err)
		}
		fmt.Printf("Compacted: %d users\n", dir.Len())
		return
	}

	// Get file size before
	var sizeBefore int64
	if info, err := os.Stat(cfg.StorePath); err == nil {
		sizeBefore = info.Size()
	}

	if err := dir.Compact(ctx); err != nil {
		HandleError(err)
	}

	// Get file size after
	info, err := os.Stat(cfg.StorePath)
	if err != nil {
		HandleError(err)
	}

	fmt.Printf("Compacted: %s -> %s\n", formatSize(sizeBefore), formatSize(info.Size()))
}
