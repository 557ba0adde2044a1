package cmd

import (
	"context"
	"fmt"

	"github.com/illarion/credstore/internal/config"
	"github.com/illarion/credstore/internal/core"
	"github.com/illarion/credstore/internal/storage"
)

// Diff compares the store with another store of the same backend.
// For the redis backend, other names a list key.
func Diff(ctx context.Context, cfg *config.Config, other string) {
	dir, store := openDirectory(ctx, cfg)
	defer store.Close()

	otherCfg := *cfg
	if cfg.Backend == config.BackendRedis {
		otherCfg.RedisKey = other
	} else {
		otherCfg.StorePath = other
	}

	otherStore, err := storage.Open(ctx, &otherCfg)
	if err != nil {
		HandleError(err)
	}
	defer otherStore.Close()

	changes, err := dir.Diff(ctx, otherStore)
	if err != nil {
		HandleError(err)
	}

	if len(changes) == 0 {
		fmt.Println("No differences")
		return
	}

	for _, c := range changes {
		fmt.Printf("  %s %s (%s)\n", changeSign(c.Kind), c.Login, c.Kind)
	}
}

func changeSign(kind core.ChangeKind) string {
	switch kind {
	case core.ChangeAdded:
		return "+"
	case core.ChangeRemoved:
		return "-"
	default:
		return "~"
	}
}
