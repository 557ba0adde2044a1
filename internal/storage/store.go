package storage

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/illarion/credstore/internal/config"
)

const FilePermSecure = 0600 // File: owner rw only

var (
	ErrStorage     = errors.New("storage error")
	ErrInvalidLine = errors.New("line contains a line terminator")
)

// Store keeps an ordered sequence of lines
type Store interface {
	// ReadAll yields every stored line in order. Each call starts over.
	ReadAll(ctx context.Context) iter.Seq2[string, error]

	// AppendOne adds a line after the existing ones.
	AppendOne(ctx context.Context, line string) error

	// WriteAll replaces the stored content with lines.
	WriteAll(ctx context.Context, lines []string) error

	// Close releases resources held between calls.
	Close() error
}

// Compacter is implemented by stores that can reclaim unused space
type Compacter interface {
	Compact(ctx context.Context) error
}

// Open returns the store selected by cfg.Backend
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		return NewFileStore(cfg.StorePath), nil
	case config.BackendBolt:
		return NewBoltStore(cfg.StorePath), nil
	case config.BackendSQLite:
		return NewSQLiteStore(ctx, cfg.StorePath)
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, wrapErr("connect", cfg.RedisAddr, err)
		}
		return NewRedisStore(client, cfg.RedisKey), nil
	default:
		return nil, fmt.Errorf("%w: unknown backend %q", config.ErrInvalidConfig, cfg.Backend)
	}
}

// ReadLines collects every line of s
func ReadLines(ctx context.Context, s Store) ([]string, error) {
	var lines []string
	for line, err := range s.ReadAll(ctx) {
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func checkLine(line string) error {
	if strings.ContainsAny(line, "\r\n") {
		return ErrInvalidLine
	}
	return nil
}

func checkLines(lines []string) error {
	for _, line := range lines {
		if err := checkLine(line); err != nil {
			return err
		}
	}
	return nil
}

func wrapErr(op, location string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrStorage, op, location, err)
}

// yieldAll replays lines collected inside a transaction once it is closed,
// so callers may write to the store while iterating.
func yieldAll(lines []string, yield func(string, error) bool) {
	for _, line := range lines {
		if !yield(line, nil) {
			return
		}
	}
}
