// Package config handles configuration for credstore, including defaults,
// an optional JSON file overlay and environment variables.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/illarion/credstore/internal/crypto"
)

// Supported storage backends
const (
	BackendFile   = "file"
	BackendBolt   = "bolt"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

const DefaultStorePath = "./app_users"

var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds runtime settings for credstore.
//
// Fields:
//   - StorePath: credential file (file, bolt and sqlite backends).
//   - Backend: one of file, bolt, sqlite, redis.
//   - RedisAddr / RedisKey / RedisPassword / RedisDB: list location for the redis backend.
//   - Scrypt: cost parameters for newly created credentials.
//   - LogLevel / LogFormat: diagnostics written to stderr.
type Config struct {
	StorePath     string
	Backend       string
	RedisAddr     string
	RedisKey      string
	RedisPassword string
	RedisDB       int
	Scrypt        crypto.Params
	LogLevel      string
	LogFormat     string
}

// LoadDefaults populates Config with defaults matching the historical
// credential file layout.
func (c *Config) LoadDefaults() {
	c.StorePath = DefaultStorePath
	c.Backend = BackendFile
	c.RedisAddr = "127.0.0.1:6379"
	c.RedisKey = "credstore:users"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.Scrypt = crypto.DefaultParams()
	c.LogLevel = "warn"
	c.LogFormat = "text"
}

// Load builds a Config by applying defaults, then overlaying values from
// the JSON file at jsonPath (if non-empty) and finally from the environment.
func Load(jsonPath string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if jsonPath == "" {
		jsonPath = getenv(EnvConfig)
	}
	if jsonPath != "" {
		if err := parseJSON(cfg, jsonPath); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg, getenv); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	switch c.Backend {
	case BackendFile, BackendBolt, BackendSQLite:
		if strings.TrimSpace(c.StorePath) == "" {
			return fmt.Errorf("%w: store path is empty", ErrInvalidConfig)
		}
	case BackendRedis:
		if c.RedisAddr == "" || c.RedisKey == "" {
			return fmt.Errorf("%w: redis backend needs an address and a key", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown backend %q", ErrInvalidConfig, c.Backend)
	}

	if err := c.Scrypt.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Location describes where credentials are kept, for display
func (c *Config) Location() string {
	if c.Backend == BackendRedis {
		return fmt.Sprintf("redis://%s/%d#%s", c.RedisAddr, c.RedisDB, c.RedisKey)
	}
	if abs, err := filepath.Abs(c.StorePath); err == nil {
		return abs
	}
	return c.StorePath
}

// StoreID returns a stable identifier for the configured store, used to
// namespace keyring entries.
func (c *Config) StoreID() string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(c.Backend+"://"+c.Location())).String()
}
