package config

import (
	"fmt"
	"strconv"
)

// Environment variables read by Load
const (
	EnvConfig        = "CREDSTORE_CONFIG"
	EnvStore         = "CREDSTORE_STORE"
	EnvBackend       = "CREDSTORE_BACKEND"
	EnvRedisAddr     = "CREDSTORE_REDIS_ADDR"
	EnvRedisKey      = "CREDSTORE_REDIS_KEY"
	EnvRedisPassword = "CREDSTORE_REDIS_PASSWORD"
	EnvRedisDB       = "CREDSTORE_REDIS_DB"
	EnvLogLevel      = "CREDSTORE_LOG_LEVEL"
)

func parseEnv(config *Config, getenv func(string) string) error {
	if v := getenv(EnvStore); v != "" {
		config.StorePath = v
	}
	if v := getenv(EnvBackend); v != "" {
		config.Backend = v
	}
	if v := getenv(EnvRedisAddr); v != "" {
		config.RedisAddr = v
	}
	if v := getenv(EnvRedisKey); v != "" {
		config.RedisKey = v
	}
	if v := getenv(EnvRedisPassword); v != "" {
		config.RedisPassword = v
	}
	if v := getenv(EnvRedisDB); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not a number", ErrInvalidConfig, EnvRedisDB, v)
		}
		config.RedisDB = db
	}
	if v := getenv(EnvLogLevel); v != "" {
		config.LogLevel = v
	}
	return nil
}
