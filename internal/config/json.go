package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// JSONConfig mirrors Config for unmarshalling. Pointer fields distinguish
// "absent" from zero so a partial file only overrides what it names.
type JSONConfig struct {
	StorePath     *string      `json:"store_path"`
	Backend       *string      `json:"backend"`
	RedisAddr     *string      `json:"redis_addr"`
	RedisKey      *string      `json:"redis_key"`
	RedisPassword *string      `json:"redis_password"`
	RedisDB       *int         `json:"redis_db"`
	Scrypt        *JSONScrypt  `json:"scrypt"`
	Log           *JSONLogging `json:"log"`
}

// JSONScrypt holds the scrypt cost section of the JSON file
type JSONScrypt struct {
	N          *int `json:"n"`
	R          *int `json:"r"`
	P          *int `json:"p"`
	KeyLength  *int `json:"key_length"`
	SaltLength *int `json:"salt_length"`
}

// JSONLogging holds the log section of the JSON file
type JSONLogging struct {
	Level  *string `json:"level"`
	Format *string `json:"format"`
}

func parseJSON(config *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	c := &JSONConfig{}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidConfig, path, err)
	}

	setString(&config.StorePath, c.StorePath)
	setString(&config.Backend, c.Backend)
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisKey, c.RedisKey)
	setString(&config.RedisPassword, c.RedisPassword)
	setInt(&config.RedisDB, c.RedisDB)

	if c.Scrypt != nil {
		setInt(&config.Scrypt.N, c.Scrypt.N)
		setInt(&config.Scrypt.R, c.Scrypt.R)
		setInt(&config.Scrypt.P, c.Scrypt.P)
		setInt(&config.Scrypt.KeyLength, c.Scrypt.KeyLength)
		setInt(&config.Scrypt.SaltLength, c.Scrypt.SaltLength)
	}
	if c.Log != nil {
		setString(&config.LogLevel, c.Log.Level)
		setString(&config.LogFormat, c.Log.Format)
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
