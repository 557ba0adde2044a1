package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, DefaultStorePath, cfg.StorePath)
	assert.Equal(t, BackendFile, cfg.Backend)
	assert.Equal(t, 2048, cfg.Scrypt.N)
	assert.Equal(t, 8, cfg.Scrypt.R)
	assert.Equal(t, 1, cfg.Scrypt.P)
	assert.Equal(t, 32, cfg.Scrypt.KeyLength)
	assert.Equal(t, 32, cfg.Scrypt.SaltLength)
	require.NoError(t, cfg.Validate())
}

func TestLoadJSONOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credstore.json")
	data := `{
		"store_path": "/var/lib/credstore/users.db",
		"backend": "bolt",
		"scrypt": {"n": 16384},
		"log": {"level": "debug"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(data), 0600))

	cfg, err := Load(path, envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/credstore/users.db", cfg.StorePath)
	assert.Equal(t, BackendBolt, cfg.Backend)
	assert.Equal(t, 16384, cfg.Scrypt.N)
	// untouched fields keep their defaults
	assert.Equal(t, 8, cfg.Scrypt.R)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestLoadJSONFromEnvPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credstore.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"backend": "sqlite"}`), 0600))

	cfg, err := Load("", envMap(map[string]string{EnvConfig: path}))
	require.NoError(t, err)
	assert.Equal(t, BackendSQLite, cfg.Backend)
}

func TestLoadJSONErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.json"), envMap(nil))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{not json"), 0600))
	_, err = Load(bad, envMap(nil))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestEnvOverridesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "credstore.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"store_path": "from-json", "backend": "bolt"}`), 0600))

	cfg, err := Load(path, envMap(map[string]string{
		EnvStore:     "from-env",
		EnvBackend:   "redis",
		EnvRedisDB:   "3",
		EnvRedisAddr: "redis:6379",
	}))
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.StorePath)
	assert.Equal(t, BackendRedis, cfg.Backend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
}

func TestEnvInvalidRedisDB(t *testing.T) {
	_, err := Load("", envMap(map[string]string{EnvRedisDB: "zero"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidConfig))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *Config) {}},
		{name: "unknown backend", mutate: func(c *Config) { c.Backend = "mongo" }, wantErr: true},
		{name: "empty store path", mutate: func(c *Config) { c.StorePath = " " }, wantErr: true},
		{name: "redis without key", mutate: func(c *Config) { c.Backend = BackendRedis; c.RedisKey = "" }, wantErr: true},
		{name: "redis ignores store path", mutate: func(c *Config) { c.Backend = BackendRedis; c.StorePath = "" }},
		{name: "bad scrypt N", mutate: func(c *Config) { c.Scrypt.N = 1000 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.LoadDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidConfig))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestStoreID(t *testing.T) {
	a := &Config{}
	a.LoadDefaults()
	b := &Config{}
	b.LoadDefaults()

	assert.Equal(t, a.StoreID(), b.StoreID())
	assert.Len(t, a.StoreID(), 36)

	b.StorePath = "./other_users"
	assert.NotEqual(t, a.StoreID(), b.StoreID())

	b.StorePath = a.StorePath
	b.Backend = BackendBolt
	assert.NotEqual(t, a.StoreID(), b.StoreID())
}
