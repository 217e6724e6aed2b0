package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME at an empty dir and clears TADA_* variables.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, k := range []string{
		"TADA_STORAGE", "TADA_DATA_FILE", "TADA_STORAGE_KEY", "TADA_REDIS_ADDR",
		"TADA_REDIS_PASSWORD", "TADA_REDIS_DB", "TADA_THEME", "TADA_ROUTE",
		"TADA_LOG_LEVEL", "TADA_LOG_FORMAT", "TADA_LOG_FILE", "TADA_ADDR",
	} {
		t.Setenv(k, "")
	}
	return home
}

func write(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))
	return p
}

func TestDefaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.Equal(t, DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "classic", cfg.Theme)
	assert.Equal(t, "#/", cfg.Route)
	assert.Equal(t, DefaultAddr, cfg.Serve.Addr)
}

func TestLoad_TOMLFromDefaultPath(t *testing.T) {
	home := isolate(t)
	write(t, home, ".tada/config.toml", `
theme = "neon"
route = "#/active"
log_level = "debug"

[storage]
driver = "redis"
redis_addr = "cache:6379"
redis_db = 2
key = "mine"

[serve]
addr = ":9000"
require_auth = true
`)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "neon", cfg.Theme)
	assert.Equal(t, "#/active", cfg.Route)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6379", cfg.Storage.RedisAddr)
	assert.Equal(t, 2, cfg.Storage.RedisDB)
	assert.Equal(t, "mine", cfg.Storage.Key)
	assert.Equal(t, ":9000", cfg.Serve.Addr)
	assert.True(t, cfg.Serve.RequireAuth)
}

func TestLoad_YAML(t *testing.T) {
	dir := isolate(t)
	p := write(t, dir, "tada.yaml", `
theme: mono
storage:
  driver: sqlite
  path: /tmp/tada.sqlite3
serve:
  addr: ":7000"
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "/tmp/tada.sqlite3", cfg.Storage.Path)
	assert.Equal(t, ":7000", cfg.Serve.Addr)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := isolate(t)
	p := write(t, dir, "c.toml", "theme = \"neon\"\n[storage]\ndriver = \"redis\"\n")
	t.Setenv("TADA_THEME", "mono")
	t.Setenv("TADA_STORAGE", "memory")
	t.Setenv("TADA_REDIS_DB", "3")
	t.Setenv("TADA_DATA_FILE", "/data/todos.json")
	t.Setenv("TADA_ADDR", ":1234")

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, "mono", cfg.Theme)
	assert.Equal(t, DriverMemory, cfg.Storage.Driver)
	assert.Equal(t, 3, cfg.Storage.RedisDB)
	assert.Equal(t, "/data/todos.json", cfg.Storage.Path)
	assert.Equal(t, ":1234", cfg.Serve.Addr)
}

func TestLoad_Errors(t *testing.T) {
	dir := isolate(t)

	_, err := Load(filepath.Join(dir, "missing.toml"))
	assert.Error(t, err, "an explicit path must exist")

	_, err = Load(write(t, dir, "bad.toml", "theme = "))
	assert.ErrorContains(t, err, "parse bad.toml")

	_, err = Load(write(t, dir, "driver.toml", "[storage]\ndriver = \"postgres\"\n"))
	assert.ErrorContains(t, err, "storage driver")

	_, err = Load(write(t, dir, "theme.toml", "theme = \"pink\"\n"))
	assert.ErrorContains(t, err, "theme")

	t.Setenv("TADA_REDIS_DB", "two")
	_, err = Load("")
	assert.ErrorContains(t, err, "TADA_REDIS_DB")
}

func TestRead_LeavesValidationToCaller(t *testing.T) {
	isolate(t)
	t.Setenv("TADA_THEME", "sparkly")

	cfg, err := Read("")
	require.NoError(t, err)
	assert.Equal(t, "sparkly", cfg.Theme)
	assert.Error(t, cfg.Validate())

	cfg.Theme = "mono"
	assert.NoError(t, cfg.Validate())
}
