// Package config loads settings from defaults, a TOML or YAML file and
// TADA_* environment variables, in that order of precedence (lowest first).
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverFile   = "file"
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverSQLite = "sqlite"
)

const (
	DefaultDriver = DriverFile
	DefaultTheme  = "classic"
	DefaultAddr   = "localhost:8080"
	DefaultRoute  = "#/"
	DefaultFile   = "config.toml"
)

// Config holds every setting.
type Config struct {
	Storage StorageConfig `toml:"storage" yaml:"storage"`
	Theme   string        `toml:"theme" yaml:"theme"`
	Route   string        `toml:"route" yaml:"route"`

	LogLevel  string `toml:"log_level" yaml:"log_level"`
	LogFormat string `toml:"log_format" yaml:"log_format"`
	LogFile   string `toml:"log_file" yaml:"log_file"`

	Serve ServeConfig `toml:"serve" yaml:"serve"`
}

// StorageConfig selects and configures the key-value store.
type StorageConfig struct {
	Driver string `toml:"driver" yaml:"driver"`
	// Path is the data file for the file and sqlite drivers.
	Path string `toml:"path" yaml:"path"`
	// Key is the storage key the list lives under.
	Key string `toml:"key" yaml:"key"`

	RedisAddr     string `toml:"redis_addr" yaml:"redis_addr"`
	RedisPassword string `toml:"redis_password" yaml:"redis_password"`
	RedisDB       int    `toml:"redis_db" yaml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix" yaml:"redis_prefix"`
}

// ServeConfig configures the HTTP surface.
type ServeConfig struct {
	Addr        string `toml:"addr" yaml:"addr"`
	RequireAuth bool   `toml:"require_auth" yaml:"require_auth"`
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DefaultDriver
	}
	if cfg.Storage.RedisAddr == "" {
		cfg.Storage.RedisAddr = "localhost:6379"
	}
	if cfg.Theme == "" {
		cfg.Theme = DefaultTheme
	}
	if cfg.Route == "" {
		cfg.Route = DefaultRoute
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "warn"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.Serve.Addr == "" {
		cfg.Serve.Addr = DefaultAddr
	}
}

// Dir is the per-user settings directory (~/.tada).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home: %w", err)
	}
	return filepath.Join(home, ".tada"), nil
}

// DefaultPath is ~/.tada/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, DefaultFile), nil
}

// Load builds the config and validates it. An empty path means DefaultPath,
// which may be missing; an explicit path must exist.
func Load(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read is Load without validation, for callers that layer more overrides
// on top and validate the result themselves.
func Read(path string) (*Config, error) {
	cfg := &Config{}
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			if !explicit && errors.Is(err, os.ErrNotExist) {
				err = nil
			}
			if err != nil {
				return nil, err
			}
		}
	}
	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}
	setDefaults(cfg)
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	default:
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TADA_STORAGE"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("TADA_DATA_FILE"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("TADA_STORAGE_KEY"); v != "" {
		cfg.Storage.Key = v
	}
	if v := os.Getenv("TADA_REDIS_ADDR"); v != "" {
		cfg.Storage.RedisAddr = v
	}
	if v := os.Getenv("TADA_REDIS_PASSWORD"); v != "" {
		cfg.Storage.RedisPassword = v
	}
	if v := os.Getenv("TADA_REDIS_DB"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("TADA_REDIS_DB: not a number: %q", v)
		}
		cfg.Storage.RedisDB = n
	}
	if v := os.Getenv("TADA_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TADA_ROUTE"); v != "" {
		cfg.Route = v
	}
	if v := os.Getenv("TADA_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TADA_LOG_FORMAT"); v != "" {
		cfg.LogFormat = v
	}
	if v := os.Getenv("TADA_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TADA_ADDR"); v != "" {
		cfg.Serve.Addr = v
	}
	return nil
}

// Validate rejects settings no component can honour.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverFile, DriverMemory, DriverRedis, DriverSQLite:
	default:
		return fmt.Errorf("storage driver %q: want one of file, memory, redis, sqlite", c.Storage.Driver)
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("theme %q: want one of classic, neon, mono", c.Theme)
	}
	if c.Storage.RedisDB < 0 {
		return fmt.Errorf("redis_db must not be negative")
	}
	return nil
}
