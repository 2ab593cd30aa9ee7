// Package config loads the familytree configuration file
// ($XDG_CONFIG_HOME/familytree/config.toml).
//
// A missing file yields [Default]. Fields absent from the file keep their
// defaults. Command-line flags override the loaded values.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/familytree/pkg/cache"
	"github.com/matzehuels/familytree/pkg/errors"
	"github.com/matzehuels/familytree/pkg/store"
	"github.com/matzehuels/familytree/pkg/view"
)

// AppName names the config and cache directories.
const AppName = "familytree"

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the whole configuration file.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	Store   store.Config  `toml:"store"`
	Server  ServerConfig  `toml:"server"`
	Cache   CacheConfig   `toml:"cache"`
	Theme   ThemeConfig   `toml:"theme"`
	View    view.Config   `toml:"view"`
}

// BackendConfig points the viewer at a backend.
type BackendConfig struct {
	URL      string        `toml:"url"`
	Timeout  time.Duration `toml:"timeout"`
	Attempts int           `toml:"attempts"`
}

// ServerConfig configures `familytree serve`.
type ServerConfig struct {
	Addr           string        `toml:"addr"`
	RequestTimeout time.Duration `toml:"request_timeout"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string            `toml:"backend"`
	Dir     string            `toml:"dir"`
	Redis   cache.RedisConfig `toml:"redis"`
}

// ThemeConfig locates the persisted theme preference.
type ThemeConfig struct {
	File string `toml:"file"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{URL: "http://localhost:8080", Timeout: 10 * time.Second, Attempts: 1},
		Store:   store.Config{Driver: store.DriverFile, DSN: "family.json"},
		Server:  ServerConfig{Addr: ":8080", RequestTimeout: 30 * time.Second},
		Cache:   CacheConfig{Backend: CacheFile},
		Theme:   ThemeConfig{File: filepath.Join(Dir(), "theme.toml")},
		View:    view.DefaultConfig(),
	}
}

// Dir returns the configuration directory.
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, AppName)
}

// CacheDir returns the default file cache directory.
func CacheDir() string {
	dir := os.Getenv("XDG_CACHE_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".cache")
	}
	return filepath.Join(dir, AppName)
}

// Path returns the default configuration file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// Load reads path ("" means [Path]). A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = Path()
	}
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults fills zero values left by a partial file.
func (c *Config) SetDefaults() {
	d := Default()
	if c.Backend.Timeout <= 0 {
		c.Backend.Timeout = d.Backend.Timeout
	}
	if c.Backend.Attempts <= 0 {
		c.Backend.Attempts = d.Backend.Attempts
	}
	if c.Server.Addr == "" {
		c.Server.Addr = d.Server.Addr
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = d.Cache.Backend
	}
	if c.Cache.Dir == "" {
		c.Cache.Dir = CacheDir()
	}
	if c.Theme.File == "" {
		c.Theme.File = d.Theme.File
	}
	c.View.SetDefaults()
}

// Validate checks values a file may have set.
func (c *Config) Validate() error {
	switch c.Cache.Backend {
	case CacheFile, CacheRedis, CacheNone:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache.backend must be file, redis or none, got %q", c.Cache.Backend)
	}
	switch c.Store.Driver {
	case store.DriverFile, store.DriverSQLite, store.DriverMongo, "":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "store.driver must be file, sqlite or mongo, got %q", c.Store.Driver)
	}
	if c.Backend.URL != "" {
		if err := errors.ValidateURL(c.Backend.URL); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "backend.url")
		}
	}
	if err := c.View.Layout.Validate(); err != nil {
		return err
	}
	return c.View.Viewport.Validate()
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes c to path ("" means [Path]).
func (c *Config) Save(path string) error {
	if path == "" {
		path = Path()
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
