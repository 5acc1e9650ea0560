// Package config loads storefront settings from ~/.storefront/config.json,
// with environment overrides (optionally from a .env file).
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variables that override the file.
const (
	EnvAPIBase   = "STOREFRONT_API_BASE"
	EnvLogLevel  = "STOREFRONT_LOG_LEVEL"
	EnvCacheDB   = "STOREFRONT_CACHE_DB"
	EnvServeAddr = "STOREFRONT_SERVE_ADDR"
	EnvOffline   = "STOREFRONT_OFFLINE"
)

// Config is the persistent application configuration
type Config struct {
	API   APIConfig   `json:"api"`
	Cache CacheConfig `json:"cache"`
	UI    UIConfig    `json:"ui"`
	Log   LogConfig   `json:"log"`
	Serve ServeConfig `json:"serve"`
}

// APIConfig holds catalog API settings
type APIConfig struct {
	BaseURL           string  `json:"base_url"`
	TimeoutSec        int     `json:"timeout_sec"`
	RequestsPerSecond float64 `json:"requests_per_second"`
}

// CacheConfig holds query cache settings
type CacheConfig struct {
	Path               string `json:"path"` // SQLite file; ":memory:" disables persistence
	ProductsStaleSec   int    `json:"products_stale_sec"`
	CategoriesStaleSec int    `json:"categories_stale_sec"`
	Retries            int    `json:"retries"`
	Offline            bool   `json:"offline"` // serve cached data only
}

// UIConfig holds UI preferences
type UIConfig struct {
	SearchDebounceMs int  `json:"search_debounce_ms"`
	PriceDebounceMs  int  `json:"price_debounce_ms"`
	ShowDebug        bool `json:"show_debug"`
}

// LogConfig holds logging settings
type LogConfig struct {
	Level  string `json:"level"`
	Dir    string `json:"dir,omitempty"`    // defaults to ~/.storefront/logs
	Events string `json:"events,omitempty"` // JSONL event file; empty disables
}

// ServeConfig holds the local view server settings
type ServeConfig struct {
	Addr        string   `json:"addr"`
	CORSOrigins []string `json:"cors_origins"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://fakestoreapi.com",
			TimeoutSec:        15,
			RequestsPerSecond: 4,
		},
		Cache: CacheConfig{
			Path:               filepath.Join(DataDir(), "cache.db"),
			ProductsStaleSec:   5 * 60,
			CategoriesStaleSec: 10 * 60,
			Retries:            2,
		},
		UI: UIConfig{
			SearchDebounceMs: 300,
			PriceDebounceMs:  1000,
		},
		Log: LogConfig{
			Level:  "info",
			Events: filepath.Join(DataDir(), "events.jsonl"),
		},
		Serve: ServeConfig{
			Addr:        "127.0.0.1:8484",
			CORSOrigins: []string{"*"},
		},
	}
}

// DataDir returns ~/.storefront
func DataDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".storefront")
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	return filepath.Join(DataDir(), "config.json")
}

// Load reads config from disk, or returns defaults, then applies .env and
// environment overrides.
func Load() (*Config, error) {
	return LoadPath(ConfigPath())
}

// LoadPath is Load for a config file at path.
func LoadPath(path string) (*Config, error) {
	cfg, err := LoadFrom(path)
	if err != nil {
		return nil, err
	}
	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

// LoadFrom reads config from path. A missing file yields defaults; fields
// absent from the file keep their defaults. A corrupt file is ignored.
func LoadFrom(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return DefaultConfig(), nil
	}
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path, creating its directory.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadDotEnv loads variables from the given .env files (default ".env" in
// the working directory) without overriding ones already set. Missing files
// are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return err
		}
	}
	return nil
}

// ApplyEnv overrides settings from STOREFRONT_* environment variables.
// Unparsable values are ignored.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAPIBase); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Log.Level = v
	}
	if v := os.Getenv(EnvCacheDB); v != "" {
		c.Cache.Path = v
	}
	if v := os.Getenv(EnvServeAddr); v != "" {
		c.Serve.Addr = v
	}
	if v := os.Getenv(EnvOffline); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Cache.Offline = b
		}
	}
}

// Timeout returns the API request timeout.
func (c *Config) Timeout() time.Duration {
	return seconds(c.API.TimeoutSec)
}

// ProductsStale returns the product list stale time.
func (c *Config) ProductsStale() time.Duration {
	return seconds(c.Cache.ProductsStaleSec)
}

// CategoriesStale returns the category list stale time.
func (c *Config) CategoriesStale() time.Duration {
	return seconds(c.Cache.CategoriesStaleSec)
}

// SearchDebounce returns the search input debounce window.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.UI.SearchDebounceMs) * time.Millisecond
}

// PriceDebounce returns the price controls debounce window.
func (c *Config) PriceDebounce() time.Duration {
	return time.Duration(c.UI.PriceDebounceMs) * time.Millisecond
}

func seconds(n int) time.Duration {
	return time.Duration(n) * time.Second
}
