// Package config loads the countrydesk TOML configuration.
//
// Only keys present in the file override the defaults, so a config file can be as small as a
// single line:
//
//	[storage]
//	backend = "sqlite"
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/inovacc/countrydesk/internal/application"
)

const (
	// FileName is the config file looked up in the application directory.
	FileName = "config.toml"

	DefaultEndpoint = "https://countries.trevorblades.com"
)

// Config is the effective application configuration.
type Config struct {
	Storage   StorageConfig
	Countries CountriesConfig
	Web       WebConfig
	Log       LogConfig
}

// StorageConfig selects the durable key/value backend.
type StorageConfig struct {
	Backend string
	Path    string
}

// CountriesConfig configures the remote GraphQL source and its cache.
type CountriesConfig struct {
	Endpoint  string
	Timeout   time.Duration
	CacheTTL  time.Duration
	CacheSize int
}

// WebConfig configures the localhost web UI.
type WebConfig struct {
	Host        string
	Port        int
	OpenBrowser bool
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string
	Format string
}

type fileConfig struct {
	Storage struct {
		Backend string `toml:"backend"`
		Path    string `toml:"path"`
	} `toml:"storage"`
	Countries struct {
		Endpoint  string `toml:"endpoint"`
		Timeout   string `toml:"timeout"`
		CacheTTL  string `toml:"cache_ttl"`
		CacheSize int    `toml:"cache_size"`
	} `toml:"countries"`
	Web struct {
		Host        string `toml:"host"`
		Port        int    `toml:"port"`
		OpenBrowser bool   `toml:"open_browser"`
	} `toml:"web"`
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			Backend: "bolt",
		},
		Countries: CountriesConfig{
			Endpoint:  DefaultEndpoint,
			Timeout:   15 * time.Second,
			CacheTTL:  10 * time.Minute,
			CacheSize: 64,
		},
		Web: WebConfig{
			Host:        "127.0.0.1",
			Port:        8080,
			OpenBrowser: true,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultPath returns <app dir>/config.toml.
func DefaultPath() (string, error) {
	return application.Path(FileName)
}

// Load reads path on top of the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig

	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}

		return Config{}, fmt.Errorf("load config %s: %w", path, err)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config %s: unknown key %q", path, undecoded[0].String())
	}

	if meta.IsDefined("storage", "backend") {
		cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(raw.Storage.Backend))
	}

	if meta.IsDefined("storage", "path") {
		cfg.Storage.Path = strings.TrimSpace(raw.Storage.Path)
	}

	if meta.IsDefined("countries", "endpoint") {
		cfg.Countries.Endpoint = strings.TrimSpace(raw.Countries.Endpoint)
	}

	if meta.IsDefined("countries", "timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Countries.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse countries.timeout: %w", err)
		}

		cfg.Countries.Timeout = d
	}

	if meta.IsDefined("countries", "cache_ttl") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Countries.CacheTTL))
		if err != nil {
			return Config{}, fmt.Errorf("parse countries.cache_ttl: %w", err)
		}

		cfg.Countries.CacheTTL = d
	}

	if meta.IsDefined("countries", "cache_size") {
		cfg.Countries.CacheSize = raw.Countries.CacheSize
	}

	if meta.IsDefined("web", "host") {
		cfg.Web.Host = strings.TrimSpace(raw.Web.Host)
	}

	if meta.IsDefined("web", "port") {
		cfg.Web.Port = raw.Web.Port
	}

	if meta.IsDefined("web", "open_browser") {
		cfg.Web.OpenBrowser = raw.Web.OpenBrowser
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(raw.Log.Level))
	}

	if meta.IsDefined("log", "format") {
		cfg.Log.Format = strings.ToLower(strings.TrimSpace(raw.Log.Format))
	}

	if err := Validate(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks a config for values no component can run with.
func Validate(cfg Config) error {
	switch cfg.Storage.Backend {
	case "bolt", "sqlite", "ini", "memory":
	default:
		return fmt.Errorf("storage.backend %q must be one of bolt, sqlite, ini, memory", cfg.Storage.Backend)
	}

	if strings.TrimSpace(cfg.Countries.Endpoint) == "" {
		return fmt.Errorf("countries.endpoint is required")
	}

	if cfg.Countries.Timeout <= 0 {
		return fmt.Errorf("countries.timeout must be positive")
	}

	if cfg.Countries.CacheSize < 0 {
		return fmt.Errorf("countries.cache_size must not be negative")
	}

	if cfg.Web.Port <= 0 || cfg.Web.Port > 65535 {
		return fmt.Errorf("web.port %d out of range", cfg.Web.Port)
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format %q must be text or json", cfg.Log.Format)
	}

	return nil
}

// StoragePath resolves the backend file path, defaulting into the application directory.
func (c Config) StoragePath() (string, error) {
	if c.Storage.Path != "" {
		return c.Storage.Path, nil
	}

	var ext string

	switch c.Storage.Backend {
	case "sqlite":
		ext = "db"
	case "ini":
		ext = "ini"
	default:
		ext = "bolt"
	}

	return application.Path(application.AppName + "." + ext)
}

// Encode renders the config in the same TOML layout Load reads.
func (c Config) Encode() ([]byte, error) {
	var raw fileConfig

	raw.Storage.Backend = c.Storage.Backend
	raw.Storage.Path = c.Storage.Path
	raw.Countries.Endpoint = c.Countries.Endpoint
	raw.Countries.Timeout = c.Countries.Timeout.String()
	raw.Countries.CacheTTL = c.Countries.CacheTTL.String()
	raw.Countries.CacheSize = c.Countries.CacheSize
	raw.Web.Host = c.Web.Host
	raw.Web.Port = c.Web.Port
	raw.Web.OpenBrowser = c.Web.OpenBrowser
	raw.Log.Level = c.Log.Level
	raw.Log.Format = c.Log.Format

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(raw); err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteFile writes cfg to path, creating parent directories.
func WriteFile(path string, cfg Config) error {
	data, err := cfg.Encode()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	return os.WriteFile(path, data, 0o600)
}
