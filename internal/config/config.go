// Package config loads appcompat settings from the XDG config directory and
// the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/appcompat/internal/compat"
	"github.com/blackwell-systems/appcompat/internal/scanner"
)

// EnvPrefix prefixes environment overrides, e.g. APPCOMPAT_CACHE_TTL=10m.
const EnvPrefix = "APPCOMPAT"

// DefaultCacheTTL is how long scan and dataset results are reused.
const DefaultCacheTTL = time.Hour

// Dir returns the appcompat config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/appcompat if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "appcompat"), nil
}

// Config holds the settings of one run.
type Config struct {
	// DataURL is where the compatibility dataset is downloaded from.
	DataURL string `mapstructure:"data_url"`
	// CacheFile is the cache database path; empty means ~/.appcompat/cache.db.
	CacheFile string `mapstructure:"cache_file"`
	// CacheTTL is the maximum cache age before a rescan and refetch.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
	// AppFolders are scanned when no folder is given on the command line.
	AppFolders []string `mapstructure:"app_folders"`

	// File is the config file that was read, or empty.
	File string `mapstructure:"-"`
}

// Load reads {dir}/config.yaml and APPCOMPAT_* environment variables on top
// of the defaults. A missing config file is not an error.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("data_url", compat.DefaultURL)
	v.SetDefault("cache_file", "")
	v.SetDefault("cache_ttl", DefaultCacheTTL)
	v.SetDefault("app_folders", scanner.DefaultFolders)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.File = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the loaded values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.DataURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid data_url %q", c.DataURL)
	}
	if c.CacheTTL < 0 {
		return fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL)
	}
	return nil
}
