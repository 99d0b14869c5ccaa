package app

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"github.com/blackwell-systems/appcompat/internal/config"
	"github.com/blackwell-systems/appcompat/internal/scanner"
	"github.com/blackwell-systems/appcompat/internal/spotlight"
)

// Replaced in tests.
var (
	newSearcher = func() scanner.Searcher { return spotlight.New() }
	httpClient  *http.Client
)

// loadConfig reads the config file from the XDG config directory.
func loadConfig() (*config.Config, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}

	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}

	if cfg.File != "" {
		log.Debugf("Using config file %s", cfg.File)
	}
	return cfg, nil
}

// getCachePath returns the cache path from the flag, the config file, or
// the default ~/.appcompat/cache.db, creating its directory if needed.
func getCachePath(opts Options, cfg *config.Config) (string, error) {
	path, err := resolveCachePath(opts, cfg)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create cache directory: %w", err)
	}

	return path, nil
}

// resolveCachePath works out the cache path without touching the filesystem.
func resolveCachePath(opts Options, cfg *config.Config) (string, error) {
	path := opts.CacheFile
	if path == "" {
		path = cfg.CacheFile
	}
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, ".appcompat", "cache.db")
	}

	return scanner.ExpandUser(path)
}

// scanRoots returns the folders given with -a, then the configured folders,
// then the default ones.
func scanRoots(opts Options, cfg *config.Config) []scanner.Root {
	if len(opts.AppFolders) > 0 {
		return scanner.RootsFor(opts.AppFolders)
	}
	if len(cfg.AppFolders) > 0 {
		return scanner.RootsFor(cfg.AppFolders)
	}
	return scanner.DefaultRoots()
}
