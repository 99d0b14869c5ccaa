package app

import (
	"fmt"
	"sort"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appcompat/internal/analyzer"
	"github.com/blackwell-systems/appcompat/internal/compat"
	"github.com/blackwell-systems/appcompat/internal/config"
	"github.com/blackwell-systems/appcompat/internal/output"
	"github.com/blackwell-systems/appcompat/internal/scanner"
	"github.com/blackwell-systems/appcompat/internal/store"
)

// runCheck scans (or loads from cache) the installed applications and the
// compatibility data, matches them and reports the result.
func runCheck(cmd *cobra.Command, opts Options) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	rep := output.NewReporter(cmd.OutOrStdout(), opts.outputOptions())
	rep.ModeSelected()

	cachePath, err := getCachePath(opts, cfg)
	if err != nil {
		return fmt.Errorf("failed to get cache path: %w", err)
	}

	st, err := store.New(cachePath)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}
	defer st.Close()

	if err := st.CreateSchema(); err != nil {
		return fmt.Errorf("failed to create cache schema: %w", err)
	}

	s := scanner.New(st, newSearcher())
	f := compat.NewFetcher(cfg.DataURL, httpClient, st)

	apps, dataset, err := collect(opts, cfg, st, s, f, rep)
	if err != nil {
		return err
	}

	sort.Strings(apps)

	if len(apps) == 0 {
		rep.NoApplications()
		return nil
	}

	rep.ApplicationsFound(len(apps))
	rep.DisplayScope()

	report, err := analyzer.Reconcile(apps, dataset, opts.Mode())
	if err != nil {
		return err
	}

	for _, res := range report.Results {
		rep.Result(res)
	}
	rep.IncompatibleApplications(report.Incompatible)

	return nil
}

// collect returns the installed applications and the compatibility data.
// Staleness is decided once: either both come from the cache or both are
// refreshed. A cache missing either entry is refreshed as a whole.
func collect(opts Options, cfg *config.Config, st *store.Store, s *scanner.Scanner, f *compat.Fetcher, rep output.Reporter) ([]string, compat.Dataset, error) {
	stale := opts.RefreshCache
	if !stale {
		var err error
		stale, err = st.IsStale(cfg.CacheTTL)
		if err != nil {
			log.Debugf("Treating cache as stale: %v", err)
			stale = true
		}
	}

	if !stale {
		apps, appsFound, appsErr := s.CachedApplications()
		dataset, dataFound, dataErr := f.Cached()
		if appsErr == nil && dataErr == nil && appsFound && dataFound {
			log.Debug("Using cached data")
			rep.UsingCachedApplications()
			rep.UsingCachedCompatibilityData()
			return apps, dataset, nil
		}
		log.Debug("Cache is incomplete, refreshing it")
	}

	rep.ScanStarted()
	apps, err := s.ScanApplications(scanRoots(opts, cfg))
	// Failed roots still yield names; nil means the scan could not be cached.
	if apps == nil {
		return nil, nil, err
	}
	if err != nil {
		log.Debugf("Scan finished with errors: %v", err)
	}

	rep.FetchStarted()
	log.Debugf("Fetching %s", f.URL())
	dataset, err := f.Fetch()
	if err != nil {
		return nil, nil, err
	}

	return apps, dataset, nil
}
