package app

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/appcompat/internal/store"
)

func newCacheCmd(opts *Options) *cobra.Command {
	return &cobra.Command{
		Use:   "cache",
		Short: "Show the state of the local cache",
		Long: `Display where the cache lives, when it was last updated, whether it is
still fresh and which entries it holds.

The cache holds the list of installed applications and the compatibility
data. Both are refreshed together once the cache is older than its TTL
(one hour by default), or when appcompat runs with --refresh-cache.`,
		Example: `  # Inspect the cache
  appcompat cache`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCache(cmd, *opts)
		},
	}
}

// runCache reports on the cache without creating or modifying it.
func runCache(cmd *cobra.Command, opts Options) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	cachePath, err := resolveCachePath(opts, cfg)
	if err != nil {
		return fmt.Errorf("failed to get cache path: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Cache file:   %s\n", cachePath)

	if _, err := os.Stat(cachePath); os.IsNotExist(err) {
		printNeverUpdated(out)
		return nil
	}

	st, err := store.OpenReadOnly(cachePath)
	if err != nil {
		return err
	}
	defer st.Close()

	modifiedAt, written, err := st.ModifiedAt()
	if errors.Is(err, store.ErrNotInitialized) {
		printNeverUpdated(out)
		return nil
	}
	if err != nil {
		return err
	}
	if !written {
		printNeverUpdated(out)
		return nil
	}

	fmt.Fprintf(out, "Last updated: %s (%s)\n",
		humanize.Time(modifiedAt), modifiedAt.Local().Format(time.RFC1123))

	stale, err := st.IsStale(cfg.CacheTTL)
	if err != nil {
		return err
	}
	expiresAt := modifiedAt.Add(cfg.CacheTTL)
	if stale {
		fmt.Fprintf(out, "Status:       stale (expired %s)\n", humanize.Time(expiresAt))
	} else {
		fmt.Fprintf(out, "Status:       fresh (expires %s)\n", humanize.Time(expiresAt))
	}

	entries, err := st.Entries()
	if err != nil {
		return err
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Entries:")
	for _, e := range entries {
		fmt.Fprintf(out, "  %-24s %s\n", e.Key, humanize.Bytes(uint64(e.SizeBytes)))
	}

	return nil
}

func printNeverUpdated(w io.Writer) {
	fmt.Fprintln(w, "Last updated: never")
	fmt.Fprintln(w, "Status:       stale (no cache yet)")
}
