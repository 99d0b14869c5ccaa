package app

import (
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd builds the appcompat command tree.
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	rootCmd := &cobra.Command{
		Use:   "appcompat",
		Short: "Check installed applications against RoaringApps compatibility data",
		Long: `appcompat looks for the applications installed on this Mac and checks each
one for compatibility with Mac OS X 10.7 (Lion) and 10.8 (Mountain Lion),
based on data from roaringapps.com.

Installed applications are found through Spotlight. Apple's own applications
are skipped. The application list and the compatibility data are cached for
an hour; use --refresh-cache to fetch both again.

By default only incompatible applications are listed.`,
		Example: `  # List incompatible applications
  appcompat

  # Show every application, including the compatible ones
  appcompat --verbose

  # Only check Mountain Lion, scanning an extra folder
  appcompat -m -a /Applications -a /Volumes/Apps

  # Output for a wrapper program
  appcompat --wrapper-mode`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			setupLogging(cmd.ErrOrStderr(), opts.Debug)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, *opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringArrayVarP(&opts.AppFolders, "app-folder", "a", nil,
		"folder to scan for installed applications; can be given several times (default /Applications and ~/Applications)")
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "show complete compatibility data, not just incompatible applications")
	flags.BoolVarP(&opts.LionOnly, "lion-only", "l", false, "only show Mac OS X 10.7 (Lion) compatibility data")
	flags.BoolVarP(&opts.MountainLionOnly, "mountain-lion-only", "m", false, "only show Mac OS X 10.8 (Mountain Lion) compatibility data")
	flags.BoolVarP(&opts.WrapperMode, "wrapper-mode", "w", false,
		"format output for a wrapper application: every line starts with a greppable tag followed by tab-separated fields")
	flags.BoolVarP(&opts.RefreshCache, "refresh-cache", "r", false,
		"rescan installed applications and refetch compatibility data instead of using the cache")

	persistent := rootCmd.PersistentFlags()
	persistent.StringVar(&opts.CacheFile, "cache-file", "", "cache path (default: ~/.appcompat/cache.db)")
	persistent.BoolVar(&opts.Debug, "debug", false, "log cache and configuration decisions to stderr")

	rootCmd.SuggestionsMinimumDistance = 2

	rootCmd.AddCommand(newCacheCmd(opts))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// setupLogging sends diagnostics to w without timestamps.
func setupLogging(w io.Writer, debug bool) {
	log.SetOutput(w)
	log.SetFormatter(&log.TextFormatter{
		DisableTimestamp:       true,
		DisableLevelTruncation: true,
	})
	if debug {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}
