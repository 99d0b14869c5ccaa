// Package output renders compatibility results for appcompat.
//
// Two renderers implement Reporter:
//   - HumanReporter prints readable text, listing only incompatible
//     applications unless verbose output is requested
//   - WrapperReporter prints one tab-separated line per event, each starting
//     with a fixed tag, for programs that wrap appcompat
//
// Exactly one renderer is used per run.
package output

import (
	"io"

	"github.com/blackwell-systems/appcompat/internal/analyzer"
)

// Options selects the renderer and what it shows.
type Options struct {
	Mode        analyzer.Mode
	Verbose     bool
	WrapperMode bool
}

// Reporter receives the events of one run in order.
type Reporter interface {
	// ModeSelected announces a release restriction, if any.
	ModeSelected()
	ScanStarted()
	UsingCachedApplications()
	FetchStarted()
	UsingCachedCompatibilityData()
	// NoApplications is the last event of a run that found nothing.
	NoApplications()
	ApplicationsFound(n int)
	// DisplayScope announces whether compatible applications are listed.
	DisplayScope()
	Result(r analyzer.Result)
	IncompatibleApplications(n int)
}

// NewReporter returns the Reporter selected by opts.
func NewReporter(w io.Writer, opts Options) Reporter {
	if opts.WrapperMode {
		return NewWrapperReporter(w)
	}
	return NewHumanReporter(w, opts)
}

// plural returns "s" unless n is exactly one.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
