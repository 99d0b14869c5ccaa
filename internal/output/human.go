package output

import (
	"fmt"
	"io"

	"github.com/blackwell-systems/appcompat/internal/analyzer"
)

const (
	lionName         = "Mac OS X 10.7 (Lion)"
	mountainLionName = "Mac OS X 10.8 (Mountain Lion)"
)

// HumanReporter prints readable text. Lines about compatible applications
// and missing data are only shown in verbose mode.
type HumanReporter struct {
	w     io.Writer
	opts  Options
	color bool
}

// NewHumanReporter creates a HumanReporter writing to w.
func NewHumanReporter(w io.Writer, opts Options) *HumanReporter {
	return &HumanReporter{
		w:     w,
		opts:  opts,
		color: IsColorEnabled(w),
	}
}

// print writes msg unless it is verbose-only and verbose output is off.
func (r *HumanReporter) print(msg string, verboseOnly bool) {
	if verboseOnly && !r.opts.Verbose {
		return
	}
	fmt.Fprintln(r.w, msg)
}

// ModeSelected announces a Lion-only or Mountain Lion-only run.
func (r *HumanReporter) ModeSelected() {
	switch r.opts.Mode {
	case analyzer.ModeLionOnly:
		r.print("Only checking for "+lionName+" compatibility data.", false)
	case analyzer.ModeMountainLionOnly:
		r.print("Only checking for "+mountainLionName+" compatibility data.", false)
	}
}

// ScanStarted is printed before the application scan.
func (r *HumanReporter) ScanStarted() {
	r.print("Looking for installed applications...", false)
}

// UsingCachedApplications notes that the cached application list is used.
func (r *HumanReporter) UsingCachedApplications() {
	r.print("Using cached list of installed applications.", false)
}

// FetchStarted is printed before the compatibility data is downloaded.
func (r *HumanReporter) FetchStarted() {
	r.print("Fetching compatibility data...", false)
}

// UsingCachedCompatibilityData notes that the cached dataset is used.
func (r *HumanReporter) UsingCachedCompatibilityData() {
	r.print("Using cached compatibility data.", false)
}

// NoApplications ends a run that found nothing to check.
func (r *HumanReporter) NoApplications() {
	r.print("Found no installed applications, exiting.", false)
}

// ApplicationsFound prints the number of installed applications.
func (r *HumanReporter) ApplicationsFound(n int) {
	r.print(fmt.Sprintf("Found %d installed application%s.", n, plural(n)), false)
}

// DisplayScope says whether compatible applications will be listed.
func (r *HumanReporter) DisplayScope() {
	if r.opts.Verbose {
		r.print("Displaying compatibility data for all installed applications.", false)
	} else {
		r.print("Only displaying incompatible applications.", false)
	}
}

// Result prints the block for one application. The name is shown unless the
// application is compatible; each release line is shown when that release is
// in scope and not OK. Verbose mode shows everything in scope.
func (r *HumanReporter) Result(res analyzer.Result) {
	if !res.Found {
		r.print("\nFound no compatibility data for "+res.Name, true)
		return
	}

	r.print("\n"+res.Name+":", res.RenderVerbosely)

	v := res.Verdict
	if r.opts.Mode.ShowsLion() {
		r.print(fmt.Sprintf("%s: %s", lionName, r.label(v.Lion)), v.LionOK)
	}
	if r.opts.Mode.ShowsMountainLion() {
		r.print(fmt.Sprintf("%s: %s", mountainLionName, r.label(v.MountainLion)), v.MountainLionOK)
	}
}

// IncompatibleApplications prints the final incompatible count.
func (r *HumanReporter) IncompatibleApplications(n int) {
	r.print(fmt.Sprintf("\nFound %d incompatible application%s.", n, plural(n)), false)
}

func (r *HumanReporter) label(label string) string {
	return colorize(r.color, labelColor(label), label)
}
