package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/blackwell-systems/appcompat/internal/analyzer"
)

// Wrapper mode tags. Each line starts with a tag; data fields follow,
// separated by tabs.
const (
	TagNoApplications           = "found_no_installed_applications"
	TagApplicationsFound        = "found_number_of_installed_application"
	TagScanStarted              = "looking_for_installed_applications"
	TagUsingCachedApplications  = "using_cached_installed_applications"
	TagFetchStarted             = "fetching_compatibility_data"
	TagUsingCachedCompatibility = "using_cached_compatibility_data"
	TagDataFound                = "compatibility_data_found"
	TagDataNotFound             = "compatibility_data_not_found"
	TagIncompatibleApplications = "found_number_of_incompatible_applications"
)

// WrapperReporter prints greppable tagged lines for wrapper programs.
type WrapperReporter struct {
	w io.Writer
}

// NewWrapperReporter creates a WrapperReporter writing to w.
func NewWrapperReporter(w io.Writer) *WrapperReporter {
	return &WrapperReporter{w: w}
}

func (r *WrapperReporter) emit(tag string, fields ...string) {
	fmt.Fprintln(r.w, strings.Join(append([]string{tag}, fields...), "\t"))
}

// ModeSelected prints nothing; wrapper output does not depend on the mode.
func (r *WrapperReporter) ModeSelected() {}

// ScanStarted emits the scan tag.
func (r *WrapperReporter) ScanStarted() {
	r.emit(TagScanStarted)
}

// UsingCachedApplications emits the cached application list tag.
func (r *WrapperReporter) UsingCachedApplications() {
	r.emit(TagUsingCachedApplications)
}

// FetchStarted emits the fetch tag.
func (r *WrapperReporter) FetchStarted() {
	r.emit(TagFetchStarted)
}

// UsingCachedCompatibilityData emits the cached dataset tag.
func (r *WrapperReporter) UsingCachedCompatibilityData() {
	r.emit(TagUsingCachedCompatibility)
}

// NoApplications emits the no applications tag.
func (r *WrapperReporter) NoApplications() {
	r.emit(TagNoApplications)
}

// ApplicationsFound emits the installed application count.
func (r *WrapperReporter) ApplicationsFound(n int) {
	r.emit(TagApplicationsFound, strconv.Itoa(n))
}

// DisplayScope prints nothing; wrapper output always lists every result.
func (r *WrapperReporter) DisplayScope() {}

// Result emits the raw record of a matched application, or its name when
// no data was found.
func (r *WrapperReporter) Result(res analyzer.Result) {
	if !res.Found {
		r.emit(TagDataNotFound, res.Name)
		return
	}

	rec := res.Record
	r.emit(TagDataFound,
		rec.Title,
		string(rec.Status),
		string(rec.MountainLionStatus),
		rec.URL,
		rec.DeveloperName,
		rec.Icon,
	)
}

// IncompatibleApplications emits the incompatible count.
func (r *WrapperReporter) IncompatibleApplications(n int) {
	r.emit(TagIncompatibleApplications, strconv.Itoa(n))
}
