package analyzer

import "github.com/blackwell-systems/appcompat/internal/compat"

// Mode restricts which OS release is checked.
type Mode int

const (
	// ModeAll checks both Lion and Mountain Lion.
	ModeAll Mode = iota
	// ModeLionOnly checks Mac OS X 10.7 (Lion) only.
	ModeLionOnly
	// ModeMountainLionOnly checks Mac OS X 10.8 (Mountain Lion) only.
	ModeMountainLionOnly
)

// ShowsLion reports whether Lion data is in scope.
func (m Mode) ShowsLion() bool {
	return m != ModeMountainLionOnly
}

// ShowsMountainLion reports whether Mountain Lion data is in scope.
func (m Mode) ShowsMountainLion() bool {
	return m != ModeLionOnly
}

func (m Mode) String() string {
	switch m {
	case ModeLionOnly:
		return "lion-only"
	case ModeMountainLionOnly:
		return "mountain-lion-only"
	default:
		return "all"
	}
}

// Verdict is the compatibility of one application on both OS releases.
type Verdict struct {
	Lion           string // human label, e.g. "OK" or "Does not work"
	LionOK         bool
	MountainLion   string
	MountainLionOK bool
}

// Result is the outcome of matching one installed application.
type Result struct {
	Name   string
	Found  bool // false when the dataset has no record for Name
	ID     string
	Record compat.Record

	Verdict Verdict

	// RenderVerbosely is true when the application is fine for every release
	// in scope, so it is only listed in verbose output.
	RenderVerbosely bool
}

// Report holds the results for all applications, in input order.
type Report struct {
	Mode         Mode
	Results      []Result
	Incompatible int // matched results with RenderVerbosely == false
}
