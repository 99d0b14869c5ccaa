package app

import (
	"errors"

	"github.com/blackwell-systems/appcompat/internal/analyzer"
	"github.com/blackwell-systems/appcompat/internal/output"
)

// ErrConflictingFlags is returned when -l and -m are combined.
var ErrConflictingFlags = errors.New("you can't combine the -l and -m flags; they are mutually exclusive")

// Options holds the command-line configuration of one run.
type Options struct {
	AppFolders       []string
	Verbose          bool
	LionOnly         bool
	MountainLionOnly bool
	WrapperMode      bool
	RefreshCache     bool

	CacheFile string
	Debug     bool
}

// Validate rejects flag combinations that cannot be honoured.
func (o Options) Validate() error {
	if o.LionOnly && o.MountainLionOnly {
		return ErrConflictingFlags
	}
	return nil
}

// Mode returns the release restriction selected by the flags.
func (o Options) Mode() analyzer.Mode {
	switch {
	case o.LionOnly:
		return analyzer.ModeLionOnly
	case o.MountainLionOnly:
		return analyzer.ModeMountainLionOnly
	default:
		return analyzer.ModeAll
	}
}

func (o Options) outputOptions() output.Options {
	return output.Options{
		Mode:        o.Mode(),
		Verbose:     o.Verbose,
		WrapperMode: o.WrapperMode,
	}
}
