package output

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// ANSI color codes for compatibility labels
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// writerIsTTY returns true if the given writer exposes an Fd() method
// (e.g. *os.File) and that fd is a terminal. Falls back to false for
// plain io.Writer values such as *bytes.Buffer.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// IsColorEnabled returns true if ANSI color codes should be emitted to w.
// It checks that w is a TTY and that the NO_COLOR env var is not set.
func IsColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return writerIsTTY(w)
}

// labelColor picks the color for a compatibility label.
func labelColor(label string) string {
	switch label {
	case "OK":
		return colorGreen
	case "Some problems":
		return colorYellow
	case "Does not work":
		return colorRed
	default: // Unknown, Untested
		return colorGray
	}
}

// colorize wraps text in the given ANSI color code if enabled.
func colorize(enabled bool, color, text string) string {
	if enabled {
		return color + text + colorReset
	}
	return text
}
