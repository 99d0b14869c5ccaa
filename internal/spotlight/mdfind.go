// Package spotlight queries the macOS Spotlight index through mdfind.
package spotlight

import (
	"bytes"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ApplicationQuery matches application bundles that do not belong to Apple.
const ApplicationQuery = "kMDItemContentTypeTree == com.apple.application && kMDItemCFBundleIdentifier != com.apple.*"

// CommandError reports a search command that could not be started or exited
// with a non-zero status.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("%s failed: %v", strings.Join(e.Args, " "), e.Err)
	if stderr := strings.TrimSpace(e.Stderr); stderr != "" {
		msg += fmt.Sprintf(" (stderr: %s)", stderr)
	}
	return msg
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// Command returns the command line that failed.
func (e *CommandError) Command() string {
	return strings.Join(e.Args, " ")
}

// Searcher runs the application query through mdfind.
type Searcher struct {
	// Binary is the mdfind executable; defaults to "mdfind" on PATH.
	Binary string
}

// New returns a Searcher using mdfind from PATH.
func New() *Searcher {
	return &Searcher{Binary: "mdfind"}
}

// SearchArgs returns the full argv used to search root.
func (s *Searcher) SearchArgs(root string) []string {
	binary := s.Binary
	if binary == "" {
		binary = "mdfind"
	}
	return []string{binary, "-onlyin", root, ApplicationQuery}
}

// Search returns the paths of all non-Apple applications under root, one per
// line of mdfind output.
func (s *Searcher) Search(root string) ([]string, error) {
	args := s.SearchArgs(root)
	cmd := exec.Command(args[0], args[1:]...)
	output, err := cmd.Output()
	if err != nil {
		cmdErr := &CommandError{Args: args, Err: err}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			cmdErr.Stderr = string(exitErr.Stderr)
		}
		return nil, cmdErr
	}

	return parseOutput(output), nil
}

// parseOutput splits mdfind output into paths, dropping blank lines.
func parseOutput(output []byte) []string {
	var paths []string
	for _, line := range bytes.Split(output, []byte{'\n'}) {
		path := strings.TrimRight(string(line), "\r")
		if strings.TrimSpace(path) == "" {
			continue
		}
		paths = append(paths, path)
	}
	return paths
}
