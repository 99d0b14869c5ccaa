package scanner

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/blackwell-systems/appcompat/internal/spotlight"
	"github.com/blackwell-systems/appcompat/internal/store"
)

// AppExtension is the extension of macOS application bundles.
const AppExtension = ".app"

// DefaultFolders are scanned when no folder is given on the command line.
var DefaultFolders = []string{"/Applications", "~/Applications"}

// Root is a folder to scan. Default roots are skipped silently when missing.
type Root struct {
	Path    string
	Default bool
}

// DefaultRoots returns DefaultFolders as roots.
func DefaultRoots() []Root {
	return RootsFor(DefaultFolders)
}

// RootsFor returns a root per path. Paths listed in DefaultFolders are
// marked as defaults even when given explicitly.
func RootsFor(paths []string) []Root {
	roots := make([]Root, 0, len(paths))
	for _, p := range paths {
		roots = append(roots, Root{Path: p, Default: isDefaultFolder(p)})
	}
	return roots
}

func isDefaultFolder(path string) bool {
	for _, f := range DefaultFolders {
		if f == path {
			return true
		}
	}
	return false
}

// ScanApplications searches every root in order and returns the deduplicated
// application names in order of first discovery. The list is saved to the
// cache before returning. A root whose search fails is logged and skipped;
// those failures are returned together with the names that were found.
func (s *Scanner) ScanApplications(roots []Root) ([]string, error) {
	var errs *multierror.Error
	seen := make(map[string]struct{})
	apps := []string{}

	for _, root := range roots {
		path, err := ExpandUser(root.Path)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}

		if info, err := os.Stat(path); err != nil || !info.IsDir() {
			if !root.Default {
				s.log.Warnf("Couldn't find %s, skipping it.", path)
			}
			continue
		}

		paths, err := s.searcher.Search(path)
		if err != nil {
			s.logSearchError(err)
			errs = multierror.Append(errs, fmt.Errorf("failed to search %s: %w", path, err))
			continue
		}

		for _, p := range paths {
			name, ok := ParseApplicationName(p)
			if !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			apps = append(apps, name)
		}
	}

	if err := s.store.Put(store.InstalledApplicationsKey, apps); err != nil {
		return nil, fmt.Errorf("failed to cache installed applications: %w", err)
	}

	return apps, errs.ErrorOrNil()
}

// logSearchError reports a failed search, naming the command that was run.
func (s *Scanner) logSearchError(err error) {
	var cmdErr *spotlight.CommandError
	if errors.As(err, &cmdErr) {
		s.log.WithField("command", cmdErr.Command()).Errorf("Application search failed: %v", cmdErr.Err)
		if stderr := strings.TrimSpace(cmdErr.Stderr); stderr != "" {
			s.log.Error(stderr)
		}
		return
	}
	s.log.Errorf("Application search failed: %v", err)
}

// CachedApplications returns the cached application list. It reports false
// when no list has been cached.
func (s *Scanner) CachedApplications() ([]string, bool, error) {
	var apps []string
	found, err := s.store.Get(store.InstalledApplicationsKey, &apps)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get cached applications: %w", err)
	}
	if found && apps == nil {
		apps = []string{}
	}
	return apps, found, nil
}

// ParseApplicationName extracts the application name from a bundle path.
// Example: /Applications/Google Chrome.app -> "Google Chrome"
// Paths without the .app extension, or with nothing before it, are rejected.
func ParseApplicationName(path string) (string, bool) {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	if ext != AppExtension {
		return "", false
	}

	name := strings.TrimSuffix(base, ext)
	if name == "" {
		return "", false
	}

	return name, true
}

// ExpandUser replaces a leading "~" or "~user" with that user's home
// directory. Paths naming an unknown user are returned unchanged.
func ExpandUser(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}

	name, rest, _ := strings.Cut(path[1:], "/")
	if name == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get user home directory: %w", err)
		}
		return filepath.Join(home, rest), nil
	}

	u, err := user.Lookup(name)
	if err != nil {
		return path, nil
	}
	return filepath.Join(u.HomeDir, rest), nil
}
