package scanner

import (
	log "github.com/sirupsen/logrus"

	"github.com/blackwell-systems/appcompat/internal/store"
)

// Searcher finds application bundles below a filesystem root.
type Searcher interface {
	Search(root string) ([]string, error)
}

// Scanner builds the installed application inventory and keeps it cached.
type Scanner struct {
	store    *store.Store
	searcher Searcher
	log      log.FieldLogger
}

// New creates a new Scanner instance with the given store and searcher.
func New(store *store.Store, searcher Searcher) *Scanner {
	return &Scanner{
		store:    store,
		searcher: searcher,
		log:      log.StandardLogger(),
	}
}

// SetLogger replaces the logger used for scan diagnostics.
func (s *Scanner) SetLogger(l log.FieldLogger) {
	s.log = l
}
