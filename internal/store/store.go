// Package store is the durable side of the session state: four whole-document
// JSON files (tabs, bookmarks, settings, theme) under one state directory.
// Reads materialize the hardcoded default on first access; writes replace the
// entire document. There is no schema versioning; missing fields are
// backfilled by the typed decoders at the point of use, never at rest.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/halogen-browser/halogen/backend/internal/infrastructure/monitoring"
	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/paths"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Document names. The bridge contract only ever refers to these four.
const (
	DocTabs      = "tabs"
	DocBookmarks = "bookmarks"
	DocSettings  = "settings"
	DocTheme     = "theme"
)

// ErrUnknownDocument is returned for a name outside the fixed document set.
var ErrUnknownDocument = errors.New("unknown document")

// Store owns the on-disk copies of the session documents. Access is
// serialized with a single mutex: the design assumes one logical writer per
// document, but bridge handlers run on their own goroutines, so the store
// guards itself rather than trusting call ordering.
type Store struct {
	dir     string
	log     *logging.Logger
	metrics *monitoring.Metrics
	mu      sync.Mutex
}

// New creates a store rooted at dir, creating the directory if needed.
// A nil metrics collector disables instrumentation.
func New(dir string, log *logging.Logger, metrics *monitoring.Metrics) (*Store, error) {
	expanded, err := paths.ExpandHome(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve state dir: %w", err)
	}
	if err := os.MkdirAll(expanded, 0o755); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{dir: expanded, log: log, metrics: metrics}, nil
}

// Dir returns the resolved state directory.
func (s *Store) Dir() string {
	return s.dir
}

// Read returns the named document, creating it from its default value on
// first access. Read failures other than absence fall back to the default
// without touching the file on disk.
func (s *Store) Read(name string) ([]byte, error) {
	def, err := defaultDocument(name)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := s.path(name)
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		s.recordRead(name, true)
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		if werr := writeAtomic(path, def); werr != nil {
			s.log.Warn("failed to materialize default document",
				zap.String("document", name), zap.Error(werr))
		}
		s.recordRead(name, true)
		return def, nil
	default:
		s.log.Error("document read failed, serving default",
			zap.String("document", name), zap.Error(err))
		s.recordRead(name, false)
		return def, nil
	}
}

// Write replaces the named document in full. The write is atomic (temp file
// plus rename) so a crash never leaves a half-written document behind.
func (s *Store) Write(name string, data []byte) error {
	if _, err := defaultDocument(name); err != nil {
		return err
	}
	if !json.Valid(data) {
		s.recordWrite(name, false)
		return fmt.Errorf("document %s: payload is not valid JSON", name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path(name), data); err != nil {
		s.recordWrite(name, false)
		return fmt.Errorf("write document %s: %w", name, err)
	}
	s.recordWrite(name, true)
	return nil
}

func (s *Store) path(name string) string {
	return paths.DocumentFile(s.dir, name)
}

func (s *Store) recordRead(name string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordDocumentRead(name, ok)
	}
}

func (s *Store) recordWrite(name string, ok bool) {
	if s.metrics != nil {
		s.metrics.RecordDocumentWrite(name, ok)
	}
}

func defaultDocument(name string) ([]byte, error) {
	switch name {
	case DocTabs:
		return json.Marshal(types.TabsDocument{Tabs: []types.Tab{}})
	case DocBookmarks:
		return json.Marshal([]types.Bookmark{})
	case DocSettings:
		return json.Marshal(types.DefaultSettings())
	case DocTheme:
		return json.Marshal(types.DefaultTheme())
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownDocument, name)
	}
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}
