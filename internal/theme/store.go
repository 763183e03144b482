// Package theme is the UI-side theme model: top-level-field merge updates,
// portable JSON export, and import that always rebuilds from the built-in
// default so missing fields are never left undefined.
package theme

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Bridge is the slice of the control bridge this store needs.
type Bridge interface {
	Call(ctx context.Context, op string, payload interface{}) (*types.Result, error)
}

// Store is the theme store.
type Store struct {
	bridge Bridge
	log    *logging.Logger

	mu      sync.Mutex
	current types.Theme
}

// NewStore creates a theme store holding the built-in default until Init
// loads the persisted document.
func NewStore(bridge Bridge, log *logging.Logger) *Store {
	return &Store{
		bridge:  bridge,
		log:     log,
		current: types.DefaultTheme(),
	}
}

// Init loads the persisted theme document, decoding over the default so
// missing top-level keys are backfilled. Load failure keeps the default.
func (s *Store) Init(ctx context.Context) {
	result, err := s.bridge.Call(ctx, types.OpLoadTheme, nil)
	if err != nil {
		s.log.Warn("theme load failed, keeping default", zap.Error(err))
		return
	}
	if !result.Success {
		s.log.Warn("theme load rejected, keeping default",
			zap.String("error", result.Error))
		return
	}

	loaded := types.DefaultTheme()
	if err := result.Decode(&loaded); err != nil {
		s.log.Warn("theme document malformed, keeping default", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
}

// Update merges the partial update into the document and persists it.
func (s *Store) Update(ctx context.Context, update types.ThemeUpdate) {
	s.mu.Lock()
	update.Apply(&s.current)
	s.mu.Unlock()

	s.persist(ctx)
}

// Current returns a copy of the in-memory document.
func (s *Store) Current() types.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Export serializes the current document to its portable textual form.
func (s *Store) Export() string {
	s.mu.Lock()
	current := s.current
	s.mu.Unlock()

	data, err := json.MarshalIndent(current, "", "  ")
	if err != nil {
		// Theme is plain data; this cannot realistically fail.
		s.log.Error("theme export failed", zap.Error(err))
		return ""
	}
	return string(data)
}

// Import parses the portable form produced by Export. Malformed input is
// logged and discarded without touching the current document. Valid input
// merges onto the built-in default, never onto the current in-memory value,
// so any field the text omits comes from the default.
func (s *Store) Import(ctx context.Context, text string) {
	imported := types.DefaultTheme()
	if err := json.Unmarshal([]byte(text), &imported); err != nil {
		s.log.Warn("theme import discarded, malformed document", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.current = imported
	s.mu.Unlock()

	s.persist(ctx)
}

func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	doc := s.current
	s.mu.Unlock()

	result, err := s.bridge.Call(ctx, types.OpSaveTheme, doc)
	if err != nil {
		s.log.Warn("theme save failed", zap.Error(err))
		return
	}
	if !result.Success {
		s.log.Warn("theme save rejected", zap.String("error", result.Error))
	}
}
