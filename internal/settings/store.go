// Package settings is the UI-side settings model. Updates merge at the
// sub-group-field granularity; the whole document is pushed through the
// bridge after every change. Persistence failures never disturb the
// in-memory state.
package settings

import (
	"context"
	"sync"

	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Bridge is the slice of the control bridge this store needs.
type Bridge interface {
	Call(ctx context.Context, op string, payload interface{}) (*types.Result, error)
}

// Store is the settings store.
type Store struct {
	bridge Bridge
	log    *logging.Logger

	mu      sync.Mutex
	current types.Settings
}

// NewStore creates a settings store holding the built-in defaults until Init
// loads the persisted document.
func NewStore(bridge Bridge, log *logging.Logger) *Store {
	return &Store{
		bridge:  bridge,
		log:     log,
		current: types.DefaultSettings(),
	}
}

// Init loads the persisted settings document. Load failure keeps the
// defaults. Decoding starts from the default document so that top-level
// keys missing on disk are backfilled rather than zeroed.
func (s *Store) Init(ctx context.Context) {
	result, err := s.bridge.Call(ctx, types.OpLoadSettings, nil)
	if err != nil {
		s.log.Warn("settings load failed, keeping defaults", zap.Error(err))
		return
	}
	if !result.Success {
		s.log.Warn("settings load rejected, keeping defaults",
			zap.String("error", result.Error))
		return
	}

	loaded := types.DefaultSettings()
	if err := result.Decode(&loaded); err != nil {
		s.log.Warn("settings document malformed, keeping defaults", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.current = loaded
	s.mu.Unlock()
}

// Update merges the partial update into the document and persists it.
// Fields the update does not name are untouched, inside and outside the
// updated sub-groups.
func (s *Store) Update(ctx context.Context, update types.SettingsUpdate) {
	s.mu.Lock()
	update.Apply(&s.current)
	s.mu.Unlock()

	s.persist(ctx)
}

// Reset replaces the whole document with the built-in defaults.
func (s *Store) Reset(ctx context.Context) {
	s.mu.Lock()
	s.current = types.DefaultSettings()
	s.mu.Unlock()

	s.persist(ctx)
}

// Current returns a copy of the in-memory document.
func (s *Store) Current() types.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// ClearBrowsingData delegates to the privileged side and returns its
// structured outcome. Bridge transport failures surface the same way.
func (s *Store) ClearBrowsingData(ctx context.Context) types.ClearBrowsingDataResult {
	result, err := s.bridge.Call(ctx, types.OpClearBrowsingData, nil)
	if err != nil {
		return types.ClearBrowsingDataResult{Success: false, Error: err.Error()}
	}
	if !result.Success {
		return types.ClearBrowsingDataResult{Success: false, Error: result.Error}
	}

	var out types.ClearBrowsingDataResult
	if err := result.Decode(&out); err != nil {
		return types.ClearBrowsingDataResult{Success: false, Error: err.Error()}
	}
	return out
}

// ToggleAdBlocker asks the privileged side to flip the filter engine and,
// on success, records the new state in the privacy sub-group and persists.
func (s *Store) ToggleAdBlocker(ctx context.Context, enabled bool) error {
	result, err := s.bridge.Call(ctx, types.OpToggleAdBlocker,
		types.ToggleAdBlockerRequest{Enabled: enabled})
	if err != nil {
		return err
	}
	if !result.Success {
		s.log.Warn("ad blocker toggle rejected", zap.String("error", result.Error))
		return nil
	}

	s.mu.Lock()
	s.current.Privacy.AdBlockerEnabled = enabled
	s.mu.Unlock()

	s.persist(ctx)
	return nil
}

func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	doc := s.current
	s.mu.Unlock()

	result, err := s.bridge.Call(ctx, types.OpSaveSettings, doc)
	if err != nil {
		s.log.Warn("settings save failed", zap.Error(err))
		return
	}
	if !result.Success {
		s.log.Warn("settings save rejected", zap.String("error", result.Error))
	}
}
