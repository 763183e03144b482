// Package bookmarks is the UI-side bookmark model. Adds append, removes
// match by identity; the privileged side owns the read-modify-write against
// the persisted document and answers with the resulting sequence.
package bookmarks

import (
	"context"
	"sync"

	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/id"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

// Bridge is the slice of the control bridge this store needs.
type Bridge interface {
	Call(ctx context.Context, op string, payload interface{}) (*types.Result, error)
}

// Store is the bookmark store.
type Store struct {
	bridge Bridge
	log    *logging.Logger

	mu    sync.Mutex
	items []types.Bookmark
}

// NewStore creates an empty bookmark store.
func NewStore(bridge Bridge, log *logging.Logger) *Store {
	return &Store{bridge: bridge, log: log}
}

// Init loads the persisted bookmark sequence. Load failure leaves the store
// empty.
func (s *Store) Init(ctx context.Context) {
	result, err := s.bridge.Call(ctx, types.OpLoadBookmarks, nil)
	if err != nil {
		s.log.Warn("bookmark load failed, starting empty", zap.Error(err))
		return
	}
	if !result.Success {
		s.log.Warn("bookmark load rejected, starting empty",
			zap.String("error", result.Error))
		return
	}

	var items []types.Bookmark
	if err := result.Decode(&items); err != nil {
		s.log.Warn("bookmark document malformed, starting empty", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}

// Add appends a bookmark, generating an identity when the caller supplies
// none, and returns the stored bookmark. The privileged side answers with
// the full resulting sequence, which replaces the local copy.
func (s *Store) Add(ctx context.Context, bookmark types.Bookmark) types.Bookmark {
	if bookmark.ID == "" {
		bookmark.ID = id.NewBookmarkID().String()
	}

	result, err := s.bridge.Call(ctx, types.OpAddBookmark, bookmark)
	if err != nil {
		s.log.Warn("bookmark add failed", zap.Error(err))
		return bookmark
	}
	s.applySequence(result, "add")
	return bookmark
}

// Remove deletes the bookmark with the given identity. Unknown ids are a
// silent no-op on the privileged side.
func (s *Store) Remove(ctx context.Context, bookmarkID string) {
	result, err := s.bridge.Call(ctx, types.OpRemoveBookmark,
		types.RemoveBookmarkRequest{ID: bookmarkID})
	if err != nil {
		s.log.Warn("bookmark remove failed", zap.Error(err))
		return
	}
	s.applySequence(result, "remove")
}

// All returns a copy of the current bookmark sequence.
func (s *Store) All() []types.Bookmark {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Bookmark, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) applySequence(result *types.Result, op string) {
	if !result.Success {
		s.log.Warn("bookmark "+op+" rejected", zap.String("error", result.Error))
		return
	}
	var items []types.Bookmark
	if err := result.Decode(&items); err != nil {
		s.log.Warn("bookmark "+op+" response malformed", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
}
