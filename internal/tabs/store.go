// Package tabs is the UI-side model of the open-tab session: the ordered tab
// sequence, the active-tab identity, and the mutation operations the shell
// chrome calls. The store owns the in-memory copy for the current session
// and pushes the whole document through the bridge after every mutation.
package tabs

import (
	"context"
	"sync"

	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/id"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

const defaultTitle = "New Tab"

// Bridge is the slice of the control bridge this store needs.
type Bridge interface {
	Call(ctx context.Context, op string, payload interface{}) (*types.Result, error)
}

// Store is the tab state machine. Mutations are serialized internally; the
// shell chrome is the only caller, so contention is nil in practice.
type Store struct {
	bridge    Bridge
	log       *logging.Logger
	newTabURL string

	mu       sync.Mutex
	tabs     []types.Tab
	activeID string
}

// NewStore creates an uninitialized tab store. newTabURL is the page a tab
// opened without an explicit URL points at.
func NewStore(bridge Bridge, newTabURL string, log *logging.Logger) *Store {
	return &Store{
		bridge:    bridge,
		log:       log,
		newTabURL: newTabURL,
	}
}

// Init loads the persisted tab session. An empty or unreadable document
// falls back to a single fresh default tab; from this point on the sequence
// is never empty.
func (s *Store) Init(ctx context.Context) {
	doc := s.loadPersisted(ctx)

	s.mu.Lock()
	s.tabs = doc.Tabs
	s.activeID = doc.ActiveID
	if len(s.tabs) == 0 {
		tab := s.newTab("")
		s.tabs = []types.Tab{tab}
		s.activeID = tab.ID
	} else if !s.hasTabLocked(s.activeID) {
		s.activeID = s.tabs[0].ID
	}
	s.mu.Unlock()

	s.persist(ctx)
}

// OpenTab creates a tab, appends it, and makes it active. An empty url opens
// the configured new-tab page. Always succeeds.
func (s *Store) OpenTab(ctx context.Context, url string) types.Tab {
	s.mu.Lock()
	tab := s.newTab(url)
	s.tabs = append(s.tabs, tab)
	s.activeID = tab.ID
	s.mu.Unlock()

	s.persist(ctx)
	return tab
}

// CloseTab removes the tab with the given id. Unknown ids are a silent
// no-op. If the closed tab was active, the replacement is the tab now at the
// closed tab's former index, else the one before it, else the first. Closing
// the last tab synthesizes a fresh default tab so the sequence never ends up
// empty.
func (s *Store) CloseTab(ctx context.Context, tabID string) {
	s.mu.Lock()
	idx := s.indexOfLocked(tabID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}

	wasActive := s.activeID == tabID
	s.tabs = append(s.tabs[:idx], s.tabs[idx+1:]...)

	if len(s.tabs) == 0 {
		tab := s.newTab("")
		s.tabs = []types.Tab{tab}
		s.activeID = tab.ID
	} else if wasActive {
		switch {
		case idx < len(s.tabs):
			s.activeID = s.tabs[idx].ID
		case idx-1 >= 0 && idx-1 < len(s.tabs):
			s.activeID = s.tabs[idx-1].ID
		default:
			s.activeID = s.tabs[0].ID
		}
	}
	s.mu.Unlock()

	s.persist(ctx)
}

// SetActiveTab sets the active-tab identity unconditionally. Callers are
// trusted to pass an id present in the sequence; there is deliberately no
// existence check.
func (s *Store) SetActiveTab(ctx context.Context, tabID string) {
	s.mu.Lock()
	s.activeID = tabID
	s.mu.Unlock()

	s.persist(ctx)
}

// UpdateTab merges the partial update into the matching tab. Unknown ids are
// a silent no-op. Navigation-progress callbacks from the rendering surface
// land here.
func (s *Store) UpdateTab(ctx context.Context, tabID string, update types.TabUpdate) {
	s.mu.Lock()
	idx := s.indexOfLocked(tabID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	update.Apply(&s.tabs[idx])
	s.mu.Unlock()

	s.persist(ctx)
}

// DuplicateTab opens a new tab at the same URL as the given tab. Unknown ids
// are a silent no-op.
func (s *Store) DuplicateTab(ctx context.Context, tabID string) {
	s.mu.Lock()
	idx := s.indexOfLocked(tabID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	url := s.tabs[idx].URL
	s.mu.Unlock()

	s.OpenTab(ctx, url)
}

// ReorderTabs moves the tab at fromIndex to toIndex, preserving the relative
// order of everything else. Index validity is the caller's responsibility.
func (s *Store) ReorderTabs(ctx context.Context, fromIndex, toIndex int) {
	s.mu.Lock()
	tab := s.tabs[fromIndex]
	s.tabs = append(s.tabs[:fromIndex], s.tabs[fromIndex+1:]...)
	s.tabs = append(s.tabs[:toIndex], append([]types.Tab{tab}, s.tabs[toIndex:]...)...)
	s.mu.Unlock()

	s.persist(ctx)
}

// GetActiveTab returns the tab matching the active identity, or false when
// the identity references nothing.
func (s *Store) GetActiveTab() (types.Tab, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOfLocked(s.activeID)
	if idx < 0 {
		return types.Tab{}, false
	}
	return s.tabs[idx], true
}

// Tabs returns a copy of the ordered tab sequence.
func (s *Store) Tabs() []types.Tab {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]types.Tab, len(s.tabs))
	copy(out, s.tabs)
	return out
}

// ActiveID returns the current active-tab identity.
func (s *Store) ActiveID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.activeID
}

func (s *Store) newTab(url string) types.Tab {
	if url == "" {
		url = s.newTabURL
	}
	return types.Tab{
		ID:        id.NewTabID().String(),
		URL:       url,
		Title:     defaultTitle,
		IsLoading: true,
	}
}

func (s *Store) indexOfLocked(tabID string) int {
	for i := range s.tabs {
		if s.tabs[i].ID == tabID {
			return i
		}
	}
	return -1
}

func (s *Store) hasTabLocked(tabID string) bool {
	return s.indexOfLocked(tabID) >= 0
}

func (s *Store) loadPersisted(ctx context.Context) types.TabsDocument {
	result, err := s.bridge.Call(ctx, types.OpLoadTabs, nil)
	if err != nil {
		s.log.Warn("tab session load failed, starting fresh", zap.Error(err))
		return types.TabsDocument{}
	}
	if !result.Success {
		s.log.Warn("tab session load rejected, starting fresh",
			zap.String("error", result.Error))
		return types.TabsDocument{}
	}

	var doc types.TabsDocument
	if err := result.Decode(&doc); err != nil {
		s.log.Warn("tab session document malformed, starting fresh", zap.Error(err))
		return types.TabsDocument{}
	}
	return doc
}

// persist pushes the whole tab document through the bridge. Failures are
// logged and dropped; the next mutation writes the full state again anyway.
func (s *Store) persist(ctx context.Context) {
	s.mu.Lock()
	doc := types.TabsDocument{
		Tabs:     make([]types.Tab, len(s.tabs)),
		ActiveID: s.activeID,
	}
	copy(doc.Tabs, s.tabs)
	s.mu.Unlock()

	result, err := s.bridge.Call(ctx, types.OpSaveTabs, doc)
	if err != nil {
		s.log.Warn("tab session save failed", zap.Error(err))
		return
	}
	if !result.Success {
		s.log.Warn("tab session save rejected", zap.String("error", result.Error))
	}
}
