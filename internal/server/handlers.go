package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/halogen-browser/halogen/backend/internal/bridge"
	"github.com/halogen-browser/halogen/backend/internal/session"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"github.com/halogen-browser/halogen/backend/internal/store"
)

// registerBridgeOps binds every bridge operation to the store and the
// session controller. This table is the entire privileged-side surface.
func registerBridgeOps(d *bridge.Dispatcher, st *store.Store, ctrl *session.Controller) {
	// Window controls, fire-and-forget.
	d.HandleNotify(types.OpWindowMinimize, func(json.RawMessage) { ctrl.MinimizeWindow() })
	d.HandleNotify(types.OpWindowMaximize, func(json.RawMessage) { ctrl.ToggleMaximizeWindow() })
	d.HandleNotify(types.OpWindowClose, func(json.RawMessage) { ctrl.CloseWindow() })

	// Whole-document reads and writes.
	d.Handle(types.OpLoadTabs, loadDocument(st, store.DocTabs))
	d.Handle(types.OpSaveTabs, saveDocument(st, store.DocTabs))
	d.Handle(types.OpLoadSettings, loadDocument(st, store.DocSettings))
	d.Handle(types.OpSaveSettings, saveDocument(st, store.DocSettings))
	d.Handle(types.OpLoadTheme, loadDocument(st, store.DocTheme))
	d.Handle(types.OpSaveTheme, saveDocument(st, store.DocTheme))
	d.Handle(types.OpLoadBookmarks, loadDocument(st, store.DocBookmarks))
	d.Handle(types.OpSaveBookmarks, saveDocument(st, store.DocBookmarks))

	// Bookmark mutations; the read-modify-write happens here so the UI side
	// never has to race itself over the document.
	d.Handle(types.OpAddBookmark, addBookmark(st))
	d.Handle(types.OpRemoveBookmark, removeBookmark(st))

	// Session controls.
	d.Handle(types.OpGetPerformanceMetrics, func(ctx context.Context, _ json.RawMessage) *types.Result {
		return types.OK(ctrl.PerformanceMetrics())
	})
	d.Handle(types.OpClearBrowsingData, func(ctx context.Context, _ json.RawMessage) *types.Result {
		return types.OK(ctrl.ClearBrowsingData(ctx))
	})
	d.Handle(types.OpToggleAdBlocker, func(ctx context.Context, payload json.RawMessage) *types.Result {
		var req types.ToggleAdBlockerRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return types.Fail(fmt.Sprintf("decode toggle-adblocker payload: %v", err))
		}
		if err := ctrl.ToggleAdBlocker(ctx, req.Enabled); err != nil {
			return types.Fail(err.Error())
		}
		return types.OK(nil)
	})
}

func loadDocument(st *store.Store, name string) bridge.HandlerFunc {
	return func(ctx context.Context, _ json.RawMessage) *types.Result {
		data, err := st.Read(name)
		if err != nil {
			return types.Fail(err.Error())
		}
		return &types.Result{Success: true, Data: data}
	}
}

func saveDocument(st *store.Store, name string) bridge.HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) *types.Result {
		if err := st.Write(name, payload); err != nil {
			return types.Fail(err.Error())
		}
		return types.OK(nil)
	}
}

func addBookmark(st *store.Store) bridge.HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) *types.Result {
		var bookmark types.Bookmark
		if err := json.Unmarshal(payload, &bookmark); err != nil {
			return types.Fail(fmt.Sprintf("decode bookmark: %v", err))
		}
		if bookmark.ID == "" {
			return types.Fail("bookmark id required")
		}

		items, err := readBookmarks(st)
		if err != nil {
			return types.Fail(err.Error())
		}

		// Identity is unique: an existing id is replaced in place.
		replaced := false
		for i := range items {
			if items[i].ID == bookmark.ID {
				items[i] = bookmark
				replaced = true
				break
			}
		}
		if !replaced {
			items = append(items, bookmark)
		}

		return writeBookmarks(st, items)
	}
}

func removeBookmark(st *store.Store) bridge.HandlerFunc {
	return func(ctx context.Context, payload json.RawMessage) *types.Result {
		var req types.RemoveBookmarkRequest
		if err := json.Unmarshal(payload, &req); err != nil {
			return types.Fail(fmt.Sprintf("decode remove-bookmark payload: %v", err))
		}

		items, err := readBookmarks(st)
		if err != nil {
			return types.Fail(err.Error())
		}

		filtered := items[:0]
		for _, b := range items {
			if b.ID != req.ID {
				filtered = append(filtered, b)
			}
		}

		return writeBookmarks(st, filtered)
	}
}

func readBookmarks(st *store.Store) ([]types.Bookmark, error) {
	data, err := st.Read(store.DocBookmarks)
	if err != nil {
		return nil, err
	}
	var items []types.Bookmark
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("bookmarks document malformed: %w", err)
	}
	return items, nil
}

func writeBookmarks(st *store.Store, items []types.Bookmark) *types.Result {
	if items == nil {
		items = []types.Bookmark{}
	}
	data, err := json.Marshal(items)
	if err != nil {
		return types.Fail(err.Error())
	}
	if err := st.Write(store.DocBookmarks, data); err != nil {
		return types.Fail(err.Error())
	}
	return &types.Result{Success: true, Data: data}
}
