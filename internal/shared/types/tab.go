package types

// Tab is the metadata for one open browsing context. The rendering surface
// that actually displays the page lives outside this process; navigation
// progress arrives as TabUpdate partials.
type Tab struct {
	ID           string `json:"id"`
	URL          string `json:"url"`
	Title        string `json:"title"`
	Favicon      string `json:"favicon"`
	IsLoading    bool   `json:"is_loading"`
	CanGoBack    bool   `json:"can_go_back"`
	CanGoForward bool   `json:"can_go_forward"`
}

// TabUpdate is a field-level partial update for a Tab. Nil fields are left
// unchanged.
type TabUpdate struct {
	URL          *string `json:"url,omitempty"`
	Title        *string `json:"title,omitempty"`
	Favicon      *string `json:"favicon,omitempty"`
	IsLoading    *bool   `json:"is_loading,omitempty"`
	CanGoBack    *bool   `json:"can_go_back,omitempty"`
	CanGoForward *bool   `json:"can_go_forward,omitempty"`
}

// Apply merges the update into the tab.
func (u TabUpdate) Apply(t *Tab) {
	if u.URL != nil {
		t.URL = *u.URL
	}
	if u.Title != nil {
		t.Title = *u.Title
	}
	if u.Favicon != nil {
		t.Favicon = *u.Favicon
	}
	if u.IsLoading != nil {
		t.IsLoading = *u.IsLoading
	}
	if u.CanGoBack != nil {
		t.CanGoBack = *u.CanGoBack
	}
	if u.CanGoForward != nil {
		t.CanGoForward = *u.CanGoForward
	}
}

// TabsDocument is the persisted form of the tab session: the ordered open
// tabs plus the active tab identity.
type TabsDocument struct {
	Tabs     []Tab  `json:"tabs"`
	ActiveID string `json:"active_id,omitempty"`
}
