package types

import "encoding/json"

// MessageKind distinguishes the two bridge message styles plus the response
// leg of a request.
type MessageKind string

const (
	KindRequest  MessageKind = "request"
	KindResponse MessageKind = "response"
	KindNotify   MessageKind = "notify"
)

// Bridge operation names. This set is the whole contract between the UI
// process and the privileged process; there is no other path to disk or to
// OS window controls.
const (
	// Fire-and-forget window controls.
	OpWindowMinimize = "window-minimize"
	OpWindowMaximize = "window-maximize"
	OpWindowClose    = "window-close"

	// Request/response document operations.
	OpSaveTabs       = "save-tabs"
	OpLoadTabs       = "load-tabs"
	OpSaveBookmarks  = "save-bookmarks"
	OpLoadBookmarks  = "load-bookmarks"
	OpAddBookmark    = "add-bookmark"
	OpRemoveBookmark = "remove-bookmark"
	OpSaveSettings   = "save-settings"
	OpLoadSettings   = "load-settings"
	OpSaveTheme      = "save-theme"
	OpLoadTheme      = "load-theme"

	// Request/response session controls.
	OpGetPerformanceMetrics = "get-performance-metrics"
	OpClearBrowsingData     = "clear-browsing-data"
	OpToggleAdBlocker       = "toggle-adblocker"
)

// Message is the bridge wire envelope. Requests carry a correlation ID that
// the matching response echoes; notifications carry neither ID nor result.
type Message struct {
	Kind    MessageKind     `json:"kind"`
	ID      string          `json:"id,omitempty"`
	Op      string          `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
	Result  *Result         `json:"result,omitempty"`
}

// Result is the structured outcome of a request/response operation. Failures
// cross the bridge as data, not as transport errors, so the UI side can
// surface them.
type Result struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// OK builds a successful result carrying v as JSON. Marshal failures come
// back as a failed result rather than an error; the payload types here are
// all plain data structs.
func OK(v interface{}) *Result {
	if v == nil {
		return &Result{Success: true}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Fail("encode result: " + err.Error())
	}
	return &Result{Success: true, Data: data}
}

// Fail builds a failed result with the given message.
func Fail(msg string) *Result {
	return &Result{Success: false, Error: msg}
}

// Decode unmarshals the result data into out.
func (r *Result) Decode(out interface{}) error {
	return json.Unmarshal(r.Data, out)
}

// ToggleAdBlockerRequest is the payload for OpToggleAdBlocker.
type ToggleAdBlockerRequest struct {
	Enabled bool `json:"enabled"`
}

// RemoveBookmarkRequest is the payload for OpRemoveBookmark.
type RemoveBookmarkRequest struct {
	ID string `json:"id"`
}

// ClearBrowsingDataResult is the payload of a clear-browsing-data response.
type ClearBrowsingDataResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// PerformanceMetrics is an instantaneous resource snapshot. No averaging or
// windowing; callers sample again if they want a series.
type PerformanceMetrics struct {
	CPUPercent   float64 `json:"cpu"`
	MemoryMB     float64 `json:"memoryMB"`
	ProcessCount int     `json:"processCount"`
}
