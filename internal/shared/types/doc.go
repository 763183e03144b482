// Package types defines the document and message shapes shared across the
// privilege boundary: tabs, bookmarks, settings, theme, and the bridge
// message envelope. Both processes marshal these as JSON, so every change
// here is a wire-format change.
package types
