// Package id provides centralized ID generation for the backend.
//
// Identities are prefixed ULIDs (tab_*, bm_*): lexicographically sortable,
// unique across the process lifetime, and never reused after close/remove.
package id

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// TabID identifies an open tab.
type TabID string

// BookmarkID identifies a saved bookmark.
type BookmarkID string

const (
	TabPrefix      = "tab"
	BookmarkPrefix = "bm"
)

// Generator generates ULIDs with optional prefixes.
type Generator struct {
	entropy   io.Reader
	entropyMu sync.Mutex
}

var (
	defaultGenerator *Generator
	once             sync.Once
)

// Default returns the singleton generator instance.
func Default() *Generator {
	once.Do(func() {
		defaultGenerator = NewGenerator()
	})
	return defaultGenerator
}

// NewGenerator creates a new ULID generator backed by crypto/rand.
func NewGenerator() *Generator {
	return &Generator{entropy: rand.Reader}
}

// NewGeneratorWithEntropy creates a generator with a custom entropy source.
// Useful for deterministic tests.
func NewGeneratorWithEntropy(entropy io.Reader) *Generator {
	return &Generator{entropy: entropy}
}

// Generate creates a new ULID.
func (g *Generator) Generate() ulid.ULID {
	g.entropyMu.Lock()
	defer g.entropyMu.Unlock()

	return ulid.MustNew(ulid.Timestamp(time.Now()), g.entropy)
}

// GenerateWithPrefix creates a prefixed ULID string.
func (g *Generator) GenerateWithPrefix(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, g.Generate().String())
}

// NewTabID generates a new tab ID.
func NewTabID() TabID {
	return TabID(Default().GenerateWithPrefix(TabPrefix))
}

// NewBookmarkID generates a new bookmark ID.
func NewBookmarkID() BookmarkID {
	return BookmarkID(Default().GenerateWithPrefix(BookmarkPrefix))
}

func (id TabID) String() string      { return string(id) }
func (id BookmarkID) String() string { return string(id) }
