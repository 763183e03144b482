package theme

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBridge struct {
	mu      sync.Mutex
	doc     json.RawMessage
	saves   int
	loadErr error
}

func (f *fakeBridge) Call(ctx context.Context, op string, payload interface{}) (*types.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch op {
	case types.OpLoadTheme:
		if f.loadErr != nil {
			return nil, f.loadErr
		}
		if f.doc == nil {
			data, _ := json.Marshal(types.DefaultTheme())
			return &types.Result{Success: true, Data: data}, nil
		}
		return &types.Result{Success: true, Data: f.doc}, nil
	case types.OpSaveTheme:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		f.doc = data
		f.saves++
		return types.OK(nil), nil
	}
	return types.Fail("unknown operation: " + op), nil
}

func (f *fakeBridge) saved(t *testing.T) types.Theme {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var th types.Theme
	require.NoError(t, json.Unmarshal(f.doc, &th))
	return th
}

func TestUpdateMergesAndPersists(t *testing.T) {
	b := &fakeBridge{}
	s := NewStore(b, logging.NewNop())
	ctx := context.Background()

	font := "Fira Sans, sans-serif"
	s.Update(ctx, types.ThemeUpdate{FontFamily: &font})

	got := s.Current()
	assert.Equal(t, font, got.FontFamily)
	assert.Equal(t, types.DefaultTheme().Colors, got.Colors)
	assert.Equal(t, font, b.saved(t).FontFamily)
}

func TestInitBackfillsMissingFields(t *testing.T) {
	b := &fakeBridge{doc: []byte(`{"font_family":"Custom Sans"}`)}
	s := NewStore(b, logging.NewNop())

	s.Init(context.Background())

	got := s.Current()
	assert.Equal(t, "Custom Sans", got.FontFamily)
	assert.Equal(t, types.DefaultTheme().Colors, got.Colors)
	assert.Equal(t, types.DefaultTheme().BlurEffects, got.BlurEffects)
}

func TestInitLoadFailureKeepsDefault(t *testing.T) {
	b := &fakeBridge{loadErr: errors.New("bridge down")}
	s := NewStore(b, logging.NewNop())

	s.Init(context.Background())

	assert.Equal(t, types.DefaultTheme(), s.Current())
}

func TestExportImportRoundTrip(t *testing.T) {
	b := &fakeBridge{}
	src := NewStore(b, logging.NewNop())
	ctx := context.Background()

	font := "Exported Mono"
	src.Update(ctx, types.ThemeUpdate{FontFamily: &font})
	text := src.Export()
	require.NotEmpty(t, text)

	dst := NewStore(&fakeBridge{}, logging.NewNop())
	dst.Import(ctx, text)

	assert.Equal(t, src.Current(), dst.Current())
}

func TestImportMalformedIsDiscarded(t *testing.T) {
	b := &fakeBridge{}
	s := NewStore(b, logging.NewNop())
	before := s.Current()

	s.Import(context.Background(), "{not a theme")

	assert.Equal(t, before, s.Current())
	assert.Zero(t, b.saves, "discarded import must not persist")
}

func TestImportRebuildsFromDefaultNotCurrent(t *testing.T) {
	b := &fakeBridge{}
	s := NewStore(b, logging.NewNop())
	ctx := context.Background()

	// Customize the current state, then import a document that omits the
	// customized field. The result must carry the default, not the custom
	// value: import never merges onto the in-memory theme.
	font := "Custom Mono"
	s.Update(ctx, types.ThemeUpdate{FontFamily: &font})

	s.Import(ctx, `{"blur_effects":false}`)

	got := s.Current()
	assert.False(t, got.BlurEffects)
	assert.Equal(t, types.DefaultTheme().FontFamily, got.FontFamily)
}

func TestImportPersists(t *testing.T) {
	b := &fakeBridge{}
	s := NewStore(b, logging.NewNop())

	s.Import(context.Background(), `{"font_family":"Imported Sans"}`)

	assert.Equal(t, "Imported Sans", b.saved(t).FontFamily)
}
