package settings

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
	mu         sync.Mutex
	doc        json.RawMessage
	saves      int
	loadErr    error
	toggleFail string
	toggleErr  error
	clearRes   *types.ClearBrowsingDataResult
}

func (f *fakeBridge) Call(ctx context.Context, op string, payload interface{}) (*types.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch op {
	case types.OpLoadSettings:
		if f.loadErr != nil {
			return nil, f.loadErr
		}
		if f.doc == nil {
			data, _ := json.Marshal(types.DefaultSettings())
			return &types.Result{Success: true, Data: data}, nil
		}
		return &types.Result{Success: true, Data: f.doc}, nil
	case types.OpSaveSettings:
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		f.doc = data
		f.saves++
		return types.OK(nil), nil
	case types.OpToggleAdBlocker:
		if f.toggleErr != nil {
			return nil, f.toggleErr
		}
		if f.toggleFail != "" {
			return types.Fail(f.toggleFail), nil
		}
		return types.OK(nil), nil
	case types.OpClearBrowsingData:
		if f.clearRes != nil {
			return types.OK(f.clearRes), nil
		}
		return types.OK(types.ClearBrowsingDataResult{Success: true}), nil
	}
	return types.Fail("unknown operation: " + op), nil
}

func (f *fakeBridge) saved(t *testing.T) types.Settings {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	var s types.Settings
	require.NoError(t, json.Unmarshal(f.doc, &s))
	return s
}

func TestUpdateMergesAndPersists(t *testing.T) {
	b := &fakeBridge{}
	s := NewStore(b, logging.NewNop())
	ctx := context.Background()

	radius := 4
	s.Update(ctx, types.SettingsUpdate{
		Appearance: &types.AppearanceUpdate{BorderRadius: &radius},
	})

	got := s.Current()
	assert.Equal(t, 4, got.Appearance.BorderRadius)
	assert.Equal(t, types.DefaultSettings().General, got.General)

	assert.Equal(t, 4, b.saved(t).Appearance.BorderRadius)
}

func TestResetRestoresDefaults(t *testing.T) {
	b := &fakeBridge{}
	s := NewStore(b, logging.NewNop())
	ctx := context.Background()

	engine := "custom"
	s.Update(ctx, types.SettingsUpdate{General: &types.GeneralUpdate{SearchEngine: &engine}})
	require.Equal(t, "custom", s.Current().General.SearchEngine)

	s.Reset(ctx)

	assert.Equal(t, types.DefaultSettings(), s.Current())
	assert.Equal(t, types.DefaultSettings(), b.saved(t))
}

func TestInitLoadsPersistedDocument(t *testing.T) {
	persisted := types.DefaultSettings()
	persisted.General.SearchEngine = "custom"
	data, _ := json.Marshal(persisted)
	b := &fakeBridge{doc: data}

	s := NewStore(b, logging.NewNop())
	s.Init(context.Background())

	assert.Equal(t, "custom", s.Current().General.SearchEngine)
}

func TestInitLoadFailureKeepsDefaults(t *testing.T) {
	b := &fakeBridge{loadErr: errors.New("bridge down")}
	s := NewStore(b, logging.NewNop())

	s.Init(context.Background())

	assert.Equal(t, types.DefaultSettings(), s.Current())
}

func TestInitBackfillsMissingGroups(t *testing.T) {
	b := &fakeBridge{doc: []byte(`{"privacy":{"ad_blocker_enabled":false}}`)}
	s := NewStore(b, logging.NewNop())

	s.Init(context.Background())

	got := s.Current()
	assert.False(t, got.Privacy.AdBlockerEnabled)
	assert.Equal(t, types.DefaultSettings().Appearance, got.Appearance)
	assert.Equal(t, types.DefaultSettings().Performance, got.Performance)
}

func TestToggleAdBlockerUpdatesPrivacyAndPersists(t *testing.T) {
	b := &fakeBridge{}
	s := NewStore(b, logging.NewNop())
	ctx := context.Background()

	require.NoError(t, s.ToggleAdBlocker(ctx, false))
	assert.False(t, s.Current().Privacy.AdBlockerEnabled)
	assert.False(t, b.saved(t).Privacy.AdBlockerEnabled)

	require.NoError(t, s.ToggleAdBlocker(ctx, true))
	assert.True(t, s.Current().Privacy.AdBlockerEnabled)
}

func TestToggleAdBlockerRejectionLeavesStateAlone(t *testing.T) {
	b := &fakeBridge{toggleFail: "rules unavailable"}
	s := NewStore(b, logging.NewNop())
	before := s.Current().Privacy.AdBlockerEnabled

	err := s.ToggleAdBlocker(context.Background(), !before)

	assert.NoError(t, err, "a rejected toggle is reported, not returned")
	assert.Equal(t, before, s.Current().Privacy.AdBlockerEnabled)
	assert.Zero(t, b.saves)
}

func TestToggleAdBlockerTransportError(t *testing.T) {
	b := &fakeBridge{toggleErr: errors.New("connection reset")}
	s := NewStore(b, logging.NewNop())

	err := s.ToggleAdBlocker(context.Background(), true)

	assert.Error(t, err)
	assert.Equal(t, types.DefaultSettings().Privacy, s.Current().Privacy)
}

func TestClearBrowsingDataReturnsOutcome(t *testing.T) {
	b := &fakeBridge{}
	s := NewStore(b, logging.NewNop())

	res := s.ClearBrowsingData(context.Background())
	assert.True(t, res.Success)
}

func TestClearBrowsingDataSurfacesFailure(t *testing.T) {
	b := &fakeBridge{clearRes: &types.ClearBrowsingDataResult{
		Success: false, Error: "cache locked",
	}}
	s := NewStore(b, logging.NewNop())

	res := s.ClearBrowsingData(context.Background())
	assert.False(t, res.Success)
	assert.Equal(t, "cache locked", res.Error)
}

func TestClearBrowsingDataTransportError(t *testing.T) {
	s := NewStore(&errBridge{}, logging.NewNop())

	res := s.ClearBrowsingData(context.Background())
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

type errBridge struct{}

func (errBridge) Call(ctx context.Context, op string, payload interface{}) (*types.Result, error) {
	return nil, errors.New("bridge down")
}
