package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWindow struct {
	mu        sync.Mutex
	maximized bool
	minimized int
	closed    int
}

func (w *fakeWindow) Minimize() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.minimized++
}

func (w *fakeWindow) SetMaximized(maximized bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.maximized = maximized
}

func (w *fakeWindow) IsMaximized() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.maximized
}

func (w *fakeWindow) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed++
}

type fakeClearer struct {
	cacheErr   error
	cookiesErr error
}

func (c *fakeClearer) ClearCache(ctx context.Context) error   { return c.cacheErr }
func (c *fakeClearer) ClearCookies(ctx context.Context) error { return c.cookiesErr }

// fakeEngine optionally blocks inside Enable until released, so tests can
// interleave a disable with an in-flight enable.
type fakeEngine struct {
	mu       sync.Mutex
	enabled  bool
	disabled bool
	gate     chan struct{}
}

func (e *fakeEngine) Enable(ctx context.Context) error {
	if e.gate != nil {
		<-e.gate
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.enabled = true
	return nil
}

func (e *fakeEngine) Disable() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.disabled = true
}

func (e *fakeEngine) isDisabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.disabled
}

func newController(t *testing.T, window WindowHost, clearer DataClearer, factory FilterFactory) *Controller {
	t.Helper()
	return NewController(window, clearer, factory, nil, logging.NewNop())
}

func TestToggleMaximizeFlipsState(t *testing.T) {
	w := &fakeWindow{}
	c := newController(t, w, nil, nil)

	c.ToggleMaximizeWindow()
	assert.True(t, w.IsMaximized())

	c.ToggleMaximizeWindow()
	assert.False(t, w.IsMaximized())
}

func TestWindowOpsWithoutHostAreNoops(t *testing.T) {
	c := newController(t, nil, nil, nil)

	// Must not panic.
	c.MinimizeWindow()
	c.ToggleMaximizeWindow()
	c.CloseWindow()
}

func TestMinimizeAndClose(t *testing.T) {
	w := &fakeWindow{}
	c := newController(t, w, nil, nil)

	c.MinimizeWindow()
	c.CloseWindow()

	assert.Equal(t, 1, w.minimized)
	assert.Equal(t, 1, w.closed)
}

func TestToggleAdBlockerEnableDisable(t *testing.T) {
	var engine *fakeEngine
	factory := func() (FilterEngine, error) {
		engine = &fakeEngine{}
		return engine, nil
	}
	c := newController(t, nil, nil, factory)
	ctx := context.Background()

	require.NoError(t, c.ToggleAdBlocker(ctx, true))
	assert.True(t, c.AdBlockerActive())
	assert.True(t, engine.enabled)

	require.NoError(t, c.ToggleAdBlocker(ctx, false))
	assert.False(t, c.AdBlockerActive())
	assert.True(t, engine.isDisabled())
}

func TestToggleAdBlockerIdempotent(t *testing.T) {
	built := 0
	factory := func() (FilterEngine, error) {
		built++
		return &fakeEngine{}, nil
	}
	c := newController(t, nil, nil, factory)
	ctx := context.Background()

	require.NoError(t, c.ToggleAdBlocker(ctx, true))
	require.NoError(t, c.ToggleAdBlocker(ctx, true))
	assert.Equal(t, 1, built, "a second enable must not build another engine")

	require.NoError(t, c.ToggleAdBlocker(ctx, false))
	require.NoError(t, c.ToggleAdBlocker(ctx, false))
	assert.False(t, c.AdBlockerActive())
}

func TestDisableDuringEnableSetupWins(t *testing.T) {
	gate := make(chan struct{})
	built := make(chan *fakeEngine, 1)
	factory := func() (FilterEngine, error) {
		engine := &fakeEngine{gate: gate}
		built <- engine
		return engine, nil
	}
	c := newController(t, nil, nil, factory)
	ctx := context.Background()

	done := make(chan error, 1)
	go func() {
		done <- c.ToggleAdBlocker(ctx, true)
	}()

	// Wait for the enable to reach its blocking setup, then disable.
	var engine *fakeEngine
	select {
	case engine = <-built:
	case <-time.After(time.Second):
		t.Fatal("filter engine was never constructed")
	}
	require.NoError(t, c.ToggleAdBlocker(ctx, false))

	close(gate)
	require.NoError(t, <-done)

	assert.False(t, c.AdBlockerActive(), "disable issued during setup must win")
	assert.True(t, engine.isDisabled(), "the overtaken engine must be torn down")
}

func TestToggleAdBlockerFactoryError(t *testing.T) {
	factory := func() (FilterEngine, error) {
		return nil, errors.New("rules unavailable")
	}
	c := newController(t, nil, nil, factory)

	err := c.ToggleAdBlocker(context.Background(), true)
	require.Error(t, err)
	assert.False(t, c.AdBlockerActive())

	// The failed attempt must not wedge the enabling flag.
	err = c.ToggleAdBlocker(context.Background(), true)
	require.Error(t, err)
}

func TestToggleAdBlockerWithoutFactory(t *testing.T) {
	c := newController(t, nil, nil, nil)

	err := c.ToggleAdBlocker(context.Background(), true)
	assert.Error(t, err)
	assert.False(t, c.AdBlockerActive())

	// Disabling without a factory is still fine.
	assert.NoError(t, c.ToggleAdBlocker(context.Background(), false))
}

func TestInitializeAppliesPersistedFlag(t *testing.T) {
	built := 0
	factory := func() (FilterEngine, error) {
		built++
		return &fakeEngine{}, nil
	}

	c := newController(t, nil, nil, factory)
	c.Initialize(context.Background(), false)
	assert.Equal(t, 0, built)
	assert.False(t, c.AdBlockerActive())

	c.Initialize(context.Background(), true)
	assert.Equal(t, 1, built)
	assert.True(t, c.AdBlockerActive())
}

func TestShutdownDiscardsEngine(t *testing.T) {
	var engine *fakeEngine
	factory := func() (FilterEngine, error) {
		engine = &fakeEngine{}
		return engine, nil
	}
	c := newController(t, nil, nil, factory)
	require.NoError(t, c.ToggleAdBlocker(context.Background(), true))

	c.Shutdown()

	assert.False(t, c.AdBlockerActive())
	assert.True(t, engine.isDisabled())
}

func TestClearBrowsingData(t *testing.T) {
	c := newController(t, nil, &fakeClearer{}, nil)

	res := c.ClearBrowsingData(context.Background())
	assert.True(t, res.Success)
	assert.Empty(t, res.Error)
}

func TestClearBrowsingDataCollectsErrors(t *testing.T) {
	clearer := &fakeClearer{
		cacheErr:   errors.New("cache locked"),
		cookiesErr: errors.New("jar sealed"),
	}
	c := newController(t, nil, clearer, nil)

	res := c.ClearBrowsingData(context.Background())
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "cache locked")
	assert.Contains(t, res.Error, "jar sealed")
}

func TestClearBrowsingDataWithoutClearer(t *testing.T) {
	c := newController(t, nil, nil, nil)

	res := c.ClearBrowsingData(context.Background())
	assert.False(t, res.Success)
	assert.NotEmpty(t, res.Error)
}

func TestPerformanceMetricsFallbackSampler(t *testing.T) {
	c := newController(t, nil, nil, nil)

	m := c.PerformanceMetrics()
	assert.GreaterOrEqual(t, m.MemoryMB, 0.0)
	assert.Equal(t, 1, m.ProcessCount)
}
