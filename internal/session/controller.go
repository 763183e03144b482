// Package session holds the privileged-side window and session controls:
// window minimize/maximize/close, browsing-data clearing, performance
// sampling, and the ad-filter engine lifecycle. All owned state is passed in
// at construction; there are no package-level singletons.
package session

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"

	"github.com/halogen-browser/halogen/backend/internal/logging"
	"github.com/halogen-browser/halogen/backend/internal/shared/types"
	"go.uber.org/zap"
)

// WindowHost is the OS window collaborator. The shell only toggles and
// forwards; it never renders chrome itself.
type WindowHost interface {
	Minimize()
	SetMaximized(maximized bool)
	IsMaximized() bool
	Close()
}

// DataClearer removes browsing artifacts (cache, cookies) from the embedded
// rendering surface. Both calls are best-effort.
type DataClearer interface {
	ClearCache(ctx context.Context) error
	ClearCookies(ctx context.Context) error
}

// FilterEngine is the external content-filtering engine. The controller
// never holds a disabled-but-allocated engine: turning the filter off
// disables and discards it.
type FilterEngine interface {
	Enable(ctx context.Context) error
	Disable()
}

// FilterFactory constructs a fresh filter engine. Construction may be slow
// (rule compilation), which is why the enable path tolerates a disable
// arriving before it finishes.
type FilterFactory func() (FilterEngine, error)

// Sampler produces an instantaneous performance snapshot.
type Sampler interface {
	Sample() types.PerformanceMetrics
}

// Controller owns the privileged-side session state.
type Controller struct {
	window    WindowHost
	clearer   DataClearer
	newFilter FilterFactory
	sampler   Sampler
	log       *logging.Logger

	mu       sync.Mutex
	desired  bool // last requested ad-filter state
	enabling bool // an async enable is in flight
	engine   FilterEngine
}

// NewController creates a controller. window, clearer, and newFilter may be
// nil in hosts that lack the corresponding collaborator; the operations
// degrade to logged no-ops. A nil sampler falls back to runtime sampling.
func NewController(window WindowHost, clearer DataClearer, newFilter FilterFactory, sampler Sampler, log *logging.Logger) *Controller {
	if sampler == nil {
		sampler = newRuntimeSampler()
	}
	return &Controller{
		window:    window,
		clearer:   clearer,
		newFilter: newFilter,
		sampler:   sampler,
		log:       log,
	}
}

// Initialize applies the persisted ad-filter flag. Called once at startup;
// the enable path is asynchronous from the caller's perspective only in that
// a later ToggleAdBlocker(false) may overtake it and win.
func (c *Controller) Initialize(ctx context.Context, adBlockerEnabled bool) {
	if !adBlockerEnabled {
		return
	}
	if err := c.ToggleAdBlocker(ctx, true); err != nil {
		c.log.Warn("ad-filter startup enable failed", zap.Error(err))
	}
}

// Shutdown disables and discards the filter engine.
func (c *Controller) Shutdown() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.desired = false
	if c.engine != nil {
		c.engine.Disable()
		c.engine = nil
	}
}

// MinimizeWindow minimizes the host window.
func (c *Controller) MinimizeWindow() {
	if c.window == nil {
		c.log.Debug("window minimize ignored, no window host")
		return
	}
	c.window.Minimize()
}

// ToggleMaximizeWindow flips the host window's maximized state.
func (c *Controller) ToggleMaximizeWindow() {
	if c.window == nil {
		c.log.Debug("window maximize ignored, no window host")
		return
	}
	c.window.SetMaximized(!c.window.IsMaximized())
}

// CloseWindow closes the host window.
func (c *Controller) CloseWindow() {
	if c.window == nil {
		c.log.Debug("window close ignored, no window host")
		return
	}
	c.window.Close()
}

// ToggleAdBlocker drives the filter engine lifecycle. Enable constructs a
// fresh engine and enables it; disable disables and discards. Both are
// idempotent. A disable issued while an enable is still setting up wins: the
// enable path re-checks the desired flag after setup and tears the new
// engine down if it lost.
func (c *Controller) ToggleAdBlocker(ctx context.Context, enabled bool) error {
	c.mu.Lock()
	c.desired = enabled

	if !enabled {
		if c.engine != nil {
			c.engine.Disable()
			c.engine = nil
		}
		c.mu.Unlock()
		return nil
	}

	if c.engine != nil || c.enabling {
		c.mu.Unlock()
		return nil
	}
	if c.newFilter == nil {
		c.mu.Unlock()
		return fmt.Errorf("no filter engine available")
	}
	c.enabling = true
	c.mu.Unlock()

	// Construction and enable run outside the lock so a concurrent disable
	// is never blocked behind slow rule compilation.
	engine, err := c.newFilter()
	if err == nil {
		err = engine.Enable(ctx)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.enabling = false
	if err != nil {
		return fmt.Errorf("enable ad filter: %w", err)
	}
	if !c.desired {
		// A disable arrived while we were setting up.
		engine.Disable()
		return nil
	}
	c.engine = engine
	return nil
}

// AdBlockerActive reports whether an enabled engine is currently held.
func (c *Controller) AdBlockerActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.engine != nil
}

// ClearBrowsingData clears cache and cookies best-effort and reports the
// outcome as data rather than an error, so the UI can display it.
func (c *Controller) ClearBrowsingData(ctx context.Context) types.ClearBrowsingDataResult {
	if c.clearer == nil {
		return types.ClearBrowsingDataResult{Success: false, Error: "no data clearer available"}
	}

	var errs []string
	if err := c.clearer.ClearCache(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("cache: %v", err))
	}
	if err := c.clearer.ClearCookies(ctx); err != nil {
		errs = append(errs, fmt.Sprintf("cookies: %v", err))
	}
	if len(errs) > 0 {
		return types.ClearBrowsingDataResult{Success: false, Error: strings.Join(errs, "; ")}
	}
	return types.ClearBrowsingDataResult{Success: true}
}

// PerformanceMetrics returns an instantaneous resource snapshot.
func (c *Controller) PerformanceMetrics() types.PerformanceMetrics {
	return c.sampler.Sample()
}

// runtimeSampler samples this process through the Go runtime. Real CPU and
// child-process numbers come from the host embedding layer when it wires its
// own Sampler; this fallback only knows about itself.
type runtimeSampler struct{}

func newRuntimeSampler() runtimeSampler {
	return runtimeSampler{}
}

func (runtimeSampler) Sample() types.PerformanceMetrics {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return types.PerformanceMetrics{
		CPUPercent:   0,
		MemoryMB:     float64(mem.Alloc) / (1024 * 1024),
		ProcessCount: 1,
	}
}
