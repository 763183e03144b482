package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsUpdateMergesSingleField(t *testing.T) {
	s := DefaultSettings()
	prior := s

	radius := 4
	SettingsUpdate{Appearance: &AppearanceUpdate{BorderRadius: &radius}}.Apply(&s)

	assert.Equal(t, 4, s.Appearance.BorderRadius)
	assert.Equal(t, prior.Appearance.Animations, s.Appearance.Animations)
	assert.Equal(t, prior.Appearance.ShowBookmarksBar, s.Appearance.ShowBookmarksBar)
	assert.Equal(t, prior.General, s.General)
	assert.Equal(t, prior.Performance, s.Performance)
	assert.Equal(t, prior.Privacy, s.Privacy)
}

func TestSettingsUpdateMergesAcrossGroups(t *testing.T) {
	s := DefaultSettings()

	engine := "custom"
	enabled := false
	SettingsUpdate{
		General: &GeneralUpdate{SearchEngine: &engine},
		Privacy: &PrivacyUpdate{AdBlockerEnabled: &enabled},
	}.Apply(&s)

	assert.Equal(t, "custom", s.General.SearchEngine)
	assert.False(t, s.Privacy.AdBlockerEnabled)
	assert.Equal(t, DefaultSettings().General.StartupBehavior, s.General.StartupBehavior)
}

func TestSettingsUpdateNilGroupsAreNoops(t *testing.T) {
	s := DefaultSettings()
	prior := s

	SettingsUpdate{}.Apply(&s)

	assert.Equal(t, prior, s)
}

func TestSettingsDecodeBackfillsMissingGroups(t *testing.T) {
	// A document written by an older shell may lack whole sub-groups; the
	// decoder starts from the default so those keep their default values.
	raw := []byte(`{"appearance":{"animations":false,"border_radius":2,"show_bookmarks_bar":false}}`)

	s := DefaultSettings()
	require.NoError(t, json.Unmarshal(raw, &s))

	assert.False(t, s.Appearance.Animations)
	assert.Equal(t, 2, s.Appearance.BorderRadius)
	assert.Equal(t, DefaultSettings().Performance, s.Performance)
	assert.Equal(t, DefaultSettings().Privacy, s.Privacy)
}

func TestTabUpdateMergesFields(t *testing.T) {
	tab := Tab{ID: "tab_1", URL: "https://old.example", Title: "Old", IsLoading: true}

	title := "Example"
	loading := false
	back := true
	TabUpdate{Title: &title, IsLoading: &loading, CanGoBack: &back}.Apply(&tab)

	assert.Equal(t, "Example", tab.Title)
	assert.False(t, tab.IsLoading)
	assert.True(t, tab.CanGoBack)
	assert.Equal(t, "https://old.example", tab.URL)
	assert.False(t, tab.CanGoForward)
}

func TestThemeUpdateMergesTopLevelFields(t *testing.T) {
	th := DefaultTheme()

	font := "JetBrains Mono, monospace"
	ThemeUpdate{FontFamily: &font}.Apply(&th)

	assert.Equal(t, font, th.FontFamily)
	assert.Equal(t, DefaultTheme().Colors, th.Colors)
	assert.Equal(t, DefaultTheme().BlurEffects, th.BlurEffects)
}

func TestResultRoundTrip(t *testing.T) {
	res := OK(PerformanceMetrics{CPUPercent: 1.5, MemoryMB: 42, ProcessCount: 3})
	require.True(t, res.Success)

	var out PerformanceMetrics
	require.NoError(t, res.Decode(&out))
	assert.Equal(t, 1.5, out.CPUPercent)
	assert.Equal(t, 3, out.ProcessCount)
}

func TestFailCarriesMessage(t *testing.T) {
	res := Fail("boom")
	assert.False(t, res.Success)
	assert.Equal(t, "boom", res.Error)
}
