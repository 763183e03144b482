package types

// StartupBehavior controls what the shell opens on launch.
type StartupBehavior string

const (
	StartupNewTab  StartupBehavior = "new_tab"
	StartupRestore StartupBehavior = "restore"
	StartupPages   StartupBehavior = "pages"
)

// Settings is the single versionless settings document. The four sub-groups
// are independent: a partial update to one never disturbs the others.
type Settings struct {
	General     GeneralSettings     `json:"general"`
	Appearance  AppearanceSettings  `json:"appearance"`
	Performance PerformanceSettings `json:"performance"`
	Privacy     PrivacySettings     `json:"privacy"`
}

// GeneralSettings holds startup and search configuration.
type GeneralSettings struct {
	StartupBehavior StartupBehavior `json:"startup_behavior"`
	StartupPages    []string        `json:"startup_pages"`
	SearchEngine    string          `json:"search_engine"`
	CustomSearchURL string          `json:"custom_search_url"`
}

// AppearanceSettings holds chrome presentation preferences.
type AppearanceSettings struct {
	Animations       bool `json:"animations"`
	BorderRadius     int  `json:"border_radius"`
	ShowBookmarksBar bool `json:"show_bookmarks_bar"`
}

// PerformanceSettings holds resource ceilings and the inactive-tab policy.
type PerformanceSettings struct {
	MaxCPUPercent          int  `json:"max_cpu_percent"`
	MaxRAMMB               int  `json:"max_ram_mb"`
	AutoCloseInactiveTabs  bool `json:"auto_close_inactive_tabs"`
	InactiveTimeoutMinutes int  `json:"inactive_timeout_minutes"`
}

// PrivacySettings holds the content-filter flag.
type PrivacySettings struct {
	AdBlockerEnabled bool `json:"ad_blocker_enabled"`
}

// DefaultSettings returns the built-in settings document.
func DefaultSettings() Settings {
	return Settings{
		General: GeneralSettings{
			StartupBehavior: StartupNewTab,
			StartupPages:    []string{},
			SearchEngine:    "duckduckgo",
			CustomSearchURL: "",
		},
		Appearance: AppearanceSettings{
			Animations:       true,
			BorderRadius:     8,
			ShowBookmarksBar: true,
		},
		Performance: PerformanceSettings{
			MaxCPUPercent:          80,
			MaxRAMMB:               2048,
			AutoCloseInactiveTabs:  false,
			InactiveTimeoutMinutes: 30,
		},
		Privacy: PrivacySettings{
			AdBlockerEnabled: true,
		},
	}
}

// SettingsUpdate is a partial settings document. Merge granularity is the
// individual field inside each sub-group: nil leaves the field unchanged.
type SettingsUpdate struct {
	General     *GeneralUpdate     `json:"general,omitempty"`
	Appearance  *AppearanceUpdate  `json:"appearance,omitempty"`
	Performance *PerformanceUpdate `json:"performance,omitempty"`
	Privacy     *PrivacyUpdate     `json:"privacy,omitempty"`
}

// GeneralUpdate is a field-level partial of GeneralSettings.
type GeneralUpdate struct {
	StartupBehavior *StartupBehavior `json:"startup_behavior,omitempty"`
	StartupPages    *[]string        `json:"startup_pages,omitempty"`
	SearchEngine    *string          `json:"search_engine,omitempty"`
	CustomSearchURL *string          `json:"custom_search_url,omitempty"`
}

// AppearanceUpdate is a field-level partial of AppearanceSettings.
type AppearanceUpdate struct {
	Animations       *bool `json:"animations,omitempty"`
	BorderRadius     *int  `json:"border_radius,omitempty"`
	ShowBookmarksBar *bool `json:"show_bookmarks_bar,omitempty"`
}

// PerformanceUpdate is a field-level partial of PerformanceSettings.
type PerformanceUpdate struct {
	MaxCPUPercent          *int  `json:"max_cpu_percent,omitempty"`
	MaxRAMMB               *int  `json:"max_ram_mb,omitempty"`
	AutoCloseInactiveTabs  *bool `json:"auto_close_inactive_tabs,omitempty"`
	InactiveTimeoutMinutes *int  `json:"inactive_timeout_minutes,omitempty"`
}

// PrivacyUpdate is a field-level partial of PrivacySettings.
type PrivacyUpdate struct {
	AdBlockerEnabled *bool `json:"ad_blocker_enabled,omitempty"`
}

// Apply merges the update into the settings document, one sub-group at a
// time. The merge is deliberately spelled out per field so the semantics
// stay fixed if the document shape changes.
func (u SettingsUpdate) Apply(s *Settings) {
	if u.General != nil {
		g := u.General
		if g.StartupBehavior != nil {
			s.General.StartupBehavior = *g.StartupBehavior
		}
		if g.StartupPages != nil {
			s.General.StartupPages = *g.StartupPages
		}
		if g.SearchEngine != nil {
			s.General.SearchEngine = *g.SearchEngine
		}
		if g.CustomSearchURL != nil {
			s.General.CustomSearchURL = *g.CustomSearchURL
		}
	}
	if u.Appearance != nil {
		a := u.Appearance
		if a.Animations != nil {
			s.Appearance.Animations = *a.Animations
		}
		if a.BorderRadius != nil {
			s.Appearance.BorderRadius = *a.BorderRadius
		}
		if a.ShowBookmarksBar != nil {
			s.Appearance.ShowBookmarksBar = *a.ShowBookmarksBar
		}
	}
	if u.Performance != nil {
		p := u.Performance
		if p.MaxCPUPercent != nil {
			s.Performance.MaxCPUPercent = *p.MaxCPUPercent
		}
		if p.MaxRAMMB != nil {
			s.Performance.MaxRAMMB = *p.MaxRAMMB
		}
		if p.AutoCloseInactiveTabs != nil {
			s.Performance.AutoCloseInactiveTabs = *p.AutoCloseInactiveTabs
		}
		if p.InactiveTimeoutMinutes != nil {
			s.Performance.InactiveTimeoutMinutes = *p.InactiveTimeoutMinutes
		}
	}
	if u.Privacy != nil {
		if u.Privacy.AdBlockerEnabled != nil {
			s.Privacy.AdBlockerEnabled = *u.Privacy.AdBlockerEnabled
		}
	}
}
