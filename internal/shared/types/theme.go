package types

// ThemeColors is the named palette.
type ThemeColors struct {
	Primary       string `json:"primary"`
	Secondary     string `json:"secondary"`
	Accent        string `json:"accent"`
	Background    string `json:"background"`
	Surface       string `json:"surface"`
	Text          string `json:"text"`
	TextSecondary string `json:"text_secondary"`
}

// Theme is the single flat theme document.
type Theme struct {
	Colors      ThemeColors `json:"colors"`
	FontFamily  string      `json:"font_family"`
	BlurEffects bool        `json:"blur_effects"`
}

// DefaultTheme returns the built-in theme document.
func DefaultTheme() Theme {
	return Theme{
		Colors: ThemeColors{
			Primary:       "#3b82f6",
			Secondary:     "#8b5cf6",
			Accent:        "#10b981",
			Background:    "#1a1a1a",
			Surface:       "#252525",
			Text:          "#ffffff",
			TextSecondary: "#a0a0a0",
		},
		FontFamily:  "Inter, system-ui, sans-serif",
		BlurEffects: true,
	}
}

// ThemeUpdate is a top-level-field partial of Theme. Colors are replaced as
// one unit when present; the palette is not merged color-by-color.
type ThemeUpdate struct {
	Colors      *ThemeColors `json:"colors,omitempty"`
	FontFamily  *string      `json:"font_family,omitempty"`
	BlurEffects *bool        `json:"blur_effects,omitempty"`
}

// Apply merges the update into the theme document.
func (u ThemeUpdate) Apply(t *Theme) {
	if u.Colors != nil {
		t.Colors = *u.Colors
	}
	if u.FontFamily != nil {
		t.FontFamily = *u.FontFamily
	}
	if u.BlurEffects != nil {
		t.BlurEffects = *u.BlurEffects
	}
}
