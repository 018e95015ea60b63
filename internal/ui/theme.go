// Package ui provides the LumiSpec console window and its screens.
//
// This file defines a compact Fyne theme for the dense parameter tables.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme names accepted in the settings file.
const (
	ThemeSystem = "system"
	ThemeLight  = "light"
	ThemeDark   = "dark"
)

// ThemeNames lists the choices of the settings dialog.
var ThemeNames = []string{ThemeSystem, ThemeLight, ThemeDark}

// LumiSpecTheme wraps the default Fyne theme with compact sizing and an
// optional fixed light/dark variant.
type LumiSpecTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	fixed   bool
}

// NewLumiSpecTheme creates a theme for one of ThemeNames. Unknown names
// follow the system variant.
func NewLumiSpecTheme(name string) *LumiSpecTheme {
	t := &LumiSpecTheme{base: theme.DefaultTheme()}
	t.SetName(name)
	return t
}

// SetName switches between the system, light and dark variants.
func (t *LumiSpecTheme) SetName(name string) {
	switch name {
	case ThemeLight:
		t.variant, t.fixed = theme.VariantLight, true
	case ThemeDark:
		t.variant, t.fixed = theme.VariantDark, true
	default:
		t.fixed = false
	}
}

// Color delegates to the base theme, forcing the variant when one is fixed.
func (t *LumiSpecTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.fixed {
		variant = t.variant
	}
	return t.base.Color(name, variant)
}

// Font delegates to the base theme.
func (t *LumiSpecTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *LumiSpecTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *LumiSpecTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 13
	case theme.SizeNameCaptionText:
		return 10
	case theme.SizeNameHeadingText:
		return 20
	case theme.SizeNameSubHeadingText:
		return 15
	case theme.SizeNamePadding:
		return 3
	case theme.SizeNameInnerPadding:
		return 6
	case theme.SizeNameInlineIcon:
		return 16
	default:
		return t.base.Size(name)
	}
}
