// Package ui provides the CalcBuild desktop editor.
//
// This file defines a compact Fyne theme for a dense data-entry layout.

package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// CalcBuildTheme wraps the default Fyne theme with compact sizing overrides
// so the room table fits many rows.
type CalcBuildTheme struct {
	base    fyne.Theme
	variant fyne.ThemeVariant
	follow  bool
}

// NewCalcBuildTheme creates a theme for the configured name: "light",
// "dark" or "system".
func NewCalcBuildTheme(name string) *CalcBuildTheme {
	t := &CalcBuildTheme{base: theme.DefaultTheme()}
	t.SetThemeName(name)
	return t
}

// VariantFor maps a configured theme name to a variant. ok is false for
// "system" and unknown names, which follow the variant requested by the OS.
func VariantFor(name string) (variant fyne.ThemeVariant, ok bool) {
	switch name {
	case "light":
		return theme.VariantLight, true
	case "dark":
		return theme.VariantDark, true
	default:
		return 0, false
	}
}

// SetThemeName switches to the variant named by a config theme value.
func (t *CalcBuildTheme) SetThemeName(name string) {
	variant, ok := VariantFor(name)
	t.variant = variant
	t.follow = !ok
}

// Color delegates to the base theme with the stored variant.
func (t *CalcBuildTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	if t.follow {
		return t.base.Color(name, variant)
	}
	return t.base.Color(name, t.variant)
}

// Font delegates to the base theme.
func (t *CalcBuildTheme) Font(style fyne.TextStyle) fyne.Resource {
	return t.base.Font(style)
}

// Icon delegates to the base theme.
func (t *CalcBuildTheme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return t.base.Icon(name)
}

// Size returns compact sizing overrides.
func (t *CalcBuildTheme) Size(name fyne.ThemeSizeName) float32 {
	switch name {
	case theme.SizeNameText:
		return 12
	case theme.SizeNameCaptionText:
		return 9
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
