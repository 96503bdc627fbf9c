// Package lipgloss provides theme implementations using the Lipgloss styling library.
package lipgloss

import "github.com/fwojciec/questlog"

// Compile-time interface verification.
var _ questlog.Theme = (*Theme)(nil)

// Theme implements questlog.Theme with Lipgloss-compatible colors.
type Theme struct {
	palette questlog.Palette
}

// Palette returns the semantic color palette for this theme.
func (t *Theme) Palette() questlog.Palette {
	return t.palette
}

// DefaultTheme returns the default theme (dark background optimized).
func DefaultTheme() *Theme {
	return DarkTheme()
}

// ThemeByName returns the theme for "dark" or "light", and false for anything else.
func ThemeByName(name string) (*Theme, bool) {
	switch name {
	case "", "dark":
		return DarkTheme(), true
	case "light":
		return LightTheme(), true
	default:
		return nil, false
	}
}

// DarkTheme returns a theme optimized for dark terminal backgrounds.
func DarkTheme() *Theme {
	return &Theme{
		palette: questlog.Palette{
			// Base colors (Catppuccin Mocha)
			Background: "#1e1e2e",
			Foreground: "#cdd6f4",

			Accent:  "#cba6f7", // Mauve
			Muted:   "#6c7086",
			Error:   "#f38ba8",
			Success: "#a6e3a1",
			Surface: "#313244",
			Border:  "#45475a",

			Title: "#f9e2af", // Yellow
			Quest: "#89b4fa", // Blue
		},
	}
}

// LightTheme returns a theme optimized for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		palette: questlog.Palette{
			// Base colors (Catppuccin Latte)
			Background: "#eff1f5",
			Foreground: "#4c4f69",

			Accent:  "#8839ef",
			Muted:   "#9ca0b0",
			Error:   "#d20f39",
			Success: "#40a02b",
			Surface: "#e6e9ef",
			Border:  "#bcc0cc",

			Title: "#df8e1d",
			Quest: "#1e66f5",
		},
	}
}
