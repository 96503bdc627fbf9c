package questlog

// Palette defines the semantic colors of the story panel.
// Colors are "#RRGGBB" hex strings or ANSI color numbers. Empty strings mean terminal default.
type Palette struct {
	Background string
	Foreground string

	Accent  string // Call-to-action, progress bar, spinner
	Muted   string // Hints, disabled controls, help text
	Error   string // Error banner
	Success string // Transient status messages
	Surface string // Header and status bar background
	Border  string // Panel and story borders

	Title string // Story title
	Quest string // Quest names
}

// Theme provides the palette for rendering the panel.
// Different implementations can provide light/dark variants.
type Theme interface {
	Palette() Palette
}
