// Package components provides ANSI-aware text and box primitives shared by
// the kiosk's overlay widgets and modal surfaces.
package components

// Align controls horizontal text alignment within a box title bar.
type Align int

const (
	// AlignLeft aligns the title to the left edge (default).
	AlignLeft Align = iota
	// AlignCenter centers the title.
	AlignCenter
	// AlignRight aligns the title to the right edge.
	AlignRight
)
