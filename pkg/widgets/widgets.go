// Package widgets provides the overlay widgets drawn on top of the kiosk
// display: moon phase, current weather, UV index, and the fact-browser
// modal. Strip widgets render a single line; modals render a boxed panel.
package widgets

// Common color constants for widget styling.
const (
	// ColorAccent is used for titles and highlights.
	ColorAccent = "#A78BFA"

	// ColorDim is used for de-emphasized text such as placeholders.
	ColorDim = "#9CA3AF"

	// ColorError is used for error message text.
	ColorError = "#EF4444"

	// ColorBorder is the muted gray used for modal borders.
	ColorBorder = "#6B7280"
)

// Widget is one entry in the overlay strip.
type Widget interface {
	// ID returns the widget's stable identifier.
	ID() string

	// View renders the widget into at most width cells on one line. An
	// empty string hides the widget entirely.
	View(width int) string
}

// Placeholder shown while a widget has no data yet.
const Placeholder = "--"
