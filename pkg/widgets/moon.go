package widgets

import (
	"gitlab.com/tinyland/lab/signpost/pkg/astro"
	"gitlab.com/tinyland/lab/signpost/pkg/components"
)

// MoonWidget shows the current lunar phase as an emoji plus name.
type MoonWidget struct {
	phase *astro.MoonPhase
}

// NewMoonWidget creates an empty moon widget; it shows a placeholder
// until the first refresh.
func NewMoonWidget() *MoonWidget {
	return &MoonWidget{}
}

// ID returns the widget identifier.
func (w *MoonWidget) ID() string { return "moon" }

// SetPhase updates the displayed phase.
func (w *MoonWidget) SetPhase(p astro.MoonPhase) {
	w.phase = &p
}

// View renders "<emoji> <name>", truncated to width.
func (w *MoonWidget) View(width int) string {
	if w.phase == nil {
		return components.Truncate(components.Dim("🌑 "+Placeholder), width)
	}
	return components.Truncate(w.phase.Emoji+" "+w.phase.Phase, width)
}
