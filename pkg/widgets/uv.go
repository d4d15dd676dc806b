package widgets

import (
	"fmt"

	"gitlab.com/tinyland/lab/signpost/pkg/components"
)

// UV index scale bounds and severity thresholds (WHO scale, 0-11+).
const (
	uvScaleMax      = 11.0
	uvHighThreshold = 6.0 / uvScaleMax
	uvCritThreshold = 8.0 / uvScaleMax
	uvBarWidth      = 8
)

// UVWidget shows the current UV index with a severity bar. Outside
// daylight hours the index is pinned to zero rather than hidden, so the
// strip layout stays stable overnight.
type UVWidget struct {
	value    float64
	have     bool
	daylight bool
}

// NewUVWidget creates a UV widget showing a placeholder until the first
// reading.
func NewUVWidget() *UVWidget {
	return &UVWidget{daylight: true}
}

// ID returns the widget identifier.
func (w *UVWidget) ID() string { return "uv" }

// SetValue records a UV reading taken during daylight.
func (w *UVWidget) SetValue(v float64) {
	if v < 0 {
		v = 0
	}
	w.value = v
	w.have = true
	w.daylight = true
}

// SetNight marks the reading as outside daylight; the widget shows 0.
func (w *UVWidget) SetNight() {
	w.have = true
	w.daylight = false
}

// View renders "UV <value> <bar>", truncated to width.
func (w *UVWidget) View(width int) string {
	if !w.have {
		return components.Truncate(components.Dim("UV "+Placeholder), width)
	}

	value := w.value
	if !w.daylight {
		value = 0
	}

	style := components.DefaultGaugeStyle()
	style.WarningThreshold = uvHighThreshold
	style.CriticalThreshold = uvCritThreshold

	bar := components.RenderGauge(value, uvScaleMax, uvBarWidth, style)
	return components.Truncate(fmt.Sprintf("UV %.1f %s", value, bar), width)
}
