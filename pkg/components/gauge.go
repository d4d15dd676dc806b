package components

import (
	"math"
	"strings"
)

// Eighth-block characters give the bar sub-cell resolution.
var gaugeBlocks = [9]rune{' ', '▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

// GaugeStyle configures a horizontal severity bar.
type GaugeStyle struct {
	FilledColor       string  // hex color below the warning threshold
	EmptyColor        string  // hex color for the unfilled portion
	WarningThreshold  float64 // fill ratio (0-1) where the warning color takes over
	CriticalThreshold float64 // fill ratio (0-1) where the critical color takes over
	WarningColor      string
	CriticalColor     string
}

// DefaultGaugeStyle returns green/amber/red thresholds at 70% and 90%.
func DefaultGaugeStyle() GaugeStyle {
	return GaugeStyle{
		FilledColor:       "#4CAF50",
		EmptyColor:        "#333333",
		WarningThreshold:  0.7,
		CriticalThreshold: 0.9,
		WarningColor:      "#FF9800",
		CriticalColor:     "#F44336",
	}
}

// RenderGauge draws a width-cell bar filled to value/maxValue, colored by
// the style's thresholds.
func RenderGauge(value, maxValue float64, width int, style GaugeStyle) string {
	if width <= 0 {
		return ""
	}

	ratio := 0.0
	if maxValue > 0 {
		ratio = value / maxValue
	}
	ratio = math.Max(0, math.Min(1, ratio))

	fill := style.FilledColor
	if style.CriticalThreshold > 0 && ratio >= style.CriticalThreshold {
		fill = style.CriticalColor
	} else if style.WarningThreshold > 0 && ratio >= style.WarningThreshold {
		fill = style.WarningColor
	}

	units := int(math.Round(ratio * float64(width*8)))
	fullCells := units / 8
	partial := units % 8
	emptyCells := width - fullCells
	if partial > 0 {
		emptyCells--
	}
	if emptyCells < 0 {
		emptyCells = 0
	}

	var b strings.Builder
	if fullCells > 0 || partial > 0 {
		b.WriteString(Color(fill) + BgColor(style.EmptyColor))
		b.WriteString(strings.Repeat(string(gaugeBlocks[8]), fullCells))
		if partial > 0 {
			b.WriteRune(gaugeBlocks[partial])
		}
		b.WriteString(Reset())
	}
	if emptyCells > 0 {
		b.WriteString(BgColor(style.EmptyColor) + strings.Repeat(" ", emptyCells) + Reset())
	}
	return b.String()
}
