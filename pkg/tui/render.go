package tui

import (
	"fmt"
	"strings"

	"gitlab.com/tinyland/lab/signpost/pkg/components"
	"gitlab.com/tinyland/lab/signpost/pkg/coordinator"
)

// Click-zone identifiers for the navigation chrome.
const (
	zonePrev = "nav-prev"
	zoneNext = "nav-next"
)

// View composites the mounted surface, the chrome, the widget strip, and
// any open modal into the final frame.
func (m *Model) View() string {
	if m.quitting || m.width <= 0 || m.height <= 0 {
		return ""
	}

	s, bounds, kind := m.coord.Mounted()

	// The screensaver owns the whole window, chrome included.
	if kind == coordinator.MountScreensaver {
		if s == nil {
			return ""
		}
		return m.zones.Scan(s.Render(m.width, m.height))
	}

	buf := newBuffer(m.width, m.height)

	if s != nil && bounds.Width > 0 && bounds.Height > 0 {
		blit(buf, s.Render(bounds.Width, bounds.Height), bounds.X, bounds.Y, m.width, m.height)
	}
	if !m.fullscreen {
		m.drawChrome(buf)
	}
	m.drawWidgetStrip(buf)

	out := bufferToString(buf)

	if m.modal != modalNone {
		out = m.overlayModal(out)
	}
	return m.zones.Scan(out)
}

// drawChrome draws the position indicators, countdown, and the nav
// buttons into the frame buffer.
func (m *Model) drawChrome(buf [][]rune) {
	entries := m.coord.Entries()
	current := m.coord.CurrentIndex()

	// Position indicators centered on the top row.
	var dots []string
	for i := range entries {
		if i == current {
			dots = append(dots, "●")
		} else {
			dots = append(dots, "○")
		}
	}
	indicator := strings.Join(dots, " ")
	blit(buf, components.PadCenter(indicator, m.width), 0, 0, m.width, m.height)

	// Countdown to the next rotation, top right.
	if m.cfg.AutoRotate && m.remaining > 0 {
		countdown := fmt.Sprintf("%ds", int(m.remaining.Seconds()+0.5))
		blit(buf, countdown, m.width-len(countdown)-1, 1, m.width, m.height)
	}

	// Navigation buttons on the vertical midline.
	midY := m.height / 2
	blit(buf, m.zones.Mark(zonePrev, " ‹ "), 0, midY, m.width, m.height)
	blit(buf, m.zones.Mark(zoneNext, " › "), m.width-3, midY, m.width, m.height)
}

// drawWidgetStrip draws the overlay widgets along the bottom row, with
// any status message right-aligned.
func (m *Model) drawWidgetStrip(buf [][]rune) {
	if m.height < 2 {
		return
	}
	row := m.height - 1

	var parts []string
	if m.cfg.ShowMoonPhase {
		parts = append(parts, m.moonW.View(24))
	}
	if m.cfg.ShowWeather || m.cfg.ShowTemperature || m.cfg.ShowHumidity {
		parts = append(parts, m.weatherW.View(48))
	}
	if m.cfg.ShowUV {
		parts = append(parts, m.uvW.View(24))
	}
	strip := strings.Join(parts, "  │  ")
	blit(buf, " "+strip, 0, row, m.width, m.height)

	if m.statusMsg != "" {
		msg := components.Dim(m.statusMsg)
		x := m.width - components.VisibleLen(m.statusMsg) - 1
		if x < 0 {
			x = 0
		}
		blit(buf, msg, x, row, m.width, m.height)
	}
}

// overlayModal centers the open modal over the frame.
func (m *Model) overlayModal(frame string) string {
	var body string
	switch m.modal {
	case modalFacts:
		body = m.factsB.View()
	case modalSettings:
		if m.settings != nil {
			body = m.settings.View()
		}
	}
	if body == "" {
		return frame
	}

	lines := strings.Split(frame, "\n")
	buf := make([][]rune, len(lines))
	for i, l := range lines {
		buf[i] = []rune(l)
	}

	modalLines := strings.Split(body, "\n")
	mw := 0
	for _, l := range modalLines {
		if w := components.VisibleLen(l); w > mw {
			mw = w
		}
	}
	x := (m.width - mw) / 2
	y := (m.height - len(modalLines)) / 2
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	blit(buf, body, x, y, m.width, m.height)
	return bufferToString(buf)
}

// newBuffer creates a width-by-height grid of spaces.
func newBuffer(width, height int) [][]rune {
	buf := make([][]rune, height)
	for y := range buf {
		row := make([]rune, width)
		for x := range row {
			row[x] = ' '
		}
		buf[y] = row
	}
	return buf
}

// blit writes a rendered multi-line string into the buffer at (x, y),
// clipping to the buffer bounds.
func blit(buf [][]rune, rendered string, x, y, bufW, bufH int) {
	for dy, line := range strings.Split(rendered, "\n") {
		ry := y + dy
		if ry < 0 || ry >= bufH || ry >= len(buf) {
			continue
		}
		for dx, ch := range []rune(line) {
			rx := x + dx
			if rx < 0 || rx >= bufW || rx >= len(buf[ry]) {
				continue
			}
			buf[ry][rx] = ch
		}
	}
}

// bufferToString joins buffer rows with newlines.
func bufferToString(buf [][]rune) string {
	lines := make([]string, len(buf))
	for i, row := range buf {
		lines[i] = string(row)
	}
	return strings.Join(lines, "\n")
}
