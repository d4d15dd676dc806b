package coordinator

// Rect is a cell-addressed rectangle within the host window.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Chrome margins in cells. The left column holds the previous-button, the
// top row the position indicators; right and bottom mirror them so the
// content block stays centered.
const (
	MarginLeft   = 4
	MarginTop    = 2
	MarginRight  = MarginLeft
	MarginBottom = MarginTop
)

// ContentBounds returns the region a content surface occupies inside win,
// reserving the fixed chrome margins. Degenerate windows clamp to zero
// rather than going negative.
func ContentBounds(win Rect) Rect {
	r := Rect{
		X:      win.X + MarginLeft,
		Y:      win.Y + MarginTop,
		Width:  win.Width - MarginLeft - MarginRight,
		Height: win.Height - MarginTop - MarginBottom,
	}
	if r.Width < 0 {
		r.Width = 0
	}
	if r.Height < 0 {
		r.Height = 0
	}
	return r
}

// ScreensaverBounds returns the full window: the screensaver draws over
// the chrome.
func ScreensaverBounds(win Rect) Rect {
	return win
}
