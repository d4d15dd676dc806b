package coordinator

import "testing"

func TestContentBoundsReservesChromeMargins(t *testing.T) {
	win := Rect{Width: 100, Height: 40}
	got := ContentBounds(win)
	want := Rect{X: MarginLeft, Y: MarginTop, Width: 100 - 2*MarginLeft, Height: 40 - 2*MarginTop}
	if got != want {
		t.Fatalf("ContentBounds = %+v, want %+v", got, want)
	}
}

func TestContentBoundsSymmetry(t *testing.T) {
	if MarginRight != MarginLeft || MarginBottom != MarginTop {
		t.Fatal("right/bottom margins must mirror left/top")
	}
}

func TestContentBoundsClampsTinyWindows(t *testing.T) {
	got := ContentBounds(Rect{Width: 3, Height: 2})
	if got.Width < 0 || got.Height < 0 {
		t.Fatalf("bounds went negative: %+v", got)
	}
}

func TestScreensaverBoundsFullWindow(t *testing.T) {
	win := Rect{X: 0, Y: 0, Width: 120, Height: 50}
	if got := ScreensaverBounds(win); got != win {
		t.Fatalf("ScreensaverBounds = %+v, want the full window", got)
	}
}
