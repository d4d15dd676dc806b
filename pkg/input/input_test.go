package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	case "f11":
		return tea.KeyMsg{Type: tea.KeyF11}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func TestDefaultBindingsResolve(t *testing.T) {
	b := DefaultBindings()
	tests := []struct {
		key  string
		want Action
	}{
		{"left", ActionPreviousSlide},
		{"right", ActionNextSlide},
		{"esc", ActionExit},
		{"f11", ActionToggleFullscreen},
		{"b", ActionOpenFacts},
		{"s", ActionOpenSettings},
		{"v", ActionShowScreensaver},
		{"r", ActionReloadSlide},
		{"x", ActionNone},
	}
	for _, tt := range tests {
		if got := b.Resolve(keyMsg(tt.key), Context{}); got != tt.want {
			t.Errorf("Resolve(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestAnyKeyDismissesScreensaver(t *testing.T) {
	b := DefaultBindings()
	ctx := Context{ScreensaverActive: true}
	for _, key := range []string{"left", "right", "esc", "x", "f11"} {
		if got := b.Resolve(keyMsg(key), ctx); got != ActionDismissScreensaver {
			t.Errorf("Resolve(%q) during screensaver = %v, want dismiss", key, got)
		}
	}
}

func TestModalSuppressesNavigation(t *testing.T) {
	b := DefaultBindings()
	ctx := Context{ModalOpen: true}

	for _, key := range []string{"left", "right", "v", "s"} {
		if got := b.Resolve(keyMsg(key), ctx); got != ActionNone {
			t.Errorf("Resolve(%q) with modal open = %v, want none", key, got)
		}
	}
	if got := b.Resolve(keyMsg("esc"), ctx); got != ActionCloseModal {
		t.Errorf("esc with modal open = %v, want close-modal", got)
	}
	if got := b.Resolve(keyMsg("ctrl+c"), ctx); got != ActionExit {
		t.Errorf("ctrl+c with modal open = %v, want exit", got)
	}
}

func TestBindUnbind(t *testing.T) {
	b := DefaultBindings()

	b.Bind("n", ActionNextSlide)
	if got := b.Resolve(keyMsg("n"), Context{}); got != ActionNextSlide {
		t.Errorf("bound key n = %v, want next-slide", got)
	}

	b.Unbind("right")
	if got := b.Resolve(keyMsg("right"), Context{}); got != ActionNone {
		t.Errorf("unbound right = %v, want none", got)
	}
}

func TestParseActionRoundTrip(t *testing.T) {
	for _, a := range []Action{
		ActionNextSlide, ActionPreviousSlide, ActionExit,
		ActionToggleFullscreen, ActionOpenFacts, ActionOpenSettings,
		ActionShowScreensaver, ActionDismissScreensaver,
		ActionCloseModal, ActionReloadSlide,
	} {
		got, err := ParseAction(a.String())
		if err != nil {
			t.Errorf("ParseAction(%q): %v", a.String(), err)
		}
		if got != a {
			t.Errorf("ParseAction(%q) = %v, want %v", a.String(), got, a)
		}
	}
	if _, err := ParseAction("bogus"); err == nil {
		t.Error("ParseAction(bogus) succeeded")
	}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	return tea.MouseMsg{Action: action, Button: tea.MouseButtonLeft, X: x, Y: y}
}

func TestSwipeLeftAdvances(t *testing.T) {
	var d SwipeDetector
	if got := d.Update(mouse(tea.MouseActionPress, 40, 10), Context{}); got != ActionNone {
		t.Fatalf("press produced %v", got)
	}
	if got := d.Update(mouse(tea.MouseActionRelease, 30, 11), Context{}); got != ActionNextSlide {
		t.Errorf("left swipe = %v, want next-slide", got)
	}
}

func TestSwipeRightGoesBack(t *testing.T) {
	var d SwipeDetector
	d.Update(mouse(tea.MouseActionPress, 10, 10), Context{})
	if got := d.Update(mouse(tea.MouseActionRelease, 25, 10), Context{}); got != ActionPreviousSlide {
		t.Errorf("right swipe = %v, want previous-slide", got)
	}
}

func TestShortDragIsATap(t *testing.T) {
	var d SwipeDetector
	d.Update(mouse(tea.MouseActionPress, 10, 10), Context{})
	if got := d.Update(mouse(tea.MouseActionRelease, 13, 10), Context{}); got != ActionNone {
		t.Errorf("3-cell drag = %v, want none", got)
	}
}

func TestVerticalDragIsNotASwipe(t *testing.T) {
	var d SwipeDetector
	d.Update(mouse(tea.MouseActionPress, 10, 2), Context{})
	if got := d.Update(mouse(tea.MouseActionRelease, 18, 14), Context{}); got != ActionNone {
		t.Errorf("mostly-vertical drag = %v, want none", got)
	}
}

func TestSwipeDuringScreensaverOnlyWakes(t *testing.T) {
	var d SwipeDetector
	ctx := Context{ScreensaverActive: true}
	d.Update(mouse(tea.MouseActionPress, 40, 10), ctx)
	if got := d.Update(mouse(tea.MouseActionRelease, 10, 10), ctx); got != ActionDismissScreensaver {
		t.Errorf("swipe during screensaver = %v, want dismiss", got)
	}
}

func TestSwipeDuringModalIgnored(t *testing.T) {
	var d SwipeDetector
	ctx := Context{ModalOpen: true}
	d.Update(mouse(tea.MouseActionPress, 40, 10), ctx)
	if got := d.Update(mouse(tea.MouseActionRelease, 10, 10), ctx); got != ActionNone {
		t.Errorf("swipe during modal = %v, want none", got)
	}
}

func TestReleaseWithoutPressIgnored(t *testing.T) {
	var d SwipeDetector
	if got := d.Update(mouse(tea.MouseActionRelease, 10, 10), Context{}); got != ActionNone {
		t.Errorf("orphan release = %v, want none", got)
	}
}
