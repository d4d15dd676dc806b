// Package input translates raw terminal key and mouse events into kiosk
// actions. Bindings are rebindable at runtime; a swipe detector turns
// horizontal drags into slide navigation.
package input

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Action is a high-level command produced from a key or gesture.
type Action int

const (
	ActionNone Action = iota
	ActionNextSlide
	ActionPreviousSlide
	ActionExit
	ActionToggleFullscreen
	ActionOpenFacts
	ActionOpenSettings
	ActionShowScreensaver
	ActionDismissScreensaver
	ActionCloseModal
	ActionReloadSlide
)

// String returns the canonical action name used by the bind command.
func (a Action) String() string {
	switch a {
	case ActionNextSlide:
		return "next-slide"
	case ActionPreviousSlide:
		return "previous-slide"
	case ActionExit:
		return "exit"
	case ActionToggleFullscreen:
		return "toggle-fullscreen"
	case ActionOpenFacts:
		return "open-facts"
	case ActionOpenSettings:
		return "open-settings"
	case ActionShowScreensaver:
		return "show-screensaver"
	case ActionDismissScreensaver:
		return "dismiss-screensaver"
	case ActionCloseModal:
		return "close-modal"
	case ActionReloadSlide:
		return "reload-slide"
	default:
		return "none"
	}
}

// ParseAction maps an action name back to its Action. Unknown names
// return an error so a bad bind command is reported rather than silently
// creating a dead binding.
func ParseAction(name string) (Action, error) {
	for _, a := range []Action{
		ActionNextSlide, ActionPreviousSlide, ActionExit,
		ActionToggleFullscreen, ActionOpenFacts, ActionOpenSettings,
		ActionShowScreensaver, ActionDismissScreensaver,
		ActionCloseModal, ActionReloadSlide,
	} {
		if a.String() == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("input: unknown action %q", name)
}

// Context tells Resolve which interaction rules apply right now.
type Context struct {
	ModalOpen         bool
	ScreensaverActive bool
}

// Bindings maps key names (bubbletea's String form, e.g. "left", "f11",
// "ctrl+c") to actions.
type Bindings struct {
	keys map[string]Action
}

// DefaultBindings returns the shipped keymap.
func DefaultBindings() *Bindings {
	return &Bindings{keys: map[string]Action{
		"left":   ActionPreviousSlide,
		"right":  ActionNextSlide,
		"esc":    ActionExit,
		"q":      ActionExit,
		"ctrl+c": ActionExit,
		"f11":    ActionToggleFullscreen,
		"b":      ActionOpenFacts,
		"s":      ActionOpenSettings,
		"v":      ActionShowScreensaver,
		"r":      ActionReloadSlide,
	}}
}

// Bind assigns key to action, replacing any previous binding for key.
func (b *Bindings) Bind(key string, action Action) {
	b.keys[strings.ToLower(key)] = action
}

// Unbind removes the binding for key. Unbound keys produce ActionNone.
func (b *Bindings) Unbind(key string) {
	delete(b.keys, strings.ToLower(key))
}

// Lookup returns the bound action for key without applying context rules.
func (b *Bindings) Lookup(key string) Action {
	return b.keys[strings.ToLower(key)]
}

// List returns "key action" pairs sorted by key, for the bind listing.
func (b *Bindings) List() []string {
	out := make([]string, 0, len(b.keys))
	for k, a := range b.keys {
		out = append(out, k+" "+a.String())
	}
	sort.Strings(out)
	return out
}

// Resolve applies the interaction rules to a key press:
//
//   - While the screensaver is up, any key dismisses it and nothing else.
//   - While a modal is open, navigation keys are suppressed so the modal
//     can use them, and escape closes the modal instead of exiting.
//   - Otherwise the binding table decides.
func (b *Bindings) Resolve(msg tea.KeyMsg, ctx Context) Action {
	key := strings.ToLower(msg.String())

	if ctx.ScreensaverActive {
		return ActionDismissScreensaver
	}
	if ctx.ModalOpen {
		switch key {
		case "esc", "q":
			return ActionCloseModal
		case "ctrl+c":
			return ActionExit
		default:
			return ActionNone
		}
	}
	return b.keys[key]
}

// SwipeThresholdCells is the horizontal travel, in terminal cells, that
// distinguishes a swipe from a tap.
const SwipeThresholdCells = 6

// SwipeDetector turns press/release mouse pairs into swipe actions.
type SwipeDetector struct {
	tracking       bool
	startX, startY int
}

// Update feeds one mouse event to the detector. It returns the action the
// completed gesture maps to, or ActionNone while a gesture is still in
// flight or the motion was a tap.
func (d *SwipeDetector) Update(msg tea.MouseMsg, ctx Context) Action {
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return ActionNone
		}
		d.tracking = true
		d.startX, d.startY = msg.X, msg.Y
		return ActionNone

	case tea.MouseActionRelease:
		if !d.tracking {
			return ActionNone
		}
		d.tracking = false

		// Touches land as mouse events; a touch during the screensaver
		// only wakes the display, it never navigates.
		if ctx.ScreensaverActive {
			return ActionDismissScreensaver
		}
		if ctx.ModalOpen {
			return ActionNone
		}

		dx := msg.X - d.startX
		dy := msg.Y - d.startY
		if abs(dx) < SwipeThresholdCells || abs(dx) <= abs(dy) {
			return ActionNone
		}
		if dx < 0 {
			// Dragging left pulls the next slide in.
			return ActionNextSlide
		}
		return ActionPreviousSlide
	}
	return ActionNone
}

// Reset abandons any gesture in flight.
func (d *SwipeDetector) Reset() {
	d.tracking = false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
