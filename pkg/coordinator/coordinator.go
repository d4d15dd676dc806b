// Package coordinator owns which visual surface the kiosk presents. It is
// the single source of truth for the current index, the display mode, and
// the modal flag, and it serializes every transition between them. All
// operations are expected to run on the host's single-threaded event loop;
// the coordinator holds no locks of its own.
package coordinator

import (
	"time"

	"gitlab.com/tinyland/lab/signpost/pkg/clock"
	"gitlab.com/tinyland/lab/signpost/pkg/config"
	"gitlab.com/tinyland/lab/signpost/pkg/surface"
)

// Mode is the coordinator's top-level display state.
type Mode int

const (
	ModeContent Mode = iota
	ModeScreensaver
)

// MountKind identifies what occupies the single mounted-surface slot.
type MountKind int

const (
	MountNone MountKind = iota
	MountContent
	MountScreensaver
)

// DefaultSettleWindow is how long after a navigation further navigation
// requests are dropped. It coalesces rapid repeated requests; it is not a
// mutual-exclusion primitive.
const DefaultSettleWindow = 400 * time.Millisecond

// Rotator is the slice of the timer scheduler the coordinator drives.
type Rotator interface {
	ResetAutoRotate()
	PauseAll()
	ResumeAll()
}

// State is a snapshot of the coordinator's presentation state.
type State struct {
	Index         int
	Mode          Mode
	ModalOpen     bool
	Transitioning bool
}

// Options configures a Coordinator.
type Options struct {
	Config       *config.Config
	Factory      surface.Factory
	QuotesDir    string // empty means surface.DefaultQuotesDir
	Clock        clock.Clock
	Rotator      Rotator
	SavedIndex   int // restored from the previous run; clamped to range
	SettleWindow time.Duration
	Window       Rect
}

// Coordinator mediates which surface is mounted and with what bounds.
type Coordinator struct {
	cfg       *config.Config
	factory   surface.Factory
	quotesDir string
	clk       clock.Clock
	rotator   Rotator
	settle    time.Duration

	pool  *surface.Pool
	saver surface.Surface

	window      Rect
	index       int
	mode        Mode
	modalOpen   bool
	settleUntil time.Time

	mountKind   MountKind
	mountBounds Rect

	events []any
}

// New creates a Coordinator and builds one surface per display entry. Call
// Initialize to mount the first view.
func New(opts Options) *Coordinator {
	// Config.Normalize guarantees at least one entry; restore that
	// invariant here too so an unnormalized config cannot leave the
	// coordinator with nothing to mount.
	if len(opts.Config.Entries) == 0 {
		opts.Config.Entries = config.Default().Entries
	}
	if opts.SettleWindow <= 0 {
		opts.SettleWindow = DefaultSettleWindow
	}
	if opts.QuotesDir == "" {
		opts.QuotesDir = surface.DefaultQuotesDir
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	c := &Coordinator{
		cfg:       opts.Config,
		factory:   opts.Factory,
		quotesDir: opts.QuotesDir,
		clk:       opts.Clock,
		rotator:   opts.Rotator,
		settle:    opts.SettleWindow,
		window:    opts.Window,
		index:     opts.SavedIndex,
	}
	c.pool = surface.NewPool(len(opts.Config.Entries), opts.Factory)
	if c.index < 0 || c.index >= c.pool.Len() {
		c.index = 0
	}
	return c
}

// Initialize mounts the saved (or zeroth) view. The host is responsible
// for issuing the async loads for every pooled surface.
func (c *Coordinator) Initialize() {
	c.emit(ConfigLoaded{Config: c.cfg})
	// Force the first mount through even though index == c.index already.
	c.mountContent(c.index)
}

// ShowContent mounts the surface at index. It fails silently when index is
// out of range, the screensaver is up, a modal is open, or a navigation is
// still inside its settle window.
func (c *Coordinator) ShowContent(index int) {
	if index < 0 || index >= c.pool.Len() {
		return
	}
	if c.mode == ModeScreensaver || c.modalOpen {
		return
	}
	if c.clk.Now().Before(c.settleUntil) {
		return
	}
	c.mountContent(index)
}

// mountContent performs the unguarded mount: exactly one surface occupies
// the slot afterwards.
func (c *Coordinator) mountContent(index int) {
	entry := c.cfg.Entries[index]
	c.mountKind = MountContent
	c.mountBounds = ContentBounds(c.window)
	c.index = index
	c.settleUntil = c.clk.Now().Add(c.settle)
	c.emit(ViewChanged{Index: index, URL: entry.URL, Background: entry.Background})
	if c.rotator != nil {
		c.rotator.ResetAutoRotate()
	}
}

// Next advances to the following entry, wrapping at the end.
func (c *Coordinator) Next() {
	n := c.pool.Len()
	if n == 0 {
		return
	}
	c.ShowContent((c.index + 1) % n)
}

// Previous moves to the preceding entry, wrapping at the start.
func (c *Coordinator) Previous() {
	n := c.pool.Len()
	if n == 0 {
		return
	}
	c.ShowContent((c.index - 1 + n) % n)
}

// ShowScreensaver mounts the screensaver surface at full-window bounds.
// No-op when the feature is disabled or already active. Rejected while a
// modal is open: the screensaver must never cover a modal.
func (c *Coordinator) ShowScreensaver() {
	if !c.cfg.ScreensaverEnabled {
		return
	}
	if c.mode == ModeScreensaver || c.modalOpen {
		return
	}
	if c.saver == nil {
		c.saver = c.factory()
	}
	c.mode = ModeScreensaver
	c.mountKind = MountScreensaver
	c.mountBounds = ScreensaverBounds(c.window)
	if c.rotator != nil {
		c.rotator.PauseAll()
	}
	c.emit(ScreensaverShown{URL: c.ScreensaverURL()})
}

// HideScreensaver unmounts the screensaver and remounts the current
// content surface. The mode flips to Content before the remount so the
// remount is not rejected by the screensaver guard.
func (c *Coordinator) HideScreensaver() {
	if c.mode != ModeScreensaver {
		return
	}
	c.mode = ModeContent
	c.mountKind = MountNone
	if c.rotator != nil {
		c.rotator.ResumeAll()
	}
	c.mountContent(c.index)
	c.emit(ScreensaverHidden{})
}

// HandleInteraction is called for any pointer or key activity detected
// inside the screensaver surface. It dismisses the screensaver; in any
// other state it does nothing.
func (c *Coordinator) HandleInteraction() {
	if c.mode == ModeScreensaver {
		c.HideScreensaver()
	}
}

// HandleFocus is called when the host window regains focus. A covered
// kiosk returns to content rather than staying on the screensaver.
func (c *Coordinator) HandleFocus() {
	if c.mode == ModeScreensaver {
		c.HideScreensaver()
	}
}

// Resize recomputes the mounted surface's bounds for a new window size.
// Mode and index are unaffected.
func (c *Coordinator) Resize(win Rect) {
	c.window = win
	switch c.mountKind {
	case MountContent:
		c.mountBounds = ContentBounds(win)
	case MountScreensaver:
		c.mountBounds = ScreensaverBounds(win)
	}
}

// SetModalOpen brackets a foreground modal. Opening unmounts the content
// surface and pauses the rotate timers; closing remounts the current
// surface and resumes them. Callers must pair every true with a false,
// including on forced teardown. Rejected while the screensaver is active.
func (c *Coordinator) SetModalOpen(open bool) {
	if open == c.modalOpen {
		return
	}
	if c.mode == ModeScreensaver {
		return
	}
	if open {
		c.modalOpen = true
		c.mountKind = MountNone
		if c.rotator != nil {
			c.rotator.PauseAll()
		}
		return
	}
	c.modalOpen = false
	c.mountKind = MountContent
	c.mountBounds = ContentBounds(c.window)
	if c.rotator != nil {
		c.rotator.ResumeAll()
	}
}

// OnSurfaceLoaded forwards a per-index load success.
func (c *Coordinator) OnSurfaceLoaded(index int, url string) {
	c.emit(SurfaceLoaded{Index: index, URL: url})
}

// OnSurfaceError forwards a per-index load failure. No automatic retry:
// the stale or blank surface stays mounted and the host displays the
// description.
func (c *Coordinator) OnSurfaceError(index int, url, description string) {
	c.emit(SurfaceError{Index: index, URL: url, Description: description})
}

// OnScreensaverLoaded forwards a screensaver load success.
func (c *Coordinator) OnScreensaverLoaded(url string) {
	c.emit(ScreensaverLoaded{URL: url})
}

// OnScreensaverError forwards a screensaver load failure.
func (c *Coordinator) OnScreensaverError(url, description string) {
	c.emit(ScreensaverError{URL: url, Description: description})
}

// ReloadConfig replaces the configuration wholesale, rebuilds the surface
// pool, and mounts the first view. Modal and screensaver state reset.
func (c *Coordinator) ReloadConfig(cfg *config.Config) {
	if len(cfg.Entries) == 0 {
		cfg.Entries = config.Default().Entries
	}
	c.pool.DestroyAll()
	if c.saver != nil {
		c.saver.Destroy()
		c.saver = nil
	}
	c.cfg = cfg
	c.pool = surface.NewPool(len(cfg.Entries), c.factory)
	c.mode = ModeContent
	c.modalOpen = false
	c.settleUntil = time.Time{}
	c.index = 0
	c.emit(ConfigReloaded{Config: cfg})
	c.mountContent(0)
}

// Teardown destroys every surface. No timer owned elsewhere is touched;
// the host stops the scheduler itself.
func (c *Coordinator) Teardown() {
	c.pool.DestroyAll()
	if c.saver != nil {
		c.saver.Destroy()
		c.saver = nil
	}
	c.mountKind = MountNone
}

// Drain returns and clears the pending event outbox.
func (c *Coordinator) Drain() []any {
	out := c.events
	c.events = nil
	return out
}

// State returns a snapshot of the presentation state.
func (c *Coordinator) State() State {
	return State{
		Index:         c.index,
		Mode:          c.mode,
		ModalOpen:     c.modalOpen,
		Transitioning: c.clk.Now().Before(c.settleUntil),
	}
}

// CurrentIndex returns the index of the active content entry.
func (c *Coordinator) CurrentIndex() int { return c.index }

// IsScreensaverActive reports whether the screensaver is mounted.
func (c *Coordinator) IsScreensaverActive() bool { return c.mode == ModeScreensaver }

// IsModalOpen reports whether a modal currently suppresses the surface.
func (c *Coordinator) IsModalOpen() bool { return c.modalOpen }

// Entries returns the configured display entries.
func (c *Coordinator) Entries() []config.DisplayEntry { return c.cfg.Entries }

// Mounted returns what occupies the surface slot and where it is drawn.
func (c *Coordinator) Mounted() (surface.Surface, Rect, MountKind) {
	switch c.mountKind {
	case MountContent:
		return c.pool.At(c.index), c.mountBounds, MountContent
	case MountScreensaver:
		return c.saver, c.mountBounds, MountScreensaver
	default:
		return nil, Rect{}, MountNone
	}
}

// SurfaceAt exposes the pooled surface at index for the host's load
// commands.
func (c *Coordinator) SurfaceAt(index int) surface.Surface { return c.pool.At(index) }

// Screensaver returns the lazily-created screensaver surface, or nil if it
// has never been shown.
func (c *Coordinator) Screensaver() surface.Surface { return c.saver }

// ScreensaverURL returns the configured screensaver address with the
// quotes:// alias resolved.
func (c *Coordinator) ScreensaverURL() string {
	return surface.ResolveScreensaverURL(c.cfg.ScreensaverURL, c.quotesDir)
}

// ReloadCurrent returns the visible surface and the URL to re-issue for
// it. The manual reload affordance applies to the visible surface only.
func (c *Coordinator) ReloadCurrent() (surface.Surface, string, bool) {
	switch c.mountKind {
	case MountContent:
		return c.pool.At(c.index), c.cfg.Entries[c.index].URL, true
	case MountScreensaver:
		return c.saver, c.ScreensaverURL(), true
	default:
		return nil, "", false
	}
}

func (c *Coordinator) emit(ev any) {
	c.events = append(c.events, ev)
}
