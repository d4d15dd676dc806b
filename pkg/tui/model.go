// Package tui hosts the kiosk inside a bubbletea program. The Model glues
// the presentation coordinator, the timer scheduler, the overlay widgets,
// and the control socket together under a single update loop, so every
// state change runs on one goroutine.
package tui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/signpost/pkg/astro"
	"gitlab.com/tinyland/lab/signpost/pkg/cache"
	"gitlab.com/tinyland/lab/signpost/pkg/clock"
	"gitlab.com/tinyland/lab/signpost/pkg/config"
	"gitlab.com/tinyland/lab/signpost/pkg/coordinator"
	"gitlab.com/tinyland/lab/signpost/pkg/facts"
	"gitlab.com/tinyland/lab/signpost/pkg/input"
	"gitlab.com/tinyland/lab/signpost/pkg/sched"
	"gitlab.com/tinyland/lab/signpost/pkg/surface"
	"gitlab.com/tinyland/lab/signpost/pkg/weather"
	"gitlab.com/tinyland/lab/signpost/pkg/widgets"
)

var errTimeout = errors.New("tui: command timed out")

// weatherCacheKey stores the last good observation so the strip has data
// immediately after a restart.
const weatherCacheKey = "weather-latest"

// loadTimeout bounds a single surface fetch.
const loadTimeout = 30 * time.Second

// modalKind identifies which modal, if any, is open.
type modalKind int

const (
	modalNone modalKind = iota
	modalFacts
	modalSettings
)

// Options configures a Model.
type Options struct {
	Config     *config.Config
	ConfigPath string // where save-config writes
	Logger     *slog.Logger
	Clock      clock.Clock
	Factory    surface.Factory
	QuotesDir  string
	SavedIndex int

	Weather *weather.Client
	Facts   *facts.Store
	Cache   *cache.Store

	// Fires and Controls feed external events into the update loop. The
	// scheduler pushes into Fires; the control server's dispatcher pushes
	// into Controls.
	Fires    chan sched.Fire
	Controls chan ControlMsg

	// Output applies per-page background colors to the terminal. Nil
	// disables background switching (tests).
	Output *termenv.Output
}

// rotatorProxy lets the coordinator keep one Rotator reference while the
// model swaps schedulers on config reload.
type rotatorProxy struct {
	s *sched.Scheduler
}

func (r *rotatorProxy) ResetAutoRotate() {
	if r.s != nil {
		r.s.ResetAutoRotate()
	}
}

func (r *rotatorProxy) PauseAll() {
	if r.s != nil {
		r.s.PauseAll()
	}
}

func (r *rotatorProxy) ResumeAll() {
	if r.s != nil {
		r.s.ResumeAll()
	}
}

// Model is the bubbletea root model for the kiosk.
type Model struct {
	cfg        *config.Config
	configPath string
	log        *slog.Logger
	clk        clock.Clock

	coord   *coordinator.Coordinator
	rotator *rotatorProxy

	weatherClient *weather.Client
	factsStore    *facts.Store
	cacheStore    *cache.Store

	moonW    *widgets.MoonWidget
	weatherW *widgets.WeatherWidget
	uvW      *widgets.UVWidget
	factsB   *widgets.FactsBrowser
	settings *settingsForm

	bindings *input.Bindings
	swipe    input.SwipeDetector
	zones    *zone.Manager

	fires    chan sched.Fire
	controls chan ControlMsg
	output   *termenv.Output

	width, height int
	fullscreen    bool
	modal         modalKind
	remaining     time.Duration
	statusMsg     string
	quitting      bool
}

// New builds the model. The scheduler is created and the coordinator
// wired, but nothing starts until Init runs.
func New(opts Options) *Model {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Clock == nil {
		opts.Clock = clock.Real{}
	}
	if opts.Fires == nil {
		opts.Fires = make(chan sched.Fire, 32)
	}
	if opts.Controls == nil {
		opts.Controls = make(chan ControlMsg, 8)
	}

	m := &Model{
		cfg:           opts.Config,
		configPath:    opts.ConfigPath,
		log:           opts.Logger,
		clk:           opts.Clock,
		weatherClient: opts.Weather,
		factsStore:    opts.Facts,
		cacheStore:    opts.Cache,
		moonW:         widgets.NewMoonWidget(),
		uvW:           widgets.NewUVWidget(),
		factsB:        widgets.NewFactsBrowser(),
		bindings:      input.DefaultBindings(),
		zones:         zone.New(),
		fires:         opts.Fires,
		controls:      opts.Controls,
		output:        opts.Output,
		fullscreen:    opts.Config.Fullscreen,
		rotator:       &rotatorProxy{},
	}
	m.weatherW = widgets.NewWeatherWidget(
		opts.Config.TemperatureUnit, opts.Config.TimeFormat,
		opts.Config.ShowTemperature, opts.Config.ShowHumidity)

	m.rotator.s = sched.New(m.clk, schedOptions(opts.Config), m.pushFire)

	m.coord = coordinator.New(coordinator.Options{
		Config:     opts.Config,
		Factory:    opts.Factory,
		QuotesDir:  opts.QuotesDir,
		Clock:      m.clk,
		Rotator:    m.rotator,
		SavedIndex: opts.SavedIndex,
	})

	if m.cacheStore != nil {
		if obs, ok := cache.GetTyped[weather.Observation](m.cacheStore, weatherCacheKey); ok {
			m.applyObservation(&obs)
		}
	}
	return m
}

// schedOptions derives scheduler options from the configuration.
func schedOptions(cfg *config.Config) sched.Options {
	return sched.Options{
		AutoRotate:         cfg.AutoRotate,
		AutoRotateInterval: time.Duration(cfg.AutoRotateIntervalMs) * time.Millisecond,
		MoonEnabled:        cfg.ShowMoonPhase,
		WeatherEnabled:     cfg.ShowWeather || cfg.ShowTemperature || cfg.ShowHumidity,
		FactsEnabled:       true,
		UVEnabled:          cfg.ShowUV,
		UVInterval:         time.Duration(cfg.UVUpdateFrequencyMinutes) * time.Minute,
	}
}

// pushFire forwards a scheduler fire into the update loop. Fires are
// dropped rather than blocking the timer goroutine if the loop backs up.
func (m *Model) pushFire(f sched.Fire) {
	select {
	case m.fires <- f:
	default:
		m.log.Warn("dropping scheduler fire", "trigger", int(f.Trigger))
	}
}

// CurrentIndex exposes the visible slide for persistence on shutdown.
func (m *Model) CurrentIndex() int { return m.coord.CurrentIndex() }

// Init mounts the first view, starts the scheduler, and arms the
// listeners and initial data fetches.
func (m *Model) Init() tea.Cmd {
	m.coord.Initialize()
	m.rotator.s.Start()

	cmds := []tea.Cmd{
		listenFires(m.fires),
		listenControls(m.controls),
	}
	cmds = append(cmds, m.processEvents()...)

	if m.cfg.ShowMoonPhase {
		m.moonW.SetPhase(astro.Phase(m.clk.Now()))
	}
	if m.weatherClient != nil && (m.cfg.ShowWeather || m.cfg.ShowTemperature || m.cfg.ShowHumidity || m.cfg.ShowUV) {
		cmds = append(cmds, m.fetchWeatherCmd())
	}
	return tea.Batch(cmds...)
}

// Update is the single event handler for the whole kiosk.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.coord.Resize(coordinator.Rect{Width: msg.Width, Height: msg.Height})
		m.factsB.SetSize(modalWidth(msg.Width), modalHeight(msg.Height))
		if m.settings != nil {
			m.settings.SetSize(modalWidth(msg.Width), modalHeight(msg.Height))
		}
		return m, tea.Batch(m.processEvents()...)

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.FocusMsg:
		m.coord.HandleFocus()
		return m, tea.Batch(m.processEvents()...)

	case FireMsg:
		model, cmd := m.handleFire(msg.Fire)
		return model, tea.Batch(cmd, listenFires(m.fires))

	case ControlMsg:
		model, cmd := m.handleControl(msg)
		return model, tea.Batch(cmd, listenControls(m.controls))

	case surfaceResultMsg:
		return m.handleSurfaceResult(msg)

	case weatherMsg:
		return m.handleWeather(msg)

	case factsMsg:
		return m.handleFacts(msg)
	}
	return m, nil
}

// handleKey routes a key press through the binding table and the open
// modal, if any.
func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	ctx := input.Context{
		ModalOpen:         m.modal != modalNone,
		ScreensaverActive: m.coord.IsScreensaverActive(),
	}

	switch m.bindings.Resolve(msg, ctx) {
	case input.ActionDismissScreensaver:
		m.coord.HandleInteraction()
		return m, tea.Batch(m.processEvents()...)

	case input.ActionNextSlide:
		m.coord.Next()
		return m, tea.Batch(m.processEvents()...)

	case input.ActionPreviousSlide:
		m.coord.Previous()
		return m, tea.Batch(m.processEvents()...)

	case input.ActionExit:
		return m.quit()

	case input.ActionToggleFullscreen:
		m.fullscreen = !m.fullscreen
		return m, nil

	case input.ActionOpenFacts:
		return m.openFacts()

	case input.ActionOpenSettings:
		return m.openSettings()

	case input.ActionShowScreensaver:
		m.coord.ShowScreensaver()
		return m, tea.Batch(m.processEvents()...)

	case input.ActionReloadSlide:
		return m, m.reloadCurrentCmd()

	case input.ActionCloseModal:
		return m.closeModal(nil)

	case input.ActionNone:
		// Keys not claimed by a binding go to the open modal.
		switch m.modal {
		case modalFacts:
			return m, m.factsB.HandleKey(msg)
		case modalSettings:
			return m.handleSettingsKey(msg)
		}
	}
	return m, nil
}

// handleMouse resolves click zones and swipe gestures.
func (m *Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	ctx := input.Context{
		ModalOpen:         m.modal != modalNone,
		ScreensaverActive: m.coord.IsScreensaverActive(),
	}

	if msg.Action == tea.MouseActionRelease && msg.Button == tea.MouseButtonLeft && !ctx.ScreensaverActive && !ctx.ModalOpen {
		switch {
		case m.zones.Get(zonePrev).InBounds(msg):
			m.swipe.Reset()
			m.coord.Previous()
			return m, tea.Batch(m.processEvents()...)
		case m.zones.Get(zoneNext).InBounds(msg):
			m.swipe.Reset()
			m.coord.Next()
			return m, tea.Batch(m.processEvents()...)
		}
	}

	switch m.swipe.Update(msg, ctx) {
	case input.ActionDismissScreensaver:
		m.coord.HandleInteraction()
		return m, tea.Batch(m.processEvents()...)
	case input.ActionNextSlide:
		m.coord.Next()
		return m, tea.Batch(m.processEvents()...)
	case input.ActionPreviousSlide:
		m.coord.Previous()
		return m, tea.Batch(m.processEvents()...)
	}
	return m, nil
}

// handleFire reacts to one scheduler fire.
func (m *Model) handleFire(f sched.Fire) (tea.Model, tea.Cmd) {
	switch f.Trigger {
	case sched.TriggerAutoRotate:
		m.coord.Next()
		return m, tea.Batch(m.processEvents()...)

	case sched.TriggerCountdown:
		m.remaining = f.Remaining
		return m, nil

	case sched.TriggerMoonRefresh:
		m.moonW.SetPhase(astro.Phase(m.clk.Now()))
		return m, nil

	case sched.TriggerWeatherRefresh:
		return m, m.fetchWeatherCmd()

	case sched.TriggerFactsRefresh:
		// New day: refresh the browser only if it is open.
		if m.modal == modalFacts {
			return m, m.fetchFactsCmd(false)
		}
		return m, nil

	case sched.TriggerUVRefresh:
		// Temperature and humidity refresh around the clock; only the UV
		// display goes dark with the sun.
		if !f.Daylight {
			m.uvW.SetNight()
		}
		return m, m.fetchWeatherCmd()
	}
	return m, nil
}

// handleSurfaceResult forwards load outcomes to the coordinator.
func (m *Model) handleSurfaceResult(msg surfaceResultMsg) (tea.Model, tea.Cmd) {
	if msg.saver {
		if msg.err != nil {
			m.coord.OnScreensaverError(msg.url, msg.err.Error())
		} else {
			m.coord.OnScreensaverLoaded(msg.url)
		}
	} else {
		if msg.err != nil {
			m.coord.OnSurfaceError(msg.index, msg.url, msg.err.Error())
		} else {
			m.coord.OnSurfaceLoaded(msg.index, msg.url)
		}
	}
	return m, tea.Batch(m.processEvents()...)
}

// handleWeather applies a fetch result to the widgets and scheduler.
func (m *Model) handleWeather(msg weatherMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("weather fetch failed", "error", msg.err)
		m.statusMsg = "weather unavailable"
		return m, nil
	}
	m.statusMsg = ""
	m.applyObservation(msg.obs)

	if m.cacheStore != nil {
		if err := cache.PutTyped(m.cacheStore, weatherCacheKey, *msg.obs); err != nil {
			m.log.Warn("weather cache write failed", "error", err)
		}
	}
	return m, nil
}

// applyObservation pushes an observation into the widgets and updates the
// scheduler's daylight window.
func (m *Model) applyObservation(obs *weather.Observation) {
	if m.rotator.s != nil && !obs.Sunrise.IsZero() {
		m.rotator.s.SetDaylight(obs.Sunrise, obs.Sunset)
	}
	if m.rotator.s == nil || m.rotator.s.IsDaylight(m.clk.Now()) {
		m.uvW.SetValue(obs.UVIndex)
	} else {
		m.uvW.SetNight()
	}
	m.weatherW.SetObservation(*obs)
}

// handleFacts loads query results into the browser.
func (m *Model) handleFacts(msg factsMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Warn("facts query failed", "error", msg.err)
		m.statusMsg = "history unavailable"
		return m, nil
	}
	m.factsB.SetFacts(msg.records)
	if msg.open && m.modal == modalNone {
		m.coord.SetModalOpen(true)
		if m.coord.IsModalOpen() {
			m.modal = modalFacts
		}
		return m, tea.Batch(m.processEvents()...)
	}
	return m, nil
}

// openFacts queries today's records and opens the browser when they land.
func (m *Model) openFacts() (tea.Model, tea.Cmd) {
	if m.modal != modalNone || m.coord.IsScreensaverActive() || m.factsStore == nil {
		return m, nil
	}
	return m, m.fetchFactsCmd(true)
}

// openSettings opens the settings form modal.
func (m *Model) openSettings() (tea.Model, tea.Cmd) {
	if m.modal != modalNone || m.coord.IsScreensaverActive() {
		return m, nil
	}
	m.coord.SetModalOpen(true)
	if !m.coord.IsModalOpen() {
		return m, nil
	}
	m.modal = modalSettings
	m.settings = newSettingsForm(m.cfg, m.configPath)
	m.settings.SetSize(modalWidth(m.width), modalHeight(m.height))
	return m, tea.Batch(m.processEvents()...)
}

// handleSettingsKey routes a key into the settings form and applies a
// saved configuration.
func (m *Model) handleSettingsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	saved, closed, cmd := m.settings.HandleKey(msg)
	if saved != nil {
		return m.closeModal(saved)
	}
	if closed {
		return m.closeModal(nil)
	}
	return m, cmd
}

// closeModal dismisses the open modal, optionally applying a new config
// saved by the settings form.
func (m *Model) closeModal(newCfg *config.Config) (tea.Model, tea.Cmd) {
	if m.modal == modalNone {
		return m, nil
	}
	m.modal = modalNone
	m.settings = nil
	m.coord.SetModalOpen(false)

	var cmds []tea.Cmd
	if newCfg != nil {
		cmds = append(cmds, m.applyConfig(newCfg)...)
	}
	cmds = append(cmds, m.processEvents()...)
	return m, tea.Batch(cmds...)
}

// applyConfig swaps in a new configuration: the coordinator rebuilds its
// pool and the scheduler restarts with the new intervals.
func (m *Model) applyConfig(cfg *config.Config) []tea.Cmd {
	m.cfg = cfg
	m.coord.ReloadConfig(cfg)

	if m.rotator.s != nil {
		m.rotator.s.Stop()
	}
	m.rotator.s = sched.New(m.clk, schedOptions(cfg), m.pushFire)
	m.rotator.s.Start()

	m.weatherW = widgets.NewWeatherWidget(cfg.TemperatureUnit, cfg.TimeFormat,
		cfg.ShowTemperature, cfg.ShowHumidity)
	m.fullscreen = cfg.Fullscreen
	m.remaining = 0

	cmds := m.processEvents()
	if m.weatherClient != nil && (cfg.ShowWeather || cfg.ShowTemperature || cfg.ShowHumidity || cfg.ShowUV) {
		cmds = append(cmds, m.fetchWeatherCmd())
	}
	return cmds
}

// quit tears the kiosk down and exits the program.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.quitting = true
	if m.rotator.s != nil {
		m.rotator.s.Stop()
	}
	m.coord.Teardown()
	return m, tea.Quit
}

// processEvents drains the coordinator outbox and converts each event
// into host effects: background changes, surface loads, status text.
func (m *Model) processEvents() []tea.Cmd {
	var cmds []tea.Cmd
	for _, ev := range m.coord.Drain() {
		switch ev := ev.(type) {
		case coordinator.ConfigLoaded:
			m.log.Info("configuration active", "entries", len(ev.Config.Entries))

		case coordinator.ViewChanged:
			m.setBackground(ev.Background)
			m.log.Info("view changed", "index", ev.Index, "url", ev.URL)
			if cmd := m.loadMountedCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case coordinator.ScreensaverShown:
			m.setBackground(config.DefaultBackground)
			m.log.Info("screensaver shown", "url", ev.URL)
			if cmd := m.loadMountedCmd(); cmd != nil {
				cmds = append(cmds, cmd)
			}

		case coordinator.ScreensaverHidden:
			m.log.Info("screensaver hidden")

		case coordinator.SurfaceLoaded:
			m.statusMsg = ""

		case coordinator.SurfaceError:
			m.statusMsg = "load failed: " + ev.URL
			m.log.Warn("surface load failed", "index", ev.Index, "url", ev.URL, "error", ev.Description)

		case coordinator.ScreensaverLoaded:
			m.statusMsg = ""

		case coordinator.ScreensaverError:
			m.statusMsg = "screensaver failed"
			m.log.Warn("screensaver load failed", "url", ev.URL, "error", ev.Description)

		case coordinator.ConfigReloaded:
			m.log.Info("configuration reloaded", "entries", len(ev.Config.Entries))
		}
	}
	return cmds
}

// loadMountedCmd starts a load for the mounted surface if it has not
// been fetched yet.
func (m *Model) loadMountedCmd() tea.Cmd {
	s, _, kind := m.coord.Mounted()
	if s == nil || s.Status() != surface.StatusIdle {
		return nil
	}
	switch kind {
	case coordinator.MountContent:
		index := m.coord.CurrentIndex()
		url := m.coord.Entries()[index].URL
		return loadSurfaceCmd(s, index, url, false)
	case coordinator.MountScreensaver:
		return loadSurfaceCmd(s, 0, m.coord.ScreensaverURL(), true)
	}
	return nil
}

// reloadCurrentCmd re-issues the visible surface's URL.
func (m *Model) reloadCurrentCmd() tea.Cmd {
	s, url, ok := m.coord.ReloadCurrent()
	if !ok {
		return nil
	}
	saver := m.coord.IsScreensaverActive()
	return loadSurfaceCmd(s, m.coord.CurrentIndex(), url, saver)
}

// loadSurfaceCmd runs one surface fetch off the update loop.
func loadSurfaceCmd(s surface.Surface, index int, url string, saver bool) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
		defer cancel()
		err := s.Load(ctx, url)
		return surfaceResultMsg{index: index, url: url, saver: saver, err: err}
	}
}

// fetchWeatherCmd fetches current conditions off the update loop.
func (m *Model) fetchWeatherCmd() tea.Cmd {
	client := m.weatherClient
	lat, lon := m.cfg.Latitude, m.cfg.Longitude
	if client == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		obs, err := client.Fetch(ctx, lat, lon)
		return weatherMsg{obs: obs, err: err}
	}
}

// fetchFactsCmd queries today's records off the update loop.
func (m *Model) fetchFactsCmd(open bool) tea.Cmd {
	store := m.factsStore
	now := m.clk.Now()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		records, err := store.TodaysFacts(ctx, now)
		return factsMsg{records: records, err: err, open: open}
	}
}

// setBackground recolors the terminal to the entry's background.
func (m *Model) setBackground(hex string) {
	if m.output == nil || hex == "" {
		return
	}
	m.output.SetBackgroundColor(termenv.RGBColor(hex))
}

// handleControl executes one control-socket command on the update loop
// and answers on the reply channel.
func (m *Model) handleControl(msg ControlMsg) (tea.Model, tea.Cmd) {
	reply := func(result any, err error) {
		msg.Reply <- ControlReply{Result: result, Err: err}
	}

	switch msg.Name {
	case "get-config":
		reply(m.cfg, nil)
		return m, nil

	case "reload-config":
		cfg := config.LoadChain(m.configPath, m.log)
		reply(map[string]any{"entries": len(cfg.Entries)}, nil)
		return m, tea.Batch(m.applyConfig(cfg)...)

	case "save-config":
		if err := config.Save(m.cfg, m.configPath); err != nil {
			reply(nil, err)
			return m, nil
		}
		reply(map[string]string{"path": m.configPath}, nil)
		return m, nil

	case "reload-with-new-config":
		if len(msg.Args) < 1 {
			reply(nil, errors.New("usage: reload-with-new-config <path>"))
			return m, nil
		}
		cfg, err := config.LoadFromFile(msg.Args[0])
		if err != nil {
			reply(nil, err)
			return m, nil
		}
		cfg.Normalize()
		if err := cfg.Validate(); err != nil {
			reply(nil, err)
			return m, nil
		}
		reply(map[string]any{"entries": len(cfg.Entries)}, nil)
		return m, tea.Batch(m.applyConfig(cfg)...)

	case "go-to-slide":
		if len(msg.Args) < 1 {
			reply(nil, errors.New("usage: go-to-slide <index>"))
			return m, nil
		}
		index, err := strconv.Atoi(msg.Args[0])
		if err != nil {
			reply(nil, fmt.Errorf("bad index %q", msg.Args[0]))
			return m, nil
		}
		before := m.coord.CurrentIndex()
		m.coord.ShowContent(index)
		if m.coord.CurrentIndex() == before && before != index {
			reply(nil, fmt.Errorf("slide %d not shown", index))
		} else {
			reply(m.slideInfo(), nil)
		}
		return m, tea.Batch(m.processEvents()...)

	case "next-slide":
		m.coord.Next()
		reply(m.slideInfo(), nil)
		return m, tea.Batch(m.processEvents()...)

	case "previous-slide":
		m.coord.Previous()
		reply(m.slideInfo(), nil)
		return m, tea.Batch(m.processEvents()...)

	case "get-current-slide":
		reply(m.slideInfo(), nil)
		return m, nil

	case "reload-current-slide":
		reply("reloading", nil)
		return m, m.reloadCurrentCmd()

	case "hide-surface-for-modal", "set-modal-state-open":
		m.coord.SetModalOpen(true)
		reply(map[string]bool{"modal": m.coord.IsModalOpen()}, nil)
		return m, tea.Batch(m.processEvents()...)

	case "show-surface-after-modal", "set-modal-state-closed":
		if m.modal != modalNone {
			model, cmd := m.closeModal(nil)
			reply(map[string]bool{"modal": false}, nil)
			return model, cmd
		}
		m.coord.SetModalOpen(false)
		reply(map[string]bool{"modal": m.coord.IsModalOpen()}, nil)
		return m, tea.Batch(m.processEvents()...)

	case "set-modal-state":
		if len(msg.Args) < 1 {
			reply(nil, errors.New("usage: set-modal-state <true|false>"))
			return m, nil
		}
		open, err := strconv.ParseBool(msg.Args[0])
		if err != nil {
			reply(nil, fmt.Errorf("bad modal state %q", msg.Args[0]))
			return m, nil
		}
		if !open && m.modal != modalNone {
			model, cmd := m.closeModal(nil)
			reply(map[string]bool{"modal": false}, nil)
			return model, cmd
		}
		m.coord.SetModalOpen(open)
		reply(map[string]bool{"modal": m.coord.IsModalOpen()}, nil)
		return m, tea.Batch(m.processEvents()...)

	case "show-screensaver":
		m.coord.ShowScreensaver()
		reply(map[string]bool{"active": m.coord.IsScreensaverActive()}, nil)
		return m, tea.Batch(m.processEvents()...)

	case "hide-screensaver":
		m.coord.HideScreensaver()
		reply(map[string]bool{"active": m.coord.IsScreensaverActive()}, nil)
		return m, tea.Batch(m.processEvents()...)

	case "is-screensaver-active":
		reply(map[string]bool{"active": m.coord.IsScreensaverActive()}, nil)
		return m, nil

	case "get-moon-phase":
		reply(astro.Phase(m.clk.Now()), nil)
		return m, nil

	case "get-todays-facts":
		if m.factsStore == nil {
			reply(nil, errors.New("facts store unavailable"))
			return m, nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		records, err := m.factsStore.TodaysFacts(ctx, m.clk.Now())
		reply(records, err)
		return m, nil

	case "bind":
		if len(msg.Args) < 2 {
			reply(nil, errors.New("usage: bind <key> <action>"))
			return m, nil
		}
		action, err := input.ParseAction(msg.Args[1])
		if err != nil {
			reply(nil, err)
			return m, nil
		}
		m.bindings.Bind(msg.Args[0], action)
		reply("bound", nil)
		return m, nil

	case "unbind":
		if len(msg.Args) < 1 {
			reply(nil, errors.New("usage: unbind <key>"))
			return m, nil
		}
		m.bindings.Unbind(msg.Args[0])
		reply("unbound", nil)
		return m, nil

	case "list-bindings":
		reply(m.bindings.List(), nil)
		return m, nil

	case "exit":
		reply("exiting", nil)
		model, cmd := m.quit()
		return model, cmd

	default:
		reply(nil, fmt.Errorf("unknown command %q", msg.Name))
		return m, nil
	}
}

// slideInfo summarizes the visible slide for control replies.
func (m *Model) slideInfo() map[string]any {
	st := m.coord.State()
	entries := m.coord.Entries()
	info := map[string]any{
		"index":       st.Index,
		"count":       len(entries),
		"screensaver": st.Mode == coordinator.ModeScreensaver,
	}
	if st.Index >= 0 && st.Index < len(entries) {
		info["url"] = entries[st.Index].URL
	}
	return info
}

func modalWidth(w int) int {
	mw := w * 3 / 4
	if mw > 72 {
		mw = 72
	}
	if mw < 20 {
		mw = w
	}
	return mw
}

func modalHeight(h int) int {
	mh := h * 3 / 4
	if mh > 20 {
		mh = 20
	}
	if mh < 8 {
		mh = h
	}
	return mh
}
