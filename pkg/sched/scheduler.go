// Package sched owns every time-based trigger in the kiosk: the
// self-perpetuating auto-rotate countdown, the daily wall-clock-anchored
// data refreshes, and the periodic UV refresh with daylight gating.
//
// The scheduler never acts on its own state; every expiry is delivered to
// a single fire callback, which the host routes into the event loop. That
// keeps the coordinator the only mutation point for presentation state.
package sched

import (
	"sync"
	"time"

	"gitlab.com/tinyland/lab/signpost/pkg/clock"
)

// Trigger identifies which schedule expired.
type Trigger int

const (
	// TriggerAutoRotate advances to the next slide.
	TriggerAutoRotate Trigger = iota
	// TriggerCountdown is the once-per-second display tick. It is advisory
	// only; navigation timing is driven by TriggerAutoRotate.
	TriggerCountdown
	// TriggerMoonRefresh fires daily at 01:00 local.
	TriggerMoonRefresh
	// TriggerWeatherRefresh fires daily at 03:00 local.
	TriggerWeatherRefresh
	// TriggerFactsRefresh fires daily at midnight local.
	TriggerFactsRefresh
	// TriggerUVRefresh fires on the configured periodic interval.
	TriggerUVRefresh
)

// Wall-clock anchor hours for the daily refreshes. These are intentionally
// wall-clock based, not monotonic: a system clock change or DST shift moves
// the next fire accordingly.
const (
	MoonRefreshHour    = 1
	WeatherRefreshHour = 3
	FactsRefreshHour   = 0
)

// Fire is delivered to the host for every expired schedule.
type Fire struct {
	Trigger   Trigger
	Remaining time.Duration // countdown ticks only
	Daylight  bool          // UV refreshes only
}

// Options selects which schedules exist and their periods.
type Options struct {
	AutoRotate         bool
	AutoRotateInterval time.Duration
	MoonEnabled        bool
	WeatherEnabled     bool
	FactsEnabled       bool
	UVEnabled          bool
	UVInterval         time.Duration
}

// Scheduler manages the kiosk's timers. Create one with New, arm it with
// Start, and always Stop it on teardown: every timer created here has a
// matching cancellation path.
type Scheduler struct {
	clock clock.Clock
	opts  Options
	fire  func(Fire)

	mu           sync.Mutex
	autoRotate   clock.Timer
	countdown    clock.Timer
	deadline     time.Time // next auto-rotate expiry, for the countdown
	rotateArmed  bool
	paused       bool
	moonTimer    clock.Timer
	weatherTimer clock.Timer
	factsTimer   clock.Timer
	uvTimer      clock.Timer
	sunrise      time.Time
	sunset       time.Time
	stopped      bool
}

// New creates a Scheduler. fire is invoked from timer goroutines; hosts
// should forward it into their event loop rather than mutate state in it.
func New(c clock.Clock, opts Options, fire func(Fire)) *Scheduler {
	return &Scheduler{clock: c, opts: opts, fire: fire}
}

// Start arms every schedule whose feature is enabled.
func (s *Scheduler) Start() {
	s.ResetAutoRotate()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.opts.MoonEnabled {
		s.armDailyLocked(&s.moonTimer, MoonRefreshHour, TriggerMoonRefresh)
	}
	if s.opts.WeatherEnabled {
		s.armDailyLocked(&s.weatherTimer, WeatherRefreshHour, TriggerWeatherRefresh)
	}
	if s.opts.FactsEnabled {
		s.armDailyLocked(&s.factsTimer, FactsRefreshHour, TriggerFactsRefresh)
	}
	if s.opts.UVEnabled && s.opts.UVInterval > 0 {
		s.armUVLocked()
	}
}

// ResetAutoRotate re-arms the auto-rotate leg from "now". The coordinator
// calls this on every navigation, which is what makes the single-shot timer
// self-perpetuating. Disabled entirely when auto-rotate is off or the
// interval is not positive.
func (s *Scheduler) ResetAutoRotate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopRotateLocked()
	if s.stopped || s.paused || !s.opts.AutoRotate || s.opts.AutoRotateInterval <= 0 {
		return
	}
	s.deadline = s.clock.Now().Add(s.opts.AutoRotateInterval)
	s.rotateArmed = true
	s.autoRotate = s.clock.AfterFunc(s.opts.AutoRotateInterval, func() {
		s.mu.Lock()
		if s.stopped || s.paused {
			s.mu.Unlock()
			return
		}
		s.rotateArmed = false
		s.mu.Unlock()
		s.fire(Fire{Trigger: TriggerAutoRotate})
	})
	s.armCountdownLocked()
}

// PauseAll suspends the navigation-affecting timers (auto-rotate and its
// countdown). The daily and periodic data refreshes keep running; a stale
// overlay update while a modal is open is harmless.
func (s *Scheduler) PauseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.paused {
		return
	}
	s.paused = true
	// rotateArmed survives the pause so ResumeAll knows whether to re-arm.
	wasArmed := s.rotateArmed
	s.stopRotateLocked()
	s.rotateArmed = wasArmed
}

// ResumeAll re-arms auto-rotate from "now" if it was armed before PauseAll.
func (s *Scheduler) ResumeAll() {
	s.mu.Lock()
	if !s.paused {
		s.mu.Unlock()
		return
	}
	s.paused = false
	rearm := s.rotateArmed
	s.mu.Unlock()
	if rearm {
		s.ResetAutoRotate()
	}
}

// Stop cancels every timer. The scheduler cannot be restarted.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	s.stopRotateLocked()
	for _, t := range []clock.Timer{s.moonTimer, s.weatherTimer, s.factsTimer, s.uvTimer} {
		if t != nil {
			t.Stop()
		}
	}
	s.moonTimer, s.weatherTimer, s.factsTimer, s.uvTimer = nil, nil, nil, nil
}

// SetDaylight caches the sunrise/sunset instants reported by the weather
// refresh. UV fires are gated on them.
func (s *Scheduler) SetDaylight(sunrise, sunset time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sunrise, s.sunset = sunrise, sunset
}

// IsDaylight reports whether now falls between the cached sunrise and
// sunset. Until the first weather refresh supplies them it defaults to
// true, so a fresh boot fetches UV rather than deadlocking on itself.
func (s *Scheduler) IsDaylight(now time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sunrise.IsZero() || s.sunset.IsZero() {
		return true
	}
	return !now.Before(s.sunrise) && now.Before(s.sunset)
}

// Remaining returns the time left on the auto-rotate countdown, clamped to
// zero. For display only.
func (s *Scheduler) Remaining() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.rotateArmed {
		return 0
	}
	left := s.deadline.Sub(s.clock.Now())
	if left < 0 {
		return 0
	}
	return left
}

func (s *Scheduler) stopRotateLocked() {
	if s.autoRotate != nil {
		s.autoRotate.Stop()
		s.autoRotate = nil
	}
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	s.rotateArmed = false
}

func (s *Scheduler) armCountdownLocked() {
	var tick func()
	tick = func() {
		s.mu.Lock()
		if s.stopped || s.paused || !s.rotateArmed {
			s.mu.Unlock()
			return
		}
		left := s.deadline.Sub(s.clock.Now())
		if left < 0 {
			left = 0
		}
		s.countdown = s.clock.AfterFunc(time.Second, tick)
		s.mu.Unlock()
		s.fire(Fire{Trigger: TriggerCountdown, Remaining: left})
	}
	s.countdown = s.clock.AfterFunc(time.Second, tick)
}

// armDailyLocked schedules the first fire at the next occurrence of hour
// local time, then re-arms as a fixed 24-hour repeating timer.
func (s *Scheduler) armDailyLocked(slot *clock.Timer, hour int, tr Trigger) {
	var fireAndRearm func()
	fireAndRearm = func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		*slot = s.clock.AfterFunc(24*time.Hour, fireAndRearm)
		s.mu.Unlock()
		s.fire(Fire{Trigger: tr})
	}
	*slot = s.clock.AfterFunc(s.untilNextHour(hour), fireAndRearm)
}

func (s *Scheduler) armUVLocked() {
	var fireAndRearm func()
	fireAndRearm = func() {
		s.mu.Lock()
		if s.stopped {
			s.mu.Unlock()
			return
		}
		s.uvTimer = s.clock.AfterFunc(s.opts.UVInterval, fireAndRearm)
		s.mu.Unlock()
		s.fire(Fire{Trigger: TriggerUVRefresh, Daylight: s.IsDaylight(s.clock.Now())})
	}
	s.uvTimer = s.clock.AfterFunc(s.opts.UVInterval, fireAndRearm)
}

// untilNextHour computes the delay to the next occurrence of hour:00 local.
// If that time today is already past (or is exactly now), it anchors to
// tomorrow.
func (s *Scheduler) untilNextHour(hour int) time.Duration {
	now := s.clock.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.Add(24 * time.Hour)
	}
	return next.Sub(now)
}
