package sched

import (
	"testing"
	"time"

	"gitlab.com/tinyland/lab/signpost/pkg/clock"
)

// recorder collects fires synchronously; safe because the fake clock fires
// callbacks on the Advance goroutine.
type recorder struct {
	fires []Fire
}

func (r *recorder) fire(f Fire) { r.fires = append(r.fires, f) }

func (r *recorder) count(tr Trigger) int {
	n := 0
	for _, f := range r.fires {
		if f.Trigger == tr {
			n++
		}
	}
	return n
}

// localTime builds a local wall-clock instant for anchor tests.
func localTime(hour, min int) time.Time {
	return time.Date(2026, time.March, 10, hour, min, 0, 0, time.Local)
}

func newScheduler(c *clock.Fake, opts Options) (*Scheduler, *recorder) {
	rec := &recorder{}
	return New(c, opts, rec.fire), rec
}

func TestAutoRotateFiresOnceAtInterval(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{AutoRotate: true, AutoRotateInterval: 60 * time.Second})
	s.Start()

	c.Advance(60 * time.Second)

	if got := rec.count(TriggerAutoRotate); got != 1 {
		t.Fatalf("expected exactly 1 auto-rotate fire after 60s, got %d", got)
	}
	// Single-shot: nothing else happens until someone resets it.
	c.Advance(10 * time.Minute)
	if got := rec.count(TriggerAutoRotate); got != 1 {
		t.Fatalf("single-shot timer fired again without reset: %d fires", got)
	}
}

func TestResetAutoRotateSelfPerpetuates(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{AutoRotate: true, AutoRotateInterval: 30 * time.Second})
	s.Start()

	for i := 0; i < 3; i++ {
		c.Advance(30 * time.Second)
		s.ResetAutoRotate() // what the coordinator does on each navigation
	}
	if got := rec.count(TriggerAutoRotate); got != 3 {
		t.Fatalf("expected 3 fires over 3 reset cycles, got %d", got)
	}
}

func TestAutoRotateDisabled(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{"flag off", Options{AutoRotate: false, AutoRotateInterval: time.Minute}},
		{"zero interval", Options{AutoRotate: true, AutoRotateInterval: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := clock.NewFake(localTime(12, 0))
			s, rec := newScheduler(c, tt.opts)
			s.Start()
			c.Advance(time.Hour)
			if got := rec.count(TriggerAutoRotate); got != 0 {
				t.Fatalf("disabled auto-rotate fired %d times", got)
			}
		})
	}
}

func TestCountdownTicksEverySecond(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{AutoRotate: true, AutoRotateInterval: 10 * time.Second})
	s.Start()

	c.Advance(3 * time.Second)
	if got := rec.count(TriggerCountdown); got != 3 {
		t.Fatalf("expected 3 countdown ticks after 3s, got %d", got)
	}
	for _, f := range rec.fires {
		if f.Trigger == TriggerCountdown && f.Remaining > 10*time.Second {
			t.Errorf("countdown remaining %v exceeds interval", f.Remaining)
		}
	}
}

func TestDailyAnchorPastTodayGoesToTomorrow(t *testing.T) {
	// Now is 02:00, the moon refresh anchors at 01:00: next fire must be 23
	// hours away, not one hour.
	c := clock.NewFake(localTime(2, 0))
	s, rec := newScheduler(c, Options{MoonEnabled: true})
	s.Start()

	c.Advance(22*time.Hour + 59*time.Minute)
	if got := rec.count(TriggerMoonRefresh); got != 0 {
		t.Fatalf("moon refresh fired %d times before tomorrow 01:00", got)
	}
	c.Advance(time.Minute)
	if got := rec.count(TriggerMoonRefresh); got != 1 {
		t.Fatalf("expected 1 moon refresh at tomorrow 01:00, got %d", got)
	}
}

func TestDailyAnchorBeforeTodayFiresToday(t *testing.T) {
	c := clock.NewFake(localTime(2, 0))
	s, rec := newScheduler(c, Options{WeatherEnabled: true})
	s.Start()

	c.Advance(time.Hour) // 03:00
	if got := rec.count(TriggerWeatherRefresh); got != 1 {
		t.Fatalf("expected weather refresh at 03:00 today, got %d", got)
	}
}

func TestDailyRearmsEvery24Hours(t *testing.T) {
	c := clock.NewFake(localTime(2, 0))
	s, rec := newScheduler(c, Options{FactsEnabled: true})
	s.Start()

	c.Advance(22 * time.Hour) // midnight: first fire
	c.Advance(48 * time.Hour) // two more
	if got := rec.count(TriggerFactsRefresh); got != 3 {
		t.Fatalf("expected 3 facts refreshes over ~3 days, got %d", got)
	}
}

func TestUVFiresPeriodically(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{UVEnabled: true, UVInterval: 15 * time.Minute})
	s.Start()

	c.Advance(time.Hour)
	if got := rec.count(TriggerUVRefresh); got != 4 {
		t.Fatalf("expected 4 UV fires in an hour at 15m, got %d", got)
	}
}

func TestDaylightDefaultsTrueWhenUnknown(t *testing.T) {
	c := clock.NewFake(localTime(23, 0))
	s, _ := newScheduler(c, Options{})
	if !s.IsDaylight(c.Now()) {
		t.Fatal("daylight must default to true before sunrise/sunset are known")
	}
}

func TestDaylightGating(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{UVEnabled: true, UVInterval: time.Hour})
	sunrise := localTime(6, 30)
	sunset := localTime(18, 15)
	s.SetDaylight(sunrise, sunset)
	s.Start()

	c.Advance(time.Hour) // 13:00, daylight
	c.Advance(6 * time.Hour) // fires at 14..19, the 19:00 one is after sunset

	var daylight, night int
	for _, f := range rec.fires {
		if f.Trigger != TriggerUVRefresh {
			continue
		}
		if f.Daylight {
			daylight++
		} else {
			night++
		}
	}
	if daylight == 0 || night == 0 {
		t.Fatalf("expected both daylight and night fires, got daylight=%d night=%d", daylight, night)
	}
}

func TestPauseResumePreservesArming(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{AutoRotate: true, AutoRotateInterval: time.Minute})
	s.Start()

	s.PauseAll()
	c.Advance(10 * time.Minute)
	if got := rec.count(TriggerAutoRotate); got != 0 {
		t.Fatalf("auto-rotate fired %d times while paused", got)
	}

	s.ResumeAll()
	c.Advance(time.Minute)
	if got := rec.count(TriggerAutoRotate); got != 1 {
		t.Fatalf("expected 1 fire one interval after resume, got %d", got)
	}
}

func TestPauseLeavesDataRefreshesRunning(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{UVEnabled: true, UVInterval: 10 * time.Minute})
	s.Start()

	s.PauseAll()
	c.Advance(30 * time.Minute)
	if got := rec.count(TriggerUVRefresh); got != 3 {
		t.Fatalf("UV refresh must keep running through a pause, got %d fires", got)
	}
}

func TestResumeWithoutPriorArmDoesNotArm(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{AutoRotate: false})
	s.Start()
	s.PauseAll()
	s.ResumeAll()
	c.Advance(time.Hour)
	if got := rec.count(TriggerAutoRotate); got != 0 {
		t.Fatalf("resume armed a rotate timer that was never enabled: %d fires", got)
	}
}

func TestStopCancelsEverything(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, rec := newScheduler(c, Options{
		AutoRotate: true, AutoRotateInterval: time.Minute,
		MoonEnabled: true, WeatherEnabled: true, FactsEnabled: true,
		UVEnabled: true, UVInterval: 5 * time.Minute,
	})
	s.Start()
	s.Stop()

	c.Advance(72 * time.Hour)
	if len(rec.fires) != 0 {
		t.Fatalf("timers leaked past Stop: %d fires", len(rec.fires))
	}
}

func TestRemainingClampsToZero(t *testing.T) {
	c := clock.NewFake(localTime(12, 0))
	s, _ := newScheduler(c, Options{AutoRotate: true, AutoRotateInterval: 30 * time.Second})
	s.Start()
	if got := s.Remaining(); got != 30*time.Second {
		t.Fatalf("remaining = %v, want 30s", got)
	}
	s.Stop()
	if got := s.Remaining(); got != 0 {
		t.Fatalf("remaining after stop = %v, want 0", got)
	}
}
