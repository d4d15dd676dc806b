package widgets

import (
	"strings"
	"testing"
	"time"

	"gitlab.com/tinyland/lab/signpost/pkg/astro"
	"gitlab.com/tinyland/lab/signpost/pkg/components"
	"gitlab.com/tinyland/lab/signpost/pkg/facts"
	"gitlab.com/tinyland/lab/signpost/pkg/weather"
)

func TestMoonWidgetPlaceholder(t *testing.T) {
	w := NewMoonWidget()
	if !strings.Contains(w.View(40), Placeholder) {
		t.Errorf("empty moon widget = %q, want placeholder", w.View(40))
	}
}

func TestMoonWidgetShowsPhase(t *testing.T) {
	w := NewMoonWidget()
	w.SetPhase(astro.MoonPhase{Phase: "Full Moon", Emoji: "🌕"})
	got := w.View(40)
	if !strings.Contains(got, "🌕") || !strings.Contains(got, "Full Moon") {
		t.Errorf("View = %q", got)
	}
}

func TestWeatherWidgetPlaceholders(t *testing.T) {
	w := NewWeatherWidget("C", "24", true, true)
	got := w.View(80)
	if !strings.Contains(got, Placeholder+"°") || !strings.Contains(got, "--:--") {
		t.Errorf("empty weather widget = %q", got)
	}
}

func testObservation() weather.Observation {
	return weather.Observation{
		TemperatureC: 20,
		Humidity:     45,
		UVIndex:      5.5,
		Sunrise:      time.Date(2026, 6, 1, 6, 12, 0, 0, time.Local),
		Sunset:       time.Date(2026, 6, 1, 19, 48, 0, 0, time.Local),
	}
}

func TestWeatherWidgetCelsius(t *testing.T) {
	w := NewWeatherWidget("C", "24", true, true)
	w.SetObservation(testObservation())
	got := w.View(80)
	for _, want := range []string{"20°C", "45%", "06:12", "19:48"} {
		if !strings.Contains(got, want) {
			t.Errorf("View = %q, missing %q", got, want)
		}
	}
}

func TestWeatherWidgetFahrenheit12h(t *testing.T) {
	w := NewWeatherWidget("F", "12", true, false)
	w.SetObservation(testObservation())
	got := w.View(80)
	if !strings.Contains(got, "68°F") {
		t.Errorf("View = %q, want 68°F", got)
	}
	if strings.Contains(got, "45%") {
		t.Errorf("humidity shown despite being disabled: %q", got)
	}
	if !strings.Contains(got, "6:12 AM") {
		t.Errorf("View = %q, want 12h sunrise", got)
	}
}

func TestUVWidgetStates(t *testing.T) {
	w := NewUVWidget()
	if !strings.Contains(w.View(40), Placeholder) {
		t.Errorf("fresh UV widget = %q", w.View(40))
	}

	w.SetValue(7.2)
	if !strings.Contains(w.View(40), "UV 7.2") {
		t.Errorf("UV view = %q", w.View(40))
	}

	// Night pins the display to zero without hiding the widget.
	w.SetNight()
	if !strings.Contains(w.View(40), "UV 0.0") {
		t.Errorf("night UV view = %q", w.View(40))
	}
}

func TestUVWidgetClampsNegative(t *testing.T) {
	w := NewUVWidget()
	w.SetValue(-1)
	if !strings.Contains(w.View(40), "UV 0.0") {
		t.Errorf("negative UV view = %q", w.View(40))
	}
}

func sampleFacts() []facts.Fact {
	return []facts.Fact{
		{Year: 2009, Title: "Genesis block mined", Description: "Block 0 is mined.", Category: "protocol"},
		{Year: 2018, Title: "Proof of Keys day", Description: "Users withdraw coins to self-custody.", Category: "culture"},
	}
}

func TestFactsBrowserPaging(t *testing.T) {
	b := NewFactsBrowser()
	b.SetSize(60, 14)
	b.SetFacts(sampleFacts())

	if b.Index() != 0 || b.Count() != 2 {
		t.Fatalf("initial index=%d count=%d", b.Index(), b.Count())
	}
	b.Next()
	if b.Index() != 1 {
		t.Errorf("after Next index = %d", b.Index())
	}
	b.Next()
	if b.Index() != 0 {
		t.Errorf("Next did not wrap: index = %d", b.Index())
	}
	b.Previous()
	if b.Index() != 1 {
		t.Errorf("Previous did not wrap: index = %d", b.Index())
	}
}

func TestFactsBrowserView(t *testing.T) {
	b := NewFactsBrowser()
	b.SetSize(60, 14)
	b.SetFacts(sampleFacts())

	got := b.View()
	if !strings.Contains(got, "2009") || !strings.Contains(got, "Genesis block mined") {
		t.Errorf("view missing first record:\n%s", got)
	}
	if !strings.Contains(got, "(1/2)") {
		t.Errorf("view missing position indicator:\n%s", got)
	}

	lines := strings.Split(got, "\n")
	if len(lines) != 14 {
		t.Errorf("modal height = %d, want 14", len(lines))
	}
	for i, l := range lines {
		if components.VisibleLen(l) != 60 {
			t.Errorf("line %d width = %d, want 60", i, components.VisibleLen(l))
		}
	}
}

func TestFactsBrowserEmpty(t *testing.T) {
	b := NewFactsBrowser()
	b.SetSize(60, 10)
	b.SetFacts(nil)

	b.Next() // must not panic
	b.Previous()
	if got := b.View(); !strings.Contains(got, "Nothing happened") {
		t.Errorf("empty view = %q", got)
	}
}

func TestFactsBrowserTooSmall(t *testing.T) {
	b := NewFactsBrowser()
	b.SetSize(5, 3)
	b.SetFacts(sampleFacts())
	if got := b.View(); got != "" {
		t.Errorf("tiny modal rendered %q", got)
	}
}
