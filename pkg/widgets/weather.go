package widgets

import (
	"fmt"
	"strings"
	"time"

	"gitlab.com/tinyland/lab/signpost/pkg/components"
	"gitlab.com/tinyland/lab/signpost/pkg/weather"
)

// WeatherWidget shows current temperature, humidity, and sun times.
type WeatherWidget struct {
	obs *weather.Observation

	// Unit is "C" or "F"; TimeFormat is "12" or "24".
	Unit            string
	TimeFormat      string
	ShowTemperature bool
	ShowHumidity    bool
}

// NewWeatherWidget creates a weather widget with the given display
// settings. It shows placeholders until the first observation arrives.
func NewWeatherWidget(unit, timeFormat string, showTemp, showHumidity bool) *WeatherWidget {
	return &WeatherWidget{
		Unit:            unit,
		TimeFormat:      timeFormat,
		ShowTemperature: showTemp,
		ShowHumidity:    showHumidity,
	}
}

// ID returns the widget identifier.
func (w *WeatherWidget) ID() string { return "weather" }

// SetObservation updates the displayed conditions.
func (w *WeatherWidget) SetObservation(obs weather.Observation) {
	w.obs = &obs
}

// Observation returns the last observation, or nil before the first fetch.
func (w *WeatherWidget) Observation() *weather.Observation {
	return w.obs
}

// View renders the enabled segments separated by two spaces.
func (w *WeatherWidget) View(width int) string {
	var parts []string
	if w.ShowTemperature {
		parts = append(parts, "🌡 "+w.temperature())
	}
	if w.ShowHumidity {
		parts = append(parts, "💧 "+w.humidity())
	}
	parts = append(parts, "☀ "+w.sunTime(true), "🌇 "+w.sunTime(false))
	return components.Truncate(strings.Join(parts, "  "), width)
}

func (w *WeatherWidget) temperature() string {
	if w.obs == nil {
		return components.Dim(Placeholder + "°")
	}
	if w.Unit == "F" {
		return fmt.Sprintf("%.0f°F", w.obs.TemperatureF())
	}
	return fmt.Sprintf("%.0f°C", w.obs.TemperatureC)
}

func (w *WeatherWidget) humidity() string {
	if w.obs == nil {
		return components.Dim(Placeholder + "%")
	}
	return fmt.Sprintf("%.0f%%", w.obs.Humidity)
}

func (w *WeatherWidget) sunTime(rise bool) string {
	if w.obs == nil {
		return components.Dim("--:--")
	}
	t := w.obs.Sunset
	if rise {
		t = w.obs.Sunrise
	}
	if t.IsZero() {
		return components.Dim("--:--")
	}
	return formatClock(t, w.TimeFormat)
}

// formatClock formats a wall-clock time per the configured 12/24h setting.
func formatClock(t time.Time, timeFormat string) string {
	if timeFormat == "12" {
		return t.Format("3:04 PM")
	}
	return t.Format("15:04")
}
