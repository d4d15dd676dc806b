// Package config provides TOML-based configuration for the signpost kiosk.
package config

import (
	"fmt"
	"net/url"
	"strings"
)

// DisplayEntry is one configured page the kiosk can display.
//
// In the TOML file an entry may be either a bare URL string (legacy form,
// implying a black background) or a table {url, background}. Both forms
// normalize to this struct on load.
type DisplayEntry struct {
	URL        string `toml:"url"`
	Background string `toml:"background"`
}

// UnmarshalTOML accepts both the legacy string form and the table form.
func (e *DisplayEntry) UnmarshalTOML(v interface{}) error {
	switch val := v.(type) {
	case string:
		e.URL = val
		e.Background = DefaultBackground
		return nil
	case map[string]interface{}:
		if u, ok := val["url"].(string); ok {
			e.URL = u
		}
		if bg, ok := val["background"].(string); ok {
			e.Background = bg
		}
		if e.Background == "" {
			e.Background = DefaultBackground
		}
		return nil
	default:
		return fmt.Errorf("config: entry must be a URL string or a {url, background} table, got %T", v)
	}
}

// DefaultBackground is the host window color applied when an entry does not
// name one.
const DefaultBackground = "#000000"

// ScreensaverQuotesPrefix is the reserved URL scheme that resolves to the
// bundled quotes collection instead of a network address.
const ScreensaverQuotesPrefix = "quotes://"

// Config is the full kiosk configuration record. It is loaded once at
// startup, replaced wholesale on settings save, and never partially mutated.
type Config struct {
	Entries []DisplayEntry `toml:"entries"`

	AutoRotate           bool `toml:"auto_rotate"`
	AutoRotateIntervalMs int  `toml:"auto_rotate_interval_ms"`
	Fullscreen           bool `toml:"fullscreen"`

	ScreensaverURL     string `toml:"screensaver_url"`
	ScreensaverEnabled bool   `toml:"screensaver_enabled"`

	ShowMoonPhase   bool `toml:"show_moon_phase"`
	ShowWeather     bool `toml:"show_weather"`
	ShowUV          bool `toml:"show_uv"`
	ShowTemperature bool `toml:"show_temperature"`
	ShowHumidity    bool `toml:"show_humidity"`

	Latitude  float64 `toml:"latitude"`
	Longitude float64 `toml:"longitude"`

	TemperatureUnit string `toml:"temperature_unit"` // "C" or "F"
	TimeFormat      string `toml:"time_format"`      // "12" or "24"

	UVUpdateFrequencyMinutes int `toml:"uv_update_frequency_minutes"`
}

// Default returns the hardcoded fallback configuration, used when neither
// the user config nor the shipped default can be read.
func Default() *Config {
	return &Config{
		Entries: []DisplayEntry{
			{URL: "https://mempool.space", Background: "#11131f"},
			{URL: "https://bitcoinexplorer.org", Background: "#0d1117"},
		},
		AutoRotate:               true,
		AutoRotateIntervalMs:     60000,
		Fullscreen:               true,
		ScreensaverURL:           ScreensaverQuotesPrefix + "satoshi",
		ScreensaverEnabled:       true,
		ShowMoonPhase:            true,
		ShowWeather:              true,
		ShowUV:                   true,
		ShowTemperature:          true,
		ShowHumidity:             true,
		Latitude:                 40.7128,
		Longitude:                -74.0060,
		TemperatureUnit:          "C",
		TimeFormat:               "24",
		UVUpdateFrequencyMinutes: 60,
	}
}

// Normalize fills in anything a hand-edited file may have left out so the
// rest of the program never sees a half-formed config. An empty entry list
// falls back to the built-in default pair.
func (c *Config) Normalize() {
	if len(c.Entries) == 0 {
		c.Entries = Default().Entries
	}
	for i := range c.Entries {
		if c.Entries[i].Background == "" {
			c.Entries[i].Background = DefaultBackground
		}
	}
	if c.AutoRotateIntervalMs <= 0 {
		c.AutoRotate = false
	}
	if c.TemperatureUnit != "F" {
		c.TemperatureUnit = "C"
	}
	if c.TimeFormat != "12" {
		c.TimeFormat = "24"
	}
	if c.UVUpdateFrequencyMinutes < 1 {
		c.UVUpdateFrequencyMinutes = 60
	}
}

// Validate checks the fields a settings form is allowed to change. It
// returns the first problem found as a human-readable error.
func (c *Config) Validate() error {
	if len(c.Entries) == 0 {
		return fmt.Errorf("config: at least one display entry is required")
	}
	for i, e := range c.Entries {
		if err := validateURL(e.URL); err != nil {
			return fmt.Errorf("config: entry %d: %w", i, err)
		}
	}
	if c.AutoRotate && c.AutoRotateIntervalMs <= 0 {
		return fmt.Errorf("config: auto_rotate_interval_ms must be > 0 when auto-rotate is on")
	}
	if c.Latitude < -90 || c.Latitude > 90 {
		return fmt.Errorf("config: latitude %.4f out of range [-90, 90]", c.Latitude)
	}
	if c.Longitude < -180 || c.Longitude > 180 {
		return fmt.Errorf("config: longitude %.4f out of range [-180, 180]", c.Longitude)
	}
	if c.UVUpdateFrequencyMinutes < 1 {
		return fmt.Errorf("config: uv_update_frequency_minutes must be >= 1")
	}
	if c.ScreensaverEnabled && c.ScreensaverURL != "" &&
		!strings.HasPrefix(c.ScreensaverURL, ScreensaverQuotesPrefix) {
		if err := validateURL(c.ScreensaverURL); err != nil {
			return fmt.Errorf("config: screensaver: %w", err)
		}
	}
	return nil
}

func validateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" && u.Scheme != "file" {
		return fmt.Errorf("URL %q must use http, https, or file scheme", raw)
	}
	if u.Scheme != "file" && u.Host == "" {
		return fmt.Errorf("URL %q has no host", raw)
	}
	return nil
}

// Clone returns a deep copy. Settings editing works on a clone so a failed
// save leaves the live config untouched.
func (c *Config) Clone() *Config {
	out := *c
	out.Entries = make([]DisplayEntry, len(c.Entries))
	copy(out.Entries, c.Entries)
	return &out
}
