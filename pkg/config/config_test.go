package config

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestLegacyStringEntriesNormalize(t *testing.T) {
	input := `
entries = [
  "https://mempool.space",
  { url = "https://bitfeed.live", background = "#222222" },
]
auto_rotate = true
auto_rotate_interval_ms = 60000
`
	cfg, err := LoadFromReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	cfg.Normalize()

	if len(cfg.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(cfg.Entries))
	}
	if cfg.Entries[0].URL != "https://mempool.space" {
		t.Errorf("entry 0 url = %q", cfg.Entries[0].URL)
	}
	if cfg.Entries[0].Background != DefaultBackground {
		t.Errorf("legacy string entry should get black background, got %q", cfg.Entries[0].Background)
	}
	if cfg.Entries[1].Background != "#222222" {
		t.Errorf("entry 1 background = %q", cfg.Entries[1].Background)
	}
}

func TestEmptyEntriesFallBackToDefaultPair(t *testing.T) {
	cfg := &Config{}
	cfg.Normalize()

	if len(cfg.Entries) != 2 {
		t.Fatalf("expected built-in default pair, got %d entries", len(cfg.Entries))
	}
	for i, e := range cfg.Entries {
		if e.URL == "" || e.Background == "" {
			t.Errorf("default entry %d incomplete: %+v", i, e)
		}
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	want := Default()
	want.Entries = []DisplayEntry{
		{URL: "https://example.com/a", Background: "#111111"},
		{URL: "https://example.com/b", Background: "#222222"},
	}
	want.AutoRotateIntervalMs = 45000
	want.Latitude = 51.5
	want.Longitude = -0.12
	want.TemperatureUnit = "F"
	want.TimeFormat = "12"

	if err := Save(want, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile: %v", err)
	}
	got.Normalize()

	if len(got.Entries) != len(want.Entries) {
		t.Fatalf("entries length: got %d want %d", len(got.Entries), len(want.Entries))
	}
	for i := range want.Entries {
		if got.Entries[i] != want.Entries[i] {
			t.Errorf("entry %d: got %+v want %+v", i, got.Entries[i], want.Entries[i])
		}
	}
	gotNoEntries := *got
	gotNoEntries.Entries = nil
	wantNoEntries := *want
	wantNoEntries.Entries = nil
	if !reflect.DeepEqual(gotNoEntries, wantNoEntries) {
		t.Errorf("round trip changed scalar fields:\ngot  %+v\nwant %+v", gotNoEntries, wantNoEntries)
	}
}

func TestSaveFailureLeavesFileUntouched(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("# original\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// Make the directory read-only so the temp file cannot be created.
	if err := os.Chmod(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	defer os.Chmod(dir, 0o755)

	if err := Save(Default(), path); err == nil {
		t.Skip("running as root, cannot simulate read-only directory")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !bytes.Equal(data, []byte("# original\n")) {
		t.Error("failed save modified the existing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults are valid", func(c *Config) {}, ""},
		{"no entries", func(c *Config) { c.Entries = nil }, "display entry"},
		{"malformed url", func(c *Config) { c.Entries[0].URL = "not a url" }, "URL"},
		{"latitude too big", func(c *Config) { c.Latitude = 91 }, "latitude"},
		{"longitude too small", func(c *Config) { c.Longitude = -181 }, "longitude"},
		{"zero interval with rotate", func(c *Config) { c.AutoRotateIntervalMs = 0 }, "auto_rotate_interval_ms"},
		{"uv frequency zero", func(c *Config) { c.UVUpdateFrequencyMinutes = 0 }, "uv_update_frequency"},
		{"quotes screensaver ok", func(c *Config) { c.ScreensaverURL = "quotes://satoshi" }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestNormalizeClampsEnums(t *testing.T) {
	cfg := &Config{TemperatureUnit: "kelvin", TimeFormat: "13"}
	cfg.Normalize()
	if cfg.TemperatureUnit != "C" {
		t.Errorf("temperature_unit = %q, want C", cfg.TemperatureUnit)
	}
	if cfg.TimeFormat != "24" {
		t.Errorf("time_format = %q, want 24", cfg.TimeFormat)
	}
	if cfg.UVUpdateFrequencyMinutes != 60 {
		t.Errorf("uv frequency = %d, want 60", cfg.UVUpdateFrequencyMinutes)
	}
}
