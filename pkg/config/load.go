package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ShippedDefaultPath is where a distribution package installs the default
// configuration. It is the second stop in the load fallback chain.
var ShippedDefaultPath = "/usr/share/signpost/config.toml"

// UserConfigPath returns the user's config file location:
// $XDG_CONFIG_HOME/signpost/config.toml, falling back to
// ~/.config/signpost/config.toml.
func UserConfigPath() string {
	home, _ := os.UserHomeDir()
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "signpost", "config.toml")
}

// LoadChain loads configuration with the three-level fallback: user config,
// then the shipped default, then the hardcoded literal. Read failures are
// logged and never fatal. The returned config is always normalized.
func LoadChain(userPath string, log *slog.Logger) *Config {
	for _, p := range []string{userPath, ShippedDefaultPath} {
		if p == "" {
			continue
		}
		cfg, err := LoadFromFile(p)
		if err == nil {
			cfg.Normalize()
			return cfg
		}
		if !os.IsNotExist(err) {
			log.Warn("config file unreadable, falling back", "path", p, "error", err)
		}
	}
	log.Info("no config file found, using built-in defaults")
	cfg := Default()
	cfg.Normalize()
	return cfg
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return LoadFromReader(f)
}

// LoadFromReader decodes TOML configuration. Missing fields keep their
// zero values; callers normalize afterwards.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	if _, err := toml.NewDecoder(r).Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Save writes the configuration to path atomically (temp file then rename).
// On failure the file at path is left as it was and the error carries a
// human-readable detail for the settings form.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("config: create directory %s: %w", filepath.Dir(path), err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.toml")
	if err != nil {
		return fmt.Errorf("config: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := toml.NewEncoder(tmp).Encode(cfg); err != nil {
		tmp.Close()
		return fmt.Errorf("config: encode: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("config: close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("config: write %s: %w", path, err)
	}
	return nil
}

// applyEnvOverrides lets fleet provisioning pin a few fields without
// touching the file.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SIGNPOST_SCREENSAVER_URL"); v != "" {
		cfg.ScreensaverURL = v
	}
	if v := os.Getenv("SIGNPOST_LATITUDE"); v != "" {
		fmt.Sscanf(v, "%f", &cfg.Latitude)
	}
	if v := os.Getenv("SIGNPOST_LONGITUDE"); v != "" {
		fmt.Sscanf(v, "%f", &cfg.Longitude)
	}
}
