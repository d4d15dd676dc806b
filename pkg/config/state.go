package config

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// runState is the small record persisted between runs, separate from the
// configuration so the kiosk never rewrites a hand-edited config file.
type runState struct {
	CurrentIndex int `json:"current_index"`
}

// StatePath returns the run-state file location:
// $XDG_STATE_HOME/signpost/state.json, falling back to
// ~/.local/state/signpost/state.json.
func StatePath() string {
	home, _ := os.UserHomeDir()
	xdg := os.Getenv("XDG_STATE_HOME")
	if xdg == "" {
		xdg = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(xdg, "signpost", "state.json")
}

// LoadSavedIndex returns the slide index from the previous run, or 0 when
// no usable state exists.
func LoadSavedIndex(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	var st runState
	if err := json.Unmarshal(data, &st); err != nil || st.CurrentIndex < 0 {
		return 0
	}
	return st.CurrentIndex
}

// SaveIndex persists the visible slide index for the next run.
func SaveIndex(path string, index int) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.Marshal(runState{CurrentIndex: index})
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
