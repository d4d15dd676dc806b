package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"

	"gitlab.com/tinyland/lab/signpost/pkg/components"
	"gitlab.com/tinyland/lab/signpost/pkg/config"
	"gitlab.com/tinyland/lab/signpost/pkg/widgets"
)

// fieldKind distinguishes the row types in the settings form.
type fieldKind int

const (
	fieldText fieldKind = iota
	fieldBool
	fieldChoice
)

// settingsRow is one editable row.
type settingsRow struct {
	kind    fieldKind
	label   string
	input   textinput.Model // fieldText
	boolVal bool            // fieldBool
	choice  int             // fieldChoice: index into choices
	choices []string
}

// settingsForm is the modal for editing the kiosk configuration in place.
type settingsForm struct {
	rows       []settingsRow
	focus      int
	base       *config.Config
	configPath string
	errMsg     string
	device     string
	width      int
	height     int
}

// Row indices; the save logic reads rows back by position.
const (
	rowScreensaverURL = iota
	rowLatitude
	rowLongitude
	rowRotateInterval
	rowUVInterval
	rowAutoRotate
	rowScreensaverOn
	rowMoon
	rowWeather
	rowUV
	rowTemperature
	rowHumidity
	rowFullscreen
	rowUnit
	rowTimeFormat
	rowCount
)

// newSettingsForm builds the form pre-filled from cfg.
func newSettingsForm(cfg *config.Config, configPath string) *settingsForm {
	f := &settingsForm{
		base:       cfg.Clone(),
		configPath: configPath,
		device:     deviceStatusLine(),
	}

	text := func(label, value string) settingsRow {
		ti := textinput.New()
		ti.Prompt = ""
		ti.CharLimit = 128
		ti.Width = 32
		ti.SetValue(value)
		return settingsRow{kind: fieldText, label: label, input: ti}
	}
	toggle := func(label string, v bool) settingsRow {
		return settingsRow{kind: fieldBool, label: label, boolVal: v}
	}
	choice := func(label string, options []string, current string) settingsRow {
		idx := 0
		for i, o := range options {
			if o == current {
				idx = i
			}
		}
		return settingsRow{kind: fieldChoice, label: label, choices: options, choice: idx}
	}

	f.rows = make([]settingsRow, rowCount)
	f.rows[rowScreensaverURL] = text("Screensaver URL", cfg.ScreensaverURL)
	f.rows[rowLatitude] = text("Latitude", strconv.FormatFloat(cfg.Latitude, 'f', 4, 64))
	f.rows[rowLongitude] = text("Longitude", strconv.FormatFloat(cfg.Longitude, 'f', 4, 64))
	f.rows[rowRotateInterval] = text("Rotate interval (ms)", strconv.Itoa(cfg.AutoRotateIntervalMs))
	f.rows[rowUVInterval] = text("UV refresh (min)", strconv.Itoa(cfg.UVUpdateFrequencyMinutes))
	f.rows[rowAutoRotate] = toggle("Auto-rotate", cfg.AutoRotate)
	f.rows[rowScreensaverOn] = toggle("Screensaver", cfg.ScreensaverEnabled)
	f.rows[rowMoon] = toggle("Moon phase", cfg.ShowMoonPhase)
	f.rows[rowWeather] = toggle("Weather", cfg.ShowWeather)
	f.rows[rowUV] = toggle("UV index", cfg.ShowUV)
	f.rows[rowTemperature] = toggle("Temperature", cfg.ShowTemperature)
	f.rows[rowHumidity] = toggle("Humidity", cfg.ShowHumidity)
	f.rows[rowFullscreen] = toggle("Fullscreen", cfg.Fullscreen)
	f.rows[rowUnit] = choice("Temperature unit", []string{"C", "F"}, cfg.TemperatureUnit)
	f.rows[rowTimeFormat] = choice("Time format", []string{"24", "12"}, cfg.TimeFormat)

	f.rows[0].input.Focus()
	return f
}

// SetSize sets the outer modal dimensions.
func (f *settingsForm) SetSize(width, height int) {
	f.width = width
	f.height = height
}

// HandleKey processes one key. It returns a non-nil config when the form
// was saved, closed=true when it was dismissed without saving.
func (f *settingsForm) HandleKey(msg tea.KeyMsg) (saved *config.Config, closed bool, cmd tea.Cmd) {
	switch msg.String() {
	case "tab", "down":
		f.moveFocus(1)
		return nil, false, nil
	case "shift+tab", "up":
		f.moveFocus(-1)
		return nil, false, nil
	case "ctrl+s":
		cfg, err := f.buildConfig()
		if err != nil {
			f.errMsg = err.Error()
			return nil, false, nil
		}
		if err := config.Save(cfg, f.configPath); err != nil {
			f.errMsg = "save failed: " + err.Error()
			return nil, false, nil
		}
		return cfg, false, nil
	}

	row := &f.rows[f.focus]
	switch row.kind {
	case fieldBool:
		if msg.String() == " " || msg.String() == "enter" {
			row.boolVal = !row.boolVal
			return nil, false, nil
		}
	case fieldChoice:
		if msg.String() == " " || msg.String() == "enter" {
			row.choice = (row.choice + 1) % len(row.choices)
			return nil, false, nil
		}
	case fieldText:
		var c tea.Cmd
		row.input, c = row.input.Update(msg)
		return nil, false, c
	}
	return nil, false, nil
}

func (f *settingsForm) moveFocus(delta int) {
	if f.rows[f.focus].kind == fieldText {
		f.rows[f.focus].input.Blur()
	}
	f.focus = (f.focus + delta + len(f.rows)) % len(f.rows)
	if f.rows[f.focus].kind == fieldText {
		f.rows[f.focus].input.Focus()
	}
}

// buildConfig reads the rows back into a validated configuration.
func (f *settingsForm) buildConfig() (*config.Config, error) {
	cfg := f.base.Clone()

	cfg.ScreensaverURL = strings.TrimSpace(f.rows[rowScreensaverURL].input.Value())

	lat, err := strconv.ParseFloat(strings.TrimSpace(f.rows[rowLatitude].input.Value()), 64)
	if err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(f.rows[rowLongitude].input.Value()), 64)
	if err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	interval, err := strconv.Atoi(strings.TrimSpace(f.rows[rowRotateInterval].input.Value()))
	if err != nil {
		return nil, fmt.Errorf("rotate interval: %w", err)
	}
	uvMin, err := strconv.Atoi(strings.TrimSpace(f.rows[rowUVInterval].input.Value()))
	if err != nil {
		return nil, fmt.Errorf("uv refresh: %w", err)
	}

	cfg.Latitude = lat
	cfg.Longitude = lon
	cfg.AutoRotateIntervalMs = interval
	cfg.UVUpdateFrequencyMinutes = uvMin
	cfg.AutoRotate = f.rows[rowAutoRotate].boolVal
	cfg.ScreensaverEnabled = f.rows[rowScreensaverOn].boolVal
	cfg.ShowMoonPhase = f.rows[rowMoon].boolVal
	cfg.ShowWeather = f.rows[rowWeather].boolVal
	cfg.ShowUV = f.rows[rowUV].boolVal
	cfg.ShowTemperature = f.rows[rowTemperature].boolVal
	cfg.ShowHumidity = f.rows[rowHumidity].boolVal
	cfg.Fullscreen = f.rows[rowFullscreen].boolVal
	cfg.TemperatureUnit = f.rows[rowUnit].choices[f.rows[rowUnit].choice]
	cfg.TimeFormat = f.rows[rowTimeFormat].choices[f.rows[rowTimeFormat].choice]

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// View renders the boxed form.
func (f *settingsForm) View() string {
	if f.width < 20 || f.height < 8 {
		return ""
	}

	labelW := 0
	for _, r := range f.rows {
		if len(r.label) > labelW {
			labelW = len(r.label)
		}
	}

	var lines []string
	for i, r := range f.rows {
		marker := "  "
		label := components.PadRight(r.label, labelW)
		if i == f.focus {
			marker = components.Color(widgets.ColorAccent) + "▸ " + components.Reset()
			label = components.Bold(label)
		}

		var value string
		switch r.kind {
		case fieldText:
			value = r.input.View()
		case fieldBool:
			if r.boolVal {
				value = "[x]"
			} else {
				value = "[ ]"
			}
		case fieldChoice:
			value = r.choices[r.choice]
		}
		lines = append(lines, marker+label+"  "+value)
	}

	lines = append(lines, "")
	if f.errMsg != "" {
		lines = append(lines, components.Color(widgets.ColorError)+f.errMsg+components.Reset())
	} else {
		lines = append(lines, components.Dim(f.device))
	}
	lines = append(lines, components.Dim("tab next  space toggle  ctrl+s save  esc cancel"))

	return components.RenderBox(strings.Join(lines, "\n"), f.width, f.height, components.BoxStyle{
		Title:      "Settings",
		TitleAlign: components.AlignCenter,
		FG:         widgets.ColorBorder,
		Rounded:    true,
	})
}

// deviceStatusLine summarizes the host for the form footer. Failures
// degrade to an empty segment rather than blocking the form.
func deviceStatusLine() string {
	var parts []string
	if up, err := host.Uptime(); err == nil {
		parts = append(parts, "up "+formatUptime(up))
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		parts = append(parts, fmt.Sprintf("mem %.0f%%", vm.UsedPercent))
	}
	if avg, err := load.Avg(); err == nil {
		parts = append(parts, fmt.Sprintf("load %.2f", avg.Load1))
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "  ")
}

// formatUptime renders seconds of uptime as "4d 2h" or "3h 12m".
func formatUptime(seconds uint64) string {
	minutes := seconds / 60
	days := minutes / (60 * 24)
	hours := (minutes % (60 * 24)) / 60
	mins := minutes % 60
	if days > 0 {
		return fmt.Sprintf("%dd %dh", days, hours)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm", hours, mins)
	}
	return fmt.Sprintf("%dm", mins)
}
