// signpost is a kiosk-mode signage shell for terminals. It cycles a
// configured list of web pages full screen, overlays moon-phase, weather,
// and UV widgets, idles into a screensaver, and exposes a Unix-socket
// command surface for remote control.
//
// Usage:
//
//	signpost [flags]
//	signpost -send "next-slide"
//
// Flags:
//
//	-config string  Path to configuration file (default: ~/.config/signpost/config.toml)
//	-socket string  Control socket path (default: $XDG_RUNTIME_DIR/signpost.sock)
//	-send string    Send a command to a running kiosk and print the reply
//	-verbose        Enable verbose logging
//	-version        Print version and exit
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"gitlab.com/tinyland/lab/signpost/pkg/cache"
	"gitlab.com/tinyland/lab/signpost/pkg/config"
	"gitlab.com/tinyland/lab/signpost/pkg/control"
	"gitlab.com/tinyland/lab/signpost/pkg/facts"
	"gitlab.com/tinyland/lab/signpost/pkg/sched"
	"gitlab.com/tinyland/lab/signpost/pkg/surface"
	"gitlab.com/tinyland/lab/signpost/pkg/tui"
	"gitlab.com/tinyland/lab/signpost/pkg/weather"
)

var (
	version = "0.1.0"
	commit  = "dev"
	date    = "unknown"
)

// weatherCacheTTL keeps a stale observation usable across an overnight
// restart but not much longer.
const weatherCacheTTL = 26 * time.Hour

func main() {
	var (
		configPath  = flag.String("config", "", "Path to configuration file")
		socketPath  = flag.String("socket", "", "Control socket path")
		sendCommand = flag.String("send", "", "Send a command to a running kiosk and print the reply")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging")
		showVersion = flag.Bool("version", false, "Print version and exit")
	)
	flag.Parse()

	if *showVersion {
		fmt.Printf("signpost %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if *socketPath == "" {
		*socketPath = defaultSocketPath()
	}

	// Client mode: forward one command and exit.
	if *sendCommand != "" {
		reply, err := control.NewClient(*socketPath).Send(*sendCommand)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Println(reply)
		os.Exit(0)
	}

	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		fmt.Fprintln(os.Stderr, "signpost: stdout is not a terminal")
		os.Exit(1)
	}

	if *configPath == "" {
		*configPath = config.UserConfigPath()
	}

	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}
	logPath := filepath.Join(stateDir(), "signpost.log")
	os.MkdirAll(filepath.Dir(logPath), 0o755)
	logWriter := io.Writer(os.Stderr)
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err == nil {
		defer logFile.Close()
		logWriter = io.MultiWriter(os.Stderr, logFile)
	}
	logger := slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{Level: logLevel}))

	cfg := config.LoadChain(*configPath, logger)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	pidPath := filepath.Join(filepath.Dir(*socketPath), "signpost.pid")
	if err := control.AcquirePID(pidPath); err != nil {
		logger.Error("startup refused", "error", err)
		os.Exit(1)
	}
	defer control.ReleasePID(pidPath)

	// Local data stores. Both are optional: the kiosk runs without them.
	cacheStore, err := cache.NewStore(cacheDir(), weatherCacheTTL)
	if err != nil {
		logger.Warn("cache unavailable", "error", err)
	}
	var factsStore *facts.Store
	factsPath := filepath.Join(dataDir(), "facts.db")
	os.MkdirAll(filepath.Dir(factsPath), 0o755)
	if fs, err := facts.Open(factsPath); err != nil {
		logger.Warn("facts database unavailable", "error", err)
	} else {
		factsStore = fs
		defer factsStore.Close()
		if err := factsStore.SeedIfEmpty(context.Background()); err != nil {
			logger.Warn("facts seed failed", "error", err)
		}
	}

	output := termenv.NewOutput(os.Stdout)
	fires := make(chan sched.Fire, 32)
	controls := make(chan tui.ControlMsg, 8)

	statePath := config.StatePath()
	model := tui.New(tui.Options{
		Config:     cfg,
		ConfigPath: *configPath,
		Logger:     logger,
		Factory:    func() surface.Surface { return surface.NewHTTP(nil) },
		SavedIndex: config.LoadSavedIndex(statePath),
		Weather:    weather.NewClient("", nil),
		Facts:      factsStore,
		Cache:      cacheStore,
		Fires:      fires,
		Controls:   controls,
		Output:     output,
	})

	server := control.NewServer(*socketPath, tui.NewDispatcher(controls, 0))
	if err := server.Start(); err != nil {
		logger.Error("control socket failed", "error", err)
		os.Exit(1)
	}
	defer server.Stop()

	logger.Info("starting kiosk",
		"version", version,
		"entries", len(cfg.Entries),
		"socket", *socketPath)

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithReportFocus())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		p.Quit()
	}()

	final, err := p.Run()
	output.Reset()
	if err != nil {
		logger.Error("kiosk error", "error", err)
		os.Exit(1)
	}

	if m, ok := final.(*tui.Model); ok {
		if err := config.SaveIndex(statePath, m.CurrentIndex()); err != nil {
			logger.Warn("state save failed", "error", err)
		}
	}
	logger.Info("kiosk stopped")
}

// defaultSocketPath puts the control socket in the user runtime dir, or
// /tmp when the system provides none.
func defaultSocketPath() string {
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, "signpost.sock")
	}
	return filepath.Join(os.TempDir(), "signpost.sock")
}

func stateDir() string {
	home, _ := os.UserHomeDir()
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "signpost")
	}
	return filepath.Join(home, ".local", "state", "signpost")
}

func cacheDir() string {
	home, _ := os.UserHomeDir()
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "signpost")
	}
	return filepath.Join(home, ".cache", "signpost")
}

func dataDir() string {
	home, _ := os.UserHomeDir()
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "signpost")
	}
	return filepath.Join(home, ".local", "share", "signpost")
}
