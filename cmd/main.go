// Contagion - timed melee/emote input sequence for Warframe
// Holds a mouse button to loop the contagion throw; configurable from a tray
// menu or a settings window.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"slices"
	"strings"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"contagion/internal/capture"
	"contagion/internal/config"
	"contagion/internal/cue"
	"contagion/internal/engine"
	"contagion/internal/focus"
	"contagion/internal/gui"
	"contagion/internal/input"
	"contagion/internal/keys"
	"contagion/internal/logging"
	"contagion/internal/osutils"
	"contagion/internal/state"
	"contagion/internal/timing"
	"contagion/internal/tray"
)

const shutdownTimeout = time.Second

var (
	version    = "0.3.0"
	showGUI    = flag.Bool("gui", false, "Open the settings window")
	showTray   = flag.Bool("tray", false, "Run with a system tray menu")
	configPath = flag.String("config", "", "Config file (default: per-user config.yaml)")
	logLevel   = flag.String("log-level", "", "Override log level (debug, info, warn, error)")
	logFormat  = flag.String("log-format", "", "Override log format (text, json)")
	showVer    = flag.Bool("version", false, "Show version")
	testKeys   = flag.Bool("keys", false, "Print pressed keys and mouse buttons until interrupted")
)

func main() {
	flag.Parse()

	if *showVer {
		fmt.Printf("contagion version %s\n", version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "contagion: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if *showGUI && *showTray {
		return errors.New("-gui and -tray are mutually exclusive")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFormat != "" {
		cfg.Logging.Format = *logFormat
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
	if err != nil {
		return fmt.Errorf("init logging: %w", err)
	}
	slog.SetDefault(logger)

	query, err := input.NewDeviceQuery()
	if err != nil {
		return fmt.Errorf("open input devices: %w", err)
	}
	if c, ok := query.(io.Closer); ok {
		defer c.Close()
	}

	if *testKeys {
		return runKeyTest(query)
	}

	return runService(config.NewManager(cfg), query, logger)
}

func runService(cfgMgr *config.Manager, query input.DeviceQuery, logger *slog.Logger) error {
	cfg := cfgMgr.Snapshot()
	st := state.New(cfg.StartEnabled)

	if err := osutils.SetHighPriority(); err != nil {
		logger.Warn("could not raise process priority", "error", err)
	}
	if restore, err := osutils.RaiseTimerResolution(); err != nil {
		logger.Warn("could not raise timer resolution", "error", err)
	} else {
		defer restore()
	}
	if runtime.GOOS == "windows" && !osutils.IsAdmin() {
		logger.Warn("not running as administrator; input to elevated games will be dropped")
	}

	// Probe the injector once so a missing permission shows up at startup.
	if _, err := input.NewInjector(); err != nil {
		logger.Warn("input injection unavailable", "error", err)
	}

	cues := cue.NewPlayer(logger, func() bool { return cfgMgr.Snapshot().Sounds })

	eng, err := engine.New(engine.Options{
		Config:   cfgMgr,
		State:    st,
		Query:    query,
		Injector: input.NewInjector,
		Logger:   logger,
		Cues:     cues,
	})
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	monitor := focus.NewMonitor(focus.NewProbe(), cfgMgr, st, logger)
	monitor.OnFocusLost(func() { cues.Play(cue.FocusLost) })

	capt := capture.New(cfgMgr, query, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go monitor.Run(ctx)
	go eng.Run(ctx)

	printBanner(cfg)

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	switch {
	case *showTray:
		go capt.Run(ctx)

		t := tray.New("Contagion", "Contagion macro")
		menu := tray.BuildMenu(t, tray.Controls{
			Config:     cfgMgr,
			State:      st,
			Capture:    capt,
			SetEnabled: eng.SetEnabled,
			Quit:       t.Stop,
		})
		go func() {
			select {
			case <-t.Ready():
				menu.Poll(ctx)
			case <-ctx.Done():
			}
		}()
		go func() {
			select {
			case <-sigCh:
				t.Stop()
			case <-t.Done():
			}
		}()
		t.Run()

	case *showGUI:
		go capt.Run(ctx)

		a := fyneapp.New()
		win := gui.New(a, gui.Controls{
			Config:     cfgMgr,
			State:      st,
			Capture:    capt,
			SetEnabled: eng.SetEnabled,
		})
		win.SetOnClosed(cancel)
		go win.Poll(ctx)
		go func() {
			select {
			case <-sigCh:
				fyne.Do(a.Quit)
			case <-ctx.Done():
			}
		}()
		win.ShowAndRun()

	default:
		<-sigCh
	}

	cancel()
	eng.Shutdown(shutdownTimeout)
	return nil
}

func printBanner(cfg config.Config) {
	alt := "off"
	if cfg.MacroAltEnabled {
		alt = keys.Button(cfg.MacroAltButton).String()
	}
	enabled := "disabled"
	if cfg.StartEnabled {
		enabled = "enabled"
	}

	fmt.Printf("Contagion %s\n", version)
	fmt.Println("-------------------")
	fmt.Printf("Trigger:       %s (alt: %s)\n", keys.Button(cfg.MacroButton), alt)
	fmt.Printf("Rapid click:   %s (%d clicks)\n", cfg.RapidClickKey, cfg.RapidClickCount)
	fmt.Printf("Toggle:        %s\n", cfg.ToggleHotkey)
	fmt.Printf("Target window: %q\n", cfg.TargetWindow)
	fmt.Printf("FPS:           %g (double jump %s, emote prep %s)\n",
		cfg.FPS, cfg.DoubleJumpDelay(), cfg.EmotePreparationDelay())
	fmt.Printf("Macro starts %s. Press Ctrl+C to stop.\n", enabled)
}

// runKeyTest prints the device state whenever it changes, for checking
// bindings and permissions.
func runKeyTest(query input.DeviceQuery) error {
	fmt.Println("Press keys or mouse buttons; Ctrl+C to stop.")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var last string
	for timing.Wait(ctx, 10*time.Millisecond) {
		line := describe(query.Keys(), query.MouseButtons())
		if line != last {
			fmt.Println(line)
			last = line
		}
	}
	return nil
}

func describe(held []keys.Key, buttons []bool) string {
	names := make([]string, 0, len(held)+len(buttons))
	for _, k := range held {
		names = append(names, k.String())
	}
	slices.Sort(names)
	for i := range buttons {
		if b := keys.Button(i); b.Pressed(buttons) {
			names = append(names, b.String())
		}
	}
	if len(names) == 0 {
		return "(nothing held)"
	}
	return strings.Join(names, " + ")
}
