// Package config provides the tunable timing parameters and key bindings of
// the contagion macro, and the store the engine snapshots them from.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"contagion/internal/keys"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// maxDelay bounds every configured wait so none overflows time.Duration.
const maxDelay = time.Hour

// Config is the complete tunable state. It holds no slices or maps, so a
// plain value copy is a full snapshot.
type Config struct {
	// FPS is the game frame rate the frame-based delays are converted with.
	FPS float64 `yaml:"fps" json:"fps"`

	// JumpDelay is the raw numerator of the double-jump hold (jump_delay / fps / 1000 s).
	JumpDelay float64 `yaml:"jump_delay" json:"jump_delay"`

	AimMeleeDelayMs uint64 `yaml:"aim_melee_delay_ms" json:"aim_melee_delay_ms"`
	MeleeHoldTimeMs uint64 `yaml:"melee_hold_time_ms" json:"melee_hold_time_ms"`

	// UseEmoteFormula derives the emote preparation delay from FPS instead of
	// using EmotePreparationDelayMs.
	UseEmoteFormula         bool   `yaml:"use_emote_formula" json:"use_emote_formula"`
	EmotePreparationDelayMs uint64 `yaml:"emote_preparation_delay_ms" json:"emote_preparation_delay_ms"`

	RapidFireDurationMs   uint64 `yaml:"rapid_fire_duration_ms" json:"rapid_fire_duration_ms"`
	RapidFireClickDelayMs uint64 `yaml:"rapid_fire_click_delay_ms" json:"rapid_fire_click_delay_ms"`
	SequenceEndDelayMs    uint64 `yaml:"sequence_end_delay_ms" json:"sequence_end_delay_ms"`
	LoopDelayMs           uint64 `yaml:"loop_delay_ms" json:"loop_delay_ms"`

	RapidClickCount   int    `yaml:"rapid_click_count" json:"rapid_click_count"`
	RapidClickDelayMs uint64 `yaml:"rapid_click_delay_ms" json:"rapid_click_delay_ms"`

	MeleeKey      string `yaml:"melee_key" json:"melee_key"`
	JumpKey       string `yaml:"jump_key" json:"jump_key"`
	EmoteKey      string `yaml:"emote_key" json:"emote_key"`
	RapidClickKey string `yaml:"rapid_click_key" json:"rapid_click_key"`

	AimButton       int  `yaml:"aim_button" json:"aim_button"`
	FireButton      int  `yaml:"fire_button" json:"fire_button"`
	MacroButton     int  `yaml:"macro_button" json:"macro_button"`
	MacroAltEnabled bool `yaml:"macro_alt_enabled" json:"macro_alt_enabled"`
	MacroAltButton  int  `yaml:"macro_alt_button" json:"macro_alt_button"`

	// ToggleHotkey flips the global macro switch (e.g. "F11", "Ctrl+F11").
	ToggleHotkey string `yaml:"toggle_hotkey" json:"toggle_hotkey"`

	// TargetWindow is matched case-insensitively against the foreground
	// window title or process name.
	TargetWindow string `yaml:"target_window" json:"target_window"`

	// StartEnabled is the initial value of the global macro switch.
	StartEnabled bool `yaml:"start_enabled" json:"start_enabled"`

	PollActiveUs    uint64 `yaml:"poll_active_us" json:"poll_active_us"`
	PollIdleMs      uint64 `yaml:"poll_idle_ms" json:"poll_idle_ms"`
	FocusIntervalMs uint64 `yaml:"focus_interval_ms" json:"focus_interval_ms"`

	Logging LoggingConfig `yaml:"logging" json:"logging"`

	// Sounds enables audible cues on toggle and focus loss.
	Sounds bool `yaml:"sounds" json:"sounds"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// Default returns the stock configuration. Running with it is equivalent to
// the fixed, non-configurable macro.
func Default() Config {
	return Config{
		FPS:                     160,
		JumpDelay:               1100,
		AimMeleeDelayMs:         25,
		MeleeHoldTimeMs:         50,
		UseEmoteFormula:         true,
		EmotePreparationDelayMs: 100,
		RapidFireDurationMs:     230,
		RapidFireClickDelayMs:   1,
		SequenceEndDelayMs:      50,
		LoopDelayMs:             1,
		RapidClickCount:         10,
		RapidClickDelayMs:       50,
		MeleeKey:                "E",
		JumpKey:                 "Space",
		EmoteKey:                ".",
		RapidClickKey:           "J",
		AimButton:               int(keys.Right),
		FireButton:              int(keys.Left),
		MacroButton:             int(keys.Side1),
		MacroAltEnabled:         true,
		MacroAltButton:          int(keys.Side2),
		ToggleHotkey:            "F11",
		TargetWindow:            "warframe",
		StartEnabled:            true,
		PollActiveUs:            500,
		PollIdleMs:              2,
		FocusIntervalMs:         1000,
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Sounds: true,
	}
}

// Validate checks the values the engine divides by or indexes with.
func (c Config) Validate() error {
	if !(c.FPS > 0) || math.IsInf(c.FPS, 0) {
		return fmt.Errorf("%w: fps must be positive, got %v", ErrInvalidConfig, c.FPS)
	}
	if c.JumpDelay < 0 || math.IsNaN(c.JumpDelay) {
		return fmt.Errorf("%w: jump_delay must not be negative, got %v", ErrInvalidConfig, c.JumpDelay)
	}
	if c.RapidClickCount < 0 {
		return fmt.Errorf("%w: rapid_click_count must not be negative, got %d", ErrInvalidConfig, c.RapidClickCount)
	}
	buttons := map[string]int{
		"aim_button":       c.AimButton,
		"fire_button":      c.FireButton,
		"macro_button":     c.MacroButton,
		"macro_alt_button": c.MacroAltButton,
	}
	for name, b := range buttons {
		if b < 0 || keys.Button(b) > keys.MaxButton {
			return fmt.Errorf("%w: %s out of range: %d", ErrInvalidConfig, name, b)
		}
	}
	if c.JumpDelay/c.FPS > float64(maxDelay/time.Millisecond) {
		return fmt.Errorf("%w: jump_delay / fps exceeds %v", ErrInvalidConfig, maxDelay)
	}

	delays := []struct {
		name string
		ms   uint64
	}{
		{"aim_melee_delay_ms", c.AimMeleeDelayMs},
		{"melee_hold_time_ms", c.MeleeHoldTimeMs},
		{"emote_preparation_delay_ms", c.EmotePreparationDelayMs},
		{"rapid_fire_duration_ms", c.RapidFireDurationMs},
		{"rapid_fire_click_delay_ms", c.RapidFireClickDelayMs},
		{"sequence_end_delay_ms", c.SequenceEndDelayMs},
		{"loop_delay_ms", c.LoopDelayMs},
		{"rapid_click_delay_ms", c.RapidClickDelayMs},
		{"poll_idle_ms", c.PollIdleMs},
		{"focus_interval_ms", c.FocusIntervalMs},
		{"poll_active_us", c.PollActiveUs / 1000},
	}
	for _, d := range delays {
		if d.ms > uint64(maxDelay/time.Millisecond) {
			return fmt.Errorf("%w: %s exceeds %v", ErrInvalidConfig, d.name, maxDelay)
		}
	}

	// The loops wait these between iterations; zero would spin them.
	if c.PollActiveUs == 0 {
		return fmt.Errorf("%w: poll_active_us must be positive", ErrInvalidConfig)
	}
	if c.PollIdleMs == 0 {
		return fmt.Errorf("%w: poll_idle_ms must be positive", ErrInvalidConfig)
	}
	if c.FocusIntervalMs == 0 {
		return fmt.Errorf("%w: focus_interval_ms must be positive", ErrInvalidConfig)
	}
	return nil
}

// DoubleJumpDelay is the hold time of each jump and emote tap.
func (c Config) DoubleJumpDelay() time.Duration {
	return time.Duration(math.Round(c.JumpDelay / c.FPS * float64(time.Millisecond)))
}

// EmotePreparationDelay is the wait between the melee and the emote taps.
// In formula mode it is max(0, -26*ln(fps) + 245) ms, truncated to whole ms.
func (c Config) EmotePreparationDelay() time.Duration {
	if !c.UseEmoteFormula {
		return time.Duration(c.EmotePreparationDelayMs) * time.Millisecond
	}
	return time.Duration(EmoteFormulaMs(c.FPS)) * time.Millisecond
}

// EmoteFormulaMs evaluates the emote preparation formula for fps.
func EmoteFormulaMs(fps float64) uint64 {
	raw := -26*math.Log(fps) + 245
	if !(raw > 0) {
		return 0
	}
	return uint64(raw)
}

func (c Config) AimMeleeDelay() time.Duration { return ms(c.AimMeleeDelayMs) }
func (c Config) MeleeHoldTime() time.Duration { return ms(c.MeleeHoldTimeMs) }
func (c Config) RapidFireDuration() time.Duration {
	return ms(c.RapidFireDurationMs)
}
func (c Config) RapidFireClickDelay() time.Duration { return ms(c.RapidFireClickDelayMs) }
func (c Config) SequenceEndDelay() time.Duration    { return ms(c.SequenceEndDelayMs) }
func (c Config) LoopDelay() time.Duration           { return ms(c.LoopDelayMs) }
func (c Config) RapidClickDelay() time.Duration     { return ms(c.RapidClickDelayMs) }

// PollInterval returns the input poll period for the current activity.
func (c Config) PollInterval(running bool) time.Duration {
	if running {
		return time.Duration(c.PollActiveUs) * time.Microsecond
	}
	return ms(c.PollIdleMs)
}

// FocusInterval is the period of the focus monitor.
func (c Config) FocusInterval() time.Duration { return ms(c.FocusIntervalMs) }

func ms(v uint64) time.Duration { return time.Duration(v) * time.Millisecond }

// Load reads a YAML (or JSON) file over the defaults. An empty path tries the
// per-user default location and tolerates it being absent.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		def, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = def
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the per-user config file location.
func DefaultPath() (string, error) {
	var configDir string

	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, "Library", "Application Support", "contagion")
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		configDir = filepath.Join(appData, "contagion")
	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config", "contagion")
	}

	return filepath.Join(configDir, "config.yaml"), nil
}

// Manager is the shared configuration store. Every read is a whole-struct
// copy-out and every write a copy-in under one brief lock; the lock is never
// held across a wait.
type Manager struct {
	mu        sync.Mutex
	config    Config
	onChanged []func(Config)
}

// NewManager creates a store seeded with cfg.
func NewManager(cfg Config) *Manager {
	return &Manager{config: cfg}
}

// Snapshot returns a point-in-time copy of the configuration.
func (m *Manager) Snapshot() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// Set replaces the configuration.
func (m *Manager) Set(cfg Config) {
	m.mu.Lock()
	m.config = cfg
	callbacks := m.onChanged
	m.mu.Unlock()

	for _, fn := range callbacks {
		fn(cfg)
	}
}

// Update applies fn to a copy of the configuration and stores the result.
func (m *Manager) Update(fn func(*Config)) Config {
	m.mu.Lock()
	cfg := m.config
	fn(&cfg)
	m.config = cfg
	callbacks := m.onChanged
	m.mu.Unlock()

	for _, cb := range callbacks {
		cb(cfg)
	}
	return cfg
}

// RegisterChangeCallback registers a function to be called after every change.
func (m *Manager) RegisterChangeCallback(fn func(Config)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChanged = append(m.onChanged, fn)
}
