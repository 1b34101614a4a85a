package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"contagion/internal/keys"
)

func TestDefaultConfigValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
}

func TestDoubleJumpDelay(t *testing.T) {
	cfg := Default()
	// 1100 / 160 / 1000 s = 6.875ms
	want := 6875 * time.Microsecond
	if got := cfg.DoubleJumpDelay(); got != want {
		t.Errorf("DoubleJumpDelay() = %v, want %v", got, want)
	}
}

func TestEmotePreparationDelayFormula(t *testing.T) {
	cfg := Default()
	cfg.FPS = 160

	want := uint64(math.Max(0, -26*math.Log(160)+245))
	if got := cfg.EmotePreparationDelay(); got != time.Duration(want)*time.Millisecond {
		t.Errorf("EmotePreparationDelay() = %v, want %dms", got, want)
	}
	if want != 113 {
		t.Errorf("Formula at 160fps = %d, want 113", want)
	}
}

func TestEmoteFormulaTruncates(t *testing.T) {
	tests := []struct {
		fps  float64
		want uint64
	}{
		{160, 113}, // 113.05
		{60, 138},  // 138.55
		{144, 115}, // 115.79
		{1, 245},
		{20000, 0},
	}
	for _, tt := range tests {
		if got := EmoteFormulaMs(tt.fps); got != tt.want {
			t.Errorf("EmoteFormulaMs(%v) = %d, want %d", tt.fps, got, tt.want)
		}
	}
}

func TestValidateAcceptsHourLimit(t *testing.T) {
	cfg := Default()
	cfg.SequenceEndDelayMs = 3_600_000
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestEmoteFormulaNonIncreasing(t *testing.T) {
	prev := EmoteFormulaMs(1)
	for fps := 2.0; fps <= 20000; fps *= 1.37 {
		got := EmoteFormulaMs(fps)
		if got > prev {
			t.Fatalf("EmoteFormulaMs(%v) = %d increased from %d", fps, got, prev)
		}
		prev = got
	}
	if prev != 0 {
		t.Errorf("Expected formula floored at 0 for large fps, got %d", prev)
	}
}

func TestEmotePreparationDelayManual(t *testing.T) {
	cfg := Default()
	cfg.UseEmoteFormula = false
	cfg.EmotePreparationDelayMs = 77

	if got := cfg.EmotePreparationDelay(); got != 77*time.Millisecond {
		t.Errorf("EmotePreparationDelay() = %v, want 77ms", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero fps", func(c *Config) { c.FPS = 0 }},
		{"negative fps", func(c *Config) { c.FPS = -60 }},
		{"nan fps", func(c *Config) { c.FPS = math.NaN() }},
		{"negative jump delay", func(c *Config) { c.JumpDelay = -1 }},
		{"negative rapid clicks", func(c *Config) { c.RapidClickCount = -1 }},
		{"aim button out of range", func(c *Config) { c.AimButton = 64 }},
		{"zero focus interval", func(c *Config) { c.FocusIntervalMs = 0 }},
		{"zero active poll", func(c *Config) { c.PollActiveUs = 0 }},
		{"zero idle poll", func(c *Config) { c.PollIdleMs = 0 }},
		{"overflowing hold", func(c *Config) { c.MeleeHoldTimeMs = math.MaxUint64 / 1000 }},
		{"end delay over an hour", func(c *Config) { c.SequenceEndDelayMs = 3_600_001 }},
		{"active poll over an hour", func(c *Config) { c.PollActiveUs = 3_601_000_000 }},
		{"jump hold over an hour", func(c *Config) { c.JumpDelay = 1e12 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("Validate() = %v, want ErrInvalidConfig", err)
			}
		})
	}
}

func TestKeybindsDefaults(t *testing.T) {
	kb, warnings := Default().Keybinds()
	if len(warnings) != 0 {
		t.Fatalf("Unexpected warnings: %v", warnings)
	}

	if kb.Melee != keys.E || kb.Jump != keys.Space || kb.Emote != keys.Dot || kb.RapidClick != keys.J {
		t.Errorf("Unexpected key bindings: %+v", kb)
	}
	if kb.Aim != keys.Right || kb.Fire != keys.Left || kb.Macro != keys.Side1 || kb.MacroAlt != keys.Side2 {
		t.Errorf("Unexpected button bindings: %+v", kb)
	}
	if !kb.AltEnabled {
		t.Error("Expected alt trigger enabled by default")
	}
}

func TestKeybindsUnknownNameFallsBack(t *testing.T) {
	cfg := Default()
	cfg.EmoteKey = "Hyper"

	kb, warnings := cfg.Keybinds()
	if kb.Emote != keys.Fallback {
		t.Errorf("Emote = %v, want fallback %v", kb.Emote, keys.Fallback)
	}
	if len(warnings) != 1 {
		t.Fatalf("Expected 1 warning, got %v", warnings)
	}
}

func TestTriggerPressed(t *testing.T) {
	kb, _ := Default().Keybinds()
	buttons := make([]bool, 10)

	if kb.TriggerPressed(buttons) {
		t.Error("Expected trigger released")
	}
	buttons[keys.Side2] = true
	if !kb.TriggerPressed(buttons) {
		t.Error("Expected alt trigger to count")
	}
	kb.AltEnabled = false
	if kb.TriggerPressed(buttons) {
		t.Error("Expected disabled alt trigger to be ignored")
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := []byte("fps: 240\nmelee_key: f\nmacro_alt_enabled: false\nlogging:\n  level: debug\n")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.FPS != 240 {
		t.Errorf("FPS = %v, want 240", cfg.FPS)
	}
	if cfg.MeleeKey != "f" {
		t.Errorf("MeleeKey = %q, want f", cfg.MeleeKey)
	}
	if cfg.MacroAltEnabled {
		t.Error("Expected MacroAltEnabled false")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	// Unset fields keep their defaults.
	if cfg.RapidClickCount != 10 {
		t.Errorf("RapidClickCount = %d, want default 10", cfg.RapidClickCount)
	}
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"fps": 144, "rapid_click_count": 4}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.FPS != 144 || cfg.RapidClickCount != 4 {
		t.Errorf("Unexpected config: fps=%v count=%d", cfg.FPS, cfg.RapidClickCount)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("Expected error for missing explicit config")
	}
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("fps: 0\n"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Load() = %v, want ErrInvalidConfig", err)
	}
}

func TestManagerSnapshotIsCopy(t *testing.T) {
	m := NewManager(Default())

	snap := m.Snapshot()
	snap.FPS = 30

	if got := m.Snapshot().FPS; got != 160 {
		t.Errorf("Mutating a snapshot leaked into the store: fps=%v", got)
	}
}

func TestManagerUpdateNotifies(t *testing.T) {
	m := NewManager(Default())

	var got Config
	calls := 0
	m.RegisterChangeCallback(func(c Config) {
		got = c
		calls++
	})

	m.Update(func(c *Config) { c.JumpKey = "W" })

	if calls != 1 {
		t.Fatalf("Expected 1 callback, got %d", calls)
	}
	if got.JumpKey != "W" || m.Snapshot().JumpKey != "W" {
		t.Errorf("Update not applied: callback=%q store=%q", got.JumpKey, m.Snapshot().JumpKey)
	}
}

func TestManagerConcurrentAccess(t *testing.T) {
	m := NewManager(Default())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				m.Update(func(c *Config) {
					c.FPS = float64(60 + i)
					c.JumpDelay = float64(60+i) * 10
				})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				snap := m.Snapshot()
				// Both fields are written together, so a snapshot never
				// observes a half-applied update.
				if snap.FPS != 160 && snap.JumpDelay != snap.FPS*10 {
					t.Errorf("Torn snapshot: fps=%v jump=%v", snap.FPS, snap.JumpDelay)
					return
				}
			}
		}()
	}
	wg.Wait()
}
