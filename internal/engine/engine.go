// Package engine runs the input poller and the tasks it spawns: the
// contagion sequence executor and the rapid-click burst.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"contagion/internal/config"
	"contagion/internal/cue"
	"contagion/internal/hotkey"
	"contagion/internal/input"
	"contagion/internal/keys"
	"contagion/internal/state"
	"contagion/internal/timing"
)

// toggleDebounce is the pause after the toggle hotkey fires.
const toggleDebounce = 200 * time.Millisecond

// Notifier plays audible cues. *cue.Player satisfies it.
type Notifier interface {
	Play(c cue.Cue)
}

// Options wires an Engine to its collaborators.
type Options struct {
	Config   *config.Manager
	State    *state.State
	Query    input.DeviceQuery
	Injector input.InjectorFactory
	Logger   *slog.Logger

	// Cues is optional.
	Cues Notifier
}

// Engine owns the poll loop. Only the goroutine running Run may call Tick.
type Engine struct {
	config *config.Manager
	state  *state.State
	query  input.DeviceQuery
	inject input.InjectorFactory
	logger *slog.Logger
	cues   Notifier

	hotkeys   *hotkey.Manager
	toggleMu  sync.Mutex
	toggleKey string

	// Poller-owned edge trackers.
	lastMacro bool
	lastRapid bool
	warned    map[string]bool

	tasks sync.WaitGroup
}

// New creates an engine and binds the toggle hotkey of the current
// configuration. The hotkey is rebound whenever the configuration changes.
func New(opts Options) (*Engine, error) {
	if opts.Config == nil || opts.State == nil || opts.Query == nil || opts.Injector == nil {
		return nil, errors.New("engine: config, state, query and injector are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	e := &Engine{
		config:  opts.Config,
		state:   opts.State,
		query:   opts.Query,
		inject:  opts.Injector,
		logger:  logger.With("component", "engine"),
		cues:    opts.Cues,
		hotkeys: hotkey.NewManager(),
		warned:  make(map[string]bool),
	}

	if err := e.bindToggle(opts.Config.Snapshot().ToggleHotkey); err != nil {
		return nil, err
	}
	opts.Config.RegisterChangeCallback(func(cfg config.Config) {
		if err := e.bindToggle(cfg.ToggleHotkey); err != nil {
			e.logger.Warn("keeping previous toggle hotkey", "error", err)
		}
	})
	return e, nil
}

func (e *Engine) bindToggle(combo string) error {
	e.toggleMu.Lock()
	defer e.toggleMu.Unlock()
	if combo == e.toggleKey {
		return nil
	}
	if _, err := hotkey.Parse(combo); err != nil {
		return fmt.Errorf("toggle hotkey: %w", err)
	}
	e.hotkeys.Clear()
	if _, err := e.hotkeys.Register(combo, func() { e.Toggle() }); err != nil {
		return fmt.Errorf("toggle hotkey: %w", err)
	}
	e.toggleKey = combo
	e.logger.Debug("toggle hotkey bound", "combo", combo)
	return nil
}

// Toggle flips the global macro switch and returns the new value.
func (e *Engine) Toggle() bool {
	enabled := e.state.ToggleMacroEnabled()
	e.announce(enabled)
	return enabled
}

// SetEnabled sets the global macro switch.
func (e *Engine) SetEnabled(enabled bool) {
	if e.state.MacroEnabled() == enabled {
		return
	}
	e.state.SetMacroEnabled(enabled)
	e.announce(enabled)
}

func (e *Engine) announce(enabled bool) {
	if enabled {
		e.logger.Info("macro enabled")
		e.play(cue.Enabled)
	} else {
		e.logger.Info("macro disabled")
		e.play(cue.Disabled)
	}
}

func (e *Engine) play(c cue.Cue) {
	if e.cues != nil {
		e.cues.Play(c)
	}
}

// spawn runs fn as a tracked fire-and-forget task.
func (e *Engine) spawn(name string, fn func()) {
	e.tasks.Add(1)
	go func() {
		defer e.tasks.Done()
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("task panicked", "task", name, "panic", r)
			}
		}()
		fn()
	}()
}

// Shutdown stops every task, waits up to timeout for them to exit and then
// releases all configured keys and buttons through a fresh injector.
func (e *Engine) Shutdown(timeout time.Duration) {
	e.logger.Info("shutting down")
	e.state.SetMacroEnabled(false)
	e.state.StopRunning()

	done := make(chan struct{})
	go func() {
		e.tasks.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
		e.logger.Warn("tasks still running at shutdown", "timeout", timeout)
	}

	e.ReleaseAll()
}

// ReleaseAll sends a release for every bound key and button. Errors are
// ignored.
func (e *Engine) ReleaseAll() {
	inj, err := e.inject()
	if err != nil {
		e.logger.Debug("release: injector unavailable", "error", err)
		return
	}
	kb, _ := e.config.Snapshot().Keybinds()
	for _, k := range []keys.Key{kb.Melee, kb.Jump, kb.Emote, kb.RapidClick} {
		inj.ReleaseKey(k)
	}
	for _, b := range []keys.Button{kb.Aim, kb.Fire} {
		inj.ReleaseButton(b)
	}
}

// Run polls input until ctx is done.
func (e *Engine) Run(ctx context.Context) {
	e.logger.Debug("input poller started")
	for {
		if !timing.Wait(ctx, e.Tick()) {
			e.logger.Debug("input poller stopped")
			return
		}
	}
}
