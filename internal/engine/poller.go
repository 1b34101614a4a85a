package engine

import (
	"time"

	"contagion/internal/keys"
)

// Tick runs one poll iteration and returns the wait before the next one.
//
// Press edges of the rapid-click key spawn a burst; press edges of the
// trigger start the sequence and release edges stop it. Nothing is started
// while the host is inactive or the macro is disabled.
func (e *Engine) Tick() time.Duration {
	cfg := e.config.Snapshot()
	held, buttons := e.read()

	if e.hotkeys.Dispatch(held, buttons) {
		return toggleDebounce
	}

	if !e.state.HostActive() {
		e.lastMacro, e.lastRapid = false, false
		if e.state.StopRunning() {
			e.logger.Info("macro stopped: host inactive")
		}
		return cfg.PollInterval(false)
	}

	kb, warnings := cfg.Keybinds()
	e.warnOnce(warnings)

	rapid := held.Has(kb.RapidClick)
	if rapid && !e.lastRapid && e.state.MacroEnabled() {
		e.spawn("rapid-click", e.rapidClick)
	}
	e.lastRapid = rapid

	pressed := kb.TriggerPressed(buttons)
	switch {
	case pressed && !e.lastMacro:
		if !e.state.MacroEnabled() || !e.state.TryStartRunning() {
			break
		}
		if e.state.Executing() {
			e.logger.Debug("macro resumed in running sequence")
			break
		}
		e.logger.Debug("macro started")
		e.spawn("sequence", e.runSequence)
	case !pressed && e.lastMacro:
		if e.state.StopRunning() {
			e.logger.Debug("macro stopped: trigger released")
		}
	}
	e.lastMacro = pressed

	return cfg.PollInterval(e.state.Running())
}

// read samples the device, treating a panicking query as no input.
func (e *Engine) read() (held keys.Set, buttons []bool) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Warn("device query failed", "panic", r)
			held, buttons = keys.Set{}, nil
		}
	}()
	return keys.NewSet(e.query.Keys()), e.query.MouseButtons()
}

// warnOnce logs each distinct binding fallback the first time it is seen.
func (e *Engine) warnOnce(warnings []string) {
	for _, w := range warnings {
		if e.warned[w] {
			continue
		}
		e.warned[w] = true
		e.logger.Warn("binding fallback", "detail", w)
	}
}
