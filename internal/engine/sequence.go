package engine

import (
	"time"

	"contagion/internal/config"
	"contagion/internal/input"
	"contagion/internal/timing"
)

// runSequence drives the sequence while the running flag holds. Only one
// task holds the executor slot; a task spawned while another is still
// finishing an iteration leaves it to that one. After releasing the slot the
// holder checks running again, so a re-press that lost the slot race is not
// dropped.
func (e *Engine) runSequence() {
	for e.state.Running() && e.state.BeginExecutor() {
		err := func() error {
			defer e.state.EndExecutor()
			return e.execute()
		}()
		if err != nil {
			e.logger.Debug("sequence: injector unavailable", "error", err)
			return
		}
	}
}

// execute repeats the contagion sequence while the running flag holds.
// Each iteration takes a fresh snapshot, so edits apply from the next
// iteration on. The inputs of the last snapshot are released on exit.
func (e *Engine) execute() error {
	inj, err := e.inject()
	if err != nil {
		return err
	}

	var (
		kb    config.Keybinds
		bound bool
	)
	defer func() {
		if !bound {
			return
		}
		inj.ReleaseKey(kb.Melee)
		inj.ReleaseKey(kb.Emote)
		inj.ReleaseButton(kb.Aim)
		inj.ReleaseButton(kb.Fire)
	}()

	for e.state.Running() {
		cfg := e.config.Snapshot()
		kb, _ = cfg.Keybinds()
		bound = true

		e.runOnce(inj, cfg, kb)
		timing.Sleep(cfg.LoopDelay())
	}
	return nil
}

// runOnce performs one pass of the sequence. Every stage checks the running
// flag first and the pass ends at the first stage that finds it cleared.
func (e *Engine) runOnce(inj input.Injector, cfg config.Config, kb config.Keybinds) {
	hold := cfg.DoubleJumpDelay()

	stages := []func(){
		func() { // double jump
			for range 2 {
				inj.PressKey(kb.Jump)
				timing.Sleep(hold)
				inj.ReleaseKey(kb.Jump)
			}
		},
		func() { // aim + melee
			inj.PressButton(kb.Aim)
			timing.Sleep(cfg.AimMeleeDelay())
			inj.PressKey(kb.Melee)
			timing.Sleep(cfg.MeleeHoldTime())
			inj.ReleaseKey(kb.Melee)
			inj.ReleaseButton(kb.Aim)
		},
		func() {
			timing.Sleep(cfg.EmotePreparationDelay())
		},
		func() { // emote cancel
			for range 2 {
				inj.PressKey(kb.Emote)
				timing.Sleep(hold)
				inj.ReleaseKey(kb.Emote)
			}
		},
		func() {
			e.rapidFire(inj, cfg, kb)
		},
		func() {
			timing.Sleep(cfg.SequenceEndDelay())
		},
	}

	for _, stage := range stages {
		if !e.state.Running() {
			return
		}
		stage()
	}
}

// rapidFire clicks fire until the stage duration has elapsed or the
// sequence is stopped.
func (e *Engine) rapidFire(inj input.Injector, cfg config.Config, kb config.Keybinds) {
	start := time.Now()
	limit := cfg.RapidFireDuration()
	delay := cfg.RapidFireClickDelay()

	for e.state.Running() {
		inj.PressButton(kb.Fire)
		inj.ReleaseButton(kb.Fire)
		timing.Sleep(delay)

		if time.Since(start) > limit {
			return
		}
	}
}

// rapidClick performs one burst of fire clicks. Overlapping bursts are
// dropped, and the burst aborts as soon as the macro is disabled.
func (e *Engine) rapidClick() {
	if !e.state.BeginRapidClick() {
		e.logger.Debug("rapid click: burst already running")
		return
	}
	defer e.state.EndRapidClick()

	cfg := e.config.Snapshot()
	kb, _ := cfg.Keybinds()
	delay := cfg.RapidClickDelay()

	inj, err := e.inject()
	if err != nil {
		e.logger.Debug("rapid click: injector unavailable", "error", err)
		return
	}

	for range cfg.RapidClickCount {
		if !e.state.MacroEnabled() {
			return
		}
		inj.PressButton(kb.Fire)
		inj.ReleaseButton(kb.Fire)
		timing.Sleep(delay)
	}
}
