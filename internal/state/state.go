// Package state holds the process-wide flags the macro goroutines coordinate
// through. Each flag is an independent atomic; no ordering is implied between
// different flags.
package state

import "sync/atomic"

// State is shared by pointer between the input poller, the focus monitor and
// the sequence and rapid-click tasks.
//
// Writers per flag:
//   - running: the input poller (start on trigger press, stop on release or
//     when it sees the host inactive) and the focus monitor (stop on focus loss).
//   - macroEnabled: the input poller's toggle hotkey and the configuration
//     surfaces.
//   - hostActive: the focus monitor only.
//   - rapidClicking: the rapid-click task only.
//   - executing: the sequence task only.
type State struct {
	running       atomic.Bool
	macroEnabled  atomic.Bool
	hostActive    atomic.Bool
	rapidClicking atomic.Bool
	executing     atomic.Bool
}

// New returns a State with the global switch set to enabled.
func New(enabled bool) *State {
	s := &State{}
	s.macroEnabled.Store(enabled)
	return s
}

// Running reports whether a sequence should keep executing.
func (s *State) Running() bool { return s.running.Load() }

// TryStartRunning moves running from false to true, but only while the host is
// active and the macro is enabled. At most one caller wins a given edge.
func (s *State) TryStartRunning() bool {
	if !s.hostActive.Load() || !s.macroEnabled.Load() {
		return false
	}
	return s.running.CompareAndSwap(false, true)
}

// StopRunning clears running and reports whether it was set.
func (s *State) StopRunning() bool { return s.running.Swap(false) }

// MacroEnabled reports the global switch.
func (s *State) MacroEnabled() bool { return s.macroEnabled.Load() }

// SetMacroEnabled sets the global switch.
func (s *State) SetMacroEnabled(v bool) { s.macroEnabled.Store(v) }

// ToggleMacroEnabled flips the global switch and returns the new value.
func (s *State) ToggleMacroEnabled() bool {
	for {
		old := s.macroEnabled.Load()
		if s.macroEnabled.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

// HostActive reports whether the target application is in the foreground.
func (s *State) HostActive() bool { return s.hostActive.Load() }

// SetHostActive records the foreground state of the target application.
func (s *State) SetHostActive(v bool) { s.hostActive.Store(v) }

// RapidClicking reports whether a rapid-click burst is in flight.
func (s *State) RapidClicking() bool { return s.rapidClicking.Load() }

// BeginRapidClick claims the burst slot; false means one is already running.
func (s *State) BeginRapidClick() bool { return s.rapidClicking.CompareAndSwap(false, true) }

// EndRapidClick releases the burst slot.
func (s *State) EndRapidClick() { s.rapidClicking.Store(false) }

// BeginExecutor claims the executor slot; false means a sequence task is
// still inside an iteration.
func (s *State) BeginExecutor() bool { return s.executing.CompareAndSwap(false, true) }

// EndExecutor releases the executor slot.
func (s *State) EndExecutor() { s.executing.Store(false) }

// Executing reports whether a sequence task holds the executor slot.
func (s *State) Executing() bool { return s.executing.Load() }

// String summarizes the flags for display, e.g. "Macro enabled, running".
func (s *State) String() string {
	enabled := "disabled"
	if s.MacroEnabled() {
		enabled = "enabled"
	}
	activity := "idle"
	switch {
	case s.Running():
		activity = "running"
	case s.RapidClicking():
		activity = "rapid clicking"
	case !s.HostActive():
		activity = "waiting for game"
	}
	return "Macro " + enabled + ", " + activity
}
