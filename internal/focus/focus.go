// Package focus tracks whether the target application is in the foreground
// and stops a running sequence when it is not.
package focus

import (
	"context"
	"log/slog"

	"contagion/internal/config"
	"contagion/internal/state"
	"contagion/internal/timing"
)

// Probe reports whether the foreground window belongs to target.
type Probe interface {
	IsTargetForeground(target string) bool
}

// Monitor is the only writer of the host-active flag.
type Monitor struct {
	probe  Probe
	config *config.Manager
	state  *state.State
	logger *slog.Logger

	onLost     func()
	lastActive bool
}

// NewMonitor creates a focus monitor.
func NewMonitor(probe Probe, cfg *config.Manager, st *state.State, logger *slog.Logger) *Monitor {
	return &Monitor{
		probe:  probe,
		config: cfg,
		state:  st,
		logger: logger.With("component", "focus"),
	}
}

// OnFocusLost sets a callback run when focus loss stops a sequence.
// It must be set before Run.
func (m *Monitor) OnFocusLost(fn func()) {
	m.onLost = fn
}

// Run probes immediately and then once per focus interval until ctx is done.
func (m *Monitor) Run(ctx context.Context) {
	m.logger.Debug("focus monitor started")
	for {
		m.Check()
		if !timing.Wait(ctx, m.config.Snapshot().FocusInterval()) {
			m.logger.Debug("focus monitor stopped")
			return
		}
	}
}

// Check runs one probe cycle and returns the observed state.
func (m *Monitor) Check() bool {
	target := m.config.Snapshot().TargetWindow
	active := m.safeProbe(target)

	m.state.SetHostActive(active)
	if active != m.lastActive {
		m.logger.Debug("focus changed", "target", target, "active", active)
		if !active && m.state.StopRunning() {
			m.logger.Info("macro stopped: lost focus")
			if m.onLost != nil {
				m.onLost()
			}
		}
		m.lastActive = active
	}
	return active
}

// safeProbe treats a panicking probe as inactive.
func (m *Monitor) safeProbe(target string) (active bool) {
	defer func() {
		if r := recover(); r != nil {
			m.logger.Warn("focus probe failed", "panic", r)
			active = false
		}
	}()
	return m.probe.IsTargetForeground(target)
}
