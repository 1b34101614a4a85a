package tray

import (
	"context"
	"fmt"
	"time"

	"contagion/internal/capture"
	"contagion/internal/config"
	"contagion/internal/state"
)

const statusRefresh = 500 * time.Millisecond

// Controls is what the macro menu drives.
type Controls struct {
	Config     *config.Manager
	State      *state.State
	Capture    *capture.Capturer
	SetEnabled func(bool)
	Quit       func()
}

// Menu is the macro menu on a Tray.
type Menu struct {
	tray     *Tray
	controls Controls

	statusID  int
	enabledID int
	rebindIDs map[capture.Target]int
}

// BuildMenu declares the macro menu on t. It must be called before Run.
func BuildMenu(t *Tray, c Controls) *Menu {
	m := &Menu{tray: t, controls: c, rebindIDs: make(map[capture.Target]int)}

	m.statusID = t.AddLabel(c.State.String())
	m.enabledID = t.AddCheckbox("Macro enabled", c.State.MacroEnabled(), func() {
		c.SetEnabled(!c.State.MacroEnabled())
		m.Refresh()
	})
	t.AddSeparator()

	cfg := c.Config.Snapshot()
	for _, target := range capture.Targets() {
		m.rebindIDs[target] = t.AddMenuItem(rebindTitle(target, cfg), func() {
			c.Capture.Begin(target)
			t.SetItemTitle(m.rebindIDs[target], fmt.Sprintf("Rebind %s: press %s (Esc cancels)", target, inputKind(target)))
		})
	}
	c.Capture.OnDone(func(capture.Result) { m.Refresh() })
	c.Config.RegisterChangeCallback(func(config.Config) { m.Refresh() })

	t.AddSeparator()
	t.AddMenuItem("Quit", c.Quit)
	return m
}

// Refresh updates every title and check mark from the live state.
func (m *Menu) Refresh() {
	c := m.controls
	m.tray.SetItemTitle(m.statusID, c.State.String())
	m.tray.SetItemChecked(m.enabledID, c.State.MacroEnabled())

	armed, isArmed := c.Capture.Armed()
	cfg := c.Config.Snapshot()
	for target, id := range m.rebindIDs {
		if isArmed && armed == target {
			continue
		}
		m.tray.SetItemTitle(id, rebindTitle(target, cfg))
	}
}

// Poll refreshes the menu until ctx is done.
func (m *Menu) Poll(ctx context.Context) {
	ticker := time.NewTicker(statusRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Refresh()
		}
	}
}

func rebindTitle(t capture.Target, cfg config.Config) string {
	return fmt.Sprintf("Rebind %s (%s)", t, t.Current(cfg))
}

func inputKind(t capture.Target) string {
	if t.IsButton() {
		return "a mouse button"
	}
	return "a key"
}
