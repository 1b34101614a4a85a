// Package hotkey parses key/button combinations such as "Ctrl+F11" or
// "Mouse4" and matches them against polled device state.
package hotkey

import (
	"fmt"
	"strings"
	"sync"

	"contagion/internal/keys"
)

// part is one element of a combo; a part matches if any of its keys or
// buttons is held.
type part struct {
	keys    []keys.Key
	buttons []keys.Button
}

// Combo is a parsed hotkey; all parts must be held at once.
type Combo struct {
	parts    []part
	original string
}

// Parse turns "Ctrl+Alt+1", "F11" or "Mouse4+Mouse5" into a Combo.
func Parse(hotkeyStr string) (Combo, error) {
	if strings.TrimSpace(hotkeyStr) == "" {
		return Combo{}, fmt.Errorf("empty hotkey")
	}

	c := Combo{original: hotkeyStr}
	for _, raw := range strings.Split(hotkeyStr, "+") {
		name := strings.ToUpper(strings.TrimSpace(raw))
		if name == "" {
			// "Ctrl++" binds the plus key, which the table does not have.
			return Combo{}, fmt.Errorf("hotkey %q: empty part", hotkeyStr)
		}

		switch name {
		case "CTRL", "CONTROL":
			c.parts = append(c.parts, part{keys: []keys.Key{keys.LControl, keys.RControl}})
			continue
		case "SHIFT":
			c.parts = append(c.parts, part{keys: []keys.Key{keys.LShift, keys.RShift}})
			continue
		case "ALT":
			c.parts = append(c.parts, part{keys: []keys.Key{keys.LAlt, keys.RAlt}})
			continue
		}

		if strings.HasPrefix(name, "MOUSE") || strings.HasPrefix(name, "SIDE") {
			b, ok := keys.ParseButton(name)
			if !ok {
				return Combo{}, fmt.Errorf("hotkey %q: unknown button %q", hotkeyStr, raw)
			}
			c.parts = append(c.parts, part{buttons: []keys.Button{b}})
			continue
		}

		k, ok := keys.Lookup(name)
		if !ok {
			return Combo{}, fmt.Errorf("hotkey %q: unknown key %q", hotkeyStr, raw)
		}
		c.parts = append(c.parts, part{keys: []keys.Key{k}})
	}
	return c, nil
}

// String returns the text the combo was parsed from.
func (c Combo) String() string { return c.original }

// Matches reports whether every part of the combo is held.
func (c Combo) Matches(held keys.Set, buttons []bool) bool {
	if len(c.parts) == 0 {
		return false
	}
	for _, p := range c.parts {
		if !p.held(held, buttons) {
			return false
		}
	}
	return true
}

func (p part) held(held keys.Set, buttons []bool) bool {
	for _, k := range p.keys {
		if held.Has(k) {
			return true
		}
	}
	for _, b := range p.buttons {
		if b.Pressed(buttons) {
			return true
		}
	}
	return false
}

// Manager holds registered combos and dispatches them against polled state.
type Manager struct {
	mu      sync.RWMutex
	hotkeys []*registeredHotkey
}

type registeredHotkey struct {
	combo    Combo
	callback func()
}

// NewManager creates a new hotkey manager
func NewManager() *Manager {
	return &Manager{}
}

// Register parses hotkeyStr and registers callback for it.
func (m *Manager) Register(hotkeyStr string, callback func()) (int, error) {
	combo, err := Parse(hotkeyStr)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = append(m.hotkeys, &registeredHotkey{combo: combo, callback: callback})
	return len(m.hotkeys) - 1, nil
}

// Clear removes all registered hotkeys
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hotkeys = nil
}

// Dispatch runs, on the calling goroutine, the callback of every combo that is
// currently held and reports whether any fired. Matching is level-based;
// callers debounce.
func (m *Manager) Dispatch(held keys.Set, buttons []bool) bool {
	m.mu.RLock()
	var matched []func()
	for _, hk := range m.hotkeys {
		if hk.combo.Matches(held, buttons) {
			matched = append(matched, hk.callback)
		}
	}
	m.mu.RUnlock()

	for _, fn := range matched {
		fn()
	}
	return len(matched) > 0
}
