package config

import (
	"fmt"

	"contagion/internal/keys"
)

// Keybinds maps the logical actions of the sequence to physical inputs.
type Keybinds struct {
	Melee      keys.Key
	Jump       keys.Key
	Emote      keys.Key
	RapidClick keys.Key

	Aim   keys.Button
	Fire  keys.Button
	Macro keys.Button

	// MacroAlt is only consulted when AltEnabled is set.
	MacroAlt   keys.Button
	AltEnabled bool
}

// Keybinds resolves the binding strings of the snapshot. Names the key table
// does not know silently resolve to keys.Fallback; each such substitution is
// described in the returned warnings so callers can surface it.
func (c Config) Keybinds() (Keybinds, []string) {
	var warnings []string
	resolve := func(field, name string) keys.Key {
		k, ok := keys.Parse(name)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("%s %q is not a known key, using %s", field, name, k))
		}
		return k
	}

	kb := Keybinds{
		Melee:      resolve("melee_key", c.MeleeKey),
		Jump:       resolve("jump_key", c.JumpKey),
		Emote:      resolve("emote_key", c.EmoteKey),
		RapidClick: resolve("rapid_click_key", c.RapidClickKey),
		Aim:        keys.Button(c.AimButton),
		Fire:       keys.Button(c.FireButton),
		Macro:      keys.Button(c.MacroButton),
		MacroAlt:   keys.Button(c.MacroAltButton),
		AltEnabled: c.MacroAltEnabled,
	}
	return kb, warnings
}

// TriggerPressed reports whether the macro trigger (or its enabled
// alternative) is held in the given button state.
func (kb Keybinds) TriggerPressed(buttons []bool) bool {
	if kb.Macro.Pressed(buttons) {
		return true
	}
	return kb.AltEnabled && kb.MacroAlt.Pressed(buttons)
}
