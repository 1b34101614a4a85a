// Package input provides cross-platform input injection and device state
// queries for the macro engine.
package input

import (
	"errors"

	"contagion/internal/keys"
)

var (
	// ErrUnsupported is returned when the platform or the input cannot be driven.
	ErrUnsupported = errors.New("input: not supported on this platform")

	// ErrNoDisplay is returned when no display server is reachable for injection.
	ErrNoDisplay = errors.New("input: no display available")
)

// Injector sends synthetic key and button events. Calls are best effort;
// the engine ignores their errors.
type Injector interface {
	PressKey(k keys.Key) error
	ReleaseKey(k keys.Key) error
	PressButton(b keys.Button) error
	ReleaseButton(b keys.Button) error
}

// InjectorFactory acquires an Injector. Every task that injects input
// acquires its own.
type InjectorFactory func() (Injector, error)

// DeviceQuery reports the physical state of keyboard and mouse.
type DeviceQuery interface {
	// Keys returns the keys currently held down.
	Keys() []keys.Key

	// MouseButtons returns the pressed state indexed by button number.
	MouseButtons() []bool
}

// buttonSlots is the length of the button slice returned by queries; it covers
// both side buttons.
const buttonSlots = int(keys.Side2) + 1
