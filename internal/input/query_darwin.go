//go:build darwin

package input

/*
#cgo LDFLAGS: -framework CoreGraphics

#include <CoreGraphics/CoreGraphics.h>

static bool keyDown(CGKeyCode code) {
    return CGEventSourceKeyState(kCGEventSourceStateCombinedSessionState, code);
}

static bool buttonDown(int button) {
    return CGEventSourceButtonState(kCGEventSourceStateCombinedSessionState, (CGMouseButton)button);
}
*/
import "C"

import "contagion/internal/keys"

// cgQuery reads the combined session event source state.
type cgQuery struct{}

// NewDeviceQuery returns a DeviceQuery backed by CoreGraphics.
func NewDeviceQuery() (DeviceQuery, error) {
	return cgQuery{}, nil
}

// Keys returns the bindable keys currently held.
func (cgQuery) Keys() []keys.Key {
	var held []keys.Key
	for k, code := range keyToMac {
		if bool(C.keyDown(C.CGKeyCode(code))) {
			held = append(held, k)
		}
	}
	return held
}

// MouseButtons returns the pressed state by button number.
func (cgQuery) MouseButtons() []bool {
	state := make([]bool, buttonSlots)
	for b, n := range buttonToMac {
		state[b] = bool(C.buttonDown(C.int(n)))
	}
	return state
}
