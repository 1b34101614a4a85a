//go:build windows

package input

import "contagion/internal/keys"

// asyncKeyQuery polls GetAsyncKeyState for every bindable key and button.
type asyncKeyQuery struct{}

// NewDeviceQuery returns a DeviceQuery backed by GetAsyncKeyState.
func NewDeviceQuery() (DeviceQuery, error) {
	if err := procGetAsyncKeyState.Find(); err != nil {
		return nil, err
	}
	return asyncKeyQuery{}, nil
}

func isDown(vk uint16) bool {
	ret, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return uint16(ret)&0x8000 != 0
}

// Keys returns the bindable keys currently held.
func (asyncKeyQuery) Keys() []keys.Key {
	var held []keys.Key
	for k, vk := range keyToVK {
		if isDown(vk) {
			held = append(held, k)
		}
	}
	return held
}

// MouseButtons returns the pressed state by button number.
func (asyncKeyQuery) MouseButtons() []bool {
	state := make([]bool, buttonSlots)
	for b, vk := range buttonToVK {
		state[b] = isDown(vk)
	}
	return state
}
