//go:build windows

package input

import "contagion/internal/keys"

// Windows virtual-key codes
// Reference: https://docs.microsoft.com/en-us/windows/win32/inputdev/virtual-key-codes
var keyToVK = map[keys.Key]uint16{
	keys.Space:     0x20,
	keys.Dot:       0xBE, // VK_OEM_PERIOD
	keys.Comma:     0xBC, // VK_OEM_COMMA
	keys.Minus:     0xBD, // VK_OEM_MINUS
	keys.Slash:     0xBF, // VK_OEM_2
	keys.Enter:     0x0D,
	keys.Tab:       0x09,
	keys.Escape:    0x1B,
	keys.Backspace: 0x08,
	keys.LControl:  0xA2,
	keys.RControl:  0xA3,
	keys.LShift:    0xA0,
	keys.RShift:    0xA1,
	keys.LAlt:      0xA4,
	keys.RAlt:      0xA5,
}

func init() {
	for i := 0; i < 26; i++ {
		keyToVK[keys.A+keys.Key(i)] = uint16(0x41 + i)
	}
	for i := 0; i < 10; i++ {
		keyToVK[keys.Num0+keys.Key(i)] = uint16(0x30 + i)
	}
	for i := 0; i < 12; i++ {
		keyToVK[keys.F1+keys.Key(i)] = uint16(0x70 + i)
	}
}

// Mouse virtual-key codes by button number.
var buttonToVK = map[keys.Button]uint16{
	keys.Left:   0x01, // VK_LBUTTON
	keys.Right:  0x02, // VK_RBUTTON
	keys.Middle: 0x04, // VK_MBUTTON
	keys.Side1:  0x05, // VK_XBUTTON1
	keys.Side2:  0x06, // VK_XBUTTON2
}

// isExtendedKey marks keys that need KEYEVENTF_EXTENDEDKEY.
func isExtendedKey(k keys.Key) bool {
	return k == keys.RControl || k == keys.RAlt
}
