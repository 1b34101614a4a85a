//go:build darwin

package input

import "contagion/internal/keys"

// macOS virtual key codes
// Reference: https://developer.apple.com/documentation/coregraphics/cgkeycode
var keyToMac = map[keys.Key]uint16{
	keys.A: 0x00,
	keys.B: 0x0B,
	keys.C: 0x08,
	keys.D: 0x02,
	keys.E: 0x0E,
	keys.F: 0x03,
	keys.G: 0x05,
	keys.H: 0x04,
	keys.I: 0x22,
	keys.J: 0x26,
	keys.K: 0x28,
	keys.L: 0x25,
	keys.M: 0x2E,
	keys.N: 0x2D,
	keys.O: 0x1F,
	keys.P: 0x23,
	keys.Q: 0x0C,
	keys.R: 0x0F,
	keys.S: 0x01,
	keys.T: 0x11,
	keys.U: 0x20,
	keys.V: 0x09,
	keys.W: 0x0D,
	keys.X: 0x07,
	keys.Y: 0x10,
	keys.Z: 0x06,

	keys.Num0: 0x1D,
	keys.Num1: 0x12,
	keys.Num2: 0x13,
	keys.Num3: 0x14,
	keys.Num4: 0x15,
	keys.Num5: 0x17,
	keys.Num6: 0x16,
	keys.Num7: 0x1A,
	keys.Num8: 0x1C,
	keys.Num9: 0x19,

	keys.F1:  0x7A,
	keys.F2:  0x78,
	keys.F3:  0x63,
	keys.F4:  0x76,
	keys.F5:  0x60,
	keys.F6:  0x61,
	keys.F7:  0x62,
	keys.F8:  0x64,
	keys.F9:  0x65,
	keys.F10: 0x6D,
	keys.F11: 0x67,
	keys.F12: 0x6F,

	keys.Space:     0x31,
	keys.Dot:       0x2F,
	keys.Comma:     0x2B,
	keys.Minus:     0x1B,
	keys.Slash:     0x2C,
	keys.Enter:     0x24,
	keys.Tab:       0x30,
	keys.Escape:    0x35,
	keys.Backspace: 0x33,
	keys.LShift:    0x38,
	keys.RShift:    0x3C,
	keys.LControl:  0x3B,
	keys.RControl:  0x3E,
	keys.LAlt:      0x3A, // Option
	keys.RAlt:      0x3D,
}

// CGMouseButton numbers by button index.
var buttonToMac = map[keys.Button]int{
	keys.Left:   0,
	keys.Right:  1,
	keys.Middle: 2,
	keys.Side1:  3,
	keys.Side2:  4,
}
