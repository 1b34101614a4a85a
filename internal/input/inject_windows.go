//go:build windows

package input

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"

	"contagion/internal/keys"
)

var (
	user32               = windows.NewLazySystemDLL("user32.dll")
	procSendInput        = user32.NewProc("SendInput")
	procMapVirtualKey    = user32.NewProc("MapVirtualKeyW")
	procGetAsyncKeyState = user32.NewProc("GetAsyncKeyState")
)

const (
	INPUT_MOUSE    = 0
	INPUT_KEYBOARD = 1

	KEYEVENTF_EXTENDEDKEY = 0x0001
	KEYEVENTF_KEYUP       = 0x0002
	KEYEVENTF_SCANCODE    = 0x0008

	MOUSEEVENTF_LEFTDOWN   = 0x0002
	MOUSEEVENTF_LEFTUP     = 0x0004
	MOUSEEVENTF_RIGHTDOWN  = 0x0008
	MOUSEEVENTF_RIGHTUP    = 0x0010
	MOUSEEVENTF_MIDDLEDOWN = 0x0020
	MOUSEEVENTF_MIDDLEUP   = 0x0040
	MOUSEEVENTF_XDOWN      = 0x0080
	MOUSEEVENTF_XUP        = 0x0100

	XBUTTON1 = 0x0001
	XBUTTON2 = 0x0002

	MAPVK_VK_TO_VSC = 0
)

type MOUSEINPUT struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type KEYBDINPUT struct {
	WVk         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// mouseINPUT and keybdINPUT mirror the INPUT union for each member; the
// keyboard variant is padded to the size of the larger mouse member.
type mouseINPUT struct {
	Type uint32
	Mi   MOUSEINPUT
}

type keybdINPUT struct {
	Type uint32
	Ki   KEYBDINPUT
	_    [8]byte
}

// sendInputInjector sends input through SendInput. Keys are sent as scan
// codes, which games reading raw input pick up more reliably than virtual keys.
type sendInputInjector struct{}

// NewInjector acquires a SendInput injector.
func NewInjector() (Injector, error) {
	if err := procSendInput.Find(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupported, err)
	}
	return &sendInputInjector{}, nil
}

// PressKey injects a key-down event.
func (i *sendInputInjector) PressKey(k keys.Key) error { return i.key(k, false) }

// ReleaseKey injects a key-up event.
func (i *sendInputInjector) ReleaseKey(k keys.Key) error { return i.key(k, true) }

func (i *sendInputInjector) key(k keys.Key, up bool) error {
	vk, ok := keyToVK[k]
	if !ok {
		return fmt.Errorf("%w: key %s", ErrUnsupported, k)
	}
	scan, _, _ := procMapVirtualKey.Call(uintptr(vk), MAPVK_VK_TO_VSC)

	in := keybdINPUT{Type: INPUT_KEYBOARD}
	in.Ki.WScan = uint16(scan)
	in.Ki.DwFlags = KEYEVENTF_SCANCODE
	if isExtendedKey(k) {
		in.Ki.DwFlags |= KEYEVENTF_EXTENDEDKEY
	}
	if up {
		in.Ki.DwFlags |= KEYEVENTF_KEYUP
	}
	return sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

// PressButton injects a mouse button-down event.
func (i *sendInputInjector) PressButton(b keys.Button) error { return i.button(b, true) }

// ReleaseButton injects a mouse button-up event.
func (i *sendInputInjector) ReleaseButton(b keys.Button) error { return i.button(b, false) }

func (i *sendInputInjector) button(b keys.Button, down bool) error {
	in := mouseINPUT{Type: INPUT_MOUSE}
	switch b {
	case keys.Left:
		in.Mi.DwFlags = pick(down, MOUSEEVENTF_LEFTDOWN, MOUSEEVENTF_LEFTUP)
	case keys.Right:
		in.Mi.DwFlags = pick(down, MOUSEEVENTF_RIGHTDOWN, MOUSEEVENTF_RIGHTUP)
	case keys.Middle:
		in.Mi.DwFlags = pick(down, MOUSEEVENTF_MIDDLEDOWN, MOUSEEVENTF_MIDDLEUP)
	case keys.Side1:
		in.Mi.DwFlags = pick(down, MOUSEEVENTF_XDOWN, MOUSEEVENTF_XUP)
		in.Mi.MouseData = XBUTTON1
	case keys.Side2:
		in.Mi.DwFlags = pick(down, MOUSEEVENTF_XDOWN, MOUSEEVENTF_XUP)
		in.Mi.MouseData = XBUTTON2
	default:
		return fmt.Errorf("%w: button %d", ErrUnsupported, int(b))
	}
	return sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

func pick(cond bool, a, b uint32) uint32 {
	if cond {
		return a
	}
	return b
}

func sendInput(in unsafe.Pointer, size uintptr) error {
	n, _, err := procSendInput.Call(1, uintptr(in), size)
	if n != 1 {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}
