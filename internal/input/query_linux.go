//go:build linux

package input

import (
	"fmt"
	"sync"

	evdev "github.com/gvalkov/golang-evdev"

	"contagion/internal/keys"
)

const devInputGlob = "/dev/input/event*"

var evdevToKey = map[uint16]keys.Key{
	evdev.KEY_A: keys.A, evdev.KEY_B: keys.B, evdev.KEY_C: keys.C, evdev.KEY_D: keys.D,
	evdev.KEY_E: keys.E, evdev.KEY_F: keys.F, evdev.KEY_G: keys.G, evdev.KEY_H: keys.H,
	evdev.KEY_I: keys.I, evdev.KEY_J: keys.J, evdev.KEY_K: keys.K, evdev.KEY_L: keys.L,
	evdev.KEY_M: keys.M, evdev.KEY_N: keys.N, evdev.KEY_O: keys.O, evdev.KEY_P: keys.P,
	evdev.KEY_Q: keys.Q, evdev.KEY_R: keys.R, evdev.KEY_S: keys.S, evdev.KEY_T: keys.T,
	evdev.KEY_U: keys.U, evdev.KEY_V: keys.V, evdev.KEY_W: keys.W, evdev.KEY_X: keys.X,
	evdev.KEY_Y: keys.Y, evdev.KEY_Z: keys.Z,

	evdev.KEY_0: keys.Num0, evdev.KEY_1: keys.Num1, evdev.KEY_2: keys.Num2, evdev.KEY_3: keys.Num3,
	evdev.KEY_4: keys.Num4, evdev.KEY_5: keys.Num5, evdev.KEY_6: keys.Num6, evdev.KEY_7: keys.Num7,
	evdev.KEY_8: keys.Num8, evdev.KEY_9: keys.Num9,

	evdev.KEY_F1: keys.F1, evdev.KEY_F2: keys.F2, evdev.KEY_F3: keys.F3, evdev.KEY_F4: keys.F4,
	evdev.KEY_F5: keys.F5, evdev.KEY_F6: keys.F6, evdev.KEY_F7: keys.F7, evdev.KEY_F8: keys.F8,
	evdev.KEY_F9: keys.F9, evdev.KEY_F10: keys.F10, evdev.KEY_F11: keys.F11, evdev.KEY_F12: keys.F12,

	evdev.KEY_SPACE:      keys.Space,
	evdev.KEY_DOT:        keys.Dot,
	evdev.KEY_COMMA:      keys.Comma,
	evdev.KEY_MINUS:      keys.Minus,
	evdev.KEY_SLASH:      keys.Slash,
	evdev.KEY_ENTER:      keys.Enter,
	evdev.KEY_TAB:        keys.Tab,
	evdev.KEY_ESC:        keys.Escape,
	evdev.KEY_BACKSPACE:  keys.Backspace,
	evdev.KEY_LEFTCTRL:   keys.LControl,
	evdev.KEY_RIGHTCTRL:  keys.RControl,
	evdev.KEY_LEFTSHIFT:  keys.LShift,
	evdev.KEY_RIGHTSHIFT: keys.RShift,
	evdev.KEY_LEFTALT:    keys.LAlt,
	evdev.KEY_RIGHTALT:   keys.RAlt,
}

var evdevToButton = map[uint16]keys.Button{
	evdev.BTN_LEFT:   keys.Left,
	evdev.BTN_RIGHT:  keys.Right,
	evdev.BTN_MIDDLE: keys.Middle,
	evdev.BTN_SIDE:   keys.Side1,
	evdev.BTN_EXTRA:  keys.Side2,
}

// evdevQuery tracks key state from every readable input device. One reader
// goroutine per device folds EV_KEY events into the shared state.
type evdevQuery struct {
	mu      sync.Mutex
	keys    keys.Set
	buttons [buttonSlots]bool
	devices []*evdev.InputDevice
}

// NewDeviceQuery opens all input devices reporting key events. Reading them
// usually requires membership in the input group.
func NewDeviceQuery() (DeviceQuery, error) {
	devices, err := evdev.ListInputDevices(devInputGlob)
	if err != nil {
		return nil, fmt.Errorf("list input devices: %w", err)
	}

	q := &evdevQuery{keys: keys.Set{}}
	for _, dev := range devices {
		if !hasKeyEvents(dev) {
			dev.File.Close()
			continue
		}
		q.devices = append(q.devices, dev)
	}
	if len(q.devices) == 0 {
		return nil, fmt.Errorf("%w: no readable input devices under %s", ErrUnsupported, devInputGlob)
	}
	for _, dev := range q.devices {
		go q.read(dev)
	}
	return q, nil
}

func hasKeyEvents(dev *evdev.InputDevice) bool {
	for ct := range dev.Capabilities {
		if ct.Type == evdev.EV_KEY {
			return true
		}
	}
	return false
}

func (q *evdevQuery) read(dev *evdev.InputDevice) {
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			return
		}
		if ev.Type != evdev.EV_KEY {
			continue
		}
		q.apply(ev.Code, ev.Value != 0)
	}
}

// apply folds one key event into the state. Autorepeat (value 2) counts as held.
func (q *evdevQuery) apply(code uint16, down bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if b, ok := evdevToButton[code]; ok {
		q.buttons[b] = down
		return
	}
	k, ok := evdevToKey[code]
	if !ok {
		return
	}
	if down {
		q.keys[k] = struct{}{}
	} else {
		delete(q.keys, k)
	}
}

// Keys returns the bindable keys currently held.
func (q *evdevQuery) Keys() []keys.Key {
	q.mu.Lock()
	defer q.mu.Unlock()
	held := make([]keys.Key, 0, len(q.keys))
	for k := range q.keys {
		held = append(held, k)
	}
	return held
}

// MouseButtons returns the pressed state by button number.
func (q *evdevQuery) MouseButtons() []bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	state := make([]bool, buttonSlots)
	copy(state, q.buttons[:])
	return state
}

// Close closes every device, ending the reader goroutines.
func (q *evdevQuery) Close() error {
	for _, dev := range q.devices {
		dev.File.Close()
	}
	return nil
}
