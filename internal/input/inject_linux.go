//go:build linux

package input

import (
	"fmt"
	"os"

	"github.com/go-vgo/robotgo"

	"contagion/internal/keys"
)

// robotgo key names by key.
var keyToRobotgo = map[keys.Key]string{
	keys.Space:     "space",
	keys.Dot:       ".",
	keys.Comma:     ",",
	keys.Minus:     "-",
	keys.Slash:     "/",
	keys.Enter:     "enter",
	keys.Tab:       "tab",
	keys.Escape:    "esc",
	keys.Backspace: "backspace",
	keys.LControl:  "lctrl",
	keys.RControl:  "rctrl",
	keys.LShift:    "lshift",
	keys.RShift:    "rshift",
	keys.LAlt:      "lalt",
	keys.RAlt:      "ralt",
}

func init() {
	for k := keys.A; k <= keys.Z; k++ {
		keyToRobotgo[k] = string(rune('a' + int(k-keys.A)))
	}
	for k := keys.Num0; k <= keys.Num9; k++ {
		keyToRobotgo[k] = string(rune('0' + int(k-keys.Num0)))
	}
	for k := keys.F1; k <= keys.F12; k++ {
		keyToRobotgo[k] = fmt.Sprintf("f%d", int(k-keys.F1)+1)
	}
}

var buttonToRobotgo = map[keys.Button]string{
	keys.Left:   "left",
	keys.Right:  "right",
	keys.Middle: "center",
}

// robotgoInjector injects through XTest via robotgo.
type robotgoInjector struct{}

// NewInjector acquires an X11 injector. It fails with ErrNoDisplay when no
// display server is reachable.
func NewInjector() (Injector, error) {
	if os.Getenv("DISPLAY") == "" {
		return nil, ErrNoDisplay
	}
	return robotgoInjector{}, nil
}

func (robotgoInjector) PressKey(k keys.Key) error   { return toggleKey(k, "down") }
func (robotgoInjector) ReleaseKey(k keys.Key) error { return toggleKey(k, "up") }

func toggleKey(k keys.Key, dir string) error {
	name, ok := keyToRobotgo[k]
	if !ok {
		return fmt.Errorf("%w: key %s", ErrUnsupported, k)
	}
	return robotgo.KeyToggle(name, dir)
}

func (robotgoInjector) PressButton(b keys.Button) error   { return toggleButton(b, "down") }
func (robotgoInjector) ReleaseButton(b keys.Button) error { return toggleButton(b, "up") }

// Side buttons have no XTest mapping in robotgo.
func toggleButton(b keys.Button, dir string) error {
	name, ok := buttonToRobotgo[b]
	if !ok {
		return fmt.Errorf("%w: button %d", ErrUnsupported, int(b))
	}
	return robotgo.Toggle(name, dir)
}
