// Package keys defines the closed set of keyboard keys and mouse buttons the
// macro can bind, and the canonical names used for them in configuration.
package keys

import (
	"fmt"
	"strconv"
	"strings"
)

// Key identifies a keyboard key independently of any platform key code.
type Key uint8

const (
	Unknown Key = iota
	Space
	A
	B
	C
	D
	E
	F
	G
	H
	I
	J
	K
	L
	M
	N
	O
	P
	Q
	R
	S
	T
	U
	V
	W
	X
	Y
	Z
	Num0
	Num1
	Num2
	Num3
	Num4
	Num5
	Num6
	Num7
	Num8
	Num9
	F1
	F2
	F3
	F4
	F5
	F6
	F7
	F8
	F9
	F10
	F11
	F12
	Dot
	Comma
	Minus
	Slash
	Enter
	Tab
	Escape
	Backspace
	LControl
	RControl
	LShift
	RShift
	LAlt
	RAlt

	numKeys
)

// Fallback is the key an unrecognised name resolves to.
const Fallback = E

var names = [numKeys]string{
	Unknown:   "Unknown",
	Space:     "Space",
	A:         "A",
	B:         "B",
	C:         "C",
	D:         "D",
	E:         "E",
	F:         "F",
	G:         "G",
	H:         "H",
	I:         "I",
	J:         "J",
	K:         "K",
	L:         "L",
	M:         "M",
	N:         "N",
	O:         "O",
	P:         "P",
	Q:         "Q",
	R:         "R",
	S:         "S",
	T:         "T",
	U:         "U",
	V:         "V",
	W:         "W",
	X:         "X",
	Y:         "Y",
	Z:         "Z",
	Num0:      "0",
	Num1:      "1",
	Num2:      "2",
	Num3:      "3",
	Num4:      "4",
	Num5:      "5",
	Num6:      "6",
	Num7:      "7",
	Num8:      "8",
	Num9:      "9",
	F1:        "F1",
	F2:        "F2",
	F3:        "F3",
	F4:        "F4",
	F5:        "F5",
	F6:        "F6",
	F7:        "F7",
	F8:        "F8",
	F9:        "F9",
	F10:       "F10",
	F11:       "F11",
	F12:       "F12",
	Dot:       ".",
	Comma:     ",",
	Minus:     "-",
	Slash:     "/",
	Enter:     "Enter",
	Tab:       "Tab",
	Escape:    "Escape",
	Backspace: "Backspace",
	LControl:  "LControl",
	RControl:  "RControl",
	LShift:    "LShift",
	RShift:    "RShift",
	LAlt:      "LAlt",
	RAlt:      "RAlt",
}

// aliases are accepted on input but never produced by String.
var aliases = map[string]Key{
	"PERIOD":    Dot,
	"DOT":       Dot,
	"COMMA":     Comma,
	"MINUS":     Minus,
	"SLASH":     Slash,
	"RETURN":    Enter,
	"ESC":       Escape,
	"SPACEBAR":  Space,
	"LCTRL":     LControl,
	"RCTRL":     RControl,
	"CONTROL":   LControl,
	"CTRL":      LControl,
	"SHIFT":     LShift,
	"ALT":       LAlt,
	"BACKSPACE": Backspace,
}

var byName map[string]Key

func init() {
	byName = make(map[string]Key, len(names)+len(aliases))
	for k := Key(1); k < numKeys; k++ {
		byName[strings.ToUpper(names[k])] = k
	}
	for alias, k := range aliases {
		byName[alias] = k
	}
}

// String returns the canonical configuration name of the key.
func (k Key) String() string {
	if k >= numKeys {
		return names[Unknown]
	}
	return names[k]
}

// IsModifier reports whether k is a Control, Shift or Alt key.
func (k Key) IsModifier() bool {
	switch k {
	case LControl, RControl, LShift, RShift, LAlt, RAlt:
		return true
	}
	return false
}

// Lookup resolves a configuration name, case-insensitively.
func Lookup(name string) (Key, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	upper = strings.TrimPrefix(upper, "KEYCODE::")
	k, ok := byName[upper]
	return k, ok
}

// Parse resolves name like Lookup but never fails: unknown names resolve to
// Fallback and ok reports whether the fallback was taken.
func Parse(name string) (k Key, ok bool) {
	if k, ok := Lookup(name); ok {
		return k, true
	}
	return Fallback, false
}

// All returns every bindable key in table order.
func All() []Key {
	out := make([]Key, 0, numKeys-1)
	for k := Key(1); k < numKeys; k++ {
		out = append(out, k)
	}
	return out
}

// Set is a collection of keys currently held down.
type Set map[Key]struct{}

// NewSet builds a Set from a slice.
func NewSet(ks []Key) Set {
	s := make(Set, len(ks))
	for _, k := range ks {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set.
func (s Set) Has(k Key) bool {
	_, ok := s[k]
	return ok
}

// Button is a mouse button number as reported by device queries.
// Index 0 is unused; 1 is left, 2 right, 3 middle and 8/9 the side buttons.
type Button int

const (
	Left   Button = 1
	Right  Button = 2
	Middle Button = 3
	Side1  Button = 8
	Side2  Button = 9

	// MaxButton bounds the indices accepted from configuration.
	MaxButton Button = 31
)

// String returns the display name of the button.
func (b Button) String() string {
	switch b {
	case Left:
		return "Left"
	case Right:
		return "Right"
	case Middle:
		return "Middle"
	case Side1:
		return "Side1"
	case Side2:
		return "Side2"
	}
	return fmt.Sprintf("Mouse%d", int(b))
}

// Pressed reports whether b is held in a button state slice.
func (b Button) Pressed(state []bool) bool {
	return b >= 0 && int(b) < len(state) && state[b]
}

// ParseButton accepts "Left", "Side2", "Mouse8" or a bare index.
func ParseButton(name string) (Button, bool) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	switch upper {
	case "LEFT":
		return Left, true
	case "RIGHT":
		return Right, true
	case "MIDDLE":
		return Middle, true
	case "SIDE1":
		return Side1, true
	case "SIDE2":
		return Side2, true
	}
	upper = strings.TrimPrefix(upper, "MOUSE")
	n, err := strconv.Atoi(upper)
	if err != nil || n < 0 || Button(n) > MaxButton {
		return 0, false
	}
	return Button(n), true
}
