//go:build darwin

package input

/*
#cgo CFLAGS: -x objective-c
#cgo LDFLAGS: -framework CoreGraphics -framework CoreFoundation -framework ApplicationServices

#include <CoreGraphics/CoreGraphics.h>
#include <CoreFoundation/CoreFoundation.h>
#include <ApplicationServices/ApplicationServices.h>

// Check if we have accessibility permissions
static bool hasAccessibilityPermissions() {
    return AXIsProcessTrusted();
}

static CGPoint currentMousePosition() {
    CGEventRef event = CGEventCreate(NULL);
    CGPoint cursor = CGEventGetLocation(event);
    CFRelease(event);
    return cursor;
}

static void injectMouseButton(int button, bool pressed) {
    CGEventType eventType;
    switch (button) {
        case 0: eventType = pressed ? kCGEventLeftMouseDown : kCGEventLeftMouseUp; break;
        case 1: eventType = pressed ? kCGEventRightMouseDown : kCGEventRightMouseUp; break;
        default: eventType = pressed ? kCGEventOtherMouseDown : kCGEventOtherMouseUp; break;
    }

    CGEventRef event = CGEventCreateMouseEvent(NULL, eventType, currentMousePosition(), (CGMouseButton)button);
    CGEventSetIntegerValueField(event, kCGMouseEventButtonNumber, button);
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
}

static void injectKey(CGKeyCode keyCode, bool pressed) {
    CGEventRef event = CGEventCreateKeyboardEvent(NULL, keyCode, pressed);
    CGEventPost(kCGHIDEventTap, event);
    CFRelease(event);
}
*/
import "C"

import (
	"fmt"

	"contagion/internal/keys"
)

// cgInjector posts events through CoreGraphics.
type cgInjector struct{}

// NewInjector acquires a CoreGraphics injector. Posting events requires the
// Accessibility permission; without it events are silently dropped by the OS,
// so acquisition fails instead.
func NewInjector() (Injector, error) {
	if !bool(C.hasAccessibilityPermissions()) {
		return nil, fmt.Errorf("%w: accessibility permission not granted", ErrUnsupported)
	}
	return cgInjector{}, nil
}

func (cgInjector) PressKey(k keys.Key) error   { return injectKey(k, true) }
func (cgInjector) ReleaseKey(k keys.Key) error { return injectKey(k, false) }

func injectKey(k keys.Key, pressed bool) error {
	code, ok := keyToMac[k]
	if !ok {
		return fmt.Errorf("%w: key %s", ErrUnsupported, k)
	}
	C.injectKey(C.CGKeyCode(code), C.bool(pressed))
	return nil
}

func (cgInjector) PressButton(b keys.Button) error   { return injectButton(b, true) }
func (cgInjector) ReleaseButton(b keys.Button) error { return injectButton(b, false) }

func injectButton(b keys.Button, pressed bool) error {
	n, ok := buttonToMac[b]
	if !ok {
		return fmt.Errorf("%w: button %d", ErrUnsupported, int(b))
	}
	C.injectMouseButton(C.int(n), C.bool(pressed))
	return nil
}
