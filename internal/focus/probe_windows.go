//go:build windows

package focus

import (
	"path/filepath"
	"strings"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32             = windows.NewLazySystemDLL("user32.dll")
	procGetWindowTextW = user32.NewProc("GetWindowTextW")
)

// WindowProbe matches the foreground window's title and executable name.
type WindowProbe struct{}

// NewProbe returns the platform probe.
func NewProbe() Probe {
	return WindowProbe{}
}

// IsTargetForeground reports whether target occurs, case-insensitively, in
// the foreground window title or its process image name.
func (WindowProbe) IsTargetForeground(target string) bool {
	if target == "" {
		return false
	}
	hwnd := windows.GetForegroundWindow()
	if hwnd == 0 {
		return false
	}
	target = strings.ToLower(target)

	if title := windowText(hwnd); strings.Contains(strings.ToLower(title), target) {
		return true
	}
	image := processImage(hwnd)
	return image != "" && strings.Contains(strings.ToLower(filepath.Base(image)), target)
}

func windowText(hwnd windows.HWND) string {
	buf := make([]uint16, 512)
	n, _, _ := procGetWindowTextW.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
	if n == 0 {
		return ""
	}
	return windows.UTF16ToString(buf[:n])
}

func processImage(hwnd windows.HWND) string {
	var pid uint32
	if _, err := windows.GetWindowThreadProcessId(hwnd, &pid); err != nil || pid == 0 {
		return ""
	}
	h, err := windows.OpenProcess(windows.PROCESS_QUERY_LIMITED_INFORMATION, false, pid)
	if err != nil {
		return ""
	}
	defer windows.CloseHandle(h)

	buf := make([]uint16, windows.MAX_PATH)
	size := uint32(len(buf))
	if err := windows.QueryFullProcessImageName(h, 0, &buf[0], &size); err != nil {
		return ""
	}
	return windows.UTF16ToString(buf[:size])
}
