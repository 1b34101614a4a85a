//go:build linux || darwin

package focus

import (
	"os"
	"runtime"
	"strings"

	"github.com/go-vgo/robotgo"
)

// TitleProbe matches the active window title.
type TitleProbe struct{}

// NewProbe returns the platform probe.
func NewProbe() Probe {
	return TitleProbe{}
}

// IsTargetForeground reports whether target occurs, case-insensitively, in
// the active window title. Without an X display it always reports false.
func (TitleProbe) IsTargetForeground(target string) bool {
	if target == "" {
		return false
	}
	if runtime.GOOS == "linux" && os.Getenv("DISPLAY") == "" {
		return false
	}
	return strings.Contains(strings.ToLower(robotgo.GetTitle()), strings.ToLower(target))
}
