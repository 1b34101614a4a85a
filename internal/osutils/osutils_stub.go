//go:build !windows && !linux && !darwin

// Package osutils adjusts process scheduling for timing-sensitive work.
package osutils

import (
	"fmt"
	"runtime"
)

// IsAdmin is a stub for unsupported platforms
func IsAdmin() bool {
	return false
}

// SetHighPriority is not supported on this platform.
func SetHighPriority() error {
	return fmt.Errorf("SetHighPriority not supported on %s", runtime.GOOS)
}

// RaiseTimerResolution is a no-op stub.
func RaiseTimerResolution() (restore func(), err error) {
	return func() {}, nil
}
