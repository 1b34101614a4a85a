//go:build linux || darwin

// Package osutils adjusts process scheduling for timing-sensitive work.
package osutils

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// highPriorityNice is the niceness requested by SetHighPriority. Going below
// zero needs root or CAP_SYS_NICE.
const highPriorityNice = -10

// IsAdmin reports whether the process runs as root.
func IsAdmin() bool {
	return os.Geteuid() == 0
}

// SetHighPriority lowers the niceness of the process.
func SetHighPriority() error {
	if err := unix.Setpriority(unix.PRIO_PROCESS, 0, highPriorityNice); err != nil {
		return fmt.Errorf("setpriority: %w", err)
	}
	return nil
}

// RaiseTimerResolution is a no-op; unix timers are already fine-grained.
func RaiseTimerResolution() (restore func(), err error) {
	return func() {}, nil
}
