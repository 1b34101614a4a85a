//go:build windows

// Package osutils adjusts process scheduling for timing-sensitive work.
package osutils

import (
	"fmt"

	"golang.org/x/sys/windows"
)

var (
	winmm               = windows.NewLazySystemDLL("winmm.dll")
	procTimeBeginPeriod = winmm.NewProc("timeBeginPeriod")
	procTimeEndPeriod   = winmm.NewProc("timeEndPeriod")
)

// IsAdmin checks if the current process has administrative privileges.
// Input sent from a non-elevated process does not reach elevated windows.
func IsAdmin() bool {
	var token windows.Token
	h, _ := windows.GetCurrentProcess()
	err := windows.OpenProcessToken(h, windows.TOKEN_QUERY, &token)
	if err != nil {
		return false
	}
	defer token.Close()

	var sid *windows.SID
	err = windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid,
	)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	member, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return member
}

// SetHighPriority moves the process to HIGH_PRIORITY_CLASS.
func SetHighPriority() error {
	if err := windows.SetPriorityClass(windows.CurrentProcess(), windows.HIGH_PRIORITY_CLASS); err != nil {
		return fmt.Errorf("set priority class: %w", err)
	}
	return nil
}

// RaiseTimerResolution requests 1ms system timer resolution so the OS sleep
// phase of precision waits overshoots less. The returned func restores it.
func RaiseTimerResolution() (restore func(), err error) {
	if err := procTimeBeginPeriod.Find(); err != nil {
		return func() {}, err
	}
	if r, _, _ := procTimeBeginPeriod.Call(1); r != 0 {
		return func() {}, fmt.Errorf("timeBeginPeriod: error %d", r)
	}
	return func() { procTimeEndPeriod.Call(1) }, nil
}
