//go:build linux

package thread

import "golang.org/x/sys/unix"

// applyPriority sets the nice level of the calling OS thread. The
// caller holds runtime.LockOSThread, so the tid is stable for the
// thread's lifetime. Raising priority (negative nice) requires
// CAP_SYS_NICE; the resulting EPERM/EACCES is left to the caller to
// log.
func applyPriority(priority uint8) error {
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), niceBands[band(priority)])
}
