//go:build !(linux || darwin)

package platform

import (
	"os"
	"syscall"
)

// SysProcAttrForGroup is unsupported outside linux/darwin: portability to
// non-POSIX hosts is out of scope, so this returns a zero-value
// SysProcAttr rather than attempting a process-group assignment the
// target OS may not express the same way.
func SysProcAttrForGroup(pgid int) *syscall.SysProcAttr {
	return &syscall.SysProcAttr{}
}

// KillProcessGroup is unsupported outside linux/darwin.
func KillProcessGroup(pgid int, sig syscall.Signal) error {
	return ErrUnsupported
}

// ProcessGroupAlive is unsupported outside linux/darwin; it reports false
// so callers waiting on a group to exit do not spin forever.
func ProcessGroupAlive(pgid int) bool {
	return false
}

// Pipe creates an anonymous pipe via the standard library, which already
// arranges close-on-exec on every OS Go supports.
func Pipe() (r, w *os.File, err error) {
	return os.Pipe()
}

// ExitStatus reports a plain, non-signaled exit; non-POSIX hosts outside
// this module's target platforms don't expose POSIX wait-status signal
// decoding the same way.
func ExitStatus(ws syscall.WaitStatus) (code int, signaled bool, sig syscall.Signal) {
	return ws.ExitStatus(), false, 0
}
