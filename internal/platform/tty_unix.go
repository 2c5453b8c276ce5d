//go:build linux || darwin

package platform

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sys/unix"
)

// SetForegroundProcessGroup hands the controlling terminal tty to process
// group pgid, via the TIOCSPGRP ioctl (the tcsetpgrp(3) contract).
func SetForegroundProcessGroup(tty *os.File, pgid int) error {
	if err := unix.IoctlSetInt(int(tty.Fd()), unix.TIOCSPGRP, pgid); err != nil {
		return fmt.Errorf("platform: tcsetpgrp(%d): %w", pgid, err)
	}
	return nil
}

// ForegroundProcessGroup returns the process group currently holding the
// controlling terminal tty, via the TIOCGPGRP ioctl (tcgetpgrp(3)).
func ForegroundProcessGroup(tty *os.File) (int, error) {
	pgid, err := unix.IoctlGetInt(int(tty.Fd()), unix.TIOCGPGRP)
	if err != nil {
		return 0, fmt.Errorf("platform: tcgetpgrp: %w", err)
	}
	return pgid, nil
}

// IgnoreSIGTTOU installs a process-wide SIGTTOU-ignoring disposition for
// the duration of a foreground pipeline, so that the shell's own call to
// SetForegroundProcessGroup does not stop the shell itself (a background
// process that calls tcsetpgrp receives SIGTTOU by default). The returned
// restore func reverts the disposition; it is safe to call more than once
// and must be called on every exit path, including panics.
func IgnoreSIGTTOU() (restore func()) {
	signal.Ignore(syscall.SIGTTOU)
	done := false
	return func() {
		if done {
			return
		}
		done = true
		signal.Reset(syscall.SIGTTOU)
	}
}
