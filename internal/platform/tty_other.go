//go:build !(linux || darwin)

package platform

import (
	"errors"
	"os"
)

// ErrUnsupported is returned by the terminal-control facade on platforms
// this module does not target: portability to non-POSIX hosts is out of
// scope.
var ErrUnsupported = errors.New("platform: terminal job control is not supported on this OS")

func SetForegroundProcessGroup(tty *os.File, pgid int) error {
	return ErrUnsupported
}

func ForegroundProcessGroup(tty *os.File) (int, error) {
	return 0, ErrUnsupported
}

func IgnoreSIGTTOU() (restore func()) {
	return func() {}
}
