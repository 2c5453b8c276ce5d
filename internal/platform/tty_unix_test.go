//go:build linux || darwin

package platform

import "testing"

func TestIgnoreSIGTTOURestoreIsIdempotent(t *testing.T) {
	restore := IgnoreSIGTTOU()
	restore()
	restore() // must be safe to call more than once
}

// TestIgnoreSIGTTOURestoresOnPanic exercises the scoped-acquisition
// contract spec.md §5/§9 requires: restore must run on every exit path
// out of the foreground section, including an unwind through panic/recover.
func TestIgnoreSIGTTOURestoresOnPanic(t *testing.T) {
	restored := false
	func() {
		restore := IgnoreSIGTTOU()
		defer func() {
			restore()
			restored = true
			recover()
		}()
		panic("boom")
	}()
	if !restored {
		t.Fatal("restore was not called during panic unwind")
	}
}
