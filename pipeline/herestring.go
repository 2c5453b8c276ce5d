package pipeline

import (
	"bufio"
	"os"
	"strings"
)

// materializeHereString turns a `<<<` here-string literal into a readable
// *os.File suitable for a Cmd's stdin slot, ensuring a trailing newline (a
// literal that already ends in '\n' is left alone; one is appended only
// when missing). The write happens synchronously before the file is ever
// handed to a child, so there is no producer goroutine. A literal of at
// most 4096 bytes is written into a fresh pipe whose write end is flushed
// and closed before the read end is handed back; nothing reads that pipe
// during the write, so a longer literal, which might not fit the pipe's
// buffer, is written instead to an unlinked temporary file, handed back
// positioned at its start.
func materializeHereString(text string) (*os.File, error) {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}

	// 4096 bytes (PIPE_BUF on Linux) fits the buffer of any pipe.
	if len(text) > 4096 {
		f, err := os.CreateTemp("", "ion-herestring-")
		if err != nil {
			return nil, &SetupError{Op: "create temp file for herestring", Err: err}
		}
		os.Remove(f.Name())
		if _, err := f.WriteAt([]byte(text), 0); err != nil {
			f.Close()
			return nil, &SetupError{Op: "write herestring", Err: err}
		}
		return f, nil
	}

	r, w, err := newPipe()
	if err != nil {
		return nil, &SetupError{Op: "create pipe for herestring", Err: err}
	}
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(text); err != nil {
		w.Close()
		r.Close()
		return nil, &SetupError{Op: "write herestring", Err: err}
	}
	if err := bw.Flush(); err != nil {
		w.Close()
		r.Close()
		return nil, &SetupError{Op: "flush herestring", Err: err}
	}
	if err := w.Close(); err != nil {
		r.Close()
		return nil, &SetupError{Op: "close herestring writer", Err: err}
	}
	return r, nil
}
