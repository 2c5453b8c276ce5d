package pipeline

import (
	"fmt"
	"os"
	"syscall"

	"github.com/bblancha/ion/internal/platform"
)

// newPipe creates an anonymous pipe through the platform facade.
func newPipe() (r, w *os.File, err error) {
	return platform.Pipe()
}

// dupFile returns a new *os.File backed by a duplicate of f's descriptor,
// used to fan a single pipe writer into both a child's stdout and stderr
// slots for combined-output redirection.
func dupFile(f *os.File) (*os.File, error) {
	fd, err := syscall.Dup(int(f.Fd()))
	if err != nil {
		return nil, fmt.Errorf("duplicate descriptor: %w", err)
	}
	return os.NewFile(uintptr(fd), f.Name()), nil
}

// PipeMode selects how a pipe wired between two neighbouring stages
// connects their descriptors.
type PipeMode int

const (
	PipeStdout PipeMode = iota
	PipeStderr
	PipeCombined
)

// wirePipe connects parent's output to child's stdin through a fresh
// pipe:
//
//	out:  parent.stdout <- writer; child.stdin <- reader
//	err:  parent.stderr <- writer; child.stdin <- reader
//	both: parent.stdout <- writer; parent.stderr <- dup(writer); child.stdin <- reader
//
// On any failure the pipe (and any dup'd descriptor) is closed and the
// caller must not spawn either command; the pipeline aborts and the
// caller reports the error without spawning.
func wirePipe(parent, child *Cmd, mode PipeMode) error {
	r, w, err := newPipe()
	if err != nil {
		return &SetupError{Op: "create pipe for redirection", Err: err}
	}
	ok := false
	defer func() {
		if !ok {
			r.Close()
			w.Close()
		}
	}()

	switch mode {
	case PipeStdout:
		parent.SetStdout(w)
	case PipeStderr:
		parent.SetStderr(w)
	case PipeCombined:
		dup, err := dupFile(w)
		if err != nil {
			return &SetupError{Op: "duplicate pipe writer for combined redirect", Err: err}
		}
		parent.SetStdout(w)
		parent.SetStderr(dup)
	default:
		return &SetupError{Op: "wire pipe", Err: fmt.Errorf("unknown pipe mode %d", mode)}
	}
	child.SetStdin(r)
	ok = true
	return nil
}

// applyInputRedirection attaches the pipeline's head input source (if
// any) to the first job's prepared command. Failures
// degrade to "leave stdin unset" (inherit) and are reported through diag
// rather than returned, matching the "setup errors never abort" policy.
func applyInputRedirection(first *Cmd, in InputSource, shellName string, diag func(string)) {
	if !in.Set {
		return
	}
	if in.File != "" {
		f, err := os.Open(in.File)
		if err != nil {
			diag(diagnostic(shellName, "failed to redirect '%s' into stdin: %v", in.File, err))
			return
		}
		first.SetStdin(f)
		return
	}
	f, err := materializeHereString(in.HereString)
	if err != nil {
		diag(diagnostic(shellName, "failed to redirect herestring '%s' into stdin: %v", in.HereString, err))
		return
	}
	first.SetStdin(f)
}

// fdSlot returns the *os.File currently assigned to fd (0/1/2) on c, or the
// shell's own inherited stream if the slot has not been assigned yet. Used
// to resolve "N>&M" style duplications (a per-job Redirect with
// ToFDSet) against whatever the sibling slot currently points at.
func fdSlot(c *Cmd, fd int) *os.File {
	switch fd {
	case 0:
		if c.stdin != nil {
			return c.stdin
		}
		return os.Stdin
	case 1:
		if c.stdout != nil {
			return c.stdout
		}
		return os.Stdout
	case 2:
		if c.stderr != nil {
			return c.stderr
		}
		return os.Stderr
	default:
		return nil
	}
}

func assignSlot(c *Cmd, fd int, f *os.File) {
	switch fd {
	case 0:
		c.SetStdin(f)
	case 1:
		c.SetStdout(f)
	case 2:
		c.SetStderr(f)
	}
}

// applyJobRedirects applies a job's own per-job redirections (e.g. "2>&1",
// "2>file") to its prepared command, ahead of the pipeline-level input
// source / output sink that the caller applies separately to the first and
// last job. A file redirect opens the path for reading when FromFD is 0
// and for writing otherwise; only fds 0, 1 and 2 are assigned to a slot.
// Errors degrade to leaving the slot as it was, matching the setup-error
// policy.
func applyJobRedirects(c *Cmd, redirects []Redirect, shellName string, diag func(string)) {
	for _, r := range redirects {
		if r.ToFDSet {
			src := fdSlot(c, r.ToFD)
			if src == nil {
				continue
			}
			dup, err := dupFile(src)
			if err != nil {
				diag(diagnostic(shellName, "failed to duplicate fd %d for fd %d: %v", r.ToFD, r.FromFD, err))
				continue
			}
			assignSlot(c, r.FromFD, dup)
			continue
		}

		flags := os.O_CREATE
		if r.FromFD == 0 {
			flags |= os.O_RDONLY
		} else {
			flags |= os.O_WRONLY
			if r.Append {
				flags |= os.O_APPEND
			} else {
				flags |= os.O_TRUNC
			}
		}
		f, err := os.OpenFile(r.Path, flags, 0644)
		if err != nil {
			diag(diagnostic(shellName, "failed to redirect '%s' into fd %d: %v", r.Path, r.FromFD, err))
			continue
		}
		assignSlot(c, r.FromFD, f)
	}
}

// applyOutputRedirection attaches the pipeline's tail output sink (if
// any) to the last job's prepared command.
func applyOutputRedirection(last *Cmd, out OutputSink, shellName string, diag func(string)) {
	if !out.Set {
		return
	}
	flags := os.O_WRONLY | os.O_CREATE
	if out.Append {
		flags |= os.O_APPEND
	} else {
		flags |= os.O_TRUNC
	}
	f, err := os.OpenFile(out.Path, flags, 0644)
	if err != nil {
		diag(diagnostic(shellName, "failed to redirect stdout into %s: %v", out.Path, err))
		return
	}
	switch out.From {
	case RedirectStdout:
		last.SetStdout(f)
	case RedirectStderr:
		last.SetStderr(f)
	case RedirectBoth:
		dup, err := dupFile(f)
		if err != nil {
			diag(diagnostic(shellName, "failed to redirect stdout into %s: %v", out.Path, err))
			f.Close()
			return
		}
		last.SetStdout(f)
		last.SetStderr(dup)
	}
}
