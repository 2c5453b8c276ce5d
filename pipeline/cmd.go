package pipeline

import (
	"os"
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/bblancha/ion/internal/platform"
	"github.com/bblancha/ion/lookpath"
)

// pipeEndpoint is a move-only owning handle around a raw file descriptor.
// It generalizes the "wrap a pipe end, dup it, then forget the wrapper so
// the live descriptor survives" pattern (vanadium-go.lib/gosh/cmd.go's
// StdinPipe/afterStartClosers bookkeeping) into an explicit type:
// detach() hands over the *os.File without closing it, and is the ONLY
// way to prevent Close from running. Everything else about a
// pipeEndpoint closes its descriptor exactly once.
type pipeEndpoint struct {
	f        *os.File
	detached bool
}

func newPipeEndpoint(f *os.File) *pipeEndpoint {
	return &pipeEndpoint{f: f}
}

// detach yields the underlying *os.File and marks this endpoint as no
// longer owning it; a subsequent Close is a no-op.
func (p *pipeEndpoint) detach() *os.File {
	p.detached = true
	return p.f
}

// Close closes the underlying descriptor unless it has been detached.
func (p *pipeEndpoint) Close() error {
	if p.detached || p.f == nil {
		return nil
	}
	f := p.f
	p.f = nil
	return f.Close()
}

// Cmd is a prepared external or builtin invocation: argv, environment, and
// three standard-descriptor slots, each either "inherit" (nil file),
// "a concrete owned descriptor" (an *os.File this Cmd will duplicate into
// the child and then close its own copy of), or explicitly "null".
//
// A Cmd is the unit the redirection builder, executor, and waiter all
// operate on. It owns any concrete descriptor assigned to a slot and
// closes it in closeOwned: when Start fails, or once the Waiter has
// reaped the spawned child.
type Cmd struct {
	Path string
	Args []string
	Env  []string

	// name is the argv[0] the caller originally asked for, before PATH
	// resolution; used only for diagnostics, since Args[0]/Path become the
	// resolved absolute path.
	name string

	stdin, stdout, stderr *os.File
	nullStdin             bool
	nullStdout            bool
	nullStderr            bool

	// owned holds every descriptor this Cmd must close once it is no
	// longer needed: either on a failed Start, or once the waiter drops
	// this Cmd after the child has exited.
	owned []*pipeEndpoint

	exec    *exec.Cmd
	started bool
}

// NewCmd resolves name against PATH (via the lookpath package; a builtin
// reaches this constructor only when Shell.builtinFastPath does not run it
// in-process) and returns a Cmd ready to have its stdio wired and then be
// started.
func NewCmd(name string, args []string, env []string) (*Cmd, error) {
	// A Job's own Env entries are overrides layered on top of the shell's
	// inherited environment (e.g. "FOO=bar cmd" keeps the rest of the
	// environment intact), not a full replacement of it; a nil/empty Env
	// is simply "no overrides" and resolves to plain inheritance.
	fullEnv := mergeEnv(os.Environ(), env)

	path := name
	if filepath.Base(name) == name {
		resolved, err := lookpath.Look(sliceToMap(fullEnv), name)
		if err != nil {
			// PATH resolution failure prevents spawning entirely, so it is
			// a SpawnError (aborts the pipe-run with NoSuchCommand) rather
			// than a degrade-and-continue SetupError.
			return nil, &SpawnError{Name: name, Err: err}
		}
		path = resolved
	}
	return &Cmd{Path: path, Args: append([]string{path}, args...), Env: fullEnv, name: name}, nil
}

// own records f as a descriptor this Cmd is responsible for closing, and
// returns the pipeEndpoint wrapping it so the caller can detach() it later
// if ownership moves elsewhere (e.g. into exec.Cmd's ExtraFiles-style
// duplication path).
func (c *Cmd) own(f *os.File) *pipeEndpoint {
	ep := newPipeEndpoint(f)
	c.owned = append(c.owned, ep)
	return ep
}

// SetStdin assigns a concrete, owned descriptor to this Cmd's stdin slot.
func (c *Cmd) SetStdin(f *os.File) { c.stdin = f; c.own(f) }

// SetStdout assigns a concrete, owned descriptor to this Cmd's stdout slot.
func (c *Cmd) SetStdout(f *os.File) { c.stdout = f; c.own(f) }

// SetStderr assigns a concrete, owned descriptor to this Cmd's stderr slot.
func (c *Cmd) SetStderr(f *os.File) { c.stderr = f; c.own(f) }

// SetNullStdin/Stdout/Stderr mark a slot as reading from / writing to
// /dev/null rather than inheriting the shell's descriptor.
func (c *Cmd) SetNullStdin()  { c.nullStdin = true }
func (c *Cmd) SetNullStdout() { c.nullStdout = true }
func (c *Cmd) SetNullStderr() { c.nullStderr = true }

// closeOwned closes every descriptor this Cmd owns. Safe to call more than
// once. Called when a pipe-run fails to spawn entirely (so children still
// see EOF and exit) and, per-stage, by the Waiter as each stage is reaped:
// this is what delivers EOF to the next stage at the right moment, and
// must not happen any earlier.
func (c *Cmd) closeOwned() {
	for _, ep := range c.owned {
		ep.Close()
	}
	c.owned = nil
}

func openDevNull(flag int) (*os.File, error) {
	return os.OpenFile(os.DevNull, flag, 0)
}

// buildExecCmd constructs the underlying exec.Cmd, resolving the
// inherit/null/concrete policy for each stdio slot and attaching the
// SysProcAttr that places this process into process group pgid (pgid ==
// 0 makes this the group leader).
func (c *Cmd) buildExecCmd(pgid int) error {
	ec := exec.Command(c.Path)
	ec.Args = c.Args
	ec.Env = c.Env

	switch {
	case c.stdin != nil:
		ec.Stdin = c.stdin
	case c.nullStdin:
		f, err := openDevNull(os.O_RDONLY)
		if err != nil {
			return &SetupError{Op: "open /dev/null for stdin", Err: err}
		}
		c.own(f)
		ec.Stdin = f
	default:
		ec.Stdin = os.Stdin
	}

	switch {
	case c.stdout != nil:
		ec.Stdout = c.stdout
	case c.nullStdout:
		f, err := openDevNull(os.O_WRONLY)
		if err != nil {
			return &SetupError{Op: "open /dev/null for stdout", Err: err}
		}
		c.own(f)
		ec.Stdout = f
	default:
		ec.Stdout = os.Stdout
	}

	switch {
	case c.stderr != nil:
		ec.Stderr = c.stderr
	case c.nullStderr:
		f, err := openDevNull(os.O_WRONLY)
		if err != nil {
			return &SetupError{Op: "open /dev/null for stderr", Err: err}
		}
		c.own(f)
		ec.Stderr = f
	default:
		ec.Stderr = os.Stderr
	}

	ec.SysProcAttr = platform.SysProcAttrForGroup(pgid)
	c.exec = ec
	return nil
}

// Start spawns the child. It deliberately does NOT close this Cmd's owned
// descriptors on success: the parent's copy of a pipe writer must stay open
// until this specific Cmd is reaped by the Waiter — closing it any earlier
// would break the EOF-delivery contract, which ties closeOwned to "this
// stage has exited", not to "exec has duplicated the descriptor into the
// child".
func (c *Cmd) Start(pgid int) error {
	if err := c.buildExecCmd(pgid); err != nil {
		c.closeOwned()
		return err
	}
	if err := c.exec.Start(); err != nil {
		c.closeOwned()
		return &SpawnError{Name: c.name, Err: err}
	}
	c.started = true
	return nil
}

// Pid returns the child's PID, or -1 if Start has not succeeded.
func (c *Cmd) Pid() int {
	if !c.started || c.exec.Process == nil {
		return -1
	}
	return c.exec.Process.Pid
}

// Wait blocks for this single command's exit and decodes its status. It
// does not itself close owned descriptors; the Waiter is responsible for
// calling closeOwned once this stage has been reaped.
func (c *Cmd) Wait() (code int, signaled bool, sig syscall.Signal, err error) {
	waitErr := c.exec.Wait()
	ps := c.exec.ProcessState
	if ps == nil {
		return FAILURE, false, 0, waitErr
	}
	ws, ok := ps.Sys().(syscall.WaitStatus)
	if !ok {
		// Non-POSIX host; fall back to the plain exit code.
		return ps.ExitCode(), false, 0, nil
	}
	code, signaled, sig = platform.ExitStatus(ws)
	return code, signaled, sig, nil
}
