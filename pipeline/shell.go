// Package pipeline implements the pipeline execution core of an
// interactive Unix shell: redirection, process-group spawning, terminal
// ownership transfer, waiting, and short-circuit &&/|| evaluation over a
// parsed Pipeline. Parsing, line editing, and the job table are out of
// scope; Shell is the entry point the rest of a shell would drive.
package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/bblancha/ion/builtin"
	"go.uber.org/zap"
)

// Shell ties the planner, executor, and waiter together into the single
// entry point the surrounding shell calls once per parsed Pipeline.
// Grounded on vanadium-go.lib/gosh's Shell type: a long-lived object
// holding configuration and a handle to clean up whatever it has started,
// generalized here from "test harness driving subprocesses" to
// "interactive shell driving a pipeline with job control".
type Shell struct {
	// Name prefixes every diagnostic written to Stderr.
	Name string

	// TTY is the controlling terminal this shell owns, used for
	// tcsetpgrp/tcgetpgrp. Leave nil when running non-interactively (e.g.
	// under test, or with stdin not a terminal); all terminal-transfer
	// steps become no-ops.
	TTY *os.File

	// Stderr receives the shell's fixed diagnostic strings.
	// NewShell sets it to os.Stderr; it must not be nil.
	Stderr io.Writer

	// Log is a structured logger for the shell's own operational detail
	// (stage spawned, signal delivered, pipe-run aggregated status) as
	// distinct from the user-facing diagnostics on Stderr. Defaults to a
	// no-op logger so embedding this package costs nothing until a caller
	// opts in, matching the pattern in
	// edirooss-zmux-server/internal/infrastructure/processmgr, whose
	// process manager takes a *zap.Logger the same way.
	Log *zap.Logger

	Opts Options

	// Builtins resolves builtin names to in-process implementations.
	// Defaults to builtin.NewRegistry()'s standard set.
	Builtins *builtin.Registry

	shellPid int
}

// NewShell returns a Shell ready to run pipelines. tty may be nil.
func NewShell(name string, tty *os.File, opts Options) *Shell {
	return &Shell{
		Name:     name,
		TTY:      tty,
		Stderr:   os.Stderr,
		Log:      zap.NewNop(),
		Opts:     opts,
		Builtins: builtin.NewRegistry(),
		shellPid: os.Getpid(),
	}
}

func (s *Shell) diag(msg string) {
	fmt.Fprintln(s.Stderr, msg)
}

// Run executes p to completion (respecting short-circuit &&/|| and
// backgrounding) and returns the exit status the surrounding shell should
// report.
func (s *Shell) Run(p *Pipeline) int {
	segments := Plan(p, s.Opts, s.Stderr)
	if len(segments) == 0 {
		return SUCCESS
	}

	waiter := &Waiter{TTY: s.TTY, ShellPid: s.shellPid}
	prevSep := SepLast
	prevStatus := SUCCESS

	for i, seg := range segments {
		if !shortCircuit(prevSep, prevStatus) {
			prevSep = seg.Sep
			continue
		}

		if fn, ok := s.builtinFastPath(seg); ok {
			status, handled := s.runBuiltinInProcess(seg, fn, p, i == 0, i == len(segments)-1)
			if handled {
				prevStatus = status
				prevSep = seg.Sep
				continue
			}
		}

		cmds, status, err := buildRunCmds(seg.Jobs, s.Name, s.diag)
		if err != nil {
			s.Log.Warn("segment failed to build", zap.Error(err))
			prevStatus = status
			prevSep = seg.Sep
			continue
		}

		if i == 0 {
			applyInputRedirection(cmds[0], p.Input, s.Name, s.diag)
		}
		if i == len(segments)-1 {
			applyOutputRedirection(cmds[len(cmds)-1], p.Output, s.Name, s.diag)
		}

		background := seg.Background()
		run, status, err := spawnRun(cmds, !background, s.TTY, s.Name, s.diag)
		if err != nil {
			prevStatus = status
			prevSep = seg.Sep
			continue
		}

		if background {
			s.Log.Info("backgrounded pipe-run", zap.Int("pgid", run.Pgid), zap.Ints("pids", run.Pids))
			prevStatus = SUCCESS
			prevSep = seg.Sep
			continue
		}

		result := waiter.Wait(run, s.Opts)
		prevStatus = result.Status
		prevSep = seg.Sep

		if result.Terminated {
			waiter.terminate(run, s.Opts.TerminationGrace)
			return prevStatus
		}
	}

	return prevStatus
}

// builtinFastPath reports whether seg is eligible for in-process builtin
// execution: exactly one job, that job names a registered builtin, and
// the segment is not backgrounded.
func (s *Shell) builtinFastPath(seg Segment) (builtin.Func, bool) {
	if len(seg.Jobs) != 1 || seg.Background() {
		return nil, false
	}
	j := seg.Jobs[0]
	if !j.IsBuiltin || s.Builtins == nil {
		return nil, false
	}
	return s.Builtins.Lookup(j.BuiltinName)
}

// runBuiltinInProcess runs a single-stage builtin directly in the shell
// process, wiring the pipeline's own input source / output sink (since a
// one-stage pipe-run has no neighbour pipes to wire) and otherwise
// inheriting the shell's real stdio. It always reports handled=true: a
// builtin on the fast path never falls through to the subprocess path.
func (s *Shell) runBuiltinInProcess(seg Segment, fn builtin.Func, p *Pipeline, isFirst, isLast bool) (status int, handled bool) {
	j := seg.Jobs[0]
	stdio := builtin.Stdio{Stdin: os.Stdin, Stdout: os.Stdout, Stderr: os.Stderr}
	var closers []io.Closer

	if isFirst && p.Input.Set {
		if p.Input.File != "" {
			f, err := os.Open(p.Input.File)
			if err != nil {
				s.diag(diagnostic(s.Name, "failed to redirect '%s' into stdin: %v", p.Input.File, err))
			} else {
				stdio.Stdin = f
				closers = append(closers, f)
			}
		} else {
			f, err := materializeHereString(p.Input.HereString)
			if err != nil {
				s.diag(diagnostic(s.Name, "failed to redirect herestring '%s' into stdin: %v", p.Input.HereString, err))
			} else {
				stdio.Stdin = f
				closers = append(closers, f)
			}
		}
	}

	if isLast && p.Output.Set {
		flags := os.O_WRONLY | os.O_CREATE
		if p.Output.Append {
			flags |= os.O_APPEND
		} else {
			flags |= os.O_TRUNC
		}
		f, err := os.OpenFile(p.Output.Path, flags, 0644)
		if err != nil {
			s.diag(diagnostic(s.Name, "failed to redirect stdout into %s: %v", p.Output.Path, err))
		} else {
			closers = append(closers, f)
			switch p.Output.From {
			case RedirectStdout:
				stdio.Stdout = f
			case RedirectStderr:
				stdio.Stderr = f
			case RedirectBoth:
				stdio.Stdout = f
				stdio.Stderr = f
			}
		}
	}

	status = fn(j.Argv, j.Env, stdio)
	for _, c := range closers {
		c.Close()
	}
	return status, true
}
