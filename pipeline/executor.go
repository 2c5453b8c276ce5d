package pipeline

import (
	"os"

	"github.com/bblancha/ion/internal/platform"
)

// Run is the live state of one spawned pipe-run: every stage's PID in
// spawn order, the process group they all share, and the retained Cmd
// objects whose owned descriptors keep the parent's side of each pipe
// open until the Waiter drops them.
type Run struct {
	Pgid int
	Pids []int
	cmds []*Cmd
}

// buildRunCmds turns one Segment's Jobs into prepared Cmds: resolving each
// job's argv against PATH, applying its own per-job redirects, and wiring
// a fresh pipe between every adjacent pair per the job's own separator.
// The first Cmd's stdin and the last Cmd's stdout/stderr
// are left for the caller to attach the pipeline's input source / output
// sink; everything in between is fully wired on return. The returned
// status is only meaningful when err != nil.
func buildRunCmds(jobs []Job, shellName string, diag func(string)) ([]*Cmd, int, error) {
	multiStage := len(jobs) > 1
	cmds := make([]*Cmd, len(jobs))
	for i, j := range jobs {
		c, err := NewCmd(j.Argv[0], j.Argv[1:], j.Env)
		if err != nil {
			msg, status := spawnDiagnostic(shellName, j.Argv[0], unwrapSpawn(err), multiStage)
			diag(msg)
			for _, prior := range cmds[:i] {
				if prior != nil {
					prior.closeOwned()
				}
			}
			return nil, status, err
		}
		applyJobRedirects(c, j.Redirects, shellName, diag)
		cmds[i] = c
	}
	for i := 0; i < len(jobs)-1; i++ {
		var mode PipeMode
		switch jobs[i].Separator {
		case SepPipeStdout:
			mode = PipeStdout
		case SepPipeStderr:
			mode = PipeStderr
		case SepPipeCombined:
			mode = PipeCombined
		}
		if err := wirePipe(cmds[i], cmds[i+1], mode); err != nil {
			diag(diagnostic(shellName, "failed to create pipe for redirection: %v", err))
			for _, c := range cmds {
				c.closeOwned()
			}
			return nil, NoSuchCommand, err
		}
	}
	return cmds, SUCCESS, nil
}

// spawnRun spawns every stage of one pipe-run into a single new process
// group, transferring the controlling terminal to that group the moment
// the group's pgid becomes known (i.e. immediately after the first stage
// is forked), not after the whole pipe-run has been spawned: stages
// already running before the terminal transfer happens would otherwise be
// able to read from the shell's own inherited tty and receive
// SIGTTIN/SIGTTOU before the new group actually owns it. tty may be nil
// for a non-interactive shell, in which case the terminal-transfer step
// is skipped entirely. The returned status is only meaningful when
// err != nil.
func spawnRun(cmds []*Cmd, foreground bool, tty *os.File, shellName string, diag func(string)) (*Run, int, error) {
	multiStage := len(cmds) > 1
	run := &Run{}
	pgid := 0

	for _, c := range cmds {
		if err := c.Start(pgid); err != nil {
			msg, status := spawnDiagnostic(shellName, c.name, unwrapSpawn(err), multiStage)
			diag(msg)
			for _, remaining := range cmds {
				remaining.closeOwned()
			}
			return nil, status, err
		}
		if pgid == 0 {
			pgid = c.Pid()
			if foreground && tty != nil {
				// tcsetpgrp from a background process group raises SIGTTOU
				// on the caller by default; the shell itself must not stop
				// when handing the terminal away, so SIGTTOU is ignored for
				// the duration of the call. The disposition is restored
				// immediately after.
				restore := platform.IgnoreSIGTTOU()
				// The child's own pre-exec setpgid races the parent's; both
				// sides call setpgid so whichever runs first wins and the
				// second is a harmless no-op. The parent attempts tcsetpgrp
				// regardless of which one actually won.
				_ = platform.SetForegroundProcessGroup(tty, pgid)
				restore()
			}
		}
		run.Pids = append(run.Pids, c.Pid())
		run.cmds = append(run.cmds, c)
	}
	run.Pgid = pgid

	return run, SUCCESS, nil
}

func unwrapSpawn(err error) error {
	if se, ok := err.(*SpawnError); ok {
		return se.Err
	}
	return err
}
