package pipeline

import (
	"os"
	"syscall"
	"time"

	"github.com/bblancha/ion/internal/platform"
)

// stageResult is one stage's decoded wait status, tagged with its index in
// spawn order so the Waiter can drop the matching retained Cmd and report
// results in the original order even though completions race in.
type stageResult struct {
	index    int
	code     int
	signaled bool
	sig      syscall.Signal
}

// WaitResult is what a pipe-run reports back to the short-circuit driver:
// the status to treat as this segment's exit code, and whether any stage
// was killed by a terminating signal.
type WaitResult struct {
	Status     int
	Terminated bool
}

// Waiter awaits every stage of one pipe-run and reclaims the controlling
// terminal afterward. TTY may be nil for a non-interactive shell.
type Waiter struct {
	TTY      *os.File
	ShellPid int
}

// isTerminatingSignal reports whether sig should escalate a pipe-run's
// status to "terminated" for the short-circuit driver.
func isTerminatingSignal(sig syscall.Signal) bool {
	switch sig {
	case syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM:
		return true
	}
	return false
}

// Wait blocks until every stage in run has exited, dropping each retained
// Cmd (closing its owned descriptors, delivering EOF downstream) the
// moment that specific stage is reaped rather than waiting for the whole
// group. Completions race in via a channel, matching the
// waiter's "tolerate arbitrary interleavings" contract; only the final
// aggregation below depends on spawn order.
func (w *Waiter) Wait(run *Run, opts Options) WaitResult {
	n := len(run.cmds)
	results := make(chan stageResult, n)
	for i, c := range run.cmds {
		go func(i int, c *Cmd) {
			code, signaled, sig, _ := c.Wait()
			results <- stageResult{index: i, code: code, signaled: signaled, sig: sig}
		}(i, c)
	}

	statuses := make([]stageResult, n)
	terminated := false
	firstNonZero := -1
	for i := 0; i < n; i++ {
		r := <-results
		statuses[r.index] = r
		run.cmds[r.index].closeOwned()
		if r.signaled && isTerminatingSignal(r.sig) {
			terminated = true
		}
		if firstNonZero == -1 && r.code != SUCCESS {
			firstNonZero = r.index
		}
	}

	if w.TTY != nil {
		// The shell is still a background process relative to the
		// terminal's current owner (the pipe-run's group) at this point;
		// reclaiming the terminal would raise SIGTTOU on the shell itself
		// without this scoped mask.
		restore := platform.IgnoreSIGTTOU()
		_ = platform.SetForegroundProcessGroup(w.TTY, w.ShellPid)
		restore()
	}

	status := statuses[n-1].code
	if opts.PipefailMode {
		for _, r := range statuses {
			if r.code != SUCCESS {
				status = r.code
				break
			}
		}
	}
	if terminated {
		status = Terminated
	}
	return WaitResult{Status: status, Terminated: terminated}
}

// terminate sends SIGTERM to every process in run's group, polls for up to
// grace (falling back to DefaultTerminationGrace) for the group to exit,
// and escalates to SIGKILL if it hasn't. Grounded on
// vanadium-go.lib/gosh's cleanupProcessGroup, which uses the same
// SIGINT-then-poll-then-SIGKILL shape (there substituting SIGTERM, since
// this is a deliberate shell-initiated teardown rather than a
// user-generated interrupt).
func (w *Waiter) terminate(run *Run, grace time.Duration) {
	if grace <= 0 {
		grace = DefaultTerminationGrace
	}
	if err := platform.KillProcessGroup(run.Pgid, syscall.SIGTERM); err != nil {
		return
	}
	deadline := time.Now().Add(grace)
	for time.Now().Before(deadline) {
		if !platform.ProcessGroupAlive(run.Pgid) {
			return
		}
		time.Sleep(100 * time.Millisecond)
	}
	platform.KillProcessGroup(run.Pgid, syscall.SIGKILL)
}
