package pipeline

import (
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
)

// Exit-status constants observable by the surrounding shell.
const (
	SUCCESS       = 0
	FAILURE       = 1
	NoSuchCommand = 127
	Terminated    = 143 // 128 + SIGTERM
)

// SetupError is a pipe-creation, open, or dup failure. Those raised by the
// pipeline's input/output redirections and a job's own redirections are
// reported and degrade to an inherited descriptor; those raised while
// wiring the pipe between two stages, or opening /dev/null for a null
// slot, abort the pipe-run before anything in it is spawned.
type SetupError struct {
	Op  string
	Err error
}

func (e *SetupError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *SetupError) Unwrap() error { return e.Err }

// SpawnError is a failure to start a stage's process. It aborts the whole
// pipe-run; the exit status it carries is resolved by spawnDiagnostic,
// which applies spec.md §6's split between a uniform multi-stage
// diagnostic and the single-job Command-not-found/Error-spawning-process
// pair.
type SpawnError struct {
	Name string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("failed to spawn %q: %v", e.Name, e.Err)
}
func (e *SpawnError) Unwrap() error { return e.Err }

// SignalError records that a stage was terminated by a signal that must
// escalate to a whole-pipeline SIGTERM (SIGINT/SIGQUIT/SIGTERM).
type SignalError struct {
	Stage int
	Sig   string
}

func (e *SignalError) Error() string {
	return fmt.Sprintf("stage %d terminated by %s", e.Stage, e.Sig)
}

// diagnostic formats one of the shell's fixed diagnostic strings,
// prefixed with the shell's name.
func diagnostic(shellName, format string, args ...interface{}) string {
	return fmt.Sprintf("%s: %s", shellName, fmt.Sprintf(format, args...))
}

// isCommandNotFound reports whether err represents PATH resolution or
// exec failing to find the target at all, as opposed to some other spawn
// failure (permission denied, exec format error, and so on).
func isCommandNotFound(err error) bool {
	var execErr *exec.Error
	if errors.As(err, &execErr) {
		return execErr.Err == exec.ErrNotFound
	}
	return errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist)
}

// spawnDiagnostic selects the diagnostic string and exit status for a
// failed spawn attempt, matching spec.md §6's two forms. A multi-stage
// pipe-run always reports the uniform "failed to spawn" message with
// NoSuchCommand, mirroring the original's spawn_proc! macro
// (src/shell/pipe.rs), which never distinguishes not-found from any other
// spawn error once more than one stage is involved. A single job
// distinguishes "Command not found" from "Error spawning process",
// mirroring execute_command's io::ErrorKind::NotFound check in the same
// source file.
func spawnDiagnostic(shellName, name string, err error, multiStage bool) (msg string, status int) {
	if multiStage {
		return diagnostic(shellName, "failed to spawn '%s': %v", name, err), NoSuchCommand
	}
	if isCommandNotFound(err) {
		return diagnostic(shellName, "Command not found: %s", name), NoSuchCommand
	}
	return diagnostic(shellName, "Error spawning process: %v", err), FAILURE
}
