package pipeline

import "time"

// Options configures a Shell's behavior beyond the core execution
// algorithm. The zero value is a usable, quiet default matching plain
// Bourne-shell behavior out of the box.
type Options struct {
	// PrintCommands, when true, echoes the whole pipeline's pretty-printed
	// form to stderr, once, prefixed with "> ", before any segment runs.
	PrintCommands bool

	// PipefailMode selects which stage's exit status a pipe-run reports.
	// The default (false) matches Bourne-shell convention: the
	// last stage's status. Set true to report instead the status of the
	// first stage, in spawn order, that exited non-zero.
	PipefailMode bool

	// TerminationGrace bounds how long Waiter.terminate waits after
	// SIGTERM before escalating to SIGKILL (grounded on
	// vanadium-go.lib/gosh's 100ms*10 poll loop in cleanupProcessGroup).
	// Zero selects the package default.
	TerminationGrace time.Duration
}

// DefaultTerminationGrace matches vanadium-go.lib/gosh's cleanupProcessGroup
// poll budget (10 attempts at 100ms).
const DefaultTerminationGrace = time.Second
