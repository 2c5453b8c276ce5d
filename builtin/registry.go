// Package builtin implements the handful of shell builtins that run
// in-process rather than as a spawned child, and the Registry the
// pipeline package's Shell consults to decide whether a Job names one.
//
// Builtin piping: a builtin
// participating in a pipe-run still needs its stdio wired like any other
// stage. Running it in-process only works when it is the pipeline's only
// stage and that stage is in the foreground: the builtin reads/writes the
// shell's own os.Stdin/os.Stdout directly, and there is no second stage
// whose descriptors it would otherwise have to inherit or leak. Any
// pipe-run with more than one stage, or a builtin running in the
// background, instead falls through to the ordinary PATH-resolution path
// in pipeline.NewCmd, which only succeeds if a same-named external binary
// exists; hosting a builtin in a forked child for those cases is left as
// future work (see DESIGN.md).
package builtin

import (
	"fmt"
	"io"
)

// Stdio is the three-stream bundle a builtin receives when run in-process.
type Stdio struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// Func is a builtin's implementation: argv (including the builtin's own
// name at index 0) and the stdio bundle to use instead of the process's
// own os.Stdin/os.Stdout/os.Stderr, returning the exit status to report.
type Func func(argv []string, env []string, io Stdio) int

// Registry maps builtin names to implementations.
type Registry struct {
	funcs map[string]Func
}

// NewRegistry returns a Registry pre-populated with the builtins this
// package ships (Echo, True, False); callers may Register additional
// ones.
func NewRegistry() *Registry {
	r := &Registry{funcs: make(map[string]Func)}
	r.Register("echo", Echo)
	r.Register("true", True)
	r.Register("false", False)
	return r
}

// Register adds or replaces the implementation for name.
func (r *Registry) Register(name string, fn Func) {
	r.funcs[name] = fn
}

// Lookup reports whether name is a registered builtin and returns its
// implementation.
func (r *Registry) Lookup(name string) (Func, bool) {
	fn, ok := r.funcs[name]
	return fn, ok
}

// Echo writes its arguments, space-separated, followed by a newline.
func Echo(argv []string, _ []string, io Stdio) int {
	fmt.Fprintln(io.Stdout, joinArgs(argv[1:]))
	return 0
}

func joinArgs(args []string) string {
	s := ""
	for i, a := range args {
		if i > 0 {
			s += " "
		}
		s += a
	}
	return s
}

// True always reports success.
func True(_ []string, _ []string, _ Stdio) int { return 0 }

// False always reports failure.
func False(_ []string, _ []string, _ Stdio) int { return 1 }
