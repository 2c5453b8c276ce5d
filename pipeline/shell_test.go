package pipeline_test

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bblancha/ion/pipeline"
)

func fatal(t *testing.T, v ...interface{}) { t.Fatal(v...) }

func ok(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		fatal(t, err)
	}
}

func eq(t *testing.T, got, want interface{}) {
	t.Helper()
	if got != want {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func newTestShell(stderr *bytes.Buffer) *pipeline.Shell {
	sh := pipeline.NewShell("ionsh-test", nil, pipeline.Options{})
	sh.Stderr = stderr
	return sh
}

func outputTo(t *testing.T) (path string, read func() string) {
	t.Helper()
	dir := t.TempDir()
	path = filepath.Join(dir, "out")
	return path, func() string {
		b, err := os.ReadFile(path)
		ok(t, err)
		return string(b)
	}
}

func TestRunSimpleCommand(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)
	path, read := outputTo(t)

	p := pipeline.New(pipeline.Job{Argv: []string{"echo", "hello"}, Separator: pipeline.SepLast})
	p.Output = pipeline.OutputSink{Set: true, Path: path}

	status := sh.Run(p)
	eq(t, status, pipeline.SUCCESS)
	eq(t, read(), "hello\n")
	eq(t, stderr.String(), "")
}

func TestRunPipe(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)
	path, read := outputTo(t)

	p := pipeline.New(
		pipeline.Job{Argv: []string{"echo", "hello"}, Separator: pipeline.SepPipeStdout},
		pipeline.Job{Argv: []string{"cat"}, Separator: pipeline.SepLast},
	)
	p.Output = pipeline.OutputSink{Set: true, Path: path}

	status := sh.Run(p)
	eq(t, status, pipeline.SUCCESS)
	eq(t, read(), "hello\n")
}

func TestRunHereString(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)
	path, read := outputTo(t)

	p := pipeline.New(pipeline.Job{Argv: []string{"cat"}, Separator: pipeline.SepLast})
	p.Input = pipeline.InputSource{Set: true, HereString: "from a herestring"}
	p.Output = pipeline.OutputSink{Set: true, Path: path}

	status := sh.Run(p)
	eq(t, status, pipeline.SUCCESS)
	eq(t, read(), "from a herestring\n")
}

func TestRunAndShortCircuits(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)
	path, read := outputTo(t)

	// false && echo should-not-run
	p := pipeline.New(
		pipeline.Job{Argv: []string{"false"}, Separator: pipeline.SepAnd},
		pipeline.Job{Argv: []string{"echo", "should-not-run"}, Separator: pipeline.SepLast},
	)
	p.Output = pipeline.OutputSink{Set: true, Path: path}

	status := sh.Run(p)
	eq(t, status, pipeline.FAILURE)
	// The skipped echo is never spawned, so the output sink attached to it
	// is never opened and the file is never created.
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("output file stat err = %v, want not-exist: the skipped echo must not run", err)
	}
}

func TestRunOrExecutesAfterFailure(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)
	path, read := outputTo(t)

	// false || echo recovered
	p := pipeline.New(
		pipeline.Job{Argv: []string{"false"}, Separator: pipeline.SepOr},
		pipeline.Job{Argv: []string{"echo", "recovered"}, Separator: pipeline.SepLast},
	)
	p.Output = pipeline.OutputSink{Set: true, Path: path}

	status := sh.Run(p)
	eq(t, status, pipeline.SUCCESS)
	eq(t, read(), "recovered\n")
}

func TestRunAndOrAdvancesSkippedSeparator(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)
	path, read := outputTo(t)

	// false && a || b: "a" is skipped, but "b" still runs because the
	// skipped segment's own separator (Or) is what the driver consults
	// next, not the original "And".
	p := pipeline.New(
		pipeline.Job{Argv: []string{"false"}, Separator: pipeline.SepAnd},
		pipeline.Job{Argv: []string{"echo", "a"}, Separator: pipeline.SepOr},
		pipeline.Job{Argv: []string{"echo", "b"}, Separator: pipeline.SepLast},
	)
	p.Output = pipeline.OutputSink{Set: true, Path: path}

	status := sh.Run(p)
	eq(t, status, pipeline.SUCCESS)
	eq(t, read(), "b\n")
}

func TestRunCommandNotFound(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)

	// A single, non-piped job that can't be resolved on PATH reports the
	// "Command not found" form at NoSuchCommand, not the pipe-run's
	// uniform "failed to spawn" form.
	p := pipeline.New(pipeline.Job{Argv: []string{"this-command-does-not-exist-xyz"}, Separator: pipeline.SepLast})
	status := sh.Run(p)
	eq(t, status, pipeline.NoSuchCommand)
	if !strings.Contains(stderr.String(), "Command not found: this-command-does-not-exist-xyz") {
		t.Errorf("stderr = %q, want a Command-not-found diagnostic", stderr.String())
	}
}

func TestRunSpawnErrorOtherThanNotFound(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)

	// A single job naming a path that exists but lacks any execute bit
	// fails inside Start, not PATH resolution, and so must report the
	// generic "Error spawning process" form at FAILURE rather than
	// "Command not found" at NoSuchCommand.
	dir := t.TempDir()
	path := filepath.Join(dir, "not-executable")
	ok(t, os.WriteFile(path, []byte("#!/bin/sh\necho hi\n"), 0644))

	p := pipeline.New(pipeline.Job{Argv: []string{path}, Separator: pipeline.SepLast})
	status := sh.Run(p)
	eq(t, status, pipeline.FAILURE)
	if !strings.Contains(stderr.String(), "Error spawning process:") {
		t.Errorf("stderr = %q, want an Error-spawning-process diagnostic", stderr.String())
	}
}

func TestRunCommandNotFoundInPipeRunUsesUniformDiagnostic(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)

	// A multi-stage pipe-run always reports the uniform "failed to spawn"
	// form, even when the underlying failure is a PATH-resolution miss.
	p := pipeline.New(
		pipeline.Job{Argv: []string{"this-command-does-not-exist-xyz"}, Separator: pipeline.SepPipeStdout},
		pipeline.Job{Argv: []string{"cat"}, Separator: pipeline.SepLast},
	)
	status := sh.Run(p)
	eq(t, status, pipeline.NoSuchCommand)
	if !strings.Contains(stderr.String(), "failed to spawn 'this-command-does-not-exist-xyz'") {
		t.Errorf("stderr = %q, want a failed-to-spawn diagnostic", stderr.String())
	}
}

func TestNewShellDefaults(t *testing.T) {
	sh := pipeline.NewShell("ionsh-test", nil, pipeline.Options{})
	if sh.Log == nil {
		t.Fatal("NewShell must default Log to a non-nil no-op logger")
	}
	// A no-op zap.Logger must not panic or write anywhere when used.
	sh.Log.Info("probe")
	if sh.Opts.PipefailMode {
		t.Error("zero-value Options must default to last-stage status, not pipefail mode")
	}
	if sh.Opts.TerminationGrace != 0 {
		t.Error("zero-value Options.TerminationGrace should defer to the package default, not preset one")
	}
}

func TestRunBuiltinEchoInProcess(t *testing.T) {
	var stderr bytes.Buffer
	sh := newTestShell(&stderr)
	path, read := outputTo(t)

	p := pipeline.New(pipeline.Job{
		Argv:        []string{"echo", "builtin-hi"},
		IsBuiltin:   true,
		BuiltinName: "echo",
		Separator:   pipeline.SepLast,
	})
	p.Output = pipeline.OutputSink{Set: true, Path: path}

	status := sh.Run(p)
	eq(t, status, pipeline.SUCCESS)
	eq(t, read(), "builtin-hi\n")
}
