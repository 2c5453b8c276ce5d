// Command ionsh hosts the pipeline execution core: it wires up a Shell
// from flags and the environment and runs pipelines against it. Parsing
// shell syntax into a pipeline.Pipeline is out of scope; this entry point
// demonstrates the wiring a parser would sit in front of and doubles as a
// way to exercise the core end to end.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/bblancha/ion/pipeline"
)

var (
	printCommands = pflag.BoolP("print-commands", "x", false, "echo the pipeline's pretty form to stderr before running it")
	pipefail      = pflag.Bool("pipefail", false, "report the first non-zero stage's status instead of the last stage's")
	verbose       = pflag.BoolP("verbose", "v", false, "enable structured operational logging on stderr")
	name          = pflag.String("name", "ionsh", "shell name used in diagnostic messages")
)

func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

func main() {
	pflag.Parse()

	var tty *os.File
	if f, err := os.Open("/dev/tty"); err == nil {
		tty = f
	}

	sh := pipeline.NewShell(*name, tty, pipeline.Options{
		PrintCommands: *printCommands,
		PipefailMode:  *pipefail,
	})
	sh.Log = newLogger(*verbose)

	args := pflag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "%s: no command given (this build has no shell-syntax parser; pass argv directly)\n", *name)
		os.Exit(2)
	}

	job := pipeline.Job{Argv: args, Separator: pipeline.SepLast}
	p := pipeline.New(job)
	os.Exit(sh.Run(p))
}
