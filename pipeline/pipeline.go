package pipeline

import (
	"fmt"
	"strings"
)

// InputSource describes where the first Job's stdin comes from, when the
// pipeline as a whole redirects it (as opposed to inheriting the shell's
// stdin).
type InputSource struct {
	Set        bool
	File       string // non-empty selects the File case
	HereString string // used when File == "" and Set is true
}

// RedirectFrom selects which of a command's output streams an output sink
// redirection applies to.
type RedirectFrom int

const (
	RedirectStdout RedirectFrom = iota
	RedirectStderr
	RedirectBoth
)

// OutputSink describes where the last Job's output goes, when the
// pipeline as a whole redirects it.
type OutputSink struct {
	Set    bool
	Path   string
	Append bool
	From   RedirectFrom
}

// Pipeline is an ordered, non-empty sequence of Jobs plus an optional head
// input source and tail output sink. Exactly the first Job may receive
// Input, and exactly the last Job may emit into Output; the last Job's
// Separator determines foreground vs. background for the whole pipeline.
//
// This is the boundary type the (out of scope) parser produces and the
// Planner consumes; nothing in this package constructs a Pipeline from
// source text.
type Pipeline struct {
	Jobs   []Job
	Input  InputSource
	Output OutputSink
}

// New returns a Pipeline for the given non-empty job sequence. It panics
// if jobs is empty, since an empty pipeline violates the type's own
// invariant and indicates a bug in the caller (the parser), not a
// runtime condition to recover from.
func New(jobs ...Job) *Pipeline {
	if len(jobs) == 0 {
		panic("pipeline: New requires at least one Job")
	}
	return &Pipeline{Jobs: jobs}
}

// Background reports whether the pipeline's last job is a background job.
func (p *Pipeline) Background() bool {
	if len(p.Jobs) == 0 {
		return false
	}
	return p.Jobs[len(p.Jobs)-1].Separator == SepBackground
}

// String renders the pipeline the way a shell would echo it back, joining
// jobs with their separators and appending " &" for a background
// pipeline, e.g. "echo hi | wc -c && echo done &". Re-parsing this string
// and re-planning it must produce an equivalent Pipeline; this package
// does not provide the re-parse half of that round-trip property
// (parsing is out of scope) but keeps String's output stable and
// parser-friendly to make it possible.
func (p *Pipeline) String() string {
	var b strings.Builder
	if p.Input.Set {
		if p.Input.File != "" {
			fmt.Fprintf(&b, "< %s ", p.Input.File)
		} else {
			fmt.Fprintf(&b, "<<< %q ", p.Input.HereString)
		}
	}
	for i, j := range p.Jobs {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(j.String())
		switch j.Separator {
		case SepLast, SepBackground:
			// nothing trailing; background is rendered once, at the end
		default:
			fmt.Fprintf(&b, " %s", j.Separator)
		}
	}
	if p.Output.Set {
		op := ">"
		if p.Output.Append {
			op = ">>"
		}
		switch p.Output.From {
		case RedirectStderr:
			op = "2" + op
		case RedirectBoth:
			op += "&1"
		}
		fmt.Fprintf(&b, " %s %s", op, p.Output.Path)
	}
	if p.Background() {
		b.WriteString(" &")
	}
	return b.String()
}
