package pipeline

import (
	"fmt"
	"io"
)

// Segment is a contiguous pipe-run: one or more Jobs joined internally by
// Pipe(out|err|both) separators, plus the separator that connects this
// segment to the next one (And/Or/Last/Background). Jobs' own trailing
// Pipe separators (used by buildRunCmds to decide how to wire
// neighbours) are preserved verbatim in Segment.Jobs; Sep is the
// *boundary* separator carried by the segment's final Job.
type Segment struct {
	Jobs []Job
	Sep  SeparatorKind
}

// Background reports whether this segment's boundary separator marks the
// whole pipeline as backgrounded. Only meaningful on the last Segment a
// Plan produces.
func (s Segment) Background() bool { return s.Sep == SepBackground }

// Plan converts a Pipeline into its logical segmentation:
// a pipeline like "A | B | C && D || E" becomes
// [PipeRun(A,B,C)/And, Cmd(D)/Or, Cmd(E)/Last].
//
// If opts.PrintCommands is set, the pipeline's pretty-printed form is
// written to w prefixed with "> " before the segments are returned.
func Plan(p *Pipeline, opts Options, w io.Writer) []Segment {
	if opts.PrintCommands && w != nil {
		fmt.Fprintf(w, "> %s\n", p.String())
	}

	var segments []Segment
	var run []Job
	for _, j := range p.Jobs {
		run = append(run, j)
		if j.Separator.IsPipe() {
			continue
		}
		segments = append(segments, Segment{Jobs: run, Sep: j.Separator})
		run = nil
	}
	// A pipeline that ends mid pipe-run (a parser bug, since the last Job
	// must always carry SepLast or SepBackground) still gets
	// flushed here rather than silently dropping jobs.
	if len(run) > 0 {
		segments = append(segments, Segment{Jobs: run, Sep: SepLast})
	}
	return segments
}
