package pipeline

import (
	"reflect"
	"testing"
)

func TestPlanSegmentsPipeRuns(t *testing.T) {
	// A | B | C && D || E
	p := New(
		Job{Argv: []string{"A"}, Separator: SepPipeStdout},
		Job{Argv: []string{"B"}, Separator: SepPipeStdout},
		Job{Argv: []string{"C"}, Separator: SepAnd},
		Job{Argv: []string{"D"}, Separator: SepOr},
		Job{Argv: []string{"E"}, Separator: SepLast},
	)

	segs := Plan(p, Options{}, nil)
	if len(segs) != 3 {
		t.Fatalf("got %d segments, want 3: %+v", len(segs), segs)
	}
	if len(segs[0].Jobs) != 3 || segs[0].Sep != SepAnd {
		t.Errorf("segment 0 = %+v, want 3 jobs ending in And", segs[0])
	}
	if len(segs[1].Jobs) != 1 || segs[1].Jobs[0].Argv[0] != "D" || segs[1].Sep != SepOr {
		t.Errorf("segment 1 = %+v, want [D] ending in Or", segs[1])
	}
	if len(segs[2].Jobs) != 1 || segs[2].Jobs[0].Argv[0] != "E" || segs[2].Sep != SepLast {
		t.Errorf("segment 2 = %+v, want [E] ending in Last", segs[2])
	}
}

func TestPlanBackgroundSegment(t *testing.T) {
	p := New(Job{Argv: []string{"sleep", "1"}, Separator: SepBackground})
	segs := Plan(p, Options{}, nil)
	if len(segs) != 1 || !segs[0].Background() {
		t.Fatalf("got %+v, want a single backgrounded segment", segs)
	}
}

func TestPlanPrintCommands(t *testing.T) {
	p := New(Job{Argv: []string{"echo", "hi"}, Separator: SepLast})
	var buf fakeWriter
	Plan(p, Options{PrintCommands: true}, &buf)
	want := "> echo hi\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

type fakeWriter struct{ b []byte }

func (w *fakeWriter) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

func (w *fakeWriter) String() string { return string(w.b) }

func TestJobString(t *testing.T) {
	j := Job{Argv: []string{"grep", "-n", "foo"}}
	if got := j.String(); got != "grep -n foo" {
		t.Errorf("got %q", got)
	}
}

func TestPipelineStringRoundTripShape(t *testing.T) {
	p := New(
		Job{Argv: []string{"a"}, Separator: SepAnd},
		Job{Argv: []string{"b"}, Separator: SepBackground},
	)
	got := p.String()
	want := "a && b &"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	if !reflect.DeepEqual(p.Jobs[0].Argv, []string{"a"}) {
		t.Errorf("mutated Jobs unexpectedly: %+v", p.Jobs)
	}
}
