package pipeline

import "testing"

func TestShortCircuit(t *testing.T) {
	cases := []struct {
		sep    SeparatorKind
		status int
		want   bool
	}{
		{SepAnd, SUCCESS, true},
		{SepAnd, FAILURE, false},
		{SepOr, SUCCESS, false},
		{SepOr, FAILURE, true},
		{SepLast, FAILURE, true},
		{SepPipeStdout, FAILURE, true},
		{SepBackground, SUCCESS, true},
	}
	for _, c := range cases {
		got := shortCircuit(c.sep, c.status)
		if got != c.want {
			t.Errorf("shortCircuit(%v, %d) = %v, want %v", c.sep, c.status, got, c.want)
		}
	}
}
