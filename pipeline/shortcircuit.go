package pipeline

// shortCircuit decides, given the previous segment's boundary separator
// and its resulting status, whether the next segment should run.
// The first segment is always executed, matching the
// "Last/Pipe/Background ... execute" row: Plan never assigns And/Or as
// the sep of a nonexistent "segment before the first one", so callers
// simply start with SepLast as the initial previous-separator value.
func shortCircuit(prevSep SeparatorKind, prevStatus int) bool {
	switch prevSep {
	case SepAnd:
		return prevStatus == SUCCESS
	case SepOr:
		return prevStatus != SUCCESS
	default: // SepLast, SepPipeStdout/Stderr/Combined, SepBackground
		return true
	}
}
