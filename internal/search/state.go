package search

// State tracks one platform's progress within an orchestrated search.
// The terminal failure states all degrade to a zero contribution; they
// never abort the search.
type State int

const (
	StatePending State = iota
	StateFetching
	StateExtracted
	StateBlocked
	StateTimedOut
	StateEmpty
	StateMerged
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateFetching:
		return "fetching"
	case StateExtracted:
		return "extracted"
	case StateBlocked:
		return "blocked"
	case StateTimedOut:
		return "timed_out"
	case StateEmpty:
		return "empty"
	case StateMerged:
		return "merged"
	default:
		return "unknown"
	}
}
