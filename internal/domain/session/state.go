package session

// State is the session lifecycle position
type State int32

const (
	StateUnauthenticated State = iota
	StateAuthenticated
	StateTimedOut
	StateTerminated
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticated:
		return "authenticated"
	case StateTimedOut:
		return "timed_out"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// IsTerminal reports whether no further transitions are possible
func (s State) IsTerminal() bool {
	return s == StateTerminated
}

// MarshalText renders the state for JSON snapshots
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
