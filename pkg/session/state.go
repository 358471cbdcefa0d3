package session

// State is the lifecycle position of a controller's current session.
type State int

const (
	// Idle means no session is open, either never started or stopped.
	Idle State = iota

	// Streaming means a stream is open and events are being folded in.
	Streaming

	// Ended means the server sent the terminal signal.
	Ended

	// Errored means the transport failed before the terminal signal.
	Errored
)

// String returns the string representation of the state
func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Streaming:
		return "streaming"
	case Ended:
		return "ended"
	case Errored:
		return "errored"
	default:
		return "unknown"
	}
}

// DisplayName returns a human-readable name for the state
func (s State) DisplayName() string {
	switch s {
	case Idle:
		return "Idle"
	case Streaming:
		return "Streaming"
	case Ended:
		return "Done"
	case Errored:
		return "Connection lost"
	default:
		return ""
	}
}

// CanSend reports whether a new message may be started from this state.
func (s State) CanSend() bool {
	return s != Streaming
}

// Terminal reports whether the session finished on its own.
func (s State) Terminal() bool {
	return s == Ended || s == Errored
}
