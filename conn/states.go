package conn

// State is the position of a connection in its lifecycle. It only ever moves
// forward: Open to Closing to Closed.
type State uint8

const (
	// Open takes read events in and lets responses out.
	Open State = iota
	// Closing means the socket kill was requested but the read pump did not
	// settle yet.
	Closing
	// Closed is terminal: the socket is gone and nothing will ever happen
	// on the connection again.
	Closed
)

func (s State) String() string {
	switch s {
	case Open:
		return "open"
	case Closing:
		return "closing"
	case Closed:
		return "closed"
	default:
		return "unknown"
	}
}

// phase tells whether a request is mid-accumulation, so a live handle is
// never confused with the absence of one.
type phase uint8

const (
	phaseNone phase = iota
	phaseInProgress
)
