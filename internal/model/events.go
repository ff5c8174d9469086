package model

// Event is a classified inbound wire message.
type Event interface{ isEvent() }

// StatusEvent reports a transcription start or stop.
type StatusEvent struct {
	Transcribing bool
}

// CardEvent carries a new card decoded from a producer payload.
// ID and Seq are zero until the session stamps them at insertion.
type CardEvent struct {
	Card Card
}

// HighlightEvent asks for the most recent fund card to be flagged
// as ESG relevant, in place.
type HighlightEvent struct{}

func (StatusEvent) isEvent()    {}
func (CardEvent) isEvent()      {}
func (HighlightEvent) isEvent() {}

// ConnectionState tracks the persistent transport lifecycle.
type ConnectionState int

const (
	StateConnecting ConnectionState = iota
	StateOpen
	StateClosed
	StateErrored
)

func (s ConnectionState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// Liveness tags an open connection with the backend's reachability,
// sampled by the periodic health probe.
type Liveness int

const (
	LivenessLive Liveness = iota
	LivenessDegraded
)

func (l Liveness) String() string {
	if l == LivenessDegraded {
		return "degraded"
	}
	return "live"
}
