package game

// Status is the run state of an engine.
type Status int

const (
	StatusRunning Status = iota
	StatusPaused
	StatusTerminated
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Cause identifies why a run terminated.
type Cause int

const (
	CauseNone       Cause = iota
	CauseBoundary         // Head left the grid
	CauseHazard           // Head landed on a live hazard
	CauseExhaustion       // Tail-bite budget spent
)

// String returns the short cause name stored with run history.
func (c Cause) String() string {
	switch c {
	case CauseBoundary:
		return "bonk"
	case CauseHazard:
		return "boom"
	case CauseExhaustion:
		return "chomp"
	default:
		return "none"
	}
}

// Title returns the heading shown on the end-of-run prompt.
func (c Cause) Title() string {
	switch c {
	case CauseBoundary:
		return "Bonk!"
	case CauseHazard:
		return "Boom!"
	case CauseExhaustion:
		return "Chomp!"
	default:
		return "Game Over"
	}
}

// ParseCause converts a stored cause name back into a Cause.
func ParseCause(s string) Cause {
	switch s {
	case "bonk":
		return CauseBoundary
	case "boom":
		return CauseHazard
	case "chomp":
		return CauseExhaustion
	default:
		return CauseNone
	}
}

// EventKind identifies what an Event reports.
type EventKind int

const (
	EventProgress   EventKind = iota // Level boundary: food (and hazards) replenished
	EventScore                       // Score or tail-bite budget changed
	EventTerminated                  // Run ended
)

// String returns the event kind name.
func (k EventKind) String() string {
	switch k {
	case EventProgress:
		return "progress"
	case EventScore:
		return "score"
	case EventTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// Termination describes the end of a run.
type Termination struct {
	Cause      Cause
	FinalScore int
	Level      int
	Ticks      uint64
}

// Event is emitted by Tick for the presentation layer.
type Event struct {
	Kind        EventKind
	Progression Progression
	Termination Termination // Set for EventTerminated only
}
