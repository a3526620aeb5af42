package game

import "github.com/vovakirdan/snek/internal/core"

// Snapshot is a consistent copy of engine state for rendering.
// Callers own its slices.
type Snapshot struct {
	Progression

	Tick        uint64
	Status      Status
	Direction   core.Direction
	HazardLevel int
	Segments    []Segment // Oldest first, head last
	Foods       []Food
	Hazards     []Hazard
	Termination *Termination // Non-nil once the run has ended
}

// HUD formats the status line for this snapshot.
func (s Snapshot) HUD() string {
	return s.Progression.HUD(s.HazardLevel)
}

// Head returns the newest segment.
func (s Snapshot) Head() (Segment, bool) {
	if len(s.Segments) == 0 {
		return Segment{}, false
	}
	return s.Segments[len(s.Segments)-1], true
}

// TickResult is returned by Engine.Tick.
type TickResult struct {
	Snapshot Snapshot
	Events   []Event
}

// Terminated returns the termination reported during this tick, if any.
func (r TickResult) Terminated() (Termination, bool) {
	for _, ev := range r.Events {
		if ev.Kind == EventTerminated {
			return ev.Termination, true
		}
	}
	return Termination{}, false
}
