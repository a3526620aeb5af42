package game

import "github.com/vovakirdan/snek/internal/core"

// Segment is one grid cell of the snake body.
// Head only selects how the segment is drawn.
type Segment struct {
	Pos  core.Vec
	Head bool
}

// Occupancy maps cells to the body segments covering them.
type Occupancy map[core.Vec]Segment

// BuildOccupancy indexes every segment of body except the newest one, so a
// head can only collide with cells the body held before this tick's move.
func BuildOccupancy(body []Segment) Occupancy {
	if len(body) == 0 {
		return Occupancy{}
	}
	occ := make(Occupancy, len(body)-1)
	for _, s := range body[:len(body)-1] {
		occ[s.Pos] = s
	}
	return occ
}

// Has reports whether v is covered by prior body.
func (o Occupancy) Has(v core.Vec) bool {
	_, ok := o[v]
	return ok
}
