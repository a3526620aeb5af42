package core

import "fmt"

// Vec is an integer grid coordinate. It is comparable and safe to use as a map key.
// X increases to the right, Y increases downward (screen coordinates).
type Vec struct {
	X, Y int
}

// V is a convenience constructor for Vec.
func V(x, y int) Vec {
	return Vec{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (v Vec) String() string {
	return fmt.Sprintf("[%d, %d]", v.X, v.Y)
}

// Add returns a new Vec offset by (dx, dy).
func (v Vec) Add(dx, dy int) Vec {
	return Vec{X: v.X + dx, Y: v.Y + dy}
}

// Step returns the coordinate one square in direction d.
func (v Vec) Step(d Direction, square int) Vec {
	dx, dy := d.Delta()
	return v.Add(dx*square, dy*square)
}

// Direction is one of the four cardinal movement directions.
type Direction uint8

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

// Delta returns the (dx, dy) unit offset for this direction.
// Up decreases Y, Down increases Y.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return d
	}
}

// ParseDirection converts a name such as "up" into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "up":
		return DirUp, nil
	case "down":
		return DirDown, nil
	case "left":
		return DirLeft, nil
	case "right", "":
		return DirRight, nil
	default:
		return DirRight, fmt.Errorf("unknown direction %q", s)
	}
}
