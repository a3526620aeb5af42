package game

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/zyedidia/generic/mapset"

	"github.com/vovakirdan/snek/internal/config"
	"github.com/vovakirdan/snek/internal/core"
)

// ErrSpawnCapacity is returned when a quota cannot fit in the free cells of
// its placement window. It is a configuration error: the run cannot continue.
var ErrSpawnCapacity = errors.New("spawn quota exceeds free cells")

// Food is an item that grows the snake when eaten.
type Food struct {
	Pos   core.Vec
	Level int // Level at which the item was spawned
}

// Hazard is a mine. It ends the run when the head lands on it.
type Hazard struct {
	Pos       core.Vec
	Level     int
	Detonated bool
}

// Spawner places food and hazards without overlap inside a level-dependent
// window that starts near the grid center and widens as levels increase.
type Spawner struct {
	grid config.GridConfig
	rng  *rand.Rand
}

// NewSpawner creates a spawner for grid drawing from rng.
func NewSpawner(grid config.GridConfig, rng *rand.Rand) *Spawner {
	return &Spawner{grid: grid, rng: rng}
}

// Window returns the placement window for level, in cells.
func (s *Spawner) Window(level int) core.Rect {
	x, w := axisWindow(level, s.grid.Columns())
	y, h := axisWindow(level, s.grid.Rows())
	return core.NewRect(x, y, w, h)
}

// axisWindow computes [lower, lower+size) along one axis of cells cells.
// Below the saturation level (a third of the axis) the lower edge moves out by
// two cells per level and the span grows by four; from then on the window is
// the first two thirds of the axis.
func axisWindow(level, cells int) (lower, size int) {
	third := cells / 3
	span := 2 * third
	if level < third {
		lower = third - 2*level
		span = third + 4*level
	}
	lower = core.Clamp(lower, 0, cells-1)
	upper := core.Min(lower+core.Max(span, 1), cells)
	return lower, upper - lower
}

// ReplenishFood places quota food items for level. No two share a cell.
func (s *Spawner) ReplenishFood(level, quota int) ([]Food, error) {
	taken := mapset.New[core.Vec]()
	cells, err := s.place(level, quota, taken, 0)
	if err != nil {
		return nil, fmt.Errorf("food: %w", err)
	}

	foods := make([]Food, len(cells))
	for i, c := range cells {
		foods[i] = Food{Pos: c, Level: level}
	}
	return foods, nil
}

// ReplenishHazards places quota hazards for level, avoiding each other and
// every cell in forbidden.
func (s *Spawner) ReplenishHazards(level, quota int, forbidden []Food) ([]Hazard, error) {
	win := s.Window(level)
	taken := mapset.New[core.Vec]()
	blocked := 0
	for _, f := range forbidden {
		if taken.Has(f.Pos) {
			continue
		}
		taken.Put(f.Pos)
		if win.Contains(f.Pos.X/s.grid.SquareSize, f.Pos.Y/s.grid.SquareSize) {
			blocked++
		}
	}

	cells, err := s.place(level, quota, taken, blocked)
	if err != nil {
		return nil, fmt.Errorf("hazards: %w", err)
	}

	hazards := make([]Hazard, len(cells))
	for i, c := range cells {
		hazards[i] = Hazard{Pos: c, Level: level}
	}
	return hazards, nil
}

// place draws quota distinct coordinates in the level window, skipping cells
// already in taken. blocked is how many taken cells lie inside the window.
func (s *Spawner) place(level, quota int, taken mapset.Set[core.Vec], blocked int) ([]core.Vec, error) {
	if quota <= 0 {
		return nil, nil
	}
	win := s.Window(level)
	if free := win.Area() - blocked; quota > free {
		return nil, fmt.Errorf("%w: %d items, %d free cells at level %d", ErrSpawnCapacity, quota, free, level)
	}

	placed := make([]core.Vec, 0, quota)
	for range quota {
		c := s.draw(win)
		for taken.Has(c) {
			c = s.draw(win)
		}
		taken.Put(c)
		placed = append(placed, c)
	}
	return placed, nil
}

// draw returns a random grid-aligned coordinate inside win.
func (s *Spawner) draw(win core.Rect) core.Vec {
	sq := s.grid.SquareSize
	return core.V(
		(win.X+s.rng.Intn(win.W))*sq,
		(win.Y+s.rng.Intn(win.H))*sq,
	)
}
