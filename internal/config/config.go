// Package config provides YAML-based simulation configuration loading,
// validation and difficulty presets.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidConfig is returned when a configuration cannot produce a playable run.
var ErrInvalidConfig = errors.New("invalid config")

// SnekConfig contains all configuration for a simulation run.
type SnekConfig struct {
	Grid    GridConfig    `yaml:"grid"`
	Snake   SnakeConfig   `yaml:"snake"`
	Scoring ScoringConfig `yaml:"scoring"`
	Spawn   SpawnConfig   `yaml:"spawn"`
	Timing  TimingConfig  `yaml:"timing"`
}

// GridConfig defines the playfield. Bounds are exclusive and measured in the
// same units as SquareSize.
type GridConfig struct {
	HorizontalBound int `yaml:"horizontal_bound"`
	VerticalBound   int `yaml:"vertical_bound"`
	SquareSize      int `yaml:"square_size"`
}

// Columns returns the number of grid cells along the X axis.
func (g GridConfig) Columns() int {
	return g.HorizontalBound / g.SquareSize
}

// Rows returns the number of grid cells along the Y axis.
func (g GridConfig) Rows() int {
	return g.VerticalBound / g.SquareSize
}

// SnakeConfig defines the snake at the start of a run.
type SnakeConfig struct {
	StartX        int    `yaml:"start_x"`
	StartY        int    `yaml:"start_y"`
	DefaultLength int    `yaml:"default_length"`
	Direction     string `yaml:"direction"`
}

// ScoringConfig defines scoring and the tail-bite budget.
type ScoringConfig struct {
	DefaultScore     int `yaml:"default_score"`
	ScoreIncrement   int `yaml:"score_increment"`
	DefaultTailBites int `yaml:"default_tail_bites"`
}

// SpawnConfig defines food and hazard quotas and their per-level growth.
type SpawnConfig struct {
	DefaultFoodQuota   int `yaml:"default_food_quota"`
	FoodIncrement      int `yaml:"food_increment"`
	DefaultHazardQuota int `yaml:"default_hazard_quota"`
	HazardIncrement    int `yaml:"hazard_increment"`
	HazardLevel        int `yaml:"hazard_level"` // First level with hazards
}

// TimingConfig defines pacing for the presentation layer's tick timer.
type TimingConfig struct {
	TickInterval time.Duration `yaml:"tick_interval"`
}

// Validate checks that the configuration describes a playable grid.
// All failures wrap ErrInvalidConfig.
func (c SnekConfig) Validate() error {
	g := c.Grid
	switch {
	case g.SquareSize <= 0:
		return fmt.Errorf("%w: square_size must be positive, got %d", ErrInvalidConfig, g.SquareSize)
	case g.HorizontalBound <= 0 || g.VerticalBound <= 0:
		return fmt.Errorf("%w: grid bounds must be positive, got %dx%d", ErrInvalidConfig, g.HorizontalBound, g.VerticalBound)
	case g.HorizontalBound%g.SquareSize != 0 || g.VerticalBound%g.SquareSize != 0:
		return fmt.Errorf("%w: grid bounds must be multiples of square_size %d", ErrInvalidConfig, g.SquareSize)
	case g.Columns() < 3 || g.Rows() < 3:
		return fmt.Errorf("%w: grid must be at least 3x3 cells, got %dx%d", ErrInvalidConfig, g.Columns(), g.Rows())
	}

	s := c.Snake
	if s.StartX < 0 || s.StartX >= g.HorizontalBound || s.StartY < 0 || s.StartY >= g.VerticalBound {
		return fmt.Errorf("%w: start (%d, %d) is off-grid", ErrInvalidConfig, s.StartX, s.StartY)
	}
	if s.StartX%g.SquareSize != 0 || s.StartY%g.SquareSize != 0 {
		return fmt.Errorf("%w: start (%d, %d) is not grid-aligned", ErrInvalidConfig, s.StartX, s.StartY)
	}
	// Collisions are only checked once the body reaches three segments.
	if s.DefaultLength < 2 {
		return fmt.Errorf("%w: default_length must be at least 2, got %d", ErrInvalidConfig, s.DefaultLength)
	}
	switch s.Direction {
	case "", "up", "down", "left", "right":
	default:
		return fmt.Errorf("%w: unknown direction %q", ErrInvalidConfig, s.Direction)
	}

	if c.Scoring.DefaultTailBites < 0 || c.Scoring.ScoreIncrement < 0 {
		return fmt.Errorf("%w: scoring values must not be negative", ErrInvalidConfig)
	}

	sp := c.Spawn
	if sp.DefaultFoodQuota < 1 {
		return fmt.Errorf("%w: default_food_quota must be at least 1, got %d", ErrInvalidConfig, sp.DefaultFoodQuota)
	}
	if sp.FoodIncrement < 0 || sp.DefaultHazardQuota < 0 || sp.HazardIncrement < 0 || sp.HazardLevel < 1 {
		return fmt.Errorf("%w: spawn quotas and increments must not be negative", ErrInvalidConfig)
	}
	cells := g.Columns() * g.Rows()
	if sp.DefaultFoodQuota+sp.DefaultHazardQuota > cells {
		return fmt.Errorf("%w: initial quotas exceed %d grid cells", ErrInvalidConfig, cells)
	}

	if c.Timing.TickInterval <= 0 {
		return fmt.Errorf("%w: tick_interval must be positive", ErrInvalidConfig)
	}
	return nil
}
