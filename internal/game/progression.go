package game

import (
	"fmt"

	"github.com/vovakirdan/snek/internal/config"
)

// Progression is the level and scoring state of a run.
type Progression struct {
	Level       int // Incremented on every food replenishment
	Score       int
	TailBites   int // Remaining soft self-collisions this level
	LegalLength int // Body length the trim step converges toward
	FoodQuota   int // Food items spawned at the next level boundary
	HazardQuota int // Hazards spawned at the next level boundary
}

// NewProgression returns the progression of a fresh run.
func NewProgression(cfg config.SnekConfig) Progression {
	return Progression{
		Level:       0,
		Score:       cfg.Scoring.DefaultScore,
		TailBites:   cfg.Scoring.DefaultTailBites,
		LegalLength: cfg.Snake.DefaultLength,
		FoodQuota:   cfg.Spawn.DefaultFoodQuota,
		HazardQuota: cfg.Spawn.DefaultHazardQuota,
	}
}

// Tip returns the level-specific hint shown in the HUD.
func (p Progression) Tip(hazardLevel int) string {
	switch {
	case p.Level == 1:
		return "Apples go monch!"
	case p.Level == hazardLevel:
		return "Mines go boom!"
	case p.Level%4 == 0:
		return "Don't eat your tail!"
	default:
		return "Press 'esc' to pause"
	}
}

// HUD formats the status line shown above the grid.
func (p Progression) HUD(hazardLevel int) string {
	return fmt.Sprintf("%s  Level: %d  Score: %d  Remaining Tail Bites: %d",
		p.Tip(hazardLevel), p.Level, p.Score, p.TailBites)
}
