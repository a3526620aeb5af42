package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snek.yaml
var defaultSnekYAML []byte

// DefaultSnekConfig returns the built-in configuration.
func DefaultSnekConfig() SnekConfig {
	return SnekConfig{
		Grid: GridConfig{
			HorizontalBound: 576,
			VerticalBound:   528,
			SquareSize:      8,
		},
		Snake: SnakeConfig{
			StartX:        8,
			StartY:        8,
			DefaultLength: 10,
			Direction:     "right",
		},
		Scoring: ScoringConfig{
			DefaultScore:     80,
			ScoreIncrement:   8,
			DefaultTailBites: 5,
		},
		Spawn: SpawnConfig{
			DefaultFoodQuota:   1,
			FoodIncrement:      2,
			DefaultHazardQuota: 1,
			HazardIncrement:    1,
			HazardLevel:        6,
		},
		Timing: TimingConfig{
			TickInterval: 20 * time.Millisecond,
		},
	}
}

// GetDefaultYAML returns the embedded default YAML.
func GetDefaultYAML() []byte {
	return defaultSnekYAML
}
