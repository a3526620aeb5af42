package config

import (
	"fmt"
	"time"
)

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed" // Keep the loaded config untouched
)

// ParsePreset validates a preset name. An empty name means normal.
func ParsePreset(name string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(name); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	default:
		return "", fmt.Errorf("%w: unknown difficulty %q", ErrInvalidConfig, name)
	}
}

// ApplySnekPreset modifies the config based on a difficulty preset.
// Normal and fixed leave the loaded values as they are.
func ApplySnekPreset(cfg *SnekConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Scoring.DefaultTailBites = 8
		cfg.Spawn.HazardLevel = 8
		cfg.Timing.TickInterval = 30 * time.Millisecond
	case DifficultyHard:
		cfg.Scoring.DefaultTailBites = 3
		cfg.Spawn.HazardLevel = 4
		cfg.Spawn.HazardIncrement = 2
		cfg.Timing.TickInterval = 15 * time.Millisecond
	}
}
