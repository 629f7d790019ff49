package config

import (
	_ "embed"
)

//go:embed defaults/runner.yaml
var defaultRunnerYAML []byte

//go:embed defaults/catalog.yaml
var defaultCatalogYAML []byte

// DefaultRunnerConfig returns the hard-coded runner configuration.
// It mirrors defaults/runner.yaml and is the last fallback of the loader.
func DefaultRunnerConfig() RunnerConfig {
	return RunnerConfig{
		Player: PlayerConfig{
			BaseSpeed:             7,
			JumpForce:             4,
			Gravity:               12,
			LaneDistance:          3,
			SlideDuration:         1,
			SlideHitboxMultiplier: 0.5,
			HitboxWidth:           0.8,
			HitboxDepth:           0.8,
			HitboxHeight:          2,
			HitboxCenterY:         1,
			GroundRayOffset:       0.2,
			GroundRayThreshold:    0.1,
			GroundedVelocity:      -0.1,
			StepHeight:            0.35,
			FacingBlend:           0.05,
		},
		Level: LevelConfig{
			DistanceBeforeSpawn:       100,
			InitialSegments:           10,
			InitialTransitionSegments: 2,
			MaxSegmentsOnScreen:       15,
			TransitionChanceStep:      0.25,
			CameraOffset:              5,
		},
		Session: SessionConfig{
			RetryDelay:      2,
			PickupHideDelay: 1,
			CoinValue:       1,
		},
		Difficulty: DifficultyConfig{
			Enabled:          true,
			IncreaseInterval: 2.5,
			IncreaseAmount:   0.1,
		},
		Input: InputConfig{
			MinSwipeThreshold: 3,
		},
		Profile: ProfileConfig{
			Skins: []SkinConfig{
				{ID: "pingu", Name: "Pingu"},
				{ID: "emperor", Name: "Emperor"},
				{ID: "rockhopper", Name: "Rockhopper"},
			},
			DailyRewards: []int{10, 20, 30, 40, 50, 75, 100},
		},
	}
}

// DefaultCatalogYAML returns the embedded segment catalog.
func DefaultCatalogYAML() []byte {
	return defaultCatalogYAML
}

// GetDefaultYAML returns the embedded default YAML for a config name.
func GetDefaultYAML(name string) []byte {
	switch name {
	case "runner":
		return defaultRunnerYAML
	case "catalog":
		return defaultCatalogYAML
	default:
		return nil
	}
}
