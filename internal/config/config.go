// Package config provides YAML-based runner configuration loading and the
// difficulty clock that scales speed and score over a run.
package config

import (
	"errors"
	"fmt"
)

// RunnerConfig contains all tunables of the runner simulation.
type RunnerConfig struct {
	Player     PlayerConfig     `yaml:"player"`
	Level      LevelConfig      `yaml:"level"`
	Session    SessionConfig    `yaml:"session"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
	Input      InputConfig      `yaml:"input"`
	Profile    ProfileConfig    `yaml:"profile"`
}

// PlayerConfig defines locomotion parameters.
type PlayerConfig struct {
	BaseSpeed             float64 `yaml:"base_speed"`
	JumpForce             float64 `yaml:"jump_force"`
	Gravity               float64 `yaml:"gravity"`
	LaneDistance          float64 `yaml:"lane_distance"`
	SlideDuration         float64 `yaml:"slide_duration"`           // seconds
	SlideHitboxMultiplier float64 `yaml:"slide_hitbox_multiplier"`  // applied to height and center
	HitboxWidth           float64 `yaml:"hitbox_width"`
	HitboxDepth           float64 `yaml:"hitbox_depth"`
	HitboxHeight          float64 `yaml:"hitbox_height"`
	HitboxCenterY         float64 `yaml:"hitbox_center_y"`
	GroundRayOffset       float64 `yaml:"ground_ray_offset"`
	GroundRayThreshold    float64 `yaml:"ground_ray_threshold"`
	GroundedVelocity      float64 `yaml:"grounded_velocity"` // keeps ground contact stable
	StepHeight            float64 `yaml:"step_height"`
	FacingBlend           float64 `yaml:"facing_blend"` // per-tick interpolation toward velocity
}

// LevelConfig defines segment streaming parameters.
type LevelConfig struct {
	CatalogPath               string  `yaml:"catalog_path"` // empty = built-in catalog
	DistanceBeforeSpawn       float64 `yaml:"distance_before_spawn"`
	InitialSegments           int     `yaml:"initial_segments"`
	InitialTransitionSegments int     `yaml:"initial_transition_segments"`
	MaxSegmentsOnScreen       int     `yaml:"max_segments_on_screen"`
	TransitionChanceStep      float64 `yaml:"transition_chance_step"`
	CameraOffset              float64 `yaml:"camera_offset"` // camera distance behind the player
}

// SessionConfig defines run lifecycle timings.
type SessionConfig struct {
	RetryDelay      float64 `yaml:"retry_delay"`       // seconds after a crash before auto-retry
	PickupHideDelay float64 `yaml:"pickup_hide_delay"` // seconds a collected coin stays visible
	CoinValue       int     `yaml:"coin_value"`
}

// DifficultyConfig defines the step-wise difficulty progression.
type DifficultyConfig struct {
	Enabled          bool    `yaml:"enabled"`
	IncreaseInterval float64 `yaml:"increase_interval"` // seconds of play between steps
	IncreaseAmount   float64 `yaml:"increase_amount"`   // added to the modifier per step
}

// InputConfig defines gesture recognition parameters.
type InputConfig struct {
	MinSwipeThreshold float64 `yaml:"min_swipe_threshold"` // drag distance in terminal cells
}

// ProfileConfig defines cosmetic skins and daily rewards.
type ProfileConfig struct {
	Skins        []SkinConfig `yaml:"skins"`
	DailyRewards []int        `yaml:"daily_rewards"` // coins granted for day 1..N, cycling
}

// SkinConfig describes a selectable player skin.
type SkinConfig struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Validate checks that the configuration can drive a simulation.
func (c RunnerConfig) Validate() error {
	var errs []error

	if c.Player.BaseSpeed <= 0 {
		errs = append(errs, fmt.Errorf("player.base_speed must be positive, got %v", c.Player.BaseSpeed))
	}
	if c.Player.LaneDistance <= 0 {
		errs = append(errs, fmt.Errorf("player.lane_distance must be positive, got %v", c.Player.LaneDistance))
	}
	if c.Player.SlideHitboxMultiplier <= 0 || c.Player.SlideHitboxMultiplier > 1 {
		errs = append(errs, fmt.Errorf("player.slide_hitbox_multiplier must be in (0, 1], got %v", c.Player.SlideHitboxMultiplier))
	}
	if c.Level.MaxSegmentsOnScreen < 2 {
		errs = append(errs, fmt.Errorf("level.max_segments_on_screen must be at least 2, got %d", c.Level.MaxSegmentsOnScreen))
	}
	if c.Level.InitialTransitionSegments > c.Level.InitialSegments {
		errs = append(errs, fmt.Errorf("level.initial_transition_segments (%d) exceeds initial_segments (%d)",
			c.Level.InitialTransitionSegments, c.Level.InitialSegments))
	}
	if c.Difficulty.Enabled && c.Difficulty.IncreaseInterval <= 0 {
		errs = append(errs, fmt.Errorf("difficulty.increase_interval must be positive, got %v", c.Difficulty.IncreaseInterval))
	}
	if c.Input.MinSwipeThreshold <= 0 {
		errs = append(errs, fmt.Errorf("input.min_swipe_threshold must be positive, got %v", c.Input.MinSwipeThreshold))
	}
	if c.Difficulty.IncreaseAmount < 0 {
		errs = append(errs, fmt.Errorf("difficulty.increase_amount must not be negative, got %v", c.Difficulty.IncreaseAmount))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: invalid runner config: %w", errors.Join(errs...))
	}
	return nil
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset converts a CLI value to a preset. Unknown values map to "".
func ParsePreset(s string) DifficultyPreset {
	switch DifficultyPreset(s) {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return DifficultyPreset(s)
	default:
		return ""
	}
}

// ApplyPreset modifies the difficulty progression for a preset.
// The empty preset leaves the config untouched.
func ApplyPreset(cfg *RunnerConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.IncreaseInterval = 3.5
		cfg.Difficulty.IncreaseAmount = 0.05
	case DifficultyNormal:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.IncreaseInterval = 2.5
		cfg.Difficulty.IncreaseAmount = 0.1
	case DifficultyHard:
		cfg.Difficulty.Enabled = true
		cfg.Difficulty.IncreaseInterval = 2.0
		cfg.Difficulty.IncreaseAmount = 0.15
	case DifficultyFixed:
		cfg.Difficulty.Enabled = false
	}
}
