package config

import "math"

// DifficultyClock turns elapsed play time into a speed and score modifier.
// The modifier starts at 1 and grows by IncreaseAmount every
// IncreaseInterval seconds. It never decreases until Reset.
type DifficultyClock struct {
	cfg      DifficultyConfig
	elapsed  float64
	modifier float64
}

// NewDifficultyClock creates a clock at modifier 1.
func NewDifficultyClock(cfg DifficultyConfig) *DifficultyClock {
	return &DifficultyClock{cfg: cfg, modifier: 1}
}

// IsEnabled returns whether difficulty progression is active.
func (d *DifficultyClock) IsEnabled() bool {
	return d.cfg.Enabled && d.cfg.IncreaseInterval > 0
}

// Reset returns the clock to zero elapsed time and modifier 1.
func (d *DifficultyClock) Reset() {
	d.elapsed = 0
	d.modifier = 1
}

// Advance adds dt seconds of play and returns the current modifier.
func (d *DifficultyClock) Advance(dt float64) float64 {
	if dt > 0 {
		d.elapsed += dt
	}
	if !d.IsEnabled() {
		return d.modifier
	}
	// The epsilon absorbs drift from summing many fixed ticks, so a step
	// lands on the tick that reaches its boundary.
	m := 1 + float64(d.Steps())*d.cfg.IncreaseAmount
	if m > d.modifier {
		d.modifier = m
	}
	return d.modifier
}

// Steps returns the number of completed increase intervals.
func (d *DifficultyClock) Steps() int {
	if !d.IsEnabled() {
		return 0
	}
	return int(math.Floor(d.elapsed/d.cfg.IncreaseInterval + 1e-6))
}

// Modifier returns the current modifier.
func (d *DifficultyClock) Modifier() float64 {
	return d.modifier
}

// Elapsed returns seconds of play since the last Reset.
func (d *DifficultyClock) Elapsed() float64 {
	return d.elapsed
}

// Speed scales a base speed by the modifier.
func (d *DifficultyClock) Speed(base float64) float64 {
	return base * d.modifier
}
