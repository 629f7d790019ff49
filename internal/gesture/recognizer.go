// Package gesture turns raw pointer samples (mouse or touch) into the
// discrete per-tick gesture flags the simulation consumes.
package gesture

import (
	"math"

	"github.com/vovakirdan/pingu-runner/internal/core"
)

// DefaultMinSwipe is the drag distance, in pointer units, that counts as a swipe.
const DefaultMinSwipe = 100.0

// Sample is the pointer state observed during one tick.
type Sample struct {
	Pressed  bool      // pointer went down this tick
	Released bool      // pointer went up (or was cancelled) this tick
	Held     bool      // pointer is currently down
	Pos      core.Vec2 // current pointer position
}

// Recognizer tracks a drag from its press point and reports swipes.
// A swipe ends the drag; the pointer must be pressed again to swipe again.
type Recognizer struct {
	minSwipe float64
	start    core.Vec2
	tracking bool
	current  core.Gestures
}

// NewRecognizer creates a recognizer with the given swipe threshold.
// A non-positive threshold falls back to DefaultMinSwipe.
func NewRecognizer(minSwipe float64) *Recognizer {
	if minSwipe <= 0 {
		minSwipe = DefaultMinSwipe
	}
	return &Recognizer{minSwipe: minSwipe}
}

// Update consumes one sample and returns the gestures for this tick.
// All flags are reset at the start of every call.
func (r *Recognizer) Update(s Sample) core.Gestures {
	r.current = core.Gestures{}

	if s.Pressed {
		r.current.Tap = true
		r.start = s.Pos
		r.tracking = true
	} else if s.Released {
		r.tracking = false
		return r.current
	}

	if !r.tracking || !(s.Held || s.Pressed) {
		return r.current
	}

	delta := core.Vec2{X: s.Pos.X - r.start.X, Y: s.Pos.Y - r.start.Y}
	r.current.SwipeDelta = delta

	if delta.Len() <= r.minSwipe {
		return r.current
	}

	if math.Abs(delta.X) > math.Abs(delta.Y) {
		if delta.X < 0 {
			r.current.SwipeLeft = true
		} else {
			r.current.SwipeRight = true
		}
	} else {
		// Pointer Y grows upward, as on a touch screen.
		if delta.Y < 0 {
			r.current.SwipeDown = true
		} else {
			r.current.SwipeUp = true
		}
	}

	r.tracking = false
	r.current.SwipeDelta = core.Vec2{}
	return r.current
}

// Current returns the gestures produced by the last Update.
func (r *Recognizer) Current() core.Gestures {
	return r.current
}

// Reset drops any drag in progress.
func (r *Recognizer) Reset() {
	r.tracking = false
	r.current = core.Gestures{}
}
