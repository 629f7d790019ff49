package core

// Gestures is the per-tick input contract consumed by the simulation.
// It is produced by the gesture recognizer (pointer/touch) or directly by a
// key mapper; the core never sees raw pointer events.
type Gestures struct {
	Tap        bool
	SwipeLeft  bool
	SwipeRight bool
	SwipeUp    bool
	SwipeDown  bool

	// SwipeDelta is the in-progress drag relative to the press point.
	SwipeDelta Vec2
}

// Any returns true if at least one discrete gesture fired this tick.
func (g Gestures) Any() bool {
	return g.Tap || g.SwipeLeft || g.SwipeRight || g.SwipeUp || g.SwipeDown
}

// Merge combines two frames; flags are OR-ed and the later delta wins.
func (g Gestures) Merge(o Gestures) Gestures {
	return Gestures{
		Tap:        g.Tap || o.Tap,
		SwipeLeft:  g.SwipeLeft || o.SwipeLeft,
		SwipeRight: g.SwipeRight || o.SwipeRight,
		SwipeUp:    g.SwipeUp || o.SwipeUp,
		SwipeDown:  g.SwipeDown || o.SwipeDown,
		SwipeDelta: o.SwipeDelta,
	}
}

// String returns a compact flag summary, used in sim traces.
func (g Gestures) String() string {
	b := []byte("-----")
	if g.Tap {
		b[0] = 'T'
	}
	if g.SwipeLeft {
		b[1] = 'L'
	}
	if g.SwipeRight {
		b[2] = 'R'
	}
	if g.SwipeUp {
		b[3] = 'U'
	}
	if g.SwipeDown {
		b[4] = 'D'
	}
	return string(b)
}
