package game

import (
	"math"

	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/level"
	"github.com/vovakirdan/pingu-runner/internal/player"
	"github.com/vovakirdan/pingu-runner/internal/session"
)

// DefaultLead is the warning, in seconds of travel, before the autopilot
// reacts to an obstacle.
const DefaultLead = 0.2

const dodgeFactor = 3

// Autopilot plays the runner by sending the gestures a player would. It is
// used by the headless simulator.
type Autopilot struct {
	Lead float64 // seconds of travel; zero means DefaultLead
}

// Decide returns the gestures for the next tick. It taps to start a run
// from Idle, jumps low barriers, slides under high bars and changes lanes
// around blocks.
func (a Autopilot) Decide(e *Engine) core.Gestures {
	var g core.Gestures

	switch e.session.State() {
	case session.StateIdle:
		g.Tap = true
		return g
	case session.StatePlaying:
	default:
		return g
	}

	p := e.player
	if p.Movement() == player.MoveIdle {
		return g
	}

	// Lane changes take about as long as the lateral distance at running
	// speed, so blocks are looked for further ahead.
	reach := a.speed(e) * a.lead()
	o, gap := a.nearest(e, p.Lane(), reach*dodgeFactor)
	if o == nil {
		return g
	}

	switch o.Type {
	case level.Jump:
		if gap <= reach && p.Grounded() {
			g.SwipeUp = true
		}
	case level.Slide:
		if gap <= reach && p.Movement() != player.MoveSliding {
			g.SwipeDown = true
		}
	default:
		if lane, ok := a.freeLane(e, reach*dodgeFactor); ok {
			if lane < p.Lane() {
				g.SwipeLeft = true
			} else {
				g.SwipeRight = true
			}
		} else if gap <= reach && p.Grounded() {
			g.SwipeUp = true
		}
	}
	return g
}

func (a Autopilot) lead() float64 {
	if a.Lead <= 0 {
		return DefaultLead
	}
	return a.Lead
}

func (a Autopilot) speed(e *Engine) float64 {
	return math.Max(e.player.Speed(), e.cfg.Player.BaseSpeed*e.session.DifficultyModifier())
}

// nearest returns the closest solid obstacle in lane whose near face is
// within reach of the player's hitbox, and the distance to that face.
func (a Autopilot) nearest(e *Engine, lane int, reach float64) (*level.Obstacle, float64) {
	pos := e.player.Position()
	front := pos.Z + e.cfg.Player.HitboxDepth/2
	x := level.LaneX(lane, e.cfg.Player.LaneDistance)

	var (
		best    *level.Obstacle
		bestGap float64
	)
	e.track.Obstacles(func(o *level.Obstacle) {
		if !o.Type.Solid() || x < o.Box.Min.X || x > o.Box.Max.X {
			return
		}
		gap := o.Box.Min.Z - front
		if gap < 0 || gap > reach {
			return
		}
		if o.Type == level.Longblock && pos.Y >= o.Box.Max.Y-ledgeTolerance {
			return
		}
		if best == nil || gap < bestGap {
			best, bestGap = o, gap
		}
	})
	return best, bestGap
}

// freeLane returns a neighbouring lane that is clear within reach.
func (a Autopilot) freeLane(e *Engine, reach float64) (int, bool) {
	lane := e.player.Lane()
	for _, next := range []int{lane - 1, lane + 1} {
		if next >= 0 && next < level.Lanes && a.clear(e, next, reach) {
			return next, true
		}
	}
	return lane, false
}

// clear reports whether lane holds no obstacle between the player's back
// and reach ahead of its front. Ramps count: their sides are walls.
func (a Autopilot) clear(e *Engine, lane int, reach float64) bool {
	pos := e.player.Position()
	half := e.cfg.Player.HitboxDepth / 2
	back, front := pos.Z-half, pos.Z+half
	x := level.LaneX(lane, e.cfg.Player.LaneDistance)

	ok := true
	e.track.Obstacles(func(o *level.Obstacle) {
		if x < o.Box.Min.X || x > o.Box.Max.X {
			return
		}
		if o.Box.Max.Z > back && o.Box.Min.Z-front <= reach {
			ok = false
		}
	})
	return ok
}

// Feet on a block within this distance of its top are standing on it.
const ledgeTolerance = 0.5
