package level

import "github.com/vovakirdan/pingu-runner/internal/core"

// Track answers geometric queries against the streamed world.
// The base ground is a flat plane at height zero.
type Track struct {
	streamer   *Streamer
	stepHeight float64
}

// NewTrack wraps a streamer. Ramp surfaces up to stepHeight above the feet
// can be stepped onto; anything taller is a wall.
func NewTrack(s *Streamer, stepHeight float64) *Track {
	return &Track{streamer: s, stepHeight: stepHeight}
}

// SurfaceHeight returns the highest walkable height at (x, z).
func (t *Track) SurfaceHeight(x, z float64) float64 {
	h := 0.0
	t.streamer.pool.Each(func(o *Obstacle) {
		if x < o.Box.Min.X || x > o.Box.Max.X || z < o.Box.Min.Z || z > o.Box.Max.Z {
			return
		}
		if top, ok := o.SurfaceAt(z); ok && top > h {
			h = top
		}
	})
	return h
}

// Raycast casts a ray straight down from origin and reports whether it hits
// a walkable surface within length.
func (t *Track) Raycast(origin core.Vec3, length float64) bool {
	h := t.SurfaceHeight(origin.X, origin.Z)
	return origin.Y >= h && origin.Y-h <= length
}

// ObstacleContacts returns the obstacles box crashes into. Ramps only count
// when the feet are more than a step below the ramp surface, which is what
// hitting a ramp from the side does.
func (t *Track) ObstacleContacts(box core.Box) []*Obstacle {
	var out []*Obstacle
	t.streamer.pool.Each(func(o *Obstacle) {
		if !o.Box.Intersects(box) {
			return
		}
		switch o.Type {
		case Ramp:
			z := core.ClampF((box.Min.Z+box.Max.Z)/2, o.Box.Min.Z, o.Box.Max.Z)
			if top, _ := o.SurfaceAt(z); top-box.Min.Y <= t.stepHeight {
				return
			}
		case Longblock:
			// Feet near a block's top step onto it instead of hitting the face.
			if box.Min.Y >= o.Box.Max.Y-ledgeTolerance {
				return
			}
		}
		out = append(out, o)
	})
	return out
}

// PickupContacts returns the collectible coins intersecting box.
func (t *Track) PickupContacts(box core.Box) []*Coin {
	var out []*Coin
	t.eachCoin(func(c *Coin) {
		if c.CanPickUp() && c.Box().Intersects(box) {
			out = append(out, c)
		}
	})
	return out
}

// Obstacles calls fn for every placed obstacle.
func (t *Track) Obstacles(fn func(*Obstacle)) {
	t.streamer.pool.Each(fn)
}

// Coins calls fn for every visible coin, collected or not.
func (t *Track) Coins(fn func(*Coin)) {
	t.eachCoin(fn)
}

func (t *Track) eachCoin(fn func(*Coin)) {
	for _, seg := range t.streamer.active {
		for _, cs := range seg.coins {
			for _, c := range cs.coins {
				if c.active {
					fn(c)
				}
			}
		}
	}
}

const ledgeTolerance = 0.5
