package level

import "github.com/vovakirdan/pingu-runner/internal/core"

type poolKey struct {
	typ     ObstacleType
	variant int
}

// Obstacle is a pooled obstacle instance. Its Box is in world space and only
// meaningful while it is active.
type Obstacle struct {
	id      int
	Type    ObstacleType
	Variant int
	Box     core.Box
	active  bool
}

// ID is stable for the lifetime of the pool.
func (o *Obstacle) ID() int { return o.id }

// Active reports whether the obstacle is placed in the world.
func (o *Obstacle) Active() bool { return o.active }

// SurfaceAt returns the walkable height of the obstacle's top at z.
// Only ramps and longblocks are walkable.
func (o *Obstacle) SurfaceAt(z float64) (float64, bool) {
	switch o.Type {
	case Longblock:
		return o.Box.Max.Y, true
	case Ramp:
		depth := o.Box.Max.Z - o.Box.Min.Z
		if depth <= 0 {
			return o.Box.Max.Y, true
		}
		t := core.ClampF((z-o.Box.Min.Z)/depth, 0, 1)
		return o.Box.Min.Y + t*(o.Box.Max.Y-o.Box.Min.Y), true
	default:
		return 0, false
	}
}

// ObstaclePool hands out obstacle instances keyed by (type, variant).
// Released instances go back to a per-key stack, so an immediate re-acquire
// of the same key gets the same instance. The pool never shrinks.
type ObstaclePool struct {
	all  []*Obstacle
	free map[poolKey][]*Obstacle
}

// NewObstaclePool creates an empty pool.
func NewObstaclePool() *ObstaclePool {
	return &ObstaclePool{free: make(map[poolKey][]*Obstacle)}
}

// Acquire returns an inactive instance of the given type and variant, creating
// one if none is free. The instance is marked active.
func (p *ObstaclePool) Acquire(t ObstacleType, variant int) *Obstacle {
	k := poolKey{t, variant}
	stack := p.free[k]
	var o *Obstacle
	if n := len(stack); n > 0 {
		o = stack[n-1]
		p.free[k] = stack[:n-1]
	} else {
		o = &Obstacle{id: len(p.all), Type: t, Variant: variant}
		p.all = append(p.all, o)
	}
	o.active = true
	return o
}

// Release deactivates an instance and returns it to the pool.
// Releasing an inactive instance is a no-op.
func (p *ObstaclePool) Release(o *Obstacle) {
	if o == nil || !o.active {
		return
	}
	o.active = false
	k := poolKey{o.Type, o.Variant}
	p.free[k] = append(p.free[k], o)
}

// Size returns the number of instances ever created.
func (p *ObstaclePool) Size() int {
	return len(p.all)
}

// ActiveCount returns the number of instances currently placed.
func (p *ObstaclePool) ActiveCount() int {
	n := 0
	for _, o := range p.all {
		if o.active {
			n++
		}
	}
	return n
}

// Each calls fn for every active instance.
func (p *ObstaclePool) Each(fn func(*Obstacle)) {
	for _, o := range p.all {
		if o.active {
			fn(o)
		}
	}
}

// Clear releases every instance.
func (p *ObstaclePool) Clear() {
	for _, o := range p.all {
		p.Release(o)
	}
}
