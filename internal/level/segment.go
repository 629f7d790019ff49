package level

import (
	"math/rand"

	"github.com/vovakirdan/pingu-runner/internal/core"
)

// Coins float this far above their placement height.
const coinLift = 0.75

// Obstacles fill this fraction of the lane width.
const obstacleWidthRatio = 0.8

// ObstacleSpawner places one pooled obstacle when its segment spawns.
type ObstacleSpawner struct {
	placement ObstaclePlacement
	origin    core.Vec3 // world position of the obstacle's near bottom-centre
	current   *Obstacle
}

// Current returns the obstacle placed by this spawner, if any.
func (s *ObstacleSpawner) Current() *Obstacle {
	return s.current
}

// Spawn acquires a random variant of the spawner's type and positions it.
func (s *ObstacleSpawner) Spawn(pool *ObstaclePool, catalog *Catalog, laneWidth float64, rng *rand.Rand) {
	spec := catalog.Spec(s.placement.Type)
	variant := 0
	if spec.Variants > 1 {
		variant = rng.Intn(spec.Variants)
	}

	o := pool.Acquire(s.placement.Type, variant)
	w := laneWidth * obstacleWidthRatio
	o.Box = core.Box{
		Min: core.V3(s.origin.X-w/2, spec.Elevation, s.origin.Z),
		Max: core.V3(s.origin.X+w/2, spec.Elevation+spec.Height, s.origin.Z+spec.Length),
	}
	s.current = o
}

// Despawn returns the placed obstacle to the pool.
func (s *ObstacleSpawner) Despawn(pool *ObstaclePool) {
	if s.current == nil {
		return
	}
	pool.Release(s.current)
	s.current = nil
}

// Segment is a placed (or recyclable) instance of a catalog template.
type Segment struct {
	TemplateID   int
	IsTransition bool
	Name         string
	Length       int
	Begin        Key
	End          Key
	Z            float64 // world position of the segment start

	active    bool
	obstacles []*ObstacleSpawner
	coins     []*CoinSpawner
}

func newSegment(t Template, z, laneDistance float64, coinIDs *int, pickups *Pickups) *Segment {
	s := &Segment{
		TemplateID:   t.ID,
		IsTransition: t.IsTransition,
		Name:         t.Name,
		Length:       t.Length,
		Begin:        t.Begin,
		End:          t.End,
	}
	for _, p := range t.Obstacles {
		s.obstacles = append(s.obstacles, &ObstacleSpawner{placement: p})
	}
	for _, p := range t.Coins {
		origin := core.V3(LaneX(p.Lane, laneDistance), p.Y+coinLift, p.Z)
		s.coins = append(s.coins, newCoinSpawner(p, origin, coinIDs, pickups))
	}
	s.moveTo(z, laneDistance)
	return s
}

// LaneX returns the lateral centre of a lane.
func LaneX(lane int, laneDistance float64) float64 {
	return float64(lane-1) * laneDistance
}

// Matches reports whether the segment is an instance of the template identity.
func (s *Segment) Matches(id int, transition bool) bool {
	return s.TemplateID == id && s.IsTransition == transition
}

// Active reports whether the segment is placed in the world.
func (s *Segment) Active() bool { return s.active }

// EndZ returns the world position of the segment end.
func (s *Segment) EndZ() float64 {
	return s.Z + float64(s.Length)
}

// ObstacleSpawners returns the segment's obstacle spawners.
func (s *Segment) ObstacleSpawners() []*ObstacleSpawner { return s.obstacles }

// CoinSpawners returns the segment's coin spawners.
func (s *Segment) CoinSpawners() []*CoinSpawner { return s.coins }

func (s *Segment) moveTo(z, laneDistance float64) {
	dz := z - s.Z
	s.Z = z
	for _, o := range s.obstacles {
		o.origin = core.V3(LaneX(o.placement.Lane, laneDistance), 0, z+o.placement.Z)
	}
	for _, c := range s.coins {
		for _, coin := range c.coins {
			coin.Pos.Z += dz
		}
	}
}

// spawn places every child obstacle and rolls every coin spawner.
func (s *Segment) spawn(pool *ObstaclePool, catalog *Catalog, laneDistance float64, rng *rand.Rand) {
	s.active = true
	for _, o := range s.obstacles {
		o.Spawn(pool, catalog, laneDistance, rng)
	}
	for _, c := range s.coins {
		c.Spawn(rng)
	}
}

// despawn returns child obstacles to the pool and hides the coins.
func (s *Segment) despawn(pool *ObstaclePool) {
	for _, o := range s.obstacles {
		o.Despawn(pool)
	}
	for _, c := range s.coins {
		c.Despawn()
	}
	s.active = false
}
