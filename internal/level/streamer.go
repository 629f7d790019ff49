package level

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pingu-runner/internal/config"
	"github.com/vovakirdan/pingu-runner/internal/core"
)

// Placement is emitted every time a segment is placed at the frontier.
type Placement struct {
	Segment  *Segment
	PrevExit Key // exit key the segment connected to
	Reused   bool
}

// Options configures a Streamer.
type Options struct {
	Level        config.LevelConfig
	LaneDistance float64
	Seed         int64
	Pickups      *Pickups
	Logger       *log.Logger
}

// Streamer keeps a bounded window of segments ahead of a reference point.
//
// Placed segments form a FIFO; the oldest placement is the first despawned.
// Every segment ever built stays in the recycle list, most recently used
// first, and inactive entries are reused before a new one is built.
type Streamer struct {
	cfg          config.LevelConfig
	laneDistance float64
	catalog      *Catalog
	pool         *ObstaclePool
	pickups      *Pickups
	logger       *log.Logger

	rng     *rand.Rand
	seed    int64
	recycle []*Segment
	active  []*Segment
	coinIDs int

	frontier          float64
	exit              Key
	continuous        int
	pendingTransition bool
	placed            int

	placements core.Observers[Placement]
}

// NewStreamer validates the catalog and builds an empty streamer.
// Call Start to place the initial segments.
func NewStreamer(catalog *Catalog, opts Options) (*Streamer, error) {
	if err := catalog.Validate(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Streamer{
		cfg:          opts.Level,
		laneDistance: opts.LaneDistance,
		catalog:      catalog,
		pool:         NewObstaclePool(),
		pickups:      opts.Pickups,
		logger:       logger,
		rng:          rand.New(rand.NewSource(opts.Seed)),
		seed:         opts.Seed,
		exit:         catalog.Start,
	}, nil
}

// OnPlacement registers a placement observer.
func (s *Streamer) OnPlacement(fn func(Placement)) {
	s.placements.Subscribe(fn)
}

// Start places the initial segments. The first InitialTransitionSegments
// placements come from the transition catalog when it is non-empty.
func (s *Streamer) Start() error {
	for i := 0; i < s.cfg.InitialSegments; i++ {
		var err error
		if i < s.cfg.InitialTransitionSegments && len(s.catalog.Transitions) > 0 {
			err = s.place(true)
		} else {
			err = s.Generate()
		}
		if err != nil {
			return err
		}
		s.enforceBound()
	}
	s.logger.Debug("initial segments placed", "active", len(s.active), "frontier", s.frontier)
	return nil
}

// Tick generates one segment when the frontier is within
// DistanceBeforeSpawn of refZ, then despawns the oldest segment if the
// active window is full.
func (s *Streamer) Tick(refZ float64) error {
	if s.frontier-refZ < s.cfg.DistanceBeforeSpawn {
		if err := s.Generate(); err != nil {
			return err
		}
	}
	s.enforceBound()
	return nil
}

// Generate performs one generation step. A transition chosen by the previous
// step's roll is placed now; otherwise a regular segment is placed and the
// transition roll is made for the next step.
func (s *Streamer) Generate() error {
	if s.pendingTransition && len(s.catalog.Transitions) > 0 {
		s.pendingTransition = false
		return s.place(true)
	}
	s.pendingTransition = false
	if err := s.place(false); err != nil {
		return err
	}
	if len(s.catalog.Transitions) == 0 {
		return nil
	}
	if s.rng.Float64() < float64(s.continuous)*s.cfg.TransitionChanceStep {
		s.continuous = 0
		s.pendingTransition = true
	} else {
		s.continuous++
	}
	return nil
}

// Reset despawns everything, reseeds and places the initial segments again.
// Built segments and pooled obstacles are kept for reuse.
func (s *Streamer) Reset(seed int64) error {
	for _, seg := range s.active {
		seg.despawn(s.pool)
	}
	s.active = s.active[:0]
	s.pool.Clear()
	s.rng = rand.New(rand.NewSource(seed))
	s.seed = seed
	s.frontier = 0
	s.exit = s.catalog.Start
	s.continuous = 0
	s.pendingTransition = false
	s.placed = 0
	return s.Start()
}

func (s *Streamer) place(transition bool) error {
	candidates := s.catalog.Matching(s.exit, transition)
	if len(candidates) == 0 {
		kind := "segment"
		if transition {
			kind = "transition"
		}
		return fmt.Errorf("level: no %s after exit key %s: %w", kind, s.exit, ErrNoMatchingSegment)
	}
	t := candidates[s.rng.Intn(len(candidates))]

	seg, reused := s.acquire(t)
	seg.moveTo(s.frontier, s.laneDistance)
	seg.spawn(s.pool, s.catalog, s.laneDistance, s.rng)

	prev := s.exit
	s.active = append(s.active, seg)
	s.frontier += float64(t.Length)
	s.exit = t.End
	s.placed++

	s.placements.Emit(Placement{Segment: seg, PrevExit: prev, Reused: reused})
	return nil
}

// acquire returns an inactive instance of the template, moving it to the
// front of the recycle list, or builds a new one there.
func (s *Streamer) acquire(t Template) (*Segment, bool) {
	for i, seg := range s.recycle {
		if seg.active || !seg.Matches(t.ID, t.IsTransition) {
			continue
		}
		copy(s.recycle[1:i+1], s.recycle[:i])
		s.recycle[0] = seg
		return seg, true
	}
	seg := newSegment(t, s.frontier, s.laneDistance, &s.coinIDs, s.pickups)
	s.recycle = append([]*Segment{seg}, s.recycle...)
	return seg, false
}

// enforceBound despawns the oldest active segment once the window is full.
func (s *Streamer) enforceBound() {
	if len(s.active) < s.cfg.MaxSegmentsOnScreen || len(s.active) == 0 {
		return
	}
	head := s.active[0]
	head.despawn(s.pool)
	s.active = s.active[1:]
}

// Active returns the placed segments, oldest first.
func (s *Streamer) Active() []*Segment {
	return s.active
}

// ActiveCount returns the number of placed segments.
func (s *Streamer) ActiveCount() int {
	return len(s.active)
}

// RecycleList returns every segment ever built, most recently used first.
func (s *Streamer) RecycleList() []*Segment {
	return s.recycle
}

// Frontier returns the world Z where the next segment will be placed.
func (s *Streamer) Frontier() float64 { return s.frontier }

// ExitKey returns the end key of the most recently placed segment.
func (s *Streamer) ExitKey() Key { return s.exit }

// ContinuousSegments returns regular placements since the last transition roll succeeded.
func (s *Streamer) ContinuousSegments() int { return s.continuous }

// Placed returns the number of placements since the last reset.
func (s *Streamer) Placed() int { return s.placed }

// Seed returns the seed of the current layout.
func (s *Streamer) Seed() int64 { return s.seed }

// Pool returns the obstacle pool.
func (s *Streamer) Pool() *ObstaclePool { return s.pool }

// Catalog returns the validated catalog.
func (s *Streamer) Catalog() *Catalog { return s.catalog }

// LaneDistance returns the lateral distance between lane centres.
func (s *Streamer) LaneDistance() float64 { return s.laneDistance }
