// Package game wires the runner together: the deferred action scheduler,
// the segment streamer and its track, the player and the run session. It
// advances them in a fixed order once per tick.
package game

import (
	"fmt"
	"math/rand"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pingu-runner/internal/config"
	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/level"
	"github.com/vovakirdan/pingu-runner/internal/player"
	"github.com/vovakirdan/pingu-runner/internal/profile"
	"github.com/vovakirdan/pingu-runner/internal/sched"
	"github.com/vovakirdan/pingu-runner/internal/session"
)

// Options configures an Engine.
type Options struct {
	Config  config.RunnerConfig
	Catalog *level.Catalog // nil loads the catalog named by Config.Level
	Store   profile.Store
	Seed    int64
	Logger  *log.Logger
}

// Engine is one player's runner world.
type Engine struct {
	cfg    config.RunnerConfig
	logger *log.Logger

	sched    *sched.Scheduler
	streamer *level.Streamer
	track    *level.Track
	player   *player.Locomotion
	session  *session.Session
	profile  *profile.Profile

	seeds   *rand.Rand
	seed    int64
	tick    uint64
	crashes int
	err     error
}

// New builds an engine and places the initial segments. The session starts
// in the main menu.
func New(opts Options) (*Engine, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	catalog := opts.Catalog
	if catalog == nil {
		data, err := config.LoadCatalogData(opts.Config.Level.CatalogPath)
		if err != nil {
			return nil, err
		}
		if catalog, err = level.ParseCatalog(data); err != nil {
			return nil, err
		}
	}

	prof, err := profile.Load(opts.Store, opts.Config.Profile)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:     opts.Config,
		logger:  logger,
		sched:   sched.New(),
		profile: prof,
		seeds:   rand.New(rand.NewSource(opts.Seed)),
		seed:    opts.Seed,
	}

	pickups := &level.Pickups{
		Sched:     e.sched,
		HideDelay: opts.Config.Session.PickupHideDelay,
		Value:     opts.Config.Session.CoinValue,
	}
	e.streamer, err = level.NewStreamer(catalog, level.Options{
		Level:        opts.Config.Level,
		LaneDistance: opts.Config.Player.LaneDistance,
		Seed:         opts.Seed,
		Pickups:      pickups,
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	e.track = level.NewTrack(e.streamer, opts.Config.Player.StepHeight)
	e.player = player.New(opts.Config.Player, e.sched, e.track)

	e.session = session.New(session.Options{
		Config:     opts.Config.Session,
		Difficulty: opts.Config.Difficulty,
		Scheduler:  e.sched,
		Profile:    prof,
		Runner:     e.player,
		Logger:     logger,
	})
	e.session.SetSeed(opts.Seed)
	e.session.Subscribe(e.onSessionEvent)
	pickups.Sink = e.session

	if err := e.streamer.Start(); err != nil {
		return nil, fmt.Errorf("game: %w", err)
	}
	return e, nil
}

// Tick advances the world by dt seconds: deferred actions, the player,
// collision resolution, streaming, then session bookkeeping. Streaming is
// paused while the run is over. A streaming failure, including one from a
// track rebuild, is kept in Err and returned by every later Tick.
func (e *Engine) Tick(dt float64, g core.Gestures) error {
	e.tick++
	e.sched.Advance(dt)

	e.player.Tick(dt, g, e.session.DifficultyModifier())
	e.resolveContacts()

	if e.session.State() != session.StateGameOver {
		ref := e.player.Position().Z - e.cfg.Level.CameraOffset
		if err := e.streamer.Tick(ref); err != nil {
			e.fail(err)
			return err
		}
	}

	e.session.Tick(dt, g)
	return e.err
}

func (e *Engine) resolveContacts() {
	if e.player.Movement() == player.MoveIdle {
		return
	}
	box := e.player.Box()

	if len(e.track.ObstacleContacts(box)) > 0 && e.player.OnObstacleContact() {
		e.crashes++
		e.session.GameOver()
		return
	}
	for _, c := range e.track.PickupContacts(box) {
		e.player.OnPickupContact(c)
	}
}

// onSessionEvent rebuilds the track when a finished or abandoned run goes
// back to Idle or the menu.
func (e *Engine) onSessionEvent(ev session.Event) {
	if ev.Kind != session.EventStateChanged {
		return
	}
	if ev.State != session.StateIdle && ev.State != session.StateMainMenu {
		return
	}
	if ev.Prev != session.StatePlaying && ev.Prev != session.StateGameOver {
		return
	}

	e.seed = e.seeds.Int63()
	if err := e.streamer.Reset(e.seed); err != nil {
		e.fail(err)
		return
	}
	e.session.SetSeed(e.seed)
	e.logger.Debug("track rebuilt", "seed", e.seed)
}

func (e *Engine) fail(err error) {
	if e.err == nil {
		e.logger.Error("streaming stopped", "err", err)
	}
	e.err = err
}

// Start leaves the main menu and starts a run, as a tap would.
func (e *Engine) Start() {
	e.session.LeaveMainMenu()
	e.session.StartRunning()
}

func (e *Engine) Err() error                  { return e.err }
func (e *Engine) Seed() int64                 { return e.seed }
func (e *Engine) Ticks() uint64               { return e.tick }
func (e *Engine) Crashes() int                { return e.crashes }
func (e *Engine) Config() config.RunnerConfig { return e.cfg }
func (e *Engine) Scheduler() *sched.Scheduler { return e.sched }
func (e *Engine) Streamer() *level.Streamer   { return e.streamer }
func (e *Engine) Track() *level.Track         { return e.track }
func (e *Engine) Player() *player.Locomotion  { return e.player }
func (e *Engine) Session() *session.Session   { return e.session }
func (e *Engine) Profile() *profile.Profile   { return e.profile }
