// Package session owns the run lifecycle: menu, idle, playing and game over,
// along with the score, the collected coins and the difficulty clock.
package session

import (
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pingu-runner/internal/config"
	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/profile"
	"github.com/vovakirdan/pingu-runner/internal/sched"
)

const retryKind = "session:retry"

// GameState is the top-level run state.
type GameState int

const (
	StateMainMenu GameState = iota
	StateIdle
	StatePlaying
	StateGameOver
)

func (s GameState) String() string {
	switch s {
	case StateMainMenu:
		return "main_menu"
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// Runner is the player-side collaborator of a session.
type Runner interface {
	Idle()
	Run()
	TeleportToStart()
}

// Session drives one player's runs.
type Session struct {
	cfg     config.SessionConfig
	clock   *config.DifficultyClock
	sched   *sched.Scheduler
	profile *profile.Profile
	runner  Runner
	logger  *log.Logger

	state           GameState
	score           float64
	coins           int
	preRunHighscore int
	seed            int64
	runs            int

	events core.Observers[Event]
}

// Options configures a Session.
type Options struct {
	Config     config.SessionConfig
	Difficulty config.DifficultyConfig
	Scheduler  *sched.Scheduler
	Profile    *profile.Profile
	Runner     Runner
	Logger     *log.Logger
}

// New creates a session in the main menu.
func New(opts Options) *Session {
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Session{
		cfg:     opts.Config,
		clock:   config.NewDifficultyClock(opts.Difficulty),
		sched:   opts.Scheduler,
		profile: opts.Profile,
		runner:  opts.Runner,
		logger:  logger,
		state:   StateMainMenu,
	}
}

// Subscribe registers an event observer.
func (s *Session) Subscribe(fn func(Event)) {
	s.events.Subscribe(fn)
}

// SetSeed records the layout seed stored with finished runs.
func (s *Session) SetSeed(seed int64) {
	s.seed = seed
}

// LeaveMainMenu moves from the main menu to Idle.
func (s *Session) LeaveMainMenu() {
	if s.state == StateMainMenu {
		s.Idle()
	}
}

// GoToMainMenu returns to the main menu from any state.
func (s *Session) GoToMainMenu() {
	s.sched.Cancel(retryKind)
	s.resetRun()
	s.runner.TeleportToStart()
	s.runner.Idle()
	s.setState(StateMainMenu)
}

// Idle resets the run and waits for the first tap.
func (s *Session) Idle() {
	s.sched.Cancel(retryKind)
	s.resetRun()
	s.runner.TeleportToStart()
	s.runner.Idle()
	s.setState(StateIdle)
}

// StartRunning begins a run from Idle.
func (s *Session) StartRunning() bool {
	if s.state != StateIdle {
		return false
	}
	s.preRunHighscore = s.profile.Highscore()
	s.resetRun()
	s.runs++
	s.runner.Run()
	s.setState(StatePlaying)
	s.logger.Debug("run started", "run", s.runs, "highscore", s.preRunHighscore)
	return true
}

// Retry leaves game over for a fresh Idle state.
func (s *Session) Retry() bool {
	if s.state != StateGameOver {
		return false
	}
	s.Idle()
	return true
}

// GameOver ends the run, persists the result and schedules the
// automatic retry. It does nothing unless a run is in progress, so it is
// safe to call once per crash contact.
func (s *Session) GameOver() bool {
	if s.state != StatePlaying {
		return false
	}
	s.setState(StateGameOver)

	final := s.Score()
	rec := profile.RunRecord{
		Score:      final,
		Coins:      s.coins,
		Difficulty: s.clock.Modifier(),
		Duration:   s.clock.Elapsed(),
		Seed:       s.seed,
	}
	newHigh, err := s.profile.RecordRun(rec)
	if err != nil {
		s.logger.Warn("could not save run", "err", err)
		s.events.Emit(Event{Kind: EventWarning, State: s.state, Err: err})
	}

	s.logger.Info("run over", "score", final, "coins", s.coins,
		"modifier", s.clock.Modifier(), "highscore", newHigh)
	s.events.Emit(Event{
		Kind:         EventRunOver,
		State:        s.state,
		Score:        final,
		Coins:        s.coins,
		NewHighscore: newHigh,
	})

	if s.cfg.RetryDelay > 0 {
		s.sched.Schedule(retryKind, s.cfg.RetryDelay, func() { s.Retry() })
	}
	return true
}

// Tick advances the session by dt. A tap in Idle starts the run; while
// playing, the difficulty clock runs and the score grows by dt times the
// modifier.
func (s *Session) Tick(dt float64, g core.Gestures) {
	switch s.state {
	case StateIdle:
		if g.Tap {
			s.StartRunning()
		}
	case StatePlaying:
		m := s.clock.Advance(dt)
		if dt > 0 {
			s.score += dt * m
		}
	}
}

// AddScore adds to the raw score, clamped at zero.
func (s *Session) AddScore(amount float64) {
	s.score = math.Max(0, s.score+amount)
}

// AddCoins adds collected coins, clamped at zero. Only counts while playing.
func (s *Session) AddCoins(n int) {
	if s.state != StatePlaying {
		return
	}
	s.coins = max(0, s.coins+n)
	s.events.Emit(Event{Kind: EventCoins, State: s.state, Coins: s.coins})
}

func (s *Session) resetRun() {
	s.score = 0
	s.coins = 0
	s.clock.Reset()
}

func (s *Session) setState(next GameState) {
	prev := s.state
	s.state = next
	s.events.Emit(Event{Kind: EventStateChanged, State: next, Prev: prev})
}

func (s *Session) State() GameState { return s.state }

// Score returns the rounded score.
func (s *Session) Score() int { return int(math.Round(s.score)) }

// RawScore returns the unrounded score.
func (s *Session) RawScore() float64 { return s.score }

func (s *Session) Coins() int                  { return s.coins }
func (s *Session) DifficultyModifier() float64 { return s.clock.Modifier() }
func (s *Session) Elapsed() float64            { return s.clock.Elapsed() }
func (s *Session) PreRunHighscore() int        { return s.preRunHighscore }
func (s *Session) Runs() int                   { return s.runs }
func (s *Session) Profile() *profile.Profile   { return s.profile }
