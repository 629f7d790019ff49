package game

import (
	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/level"
	"github.com/vovakirdan/pingu-runner/internal/player"
	"github.com/vovakirdan/pingu-runner/internal/session"
)

// Snapshot captures the observable world state for presentation,
// determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Seed      int64
	State     session.GameState
	Score     int
	Coins     int
	Modifier  float64
	Highscore int

	Lane     int
	Position core.Vec3
	Movement player.Movement
	Player   player.State
	Grounded bool

	Frontier       float64
	ActiveSegments int
	ExitKey        level.Key
	Obstacles      int // active pooled obstacles
	PoolSize       int
}

// Snapshot returns the current world snapshot.
func (e *Engine) Snapshot() Snapshot {
	return Snapshot{
		Tick:      e.tick,
		Seed:      e.seed,
		State:     e.session.State(),
		Score:     e.session.Score(),
		Coins:     e.session.Coins(),
		Modifier:  e.session.DifficultyModifier(),
		Highscore: e.profile.Highscore(),

		Lane:     e.player.Lane(),
		Position: e.player.Position(),
		Movement: e.player.Movement(),
		Player:   e.player.State(),
		Grounded: e.player.Grounded(),

		Frontier:       e.streamer.Frontier(),
		ActiveSegments: e.streamer.ActiveCount(),
		ExitKey:        e.streamer.ExitKey(),
		Obstacles:      e.streamer.Pool().ActiveCount(),
		PoolSize:       e.streamer.Pool().Size(),
	}
}
