package game

import (
	"fmt"
	"math"

	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/level"
	"github.com/vovakirdan/pingu-runner/internal/player"
	"github.com/vovakirdan/pingu-runner/internal/session"
)

// Render characters.
const (
	LaneEdgeChar  = '│'
	CoinChar      = 'o'
	PlayerChar    = '@'
	SlideChar     = 'v'
	AirborneChar  = 'O'
	CrashChar     = 'X'
	RampChar      = '^'
	LongblockChar = '█'
	JumpChar      = '='
	SlideBarChar  = '≡'
)

// Track view geometry.
const (
	laneCols      = 9   // columns per lane
	metersPerRow  = 1.0 // track depth shown by one row
	rowsBehind    = 3   // rows drawn behind the player
	minViewHeight = 8
)

// Render draws a top-down view of the track ahead of the player.
func (e *Engine) Render(dst *core.Screen) {
	dst.Clear()

	v := e.view(dst)
	if v.playerRow >= 1 {
		e.drawLanes(dst, v)
		e.drawObstacles(dst, v)
		e.drawCoins(dst, v)
		e.drawPlayer(dst, v)
	}
	e.drawHUD(dst)

	switch e.session.State() {
	case session.StateMainMenu:
		drawCenteredMessage(dst, "PINGU RUNNER", "Press Space to start  |  Q to quit")
	case session.StateIdle:
		drawCenteredMessage(dst, "READY", "Tap or press Space to run")
	case session.StateGameOver:
		drawCenteredMessage(dst, "GAME OVER",
			fmt.Sprintf("Score: %d  |  R to retry", e.session.Score()))
	}
}

type view struct {
	left      int // first column of the track
	center    int // column of the centre lane
	top       int
	bottom    int
	playerRow int
	playerZ   float64
	colsPerM  float64
}

func (e *Engine) view(dst *core.Screen) view {
	width := level.Lanes*laneCols + level.Lanes + 1
	left := (dst.Width() - width) / 2
	v := view{
		left:     left,
		center:   left + width/2,
		top:      1,
		bottom:   dst.Height() - 1,
		playerZ:  e.player.Position().Z,
		colsPerM: float64(laneCols+1) / e.cfg.Player.LaneDistance,
	}
	if dst.Height() < minViewHeight {
		v.playerRow = -1
		return v
	}
	v.playerRow = v.bottom - 1 - rowsBehind
	return v
}

// row maps a track position to a screen row.
func (v view) row(z float64) int {
	return v.playerRow - int(math.Floor((z-v.playerZ)/metersPerRow))
}

// col maps a lateral position to a screen column.
func (v view) col(x float64) int {
	return v.center + int(math.Round(x*v.colsPerM))
}

func (v view) visible(y int) bool {
	return y >= v.top && y < v.bottom
}

func (e *Engine) drawLanes(dst *core.Screen, v view) {
	for i := 0; i <= level.Lanes; i++ {
		x := v.left + i*(laneCols+1)
		dst.DrawVLine(x, v.top, v.bottom-v.top, LaneEdgeChar, core.ColorGray)
	}
}

func (e *Engine) drawObstacles(dst *core.Screen, v view) {
	e.track.Obstacles(func(o *level.Obstacle) {
		glyph, color := obstacleGlyph(o.Type)
		x0, x1 := v.col(o.Box.Min.X)+1, v.col(o.Box.Max.X)-1
		for z := o.Box.Min.Z; z < o.Box.Max.Z; z += metersPerRow {
			y := v.row(z)
			if !v.visible(y) {
				continue
			}
			for x := x0; x <= x1; x++ {
				dst.SetColored(x, y, glyph, color)
			}
		}
	})
}

func obstacleGlyph(t level.ObstacleType) (rune, core.Color) {
	switch t {
	case level.Ramp:
		return RampChar, core.ColorOrange
	case level.Longblock:
		return LongblockChar, core.ColorBlue
	case level.Jump:
		return JumpChar, core.ColorRed
	case level.Slide:
		return SlideBarChar, core.ColorMagenta
	default:
		return '?', core.ColorDefault
	}
}

func (e *Engine) drawCoins(dst *core.Screen, v view) {
	e.track.Coins(func(c *level.Coin) {
		y := v.row(c.Pos.Z)
		if !v.visible(y) {
			return
		}
		color := core.ColorYellow
		if !c.CanPickUp() {
			color = core.ColorGray
		}
		dst.SetColored(v.col(c.Pos.X), y, CoinChar, color)
	})
}

func (e *Engine) drawPlayer(dst *core.Screen, v view) {
	glyph := PlayerChar
	switch {
	case e.player.State() == player.StateDead:
		glyph = CrashChar
	case e.player.Movement() == player.MoveSliding:
		glyph = SlideChar
	case e.player.Movement() == player.MoveAirborne:
		glyph = AirborneChar
	}
	dst.SetColored(v.col(e.player.Position().X), v.playerRow, glyph, core.ColorCyan)
}

func (e *Engine) drawHUD(dst *core.Screen) {
	score := fmt.Sprintf(" Score: %d  Coins: %d ", e.session.Score(), e.session.Coins())
	dst.DrawText(2, 0, score)

	best := fmt.Sprintf(" Best: %d  x%.1f ", e.profile.Highscore(), e.session.DifficultyModifier())
	dst.DrawText(dst.Width()-len(best)-2, 0, best)

	status := fmt.Sprintf(" %s  %s  h=%.1f ", e.profile.Skin().Name, e.player.Movement(), e.player.Position().Y)
	dst.DrawTextColored(2, dst.Height()-1, status, core.ColorGray)
}

func drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	y := dst.Height() / 3
	dst.DrawTextCentered(y, " "+title+" ")
	dst.DrawTextCentered(y+2, " "+subtitle+" ")
}
