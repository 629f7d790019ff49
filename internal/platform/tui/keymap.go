package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/gesture"
)

// Command is a UI request that is not a gesture.
type Command int

const (
	CommandNone Command = iota
	CommandQuit
	CommandRetry
	CommandMenu
	CommandNextSkin
	CommandPrevSkin
	CommandClaim
	CommandScores
	CommandScreenshot
)

// KeyMapper translates Bubble Tea key messages to gestures and commands.
// This centralizes key bindings and makes them testable.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// MapKey translates a key message. Space and enter tap; arrows and WASD swipe.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (core.Gestures, Command) {
	var g core.Gestures

	switch msg.String() {
	case "ctrl+c", "q":
		return g, CommandQuit
	case "ctrl+s":
		return g, CommandScreenshot
	case "r":
		return g, CommandRetry
	case "esc", "b":
		return g, CommandMenu
	case "tab":
		return g, CommandScores
	case "]":
		return g, CommandNextSkin
	case "[":
		return g, CommandPrevSkin
	case "c":
		return g, CommandClaim

	case " ", "enter":
		g.Tap = true
	case "left", "a", "h":
		g.SwipeLeft = true
	case "right", "d", "l":
		g.SwipeRight = true
	case "up", "w", "k":
		g.SwipeUp = true
	case "down", "s", "j":
		g.SwipeDown = true
	}
	return g, CommandNone
}

// MapMouse converts a mouse event to a pointer sample. Terminal rows grow
// downward, so the row is negated to make an upward drag a swipe up.
// Only the left button is tracked.
func (km *KeyMapper) MapMouse(msg tea.MouseMsg) (gesture.Sample, bool) {
	s := gesture.Sample{Pos: core.Vec2{X: float64(msg.X), Y: -float64(msg.Y)}}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return s, false
		}
		s.Pressed = true
		s.Held = true
	case tea.MouseActionMotion:
		if msg.Button != tea.MouseButtonLeft {
			return s, false
		}
		s.Held = true
	case tea.MouseActionRelease:
		s.Released = true
	default:
		return s, false
	}
	return s, true
}
