package tui

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/pingu-runner/internal/config"
	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/game"
	"github.com/vovakirdan/pingu-runner/internal/gesture"
	"github.com/vovakirdan/pingu-runner/internal/session"
	"github.com/vovakirdan/pingu-runner/internal/storage"
)

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestMapKey(t *testing.T) {
	km := NewKeyMapper()

	tests := []struct {
		name string
		msg  tea.KeyMsg
		want core.Gestures
		cmd  Command
	}{
		{"space taps", tea.KeyMsg{Type: tea.KeySpace}, core.Gestures{Tap: true}, CommandNone},
		{"enter taps", tea.KeyMsg{Type: tea.KeyEnter}, core.Gestures{Tap: true}, CommandNone},
		{"left arrow", tea.KeyMsg{Type: tea.KeyLeft}, core.Gestures{SwipeLeft: true}, CommandNone},
		{"d key", runeKey('d'), core.Gestures{SwipeRight: true}, CommandNone},
		{"up arrow", tea.KeyMsg{Type: tea.KeyUp}, core.Gestures{SwipeUp: true}, CommandNone},
		{"s key", runeKey('s'), core.Gestures{SwipeDown: true}, CommandNone},
		{"quit", runeKey('q'), core.Gestures{}, CommandQuit},
		{"ctrl+c", tea.KeyMsg{Type: tea.KeyCtrlC}, core.Gestures{}, CommandQuit},
		{"retry", runeKey('r'), core.Gestures{}, CommandRetry},
		{"menu", tea.KeyMsg{Type: tea.KeyEsc}, core.Gestures{}, CommandMenu},
		{"scores", tea.KeyMsg{Type: tea.KeyTab}, core.Gestures{}, CommandScores},
		{"next skin", runeKey(']'), core.Gestures{}, CommandNextSkin},
		{"claim", runeKey('c'), core.Gestures{}, CommandClaim},
		{"unbound", runeKey('z'), core.Gestures{}, CommandNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, cmd := km.MapKey(tt.msg)
			if got != tt.want {
				t.Errorf("MapKey(%q) gestures = %v, expected %v", tt.msg.String(), got, tt.want)
			}
			if cmd != tt.cmd {
				t.Errorf("MapKey(%q) command = %v, expected %v", tt.msg.String(), cmd, tt.cmd)
			}
		})
	}
}

func TestMouseDragSwipes(t *testing.T) {
	km := NewKeyMapper()
	r := gesture.NewRecognizer(config.DefaultRunnerConfig().Input.MinSwipeThreshold)

	feed := func(msg tea.MouseMsg) core.Gestures {
		s, ok := km.MapMouse(msg)
		if !ok {
			return core.Gestures{}
		}
		return r.Update(s)
	}

	press := tea.MouseMsg{X: 10, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft}
	if g := feed(press); !g.Tap {
		t.Errorf("press should tap, got %v", g)
	}

	// Dragging up the terminal (smaller row) is a swipe up.
	drag := tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	if g := feed(drag); !g.SwipeUp {
		t.Errorf("upward drag should swipe up, got %v", g)
	}

	feed(tea.MouseMsg{X: 10, Y: 5, Action: tea.MouseActionRelease})
	feed(press)
	left := tea.MouseMsg{X: 4, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft}
	if g := feed(left); !g.SwipeLeft {
		t.Errorf("leftward drag should swipe left, got %v", g)
	}

	if _, ok := km.MapMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonRight}); ok {
		t.Error("right button should be ignored")
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	store := storage.NewMemory("tester")
	e, err := game.New(game.Options{
		Config: config.DefaultRunnerConfig(),
		Store:  store,
		Seed:   42,
		Logger: log.New(io.Discard),
	})
	if err != nil {
		t.Fatalf("game.New() failed: %v", err)
	}
	return NewModel(Options{
		Engine:   e,
		Username: "tester",
		Runtime:  core.RuntimeConfig{ScreenW: 60, ScreenH: 24, TickRate: 60},
	})
}

func TestModelSwipeThresholdFromConfig(t *testing.T) {
	tests := []struct {
		name      string
		threshold float64
		drag      int
		wantSwipe bool
	}{
		{"default threshold", 3, 4, true},
		{"drag at threshold", 3, 3, false},
		{"raised threshold", 8, 4, false},
		{"raised threshold passed", 8, 9, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultRunnerConfig()
			cfg.Input.MinSwipeThreshold = tt.threshold
			e, err := game.New(game.Options{
				Config: cfg,
				Store:  storage.NewMemory("tester"),
				Seed:   42,
				Logger: log.New(io.Discard),
			})
			if err != nil {
				t.Fatalf("game.New() failed: %v", err)
			}
			m := NewModel(Options{
				Engine:  e,
				Runtime: core.RuntimeConfig{ScreenW: 60, ScreenH: 24, TickRate: 60},
			})

			press, _ := m.keys.MapMouse(tea.MouseMsg{X: 20, Y: 10, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
			m.pointer.Update(press)
			drag, _ := m.keys.MapMouse(tea.MouseMsg{X: 20 + tt.drag, Y: 10, Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft})
			g := m.pointer.Update(drag)
			if g.SwipeRight != tt.wantSwipe {
				t.Errorf("drag of %d cells: SwipeRight = %v, expected %v", tt.drag, g.SwipeRight, tt.wantSwipe)
			}
		})
	}
}

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T", next)
	}
	return nm
}

func TestModelStartsRun(t *testing.T) {
	m := newTestModel(t)
	s := m.engine.Session()

	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace})
	if s.State() != session.StateIdle {
		t.Fatalf("space in main menu should leave it, state %v", s.State())
	}
	m = step(t, m, TickMsg{})
	if s.State() != session.StateIdle {
		t.Fatalf("the menu tap should not start the run, state %v", s.State())
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace})
	m = step(t, m, TickMsg{})
	if s.State() != session.StatePlaying {
		t.Fatalf("second tap should start the run, state %v", s.State())
	}

	m = step(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m = step(t, m, TickMsg{})
	if lane := m.engine.Player().Lane(); lane != 0 {
		t.Errorf("lane after left = %d, expected 0", lane)
	}

	if m.View() == "" {
		t.Error("empty view while playing")
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	next, cmd := m.Update(runeKey('q'))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if next.(Model).View() != "" {
		t.Error("view should be empty after quit")
	}
}
