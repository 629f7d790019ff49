package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/game"
	"github.com/vovakirdan/pingu-runner/internal/gesture"
	"github.com/vovakirdan/pingu-runner/internal/profile"
	"github.com/vovakirdan/pingu-runner/internal/session"
)

// noticeDuration is how long a status message stays on screen.
const noticeDuration = 3 * time.Second

// notices holds the status line shared between the model and event observers.
type notices struct {
	text  string
	until time.Time
}

func (n *notices) set(format string, args ...any) {
	n.text = fmt.Sprintf(format, args...)
	n.until = time.Now().Add(noticeDuration)
}

func (n *notices) current() string {
	if time.Now().After(n.until) {
		return ""
	}
	return n.text
}

// Options configures a Model.
type Options struct {
	Engine   *game.Engine
	Runs     RunSource // nil disables the run history screen
	Username string
	Runtime  core.RuntimeConfig
}

// Model is the Bubble Tea model that plays the runner.
type Model struct {
	engine   *game.Engine
	screen   *core.Screen
	runs     RunSource
	username string
	runtime  core.RuntimeConfig
	keys     *KeyMapper
	pointer  *gesture.Recognizer
	pending  core.Gestures
	scores   *ScoreboardModel
	notes    *notices
	err      error
	quitting bool
}

// NewModel creates a model around an engine.
func NewModel(opts Options) Model {
	m := Model{
		engine:   opts.Engine,
		screen:   core.NewScreen(opts.Runtime.ScreenW, opts.Runtime.ScreenH),
		runs:     opts.Runs,
		username: opts.Username,
		runtime:  opts.Runtime,
		keys:     NewKeyMapper(),
		pointer:  gesture.NewRecognizer(opts.Engine.Config().Input.MinSwipeThreshold),
		notes:    &notices{},
	}

	notes := m.notes
	m.engine.Session().Subscribe(func(ev session.Event) {
		switch ev.Kind {
		case session.EventWarning:
			notes.set("Could not save: %v", ev.Err)
		case session.EventRunOver:
			if ev.NewHighscore {
				notes.set("New highscore: %d", ev.Score)
			}
		}
	})
	return m
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.runtime.TickInterval())
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.scores != nil {
		return m.updateScores(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		if s, ok := m.keys.MapMouse(msg); ok {
			m.pending = m.pending.Merge(m.pointer.Update(s))
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.runtime.ScreenW = msg.Width
		m.runtime.ScreenH = msg.Height
		m.screen.Resize(msg.Width, msg.Height)
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	g, cmd := m.keys.MapKey(msg)
	s := m.engine.Session()
	p := m.engine.Profile()

	switch cmd {
	case CommandQuit:
		m.quitting = true
		return m, tea.Quit
	case CommandScreenshot:
		m.saveScreenshot()
	case CommandRetry:
		s.Retry()
	case CommandMenu:
		if s.State() != session.StateMainMenu {
			s.GoToMainMenu()
		}
	case CommandNextSkin, CommandPrevSkin:
		if s.State() == session.StatePlaying {
			break
		}
		var err error
		if cmd == CommandNextSkin {
			err = p.NextSkin()
		} else {
			err = p.PreviousSkin()
		}
		if err != nil {
			m.notes.set("Skin not saved: %v", err)
		} else {
			m.notes.set("Skin: %s", p.Skin().Name)
		}
	case CommandClaim:
		m.claimReward(p)
	case CommandScores:
		if m.runs != nil && s.State() != session.StatePlaying {
			sb := NewScoreboardModel(m.runs, m.username, m.runtime.ScreenW, m.runtime.ScreenH)
			m.scores = &sb
		}
	}

	// A tap in the main menu only leaves it; the next tap starts the run.
	if g.Tap && s.State() == session.StateMainMenu {
		s.LeaveMainMenu()
		g.Tap = false
	}
	m.pending = m.pending.Merge(g)
	return m, nil
}

func (m Model) claimReward(p *profile.Profile) {
	reward, err := p.ClaimDailyReward(time.Now())
	switch {
	case errors.Is(err, profile.ErrAlreadyClaimed):
		m.notes.set("Daily reward already claimed")
	case err != nil:
		m.notes.set("Reward not saved: %v", err)
	case reward > 0:
		m.notes.set("Daily reward: +%d coins", reward)
	}
}

// handleTick advances the simulation with the gestures gathered since the
// last tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if err := m.engine.Tick(m.runtime.TickDelta(), m.pending); err != nil {
		m.err = err
		m.quitting = true
		return m, tea.Quit
	}
	m.pending = core.Gestures{}
	return m, tickCmd(m.runtime.TickInterval())
}

func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(TickMsg); ok {
		// The world is paused behind the table; keep the loop alive.
		return m, tickCmd(m.runtime.TickInterval())
	}
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.runtime.ScreenW = wsm.Width
		m.runtime.ScreenH = wsm.Height
		m.screen.Resize(wsm.Width, wsm.Height)
	}

	next, cmd := m.scores.Update(msg)
	sb, _ := next.(ScoreboardModel)
	switch {
	case sb.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case sb.IsGoingBack():
		m.scores = nil
		return m, nil
	}
	m.scores = &sb
	return m, cmd
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.engine.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		m.notes.set("Screenshot failed: %v", err)
		return
	}
	dir := filepath.Join(home, ".runner", "screenshots")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		m.notes.set("Screenshot failed: %v", err)
		return
	}

	name := fmt.Sprintf("runner_%s.txt", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(m.screen.String()), 0o600); err != nil {
		m.notes.set("Screenshot failed: %v", err)
		return
	}
	m.notes.set("Saved %s", path)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}

	m.engine.Render(m.screen)
	if note := m.notes.current(); note != "" {
		m.screen.DrawTextColored(2, 1, " "+note+" ", core.ColorYellow)
	}
	return RenderScreen(m.screen)
}

// Err returns the error that stopped the simulation, if any.
func (m Model) Err() error {
	return m.err
}

// Run starts the Bubble Tea program with the given options.
func Run(opts Options) error {
	p := tea.NewProgram(
		NewModel(opts),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(Model); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
