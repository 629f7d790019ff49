package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/game"
	"github.com/vovakirdan/pingu-runner/internal/platform/tui"
	"github.com/vovakirdan/pingu-runner/internal/profile"
	"github.com/vovakirdan/pingu-runner/internal/storage"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start the runner in this terminal.

Controls:
  Space/Enter      - Tap (leave menu, start run)
  Left/A, Right/D  - Change lane
  Up/W             - Jump
  Down/S           - Slide, or fast-fall in the air
  Mouse drag       - Swipe in the drag direction
  R                - Retry after a crash
  Esc              - Main menu
  [ / ]            - Previous / next skin
  C                - Claim the daily reward
  Tab              - Run history
  Ctrl+S           - Screenshot
  Q/Ctrl+C         - Quit

Difficulty options:
  easy   - Slow, gentle speed-up
  normal - Speed rises by 10% every 2.5 seconds
  hard   - Faster and steeper speed-up
  fixed  - Speed never rises

Examples:
  runner play
  runner play --difficulty hard
  runner play --seed 42 --user alice`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func runPlay(cmd *cobra.Command, args []string) {
	cfg := loadConfig()

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Open profile storage
	var (
		profiles profile.Store = storage.NewMemory(flagUser)
		runs     tui.RunSource
	)
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open profile database: %v\n", err)
		// Continue without storage - the run still works
		store = nil
	} else {
		profiles = store.ForUser(flagUser)
		runs = store
	}

	logger, closeLog := playLogger()
	engine, err := game.New(game.Options{
		Config: cfg,
		Store:  profiles,
		Seed:   rt.ResolveSeed(),
		Logger: logger,
	})
	if err != nil {
		closeLog()
		if store != nil {
			store.Close()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	runErr := tui.Run(tui.Options{
		Engine:   engine,
		Runs:     runs,
		Username: flagUser,
		Runtime:  rt,
	})

	// Close store before potential exit
	closeLog()
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// playLogger returns the logger used while the TUI owns the terminal. With
// --verbose it writes to ~/.runner/runner.log, otherwise it is silent.
func playLogger() (*log.Logger, func()) {
	if !flagVerbose {
		return log.New(io.Discard), func() {}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	path := filepath.Join(home, ".runner", "runner.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }
}
