// runner is an endless three-lane runner for the terminal.
//
// Usage:
//
//	runner play              - Play a run in this terminal
//	runner sim               - Run the headless autopilot
//	runner serve             - Start SSH server for remote play
//	runner scores            - Show the run history
//	runner profile           - Show or edit the player profile
//	runner catalog           - Validate or inspect a segment catalog
//
// Global flags:
//
//	--fps <rate>          - Set tick rate (default: 60)
//	--seed <value>        - Set RNG seed for reproducible tracks
//	--db <path>           - Set database path (default: ~/.runner/runner.db)
//	--config <path>       - Custom runner config YAML
//	--difficulty <preset> - easy, normal, hard or fixed
package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/pingu-runner/internal/config"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagUser       string
	flagVerbose    bool
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "runner",
	Short: "Pingu Runner - An endless lane runner in your terminal",
	Long: `Pingu Runner streams an endless three-lane track of segments.
Dodge barriers, slide under bars, hop onto blocks and collect coins
while the speed keeps rising.

Available commands:
  play     - Play a run in this terminal
  sim      - Let the autopilot play headless
  serve    - Start SSH server for remote play
  scores   - View the run history
  profile  - Show or edit the player profile
  catalog  - Validate or inspect a segment catalog

Examples:
  runner play
  runner play --difficulty hard --seed 42
  runner sim --ticks 3600
  runner serve --ssh :2222
  runner scores --mine`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.runner/runner.db", "Path to profile database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom runner config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", defaultUser(), "Profile to play as")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Log simulation events")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(catalogCmd)
}

func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "local"
}

// loadConfig reads the runner config and applies the difficulty preset.
func loadConfig() config.RunnerConfig {
	cfg, err := config.LoadRunner(flagConfig)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if flagDifficulty != "" {
		preset := config.ParsePreset(flagDifficulty)
		if preset == "" {
			fmt.Fprintf(os.Stderr, "Error: unknown difficulty %q\n", flagDifficulty)
			os.Exit(1)
		}
		config.ApplyPreset(&cfg, preset)
	}
	return cfg
}

// newLogger returns the stderr logger. Simulation events are logged at
// debug level and only shown with --verbose.
func newLogger(prefix string) *log.Logger {
	level := log.InfoLevel
	if flagVerbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
}
