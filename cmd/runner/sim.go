package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/pingu-runner/internal/core"
	"github.com/vovakirdan/pingu-runner/internal/game"
	"github.com/vovakirdan/pingu-runner/internal/profile"
	"github.com/vovakirdan/pingu-runner/internal/session"
	"github.com/vovakirdan/pingu-runner/internal/storage"
)

var (
	flagSimTicks int
	flagSimRuns  int
	flagSimLead  float64
	flagSimSave  bool
	flagSimDump  bool
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Run the headless autopilot",
	Long: `Simulate runs without a terminal UI. The autopilot taps to start,
jumps barriers, slides under bars and changes lanes around blocks.

The same --seed always produces the same track and the same result,
which makes sim useful for checking custom catalogs and configs.

Examples:
  runner sim --seed 7
  runner sim --ticks 36000 --runs 5
  runner sim --config ./hard.yaml --save`,
	Args: cobra.NoArgs,
	Run:  runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimTicks, "ticks", 60*60, "Maximum ticks to simulate")
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 1, "Stop after this many finished runs (0 = no limit)")
	simCmd.Flags().Float64Var(&flagSimLead, "lead", game.DefaultLead, "Autopilot reaction lead in seconds")
	simCmd.Flags().BoolVar(&flagSimSave, "save", false, "Record the runs in the profile database")
	simCmd.Flags().BoolVar(&flagSimDump, "dump", false, "Print the final world snapshot")
}

type simRun struct {
	score        int
	coins        int
	newHighscore bool
}

func runSim(cmd *cobra.Command, args []string) {
	cfg := loadConfig()
	logger := newLogger("runner-sim")

	rt := core.RuntimeConfig{TickRate: flagFPS, Seed: flagSeed}

	var profiles profile.Store = storage.NewMemory(flagUser)
	if flagSimSave {
		store, err := storage.Open(flagDBPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening profile database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		profiles = store.ForUser(flagUser)
	}

	engine, err := game.New(game.Options{
		Config: cfg,
		Store:  profiles,
		Seed:   rt.ResolveSeed(),
		Logger: logger,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var runs []simRun
	engine.Session().Subscribe(func(ev session.Event) {
		if ev.Kind == session.EventRunOver {
			runs = append(runs, simRun{score: ev.Score, coins: ev.Coins, newHighscore: ev.NewHighscore})
			logger.Info("run over", "run", len(runs), "score", ev.Score, "coins", ev.Coins)
		}
	})

	seed := engine.Seed()
	pilot := game.Autopilot{Lead: flagSimLead}
	dt := rt.TickDelta()
	engine.Session().LeaveMainMenu()
	for i := 0; i < flagSimTicks; i++ {
		if err := engine.Tick(dt, pilot.Decide(engine)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: simulation stopped at tick %d: %v\n", engine.Ticks(), err)
			os.Exit(1)
		}
		if flagSimRuns > 0 && len(runs) >= flagSimRuns {
			break
		}
	}

	printSimSummary(engine, seed, dt, runs)
}

func printSimSummary(engine *game.Engine, seed int64, dt float64, runs []simRun) {
	snap := engine.Snapshot()
	seconds := float64(snap.Tick) * dt

	fmt.Printf("Simulated %d ticks (%.1fs) with seed %d\n", snap.Tick, seconds, seed)
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No run finished.")
		fmt.Printf("Current run: score %d, coins %d, speed x%.1f, z %.1f\n",
			snap.Score, snap.Coins, snap.Modifier, snap.Position.Z)
	} else {
		fmt.Printf("  %-4s  %-8s  %-6s  %s\n", "Run", "Score", "Coins", "")
		fmt.Printf("  %-4s  %-8s  %-6s  %s\n", "---", "-----", "-----", "")
		for i, r := range runs {
			mark := ""
			if r.newHighscore {
				mark = "new best"
			}
			fmt.Printf("  %-4d  %-8d  %-6d  %s\n", i+1, r.score, r.coins, mark)
		}
	}

	fmt.Println()
	fmt.Printf("Best: %d  Coins: %d\n", engine.Profile().Highscore(), engine.Profile().Coins())

	if flagSimDump {
		fmt.Println()
		fmt.Printf("%+v\n", snap)
	}
}
