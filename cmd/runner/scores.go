package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/pingu-runner/internal/platform/tui"
	"github.com/vovakirdan/pingu-runner/internal/storage"
)

var (
	flagScoresMine   bool
	flagScoresRecent bool
	flagScoresLimit  int
	flagScoresTUI    bool
	flagScoresClear  bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show the run history",
	Long: `Display the best recorded runs.

Examples:
  runner scores
  runner scores --mine
  runner scores --recent
  runner scores --tui
  runner scores --clear`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagScoresMine, "mine", false, "Only show runs of --user")
	scoresCmd.Flags().BoolVar(&flagScoresRecent, "recent", false, "Show the latest runs instead of the best")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
	scoresCmd.Flags().BoolVar(&flagScoresTUI, "tui", false, "Browse the runs in an interactive table")
	scoresCmd.Flags().BoolVar(&flagScoresClear, "clear", false, "Delete the whole run history")
}

func runScores(cmd *cobra.Command, args []string) {
	// Open profile storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening profile database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagScoresClear {
		if err := store.ClearRuns(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Run history cleared.")
		return
	}

	if flagScoresTUI {
		width, height := 80, 24
		if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
			width, height = w, h
		}
		if err := tui.RunScoreboard(store, flagUser, width, height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	var runs []storage.RunEntry
	switch {
	case flagScoresRecent:
		runs, err = store.RecentRuns(flagScoresLimit)
	case flagScoresMine:
		runs, err = store.UserRuns(flagUser, flagScoresLimit)
	default:
		runs, err = store.TopRuns(flagScoresLimit)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	// Display runs
	switch {
	case flagScoresRecent:
		fmt.Println("Recent runs")
	case flagScoresMine:
		fmt.Printf("Best runs - %s\n", flagUser)
	default:
		fmt.Println("Best runs")
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'runner play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %-6s  %s\n", "Rank", "Player", "Score", "Coins", "Speed", "Date")
	fmt.Printf("  %-4s  %-12s  %-8s  %-6s  %-6s  %s\n", "----", "------", "-----", "-----", "-----", "----")

	for i, r := range runs {
		fmt.Printf("  %-4d  %-12s  %-8d  %-6d  x%-5.1f  %s\n",
			i+1, r.Username, r.Score, r.Coins, r.Difficulty, r.EndedAt.Format("2006-01-02 15:04"))
	}

	// Show aggregate stats
	if flagScoresMine {
		if stats, err := store.GetRunStats(flagUser); err == nil {
			fmt.Println()
			fmt.Printf("Runs: %d  Best: %d  Average: %.0f  Coins collected: %d\n",
				stats.RunsCount, stats.HighScore, stats.AvgScore, stats.TotalCoins)
		}
		return
	}
	if best, err := store.HighScore(); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d\n", best)
	}
}
