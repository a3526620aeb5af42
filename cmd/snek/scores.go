package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/snek/internal/game"
	"github.com/vovakirdan/snek/internal/platform/tui"
	"github.com/vovakirdan/snek/internal/storage"
)

var (
	flagInteractive bool
	flagRecent      bool
	flagLimit       int
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show run history",
	Long: `Display the best runs, or the latest ones with --recent.

Examples:
  snek scores
  snek scores --recent --limit 20
  snek scores -i`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVarP(&flagInteractive, "interactive", "i", false, "Browse runs in a full-screen table")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "List the latest runs instead of the best")
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of runs to list")
}

func runScores(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fail("opening run database: %v", err)
	}
	defer store.Close()

	if flagInteractive {
		width, height := terminalSize()
		if err := tui.RunScoreboard(store, width, height); err != nil {
			fail("%v", err)
		}
		return
	}

	var runs []storage.Run
	if flagRecent {
		fmt.Println("Recent Runs")
		runs, err = store.RecentRuns(flagLimit)
	} else {
		fmt.Println("High Scores")
		runs, err = store.TopRuns(flagLimit)
	}
	if err != nil {
		fail("retrieving runs: %v", err)
	}
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'snek play' to set the first high score!")
		return
	}

	fmt.Printf("  %-4s  %-6s  %-5s  %-9s  %-10s  %s\n", "Rank", "Score", "Level", "Ended", "Player", "Date")
	fmt.Printf("  %-4s  %-6s  %-5s  %-9s  %-10s  %s\n", "----", "-----", "-----", "-----", "------", "----")
	for i, r := range runs {
		fmt.Printf("  %-4d  %-6d  %-5d  %-9s  %-10s  %s\n",
			i+1, r.Score, r.Level, game.ParseCause(r.Cause).Title(), r.Player,
			r.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.Stats(); err == nil {
		fmt.Println()
		fmt.Printf("Best: %d  Runs: %d  Average: %.1f  Deepest level: %d\n",
			stats.HighScore, stats.Runs, stats.AvgScore, stats.BestLevel)
	}
}
