package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/popworks/driftpop/internal/storage"
)

var flagScoresLimit int

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores and run history",
	Long: `Display the best runs and aggregate stats.

Examples:
  driftpop scores
  driftpop scores --limit 25
  driftpop scores --db ./scores.db`,
	Args: cobra.NoArgs,
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of runs to show")
}

func runScores(_ *cobra.Command, _ []string) {
	const gameID = "drift"

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	// Get best runs
	runs, err := store.BestRuns(gameID, flagScoresLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving runs: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Best Runs - Drift Pop")
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Println("Play 'driftpop play' to set the first high score!")
		return
	}

	// Print header
	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %-6s  %s\n", "Rank", "Score", "Dist", "Pops", "Time", "Date")
	fmt.Printf("  %-4s  %-10s  %-8s  %-6s  %-6s  %s\n", "----", "-----", "----", "----", "----", "----")

	// Print runs
	for i, r := range runs {
		dateStr := r.CreatedAt.Format("2006-01-02 15:04")
		duration := fmt.Sprintf("%d:%02d", r.DurationSecs/60, r.DurationSecs%60)
		fmt.Printf("  %-4d  %-10d  %-8d  %-6d  %-6s  %s\n", i+1, r.Score, r.Distance, r.Pops, duration, dateStr)
	}

	// Aggregate stats
	stats, err := store.GetGameStats(gameID)
	if err != nil {
		return
	}

	fmt.Println()
	fmt.Printf("Games played: %d  |  Best: %d  |  Avg: %.1f  |  Best distance: %dm  |  Total pops: %d\n",
		stats.GamesCount, stats.HighScore, stats.AvgScore, stats.BestDistance, stats.TotalPops)
}
