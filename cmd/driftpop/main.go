// driftpop is a terminal arcade game: glide through a streamed tunnel of
// level segments and pop drifting orbs with fast mouse sweeps.
//
// Usage:
//
//	driftpop play            - Play directly
//	driftpop menu            - Start with the interactive menu
//	driftpop serve           - Start SSH server for remote play
//	driftpop scores          - Show high scores
//	driftpop levels          - Level file tooling (list, validate, schema, sync)
//
// Global flags:
//
//	--fps <rate>    - Set tick rate (default: 60)
//	--seed <value>  - Set RNG seed for reproducible gameplay
//	--db <path>     - Set database path (default: ~/.driftpop/scores.db)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Import the game to register it
	_ "github.com/popworks/driftpop/internal/games/drift"
)

var (
	// Global flags
	flagFPS    int
	flagSeed   int64
	flagDBPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "driftpop",
	Short: "Drift Pop - Pop the orbs, dodge the walls",
	Long: `Drift Pop is a terminal arcade game. You steer a glider through an
endlessly streamed tunnel of level segments while popping drifting orbs
with fast mouse sweeps. Your terminal needs mouse reporting for the pop
mechanic; everything else works from the keyboard.

Available commands:
  play     - Play directly
  menu     - Interactive menu (difficulty picker, scoreboard)
  serve    - Start SSH server for remote play
  scores   - View high scores and run history
  levels   - Level file tooling: list, validate, schema, sync

Examples:
  driftpop play
  driftpop play --difficulty hard
  driftpop menu
  driftpop serve --ssh :2222
  driftpop levels validate levels/01_canyon.yaml`,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.driftpop/scores.db", "Path to scores database")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(levelsCmd)
}
