package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/popworks/driftpop/internal/audio"
	"github.com/popworks/driftpop/internal/config"
	"github.com/popworks/driftpop/internal/core"
	"github.com/popworks/driftpop/internal/games/drift"
	"github.com/popworks/driftpop/internal/platform/tui"
	"github.com/popworks/driftpop/internal/registry"
	"github.com/popworks/driftpop/internal/storage"
)

var menuCmd = &cobra.Command{
	Use:   "menu",
	Short: "Start Drift Pop with the interactive menu",
	Long: `Start in interactive menu mode.

Pick a difficulty preset before playing; Tab opens the scoreboard.
After a game ends, you return to the menu to play again.

Controls:
  Up/Down/j/k  - Navigate menu
  Enter/Space  - Select
  Tab          - Scoreboard
  Q            - Quit

Examples:
  driftpop menu
  driftpop menu --fps 30
  driftpop menu --db ./scores.db`,
	Run: runMenu,
}

func init() {
	menuCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	menuCmd.Flags().StringVar(&flagLevelsDir, "levels", "", "Levels directory (default: config's dir, then built-ins)")
}

func runMenu(_ *cobra.Command, _ []string) {
	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}

	// Get terminal size
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
		height = h
	}

	// Create runtime config
	cfg := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}

	// Wire game options
	drift.SetConfigPath(flagConfig)
	if flagLevelsDir != "" {
		drift.SetLevelsDir(flagLevelsDir)
	}

	// Audio lives for the whole menu session
	gameCfg, cfgErr := config.LoadDrift(flagConfig)
	if cfgErr != nil {
		gameCfg = config.DefaultDriftConfig()
	}
	if gameCfg.Audio.Enabled {
		engine := audio.NewEngine(gameCfg.Audio.SampleRate, gameCfg.Audio.Voices)
		if audioErr := engine.Initialize(); audioErr == nil {
			drift.SetSounds(engine)
			defer engine.Cleanup()
		}
	}

	// Menu loop
	for {
		// Show menu and get selection
		menuResult, err := tui.RunMenu(store, cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			break
		}

		// Update config with any size changes
		cfg = menuResult.Config

		// Check if user quit
		if menuResult.Quit {
			break
		}

		// Check if user wants scoreboard
		if menuResult.WantsScoreboard {
			goBack, sbErr := tui.RunScoreboard(store, "drift", cfg.ScreenW, cfg.ScreenH)
			if sbErr != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", sbErr)
			}
			if goBack {
				continue // Back to menu
			}
			break // User quit from scoreboard
		}

		gameID := menuResult.GameID
		if gameID == "" {
			break
		}

		// Show the difficulty picker before the run
		selection, updatedCfg, selErr := tui.RunDriftSetup(cfg)
		if selErr != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", selErr)
			continue
		}
		cfg = updatedCfg

		// User pressed back or quit
		if selection == nil {
			continue
		}
		drift.SetDifficultyPreset(selection.Preset)

		// Create game instance
		game, err := registry.Create(gameID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
			continue
		}

		// Update seed for each game
		cfg.Seed = time.Now().UnixNano()

		// Run the game
		if err := tui.Run(game, store, cfg, nil); err != nil {
			fmt.Fprintf(os.Stderr, "Error running game: %v\n", err)
		}

		// Loop back to menu
	}

	// Cleanup
	if store != nil {
		store.Close()
	}
}
