package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/popworks/driftpop/internal/audio"
	"github.com/popworks/driftpop/internal/config"
	"github.com/popworks/driftpop/internal/core"
	"github.com/popworks/driftpop/internal/games/drift"
	"github.com/popworks/driftpop/internal/livesync"
	"github.com/popworks/driftpop/internal/platform/tui"
	"github.com/popworks/driftpop/internal/registry"
	"github.com/popworks/driftpop/internal/storage"
)

var (
	flagConfig     string
	flagDifficulty string
	flagLevelsDir  string
	flagSync       bool
	flagSyncAddr   string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play Drift Pop",
	Long: `Start playing directly, skipping the menu.

Controls:
  W/Up, S/Down - Steer the glider
  Mouse sweep  - Pop orbs (fast sweeps only)
  P/Esc        - Pause
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Start at lowest difficulty, progresses to max
  normal - Start at 30% difficulty, progresses to max
  hard   - Start at 70% difficulty, progresses to max
  fixed  - No progression, stays at config's initial level

Examples:
  driftpop play
  driftpop play --difficulty hard
  driftpop play --levels ./my-levels
  driftpop play --config ./my-drift.yaml
  driftpop play --sync --sync-addr :8437`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagConfig, "config", "", "Path to custom game config YAML")
	playCmd.Flags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	playCmd.Flags().StringVar(&flagLevelsDir, "levels", "", "Levels directory (default: config's dir, then built-ins)")
	playCmd.Flags().BoolVar(&flagSync, "sync", false, "Run the level-editing sync server alongside the game")
	playCmd.Flags().StringVar(&flagSyncAddr, "sync-addr", ":8437", "Sync server address (host:port)")
}

func runPlay(_ *cobra.Command, _ []string) {
	// Get terminal size early
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
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

	// Wire game options before creation
	drift.SetConfigPath(flagConfig)
	drift.SetDifficultyPreset(flagDifficulty)
	if flagLevelsDir != "" {
		drift.SetLevelsDir(flagLevelsDir)
	}

	// The game loads its own config on Reset; load it here too for the
	// pieces the platform owns (audio, sync directory).
	gameCfg, cfgErr := config.LoadDrift(flagConfig)
	if cfgErr != nil {
		gameCfg = config.DefaultDriftConfig()
	}

	// Start audio feedback. A missing or busy audio device just means a
	// silent game.
	if gameCfg.Audio.Enabled {
		engine := audio.NewEngine(gameCfg.Audio.SampleRate, gameCfg.Audio.Voices)
		if audioErr := engine.Initialize(); audioErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: audio disabled: %v\n", audioErr)
		} else {
			drift.SetSounds(engine)
			defer engine.Cleanup()
		}
	}

	// Start the level sync server if requested. Pushed levels land in the
	// directory the game streams from, so a restart picks them up.
	var updates <-chan string
	if flagSync {
		dir := flagLevelsDir
		if dir == "" {
			dir = gameCfg.Level.Dir
		}
		if dir == "" {
			dir = "levels"
		}

		server, syncErr := livesync.NewServer(livesync.Config{
			Address: flagSyncAddr,
			Dir:     dir,
		})
		if syncErr != nil {
			fmt.Fprintf(os.Stderr, "Error starting sync server: %v\n", syncErr)
			os.Exit(1)
		}
		if startErr := server.Start(); startErr != nil {
			fmt.Fprintf(os.Stderr, "Error starting sync server: %v\n", startErr)
			os.Exit(1)
		}
		updates = server.Updates()
		drift.SetLevelsDir(dir)

		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			//nolint:errcheck // Best-effort shutdown on the way out
			server.Shutdown(ctx)
		}()
	}

	// Create game instance
	game, err := registry.Create("drift")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	// Open score storage
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		// Continue without storage - game still works
		store = nil
	}

	// Run the game
	runErr := tui.Run(game, store, cfg, updates)

	// Close store before potential exit
	if store != nil {
		store.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}
