package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/popworks/driftpop/internal/config"
	"github.com/popworks/driftpop/internal/level"
	"github.com/popworks/driftpop/internal/livesync"
)

var (
	flagSchemaOut    string
	flagLevelsConfig string
	flagLsyncAddr    string
	flagLsyncDir     string
)

var levelsCmd = &cobra.Command{
	Use:   "levels",
	Short: "Level file tooling",
	Long: `Inspect, validate, and serve level files.

Level files are versioned YAML documents: an ordered list of nodes
(walls, gates, spires, beacons) with local depth offsets. The game
streams them in lexical file order.

Examples:
  driftpop levels list
  driftpop levels list ./my-levels
  driftpop levels validate levels/01_canyon.yaml
  driftpop levels schema --out level.schema.json
  driftpop levels sync --dir ./my-levels`,
}

var levelsListCmd = &cobra.Command{
	Use:   "list [dir]",
	Short: "List level files and their measurements",
	Long: `List level documents with their node counts and measured depths.

With no directory argument, lists the configured levels directory, or
the built-in levels when none is configured.`,
	Args: cobra.MaximumNArgs(1),
	Run:  runLevelsList,
}

var levelsValidateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Validate level files",
	Long: `Parse and validate each given level file.

Exits non-zero if any file fails validation.`,
	Args: cobra.MinimumNArgs(1),
	Run:  runLevelsValidate,
}

var levelsSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Export the level document JSON Schema",
	Long: `Print the JSON Schema for the level document format.

Editors use this schema to validate documents before pushing them over
the sync channel.`,
	Args: cobra.NoArgs,
	Run:  runLevelsSchema,
}

var levelsSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run the level-editing sync server",
	Long: `Run the standalone WebSocket sync server.

Editors connect to ws://<addr>/sync and push level documents as JSON;
accepted documents are validated and written atomically into the levels
directory. Running games pick them up on restart.

Examples:
  driftpop levels sync
  driftpop levels sync --addr :9000 --dir ./my-levels`,
	Args: cobra.NoArgs,
	Run:  runLevelsSync,
}

func init() {
	levelsListCmd.Flags().StringVar(&flagLevelsConfig, "config", "", "Path to custom game config YAML")
	levelsSchemaCmd.Flags().StringVar(&flagSchemaOut, "out", "", "Write the schema to a file instead of stdout")
	levelsSyncCmd.Flags().StringVar(&flagLsyncAddr, "addr", ":8437", "Sync server address (host:port)")
	levelsSyncCmd.Flags().StringVar(&flagLsyncDir, "dir", "", "Levels directory (default: config's dir, then ./levels)")

	levelsCmd.AddCommand(levelsListCmd)
	levelsCmd.AddCommand(levelsValidateCmd)
	levelsCmd.AddCommand(levelsSchemaCmd)
	levelsCmd.AddCommand(levelsSyncCmd)
}

func runLevelsList(_ *cobra.Command, args []string) {
	type row struct {
		source string
		doc    *level.Document
	}
	var rows []row

	dir := ""
	if len(args) > 0 {
		dir = args[0]
	} else {
		gameCfg, err := config.LoadDrift(flagLevelsConfig)
		if err != nil {
			gameCfg = config.DefaultDriftConfig()
		}
		dir = gameCfg.Level.Dir
	}

	if dir != "" {
		paths, err := level.ScanDir(dir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		for _, path := range paths {
			doc, err := level.LoadFile(path)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: skipping %s: %v\n", path, err)
				continue
			}
			rows = append(rows, row{source: path, doc: doc})
		}
	} else {
		docs, err := level.Builtin()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading built-in levels: %v\n", err)
			os.Exit(1)
		}
		for _, doc := range docs {
			rows = append(rows, row{source: "(built-in)", doc: doc})
		}
	}

	if len(rows) == 0 {
		fmt.Println("No level files found.")
		return
	}

	fmt.Printf("  %-20s  %-20s  %-6s  %-6s  %s\n", "ID", "Name", "Nodes", "Depth", "Source")
	fmt.Printf("  %-20s  %-20s  %-6s  %-6s  %s\n", "--", "----", "-----", "-----", "------")
	for _, r := range rows {
		fmt.Printf("  %-20s  %-20s  %-6d  %-6.1f  %s\n",
			r.doc.ID, r.doc.Name, len(r.doc.Nodes), r.doc.Depth(), r.source)
	}
}

func runLevelsValidate(_ *cobra.Command, args []string) {
	failed := 0
	for _, path := range args {
		doc, err := level.LoadFile(path)
		if err != nil {
			fmt.Printf("FAIL  %s\n      %v\n", path, err)
			failed++
			continue
		}
		fmt.Printf("OK    %s (%s, %d nodes, depth %.1f)\n", path, doc.ID, len(doc.Nodes), doc.Depth())
	}

	if failed > 0 {
		fmt.Printf("\n%d of %d files failed validation\n", failed, len(args))
		os.Exit(1)
	}
}

func runLevelsSchema(_ *cobra.Command, _ []string) {
	reflector := &jsonschema.Reflector{
		DoNotReference: true,
	}

	schema := reflector.Reflect(&level.Document{})
	schema.Title = "Drift Pop Level Document"
	schema.Description = "A versioned, ordered list of level nodes streamed as one segment."

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding schema: %v\n", err)
		os.Exit(1)
	}
	data = append(data, '\n')

	if flagSchemaOut == "" {
		os.Stdout.Write(data)
		return
	}
	if err := os.WriteFile(flagSchemaOut, data, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Schema written to %s\n", flagSchemaOut)
}

func runLevelsSync(_ *cobra.Command, _ []string) {
	dir := flagLsyncDir
	if dir == "" {
		gameCfg, err := config.LoadDrift("")
		if err != nil {
			gameCfg = config.DefaultDriftConfig()
		}
		dir = gameCfg.Level.Dir
	}
	if dir == "" {
		dir = "levels"
	}

	server, err := livesync.NewServer(livesync.Config{
		Address: flagLsyncAddr,
		Dir:     dir,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating sync server: %v\n", err)
		os.Exit(1)
	}
	if err := server.Start(); err != nil {
		fmt.Fprintf(os.Stderr, "Error starting sync server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Level sync server on ws://%s/sync, writing to %s\n", flagLsyncAddr, dir)
	fmt.Println("Press Ctrl+C to stop")

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Shutdown error: %v\n", err)
		os.Exit(1)
	}
}
