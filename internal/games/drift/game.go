// Package drift implements a tunnel glider game. The player steers a
// glider through endlessly streamed level segments while popping drifting
// orbs with fast cursor sweeps.
package drift

import (
	"context"
	"time"

	"github.com/popworks/driftpop/internal/config"
	"github.com/popworks/driftpop/internal/core"
	"github.com/popworks/driftpop/internal/level"
	"github.com/popworks/driftpop/internal/registry"
	"github.com/popworks/driftpop/internal/sweep"
)

// World layout constants. The tunnel is a fixed band of rows; screens
// narrower or shorter than the band simply clip it.
const (
	tunnelRows  = 18  // Height of the tunnel in rows
	tunnelTop   = 2   // Screen row of tunnel row 0
	gliderDepth = 1.0 // Glider extent along the depth axis for collisions
)

// Sounds is the feedback hook the platform can wire an audio engine into.
type Sounds interface {
	PlayPop()
	PlayCrash()
}

// Game implements the drift game logic.
type Game struct {
	travelZ   float64 // Glider depth position; forward is negative
	playerY   float64 // Glider tunnel row
	playerVel float64 // Glider vertical velocity, rows per second

	score    int
	distance int
	pops     int
	gameOver bool
	paused   bool

	runtime    core.RuntimeConfig
	cfg        config.DriftConfig
	difficulty *config.DifficultyManager

	sampler *sweep.Sampler
	orbs    *OrbManager
	store   *level.Store
	tiler   *level.Tiler
	cam     followCam

	tickCount int
	clock     time.Time // Last known pointer time, advanced by dt between samples
}

// Package-level wiring set by the CLI and the platform before games run.
var (
	configPath       string
	difficultyPreset config.DifficultyPreset
	levelsDir        string
	sounds           Sounds
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset.
func SetDifficultyPreset(preset string) {
	switch preset {
	case "easy":
		difficultyPreset = config.DifficultyEasy
	case "normal":
		difficultyPreset = config.DifficultyNormal
	case "hard":
		difficultyPreset = config.DifficultyHard
	case "fixed":
		difficultyPreset = config.DifficultyFixed
	default:
		difficultyPreset = "" // Use config default
	}
}

// SetLevelsDir overrides the level directory from the config.
func SetLevelsDir(dir string) {
	levelsDir = dir
}

// SetSounds wires the audio engine. A nil engine keeps the game silent.
func SetSounds(s Sounds) {
	sounds = s
}

// New creates a new drift game instance.
func New() *Game {
	return &Game{}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	return "drift"
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	return "Drift Pop"
}

// Reset initializes or restarts the game. The level source is rebuilt
// from disk every time, so edits to level files take effect on restart.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	if runtime.TickRate <= 0 {
		runtime.TickRate = 60
	}
	g.runtime = runtime

	// Load game config
	cfg, err := config.LoadDrift(configPath)
	if err != nil {
		cfg = config.DefaultDriftConfig()
	}

	// Apply difficulty preset if set
	if difficultyPreset != "" {
		config.ApplyDriftPreset(&cfg, difficultyPreset)
	}
	if levelsDir != "" {
		cfg.Level.Dir = levelsDir
	}

	g.cfg = cfg

	// Initialize difficulty manager
	g.difficulty = config.NewDifficultyManager(cfg.Difficulty)

	// Initialize game state
	g.travelZ = 0
	g.playerY = float64(tunnelRows) / 2
	g.playerVel = 0
	g.score = 0
	g.distance = 0
	g.pops = 0
	g.gameOver = false
	g.paused = false
	g.tickCount = 0
	g.clock = time.Time{}
	g.cam.Snap(0)

	if g.sampler == nil {
		g.sampler = sweep.NewSampler()
	} else {
		g.sampler.Reset()
	}

	if g.orbs == nil {
		g.orbs = NewOrbManager(runtime.Seed, &g.cfg, g.difficulty)
	} else {
		g.orbs.UpdateConfig(&g.cfg, g.difficulty)
		g.orbs.Reset(runtime.Seed)
	}

	// Tear down the previous run's level pipeline and build a fresh one.
	if g.store != nil {
		g.store.Close()
	}
	g.store = level.NewStore()
	if cfg.Level.Enabled {
		if src := g.buildSource(); src != nil {
			g.store.Initialize(src)
		}
	}

	// Widen the look-ahead so the streamed window always covers the
	// visible span plus a margin, whatever the terminal width.
	lookAhead := cfg.Level.LookAhead
	if ahead := float64(runtime.ScreenW-cfg.Player.Col) + 16; ahead > lookAhead {
		lookAhead = ahead
	}
	g.tiler = level.NewTiler(g.store, &g.cam, level.TilerConfig{
		LookAhead:    lookAhead,
		CullBehind:   cfg.Level.CullBehind,
		FollowOffset: cfg.Level.FollowOffset,
		Enabled:      cfg.Level.Enabled && g.store.Initialized(),
	})
}

// buildSource creates the level content source for this run: an explicit
// file list, then a level directory, then the built-in levels. Returns
// nil when no content is available at all.
func (g *Game) buildSource() level.Source {
	lc := g.cfg.Level
	if len(lc.Files) > 0 {
		return level.NewFileSource(context.Background(), lc.Files, lc.Loop)
	}
	if lc.Dir != "" {
		if paths, err := level.ScanDir(lc.Dir); err == nil && len(paths) > 0 {
			return level.NewFileSource(context.Background(), paths, lc.Loop)
		}
	}
	docs, err := level.Builtin()
	if err != nil || len(docs) == 0 {
		return nil
	}
	if lc.Loop {
		return level.NewCycleSource(docs...)
	}
	return level.NewSliceSource(docs...)
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	// Handle pause toggle
	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}

	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.tickCount++
	dt := 1.0 / float64(g.runtime.TickRate)

	// Feed cursor samples into the sweep sampler, then apply the
	// per-tick falloff so the smoothed speed dies off between sweeps.
	for _, p := range in.Pointers {
		g.sampler.Update(float64(p.X), float64(p.Y), p.At)
	}
	g.sampler.Decay(dt)

	// Advance the game clock: pointer samples carry real timestamps, and
	// quiet ticks extrapolate so the trail still ages.
	if n := len(in.Pointers); n > 0 {
		g.clock = in.Pointers[n-1].At
	} else if !g.clock.IsZero() {
		g.clock = g.clock.Add(time.Duration(dt * float64(time.Second)))
	}

	// Steering
	if in.Has(core.ActionUp) {
		g.playerVel -= g.cfg.Physics.Thrust * dt
	}
	if in.Has(core.ActionDown) {
		g.playerVel += g.cfg.Physics.Thrust * dt
	}

	// Apply drag and integrate. The tunnel edges stop the glider but do
	// not end the run; only level geometry does that.
	g.playerVel -= g.playerVel * g.cfg.Physics.Drag * dt
	g.playerVel = core.ClampF(g.playerVel, -g.cfg.Physics.MaxClimb, g.cfg.Physics.MaxClimb)
	g.playerY += g.playerVel * dt
	if g.playerY < 0 {
		g.playerY = 0
		g.playerVel = 0
	}
	if g.playerY > float64(tunnelRows-1) {
		g.playerY = float64(tunnelRows - 1)
		g.playerVel = 0
	}

	// Forward travel
	pace := g.difficulty.Speed(g.cfg.Physics.BasePace, g.score, g.tickCount)
	g.travelZ -= pace * dt
	g.distance = int(-g.travelZ)

	// Keep the streamed level window ahead of the camera rig
	g.cam.Update(g.travelZ, dt)
	g.tiler.Tick()

	// Orbs: spawn, drift, and sweep pops
	g.orbs.Update(g.travelZ, g.score, g.tickCount, dt)
	points, popped := g.orbs.PopSweeps(g.sampler, g.travelZ, g.runtime.ScreenW)
	if popped > 0 {
		g.score += points
		g.pops += popped
		if sounds != nil {
			sounds.PlayPop()
		}
	}

	// Level collisions
	if g.cfg.Level.Enabled && g.hitLevel() {
		g.gameOver = true
		if sounds != nil {
			sounds.PlayCrash()
		}
	}

	return core.StepResult{State: g.State()}
}

// hitLevel tests the glider against every node of every live segment.
func (g *Game) hitLevel() bool {
	gz0 := g.travelZ - gliderDepth/2
	gz1 := g.travelZ + gliderDepth/2
	rowTop := g.playerY
	rowBot := g.playerY + 1

	for _, seg := range g.store.Segments() {
		if gz0 > seg.ZOffset || gz1 < seg.ZOffset-seg.Depth {
			continue
		}
		for i := range seg.Doc.Nodes {
			n := &seg.Doc.Nodes[i]
			worldZ := seg.ZOffset - n.Z
			if gz0 > worldZ || gz1 < worldZ-n.Width() {
				continue
			}
			if nodeBlocksRows(n, rowTop, rowBot) {
				return true
			}
		}
	}
	return false
}

// nodeBlocksRows reports whether a node occupies any tunnel row in
// [top, bot). Beacons and unknown types never block.
func nodeBlocksRows(n *level.Node, top, bot float64) bool {
	switch n.Type {
	case level.NodeWall:
		h := n.Prop("h", 3)
		return top < n.Y+h && bot > n.Y
	case level.NodeGate:
		gap := n.Prop("gap", 4)
		return top < n.Y || bot > n.Y+gap
	case level.NodeSpire:
		h := n.Prop("h", 3)
		if n.Rot >= 90 && n.Rot < 270 {
			return top < h // Hanging from the ceiling
		}
		return bot > float64(tunnelRows)-h
	default:
		return false
	}
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		Distance: g.distance,
		Pops:     g.pops,
		GameOver: g.gameOver,
		Paused:   g.paused,
	}
}

// Register the game with the registry
func init() {
	registry.Register("drift", func() registry.Game {
		return New()
	})
}
