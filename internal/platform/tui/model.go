package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/popworks/driftpop/internal/core"
	"github.com/popworks/driftpop/internal/registry"
	"github.com/popworks/driftpop/internal/storage"
)

// toastDuration is how long level-sync notices stay on screen.
const toastDuration = 4 * time.Second

// Model is the Bubble Tea model for running a game standalone.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	config     core.RuntimeConfig
	inputFrame core.InputFrame
	gameState  core.GameState
	runStart   time.Time
	quitting   bool
	scoreSaved bool // Whether the finished run has been persisted

	// updates delivers level file names pushed by the sync server.
	// Nil when no sync server is running.
	updates    <-chan string
	toast      string
	toastTicks int
}

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game registry.Game, store *storage.Store, cfg core.RuntimeConfig) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		config:     cfg,
		inputFrame: core.NewInputFrame(),
		runStart:   time.Now(),
	}
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	// Initialize the game
	m.game.Reset(m.config)
	// Note: gameState will be set on first tick (value receiver limitation)

	// Start the tick loop
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global quit keys
	switch msg.String() {
	case "ctrl+c", "q":
		m.quitting = true
		return m, tea.Quit
	case "ctrl+s":
		m.saveScreenshot()
		return m, nil
	}

	// Map key to action
	switch msg.String() {
	case "up", "w":
		m.inputFrame.Set(core.ActionUp)
	case "down", "s":
		m.inputFrame.Set(core.ActionDown)
	case "p", "esc":
		m.inputFrame.Set(core.ActionPause)
	case "r":
		if m.gameState.GameOver {
			m.inputFrame.Set(core.ActionRestart)
		}
	}

	return m, nil
}

// handleMouse collects cursor samples for the sweep sampler. Every
// event type carries a position, so motion, press and release all feed
// the frame.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	m.inputFrame.AddPointer(msg.X, msg.Y, time.Now())
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	// Update screen size
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	// Reinitialize game with new dimensions if needed
	// Note: This resets the game - could be improved to preserve state
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}

	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	// Check for restart
	if m.inputFrame.Has(core.ActionRestart) && m.gameState.GameOver {
		// Reset seed for new game
		m.config.Seed = time.Now().UnixNano()
		m.game.Reset(m.config)
		m.gameState = m.game.State()
		m.scoreSaved = false
		m.runStart = time.Now()
		m.inputFrame.Clear()
		return m, tickCmd(m.config.TickRate)
	}

	// Surface pushed level updates; receiving on a nil channel blocks,
	// which is exactly the no-op we want without a sync server.
	select {
	case name := <-m.updates:
		m.toast = fmt.Sprintf("level %s updated - restart to apply", name)
		m.toastTicks = m.config.TickRate * int(toastDuration/time.Second)
	default:
	}
	if m.toastTicks > 0 {
		m.toastTicks--
		if m.toastTicks == 0 {
			m.toast = ""
		}
	}

	// Run game simulation
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State

	// Save the run on game over (once)
	if m.gameState.GameOver && !m.scoreSaved {
		m.saveRun()
		m.scoreSaved = true
	}

	// Clear input for next frame
	m.inputFrame.Clear()

	// Continue ticking
	return m, tickCmd(m.config.TickRate)
}

// saveRun persists the finished run. Best effort; the game continues
// regardless of storage failures.
func (m *Model) saveRun() {
	if m.store == nil {
		return
	}
	if m.gameState.Score <= 0 && m.gameState.Distance <= 0 {
		return
	}

	//nolint:errcheck // Best-effort save
	m.store.SaveScore(m.game.ID(), m.gameState.Score)
	//nolint:errcheck // Best-effort save
	m.store.SaveRun(storage.RunEntry{
		GameID:       m.game.ID(),
		Score:        m.gameState.Score,
		Distance:     m.gameState.Distance,
		Pops:         m.gameState.Pops,
		DurationSecs: int(time.Since(m.runStart).Seconds()),
	})
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	// Render current state
	m.game.Render(m.screen)

	// Create screenshots directory
	dir := filepath.Join(os.Getenv("HOME"), ".driftpop", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	// Generate filename with timestamp
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)
	path := filepath.Join(dir, filename)

	// Save screenshot
	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(path, []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	// Render game to screen buffer
	m.game.Render(m.screen)

	if m.toast != "" {
		m.screen.DrawTextColored(1, m.screen.Height()-1, m.toast, core.ColorBrightYellow)
	}

	// Convert screen to string
	return RenderScreen(m.screen)
}

// Run starts the Bubble Tea program for a single game. The updates
// channel may be nil; when a sync server is running, pass its Updates
// channel so pushed levels are announced in the HUD.
func Run(game registry.Game, store *storage.Store, cfg core.RuntimeConfig, updates <-chan string) error {
	model := NewModel(game, store, cfg)
	model.updates = updates

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Cursor sweeps drive the pop mechanic
	)

	_, err := p.Run()
	return err
}
