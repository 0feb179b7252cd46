package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/popworks/driftpop/internal/core"
)

// DriftSelection holds the user's choices from the pre-game setup menu.
type DriftSelection struct {
	Preset string // Difficulty preset: easy, normal, hard, fixed
}

// driftPreset pairs a preset name with its menu description.
type driftPreset struct {
	name string
	desc string
}

var driftPresets = []driftPreset{
	{"normal", "Standard pace and pop threshold"},
	{"easy", "Gentle ramp, forgiving sweeps"},
	{"hard", "Fast ramp, tight sweeps, more orbs"},
	{"fixed", "Difficulty locked at the configured level"},
}

// DriftSetupModel lets users pick a difficulty preset before playing.
type DriftSetupModel struct {
	cursor    int
	width     int
	height    int
	keyMapper *KeyMapper
	selection DriftSelection
	choosing  bool
	quitting  bool
	back      bool
}

// NewDriftSetupModel creates a new setup model.
func NewDriftSetupModel(width, height int) DriftSetupModel {
	return DriftSetupModel{
		cursor:    0,
		width:     width,
		height:    height,
		keyMapper: NewKeyMapper(),
		choosing:  true,
	}
}

// Init initializes the model.
func (m DriftSetupModel) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m DriftSetupModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	}
	return m, nil
}

func (m DriftSetupModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action := m.keyMapper.MapKeyToMenuAction(msg)

	switch action {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit
	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}
	case MenuActionDown:
		if m.cursor < len(driftPresets)-1 {
			m.cursor++
		}
	case MenuActionSelect:
		m.choosing = false
		m.selection = DriftSelection{Preset: driftPresets[m.cursor].name}
		return m, tea.Quit
	case MenuActionBack:
		m.back = true
		return m, tea.Quit
	}

	return m, nil
}

// View renders the preset selection.
func (m DriftSetupModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(centerText("D R I F T  P O P", m.width))
	b.WriteString("\n\n")
	b.WriteString(centerText("Select difficulty:", m.width))
	b.WriteString("\n\n")

	for i, p := range driftPresets {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}
		line := fmt.Sprintf("%s%-8s %s", cursor, p.name, p.desc)
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText("Enter: Select  |  Esc: Back  |  Q: Quit", m.width))

	return b.String()
}

// Selected returns the selection, or nil if still choosing.
func (m DriftSetupModel) Selected() *DriftSelection {
	if m.choosing {
		return nil
	}
	return &m.selection
}

// IsQuitting returns true if user wants to quit.
func (m DriftSetupModel) IsQuitting() bool {
	return m.quitting
}

// WantsBack returns true if user pressed back.
func (m DriftSetupModel) WantsBack() bool {
	return m.back
}

// RunDriftSetup runs the difficulty selection and returns the selection.
// A nil selection means the user backed out or quit.
func RunDriftSetup(cfg core.RuntimeConfig) (*DriftSelection, core.RuntimeConfig, error) {
	model := NewDriftSetupModel(cfg.ScreenW, cfg.ScreenH)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, cfg, err
	}

	m, ok := finalModel.(DriftSetupModel)
	if !ok {
		return nil, cfg, nil
	}

	if m.IsQuitting() || m.WantsBack() {
		return nil, cfg, nil
	}

	return m.Selected(), cfg, nil
}
