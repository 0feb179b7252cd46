// Package tui provides the Bubble Tea integration for the platform.
// It handles the terminal UI loop, input mapping (keyboard actions and
// mouse pointer samples), and game orchestration, both locally and over
// SSH via Wish.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to trigger a game simulation tick.
type TickMsg time.Time

// tickCmd returns a command that emits TickMsg at the simulation rate.
// Rates at or below zero fall back to 60 so a zeroed config cannot stall
// the loop.
func tickCmd(tickRate int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 60
	}
	return tea.Tick(time.Second/time.Duration(tickRate), func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}
