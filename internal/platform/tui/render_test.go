package tui

import (
	"strings"
	"testing"

	"github.com/popworks/driftpop/internal/core"
)

func TestRenderScreenRowsAndRuns(t *testing.T) {
	s := core.NewScreen(6, 2)
	s.DrawText(0, 0, "ab")
	s.SetCell(2, 0, 'c', core.ColorBrightCyan)
	s.SetCell(3, 0, 'd', core.ColorBrightCyan)
	s.DrawText(0, 1, "ef")

	out := RenderScreen(s)
	rows := strings.Split(out, "\n")
	if len(rows) != 2 {
		t.Fatalf("rendered %d rows, expected 2", len(rows))
	}

	// Same-color neighbors stay together in one run, so their runes are
	// contiguous even when escape codes separate the runs.
	if !strings.Contains(rows[0], "ab") || !strings.Contains(rows[0], "cd") {
		t.Errorf("row 0 = %q, expected runs ab and cd", rows[0])
	}
	if !strings.Contains(rows[1], "ef") {
		t.Errorf("row 1 = %q, expected ef", rows[1])
	}
}

func TestStyleForUnknownColorFallsBack(t *testing.T) {
	got := styleFor(core.Color(250)).Render("x")
	want := colorStyles[core.ColorDefault].Render("x")
	if got != want {
		t.Errorf("unknown color rendered %q, expected default %q", got, want)
	}
}
