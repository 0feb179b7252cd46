package drift

import (
	"fmt"
	"math"
	"time"

	"github.com/popworks/driftpop/internal/core"
	"github.com/popworks/driftpop/internal/level"
	"github.com/popworks/driftpop/internal/sweep"
)

// Visual characters for rendering
const (
	GliderChar = '▶'
	GliderTail = '='
	WallChar   = '█'
	GateChar   = '▓'
	SpireUp    = '▲'
	SpireDown  = '▼'
	BeaconChar = '◉'
	EdgeChar   = '═'
	TrailChar  = '·'
	TrailHeadL = '«'
	TrailHeadR = '»'
	OrbSmall   = '•'
	OrbLarge   = '●'
)

// orbColors maps a template color index to a screen color.
var orbColors = []core.Color{
	core.ColorBrightMagenta,
	core.ColorBrightCyan,
	core.ColorBrightGreen,
	core.ColorBrightYellow,
}

// Render draws the current game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	// Tunnel edges
	dst.DrawHLine(0, tunnelTop-1, dst.Width(), EdgeChar)
	dst.DrawHLine(0, tunnelTop+tunnelRows, dst.Width(), EdgeChar)

	// Level geometry
	g.tiler.Render(func(worldZ float64, n *level.Node) {
		g.drawNode(dst, worldZ, n)
	})

	// Orbs
	for _, it := range g.orbs.Items() {
		m, ok := g.orbs.Motion(it.ID)
		if !ok {
			continue
		}
		sx, sy := g.orbs.orbScreenPos(m, g.travelZ)
		g.drawOrb(dst, int(math.Round(sx)), int(math.Round(sy)), it.Radius, it.ColorIndex)
	}

	// Sweep trail and glider
	g.drawTrail(dst)
	g.drawGlider(dst)

	// Draw HUD
	hud := fmt.Sprintf(" Score: %d  Dist: %dm  Pops: %d ", g.score, g.distance, g.pops)
	dst.DrawText(2, 0, hud)

	// Show current pace if progression is enabled
	if g.difficulty.IsEnabled() {
		pace := g.difficulty.Speed(g.cfg.Physics.BasePace, g.score, g.tickCount)
		paceText := fmt.Sprintf(" Pace: %.1f ", pace)
		dst.DrawText(dst.Width()-len(paceText)-2, 0, paceText)
	}

	if g.paused {
		g.drawCenteredMessage(dst, "PAUSED", "Press P to resume")
	}

	if g.gameOver {
		g.drawCenteredMessage(dst, "CRASHED",
			fmt.Sprintf("Score: %d  |  %dm  |  Press R to restart", g.score, g.distance))
	}
}

// screenX maps a world depth position to a screen column. Content ahead
// of the glider lands to the right of it.
func (g *Game) screenX(worldZ float64) int {
	return g.cfg.Player.Col + int(math.Round(g.travelZ-worldZ))
}

// drawNode renders one level node. worldZ is the node's entry edge.
func (g *Game) drawNode(dst *core.Screen, worldZ float64, n *level.Node) {
	x0 := g.screenX(worldZ)
	x1 := g.screenX(worldZ - n.Width())
	if x1 < 0 || x0 >= dst.Width() {
		return
	}

	switch n.Type {
	case level.NodeWall:
		h := int(n.Prop("h", 3))
		y0 := tunnelTop + int(n.Y)
		for x := x0; x <= x1; x++ {
			for y := y0; y < y0+h; y++ {
				dst.SetCell(x, y, WallChar, core.ColorBlue)
			}
		}
	case level.NodeGate:
		gapTop := int(n.Y)
		gapBot := gapTop + int(n.Prop("gap", 4))
		for x := x0; x <= x1; x++ {
			for row := 0; row < tunnelRows; row++ {
				if row >= gapTop && row < gapBot {
					continue
				}
				dst.SetCell(x, tunnelTop+row, GateChar, core.ColorCyan)
			}
		}
	case level.NodeSpire:
		h := int(n.Prop("h", 3))
		ceiling := n.Rot >= 90 && n.Rot < 270
		for x := x0; x <= x1; x++ {
			for dy := 0; dy < h; dy++ {
				if ceiling {
					ch := WallChar
					if dy == h-1 {
						ch = SpireDown
					}
					dst.SetCell(x, tunnelTop+dy, ch, core.ColorRed)
				} else {
					ch := WallChar
					if dy == h-1 {
						ch = SpireUp
					}
					dst.SetCell(x, tunnelTop+tunnelRows-1-dy, ch, core.ColorRed)
				}
			}
		}
	case level.NodeBeacon:
		dst.SetCell(x0, tunnelTop+int(n.Y), BeaconChar, core.ColorYellow)
	}
}

// drawOrb renders a single orb. Radius picks the glyph; bigger orbs also
// get side dots so their hit area reads on screen.
func (g *Game) drawOrb(dst *core.Screen, x, y int, radius float64, colorIndex int) {
	c := core.ColorWhite
	if colorIndex >= 0 && colorIndex < len(orbColors) {
		c = orbColors[colorIndex]
	}
	switch {
	case radius < 1.25:
		dst.SetCell(x, y, OrbSmall, c)
	case radius < 1.75:
		dst.SetCell(x, y, OrbLarge, c)
	default:
		dst.SetCell(x, y, OrbLarge, c)
		dst.SetCell(x-1, y, TrailChar, c)
		dst.SetCell(x+1, y, TrailChar, c)
	}
}

// drawTrail renders the recent sweep segments as a fading dotted path.
// Age is measured against the game clock, so the trail dies off after the
// cursor stops moving.
func (g *Game) drawTrail(dst *core.Screen) {
	maxAge := time.Duration(g.cfg.Sweep.TrailMaxAgeMS) * time.Millisecond
	if maxAge <= 0 || g.clock.IsZero() {
		return
	}

	// The trail head doubles as a direction cue while the smoothed
	// horizontal velocity is above the pop threshold: the sweep is "armed"
	// and the glyph points the way it is moving.
	head := TrailChar
	if vx := g.sampler.VelX(); vx >= g.cfg.Sweep.MinPopSpeed {
		head = TrailHeadR
	} else if vx <= -g.cfg.Sweep.MinPopSpeed {
		head = TrailHeadL
	}

	latest := g.sampler.Latest()
	var seg sweep.Segment
	for seq := latest; seq > 0; seq-- {
		if !g.sampler.Read(seq, &seg) {
			break
		}
		if g.clock.Sub(seg.At) > maxAge {
			break
		}
		midX := int(math.Round((seg.FromX + seg.ToX) / 2))
		midY := int(math.Round((seg.FromY + seg.ToY) / 2))
		dst.SetCell(int(math.Round(seg.FromX)), int(math.Round(seg.FromY)), TrailChar, core.ColorGray)
		dst.SetCell(midX, midY, TrailChar, core.ColorGray)
		ch := TrailChar
		if seq == latest {
			ch = head
		}
		dst.SetCell(int(math.Round(seg.ToX)), int(math.Round(seg.ToY)), ch, core.ColorBrightWhite)
	}
}

// drawGlider renders the player.
func (g *Game) drawGlider(dst *core.Screen) {
	x := g.cfg.Player.Col
	y := tunnelTop + int(math.Round(g.playerY))
	dst.SetCell(x-1, y, GliderTail, core.ColorWhite)
	dst.SetCell(x, y, GliderChar, core.ColorBrightWhite)
}

// drawCenteredMessage draws a message box in the center of the screen.
func (g *Game) drawCenteredMessage(dst *core.Screen, title, subtitle string) {
	w := dst.Width()
	h := dst.Height()

	// Calculate box dimensions
	boxW := core.Max(len(title), len(subtitle)) + 4
	boxH := 5
	boxX := (w - boxW) / 2
	boxY := (h - boxH) / 2

	// Draw box
	dst.DrawRect(core.NewRect(boxX, boxY, boxW, boxH), ' ', core.ColorDefault)
	dst.DrawBox(core.NewRect(boxX, boxY, boxW, boxH))

	// Draw text
	titleX := boxX + (boxW-len(title))/2
	dst.DrawText(titleX, boxY+1, title)

	subtitleX := boxX + (boxW-len(subtitle))/2
	dst.DrawText(subtitleX, boxY+3, subtitle)
}
