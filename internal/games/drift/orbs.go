package drift

import (
	"math/rand"

	"github.com/popworks/driftpop/internal/config"
	"github.com/popworks/driftpop/internal/core"
	"github.com/popworks/driftpop/internal/spawn"
	"github.com/popworks/driftpop/internal/sweep"
)

// OrbManager handles spawning, motion, culling, and sweep hit tests for
// the drifting orbs. Orb positions live in world coordinates: X is the
// depth axis (forward is negative), Y is the tunnel row.
type OrbManager struct {
	pool       *spawn.Pool
	rng        *rand.Rand
	cfg        *config.DriftConfig
	difficulty *config.DifficultyManager

	nextID        int64
	nextSpawnTick int
	lastSweep     uint64 // Highest sweep segment sequence already hit-tested

	cullScratch []int64      // Reused id buffer for the cull pass
	hitScratch  []spawn.Item // Reused buffer for sweep hits
}

// NewOrbManager creates an orb manager with the given RNG seed.
func NewOrbManager(seed int64, cfg *config.DriftConfig, diff *config.DifficultyManager) *OrbManager {
	om := &OrbManager{
		pool: spawn.New(cfg.Spawner.MaxItems),
		cfg:  cfg,
	}
	om.UpdateConfig(cfg, diff)
	om.Reset(seed)
	return om
}

// UpdateConfig updates the configuration.
func (om *OrbManager) UpdateConfig(cfg *config.DriftConfig, diff *config.DifficultyManager) {
	om.cfg = cfg
	om.difficulty = diff
	if om.pool.Cap() != cfg.Spawner.MaxItems {
		om.pool = spawn.New(cfg.Spawner.MaxItems)
	}
}

// Reset clears all orbs and resets the RNG.
func (om *OrbManager) Reset(seed int64) {
	om.pool.Clear()
	om.rng = rand.New(rand.NewSource(seed))
	om.nextID = 0
	om.nextSpawnTick = om.cfg.Spawner.SpawnInterval
	om.lastSweep = 0
}

// Update spawns orbs on the difficulty-scaled cadence, integrates their
// wander motion, and removes orbs that have scrolled off behind the
// glider. travelZ is the glider's depth position.
func (om *OrbManager) Update(travelZ float64, score, ticks int, dt float64) {
	if ticks >= om.nextSpawnTick && len(om.cfg.Spawner.Templates) > 0 {
		om.spawnOrb(travelZ)
		interval := om.difficulty.SpawnInterval(om.cfg.Spawner.SpawnInterval, score, ticks)
		om.nextSpawnTick = ticks + interval
	}

	// Integrate wander motion. Orbs bounce between the tunnel edges.
	// Motion writes never rebuild the active list, so writing while
	// walking it is fine.
	for _, it := range om.pool.Items() {
		m, ok := om.pool.Motion(it.ID)
		if !ok {
			continue
		}
		m.Pos = m.Pos.Add(m.Vel.Scale(dt))
		if m.Pos.Y < 1 {
			m.Pos.Y = 1
			m.Vel.Y = -m.Vel.Y
		}
		if limit := float64(tunnelRows - 2); m.Pos.Y > limit {
			m.Pos.Y = limit
			m.Vel.Y = -m.Vel.Y
		}
		om.pool.SetMotion(it.ID, m)
	}

	// Drop orbs once they are fully off the left edge of the screen.
	// Removal rebuilds the active list, so ids are collected first.
	behind := travelZ + float64(om.cfg.Player.Col) + 2
	om.cullScratch = om.cullScratch[:0]
	for _, it := range om.pool.Items() {
		if m, ok := om.pool.Motion(it.ID); ok && m.Pos.X > behind {
			om.cullScratch = append(om.cullScratch, it.ID)
		}
	}
	for _, id := range om.cullScratch {
		om.pool.Remove(id)
	}
}

// spawnOrb places one orb ahead of the glider using a random template.
func (om *OrbManager) spawnOrb(travelZ float64) {
	tpl := om.rng.Intn(len(om.cfg.Spawner.Templates))
	t := om.cfg.Spawner.Templates[tpl]

	om.nextID++
	item := spawn.Item{
		ID:            om.nextID,
		ColorIndex:    t.ColorIndex,
		Radius:        t.Radius,
		TemplateIndex: tpl,
	}

	row := 1 + om.rng.Float64()*float64(tunnelRows-3)
	wander := (om.rng.Float64()*2 - 1) * t.DriftSpeed
	pos := core.Vec2{X: travelZ - om.cfg.Spawner.SpawnLead, Y: row}
	vel := core.Vec2{X: 0, Y: wander}

	// Add reports false when the pool is full; the spawn is simply lost.
	om.pool.Add(item, pos, vel)
}

// PopSweeps hit-tests the sweep segments recorded since the last call
// against every live orb and removes the hits. Each segment is gated on
// the speed it was recorded at, so a cursor parked on an orb cannot pop
// it even when a fast sweep happened elsewhere in the same frame.
// Returns the points scored and the number of orbs popped.
func (om *OrbManager) PopSweeps(s *sweep.Sampler, travelZ float64, screenW int) (points, popped int) {
	latest := s.Latest()
	if latest == om.lastSweep {
		return 0, 0
	}

	om.hitScratch = om.hitScratch[:0]
	var seg sweep.Segment
	for seq := latest; seq > om.lastSweep; seq-- {
		// Read fails once seq falls out of the ring; older segments are
		// gone and cannot be tested.
		if !s.Read(seq, &seg) {
			break
		}
		if seg.Speed < om.cfg.Sweep.MinPopSpeed {
			continue
		}
		a := core.Vec2{X: seg.FromX, Y: seg.FromY}
		b := core.Vec2{X: seg.ToX, Y: seg.ToY}

		for _, it := range om.pool.Items() {
			m, ok := om.pool.Motion(it.ID)
			if !ok || om.alreadyHit(it.ID) {
				continue
			}
			sx, sy := om.orbScreenPos(m, travelZ)
			if sx < 0 || sx >= float64(screenW) {
				continue
			}
			d := core.PointSegDist(core.Vec2{X: sx, Y: sy}, a, b)
			if d <= it.Radius+om.cfg.Sweep.HitSlack {
				om.hitScratch = append(om.hitScratch, it)
			}
		}
	}

	for _, it := range om.hitScratch {
		if it.TemplateIndex >= 0 && it.TemplateIndex < len(om.cfg.Spawner.Templates) {
			points += om.cfg.Spawner.Templates[it.TemplateIndex].Points
		}
		popped++
		om.pool.Remove(it.ID)
	}
	om.lastSweep = latest
	return points, popped
}

// alreadyHit reports whether the id is already collected for this pass.
func (om *OrbManager) alreadyHit(id int64) bool {
	for _, it := range om.hitScratch {
		if it.ID == id {
			return true
		}
	}
	return false
}

// orbScreenPos maps an orb's world position to screen coordinates.
func (om *OrbManager) orbScreenPos(m spawn.Motion, travelZ float64) (x, y float64) {
	x = float64(om.cfg.Player.Col) + (travelZ - m.Pos.X)
	y = float64(tunnelTop) + m.Pos.Y
	return x, y
}

// Items returns the live orbs in slot order.
func (om *OrbManager) Items() []spawn.Item {
	return om.pool.Items()
}

// Motion returns the motion state for an orb id.
func (om *OrbManager) Motion(id int64) (spawn.Motion, bool) {
	return om.pool.Motion(id)
}

// Len returns the number of live orbs.
func (om *OrbManager) Len() int {
	return om.pool.Len()
}

// Epoch returns the pool membership epoch. It only moves when orbs are
// added or removed, never for motion, so render-side caches can key off it.
func (om *OrbManager) Epoch() uint64 {
	return om.pool.Epoch()
}
