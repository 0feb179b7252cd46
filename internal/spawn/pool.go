// Package spawn provides the fixed-capacity item pool backing the game's
// drifting orbs. Slot structures are reused in place so steady-state play
// spawns without allocating, and motion state lives in a side table so
// per-frame physics writes never disturb pool bookkeeping.
package spawn

import "github.com/popworks/driftpop/internal/core"

// Item describes one pooled item. The caller assigns IDs; the pool only
// requires them to be unique among live items.
type Item struct {
	ID            int64
	ColorIndex    int
	Radius        float64
	TemplateIndex int
}

// Motion is the per-item kinematic state, kept outside the slots so physics
// can integrate every frame without touching pool structure.
type Motion struct {
	Pos core.Vec2
	Vel core.Vec2
}

type slot struct {
	used bool
	item Item
}

// Pool is a fixed-capacity item pool. All methods are single-goroutine:
// the simulation tick owns it.
type Pool struct {
	slots   []slot
	motions map[int64]Motion
	active  []Item // Rebuilt on membership change, reused backing array
	count   int
	epoch   uint64
}

// New creates a pool with the given capacity. Capacity never grows; a full
// pool drops further spawns.
func New(capacity int) *Pool {
	if capacity < 0 {
		capacity = 0
	}
	return &Pool{
		slots:   make([]slot, capacity),
		motions: make(map[int64]Motion, capacity),
		active:  make([]Item, 0, capacity),
	}
}

// Add places an item in the first free slot and records its motion.
// Returns false when the pool is full; the item is dropped and no state
// changes. Callers must not assume spawn success.
func (p *Pool) Add(item Item, pos, vel core.Vec2) bool {
	for i := range p.slots {
		if p.slots[i].used {
			continue
		}
		p.slots[i].used = true
		p.slots[i].item = item
		p.motions[item.ID] = Motion{Pos: pos, Vel: vel}
		p.count++
		p.epoch++
		p.rebuildActive()
		return true
	}
	return false
}

// Remove deactivates the item with the given id and deletes its motion.
// No-op when the id is not live.
func (p *Pool) Remove(id int64) {
	for i := range p.slots {
		if !p.slots[i].used || p.slots[i].item.ID != id {
			continue
		}
		p.slots[i].used = false
		delete(p.motions, id)
		p.count--
		p.epoch++
		p.rebuildActive()
		return
	}
}

// Clear deactivates every slot and wipes all motion records.
func (p *Pool) Clear() {
	for i := range p.slots {
		p.slots[i].used = false
	}
	clear(p.motions)
	p.count = 0
	p.epoch++
	p.active = p.active[:0]
}

// Items returns the active item descriptors in slot order. The slice is
// the pool's own backing array, rebuilt on membership change; callers must
// not retain it across Add/Remove/Clear.
func (p *Pool) Items() []Item {
	return p.active
}

// Len returns the number of live items.
func (p *Pool) Len() int {
	return p.count
}

// Cap returns the fixed pool capacity.
func (p *Pool) Cap() int {
	return len(p.slots)
}

// Epoch returns a counter that increments on every membership change and
// never on motion writes. Dependent code compares epochs to detect
// "did the item set change" cheaply.
func (p *Pool) Epoch() uint64 {
	return p.epoch
}

// Motion returns the kinematic state for a live item.
func (p *Pool) Motion(id int64) (Motion, bool) {
	m, ok := p.motions[id]
	return m, ok
}

// SetMotion overwrites the kinematic state for a live item. Writes for
// unknown ids are dropped so stale physics updates cannot resurrect
// removed items.
func (p *Pool) SetMotion(id int64, m Motion) {
	if _, ok := p.motions[id]; !ok {
		return
	}
	p.motions[id] = m
}

// ClearMotion deletes the motion record for an id without touching the
// slot. Gameplay uses this to freeze an item that is about to be removed.
func (p *Pool) ClearMotion(id int64) {
	delete(p.motions, id)
}

func (p *Pool) rebuildActive() {
	p.active = p.active[:0]
	for i := range p.slots {
		if p.slots[i].used {
			p.active = append(p.active, p.slots[i].item)
		}
	}
}
