package spawn

import (
	"testing"

	"github.com/popworks/driftpop/internal/core"
)

func orb(id int64) Item {
	return Item{ID: id, ColorIndex: int(id % 5), Radius: 1.5, TemplateIndex: 0}
}

func TestPoolNeverExceedsCapacity(t *testing.T) {
	p := New(8)

	for i := int64(1); i <= 10; i++ {
		ok := p.Add(orb(i), core.Vec2{X: float64(i)}, core.Vec2{})
		if i <= 8 && !ok {
			t.Fatalf("Add(%d) failed with free slots", i)
		}
		if i > 8 && ok {
			t.Fatalf("Add(%d) succeeded on a full pool", i)
		}
	}

	if p.Len() != 8 {
		t.Errorf("Len() = %d, expected 8", p.Len())
	}
	if len(p.Items()) != 8 {
		t.Errorf("len(Items()) = %d, expected 8", len(p.Items()))
	}

	// Membership is exactly the first eight; the dropped spawns left no trace.
	for i, item := range p.Items() {
		if item.ID != int64(i+1) {
			t.Errorf("Items()[%d].ID = %d, expected %d", i, item.ID, i+1)
		}
	}
	if _, ok := p.Motion(9); ok {
		t.Error("dropped spawn should have no motion record")
	}

	// Freeing one slot makes exactly one new spawn possible.
	p.Remove(3)
	if !p.Add(orb(11), core.Vec2{}, core.Vec2{}) {
		t.Fatal("Add should succeed after Remove freed a slot")
	}
	if p.Len() != 8 {
		t.Errorf("Len() = %d after remove+add, expected 8", p.Len())
	}
}

func TestAddReusesFreedSlot(t *testing.T) {
	p := New(4)
	for i := int64(1); i <= 4; i++ {
		p.Add(orb(i), core.Vec2{}, core.Vec2{})
	}

	p.Remove(2)
	p.Add(orb(99), core.Vec2{}, core.Vec2{})

	// Linear scan places the new item in the freed slot, so slot order is
	// 1, 99, 3, 4.
	want := []int64{1, 99, 3, 4}
	items := p.Items()
	if len(items) != len(want) {
		t.Fatalf("len(Items()) = %d, expected %d", len(items), len(want))
	}
	for i, id := range want {
		if items[i].ID != id {
			t.Errorf("Items()[%d].ID = %d, expected %d", i, items[i].ID, id)
		}
	}
}

func TestDescriptorCopiedIntoSlot(t *testing.T) {
	p := New(2)
	item := Item{ID: 7, ColorIndex: 3, Radius: 2.5, TemplateIndex: 1}
	p.Add(item, core.Vec2{X: 10, Y: 4}, core.Vec2{X: -1})

	got := p.Items()[0]
	if got != item {
		t.Errorf("stored descriptor = %+v, expected %+v", got, item)
	}
	m, ok := p.Motion(7)
	if !ok {
		t.Fatal("Motion(7) should exist")
	}
	if m.Pos != (core.Vec2{X: 10, Y: 4}) || m.Vel != (core.Vec2{X: -1}) {
		t.Errorf("Motion(7) = %+v, unexpected", m)
	}
}

func TestRemoveAbsentIsNoop(t *testing.T) {
	p := New(2)
	p.Add(orb(1), core.Vec2{}, core.Vec2{})
	epoch := p.Epoch()

	p.Remove(42)

	if p.Len() != 1 {
		t.Errorf("Len() = %d, expected 1", p.Len())
	}
	if p.Epoch() != epoch {
		t.Error("Remove of absent id should not bump the epoch")
	}
}

func TestClear(t *testing.T) {
	p := New(4)
	for i := int64(1); i <= 4; i++ {
		p.Add(orb(i), core.Vec2{}, core.Vec2{})
	}
	epoch := p.Epoch()

	p.Clear()

	if p.Len() != 0 || len(p.Items()) != 0 {
		t.Error("Clear should empty the pool")
	}
	if _, ok := p.Motion(1); ok {
		t.Error("Clear should wipe motion records")
	}
	if p.Epoch() != epoch+1 {
		t.Errorf("Epoch() = %d after Clear, expected %d", p.Epoch(), epoch+1)
	}
	if !p.Add(orb(5), core.Vec2{}, core.Vec2{}) {
		t.Error("Add should succeed after Clear")
	}
}

func TestEpochIgnoresMotionWrites(t *testing.T) {
	p := New(4)
	p.Add(orb(1), core.Vec2{}, core.Vec2{})
	epoch := p.Epoch()

	// A simulated physics frame: integrate and write back.
	for i := 0; i < 100; i++ {
		m, _ := p.Motion(1)
		m.Pos = m.Pos.Add(m.Vel.Scale(1.0 / 60.0))
		p.SetMotion(1, m)
	}
	if p.Epoch() != epoch {
		t.Error("motion writes must not bump the epoch")
	}

	p.Remove(1)
	if p.Epoch() != epoch+1 {
		t.Error("Remove should bump the epoch")
	}
}

func TestMotionAccessors(t *testing.T) {
	p := New(2)
	p.Add(orb(1), core.Vec2{X: 5}, core.Vec2{Y: 2})

	// SetMotion for unknown ids is dropped.
	p.SetMotion(9, Motion{Pos: core.Vec2{X: 1}})
	if _, ok := p.Motion(9); ok {
		t.Error("SetMotion must not create records for unknown ids")
	}

	p.SetMotion(1, Motion{Pos: core.Vec2{X: 6}, Vel: core.Vec2{Y: 2}})
	m, _ := p.Motion(1)
	if m.Pos.X != 6 {
		t.Errorf("Motion(1).Pos.X = %f, expected 6", m.Pos.X)
	}

	// ClearMotion drops the record but keeps the slot; a later SetMotion
	// must stay dropped.
	p.ClearMotion(1)
	if _, ok := p.Motion(1); ok {
		t.Error("ClearMotion should delete the record")
	}
	p.SetMotion(1, Motion{Pos: core.Vec2{X: 7}})
	if _, ok := p.Motion(1); ok {
		t.Error("SetMotion after ClearMotion must not resurrect the record")
	}
	if p.Len() != 1 {
		t.Error("ClearMotion must not deactivate the slot")
	}
}

func TestZeroCapacityPool(t *testing.T) {
	p := New(0)
	if p.Add(orb(1), core.Vec2{}, core.Vec2{}) {
		t.Error("Add on a zero-capacity pool should fail")
	}
	p.Remove(1)
	p.Clear()
}
