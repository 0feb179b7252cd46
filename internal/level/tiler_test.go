package level

import "testing"

type fakeCam struct {
	z float64
}

func (c *fakeCam) Position() float64 { return c.z }

// countingSource wraps a Source and counts Next calls, so tests can assert
// how many spawn attempts a tick made.
type countingSource struct {
	inner Source
	calls int
}

func (c *countingSource) Next() (*Document, bool) {
	c.calls++
	return c.inner.Next()
}

func newTiler(src Source, cam Camera, cfg TilerConfig) (*Tiler, *Store, *countingSource) {
	counted := &countingSource{inner: src}
	store := NewStore()
	store.Initialize(counted)
	return NewTiler(store, cam, cfg), store, counted
}

func TestTilerStreamsAheadThenStops(t *testing.T) {
	cam := &fakeCam{z: 0}
	tiler, store, src := newTiler(
		NewSliceSource(mkdoc("a", 10), mkdoc("b", 15), mkdoc("c", 10)),
		cam,
		TilerConfig{LookAhead: 20, CullBehind: 30, Enabled: true},
	)

	tiler.Tick()

	// Frontier walk: 0 -> -10 (a) -> -25 (b), which satisfies the 20-unit
	// look-ahead, so c stays unspawned.
	if store.Len() != 2 {
		t.Fatalf("Len() = %d after first tick, expected 2", store.Len())
	}
	segs := store.Segments()
	if segs[0].Doc.ID != "a" || segs[0].ZOffset != 0 {
		t.Errorf("first segment = %q at %f, expected a at 0", segs[0].Doc.ID, segs[0].ZOffset)
	}
	if segs[1].Doc.ID != "b" || segs[1].ZOffset != -10 {
		t.Errorf("second segment = %q at %f, expected b at -10", segs[1].Doc.ID, segs[1].ZOffset)
	}
	if store.Frontier() != -25 {
		t.Errorf("frontier = %f, expected -25", store.Frontier())
	}
	if src.calls != 2 {
		t.Errorf("spawn attempts = %d, expected exactly 2", src.calls)
	}

	// A tick with the camera unmoved changes nothing.
	tiler.Tick()
	if store.Len() != 2 || src.calls != 2 {
		t.Error("idle tick should neither spawn nor cull")
	}
}

func TestTilerSpawnsAsCameraAdvances(t *testing.T) {
	cam := &fakeCam{z: 0}
	tiler, store, _ := newTiler(
		NewSliceSource(mkdoc("a", 10), mkdoc("b", 15), mkdoc("c", 10)),
		cam,
		TilerConfig{LookAhead: 20, CullBehind: 30, Enabled: true},
	)

	tiler.Tick()
	cam.z = -8 // Frontier -25 vs threshold -28: window no longer covered
	tiler.Tick()

	if store.Len() != 3 {
		t.Fatalf("Len() = %d, expected 3 after the camera advanced", store.Len())
	}
	if last := store.Segments()[2]; last.Doc.ID != "c" || last.ZOffset != -25 {
		t.Errorf("third segment = %q at %f, expected c at -25", last.Doc.ID, last.ZOffset)
	}
}

func TestTilerBoundedRetryOnExhaustedSource(t *testing.T) {
	cam := &fakeCam{z: 0}
	tiler, store, src := newTiler(
		NewSliceSource(mkdoc("a", 5)),
		cam,
		TilerConfig{LookAhead: 50, CullBehind: 60, Enabled: true},
	)

	// One successful spawn, then the source is dry while the window still
	// wants content. The retry budget caps the attempts for this tick.
	tiler.Tick()
	if store.Len() != 1 {
		t.Fatalf("Len() = %d, expected 1", store.Len())
	}
	if src.calls != spawnRetryMax {
		t.Errorf("spawn attempts = %d, expected the retry budget %d", src.calls, spawnRetryMax)
	}

	// Every further tick burns at most one budget, never spins.
	tiler.Tick()
	if src.calls != 2*spawnRetryMax {
		t.Errorf("spawn attempts after second tick = %d, expected %d", src.calls, 2*spawnRetryMax)
	}
}

func TestTilerBreaksEarlyWhenNothingLive(t *testing.T) {
	cam := &fakeCam{z: 0}
	tiler, store, src := newTiler(
		NewSliceSource(),
		cam,
		TilerConfig{LookAhead: 20, CullBehind: 30, Enabled: true},
	)

	tiler.Tick()

	// Empty source, empty live set: one probe, then the early break.
	if src.calls != 1 {
		t.Errorf("spawn attempts = %d, expected 1", src.calls)
	}
	if store.Len() != 0 {
		t.Errorf("Len() = %d, expected 0", store.Len())
	}
}

func TestTilerZeroDepthHitsSafetyValve(t *testing.T) {
	docs := make([]*Document, 0, 32)
	for i := 0; i < 32; i++ {
		docs = append(docs, mkdoc("flat", 0))
	}
	cam := &fakeCam{z: 0}
	tiler, store, src := newTiler(
		NewSliceSource(docs...),
		cam,
		TilerConfig{LookAhead: 20, CullBehind: 30, Enabled: true},
	)

	tiler.Tick()

	// Zero-depth segments never move the frontier; the retry budget is
	// what stops the tick.
	if src.calls != spawnRetryMax {
		t.Errorf("spawn attempts = %d, expected %d", src.calls, spawnRetryMax)
	}
	if store.Len() != spawnRetryMax {
		t.Errorf("Len() = %d, expected %d", store.Len(), spawnRetryMax)
	}
}

func TestTilerCullsBehindView(t *testing.T) {
	cam := &fakeCam{z: 0}
	tiler, store, _ := newTiler(
		NewSliceSource(mkdoc("a", 10), mkdoc("b", 15)),
		cam,
		TilerConfig{LookAhead: 20, CullBehind: 30, Enabled: true},
	)

	tiler.Tick()
	if store.Len() != 2 {
		t.Fatalf("setup: Len() = %d, expected 2", store.Len())
	}

	// Move far forward: a (entry 0) is now 45 behind, b (entry -10) is 35
	// behind, both past the 30-unit margin.
	cam.z = -45
	tiler.Tick()

	for _, seg := range store.Segments() {
		if seg.Doc.ID == "a" || seg.Doc.ID == "b" {
			t.Errorf("segment %q should have been culled", seg.Doc.ID)
		}
	}
}

func TestTilerCullRespectsMargin(t *testing.T) {
	cam := &fakeCam{z: 0}
	tiler, store, _ := newTiler(
		NewSliceSource(mkdoc("a", 10), mkdoc("b", 15), mkdoc("c", 10), mkdoc("d", 10)),
		cam,
		TilerConfig{LookAhead: 20, CullBehind: 30, Enabled: true},
	)

	tiler.Tick()

	// a's entry edge is at 0; at view -29 it is within the margin, at -31
	// it is past it.
	cam.z = -29
	tiler.Tick()
	if got := store.Segments()[0].Doc.ID; got != "a" {
		t.Errorf("first live segment = %q, expected a still alive at 29 behind", got)
	}

	cam.z = -31
	tiler.Tick()
	if got := store.Segments()[0].Doc.ID; got == "a" {
		t.Error("a should be culled once its entry edge is 31 behind the view")
	}
}

func TestTilerDisabledAndUninitialized(t *testing.T) {
	cam := &fakeCam{z: 0}
	tiler, store, src := newTiler(
		NewSliceSource(mkdoc("a", 10)),
		cam,
		TilerConfig{LookAhead: 20, CullBehind: 30, Enabled: false},
	)

	tiler.Tick()
	if src.calls != 0 || store.Len() != 0 {
		t.Error("disabled tiler must not touch the store")
	}

	tiler.SetEnabled(true)
	tiler.Tick()
	if store.Len() != 1 {
		t.Error("enabling the tiler should resume streaming")
	}

	// A tiler over an uninitialized store skips too.
	bare := NewTiler(NewStore(), cam, TilerConfig{LookAhead: 20, CullBehind: 30, Enabled: true})
	bare.Tick() // Must not panic
}

func TestTilerFollowOffsetShiftsWindow(t *testing.T) {
	cam := &fakeCam{z: 0}
	tiler, store, _ := newTiler(
		NewSliceSource(mkdoc("a", 10), mkdoc("b", 15), mkdoc("c", 10)),
		cam,
		TilerConfig{LookAhead: 20, CullBehind: 30, FollowOffset: -10, Enabled: true},
	)

	// View center sits at -10, so the window wants content down to -30:
	// a and b (frontier -25) are not enough, c gets spawned too.
	tiler.Tick()
	if store.Len() != 3 {
		t.Errorf("Len() = %d with follow offset, expected 3", store.Len())
	}
	if tiler.ViewCenterZ() != -10 {
		t.Errorf("ViewCenterZ() = %f, expected -10", tiler.ViewCenterZ())
	}
}

func TestTilerRenderWalksNodes(t *testing.T) {
	cam := &fakeCam{z: 0}
	docA := &Document{Version: 1, ID: "a", Nodes: []Node{
		{ID: "a1", Type: NodeWall, Z: 4, Props: map[string]float64{"w": 2, "h": 3}},
		{ID: "a2", Type: NodeBeacon, Z: 9},
	}}
	docB := &Document{Version: 1, ID: "b", Nodes: []Node{
		{ID: "b1", Type: NodeSpire, Z: 2, Props: map[string]float64{"w": 1, "h": 4}},
	}}
	tiler, store, _ := newTiler(
		NewSliceSource(docA, docB),
		cam,
		TilerConfig{LookAhead: 15, CullBehind: 30, Enabled: true},
	)
	tiler.Tick()
	if store.Len() != 2 {
		t.Fatalf("setup: Len() = %d, expected 2", store.Len())
	}

	type drawn struct {
		id     string
		worldZ float64
	}
	var calls []drawn
	tiler.Render(func(worldZ float64, n *Node) {
		calls = append(calls, drawn{id: n.ID, worldZ: worldZ})
	})

	// a sits at entry 0 (depth 10), b at entry -10: node world z is the
	// entry edge minus the local offset.
	want := []drawn{
		{id: "a1", worldZ: -4},
		{id: "a2", worldZ: -9},
		{id: "b1", worldZ: -12},
	}
	if len(calls) != len(want) {
		t.Fatalf("draw calls = %d, expected %d", len(calls), len(want))
	}
	for i, w := range want {
		if calls[i] != w {
			t.Errorf("draw %d = %+v, expected %+v", i, calls[i], w)
		}
	}

	// Disabled tiler renders nothing.
	tiler.SetEnabled(false)
	calls = calls[:0]
	tiler.Render(func(float64, *Node) { calls = append(calls, drawn{}) })
	if len(calls) != 0 {
		t.Error("disabled tiler should not render")
	}
}
