package level

// Camera exposes the rig position along the depth axis. Read-only from
// the tiler's perspective; the game owns camera movement.
type Camera interface {
	Position() float64
}

// spawnRetryMax bounds spawn attempts within a single tick. Without it a
// pathological setup (zero-depth documents, a look-ahead far beyond any
// segment depth, a source that never becomes ready) would spin inside one
// frame. A safety valve, not a tuning knob.
const spawnRetryMax = 10

// TilerConfig carries the streaming distances.
type TilerConfig struct {
	LookAhead    float64 // Keep content at least this far ahead of the view center
	CullBehind   float64 // Remove segments whose entry edge is this far behind
	FollowOffset float64 // Rig-to-view-center adjustment along the depth axis
	Enabled      bool
}

// Tiler runs the per-frame streaming loop: measure the frontier, spawn
// until the look-ahead window is covered, cull what fell behind. It owns
// no content and no placement math beyond distances; those live in the
// store.
type Tiler struct {
	store *Store
	cam   Camera
	cfg   TilerConfig

	cullScratch []int64 // Reused id buffer for the cull pass
}

// NewTiler wires a tiler to its store and camera.
func NewTiler(store *Store, cam Camera, cfg TilerConfig) *Tiler {
	return &Tiler{store: store, cam: cam, cfg: cfg}
}

// SetEnabled toggles the streaming loop. A disabled tiler leaves the live
// set exactly as it is.
func (t *Tiler) SetEnabled(on bool) {
	t.cfg.Enabled = on
}

// Enabled reports whether the streaming loop runs.
func (t *Tiler) Enabled() bool {
	return t.cfg.Enabled
}

// ViewCenterZ is the camera rig position adjusted by the follow offset,
// i.e. the point the streaming window is centered on.
func (t *Tiler) ViewCenterZ() float64 {
	return t.cam.Position() + t.cfg.FollowOffset
}

// Tick runs one streaming step. Call once per simulation frame.
func (t *Tiler) Tick() {
	if !t.cfg.Enabled || !t.store.Initialized() {
		return
	}

	viewZ := t.ViewCenterZ()

	// Spawn until the frontier covers the look-ahead window. The retry
	// cap and the empty-list break both terminate the loop when the
	// source cannot deliver (exhausted, or content not ready yet).
	frontier := t.store.Frontier()
	for retries := spawnRetryMax; frontier > viewZ-t.cfg.LookAhead && retries > 0; retries-- {
		t.store.SpawnNext()
		frontier = t.store.Frontier()
		if t.store.Len() == 0 {
			break
		}
	}

	// Cull whatever fell behind the view. Ids are collected first so the
	// live list is not mutated while being walked.
	t.cullScratch = t.cullScratch[:0]
	for _, seg := range t.store.Segments() {
		if seg.ZOffset > viewZ+t.cfg.CullBehind {
			t.cullScratch = append(t.cullScratch, seg.ID)
		}
	}
	for _, id := range t.cullScratch {
		t.store.Cull(id)
	}
}

// Render walks the live segments in spawn order and hands every node to
// draw together with its resolved world position (segment entry offset
// minus the node's local z). Rendering itself belongs to the caller; the
// tiler only knows placement.
func (t *Tiler) Render(draw func(worldZ float64, n *Node)) {
	if !t.cfg.Enabled {
		return
	}
	for _, seg := range t.store.Segments() {
		for i := range seg.Doc.Nodes {
			n := &seg.Doc.Nodes[i]
			draw(seg.ZOffset-n.Z, n)
		}
	}
}
