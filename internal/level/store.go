package level

import "math"

// Segment is one live placed level chunk. ZOffset is the entry (trailing)
// edge; the content extends forward to ZOffset - Depth.
type Segment struct {
	ID      int64
	Doc     *Document
	ZOffset float64
	Depth   float64
}

// Store owns the live segment set. It pulls parsed documents from a
// Source, places each at the current streaming frontier, and removes
// segments on request. All methods are single-goroutine: the simulation
// tick owns the store, and the only asynchrony (content loading) stays
// behind the Source boundary.
type Store struct {
	src         Source
	segments    []*Segment
	nextID      int64
	initialized bool
	closed      bool
}

// NewStore creates an empty, uninitialized store.
func NewStore() *Store {
	return &Store{}
}

// Initialize attaches the content source and marks the store ready.
// Idempotent: once initialized, later calls are no-ops, so a mid-run
// reconfiguration cannot yank content out from under live segments.
func (s *Store) Initialize(src Source) {
	if s.initialized || src == nil {
		return
	}
	s.src = src
	s.initialized = true
}

// Initialized reports whether the store has a content source.
func (s *Store) Initialized() bool {
	return s.initialized
}

// SpawnNext pulls the next document and places it at the current frontier.
// Returns false without changing state when the store is not initialized,
// has been closed, or the source has nothing ready (pending load or
// exhausted list). Failure is deliberately quiet: the tiler's bounded
// retry loop depends on failed spawns being cheap no-ops.
func (s *Store) SpawnNext() bool {
	if !s.initialized || s.closed {
		return false
	}
	doc, ok := s.src.Next()
	if !ok || doc == nil {
		return false
	}
	s.nextID++
	s.segments = append(s.segments, &Segment{
		ID:      s.nextID,
		Doc:     doc,
		ZOffset: s.Frontier(),
		Depth:   doc.Depth(),
	})
	return true
}

// Frontier returns the current streaming edge: the minimum of
// zOffset - depth over live segments, or 0 when none exist. Recomputed
// from the live set every time because culling removes segments out of
// spawn order, which makes any incrementally tracked edge unreliable.
func (s *Store) Frontier() float64 {
	if len(s.segments) == 0 {
		return 0
	}
	frontier := math.Inf(1)
	for _, seg := range s.segments {
		if edge := seg.ZOffset - seg.Depth; edge < frontier {
			frontier = edge
		}
	}
	return frontier
}

// Cull removes the segment with the given id unconditionally. The caller
// owns the distance test. Unknown ids are ignored.
func (s *Store) Cull(id int64) {
	for i, seg := range s.segments {
		if seg.ID == id {
			s.segments = append(s.segments[:i], s.segments[i+1:]...)
			return
		}
	}
}

// Segments returns the live segments in spawn order. Culling removes from
// the middle, so this is not spatial order. The slice is the store's own
// backing array; callers must treat it as a read-only snapshot for the
// current frame.
func (s *Store) Segments() []*Segment {
	return s.segments
}

// Len returns the number of live segments.
func (s *Store) Len() int {
	return len(s.segments)
}

// Close tears the store down: the source is closed (abandoning any
// in-flight load) and every later SpawnNext is a no-op, so nothing
// mutates the store after teardown.
func (s *Store) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if c, ok := s.src.(interface{ Close() error }); ok {
		c.Close()
	}
}
