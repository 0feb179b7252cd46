// Package sweep turns raw cursor positions into smoothed sweep velocities
// and a short history of sweep segments. The game uses the velocity to gate
// hover-pops (slow hovers must not count as sweeps) and the segment history
// for hit tests and trail rendering.
package sweep

import (
	"math"
	"time"
)

const (
	// ringCap is the number of sweep segments kept in history. Power of two
	// so the slot index is a cheap modulo.
	ringCap = 128

	// maxSpeed clamps instantaneous velocities before blending. Terminal
	// mouse reporting can legitimately jump many cells between events;
	// anything above this is treated as that magnitude.
	maxSpeed = 12000.0

	// blend is the weight of the newest sample in the exponential blend.
	// High on purpose: the smoothed value should track the raw speed
	// closely and the blend only knocks down single-event jitter.
	blend = 0.85

	// decayRate is the per-second exponential decay applied every tick,
	// so the smoothed velocity falls off quickly once the cursor stops.
	decayRate = 8.0

	// maxGap is the largest pause between samples that still counts as a
	// continuous sweep. Longer pauses restart tracking at the new position
	// instead of manufacturing a huge teleport velocity.
	maxGap = 100 * time.Millisecond
)

// Segment is one recorded cursor movement between two consecutive samples.
// Besides the endpoints it carries the velocities measured when it was
// recorded, so hit tests can judge each segment on its own speed instead
// of whatever the sampler aggregates read later.
type Segment struct {
	Seq   uint64    // Validity tag; also the global ordering
	FromX float64   // Start position
	FromY float64
	ToX   float64   // End position
	ToY   float64
	At    time.Time // Timestamp of the end sample
	Speed float64   // Instantaneous speed magnitude, cells/sec, clamped
	VelX  float64   // Smoothed horizontal velocity as of this segment, signed
}

// Sampler accumulates cursor samples into smoothed sweep velocities and a
// fixed-size segment history. It is single-goroutine by design: all calls
// come from the simulation tick.
type Sampler struct {
	ring [ringCap]Segment
	seq  uint64 // Last assigned segment sequence; 0 means none yet

	lastX, lastY float64
	lastAt       time.Time
	tracking     bool

	speed float64 // Smoothed scalar speed, cells/sec
	velX  float64 // Smoothed horizontal velocity, cells/sec, signed
}

// NewSampler creates an idle sampler.
func NewSampler() *Sampler {
	return &Sampler{}
}

// Update feeds one cursor sample. Continuous movement (a previous sample
// strictly less than maxGap ago) records a sweep segment and folds the
// measured velocity into the smoothed values. The first sample after a gap
// only re-anchors tracking. Duplicate timestamps are ignored outright.
func (s *Sampler) Update(x, y float64, at time.Time) {
	if !s.tracking {
		s.lastX, s.lastY, s.lastAt = x, y, at
		s.tracking = true
		return
	}

	elapsed := at.Sub(s.lastAt)
	if elapsed <= 0 {
		return
	}
	if elapsed >= maxGap {
		// Stale gap: re-anchor, no velocity sample. Without this, a
		// cursor re-entering after a pause would register a teleport
		// as one enormous sweep.
		s.lastX, s.lastY, s.lastAt = x, y, at
		return
	}

	sec := elapsed.Seconds()
	dx := x - s.lastX
	dy := y - s.lastY
	instSpeed := math.Min(math.Hypot(dx, dy)/sec, maxSpeed)
	instVelX := clampAbs(dx/sec, maxSpeed)

	s.speed += (instSpeed - s.speed) * blend
	s.velX += (instVelX - s.velX) * blend

	// Sequence is incremented before the slot write, so the first segment
	// ever recorded carries seq 1 and seq 0 stays an always-invalid read.
	s.seq++
	s.ring[s.seq%ringCap] = Segment{
		Seq:   s.seq,
		FromX: s.lastX,
		FromY: s.lastY,
		ToX:   x,
		ToY:   y,
		At:    at,
		Speed: instSpeed,
		VelX:  s.velX,
	}

	s.lastX, s.lastY, s.lastAt = x, y, at
}

// Decay applies the per-tick exponential falloff to the smoothed
// velocities. Called every simulation tick whether or not the cursor moved.
func (s *Sampler) Decay(dt float64) {
	if dt <= 0 {
		return
	}
	k := math.Exp(-decayRate * dt)
	s.speed *= k
	s.velX *= k
}

// Speed returns the current smoothed scalar sweep speed in cells/sec.
func (s *Sampler) Speed() float64 {
	return s.speed
}

// VelX returns the current smoothed horizontal velocity in cells/sec.
// Negative values mean leftward movement.
func (s *Sampler) VelX() float64 {
	return s.velX
}

// Latest returns the sequence of the most recent segment, 0 if none.
func (s *Sampler) Latest() uint64 {
	return s.seq
}

// Read copies the segment with the given sequence into out and reports
// whether it is still available. Reads fail for seq 0, sequences never
// assigned, and sequences whose ring slot has been overwritten by a newer
// segment.
func (s *Sampler) Read(seq uint64, out *Segment) bool {
	if seq == 0 || seq > s.seq {
		return false
	}
	stored := &s.ring[seq%ringCap]
	if stored.Seq != seq {
		return false
	}
	*out = *stored
	return true
}

// Reset returns the sampler to its idle state. Ring contents become
// unreachable through Read once seq is 0, so they are not cleared.
func (s *Sampler) Reset() {
	s.seq = 0
	s.tracking = false
	s.speed = 0
	s.velX = 0
}

func clampAbs(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
