// Package audio synthesizes the game's sound effects and plays them
// through the system speaker. All tones are generated procedurally so
// the binary ships without asset files.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

const (
	defaultSampleRate = 44100
	defaultVoices     = 4

	popDuration   = time.Millisecond * 90
	crashDuration = time.Millisecond * 350
)

// Engine mixes short synthesized effects. Playback slots are bounded:
// when every voice is busy the oldest one is stolen, so a burst of pops
// can never pile up unbounded streamers in the mixer.
type Engine struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	voices      []*beep.Ctrl
	next        int
	sampleRate  beep.SampleRate
	initialized bool
}

// NewEngine creates an engine for the given sample rate and voice
// count. Non-positive values fall back to sensible defaults.
func NewEngine(sampleRate, voices int) *Engine {
	if sampleRate <= 0 {
		sampleRate = defaultSampleRate
	}
	if voices <= 0 {
		voices = defaultVoices
	}
	return &Engine{
		mixer:      &beep.Mixer{},
		voices:     make([]*beep.Ctrl, voices),
		sampleRate: beep.SampleRate(sampleRate),
	}
}

// Initialize opens the speaker and starts the mixer. Safe to call more
// than once. Initialization can fail on machines without an audio
// device; callers should treat that as non-fatal.
func (e *Engine) Initialize() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	if err := speaker.Init(e.sampleRate, e.sampleRate.N(time.Millisecond*100)); err != nil {
		return fmt.Errorf("failed to initialize speaker: %w", err)
	}
	speaker.Play(e.mixer)
	e.initialized = true
	return nil
}

// Cleanup silences all voices and detaches them from the mixer. The
// engine can be re-initialized afterwards.
func (e *Engine) Cleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	speaker.Lock()
	for i, v := range e.voices {
		if v != nil {
			v.Streamer = nil
			e.voices[i] = nil
		}
	}
	speaker.Unlock()
	e.initialized = false
}

// PlayPop plays the bright blip used when a sweep bursts an orb.
func (e *Engine) PlayPop() {
	e.play(beep.Take(e.sampleRate.N(popDuration), newPopTone(e.sampleRate)))
}

// PlayCrash plays the noise burst used when the glider hits terrain.
func (e *Engine) PlayCrash() {
	e.play(beep.Take(e.sampleRate.N(crashDuration), newCrashTone(e.sampleRate)))
}

// play claims the next voice slot for s. A streamer that drained on its
// own has already been dropped by the mixer, so nilling it out is a
// no-op; a still-running one gets cut off mid-note.
func (e *Engine) play(s beep.Streamer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	ctrl := &beep.Ctrl{Streamer: s}
	speaker.Lock()
	if old := e.voices[e.next]; old != nil {
		old.Streamer = nil
	}
	e.mixer.Add(ctrl)
	speaker.Unlock()
	e.voices[e.next] = ctrl
	e.next = (e.next + 1) % len(e.voices)
}
