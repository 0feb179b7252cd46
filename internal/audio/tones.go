package audio

import (
	"math"

	"github.com/gopxl/beep"
)

// popTone is a short upward chirp with a fast exponential fade. The
// phase is integrated sample by sample so the frequency sweep stays
// click-free.
type popTone struct {
	sampleRate beep.SampleRate
	position   int
	phase      float64
}

func newPopTone(sr beep.SampleRate) *popTone {
	return &popTone{sampleRate: sr}
}

func (p *popTone) Stream(samples [][2]float64) (n int, ok bool) {
	sweep := popDuration.Seconds()
	for i := range samples {
		t := float64(p.position) / float64(p.sampleRate)
		progress := t / sweep
		if progress > 1 {
			progress = 1
		}
		freq := 520.0 + 360.0*progress
		p.phase += 2 * math.Pi * freq / float64(p.sampleRate)
		envelope := math.Exp(-t * 22.0)
		value := math.Sin(p.phase) * envelope * 0.4
		samples[i][0] = value
		samples[i][1] = value
		p.position++
	}
	return len(samples), true
}

func (p *popTone) Err() error { return nil }

// crashTone layers white noise over a low rumble, both decaying. The
// noise source is a fixed-seed linear congruential generator, which
// keeps the crash identical from run to run.
type crashTone struct {
	sampleRate beep.SampleRate
	position   int
	noiseSeed  int64
}

func newCrashTone(sr beep.SampleRate) *crashTone {
	return &crashTone{sampleRate: sr, noiseSeed: 0x2F6E2B1}
}

func (c *crashTone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(c.position) / float64(c.sampleRate)

		c.noiseSeed = (c.noiseSeed*1103515245 + 12345) & 0x7fffffff
		noise := float64(c.noiseSeed)/float64(0x40000000) - 1.0

		rumble := math.Sin(2 * math.Pi * 60.0 * t)

		value := noise*0.35*math.Exp(-t*9.0) + rumble*0.25*math.Exp(-t*5.0)
		samples[i][0] = value
		samples[i][1] = value
		c.position++
	}
	return len(samples), true
}

func (c *crashTone) Err() error { return nil }
