// Package audio plays an optional drone that follows the rings: high and
// loud while they spin up, settling into a low hum at steady speed.
package audio

import (
	"math"
	"sync"

	"github.com/faiface/beep"
)

const (
	SampleRate = beep.SampleRate(44100)

	baseFreq  = 55.0
	peakFreq  = 440.0
	glideRate = 4.0 // fraction of the gap closed per second
)

// Hum generates the drone. SetLevel is called from the game loop while
// Stream runs on the speaker goroutine.
type Hum struct {
	sr beep.SampleRate

	mu     sync.Mutex
	target float64
	freq   float64
	phase  float64
}

func NewHum(sr beep.SampleRate) *Hum {
	return &Hum{sr: sr, freq: baseFreq}
}

// SetLevel sets the intensity in [0, 1]: 1 is the opening spin, 0 steady.
func (h *Hum) SetLevel(level float64) {
	level = math.Max(0, math.Min(1, level))
	h.mu.Lock()
	h.target = baseFreq + (peakFreq-baseFreq)*level
	h.mu.Unlock()
}

// Frequency is the current pitch in Hz.
func (h *Hum) Frequency() float64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.freq
}

// Stream fills samples with a sine plus a soft octave, gliding the pitch
// toward the target. It never ends.
func (h *Hum) Stream(samples [][2]float64) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.target == 0 {
		h.target = baseFreq
	}
	dt := 1 / float64(h.sr)
	k := 1 - math.Exp(-glideRate*dt)
	for i := range samples {
		h.freq += (h.target - h.freq) * k
		h.phase += 2 * math.Pi * h.freq * dt
		if h.phase > 2*math.Pi {
			h.phase -= 2 * math.Pi
		}
		amp := 0.6 + 0.4*(h.freq-baseFreq)/(peakFreq-baseFreq)
		v := amp * (0.8*math.Sin(h.phase) + 0.2*math.Sin(2*h.phase))
		samples[i][0] = v
		samples[i][1] = v
	}
	return len(samples), true
}

func (h *Hum) Err() error { return nil }

// LevelFor maps a mean speed ratio (1 = nominal, factor = opening spin)
// onto a hum level on a log scale.
func LevelFor(ratio, factor float64) float64 {
	if ratio <= 1 || factor <= 1 {
		return 0
	}
	return math.Min(1, math.Log(ratio)/math.Log(factor))
}
