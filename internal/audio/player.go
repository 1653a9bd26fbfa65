package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/effects"
	"github.com/faiface/beep/speaker"
)

// Player routes the hum to the speaker: hum -> volume -> ctrl.
type Player struct {
	Hum *Hum

	ctrl        *beep.Ctrl
	volume      *effects.Volume
	initialized bool
}

// NewPlayer builds the chain paused; nothing reaches the speaker until
// SetEnabled(true).
func NewPlayer(volume float64) *Player {
	hum := NewHum(SampleRate)
	vol := newVolume(hum, volume)
	return &Player{
		Hum:    hum,
		volume: vol,
		ctrl:   &beep.Ctrl{Streamer: vol, Paused: true},
	}
}

// newVolume maps a linear volume onto beep's log2 scale; 0 is silent.
func newVolume(s beep.Streamer, vol float64) *effects.Volume {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}

func (p *Player) init() error {
	if p.initialized {
		return nil
	}
	if err := speaker.Init(SampleRate, SampleRate.N(time.Second/20)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.ctrl)
	p.initialized = true
	return nil
}

// SetEnabled starts or pauses the hum, opening the speaker on first use.
func (p *Player) SetEnabled(on bool) error {
	if on {
		if err := p.init(); err != nil {
			return err
		}
	}
	if !p.initialized {
		return nil
	}
	speaker.Lock()
	p.ctrl.Paused = !on
	speaker.Unlock()
	return nil
}

// Enabled reports whether the hum is audible.
func (p *Player) Enabled() bool {
	if !p.initialized {
		return false
	}
	speaker.Lock()
	defer speaker.Unlock()
	return !p.ctrl.Paused
}

// Close silences the speaker.
func (p *Player) Close() {
	if !p.initialized {
		return
	}
	speaker.Lock()
	p.ctrl.Paused = true
	speaker.Unlock()
	speaker.Clear()
}
