package game

import (
	"sync"
	"time"
)

// frameStats records the last N frame intervals into a ring buffer so the
// HUD can show a smoothed frame rate.
type frameStats struct {
	buffer    []time.Duration
	nextIndex int
	filled    int
	last      time.Time
	mu        sync.RWMutex
}

func newFrameStats(ringSize int) *frameStats {
	return &frameStats{buffer: make([]time.Duration, ringSize)}
}

// tick records the interval since the previous tick. The first tick only
// sets the reference time.
func (s *frameStats) tick(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.last.IsZero() {
		s.buffer[s.nextIndex] = now.Sub(s.last)
		s.nextIndex++
		if s.nextIndex >= len(s.buffer) {
			s.nextIndex = 0
		}
		if s.filled < len(s.buffer) {
			s.filled++
		}
	}
	s.last = now
}

// fps is the mean rate over the recorded intervals, 0 before two ticks.
func (s *frameStats) fps() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total time.Duration
	for i := 0; i < s.filled; i++ {
		total += s.buffer[i]
	}
	if total <= 0 {
		return 0
	}
	return float64(s.filled) / total.Seconds()
}
