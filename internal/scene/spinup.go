package scene

import "time"

const (
	// DefaultSpinUpDuration is how long the opening wind-down lasts.
	DefaultSpinUpDuration = time.Second
	// DefaultSpinUpFactor multiplies nominal speed at mount.
	DefaultSpinUpFactor = 100
)

// SpinPhase is the state of the spin-up transition.
type SpinPhase int

const (
	// SpinningUp is the opening phase, from mount until the duration ends.
	SpinningUp SpinPhase = iota
	// Steady is terminal: rings turn at their nominal speeds.
	Steady
)

func (p SpinPhase) String() string {
	switch p {
	case SpinningUp:
		return "spinning-up"
	case Steady:
		return "steady"
	}
	return "unknown"
}

// SpinUp eases ring speeds from factor*nominal down to nominal over a
// fixed wall-clock duration. It runs once and never re-enters SpinningUp.
type SpinUp struct {
	start    time.Time
	duration time.Duration
	initial  []float64
	target   []float64
	phase    SpinPhase
}

// NewSpinUp starts a transition at start toward the nominal speeds.
func NewSpinUp(start time.Time, nominal []float64, factor float64, duration time.Duration) *SpinUp {
	s := &SpinUp{
		start:    start,
		duration: duration,
		initial:  make([]float64, len(nominal)),
		target:   append([]float64(nil), nominal...),
	}
	for i, v := range nominal {
		s.initial[i] = v * factor
	}
	return s
}

// Phase is the current phase as of the last Advance.
func (s *SpinUp) Phase() SpinPhase { return s.phase }

// InitialSpeeds returns the exaggerated opening speeds.
func (s *SpinUp) InitialSpeeds() []float64 { return append([]float64(nil), s.initial...) }

// Progress is min(elapsed/duration, 1), and 0 before start.
func (s *SpinUp) Progress(now time.Time) float64 {
	if s.duration <= 0 {
		return 1
	}
	elapsed := now.Sub(s.start)
	if elapsed <= 0 {
		return 0
	}
	p := float64(elapsed) / float64(s.duration)
	if p > 1 {
		return 1
	}
	return p
}

// Speeds returns the interpolated speed of every ring at now.
func (s *SpinUp) Speeds(now time.Time) []float64 {
	p := s.Progress(now)
	out := make([]float64, len(s.target))
	for i := range s.target {
		if p >= 1 {
			out[i] = s.target[i]
			continue
		}
		out[i] = s.initial[i] + (s.target[i]-s.initial[i])*p
	}
	return out
}

// Advance writes the speeds for now into rings (matched by index) and
// reports whether the transition is still running. Once it returns false
// the caller should drop the controller.
func (s *SpinUp) Advance(now time.Time, rings []*Ring) bool {
	if s.phase == Steady {
		return false
	}
	speeds := s.Speeds(now)
	for i, r := range rings {
		if i < len(speeds) {
			r.SetSpeed(speeds[i])
		}
	}
	if s.Progress(now) >= 1 {
		s.phase = Steady
		return false
	}
	return true
}
