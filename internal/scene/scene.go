package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/iburimskiy/singularity/internal/geom"
)

// RingCount is the number of layers the emblem is made of.
const RingCount = 5

var (
	ErrRingCount      = errors.New("scene: wrong number of rings")
	ErrDuplicateDepth = errors.New("scene: rings share a depth")
	ErrInvalidRing    = errors.New("scene: invalid ring")
)

// Options tune the scene-wide controllers. Zero values pick the defaults.
type Options struct {
	SpinUpDuration  time.Duration
	SpinUpFactor    float64
	MaxTilt         float64
	EmissiveDivisor float64
	Factory         *geom.Factory
	Logger          *slog.Logger
}

func (o *Options) setDefaults() {
	if o.SpinUpDuration == 0 {
		o.SpinUpDuration = DefaultSpinUpDuration
	}
	if o.SpinUpFactor == 0 {
		o.SpinUpFactor = DefaultSpinUpFactor
	}
	if o.MaxTilt == 0 || math.Abs(o.MaxTilt) > DefaultMaxTilt {
		o.MaxTilt = DefaultMaxTilt
	}
	if o.EmissiveDivisor == 0 {
		o.EmissiveDivisor = DefaultEmissiveDivisor
	}
	if o.Factory == nil {
		o.Factory = geom.NewFactory()
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
}

// Scene is the composed emblem: a group node owning five rings.
type Scene struct {
	Group *geom.Node
	Rings []*Ring

	opts    Options
	tilt    *TiltController
	spinUp  *SpinUp
	mounted bool
	log     *slog.Logger
}

// Compose validates specs and builds the rings. The scene is not mounted
// and does not animate until Mount is called.
func Compose(specs []RingSpec, opts Options) (*Scene, error) {
	if len(specs) != RingCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrRingCount, len(specs), RingCount)
	}
	depths := make(map[float64]string, len(specs))
	for _, s := range specs {
		if err := validateSpec(s); err != nil {
			return nil, err
		}
		if other, ok := depths[s.Position.Z]; ok {
			return nil, fmt.Errorf("%w: %q and %q at z=%v", ErrDuplicateDepth, other, s.Name, s.Position.Z)
		}
		depths[s.Position.Z] = s.Name
	}

	opts.setDefaults()
	s := &Scene{
		Group: geom.NewNode("singularity"),
		opts:  opts,
		tilt:  NewTiltController(opts.MaxTilt),
		log:   opts.Logger,
	}
	for _, spec := range specs {
		r := NewRing(spec, opts.Factory)
		r.divisor = opts.EmissiveDivisor
		s.Rings = append(s.Rings, r)
	}
	return s, nil
}

func validateSpec(s RingSpec) error {
	switch {
	case s.Radius <= 0:
		return fmt.Errorf("%w: %q radius %v must be positive", ErrInvalidRing, s.Name, s.Radius)
	case s.Tube <= 0:
		return fmt.Errorf("%w: %q tube %v must be positive", ErrInvalidRing, s.Name, s.Tube)
	case s.Speed < 0:
		return fmt.Errorf("%w: %q speed %v must not be negative", ErrInvalidRing, s.Name, s.Speed)
	case s.GlowIntensity < 0:
		return fmt.Errorf("%w: %q glow %v must not be negative", ErrInvalidRing, s.Name, s.GlowIntensity)
	}
	return nil
}

// Mount attaches every ring under the group and starts the spin-up at now.
// Calling it again has no effect.
func (s *Scene) Mount(now time.Time) {
	if s.mounted {
		return
	}
	s.mounted = true

	nominal := make([]float64, len(s.Rings))
	for i, r := range s.Rings {
		r.Mount(s.Group)
		nominal[i] = r.Spec().Speed
	}

	s.spinUp = NewSpinUp(now, nominal, s.opts.SpinUpFactor, s.opts.SpinUpDuration)
	for i, v := range s.spinUp.InitialSpeeds() {
		s.Rings[i].SetSpeed(v)
	}
	s.log.Debug("scene mounted", "rings", len(s.Rings), "spinup", s.opts.SpinUpDuration)
}

func (s *Scene) Mounted() bool { return s.mounted }

// Tick runs one frame: the spin-up (while active) sets speeds, then every
// ring advances by dt seconds.
func (s *Scene) Tick(now time.Time, dt float64) {
	if s.spinUp != nil && !s.spinUp.Advance(now, s.Rings) {
		s.spinUp = nil
		s.log.Debug("spin-up finished")
	}
	for _, r := range s.Rings {
		r.Update(dt)
	}
}

// Phase reports the spin-up phase. An unmounted scene is still spinning up.
func (s *Scene) Phase() SpinPhase {
	if s.mounted && s.spinUp == nil {
		return Steady
	}
	return SpinningUp
}

// PointerMoved tilts the group toward the pointer.
func (s *Scene) PointerMoved(px, py, width, height float64) Tilt {
	t := s.tilt.PointerMoved(px, py, width, height)
	s.tilt.Apply(s.Group)
	return t
}

func (s *Scene) Tilt() Tilt { return s.tilt.Tilt() }

// SetGlowIntensity changes the glow of every ring.
func (s *Scene) SetGlowIntensity(v float64) {
	for _, r := range s.Rings {
		r.SetGlowIntensity(v)
	}
}

// MeanSpeedRatio is the average of speed/nominal over rings with a
// non-zero nominal speed: SpinUpFactor at mount, 1 once steady.
func (s *Scene) MeanSpeedRatio() float64 {
	var sum float64
	var n int
	for _, r := range s.Rings {
		nominal := r.Spec().Speed
		if nominal == 0 {
			continue
		}
		sum += r.Speed() / nominal
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// SpinUpFactor is the configured opening multiplier.
func (s *Scene) SpinUpFactor() float64 { return s.opts.SpinUpFactor }
