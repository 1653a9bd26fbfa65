package scene

import (
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/singularity/internal/geom"
)

func TestSpinUpMidpoint(t *testing.T) {
	start := time.Unix(0, 0)
	s := NewSpinUp(start, []float64{0.05}, 100, time.Second)

	if got := s.InitialSpeeds()[0]; math.Abs(got-5.0) > eps {
		t.Fatalf("initial speed = %v, want 5.0", got)
	}
	got := s.Speeds(start.Add(500 * time.Millisecond))[0]
	if math.Abs(got-2.525) > eps {
		t.Errorf("speed at 500ms = %v, want 2.525", got)
	}
}

func TestSpinUpProgressClamps(t *testing.T) {
	start := time.Unix(0, 0)
	s := NewSpinUp(start, []float64{1}, 100, time.Second)

	tests := []struct {
		at   time.Duration
		want float64
	}{
		{-time.Second, 0},
		{0, 0},
		{250 * time.Millisecond, 0.25},
		{time.Second, 1},
		{1001 * time.Millisecond, 1},
		{time.Hour, 1},
	}
	for _, tt := range tests {
		if got := s.Progress(start.Add(tt.at)); math.Abs(got-tt.want) > eps {
			t.Errorf("Progress(%v) = %v, want %v", tt.at, got, tt.want)
		}
	}

	// Re-evaluating after the clamp point is stable.
	late := start.Add(3 * time.Second)
	if s.Progress(late) != 1 || s.Progress(late) != s.Progress(late.Add(time.Minute)) {
		t.Error("progress is not idempotent after clamping")
	}
}

func TestSpinUpZeroDuration(t *testing.T) {
	s := NewSpinUp(time.Unix(0, 0), []float64{0.5}, 100, 0)
	if got := s.Progress(time.Unix(0, 0)); got != 1 {
		t.Errorf("Progress() = %v with zero duration, want 1", got)
	}
}

func TestSpinUpMonotonic(t *testing.T) {
	nominal := []float64{0.05, 0.02, 0.1, 0.25, 0.5}
	start := time.Unix(0, 0)
	s := NewSpinUp(start, nominal, 100, time.Second)

	prev := s.InitialSpeeds()
	for ms := 0; ms <= 1200; ms += 16 {
		cur := s.Speeds(start.Add(time.Duration(ms) * time.Millisecond))
		for i := range cur {
			if cur[i] > prev[i]+eps {
				t.Fatalf("ring %d sped up at %dms: %v -> %v", i, ms, prev[i], cur[i])
			}
			if cur[i] < nominal[i]-eps {
				t.Fatalf("ring %d undershot nominal at %dms: %v", i, ms, cur[i])
			}
		}
		prev = cur
	}
	for i := range prev {
		if prev[i] != nominal[i] {
			t.Errorf("ring %d final speed = %v, want exactly %v", i, prev[i], nominal[i])
		}
	}
}

func TestSpinUpDroppedFramesLandOnNominal(t *testing.T) {
	specs := testSpecs()
	f := geom.NewFactory()
	rings := make([]*Ring, len(specs))
	nominal := make([]float64, len(specs))
	for i, spec := range specs {
		rings[i] = NewRing(spec, f)
		nominal[i] = spec.Speed
	}

	start := time.Unix(0, 0)
	s := NewSpinUp(start, nominal, 100, time.Second)

	if !s.Advance(start.Add(100*time.Millisecond), rings) {
		t.Fatal("Advance() finished early")
	}
	// One tick far past the end, as after a stall.
	if s.Advance(start.Add(2700*time.Millisecond), rings) {
		t.Fatal("Advance() still running past the duration")
	}
	if s.Phase() != Steady {
		t.Fatalf("Phase() = %v, want steady", s.Phase())
	}
	for i, r := range rings {
		if r.Speed() != nominal[i] {
			t.Errorf("ring %d speed = %v, want exactly %v", i, r.Speed(), nominal[i])
		}
	}
}

func TestSpinUpSteadyIsTerminal(t *testing.T) {
	rings := []*Ring{NewRing(testSpecs()[0], geom.NewFactory())}
	start := time.Unix(0, 0)
	s := NewSpinUp(start, []float64{0.05}, 100, time.Second)
	s.Advance(start.Add(time.Second), rings)

	// Later ticks, even with a clock that jumps backward, leave speeds alone.
	for _, at := range []time.Duration{2 * time.Second, 10 * time.Second, 0} {
		if s.Advance(start.Add(at), rings) {
			t.Fatalf("Advance(%v) re-entered spin-up", at)
		}
		if rings[0].Speed() != 0.05 {
			t.Fatalf("speed changed to %v after steady", rings[0].Speed())
		}
	}
}

func TestSpinPhaseString(t *testing.T) {
	if SpinningUp.String() != "spinning-up" || Steady.String() != "steady" {
		t.Errorf("unexpected phase names: %q, %q", SpinningUp, Steady)
	}
}
