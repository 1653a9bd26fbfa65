package scene

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/iburimskiy/singularity/internal/geom"
)

const eps = 1e-9

func testSpecs() []RingSpec {
	return []RingSpec{
		{Name: "upper", Radius: 1.75, Tube: 0.02, Position: geom.V(0, 0, 1.25), Speed: 0.05, GlowIntensity: 5},
		{Name: "outer", Radius: 2.25, Tube: 0.0025, Position: geom.V(0, 0, 0.75), Speed: 0.02, GlowIntensity: 5},
		{Name: "inner", Radius: 1.5, Tube: 0.02, Position: geom.V(0, 0, -0.25), Speed: 0.1, GlowIntensity: 5},
		{Name: "center", Radius: 1, Tube: 0.01, Position: geom.V(0, 0, -1), Speed: 0.25, GlowIntensity: 5},
		{Name: "singularity", Radius: 0.25, Tube: 0.025, Position: geom.V(0, 0, -1.25), Speed: 0.5, GlowIntensity: 5, P: 5, Q: 15},
	}
}

func mustCompose(t *testing.T) *Scene {
	t.Helper()
	s, err := Compose(testSpecs(), Options{})
	if err != nil {
		t.Fatalf("Compose() error: %v", err)
	}
	return s
}

func TestComposeValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]RingSpec) []RingSpec
		wantErr error
	}{
		{"too few", func(s []RingSpec) []RingSpec { return s[:4] }, ErrRingCount},
		{"too many", func(s []RingSpec) []RingSpec { return append(s, s[0]) }, ErrRingCount},
		{"shared depth", func(s []RingSpec) []RingSpec { s[1].Position.Z = s[0].Position.Z; return s }, ErrDuplicateDepth},
		{"zero radius", func(s []RingSpec) []RingSpec { s[2].Radius = 0; return s }, ErrInvalidRing},
		{"negative tube", func(s []RingSpec) []RingSpec { s[3].Tube = -1; return s }, ErrInvalidRing},
		{"negative speed", func(s []RingSpec) []RingSpec { s[4].Speed = -0.1; return s }, ErrInvalidRing},
		{"negative glow", func(s []RingSpec) []RingSpec { s[0].GlowIntensity = -1; return s }, ErrInvalidRing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compose(tt.mutate(testSpecs()), Options{})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compose() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestComposeBuildsFiveRings(t *testing.T) {
	s := mustCompose(t)
	if len(s.Rings) != RingCount {
		t.Fatalf("len(Rings) = %d, want %d", len(s.Rings), RingCount)
	}
	if len(s.Group.Children()) != 0 {
		t.Error("rings attached before Mount")
	}

	s.Mount(time.Unix(0, 0))
	// Each ring contributes a mesh node and a glow node.
	if got := len(s.Group.Children()); got != 2*RingCount {
		t.Errorf("group children = %d, want %d", got, 2*RingCount)
	}
	wantZ := []float64{1.25, 0.75, -0.25, -1, -1.25}
	for i, r := range s.Rings {
		if r.Node().Position.Z != wantZ[i] {
			t.Errorf("ring %d z = %v, want %v", i, r.Node().Position.Z, wantZ[i])
		}
		if got := r.GlowNode().Position.Z; math.Abs(got-(wantZ[i]+GlowDepthOffset)) > eps {
			t.Errorf("ring %d glow z = %v, want %v", i, got, wantZ[i]+GlowDepthOffset)
		}
	}
}

func TestComposeSharesGeometry(t *testing.T) {
	f := geom.NewFactory()
	a, err := Compose(testSpecs(), Options{Factory: f})
	if err != nil {
		t.Fatal(err)
	}
	b, err := Compose(testSpecs(), Options{Factory: f})
	if err != nil {
		t.Fatal(err)
	}
	for i := range a.Rings {
		if a.Rings[i].Mesh() != b.Rings[i].Mesh() {
			t.Errorf("ring %d: geometry rebuilt for identical radius/tube", i)
		}
	}
	if f.Builds() != RingCount {
		t.Errorf("factory builds = %d, want %d", f.Builds(), RingCount)
	}
}

func TestRingUpdateBeforeMountIsNoop(t *testing.T) {
	r := NewRing(testSpecs()[0], geom.NewFactory())
	r.Update(1)
	if r.State().Rotation != (geom.Vec3{}) {
		t.Errorf("rotation = %v before mount, want zero", r.State().Rotation)
	}
}

func TestRingUpdateTumbles(t *testing.T) {
	r := NewRing(testSpecs()[2], geom.NewFactory())
	r.Mount(geom.NewNode("root"))
	r.SetSpeed(2)

	prev := r.State().Rotation
	for i := 0; i < 10; i++ {
		r.Update(1.0 / 60)
		cur := r.State().Rotation
		if !(cur.X > prev.X && cur.Y > prev.Y && cur.Z > prev.Z) {
			t.Fatalf("frame %d: rotation %v did not increase from %v", i, cur, prev)
		}
		if cur.X != cur.Y || cur.Y != cur.Z {
			t.Fatalf("frame %d: axes diverged: %v", i, cur)
		}
		prev = cur
	}
	if want := 10 * (1.0 / 60) * 2; math.Abs(prev.X-want) > eps {
		t.Errorf("rotation after 10 frames = %v, want %v", prev.X, want)
	}
	if r.Node().Rotation != prev {
		t.Error("node rotation not synced with ring state")
	}
}

func TestRingSpeedNeverNegative(t *testing.T) {
	r := NewRing(testSpecs()[0], geom.NewFactory())
	r.SetSpeed(-3)
	if r.Speed() != 0 {
		t.Errorf("Speed() = %v, want 0", r.Speed())
	}
}

func TestRingEmissiveAndGlowScale(t *testing.T) {
	r := NewRing(testSpecs()[4], geom.NewFactory())
	if got := r.EmissiveIntensity(); math.Abs(got-0.5) > eps {
		t.Errorf("EmissiveIntensity() = %v, want 0.5", got)
	}
	if got := r.GlowScale(); math.Abs(got-3.75) > eps {
		t.Errorf("GlowScale() = %v, want 3.75", got)
	}
	r.SetGlowIntensity(8)
	if got := r.EmissiveIntensity(); math.Abs(got-0.8) > eps {
		t.Errorf("EmissiveIntensity() after change = %v, want 0.8", got)
	}
}

func TestSceneTickDropsSpinUp(t *testing.T) {
	s := mustCompose(t)
	start := time.Unix(100, 0)
	s.Mount(start)

	for i, r := range s.Rings {
		if want := r.Spec().Speed * DefaultSpinUpFactor; math.Abs(r.Speed()-want) > eps {
			t.Errorf("ring %d opening speed = %v, want %v", i, r.Speed(), want)
		}
	}
	if s.Phase() != SpinningUp {
		t.Fatalf("Phase() = %v, want spinning-up", s.Phase())
	}

	s.Tick(start.Add(400*time.Millisecond), 1.0/60)
	if s.Phase() != SpinningUp {
		t.Fatalf("Phase() = %v mid transition", s.Phase())
	}

	s.Tick(start.Add(1500*time.Millisecond), 1.0/60)
	if s.Phase() != Steady {
		t.Fatalf("Phase() = %v after duration, want steady", s.Phase())
	}
	if s.spinUp != nil {
		t.Error("spin-up controller still scheduled after reaching steady")
	}
	if got := s.MeanSpeedRatio(); math.Abs(got-1) > eps {
		t.Errorf("MeanSpeedRatio() = %v, want 1", got)
	}
}

func TestSceneMountOnce(t *testing.T) {
	s := mustCompose(t)
	s.Mount(time.Unix(0, 0))
	s.Tick(time.Unix(2, 0), 0)
	s.Mount(time.Unix(3, 0))
	if s.Phase() != Steady {
		t.Error("second Mount restarted the spin-up")
	}
	if got := len(s.Group.Children()); got != 2*RingCount {
		t.Errorf("group children = %d after second Mount", got)
	}
}

func TestSceneSetGlowIntensity(t *testing.T) {
	s := mustCompose(t)
	s.SetGlowIntensity(2)
	for i, r := range s.Rings {
		if r.GlowIntensity() != 2 {
			t.Errorf("ring %d glow = %v, want 2", i, r.GlowIntensity())
		}
	}
}
