package render

import (
	"math"

	"github.com/iburimskiy/singularity/internal/geom"
	"github.com/iburimskiy/singularity/internal/glow"
)

// Lighting is one ambient term plus one point light.
type Lighting struct {
	Ambient        float64
	PointPosition  geom.Vec3
	PointIntensity float64
}

// DefaultLighting is half ambient and a unit point light in front of the
// emblem.
func DefaultLighting() Lighting {
	return Lighting{Ambient: 0.5, PointPosition: geom.V(0, 0, 10), PointIntensity: 1}
}

// Shade colours one flat, double-sided face with base colour lit by l and
// base*emissive added on top. Channels are clamped to [0, 1].
func Shade(base glow.Color, emissive float64, normal, center, eye geom.Vec3, l Lighting) glow.Color {
	n := normal.Normalize()
	if n.Dot(eye.Sub(center)) < 0 {
		n = n.Scale(-1)
	}
	diffuse := math.Max(0, n.Dot(l.PointPosition.Sub(center).Normalize())) * l.PointIntensity
	k := l.Ambient + diffuse
	return glow.Color{
		R: clamp01(base.R*k + base.R*emissive),
		G: clamp01(base.G*k + base.G*emissive),
		B: clamp01(base.B*k + base.B*emissive),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
