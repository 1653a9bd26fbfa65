// Package render draws a composed scene onto an ebiten screen: a
// painter-sorted, flat-lit triangle pass for the ring meshes and a
// shader-driven billboard pass for the glows.
package render

import (
	"math"

	"github.com/iburimskiy/singularity/internal/geom"
)

// Camera is a fixed perspective camera on the +Z axis looking at the
// origin.
type Camera struct {
	// FOV is the vertical field of view in degrees.
	FOV      float64
	Distance float64
	Near     float64
	Width    float64
	Height   float64
}

// DefaultCamera matches a 75° camera five units from the origin.
func DefaultCamera(width, height float64) Camera {
	return Camera{FOV: 75, Distance: 5, Near: 0.1, Width: width, Height: height}
}

// Eye is the camera position in world space.
func (c Camera) Eye() geom.Vec3 { return geom.V(0, 0, c.Distance) }

// Focal is the projection scale in pixels per unit at depth 1.
func (c Camera) Focal() float64 {
	return (c.Height / 2) / math.Tan(c.FOV*math.Pi/360)
}

// Project maps a world point to screen pixels. depth is the distance in
// front of the camera; ok is false for points behind the near plane.
func (c Camera) Project(p geom.Vec3) (x, y, depth float64, ok bool) {
	depth = c.Distance - p.Z
	if depth < c.Near {
		return 0, 0, depth, false
	}
	f := c.Focal() / depth
	return c.Width/2 + p.X*f, c.Height/2 - p.Y*f, depth, true
}
